package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

func (r *voteRepository) InsertIfAbsent(ctx context.Context, vote *domain.Vote) (bool, error) {
	query := `
		INSERT INTO votes (poll_id, option_id, identity_kind, identity_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (option_id, identity_kind, identity_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		vote.PollID, vote.OptionID, string(vote.Identity.Kind), vote.Identity.ID, vote.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save vote: %w", err)
	}
	return affected(res)
}

func (r *voteRepository) DeleteIfPresent(ctx context.Context, optionID uuid.UUID, identity domain.Identity) (bool, error) {
	query := `
		DELETE FROM votes WHERE option_id = $1 AND identity_kind = $2 AND identity_id = $3
	`
	res, err := r.db.ExecContext(ctx, query, optionID, string(identity.Kind), identity.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vote: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
