package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var creatorKind sql.NullString
	var creatorID uuid.NullUUID
	if poll.Creator != nil {
		creatorKind = sql.NullString{String: string(poll.Creator.Kind), Valid: true}
		creatorID = uuid.NullUUID{UUID: poll.Creator.ID, Valid: true}
	}

	queryPoll := `
		INSERT INTO polls (id, plan_id, name, creator_kind, creator_id, allow_anonymous_updates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.PlanID, poll.Name, creatorKind, creatorID, poll.AllowAnonymousUpdates, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (id, poll_id, value, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i, opt := range poll.Options {
		_, err = stmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Value, i, opt.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("duplicate option %q: %w", opt.Value, domain.ErrConflict)
			}
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return r.getPoll(ctx, r.db, id)
}

func (r *pollRepository) AddOption(ctx context.Context, option *domain.PollOption) error {
	query := `
		INSERT INTO poll_options (id, poll_id, value, position, created_at)
		SELECT $1, $2, $3, COALESCE(MAX(position) + 1, 0), $4
		FROM poll_options
		WHERE poll_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, option.ID, option.PollID, option.Value, option.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("option %q already exists: %w", option.Value, domain.ErrConflict)
		}
		return fmt.Errorf("failed to add option: %w", err)
	}
	return nil
}

func (r *pollRepository) ListIDsByPlan(ctx context.Context, planID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM polls WHERE plan_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return ids, nil
}

func (r *pollRepository) GetWithVotes(ctx context.Context, id uuid.UUID) (*domain.Poll, []domain.Vote, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	poll, err := r.getPoll(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	query := `
		SELECT v.option_id, v.identity_kind, v.identity_id, ` + identityNameColumn + `, v.created_at
		FROM votes v` + identityNameJoin("v") + `
		WHERE v.poll_id = $1
		ORDER BY v.created_at, v.identity_kind, v.identity_id
	`
	rows, err := tx.QueryContext(ctx, query, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var (
			kind, name string
			identityID uuid.UUID
			v          = domain.Vote{PollID: id}
		)
		if err := rows.Scan(&v.OptionID, &kind, &identityID, &name, &v.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		if v.Identity, err = scannedIdentity(kind, identityID, name); err != nil {
			return nil, nil, err
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return poll, votes, nil
}

func (r *pollRepository) getPoll(ctx context.Context, q queryer, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT p.id, p.plan_id, p.name, p.creator_kind, p.creator_id,
			COALESCE(u.display_name, g.display_name, ''), p.allow_anonymous_updates, p.created_at
		FROM polls p
		LEFT JOIN users u ON p.creator_kind = 'platform' AND u.id = p.creator_id
		LEFT JOIN guests g ON p.creator_kind = 'guest' AND g.id = p.creator_id
		WHERE p.id = $1
	`

	var (
		poll        domain.Poll
		creatorKind sql.NullString
		creatorID   uuid.NullUUID
		creatorName string
	)
	err := q.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.PlanID, &poll.Name, &creatorKind, &creatorID,
		&creatorName, &poll.AllowAnonymousUpdates, &poll.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	if creatorKind.Valid && creatorID.Valid {
		creator, err := scannedIdentity(creatorKind.String, creatorID.UUID, creatorName)
		if err != nil {
			return nil, err
		}
		poll.Creator = &creator
	}

	options, err := r.fetchOptions(ctx, q, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, q queryer, pollID uuid.UUID) ([]domain.PollOption, error) {
	queryOptions := `
		SELECT id, poll_id, value, created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`
	rows, err := q.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	options := []domain.PollOption{}
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Value, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
