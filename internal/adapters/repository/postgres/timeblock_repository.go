package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type timeblockRepository struct {
	db *sql.DB
}

func NewTimeblockRepository(db *sql.DB) ports.TimeblockRepository {
	return &timeblockRepository{
		db: db,
	}
}

func (r *timeblockRepository) Merge(ctx context.Context, planID uuid.UUID, identity domain.Identity, blocks []domain.Timeblock) ([]domain.Timeblock, error) {
	var merged []domain.Timeblock
	err := r.withIdentityLock(ctx, planID, identity, func(tx *sql.Tx) error {
		existing, err := r.identityBlocks(ctx, tx, planID, identity)
		if err != nil {
			return err
		}

		merged = domain.NormalizeTimeblocks(append(existing, blocks...))
		return r.rewrite(ctx, tx, planID, identity, merged)
	})
	if err != nil {
		return nil, err
	}
	if merged == nil {
		merged = []domain.Timeblock{}
	}
	return merged, nil
}

func (r *timeblockRepository) Replace(ctx context.Context, planID uuid.UUID, identity domain.Identity, blocks []domain.Timeblock) error {
	return r.withIdentityLock(ctx, planID, identity, func(tx *sql.Tx) error {
		return r.rewrite(ctx, tx, planID, identity, domain.NormalizeTimeblocks(blocks))
	})
}

func (r *timeblockRepository) Delete(ctx context.Context, planID uuid.UUID, identity domain.Identity, dates []time.Time) error {
	return r.withIdentityLock(ctx, planID, identity, func(tx *sql.Tx) error {
		if len(dates) == 0 {
			return r.deleteAll(ctx, tx, planID, identity)
		}

		query := `
			DELETE FROM timeblocks
			WHERE plan_id = $1 AND identity_kind = $2 AND identity_id = $3 AND date = $4::date
		`
		for _, d := range dates {
			if _, err := tx.ExecContext(ctx, query, planID, string(identity.Kind), identity.ID, domain.FormatDate(d)); err != nil {
				return fmt.Errorf("failed to delete timeblocks: %w", err)
			}
		}
		return nil
	})
}

func (r *timeblockRepository) ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.Timeblock, error) {
	query := `
		SELECT t.identity_kind, t.identity_id, ` + identityNameColumn + `, t.date, t.start_slot, t.end_slot
		FROM timeblocks t` + identityNameJoin("t") + `
		WHERE t.plan_id = $1
		ORDER BY t.identity_kind, t.identity_id, t.date, t.start_slot
	`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeblocks: %w", err)
	}
	defer rows.Close()

	blocks := []domain.Timeblock{}
	for rows.Next() {
		var (
			kind, name string
			id         uuid.UUID
			b          domain.Timeblock
		)
		if err := rows.Scan(&kind, &id, &name, &b.Date, &b.StartSlot, &b.EndSlot); err != nil {
			return nil, fmt.Errorf("failed to scan timeblock: %w", err)
		}
		identity, err := scannedIdentity(kind, id, name)
		if err != nil {
			return nil, err
		}
		b.PlanID = planID
		b.Identity = identity
		b.Date = domain.TruncateDay(b.Date)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeblocks: %w", err)
	}
	return blocks, nil
}

// withIdentityLock runs fn in a transaction holding an advisory lock scoped
// to (plan, identity), so concurrent writers for one identity serialize.
func (r *timeblockRepository) withIdentityLock(ctx context.Context, planID uuid.UUID, identity domain.Identity, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lockKey := planID.String() + "/" + identity.Key()
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return fmt.Errorf("failed to lock timeblocks: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *timeblockRepository) identityBlocks(ctx context.Context, tx *sql.Tx, planID uuid.UUID, identity domain.Identity) ([]domain.Timeblock, error) {
	query := `
		SELECT date, start_slot, end_slot
		FROM timeblocks
		WHERE plan_id = $1 AND identity_kind = $2 AND identity_id = $3
	`
	rows, err := tx.QueryContext(ctx, query, planID, string(identity.Kind), identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get identity timeblocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.Timeblock
	for rows.Next() {
		b := domain.Timeblock{PlanID: planID, Identity: identity}
		if err := rows.Scan(&b.Date, &b.StartSlot, &b.EndSlot); err != nil {
			return nil, fmt.Errorf("failed to scan timeblock: %w", err)
		}
		b.Date = domain.TruncateDay(b.Date)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeblocks: %w", err)
	}
	return blocks, nil
}

func (r *timeblockRepository) rewrite(ctx context.Context, tx *sql.Tx, planID uuid.UUID, identity domain.Identity, blocks []domain.Timeblock) error {
	if err := r.deleteAll(ctx, tx, planID, identity); err != nil {
		return err
	}

	query := `
		INSERT INTO timeblocks (plan_id, identity_kind, identity_id, date, start_slot, end_slot)
		VALUES ($1, $2, $3, $4::date, $5, $6)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare timeblock statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range blocks {
		_, err := stmt.ExecContext(ctx, planID, string(identity.Kind), identity.ID, domain.FormatDate(b.Date), b.StartSlot, b.EndSlot)
		if err != nil {
			return fmt.Errorf("failed to insert timeblock: %w", err)
		}
	}
	return nil
}

func (r *timeblockRepository) deleteAll(ctx context.Context, tx *sql.Tx, planID uuid.UUID, identity domain.Identity) error {
	query := `DELETE FROM timeblocks WHERE plan_id = $1 AND identity_kind = $2 AND identity_id = $3`
	if _, err := tx.ExecContext(ctx, query, planID, string(identity.Kind), identity.ID); err != nil {
		return fmt.Errorf("failed to delete timeblocks: %w", err)
	}
	return nil
}
