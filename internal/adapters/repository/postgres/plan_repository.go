package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type planRepository struct {
	db *sql.DB
}

func NewPlanRepository(db *sql.DB) ports.PlanRepository {
	return &planRepository{
		db: db,
	}
}

func (r *planRepository) Save(ctx context.Context, plan *domain.Plan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPlan := `
		INSERT INTO plans (id, name, start_time, end_time, is_public, creator_id, agenda, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, queryPlan,
		plan.ID, plan.Name, int(plan.StartTime), int(plan.EndTime),
		plan.IsPublic, plan.CreatorID, plan.Agenda, plan.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("plan %s already exists: %w", plan.ID, domain.ErrConflict)
		}
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	queryDate := `
		INSERT INTO plan_dates (plan_id, date)
		VALUES ($1, $2::date)
		ON CONFLICT DO NOTHING
	`
	stmt, err := tx.PrepareContext(ctx, queryDate)
	if err != nil {
		return fmt.Errorf("failed to prepare date statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range plan.Dates {
		if _, err := stmt.ExecContext(ctx, plan.ID, domain.FormatDate(d)); err != nil {
			return fmt.Errorf("failed to insert plan date: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	queryPlan := `
		SELECT id, name, start_time, end_time, is_public, creator_id, agenda, created_at
		FROM plans
		WHERE id = $1
	`

	var (
		plan       domain.Plan
		start, end int
		creatorID  uuid.NullUUID
	)
	err := r.db.QueryRowContext(ctx, queryPlan, id).Scan(
		&plan.ID, &plan.Name, &start, &end, &plan.IsPublic, &creatorID, &plan.Agenda, &plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	plan.StartTime = domain.ClockTime(start)
	plan.EndTime = domain.ClockTime(end)
	if creatorID.Valid {
		plan.CreatorID = &creatorID.UUID
	}

	dates, err := r.fetchDates(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	plan.Dates = dates

	return &plan, nil
}

func (r *planRepository) fetchDates(ctx context.Context, planID uuid.UUID) ([]time.Time, error) {
	queryDates := `
		SELECT date
		FROM plan_dates
		WHERE plan_id = $1
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, queryDates, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan plan date: %w", err)
		}
		dates = append(dates, domain.TruncateDay(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan dates: %w", err)
	}
	return dates, nil
}
