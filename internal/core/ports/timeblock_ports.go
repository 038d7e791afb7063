package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

// TimeblockRepository stores each identity's availability. Every write
// leaves the identity's intervals per date merged; writes for one
// (plan, identity) pair are serialized.
type TimeblockRepository interface {
	// Merge unions blocks with the identity's stored intervals and returns
	// the identity's resulting set.
	Merge(ctx context.Context, planID uuid.UUID, identity domain.Identity, blocks []domain.Timeblock) ([]domain.Timeblock, error)
	// Replace swaps the identity's whole set for blocks.
	Replace(ctx context.Context, planID uuid.UUID, identity domain.Identity, blocks []domain.Timeblock) error
	// Delete removes the identity's blocks on dates, or all of them when dates is empty.
	Delete(ctx context.Context, planID uuid.UUID, identity domain.Identity, dates []time.Time) error
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]domain.Timeblock, error)
}

type TimeblockInput struct {
	Date      string
	StartSlot int
	EndSlot   int
}

type SubmitTimeblocksInput struct {
	PlanID   uuid.UUID
	Identity RawIdentity
	Blocks   []TimeblockInput
}

type AvailabilityService interface {
	Grid(ctx context.Context, planID uuid.UUID) ([][]domain.AvailabilityCell, error)
	ListTimeblocks(ctx context.Context, planID uuid.UUID) ([]domain.Timeblock, error)
	ReplaceTimeblocks(ctx context.Context, input SubmitTimeblocksInput) ([]domain.Timeblock, error)
	MergeTimeblocks(ctx context.Context, input SubmitTimeblocksInput) ([]domain.Timeblock, error)
	RevokeTimeblocks(ctx context.Context, planID uuid.UUID, raw RawIdentity, dates []string) error
}
