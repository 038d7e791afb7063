package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

type VoteRepository interface {
	// InsertIfAbsent reports whether a new row was created.
	InsertIfAbsent(ctx context.Context, vote *domain.Vote) (bool, error)
	// DeleteIfPresent reports whether a row was removed.
	DeleteIfPresent(ctx context.Context, optionID uuid.UUID, identity domain.Identity) (bool, error)
}

type VoteInput struct {
	PollID   uuid.UUID
	OptionID uuid.UUID
	Caller   RawIdentity
	// TargetGuestID votes on behalf of a guest of the same plan; only
	// honoured when the poll allows anonymous updates.
	TargetGuestID *uuid.UUID
}

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) error
	Unvote(ctx context.Context, input VoteInput) error
}
