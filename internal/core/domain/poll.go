package domain

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID                    uuid.UUID    `json:"id"`
	PlanID                uuid.UUID    `json:"plan_id"`
	Name                  string       `json:"name"`
	Creator               *Identity    `json:"creator,omitempty"`
	AllowAnonymousUpdates bool         `json:"allow_anonymous_updates"`
	Options               []PollOption `json:"options"`
	CreatedAt             time.Time    `json:"created_at"`
}

// Option returns the option with the given id.
func (p *Poll) Option(id uuid.UUID) (PollOption, bool) {
	for _, opt := range p.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return PollOption{}, false
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote marks one identity's selection of one option. The identity kind tells
// a user vote from a guest vote.
type Vote struct {
	PollID    uuid.UUID `json:"poll_id"`
	OptionID  uuid.UUID `json:"option_id"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
}

type PollOptionWithVotes struct {
	PollOption
	UserVotes  []Identity `json:"user_votes"`
	GuestVotes []Identity `json:"guest_votes"`
	TotalVotes int        `json:"total_votes"`
}

type PollWithOptionsAndVotes struct {
	ID                    uuid.UUID             `json:"id"`
	PlanID                uuid.UUID             `json:"plan_id"`
	Name                  string                `json:"name"`
	Creator               *Identity             `json:"creator,omitempty"`
	AllowAnonymousUpdates bool                  `json:"allow_anonymous_updates"`
	Options               []PollOptionWithVotes `json:"options"`
	CreatedAt             time.Time             `json:"created_at"`
}

// TallyVotes groups votes per option. Votes for options outside the poll are
// ignored; each option lists user and guest voters separately.
func TallyVotes(poll *Poll, votes []Vote) *PollWithOptionsAndVotes {
	out := &PollWithOptionsAndVotes{
		ID:                    poll.ID,
		PlanID:                poll.PlanID,
		Name:                  poll.Name,
		Creator:               poll.Creator,
		AllowAnonymousUpdates: poll.AllowAnonymousUpdates,
		Options:               make([]PollOptionWithVotes, len(poll.Options)),
		CreatedAt:             poll.CreatedAt,
	}

	index := make(map[uuid.UUID]int, len(poll.Options))
	for i, opt := range poll.Options {
		index[opt.ID] = i
		out.Options[i] = PollOptionWithVotes{
			PollOption: opt,
			UserVotes:  []Identity{},
			GuestVotes: []Identity{},
		}
	}

	for _, v := range votes {
		i, ok := index[v.OptionID]
		if !ok {
			continue
		}
		opt := &out.Options[i]
		switch v.Identity.Kind {
		case IdentityPlatform:
			opt.UserVotes = append(opt.UserVotes, v.Identity)
		case IdentityGuest:
			opt.GuestVotes = append(opt.GuestVotes, v.Identity)
		}
	}

	for i := range out.Options {
		opt := &out.Options[i]
		opt.TotalVotes = len(opt.UserVotes) + len(opt.GuestVotes)
	}

	return out
}
