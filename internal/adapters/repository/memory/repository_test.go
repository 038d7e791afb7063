package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
)

func day(d int) time.Time {
	return time.Date(2023, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanRepository_ReturnsCopies(t *testing.T) {
	repo := NewPlanRepository(NewStore())
	ctx := context.Background()
	plan := &domain.Plan{ID: uuid.New(), Name: "p", Dates: []time.Time{day(7)}, StartTime: 540, EndTime: 600}
	require.NoError(t, repo.Save(ctx, plan))

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	got.Dates[0] = day(9)

	again, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, day(7), again.Dates[0])

	assert.ErrorIs(t, repo.Save(ctx, plan), domain.ErrConflict)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestUserRepository_EmailUnique(t *testing.T) {
	repo := NewUserRepository(NewStore())
	ctx := context.Background()

	ana := &domain.PlatformUser{Email: "ana@example.com", DisplayName: "Ana"}
	require.NoError(t, repo.Create(ctx, ana))
	assert.NotEqual(t, uuid.Nil, ana.ID)
	assert.False(t, ana.CreatedAt.IsZero())

	err := repo.Create(ctx, &domain.PlatformUser{Email: "ana@example.com", DisplayName: "Other"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGuestRepository_NameUniquePerPlan(t *testing.T) {
	repo := NewGuestRepository(NewStore())
	ctx := context.Background()
	planID := uuid.New()

	require.NoError(t, repo.Create(ctx, &domain.GuestUser{ID: uuid.New(), PlanID: planID, DisplayName: "bob"}))
	err := repo.Create(ctx, &domain.GuestUser{ID: uuid.New(), PlanID: planID, DisplayName: "bob"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, repo.Create(ctx, &domain.GuestUser{ID: uuid.New(), PlanID: uuid.New(), DisplayName: "bob"}))

	got, err := repo.GetByName(ctx, planID, "bob")
	require.NoError(t, err)
	assert.Equal(t, planID, got.PlanID)

	_, err = repo.GetByName(ctx, planID, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTimeblockRepository(t *testing.T) {
	repo := NewTimeblockRepository(NewStore())
	ctx := context.Background()
	planID := uuid.New()
	ana := domain.Identity{Kind: domain.IdentityPlatform, ID: uuid.New()}
	bob := domain.Identity{Kind: domain.IdentityGuest, ID: uuid.New()}
	block := func(who domain.Identity, d, start, end int) domain.Timeblock {
		return domain.Timeblock{PlanID: planID, Identity: who, Date: day(d), StartSlot: start, EndSlot: end}
	}

	merged, err := repo.Merge(ctx, planID, ana, []domain.Timeblock{block(ana, 7, 0, 2)})
	require.NoError(t, err)
	require.Len(t, merged, 1)

	merged, err = repo.Merge(ctx, planID, ana, []domain.Timeblock{block(ana, 7, 2, 4), block(ana, 8, 0, 1)})
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, domain.Interval{Start: 0, End: 4}, merged[0].Interval())

	require.NoError(t, repo.Replace(ctx, planID, bob, []domain.Timeblock{block(bob, 7, 5, 6), block(bob, 7, 1, 3)}))

	all, err := repo.ListByPlan(ctx, planID)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	require.NoError(t, repo.Delete(ctx, planID, ana, []time.Time{day(7)}))
	all, err = repo.ListByPlan(ctx, planID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.Replace(ctx, planID, bob, nil))
	require.NoError(t, repo.Delete(ctx, planID, ana, nil))
	all, err = repo.ListByPlan(ctx, planID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestVoteRepository_InsertAndDeleteReportChanges(t *testing.T) {
	repo := NewVoteRepository(NewStore())
	ctx := context.Background()
	who := domain.Identity{Kind: domain.IdentityGuest, ID: uuid.New()}
	vote := &domain.Vote{PollID: uuid.New(), OptionID: uuid.New(), Identity: who}

	created, err := repo.InsertIfAbsent(ctx, vote)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.InsertIfAbsent(ctx, vote)
	require.NoError(t, err)
	assert.False(t, created)

	removed, err := repo.DeleteIfPresent(ctx, vote.OptionID, who)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteIfPresent(ctx, vote.OptionID, who)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPollRepository_GetWithVotes(t *testing.T) {
	store := NewStore()
	polls := NewPollRepository(store)
	votes := NewVoteRepository(store)
	ctx := context.Background()

	poll := &domain.Poll{ID: uuid.New(), PlanID: uuid.New(), Name: "day"}
	poll.Options = []domain.PollOption{{ID: uuid.New(), PollID: poll.ID, Value: "Tue"}}
	require.NoError(t, polls.Save(ctx, poll))

	extra := &domain.PollOption{ID: uuid.New(), PollID: poll.ID, Value: "Wed"}
	require.NoError(t, polls.AddOption(ctx, extra))
	assert.ErrorIs(t, polls.AddOption(ctx, &domain.PollOption{ID: uuid.New(), PollID: poll.ID, Value: "Wed"}), domain.ErrConflict)

	who := domain.Identity{Kind: domain.IdentityPlatform, ID: uuid.New()}
	_, err := votes.InsertIfAbsent(ctx, &domain.Vote{PollID: poll.ID, OptionID: extra.ID, Identity: who})
	require.NoError(t, err)

	got, gotVotes, err := polls.GetWithVotes(ctx, poll.ID)
	require.NoError(t, err)
	assert.Len(t, got.Options, 2)
	require.Len(t, gotVotes, 1)
	assert.Equal(t, extra.ID, gotVotes[0].OptionID)

	ids, err := polls.ListIDsByPlan(ctx, poll.PlanID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{poll.ID}, ids)

	_, _, err = polls.GetWithVotes(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}
