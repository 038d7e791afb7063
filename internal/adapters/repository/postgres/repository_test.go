package postgres

import (
	"context"
	"database/sql"
	"sync"
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

func savePlan(t *testing.T, db *sql.DB) *domain.Plan {
	t.Helper()
	plan := &domain.Plan{
		ID:        uuid.New(),
		Name:      "offsite",
		Dates:     []time.Time{day(7), day(8)},
		StartTime: 9 * 60,
		EndTime:   17 * 60,
		IsPublic:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, NewPlanRepository(db).Save(context.Background(), plan))
	return plan
}

func saveGuest(t *testing.T, db *sql.DB, planID uuid.UUID, name string) *domain.GuestUser {
	t.Helper()
	guest := &domain.GuestUser{ID: uuid.New(), PlanID: planID, DisplayName: name, CreatedAt: time.Now()}
	require.NoError(t, NewGuestRepository(db).Create(context.Background(), guest))
	return guest
}

func TestRepositories(t *testing.T) {
	forEachDriver(t, func(t *testing.T, db *sql.DB) {
		t.Run("plans", func(t *testing.T) { testPlanRepository(t, db) })
		t.Run("users and guests", func(t *testing.T) { testIdentityRepositories(t, db) })
		t.Run("timeblocks", func(t *testing.T) { testTimeblockRepository(t, db) })
		t.Run("polls and votes", func(t *testing.T) { testPollAndVoteRepositories(t, db) })
		t.Run("concurrent merges", func(t *testing.T) { testConcurrentMerges(t, db) })
	})
}

func testPlanRepository(t *testing.T, db *sql.DB) {
	ctx := context.Background()
	repo := NewPlanRepository(db)
	creator := &domain.PlatformUser{Email: uuid.NewString() + "@example.com", DisplayName: "Ana"}
	require.NoError(t, NewUserRepository(db).Create(ctx, creator))

	plan := &domain.Plan{
		ID:        uuid.New(),
		Name:      "kickoff",
		Dates:     []time.Time{day(9), day(7)},
		StartTime: 0,
		EndTime:   24 * 60,
		CreatorID: &creator.ID,
		Agenda:    "intro",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Save(ctx, plan))
	assert.ErrorIs(t, repo.Save(ctx, plan), domain.ErrConflict)

	got, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(7), day(9)}, got.Dates)
	assert.Equal(t, domain.ClockTime(24*60), got.EndTime)
	assert.Equal(t, 96, got.SlotsPerDay())
	require.NotNil(t, got.CreatorID)
	assert.Equal(t, creator.ID, *got.CreatorID)
	assert.False(t, got.IsPublic)
	assert.Equal(t, "intro", got.Agenda)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func testIdentityRepositories(t *testing.T, db *sql.DB) {
	ctx := context.Background()
	users := NewUserRepository(db)
	guests := NewGuestRepository(db)
	plan := savePlan(t, db)

	user := &domain.PlatformUser{Email: uuid.NewString() + "@example.com", DisplayName: "Ana"}
	require.NoError(t, users.Create(ctx, user))
	assert.ErrorIs(t, users.Create(ctx, &domain.PlatformUser{Email: user.Email, DisplayName: "dup"}), domain.ErrConflict)

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.DisplayName)

	byEmail, err := users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)

	guest := &domain.GuestUser{ID: uuid.New(), PlanID: plan.ID, DisplayName: "bob", PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, guests.Create(ctx, guest))
	err = guests.Create(ctx, &domain.GuestUser{ID: uuid.New(), PlanID: plan.ID, DisplayName: "bob", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrConflict)

	byName, err := guests.GetByName(ctx, plan.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	open := saveGuest(t, db, plan.ID, "carol")
	byID, err := guests.GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.False(t, byID.HasPassword())

	_, err = guests.GetByName(ctx, plan.ID, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTimeblockRepository(t *testing.T, db *sql.DB) {
	ctx := context.Background()
	repo := NewTimeblockRepository(db)
	plan := savePlan(t, db)
	bob := saveGuest(t, db, plan.ID, "bob").Identity()
	block := func(d, start, end int) domain.Timeblock {
		return domain.Timeblock{PlanID: plan.ID, Identity: bob, Date: day(d), StartSlot: start, EndSlot: end}
	}

	merged, err := repo.Merge(ctx, plan.ID, bob, []domain.Timeblock{block(7, 0, 2)})
	require.NoError(t, err)
	require.Len(t, merged, 1)

	merged, err = repo.Merge(ctx, plan.ID, bob, []domain.Timeblock{block(7, 1, 4), block(8, 6, 8)})
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, domain.Interval{Start: 0, End: 4}, merged[0].Interval())

	all, err := repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bob", all[0].Identity.DisplayName)
	assert.Equal(t, day(7), all[0].Date)

	require.NoError(t, repo.Delete(ctx, plan.ID, bob, []time.Time{day(7)}))
	all, err = repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, day(8), all[0].Date)

	require.NoError(t, repo.Replace(ctx, plan.ID, bob, []domain.Timeblock{block(7, 10, 12), block(7, 11, 14)}))
	all, err = repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.Interval{Start: 10, End: 14}, all[0].Interval())

	require.NoError(t, repo.Delete(ctx, plan.ID, bob, nil))
	all, err = repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testPollAndVoteRepositories(t *testing.T, db *sql.DB) {
	ctx := context.Background()
	polls := NewPollRepository(db)
	votes := NewVoteRepository(db)
	plan := savePlan(t, db)
	bob := saveGuest(t, db, plan.ID, "bob").Identity()

	now := time.Now()
	poll := &domain.Poll{ID: uuid.New(), PlanID: plan.ID, Name: "Which day?", Creator: &bob, CreatedAt: now}
	poll.Options = []domain.PollOption{
		{ID: uuid.New(), PollID: poll.ID, Value: "Tue", CreatedAt: now},
		{ID: uuid.New(), PollID: poll.ID, Value: "Wed", CreatedAt: now},
	}
	require.NoError(t, polls.Save(ctx, poll))

	thu := &domain.PollOption{ID: uuid.New(), PollID: poll.ID, Value: "Thu", CreatedAt: now}
	require.NoError(t, polls.AddOption(ctx, thu))
	assert.ErrorIs(t, polls.AddOption(ctx, &domain.PollOption{ID: uuid.New(), PollID: poll.ID, Value: "Thu", CreatedAt: now}), domain.ErrConflict)

	got, err := polls.GetByID(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, got.Options, 3)
	assert.Equal(t, []string{"Tue", "Wed", "Thu"}, []string{got.Options[0].Value, got.Options[1].Value, got.Options[2].Value})
	require.NotNil(t, got.Creator)
	assert.Equal(t, "bob", got.Creator.DisplayName)

	vote := &domain.Vote{PollID: poll.ID, OptionID: thu.ID, Identity: bob, CreatedAt: now}
	created, err := votes.InsertIfAbsent(ctx, vote)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = votes.InsertIfAbsent(ctx, vote)
	require.NoError(t, err)
	assert.False(t, created)

	_, gotVotes, err := polls.GetWithVotes(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, gotVotes, 1)
	assert.Equal(t, bob.ID, gotVotes[0].Identity.ID)
	assert.Equal(t, "bob", gotVotes[0].Identity.DisplayName)

	removed, err := votes.DeleteIfPresent(ctx, thu.ID, bob)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = votes.DeleteIfPresent(ctx, thu.ID, bob)
	require.NoError(t, err)
	assert.False(t, removed)

	ids, err := polls.ListIDsByPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{poll.ID}, ids)

	_, _, err = polls.GetWithVotes(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func testConcurrentMerges(t *testing.T, db *sql.DB) {
	ctx := context.Background()
	repo := NewTimeblockRepository(db)
	plan := savePlan(t, db)
	bob := saveGuest(t, db, plan.ID, "bob").Identity()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, err := repo.Merge(ctx, plan.ID, bob, []domain.Timeblock{
				{PlanID: plan.ID, Identity: bob, Date: day(7), StartSlot: slot * 2, EndSlot: slot*2 + 2},
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := repo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.Interval{Start: 0, End: 16}, all[0].Interval())
}
