package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/meettogether/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

type testApp struct {
	users        ports.UserRepository
	guests       ports.GuestRepository
	plans        ports.PlanService
	identities   ports.IdentityService
	availability ports.AvailabilityService
	polls        ports.PollService
	votes        ports.VoteService
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	store := memory.NewStore()

	planRepo := memory.NewPlanRepository(store)
	guestRepo := memory.NewGuestRepository(store)
	pollRepo := memory.NewPollRepository(store)
	identities := NewIdentityService(planRepo, guestRepo)

	return &testApp{
		users:        memory.NewUserRepository(store),
		guests:       guestRepo,
		plans:        NewPlanService(planRepo),
		identities:   identities,
		availability: NewAvailabilityService(planRepo, memory.NewTimeblockRepository(store), identities),
		polls:        NewPollService(planRepo, pollRepo, identities),
		votes:        NewVoteService(planRepo, pollRepo, guestRepo, memory.NewVoteRepository(store), identities),
	}
}

func (a *testApp) createPlan(t *testing.T) *domain.Plan {
	t.Helper()
	plan, err := a.plans.Create(context.Background(), ports.CreatePlanInput{
		Name:      "Team offsite",
		Dates:     []string{"2023-03-07", "2023-03-08"},
		StartTime: "09:00",
		EndTime:   "17:00",
		IsPublic:  true,
	})
	require.NoError(t, err)
	return plan
}

func (a *testApp) createUser(t *testing.T, name string) *domain.PlatformUser {
	t.Helper()
	user := &domain.PlatformUser{Email: name + "@example.com", DisplayName: name}
	require.NoError(t, a.users.Create(context.Background(), user))
	return user
}

func (a *testApp) guestLogin(t *testing.T, plan *domain.Plan, name, password string) ports.RawIdentity {
	t.Helper()
	guest, err := a.identities.GuestLogin(context.Background(), ports.GuestLoginInput{
		PlanID:   plan.ID,
		Name:     name,
		Password: password,
	})
	require.NoError(t, err)
	return ports.RawIdentity{GuestID: guest.ID.String(), GuestPassword: password}
}

func session(user *domain.PlatformUser) ports.RawIdentity {
	return ports.RawIdentity{Session: user}
}
