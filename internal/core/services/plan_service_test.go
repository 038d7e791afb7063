package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/meettogether/internal/core/domain"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
)

func TestPlanService_Create(t *testing.T) {
	app := setupTestApp(t)
	ctx := context.Background()
	creator := app.createUser(t, "ana")

	plan, err := app.plans.Create(ctx, ports.CreatePlanInput{
		Name:      "  Kickoff ",
		Dates:     []string{"2023-03-09", "2023-03-07", "2023-03-09T14:00:00Z"},
		StartTime: "08:30",
		EndTime:   "12:00",
		Creator:   creator,
	})
	require.NoError(t, err)

	assert.Equal(t, "Kickoff", plan.Name)
	assert.Equal(t, []time.Time{
		time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC),
	}, plan.Dates)
	assert.Equal(t, 14, plan.SlotsPerDay())
	require.NotNil(t, plan.CreatorID)
	assert.Equal(t, creator.ID, *plan.CreatorID)

	view, err := app.plans.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Dates[0], view.Axis.Soonest)
	assert.Equal(t, plan.Dates[1].Add(15*time.Minute), view.Axis.Latest)
	assert.Equal(t, 14, view.SlotsPerDay)
}

func TestPlanService_CreateRejects(t *testing.T) {
	app := setupTestApp(t)

	tests := map[string]ports.CreatePlanInput{
		"no dates":       {Name: "x", StartTime: "09:00", EndTime: "10:00"},
		"bad date":       {Name: "x", Dates: []string{"soon"}, StartTime: "09:00", EndTime: "10:00"},
		"no name":        {Dates: []string{"2023-03-07"}, StartTime: "09:00", EndTime: "10:00"},
		"inverted times": {Name: "x", Dates: []string{"2023-03-07"}, StartTime: "10:00", EndTime: "09:00"},
		"unaligned":      {Name: "x", Dates: []string{"2023-03-07"}, StartTime: "09:05", EndTime: "10:00"},
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := app.plans.Create(context.Background(), input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPlanService_GetPlanNotFound(t *testing.T) {
	app := setupTestApp(t)

	_, err := app.plans.GetPlan(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanService_TimeAxisMemoized(t *testing.T) {
	app := setupTestApp(t)
	plan := app.createPlan(t)

	first, err := app.plans.TimeAxis(plan)
	require.NoError(t, err)

	reordered := *plan
	reordered.Dates = []time.Time{plan.Dates[1], plan.Dates[0], plan.Dates[1]}
	second, err := app.plans.TimeAxis(&reordered)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = app.plans.TimeAxis(&domain.Plan{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
