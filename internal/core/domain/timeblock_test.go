package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{"empty", nil, nil},
		{"single", []Interval{{2, 4}}, []Interval{{2, 4}}},
		{"overlapping", []Interval{{0, 2}, {1, 4}}, []Interval{{0, 4}}},
		{"adjacent", []Interval{{0, 2}, {2, 3}}, []Interval{{0, 3}}},
		{"contained", []Interval{{0, 8}, {2, 3}}, []Interval{{0, 8}}},
		{"disjoint unsorted", []Interval{{6, 8}, {0, 2}}, []Interval{{0, 2}, {6, 8}}},
		{"drops empty", []Interval{{3, 3}, {5, 4}, {1, 2}}, []Interval{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeIntervals(tt.in))
		})
	}
}

func TestNormalizeTimeblocks(t *testing.T) {
	planID := uuid.New()
	ana := Identity{Kind: IdentityPlatform, ID: uuid.New(), DisplayName: "Ana"}
	bob := Identity{Kind: IdentityGuest, ID: uuid.New(), DisplayName: "Bob"}
	day := time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC)

	got := NormalizeTimeblocks([]Timeblock{
		{PlanID: planID, Identity: ana, Date: day.Add(9 * time.Hour), StartSlot: 1, EndSlot: 4},
		{PlanID: planID, Identity: bob, Date: day, StartSlot: 0, EndSlot: 2},
		{PlanID: planID, Identity: ana, Date: day, StartSlot: 0, EndSlot: 2},
		{PlanID: planID, Identity: ana, Date: day.AddDate(0, 0, 1), StartSlot: 6, EndSlot: 8},
	})

	require.Len(t, got, 3)
	byIdentity := map[string][]Timeblock{}
	for _, b := range got {
		byIdentity[b.Identity.Key()] = append(byIdentity[b.Identity.Key()], b)
	}

	anaBlocks := byIdentity[ana.Key()]
	require.Len(t, anaBlocks, 2)
	assert.Equal(t, day, anaBlocks[0].Date)
	assert.Equal(t, Interval{0, 4}, anaBlocks[0].Interval())
	assert.Equal(t, day.AddDate(0, 0, 1), anaBlocks[1].Date)
	assert.Equal(t, Interval{6, 8}, anaBlocks[1].Interval())

	assert.Equal(t, Interval{0, 2}, byIdentity[bob.Key()][0].Interval())
}

func TestNormalizeTimeblocks_KindsDoNotCollide(t *testing.T) {
	id := uuid.New()
	day := time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC)

	got := NormalizeTimeblocks([]Timeblock{
		{Identity: Identity{Kind: IdentityPlatform, ID: id}, Date: day, StartSlot: 0, EndSlot: 2},
		{Identity: Identity{Kind: IdentityGuest, ID: id}, Date: day, StartSlot: 1, EndSlot: 3},
	})

	assert.Len(t, got, 2)
}

func TestValidateTimeblocks(t *testing.T) {
	plan := testPlan(t)
	day := plan.Dates[0]
	who := Identity{Kind: IdentityGuest, ID: uuid.New()}

	ok := Timeblock{PlanID: plan.ID, Identity: who, Date: day, StartSlot: 0, EndSlot: plan.SlotsPerDay()}
	require.NoError(t, ValidateTimeblocks(plan, []Timeblock{ok}))

	tests := map[string]func(b *Timeblock){
		"other plan":        func(b *Timeblock) { b.PlanID = uuid.New() },
		"unknown date":      func(b *Timeblock) { b.Date = day.AddDate(0, 1, 0) },
		"negative start":    func(b *Timeblock) { b.StartSlot = -1 },
		"spans midnight":    func(b *Timeblock) { b.EndSlot = plan.SlotsPerDay() + 1 },
		"empty":             func(b *Timeblock) { b.EndSlot = b.StartSlot },
		"inverted interval": func(b *Timeblock) { b.StartSlot, b.EndSlot = 4, 2 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			b := ok
			mutate(&b)
			assert.ErrorIs(t, ValidateTimeblocks(plan, []Timeblock{b}), ErrInvalidInput)
		})
	}
}
