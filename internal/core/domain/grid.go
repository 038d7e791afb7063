package domain

import (
	"errors"
	"time"
)

// AvailabilityCell is one (date, slot) entry of the availability grid.
type AvailabilityCell struct {
	Date       string     `json:"date"`
	Slot       int        `json:"slot"`
	StartsAt   time.Time  `json:"starts_at"`
	Count      int        `json:"count"`
	Identities []Identity `json:"identities"`
}

// BuildGrid sums the timeblocks into a len(plan.Dates) x SlotsPerDay grid
// indexed by date then slot. Blocks for one identity and date are expected
// to be merged already; every block that falls outside the plan is reported.
func BuildGrid(plan *Plan, blocks []Timeblock) ([][]AvailabilityCell, error) {
	slots := plan.SlotsPerDay()

	var errs []error
	for _, b := range blocks {
		if err := validateBlock(plan, slots, b); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	grid := make([][]AvailabilityCell, len(plan.Dates))
	for di, date := range plan.Dates {
		row := make([]AvailabilityCell, slots)
		label := FormatDate(date)
		for s := range row {
			row[s] = AvailabilityCell{
				Date:       label,
				Slot:       s,
				StartsAt:   plan.SlotStart(date, s),
				Identities: []Identity{},
			}
		}
		grid[di] = row
	}

	for _, b := range blocks {
		row := grid[plan.DateIndex(b.Date)]
		for s := b.StartSlot; s < b.EndSlot; s++ {
			row[s].Count++
			row[s].Identities = append(row[s].Identities, b.Identity)
		}
	}

	return grid, nil
}

// TotalCount sums the head-count of every cell.
func TotalCount(grid [][]AvailabilityCell) int {
	total := 0
	for _, row := range grid {
		for _, cell := range row {
			total += cell.Count
		}
	}
	return total
}
