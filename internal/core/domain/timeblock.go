package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Timeblock is one identity's free interval on one candidate date, as the
// half-open slot range [StartSlot, EndSlot).
type Timeblock struct {
	PlanID    uuid.UUID `json:"plan_id"`
	Identity  Identity  `json:"identity"`
	Date      time.Time `json:"date"`
	StartSlot int       `json:"start_slot"`
	EndSlot   int       `json:"end_slot"`
}

// Interval is a half-open slot range.
type Interval struct {
	Start int
	End   int
}

func (b Timeblock) Interval() Interval {
	return Interval{Start: b.StartSlot, End: b.EndSlot}
}

// MergeIntervals coalesces overlapping and adjacent intervals into the
// minimal sorted set. Empty intervals are dropped.
func MergeIntervals(in []Interval) []Interval {
	sorted := make([]Interval, 0, len(in))
	for _, iv := range in {
		if iv.End > iv.Start {
			sorted = append(sorted, iv)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Interval{sorted[0]}
	for _, next := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if next.Start <= cur.End {
			if next.End > cur.End {
				cur.End = next.End
			}
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

type blockGroupKey struct {
	identity string
	day      time.Time
}

// NormalizeTimeblocks merges the blocks of every (identity, date) pair and
// returns them ordered by identity, date and start slot.
func NormalizeTimeblocks(blocks []Timeblock) []Timeblock {
	groups := make(map[blockGroupKey][]Interval)
	heads := make(map[blockGroupKey]Timeblock)
	var order []blockGroupKey

	for _, b := range blocks {
		k := blockGroupKey{identity: b.Identity.Key(), day: TruncateDay(b.Date)}
		if _, ok := heads[k]; !ok {
			heads[k] = b
			order = append(order, k)
		}
		groups[k] = append(groups[k], b.Interval())
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].identity == order[j].identity {
			return order[i].day.Before(order[j].day)
		}
		return order[i].identity < order[j].identity
	})

	var out []Timeblock
	for _, k := range order {
		head := heads[k]
		for _, iv := range MergeIntervals(groups[k]) {
			out = append(out, Timeblock{
				PlanID:    head.PlanID,
				Identity:  head.Identity,
				Date:      k.day,
				StartSlot: iv.Start,
				EndSlot:   iv.End,
			})
		}
	}
	return out
}

// ValidateTimeblocks checks every block against the plan bounds.
func ValidateTimeblocks(plan *Plan, blocks []Timeblock) error {
	slots := plan.SlotsPerDay()
	for _, b := range blocks {
		if err := validateBlock(plan, slots, b); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(plan *Plan, slots int, b Timeblock) error {
	date := FormatDate(b.Date)
	switch {
	case b.PlanID != plan.ID:
		return InvalidInput("timeblock on %s belongs to plan %s", date, b.PlanID)
	case plan.DateIndex(b.Date) < 0:
		return InvalidInput("date %s is not a candidate date of the plan", date)
	case b.StartSlot < 0 || b.EndSlot > slots:
		return InvalidInput("slots [%d,%d) on %s are outside [0,%d)", b.StartSlot, b.EndSlot, date, slots)
	case b.StartSlot >= b.EndSlot:
		return InvalidInput("slots [%d,%d) on %s are empty", b.StartSlot, b.EndSlot, date)
	}
	return nil
}
