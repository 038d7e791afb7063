package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a meeting-planning session: a set of candidate dates and a daily
// window within which participants mark their availability.
type Plan struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Dates     []time.Time `json:"dates"`
	StartTime ClockTime   `json:"start_time"`
	EndTime   ClockTime   `json:"end_time"`
	IsPublic  bool        `json:"is_public"`
	CreatorID *uuid.UUID  `json:"creator_id,omitempty"`
	Agenda    string      `json:"agenda,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Validate checks the invariants a plan must hold before it is persisted.
func (p *Plan) Validate() error {
	if len(p.Dates) == 0 {
		return InvalidInput("plan must have at least one date")
	}
	if p.StartTime < 0 || p.EndTime > minutesPerDay {
		return InvalidInput("daily window %s-%s is out of range", p.StartTime, p.EndTime)
	}
	if p.StartTime >= p.EndTime {
		return InvalidInput("start_time %s must be before end_time %s", p.StartTime, p.EndTime)
	}
	if !p.StartTime.aligned() || !p.EndTime.aligned() {
		return InvalidInput("daily window must align to %d-minute slots", SlotMinutes)
	}
	return nil
}

// SlotsPerDay is the number of slots in the plan's daily window.
func (p *Plan) SlotsPerDay() int {
	return int(p.EndTime-p.StartTime) / SlotMinutes
}

// DateIndex returns the position of date in p.Dates, or -1.
func (p *Plan) DateIndex(date time.Time) int {
	day := TruncateDay(date)
	for i, d := range p.Dates {
		if d.Equal(day) {
			return i
		}
	}
	return -1
}

// SlotStart is the wall clock instant at which slot begins on date.
func (p *Plan) SlotStart(date time.Time, slot int) time.Time {
	return TruncateDay(date).Add(p.StartTime.Duration() + time.Duration(slot)*SlotDuration)
}

// SlotAt converts a wall clock time to a slot index relative to the window.
func (p *Plan) SlotAt(c ClockTime) (int, error) {
	if !c.aligned() {
		return 0, InvalidInput("%s is not aligned to %d-minute slots", c, SlotMinutes)
	}
	if c < p.StartTime || c > p.EndTime {
		return 0, InvalidInput("%s is outside the plan window %s-%s", c, p.StartTime, p.EndTime)
	}
	return int(c-p.StartTime) / SlotMinutes, nil
}

// TimeAxis derives the plan's bounds from its candidate dates.
func (p *Plan) TimeAxis() (TimeAxis, error) {
	return ComputeTimeAxis(p.Dates)
}
