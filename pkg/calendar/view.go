package calendar

import (
	"time"

	"github.com/harrisonrobin/archsync/pkg/model"
)

// ViewState is the month the dashboard calendar is showing.
type ViewState struct {
	Year  int
	Month time.Month
}

// NewViewState starts at the month containing now.
func NewViewState(now time.Time) ViewState {
	return ViewState{Year: now.Year(), Month: now.Month()}
}

// Next moves one month forward, rolling December into January.
func (v ViewState) Next() ViewState {
	if v.Month == time.December {
		return ViewState{Year: v.Year + 1, Month: time.January}
	}
	return ViewState{Year: v.Year, Month: v.Month + 1}
}

// Prev moves one month back, rolling January into December.
func (v ViewState) Prev() ViewState {
	if v.Month == time.January {
		return ViewState{Year: v.Year - 1, Month: time.December}
	}
	return ViewState{Year: v.Year, Month: v.Month - 1}
}

// Shift applies delta months; negative moves back.
func (v ViewState) Shift(delta int) ViewState {
	for ; delta > 0; delta-- {
		v = v.Next()
	}
	for ; delta < 0; delta++ {
		v = v.Prev()
	}
	return v
}

// Build renders the month v points at.
func (v ViewState) Build(b *Builder, events []model.Event) Grid {
	return b.BuildMonthGrid(v.Year, v.Month, events)
}
