// Package dateutil holds the date helpers every view shares: day offsets
// from today, same-day checks and locale formatting.
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the stored date format.
const ISOLayout = "2006-01-02"

// Clock returns the current time.
type Clock func() time.Time

// Locale controls formatting and the D-day vocabulary.
type Locale struct {
	Name       string
	DateLayout string
	Today      string
	Tomorrow   string
}

var (
	Korean  = Locale{Name: "ko", DateLayout: "2006년 1월 2일", Today: "오늘", Tomorrow: "내일"}
	English = Locale{Name: "en", DateLayout: "January 2, 2006", Today: "Today", Tomorrow: "Tomorrow"}
)

// LocaleByName falls back to Korean for unknown names.
func LocaleByName(name string) Locale {
	if strings.EqualFold(name, English.Name) {
		return English
	}
	return Korean
}

// Dates evaluates dates against a clock in a fixed location.
type Dates struct {
	Now    Clock
	Loc    *time.Location
	Locale Locale
}

// New returns Dates using the local time zone. A nil clock means time.Now.
func New(now Clock, locale Locale) *Dates {
	if now == nil {
		now = time.Now
	}
	return &Dates{Now: now, Loc: time.Local, Locale: locale}
}

func (d *Dates) loc() *time.Location {
	if d.Loc == nil {
		return time.Local
	}
	return d.Loc
}

// Today is local midnight of the current day.
func (d *Dates) Today() time.Time {
	return Midnight(d.Now().In(d.loc()))
}

// Parse reads an ISO date or an RFC 3339 timestamp and normalizes it to
// local midnight.
func (d *Dates) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(ISOLayout, s, d.loc()); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Midnight(t.In(d.loc())), nil
}

// DaysUntil returns the whole-day offset from today to date, negative for
// past dates. ok is false for empty or unparseable input.
func (d *Dates) DaysUntil(date string) (days int, ok bool) {
	t, err := d.Parse(date)
	if err != nil {
		return 0, false
	}
	return DaysBetween(d.Today(), t), true
}

// IsSameDay reports whether date falls on today's calendar date.
func (d *Dates) IsSameDay(date string) bool {
	days, ok := d.DaysUntil(date)
	return ok && days == 0
}

// Format renders date as a long localized date; "" for absent or bad input.
func (d *Dates) Format(date string) string {
	t, err := d.Parse(date)
	if err != nil {
		return ""
	}
	return t.Format(d.Locale.DateLayout)
}

// DDayLabel renders a day offset: today, tomorrow, D-n, or D+n for the past.
func (d *Dates) DDayLabel(days int) string {
	switch {
	case days == 0:
		return d.Locale.Today
	case days == 1:
		return d.Locale.Tomorrow
	case days > 0:
		return fmt.Sprintf("D-%d", days)
	default:
		return fmt.Sprintf("D+%d", -days)
	}
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b. Dates are compared as day
// numbers of their y/m/d in UTC, so DST shifts never produce 23 or 25 hour
// days and distant dates do not hit the Duration limit.
func DaysBetween(a, b time.Time) int {
	return int(dayNumber(b) - dayNumber(a))
}

func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// ISODate formats t's calendar date as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(ISOLayout)
}
