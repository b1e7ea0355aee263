// Package aggregate derives read-only views from a ledger snapshot.
//
// Everything here is a pure function of the subscriptions passed in and the
// supplied "now"; nothing is cached between calls.
//
// Days-until-renewal is computed by a RenewalWindow strategy. CalendarWindow
// compares calendar dates only and is the default. CeilingWindow rounds the
// real-valued difference up, so a renewal a few hours in the past still counts
// as "today"; it is kept as the legacy mode.
package aggregate

import (
	"fmt"
	"math"
	"time"

	"subledger/internal/core"
)

// RenewalHorizonDays is the forward-looking window for upcoming renewals.
const RenewalHorizonDays = 7

// RenewalWindow decides how many days remain until a renewal date.
type RenewalWindow interface {
	DaysUntil(renewal core.Date, now time.Time) int
}

// CalendarWindow counts whole calendar days between today's date in
// Location and the renewal date. Time of day is ignored.
type CalendarWindow struct {
	Location *time.Location
}

func (w CalendarWindow) DaysUntil(renewal core.Date, now time.Time) int {
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	today := core.DateOf(now.In(loc))
	return int(math.Round(renewal.Sub(today.Time).Hours() / 24))
}

// CeilingWindow takes the ceiling of the real-valued day difference between
// the renewal date (UTC midnight) and now.
type CeilingWindow struct{}

func (CeilingWindow) DaysUntil(renewal core.Date, now time.Time) int {
	days := float64(renewal.Sub(now)) / float64(24*time.Hour)
	return int(math.Ceil(days))
}

// InHorizon reports whether days falls in [0, RenewalHorizonDays].
func InHorizon(days int) bool {
	return days >= 0 && days <= RenewalHorizonDays
}

const (
	ModeCalendar = "calendar"
	ModeCeiling  = "ceiling"
)

// WindowForMode returns the strategy named by a config value.
func WindowForMode(mode string, loc *time.Location) (RenewalWindow, error) {
	switch mode {
	case ModeCalendar, "":
		return CalendarWindow{Location: loc}, nil
	case ModeCeiling:
		return CeilingWindow{}, nil
	default:
		return nil, fmt.Errorf("unknown renewal mode: %s", mode)
	}
}
