// Package calendar classifies the current UTC time against scheduled
// macro events and session liquidity windows. Everything here is a
// deterministic function of the clock.
package calendar

import (
	"time"
)

// Risk grades how dangerous a window is for new entries
type Risk string

const (
	RiskLow      Risk = "LOW"
	RiskMedium   Risk = "MEDIUM"
	RiskHigh     Risk = "HIGH"
	RiskCritical Risk = "CRITICAL"
)

// Event is one active calendar condition
type Event struct {
	Name   string `json:"name"`
	Risk   Risk   `json:"risk"`
	Action string `json:"action"`
}

// Assessment is the full calendar verdict for a point in time
type Assessment struct {
	Events      []Event `json:"events"`
	ShouldPause bool    `json:"should_pause"`
}

// Release hours (UTC) for major US macro prints; a HIGH risk inside
// these hours forces a pause.
var releaseHours = map[int]bool{12: true, 13: true, 14: true}

// Assess evaluates all calendar rules at the given instant
func Assess(now time.Time) Assessment {
	now = now.UTC()
	var events []Event

	// Scheduled macro announcements, +-24h window
	for _, ev := range scheduledEvents {
		delta := now.Sub(ev.Date)
		if delta < 0 {
			delta = -delta
		}
		if delta <= 24*time.Hour {
			events = append(events, Event{
				Name:   ev.Name,
				Risk:   RiskCritical,
				Action: "pause new entries until the announcement window passes",
			})
		}
	}

	if isFirstFriday(now) {
		events = append(events, Event{
			Name:   "nonfarm_payrolls_window",
			Risk:   RiskHigh,
			Action: "avoid entries around the release hour",
		})
	}

	if now.Day() >= 10 && now.Day() <= 15 {
		events = append(events, Event{
			Name:   "mid_month_cpi_window",
			Risk:   RiskMedium,
			Action: "reduce size, expect release volatility",
		})
	}

	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		events = append(events, Event{
			Name:   "weekend_closure",
			Risk:   RiskMedium,
			Action: "forex and stocks closed; crypto trades on thin books",
		})
	}

	events = append(events, sessionEvents(now)...)

	if isLastDayOfMonth(now) {
		events = append(events, Event{
			Name:   "month_end_rebalancing",
			Risk:   RiskMedium,
			Action: "expect rebalancing flows",
		})
	}

	if isQuarterlyExpiry(now) {
		events = append(events, Event{
			Name:   "quarterly_futures_expiry",
			Risk:   RiskHigh,
			Action: "expect elevated volatility into expiry",
		})
	}

	return Assessment{Events: events, ShouldPause: shouldPause(events, now)}
}

// shouldPause is true when any CRITICAL risk is active, or a HIGH risk
// coincides with a release hour
func shouldPause(events []Event, now time.Time) bool {
	for _, ev := range events {
		if ev.Risk == RiskCritical {
			return true
		}
		if ev.Risk == RiskHigh && releaseHours[now.Hour()] {
			return true
		}
	}
	return false
}

// sessionEvents tags the active liquidity session(s)
func sessionEvents(now time.Time) []Event {
	var events []Event
	h := now.Hour()

	if h >= 0 && h < 8 {
		events = append(events, Event{
			Name:   "asian_session",
			Risk:   RiskLow,
			Action: "lower liquidity, wider spreads",
		})
	}
	if h >= 7 && h < 16 {
		events = append(events, Event{
			Name:   "european_session",
			Risk:   RiskLow,
			Action: "normal liquidity",
		})
	}
	if h >= 13 && h < 21 {
		events = append(events, Event{
			Name:   "us_session",
			Risk:   RiskLow,
			Action: "normal liquidity",
		})
	}
	if h >= 13 && h < 16 {
		events = append(events, Event{
			Name:   "eu_us_overlap",
			Risk:   RiskLow,
			Action: "peak liquidity window",
		})
	}
	return events
}

func isFirstFriday(t time.Time) bool {
	return t.Weekday() == time.Friday && t.Day() <= 7
}

func isLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

// isQuarterlyExpiry matches the last Friday of March, June, September
// and December
func isQuarterlyExpiry(t time.Time) bool {
	switch t.Month() {
	case time.March, time.June, time.September, time.December:
	default:
		return false
	}
	return t.Weekday() == time.Friday && t.AddDate(0, 0, 7).Month() != t.Month()
}
