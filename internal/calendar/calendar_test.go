package calendar

import (
	"testing"
	"time"
)

func hasEvent(a Assessment, name string) bool {
	for _, ev := range a.Events {
		if ev.Name == name {
			return true
		}
	}
	return false
}

func TestAssessScheduledAnnouncement(t *testing.T) {
	// Morning of a scheduled FOMC decision day
	now := time.Date(2026, time.March, 18, 10, 0, 0, 0, time.UTC)
	a := Assess(now)

	if !hasEvent(a, "fomc_rate_decision") {
		t.Errorf("inside the 24h announcement window the event should be active, got %+v", a.Events)
	}
	if !a.ShouldPause {
		t.Error("a CRITICAL announcement window must force a pause")
	}

	// Two days later the window has passed
	later := Assess(time.Date(2026, time.March, 20, 16, 0, 0, 0, time.UTC))
	if hasEvent(later, "fomc_rate_decision") {
		t.Errorf("outside the 24h window the event should be gone, got %+v", later.Events)
	}
}

func TestAssessNonfarmPayrollsWindow(t *testing.T) {
	// First Friday of March 2026, during the US release hour
	release := Assess(time.Date(2026, time.March, 6, 13, 30, 0, 0, time.UTC))
	if !hasEvent(release, "nonfarm_payrolls_window") {
		t.Errorf("first Friday should flag the NFP window, got %+v", release.Events)
	}
	if !release.ShouldPause {
		t.Error("HIGH risk during a release hour must force a pause")
	}

	// Same day, hours before the release
	early := Assess(time.Date(2026, time.March, 6, 2, 0, 0, 0, time.UTC))
	if !hasEvent(early, "nonfarm_payrolls_window") {
		t.Errorf("NFP window should still be flagged early in the day, got %+v", early.Events)
	}
	if early.ShouldPause {
		t.Error("HIGH risk outside release hours should not force a pause")
	}
}

func TestAssessWeekend(t *testing.T) {
	a := Assess(time.Date(2026, time.August, 30, 5, 0, 0, 0, time.UTC)) // Sunday
	if !hasEvent(a, "weekend_closure") {
		t.Errorf("Sunday should flag the weekend closure, got %+v", a.Events)
	}
	if a.ShouldPause {
		t.Error("MEDIUM weekend risk alone should not force a pause")
	}
}

func TestAssessCPIWindow(t *testing.T) {
	a := Assess(time.Date(2026, time.August, 12, 9, 0, 0, 0, time.UTC))
	if !hasEvent(a, "mid_month_cpi_window") {
		t.Errorf("days 10-15 should flag the CPI window, got %+v", a.Events)
	}
}

func TestAssessSessions(t *testing.T) {
	overlap := Assess(time.Date(2026, time.August, 19, 14, 0, 0, 0, time.UTC))
	if !hasEvent(overlap, "eu_us_overlap") {
		t.Errorf("14:00 UTC should be inside the EU/US overlap, got %+v", overlap.Events)
	}

	asian := Assess(time.Date(2026, time.August, 19, 3, 0, 0, 0, time.UTC))
	if !hasEvent(asian, "asian_session") {
		t.Errorf("03:00 UTC should be inside the Asian session, got %+v", asian.Events)
	}
}

func TestAssessQuarterlyExpiry(t *testing.T) {
	// Last Friday of June 2026
	a := Assess(time.Date(2026, time.June, 26, 9, 0, 0, 0, time.UTC))
	if !hasEvent(a, "quarterly_futures_expiry") {
		t.Errorf("last Friday of a quarter month should flag expiry, got %+v", a.Events)
	}
}

func TestAssessMonthEnd(t *testing.T) {
	a := Assess(time.Date(2026, time.May, 31, 9, 0, 0, 0, time.UTC))
	if !hasEvent(a, "month_end_rebalancing") {
		t.Errorf("last day of the month should flag rebalancing, got %+v", a.Events)
	}
}
