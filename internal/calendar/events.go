package calendar

import "time"

// scheduledEvent is one dated macro announcement
type scheduledEvent struct {
	Name string
	Date time.Time
}

// scheduledEvents pins the known 2026 announcement calendar. Replace
// this table with an external feed to extend coverage; evaluation logic
// does not depend on the source.
var scheduledEvents = []scheduledEvent{
	{"fomc_rate_decision", utc(2026, time.January, 28)},
	{"fomc_rate_decision", utc(2026, time.March, 18)},
	{"fomc_rate_decision", utc(2026, time.April, 29)},
	{"fomc_rate_decision", utc(2026, time.June, 17)},
	{"fomc_rate_decision", utc(2026, time.July, 29)},
	{"fomc_rate_decision", utc(2026, time.September, 16)},
	{"fomc_rate_decision", utc(2026, time.October, 28)},
	{"fomc_rate_decision", utc(2026, time.December, 9)},
	{"ecb_rate_decision", utc(2026, time.February, 5)},
	{"ecb_rate_decision", utc(2026, time.March, 26)},
	{"ecb_rate_decision", utc(2026, time.June, 11)},
	{"ecb_rate_decision", utc(2026, time.September, 10)},
	{"ecb_rate_decision", utc(2026, time.December, 17)},
}

func utc(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 14, 0, 0, 0, time.UTC)
}
