package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/rinkwatch/internal/config"
)

// matchesSessionType reports whether a session type passes the configured
// type filter (substring match, case-insensitive). No filter passes all.
func matchesSessionType(cfg config.Config, sessionType string) bool {
	if len(cfg.MonitorSessionTypes) == 0 {
		return true
	}
	lower := strings.ToLower(sessionType)
	for _, t := range cfg.MonitorSessionTypes {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// matchesDateFilter reports whether a scraped date/time description passes
// the configured date and weekday criteria. Sites render dates as prose
// ("Tuesday 4th November 11:45am"), so a configured YYYY-MM-DD target is
// matched against the common textual spellings of its day and month.
// With no criteria configured every session passes.
func matchesDateFilter(cfg config.Config, dateTime string) bool {
	lower := strings.ToLower(dateTime)

	for _, target := range cfg.MonitorDates {
		if strings.Contains(dateTime, target) {
			return true
		}
		t, err := time.Parse("2006-01-02", target)
		if err != nil {
			continue
		}
		day := t.Day()
		monthFull := strings.ToLower(t.Month().String())
		monthShort := monthFull[:3]

		dayOrdinal := fmt.Sprintf("%d%s", day, ordinalSuffix(day))
		if strings.Contains(lower, dayOrdinal) &&
			(strings.Contains(lower, monthFull) || strings.Contains(lower, monthShort)) {
			return true
		}
		for _, form := range []string{
			fmt.Sprintf("%d %s", day, monthFull),
			fmt.Sprintf("%d %s", day, monthShort),
			fmt.Sprintf("%s %d", monthFull, day),
			fmt.Sprintf("%s %d", monthShort, day),
		} {
			if strings.Contains(lower, form) {
				return true
			}
		}
	}

	for _, wd := range cfg.MonitorDays {
		if strings.Contains(lower, strings.ToLower(wd.String())) {
			return true
		}
	}

	return len(cfg.MonitorDates) == 0 && len(cfg.MonitorDays) == 0
}

func ordinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	}
	return "th"
}
