package domain

import (
	"fmt"
	"time"
)

// HarvestSeason is one of the calendar buckets governing legal harvest timing.
type HarvestSeason string

const (
	SeasonSpring      HarvestSeason = "spring"
	SeasonSummer      HarvestSeason = "summer"
	SeasonMonsoon     HarvestSeason = "monsoon"
	SeasonPostMonsoon HarvestSeason = "post_monsoon"
	SeasonWinter      HarvestSeason = "winter"
)

// IsValid reports whether s is a known season.
func (s HarvestSeason) IsValid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonMonsoon, SeasonPostMonsoon, SeasonWinter:
		return true
	}
	return false
}

func (s HarvestSeason) String() string { return string(s) }

// ParseHarvestSeason parses a season case-insensitively.
func ParseHarvestSeason(raw string) (HarvestSeason, error) {
	s := HarvestSeason(normalizeEnum(raw))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown harvest season %q", raw)
	}
	return s, nil
}

// SeasonFor maps a date to its season by month: Dec-Feb winter, Mar-May
// spring, Jun-Aug monsoon, Sep-Nov post_monsoon. Summer is never returned.
func SeasonFor(t time.Time) HarvestSeason {
	switch t.Month() {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonMonsoon
	default:
		return SeasonPostMonsoon
	}
}

// ContainsSeason reports whether s is in seasons.
func ContainsSeason(seasons []HarvestSeason, s HarvestSeason) bool {
	for _, candidate := range seasons {
		if candidate == s {
			return true
		}
	}
	return false
}
