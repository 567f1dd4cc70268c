package domain

import (
	"fmt"
)

// ConservationStatus is the IUCN-style extinction risk class of a species.
type ConservationStatus string

const (
	ConservationExtinct              ConservationStatus = "extinct"
	ConservationCriticallyEndangered ConservationStatus = "critically_endangered"
	ConservationEndangered           ConservationStatus = "endangered"
	ConservationVulnerable           ConservationStatus = "vulnerable"
	ConservationNearThreatened       ConservationStatus = "near_threatened"
	ConservationLeastConcern         ConservationStatus = "least_concern"
	ConservationDataDeficient        ConservationStatus = "data_deficient"
)

// AllConservationStatuses lists the statuses from most to least severe.
var AllConservationStatuses = []ConservationStatus{
	ConservationExtinct,
	ConservationCriticallyEndangered,
	ConservationEndangered,
	ConservationVulnerable,
	ConservationNearThreatened,
	ConservationLeastConcern,
	ConservationDataDeficient,
}

// Severity ranks statuses; higher is more threatened.
func (c ConservationStatus) Severity() int {
	switch c {
	case ConservationExtinct:
		return 6
	case ConservationCriticallyEndangered:
		return 5
	case ConservationEndangered:
		return 4
	case ConservationVulnerable:
		return 3
	case ConservationNearThreatened:
		return 2
	case ConservationLeastConcern:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether c is a known status.
func (c ConservationStatus) IsValid() bool {
	for _, s := range AllConservationStatuses {
		if c == s {
			return true
		}
	}
	return false
}

// CollectionProhibited is true for statuses where wild collection is forbidden.
func (c ConservationStatus) CollectionProhibited() bool {
	switch c {
	case ConservationExtinct, ConservationCriticallyEndangered, ConservationEndangered:
		return true
	}
	return false
}

// RequiresPermit is true when a collection permit checklist applies.
func (c ConservationStatus) RequiresPermit() bool {
	return c.CollectionProhibited() || c == ConservationVulnerable
}

func (c ConservationStatus) String() string { return string(c) }

// ParseConservationStatus parses a status case-insensitively.
func ParseConservationStatus(raw string) (ConservationStatus, error) {
	c := ConservationStatus(normalizeEnum(raw))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown conservation status %q", raw)
	}
	return c, nil
}
