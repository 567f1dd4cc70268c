package regulatory

import (
	"fmt"
	"strings"
	"time"

	"herbcheck/internal/domain"
)

// DefaultRegion is used when a requirements lookup names no region.
const DefaultRegion = "india"

// RegionalRestrictions notes where a species may not be collected.
type RegionalRestrictions struct {
	RestrictedAreas []string `json:"restricted_areas"`
	Reason          string   `json:"reason"`
}

// Requirements is the regulatory bundle for one species in one region.
type Requirements struct {
	Species              string                `json:"species"`
	Region               string                `json:"region"`
	Authorities          []string              `json:"regulatory_authorities"`
	GeneralRequirements  []string              `json:"general_requirements"`
	QualityStandards     map[string]Limit      `json:"quality_standards"`
	Documentation        []string              `json:"documentation_required"`
	Certificates         []string              `json:"compliance_certificates"`
	SpecialPermits       []string              `json:"special_permits,omitempty"`
	RegionalRestrictions *RegionalRestrictions `json:"regional_restrictions,omitempty"`
	FetchedAt            time.Time             `json:"fetched_at"`
}

// RequirementsCacheKey is the cache key for a species/region pair.
func RequirementsCacheKey(species, region string) string {
	return fmt.Sprintf("%s_%s_requirements", normalizeName(species), normalizeName(region))
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// synthesizeRequirements builds the fixed bundle, adding special permits and
// regional notes when the species is known to the catalog.
func synthesizeRequirements(species, region string, known *domain.Species, standards QualityStandards, now time.Time) Requirements {
	req := Requirements{
		Species: species,
		Region:  region,
		Authorities: []string{
			"National Medicinal Plants Board (NMPB)",
			"Ministry of AYUSH",
			"State Forest Department",
		},
		GeneralRequirements: []string{
			"Follow Good Agricultural and Collection Practices (GACP)",
			"Maintain collection records",
			"Ensure proper identification of species",
			"Follow sustainable harvesting methods",
		},
		QualityStandards: standards.Limits(),
		Documentation: []string{
			"Collection location coordinates",
			"Collection date and time",
			"Collector identification",
			"Species verification",
			"Quantity collected",
		},
		Certificates: []string{
			"Organic certification (if applicable)",
			"Quality test certificates",
			"Sustainability compliance certificate",
		},
		FetchedAt: now,
	}

	if known == nil {
		return req
	}
	if known.ConservationStatus.CollectionProhibited() {
		req.SpecialPermits = []string{
			"Wildlife Protection Act clearance",
			"CITES permit (if applicable)",
			"State Forest Department permission",
		}
	}
	if len(known.RestrictedRegions) > 0 {
		req.RegionalRestrictions = &RegionalRestrictions{
			RestrictedAreas: append([]string(nil), known.RestrictedRegions...),
			Reason:          "Conservation or biodiversity protection",
		}
	}
	return req
}
