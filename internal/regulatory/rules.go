package regulatory

import (
	"fmt"
	"strings"
	"time"

	"herbcheck/internal/domain"
)

// Rule check names reported in domain.RuleCheck.Name.
const (
	RuleConservation = "conservation_status"
	RuleSeason       = "seasonal_restrictions"
	RuleQuantity     = "quantity_limits"
	RuleRegion       = "regional_restrictions"
	RulePermit       = "permit_requirements"
)

// RegionUnknown is reported when no location accompanies the request.
const RegionUnknown = "Unknown"

var quantityCeilings = map[domain.ConservationStatus]float64{
	domain.ConservationExtinct:              0,
	domain.ConservationCriticallyEndangered: 0,
	domain.ConservationEndangered:           0,
	domain.ConservationVulnerable:           10,
	domain.ConservationNearThreatened:       50,
	domain.ConservationDataDeficient:        25,
	domain.ConservationLeastConcern:         100,
}

const defaultQuantityCeiling = 50

// QuantityCeiling returns the maximum kg per collection event for a status.
func QuantityCeiling(c domain.ConservationStatus) float64 {
	if limit, ok := quantityCeilings[c]; ok {
		return limit
	}
	return defaultQuantityCeiling
}

// DetectRegion maps coordinates to a coarse Indian region label.
func DetectRegion(lat, lon float64) string {
	switch {
	case lat > 28:
		return "Northern India"
	case lat < 15:
		return "Southern India"
	case lon < 77:
		return "Western India"
	case lon > 85:
		return "Eastern India"
	default:
		return "Central India"
	}
}

func checkConservation(species domain.Species) domain.RuleCheck {
	rc := newRuleCheck(RuleConservation, domain.StatusCompliant)
	switch {
	case species.ConservationStatus.CollectionProhibited():
		rc.Status = domain.StatusNonCompliant
		rc.Restrictions = append(rc.Restrictions, "Collection prohibited for endangered species")
		rc.Requirements = append(rc.Requirements, "Special permit required from forest department")
		rc.Recommendations = append(rc.Recommendations, "Consider cultivation instead of wild collection")
	case species.ConservationStatus == domain.ConservationVulnerable:
		rc.Status = domain.StatusRequiresReview
		rc.Restrictions = append(rc.Restrictions, "Limited collection allowed with permits")
		rc.Requirements = append(rc.Requirements, "Sustainable harvesting plan required")
		rc.Recommendations = append(rc.Recommendations, "Monitor collection impact on population")
	case species.ConservationStatus == domain.ConservationNearThreatened:
		rc.Requirements = append(rc.Requirements, "Follow sustainable collection practices")
		rc.Recommendations = append(rc.Recommendations, "Contribute to conservation efforts")
	default:
		rc.Requirements = append(rc.Requirements, "Follow standard collection guidelines")
		rc.Recommendations = append(rc.Recommendations, "Monitor species health during collection")
	}
	return rc
}

func checkSeason(species domain.Species, harvestDate time.Time) domain.RuleCheck {
	season := domain.SeasonFor(harvestDate)
	if domain.ContainsSeason(species.HarvestSeasons, season) {
		rc := newRuleCheck(RuleSeason, domain.StatusCompliant)
		rc.Requirements = append(rc.Requirements, "Continue following seasonal guidelines")
		rc.Recommendations = append(rc.Recommendations, "Harvest during peak quality period within season")
		return rc
	}

	allowed := make([]string, 0, len(species.HarvestSeasons))
	for _, s := range species.HarvestSeasons {
		allowed = append(allowed, string(s))
	}
	rc := newRuleCheck(RuleSeason, domain.StatusNonCompliant)
	rc.Restrictions = append(rc.Restrictions, fmt.Sprintf("Harvesting not allowed during %s", season))
	rc.Requirements = append(rc.Requirements, fmt.Sprintf("Wait for appropriate season: %s", strings.Join(allowed, ", ")))
	rc.Recommendations = append(rc.Recommendations, "Plan collection during optimal seasons for better quality")
	return rc
}

func checkQuantity(species domain.Species, quantityKg float64) domain.RuleCheck {
	limit := QuantityCeiling(species.ConservationStatus)
	if quantityKg <= limit {
		rc := newRuleCheck(RuleQuantity, domain.StatusCompliant)
		rc.Requirements = append(rc.Requirements, "Follow quantity reporting requirements")
		rc.Recommendations = append(rc.Recommendations, "Document actual quantity collected")
		return rc
	}
	rc := newRuleCheck(RuleQuantity, domain.StatusNonCompliant)
	rc.Restrictions = append(rc.Restrictions, fmt.Sprintf("Quantity exceeds limit: %g kg maximum", limit))
	rc.Requirements = append(rc.Requirements, "Reduce collection quantity or split into multiple permits")
	rc.Recommendations = append(rc.Recommendations, "Consider sustainable harvesting practices")
	return rc
}

func checkRegion(species domain.Species, region string) domain.RuleCheck {
	restricted := false
	if region != RegionUnknown {
		lowered := strings.ToLower(region)
		for _, r := range species.RestrictedRegions {
			r = strings.ToLower(strings.TrimSpace(r))
			if r != "" && strings.Contains(lowered, r) {
				restricted = true
				break
			}
		}
	}

	if restricted {
		rc := newRuleCheck(RuleRegion, domain.StatusNonCompliant)
		rc.Restrictions = append(rc.Restrictions, fmt.Sprintf("Collection restricted in %s", region))
		rc.Requirements = append(rc.Requirements, "Seek alternative collection locations")
		rc.Recommendations = append(rc.Recommendations, "Contact local forest department for guidance")
		return rc
	}
	rc := newRuleCheck(RuleRegion, domain.StatusCompliant)
	rc.Requirements = append(rc.Requirements, "Verify local collection permissions")
	rc.Recommendations = append(rc.Recommendations, "Respect community collection rights")
	return rc
}

func checkPermit(species domain.Species) domain.RuleCheck {
	if !species.ConservationStatus.RequiresPermit() {
		rc := newRuleCheck(RulePermit, domain.StatusCompliant)
		rc.Requirements = append(rc.Requirements, "Follow general collection guidelines")
		rc.Recommendations = append(rc.Recommendations, "Consider voluntary certification for quality assurance")
		return rc
	}
	rc := newRuleCheck(RulePermit, domain.StatusRequiresReview)
	rc.Requirements = append(rc.Requirements,
		"Obtain collection permit from State Forest Department",
		"Submit harvesting plan and impact assessment",
		"Provide collector certification/training proof",
	)
	rc.Recommendations = append(rc.Recommendations,
		"Apply for permits well in advance",
		"Maintain detailed collection records",
		"Follow up with permit conditions",
	)
	return rc
}

func newRuleCheck(name string, status domain.ComplianceStatus) domain.RuleCheck {
	return domain.RuleCheck{
		Name:            name,
		Status:          status,
		Requirements:    []string{},
		Restrictions:    []string{},
		Recommendations: []string{},
	}
}
