package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"

	"herbcheck/internal/domain"
	"herbcheck/internal/regulatory"
)

// CompliancePrompt describes the event and, when present, the environmental
// and regulatory findings, then asks for the labeled sections ParseAssessment reads.
func CompliancePrompt(event domain.CollectionEvent, result *domain.ValidationResult) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	seasons := make([]string, 0, len(event.Species.HarvestSeasons))
	for _, s := range event.Species.HarvestSeasons {
		seasons = append(seasons, string(s))
	}

	line("Analyze the following Ayurvedic herb collection event for compliance:")
	line("")
	line("COLLECTION DETAILS:")
	line("Species: %s (%s)", event.Species.CommonName, event.Species.ScientificName)
	line("Collection Date: %s", event.Timestamp.UTC().Format("2006-01-02"))
	line("Location: %g, %g", event.Location.Latitude, event.Location.Longitude)
	line("Quantity: %g kg", event.QuantityKg)
	line("Collector: %s", event.Collector.Name)
	line("Conservation Status: %s", event.Species.ConservationStatus)
	line("Allowed Harvest Seasons: %s", strings.Join(seasons, ", "))

	if result != nil {
		if check, ok := result.Check(domain.CheckEnvironmental); ok {
			if env, ok := check.Payload.(*domain.EnvironmentalPayload); ok {
				line("")
				line("SATELLITE VALIDATION:")
				line("Validation Score: %g", env.Snapshot.ValidationScore)
				line("Cloud Cover: %g%%", env.Snapshot.CloudCover)
				line("Vegetation Index: %g", env.Snapshot.VegetationIndex)
				line("Land Use Type: %s", env.Snapshot.LandUse)
			}
		}
		if check, ok := result.Check(domain.CheckRegulatory); ok {
			if reg, ok := check.Payload.(*domain.RegulatoryPayload); ok {
				line("")
				line("REGULATORY CONTEXT:")
				line("Region: %s", reg.Region)
				line("Requirements: %s", strings.Join(reg.Requirements, ", "))
				line("Restrictions: %s", strings.Join(reg.Restrictions, ", "))
			}
		}
	}

	line("")
	line("Please analyze this collection event and provide:")
	line("1. COMPLIANCE_STATUS: compliant/non_compliant/requires_review")
	line("2. CONFIDENCE_SCORE: 0.0 to 1.0")
	line("3. ISSUES: List any compliance issues found")
	line("4. WARNINGS: List any warnings or concerns")
	line("5. RECOMMENDATIONS: Suggest improvements")
	line("6. NEXT_STEPS: What should be done next")
	line("")
	line("Consider seasonal restrictions, conservation status, harvesting best practices, and regulatory requirements.")
	b.WriteString("Format your response with clear sections using the labels above.")
	return b.String()
}

// RecommendationPrompt asks for actionable fixes to the listed issues.
func RecommendationPrompt(species string, issues []string, extra map[string]any) string {
	var b strings.Builder
	b.WriteString("Generate specific, actionable recommendations for improving Ayurvedic herb collection practices:\n\n")
	fmt.Fprintf(&b, "SPECIES: %s\n", species)
	b.WriteString("IDENTIFIED ISSUES:\n")
	for i, issue := range issues {
		fmt.Fprintf(&b, "%d. %s\n", i+1, issue)
	}
	if len(extra) > 0 {
		if raw, err := json.MarshalIndent(extra, "", "  "); err == nil {
			b.WriteString("\nADDITIONAL CONTEXT:\n")
			b.Write(raw)
			b.WriteByte('\n')
		}
	}
	b.WriteString("\nProvide specific recommendations that address each issue.\n")
	b.WriteString("Focus on practical steps that collectors, farmers, and processors can take.\n")
	b.WriteString("Format as numbered recommendations with clear action steps.")
	return b.String()
}

// ExplanationPrompt asks for a plain-language summary of a requirements bundle.
func ExplanationPrompt(species string, req *regulatory.Requirements) string {
	raw, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		raw = []byte("{}")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Explain the regulatory requirements for %s in simple, clear terms:\n\n", species)
	b.WriteString("REGULATORY INFORMATION:\n")
	b.Write(raw)
	b.WriteString("\n\nPlease provide a clear explanation that covers:\n")
	b.WriteString("1. Who regulates this species\n")
	b.WriteString("2. What permits or licenses are needed\n")
	b.WriteString("3. When harvesting is allowed or restricted\n")
	b.WriteString("4. Where harvesting is permitted\n")
	b.WriteString("5. Quality standards that must be met\n")
	b.WriteString("\nUse simple language suitable for farmers and collectors.")
	return b.String()
}
