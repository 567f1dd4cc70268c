package enrichment

import (
	"strconv"
	"strings"

	"herbcheck/internal/domain"
)

// Neutral values used when a field is missing or unreadable.
const (
	DefaultStatus     = domain.StatusPending
	DefaultConfidence = 0.5
)

type section int

const (
	sectionNone section = iota
	sectionIssues
	sectionWarnings
	sectionRecommendations
	sectionNextSteps
)

var sectionLabels = map[string]section{
	"ISSUES":          sectionIssues,
	"WARNINGS":        sectionWarnings,
	"RECOMMENDATIONS": sectionRecommendations,
	"NEXT_STEPS":      sectionNextSteps,
	"NEXT STEPS":      sectionNextSteps,
}

// ParseAssessment decodes labeled free text line by line. It never fails:
// unreadable status and confidence fall back to pending and 0.5.
func ParseAssessment(text string) domain.AIAssessment {
	out := domain.AIAssessment{
		Status:          DefaultStatus,
		Confidence:      DefaultConfidence,
		Issues:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
		NextSteps:       []string{},
	}
	add := func(s section, item string) {
		switch s {
		case sectionIssues:
			out.Issues = append(out.Issues, item)
		case sectionWarnings:
			out.Warnings = append(out.Warnings, item)
		case sectionRecommendations:
			out.Recommendations = append(out.Recommendations, item)
		case sectionNextSteps:
			out.NextSteps = append(out.NextSteps, item)
		}
	}

	current := sectionNone
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if label, value, ok := splitLabel(line); ok {
			switch label {
			case "COMPLIANCE_STATUS", "STATUS":
				if status, valid := domain.ParseComplianceStatus(strings.TrimRight(cleanItem(value), ".")); valid {
					out.Status = status
				}
				current = sectionNone
				continue
			case "CONFIDENCE_SCORE", "CONFIDENCE":
				if score, valid := parseConfidence(value); valid {
					out.Confidence = score
				}
				current = sectionNone
				continue
			}
			if s, known := sectionLabels[label]; known {
				current = s
				if item := cleanItem(value); item != "" && !isPlaceholder(item) {
					add(current, item)
				}
				continue
			}
		}

		if item := cleanItem(line); item != "" && current != sectionNone {
			add(current, item)
		}
	}
	return out
}

// ParseRecommendations keeps each list line longer than ten characters.
func ParseRecommendations(text string) []string {
	out := []string{}
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(strings.ToUpper(line), "RECOMMENDATIONS") {
			continue
		}
		if item := cleanItem(line); len(item) > 10 {
			out = append(out, item)
		}
	}
	return out
}

// splitLabel recognizes "LABEL: value", tolerating list markers and markdown
// emphasis around the label.
func splitLabel(line string) (label, value string, ok bool) {
	head, tail, found := strings.Cut(cleanItem(line), ":")
	if !found {
		return "", "", false
	}
	head = strings.ToUpper(strings.Trim(strings.TrimSpace(head), "*# "))
	if head == "" || strings.ContainsAny(head, ".,;") {
		return "", "", false
	}
	return head, strings.Trim(strings.TrimSpace(tail), "* "), true
}

// cleanItem strips leading list numbering, dashes and bullets.
func cleanItem(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "0123456789.-*• "))
}

func isPlaceholder(s string) bool {
	switch strings.ToLower(strings.TrimRight(s, ".")) {
	case "none", "n/a", "na", "nil":
		return true
	}
	return false
}

// parseConfidence reads "0.8", "80%" or "0.8/1.0" and clamps to [0,1].
func parseConfidence(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s, _, _ = strings.Cut(s, "/")
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if percent {
		v /= 100
	}
	return domain.Clamp01(v), true
}
