package domain

import "strings"

// ComplianceStatus is the verdict of one check or of a whole validation.
type ComplianceStatus string

const (
	StatusPending        ComplianceStatus = "pending"
	StatusCompliant      ComplianceStatus = "compliant"
	StatusRequiresReview ComplianceStatus = "requires_review"
	StatusNonCompliant   ComplianceStatus = "non_compliant"
)

// Severity orders statuses for aggregation. Pending and compliant rank equal.
func (s ComplianceStatus) Severity() int {
	switch s {
	case StatusNonCompliant:
		return 2
	case StatusRequiresReview:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether s is one of the known statuses.
func (s ComplianceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompliant, StatusRequiresReview, StatusNonCompliant:
		return true
	}
	return false
}

func (s ComplianceStatus) String() string { return string(s) }

// ParseComplianceStatus accepts the canonical values case-insensitively and
// tolerates spaces or hyphens in place of underscores.
func ParseComplianceStatus(raw string) (ComplianceStatus, bool) {
	s := ComplianceStatus(normalizeEnum(raw))
	return s, s.IsValid()
}

// Worst returns the most severe status. Between equally ranked statuses a
// concrete compliant verdict wins over pending. An empty input yields pending.
func Worst(statuses ...ComplianceStatus) ComplianceStatus {
	worst := StatusPending
	for _, s := range statuses {
		switch {
		case s.Severity() > worst.Severity():
			worst = s
		case s.Severity() == worst.Severity() && worst == StatusPending && s == StatusCompliant:
			worst = s
		}
	}
	return worst
}

func normalizeEnum(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}
