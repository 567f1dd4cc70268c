package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// CheckKind identifies a sub-validation.
type CheckKind string

const (
	CheckBasic         CheckKind = "basic"
	CheckRegulatory    CheckKind = "regulatory"
	CheckEnvironmental CheckKind = "environmental"
	CheckQuality       CheckKind = "quality"
)

// ValidationType is a caller-facing name for a requestable check.
type ValidationType string

const (
	ValidationSatellite  ValidationType = "satellite"
	ValidationRegulatory ValidationType = "regulatory"
	ValidationQuality    ValidationType = "quality"
)

// DefaultValidationTypes is used when a request names none.
var DefaultValidationTypes = []ValidationType{ValidationSatellite, ValidationRegulatory, ValidationQuality}

// Kind returns the check a validation type runs.
func (v ValidationType) Kind() CheckKind {
	switch v {
	case ValidationSatellite:
		return CheckEnvironmental
	case ValidationRegulatory:
		return CheckRegulatory
	default:
		return CheckQuality
	}
}

// ParseValidationType accepts satellite, environmental, regulatory and quality.
func ParseValidationType(raw string) (ValidationType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "satellite", "environmental":
		return ValidationSatellite, nil
	case "regulatory":
		return ValidationRegulatory, nil
	case "quality":
		return ValidationQuality, nil
	}
	return "", fmt.Errorf("unknown validation type %q", raw)
}

// CheckResult is the outcome of one sub-validation.
type CheckResult struct {
	Kind            CheckKind        `json:"kind"`
	Status          ComplianceStatus `json:"status"`
	Confidence      float64          `json:"confidence"`
	Issues          []string         `json:"issues"`
	Warnings        []string         `json:"warnings"`
	Recommendations []string         `json:"recommendations"`
	Payload         CheckPayload     `json:"payload,omitempty"`
}

// Errored reports whether the result stands in for a failed check.
func (r CheckResult) Errored() bool {
	_, ok := r.Payload.(*ErrorPayload)
	return ok
}

// UnmarshalJSON restores the concrete payload from the result's kind. A
// payload carrying an "error" key is always an ErrorPayload.
func (r *CheckResult) UnmarshalJSON(data []byte) error {
	type plain CheckResult
	var aux struct {
		plain
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = CheckResult(aux.plain)
	r.Payload = nil

	if len(aux.Payload) == 0 || string(aux.Payload) == "null" {
		return nil
	}
	payload, err := decodePayload(r.Kind, aux.Payload)
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", r.Kind, err)
	}
	r.Payload = payload
	return nil
}

func decodePayload(kind CheckKind, raw json.RawMessage) (CheckPayload, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, err
	}

	var p CheckPayload
	if _, ok := keys["error"]; ok {
		p = &ErrorPayload{}
	} else {
		switch kind {
		case CheckBasic:
			p = &BasicPayload{}
		case CheckRegulatory:
			p = &RegulatoryPayload{}
		case CheckEnvironmental:
			p = &EnvironmentalPayload{}
		case CheckQuality:
			p = &QualityPayload{}
		default:
			return nil, fmt.Errorf("unknown check kind %q", kind)
		}
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CheckPayload is the typed detail of a CheckResult. Only the payload types
// in this package implement it.
type CheckPayload interface {
	checkPayload()
}

// BasicPayload carries the facts computed by the basic validator.
type BasicPayload struct {
	AgeDays            int  `json:"age_days"`
	CoordinatesValid   bool `json:"coordinates_valid"`
	QuantityReasonable bool `json:"quantity_reasonable"`
	CollectorComplete  bool `json:"collector_complete"`
	SpeciesComplete    bool `json:"species_complete"`
}

// RuleCheck is the outcome of one regulatory rule.
type RuleCheck struct {
	Name            string           `json:"check_type"`
	Status          ComplianceStatus `json:"compliance_status"`
	Requirements    []string         `json:"requirements"`
	Restrictions    []string         `json:"restrictions"`
	Recommendations []string         `json:"recommendations"`
}

// RegulatoryPayload carries the rule engine report.
type RegulatoryPayload struct {
	Region          string      `json:"region"`
	Season          string      `json:"season"`
	ComplianceScore float64     `json:"compliance_score"`
	Checks          []RuleCheck `json:"checks"`
	Requirements    []string    `json:"requirements"`
	Restrictions    []string    `json:"restrictions"`
	Summary         string      `json:"summary"`
}

// SignalSnapshot is one environmental observation of a location.
type SignalSnapshot struct {
	Provider        string   `json:"provider"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	ImageDate       string   `json:"image_date"`
	CloudCover      float64  `json:"cloud_cover"`
	VegetationIndex float64  `json:"vegetation_index"`
	LandUse         string   `json:"land_use_type"`
	ValidationScore float64  `json:"validation_score"`
	Anomalies       []string `json:"anomalies_detected"`
}

// EnvironmentalPayload carries the snapshot and its interpretation.
type EnvironmentalPayload struct {
	Snapshot           SignalSnapshot `json:"snapshot"`
	VegetationHealth   string         `json:"vegetation_health"`
	ImageQuality       string         `json:"image_quality"`
	LandUseAppropriate bool           `json:"land_use_appropriate"`
	Season             HarvestSeason  `json:"season,omitempty"`
	SeasonCompliant    *bool          `json:"season_compliant,omitempty"`
}

// ParameterResult is the evaluation of one quality parameter.
type ParameterResult struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Max       float64 `json:"max"`
	Unit      string  `json:"unit"`
	Compliant bool    `json:"compliant"`
}

// QualityPayload carries the quality standards evaluation.
type QualityPayload struct {
	OverallCompliant bool              `json:"overall_compliant"`
	ComplianceRate   float64           `json:"compliance_rate"`
	Parameters       []ParameterResult `json:"parameter_results"`
	Contaminated     bool              `json:"contamination_present"`
	VisualScore      *int              `json:"visual_quality_score,omitempty"`
}

// ErrorPayload marks a synthetic result produced for a check that failed.
type ErrorPayload struct {
	Message string `json:"error"`
}

func (*BasicPayload) checkPayload()         {}
func (*RegulatoryPayload) checkPayload()    {}
func (*EnvironmentalPayload) checkPayload() {}
func (*QualityPayload) checkPayload()       {}
func (*ErrorPayload) checkPayload()         {}

// ErrorResult converts a failed check into its synthetic result.
func ErrorResult(kind CheckKind, err error) CheckResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return CheckResult{
		Kind:            kind,
		Status:          StatusRequiresReview,
		Confidence:      0,
		Issues:          []string{fmt.Sprintf("%s validation error: %s", kind, msg)},
		Warnings:        []string{fmt.Sprintf("Validation error: %s", msg)},
		Recommendations: []string{},
		Payload:         &ErrorPayload{Message: msg},
	}
}

// Round3 rounds to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
