package domain

import (
	"math"
	"strings"
	"time"
)

// Collector identifies the person who harvested the material.
type Collector struct {
	ID            string `json:"collector_id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number,omitempty"`
}

// Complete reports whether the collector id is set and the name has at least two characters.
func (c Collector) Complete() bool {
	return strings.TrimSpace(c.ID) != "" && len([]rune(strings.TrimSpace(c.Name))) >= 2
}

// Location is a GPS fix.
type Location struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
}

// Valid reports whether the coordinates are within [-90,90]x[-180,180].
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Species describes the harvested plant and the rules attached to it.
type Species struct {
	CommonName         string             `json:"common_name"`
	ScientificName     string             `json:"scientific_name"`
	LocalNames         []string           `json:"local_names,omitempty"`
	ConservationStatus ConservationStatus `json:"conservation_status"`
	HarvestSeasons     []HarvestSeason    `json:"harvest_seasons"`
	RestrictedRegions  []string           `json:"restricted_regions,omitempty"`
}

// Complete reports whether both names and the conservation status are present.
func (s Species) Complete() bool {
	return strings.TrimSpace(s.CommonName) != "" &&
		strings.TrimSpace(s.ScientificName) != "" &&
		s.ConservationStatus != ""
}

// Quality parameter keys understood by the quality standards check.
const (
	ParamMoisture   = "moisture_content"
	ParamAsh        = "ash_content"
	ParamPesticide  = "pesticide_residues"
	ParamHeavyMetal = "heavy_metals."
)

// Visual quality scores are graded on a 1 to 10 scale.
const (
	MinVisualScore = 1
	MaxVisualScore = 10
)

// QualityMetrics are optional lab or field measurements of the material.
type QualityMetrics struct {
	MoistureContent   *float64           `json:"moisture_content,omitempty"`
	AshContent        *float64           `json:"ash_content,omitempty"`
	VisualScore       *int               `json:"visual_quality_score,omitempty"`
	Contaminated      *bool              `json:"contamination_present,omitempty"`
	HeavyMetals       map[string]float64 `json:"heavy_metals,omitempty"`
	PesticideResidues *float64           `json:"pesticide_residues,omitempty"`
}

// VisualScoreInRange reports whether the visual score is absent or on the
// 1 to 10 scale.
func (q *QualityMetrics) VisualScoreInRange() bool {
	if q == nil || q.VisualScore == nil {
		return true
	}
	return *q.VisualScore >= MinVisualScore && *q.VisualScore <= MaxVisualScore
}

// Parameters flattens the numeric measurements into the parameter map the
// quality standards check evaluates. Heavy metals use "heavy_metals.<element>".
func (q *QualityMetrics) Parameters() map[string]float64 {
	params := make(map[string]float64)
	if q == nil {
		return params
	}
	if q.MoistureContent != nil {
		params[ParamMoisture] = *q.MoistureContent
	}
	if q.AshContent != nil {
		params[ParamAsh] = *q.AshContent
	}
	if q.PesticideResidues != nil {
		params[ParamPesticide] = *q.PesticideResidues
	}
	for element, v := range q.HeavyMetals {
		params[ParamHeavyMetal+strings.ToLower(strings.TrimSpace(element))] = v
	}
	return params
}

// CollectionEvent is one recorded harvest. It is never mutated after creation.
type CollectionEvent struct {
	ID         string          `json:"event_id"`
	Timestamp  time.Time       `json:"timestamp"`
	Collector  Collector       `json:"collector"`
	Location   Location        `json:"location"`
	Species    Species         `json:"species"`
	QuantityKg float64         `json:"quantity_kg"`
	Quality    *QualityMetrics `json:"quality_metrics,omitempty"`
	Photos     []string        `json:"photos,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}
