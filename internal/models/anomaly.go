package models

import (
	"time"
)

// Severity levels an anomaly can carry, from least to most urgent.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
	SeverityExtreme  = "extreme"
)

// Anomaly lifecycle states.
const (
	StatusActive     = "active"
	StatusMonitoring = "monitoring"
	StatusResolved   = "resolved"
)

// MinPersistConfidence is the confidence an AI assessment must reach
// before a detected anomaly is written to the store.
const MinPersistConfidence = 60

// Anomaly is an environmental anomaly detected by the AI pipeline.
// Metadata is write-once here; status transitions past "active"/"monitoring"
// belong to the dashboard, not this service.
type Anomaly struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Latitude    float64                `json:"latitude"`
	Longitude   float64                `json:"longitude"`
	AnomalyType string                 `json:"anomaly_type"`
	Severity    string                 `json:"severity"`
	Status      string                 `json:"status"`
	DetectedAt  time.Time              `json:"detected_at"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Urgent reports whether the anomaly should page an operator.
func (a Anomaly) Urgent() bool {
	return a.Severity == SeverityCritical || a.Severity == SeverityExtreme
}

// RiskFactors qualifies an AI anomaly assessment.
type RiskFactors struct {
	ImmediateRisk  bool     `json:"immediateRisk"`
	PopulationRisk bool     `json:"populationRisk"`
	Factors        []string `json:"factors,omitempty"`
}

// DetectionResult is the assessment produced by the anomaly-detection
// upstream call, echoed to the caller and conditionally persisted.
type DetectionResult struct {
	HasAnomaly     bool        `json:"hasAnomaly"`
	Severity       string      `json:"severity"`
	AnomalyType    string      `json:"anomalyType"`
	Confidence     float64     `json:"confidence"`
	Description    string      `json:"description"`
	Recommendation string      `json:"recommendation"`
	RiskFactors    RiskFactors `json:"riskFactors"`
	ForecastTrend  string      `json:"forecastTrend"`
}
