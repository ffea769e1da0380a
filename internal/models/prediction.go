package models

import (
	"encoding/json"
	"time"
)

// Risk levels a prediction can carry.
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskExtreme = "extreme"
)

// PredictionValidity is how long a stored prediction is stamped valid for.
const PredictionValidity = 48 * time.Hour

// Prediction is a stored condition forecast for a location.
// ValidUntil is stamped at creation; expiry enforcement is a reader concern.
type Prediction struct {
	ID             string          `json:"id"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	PredictionType string          `json:"prediction_type"`
	RiskLevel      string          `json:"risk_level"`
	Confidence     float64         `json:"confidence"`
	ForecastData   json.RawMessage `json:"forecast_data"`
	ValidUntil     time.Time       `json:"valid_until"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PredictionResult is the forecast produced by the condition-prediction
// upstream call, echoed to the caller and always persisted.
type PredictionResult struct {
	RiskLevel          string   `json:"riskLevel"`
	PredictionType     string   `json:"predictionType"`
	Confidence         float64  `json:"confidence"`
	Forecast           string   `json:"forecast"`
	ExpectedConditions string   `json:"expectedConditions"`
	Warnings           []string `json:"warnings,omitempty"`
}
