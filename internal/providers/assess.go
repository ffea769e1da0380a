package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"envmonitor-service/internal/models"
)

// DetectionInput is the validated payload handed to anomaly detection.
// The optional context blocks are forwarded to the model verbatim.
type DetectionInput struct {
	Latitude       float64
	Longitude      float64
	WeatherData    json.RawMessage
	HistoricalData json.RawMessage
	SatelliteData  json.RawMessage
	AirQualityData json.RawMessage
}

// PredictionInput is the validated payload handed to condition prediction.
type PredictionInput struct {
	Latitude       float64
	Longitude      float64
	WeatherData    json.RawMessage
	HistoricalData json.RawMessage
}

const detectSystemPrompt = `You are an environmental anomaly detection system.
Analyze the provided location and sensor context and respond with a single JSON object:
{"hasAnomaly": bool, "severity": "low"|"medium"|"high"|"critical"|"extreme",
"anomalyType": string, "confidence": number 0-100, "description": string,
"recommendation": string, "riskFactors": {"immediateRisk": bool,
"populationRisk": bool, "factors": [string]}, "forecastTrend": string}`

const predictSystemPrompt = `You are an environmental condition forecaster.
Analyze the provided location and context and respond with a single JSON object:
{"riskLevel": "low"|"medium"|"high"|"extreme", "predictionType": string,
"confidence": number 0-100, "forecast": string, "expectedConditions": string,
"warnings": [string]}`

const analyzeSystemPrompt = `You are an environmental data analyst. Provide a
clear, structured analysis of the supplied dataset.`

// DetectAnomalies asks the model to assess a location for anomalies.
// The model's free text is mined for a JSON object; when none is found the
// conservative no-anomaly default is returned instead of an error.
func (a *AIClient) DetectAnomalies(ctx context.Context, in DetectionInput) (models.DetectionResult, error) {
	user := fmt.Sprintf("Location: latitude %.4f, longitude %.4f", in.Latitude, in.Longitude)
	user += contextBlock("Current weather", in.WeatherData)
	user += contextBlock("Historical data", in.HistoricalData)
	user += contextBlock("Satellite data", in.SatelliteData)
	user += contextBlock("Air quality", in.AirQualityData)

	text, err := a.Complete(ctx, detectSystemPrompt, user)
	if err != nil {
		return models.DetectionResult{}, err
	}

	result := defaultDetection()
	if raw, ok := ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &result); err != nil {
			return defaultDetection(), nil
		}
	}
	return result, nil
}

// PredictConditions asks the model for a condition forecast.
func (a *AIClient) PredictConditions(ctx context.Context, in PredictionInput) (models.PredictionResult, error) {
	user := fmt.Sprintf("Location: latitude %.4f, longitude %.4f", in.Latitude, in.Longitude)
	user += contextBlock("Current weather", in.WeatherData)
	user += contextBlock("Historical data", in.HistoricalData)

	text, err := a.Complete(ctx, predictSystemPrompt, user)
	if err != nil {
		return models.PredictionResult{}, err
	}

	result := defaultPrediction()
	if raw, ok := ExtractJSON(text); ok {
		if err := json.Unmarshal(raw, &result); err != nil {
			return defaultPrediction(), nil
		}
	}
	return result, nil
}

// AnalyzePatterns asks the model for a free-text analysis of a dataset.
// Unlike the other two callers the raw text is the product, so no JSON
// extraction happens here.
func (a *AIClient) AnalyzePatterns(ctx context.Context, data json.RawMessage, analysisType string) (string, error) {
	user := fmt.Sprintf("Analysis type: %s\n\nDataset:\n%s", analysisType, string(data))
	return a.Complete(ctx, analyzeSystemPrompt, user)
}

func contextBlock(label string, raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return fmt.Sprintf("\n\n%s:\n%s", label, string(raw))
}

// defaultDetection is the fallback when model output carries no usable JSON.
func defaultDetection() models.DetectionResult {
	return models.DetectionResult{
		HasAnomaly:     false,
		Severity:       models.SeverityLow,
		AnomalyType:    "none",
		Confidence:     0,
		Description:    "No parseable assessment returned by the model",
		Recommendation: "Retry the analysis later",
		ForecastTrend:  "stable",
	}
}

// defaultPrediction is the fallback when model output carries no usable JSON.
func defaultPrediction() models.PredictionResult {
	return models.PredictionResult{
		RiskLevel:          models.RiskLow,
		PredictionType:     "general",
		Confidence:         0,
		Forecast:           "No parseable forecast returned by the model",
		ExpectedConditions: "unknown",
	}
}
