package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"envmonitor-service/internal/config"
	"envmonitor-service/internal/models"
	"envmonitor-service/internal/providers"
	"envmonitor-service/internal/ratelimit"
)

// gate runs the auth and quota stages shared by every gated endpoint.
// Nothing downstream (upstream calls, writes) happens unless both pass.
func (h *Handler) gate(c *gin.Context, endpoint string, quota config.EndpointQuota) (string, ratelimit.Status, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
		return "", ratelimit.Status{}, false
	}

	userID, err := h.verifier.Verify(token)
	if err != nil {
		// one message for every verification failure
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return "", ratelimit.Status{}, false
	}

	status, err := h.limiter.CheckAndIncrement(c.Request.Context(), userID, endpoint, quota.MaxRequests, quota.WindowMinutes)
	if err != nil {
		// Fail-open: a counter backend outage must not take the whole API
		// down. The bypass is logged so operators can see it happening.
		h.logger.Errorf("Rate limit check failed for user %s on %s, allowing request: %v", userID, endpoint, err)
		status = ratelimit.Status{Remaining: quota.MaxRequests, Limit: quota.MaxRequests}
	}
	if status.Exceeded {
		h.logger.Warnf("Local quota exceeded for user %s on %s", userID, endpoint)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Rate limit exceeded, please try again later",
			"rateLimit": meta(status),
		})
		return "", status, false
	}

	return userID, status, true
}

// upstreamError translates a provider failure into the wire taxonomy.
// Raw provider bodies are never echoed to the caller.
func (h *Handler) upstreamError(c *gin.Context, endpoint string, rl ratelimit.Status, err error) {
	switch {
	case errors.Is(err, providers.ErrUpstreamRateLimited):
		// the provider's own throttling, not our local gate
		h.logger.Warnf("Upstream rate limited on %s: %v", endpoint, err)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Upstream provider is rate limiting requests, try again shortly",
			"rateLimit": meta(rl),
		})
	case errors.Is(err, providers.ErrQuotaExhausted):
		h.logger.Errorf("Upstream credits exhausted on %s: %v", endpoint, err)
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Upstream provider credits exhausted"})
	default:
		h.logger.Errorf("Upstream call failed on %s: %v", endpoint, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upstream request failed"})
	}
}

// coordinates is the shared lat/lon request fragment. Pointers distinguish
// "missing" from zero; numeric strings fail binding outright.
type coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// validate enforces presence and range before any billable call is made.
func (co coordinates) validate(c *gin.Context) bool {
	if co.Latitude == nil || co.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required numbers"})
		return false
	}
	if !models.ValidCoordinates(*co.Latitude, *co.Longitude) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude must be in [-90, 90] and longitude in [-180, 180]"})
		return false
	}
	return true
}

// FetchEnvironmentalData retrieves live weather plus satellite imagery for
// a coordinate and stores the weather as a sample. The weather call is
// fatal on failure; the imagery call degrades to null.
func (h *Handler) FetchEnvironmentalData(c *gin.Context) {
	_, rl, ok := h.gate(c, endpointFetch, h.config.Quotas.Fetch)
	if !ok {
		return
	}

	var req coordinates
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required numbers"})
		return
	}
	if !req.validate(c) {
		return
	}
	lat, lon := *req.Latitude, *req.Longitude

	weather, err := h.weather.Current(c.Request.Context(), lat, lon)
	if err != nil {
		h.upstreamError(c, endpointFetch, rl, err)
		return
	}

	imagery, err := h.imagery.Assets(c.Request.Context(), lat, lon)
	if err != nil {
		h.logger.Warnf("Imagery lookup failed, continuing without it: %v", err)
		imagery = nil
	}

	sample := sampleFromWeather(lat, lon, weather)
	stored := true
	if err := h.store.CreateSample(c.Request.Context(), sample); err != nil {
		// the caller still gets their weather data
		h.logger.Errorf("Failed to store sample: %v", err)
		stored = false
	} else if h.hub != nil {
		h.hub.Broadcast("sample", sample)
	}

	c.JSON(http.StatusOK, gin.H{
		"weather":   weather,
		"nasa":      imagery,
		"stored":    stored,
		"rateLimit": meta(rl),
	})
}

type detectRequest struct {
	coordinates
	WeatherData    json.RawMessage `json:"weatherData,omitempty"`
	HistoricalData json.RawMessage `json:"historicalData,omitempty"`
	SatelliteData  json.RawMessage `json:"satelliteData,omitempty"`
	AirQualityData json.RawMessage `json:"airQualityData,omitempty"`
}

type detectResponse struct {
	models.DetectionResult
	RateLimit rateMeta `json:"rateLimit"`
}

// DetectAnomalies runs the AI anomaly assessment for a coordinate and
// persists an Anomaly when the model is confident enough.
func (h *Handler) DetectAnomalies(c *gin.Context) {
	_, rl, ok := h.gate(c, endpointDetect, h.config.Quotas.Detect)
	if !ok {
		return
	}

	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required numbers"})
		return
	}
	if !req.validate(c) {
		return
	}
	lat, lon := *req.Latitude, *req.Longitude

	result, err := h.ai.DetectAnomalies(c.Request.Context(), providers.DetectionInput{
		Latitude:       lat,
		Longitude:      lon,
		WeatherData:    req.WeatherData,
		HistoricalData: req.HistoricalData,
		SatelliteData:  req.SatelliteData,
		AirQualityData: req.AirQualityData,
	})
	if err != nil {
		h.upstreamError(c, endpointDetect, rl, err)
		return
	}

	if result.HasAnomaly && result.Confidence >= models.MinPersistConfidence {
		anomaly := anomalyFromResult(lat, lon, result)
		if err := h.store.CreateAnomaly(c.Request.Context(), anomaly); err != nil {
			// the record write is part of this endpoint's contract
			h.logger.Errorf("Failed to store anomaly: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store detection result"})
			return
		}
		if h.hub != nil {
			h.hub.Broadcast("anomaly", anomaly)
		}
		if h.alerts != nil {
			h.alerts.AnomalyDetected(c.Request.Context(), anomaly)
		}
	}

	c.JSON(http.StatusOK, detectResponse{DetectionResult: result, RateLimit: meta(rl)})
}

type predictRequest struct {
	coordinates
	WeatherData    json.RawMessage `json:"weatherData,omitempty"`
	HistoricalData json.RawMessage `json:"historicalData,omitempty"`
}

type predictResponse struct {
	models.PredictionResult
	RateLimit rateMeta `json:"rateLimit"`
}

// PredictConditions runs the AI condition forecast for a coordinate.
// Every successful forecast is persisted, valid for 48 hours.
func (h *Handler) PredictConditions(c *gin.Context) {
	_, rl, ok := h.gate(c, endpointPredict, h.config.Quotas.Predict)
	if !ok {
		return
	}

	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required numbers"})
		return
	}
	if !req.validate(c) {
		return
	}
	lat, lon := *req.Latitude, *req.Longitude

	result, err := h.ai.PredictConditions(c.Request.Context(), providers.PredictionInput{
		Latitude:       lat,
		Longitude:      lon,
		WeatherData:    req.WeatherData,
		HistoricalData: req.HistoricalData,
	})
	if err != nil {
		h.upstreamError(c, endpointPredict, rl, err)
		return
	}

	forecast, err := json.Marshal(result)
	if err != nil {
		h.logger.Errorf("Failed to encode forecast: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store prediction"})
		return
	}
	prediction := models.Prediction{
		ID:             uuid.New().String(),
		Latitude:       lat,
		Longitude:      lon,
		PredictionType: result.PredictionType,
		RiskLevel:      result.RiskLevel,
		Confidence:     result.Confidence,
		ForecastData:   forecast,
		ValidUntil:     time.Now().Add(models.PredictionValidity),
		CreatedAt:      time.Now(),
	}
	if err := h.store.CreatePrediction(c.Request.Context(), prediction); err != nil {
		h.logger.Errorf("Failed to store prediction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store prediction"})
		return
	}

	c.JSON(http.StatusOK, predictResponse{PredictionResult: result, RateLimit: meta(rl)})
}

// allowed analysisType values, enumerated in the rejection message.
var analysisTypes = []string{"anomaly", "prediction", "report", "general"}

type analyzeRequest struct {
	Data         json.RawMessage `json:"data"`
	AnalysisType string          `json:"analysisType"`
}

// AnalyzePatterns runs a free-form AI analysis over a caller-supplied
// dataset. Nothing is persisted; the analysis text is the product.
func (h *Handler) AnalyzePatterns(c *gin.Context) {
	_, rl, ok := h.gate(c, endpointAnalyze, h.config.Quotas.Analyze)
	if !ok {
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object with data and analysisType"})
		return
	}
	if len(req.Data) == 0 || string(req.Data) == "null" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data field is required"})
		return
	}
	validType := false
	for _, t := range analysisTypes {
		if req.AnalysisType == t {
			validType = true
			break
		}
	}
	if !validType {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("analysisType must be one of: %s", strings.Join(analysisTypes, ", ")),
		})
		return
	}
	if len(req.Data) > maxAnalyzePayload {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("data payload exceeds %d bytes", maxAnalyzePayload),
		})
		return
	}

	analysis, err := h.ai.AnalyzePatterns(c.Request.Context(), req.Data, req.AnalysisType)
	if err != nil {
		h.upstreamError(c, endpointAnalyze, rl, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": analysis,
		"metadata": gin.H{
			"analysisType": req.AnalysisType,
			"dataBytes":    len(req.Data),
			"generatedAt":  time.Now().UTC(),
		},
		"rateLimit": meta(rl),
	})
}

// sampleFromWeather shapes a fetched reading into a stored sample.
func sampleFromWeather(lat, lon float64, w *providers.WeatherData) models.EnvironmentalSample {
	condition := w.Condition
	return models.EnvironmentalSample{
		ID:               uuid.New().String(),
		Latitude:         lat,
		Longitude:        lon,
		Temperature:      &w.Temperature,
		Humidity:         &w.Humidity,
		Pressure:         &w.Pressure,
		WindSpeed:        &w.WindSpeed,
		WeatherCondition: &condition,
		DataSource:       "openweather",
		CreatedAt:        time.Now(),
	}
}

// anomalyFromResult shapes a confident AI assessment into a stored Anomaly.
// Status encodes alert urgency: immediate risk goes straight to active.
func anomalyFromResult(lat, lon float64, r models.DetectionResult) models.Anomaly {
	status := models.StatusMonitoring
	if r.RiskFactors.ImmediateRisk {
		status = models.StatusActive
	}
	return models.Anomaly{
		ID:          uuid.New().String(),
		Name:        fmt.Sprintf("%s near %.2f, %.2f", r.AnomalyType, lat, lon),
		Description: r.Description,
		Latitude:    lat,
		Longitude:   lon,
		AnomalyType: r.AnomalyType,
		Severity:    r.Severity,
		Status:      status,
		DetectedAt:  time.Now(),
		Metadata: map[string]interface{}{
			"confidence":     r.Confidence,
			"recommendation": r.Recommendation,
			"forecastTrend":  r.ForecastTrend,
			"riskFactors":    r.RiskFactors,
		},
	}
}
