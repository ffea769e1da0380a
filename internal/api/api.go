package api

import (
	"context"
	"encoding/json"

	"envmonitor-service/internal/auth"
	"envmonitor-service/internal/config"
	"envmonitor-service/internal/logging"
	"envmonitor-service/internal/models"
	"envmonitor-service/internal/providers"
	"envmonitor-service/internal/ratelimit"
	"envmonitor-service/internal/realtime"
)

// Rate-limit keys, one per gated endpoint.
const (
	endpointFetch   = "fetch-environmental-data"
	endpointDetect  = "detect-anomalies"
	endpointPredict = "predict-conditions"
	endpointAnalyze = "analyze-patterns"
)

// maxAnalyzePayload bounds the serialized analyze dataset. The bound exists
// to cap the cost of the downstream inference call, nothing else.
const maxAnalyzePayload = 50000

// Store is the service-role persistence surface the handlers use. Only the
// pipeline holds it; callers never get direct write access to these tables.
type Store interface {
	CreateAnomaly(ctx context.Context, a models.Anomaly) error
	CreatePrediction(ctx context.Context, p models.Prediction) error
	CreateSample(ctx context.Context, s models.EnvironmentalSample) error
	GetAnomalies(ctx context.Context, limit int) ([]models.Anomaly, error)
	GetValidPredictions(ctx context.Context, limit int) ([]models.Prediction, error)
	GetRecentSamples(ctx context.Context, limit int) ([]models.EnvironmentalSample, error)
}

// WeatherAPI is the primary (fatal-on-failure) upstream of the fetch endpoint.
type WeatherAPI interface {
	Current(ctx context.Context, lat, lon float64) (*providers.WeatherData, error)
}

// ImageryAPI is the secondary (degradable) upstream of the fetch endpoint.
type ImageryAPI interface {
	Assets(ctx context.Context, lat, lon float64) (json.RawMessage, error)
}

// InferenceAPI is the AI upstream behind detect/predict/analyze.
type InferenceAPI interface {
	DetectAnomalies(ctx context.Context, in providers.DetectionInput) (models.DetectionResult, error)
	PredictConditions(ctx context.Context, in providers.PredictionInput) (models.PredictionResult, error)
	AnalyzePatterns(ctx context.Context, data json.RawMessage, analysisType string) (string, error)
}

// Alerter pages operators about persisted anomalies.
type Alerter interface {
	AnomalyDetected(ctx context.Context, a models.Anomaly)
}

// Handler carries the pipeline dependencies for every endpoint.
type Handler struct {
	store    Store
	verifier auth.TokenVerifier
	limiter  ratelimit.Limiter
	weather  WeatherAPI
	imagery  ImageryAPI
	ai       InferenceAPI
	hub      *realtime.Hub
	alerts   Alerter
	logger   *logging.Logger
	config   config.Config
}

func NewHandler(store Store, verifier auth.TokenVerifier, limiter ratelimit.Limiter,
	weather WeatherAPI, imagery ImageryAPI, ai InferenceAPI,
	hub *realtime.Hub, alerts Alerter, logger *logging.Logger, cfg config.Config) *Handler {
	return &Handler{
		store:    store,
		verifier: verifier,
		limiter:  limiter,
		weather:  weather,
		imagery:  imagery,
		ai:       ai,
		hub:      hub,
		alerts:   alerts,
		logger:   logger,
		config:   cfg,
	}
}

// rateMeta is the quota heartbeat attached to every gated response.
type rateMeta struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
}

func meta(s ratelimit.Status) rateMeta {
	return rateMeta{Remaining: s.Remaining, Limit: s.Limit}
}
