package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EndpointQuota is the per-user request budget for one gated endpoint.
type EndpointQuota struct {
	MaxRequests   int
	WindowMinutes int
}

// Config holds application configuration loaded from environment.
type Config struct {
	DB struct {
		DSN string // service-role credentials, never handed to request paths
	}
	Auth struct {
		JWTSecret string
	}
	Weather struct {
		BaseURL string
		APIKey  string
	}
	Imagery struct {
		BaseURL string
		APIKey  string
	}
	AI struct {
		BaseURL   string
		APIKey    string
		Model     string
		MaxTokens int
	}
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	Telegram struct {
		BotToken      string
		OperatorChat  int64
		RatePerSecond int
	}
	API struct {
		Port     string
		BasePath string
	}
	Ingest struct {
		QueueSize  int
		MaxWorkers int
	}
	Logging struct {
		Dir   string
		Level string
	}
	Quotas struct {
		Fetch   EndpointQuota
		Detect  EndpointQuota
		Predict EndpointQuota
		Analyze EndpointQuota
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Database DSN (service role)
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// Auth settings
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")

	// Upstream providers
	cfg.Weather.BaseURL = os.Getenv("WEATHER_BASE_URL")
	cfg.Weather.APIKey = os.Getenv("WEATHER_API_KEY")
	cfg.Imagery.BaseURL = os.Getenv("IMAGERY_BASE_URL")
	cfg.Imagery.APIKey = os.Getenv("IMAGERY_API_KEY")
	cfg.AI.BaseURL = os.Getenv("AI_BASE_URL")
	cfg.AI.APIKey = os.Getenv("AI_API_KEY")
	cfg.AI.Model = os.Getenv("AI_MODEL")
	if mt, err := strconv.Atoi(os.Getenv("AI_MAX_TOKENS")); err == nil {
		cfg.AI.MaxTokens = mt
	}

	// Kafka settings (station sample ingestion)
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Telegram operator alerting
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if chat, err := strconv.ParseInt(os.Getenv("TELEGRAM_OPERATOR_CHAT"), 10, 64); err == nil {
		cfg.Telegram.OperatorChat = chat
	}
	if rps, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_PER_SECOND")); err == nil {
		cfg.Telegram.RatePerSecond = rps
	}

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Ingest worker settings
	if qs, err := strconv.Atoi(os.Getenv("QUEUE_SIZE")); err == nil {
		cfg.Ingest.QueueSize = qs
	}
	if mw, err := strconv.Atoi(os.Getenv("MAX_WORKERS")); err == nil {
		cfg.Ingest.MaxWorkers = mw
	}

	// Logging
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.Weather.APIKey == "" {
		missing = append(missing, "WEATHER_API_KEY")
	}
	if cfg.AI.APIKey == "" {
		missing = append(missing, "AI_API_KEY")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.Imagery.BaseURL == "" {
		cfg.Imagery.BaseURL = "https://api.nasa.gov/planetary/earth"
	}
	if cfg.Imagery.APIKey == "" {
		cfg.Imagery.APIKey = "DEMO_KEY"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://ai-gateway.example.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "google/gemini-2.5-flash"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 1000
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Ingest.QueueSize == 0 {
		cfg.Ingest.QueueSize = 500
	}
	if cfg.Ingest.MaxWorkers == 0 {
		cfg.Ingest.MaxWorkers = 10
	}
	if cfg.Telegram.RatePerSecond == 0 {
		cfg.Telegram.RatePerSecond = 1
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	// AI-backed endpoints cost more per call and are throttled harder
	// than the plain data-fetch endpoint.
	cfg.Quotas.Fetch = quotaFromEnv("FETCH", 20, 60)
	cfg.Quotas.Detect = quotaFromEnv("DETECT", 10, 60)
	cfg.Quotas.Predict = quotaFromEnv("PREDICT", 10, 60)
	cfg.Quotas.Analyze = quotaFromEnv("ANALYZE", 15, 60)

	return cfg, nil
}

func quotaFromEnv(name string, defMax, defWindow int) EndpointQuota {
	q := EndpointQuota{MaxRequests: defMax, WindowMinutes: defWindow}
	if v, err := strconv.Atoi(os.Getenv("QUOTA_" + name + "_MAX")); err == nil && v > 0 {
		q.MaxRequests = v
	}
	if v, err := strconv.Atoi(os.Getenv("QUOTA_" + name + "_WINDOW_MINUTES")); err == nil && v > 0 {
		q.WindowMinutes = v
	}
	return q
}
