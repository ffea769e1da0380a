package models

import "time"

// EnvironmentalSample is a single weather observation persisted for the
// dashboard. Optional readings are pointers so absent values stay NULL.
type EnvironmentalSample struct {
	ID               string    `json:"id"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Temperature      *float64  `json:"temperature,omitempty"`
	Humidity         *float64  `json:"humidity,omitempty"`
	Pressure         *float64  `json:"pressure,omitempty"`
	WindSpeed        *float64  `json:"wind_speed,omitempty"`
	WeatherCondition *string   `json:"weather_condition,omitempty"`
	DataSource       string    `json:"data_source"`
	CreatedAt        time.Time `json:"created_at"`
}

// StationReading is a raw telemetry message consumed from Kafka before it
// becomes an EnvironmentalSample.
type StationReading struct {
	StationID   string   `json:"station_id"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Timestamp   int64    `json:"timestamp"`
}
