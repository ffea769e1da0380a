package db

import (
	"context"
	"fmt"

	"envmonitor-service/internal/models"
)

// CreateSample inserts an environmental sample.
func (d *DB) CreateSample(ctx context.Context, s models.EnvironmentalSample) error {
	query := `
        INSERT INTO environmental_samples (
            id, latitude, longitude, temperature, humidity, pressure,
            wind_speed, weather_condition, data_source, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := d.Pool.Exec(ctx, query,
		s.ID, s.Latitude, s.Longitude, s.Temperature, s.Humidity, s.Pressure,
		s.WindSpeed, s.WeatherCondition, s.DataSource, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// GetRecentSamples returns the newest samples first.
func (d *DB) GetRecentSamples(ctx context.Context, limit int) ([]models.EnvironmentalSample, error) {
	query := `
        SELECT id, latitude, longitude, temperature, humidity, pressure,
               wind_speed, weather_condition, data_source, created_at
        FROM environmental_samples
        ORDER BY created_at DESC
        LIMIT $1`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get samples: %w", err)
	}
	defer rows.Close()

	var list []models.EnvironmentalSample
	for rows.Next() {
		var s models.EnvironmentalSample
		err := rows.Scan(
			&s.ID, &s.Latitude, &s.Longitude, &s.Temperature, &s.Humidity,
			&s.Pressure, &s.WindSpeed, &s.WeatherCondition, &s.DataSource,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		list = append(list, s)
	}
	return list, nil
}
