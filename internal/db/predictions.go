package db

import (
	"context"
	"fmt"

	"envmonitor-service/internal/models"
)

// CreatePrediction inserts a condition forecast.
func (d *DB) CreatePrediction(ctx context.Context, p models.Prediction) error {
	query := `
        INSERT INTO predictions (
            id, latitude, longitude, prediction_type, risk_level,
            confidence, forecast_data, valid_until, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := d.Pool.Exec(ctx, query,
		p.ID, p.Latitude, p.Longitude, p.PredictionType, p.RiskLevel,
		p.Confidence, []byte(p.ForecastData), p.ValidUntil, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// GetValidPredictions returns predictions whose valid_until has not passed.
func (d *DB) GetValidPredictions(ctx context.Context, limit int) ([]models.Prediction, error) {
	query := `
        SELECT id, latitude, longitude, prediction_type, risk_level,
               confidence, forecast_data, valid_until, created_at
        FROM predictions
        WHERE valid_until > now()
        ORDER BY created_at DESC
        LIMIT $1`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", err)
	}
	defer rows.Close()

	var list []models.Prediction
	for rows.Next() {
		var p models.Prediction
		var forecast []byte
		err := rows.Scan(
			&p.ID, &p.Latitude, &p.Longitude, &p.PredictionType, &p.RiskLevel,
			&p.Confidence, &forecast, &p.ValidUntil, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.ForecastData = forecast
		list = append(list, p)
	}
	return list, nil
}
