package db

import (
	"context"
	"encoding/json"
	"fmt"

	"envmonitor-service/internal/models"
)

// CreateAnomaly inserts a detected anomaly. Metadata is stored as JSONB.
func (d *DB) CreateAnomaly(ctx context.Context, a models.Anomaly) error {
	meta, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal anomaly metadata: %w", err)
	}

	query := `
        INSERT INTO anomalies (
            id, name, description, latitude, longitude, anomaly_type,
            severity, status, detected_at, metadata
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = d.Pool.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.Latitude, a.Longitude, a.AnomalyType,
		a.Severity, a.Status, a.DetectedAt, meta)
	if err != nil {
		return fmt.Errorf("failed to insert anomaly: %w", err)
	}
	return nil
}

// GetAnomalies returns recent anomalies, unresolved first.
func (d *DB) GetAnomalies(ctx context.Context, limit int) ([]models.Anomaly, error) {
	query := `
        SELECT id, name, description, latitude, longitude, anomaly_type,
               severity, status, detected_at, metadata
        FROM anomalies
        ORDER BY (status = 'resolved'), detected_at DESC
        LIMIT $1`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get anomalies: %w", err)
	}
	defer rows.Close()

	var list []models.Anomaly
	for rows.Next() {
		var a models.Anomaly
		var meta []byte
		err := rows.Scan(
			&a.ID, &a.Name, &a.Description, &a.Latitude, &a.Longitude,
			&a.AnomalyType, &a.Severity, &a.Status, &a.DetectedAt, &meta,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anomaly: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &a.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode anomaly metadata: %w", err)
			}
		}
		list = append(list, a)
	}
	return list, nil
}
