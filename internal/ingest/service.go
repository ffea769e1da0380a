// Package ingest turns station telemetry from Kafka into stored samples.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"envmonitor-service/internal/config"
	"envmonitor-service/internal/logging"
	"envmonitor-service/internal/models"
	"envmonitor-service/internal/realtime"
)

// Store is the slice of the service-role store the ingest pipeline needs.
type Store interface {
	CreateSample(ctx context.Context, s models.EnvironmentalSample) error
}

// Service fans station readings across a bounded worker pool that persists
// them and pushes them to connected dashboards.
type Service struct {
	store    Store
	hub      *realtime.Hub
	logger   *logging.Logger
	config   config.Config
	readings chan models.StationReading
	ctx      context.Context
	cancel   context.CancelFunc
	wg       *sync.WaitGroup
}

func New(store Store, hub *realtime.Hub, logger *logging.Logger, cfg config.Config) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:    store,
		hub:      hub,
		logger:   logger,
		config:   cfg,
		readings: make(chan models.StationReading, cfg.Ingest.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the worker pool.
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.config.Ingest.MaxWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels the workers.
func (s *Service) Stop() {
	s.cancel()
}

// QueueReading enqueues a reading for processing. A full queue drops the
// reading rather than blocking the consumer.
func (s *Service) QueueReading(r models.StationReading) {
	select {
	case s.readings <- r:
		s.logger.Debugf("Queued reading from station %s", r.StationID)
	default:
		s.logger.Errorf("Ingest queue full, dropping reading from station %s", r.StationID)
	}
}

// worker processes readings until context is cancelled.
func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Ingest worker %d stopped", id)
			return
		case r := <-s.readings:
			s.handleReading(r)
		}
	}
}

// handleReading validates, persists, and broadcasts one station reading.
func (s *Service) handleReading(r models.StationReading) {
	if r.StationID == "" {
		s.logger.Errorf("Dropping reading without station_id")
		return
	}
	if !models.ValidCoordinates(r.Latitude, r.Longitude) {
		s.logger.Errorf("Dropping reading from station %s with coordinates %.4f, %.4f", r.StationID, r.Latitude, r.Longitude)
		return
	}

	createdAt := time.Now()
	if r.Timestamp > 0 {
		createdAt = time.Unix(r.Timestamp, 0)
	}

	sample := models.EnvironmentalSample{
		ID:               uuid.New().String(),
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Temperature:      r.Temperature,
		Humidity:         r.Humidity,
		Pressure:         r.Pressure,
		WindSpeed:        r.WindSpeed,
		WeatherCondition: r.Condition,
		DataSource:       fmt.Sprintf("station:%s", r.StationID),
		CreatedAt:        createdAt,
	}

	if err := s.store.CreateSample(s.ctx, sample); err != nil {
		s.logger.Errorf("Failed to persist reading from station %s: %v", r.StationID, err)
		return
	}
	s.hub.Broadcast("sample", sample)
	s.logger.Infof("Stored sample %s from station %s", sample.ID, r.StationID)
}
