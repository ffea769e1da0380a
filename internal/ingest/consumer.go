package ingest

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"envmonitor-service/internal/config"
	"envmonitor-service/internal/logging"
	"envmonitor-service/internal/models"
)

// Consumer reads station telemetry off Kafka and feeds the ingest service.
type Consumer struct {
	reader *kafka.Reader
	svc    *Service
	logger *logging.Logger
}

func NewConsumer(cfg config.Config, svc *Service, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Kafka.Broker},
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	return &Consumer{reader: reader, svc: svc, logger: logger}
}

// Start consumes until ctx is cancelled. Malformed messages are logged and
// skipped; the partition never stalls on one bad producer.
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Infof("Kafka consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Errorf("Read message failed: %v", err)
			continue
		}

		var reading models.StationReading
		if err := json.Unmarshal(msg.Value, &reading); err != nil {
			c.logger.Errorf("Unmarshal reading failed: %v", err)
			continue
		}
		c.svc.QueueReading(reading)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
