// Package alerting pages operators about high-urgency anomalies.
package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"envmonitor-service/internal/config"
	"envmonitor-service/internal/logging"
	"envmonitor-service/internal/models"
	"envmonitor-service/internal/utils"
)

// Notifier sends anomaly alerts to the operator Telegram chat. A global
// rate limiter keeps bursts of detections within Telegram's send limits.
type Notifier struct {
	botToken string
	chatID   int64
	limiter  *rate.Limiter
	logger   *logging.Logger
}

func NewNotifier(cfg config.Config, logger *logging.Logger) *Notifier {
	rps := cfg.Telegram.RatePerSecond
	return &Notifier{
		botToken: cfg.Telegram.BotToken,
		chatID:   cfg.Telegram.OperatorChat,
		limiter:  rate.NewLimiter(rate.Limit(float64(rps)), rps),
		logger:   logger,
	}
}

// Enabled reports whether alerting is configured at all.
func (n *Notifier) Enabled() bool {
	return n.botToken != "" && n.chatID != 0
}

// AnomalyDetected pages the operator chat for critical/extreme anomalies.
// Alerting failures are logged, never propagated: a lost page must not
// fail the detection request that triggered it.
func (n *Notifier) AnomalyDetected(ctx context.Context, a models.Anomaly) {
	if !n.Enabled() || !a.Urgent() {
		return
	}

	if err := n.limiter.Wait(ctx); err != nil {
		n.logger.Errorf("Telegram rate limiter wait failed: %v", err)
		return
	}

	text := fmt.Sprintf(
		"*%s anomaly: %s*\n%s\n\n"+
			"*Type:* %s\n"+
			"*Status:* %s\n"+
			"*Location:* %.4f, %.4f",
		a.Severity,
		a.Name,
		a.Description,
		a.AnomalyType,
		a.Status,
		a.Latitude,
		a.Longitude,
	)

	err := utils.Retry(n.logger, 3, time.Second, func() error {
		b, err := bot.New(n.botToken)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot: %w", err)
		}
		params := &bot.SendMessageParams{
			ChatID:    n.chatID,
			Text:      text,
			ParseMode: "Markdown",
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram alert to chat %d: %w", n.chatID, err)
		}
		return nil
	})
	if err != nil {
		n.logger.Errorf("Operator alert for anomaly %s not delivered: %v", a.ID, err)
	}
}
