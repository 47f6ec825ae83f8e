// internal/app/system/realtime/realtime.go

// Package realtime fans screenshot events out over Redis pub/sub.
// Channels: companies.{companyId}.screenshots for the company-wide feed
// and companies.{companyId}.screenshots.{workingDay} for day-scoped
// subscribers. Both carry the same payload.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event types.
const (
	EventUploaded = "uploaded"
	EventReviewed = "screenshot.reviewed"
)

// Event is the shared payload for screenshot channel messages.
type Event struct {
	Type       string `json:"type"`
	LeadID     string `json:"lead_id"`
	Product    string `json:"product"`
	WorkingDay string `json:"working_day"`
	CompanyID  string `json:"company_id"`
	UploaderID string `json:"uploader_id"`
	Reviewed   bool   `json:"reviewed"`
}

// Channel returns the company-wide screenshots channel name.
func Channel(companyID string) string {
	return fmt.Sprintf("companies.%s.screenshots", companyID)
}

// DayChannel returns the day-scoped screenshots channel name.
func DayChannel(companyID, workingDay string) string {
	return fmt.Sprintf("companies.%s.screenshots.%s", companyID, workingDay)
}

// Publisher publishes events to Redis. A nil Publisher is valid and drops
// everything, so realtime can be switched off by leaving redis_url blank.
type Publisher struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewPublisher connects to Redis and verifies the connection.
func NewPublisher(redisURL string, logger *zap.Logger) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Info("redis publisher connected")
	return &Publisher{rdb: client, log: logger}, nil
}

// Publish sends ev to both the company-wide and day-scoped channels.
// Publish failures are logged, not returned: realtime fan-out is
// best-effort and must not fail the originating request.
func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal realtime event failed", zap.Error(err))
		return
	}
	for _, ch := range []string{Channel(ev.CompanyID), DayChannel(ev.CompanyID, ev.WorkingDay)} {
		if err := p.rdb.Publish(ctx, ch, payload).Err(); err != nil {
			p.log.Warn("publish realtime event failed",
				zap.String("channel", ch),
				zap.Error(err))
		}
	}
}

// Ping reports broker health for the health endpoint.
func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.rdb.Close()
}
