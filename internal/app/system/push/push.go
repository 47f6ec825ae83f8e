// internal/app/system/push/push.go

// Package push delivers dashboard notifications through the push gateway
// that fronts the browser service workers. The gateway receives
// {title, body, data:{tag,url}}; clicking the notification focuses or
// opens the dashboard URL in data.url.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Data is the click-through payload of a notification.
type Data struct {
	Tag string `json:"tag"`
	URL string `json:"url"`
}

// Notification is the wire shape delivered to service workers.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Data  Data   `json:"data"`
}

// Sender posts notifications to the push gateway. A nil Sender is valid
// and drops everything, so push can be switched off by leaving push_url
// blank.
type Sender struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

// NewSender builds a Sender targeting the given gateway endpoint.
// A blank endpoint returns nil: push disabled.
func NewSender(endpoint string, logger *zap.Logger) *Sender {
	if endpoint == "" {
		return nil
	}
	return &Sender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      logger,
	}
}

// Send delivers one notification. Failures are returned for logging by
// the caller but must not fail the originating request.
func (s *Sender) Send(ctx context.Context, n Notification) error {
	if s == nil {
		return nil
	}
	if n.Data.Tag == "" {
		n.Data.Tag = uuid.NewString()
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
