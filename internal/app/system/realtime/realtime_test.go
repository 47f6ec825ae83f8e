package realtime_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/leadrelay/leadrelay/internal/app/system/realtime"
)

func TestChannelNames(t *testing.T) {
	got := realtime.Channel("64f0c2")
	if got != "companies.64f0c2.screenshots" {
		t.Errorf("Channel: got %q", got)
	}

	got = realtime.DayChannel("64f0c2", "2025-09-12")
	if got != "companies.64f0c2.screenshots.2025-09-12" {
		t.Errorf("DayChannel: got %q", got)
	}
}

func TestEventPayloadShape(t *testing.T) {
	ev := realtime.Event{
		Type:       realtime.EventUploaded,
		LeadID:     "abc",
		Product:    "widget",
		WorkingDay: "2025-09-12",
		CompanyID:  "64f0c2",
		UploaderID: "u1",
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"type", "lead_id", "product", "working_day", "company_id", "uploader_id", "reviewed"} {
		if _, ok := m[key]; !ok {
			t.Errorf("payload missing %q field", key)
		}
	}
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *realtime.Publisher

	// Must not panic.
	p.Publish(context.Background(), realtime.Event{Type: realtime.EventReviewed})
	if err := p.Ping(context.Background()); err != nil {
		t.Errorf("nil Ping: got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil Close: got %v", err)
	}
}
