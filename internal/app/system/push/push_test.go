package push_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadrelay/leadrelay/internal/app/system/push"
	"go.uber.org/zap"
)

func TestSend_PayloadShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Errorf("gateway received invalid JSON: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := push.NewSender(srv.URL, zap.NewNop())
	err := sender.Send(context.Background(), push.Notification{
		Title: "Screenshot uploaded",
		Body:  "New proof-of-work for 2025-09-12",
		Data:  push.Data{URL: "/dashboard"},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got["title"] != "Screenshot uploaded" {
		t.Errorf("title: got %v", got["title"])
	}
	data, ok := got["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data object")
	}
	if data["url"] != "/dashboard" {
		t.Errorf("data.url: got %v", data["url"])
	}
	if data["tag"] == "" {
		t.Error("expected a generated tag")
	}
}

func TestSend_GatewayErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := push.NewSender(srv.URL, zap.NewNop())
	if err := sender.Send(context.Background(), push.Notification{Title: "x"}); err == nil {
		t.Error("expected error for gateway failure")
	}
}

func TestNewSender_BlankEndpointDisables(t *testing.T) {
	s := push.NewSender("", zap.NewNop())
	if s != nil {
		t.Fatal("blank endpoint should return a nil Sender")
	}
	if err := s.Send(context.Background(), push.Notification{Title: "x"}); err != nil {
		t.Errorf("disabled Send: got %v", err)
	}
}

func TestSend_NilSenderIsSafe(t *testing.T) {
	var s *push.Sender
	if err := s.Send(context.Background(), push.Notification{Title: "x"}); err != nil {
		t.Errorf("nil Send: got %v", err)
	}
}
