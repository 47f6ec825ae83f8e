package httpjson_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"go.uber.org/zap"
)

func TestError_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Forbidden(rec, "forbidden")

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "forbidden" {
		t.Errorf("error field: got %q, want %q", body["error"], "forbidden")
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","bogus":1}`))

	var dst struct {
		Name string `json:"name"`
	}
	if err := httpjson.Decode(req, &dst); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestDecode_RejectsTrailingData(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"} {"name":"y"}`))

	var dst struct {
		Name string `json:"name"`
	}
	if err := httpjson.Decode(req, &dst); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestServerError_GenericMessage(t *testing.T) {
	errLog := httpjson.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/leads", nil)

	errLog.ServerError(rec, req, "find leads failed", http.ErrBodyNotAllowed)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "BodyNotAllowed") {
		t.Error("internal error detail leaked to client")
	}
}
