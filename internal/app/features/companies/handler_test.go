package companies_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/features/companies"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/domain/models"
	"github.com/leadrelay/leadrelay/internal/testutil"
)

func newServer(t *testing.T) (http.Handler, *companies.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := companies.NewHandler(db, httpjson.NewErrorLogger(logger), logger)
	r := chi.NewRouter()
	r.Route("/companies", h.MountRoutes)
	return r, h
}

func TestCreate_Defaults(t *testing.T) {
	srv, _ := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"name":"Acme","code":"acme"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var company models.Company
	if err := json.Unmarshal(rec.Body.Bytes(), &company); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if company.RoleMode != models.RoleModeHybrid {
		t.Errorf("role_mode should default to hybrid, got %q", company.RoleMode)
	}
}

func TestCreate_DuplicateIs400(t *testing.T) {
	srv, _ := newServer(t)

	body := `{"name":"Acme","code":"acme"}`
	first := httptest.NewRecorder()
	srv.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/companies", strings.NewReader(body)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first create: got %d", first.Code)
	}

	second := httptest.NewRecorder()
	srv.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/companies", strings.NewReader(body)))
	if second.Code != http.StatusBadRequest {
		t.Errorf("duplicate create: got %d", second.Code)
	}
}

func TestCreate_InvalidRoleMode(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"name":"Acme","code":"acme","role_mode":"bogus"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestList_NamePrefixSearch(t *testing.T) {
	srv, _ := newServer(t)

	for _, body := range []string{
		`{"name":"Acme Widgets","code":"acme-w"}`,
		`{"name":"Acme Gadgets","code":"acme-g"}`,
		`{"name":"Other Co","code":"other"}`,
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/companies", strings.NewReader(body)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed create: got %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies?q=ACME", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body struct {
		Companies []models.Company `json:"companies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Companies) != 2 {
		t.Errorf("expected 2 matches, got %d", len(body.Companies))
	}
}

func TestSetRoleMode(t *testing.T) {
	srv, _ := newServer(t)

	create := httptest.NewRecorder()
	srv.ServeHTTP(create, httptest.NewRequest(http.MethodPost, "/companies",
		strings.NewReader(`{"name":"Acme","code":"acme"}`)))
	var company models.Company
	if err := json.Unmarshal(create.Body.Bytes(), &company); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut,
		"/companies/"+company.ID.Hex()+"/role_mode",
		strings.NewReader(`{"role_mode":"receiver"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	show := httptest.NewRecorder()
	srv.ServeHTTP(show, httptest.NewRequest(http.MethodGet, "/companies/"+company.ID.Hex(), nil))
	var got models.Company
	if err := json.Unmarshal(show.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RoleMode != models.RoleModeReceiver {
		t.Errorf("role_mode: got %q", got.RoleMode)
	}
}

func TestShow_NotFound(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies/64f0c2a1b2c3d4e5f6a7b8c9", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d", rec.Code)
	}
}
