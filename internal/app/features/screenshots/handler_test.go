package screenshots_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/features/screenshots"
	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	userstore "github.com/leadrelay/leadrelay/internal/app/store/users"
	"github.com/leadrelay/leadrelay/internal/app/system/auth"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/domain/models"
	"github.com/leadrelay/leadrelay/internal/testutil"
)

type env struct {
	srv      http.Handler
	sessions *auth.SessionManager
	company  models.Company
	operator models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessions, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "leadrelay_session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	sessions.SetUserFetcher(userstore.NewFetcher(db))

	// Nil realtime publisher and push sender: fan-out must be a no-op.
	h := screenshots.NewHandler(db, nil, nil, "/dashboard",
		httpjson.NewErrorLogger(logger), logger)

	r := chi.NewRouter()
	r.Use(sessions.LoadSessionUser)
	r.Route("/screenshots", h.MountRoutes)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	company, err := companystore.New(db).Create(ctx, testutil.CompanyFixture("shots"))
	if err != nil {
		t.Fatalf("company create failed: %v", err)
	}
	operator, err := userstore.New(db).Create(ctx, testutil.UserFixture("op@example.com",
		testutil.MembershipFixture(company.ID, models.RoleLeadOperator)))
	if err != nil {
		t.Fatalf("user create failed: %v", err)
	}

	return &env{srv: r, sessions: sessions, company: company, operator: operator}
}

func (e *env) cookie(t *testing.T, u models.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := e.sessions.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), u); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func (e *env) do(t *testing.T, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	req.Header.Set("X-Company-ID", e.company.ID.Hex())
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func uploadBody() string {
	return `{"lead_id":"` + primitive.NewObjectID().Hex() + `","product":"widget","file_url":"https://files.example.com/s.png"}`
}

func TestUpload(t *testing.T) {
	e := newEnv(t)
	cookie := e.cookie(t, e.operator)

	rec := e.do(t, http.MethodPost, "/screenshots", uploadBody(), cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var shot models.Screenshot
	if err := json.Unmarshal(rec.Body.Bytes(), &shot); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if shot.Reviewed {
		t.Error("new screenshot must start unreviewed")
	}
	if shot.UploaderID != e.operator.ID {
		t.Errorf("uploader_id: got %v", shot.UploaderID)
	}
}

func TestUpload_SanitizesNotes(t *testing.T) {
	e := newEnv(t)
	cookie := e.cookie(t, e.operator)

	body := `{"lead_id":"` + primitive.NewObjectID().Hex() +
		`","product":"widget","file_url":"https://files.example.com/s.png","notes":"<b>blurry</b> retake<script>alert(1)</script>"}`
	rec := e.do(t, http.MethodPost, "/screenshots", body, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var shot models.Screenshot
	if err := json.Unmarshal(rec.Body.Bytes(), &shot); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if strings.Contains(shot.Notes, "<b>") || strings.Contains(shot.Notes, "<script>") {
		t.Errorf("notes should be sanitized, got %q", shot.Notes)
	}
	if !strings.Contains(shot.Notes, "blurry") {
		t.Errorf("notes text should survive sanitization, got %q", shot.Notes)
	}
}

func TestUpload_RelativeFileURLRejected(t *testing.T) {
	e := newEnv(t)
	cookie := e.cookie(t, e.operator)

	rec := e.do(t, http.MethodPost, "/screenshots",
		`{"lead_id":"`+primitive.NewObjectID().Hex()+`","file_url":"/local/s.png"}`, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestReview_FirstWinsSecond400(t *testing.T) {
	e := newEnv(t)
	cookie := e.cookie(t, e.operator)

	up := e.do(t, http.MethodPost, "/screenshots", uploadBody(), cookie)
	if up.Code != http.StatusCreated {
		t.Fatalf("upload: got %d", up.Code)
	}
	var shot models.Screenshot
	if err := json.Unmarshal(up.Body.Bytes(), &shot); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	first := e.do(t, http.MethodPost, "/screenshots/"+shot.ID.Hex()+"/review", "", cookie)
	if first.Code != http.StatusOK {
		t.Fatalf("first review: got %d, body %s", first.Code, first.Body.String())
	}
	var reviewed models.Screenshot
	if err := json.Unmarshal(first.Body.Bytes(), &reviewed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reviewed.Reviewed || reviewed.ReviewedBy == nil {
		t.Error("expected reviewed screenshot with reviewer")
	}

	second := e.do(t, http.MethodPost, "/screenshots/"+shot.ID.Hex()+"/review", "", cookie)
	if second.Code != http.StatusBadRequest {
		t.Errorf("second review: got %d", second.Code)
	}
}

func TestList_ReviewedFilter(t *testing.T) {
	e := newEnv(t)
	cookie := e.cookie(t, e.operator)

	up := e.do(t, http.MethodPost, "/screenshots", uploadBody(), cookie)
	if up.Code != http.StatusCreated {
		t.Fatalf("upload: got %d", up.Code)
	}
	if rec := e.do(t, http.MethodPost, "/screenshots", uploadBody(), cookie); rec.Code != http.StatusCreated {
		t.Fatalf("upload: got %d", rec.Code)
	}
	var shot models.Screenshot
	if err := json.Unmarshal(up.Body.Bytes(), &shot); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec := e.do(t, http.MethodPost, "/screenshots/"+shot.ID.Hex()+"/review", "", cookie); rec.Code != http.StatusOK {
		t.Fatalf("review: got %d", rec.Code)
	}

	rec := e.do(t, http.MethodGet, "/screenshots?reviewed=false", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var body struct {
		Screenshots []models.Screenshot `json:"screenshots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Screenshots) != 1 {
		t.Errorf("expected 1 pending screenshot, got %d", len(body.Screenshots))
	}
}

func TestUpload_Unauthenticated(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/screenshots", uploadBody(), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d", rec.Code)
	}
}
