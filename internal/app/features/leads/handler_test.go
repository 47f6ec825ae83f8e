package leads_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/features/leads"
	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	userstore "github.com/leadrelay/leadrelay/internal/app/store/users"
	"github.com/leadrelay/leadrelay/internal/app/system/auth"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/phone"
	"github.com/leadrelay/leadrelay/internal/app/system/workday"
	"github.com/leadrelay/leadrelay/internal/domain/models"
	"github.com/leadrelay/leadrelay/internal/testutil"
)

type env struct {
	srv       http.Handler
	sessions  *auth.SessionManager
	db        *mongo.Database
	users     *userstore.Store
	companies *companystore.Store
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

	h := leads.NewHandler(db, sessions, nil, phone.DefaultRegion,
		httpjson.NewErrorLogger(logger), logger)

	r := chi.NewRouter()
	r.Use(sessions.LoadSessionUser)
	r.Route("/leads", h.MountRoutes)

	return &env{
		srv:       r,
		sessions:  sessions,
		db:        db,
		users:     userstore.New(db),
		companies: companystore.New(db),
	}
}

// signIn returns the session cookie for a freshly signed-in user.
func (e *env) signIn(t *testing.T, u models.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := e.sessions.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), u); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}
	return cookies[0]
}

func (e *env) do(t *testing.T, method, target, body string, cookie *http.Cookie, companyID string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if companyID != "" {
		req.Header.Set("X-Company-ID", companyID)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, e *env, roleMode string, m func(*models.Membership)) (models.Company, models.User) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixture := testutil.CompanyFixture("leads")
	fixture.RoleMode = roleMode
	company, err := e.companies.Create(ctx, fixture)
	if err != nil {
		t.Fatalf("company create failed: %v", err)
	}

	membership := testutil.MembershipFixture(company.ID, models.RoleLeadOperator)
	if m != nil {
		m(&membership)
	}
	u, err := e.users.Create(ctx, testutil.UserFixture("op@example.com", membership))
	if err != nil {
		t.Fatalf("user create failed: %v", err)
	}
	return company, u
}

func TestSubmit_NormalizesAndStores(t *testing.T) {
	e := newEnv(t)
	company, u := seed(t, e, models.RoleModeHybrid, nil)
	cookie := e.signIn(t, u)

	rec := e.do(t, http.MethodPost, "/leads",
		`{"number":"01712-345678","product":"widget","notes":"<b>urgent</b> callback"}`,
		cookie, company.ID.Hex())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var lead models.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &lead); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if lead.NumberE164 != "+8801712345678" {
		t.Errorf("number_e164: got %q", lead.NumberE164)
	}
	if lead.WorkingDay != workday.Today() {
		t.Errorf("working_day: got %q", lead.WorkingDay)
	}
	if strings.Contains(lead.Notes, "<b>") {
		t.Errorf("notes should be sanitized, got %q", lead.Notes)
	}
	if lead.Status != models.LeadPending {
		t.Errorf("status: got %q", lead.Status)
	}
}

func TestSubmit_DuplicateFormattingVariantIs400(t *testing.T) {
	e := newEnv(t)
	company, u := seed(t, e, models.RoleModeHybrid, nil)
	cookie := e.signIn(t, u)

	first := e.do(t, http.MethodPost, "/leads",
		`{"number":"+880 1712 345678"}`, cookie, company.ID.Hex())
	if first.Code != http.StatusCreated {
		t.Fatalf("first submit: got %d", first.Code)
	}

	// Different spelling of the same number.
	second := e.do(t, http.MethodPost, "/leads",
		`{"number":"01712345678"}`, cookie, company.ID.Hex())
	if second.Code != http.StatusBadRequest {
		t.Fatalf("duplicate submit: got %d, body %s", second.Code, second.Body.String())
	}
}

func TestSubmit_ReceiverCompanyCannotUpload(t *testing.T) {
	e := newEnv(t)
	company, u := seed(t, e, models.RoleModeReceiver, nil)
	cookie := e.signIn(t, u)

	rec := e.do(t, http.MethodPost, "/leads",
		`{"number":"01712345678"}`, cookie, company.ID.Hex())
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestSubmit_InvalidNumber(t *testing.T) {
	e := newEnv(t)
	company, u := seed(t, e, models.RoleModeHybrid, nil)
	cookie := e.signIn(t, u)

	rec := e.do(t, http.MethodPost, "/leads",
		`{"number":"12"}`, cookie, company.ID.Hex())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestSubmit_Unauthenticated(t *testing.T) {
	e := newEnv(t)
	company, _ := seed(t, e, models.RoleModeHybrid, nil)

	rec := e.do(t, http.MethodPost, "/leads",
		`{"number":"01712345678"}`, nil, company.ID.Hex())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestList_ScopedByVisibility(t *testing.T) {
	e := newEnv(t)
	company, operator := seed(t, e, models.RoleModeHybrid, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A second user in the same company without view-all.
	membership := testutil.MembershipFixture(company.ID, models.RoleFBSubmitter)
	membership.CanViewAllLeads = false
	viewer, err := e.users.Create(ctx, testutil.UserFixture("viewer@example.com", membership))
	if err != nil {
		t.Fatalf("user create failed: %v", err)
	}

	opCookie := e.signIn(t, operator)
	if rec := e.do(t, http.MethodPost, "/leads", `{"number":"01712345601"}`, opCookie, company.ID.Hex()); rec.Code != http.StatusCreated {
		t.Fatalf("seed submit: got %d", rec.Code)
	}

	// Admin membership grants view-all, so the operator sees it.
	adminMembership := testutil.MembershipFixture(company.ID, models.RoleAdmin)
	if err := e.users.UpsertMembership(ctx, operator.ID, adminMembership); err != nil {
		t.Fatalf("UpsertMembership failed: %v", err)
	}
	fresh, err := e.users.GetByID(ctx, operator.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	opCookie = e.signIn(t, fresh)

	rec := e.do(t, http.MethodGet, "/leads", "", opCookie, company.ID.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d, body %s", rec.Code, rec.Body.String())
	}
	var listBody struct {
		Leads []models.Lead `json:"leads"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(listBody.Leads) != 1 {
		t.Errorf("admin view: expected 1 lead, got %d", len(listBody.Leads))
	}

	// The restricted viewer sees nothing they did not submit.
	viewerCookie := e.signIn(t, viewer)
	rec = e.do(t, http.MethodGet, "/leads", "", viewerCookie, company.ID.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("viewer list: got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(listBody.Leads) != 0 {
		t.Errorf("viewer should see 0 leads, got %d", len(listBody.Leads))
	}
}

func TestUpdateStatus_DoneNormalizes(t *testing.T) {
	e := newEnv(t)
	company, u := seed(t, e, models.RoleModeHybrid, nil)
	cookie := e.signIn(t, u)

	submit := e.do(t, http.MethodPost, "/leads", `{"number":"01712345678"}`, cookie, company.ID.Hex())
	if submit.Code != http.StatusCreated {
		t.Fatalf("submit: got %d", submit.Code)
	}
	var lead models.Lead
	if err := json.Unmarshal(submit.Body.Bytes(), &lead); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rec := e.do(t, http.MethodPatch, "/leads/"+lead.ID.Hex()+"/status",
		`{"status":"done"}`, cookie, company.ID.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("status update: got %d, body %s", rec.Code, rec.Body.String())
	}
	var updated models.Lead
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if updated.Status != models.LeadApproved {
		t.Errorf("status: got %q", updated.Status)
	}
}
