package login_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/features/login"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/auth"
	"github.com/dalemusser/pmhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pmhub/internal/testutil"
	"go.uber.org/zap"
)

type sessionBody struct {
	SignedIn bool     `json:"signedIn"`
	Panels   []string `json:"panels"`
	User     *struct {
		ID       string `json:"id"`
		Role     string `json:"role"`
		Password string `json:"password"`
	} `json:"user"`
}

func newHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	fx := testutil.NewFixtures(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := login.NewHandler(fx.C, sm, uierrors.NewErrorLogger(logger), auditlog.New(logger, auditlog.Config{Auth: "all"}), logger)
	return h, fx
}

func TestHandleLogin_Success(t *testing.T) {
	h, fx := newHandler(t)

	rec := testutil.NewRecorder()
	req := testutil.NewJSONRequest("POST", "/api/login", map[string]string{"email": "admin@demo.com", "password": "admin123"})
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var body sessionBody
	rec.DecodeJSON(t, &body)
	if !body.SignedIn || body.User == nil || body.User.ID != "u-admin" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.User.Password != "" {
		t.Error("password leaked in response")
	}
	if len(body.Panels) != 3 || body.Panels[0] != "user-management" {
		t.Errorf("unexpected panels %v", body.Panels)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
	if s := fx.C.Session(); s == nil || s.ID != "u-admin" {
		t.Errorf("workspace session not set: %+v", s)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	h, fx := newHandler(t)

	rec := testutil.NewRecorder()
	req := testutil.NewJSONRequest("POST", "/api/login", map[string]string{"email": "admin@demo.com", "password": "wrong"})
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "invalid credentials")
	if fx.C.Session() != nil {
		t.Error("session set after failed login")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("cookie set after failed login")
	}
}

func TestHandleLogin_BadBody(t *testing.T) {
	h, _ := newHandler(t)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/api/login", "{"))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleLogin_RateLimited(t *testing.T) {
	h, fx := newHandler(t)
	h.Limiter = ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	defer h.Limiter.Stop()

	for i := 0; i < 2; i++ {
		rec := testutil.NewRecorder()
		h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/api/login", map[string]string{"email": "admin@demo.com", "password": "wrong"}))
		rec.AssertStatus(t, http.StatusUnauthorized)
	}

	// Even the right password is refused once the account is throttled.
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/api/login", map[string]string{"email": "admin@demo.com", "password": "admin123"}))
	rec.AssertStatus(t, http.StatusTooManyRequests)
	if fx.C.Session() != nil {
		t.Error("session set while throttled")
	}
}

func TestServeSession(t *testing.T) {
	h, _ := newHandler(t)

	rec := testutil.NewRecorder()
	h.ServeSession(rec, testutil.NewRequest("GET", "/api/session"))
	rec.AssertStatus(t, http.StatusOK)
	var anon sessionBody
	rec.DecodeJSON(t, &anon)
	if anon.SignedIn || anon.User != nil || len(anon.Panels) != 0 {
		t.Errorf("unexpected anonymous body %+v", anon)
	}

	rec = testutil.NewRecorder()
	req := testutil.WithUser(testutil.NewRequest("GET", "/api/session"), testutil.MemberUser())
	h.ServeSession(rec, req)
	var body sessionBody
	rec.DecodeJSON(t, &body)
	if !body.SignedIn || body.User.ID != "u-user" {
		t.Errorf("unexpected body %+v", body)
	}
	if len(body.Panels) != 1 || body.Panels[0] != "my-tasks" {
		t.Errorf("unexpected panels %v", body.Panels)
	}
}

func TestRoutes_LoginThenSession(t *testing.T) {
	h, _ := newHandler(t)
	h.SessionMgr.SetUserFetcher(login.NewFetcher(h.C))
	router := h.SessionMgr.LoadSessionUser(login.Routes(h))

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest("POST", "/login", `{"email":"pm@demo.com","password":"pm123"}`))
	rec.AssertStatus(t, http.StatusOK)

	req := testutil.NewRequest("GET", "/session")
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec2 := testutil.NewRecorder()
	router.ServeHTTP(rec2, req)
	if !strings.Contains(rec2.Body.String(), `"id":"u-pm"`) {
		t.Errorf("cookie did not restore the session: %s", rec2.Body.String())
	}
}

func TestNewFetcher(t *testing.T) {
	fx := testutil.NewFixtures(t)
	fetch := login.NewFetcher(fx.C)

	u, ok := fetch("u-pm")
	if !ok || u.Role != "pm" || u.Name != "Peyton PM" {
		t.Errorf("unexpected fetch result %+v %v", u, ok)
	}

	if err := fx.C.RemoveUser(context.Background(), "u-pm"); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}
	if _, ok := fetch("u-pm"); ok {
		t.Error("removed user still resolves")
	}
}
