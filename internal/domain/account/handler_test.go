package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Register(t *testing.T) {
	h, e := newTestHandler()

	c, rec := postJSON(e, "/api/v1/register", `{"username":"kelly","password":"pw"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_RegisterThenLogin(t *testing.T) {
	h, e := newTestHandler()

	c, _ := postJSON(e, "/api/v1/register", `{"username":"kelly","password":"pw"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	c, rec := postJSON(e, "/api/v1/login", `{"username":"kelly","password":"pw"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" || resp.Username != "kelly" {
		t.Errorf("unexpected login response: %+v", resp)
	}
}

func TestHandler_LoginWrongPassword(t *testing.T) {
	h, e := newTestHandler()

	c, _ := postJSON(e, "/api/v1/register", `{"username":"kelly","password":"pw"}`)
	h.Register(c)

	c, _ = postJSON(e, "/api/v1/login", `{"username":"kelly","password":"nope"}`)
	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", httpErr.Code)
	}
}

func TestHandler_LoginBadBody(t *testing.T) {
	h, e := newTestHandler()

	c, _ := postJSON(e, "/api/v1/login", `{"username":`)
	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_RegisterStorageFailure(t *testing.T) {
	repo := newMockCredentialRepo()
	repo.err = errors.New("disk I/O error")
	h := NewHandler(NewService(repo, testTokens, newTestLogger()))
	e := echo.New()

	c, _ := postJSON(e, "/api/v1/register", `{"username":"a","password":"b"}`)
	err := h.Register(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
}
