package auth

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests-only")

func runMiddleware(t *testing.T, tokens *Tokens, header string) (*httptest.ResponseRecorder, string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := func(c echo.Context) error {
		seen = UserIDFromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	}

	err := JWTMiddleware(tokens)(handler)(c)
	return rec, seen, err
}

func expectUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", httpErr.Code)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	_, _, err := runMiddleware(t, NewTokens(JWTConfig{SigningKey: testSigningKey}), "")
	expectUnauthorized(t, err)
}

func TestJWTMiddleware_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc123"},
		{"missing token", "Bearer"},
		{"empty value", "Bearer "},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runMiddleware(t, NewTokens(JWTConfig{SigningKey: testSigningKey}), tt.header)
			expectUnauthorized(t, err)
		})
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	tokens := NewTokens(JWTConfig{SigningKey: testSigningKey})
	tok, err := tokens.Issue("kelly")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec, seen, err := runMiddleware(t, tokens, "Bearer "+tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if seen != "kelly" {
		t.Errorf("expected user kelly on context, got %q", seen)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	other := NewTokens(JWTConfig{SigningKey: []byte("some-other-key")})
	tok, err := other.Issue("kelly")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, _, err = runMiddleware(t, NewTokens(JWTConfig{SigningKey: testSigningKey}), "Bearer "+tok)
	expectUnauthorized(t, err)
}

func TestJWTMiddleware_WrongIssuer(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "kelly", Issuer: "elsewhere"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, _, err = runMiddleware(t, NewTokens(JWTConfig{SigningKey: testSigningKey}), "Bearer "+tok)
	expectUnauthorized(t, err)
}

func TestJWTMiddleware_EmptyUsernameAccepted(t *testing.T) {
	tokens := NewTokens(JWTConfig{SigningKey: testSigningKey})
	tok, err := tokens.Issue("")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, seen, err := runMiddleware(t, tokens, "Bearer "+tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK || seen != "" {
		t.Errorf("expected 200 with empty user, got %d %q", rec.Code, seen)
	}
}

func TestTokens_NoExpiry(t *testing.T) {
	tokens := NewTokens(JWTConfig{SigningKey: testSigningKey})
	tok, err := tokens.Issue("kelly")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("expected no expiry, got %v", claims.ExpiresAt)
	}
	if claims.Issuer != DefaultIssuer {
		t.Errorf("expected issuer %s, got %s", DefaultIssuer, claims.Issuer)
	}
}

func TestResolveSigningKey(t *testing.T) {
	key, generated, err := ResolveSigningKey("")
	if err != nil || !generated || len(key) != 32 {
		t.Errorf("expected generated 32-byte key, got %d bytes generated=%v err=%v", len(key), generated, err)
	}

	want := []byte("0123456789abcdef0123456789abcdef")
	key, generated, err = ResolveSigningKey(hex.EncodeToString(want))
	if err != nil || generated || string(key) != string(want) {
		t.Errorf("expected decoded key, got %q generated=%v err=%v", key, generated, err)
	}

	if _, _, err := ResolveSigningKey("zz"); err == nil {
		t.Error("expected error for invalid hex")
	}
}
