package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// DefaultIssuer is the iss claim stamped on tokens.
const DefaultIssuer = "opp-server"

type Claims struct {
	jwt.RegisteredClaims
}

type JWTConfig struct {
	Issuer     string
	SigningKey []byte
}

// Tokens issues and verifies HMAC signed session tokens. Tokens carry no
// expiry; they stay valid until the signing key changes.
type Tokens struct {
	cfg JWTConfig
	now func() time.Time
}

func NewTokens(cfg JWTConfig) *Tokens {
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	return &Tokens{cfg: cfg, now: time.Now}
}

// Issue returns a signed token whose subject is username.
func (t *Tokens) Issue(username string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			Issuer:   t.cfg.Issuer,
			IssuedAt: jwt.NewNumericDate(t.now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates tokenStr and returns its claims.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(t.cfg.Issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTMiddleware rejects requests without a valid bearer token and stores the
// token subject on the request context.
func JWTMiddleware(tokens *Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, claims.Subject)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", claims.Subject)

			return next(c)
		}
	}
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

// ResolveSigningKey decodes a hex encoded key, or generates a random 32-byte
// key when hexKey is empty. The bool reports whether a key was generated.
func ResolveSigningKey(hexKey string) ([]byte, bool, error) {
	if hexKey != "" {
		decoded, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, false, fmt.Errorf("invalid signing key hex value: %w", err)
		}
		return decoded, false, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate signing key: %w", err)
	}
	return key, true, nil
}
