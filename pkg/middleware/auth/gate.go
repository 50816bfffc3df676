package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/topup_shop/pkg/identity"
	"github.com/Skotchmaster/topup_shop/pkg/logging"
)

const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxIdentity = "identity"
)

// Verifier checks a raw bearer credential. *identity.Provider implements it,
// including when nil.
type Verifier interface {
	VerifyIDToken(ctx context.Context, raw string) (*identity.Token, error)
}

// Gate verifies the bearer ID token on every request. It never creates or
// touches user profiles.
type Gate struct {
	Verifier Verifier
}

func NewGate(v Verifier) *Gate {
	return &Gate{Verifier: v}
}

type ValidatorFunc func(tok *identity.Token) error

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithValidator(next, nil)
}

func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithValidator(next, func(tok *identity.Token) error {
		if !tok.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "Access denied. Admin privileges required.")
		}
		return nil
	})
}

func (g *Gate) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		raw, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header missing or invalid")
		}

		if g.Verifier == nil {
			l.Warn("verify_token_failed", "status", 401, "reason", "no verifier")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication token")
		}

		tok, err := g.Verifier.VerifyIDToken(ctx, raw)
		if err != nil || tok == nil {
			l.Warn("verify_token_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication token")
		}

		if validator != nil {
			if err := validator(tok); err != nil {
				return err
			}
		}

		setUserContext(c, tok)
		return next(c)
	}
}

func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(prefix):])
	return raw, raw != ""
}

func setUserContext(c echo.Context, tok *identity.Token) {
	c.Set(CtxUserID, tok.UID)
	c.Set(CtxRole, tok.Role)
	c.Set(CtxIdentity, tok)
}

// UserID returns the verified uid, or "" on routes without the gate.
func UserID(c echo.Context) string {
	s, _ := c.Get(CtxUserID).(string)
	return s
}

func Identity(c echo.Context) *identity.Token {
	tok, _ := c.Get(CtxIdentity).(*identity.Token)
	return tok
}
