package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var (
	ErrUnconfigured = errors.New("identity provider is not configured")
	ErrInvalidToken = errors.New("invalid id token")
)

// Claims is the payload of an ID token issued by the provider. Role is a
// custom claim set by the provider's admin tooling.
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	Role          string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Token is a verified identity.
type Token struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Role          string
}

func (t *Token) IsAdmin() bool {
	return t != nil && t.Role == RoleAdmin
}

func tokenFromClaims(c *Claims) *Token {
	role := c.Role
	if role == "" {
		role = RoleUser
	}
	return &Token{
		UID:           c.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Name:          c.Name,
		Picture:       c.Picture,
		Role:          role,
	}
}
