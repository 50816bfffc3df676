package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuerPrefix = "https://securetoken.google.com/"

type Config struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string // PEM, PKCS#1 or PKCS#8
	// KeyID is the service account's private key id, written as kid on
	// tokens minted by SignIDToken.
	KeyID string

	// KeysURL overrides DefaultKeysURL. Keys, when set, replaces the
	// fetched key set entirely.
	KeysURL string
	Keys    KeySource
}

// Provider verifies ID tokens issued for one project against the
// provider's published signing keys. The zero of *Provider (nil) is
// usable and rejects every token with ErrUnconfigured.
type Provider struct {
	projectID   string
	issuer      string
	clientEmail string
	key         *rsa.PrivateKey
	keyID       string
	keys        KeySource
	now         func() time.Time
}

var (
	mu      sync.Mutex
	current *Provider
)

// Init builds the process-wide provider on the first successful call and
// returns that same instance afterwards. Missing or broken credentials are
// logged and yield nil so callers can keep serving public routes.
func Init(cfg Config) *Provider {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return current
	}

	p, err := New(cfg)
	if err != nil {
		slog.Warn("identity_provider_unavailable", "error", err)
		return nil
	}
	current = p
	slog.Info("identity_provider_initialized", "project_id", p.projectID)
	return current
}

// Current returns the provider built by Init, or nil.
func Current() *Provider {
	mu.Lock()
	defer mu.Unlock()
	return current
}

func New(cfg Config) (*Provider, error) {
	if cfg.ProjectID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("%w: project id, client email and private key are required", ErrUnconfigured)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %w", ErrUnconfigured, err)
	}

	keys := cfg.Keys
	if keys == nil {
		keys = NewCertSource(cfg.KeysURL)
	}

	return &Provider{
		projectID:   cfg.ProjectID,
		issuer:      issuerPrefix + cfg.ProjectID,
		clientEmail: cfg.ClientEmail,
		key:         key,
		keyID:       cfg.KeyID,
		keys:        keys,
		now:         time.Now,
	}, nil
}

func (p *Provider) ProjectID() string {
	if p == nil {
		return ""
	}
	return p.projectID
}

func (p *Provider) VerifyIDToken(ctx context.Context, raw string) (*Token, error) {
	if p == nil {
		return nil, ErrUnconfigured
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("token has no key id")
			}
			return p.keys.PublicKey(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}

	return tokenFromClaims(&claims), nil
}

// SignIDToken mints an ID token for t. It backs local tooling and tests;
// production tokens come from the provider's own sign-in flow.
func (p *Provider) SignIDToken(t Token, ttl time.Duration) (string, error) {
	if p == nil {
		return "", ErrUnconfigured
	}

	now := p.now()
	claims := Claims{
		Email:         t.Email,
		EmailVerified: t.EmailVerified,
		Name:          t.Name,
		Picture:       t.Picture,
		Role:          t.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   t.UID,
			Audience:  jwt.ClaimStrings{p.projectID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if p.keyID != "" {
		tok.Header["kid"] = p.keyID
	}
	signed, err := tok.SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign id token: %w", err)
	}
	return signed, nil
}
