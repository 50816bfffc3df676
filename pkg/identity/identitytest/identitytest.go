// Package identitytest builds throwaway identity providers for tests.
package identitytest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/topup_shop/pkg/identity"
)

const (
	ProjectID = "topup-test"
	KeyID     = "test-key"
)

func NewKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func PrivateKeyPEM(key *rsa.PrivateKey) string {
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

// Config signs with a fresh key and trusts only that key, so tokens from
// SignIDToken verify.
func Config(t testing.TB) identity.Config {
	key := NewKey(t)
	return identity.Config{
		ProjectID:   ProjectID,
		ClientEmail: "svc@" + ProjectID + ".iam.example.com",
		PrivateKey:  PrivateKeyPEM(key),
		KeyID:       KeyID,
		Keys:        identity.StaticKeys{KeyID: &key.PublicKey},
	}
}

func NewProvider(t testing.TB) *identity.Provider {
	t.Helper()

	p, err := identity.New(Config(t))
	require.NoError(t, err)
	return p
}

func Token(t testing.TB, p *identity.Provider, uid, role string) string {
	t.Helper()

	raw, err := p.SignIDToken(identity.Token{
		UID:           uid,
		Email:         uid + "@example.com",
		EmailVerified: true,
		Name:          "Test " + uid,
		Role:          role,
	}, time.Hour)
	require.NoError(t, err)
	return raw
}
