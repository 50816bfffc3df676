package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSignedPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken.example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func TestCertSource_FetchesAndCaches(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	certs := map[string]string{"issuer-1": selfSignedPEM(t, key)}

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		_ = json.NewEncoder(w).Encode(certs)
	}))
	defer srv.Close()

	clock := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	s := NewCertSource(srv.URL)
	s.now = func() time.Time { return clock }

	got, err := s.PublicKey(context.Background(), "issuer-1")
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(got))

	_, err = s.PublicKey(context.Background(), "unknown")
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load(), "served from cache within max-age")

	clock = clock.Add(time.Hour)
	_, err = s.PublicKey(context.Background(), "issuer-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load(), "refetched after expiry")
}

func TestCertSource_UpstreamFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	k, err := NewCertSource(srv.URL).PublicKey(context.Background(), "issuer-1")
	assert.Nil(t, k)
	assert.ErrorContains(t, err, "status 503")
}

func TestMaxAge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   time.Duration
	}{
		{header: "public, max-age=19000, must-revalidate", want: 19000 * time.Second},
		{header: "max-age=60", want: time.Minute},
		{header: "no-cache", want: defaultKeysTTL},
		{header: "max-age=oops", want: defaultKeysTTL},
		{header: "", want: defaultKeysTTL},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, maxAge(tt.header), tt.header)
	}
}
