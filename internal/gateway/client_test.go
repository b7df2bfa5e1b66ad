package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func sandboxSettings() *domain.Settings {
	s := domain.DefaultSettings()
	s.TestSecretKey = "sk_test_123"
	return s
}

func TestNewStripeFactory_DefaultBackendsDoNotRetry(t *testing.T) {
	f := NewStripeFactory(nil)

	require.NotNil(t, f.backends)
	for name, b := range map[string]stripe.Backend{"api": f.backends.API, "connect": f.backends.Connect, "uploads": f.backends.Uploads} {
		impl, ok := b.(*stripe.BackendImplementation)
		require.True(t, ok, name)
		assert.Equal(t, int64(0), impl.MaxNetworkRetries, name)
	}
}

func TestStripeFactory_SingleAttemptOnRetryableFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Stripe-Should-Retry", "true")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"Service unavailable"}}`))
	}))
	defer srv.Close()

	client := NewStripeFactory(NoRetryBackends(srv.URL)).New(sandboxSettings())

	err := client.Ping(context.Background())

	assert.ErrorIs(t, err, domain.ErrGatewayConnection)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStripeFactory_UsesSettingsKey(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[],"has_more":false,"url":"/v1/customers"}`))
	}))
	defer srv.Close()

	client := NewStripeFactory(NoRetryBackends(srv.URL)).New(sandboxSettings())

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "Bearer sk_test_123", auth.Load())
}
