package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init())
	require.NoError(t, Init())

	assert.NotNil(t, PluginCalls)
	assert.NotNil(t, PluginCallsFailed)
	assert.NotNil(t, ChargesCreated)
	assert.NotNil(t, ChargesCaptured)
	assert.NotNil(t, RefundsCreated)
	assert.NotNil(t, CustomersCreated)
	assert.NotNil(t, GatewayDuration)
}

func TestRecord_NoPanic(t *testing.T) {
	require.NoError(t, Init())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		RecordCall(ctx, "process", time.Now().Add(-time.Second), true)
		RecordCharge(ctx, "Authorize", "succeeded", "usd")
		RecordCapture(ctx, "succeeded")
		RecordRefund(ctx, "pending", true)
		RecordCustomerCreated(ctx, true)
	})
}
