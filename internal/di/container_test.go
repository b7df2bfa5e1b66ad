package di

import (
	"context"
	"testing"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/events"
	"github.com/prohmpiriya/webtail-stripe/internal/gateway"
	"github.com/prohmpiriya/webtail-stripe/internal/repository"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer_InMemory(t *testing.T) {
	c, err := NewContainer(&ContainerConfig{
		Gateway: gateway.FactoryFunc(func(*domain.Settings) *gateway.Client { return &gateway.Client{} }),
		PluginConfig: &service.PluginConfig{
			Store:           domain.Store{ID: 3, Name: "Demo", Location: "http://localhost/"},
			PrimaryCurrency: "EUR",
		},
	})
	require.NoError(t, err)

	assert.IsType(t, &repository.MemorySettingsRepository{}, c.SettingsRepo)
	assert.IsType(t, &repository.MemoryAttributeRepository{}, c.AttributeRepo)
	assert.IsType(t, events.NoopPublisher{}, c.Publisher)
	assert.NotNil(t, c.HealthHandler)
	assert.NotNil(t, c.PaymentHandler)
	assert.NotNil(t, c.AdminHandler)

	ctx := context.Background()
	require.NoError(t, c.Plugin.Install(ctx))

	s, err := c.SettingsRepo.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionModeAuthorize, s.TransactionMode)
	assert.Equal(t, "http://localhost/Admin/PaymentStripe/Configure", c.Plugin.Descriptor(ctx).ConfigurationPageURL)
}

func TestHealthComponents_NotConfigured(t *testing.T) {
	c := &Container{}
	components := c.healthComponents()

	require.Len(t, components, 3)
	for name, checker := range components {
		assert.Nil(t, checker, name)
	}
}
