package locale

import (
	"context"
	"strings"
	"testing"

	"github.com/prohmpiriya/webtail-stripe/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	res, err := Default()
	require.NoError(t, err)

	assert.Len(t, res.Plugin, 14)
	assert.Equal(t, "Pay By Credit Card", res.Plugin[PaymentMethodDescription])
	assert.Equal(t, "Is Fee Percentage", res.Plugin["WebTail.Payments.Stripe.Fields.AdditionalFeePercentage"])
	assert.True(t, strings.Contains(res.Plugin[Instructions], "https://dashboard.stripe.com/account/apikeys"))

	for _, name := range []string{
		CardholderNameRequired, CardNumberWrong, CardCodeWrong,
		ExpireMonthRequired, ExpireYearRequired, ExpirationDateExpired, PluginSaved,
	} {
		_, ok := res.Lookup(name)
		assert.True(t, ok, name)
	}
}

func TestParse(t *testing.T) {
	_, err := Parse([]byte("plugin: [unclosed"))
	assert.Error(t, err)

	_, err = Parse([]byte("host:\n  a: b\n"))
	assert.Error(t, err)

	r, err := Parse([]byte("plugin:\n  b: 2\n  a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.PluginNames())
}

func TestLocalizer(t *testing.T) {
	ctx := context.Background()
	res, err := Default()
	require.NoError(t, err)

	repo := repository.NewMemoryLocaleRepository()
	l := NewLocalizer(repo, res)

	// embedded fallback before install
	assert.Equal(t, "Pay By Credit Card", l.Get(ctx, PaymentMethodDescription))
	assert.Equal(t, "Unknown.Resource", l.Get(ctx, "Unknown.Resource"))

	require.NoError(t, l.Install(ctx))
	assert.Equal(t, len(res.Plugin), repo.Count())

	// store overrides embedded
	require.NoError(t, repo.AddOrUpdate(ctx, map[string]string{PaymentMethodDescription: "Kartenzahlung"}))
	assert.Equal(t, "Kartenzahlung", l.Get(ctx, PaymentMethodDescription))

	// host messages survive uninstall
	require.NoError(t, repo.AddOrUpdate(ctx, map[string]string{CardNumberWrong: "Bad number"}))
	require.NoError(t, l.Uninstall(ctx))
	assert.Equal(t, 1, repo.Count())

	_, err = repo.GetResource(ctx, PaymentMethodDescription)
	assert.True(t, IsNotFound(err))
}

func TestLocalizer_NilRepo(t *testing.T) {
	res, err := Default()
	require.NoError(t, err)

	l := NewLocalizer(nil, res)
	assert.Equal(t, "Card is expired", l.Get(context.Background(), ExpirationDateExpired))
}
