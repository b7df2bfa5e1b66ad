package validator

import (
	"context"
	"testing"
	"time"

	"github.com/prohmpiriya/webtail-stripe/internal/locale"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoLocalizer returns the resource name so tests can assert on keys
type echoLocalizer struct{}

func (echoLocalizer) Get(_ context.Context, name string) string { return name }

func fixedClock() time.Time {
	return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func validForm() *PaymentForm {
	return &PaymentForm{
		CreditCardType: "Visa",
		CardholderName: "Jane Doe",
		CardNumber:     "4242 4242 4242 4242",
		CardCode:       "123",
		ExpireMonth:    "6",
		ExpireYear:     "2026",
	}
}

func TestIsCreditCard(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"4242424242424242", true},
		{"4242 4242 4242 4242", true},
		{"4242-4242-4242-4242", true},
		{"5555555555554444", true},
		{"378282246310005", true},
		{"4242424242424241", false},
		{"4242x42424242424", false},
		{"42424242424", false},
		{"", false},
		{"00000000000000000000", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCreditCard(tt.number), tt.number)
	}
}

func TestExpired(t *testing.T) {
	now := fixedClock()

	assert.False(t, Expired("6", "2026", now), "valid through end of current month")
	assert.False(t, Expired("12", "2030", now))
	assert.True(t, Expired("5", "2026", now))
	assert.True(t, Expired("12", "2025", now))
	assert.True(t, Expired("13", "2026", now))
	assert.True(t, Expired("June", "2026", now))
	assert.True(t, Expired("6", "", now))

	lastMoment := time.Date(2026, time.June, 30, 23, 59, 59, 0, time.UTC)
	assert.False(t, Expired("6", "2026", lastMoment))
	assert.True(t, Expired("6", "2026", lastMoment.Add(2*time.Second)))
}

func TestValidatePaymentForm(t *testing.T) {
	v := New(echoLocalizer{}).WithClock(fixedClock)
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		warnings := v.ValidatePaymentForm(ctx, validForm())
		assert.Empty(t, warnings)
		assert.NotNil(t, warnings)
	})

	tests := []struct {
		name   string
		mutate func(f *PaymentForm)
		want   []string
	}{
		{"missing name", func(f *PaymentForm) { f.CardholderName = "" }, []string{locale.CardholderNameRequired}},
		{"bad number", func(f *PaymentForm) { f.CardNumber = "1234567890123" }, []string{locale.CardNumberWrong}},
		{"bad cvv", func(f *PaymentForm) { f.CardCode = "12a" }, []string{locale.CardCodeWrong}},
		{"long cvv", func(f *PaymentForm) { f.CardCode = "12345" }, []string{locale.CardCodeWrong}},
		{"missing month", func(f *PaymentForm) { f.ExpireMonth = "" }, []string{locale.ExpireMonthRequired}},
		{"missing year", func(f *PaymentForm) { f.ExpireYear = "" }, []string{locale.ExpireYearRequired}},
		{"expired", func(f *PaymentForm) { f.ExpireMonth = "5" }, []string{locale.ExpirationDateExpired}},
		{
			"several",
			func(f *PaymentForm) { f.CardholderName = ""; f.CardCode = ""; f.ExpireYear = "2020" },
			[]string{locale.CardholderNameRequired, locale.CardCodeWrong, locale.ExpirationDateExpired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(f)
			assert.Equal(t, tt.want, v.ValidatePaymentForm(ctx, f))
		})
	}
}

func TestValidatePaymentForm_Localized(t *testing.T) {
	res, err := locale.Default()
	require.NoError(t, err)

	v := New(locale.NewLocalizer(nil, res)).WithClock(fixedClock)
	f := validForm()
	f.CardholderName = ""

	assert.Equal(t, []string{"Enter cardholder name"}, v.ValidatePaymentForm(context.Background(), f))
}

func TestValidateConfiguration(t *testing.T) {
	v := New(echoLocalizer{})

	valid := ConfigurationModel{
		LiveSecretKey:      "sk_live",
		LivePublishableKey: "pk_live",
		TestSecretKey:      "sk_test",
		TestPublishableKey: "pk_test",
		AdditionalFee:      decimal.RequireFromString("1.5"),
		TransactionModeID:  2,
	}
	assert.Empty(t, v.ValidateConfiguration(&valid))

	m := valid
	m.LivePublishableKey = ""
	m.TestSecretKey = ""
	assert.Equal(t, []string{
		"LivePublishableKey must be provided.",
		"TestSecretKey must be provided.",
	}, v.ValidateConfiguration(&m))

	m = valid
	m.TransactionModeID = 3
	m.AdditionalFee = decimal.NewFromInt(-1)
	assert.Equal(t, []string{
		"TransactionMode is invalid.",
		"AdditionalFee must be greater than or equal to 0.",
	}, v.ValidateConfiguration(&m))
}
