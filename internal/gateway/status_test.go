package gateway

import (
	"errors"
	"testing"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseChargeStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ChargeStatus
		wantErr bool
	}{
		{"succeeded", ChargeStatusSucceeded, false},
		{"pending", ChargeStatusPending, false},
		{"failed", ChargeStatusFailed, false},
		{"Succeeded", 0, true},
		{"refunded", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseChargeStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrUnknownChargeStatus) {
				t.Errorf("ParseChargeStatus(%q) error = %v, want ErrUnknownChargeStatus", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseChargeStatus(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParseRefundStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    RefundStatus
		wantErr bool
	}{
		{"succeeded", RefundStatusSucceeded, false},
		{"pending", RefundStatusPending, false},
		{"failed", RefundStatusFailed, false},
		{"canceled", RefundStatusCanceled, false},
		{"requires_action", RefundStatusRequiresAction, false},
		{"cancelled", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseRefundStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrUnknownRefundStatus) {
				t.Errorf("ParseRefundStatus(%q) error = %v, want ErrUnknownRefundStatus", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRefundStatus(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPaymentStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		status  ChargeStatus
		mode    domain.TransactionMode
		want    domain.PaymentStatus
		wantErr bool
	}{
		{"pending authorize", ChargeStatusPending, domain.TransactionModeAuthorize, domain.PaymentStatusPending, false},
		{"pending charge", ChargeStatusPending, domain.TransactionModeCharge, domain.PaymentStatusPending, false},
		{"succeeded authorize", ChargeStatusSucceeded, domain.TransactionModeAuthorize, domain.PaymentStatusAuthorized, false},
		{"succeeded charge", ChargeStatusSucceeded, domain.TransactionModeCharge, domain.PaymentStatusPaid, false},
		{"failed", ChargeStatusFailed, domain.TransactionModeCharge, 0, true},
		{"zero value", ChargeStatus(0), domain.TransactionModeCharge, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PaymentStatusFor(tt.status, tt.mode)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnmappedChargeStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("USD")
	assert.NoError(t, err)
	assert.Equal(t, Currency("usd"), c)

	c, err = ParseCurrency(" jpy ")
	assert.NoError(t, err)
	assert.Equal(t, Currency("jpy"), c)

	_, err = ParseCurrency("XXX")
	assert.ErrorIs(t, err, domain.ErrCurrencyNotSupported)

	_, err = ParseCurrency("")
	assert.ErrorIs(t, err, domain.ErrPrimaryCurrencyMissing)
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		currency Currency
		want     int64
	}{
		{"10.00", "usd", 1000},
		{"10.99", "usd", 1099},
		{"10.999", "usd", 1099},
		{"0.015", "eur", 1},
		{"1234.5", "gbp", 123450},
		{"500", "jpy", 500},
		{"500.9", "jpy", 500},
		{"0", "usd", 0},
	}

	for _, tt := range tests {
		got := ToMinorUnits(decimal.RequireFromString(tt.amount), tt.currency)
		if got != tt.want {
			t.Errorf("ToMinorUnits(%s, %s) = %d, want %d", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestDescriptor(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		prefix string
		want   string
	}{
		{"short", "My Store", "", "My Store"},
		{"prefix", "Store", "WT*", "WTStore"},
		{"strips forbidden", `<Bob's> "Shop"*`, "", "Bobs Shop"},
		{"exactly 22", "ABCDEFGHIJKLMNOPQRSTUV", "", "ABCDEFGHIJKLMNOPQRSTUV"},
		{"23 keeps full 22", "ABCDEFGHIJKLMNOPQRSTUVW", "", "ABCDEFGHIJKLMNOPQRSTUV"},
		{"cut length counts stripped value", `ABCDEFGHIJKLMNOPQRSTU"V"W`, "", "ABCDEFGHIJKLMNOPQRSTUV"},
		{"truncated", "The Extremely Long Store Name Inc", "", "The Extremely Long Sto"},
		{"strip before cut", "<<<<<Twenty Two Characters!", "", "Twenty Two Characters!"},
		{"empty", "", "", ""},
		{"only forbidden", `<>"*'`, "", ""},
		{"multibyte", "Café Ünïcödé Störe Nämé Long", "", "Café Ünïcödé Störe Näm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Descriptor(tt.value, tt.prefix)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), MaxDescriptorLength)
			assert.NotContains(t, got, "<")
			assert.NotContains(t, got, "'")
		})
	}
}

func TestChargeStatus_Name(t *testing.T) {
	assert.Equal(t, "Succeeded", ChargeStatusSucceeded.Name())
	assert.Equal(t, "Pending", ChargeStatusPending.Name())
	assert.Equal(t, "Failed", ChargeStatusFailed.Name())
	assert.Equal(t, "ChargeStatus(9)", ChargeStatus(9).Name())
}
