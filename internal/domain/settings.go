package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// CustomerIDAttributeSandbox keys the Stripe customer id created with test keys
	CustomerIDAttributeSandbox = "StripeCustomerIdSandbox"
	// CustomerIDAttributeProduction keys the Stripe customer id created with live keys
	CustomerIDAttributeProduction = "StripeCustomerIdProduction"
)

// Settings is the plugin's persisted configuration for one store
type Settings struct {
	LiveSecretKey           string          `json:"live_secret_key"`
	LivePublishableKey      string          `json:"live_publishable_key"`
	TestSecretKey           string          `json:"test_secret_key"`
	TestPublishableKey      string          `json:"test_publishable_key"`
	UseSandbox              bool            `json:"use_sandbox"`
	AdditionalFee           decimal.Decimal `json:"additional_fee"`
	AdditionalFeePercentage bool            `json:"additional_fee_percentage"`
	TransactionMode         TransactionMode `json:"transaction_mode"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// DefaultSettings returns what Install persists
func DefaultSettings() *Settings {
	return &Settings{
		UseSandbox:              true,
		AdditionalFee:           decimal.Zero,
		AdditionalFeePercentage: false,
		TransactionMode:         TransactionModeAuthorize,
	}
}

// APIKey returns the secret key for the active environment
func (s *Settings) APIKey() string {
	if s.UseSandbox {
		return s.TestSecretKey
	}
	return s.LiveSecretKey
}

// PublishableKey returns the publishable key for the active environment
func (s *Settings) PublishableKey() string {
	if s.UseSandbox {
		return s.TestPublishableKey
	}
	return s.LivePublishableKey
}

// CustomerIDKey returns the attribute key holding the Stripe customer id.
// Sandbox and live customers never share an id.
func (s *Settings) CustomerIDKey() string {
	if s.UseSandbox {
		return CustomerIDAttributeSandbox
	}
	return CustomerIDAttributeProduction
}

// CredentialsMissing is true when any of the four keys is empty
func (s *Settings) CredentialsMissing() bool {
	return s.LiveSecretKey == "" ||
		s.LivePublishableKey == "" ||
		s.TestSecretKey == "" ||
		s.TestPublishableKey == ""
}

// Clone returns a copy safe to mutate
func (s *Settings) Clone() *Settings {
	c := *s
	return &c
}
