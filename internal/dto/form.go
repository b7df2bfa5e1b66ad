package dto

import (
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/validator"
	"github.com/shopspring/decimal"
)

// PaymentFormRequest is the checkout card form, posted form-encoded
type PaymentFormRequest struct {
	CreditCardType string `form:"CreditCardType"`
	CardholderName string `form:"CardholderName"`
	CardNumber     string `form:"CardNumber"`
	CardCode       string `form:"CardCode"`
	ExpireMonth    string `form:"ExpireMonth"`
	ExpireYear     string `form:"ExpireYear"`
}

// ToForm converts to the form the validator checks
func (r *PaymentFormRequest) ToForm() *validator.PaymentForm {
	return &validator.PaymentForm{
		CreditCardType: r.CreditCardType,
		CardholderName: r.CardholderName,
		CardNumber:     r.CardNumber,
		CardCode:       r.CardCode,
		ExpireMonth:    r.ExpireMonth,
		ExpireYear:     r.ExpireYear,
	}
}

// FormValidationResponse lists the warnings of a card form
type FormValidationResponse struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
}

// PaymentInfoResponse is the payment request built from a card form.
// The card number and code are never echoed back.
type PaymentInfoResponse struct {
	StoreID               int    `json:"store_id"`
	CreditCardType        string `json:"credit_card_type,omitempty"`
	CreditCardName        string `json:"credit_card_name"`
	CreditCardLastFour    string `json:"credit_card_last_four,omitempty"`
	CreditCardExpireMonth int    `json:"credit_card_expire_month"`
	CreditCardExpireYear  int    `json:"credit_card_expire_year"`
}

// FromPaymentInfo converts a domain.ProcessPaymentRequest
func FromPaymentInfo(r *domain.ProcessPaymentRequest) *PaymentInfoResponse {
	resp := &PaymentInfoResponse{
		StoreID:               r.StoreID,
		CreditCardType:        r.CreditCardType,
		CreditCardName:        r.CreditCardName,
		CreditCardExpireMonth: r.CreditCardExpireMonth,
		CreditCardExpireYear:  r.CreditCardExpireYear,
	}
	if n := len(r.CreditCardNumber); n >= 4 {
		resp.CreditCardLastFour = r.CreditCardNumber[n-4:]
	}
	return resp
}

// ConfigureRequest is the admin configuration form
type ConfigureRequest struct {
	UseSandbox              bool            `json:"use_sandbox"`
	TransactionModeID       int             `json:"transaction_mode_id"`
	LiveSecretKey           string          `json:"live_secret_key"`
	LivePublishableKey      string          `json:"live_publishable_key"`
	TestSecretKey           string          `json:"test_secret_key"`
	TestPublishableKey      string          `json:"test_publishable_key"`
	AdditionalFee           decimal.Decimal `json:"additional_fee"`
	AdditionalFeePercentage bool            `json:"additional_fee_percentage"`
}

// ToModel converts to the validated configuration model
func (r *ConfigureRequest) ToModel() *validator.ConfigurationModel {
	return &validator.ConfigurationModel{
		LiveSecretKey:           r.LiveSecretKey,
		LivePublishableKey:      r.LivePublishableKey,
		TestSecretKey:           r.TestSecretKey,
		TestPublishableKey:      r.TestPublishableKey,
		UseSandbox:              r.UseSandbox,
		AdditionalFee:           r.AdditionalFee,
		AdditionalFeePercentage: r.AdditionalFeePercentage,
		TransactionModeID:       r.TransactionModeID,
	}
}
