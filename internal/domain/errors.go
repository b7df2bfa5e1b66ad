package domain

import "errors"

// Common domain errors
var (
	ErrCustomerNotFound       = errors.New("customer cannot be loaded")
	ErrOrderRequired          = errors.New("order is required")
	ErrPrimaryCurrencyMissing = errors.New("primary store currency cannot be loaded")
	ErrCurrencyNotSupported   = errors.New("currency is not supported by Stripe")
	ErrUnknownChargeStatus    = errors.New("charge status unknown")
	ErrUnknownRefundStatus    = errors.New("refund status unknown")
	ErrUnmappedChargeStatus   = errors.New("charge status has no payment status")
	ErrChargeFailed           = errors.New("charge failed")
	ErrVoidNotSupported       = errors.New("void is not supported")
	ErrInvalidRequest         = errors.New("invalid payment request")
	ErrInvalidTransactionMode = errors.New("invalid transaction mode")
	ErrSettingsNotFound       = errors.New("stripe settings not found")
	ErrGatewayConnection      = errors.New("cannot connect to stripe using provided credentials")
	ErrInvalidConfiguration   = errors.New("invalid configuration")
	ErrLocaleResourceNotFound = errors.New("locale resource not found")
	ErrStoreNotFound          = errors.New("store cannot be loaded")
)
