package service

import (
	"context"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/validator"
	"github.com/shopspring/decimal"
)

const (
	// SystemName identifies the plugin to the host
	SystemName = "WebTail.Stripe"
	// ControllerName is the admin controller serving the configuration page
	ControllerName = "PaymentStripe"
	// ViewComponentName renders the checkout payment form
	ViewComponentName = "PaymentStripe"
)

// PaymentPlugin is the Stripe payment method exposed to the host
type PaymentPlugin interface {
	// Descriptor returns the capability flags and display data
	Descriptor(ctx context.Context) *Descriptor

	// ProcessPayment charges the card for a placed order
	ProcessPayment(ctx context.Context, req *domain.ProcessPaymentRequest) (*domain.ProcessPaymentResult, error)

	// ProcessRecurringPayment charges the card for a recurring order
	ProcessRecurringPayment(ctx context.Context, req *domain.ProcessPaymentRequest) (*domain.ProcessPaymentResult, error)

	// Capture captures an authorized charge
	Capture(ctx context.Context, req *domain.CapturePaymentRequest) (*domain.CapturePaymentResult, error)

	// Refund refunds all or part of a captured charge
	Refund(ctx context.Context, req *domain.RefundPaymentRequest) (*domain.RefundPaymentResult, error)

	// Void is not supported and always fails
	Void(ctx context.Context, req *domain.VoidPaymentRequest) (*domain.VoidPaymentResult, error)

	// CancelRecurringPayment always succeeds
	CancelRecurringPayment(ctx context.Context, req *domain.CancelRecurringPaymentRequest) (*domain.CancelRecurringPaymentResult, error)

	// CanRePostProcessPayment is always false; this is not a redirection method
	CanRePostProcessPayment(ctx context.Context, order *domain.Order) (bool, error)

	// PostProcessPayment does nothing
	PostProcessPayment(ctx context.Context, req *domain.PostProcessPaymentRequest) error

	// GetAdditionalHandlingFee returns the configured fee for the cart
	GetAdditionalHandlingFee(ctx context.Context, cart []domain.CartItem) (decimal.Decimal, error)

	// HidePaymentMethod reports whether checkout should hide the method
	HidePaymentMethod(ctx context.Context) (bool, error)

	// ValidatePaymentForm returns localized warnings for the card form
	ValidatePaymentForm(ctx context.Context, form *validator.PaymentForm) []string

	// GetPaymentInfo converts the card form into a payment request
	GetPaymentInfo(form *validator.PaymentForm) (*domain.ProcessPaymentRequest, error)

	// SaveCustomer records the host customer the next payment refers to
	SaveCustomer(ctx context.Context, customer *domain.Customer) error

	// GetConfiguration returns the admin configuration form
	GetConfiguration(ctx context.Context) (*Configuration, error)

	// Configure validates, verifies and persists new settings
	Configure(ctx context.Context, model *validator.ConfigurationModel) (*Configuration, error)

	// VerifyConnection checks the stored credentials against Stripe
	VerifyConnection(ctx context.Context) error

	// Install persists default settings and locale resources
	Install(ctx context.Context) error

	// Uninstall removes settings and locale resources
	Uninstall(ctx context.Context) error
}

// PluginConfig holds the host context the plugin runs in
type PluginConfig struct {
	Store           domain.Store
	PrimaryCurrency string
}

// Descriptor is what the host shows about the payment method
type Descriptor struct {
	SystemName               string                      `json:"system_name"`
	SupportCapture           bool                        `json:"support_capture"`
	SupportPartiallyRefund   bool                        `json:"support_partially_refund"`
	SupportRefund            bool                        `json:"support_refund"`
	SupportVoid              bool                        `json:"support_void"`
	RecurringPaymentType     domain.RecurringPaymentType `json:"recurring_payment_type"`
	PaymentMethodType        domain.PaymentMethodType    `json:"payment_method_type"`
	SkipPaymentInfo          bool                        `json:"skip_payment_info"`
	PaymentMethodDescription string                      `json:"payment_method_description"`
	ConfigurationPageURL     string                      `json:"configuration_page_url"`
	PublicViewComponentName  string                      `json:"public_view_component_name"`
}

// Configuration is the admin form plus the data needed to render it
type Configuration struct {
	Settings         *domain.Settings `json:"settings"`
	TransactionModes []ModeOption     `json:"transaction_modes"`
	Instructions     string           `json:"instructions"`
	Message          string           `json:"message,omitempty"`
}

// ModeOption is one entry of the transaction mode select list
type ModeOption struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}
