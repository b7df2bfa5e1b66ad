package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/events"
	"github.com/prohmpiriya/webtail-stripe/internal/gateway"
	"github.com/prohmpiriya/webtail-stripe/internal/locale"
	"github.com/prohmpiriya/webtail-stripe/internal/metrics"
	"github.com/prohmpiriya/webtail-stripe/internal/repository"
	"github.com/prohmpiriya/webtail-stripe/internal/validator"
	"github.com/prohmpiriya/webtail-stripe/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Deps are the collaborators of the payment plugin
type Deps struct {
	Settings   repository.SettingsRepository
	Customers  repository.CustomerRepository
	Attributes repository.AttributeRepository
	Localizer  *locale.Localizer
	Validator  *validator.Validator
	Gateway    gateway.Factory
	Publisher  events.Publisher
}

// paymentPluginImpl implements PaymentPlugin
type paymentPluginImpl struct {
	settings   repository.SettingsRepository
	customers  repository.CustomerRepository
	attributes repository.AttributeRepository
	localizer  *locale.Localizer
	validator  *validator.Validator
	gateway    gateway.Factory
	publisher  events.Publisher
	config     *PluginConfig
}

// NewPaymentPlugin creates a new PaymentPlugin
func NewPaymentPlugin(deps *Deps, config *PluginConfig) PaymentPlugin {
	if config == nil {
		config = &PluginConfig{
			Store:           domain.Store{ID: 1, Location: "/"},
			PrimaryCurrency: "USD",
		}
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &paymentPluginImpl{
		settings:   deps.Settings,
		customers:  deps.Customers,
		attributes: deps.Attributes,
		localizer:  deps.Localizer,
		validator:  deps.Validator,
		gateway:    deps.Gateway,
		publisher:  publisher,
		config:     config,
	}
}

// Descriptor returns the capability flags and display data
func (p *paymentPluginImpl) Descriptor(ctx context.Context) *Descriptor {
	return &Descriptor{
		SystemName:               SystemName,
		SupportCapture:           true,
		SupportPartiallyRefund:   true,
		SupportRefund:            true,
		SupportVoid:              false,
		RecurringPaymentType:     domain.RecurringPaymentTypeManual,
		PaymentMethodType:        domain.PaymentMethodTypeStandard,
		SkipPaymentInfo:          false,
		PaymentMethodDescription: p.localizer.Get(ctx, locale.PaymentMethodDescription),
		ConfigurationPageURL:     p.configurationPageURL(),
		PublicViewComponentName:  ViewComponentName,
	}
}

func (p *paymentPluginImpl) configurationPageURL() string {
	return p.config.Store.Location + "Admin/" + ControllerName + "/Configure"
}

// ProcessPayment charges the card for a placed order
func (p *paymentPluginImpl) ProcessPayment(ctx context.Context, req *domain.ProcessPaymentRequest) (*domain.ProcessPaymentResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: process payment request is required", domain.ErrInvalidRequest)
	}
	return p.processPayment(ctx, req, false)
}

// ProcessRecurringPayment charges the card for a recurring order
func (p *paymentPluginImpl) ProcessRecurringPayment(ctx context.Context, req *domain.ProcessPaymentRequest) (*domain.ProcessPaymentResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: process payment request is required", domain.ErrInvalidRequest)
	}
	req.IsRecurringPayment = true
	return p.processPayment(ctx, req, true)
}

func (p *paymentPluginImpl) processPayment(ctx context.Context, req *domain.ProcessPaymentRequest, recurring bool) (result *domain.ProcessPaymentResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordCall(ctx, "process", start, err != nil) }()
	log := logger.Get().WithContext(ctx)

	settings, err := p.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	mode := effectiveMode(settings)

	customer, err := p.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	currency, err := gateway.ParseCurrency(p.config.PrimaryCurrency)
	if err != nil {
		return nil, err
	}

	client := p.gateway.New(settings)

	stripeCustomerID, err := p.stripeCustomerID(ctx, client, customer, settings)
	if err != nil {
		return nil, err
	}

	tokenID, err := client.CreateToken(ctx, gateway.CardParams(req, customer, currency))
	if err != nil {
		return nil, err
	}

	charge, err := client.CreateCharge(ctx, &gateway.ChargeRequest{
		TokenID:          tokenID,
		StripeCustomerID: stripeCustomerID,
		OrderGUID:        req.OrderGUID,
		Amount:           req.OrderTotal,
		Currency:         currency,
		Mode:             mode,
		StoreName:        p.config.Store.Name,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordCharge(ctx, mode.String(), charge.RawStatus, currency.String())

	event := events.NewTransactionEvent(events.EventTypeProcessed, p.config.Store.ID)
	event.OrderGUID = req.OrderGUID
	event.CustomerID = req.CustomerID
	event.TransactionID = charge.ID
	event.Mode = mode.String()
	event.Amount = req.OrderTotal
	event.Currency = currency.String()
	event.Sandbox = settings.UseSandbox
	event.Recurring = recurring

	if charge.Status == gateway.ChargeStatusFailed {
		event.EventType = events.EventTypeFailed
		event.Message = charge.FailureMessage
		p.publish(ctx, event)
		log.Warn("Charge failed",
			zap.String("charge_id", charge.ID),
			zap.String("order_guid", req.OrderGUID),
			zap.String("failure_message", charge.FailureMessage),
		)
		return nil, fmt.Errorf("%w: %s", domain.ErrChargeFailed, charge.FailureMessage)
	}

	status, err := gateway.PaymentStatusFor(charge.Status, mode)
	if err != nil {
		return nil, err
	}

	transactionResult := "Transaction was processed by using Stripe. Status is " + charge.Status.Name()
	result = &domain.ProcessPaymentResult{NewPaymentStatus: status}
	switch mode {
	case domain.TransactionModeAuthorize:
		result.AuthorizationTransactionID = charge.ID
		result.AuthorizationTransactionResult = transactionResult
	case domain.TransactionModeCharge:
		result.CaptureTransactionID = charge.ID
		result.CaptureTransactionResult = transactionResult
	}

	p.publish(ctx, event.WithStatus(status))
	log.Info("Payment processed",
		zap.String("charge_id", charge.ID),
		zap.String("order_guid", req.OrderGUID),
		zap.String("status", status.String()),
		zap.Bool("recurring", recurring),
	)
	return result, nil
}

// stripeCustomerID returns the Stripe customer stored for the local customer,
// creating and storing one on first use.
func (p *paymentPluginImpl) stripeCustomerID(ctx context.Context, client *gateway.Client, customer *domain.Customer, settings *domain.Settings) (string, error) {
	key := settings.CustomerIDKey()
	storedID, err := p.attributes.GetAttribute(ctx, repository.KeyGroupCustomer, customer.ID, key)
	if err != nil {
		return "", err
	}

	sc, err := client.GetOrCreateCustomer(ctx, customer, storedID, settings)
	if err != nil {
		return "", err
	}

	if storedID == "" {
		if err := p.attributes.SaveAttribute(ctx, repository.KeyGroupCustomer, customer.ID, key, sc.ID); err != nil {
			return "", err
		}
		metrics.RecordCustomerCreated(ctx, settings.UseSandbox)
	}
	return sc.ID, nil
}

// Capture captures an authorized charge
func (p *paymentPluginImpl) Capture(ctx context.Context, req *domain.CapturePaymentRequest) (result *domain.CapturePaymentResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordCall(ctx, "capture", start, err != nil || (result != nil && !result.Success())) }()

	if req == nil || req.Order == nil {
		return nil, domain.ErrOrderRequired
	}
	if req.Order.AuthorizationTransactionID == "" {
		return nil, fmt.Errorf("%w: order %d has no authorization transaction", domain.ErrInvalidRequest, req.Order.ID)
	}

	settings, err := p.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	charge, err := p.gateway.New(settings).CaptureCharge(ctx, req.Order.AuthorizationTransactionID, p.config.Store.Name)
	if err != nil {
		return nil, err
	}
	metrics.RecordCapture(ctx, charge.RawStatus)

	result = &domain.CapturePaymentResult{CaptureTransactionID: charge.ID}
	if charge.Status == gateway.ChargeStatusSucceeded {
		result.NewPaymentStatus = domain.PaymentStatusPaid
	} else {
		result.NewPaymentStatus = domain.PaymentStatusAuthorized
		result.AddError(fmt.Sprintf("An error occured attempting to capture charge %s.", charge.ID))
	}

	event := events.NewTransactionEvent(events.EventTypeCaptured, p.config.Store.ID)
	event.OrderID = req.Order.ID
	event.CustomerID = req.Order.CustomerID
	event.TransactionID = charge.ID
	event.Amount = req.Order.OrderTotal
	event.Currency = strings.ToLower(p.config.PrimaryCurrency)
	event.Sandbox = settings.UseSandbox
	event.Message = strings.Join(result.Errors, "; ")
	p.publish(ctx, event.WithStatus(result.NewPaymentStatus))

	return result, nil
}

// Refund refunds all or part of a captured charge
func (p *paymentPluginImpl) Refund(ctx context.Context, req *domain.RefundPaymentRequest) (result *domain.RefundPaymentResult, err error) {
	start := time.Now()
	defer func() { metrics.RecordCall(ctx, "refund", start, err != nil || (result != nil && !result.Success())) }()

	if req == nil || req.Order == nil {
		return nil, domain.ErrOrderRequired
	}
	if req.Order.CaptureTransactionID == "" {
		return nil, fmt.Errorf("%w: order %d has no capture transaction", domain.ErrInvalidRequest, req.Order.ID)
	}

	settings, err := p.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	currency, err := gateway.ParseCurrency(p.config.PrimaryCurrency)
	if err != nil {
		return nil, err
	}

	refund, err := p.gateway.New(settings).CreateRefund(ctx, req.Order.CaptureTransactionID, req.AmountToRefund, currency)
	if err != nil {
		return nil, err
	}
	metrics.RecordRefund(ctx, refund.RawStatus, req.IsPartialRefund)

	result = &domain.RefundPaymentResult{}
	if refund.Status != gateway.RefundStatusSucceeded {
		result.AddError("Refund is " + refund.RawStatus)
	} else if req.IsPartialRefund {
		result.NewPaymentStatus = domain.PaymentStatusPartiallyRefunded
	} else {
		result.NewPaymentStatus = domain.PaymentStatusRefunded
	}

	event := events.NewTransactionEvent(events.EventTypeRefunded, p.config.Store.ID)
	event.OrderID = req.Order.ID
	event.CustomerID = req.Order.CustomerID
	event.TransactionID = refund.ID
	event.Amount = req.AmountToRefund
	event.Currency = currency.String()
	event.Sandbox = settings.UseSandbox
	event.Message = strings.Join(result.Errors, "; ")
	if result.Success() {
		event.WithStatus(result.NewPaymentStatus)
	}
	p.publish(ctx, event)

	return result, nil
}

// Void is not supported
func (p *paymentPluginImpl) Void(ctx context.Context, req *domain.VoidPaymentRequest) (*domain.VoidPaymentResult, error) {
	return nil, domain.ErrVoidNotSupported
}

// CancelRecurringPayment always succeeds
func (p *paymentPluginImpl) CancelRecurringPayment(ctx context.Context, req *domain.CancelRecurringPaymentRequest) (*domain.CancelRecurringPaymentResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: cancel recurring payment request is required", domain.ErrInvalidRequest)
	}
	return &domain.CancelRecurringPaymentResult{}, nil
}

// CanRePostProcessPayment is always false for a non-redirection method
func (p *paymentPluginImpl) CanRePostProcessPayment(ctx context.Context, order *domain.Order) (bool, error) {
	if order == nil {
		return false, domain.ErrOrderRequired
	}
	return false, nil
}

// PostProcessPayment does nothing
func (p *paymentPluginImpl) PostProcessPayment(ctx context.Context, req *domain.PostProcessPaymentRequest) error {
	return nil
}

// GetAdditionalHandlingFee returns the fee for the cart: zero when no fee is set,
// a percentage of the cart subtotal, or the fixed amount. Rounded to 2 places.
func (p *paymentPluginImpl) GetAdditionalHandlingFee(ctx context.Context, cart []domain.CartItem) (decimal.Decimal, error) {
	settings, err := p.loadSettings(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return AdditionalFee(settings, cart), nil
}

// AdditionalFee computes the handling fee for a cart under settings
func AdditionalFee(settings *domain.Settings, cart []domain.CartItem) decimal.Decimal {
	fee := settings.AdditionalFee
	if !fee.IsPositive() {
		return decimal.Zero
	}
	if settings.AdditionalFeePercentage {
		return domain.Subtotal(cart).Mul(fee).Div(decimal.NewFromInt(100)).Round(2)
	}
	return fee.Round(2)
}

// HidePaymentMethod is true when any key is missing or the plugin is not installed
func (p *paymentPluginImpl) HidePaymentMethod(ctx context.Context) (bool, error) {
	settings, err := p.settings.Get(ctx, p.config.Store.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSettingsNotFound) {
			return true, nil
		}
		return false, err
	}
	return settings.CredentialsMissing(), nil
}

// ValidatePaymentForm returns localized warnings for the card form
func (p *paymentPluginImpl) ValidatePaymentForm(ctx context.Context, form *validator.PaymentForm) []string {
	return p.validator.ValidatePaymentForm(ctx, form)
}

// GetPaymentInfo converts the card form into a payment request
func (p *paymentPluginImpl) GetPaymentInfo(form *validator.PaymentForm) (*domain.ProcessPaymentRequest, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: payment form is required", domain.ErrInvalidRequest)
	}

	month, err := strconv.Atoi(strings.TrimSpace(form.ExpireMonth))
	if err != nil {
		return nil, fmt.Errorf("%w: expire month %q is not a number", domain.ErrInvalidRequest, form.ExpireMonth)
	}
	year, err := strconv.Atoi(strings.TrimSpace(form.ExpireYear))
	if err != nil {
		return nil, fmt.Errorf("%w: expire year %q is not a number", domain.ErrInvalidRequest, form.ExpireYear)
	}

	return &domain.ProcessPaymentRequest{
		StoreID:               p.config.Store.ID,
		CreditCardType:        form.CreditCardType,
		CreditCardName:        form.CardholderName,
		CreditCardNumber:      form.CardNumber,
		CreditCardExpireMonth: month,
		CreditCardExpireYear:  year,
		CreditCardCvv2:        form.CardCode,
	}, nil
}

// SaveCustomer records the host customer the next payment refers to
func (p *paymentPluginImpl) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	if customer == nil || customer.ID <= 0 {
		return fmt.Errorf("%w: customer id is required", domain.ErrInvalidRequest)
	}
	return p.customers.Upsert(ctx, customer)
}

// GetConfiguration returns the admin configuration form
func (p *paymentPluginImpl) GetConfiguration(ctx context.Context) (*Configuration, error) {
	settings, err := p.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	return p.configuration(ctx, settings, ""), nil
}

func (p *paymentPluginImpl) configuration(ctx context.Context, settings *domain.Settings, message string) *Configuration {
	modes := domain.TransactionModes()
	options := make([]ModeOption, 0, len(modes))
	for _, m := range modes {
		options = append(options, ModeOption{ID: int(m), Name: m.String(), Selected: m == settings.TransactionMode})
	}
	return &Configuration{
		Settings:         settings,
		TransactionModes: options,
		Instructions:     p.localizer.Get(ctx, locale.Instructions),
		Message:          message,
	}
}

// Configure applies the model, verifies the credentials with Stripe and only then saves.
func (p *paymentPluginImpl) Configure(ctx context.Context, model *validator.ConfigurationModel) (*Configuration, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: configuration is required", domain.ErrInvalidConfiguration)
	}
	if msgs := p.validator.ValidateConfiguration(model); len(msgs) > 0 {
		return nil, &ValidationError{Err: domain.ErrInvalidConfiguration, Messages: msgs}
	}

	settings, err := p.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings.TransactionMode = domain.TransactionMode(model.TransactionModeID)
	settings.AdditionalFee = model.AdditionalFee
	settings.UseSandbox = model.UseSandbox
	settings.AdditionalFeePercentage = model.AdditionalFeePercentage
	settings.LivePublishableKey = model.LivePublishableKey
	settings.LiveSecretKey = model.LiveSecretKey
	settings.TestPublishableKey = model.TestPublishableKey
	settings.TestSecretKey = model.TestSecretKey

	if err := p.gateway.New(settings).Ping(ctx); err != nil {
		logger.Get().WithContext(ctx).Warn("Stripe connection check failed", zap.Error(err))
		return nil, err
	}

	if err := p.settings.Save(ctx, p.config.Store.ID, settings); err != nil {
		return nil, err
	}
	logger.Get().WithContext(ctx).Info("Stripe settings saved",
		zap.Int("store_id", p.config.Store.ID),
		zap.Bool("sandbox", settings.UseSandbox),
		zap.String("mode", settings.TransactionMode.String()),
	)

	return p.configuration(ctx, settings, p.localizer.Get(ctx, locale.PluginSaved)), nil
}

// VerifyConnection checks the stored credentials against Stripe
func (p *paymentPluginImpl) VerifyConnection(ctx context.Context) error {
	settings, err := p.loadSettings(ctx)
	if err != nil {
		return err
	}
	return p.gateway.New(settings).Ping(ctx)
}

// Install persists default settings and locale resources
func (p *paymentPluginImpl) Install(ctx context.Context) error {
	if err := p.settings.Save(ctx, p.config.Store.ID, domain.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	if err := p.localizer.Install(ctx); err != nil {
		return err
	}
	logger.Get().WithContext(ctx).Info("Plugin installed", zap.String("system_name", SystemName))
	return nil
}

// Uninstall removes settings and locale resources
func (p *paymentPluginImpl) Uninstall(ctx context.Context) error {
	if err := p.settings.Delete(ctx, p.config.Store.ID); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	if err := p.localizer.Uninstall(ctx); err != nil {
		return err
	}
	logger.Get().WithContext(ctx).Info("Plugin uninstalled", zap.String("system_name", SystemName))
	return nil
}

func (p *paymentPluginImpl) loadSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := p.settings.Get(ctx, p.config.Store.ID)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// publish never fails the call; a lost event is only logged
func (p *paymentPluginImpl) publish(ctx context.Context, event *events.TransactionEvent) {
	if err := p.publisher.Publish(ctx, event); err != nil {
		logger.Get().WithContext(ctx).Error("Failed to publish transaction event",
			zap.String("event_type", event.EventType),
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}

// effectiveMode falls back to Authorize for records saved without a mode
func effectiveMode(settings *domain.Settings) domain.TransactionMode {
	if settings.TransactionMode.Valid() {
		return settings.TransactionMode
	}
	return domain.TransactionModeAuthorize
}

// ValidationError carries the messages of a rejected form
type ValidationError struct {
	Err      error
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.Messages, " "))
}

func (e *ValidationError) Unwrap() error { return e.Err }
