package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/pkg/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/otel/attribute"
)

// Metadata keys written to Stripe objects
const (
	MetadataOrderGUID        = "order_guid"
	MetadataStripeCustomerID = "stripe_customer_id"
)

// ChargeRequest holds everything needed to create a charge
type ChargeRequest struct {
	TokenID          string
	StripeCustomerID string
	OrderGUID        string
	Amount           decimal.Decimal
	Currency         Currency
	Mode             domain.TransactionMode
	StoreName        string
}

// ChargeResult is a created or captured charge
type ChargeResult struct {
	ID             string
	Status         ChargeStatus
	RawStatus      string
	FailureMessage string
}

// RefundResult is a created refund
type RefundResult struct {
	ID        string
	Status    RefundStatus
	RawStatus string
}

// Ping verifies the client's credentials
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "stripe.ping")
	defer span.End()

	if err := c.Prober.Probe(ctx); err != nil {
		telemetry.SetSpanError(span, err)
		return fmt.Errorf("%w: %w", domain.ErrGatewayConnection, err)
	}
	return nil
}

// CardParams builds tokenization options from the payment request,
// adding the billing address when the customer has one.
func CardParams(req *domain.ProcessPaymentRequest, customer *domain.Customer, currency Currency) *stripe.CardParams {
	card := &stripe.CardParams{
		Number:   stripe.String(req.CreditCardNumber),
		ExpMonth: stripe.String(strconv.Itoa(req.CreditCardExpireMonth)),
		ExpYear:  stripe.String(strconv.Itoa(req.CreditCardExpireYear)),
		CVC:      stripe.String(req.CreditCardCvv2),
		Name:     stripe.String(req.CreditCardName),
		Currency: stripe.String(currency.String()),
	}

	if customer == nil || customer.BillingAddress == nil {
		return card
	}

	addr := customer.BillingAddress
	card.AddressLine1 = optional(addr.Address1)
	card.AddressLine2 = optional(addr.Address2)
	card.AddressCity = optional(addr.City)
	card.AddressState = optional(addr.StateProvince)
	card.AddressZip = optional(addr.ZipPostalCode)
	card.AddressCountry = optional(addr.Country)
	return card
}

// CreateToken tokenizes card details
func (c *Client) CreateToken(ctx context.Context, card *stripe.CardParams) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "stripe.token.create")
	defer span.End()

	params := &stripe.TokenParams{Card: card}
	params.Context = ctx

	token, err := c.Tokens.New(params)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return "", fmt.Errorf("failed to create card token: %w", err)
	}
	return token.ID, nil
}

// GetOrCreateCustomer returns the Stripe customer stored for the local
// customer, creating one when storedID is empty.
func (c *Client) GetOrCreateCustomer(ctx context.Context, customer *domain.Customer, storedID string, settings *domain.Settings) (*stripe.Customer, error) {
	ctx, span := telemetry.StartSpan(ctx, "stripe.customer.get_or_create")
	defer span.End()
	span.SetAttributes(
		attribute.Int("customer.id", customer.ID),
		attribute.Bool("customer.stored", storedID != ""),
	)

	if storedID != "" {
		params := &stripe.CustomerParams{}
		params.Context = ctx

		sc, err := c.Customers.Get(storedID, params)
		if err != nil {
			telemetry.SetSpanError(span, err)
			return nil, fmt.Errorf("failed to get stripe customer %s: %w", storedID, err)
		}
		return sc, nil
	}

	params := &stripe.CustomerParams{Email: optional(customer.Email)}
	params.AddMetadata(settings.CustomerIDKey(), strconv.Itoa(customer.ID))
	params.Context = ctx

	sc, err := c.Customers.New(params)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to create stripe customer: %w", err)
	}
	return sc, nil
}

// CreateCharge charges a card token. Authorize mode leaves the charge uncaptured.
func (c *Client) CreateCharge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "stripe.charge.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("charge.currency", req.Currency.String()),
		attribute.String("charge.mode", req.Mode.String()),
	)

	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(ToMinorUnits(req.Amount, req.Currency)),
		Currency: stripe.String(req.Currency.String()),
		Capture:  stripe.Bool(req.Mode == domain.TransactionModeCharge),
	}
	if err := params.SetSource(req.TokenID); err != nil {
		return nil, fmt.Errorf("failed to set charge source: %w", err)
	}
	if d := Descriptor(req.StoreName, ""); d != "" {
		params.StatementDescriptor = stripe.String(d)
	}
	if req.OrderGUID != "" {
		params.AddMetadata(MetadataOrderGUID, req.OrderGUID)
	}
	if req.StripeCustomerID != "" {
		params.AddMetadata(MetadataStripeCustomerID, req.StripeCustomerID)
	}
	params.Context = ctx

	ch, err := c.Charges.New(params)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}
	return chargeResult(ch)
}

// CaptureCharge captures a previously authorized charge
func (c *Client) CaptureCharge(ctx context.Context, chargeID, storeName string) (*ChargeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "stripe.charge.capture")
	defer span.End()
	span.SetAttributes(attribute.String("charge.id", chargeID))

	params := &stripe.ChargeCaptureParams{}
	if d := Descriptor(storeName, ""); d != "" {
		params.StatementDescriptor = stripe.String(d)
	}
	params.Context = ctx

	ch, err := c.Charges.Capture(chargeID, params)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to capture charge %s: %w", chargeID, err)
	}
	return chargeResult(ch)
}

// CreateRefund refunds amount of a captured charge
func (c *Client) CreateRefund(ctx context.Context, chargeID string, amount decimal.Decimal, currency Currency) (*RefundResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "stripe.refund.create")
	defer span.End()
	span.SetAttributes(attribute.String("charge.id", chargeID))

	params := &stripe.RefundParams{
		Charge: stripe.String(chargeID),
		Amount: stripe.Int64(ToMinorUnits(amount, currency)),
	}
	params.Context = ctx

	rf, err := c.Refunds.New(params)
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to refund charge %s: %w", chargeID, err)
	}

	status, err := ParseRefundStatus(string(rf.Status))
	if err != nil {
		telemetry.SetSpanError(span, err)
		return nil, err
	}
	return &RefundResult{ID: rf.ID, Status: status, RawStatus: string(rf.Status)}, nil
}

// ErrorMessage returns Stripe's human-readable message for err, or err.Error()
func ErrorMessage(err error) string {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return se.Msg
	}
	return err.Error()
}

func chargeResult(ch *stripe.Charge) (*ChargeResult, error) {
	status, err := ParseChargeStatus(string(ch.Status))
	if err != nil {
		return nil, err
	}
	return &ChargeResult{
		ID:             ch.ID,
		Status:         status,
		RawStatus:      string(ch.Status),
		FailureMessage: ch.FailureMessage,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return stripe.String(s)
}
