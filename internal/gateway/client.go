package gateway

import (
	"context"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/customer"
)

// CustomerAPI is the part of the Stripe customer service the plugin calls
type CustomerAPI interface {
	Get(id string, params *stripe.CustomerParams) (*stripe.Customer, error)
	New(params *stripe.CustomerParams) (*stripe.Customer, error)
}

// ChargeAPI is the part of the Stripe charge service the plugin calls
type ChargeAPI interface {
	New(params *stripe.ChargeParams) (*stripe.Charge, error)
	Capture(id string, params *stripe.ChargeCaptureParams) (*stripe.Charge, error)
}

// TokenAPI creates card tokens
type TokenAPI interface {
	New(params *stripe.TokenParams) (*stripe.Token, error)
}

// RefundAPI creates refunds
type RefundAPI interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

// Prober checks that the configured credentials are accepted
type Prober interface {
	Probe(ctx context.Context) error
}

// Client is a Stripe API client bound to one settings record's secret key
type Client struct {
	Customers CustomerAPI
	Charges   ChargeAPI
	Tokens    TokenAPI
	Refunds   RefundAPI
	Prober    Prober
}

// Factory builds a Client for a settings record
type Factory interface {
	New(settings *domain.Settings) *Client
}

// StripeFactory builds clients backed by the Stripe API
type StripeFactory struct {
	backends *stripe.Backends
}

// NewStripeFactory creates a factory. A nil backends selects NoRetryBackends
// against the public API; explicit backends are used as given.
func NewStripeFactory(backends *stripe.Backends) *StripeFactory {
	if backends == nil {
		backends = NoRetryBackends("")
	}
	return &StripeFactory{backends: backends}
}

// NoRetryBackends builds Stripe backends with network retries disabled.
// stripe-go retries twice by default; gateway failures must reach the host
// on the first attempt. An empty url keeps the public API endpoint.
func NoRetryBackends(url string) *stripe.Backends {
	cfg := &stripe.BackendConfig{MaxNetworkRetries: stripe.Int64(0)}
	if url != "" {
		cfg.URL = stripe.String(url)
	}
	return stripe.NewBackendsWithConfig(cfg)
}

// New creates a client from settings.APIKey(). The key is never stored in
// the package-global stripe.Key, so sandbox and live clients can coexist.
func (f *StripeFactory) New(settings *domain.Settings) *Client {
	api := client.New(settings.APIKey(), f.backends)
	return &Client{
		Customers: api.Customers,
		Charges:   api.Charges,
		Tokens:    api.Tokens,
		Refunds:   api.Refunds,
		Prober:    &customerProber{customers: api.Customers},
	}
}

// customerProber lists a single customer, the cheapest authenticated call
type customerProber struct {
	customers *customer.Client
}

func (p *customerProber) Probe(ctx context.Context) error {
	params := &stripe.CustomerListParams{}
	params.Limit = stripe.Int64(1)
	params.Context = ctx

	it := p.customers.List(params)
	it.Next()
	return it.Err()
}

// FactoryFunc adapts a function to Factory
type FactoryFunc func(settings *domain.Settings) *Client

// New calls f(settings)
func (f FactoryFunc) New(settings *domain.Settings) *Client {
	return f(settings)
}
