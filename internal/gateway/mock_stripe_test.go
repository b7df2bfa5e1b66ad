package gateway

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockCustomerAPI struct {
	mock.Mock
}

func (m *MockCustomerAPI) Get(id string, params *stripe.CustomerParams) (*stripe.Customer, error) {
	args := m.Called(id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

func (m *MockCustomerAPI) New(params *stripe.CustomerParams) (*stripe.Customer, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

type MockChargeAPI struct {
	mock.Mock
}

func (m *MockChargeAPI) New(params *stripe.ChargeParams) (*stripe.Charge, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Charge), args.Error(1)
}

func (m *MockChargeAPI) Capture(id string, params *stripe.ChargeCaptureParams) (*stripe.Charge, error) {
	args := m.Called(id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Charge), args.Error(1)
}

type MockTokenAPI struct {
	mock.Mock
}

func (m *MockTokenAPI) New(params *stripe.TokenParams) (*stripe.Token, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Token), args.Error(1)
}

type MockRefundAPI struct {
	mock.Mock
}

func (m *MockRefundAPI) New(params *stripe.RefundParams) (*stripe.Refund, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Refund), args.Error(1)
}

type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockClient struct {
	customers *MockCustomerAPI
	charges   *MockChargeAPI
	tokens    *MockTokenAPI
	refunds   *MockRefundAPI
	prober    *MockProber
	client    *Client
}

func newMockClient() *mockClient {
	m := &mockClient{
		customers: new(MockCustomerAPI),
		charges:   new(MockChargeAPI),
		tokens:    new(MockTokenAPI),
		refunds:   new(MockRefundAPI),
		prober:    new(MockProber),
	}
	m.client = &Client{
		Customers: m.customers,
		Charges:   m.charges,
		Tokens:    m.tokens,
		Refunds:   m.refunds,
		Prober:    m.prober,
	}
	return m
}
