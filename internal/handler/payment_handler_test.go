package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/internal/validator"
	"github.com/prohmpiriya/webtail-stripe/pkg/response"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockPaymentPlugin implements service.PaymentPlugin for testing
type MockPaymentPlugin struct {
	mock.Mock
}

func (m *MockPaymentPlugin) Descriptor(ctx context.Context) *service.Descriptor {
	return m.Called(ctx).Get(0).(*service.Descriptor)
}

func (m *MockPaymentPlugin) ProcessPayment(ctx context.Context, req *domain.ProcessPaymentRequest) (*domain.ProcessPaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessPaymentResult), args.Error(1)
}

func (m *MockPaymentPlugin) ProcessRecurringPayment(ctx context.Context, req *domain.ProcessPaymentRequest) (*domain.ProcessPaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessPaymentResult), args.Error(1)
}

func (m *MockPaymentPlugin) Capture(ctx context.Context, req *domain.CapturePaymentRequest) (*domain.CapturePaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapturePaymentResult), args.Error(1)
}

func (m *MockPaymentPlugin) Refund(ctx context.Context, req *domain.RefundPaymentRequest) (*domain.RefundPaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefundPaymentResult), args.Error(1)
}

func (m *MockPaymentPlugin) Void(ctx context.Context, req *domain.VoidPaymentRequest) (*domain.VoidPaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoidPaymentResult), args.Error(1)
}

func (m *MockPaymentPlugin) CancelRecurringPayment(ctx context.Context, req *domain.CancelRecurringPaymentRequest) (*domain.CancelRecurringPaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CancelRecurringPaymentResult), args.Error(1)
}

func (m *MockPaymentPlugin) CanRePostProcessPayment(ctx context.Context, order *domain.Order) (bool, error) {
	args := m.Called(ctx, order)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentPlugin) PostProcessPayment(ctx context.Context, req *domain.PostProcessPaymentRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPaymentPlugin) GetAdditionalHandlingFee(ctx context.Context, cart []domain.CartItem) (decimal.Decimal, error) {
	args := m.Called(ctx, cart)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentPlugin) HidePaymentMethod(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentPlugin) ValidatePaymentForm(ctx context.Context, form *validator.PaymentForm) []string {
	return m.Called(ctx, form).Get(0).([]string)
}

func (m *MockPaymentPlugin) GetPaymentInfo(form *validator.PaymentForm) (*domain.ProcessPaymentRequest, error) {
	args := m.Called(form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessPaymentRequest), args.Error(1)
}

func (m *MockPaymentPlugin) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockPaymentPlugin) GetConfiguration(ctx context.Context) (*service.Configuration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Configuration), args.Error(1)
}

func (m *MockPaymentPlugin) Configure(ctx context.Context, model *validator.ConfigurationModel) (*service.Configuration, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Configuration), args.Error(1)
}

func (m *MockPaymentPlugin) VerifyConnection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPaymentPlugin) Install(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPaymentPlugin) Uninstall(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setupTestRouter(plugin service.PaymentPlugin) *gin.Engine {
	router := gin.New()

	h := NewPaymentHandler(plugin, 1)
	router.GET("/api/v1/plugin", h.Descriptor)

	payments := router.Group("/api/v1/payments")
	{
		payments.POST("/process", h.ProcessPayment)
		payments.POST("/process-recurring", h.ProcessRecurringPayment)
		payments.POST("/capture", h.Capture)
		payments.POST("/refund", h.Refund)
		payments.POST("/void", h.Void)
		payments.POST("/cancel-recurring", h.CancelRecurringPayment)
		payments.POST("/post-process", h.PostProcessPayment)
		payments.POST("/can-repost", h.CanRePostProcessPayment)
		payments.POST("/additional-fee", h.AdditionalFee)
		payments.GET("/hidden", h.Hidden)
		payments.POST("/form/validate", h.ValidateForm)
		payments.POST("/form/info", h.PaymentInfo)
	}

	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (response.Response, map[string]any) {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func processBody() map[string]any {
	return map[string]any{
		"order_guid":               "guid-1",
		"customer_id":              7,
		"order_total":              "49.99",
		"credit_card_name":         "Jane Doe",
		"credit_card_number":       "4242424242424242",
		"credit_card_expire_month": 12,
		"credit_card_expire_year":  2030,
		"credit_card_cvv2":         "123",
	}
}

func TestPaymentHandler_Descriptor(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("Descriptor", mock.Anything).Return(&service.Descriptor{SystemName: service.SystemName, SupportCapture: true})

	w := doJSON(setupTestRouter(plugin), http.MethodGet, "/api/v1/plugin", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp, data := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "WebTail.Stripe", data["system_name"])
	assert.Equal(t, true, data["support_capture"])
}

func TestPaymentHandler_ProcessPayment(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("ProcessPayment", mock.Anything, mock.MatchedBy(func(r *domain.ProcessPaymentRequest) bool {
		return r.OrderGUID == "guid-1" &&
			r.StoreID == 1 &&
			r.OrderTotal.Equal(decimal.RequireFromString("49.99")) &&
			!r.IsRecurringPayment
	})).Return(&domain.ProcessPaymentResult{
		NewPaymentStatus:           domain.PaymentStatusAuthorized,
		AuthorizationTransactionID: "ch_1",
	}, nil)

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/process", processBody())

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, float64(20), data["new_payment_status"])
	assert.Equal(t, "Authorized", data["new_payment_status_name"])
	assert.Equal(t, "ch_1", data["authorization_transaction_id"])
	assert.Equal(t, true, data["success"])
	plugin.AssertNotCalled(t, "SaveCustomer", mock.Anything, mock.Anything)
}

func TestPaymentHandler_ProcessRecurringPayment_SavesCustomer(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("SaveCustomer", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.ID == 7 && c.BillingAddress != nil && c.BillingAddress.City == "Springfield"
	})).Return(nil).Once()
	plugin.On("ProcessRecurringPayment", mock.Anything, mock.MatchedBy(func(r *domain.ProcessPaymentRequest) bool {
		return r.IsRecurringPayment
	})).Return(&domain.ProcessPaymentResult{NewPaymentStatus: domain.PaymentStatusPaid}, nil)

	body := processBody()
	body["customer"] = map[string]any{
		"id":              7,
		"email":           "jane@example.com",
		"billing_address": map[string]any{"address1": "1 Main St", "city": "Springfield", "zip_postal_code": "62701"},
	}

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/process-recurring", body)

	assert.Equal(t, http.StatusOK, w.Code)
	plugin.AssertExpectations(t)
}

func TestPaymentHandler_ProcessPayment_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"charge failed", fmt.Errorf("%w: Your card was declined.", domain.ErrChargeFailed), http.StatusPaymentRequired, "CHARGE_FAILED"},
		{"not installed", domain.ErrSettingsNotFound, http.StatusNotFound, "NOT_INSTALLED"},
		{"customer missing", fmt.Errorf("%w: id 7", domain.ErrCustomerNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"currency", fmt.Errorf("%w: XTS", domain.ErrCurrencyNotSupported), http.StatusUnprocessableEntity, "CURRENCY_NOT_SUPPORTED"},
		{"unknown status", fmt.Errorf("%w: \"blocked\"", domain.ErrUnknownChargeStatus), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugin := new(MockPaymentPlugin)
			plugin.On("ProcessPayment", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/process", processBody())

			assert.Equal(t, tt.wantCode, w.Code)
			resp, _ := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestPaymentHandler_ProcessPayment_InvalidBody(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	body := processBody()
	delete(body, "order_guid")

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/process", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	plugin.AssertNotCalled(t, "ProcessPayment", mock.Anything, mock.Anything)
}

func TestPaymentHandler_Capture(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("Capture", mock.Anything, mock.MatchedBy(func(r *domain.CapturePaymentRequest) bool {
		return r.Order.ID == 100 && r.Order.AuthorizationTransactionID == "ch_auth"
	})).Return(&domain.CapturePaymentResult{
		NewPaymentStatus: domain.PaymentStatusAuthorized,
		Errors:           []string{"An error occured attempting to capture charge ch_auth."},
	}, nil)

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/capture", map[string]any{
		"order": map[string]any{"id": 100, "authorization_transaction_id": "ch_auth"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, false, data["success"])
	assert.Len(t, data["errors"], 1)
}

func TestPaymentHandler_Refund(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("Refund", mock.Anything, mock.MatchedBy(func(r *domain.RefundPaymentRequest) bool {
		return r.IsPartialRefund && r.AmountToRefund.Equal(decimal.NewFromInt(5))
	})).Return(&domain.RefundPaymentResult{NewPaymentStatus: domain.PaymentStatusPartiallyRefunded}, nil)

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/refund", map[string]any{
		"order":             map[string]any{"id": 100, "capture_transaction_id": "ch_cap"},
		"amount_to_refund":  "5",
		"is_partial_refund": true,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "PartiallyRefunded", data["new_payment_status_name"])
}

func TestPaymentHandler_Void(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("Void", mock.Anything, mock.Anything).Return(nil, domain.ErrVoidNotSupported)

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/void", map[string]any{
		"order": map[string]any{"id": 100},
	})

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestPaymentHandler_OrderRequired(t *testing.T) {
	plugin := new(MockPaymentPlugin)

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/capture", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	plugin.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
}

func TestPaymentHandler_CancelRecurringAndPostProcess(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("CancelRecurringPayment", mock.Anything, mock.Anything).Return(&domain.CancelRecurringPaymentResult{}, nil)
	plugin.On("PostProcessPayment", mock.Anything, mock.Anything).Return(nil)
	plugin.On("CanRePostProcessPayment", mock.Anything, mock.Anything).Return(false, nil)
	router := setupTestRouter(plugin)
	body := map[string]any{"order": map[string]any{"id": 100}}

	w := doJSON(router, http.MethodPost, "/api/v1/payments/cancel-recurring", body)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/payments/post-process", body)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/payments/can-repost", body)
	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, false, data["can_repost"])
}

func TestPaymentHandler_AdditionalFee(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("GetAdditionalHandlingFee", mock.Anything, mock.MatchedBy(func(cart []domain.CartItem) bool {
		return len(cart) == 1 && cart[0].Quantity == 2
	})).Return(decimal.RequireFromString("2.50"), nil)

	w := doJSON(setupTestRouter(plugin), http.MethodPost, "/api/v1/payments/additional-fee", map[string]any{
		"cart": []map[string]any{{"product_id": 1, "quantity": 2, "unit_price": "12.50"}},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "2.5", data["fee"])
}

func TestPaymentHandler_Hidden(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("HidePaymentMethod", mock.Anything).Return(true, nil)

	w := doJSON(setupTestRouter(plugin), http.MethodGet, "/api/v1/payments/hidden", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, true, data["hidden"])
}

func TestPaymentHandler_ValidateForm(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("ValidatePaymentForm", mock.Anything, mock.MatchedBy(func(f *validator.PaymentForm) bool {
		return f.CardNumber == "4111111111111112" && f.ExpireMonth == "04"
	})).Return([]string{"Wrong card number"})

	w := doForm(setupTestRouter(plugin), "/api/v1/payments/form/validate", url.Values{
		"CardholderName": {"Jane Doe"},
		"CardNumber":     {"4111111111111112"},
		"CardCode":       {"123"},
		"ExpireMonth":    {"04"},
		"ExpireYear":     {"2031"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, false, data["valid"])
	assert.Equal(t, []any{"Wrong card number"}, data["warnings"])
}

func TestPaymentHandler_PaymentInfo(t *testing.T) {
	plugin := new(MockPaymentPlugin)
	plugin.On("GetPaymentInfo", mock.MatchedBy(func(f *validator.PaymentForm) bool {
		return f.ExpireMonth == "04"
	})).Return(&domain.ProcessPaymentRequest{
		StoreID:               1,
		CreditCardName:        "Jane Doe",
		CreditCardNumber:      "4242424242424242",
		CreditCardExpireMonth: 4,
		CreditCardExpireYear:  2031,
	}, nil)
	plugin.On("GetPaymentInfo", mock.Anything).Return(nil, fmt.Errorf("%w: expire month", domain.ErrInvalidRequest))
	router := setupTestRouter(plugin)

	w := doForm(router, "/api/v1/payments/form/info", url.Values{"ExpireMonth": {"04"}, "ExpireYear": {"2031"}})
	assert.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Equal(t, "4242", data["credit_card_last_four"])
	assert.NotContains(t, w.Body.String(), "4242424242424242")

	w = doForm(router, "/api/v1/payments/form/info", url.Values{"ExpireMonth": {"April"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_GatewayErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"stripe error", fmt.Errorf("failed to create card token: %w", &stripe.Error{Msg: "Your card number is incorrect."}), http.StatusBadGateway, "Your card number is incorrect."},
		{"unhandled", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plugin := new(MockPaymentPlugin)
			plugin.On("HidePaymentMethod", mock.Anything).Return(false, tt.err)

			w := doJSON(setupTestRouter(plugin), http.MethodGet, "/api/v1/payments/hidden", nil)

			assert.Equal(t, tt.wantCode, w.Code)
			resp, _ := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}
