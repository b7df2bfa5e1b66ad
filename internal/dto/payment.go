package dto

import (
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/shopspring/decimal"
)

// AddressRequest is a billing address with country and state already resolved to names
type AddressRequest struct {
	Address1      string `json:"address1"`
	Address2      string `json:"address2,omitempty"`
	City          string `json:"city"`
	StateProvince string `json:"state_province,omitempty"`
	Country       string `json:"country,omitempty"`
	ZipPostalCode string `json:"zip_postal_code"`
}

// CustomerRequest is the host customer sent along with a payment
type CustomerRequest struct {
	ID             int             `json:"id" binding:"required,gt=0"`
	Email          string          `json:"email" binding:"omitempty,email"`
	BillingAddress *AddressRequest `json:"billing_address,omitempty"`
}

// ToDomain converts to domain.Customer
func (r *CustomerRequest) ToDomain() *domain.Customer {
	c := &domain.Customer{ID: r.ID, Email: r.Email}
	if a := r.BillingAddress; a != nil {
		c.BillingAddress = &domain.Address{
			Address1:      a.Address1,
			Address2:      a.Address2,
			City:          a.City,
			StateProvince: a.StateProvince,
			Country:       a.Country,
			ZipPostalCode: a.ZipPostalCode,
		}
	}
	return c
}

// ProcessPaymentRequest represents a request to charge a card for an order
type ProcessPaymentRequest struct {
	OrderGUID             string          `json:"order_guid" binding:"required"`
	CustomerID            int             `json:"customer_id" binding:"required,gt=0"`
	OrderTotal            decimal.Decimal `json:"order_total"`
	CreditCardType        string          `json:"credit_card_type,omitempty"`
	CreditCardName        string          `json:"credit_card_name"`
	CreditCardNumber      string          `json:"credit_card_number" binding:"required"`
	CreditCardExpireMonth int             `json:"credit_card_expire_month" binding:"required,min=1,max=12"`
	CreditCardExpireYear  int             `json:"credit_card_expire_year" binding:"required"`
	CreditCardCvv2        string          `json:"credit_card_cvv2"`
	// Customer, when present, is saved before the charge
	Customer *CustomerRequest `json:"customer,omitempty"`
}

// ToDomain converts to domain.ProcessPaymentRequest
func (r *ProcessPaymentRequest) ToDomain(storeID int, recurring bool) *domain.ProcessPaymentRequest {
	return &domain.ProcessPaymentRequest{
		OrderGUID:             r.OrderGUID,
		CustomerID:            r.CustomerID,
		StoreID:               storeID,
		OrderTotal:            r.OrderTotal,
		CreditCardType:        r.CreditCardType,
		CreditCardName:        r.CreditCardName,
		CreditCardNumber:      r.CreditCardNumber,
		CreditCardExpireMonth: r.CreditCardExpireMonth,
		CreditCardExpireYear:  r.CreditCardExpireYear,
		CreditCardCvv2:        r.CreditCardCvv2,
		IsRecurringPayment:    recurring,
	}
}

// OrderRequest is the part of the host order an operation needs
type OrderRequest struct {
	ID                         int             `json:"id" binding:"required,gt=0"`
	CustomerID                 int             `json:"customer_id"`
	OrderTotal                 decimal.Decimal `json:"order_total"`
	AuthorizationTransactionID string          `json:"authorization_transaction_id,omitempty"`
	CaptureTransactionID       string          `json:"capture_transaction_id,omitempty"`
}

// ToDomain converts to domain.Order
func (r *OrderRequest) ToDomain() *domain.Order {
	return &domain.Order{
		ID:                         r.ID,
		CustomerID:                 r.CustomerID,
		OrderTotal:                 r.OrderTotal,
		AuthorizationTransactionID: r.AuthorizationTransactionID,
		CaptureTransactionID:       r.CaptureTransactionID,
	}
}

// OrderOperationRequest wraps an order for capture, void, cancel and post-process
type OrderOperationRequest struct {
	Order *OrderRequest `json:"order" binding:"required"`
}

// RefundPaymentRequest represents a full or partial refund
type RefundPaymentRequest struct {
	Order           *OrderRequest   `json:"order" binding:"required"`
	AmountToRefund  decimal.Decimal `json:"amount_to_refund"`
	IsPartialRefund bool            `json:"is_partial_refund"`
}

// CartItemRequest is a cart line
type CartItemRequest struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity" binding:"gte=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// AdditionalFeeRequest carries the cart the fee is computed for
type AdditionalFeeRequest struct {
	Cart []CartItemRequest `json:"cart" binding:"dive"`
}

// ToDomain converts the cart lines
func (r *AdditionalFeeRequest) ToDomain() []domain.CartItem {
	items := make([]domain.CartItem, 0, len(r.Cart))
	for _, it := range r.Cart {
		items = append(items, domain.CartItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return items
}

// PaymentResultResponse is the outcome of process, capture, refund and void
type PaymentResultResponse struct {
	NewPaymentStatus               domain.PaymentStatus `json:"new_payment_status"`
	NewPaymentStatusName           string               `json:"new_payment_status_name,omitempty"`
	AuthorizationTransactionID     string               `json:"authorization_transaction_id,omitempty"`
	AuthorizationTransactionResult string               `json:"authorization_transaction_result,omitempty"`
	CaptureTransactionID           string               `json:"capture_transaction_id,omitempty"`
	CaptureTransactionResult       string               `json:"capture_transaction_result,omitempty"`
	Success                        bool                 `json:"success"`
	Errors                         []string             `json:"errors,omitempty"`
}

func statusName(s domain.PaymentStatus) string {
	if s == 0 {
		return ""
	}
	return s.String()
}

// FromProcessResult converts a domain.ProcessPaymentResult
func FromProcessResult(r *domain.ProcessPaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		NewPaymentStatus:               r.NewPaymentStatus,
		NewPaymentStatusName:           statusName(r.NewPaymentStatus),
		AuthorizationTransactionID:     r.AuthorizationTransactionID,
		AuthorizationTransactionResult: r.AuthorizationTransactionResult,
		CaptureTransactionID:           r.CaptureTransactionID,
		CaptureTransactionResult:       r.CaptureTransactionResult,
		Success:                        r.Success(),
		Errors:                         r.Errors,
	}
}

// FromCaptureResult converts a domain.CapturePaymentResult
func FromCaptureResult(r *domain.CapturePaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		NewPaymentStatus:         r.NewPaymentStatus,
		NewPaymentStatusName:     statusName(r.NewPaymentStatus),
		CaptureTransactionID:     r.CaptureTransactionID,
		CaptureTransactionResult: r.CaptureTransactionResult,
		Success:                  r.Success(),
		Errors:                   r.Errors,
	}
}

// FromRefundResult converts a domain.RefundPaymentResult
func FromRefundResult(r *domain.RefundPaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		NewPaymentStatus:     r.NewPaymentStatus,
		NewPaymentStatusName: statusName(r.NewPaymentStatus),
		Success:              r.Success(),
		Errors:               r.Errors,
	}
}

// AdditionalFeeResponse is the handling fee for a cart
type AdditionalFeeResponse struct {
	Fee decimal.Decimal `json:"fee"`
}

// HiddenResponse tells checkout whether to hide the method
type HiddenResponse struct {
	Hidden bool `json:"hidden"`
}

// CanRePostResponse tells the host whether the order can be re-posted
type CanRePostResponse struct {
	CanRePost bool `json:"can_repost"`
}

// CaptureRequest converts to domain.CapturePaymentRequest
func (r *OrderOperationRequest) CaptureRequest() *domain.CapturePaymentRequest {
	return &domain.CapturePaymentRequest{Order: r.Order.ToDomain()}
}

// VoidRequest converts to domain.VoidPaymentRequest
func (r *OrderOperationRequest) VoidRequest() *domain.VoidPaymentRequest {
	return &domain.VoidPaymentRequest{Order: r.Order.ToDomain()}
}

// CancelRecurringRequest converts to domain.CancelRecurringPaymentRequest
func (r *OrderOperationRequest) CancelRecurringRequest() *domain.CancelRecurringPaymentRequest {
	return &domain.CancelRecurringPaymentRequest{Order: r.Order.ToDomain()}
}

// PostProcessRequest converts to domain.PostProcessPaymentRequest
func (r *OrderOperationRequest) PostProcessRequest() *domain.PostProcessPaymentRequest {
	return &domain.PostProcessPaymentRequest{Order: r.Order.ToDomain()}
}

// ToDomain converts to domain.RefundPaymentRequest
func (r *RefundPaymentRequest) ToDomain() *domain.RefundPaymentRequest {
	return &domain.RefundPaymentRequest{
		Order:           r.Order.ToDomain(),
		AmountToRefund:  r.AmountToRefund,
		IsPartialRefund: r.IsPartialRefund,
	}
}
