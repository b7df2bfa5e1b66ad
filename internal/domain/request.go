package domain

import "github.com/shopspring/decimal"

// ProcessPaymentRequest carries checkout data from the host
type ProcessPaymentRequest struct {
	OrderGUID             string          `json:"order_guid"`
	CustomerID            int             `json:"customer_id"`
	StoreID               int             `json:"store_id"`
	OrderTotal            decimal.Decimal `json:"order_total"`
	CreditCardType        string          `json:"credit_card_type,omitempty"`
	CreditCardName        string          `json:"credit_card_name"`
	CreditCardNumber      string          `json:"credit_card_number"`
	CreditCardExpireMonth int             `json:"credit_card_expire_month"`
	CreditCardExpireYear  int             `json:"credit_card_expire_year"`
	CreditCardCvv2        string          `json:"credit_card_cvv2"`
	IsRecurringPayment    bool            `json:"is_recurring_payment,omitempty"`
}

// ProcessPaymentResult reports the outcome of a charge
type ProcessPaymentResult struct {
	NewPaymentStatus               PaymentStatus `json:"new_payment_status"`
	AuthorizationTransactionID     string        `json:"authorization_transaction_id,omitempty"`
	AuthorizationTransactionResult string        `json:"authorization_transaction_result,omitempty"`
	CaptureTransactionID           string        `json:"capture_transaction_id,omitempty"`
	CaptureTransactionResult       string        `json:"capture_transaction_result,omitempty"`
	Errors                         []string      `json:"errors,omitempty"`
}

// Success reports whether no errors were recorded
func (r *ProcessPaymentResult) Success() bool { return len(r.Errors) == 0 }

// AddError appends an error message
func (r *ProcessPaymentResult) AddError(msg string) { r.Errors = append(r.Errors, msg) }

// CapturePaymentRequest asks to capture an authorized order
type CapturePaymentRequest struct {
	Order *Order `json:"order"`
}

// CapturePaymentResult reports the outcome of a capture
type CapturePaymentResult struct {
	NewPaymentStatus         PaymentStatus `json:"new_payment_status"`
	CaptureTransactionID     string        `json:"capture_transaction_id,omitempty"`
	CaptureTransactionResult string        `json:"capture_transaction_result,omitempty"`
	Errors                   []string      `json:"errors,omitempty"`
}

func (r *CapturePaymentResult) Success() bool { return len(r.Errors) == 0 }

func (r *CapturePaymentResult) AddError(msg string) { r.Errors = append(r.Errors, msg) }

// RefundPaymentRequest asks to refund a captured order
type RefundPaymentRequest struct {
	Order           *Order          `json:"order"`
	AmountToRefund  decimal.Decimal `json:"amount_to_refund"`
	IsPartialRefund bool            `json:"is_partial_refund"`
}

// RefundPaymentResult reports the outcome of a refund
type RefundPaymentResult struct {
	NewPaymentStatus PaymentStatus `json:"new_payment_status"`
	Errors           []string      `json:"errors,omitempty"`
}

func (r *RefundPaymentResult) Success() bool { return len(r.Errors) == 0 }

func (r *RefundPaymentResult) AddError(msg string) { r.Errors = append(r.Errors, msg) }

// VoidPaymentRequest asks to void an authorization
type VoidPaymentRequest struct {
	Order *Order `json:"order"`
}

// VoidPaymentResult reports the outcome of a void
type VoidPaymentResult struct {
	NewPaymentStatus PaymentStatus `json:"new_payment_status"`
	Errors           []string      `json:"errors,omitempty"`
}

func (r *VoidPaymentResult) Success() bool { return len(r.Errors) == 0 }

// CancelRecurringPaymentRequest asks to stop a recurring order
type CancelRecurringPaymentRequest struct {
	Order *Order `json:"order"`
}

// CancelRecurringPaymentResult reports the outcome of a cancellation
type CancelRecurringPaymentResult struct {
	Errors []string `json:"errors,omitempty"`
}

func (r *CancelRecurringPaymentResult) Success() bool { return len(r.Errors) == 0 }

// PostProcessPaymentRequest follows a placed order
type PostProcessPaymentRequest struct {
	Order *Order `json:"order"`
}
