package domain

import "github.com/shopspring/decimal"

// Address is a host billing address with country and state already resolved to names
type Address struct {
	Address1      string `json:"address1"`
	Address2      string `json:"address2,omitempty"`
	City          string `json:"city"`
	StateProvince string `json:"state_province,omitempty"`
	Country       string `json:"country,omitempty"`
	ZipPostalCode string `json:"zip_postal_code"`
}

// Customer is the host's customer record
type Customer struct {
	ID             int      `json:"id"`
	Email          string   `json:"email"`
	BillingAddress *Address `json:"billing_address,omitempty"`
}

// Store is the host store the plugin runs in
type Store struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Order is the part of the host order the plugin reads
type Order struct {
	ID                         int             `json:"id"`
	CustomerID                 int             `json:"customer_id"`
	OrderTotal                 decimal.Decimal `json:"order_total"`
	AuthorizationTransactionID string          `json:"authorization_transaction_id,omitempty"`
	CaptureTransactionID       string          `json:"capture_transaction_id,omitempty"`
}

// CartItem is a shopping cart line used for fee calculation
type CartItem struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal sums quantity times unit price over the cart
func Subtotal(cart []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
