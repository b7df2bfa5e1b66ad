package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PaymentStatus is the host's order payment state (values match the host enum)
type PaymentStatus int

const (
	PaymentStatusPending           PaymentStatus = 10
	PaymentStatusAuthorized        PaymentStatus = 20
	PaymentStatusPaid              PaymentStatus = 30
	PaymentStatusPartiallyRefunded PaymentStatus = 35
	PaymentStatusRefunded          PaymentStatus = 40
	PaymentStatusVoided            PaymentStatus = 50
)

// String returns the host's name for the status
func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusAuthorized:
		return "Authorized"
	case PaymentStatusPaid:
		return "Paid"
	case PaymentStatusPartiallyRefunded:
		return "PartiallyRefunded"
	case PaymentStatusRefunded:
		return "Refunded"
	case PaymentStatusVoided:
		return "Voided"
	default:
		return fmt.Sprintf("PaymentStatus(%d)", int(s))
	}
}

// TransactionMode selects whether a charge is captured immediately
type TransactionMode int

const (
	// TransactionModeAuthorize authorizes only; the host captures later
	TransactionModeAuthorize TransactionMode = 1
	// TransactionModeCharge authorizes and captures in one call
	TransactionModeCharge TransactionMode = 2
)

// String returns the mode name
func (m TransactionMode) String() string {
	switch m {
	case TransactionModeAuthorize:
		return "Authorize"
	case TransactionModeCharge:
		return "Charge"
	default:
		return fmt.Sprintf("TransactionMode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode
func (m TransactionMode) Valid() bool {
	return m == TransactionModeAuthorize || m == TransactionModeCharge
}

// TransactionModes lists the selectable modes in display order
func TransactionModes() []TransactionMode {
	return []TransactionMode{TransactionModeAuthorize, TransactionModeCharge}
}

// ParseTransactionMode accepts a mode id ("1") or name ("charge")
func ParseTransactionMode(s string) (TransactionMode, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if m := TransactionMode(id); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("%w: %s", ErrInvalidTransactionMode, s)
	}
	for _, m := range TransactionModes() {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidTransactionMode, s)
}

// RecurringPaymentType tells the host how recurring orders are billed
type RecurringPaymentType string

const (
	RecurringPaymentTypeNotSupported RecurringPaymentType = "NotSupported"
	RecurringPaymentTypeManual       RecurringPaymentType = "Manual"
	RecurringPaymentTypeAutomatic    RecurringPaymentType = "Automatic"
)

// PaymentMethodType tells the host how the checkout collects payment
type PaymentMethodType string

const (
	PaymentMethodTypeStandard    PaymentMethodType = "Standard"
	PaymentMethodTypeRedirection PaymentMethodType = "Redirection"
	PaymentMethodTypeButton      PaymentMethodType = "Button"
)
