package gateway

import (
	"fmt"

	"github.com/prohmpiriya/webtail-stripe/internal/domain"
)

// ChargeStatus is the closed set of charge states the plugin understands
type ChargeStatus int

const (
	ChargeStatusSucceeded ChargeStatus = iota + 1
	ChargeStatusPending
	ChargeStatusFailed
)

func (s ChargeStatus) String() string {
	switch s {
	case ChargeStatusSucceeded:
		return "succeeded"
	case ChargeStatusPending:
		return "pending"
	case ChargeStatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("ChargeStatus(%d)", int(s))
	}
}

// Name returns the status name shown to the host ("Succeeded")
func (s ChargeStatus) Name() string {
	switch s {
	case ChargeStatusSucceeded:
		return "Succeeded"
	case ChargeStatusPending:
		return "Pending"
	case ChargeStatusFailed:
		return "Failed"
	default:
		return s.String()
	}
}

// ParseChargeStatus maps a Stripe charge status. Any other value is fatal.
func ParseChargeStatus(s string) (ChargeStatus, error) {
	switch s {
	case "succeeded":
		return ChargeStatusSucceeded, nil
	case "pending":
		return ChargeStatusPending, nil
	case "failed":
		return ChargeStatusFailed, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownChargeStatus, s)
	}
}

// RefundStatus is the closed set of refund states the plugin understands
type RefundStatus int

const (
	RefundStatusSucceeded RefundStatus = iota + 1
	RefundStatusPending
	RefundStatusFailed
	RefundStatusCanceled
	RefundStatusRequiresAction
)

func (s RefundStatus) String() string {
	switch s {
	case RefundStatusSucceeded:
		return "succeeded"
	case RefundStatusPending:
		return "pending"
	case RefundStatusFailed:
		return "failed"
	case RefundStatusCanceled:
		return "canceled"
	case RefundStatusRequiresAction:
		return "requires_action"
	default:
		return fmt.Sprintf("RefundStatus(%d)", int(s))
	}
}

// ParseRefundStatus maps a Stripe refund status. Any other value is fatal.
func ParseRefundStatus(s string) (RefundStatus, error) {
	switch s {
	case "succeeded":
		return RefundStatusSucceeded, nil
	case "pending":
		return RefundStatusPending, nil
	case "failed":
		return RefundStatusFailed, nil
	case "canceled":
		return RefundStatusCanceled, nil
	case "requires_action":
		return RefundStatusRequiresAction, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownRefundStatus, s)
	}
}

// PaymentStatusFor maps a charge status to the host payment status.
// Only pending and succeeded charges have a payment status.
func PaymentStatusFor(status ChargeStatus, mode domain.TransactionMode) (domain.PaymentStatus, error) {
	switch status {
	case ChargeStatusPending:
		return domain.PaymentStatusPending, nil
	case ChargeStatusSucceeded:
		if mode == domain.TransactionModeAuthorize {
			return domain.PaymentStatusAuthorized, nil
		}
		return domain.PaymentStatusPaid, nil
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrUnmappedChargeStatus, status)
	}
}
