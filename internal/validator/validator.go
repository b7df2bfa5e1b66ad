package validator

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/locale"
	"github.com/shopspring/decimal"
)

var cardCodePattern = regexp.MustCompile(`^[0-9]{3,4}$`)

// Localizer resolves message resource names
type Localizer interface {
	Get(ctx context.Context, name string) string
}

// PaymentForm is the card form posted by the checkout page
type PaymentForm struct {
	CreditCardType string
	CardholderName string `validate:"required"`
	CardNumber     string `validate:"luhn"`
	CardCode       string `validate:"cardcode"`
	ExpireMonth    string `validate:"required"`
	ExpireYear     string `validate:"required"`
}

// ConfigurationModel is the admin configuration form
type ConfigurationModel struct {
	LiveSecretKey           string `validate:"required"`
	LivePublishableKey      string `validate:"required"`
	TestSecretKey           string `validate:"required"`
	TestPublishableKey      string `validate:"required"`
	UseSandbox              bool
	AdditionalFee           decimal.Decimal
	AdditionalFeePercentage bool
	TransactionModeID       int
}

// paymentMessages maps Field.tag to the locale resource of its message
var paymentMessages = map[string]string{
	"CardholderName.required": locale.CardholderNameRequired,
	"CardNumber.luhn":         locale.CardNumberWrong,
	"CardCode.cardcode":       locale.CardCodeWrong,
	"ExpireMonth.required":    locale.ExpireMonthRequired,
	"ExpireYear.required":     locale.ExpireYearRequired,
	"ExpireMonth.expiry":      locale.ExpirationDateExpired,
}

// Validator validates checkout and admin forms
type Validator struct {
	validate  *validator.Validate
	localizer Localizer
	now       func() time.Time
}

// New creates a Validator
func New(localizer Localizer) *Validator {
	v := &Validator{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		localizer: localizer,
		now:       time.Now,
	}

	_ = v.validate.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
		return IsCreditCard(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("cardcode", func(fl validator.FieldLevel) bool {
		return cardCodePattern.MatchString(fl.Field().String())
	})
	v.validate.RegisterStructValidation(v.expiryValidation, PaymentForm{})
	v.validate.RegisterStructValidation(configurationValidation, ConfigurationModel{})

	return v
}

// WithClock replaces the clock used for the expiry check
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// ValidatePaymentForm returns the localized warnings for the form; empty means valid
func (v *Validator) ValidatePaymentForm(ctx context.Context, form *PaymentForm) []string {
	var verrs validator.ValidationErrors
	if err := v.validate.Struct(form); !errors.As(err, &verrs) {
		return []string{}
	}

	warnings := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := paymentMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			name = fe.Error()
		}
		warnings = append(warnings, v.localizer.Get(ctx, name))
	}
	return warnings
}

// ValidateConfiguration returns the messages for an invalid configuration form
func (v *Validator) ValidateConfiguration(model *ConfigurationModel) []string {
	var verrs validator.ValidationErrors
	if err := v.validate.Struct(model); !errors.As(err, &verrs) {
		return []string{}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" must be provided.")
		case "mode":
			messages = append(messages, "TransactionMode is invalid.")
		case "gte":
			messages = append(messages, "AdditionalFee must be greater than or equal to 0.")
		default:
			messages = append(messages, fe.Error())
		}
	}
	return messages
}

// Cards remain valid until the last calendar day of the expiry month.
func (v *Validator) expiryValidation(sl validator.StructLevel) {
	form := sl.Current().Interface().(PaymentForm)
	if form.ExpireMonth == "" || form.ExpireYear == "" {
		return
	}

	if Expired(form.ExpireMonth, form.ExpireYear, v.now()) {
		sl.ReportError(form.ExpireMonth, "ExpireMonth", "ExpireMonth", "expiry", "")
	}
}

func configurationValidation(sl validator.StructLevel) {
	model := sl.Current().Interface().(ConfigurationModel)
	if !domain.TransactionMode(model.TransactionModeID).Valid() {
		sl.ReportError(model.TransactionModeID, "TransactionModeID", "TransactionModeID", "mode", "")
	}
	if model.AdditionalFee.IsNegative() {
		sl.ReportError(model.AdditionalFee, "AdditionalFee", "AdditionalFee", "gte", "0")
	}
}

// Expired reports whether a card with the given expiry is no longer valid at now.
// Unparsable or out-of-range values count as expired.
func Expired(month, year string, now time.Time) bool {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return true
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1 {
		return true
	}

	validUntil := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return validUntil.Before(now)
}

// IsCreditCard runs the Luhn check on a card number with spaces and dashes removed
func IsCreditCard(number string) bool {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(number)
	if len(digits) < 12 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
