package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/gateway"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/pkg/logger"
	"github.com/prohmpiriya/webtail-stripe/pkg/response"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

// writeError maps plugin errors to HTTP responses
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Err.Error(), verr.Messages...)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrOrderRequired),
		errors.Is(err, domain.ErrInvalidConfiguration),
		errors.Is(err, domain.ErrInvalidTransactionMode):
		response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrSettingsNotFound):
		response.Error(c, http.StatusNotFound, "NOT_INSTALLED", "Stripe plugin is not installed for this store")
	case errors.Is(err, domain.ErrCustomerNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrPrimaryCurrencyMissing),
		errors.Is(err, domain.ErrCurrencyNotSupported):
		response.Error(c, http.StatusUnprocessableEntity, "CURRENCY_NOT_SUPPORTED", err.Error())
	case errors.Is(err, domain.ErrChargeFailed):
		response.Error(c, http.StatusPaymentRequired, "CHARGE_FAILED", err.Error())
	case errors.Is(err, domain.ErrVoidNotSupported):
		response.Error(c, http.StatusNotImplemented, "NOT_SUPPORTED", err.Error())
	case errors.Is(err, domain.ErrGatewayConnection):
		response.Error(c, http.StatusBadGateway, "GATEWAY_CONNECTION_FAILED", gateway.ErrorMessage(err))
	case isStripeError(err):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", gateway.ErrorMessage(err))
	default:
		logger.Get().WithContext(c.Request.Context()).Error("Unhandled plugin error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.InternalError(c, err)
	}
}

func isStripeError(err error) bool {
	var se *stripe.Error
	return errors.As(err, &se)
}
