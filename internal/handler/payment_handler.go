package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/webtail-stripe/internal/dto"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/pkg/response"
)

// PaymentHandler exposes the checkout and order operations of the plugin
type PaymentHandler struct {
	plugin  service.PaymentPlugin
	storeID int
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(plugin service.PaymentPlugin, storeID int) *PaymentHandler {
	return &PaymentHandler{
		plugin:  plugin,
		storeID: storeID,
	}
}

// Descriptor handles GET /plugin
func (h *PaymentHandler) Descriptor(c *gin.Context) {
	response.Success(c, h.plugin.Descriptor(c.Request.Context()))
}

// ProcessPayment handles POST /payments/process
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	h.process(c, false)
}

// ProcessRecurringPayment handles POST /payments/process-recurring
func (h *PaymentHandler) ProcessRecurringPayment(c *gin.Context) {
	h.process(c, true)
}

func (h *PaymentHandler) process(c *gin.Context, recurring bool) {
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.Customer != nil {
		if err := h.plugin.SaveCustomer(ctx, req.Customer.ToDomain()); err != nil {
			writeError(c, err)
			return
		}
	}

	payment := req.ToDomain(h.storeID, recurring)
	process := h.plugin.ProcessPayment
	if recurring {
		process = h.plugin.ProcessRecurringPayment
	}

	result, err := process(ctx, payment)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, dto.FromProcessResult(result))
}

// Capture handles POST /payments/capture
func (h *PaymentHandler) Capture(c *gin.Context) {
	var req dto.OrderOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.plugin.Capture(c.Request.Context(), req.CaptureRequest())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, dto.FromCaptureResult(result))
}

// Refund handles POST /payments/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req dto.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.plugin.Refund(c.Request.Context(), req.ToDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, dto.FromRefundResult(result))
}

// Void handles POST /payments/void
func (h *PaymentHandler) Void(c *gin.Context) {
	var req dto.OrderOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.plugin.Void(c.Request.Context(), req.VoidRequest())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// CancelRecurringPayment handles POST /payments/cancel-recurring
func (h *PaymentHandler) CancelRecurringPayment(c *gin.Context) {
	var req dto.OrderOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.plugin.CancelRecurringPayment(c.Request.Context(), req.CancelRecurringRequest())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// PostProcessPayment handles POST /payments/post-process
func (h *PaymentHandler) PostProcessPayment(c *gin.Context) {
	var req dto.OrderOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.plugin.PostProcessPayment(c.Request.Context(), req.PostProcessRequest()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CanRePostProcessPayment handles POST /payments/can-repost
func (h *PaymentHandler) CanRePostProcessPayment(c *gin.Context) {
	var req dto.OrderOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	ok, err := h.plugin.CanRePostProcessPayment(c.Request.Context(), req.Order.ToDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, &dto.CanRePostResponse{CanRePost: ok})
}

// AdditionalFee handles POST /payments/additional-fee
func (h *PaymentHandler) AdditionalFee(c *gin.Context) {
	var req dto.AdditionalFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	fee, err := h.plugin.GetAdditionalHandlingFee(c.Request.Context(), req.ToDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, &dto.AdditionalFeeResponse{Fee: fee})
}

// Hidden handles GET /payments/hidden
func (h *PaymentHandler) Hidden(c *gin.Context) {
	hidden, err := h.plugin.HidePaymentMethod(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, &dto.HiddenResponse{Hidden: hidden})
}

// ValidateForm handles POST /payments/form/validate
func (h *PaymentHandler) ValidateForm(c *gin.Context) {
	var req dto.PaymentFormRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	warnings := h.plugin.ValidatePaymentForm(c.Request.Context(), req.ToForm())
	response.Success(c, &dto.FormValidationResponse{
		Valid:    len(warnings) == 0,
		Warnings: warnings,
	})
}

// PaymentInfo handles POST /payments/form/info
func (h *PaymentHandler) PaymentInfo(c *gin.Context) {
	var req dto.PaymentFormRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	info, err := h.plugin.GetPaymentInfo(req.ToForm())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, dto.FromPaymentInfo(info))
}
