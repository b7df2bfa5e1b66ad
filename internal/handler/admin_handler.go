package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/webtail-stripe/internal/dto"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/pkg/logger"
	"github.com/prohmpiriya/webtail-stripe/pkg/middleware"
	"github.com/prohmpiriya/webtail-stripe/pkg/response"
	"go.uber.org/zap"
)

// AdminHandler serves the plugin configuration page and lifecycle
type AdminHandler struct {
	plugin service.PaymentPlugin
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(plugin service.PaymentPlugin) *AdminHandler {
	return &AdminHandler{plugin: plugin}
}

// GetConfiguration handles GET /admin/configure
func (h *AdminHandler) GetConfiguration(c *gin.Context) {
	cfg, err := h.plugin.GetConfiguration(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, cfg)
}

// Configure handles POST /admin/configure
func (h *AdminHandler) Configure(c *gin.Context) {
	var req dto.ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	cfg, err := h.plugin.Configure(c.Request.Context(), req.ToModel())
	if err != nil {
		writeError(c, err)
		return
	}

	sub, _ := middleware.GetSubject(c)
	logger.Get().WithContext(c.Request.Context()).Info("Configuration updated", zap.String("admin", sub))
	response.Success(c, cfg)
}

// VerifyConnection handles POST /admin/verify
func (h *AdminHandler) VerifyConnection(c *gin.Context) {
	if err := h.plugin.VerifyConnection(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"connected": true})
}

// Install handles POST /admin/install
func (h *AdminHandler) Install(c *gin.Context) {
	if err := h.plugin.Install(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"installed": true, "system_name": service.SystemName})
}

// Uninstall handles POST /admin/uninstall
func (h *AdminHandler) Uninstall(c *gin.Context) {
	if err := h.plugin.Uninstall(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"installed": false, "system_name": service.SystemName})
}
