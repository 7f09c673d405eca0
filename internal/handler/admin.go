package handler

import (
	"net/http"

	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	audit    service.AuditService
	settings service.SettingsService
}

func NewAdminHandler(audit service.AuditService, settings service.SettingsService) *AdminHandler {
	return &AdminHandler{audit: audit, settings: settings}
}

// Logs godoc
// @Summary Log de auditoria (mais recentes primeiro)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param action query string false "Filtro por ação (LOGIN, CASH_OPEN, ...)"
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Success 200 {object} dto.SystemLogListResponse
// @Router /v1/admin/logs [get]
func (h *AdminHandler) Logs(c *gin.Context) {
	resp, err := h.audit.List(c.Request.Context(), c.Query("action"), queryInt(c, "page", 1), queryInt(c, "limit", 50))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	resp, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.settings.Update(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
