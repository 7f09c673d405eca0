package handler

import (
	"net/http"

	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats godoc
// @Summary Indicadores do painel
// @Description scope=unscoped (padrão) reproduz os números históricos do painel;
// @Description scope=calendar limita receitas a hoje / mês corrente.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param scope query string false "unscoped | calendar"
// @Success 200 {object} dto.DashboardStats
// @Router /v1/dashboard-stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	get := h.svc.Stats
	if c.Query("scope") == "calendar" {
		get = h.svc.ScopedStats
	}
	resp, err := get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Overview returns both variants side by side.
func (h *DashboardHandler) Overview(c *gin.Context) {
	unscoped, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	calendar, err := h.svc.ScopedStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unscoped": unscoped, "calendar": calendar})
}
