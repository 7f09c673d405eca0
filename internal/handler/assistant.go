package handler

import (
	"net/http"

	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct{ svc service.AssistantService }

func NewAssistantHandler(svc service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// Ask godoc
// @Summary Pergunta ao assistente de gestão
// @Description Falhas do provedor viram uma resposta de desculpas com source=fallback.
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AskRequest true "Pergunta"
// @Success 200 {object} dto.AskResponse
// @Router /v1/assistant/ask [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Ask(c.Request.Context(), req.Question))
}
