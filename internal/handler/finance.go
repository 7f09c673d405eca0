package handler

import (
	"net/http"

	"christocar/internal/apierror"
	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct{ svc service.FinanceService }

func NewFinanceHandler(svc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

// Record godoc
// @Summary Lança uma receita ou despesa
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.TransactionRequest true "Lançamento"
// @Success 201 {object} dto.TransactionResponse
// @Failure 409 {object} apierror.APIError "caixa fechado"
// @Router /v1/transactions [post]
func (h *FinanceHandler) Record(c *gin.Context) {
	var req dto.TransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordTransaction(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceHandler) List(c *gin.Context) {
	var filter dto.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
