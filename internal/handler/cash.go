package handler

import (
	"net/http"

	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type CashHandler struct{ svc service.CashService }

func NewCashHandler(svc service.CashService) *CashHandler { return &CashHandler{svc: svc} }

// Open godoc
// @Summary Abre o caixa
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenCashRequest true "Saldo inicial"
// @Success 201 {object} dto.CashSessionResponse
// @Failure 409 {object} apierror.APIError "caixa já aberto"
// @Router /v1/cash/open [post]
func (h *CashHandler) Open(c *gin.Context) {
	var req dto.OpenCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Fecha o caixa e calcula a diferença
// @Tags cash
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseCashRequest true "Saldo contado"
// @Success 200 {object} dto.CashSessionResponse
// @Failure 409 {object} apierror.APIError "nenhum caixa aberto"
// @Router /v1/cash/close [post]
func (h *CashHandler) Close(c *gin.Context) {
	var req dto.CloseCashRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashHandler) Current(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CashHandler) History(c *gin.Context) {
	resp, err := h.svc.History(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
