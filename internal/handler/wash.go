package handler

import (
	"net/http"

	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type WashHandler struct{ svc service.WashService }

func NewWashHandler(svc service.WashService) *WashHandler { return &WashHandler{svc: svc} }

// ── Catalog ───────────────────────────────────────────────────────────────────

func (h *WashHandler) CreateService(c *gin.Context) {
	var req dto.WashServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateService(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *WashHandler) ListServices(c *gin.Context) {
	resp, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WashHandler) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.WashServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WashHandler) DeleteService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteService(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Records ───────────────────────────────────────────────────────────────────

// Create godoc
// @Summary Registra uma lavagem
// @Tags wash-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateWashRecordRequest true "Placa, modelo e serviço"
// @Success 201 {object} dto.WashRecordResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/wash-records [post]
func (h *WashHandler) Create(c *gin.Context) {
	var req dto.CreateWashRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *WashHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Complete godoc
// @Summary Finaliza a lavagem e lança a receita no caixa
// @Tags wash-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da lavagem"
// @Param body body dto.CompleteWashRequest false "Forma de pagamento"
// @Success 200 {object} dto.WashRecordResponse
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/wash-records/{id}/complete [put]
func (h *WashHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CompleteWashRequest
	// the body is optional
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalize(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
