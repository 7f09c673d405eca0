package handler

import (
	"net/http"

	"christocar/internal/apierror"
	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderHandler serves the service-order (OS) ledger. Line items are
// addressed by their zero-based position in the order.
type OrderHandler struct{ svc service.OrderService }

func NewOrderHandler(svc service.OrderService) *OrderHandler { return &OrderHandler{svc: svc} }

// Create godoc
// @Summary Abre uma nova OS
// @Tags service-orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateOrderRequest true "Cliente e veículo"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} apierror.APIError "veículo inválido"
// @Router /v1/service-orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
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

// List godoc
// @Summary Lista OS (mais recentes primeiro)
// @Tags service-orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filtro por status"
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Success 200 {object} dto.OrderListResponse
// @Router /v1/service-orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Replace godoc
// @Summary Salva a OS inteira (cabeçalho e itens)
// @Tags service-orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID da OS"
// @Param body body dto.SaveOrderRequest true "OS completa"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/service-orders/{id} [put]
func (h *OrderHandler) Replace(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SaveOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Replace(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.OrderStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetStatus(c.Request.Context(), actor(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Service lines ─────────────────────────────────────────────────────────────

func (h *OrderHandler) AddService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ServiceLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddService(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) UpdateService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	idx, ok := parseIndex(c)
	if !ok {
		return
	}
	var req dto.ServiceLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateService(c.Request.Context(), actor(c), id, idx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) RemoveService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	idx, ok := parseIndex(c)
	if !ok {
		return
	}
	resp, err := h.svc.RemoveService(c.Request.Context(), actor(c), id, idx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleService flips a labour line between pending and done.
func (h *OrderHandler) ToggleService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	idx, ok := parseIndex(c)
	if !ok {
		return
	}
	resp, err := h.svc.ToggleService(c.Request.Context(), actor(c), id, idx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Part lines ────────────────────────────────────────────────────────────────

func (h *OrderHandler) AddPart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PartLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddPart(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) UpdatePart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	idx, ok := parseIndex(c)
	if !ok {
		return
	}
	var req dto.PartLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePart(c.Request.Context(), actor(c), id, idx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) RemovePart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	idx, ok := parseIndex(c)
	if !ok {
		return
	}
	resp, err := h.svc.RemovePart(c.Request.Context(), actor(c), id, idx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
