package handler

import (
	"net/http"

	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct{ svc service.InvoiceService }

func NewInvoiceHandler(svc service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Emit godoc
// @Summary Emite a NF-e de uma OS finalizada
// @Description 202 quando o job foi enfileirado; 200 quando a fila estava
// @Description indisponível e a nota foi emitida no próprio processo.
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param order_id path int true "ID da OS"
// @Success 200 {object} dto.EmissionResponse
// @Success 202 {object} dto.EmissionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/invoices/emit/{order_id} [post]
func (h *InvoiceHandler) Emit(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.Emit(c.Request.Context(), actor(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if resp.Path == dto.PathQueued {
		status = http.StatusAccepted
	}
	c.JSON(status, resp)
}

// EmissionStatus lets the client poll after a 202.
func (h *InvoiceHandler) EmissionStatus(c *gin.Context) {
	orderID, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	resp, err := h.svc.EmissionStatus(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoiceHandler) PendingOrders(c *gin.Context) {
	resp, err := h.svc.PendingOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF godoc
// @Summary Baixa o PDF da nota
// @Tags invoices
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "ID da nota"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	path, err := h.svc.PDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
