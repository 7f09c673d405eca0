package handler

import (
	"net/http"

	"christocar/internal/dto"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistryHandler struct{ svc service.RegistryService }

func NewRegistryHandler(svc service.RegistryService) *RegistryHandler {
	return &RegistryHandler{svc: svc}
}

// ── Customers ─────────────────────────────────────────────────────────────────

// CreateClient godoc
// @Summary Cadastra um cliente
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ClientRequest true "Cliente"
// @Success 201 {object} dto.ClientResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/customers [post]
func (h *RegistryHandler) CreateClient(c *gin.Context) {
	var req dto.ClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RegistryHandler) ListClients(c *gin.Context) {
	resp, err := h.svc.ListClients(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteClient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Vehicles ──────────────────────────────────────────────────────────────────

// CreateVehicle godoc
// @Summary Cadastra um veículo
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.VehicleRequest true "Veículo"
// @Success 201 {object} dto.VehicleResponse
// @Failure 400 {object} apierror.APIError "client_id inexistente"
// @Router /v1/vehicles [post]
func (h *RegistryHandler) CreateVehicle(c *gin.Context) {
	var req dto.VehicleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RegistryHandler) ListVehicles(c *gin.Context) {
	resp, err := h.svc.ListVehicles(c.Request.Context(), uint(queryInt(c, "client_id", 0)))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) GetVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) UpdateVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.VehicleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateVehicle(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) DeleteVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteVehicle(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Employees ─────────────────────────────────────────────────────────────────

func (h *RegistryHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RegistryHandler) ListEmployees(c *gin.Context) {
	resp, err := h.svc.ListEmployees(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateEmployee(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateEmployee is a soft delete; the employee keeps appearing in
// historical wash records and logs.
func (h *RegistryHandler) DeactivateEmployee(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateEmployee(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
