package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"christocar/internal/apierror"
	"christocar/internal/middleware"
	"christocar/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal is a struct; validate it as its float value so that
	// min=0, gt=0 and required work on money fields.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false after writing the error response; the caller just returns.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// statusFor maps service sentinels to HTTP status and a stable error code.
var statusFor = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrLineIndex, http.StatusNotFound, "line_not_found"},
	{service.ErrInvalidReference, http.StatusBadRequest, "invalid_reference"},
	{service.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrNotWashOwner, http.StatusForbidden, "not_wash_owner"},
	{service.ErrNoOpenSession, http.StatusConflict, "no_open_session"},
	{service.ErrSessionAlreadyOpen, http.StatusConflict, "session_already_open"},
	{service.ErrAlreadyFinalized, http.StatusConflict, "already_finalized"},
	{service.ErrOrderNotFinished, http.StatusConflict, "order_not_finished"},
	{service.ErrInvoiceExists, http.StatusConflict, "invoice_exists"},
	{service.ErrEmissionInFlight, http.StatusConflict, "emission_in_flight"},
	{service.ErrMaintenanceMode, http.StatusServiceUnavailable, "maintenance_mode"},
}

// respondError writes the mapped 4xx for business errors. Anything else is
// logged and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apierror.WithCode(m.code, m.err.Error()))
			return
		}
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
}

// actor builds the service-layer identity from the JWT claims.
func actor(c *gin.Context) service.Actor {
	cl := middleware.GetClaims(c)
	if cl == nil {
		return service.Actor{}
	}
	return service.Actor{ID: cl.EmployeeID, Name: cl.Name, Role: cl.Role}
}

// parseID reads a positive integer path parameter. On failure it writes 400
// and returns false.
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return 0, false
	}
	return uint(v), true
}

// parseIndex reads a zero-based line index; range checks happen in the model.
func parseIndex(c *gin.Context) (int, bool) {
	v, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Índice inválido"))
		return 0, false
	}
	return v, true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}
