package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/internal/pkg/middleware"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/utils"
	"github.com/stablehq/treasury/services/ramp"
)

// RampHandler handles HTTP requests for onramp/offramp operations
type RampHandler struct {
	rampUC ramp.RampUC
}

// NewRampHandler creates a new ramp HTTP handler
func NewRampHandler(rampUC ramp.RampUC) *RampHandler {
	return &RampHandler{rampUC: rampUC}
}

// Simulate returns a handler for POST /api/ramp/{direction}/simulate
func (h *RampHandler) Simulate(direction models.RampDirection) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.RampSimulateRequest
		if err := c.Bind(&req); err != nil {
			return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		}

		result, err := h.rampUC.Simulate(c.Request().Context(), direction, &req)
		if err != nil {
			middleware.NoticeError(c, err)
			return utils.RespondError(c, err)
		}
		return utils.SuccessResponse(c, http.StatusOK, result)
	}
}

// Execute returns a handler for POST /api/ramp/{direction}/execute
func (h *RampHandler) Execute(direction models.RampDirection) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.RampExecuteRequest
		if err := c.Bind(&req); err != nil {
			return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		}
		if req.TransactionID == "" {
			return utils.BadRequestResponse(c, "Transaction ID is required")
		}

		result, err := h.rampUC.Execute(c.Request().Context(), direction, &req)
		if err != nil {
			middleware.NoticeError(c, err)
			return utils.RespondError(c, err)
		}
		return utils.SuccessResponse(c, http.StatusOK, result)
	}
}

// ListTransactions handles GET /api/transactions
func (h *RampHandler) ListTransactions(c echo.Context) error {
	organizationID := c.QueryParam("organization_id")
	if organizationID == "" {
		return utils.BadRequestResponse(c, "Organization ID is required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	txns, err := h.rampUC.ListTransactions(c.Request().Context(), organizationID, limit, offset)
	if err != nil {
		middleware.NoticeError(c, err)
		return utils.RespondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, txns)
}
