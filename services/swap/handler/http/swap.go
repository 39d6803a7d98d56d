package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/internal/pkg/middleware"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/utils"
	"github.com/stablehq/treasury/services/swap"
)

// SwapHandler handles HTTP requests for swap operations
type SwapHandler struct {
	swapUC swap.SwapUC
}

// NewSwapHandler creates a new swap HTTP handler
func NewSwapHandler(swapUC swap.SwapUC) *SwapHandler {
	return &SwapHandler{swapUC: swapUC}
}

// Simulate handles POST /api/swap/simulate
func (h *SwapHandler) Simulate(c echo.Context) error {
	var req models.SwapRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	quote, err := h.swapUC.SimulateSwap(c.Request().Context(), &req)
	if err != nil {
		middleware.NoticeError(c, err)
		return utils.RespondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, quote)
}

// Prepare handles POST /api/swap/prepare
func (h *SwapHandler) Prepare(c echo.Context) error {
	var req models.SwapPrepareRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.WalletAddress == "" {
		return utils.BadRequestResponse(c, "Wallet address is required")
	}

	prepared, err := h.swapUC.PrepareSwap(c.Request().Context(), &req)
	if err != nil {
		middleware.NoticeError(c, err)
		return utils.RespondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, prepared)
}

// Execute handles POST /api/swap/execute
func (h *SwapHandler) Execute(c echo.Context) error {
	var req models.SwapExecuteRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.TransactionID == "" || req.SerializedSignedTransaction == "" {
		return utils.BadRequestResponse(c, "Transaction ID and signed transaction are required")
	}

	result, err := h.swapUC.ExecuteSwap(c.Request().Context(), &req)
	if err != nil {
		middleware.NoticeError(c, err)
		return utils.RespondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, result)
}

// Finalize handles POST /api/swap/finalize
func (h *SwapHandler) Finalize(c echo.Context) error {
	var req models.SwapFinalizeRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.ExecutionSignature == "" || req.SerializedSignedExecutionTransaction == "" {
		return utils.BadRequestResponse(c, "Execution signature and signed transaction are required")
	}

	result, err := h.swapUC.FinalizeSwap(c.Request().Context(), &req)
	if err != nil {
		middleware.NoticeError(c, err)
		return utils.RespondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, result)
}
