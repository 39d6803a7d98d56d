package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/internal/pkg/middleware"
	"github.com/stablehq/treasury/internal/utils"
	"github.com/stablehq/treasury/services/wallet"
)

// WalletHandler handles HTTP requests for vault wallet views
type WalletHandler struct {
	walletUC wallet.WalletUC
}

// NewWalletHandler creates a new wallet HTTP handler
func NewWalletHandler(walletUC wallet.WalletUC) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// GetVault handles GET /api/wallet/:organizationID
func (h *WalletHandler) GetVault(c echo.Context) error {
	organizationID := c.Param("organizationID")
	if organizationID == "" {
		return utils.BadRequestResponse(c, "Organization ID is required")
	}

	info, err := h.walletUC.GetVault(c.Request().Context(), organizationID)
	if err != nil {
		middleware.NoticeError(c, err)
		return utils.RespondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, info)
}

// GetBalances handles GET /api/wallet/:organizationID/balances
func (h *WalletHandler) GetBalances(c echo.Context) error {
	organizationID := c.Param("organizationID")
	if organizationID == "" {
		return utils.BadRequestResponse(c, "Organization ID is required")
	}

	balances, err := h.walletUC.GetBalances(c.Request().Context(), organizationID)
	if err != nil {
		middleware.NoticeError(c, err)
		return utils.RespondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, balances)
}
