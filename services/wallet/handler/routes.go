package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/services/wallet"
	httpHandler "github.com/stablehq/treasury/services/wallet/handler/http"
)

// Handler combines the handlers for the wallet service
type Handler struct {
	walletHTTP *httpHandler.WalletHandler
}

// NewHandler creates a new combined handler
func NewHandler(walletUC wallet.WalletUC) *Handler {
	return &Handler{walletHTTP: httpHandler.NewWalletHandler(walletUC)}
}

// RegisterRoutes registers the wallet HTTP routes on an authenticated group
func (h *Handler) RegisterRoutes(api *echo.Group) {
	walletGroup := api.Group("/wallet")
	walletGroup.GET("/:organizationID", h.walletHTTP.GetVault)
	walletGroup.GET("/:organizationID/balances", h.walletHTTP.GetBalances)
}
