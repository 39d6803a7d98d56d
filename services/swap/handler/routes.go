package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/services/swap"
	httpHandler "github.com/stablehq/treasury/services/swap/handler/http"
)

// Handler combines the handlers for the swap service
type Handler struct {
	swapHTTP *httpHandler.SwapHandler
	cfg      *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(swapUC swap.SwapUC, cfg *models.Config) *Handler {
	return &Handler{
		swapHTTP: httpHandler.NewSwapHandler(swapUC),
		cfg:      cfg,
	}
}

// RegisterRoutes registers the swap HTTP routes on an authenticated group
func (h *Handler) RegisterRoutes(api *echo.Group) {
	swapGroup := api.Group("/swap")
	swapGroup.POST("/simulate", h.swapHTTP.Simulate)
	swapGroup.POST("/prepare", h.swapHTTP.Prepare)
	swapGroup.POST("/execute", h.swapHTTP.Execute)
	swapGroup.POST("/finalize", h.swapHTTP.Finalize)
}
