package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/services/ramp"
	httpHandler "github.com/stablehq/treasury/services/ramp/handler/http"
)

// Handler combines the handlers for the ramp service
type Handler struct {
	rampHTTP *httpHandler.RampHandler
	cfg      *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(rampUC ramp.RampUC, cfg *models.Config) *Handler {
	return &Handler{
		rampHTTP: httpHandler.NewRampHandler(rampUC),
		cfg:      cfg,
	}
}

// RegisterRoutes registers the ramp HTTP routes on an authenticated group
func (h *Handler) RegisterRoutes(api *echo.Group) {
	rampGroup := api.Group("/ramp")
	rampGroup.POST("/onramp/simulate", h.rampHTTP.Simulate(models.RampDirectionOnramp))
	rampGroup.POST("/onramp/execute", h.rampHTTP.Execute(models.RampDirectionOnramp))
	rampGroup.POST("/offramp/simulate", h.rampHTTP.Simulate(models.RampDirectionOfframp))
	rampGroup.POST("/offramp/execute", h.rampHTTP.Execute(models.RampDirectionOfframp))

	api.GET("/transactions", h.rampHTTP.ListTransactions)
}
