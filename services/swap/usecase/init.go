package usecase

import (
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/services/swap"
)

// SwapUC implements the swap orchestration state machine
type SwapUC struct {
	orgRepo swap.OrgRepo
	store   swap.FlowStore
	dexGW   swap.DexGW
	ledger  swap.LedgerGW
	events  swap.EventGW
	cfg     *models.Config
	logger  *logger.ZapLogger
}

// NewSwapUC creates a new swap usecase instance
func NewSwapUC(
	orgRepo swap.OrgRepo,
	store swap.FlowStore,
	dexGW swap.DexGW,
	ledger swap.LedgerGW,
	events swap.EventGW,
	cfg *models.Config,
	zl *logger.ZapLogger,
) *SwapUC {
	return &SwapUC{
		orgRepo: orgRepo,
		store:   store,
		dexGW:   dexGW,
		ledger:  ledger,
		events:  events,
		cfg:     cfg,
		logger:  zl,
	}
}
