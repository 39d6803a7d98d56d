package usecase

import (
	"github.com/stablehq/treasury/internal/pkg/logger"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/services/ramp"
)

// RampUC implements the fiat onramp/offramp orchestration
type RampUC struct {
	orgRepo    ramp.OrgRepo
	txnRepo    ramp.TransactionRepo
	fiatGW     ramp.FiatRailGW
	compliance ramp.ComplianceGW
	events     ramp.EventGW
	cfg        *models.Config
	logger     *logger.ZapLogger
}

// NewRampUC creates a new ramp usecase instance
func NewRampUC(
	orgRepo ramp.OrgRepo,
	txnRepo ramp.TransactionRepo,
	fiatGW ramp.FiatRailGW,
	compliance ramp.ComplianceGW,
	events ramp.EventGW,
	cfg *models.Config,
	zl *logger.ZapLogger,
) *RampUC {
	return &RampUC{
		orgRepo:    orgRepo,
		txnRepo:    txnRepo,
		fiatGW:     fiatGW,
		compliance: compliance,
		events:     events,
		cfg:        cfg,
		logger:     zl,
	}
}
