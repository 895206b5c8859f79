package scoring

import (
	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/types"
)

func calibrationFor(level types.RoleLevel) types.CalibrationFactors {
	return calibration.Factors(level)
}
