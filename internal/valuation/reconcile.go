// Package valuation reconciles automated valuation model (AVM) estimates
// against appraised values.
package valuation

import (
	"errors"
	"math"

	"github.com/finbrook/dscrgo/internal/domain"
)

// DefaultTolerance is the accepted AVM-to-appraisal variance, as a
// fraction of the appraised value.
const DefaultTolerance = 0.10

// Direction indicates which side of the appraisal the AVM landed on.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// ErrZeroAppraisal is returned when the appraised value is zero and no
// variance can be computed.
var ErrZeroAppraisal = errors.New("appraisal value is zero")

// Reconciliation compares an AVM estimate to an appraisal. The appraised
// value is always the recommended value; the AVM only corroborates it.
type Reconciliation struct {
	AVMValue         domain.Money `yaml:"avm_value" json:"avm_value"`
	AppraisalValue   domain.Money `yaml:"appraisal_value" json:"appraisal_value"`
	VariancePct      float64      `yaml:"variance_pct" json:"variance_pct"`
	Direction        Direction    `yaml:"variance_direction" json:"variance_direction"`
	WithinTolerance  bool         `yaml:"within_tolerance" json:"within_tolerance"`
	RecommendedValue domain.Money `yaml:"recommended_value" json:"recommended_value"`
}

// Reconcile computes the variance of the AVM value against the appraisal
// and checks it against the tolerance fraction.
func Reconcile(avm, appraisal domain.Money, tolerance float64) (Reconciliation, error) {
	if appraisal.AmountCents == 0 {
		return Reconciliation{}, ErrZeroAppraisal
	}

	variance := float64(avm.AmountCents-appraisal.AmountCents) / float64(appraisal.AmountCents)
	variancePct := math.Abs(variance) * 100

	direction := DirectionUnder
	if variance > 0 {
		direction = DirectionOver
	}

	return Reconciliation{
		AVMValue:         avm,
		AppraisalValue:   appraisal,
		VariancePct:      math.Round(variancePct*100) / 100,
		Direction:        direction,
		WithinTolerance:  variancePct <= tolerance*100,
		RecommendedValue: appraisal,
	}, nil
}
