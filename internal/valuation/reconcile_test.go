package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrook/dscrgo/internal/domain"
)

func TestReconcileWithinTolerance(t *testing.T) {
	avm := domain.NewMoney(61000000)       // $610,000
	appraisal := domain.NewMoney(60000000) // $600,000

	r, err := Reconcile(avm, appraisal, DefaultTolerance)
	require.NoError(t, err)

	assert.True(t, r.WithinTolerance)
	assert.InDelta(t, 1.67, r.VariancePct, 0.001)
	assert.Equal(t, DirectionOver, r.Direction)
	assert.Equal(t, appraisal, r.RecommendedValue)
	assert.Equal(t, avm, r.AVMValue)
}

func TestReconcileOutsideTolerance(t *testing.T) {
	r, err := Reconcile(domain.NewMoney(50000000), domain.NewMoney(60000000), DefaultTolerance)
	require.NoError(t, err)

	assert.False(t, r.WithinTolerance)
	assert.InDelta(t, 16.67, r.VariancePct, 0.001)
	assert.Equal(t, DirectionUnder, r.Direction)
	assert.Equal(t, domain.NewMoney(60000000), r.RecommendedValue)
}

func TestReconcileBoundaryIsInclusive(t *testing.T) {
	// Exactly 10% over appraisal still reconciles at the default tolerance.
	r, err := Reconcile(domain.NewMoney(66000000), domain.NewMoney(60000000), DefaultTolerance)
	require.NoError(t, err)

	assert.True(t, r.WithinTolerance)
	assert.InDelta(t, 10.0, r.VariancePct, 0.001)
}

func TestReconcileEqualValues(t *testing.T) {
	v := domain.NewMoney(42500000)
	r, err := Reconcile(v, v, DefaultTolerance)
	require.NoError(t, err)

	assert.True(t, r.WithinTolerance)
	assert.Zero(t, r.VariancePct)
	assert.Equal(t, DirectionUnder, r.Direction)
}

func TestReconcileZeroAppraisal(t *testing.T) {
	_, err := Reconcile(domain.NewMoney(60000000), domain.ZeroMoney(), 0.10)
	assert.ErrorIs(t, err, ErrZeroAppraisal)
}

func TestReconcileTighterTolerance(t *testing.T) {
	r, err := Reconcile(domain.NewMoney(61000000), domain.NewMoney(60000000), 0.01)
	require.NoError(t, err)
	assert.False(t, r.WithinTolerance)
}
