package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOf_ScalesByThousand(t *testing.T) {
	m := Of(decimal.RequireFromString("12.345"))
	assert.Equal(t, int64(12345), m.Milliunits())
}

func TestToDecimal_RoundsHalfUpAtScaleTwo(t *testing.T) {
	m := OfMilliunits(12345)
	assert.Equal(t, "12.35", m.ToDecimal().StringFixed(2))

	m2 := OfMilliunits(-12345)
	assert.Equal(t, "-12.35", m2.ToDecimal().StringFixed(2))
}

func TestAddSubtract_CommutativeAndAssociative(t *testing.T) {
	a := OfMilliunits(1000)
	b := OfMilliunits(2500)
	c := OfMilliunits(-500)

	assert.Equal(t, a.Add(b), b.Add(a))
	assert.Equal(t, a.Add(b).Add(c), a.Add(b.Add(c)))
	assert.True(t, a.Subtract(a).IsZero())
}

func TestParseString_InvalidAmount(t *testing.T) {
	_, err := ParseString("not-a-number")
	assert.Error(t, err)
}

func TestRoundTrip_MilliunitsStable(t *testing.T) {
	// Scale-2 projection loses sub-cent precision by design (I2); the
	// round-trip is only stable when the original is already a whole cent.
	whole := OfMilliunits(99000)
	assert.Equal(t, whole, Of(whole.ToDecimal()))
}

func TestIsPositiveNegativeZero(t *testing.T) {
	assert.True(t, OfMilliunits(1).IsPositive())
	assert.True(t, OfMilliunits(-1).IsNegative())
	assert.True(t, Zero.IsZero())
}
