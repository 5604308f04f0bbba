package effmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestParseLevels(t *testing.T) {
	assert.Equal(t, []float64{90, 85, 80, 70}, ParseLevels("90 85 80 70"))
	assert.Equal(t, []float64{90, 85, 80}, ParseLevels("90,85,80"))
	assert.Equal(t, []float64{90, 85, 80}, ParseLevels("90; 85;80"))
	assert.Equal(t, []float64{70, 80, 90}, ParseLevels("70:10:90"))
	assert.Equal(t, []float64{70, 71, 72}, ParseLevels("70:72"))
	assert.Equal(t, []float64{92.5}, ParseLevels("92.5"))

	assert.Nil(t, ParseLevels(""))
	assert.Nil(t, ParseLevels("ninety"))
	assert.Nil(t, ParseLevels("90 x 80"))
	assert.Nil(t, ParseLevels("70:0:90"))
}

func ratioFixture() (*mat.Dense, *Mask) {
	eff := mat.NewDense(2, 2, []float64{
		95, 85,
		math.NaN(), 75,
	})
	geo := NewMask(2, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			geo.set(i, j, true)
		}
	}
	return eff, geo
}

func TestAreaRatios(t *testing.T) {
	eff, geo := ratioFixture()

	got := AreaRatios(eff, geo, []float64{80, 90})
	require.Len(t, got, 2)

	// processed in descending order regardless of input order
	assert.Equal(t, 90.0, got[0].Level)
	assert.Equal(t, 80.0, got[1].Level)

	assert.InDelta(t, 25.0, got[0].Ratio, 1e-12) // 1 of 4
	assert.InDelta(t, 50.0, got[1].Ratio, 1e-12) // 2 of 4; NaN never counts
}

func TestAreaRatiosMonotone(t *testing.T) {
	eff, geo := ratioFixture()
	got := AreaRatios(eff, geo, []float64{95, 90, 85, 80, 70})
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Ratio, got[i-1].Ratio,
			"ratios are non-decreasing as thresholds descend")
	}
	for _, r := range got {
		assert.False(t, math.IsNaN(r.Ratio))
		assert.LessOrEqual(t, r.Ratio, 100.0)
	}
}

func TestAreaRatiosZeroDenominator(t *testing.T) {
	eff := nanDense(2, 2)
	geo := NewMask(2, 2)
	assert.Nil(t, AreaRatios(eff, geo, []float64{90, 80}))
}

func TestAreaRatiosNoLevels(t *testing.T) {
	eff, geo := ratioFixture()
	assert.Nil(t, AreaRatios(eff, geo, nil))
}
