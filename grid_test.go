package effmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeGridAxisAndBoundary(t *testing.T) {
	d := dataset(
		[]float64{500, 1000, 1500},
		[]float64{50, 60, 40},
		90,
	)
	env, err := FitEnvelope(d)
	require.NoError(t, err)

	cfg := Config{"SpeedGrid": "500", "TorqueGrid": "5"}
	g, err := SynthesizeGrid(d, env, cfg)
	require.NoError(t, err)

	require.Equal(t, 4, g.Cols)
	assert.Equal(t, 0.0, g.SpeedAt(0))
	assert.Equal(t, 1500.0, g.SpeedAt(3), "axis endpoint lands on the dataset maximum exactly")

	// within each column the fill is contiguous from row 0 and its last
	// value equals the envelope at that column's speed
	for j := 0; j < g.Cols; j++ {
		h := g.Heights[j]
		require.Greater(t, h, 0)
		for i := 0; i < h; i++ {
			assert.False(t, math.IsNaN(g.Y.At(i, j)))
		}
		for i := h; i < g.Rows; i++ {
			assert.True(t, math.IsNaN(g.Y.At(i, j)))
		}
		want := env.MaxTorqueAt(g.SpeedAt(j))
		assert.InDelta(t, want, g.Y.At(h-1, j), 1e-9, "column %d boundary", j)
	}
}

func TestSynthesizeGridBoundaryAppend(t *testing.T) {
	// envelope flat at 47: fill is 0,5,...,45 plus the appended boundary 47
	d := dataset([]float64{100, 200}, []float64{47, 47}, 90)
	env, err := FitEnvelope(d)
	require.NoError(t, err)

	g, err := SynthesizeGrid(d, env, Config{"SpeedGrid": "100", "TorqueGrid": "5"})
	require.NoError(t, err)

	j := g.Cols - 1
	h := g.Heights[j]
	assert.InDelta(t, 45.0, g.Y.At(h-2, j), 1e-9)
	assert.InDelta(t, 47.0, g.Y.At(h-1, j), 1e-9)
}

func TestSynthesizeGridRowCount(t *testing.T) {
	d := dataset([]float64{100, 200}, []float64{47, 47}, 90)
	env, err := FitEnvelope(d)
	require.NoError(t, err)

	g, err := SynthesizeGrid(d, env, Config{"SpeedGrid": "100", "TorqueGrid": "5"})
	require.NoError(t, err)

	// ceil(47/5) + 2
	assert.Equal(t, 12, g.Rows)
	for j := 0; j < g.Cols; j++ {
		assert.LessOrEqual(t, g.Heights[j], g.Rows)
	}
}

func TestSynthesizeGridZeroTorqueColumn(t *testing.T) {
	// envelope hits zero at the left edge: that column's fill is just [0]
	d := dataset([]float64{100, 200}, []float64{0, 50}, 90)
	env, err := FitEnvelope(d)
	require.NoError(t, err)

	g, err := SynthesizeGrid(d, env, Config{"SpeedGrid": "100", "TorqueGrid": "5"})
	require.NoError(t, err)

	// column at speed 100 has envelope torque 0
	assert.Equal(t, 1, g.Heights[1])
	assert.Equal(t, 0.0, g.Y.At(0, 1))
}

func TestSynthesizeGridNoSpeedRange(t *testing.T) {
	d := dataset([]float64{0, 0}, []float64{10, 20}, 90)
	env, err := FitEnvelope(d)
	require.NoError(t, err)

	_, err = SynthesizeGrid(d, env, Config{})
	assert.ErrorIs(t, err, ErrNoSpeedRange)
}

func TestSynthesizeGridConfigErrors(t *testing.T) {
	d := dataset([]float64{100, 200}, []float64{10, 20}, 90)
	env, err := FitEnvelope(d)
	require.NoError(t, err)

	_, err = SynthesizeGrid(d, env, Config{"SpeedGrid": "fast"})
	assert.Error(t, err)

	_, err = SynthesizeGrid(d, env, Config{"TorqueGrid": "-5"})
	assert.Error(t, err)
}
