package effmap

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNoSpeedRange means the dataset's maximum speed is zero, so no grid can
// be synthesized. This is a structural error, unlike the soft data errors
// that degrade to sentinel values.
var ErrNoSpeedRange = errors.New("effmap: no valid speed range")

// Grid is the regular speed×torque mesh on which efficiency and power are
// resampled. X and Y are dense Rows×Cols layers; within each column the
// valid torque values form a contiguous prefix of Heights[j] rows, NaN
// beyond, and the last valid value equals the envelope at that column's
// speed.
type Grid struct {
	Rows, Cols int

	SpeedStep  float64
	TorqueStep float64

	X       *mat.Dense
	Y       *mat.Dense
	Heights []int
}

// SpeedAt returns the speed of column j.
func (g *Grid) SpeedAt(j int) float64 { return g.X.At(0, j) }

// SynthesizeGrid builds the envelope-bounded grid for a normalized dataset.
func SynthesizeGrid(d *Dataset, env *Envelope, cfg Config) (*Grid, error) {
	speedStep, err := cfg.Float("SpeedGrid", DefaultSpeedGrid)
	if err != nil {
		return nil, err
	}
	torqueStep, err := cfg.Float("TorqueGrid", DefaultTorqueGrid)
	if err != nil {
		return nil, err
	}
	if speedStep <= 0 || torqueStep <= 0 {
		return nil, fmt.Errorf("effmap: grid steps must be positive (SpeedGrid=%v, TorqueGrid=%v)", speedStep, torqueStep)
	}

	var maxSpeed float64
	for _, s := range d.Speed {
		if s > maxSpeed {
			maxSpeed = s
		}
	}
	if maxSpeed == 0 {
		return nil, ErrNoSpeedRange
	}

	// Speed axis by point count, so the endpoint lands on the dataset
	// maximum exactly.
	cols := int(maxSpeed/speedStep) + 1
	axis := make([]float64, cols)
	if cols > 1 {
		for j := range axis {
			axis[j] = maxSpeed * float64(j) / float64(cols-1)
		}
	}

	edge := make([]float64, cols)
	maxEdge := math.Inf(-1)
	for j, s := range axis {
		edge[j] = env.MaxTorqueAt(s)
		if edge[j] > maxEdge {
			maxEdge = edge[j]
		}
	}

	rows := int(math.Ceil(maxEdge/torqueStep)) + 2
	if rows < 1 {
		rows = 1
	}

	g := &Grid{
		Rows: rows, Cols: cols,
		SpeedStep: speedStep, TorqueStep: torqueStep,
		X:       mat.NewDense(rows, cols, nil),
		Y:       mat.NewDense(rows, cols, nil),
		Heights: make([]int, cols),
	}
	for j := 0; j < cols; j++ {
		fill := torqueFill(edge[j], torqueStep)
		if len(fill) > rows {
			fill = fill[:rows]
		}
		g.Heights[j] = len(fill)
		for i := 0; i < rows; i++ {
			g.X.Set(i, j, axis[j])
			if i < len(fill) {
				g.Y.Set(i, j, fill[i])
			} else {
				g.Y.Set(i, j, math.NaN())
			}
		}
	}
	return g, nil
}

// torqueFill builds one column's torque values: 0, step, 2·step, … up to and
// including the column's envelope torque. When the last even multiple misses
// the boundary it is appended explicitly, so the envelope itself is always
// represented.
func torqueFill(colMax, step float64) []float64 {
	var fill []float64
	limit := colMax + step/1000
	for k := 0; ; k++ {
		v := float64(k) * step
		if v > limit {
			break
		}
		if v <= colMax {
			fill = append(fill, v)
		}
	}
	switch {
	case len(fill) > 0 && !isClose(fill[len(fill)-1], colMax):
		fill = append(fill, colMax)
	case len(fill) == 0 && colMax > 0:
		fill = []float64{0, colMax}
	case len(fill) == 0:
		fill = []float64{0}
	}
	return fill
}

// isClose tests equality under a combined absolute and relative tolerance.
func isClose(a, b float64) bool {
	return math.Abs(a-b) <= 1e-8+1e-5*math.Abs(b)
}
