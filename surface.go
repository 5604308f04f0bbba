package effmap

import (
	"errors"
	"math"

	"github.com/dynolab/effmap/interp"
	"gonum.org/v1/gonum/mat"
)

// Mask is a boolean matrix co-indexed with a Grid's layers.
type Mask struct {
	rows, cols int
	v          []bool
}

// NewMask returns an all-false mask.
func NewMask(rows, cols int) *Mask {
	return &Mask{rows: rows, cols: cols, v: make([]bool, rows*cols)}
}

// Dims returns the mask dimensions.
func (m *Mask) Dims() (rows, cols int) { return m.rows, m.cols }

// At reports the mask value at (i, j).
func (m *Mask) At(i, j int) bool { return m.v[i*m.cols+j] }

// Count returns the number of true cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.v {
		if b {
			n++
		}
	}
	return n
}

func (m *Mask) set(i, j int, b bool) { m.v[i*m.cols+j] = b }

// MapData is one channel's resampled efficiency map: the grid, the
// interpolated Eff and Power layers (NaN where outside the source hull or
// cut off), and the geometry mask.
//
// Geometry is true exactly where the grid point is a valid envelope-bounded
// fill point that passes the cutoff. It is computed from the grid geometry
// alone — a point the interpolation could not reach is still a physically
// reachable operating point, and Geometry, not interpolation validity, is
// the denominator for area-ratio statistics.
type MapData struct {
	Channel Channel
	Grid    *Grid

	Eff      *mat.Dense
	Power    *mat.Dense
	Geometry *Mask

	// Degenerate is set when the measurement cloud could not be
	// triangulated; Eff and Power are then all sentinel but Geometry is
	// still valid.
	Degenerate bool
}

// BuildMap interpolates one efficiency channel and motor power at every valid
// grid point via triangulation-based linear interpolation, then applies the
// configured low-speed/low-torque cutoff.
func BuildMap(d *Dataset, g *Grid, ch Channel, cfg Config) (*MapData, error) {
	startSpeed, err := cfg.Float("StartSpeed", DefaultStartSpeed)
	if err != nil {
		return nil, err
	}
	startTorque, err := cfg.Float("StartTorque", DefaultStartTorque)
	if err != nil {
		return nil, err
	}
	effVals := d.ChannelValues(ch)
	if effVals == nil {
		return nil, errors.New("effmap: unknown channel " + string(ch))
	}

	md := &MapData{
		Channel:  ch,
		Grid:     g,
		Eff:      nanDense(g.Rows, g.Cols),
		Power:    nanDense(g.Rows, g.Cols),
		Geometry: NewMask(g.Rows, g.Cols),
	}

	mesh, err := interp.NewTriMesh(d.Speed, d.Torque)
	if err != nil {
		if !errors.Is(err, interp.ErrDegenerate) {
			return nil, err
		}
		md.Degenerate = true
	}

	for j := 0; j < g.Cols; j++ {
		for i := 0; i < g.Heights[j]; i++ {
			x, y := g.X.At(i, j), g.Y.At(i, j)
			if mesh != nil {
				if at, ok := mesh.Locate(x, y); ok {
					md.Eff.Set(i, j, mesh.Combine(effVals, at))
					md.Power.Set(i, j, mesh.Combine(d.Power, at))
				}
			}
			md.Geometry.set(i, j, true)
		}
	}

	// Cutoff: below the configured start speed or start torque the point is
	// excluded regardless of interpolation outcome.
	for j := 0; j < g.Cols; j++ {
		for i := 0; i < g.Rows; i++ {
			if g.X.At(i, j) < startSpeed || g.Y.At(i, j) < startTorque {
				md.Eff.Set(i, j, math.NaN())
				md.Power.Set(i, j, math.NaN())
				md.Geometry.set(i, j, false)
			}
		}
	}
	return md, nil
}

func nanDense(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, math.NaN())
		}
	}
	return m
}
