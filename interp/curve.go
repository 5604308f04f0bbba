// Package interp provides the numeric interpolation kernels for efficiency
// map building: 1-D curve fitting with extrapolation, and scattered-data
// linear interpolation over a Delaunay triangulation.
package interp

import (
	"errors"
	"fmt"

	gointerp "gonum.org/v1/gonum/interp"
)

// CurveKind reports which fitting path produced a Curve. Fallbacks are
// deliberate outcomes here, not swallowed errors, so callers and tests can
// assert which path was taken.
type CurveKind int

const (
	// CurveConstant is the single-sample degenerate fit.
	CurveConstant CurveKind = iota
	// CurveLinear is the piecewise-linear fit, used for small sample sets
	// and as the fallback when the spline fit fails.
	CurveLinear
	// CurveSpline is the natural cubic spline fit.
	CurveSpline
)

func (k CurveKind) String() string {
	switch k {
	case CurveConstant:
		return "constant"
	case CurveLinear:
		return "linear"
	case CurveSpline:
		return "spline"
	}
	return fmt.Sprintf("CurveKind(%d)", int(k))
}

// Curve is a 1-D function fitted through sample points, evaluable at any x.
// Outside the sample range it extends the end segments at constant slope.
type Curve struct {
	kind CurveKind
	pred gointerp.Predictor

	x0, xn         float64
	y0, yn         float64
	slope0, slopeN float64
}

// FitCurve fits a curve through (xs, ys). xs must be strictly increasing.
// Four or more samples get a natural cubic spline; fewer samples, or a
// failed spline fit, get a piecewise-linear curve; a single sample yields a
// constant. The only error is an unusable sample set.
func FitCurve(xs, ys []float64) (*Curve, error) {
	if len(xs) == 0 {
		return nil, errors.New("interp: no samples to fit")
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp: %d xs vs %d ys", len(xs), len(ys))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("interp: xs not strictly increasing at %d", i)
		}
	}

	n := len(xs)
	c := &Curve{
		x0: xs[0], xn: xs[n-1],
		y0: ys[0], yn: ys[n-1],
	}
	if n == 1 {
		c.kind = CurveConstant
		return c, nil
	}

	c.slope0 = (ys[1] - ys[0]) / (xs[1] - xs[0])
	c.slopeN = (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])

	if n > 3 {
		var nc gointerp.NaturalCubic
		if err := nc.Fit(xs, ys); err == nil {
			c.kind = CurveSpline
			c.pred = &nc
			return c, nil
		}
	}

	var pl gointerp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interp: linear fit: %w", err)
	}
	c.kind = CurveLinear
	c.pred = pl
	return c, nil
}

// Kind reports which fitting path produced the curve.
func (c *Curve) Kind() CurveKind { return c.kind }

// Eval evaluates the curve at x. Inside the sample range this is the fitted
// predictor; outside, the end segments continue at their slope.
func (c *Curve) Eval(x float64) float64 {
	switch {
	case c.kind == CurveConstant:
		return c.y0
	case x < c.x0:
		return c.y0 + c.slope0*(x-c.x0)
	case x > c.xn:
		return c.yn + c.slopeN*(x-c.xn)
	}
	return c.pred.Predict(x)
}
