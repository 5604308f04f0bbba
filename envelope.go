package effmap

import (
	"errors"
	"sort"

	"github.com/dynolab/effmap/interp"
)

// Envelope is the maximum-torque-vs-speed boundary of the operating region,
// sampled at the grouped speeds and smoothed into a curve that is evaluable
// at any speed, including beyond the observed range.
type Envelope struct {
	Speeds  []float64 // grouped speeds, ascending
	Torques []float64 // maximum torque per grouped speed

	curve *interp.Curve
}

// FitEnvelope derives the per-grouped-speed maximum torque from a normalized
// dataset and fits a curve through it. More than three envelope samples get a
// cubic spline; otherwise, or when the spline fit fails, a piecewise-linear
// curve with slope extrapolation. The only error is an empty dataset.
func FitEnvelope(d *Dataset) (*Envelope, error) {
	if d.Len() == 0 {
		return nil, errors.New("effmap: empty dataset, no envelope")
	}

	maxAt := make(map[float64]float64)
	for i := 0; i < d.Len(); i++ {
		s, tq := d.Speed[i], d.Torque[i]
		if cur, ok := maxAt[s]; !ok || tq > cur {
			maxAt[s] = tq
		}
	}

	e := &Envelope{}
	for s := range maxAt {
		e.Speeds = append(e.Speeds, s)
	}
	sort.Float64s(e.Speeds)
	e.Torques = make([]float64, len(e.Speeds))
	for i, s := range e.Speeds {
		e.Torques[i] = maxAt[s]
	}

	curve, err := interp.FitCurve(e.Speeds, e.Torques)
	if err != nil {
		return nil, err
	}
	e.curve = curve
	return e, nil
}

// MaxTorqueAt evaluates the envelope curve at the given speed.
func (e *Envelope) MaxTorqueAt(speed float64) float64 {
	return e.curve.Eval(speed)
}

// CurveKind reports which fitting path produced the envelope curve.
func (e *Envelope) CurveKind() interp.CurveKind {
	return e.curve.Kind()
}
