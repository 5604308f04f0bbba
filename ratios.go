package effmap

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// AreaRatio is one threshold's share of the operating envelope: the
// percentage of geometry-masked grid points whose efficiency is at or above
// Level.
type AreaRatio struct {
	Level float64 `json:"level"`
	Ratio float64 `json:"ratio"`
}

// ParseLevels parses a threshold list. Accepted forms: values separated by
// spaces, commas or semicolons; "start:step:end" inclusive range notation;
// "start:end" stepping by 1. Unparseable input yields nil.
func ParseLevels(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.Contains(s, ":") {
		if levels := parseRange(s); levels != nil {
			return levels
		}
		// fall through to the delimiter grammar
	}
	fields := strings.Fields(strings.NewReplacer(";", " ", ",", " ").Replace(s))
	levels := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		levels = append(levels, v)
	}
	if len(levels) == 0 {
		return nil
	}
	return levels
}

func parseRange(s string) []float64 {
	parts := strings.Split(s, ":")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		vals = append(vals, v)
	}
	var start, step, end float64
	switch len(vals) {
	case 2:
		start, step, end = vals[0], 1, vals[1]
	case 3:
		start, step, end = vals[0], vals[1], vals[2]
	default:
		return nil
	}
	if step == 0 {
		return nil
	}
	var levels []float64
	for v := start; v <= end+step/1000; v += step {
		levels = append(levels, v)
	}
	return levels
}

// AreaRatios computes one ratio per threshold, processed in descending
// order. The denominator is the geometry-mask count; a zero denominator
// yields an empty list, never a division error. Sentinel (NaN) efficiency
// cells never satisfy a threshold.
func AreaRatios(eff *mat.Dense, geo *Mask, levels []float64) []AreaRatio {
	denom := geo.Count()
	if denom == 0 || len(levels) == 0 {
		return nil
	}

	sorted := append([]float64(nil), levels...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	rows, cols := eff.Dims()
	out := make([]AreaRatio, 0, len(sorted))
	for _, level := range sorted {
		count := 0
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				if eff.At(i, j) >= level { // false for NaN
					count++
				}
			}
		}
		out = append(out, AreaRatio{
			Level: level,
			Ratio: 100 * float64(count) / float64(denom),
		})
	}
	return out
}
