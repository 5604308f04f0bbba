// Package effmap turns tabulated motor-test measurements into
// envelope-bounded efficiency and power maps plus area-ratio statistics.
//
// The pipeline is a pure, sequential transformation per dataset:
// map columns → normalize → fit envelope → synthesize grid → interpolate →
// aggregate ratios. Analyze runs the whole pass; the individual stages are
// exported for callers that need finer control. Nothing in this package does
// I/O or holds state across runs, so independent datasets can be processed
// on separate goroutines with no coordination.
package effmap

import "fmt"

// Analysis is the complete result of processing one sheet.
type Analysis struct {
	Sheet string

	Direction string
	State     string

	RowsLoaded int
	RowsKept   int
	MeanUdc    float64

	Envelope  *Envelope
	CurveKind string

	Maps   map[Channel]*MapData
	Ratios map[Channel][]AreaRatio

	// PowerLevels are the configured power contour levels, for renderers.
	// Empty unless PowerMAPStep is set.
	PowerLevels []float64

	Warnings []string
}

// Analyze runs the full pipeline on one table. When no channels are given,
// all three efficiency channels are analyzed.
//
// Structural failures — no matching columns, no valid speed range — return
// an error. Data-quality problems (missing cells, degenerate point clouds,
// empty threshold lists) degrade to warnings, sentinel values and empty
// lists instead.
func Analyze(t *Table, cfg Config, channels ...Channel) (*Analysis, error) {
	if len(channels) == 0 {
		channels = AllChannels
	}

	mapped, cls, warnings, err := MapColumns(t, cfg)
	if err != nil {
		return nil, err
	}

	data := Normalize(mapped)
	if data.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows left after normalization", ErrNoSpeedRange)
	}

	env, err := FitEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("fit envelope: %w", err)
	}

	grid, err := SynthesizeGrid(data, env, cfg)
	if err != nil {
		return nil, fmt.Errorf("synthesize grid: %w", err)
	}

	a := &Analysis{
		Sheet:       t.Name,
		Direction:   cls.Direction,
		State:       cls.State,
		RowsLoaded:  t.NumRows(),
		RowsKept:    data.Len(),
		MeanUdc:     mean(data.Udc),
		Envelope:    env,
		CurveKind:   env.CurveKind().String(),
		Maps:        make(map[Channel]*MapData, len(channels)),
		Ratios:      make(map[Channel][]AreaRatio, len(channels)),
		PowerLevels: cfg.Levels("PowerMAPStep", ""),
		Warnings:    warnings,
	}

	levels := cfg.Levels("EffMAPStep", DefaultEffMAPStep)
	for _, ch := range channels {
		md, err := BuildMap(data, grid, ch, cfg)
		if err != nil {
			return nil, fmt.Errorf("build %s map: %w", ch, err)
		}
		if md.Degenerate {
			a.Warnings = append(a.Warnings, fmt.Sprintf("%s: measurement cloud cannot be triangulated, map is empty", ch))
		}
		a.Maps[ch] = md
		a.Ratios[ch] = AreaRatios(md.Eff, md.Geometry, levels)
	}
	return a, nil
}
