package pipeline

import "github.com/dynolab/effmap"

// Options configures one pipeline run.
type Options struct {
	InputPath  string // .xlsx workbook or .csv table
	ConfigPath string // INI settings file; optional, defaults apply
	Sheet      string // process one named sheet; empty = every sheet
	OutDir     string
	Format     string // parquet|csv grid-point artifact format
	Overwrite  bool
	Channels   []effmap.Channel // empty = all three efficiency channels
}

// Result returns generated output paths and per-sheet summaries.
type Result struct {
	OutputDir string        `json:"output_dir"`
	Sheets    []SheetResult `json:"sheets"`
}

// SheetResult summarizes one processed sheet. Error is set, and the paths
// empty, when the sheet failed structurally.
type SheetResult struct {
	Sheet     string `json:"sheet"`
	Direction string `json:"direction,omitempty"`
	State     string `json:"state,omitempty"`
	RowsKept  int    `json:"rows_kept,omitempty"`
	CurveKind string `json:"curve_kind,omitempty"`

	Ratios map[effmap.Channel][]effmap.AreaRatio `json:"ratios,omitempty"`

	GridPointsPath string `json:"grid_points_path,omitempty"`
	AreaRatiosPath string `json:"area_ratios_path,omitempty"`
	SummaryPath    string `json:"summary_path,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// GridPoint is one flattened valid grid cell, the row shape of the
// grid-point artifact. Efficiency and power hold NaN where the value is
// sentinel (outside the source hull or cut off).
type GridPoint struct {
	Speed      float64 `json:"speed"`
	Torque     float64 `json:"torque"`
	EffMCU     float64 `json:"eff_mcu"`
	EffMotor   float64 `json:"eff_motor"`
	EffSYS     float64 `json:"eff_sys"`
	PowerKW    float64 `json:"power_kw"`
	InEnvelope bool    `json:"in_envelope"`
}

// summaryFile is the per-sheet analysis summary artifact.
type summaryFile struct {
	Sheet       string    `json:"sheet"`
	Direction   string    `json:"direction"`
	State       string    `json:"state"`
	RowsLoaded  int       `json:"rows_loaded"`
	RowsKept    int       `json:"rows_kept"`
	MeanUdc     float64   `json:"mean_udc"`
	CurveKind   string    `json:"curve_kind"`
	PowerLevels []float64 `json:"power_levels,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}
