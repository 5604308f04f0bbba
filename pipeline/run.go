// Package pipeline orchestrates a whole effmap run: load settings and
// measurement sheets, analyze each dataset, and write the grid-point,
// area-ratio and summary artifacts.
package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dynolab/effmap"
	"github.com/dynolab/effmap/loader"
	"gopkg.in/ini.v1"
)

// Run executes the full pipeline and writes all artifacts. Sheets that fail
// structurally are reported in the result and logged; Run itself errors only
// when the input is unusable or every sheet failed.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}

	cfg := effmap.Config{}
	if opts.ConfigPath != "" {
		var err error
		cfg, err = LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}

	sheets, err := loadSheets(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if opts.Sheet != "" {
		sheets, err = selectSheet(sheets, opts.Sheet)
		if err != nil {
			return nil, err
		}
	}

	if err := prepareOutDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	res := &Result{OutputDir: opts.OutDir}
	failed := 0
	for _, sheet := range sheets {
		sr := processSheet(sheet, cfg, opts, format)
		if sr.Error != "" {
			failed++
			slog.Error("sheet failed", "sheet", sheet.Name, "err", sr.Error)
		}
		res.Sheets = append(res.Sheets, sr)
	}
	if failed == len(res.Sheets) {
		return nil, fmt.Errorf("all %d sheets failed; last error: %s", failed, res.Sheets[len(res.Sheets)-1].Error)
	}
	return res, nil
}

func processSheet(sheet loader.Sheet, cfg effmap.Config, opts Options, format string) SheetResult {
	sr := SheetResult{Sheet: sheet.Name}

	a, err := effmap.Analyze(sheet.Table, cfg, opts.Channels...)
	if err != nil {
		sr.Error = err.Error()
		return sr
	}
	for _, w := range a.Warnings {
		slog.Warn(w, "sheet", sheet.Name)
	}

	sr.Direction = a.Direction
	sr.State = a.State
	sr.RowsKept = a.RowsKept
	sr.CurveKind = a.CurveKind
	sr.Ratios = a.Ratios
	sr.Warnings = a.Warnings

	points := flattenGridPoints(a)
	base := filepath.Join(opts.OutDir, sanitizeName(sheet.Name))

	sr.GridPointsPath = base + "_grid_points." + format
	switch format {
	case "csv":
		err = writeGridPointsCSV(sr.GridPointsPath, points)
	case "parquet":
		err = writeGridPointsParquet(sr.GridPointsPath, points)
	}
	if err != nil {
		sr.Error = fmt.Sprintf("write grid points: %v", err)
		return sr
	}

	sr.AreaRatiosPath = base + "_area_ratios.json"
	if err := writeJSON(sr.AreaRatiosPath, a.Ratios); err != nil {
		sr.Error = fmt.Sprintf("write area ratios: %v", err)
		return sr
	}

	sr.SummaryPath = base + "_summary.json"
	summary := summaryFile{
		Sheet:       a.Sheet,
		Direction:   a.Direction,
		State:       a.State,
		RowsLoaded:  a.RowsLoaded,
		RowsKept:    a.RowsKept,
		MeanUdc:     a.MeanUdc,
		CurveKind:   a.CurveKind,
		PowerLevels: a.PowerLevels,
		Warnings:    a.Warnings,
	}
	if err := writeJSON(sr.SummaryPath, summary); err != nil {
		sr.Error = fmt.Sprintf("write summary: %v", err)
	}
	return sr
}

// flattenGridPoints turns the per-channel map layers into one row per valid
// grid cell. All channels of one analysis share grid geometry, so any map
// provides the coordinates and power layer.
func flattenGridPoints(a *effmap.Analysis) []GridPoint {
	var ref *effmap.MapData
	for _, ch := range effmap.AllChannels {
		if md, ok := a.Maps[ch]; ok {
			ref = md
			break
		}
	}
	if ref == nil {
		return nil
	}

	effAt := func(ch effmap.Channel, i, j int) float64 {
		md, ok := a.Maps[ch]
		if !ok {
			return math.NaN()
		}
		return md.Eff.At(i, j)
	}

	g := ref.Grid
	var points []GridPoint
	for j := 0; j < g.Cols; j++ {
		for i := 0; i < g.Heights[j]; i++ {
			points = append(points, GridPoint{
				Speed:      g.X.At(i, j),
				Torque:     g.Y.At(i, j),
				EffMCU:     effAt(effmap.ChannelMCU, i, j),
				EffMotor:   effAt(effmap.ChannelMotor, i, j),
				EffSYS:     effAt(effmap.ChannelSystem, i, j),
				PowerKW:    ref.Power.At(i, j),
				InEnvelope: ref.Geometry.At(i, j),
			})
		}
	}
	return points
}

// LoadConfig reads a settings INI file into a flat config mapping. Keys are
// taken from the [Settings] section when present, otherwise from the
// default section.
func LoadConfig(path string) (effmap.Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	sec := f.Section("Settings")
	if len(sec.Keys()) == 0 {
		sec = f.Section(ini.DefaultSection)
	}
	cfg := effmap.Config{}
	for _, key := range sec.Keys() {
		cfg[key.Name()] = key.Value()
	}
	return cfg, nil
}

func loadSheets(path string) ([]loader.Sheet, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return loader.ReadCSV(path)
	}
	return loader.OpenWorkbook(path)
}

func selectSheet(sheets []loader.Sheet, name string) ([]loader.Sheet, error) {
	for _, s := range sheets {
		if s.Name == name {
			return []loader.Sheet{s}, nil
		}
	}
	return nil, fmt.Errorf("sheet %q not found in input", name)
}

func prepareOutDir(dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if overwrite {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("output directory %s is not empty (use overwrite)", dir)
	}
	return nil
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}
