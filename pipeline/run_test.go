package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dynolab/effmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var measurementRows = [][]string{
	{"n", "Tq", "P", "e_mcu", "e_mot", "e_sys", "U"},
	{"900", "0", "10", "85", "85", "85", "350"},
	{"900", "20", "10", "85", "85", "85", "350"},
	{"900", "40", "10", "85", "85", "85", "350"},
	{"903", "0", "10", "85", "85", "85", "350"},
	{"903", "20", "10", "85", "85", "85", "350"},
	{"903", "40", "10", "85", "85", "85", "350"},
	{"1500", "0", "10", "85", "85", "85", "350"},
	{"1500", "10", "10", "85", "85", "85", "350"},
	{"1500", "20", "10", "85", "85", "85", "350"},
}

func writeSettings(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "settings.ini")
	content := `[Settings]
Speed = n
Toqrue = Tq
P_Motor = P
Eff_MCU = e_mcu
Eff_Motor = e_mot
Eff_SYS = e_sys
U_dc = U
SpeedGrid = 50
TorqueGrid = 10
EffMAPStep = 90 80
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeMeasurementsCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "bench.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(measurementRows))
	require.NoError(t, f.Close())
	return path
}

func writeMeasurementsXLSX(t *testing.T, dir string, sheets ...string) string {
	t.Helper()
	path := filepath.Join(dir, "bench.xlsx")
	f := excelize.NewFile()
	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range measurementRows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestRunCSVInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	res, err := Run(Options{
		InputPath:  writeMeasurementsCSV(t, dir),
		ConfigPath: writeSettings(t, dir),
		OutDir:     out,
		Format:     "csv",
	})
	require.NoError(t, err)
	require.Len(t, res.Sheets, 1)

	sr := res.Sheets[0]
	assert.Equal(t, "bench", sr.Sheet)
	assert.Empty(t, sr.Error)
	assert.Equal(t, effmap.DirectionForward, sr.Direction)
	assert.Equal(t, effmap.StateMotoring, sr.State)
	assert.Equal(t, 9, sr.RowsKept)
	assert.Equal(t, "linear", sr.CurveKind)

	// grid-point artifact: header plus at least one data row
	gp, err := os.Open(sr.GridPointsPath)
	require.NoError(t, err)
	defer gp.Close()
	recs, err := csv.NewReader(gp).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(recs), 1)
	assert.Equal(t, gridPointHeader, recs[0])

	// area-ratio artifact round-trips into the domain types
	data, err := os.ReadFile(sr.AreaRatiosPath)
	require.NoError(t, err)
	var ratios map[effmap.Channel][]effmap.AreaRatio
	require.NoError(t, json.Unmarshal(data, &ratios))
	require.Len(t, ratios[effmap.ChannelSystem], 2)
	assert.Equal(t, 90.0, ratios[effmap.ChannelSystem][0].Level)
	assert.Equal(t, 80.0, ratios[effmap.ChannelSystem][1].Level)

	data, err = os.ReadFile(sr.SummaryPath)
	require.NoError(t, err)
	var summary summaryFile
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "bench", summary.Sheet)
	assert.Equal(t, 9, summary.RowsLoaded)
	assert.InDelta(t, 350.0, summary.MeanUdc, 1e-9)
}

func TestRunWorkbookSheetSelection(t *testing.T) {
	dir := t.TempDir()

	res, err := Run(Options{
		InputPath:  writeMeasurementsXLSX(t, dir, "fwd_motoring", "rev_braking"),
		ConfigPath: writeSettings(t, dir),
		Sheet:      "rev_braking",
		OutDir:     filepath.Join(dir, "out"),
		Format:     "csv",
		Channels:   []effmap.Channel{effmap.ChannelSystem},
	})
	require.NoError(t, err)
	require.Len(t, res.Sheets, 1)
	assert.Equal(t, "rev_braking", res.Sheets[0].Sheet)
	assert.Contains(t, res.Sheets[0].GridPointsPath, "rev_braking_grid_points.csv")

	_, err = Run(Options{
		InputPath:  writeMeasurementsXLSX(t, dir, "only"),
		ConfigPath: writeSettings(t, dir),
		Sheet:      "missing",
		OutDir:     filepath.Join(dir, "out2"),
		Format:     "csv",
	})
	assert.ErrorContains(t, err, "not found")
}

func TestRunWorkbookAllSheets(t *testing.T) {
	dir := t.TempDir()

	res, err := Run(Options{
		InputPath:  writeMeasurementsXLSX(t, dir, "a", "b"),
		ConfigPath: writeSettings(t, dir),
		OutDir:     filepath.Join(dir, "out"),
		Format:     "csv",
	})
	require.NoError(t, err)
	require.Len(t, res.Sheets, 2)
	for _, sr := range res.Sheets {
		assert.Empty(t, sr.Error)
		assert.FileExists(t, sr.GridPointsPath)
		assert.FileExists(t, sr.AreaRatiosPath)
		assert.FileExists(t, sr.SummaryPath)
	}
}

func TestRunParquetFormat(t *testing.T) {
	dir := t.TempDir()

	res, err := Run(Options{
		InputPath:  writeMeasurementsCSV(t, dir),
		ConfigPath: writeSettings(t, dir),
		OutDir:     filepath.Join(dir, "out"),
		Channels:   []effmap.Channel{effmap.ChannelSystem},
	})
	require.NoError(t, err)
	require.Len(t, res.Sheets, 1)

	path := res.Sheets[0].GridPointsPath
	assert.Equal(t, ".parquet", filepath.Ext(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunValidation(t *testing.T) {
	_, err := Run(Options{OutDir: "x"})
	assert.ErrorContains(t, err, "input path")

	_, err = Run(Options{InputPath: "x.csv"})
	assert.ErrorContains(t, err, "output directory")

	_, err = Run(Options{InputPath: "x.csv", OutDir: "y", Format: "yaml"})
	assert.ErrorContains(t, err, "unsupported format")
}

func TestRunRefusesDirtyOutDir(t *testing.T) {
	dir := t.TempDir()
	in := writeMeasurementsCSV(t, dir)
	cfgPath := writeSettings(t, dir)

	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.txt"), []byte("x"), 0o644))

	_, err := Run(Options{InputPath: in, ConfigPath: cfgPath, OutDir: out, Format: "csv"})
	assert.ErrorContains(t, err, "not empty")

	_, err = Run(Options{InputPath: in, ConfigPath: cfgPath, OutDir: out, Format: "csv", Overwrite: true})
	assert.NoError(t, err)
}

func TestRunAllSheetsFailed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	_, err := Run(Options{
		InputPath:  path,
		ConfigPath: writeSettings(t, dir),
		OutDir:     filepath.Join(dir, "out"),
		Format:     "csv",
	})
	assert.ErrorContains(t, err, "sheets failed")
}

func TestLoadConfigSections(t *testing.T) {
	dir := t.TempDir()

	withSection := filepath.Join(dir, "a.ini")
	require.NoError(t, os.WriteFile(withSection, []byte("[Settings]\nSpeed = n\n"), 0o644))
	cfg, err := LoadConfig(withSection)
	require.NoError(t, err)
	assert.Equal(t, "n", cfg.Get("Speed"))

	bare := filepath.Join(dir, "b.ini")
	require.NoError(t, os.WriteFile(bare, []byte("Speed = rpm\n"), 0o644))
	cfg, err = LoadConfig(bare)
	require.NoError(t, err)
	assert.Equal(t, "rpm", cfg.Get("Speed"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "fwd_run_1", sanitizeName("fwd run/1"))
	assert.Equal(t, "a_b", sanitizeName(`a\b`))
}
