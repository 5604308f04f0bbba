package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

var gridPointHeader = []string{
	"speed", "torque", "eff_mcu", "eff_motor", "eff_sys", "power_kw", "in_envelope",
}

func writeGridPointsCSV(path string, points []GridPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(gridPointHeader); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			fmtFloat(p.Speed),
			fmtFloat(p.Torque),
			fmtFloat(p.EffMCU),
			fmtFloat(p.EffMotor),
			fmtFloat(p.EffSYS),
			fmtFloat(p.PowerKW),
			strconv.FormatBool(p.InEnvelope),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
