package effmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the flat key→value settings mapping the core consumes. It is
// read-only during a run; how it is produced (INI file, flags, defaults) is
// the caller's business.
//
// Recognized keys and defaults:
//
//	Speed, Toqrue, P_Motor, Eff_MCU, Eff_Motor, Eff_SYS, U_dc  column aliases
//	customUdc      constant DC-bus voltage override
//	SpeedGrid      speed axis step, default 50
//	TorqueGrid     torque fill step, default 5
//	StartSpeed     cutoff speed, default 0
//	StartTorque    cutoff torque, default 0
//	EffMAPStep     efficiency thresholds, default "90 85 80 70"
//	PowerMAPStep   power contour levels, no default
//
// "Toqrue" is the torque alias key as spelled by the settings files this tool
// has always consumed; the misspelling is load-bearing.
type Config map[string]string

// Default numeric values for grid and cutoff parameters.
const (
	DefaultSpeedGrid   = 50
	DefaultTorqueGrid  = 5
	DefaultStartSpeed  = 0
	DefaultStartTorque = 0
	DefaultEffMAPStep  = "90 85 80 70"
)

// Get returns the raw configured value, or "" when the key is absent.
func (c Config) Get(key string) string {
	if c == nil {
		return ""
	}
	return c[key]
}

// Alias returns a configured column alias with surrounding whitespace and
// quote characters stripped. Settings files in the wild quote column names.
func (c Config) Alias(key string) string {
	v := strings.TrimSpace(c.Get(key))
	v = strings.Trim(v, `'"`)
	return v
}

// Float resolves a numeric parameter. A missing or blank value yields the
// default; a malformed value is an error so that only the dependent operation
// fails, never the whole pipeline.
func (c Config) Float(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config %s: invalid number %q", key, raw)
	}
	return v, nil
}

// Levels resolves a threshold-list parameter via ParseLevels, falling back to
// the given default string when the key is unset.
func (c Config) Levels(key, def string) []float64 {
	raw := strings.TrimSpace(c.Get(key))
	if raw == "" {
		raw = def
	}
	if raw == "" {
		return nil
	}
	return ParseLevels(raw)
}
