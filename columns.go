package effmap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoColumns means not a single configured column alias matched the source
// table. Distinct from per-column misses, which only degrade to zeros.
var ErrNoColumns = errors.New("effmap: no configured columns matched the table")

// Channel selects one of the three efficiency channels.
type Channel string

const (
	ChannelMCU    Channel = "Eff_MCU"
	ChannelMotor  Channel = "Eff_Motor"
	ChannelSystem Channel = "Eff_SYS"
)

// AllChannels lists the efficiency channels in display order.
var AllChannels = []Channel{ChannelMCU, ChannelMotor, ChannelSystem}

// Dataset is the column-oriented numeric view of one sheet. Speed, torque and
// power are absolute magnitudes; direction and motoring/generating state are
// classified separately from the signed source columns.
type Dataset struct {
	Speed    []float64
	Torque   []float64
	Power    []float64
	EffMCU   []float64
	EffMotor []float64
	EffSYS   []float64
	Udc      []float64
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Speed)
}

// ChannelValues returns the series for one efficiency channel.
func (d *Dataset) ChannelValues(ch Channel) []float64 {
	switch ch {
	case ChannelMCU:
		return d.EffMCU
	case ChannelMotor:
		return d.EffMotor
	case ChannelSystem:
		return d.EffSYS
	}
	return nil
}

// Classification is the direction/state metadata derived from the signed
// source columns before magnitudes are taken.
type Classification struct {
	Direction string // "forward", "reverse" or "unknown"
	State     string // "motoring", "generating" or "unknown"
}

const (
	DirectionForward = "forward"
	DirectionReverse = "reverse"
	StateMotoring    = "motoring"
	StateGenerating  = "generating"
	Unknown          = "unknown"
)

// MapColumns extracts the configured numeric columns from a raw table.
// A missing or blank alias degrades to an all-zero series with a warning;
// non-numeric cells coerce to zero. Only a table where no alias matches at
// all is a hard error.
func MapColumns(t *Table, cfg Config) (*Dataset, Classification, []string, error) {
	n := t.NumRows()
	var warnings []string
	matched := 0

	col := func(key string) []float64 {
		alias := cfg.Alias(key)
		if alias == "" {
			warnings = append(warnings, fmt.Sprintf("no column configured for %s", key))
			return make([]float64, n)
		}
		raw, ok := t.Column(alias)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("column %q (mapped from %s) not found", alias, key))
			return make([]float64, n)
		}
		matched++
		vals := coerceNumeric(raw)
		if absSum(vals) == 0 {
			warnings = append(warnings, fmt.Sprintf("column %q (mapped from %s) is all zero or empty", alias, key))
		}
		return vals
	}

	speed := col("Speed")
	torque := col("Toqrue")
	power := col("P_Motor")

	d := &Dataset{
		Speed:    absAll(speed),
		Torque:   absAll(torque),
		Power:    absAll(power),
		EffMCU:   col("Eff_MCU"),
		EffMotor: col("Eff_Motor"),
		EffSYS:   col("Eff_SYS"),
	}

	// DC-bus voltage: a parseable customUdc wins over the mapped column.
	custom := strings.TrimSpace(cfg.Get("customUdc"))
	usedCustom := false
	if custom != "" {
		if v, err := strconv.ParseFloat(custom, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			d.Udc = constant(n, v)
			usedCustom = true
		} else {
			warnings = append(warnings, fmt.Sprintf("customUdc %q is not a valid number, using data column", custom))
		}
	}
	if !usedCustom {
		d.Udc = col("U_dc")
	}

	cls := classify(t, cfg, speed, power)

	if matched == 0 {
		return nil, cls, warnings, ErrNoColumns
	}
	return d, cls, warnings, nil
}

// classify derives direction and motoring/generating state from the means of
// the signed (pre-magnitude) speed and power series. An absent source column
// reports "unknown" rather than failing.
func classify(t *Table, cfg Config, signedSpeed, signedPower []float64) Classification {
	cls := Classification{Direction: Unknown, State: Unknown}
	if t.HasColumn(cfg.Alias("Speed")) && cfg.Alias("Speed") != "" {
		if mean(signedSpeed) > 0 {
			cls.Direction = DirectionForward
		} else {
			cls.Direction = DirectionReverse
		}
	}
	if t.HasColumn(cfg.Alias("P_Motor")) && cfg.Alias("P_Motor") != "" {
		if mean(signedPower) > 0 {
			cls.State = StateMotoring
		} else {
			cls.State = StateGenerating
		}
	}
	return cls
}

func coerceNumeric(raw []string) []float64 {
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) {
			v = 0
		}
		out[i] = v
	}
	return out
}

func absAll(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = math.Abs(v)
	}
	return out
}

func absSum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += math.Abs(v)
	}
	return s
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}
