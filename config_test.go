package effmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFloat(t *testing.T) {
	cfg := Config{
		"SpeedGrid":  "25",
		"StartSpeed": "",
		"TorqueGrid": "five",
	}

	v, err := cfg.Float("SpeedGrid", 50)
	require.NoError(t, err)
	assert.Equal(t, 25.0, v)

	// missing and blank both default
	v, err = cfg.Float("StartTorque", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	v, err = cfg.Float("StartSpeed", 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = cfg.Float("TorqueGrid", 5)
	assert.Error(t, err, "malformed value must fail the dependent operation")
}

func TestConfigAliasStripsQuotes(t *testing.T) {
	cfg := Config{
		"Speed":  `  'Motor Speed' `,
		"Toqrue": `"Shaft Torque"`,
	}
	assert.Equal(t, "Motor Speed", cfg.Alias("Speed"))
	assert.Equal(t, "Shaft Torque", cfg.Alias("Toqrue"))
	assert.Equal(t, "", cfg.Alias("P_Motor"))
}

func TestConfigLevels(t *testing.T) {
	cfg := Config{"EffMAPStep": "95, 90; 85"}
	assert.Equal(t, []float64{95, 90, 85}, cfg.Levels("EffMAPStep", DefaultEffMAPStep))

	// unset key falls back to the default string
	assert.Equal(t, []float64{90, 85, 80, 70}, Config{}.Levels("EffMAPStep", DefaultEffMAPStep))

	// no default and no value
	assert.Nil(t, Config{}.Levels("PowerMAPStep", ""))
}
