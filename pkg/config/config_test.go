package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, float32(3.3), cfg.Probe.VRef)
	assert.Equal(t, float32(10000), cfg.Probe.RSeries)
	assert.Equal(t, float32(100000), cfg.Probe.R0)
	assert.Equal(t, float32(25), cfg.Probe.T0)
	assert.Equal(t, float32(3950), cfg.Probe.Beta)
	assert.Equal(t, 20, cfg.Display.Width)
	assert.Equal(t, 6, cfg.Display.CounterDigits)
	assert.Equal(t, time.Second, cfg.Display.UpdatePeriod)
	assert.Equal(t, 100*time.Millisecond, cfg.Mock.SampleRate)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB1"
  baud: 57600

probe:
  vref: 3.3
  r_series: 22000
  r0: 10000
  t0: 25
  beta: 3435
  avg_count: 8

display:
  width: 16
  counter_digits: 4
  update_period: 500ms

mock:
  ambient_c: 18
  target_c: 120
  ramp_per_s: 1.5
  noise_c: 0.1
  sample_rate: 50ms
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.Baud)
	assert.Equal(t, float32(22000), cfg.Probe.RSeries)
	assert.Equal(t, float32(10000), cfg.Probe.R0)
	assert.Equal(t, float32(3435), cfg.Probe.Beta)
	assert.Equal(t, 8, cfg.Probe.AvgCount)
	assert.Equal(t, 16, cfg.Display.Width)
	assert.Equal(t, 4, cfg.Display.CounterDigits)
	assert.Equal(t, 500*time.Millisecond, cfg.Display.UpdatePeriod)
	assert.Equal(t, float32(120), cfg.Mock.TargetC)
	assert.Equal(t, 50*time.Millisecond, cfg.Mock.SampleRate)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyUSB0"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)          // default
	assert.Equal(t, float32(3950), cfg.Probe.Beta)    // default
	assert.Equal(t, 20, cfg.Display.Width)            // default
	assert.Equal(t, time.Second, cfg.Display.UpdatePeriod) // default
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Display.Width = 16

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, 16, loaded.Display.Width)
}
