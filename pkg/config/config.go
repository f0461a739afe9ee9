package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Probe   ProbeConfig   `yaml:"probe"`
	Display DisplayConfig `yaml:"display"`
	Mock    MockConfig    `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ProbeConfig contains thermistor probe parameters. The controller wires
// each NTC probe as the lower leg of a divider against RSeries, fed from
// VRef, and reports the raw 12-bit ADC count.
type ProbeConfig struct {
	VRef     float32 `yaml:"vref"`      // ADC reference voltage (V)
	RSeries  float32 `yaml:"r_series"`  // Divider series resistance (Ohm)
	R0       float32 `yaml:"r0"`        // Thermistor resistance at T0 (Ohm)
	T0       float32 `yaml:"t0"`        // Reference temperature (degC)
	Beta     float32 `yaml:"beta"`      // Thermistor beta coefficient (K)
	AvgCount int     `yaml:"avg_count"` // Readings to average (0 = disabled)
}

// DisplayConfig contains readout rendering parameters.
type DisplayConfig struct {
	Width         int           `yaml:"width"`          // Characters per line
	CounterDigits int           `yaml:"counter_digits"` // Digit budget for counters
	UpdatePeriod  time.Duration `yaml:"update_period"`  // Time between rendered frames
}

// MockConfig contains mock probe configuration.
type MockConfig struct {
	AmbientC   float32       `yaml:"ambient_c"`   // Starting pit temperature (degC)
	TargetC    float32       `yaml:"target_c"`    // Pit temperature the mock ramps toward (degC)
	RampPerSec float32       `yaml:"ramp_per_s"`  // Warm-up rate (degC/s)
	NoiseC     float32       `yaml:"noise_c"`     // Noise amplitude (degC)
	SampleRate time.Duration `yaml:"sample_rate"` // Time between readings
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
			Baud: 115200,
		},
		Probe: ProbeConfig{
			VRef:     3.3,
			RSeries:  10000,
			R0:       100000, // 100k NTC, typical BBQ probe
			T0:       25,
			Beta:     3950,
			AvgCount: 0,
		},
		Display: DisplayConfig{
			Width:         20,
			CounterDigits: 6,
			UpdatePeriod:  time.Second,
		},
		Mock: MockConfig{
			AmbientC:   21,
			TargetC:    110,
			RampPerSec: 0.5,
			NoiseC:     0.05,
			SampleRate: 100 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = def.Serial.Baud
	}

	if c.Probe.VRef == 0 {
		c.Probe.VRef = def.Probe.VRef
	}
	if c.Probe.RSeries == 0 {
		c.Probe.RSeries = def.Probe.RSeries
	}
	if c.Probe.R0 == 0 {
		c.Probe.R0 = def.Probe.R0
	}
	if c.Probe.T0 == 0 {
		c.Probe.T0 = def.Probe.T0
	}
	if c.Probe.Beta == 0 {
		c.Probe.Beta = def.Probe.Beta
	}

	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.CounterDigits == 0 {
		c.Display.CounterDigits = def.Display.CounterDigits
	}
	if c.Display.UpdatePeriod == 0 {
		c.Display.UpdatePeriod = def.Display.UpdatePeriod
	}

	if c.Mock.TargetC == 0 {
		c.Mock.TargetC = def.Mock.TargetC
	}
	if c.Mock.RampPerSec == 0 {
		c.Mock.RampPerSec = def.Mock.RampPerSec
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
}
