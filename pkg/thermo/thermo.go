// Package thermo converts raw thermistor ADC counts from the controller into
// temperatures in degrees Celsius.
package thermo

import (
	"fmt"
	"log"
	"time"

	"github.com/chewxy/math32"

	"github.com/sburgic/smoker-ctrl/pkg/config"
	"github.com/sburgic/smoker-ctrl/pkg/probe"
)

const (
	adcMax      = 4095
	kelvinZeroC = 273.15
)

// Reading represents a converted reading with physical values.
type Reading struct {
	Timestamp time.Time
	PitC      float32 // Pit probe temperature (degC)
	MeatC     float32 // Meat probe temperature (degC)
	Pulses    int32   // Cumulative auger feed pulse count
}

// Converter is a function type that converts a RawReading channel to a Reading channel.
type Converter func(in <-chan probe.RawReading) <-chan Reading

// NewConverter creates a converter function that transforms RawReading to Reading.
func NewConverter(cfg *config.Config, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan probe.RawReading) <-chan Reading {
		out := make(chan Reading, bufSize)

		go func() {
			defer close(out)

			for raw := range in {
				reading, err := convertReading(raw, cfg)
				if err != nil {
					log.Printf("Failed to convert reading: %v", err)
					continue
				}

				select {
				case out <- reading:
				case <-time.After(time.Second):
					log.Printf("Converter output channel full, dropping reading")
				}
			}
		}()

		return out
	}
}

// convertReading converts a RawReading to a Reading using probe configuration.
func convertReading(raw probe.RawReading, cfg *config.Config) (Reading, error) {
	pitC, err := Celsius(raw.Pit, cfg.Probe)
	if err != nil {
		return Reading{}, fmt.Errorf("pit probe: %w", err)
	}

	meatC, err := Celsius(raw.Meat, cfg.Probe)
	if err != nil {
		return Reading{}, fmt.Errorf("meat probe: %w", err)
	}

	return Reading{
		Timestamp: raw.Timestamp,
		PitC:      pitC,
		MeatC:     meatC,
		Pulses:    raw.Pulses,
	}, nil
}

// Celsius converts a 12-bit ADC count into a temperature using the divider
// and beta-equation parameters from the probe configuration.
func Celsius(adc uint16, p config.ProbeConfig) (float32, error) {
	v := adcToVoltage(adc, p.VRef)

	r, err := thermistorResistance(v, p.VRef, p.RSeries)
	if err != nil {
		return 0, err
	}

	// Beta equation: 1/T = 1/T0 + ln(R/R0)/B, temperatures in Kelvin.
	t0K := p.T0 + kelvinZeroC
	invT := 1/t0K + math32.Log(r/p.R0)/p.Beta

	return 1/invT - kelvinZeroC, nil
}

// adcToVoltage converts a 12-bit ADC count to voltage.
func adcToVoltage(adc uint16, vref float32) float32 {
	return (float32(adc) / adcMax) * vref
}

// thermistorResistance solves the divider for the NTC on the lower leg.
// Formula: V = VRef * R/(R+RSeries), so R = RSeries * V/(VRef-V).
func thermistorResistance(v, vref, rSeries float32) (float32, error) {
	if v <= 0 {
		return 0, fmt.Errorf("probe shorted: divider voltage %v", v)
	}
	if v >= vref {
		return 0, fmt.Errorf("probe open: divider voltage %v at vref %v", v, vref)
	}

	return rSeries * v / (vref - v), nil
}
