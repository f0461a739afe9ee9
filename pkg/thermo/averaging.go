package thermo

import (
	"log"

	"github.com/sburgic/smoker-ctrl/pkg/config"
	"github.com/sburgic/smoker-ctrl/pkg/probe"
)

// NewAveragingConverter creates a converter that averages windowSize
// consecutive RawReadings before converting them. This reduces ADC noise in
// the displayed temperatures. The most recent timestamp and pulse count of
// each window are kept.
func NewAveragingConverter(cfg *config.Config, windowSize int, bufSize int) Converter {
	if windowSize <= 1 {
		return NewConverter(cfg, bufSize)
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan probe.RawReading) <-chan Reading {
		out := make(chan Reading, bufSize)

		go func() {
			defer close(out)

			window := make([]probe.RawReading, 0, windowSize)

			emit := func() {
				avg := averageReadings(window)
				window = window[:0]

				reading, err := convertReading(avg, cfg)
				if err != nil {
					log.Printf("Failed to convert averaged reading: %v", err)
					return
				}

				select {
				case out <- reading:
				default:
					log.Printf("Averaging converter output channel full, dropping reading")
				}
			}

			for raw := range in {
				window = append(window, raw)
				if len(window) == windowSize {
					emit()
				}
			}

			// Input closed, flush any remaining readings.
			if len(window) > 0 {
				emit()
			}
		}()

		return out
	}
}

// averageReadings averages a slice of RawReadings. Uses the most recent
// reading's timestamp and pulse count.
func averageReadings(readings []probe.RawReading) probe.RawReading {
	if len(readings) == 0 {
		return probe.RawReading{}
	}

	var sumPit, sumMeat uint32
	last := readings[len(readings)-1]

	for _, r := range readings {
		sumPit += uint32(r.Pit)
		sumMeat += uint32(r.Meat)
	}

	n := float64(len(readings))
	avgPit := uint16((float64(sumPit) / n) + 0.5) // Round to nearest
	avgMeat := uint16((float64(sumMeat) / n) + 0.5)

	return probe.RawReading{
		Timestamp: last.Timestamp,
		Pit:       avgPit,
		Meat:      avgMeat,
		Pulses:    last.Pulses,
	}
}
