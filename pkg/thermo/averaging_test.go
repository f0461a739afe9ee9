package thermo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sburgic/smoker-ctrl/pkg/config"
	"github.com/sburgic/smoker-ctrl/pkg/probe"
)

func TestAverageReadings(t *testing.T) {
	now := time.Now()

	readings := []probe.RawReading{
		{Timestamp: now, Pit: 100, Meat: 200, Pulses: 1},
		{Timestamp: now.Add(time.Second), Pit: 200, Meat: 300, Pulses: 2},
	}

	avg := averageReadings(readings)
	assert.Equal(t, uint16(150), avg.Pit)
	assert.Equal(t, uint16(250), avg.Meat)
	assert.Equal(t, now.Add(time.Second), avg.Timestamp)
	assert.Equal(t, int32(2), avg.Pulses)
}

func TestAverageReadings_Empty(t *testing.T) {
	avg := averageReadings(nil)
	assert.Equal(t, probe.RawReading{}, avg)
}

func TestAverageReadings_RoundsToNearest(t *testing.T) {
	readings := []probe.RawReading{
		{Pit: 100, Meat: 100},
		{Pit: 101, Meat: 102},
	}

	avg := averageReadings(readings)
	assert.Equal(t, uint16(101), avg.Pit) // 100.5 rounds up
	assert.Equal(t, uint16(101), avg.Meat)
}

func TestNewAveragingConverter_WindowedOutput(t *testing.T) {
	cfg := config.Default()
	converter := NewAveragingConverter(cfg, 2, 10)

	in := make(chan probe.RawReading, 4)
	out := converter(in)

	for i := 0; i < 4; i++ {
		in <- probe.RawReading{
			Timestamp: time.Now(),
			Pit:       uint16(3000 + i),
			Meat:      uint16(3000 + i),
			Pulses:    int32(i),
		}
	}
	close(in)

	var readings []Reading
	for reading := range out {
		readings = append(readings, reading)
	}

	assert.Len(t, readings, 2, "4 raw readings with window 2 should yield 2 outputs")
}

func TestNewAveragingConverter_FlushesRemainder(t *testing.T) {
	cfg := config.Default()
	converter := NewAveragingConverter(cfg, 2, 10)

	in := make(chan probe.RawReading, 3)
	out := converter(in)

	for i := 0; i < 3; i++ {
		in <- probe.RawReading{Pit: 3000, Meat: 3000, Pulses: int32(i)}
	}
	close(in)

	var readings []Reading
	for reading := range out {
		readings = append(readings, reading)
	}

	require.Len(t, readings, 2, "remainder should be flushed on close")
	assert.Equal(t, int32(2), readings[1].Pulses)
}

func TestNewAveragingConverter_WindowOfOneFallsBack(t *testing.T) {
	cfg := config.Default()
	converter := NewAveragingConverter(cfg, 1, 10)

	in := make(chan probe.RawReading, 2)
	out := converter(in)

	in <- probe.RawReading{Pit: 3000, Meat: 3000}
	in <- probe.RawReading{Pit: 3001, Meat: 3001}
	close(in)

	var readings []Reading
	for reading := range out {
		readings = append(readings, reading)
	}

	assert.Len(t, readings, 2)
}
