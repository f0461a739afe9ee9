package probe

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/sburgic/smoker-ctrl/pkg/config"
)

// Mock simulates the smoker controller for testing and development. It ramps
// the pit temperature from ambient toward the configured target, lets the
// meat probe lag behind, and reports readings as the ADC counts the real
// thermistor dividers would produce.
type Mock struct {
	cfg *config.Config

	readings  chan RawReading
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	// Simulation state
	startTime time.Time
	pitC      float32
	meatC     float32
}

// NewMock creates a new mocked controller instance.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:       cfg,
		readings:  make(chan RawReading, DefaultBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Connect simulates connecting to the controller.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()
	m.pitC = m.cfg.Mock.AmbientC
	m.meatC = m.cfg.Mock.AmbientC

	go m.generateReadings()

	return nil
}

// Close stops the mocked controller.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.readings)

	return nil
}

// Readings returns the channel for reading raw reports.
func (m *Mock) Readings() <-chan RawReading {
	return m.readings
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateReadings generates simulated readings at the configured rate.
func (m *Mock) generateReadings() {
	ticker := time.NewTicker(m.cfg.Mock.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			reading := m.generateReading()
			select {
			case m.readings <- reading:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// generateReading generates a single simulated reading.
func (m *Mock) generateReading() RawReading {
	m.mu.Lock()
	now := time.Now()
	elapsed := now.Sub(m.startTime)
	dt := float32(m.cfg.Mock.SampleRate.Seconds())

	// Pit warms linearly toward the target; the meat probe lags behind,
	// closing a fixed fraction of the gap each step.
	if m.pitC < m.cfg.Mock.TargetC {
		m.pitC += m.cfg.Mock.RampPerSec * dt
		if m.pitC > m.cfg.Mock.TargetC {
			m.pitC = m.cfg.Mock.TargetC
		}
	}
	m.meatC += (m.pitC - m.meatC) * 0.01 * dt

	pitC := m.pitC + m.noise()
	meatC := m.meatC + m.noise()
	m.mu.Unlock()

	return RawReading{
		Timestamp: now,
		Pit:       m.adcForCelsius(pitC),
		Meat:      m.adcForCelsius(meatC),
		Pulses:    int32(elapsed / time.Second),
	}
}

// noise returns a random offset within the configured noise amplitude.
func (m *Mock) noise() float32 {
	if m.cfg.Mock.NoiseC == 0 {
		return 0
	}
	return (rand.Float32()*2 - 1) * m.cfg.Mock.NoiseC
}

// adcForCelsius inverts the thermistor divider: it computes the NTC
// resistance at the given temperature via the beta equation and returns the
// ADC count the divider would produce at that resistance.
func (m *Mock) adcForCelsius(c float32) uint16 {
	p := m.cfg.Probe

	tK := c + 273.15
	t0K := p.T0 + 273.15
	r := p.R0 * math32.Exp(p.Beta*(1/tK-1/t0K))

	adc := maxADC * (r / (r + p.RSeries))
	if adc < 0 {
		adc = 0
	}
	if adc > maxADC {
		adc = maxADC
	}

	return uint16(adc)
}
