// Package probe talks to the smoker controller MCU over its serial link and
// exposes the raw probe readings it reports.
package probe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the controller's UART rate.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the readings channel buffer.
	DefaultBufferSize = 100
	// maxADC is the largest count the controller's 12-bit ADC can report.
	maxADC = 4095
)

// RawReading represents one raw report from the controller: the pit and meat
// probe ADC counts and the feed pulse counter. The timestamp is assigned on
// receipt by the host.
type RawReading struct {
	Timestamp time.Time
	Pit       uint16 // 12-bit ADC count for the pit probe (0-4095)
	Meat      uint16 // 12-bit ADC count for the meat probe (0-4095)
	Pulses    int32  // Cumulative auger feed pulse count
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the controller MCU.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	readings  chan RawReading
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial instance with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		readings:  make(chan RawReading, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect connects to the serial port and starts reading.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	go d.readReadings()

	return nil
}

// Close closes the connection and stops reading.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	close(d.readings)

	return nil
}

// Readings returns the channel for reading raw reports.
func (d *Serial) Readings() <-chan RawReading {
	return d.readings
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readReadings reads lines from the serial port and parses them into RawReading.
func (d *Serial) readReadings() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readReadings: %v", r)
		}
	}()

	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					if err != io.EOF {
						log.Printf("Error reading from serial port: %v", err)
					}
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			reading, err := parseLine(line)
			if err != nil {
				log.Printf("Failed to parse line '%s': %v", line, err)
				continue
			}

			select {
			case d.readings <- reading:
			case <-d.ctx.Done():
				return
			default:
				log.Printf("Readings channel full, dropping reading")
			}
		}
	}
}

// parseLine parses a line from the MCU into a RawReading.
// Format: pit_adc,meat_adc,pulses
// Example: 2048,1024,42
func parseLine(line string) (RawReading, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return RawReading{}, fmt.Errorf("invalid line format: expected 3 comma-separated values, got %d", len(parts))
	}

	pit, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return RawReading{}, fmt.Errorf("invalid pit reading: %w", err)
	}
	if pit > maxADC {
		return RawReading{}, fmt.Errorf("pit reading out of range: %d (max %d)", pit, maxADC)
	}

	meat, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return RawReading{}, fmt.Errorf("invalid meat reading: %w", err)
	}
	if meat > maxADC {
		return RawReading{}, fmt.Errorf("meat reading out of range: %d (max %d)", meat, maxADC)
	}

	pulses, err := strconv.ParseInt(parts[2], 10, 32)
	if err != nil {
		return RawReading{}, fmt.Errorf("invalid pulse count: %w", err)
	}

	return RawReading{
		Timestamp: time.Now(),
		Pit:       uint16(pit),
		Meat:      uint16(meat),
		Pulses:    int32(pulses),
	}, nil
}
