// Package readout renders converted readings as fixed-width character lines
// for a display or serial console. Values on the render path are formatted
// with pkg/textfmt, the same fixed-buffer routines the controller itself
// uses, so host output matches the device readout byte for byte.
package readout

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sburgic/smoker-ctrl/pkg/config"
	"github.com/sburgic/smoker-ctrl/pkg/textfmt"
	"github.com/sburgic/smoker-ctrl/pkg/thermo"
)

// ErrLineOverflow reports a rendered value that does not fit the line width.
var ErrLineOverflow = errors.New("rendered line exceeds display width")

// Labels for the three readout lines.
const (
	pitLabel     = "PIT"
	meatLabel    = "MEAT"
	counterLabel = "CNT"
)

// Renderer builds display lines from readings and writes them to an output.
type Renderer struct {
	width  int
	digits int
	period time.Duration
	w      io.Writer
}

// New creates a Renderer writing to w using the display configuration.
func New(cfg *config.Config, w io.Writer) *Renderer {
	return &Renderer{
		width:  cfg.Display.Width,
		digits: cfg.Display.CounterDigits,
		period: cfg.Display.UpdatePeriod,
		w:      w,
	}
}

// TemperatureLine renders a label and a temperature as one display line,
// padded with spaces to the configured width.
func (r *Renderer) TemperatureLine(label string, c float32) (string, error) {
	var buf [textfmt.FloatBufLen]byte

	n, err := textfmt.FormatFloat(c, buf[:])
	if err != nil {
		return "", fmt.Errorf("format %s temperature: %w", label, err)
	}

	return r.compose(label, buf[:n])
}

// CounterLine renders a label and a counter as one display line, padded with
// spaces to the configured width. The counter digit budget comes from the
// display configuration.
func (r *Renderer) CounterLine(label string, n int32) (string, error) {
	buf := make([]byte, r.digits+2)

	count, err := textfmt.FormatInt(n, buf, r.digits)
	if err != nil {
		return "", fmt.Errorf("format %s counter: %w", label, err)
	}

	return r.compose(label, buf[:count])
}

// compose lays out "label value" left-aligned in a width-sized line.
func (r *Renderer) compose(label string, value []byte) (string, error) {
	if len(label)+1+len(value) > r.width {
		return "", fmt.Errorf("%s %s: %w", label, value, ErrLineOverflow)
	}

	line := make([]byte, r.width)
	n := copy(line, label)
	line[n] = ' '
	n++
	n += copy(line[n:], value)
	for ; n < r.width; n++ {
		line[n] = ' '
	}

	return string(line), nil
}

// RenderFrame writes one full readout frame (pit, meat, counter) to the
// output, one line per row, each terminated by a newline.
func (r *Renderer) RenderFrame(reading thermo.Reading) error {
	pit, err := r.TemperatureLine(pitLabel, reading.PitC)
	if err != nil {
		return err
	}
	meat, err := r.TemperatureLine(meatLabel, reading.MeatC)
	if err != nil {
		return err
	}
	counter, err := r.CounterLine(counterLabel, reading.Pulses)
	if err != nil {
		return err
	}

	for _, line := range []string{pit, meat, counter} {
		if _, err := io.WriteString(r.w, line+"\n"); err != nil {
			return fmt.Errorf("write readout line: %w", err)
		}
	}

	return nil
}

// Run consumes readings and renders the most recent one every update period
// until the input channel closes. The final reading is always rendered, so
// short-lived pipelines still produce output. Render errors are returned
// immediately; write errors end the loop.
func (r *Renderer) Run(in <-chan thermo.Reading) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	var (
		last  thermo.Reading
		dirty bool
	)

	for {
		select {
		case reading, ok := <-in:
			if !ok {
				if dirty {
					return r.RenderFrame(last)
				}
				return nil
			}
			last = reading
			dirty = true

		case <-ticker.C:
			if !dirty {
				continue
			}
			if err := r.RenderFrame(last); err != nil {
				return err
			}
			dirty = false
		}
	}
}
