// Package textfmt renders numeric values as ASCII text using caller-owned,
// fixed-size buffers. It mirrors the formatting routines running on the
// controller MCU, which has no printf and no heap: every operation works in
// call-local scratch space, completes in O(digit count) and performs no I/O.
package textfmt

import (
	"errors"

	"github.com/chewxy/math32"
)

const (
	// FloatBufLen is the minimum output buffer length for FormatFloat.
	// The full window is cleared on every call, so unused trailing
	// positions always read as zero.
	FloatBufLen = 20

	// maxUnits bounds the integer part of a formatted float. The on-device
	// formatter narrows the integer part to 16 bits; values beyond that
	// are rejected here instead of silently wrapping.
	maxUnits = 32767
)

var (
	// ErrBufferTooSmall reports an output buffer shorter than the
	// worst-case formatted length.
	ErrBufferTooSmall = errors.New("output buffer too small")

	// ErrDigitBudget reports an integer whose decimal digits exceed the
	// caller's digit budget.
	ErrDigitBudget = errors.New("digit budget exceeded")

	// ErrEmptySequence reports a reversal request on an empty sequence.
	ErrEmptySequence = errors.New("empty sequence")

	// ErrValueOutOfRange reports a float whose integer part exceeds the
	// supported 16-bit range.
	ErrValueOutOfRange = errors.New("integer part out of range")
)

// FormatFloat writes val into out as a fixed-point decimal with exactly two
// fractional digits, truncated toward zero (98.759 renders as "98.75",
// -0.001 as "-0.00"). A leading '-' is emitted iff val is negative. The
// first FloatBufLen bytes of out are zeroed before formatting, so out must
// be at least FloatBufLen long. Returns the number of bytes written.
//
// The integer part of the magnitude must fit in 16 signed bits; larger
// values return ErrValueOutOfRange.
func FormatFloat(val float32, out []byte) (int, error) {
	if len(out) < FloatBufLen {
		return 0, ErrBufferTooSmall
	}
	for i := 0; i < FloatBufLen; i++ {
		out[i] = 0
	}

	mag := val
	if val < 0 {
		mag = -val
	}
	if math32.Trunc(mag) > maxUnits {
		return 0, ErrValueOutOfRange
	}

	decimals := int32(math32.Floor(mag*100)) % 100
	units := int32(mag)

	// Build right-to-left: lowest fractional digit first, then the tens
	// fractional digit, the point, the units digits and finally the sign.
	var scratch [FloatBufLen]byte
	s := FloatBufLen

	s--
	scratch[s] = byte(decimals%10) + '0'
	decimals /= 10
	s--
	scratch[s] = byte(decimals%10) + '0'
	s--
	scratch[s] = '.'

	for {
		s--
		scratch[s] = byte(units%10) + '0'
		units /= 10
		if units == 0 {
			break
		}
	}

	if val < 0 {
		s--
		scratch[s] = '-'
	}

	// Compact the used scratch window into out. Only bytes actually
	// written above are non-zero, and they already sit in left-to-right
	// order, so copying them left-aligns the result without reordering.
	n := 0
	for i := 0; i < FloatBufLen; i++ {
		if scratch[i] != 0 {
			out[n] = scratch[i]
			n++
		}
	}

	return n, nil
}

// FormatInt writes n into out as a decimal string of at most maxDigits
// digits, an optional leading '-' and a NUL terminator. out must hold
// maxDigits+2 bytes. On success it returns the number of bytes before the
// terminator.
//
// If the magnitude needs more than maxDigits digits, FormatInt zeroes what
// it wrote and returns ErrDigitBudget; it never reports a partially
// formatted buffer as valid output.
func FormatInt(n int32, out []byte, maxDigits int) (int, error) {
	if maxDigits < 1 || len(out) < maxDigits+2 {
		return 0, ErrBufferTooSmall
	}

	neg := n < 0
	mag := uint32(n)
	if neg {
		// Widen before negating so the minimum int32 survives.
		mag = uint32(-int64(n))
	}

	// Digits come out least-significant-first and are reversed below.
	i := 0
	for {
		out[i] = byte(mag%10) + '0'
		i++
		mag /= 10
		if mag == 0 || i >= maxDigits {
			break
		}
	}

	if mag != 0 {
		for j := 0; j < i; j++ {
			out[j] = 0
		}
		return 0, ErrDigitBudget
	}

	if neg {
		out[i] = '-'
		i++
	}
	out[i] = 0

	if err := Reverse(out[:i]); err != nil {
		return 0, err
	}

	return i, nil
}

// Reverse reverses s in place. Empty sequences are rejected rather than
// risking an index underflow.
func Reverse(s []byte) error {
	if len(s) == 0 {
		return ErrEmptySequence
	}

	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}

	return nil
}
