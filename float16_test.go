package onnxruntime

import (
	"math"
	"testing"
)

func TestConvertFloat16Buffer(t *testing.T) {

	tests := []struct {
		bits     uint16
		expected float32
	}{
		{0x0000, 0},
		{0x3C00, 1},
		{0x4000, 2},
		{0xC000, -2},
		{0x3555, 0.333251953125},
		// largest and smallest normal values
		{0x7BFF, 65504},
		{0xFBFF, -65504},
		// smallest subnormal value
		{0x0001, 5.9604644775390625e-08},
	}

	bits := make([]uint16, len(tests))

	for i, tc := range tests {
		bits[i] = tc.bits
	}

	out := ConvertFloat16Buffer(bits)

	if len(out) != len(tests) {
		t.Fatalf("output length = %d; want %d", len(out), len(tests))
	}

	for i, tc := range tests {
		if out[i] != tc.expected {
			t.Errorf("bits 0x%04X = %g; want %g", tc.bits, out[i], tc.expected)
		}
	}
}

func TestConvertFloat16BufferNaN(t *testing.T) {

	out := ConvertFloat16Buffer([]uint16{0x7E00})

	if !math.IsNaN(float64(out[0])) {
		t.Errorf("bits 0x7E00 = %g; want NaN", out[0])
	}
}

func TestConvertFloat16BufferEmpty(t *testing.T) {

	out := ConvertFloat16Buffer(nil)

	if len(out) != 0 {
		t.Errorf("output length = %d; want 0", len(out))
	}
}
