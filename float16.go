package onnxruntime

import "github.com/x448/float16"

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// ConvertFloat16Buffer converts a buffer of raw float16 bit patterns to
// float32.  Go has no float16 type, so FP16 tensor data must be widened
// with this before post processing.
func ConvertFloat16Buffer(buf []uint16) []float32 {

	out := make([]float32, len(buf))

	for i, val := range buf {
		out[i] = f16LookupTable[val]
	}

	return out
}
