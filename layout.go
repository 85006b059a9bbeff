package onnxruntime

import "fmt"

// ToPlanar converts an interleaved RGB image buffer (HWC layout, one byte
// per channel) into the planar CHW float32 buffer expected by model input
// tensors.  Pixel values are widened to float32 without scaling, so a byte
// of 255 becomes 255.0.  The input must be exactly h*w*3 bytes long.
func ToPlanar(input []byte, h, w int) ([]float32, error) {

	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive",
			ErrInvalidInput, w, h)
	}

	stride := h * w

	if len(input) != stride*3 {
		return nil, fmt.Errorf("%w: buffer is %d bytes, expected %d for %dx%d RGB",
			ErrInvalidInput, len(input), stride*3, w, h)
	}

	output := make([]float32, stride*3)

	for i := 0; i < stride; i++ {
		for c := 0; c < 3; c++ {
			output[c*stride+i] = float32(input[i*3+c])
		}
	}

	return output, nil
}

// ToInterleaved converts a planar CHW float32 buffer back into an
// interleaved RGB byte buffer (HWC layout).  Values outside the range
// 0-255 are set to 0, they are not saturated to the nearest bound.  The
// input must be exactly h*w*3 values long.
func ToInterleaved(input []float32, h, w int) ([]byte, error) {

	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive",
			ErrInvalidInput, w, h)
	}

	stride := h * w

	if len(input) != stride*3 {
		return nil, fmt.Errorf("%w: buffer is %d values, expected %d for %dx%d RGB",
			ErrInvalidInput, len(input), stride*3, w, h)
	}

	output := make([]byte, stride*3)

	for c := 0; c < 3; c++ {
		t := c * stride

		for i := 0; i < stride; i++ {
			f := input[t+i]

			if f < 0 || f > 255 {
				f = 0
			}

			output[i*3+c] = uint8(f)
		}
	}

	return output, nil
}
