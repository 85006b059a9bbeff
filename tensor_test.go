package onnxruntime

import (
	"strings"
	"testing"

	ort "github.com/yalue/onnxruntime_go"
)

func TestGuessFormat(t *testing.T) {

	tests := []struct {
		dims     []int64
		expected TensorFormat
	}{
		{[]int64{1, 1, 28, 28}, TensorNCHW},
		{[]int64{1, 3, 720, 720}, TensorNCHW},
		{[]int64{1, 224, 224, 3}, TensorNHWC},
		{[]int64{1, 10}, TensorUndefined},
		{[]int64{10}, TensorUndefined},
		// ambiguous shapes fall back to the ONNX default
		{[]int64{1, 2, 2, 2}, TensorNCHW},
	}

	for _, tc := range tests {
		if got := guessFormat(tc.dims); got != tc.expected {
			t.Errorf("guessFormat(%v) = %s; want %s",
				tc.dims, got.String(), tc.expected.String())
		}
	}
}

func TestElemCount(t *testing.T) {

	tests := []struct {
		dims     []int64
		expected int64
	}{
		{[]int64{1, 1, 28, 28}, 784},
		{[]int64{1, 3, 720, 720}, 1555200},
		{[]int64{1, 10}, 10},
		// dynamic dimensions count as 1
		{[]int64{-1, 10}, 10},
		{[]int64{0, 3, 8, 8}, 192},
		{[]int64{}, 1},
	}

	for _, tc := range tests {
		if got := elemCount(tc.dims); got != tc.expected {
			t.Errorf("elemCount(%v) = %d; want %d", tc.dims, got, tc.expected)
		}
	}
}

func TestRunDims(t *testing.T) {

	dims := runDims([]int64{-1, 3, 0, 8})

	expected := []int64{1, 3, 1, 8}

	for i, want := range expected {
		if dims[i] != want {
			t.Errorf("runDims[%d] = %d; want %d", i, dims[i], want)
		}
	}
}

func TestConvertTensorInfo(t *testing.T) {

	info := ort.InputOutputInfo{
		Name:       "Input3",
		Dimensions: ort.NewShape(1, 1, 28, 28),
		DataType:   ort.TensorElementDataTypeFloat,
	}

	attr := convertTensorInfo(0, info)

	if attr.Name != "Input3" {
		t.Errorf("Name = %q; want Input3", attr.Name)
	}

	if attr.NDims != 4 {
		t.Errorf("NDims = %d; want 4", attr.NDims)
	}

	if attr.NElems != 784 {
		t.Errorf("NElems = %d; want 784", attr.NElems)
	}

	if attr.Type != TensorFloat32 {
		t.Errorf("Type = %s; want FP32", attr.Type.String())
	}

	if attr.Fmt != TensorNCHW {
		t.Errorf("Fmt = %s; want NCHW", attr.Fmt.String())
	}

	str := attr.String()

	for _, want := range []string{"name=Input3", "type=FP32", "fmt=NCHW", "n_elems=784"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q; missing %q", str, want)
		}
	}
}
