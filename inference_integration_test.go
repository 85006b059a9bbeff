//go:build integration
// +build integration

package onnxruntime

import (
	"os"
	"testing"

	"github.com/SheldonWu/onnxruntime/preprocess"
)

// TestClassifierTop5 runs a real classification model end to end.  It needs
// the ONNX Runtime shared library installed plus a model and image, eg:
//
//	ONNX_LIB=/usr/lib/libonnxruntime.so ONNX_MODEL=mobilenet.onnx \
//	  ONNX_IMAGE=cat.jpg go test -tags integration -run TestClassifierTop5
func TestClassifierTop5(t *testing.T) {

	modelFile := os.Getenv("ONNX_MODEL")

	if modelFile == "" {
		t.Fatalf("No Model file provided in ONNX_MODEL")
	}

	imgFile := os.Getenv("ONNX_IMAGE")

	if imgFile == "" {
		t.Fatalf("No Image file provided in ONNX_IMAGE")
	}

	if lib := os.Getenv("ONNX_LIB"); lib != "" {
		SetLibraryPath(lib)
	}

	// Initialize runtime
	rt, err := NewRuntime(modelFile)

	if err != nil {
		t.Fatalf("NewRuntime failed: %v", err)
	}

	defer rt.Close()

	if n := rt.QueryModelIONumber().NumberInput; n != 1 {
		t.Skipf("model has %d inputs, need a single input model", n)
	}

	attr := rt.InputAttrs()[0]

	if attr.NDims != 4 {
		t.Skipf("model input has %d dims, need a 4 dim image model", attr.NDims)
	}

	ia := rt.InputAttributes()

	if ia.Channel != 3 {
		t.Skipf("model wants %d channels, need an RGB model", ia.Channel)
	}

	// load and resize image
	h, w, pixels, err := preprocess.ReadImageFile(imgFile)

	if err != nil {
		t.Fatalf("Error reading image from %s: %v", imgFile, err)
	}

	pixels, err = preprocess.ResizeImage(pixels, h, w, ia.Height, ia.Width)

	if err != nil {
		t.Fatalf("Error resizing image: %v", err)
	}

	planar, err := ToPlanar(pixels, ia.Height, ia.Width)

	if err != nil {
		t.Fatalf("ToPlanar failed: %v", err)
	}

	// run inference
	outputs, err := rt.Inference([][]float32{planar})

	if err != nil {
		t.Fatalf("Inference error: %v", err)
	}

	defer func() {
		if err := outputs.Free(); err != nil {
			t.Errorf("Free Outputs: %v", err)
		}
	}()

	// Extract Top5
	top5 := GetTop5(outputs.Output)

	if len(top5) == 0 || len(top5) > 5 {
		t.Fatalf("expected 1 to 5 results, got %d", len(top5))
	}

	// Probabilities must be descending
	for i := 1; i < len(top5); i++ {
		if top5[i].Probability > top5[i-1].Probability {
			t.Errorf("probabilities not descending: index %d has %v > previous %v",
				i, top5[i].Probability, top5[i-1].Probability)
		}
	}

	// Label indices must be in range [0, numClasses)
	outAttr := rt.OutputAttrs()[0]
	numClasses := int(outAttr.Dims[len(outAttr.Dims)-1])

	for i, p := range top5 {
		if int(p.LabelIndex) < 0 || int(p.LabelIndex) >= numClasses {
			t.Errorf("entry %d: label index %d out of range [0,%d)",
				i, p.LabelIndex, numClasses)
		}
	}
}

// TestOutputsDoubleFree checks Free() is safe to call more than once
func TestOutputsDoubleFree(t *testing.T) {

	modelFile := os.Getenv("ONNX_MODEL")

	if modelFile == "" {
		t.Fatalf("No Model file provided in ONNX_MODEL")
	}

	if lib := os.Getenv("ONNX_LIB"); lib != "" {
		SetLibraryPath(lib)
	}

	rt, err := NewRuntime(modelFile)

	if err != nil {
		t.Fatalf("NewRuntime failed: %v", err)
	}

	defer rt.Close()

	if n := rt.QueryModelIONumber().NumberInput; n != 1 {
		t.Skipf("model has %d inputs, need a single input model", n)
	}

	attr := rt.InputAttrs()[0]
	input := make([]float32, attr.NElems)

	outputs, err := rt.Inference([][]float32{input})

	if err != nil {
		t.Fatalf("Inference error: %v", err)
	}

	if err := outputs.Free(); err != nil {
		t.Fatalf("first Free failed: %v", err)
	}

	if err := outputs.Free(); err != nil {
		t.Fatalf("second Free failed: %v", err)
	}
}
