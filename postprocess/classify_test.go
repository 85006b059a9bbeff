package postprocess

import (
	"errors"
	"math"
	"testing"

	"github.com/SheldonWu/onnxruntime"
)

func TestClassify(t *testing.T) {

	outputs := &onnxruntime.Outputs{
		Output: []onnxruntime.Output{
			{
				Index:    0,
				Name:     "Plus214_Output_0",
				Dims:     []int64{1, 3},
				Size:     3,
				BufFloat: []float32{1, 1, 3},
			},
		},
	}

	classifier := NewClassifier(ClassifierParams{
		Labels: []string{"zero", "one", "two"},
	})

	res, err := classifier.Classify(outputs)

	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}

	if res.Best != 2 {
		t.Errorf("Expected best class 2, got %d", res.Best)
	}

	if res.Label != "two" {
		t.Errorf("Expected label two, got %s", res.Label)
	}

	if len(res.Probabilities) != 3 {
		t.Fatalf("Expected 3 probabilities, got %d", len(res.Probabilities))
	}

	if diff := math.Abs(float64(res.Probabilities[2] - 0.7870)); diff > 1e-4 {
		t.Errorf("Expected best probability 0.7870, got %f", res.Probabilities[2])
	}

	// scores were copied, the source buffer keeps its raw values
	if outputs.Output[0].BufFloat[2] != 3 {
		t.Errorf("Output buffer was modified: %v", outputs.Output[0].BufFloat)
	}
}

func TestClassifyNoLabels(t *testing.T) {

	outputs := &onnxruntime.Outputs{
		Output: []onnxruntime.Output{
			{
				Dims:     []int64{1, 2},
				Size:     2,
				BufFloat: []float32{0.5, 2},
			},
		},
	}

	classifier := NewClassifier(ClassifierParams{})

	res, err := classifier.Classify(outputs)

	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}

	if res.Best != 1 {
		t.Errorf("Expected best class 1, got %d", res.Best)
	}

	if res.Label != "" {
		t.Errorf("Expected empty label, got %s", res.Label)
	}
}

func TestClassifyInvalidOutputs(t *testing.T) {

	classifier := NewClassifier(ClassifierParams{})

	_, err := classifier.Classify(nil)

	if !errors.Is(err, onnxruntime.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil outputs, got %v", err)
	}

	_, err = classifier.Classify(&onnxruntime.Outputs{})

	if !errors.Is(err, onnxruntime.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty outputs, got %v", err)
	}

	// int64 output tensors carry no float scores
	outputs := &onnxruntime.Outputs{
		Output: []onnxruntime.Output{
			{
				Dims:     []int64{1, 2},
				Size:     2,
				BufInt64: []int64{1, 2},
			},
		},
	}

	_, err = classifier.Classify(outputs)

	if !errors.Is(err, onnxruntime.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for int64 output, got %v", err)
	}
}
