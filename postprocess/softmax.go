package postprocess

import (
	"fmt"
	"math"

	"github.com/SheldonWu/onnxruntime"
	"gonum.org/v1/gonum/floats"
)

// Softmax converts raw model scores into probabilities in place.  The
// maximum score is subtracted from every entry before exponentiation so
// large scores cannot overflow.  After the call entries are in [0,1] and
// sum to 1
func Softmax(scores []float32) error {

	if len(scores) == 0 {
		return fmt.Errorf("%w: no scores given", onnxruntime.ErrInvalidInput)
	}

	max := scores[0]

	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	var sum float32

	for i, s := range scores {
		e := float32(math.Exp(float64(s - max)))
		scores[i] = e
		sum += e
	}

	for i := range scores {
		scores[i] /= sum
	}

	return nil
}

// Argmax returns the index of the highest score.  When several entries
// share the highest score the first one wins
func Argmax(scores []float32) (int, error) {

	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: no scores given", onnxruntime.ErrInvalidInput)
	}

	best := 0

	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}

	return best, nil
}

// Softmax64 is the float64 variant of Softmax for models emitting double
// precision outputs
func Softmax64(scores []float64) error {

	if len(scores) == 0 {
		return fmt.Errorf("%w: no scores given", onnxruntime.ErrInvalidInput)
	}

	max := floats.Max(scores)

	for i, s := range scores {
		scores[i] = math.Exp(s - max)
	}

	floats.Scale(1/floats.Sum(scores), scores)

	return nil
}

// Argmax64 is the float64 variant of Argmax
func Argmax64(scores []float64) (int, error) {

	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: no scores given", onnxruntime.ErrInvalidInput)
	}

	return floats.MaxIdx(scores), nil
}
