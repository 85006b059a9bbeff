package postprocess

import (
	"fmt"

	"github.com/SheldonWu/onnxruntime"
)

// Classifier defines the struct for post processing the outputs of
// classification models such as the MNIST digit network
type Classifier struct {
	// Params are the Model configuration parameters
	Params ClassifierParams
}

// ClassifierParams defines the struct containing the Classifier parameters
// to use for post processing operations
type ClassifierParams struct {
	// Labels are the class labels in class index order.  Optional, without
	// them a result carries an empty Label
	Labels []string
}

// ClassifyResult is the predicted class of a model output together with
// the full probability distribution
type ClassifyResult struct {
	// Best is the class index with the highest probability
	Best int
	// Label is the class label for Best when labels were provided
	Label string
	// Probabilities holds the softmax probability of every class
	Probabilities []float32
}

// NewClassifier returns an instance of the Classifier post processor
func NewClassifier(param ClassifierParams) *Classifier {
	return &Classifier{
		Params: param,
	}
}

// Classify takes the model outputs and returns the predicted class of the
// first output tensor.  The scores are copied out of the engine owned
// buffer so the result stays valid after outputs.Free()
func (c *Classifier) Classify(outputs *onnxruntime.Outputs) (ClassifyResult, error) {

	if outputs == nil || len(outputs.Output) == 0 {
		return ClassifyResult{}, fmt.Errorf("%w: no outputs to classify",
			onnxruntime.ErrInvalidInput)
	}

	buf := outputs.Output[0].BufFloat

	if len(buf) == 0 {
		return ClassifyResult{}, fmt.Errorf("%w: output tensor has no float data",
			onnxruntime.ErrInvalidInput)
	}

	scores := make([]float32, len(buf))
	copy(scores, buf)

	if err := Softmax(scores); err != nil {
		return ClassifyResult{}, err
	}

	best, err := Argmax(scores)

	if err != nil {
		return ClassifyResult{}, err
	}

	res := ClassifyResult{
		Best:          best,
		Probabilities: scores,
	}

	if best < len(c.Params.Labels) {
		res.Label = c.Params.Labels[best]
	}

	return res, nil
}
