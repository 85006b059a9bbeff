package onnxruntime

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Inference runs the model on the given input buffers.  One float32 buffer
// must be supplied per model input, in model order, holding that tensor's
// data in its expected layout (planar CHW for image models, see ToPlanar).
// The returned Outputs reference memory owned by the engine, call Free()
// once post processing is finished.
func (r *Runtime) Inference(inputs [][]float32) (*Outputs, error) {

	if len(inputs) != r.ioNum.NumberInput {
		return nil, fmt.Errorf("%w: got %d input buffers, model expects %d",
			ErrInvalidInput, len(inputs), r.ioNum.NumberInput)
	}

	inputValues := make([]ort.ArbitraryTensor, len(inputs))

	// input tensors are only needed for the duration of the session run
	defer func() {
		for _, val := range inputValues {
			if val != nil {
				val.Destroy()
			}
		}
	}()

	for i, buf := range inputs {
		attr := r.inputAttrs[i]

		dims := runDims(attr.Dims)

		if int64(len(buf)) != attr.NElems {
			// models with a dynamic batch dimension take a multiple of the
			// single image tensor size, see Batch
			if len(attr.Dims) > 0 && attr.Dims[0] <= 0 && attr.NElems > 0 &&
				int64(len(buf))%attr.NElems == 0 {
				dims[0] = int64(len(buf)) / attr.NElems
			} else {
				return nil, fmt.Errorf("%w: input %d has %d elements, tensor %s expects %d",
					ErrInvalidInput, i, len(buf), attr.Name, attr.NElems)
			}
		}

		tensor, err := ort.NewTensor(ort.NewShape(dims...), buf)

		if err != nil {
			return nil, fmt.Errorf("error creating input tensor %s: %w",
				attr.Name, err)
		}

		inputValues[i] = tensor
	}

	// run the model with engine allocated output tensors
	outputValues := make([]ort.ArbitraryTensor, r.ioNum.NumberOutput)

	err := r.session.Run(inputValues, outputValues)

	if err != nil {
		return nil, fmt.Errorf("error running model: %w", err)
	}

	return r.wrapOutputs(outputValues)
}

// Output holds a single inference output tensor
type Output struct {
	// Index is the output's position in the model's output list
	Index int
	// Name is the output tensor's name
	Name string
	// Dims is the shape of the returned tensor
	Dims []int64
	// Size is the number of elements in the buffer
	Size int
	// BufFloat is the output data for float32 tensors.
	// this is a slice header that points to engine owned memory
	BufFloat []float32
	// BufInt64 is the output data for int64 tensors.
	// this is a slice header that points to engine owned memory
	BufInt64 []int64
}

// Outputs is a struct containing the inference results and the engine
// tensors backing them
type Outputs struct {
	Output []Output
	// values are the engine allocated tensors backing the Output buffers
	values []ort.ArbitraryTensor
	// freed is a flag to indicate if the engine tensors have been released
	// from memory or not
	freed bool
	// mutex to lock access to freed variable
	sync.Mutex
	// runtime instance the outputs came from
	rt *Runtime
}

// wrapOutputs converts the engine allocated output values into Outputs
func (r *Runtime) wrapOutputs(values []ort.ArbitraryTensor) (*Outputs, error) {

	outputs := &Outputs{
		Output: make([]Output, len(values)),
		values: values,
		rt:     r,
	}

	for i, val := range values {
		attr := r.outputAttrs[i]

		out := Output{
			Index: i,
			Name:  attr.Name,
		}

		switch t := val.(type) {
		case *ort.Tensor[float32]:
			out.BufFloat = t.GetData()
			out.Dims = t.GetShape()
			out.Size = len(out.BufFloat)

		case *ort.Tensor[int64]:
			out.BufInt64 = t.GetData()
			out.Dims = t.GetShape()
			out.Size = len(out.BufInt64)

		default:
			outputs.Free()
			return nil, fmt.Errorf("output tensor %s has unsupported element type %s",
				attr.Name, attr.Type.String())
		}

		outputs.Output[i] = out
	}

	return outputs, nil
}

// Free the engine memory holding the inference outputs.  The Output buffers
// must not be used after calling Free
func (o *Outputs) Free() error {
	o.Lock()
	defer o.Unlock()

	if o.freed {
		// engine memory already released
		return nil
	}

	o.freed = true

	var firstErr error

	for _, val := range o.values {
		if val == nil {
			continue
		}

		if err := val.Destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// InputAttribute of trained model input tensor
type InputAttribute struct {
	Width   int
	Height  int
	Channel int
}

// InputAttributes returns the image dimensions of the model's first input
// tensor, resolving the NCHW or NHWC dimension ordering.  A model whose
// input is not a 4 dimensional image tensor returns the zero value
func (r *Runtime) InputAttributes() InputAttribute {

	if len(r.inputAttrs) == 0 {
		return InputAttribute{}
	}

	attr := r.inputAttrs[0]

	if attr.NDims != 4 {
		return InputAttribute{}
	}

	dims := runDims(attr.Dims)

	// default ordering is NCHW
	channel := dims[1]
	height := dims[2]
	width := dims[3]

	if attr.Fmt == TensorNHWC {
		height = dims[1]
		width = dims[2]
		channel = dims[3]
	}

	return InputAttribute{
		Width:   int(width),
		Height:  int(height),
		Channel: int(channel),
	}
}

// InputAttributes returns the image dimensions of the model's input tensor
func (o *Outputs) InputAttributes() InputAttribute {
	return o.rt.InputAttributes()
}

type Probability struct {
	LabelIndex  int32
	Probability float32
}

// MaxTopNum caps the number of matches GetTop will rank
const MaxTopNum = 20

// GetTop5 returns the five best matches from the model's first float32
// output, with left column as label index and right column the match
// probability.  The results are in descending order from top match.
func GetTop5(outputs []Output) []Probability {

	for _, output := range outputs {
		if output.BufFloat != nil {
			return GetTop(output.BufFloat, 5)
		}
	}

	return nil
}

// GetTop takes a probability or score buffer and produces a top list of
// matches in descending order.  Entries with a probability at or below
// 0.000001 are left out, so fewer than topNum results can be returned.
func GetTop(probs []float32, topNum int) []Probability {

	if topNum > MaxTopNum {
		topNum = MaxTopNum
	}

	results := make([]Probability, 0, topNum)
	used := make([]bool, len(probs))

	for j := 0; j < topNum; j++ {
		best := -1

		for i, p := range probs {
			if used[i] || p <= 0.000001 {
				continue
			}

			if best == -1 || p > probs[best] {
				best = i
			}
		}

		if best == -1 {
			break
		}

		used[best] = true

		results = append(results, Probability{
			LabelIndex:  int32(best),
			Probability: probs[best],
		})
	}

	return results
}
