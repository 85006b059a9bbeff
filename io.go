package onnxruntime

// IONumber holds the number of Input and Output tensors of a model
type IONumber struct {
	NumberInput  int
	NumberOutput int
}

// QueryModelIONumber returns the number of Input and Output tensors of the
// loaded model
func (r *Runtime) QueryModelIONumber() IONumber {
	return r.ioNum
}
