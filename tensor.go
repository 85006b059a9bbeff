package onnxruntime

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// TensorFormat describes the dimension ordering of an image tensor
type TensorFormat int

const (
	TensorNCHW TensorFormat = iota
	TensorNHWC
	TensorUndefined
)

// TensorType describes the element type of a tensor
type TensorType int

const (
	TensorFloat32 TensorType = iota
	TensorFloat16
	TensorFloat64
	TensorInt8
	TensorUint8
	TensorInt16
	TensorUint16
	TensorInt32
	TensorUint32
	TensorInt64
	TensorUint64
	TensorBool
	TensorString
	TensorUnknown
)

// TensorAttr holds the attributes of a model input or output tensor
type TensorAttr struct {
	// Index is the tensor's position in the model's input or output list
	Index int
	// Name is the tensor name given when the model was exported
	Name string
	// NDims is the number of dimensions
	NDims int
	// Dims are the tensor dimensions.  A dynamic dimension is reported by
	// the model as 0 or -1
	Dims []int64
	// NElems is the total number of elements, counting dynamic dimensions
	// as 1
	NElems int64
	// Type is the element type
	Type TensorType
	// Fmt is the dimension ordering for 4 dimensional image tensors
	Fmt TensorFormat
}

// convertTensorInfo converts the tensor information reported by ONNX Runtime
// into a TensorAttr
func convertTensorInfo(index int, info ort.InputOutputInfo) TensorAttr {

	dims := make([]int64, len(info.Dimensions))
	copy(dims, info.Dimensions)

	return TensorAttr{
		Index:  index,
		Name:   info.Name,
		NDims:  len(dims),
		Dims:   dims,
		NElems: elemCount(dims),
		Type:   convertElementType(info.DataType),
		Fmt:    guessFormat(dims),
	}
}

// elemCount returns the number of elements in a tensor with the given
// dimensions.  Dynamic dimensions are counted as 1.
func elemCount(dims []int64) int64 {

	n := int64(1)

	for _, d := range dims {
		if d > 0 {
			n *= d
		}
	}

	return n
}

// runDims returns the dimensions used to build a tensor at inference time,
// with dynamic dimensions substituted by 1
func runDims(dims []int64) []int64 {

	out := make([]int64, len(dims))

	for i, d := range dims {
		if d <= 0 {
			d = 1
		}
		out[i] = d
	}

	return out
}

// guessFormat infers the dimension ordering of a 4 dimensional image tensor.
// The channel dimension is taken to be the axis holding a small value (4 or
// less) while the spatial axis on the other side holds a larger one.  ONNX
// vision models are NCHW unless exported otherwise
func guessFormat(dims []int64) TensorFormat {

	if len(dims) != 4 {
		return TensorUndefined
	}

	if dims[1] > 0 && dims[1] <= 4 && dims[3] > 4 {
		return TensorNCHW
	}

	if dims[3] > 0 && dims[3] <= 4 && dims[1] > 4 {
		return TensorNHWC
	}

	return TensorNCHW
}

// convertElementType maps the ONNX Runtime element type onto a TensorType
func convertElementType(t ort.TensorElementDataType) TensorType {
	switch t {
	case ort.TensorElementDataTypeFloat:
		return TensorFloat32
	case ort.TensorElementDataTypeFloat16:
		return TensorFloat16
	case ort.TensorElementDataTypeDouble:
		return TensorFloat64
	case ort.TensorElementDataTypeInt8:
		return TensorInt8
	case ort.TensorElementDataTypeUint8:
		return TensorUint8
	case ort.TensorElementDataTypeInt16:
		return TensorInt16
	case ort.TensorElementDataTypeUint16:
		return TensorUint16
	case ort.TensorElementDataTypeInt32:
		return TensorInt32
	case ort.TensorElementDataTypeUint32:
		return TensorUint32
	case ort.TensorElementDataTypeInt64:
		return TensorInt64
	case ort.TensorElementDataTypeUint64:
		return TensorUint64
	case ort.TensorElementDataTypeBool:
		return TensorBool
	case ort.TensorElementDataTypeString:
		return TensorString
	default:
		return TensorUnknown
	}
}

// String returns the TensorAttr's attributes formatted as a string
func (a TensorAttr) String() string {

	return fmt.Sprintf("index=%d, name=%s, n_dims=%d, dims=%v, n_elems=%d, "+
		"fmt=%s, type=%s",
		a.Index, a.Name, a.NDims, a.Dims, a.NElems,
		a.Fmt.String(), a.Type.String(),
	)
}

// String returns a readable description of the TensorType
func (t TensorType) String() string {
	switch t {
	case TensorFloat32:
		return "FP32"
	case TensorFloat16:
		return "FP16"
	case TensorFloat64:
		return "FP64"
	case TensorInt8:
		return "INT8"
	case TensorUint8:
		return "UINT8"
	case TensorInt16:
		return "INT16"
	case TensorUint16:
		return "UINT16"
	case TensorInt32:
		return "INT32"
	case TensorUint32:
		return "UINT32"
	case TensorInt64:
		return "INT64"
	case TensorUint64:
		return "UINT64"
	case TensorBool:
		return "BOOL"
	case TensorString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// String returns a readable description of the TensorFormat
func (t TensorFormat) String() string {
	switch t {
	case TensorNCHW:
		return "NCHW"
	case TensorNHWC:
		return "NHWC"
	case TensorUndefined:
		return "UNDEFINED"
	default:
		return "UNKNOWN"
	}
}
