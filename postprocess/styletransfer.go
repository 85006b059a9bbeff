package postprocess

import (
	"fmt"

	"github.com/SheldonWu/onnxruntime"
	"gocv.io/x/gocv"
)

// StyleTransfer defines the struct for converting the outputs of style
// transfer models such as FNS-Candy back into images
type StyleTransfer struct {
	// Params are the Model configuration parameters
	Params StyleTransferParams
}

// StyleTransferParams defines the struct containing the StyleTransfer
// parameters to use for post processing operations
type StyleTransferParams struct {
	// KeepRGB leaves the output Mat in RGB channel order instead of
	// converting to BGR for writing with gocv
	KeepRGB bool
}

// StyleTransferDefaultParams returns an instance of StyleTransferParams
// producing a BGR image ready for writing to file
func StyleTransferDefaultParams() StyleTransferParams {
	return StyleTransferParams{
		KeepRGB: false,
	}
}

// NewStyleTransfer returns an instance of the StyleTransfer post processor
func NewStyleTransfer(param StyleTransferParams) *StyleTransfer {
	return &StyleTransfer{
		Params: param,
	}
}

// CreateImage takes the model outputs and converts the first output
// tensor, a [1,3,H,W] planar float tensor of 0-255 color intensities,
// into an image Mat.  Values outside 0-255 become 0
func (s *StyleTransfer) CreateImage(outputs *onnxruntime.Outputs,
	dest *gocv.Mat) error {

	if outputs == nil || len(outputs.Output) == 0 {
		return fmt.Errorf("%w: no outputs to convert", onnxruntime.ErrInvalidInput)
	}

	output := outputs.Output[0]

	if output.BufFloat == nil {
		return fmt.Errorf("%w: output tensor has no float data",
			onnxruntime.ErrInvalidInput)
	}

	height, width, err := imageDims(output.Dims)

	if err != nil {
		return err
	}

	pixels, err := onnxruntime.ToInterleaved(output.BufFloat, height, width)

	if err != nil {
		return err
	}

	rgbMat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, pixels)

	if err != nil {
		return fmt.Errorf("failed to create Mat from pixels: %w", err)
	}

	defer rgbMat.Close()

	if s.Params.KeepRGB {
		rgbMat.CopyTo(dest)
		return nil
	}

	// BGR to RGB is the same channel swap in both directions
	gocv.CvtColor(rgbMat, dest, gocv.ColorBGRToRGB)

	return nil
}

// imageDims extracts the height and width from [1,3,H,W] tensor dimensions
func imageDims(dims []int64) (height, width int, err error) {

	if len(dims) != 4 || dims[0] != 1 || dims[1] != 3 {
		return 0, 0, fmt.Errorf("%w: output dims %v, expected a [1,3,H,W] tensor",
			onnxruntime.ErrInvalidInput, dims)
	}

	return int(dims[2]), int(dims[3]), nil
}
