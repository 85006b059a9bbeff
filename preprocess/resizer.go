package preprocess

import (
	"gocv.io/x/gocv"
	"image"
)

// Resizer defines the struct used for scaling source images down to a
// model's input tensor dimensions
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// scale factors between source and destination sizes
	scaleW float32
	scaleH float32
}

// NewResizer returns a resizer used for scaling an image to the needed
// dimensions for input tensor size
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
	}

	// precalculate scaling factors
	r.preCalc()

	return r
}

// preCalc the scaling factors for source and destination Mats
func (r *Resizer) preCalc() {
	r.scaleW = float32(r.destWidth) / float32(r.srcWidth)
	r.scaleH = float32(r.destHeight) / float32(r.srcHeight)
}

// Resize stretches the source image to the destination dimensions.  Aspect
// ratio is not preserved, models such as style transfer expect the full
// frame stretched to the input tensor size
func (r *Resizer) Resize(src gocv.Mat, dest *gocv.Mat) {
	gocv.Resize(src, dest, image.Pt(r.destWidth, r.destHeight),
		0, 0, gocv.InterpolationArea)
}

// ScaleW returns the width scale factor between source and destination
func (r *Resizer) ScaleW() float32 {
	return r.scaleW
}

// ScaleH returns the height scale factor between source and destination
func (r *Resizer) ScaleH() float32 {
	return r.scaleH
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}

// DestWidth returns the width the source image is scaled to
func (r *Resizer) DestWidth() int {
	return r.destWidth
}

// DestHeight returns the height the source image is scaled to
func (r *Resizer) DestHeight() int {
	return r.destHeight
}
