package onnxruntime

import (
	"fmt"
)

// Batch concatenates a number of single image input tensors into one
// buffer for batched inference on models with a dynamic batch dimension
type Batch struct {
	// buf holds the concatenated image tensors
	buf []float32
	// size of the batch
	size int
	// width is the input tensor size width
	width int
	// height is the input tensor size height
	height int
	// channels is the input tensor number of channels
	channels int
	// imgCnt is a counter for how many images have been added with Add()
	imgCnt int
	// imgSize stores an images size made up from its elements
	imgSize int
}

// NewBatch creates a batch of concatenated image tensors for the given
// input tensor shape and batch size
func NewBatch(batchSize, channels, height, width int) *Batch {

	imgSize := channels * height * width

	return &Batch{
		buf:      make([]float32, batchSize*imgSize),
		size:     batchSize,
		height:   height,
		width:    width,
		channels: channels,
		imgCnt:   0,
		imgSize:  imgSize,
	}
}

// Add an image tensor to the batch
func (b *Batch) Add(input []float32) error {

	// check if batch is full
	if b.imgCnt >= b.size {
		return fmt.Errorf("batch full")
	}

	err := b.addAt(b.imgCnt, input)

	if err != nil {
		return err
	}

	// increment image counter
	b.imgCnt++
	return nil
}

// AddAt adds an image tensor to the batch at the specific index location
func (b *Batch) AddAt(idx int, input []float32) error {

	if idx < 0 || idx >= b.size {
		return fmt.Errorf("index %d out of range [0-%d)", idx, b.size)
	}

	return b.addAt(idx, input)
}

// addAt adds an image tensor to the specified index location
func (b *Batch) addAt(idx int, input []float32) error {

	// validate tensor size
	if len(input) != b.imgSize {
		return fmt.Errorf("input has %d elements, batch shape wants %d",
			len(input), b.imgSize)
	}

	offset := idx * b.imgSize
	copy(b.buf[offset:], input)

	return nil
}

// Input returns the concatenated input tensor of all images in the batch
// for passing to Inference
func (b *Batch) Input() []float32 {
	return b.buf
}

// Len returns the number of images added with Add()
func (b *Batch) Len() int {
	return b.imgCnt
}

// GetOutputF32 returns the output tensor slice for the image at the given
// batch index.  size is the number of output elements per image.  The
// slice points into the engine owned output buffer so it must not be used
// after outputs.Free()
func (b *Batch) GetOutputF32(idx int, output Output, size int) ([]float32, error) {

	if idx < 0 || idx >= b.size {
		return nil, fmt.Errorf("index %d out of range [0-%d)", idx, b.size)
	}

	offset := idx * size

	if offset+size > output.Size {
		return nil, fmt.Errorf("offset %d out of range [%d,%d)", offset,
			output.Size, offset+size)
	}

	return output.BufFloat[offset : offset+size], nil
}

// Clear the batch so it can be reused again
func (b *Batch) Clear() {
	// just reset the counter, we don't need to clear the underlying buffer
	// as it will be overwritten when Add() is called with new images
	b.imgCnt = 0
}
