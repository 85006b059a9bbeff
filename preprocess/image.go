package preprocess

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/nfnt/resize"

	_ "image/jpeg"
	_ "image/png"
)

// ReadImageFile decodes the given image file and returns its height, width
// and pixel data as interleaved RGB bytes, three bytes per pixel in row
// major order
func ReadImageFile(file string) (h, w int, pixels []byte, err error) {

	img, err := decodeImage(file)

	if err != nil {
		return 0, 0, nil, err
	}

	b := img.Bounds()
	h = b.Dy()
	w = b.Dx()

	pixels = make([]byte, h*w*3)
	idx := 0

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			pixels[idx] = byte(r >> 8)
			pixels[idx+1] = byte(g >> 8)
			pixels[idx+2] = byte(bl >> 8)
			idx += 3
		}
	}

	return h, w, pixels, nil
}

// ReadGrayImageFile decodes the given image file and returns its height,
// width and pixel data as grayscale bytes, one byte per pixel in row major
// order.  Color images are converted to grayscale by luminance
func ReadGrayImageFile(file string) (h, w int, pixels []byte, err error) {

	img, err := decodeImage(file)

	if err != nil {
		return 0, 0, nil, err
	}

	b := img.Bounds()
	h = b.Dy()
	w = b.Dx()

	pixels = make([]byte, h*w)
	idx := 0

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			pixels[idx] = gray.Y
			idx++
		}
	}

	return h, w, pixels, nil
}

// decodeImage opens and decodes an image file in any registered format
func decodeImage(file string) (image.Image, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening image: %w", err)
	}

	defer f.Close()

	img, _, err := image.Decode(f)

	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return img, nil
}

// ResizeImage scales interleaved RGB pixel data from srcH x srcW to
// dstH x dstW using Lanczos resampling.  Aspect ratio is not preserved
func ResizeImage(pixels []byte, srcH, srcW, dstH, dstW int) ([]byte, error) {

	if len(pixels) != srcH*srcW*3 {
		return nil, fmt.Errorf("pixel buffer is %d bytes, expected %d for %dx%d RGB",
			len(pixels), srcH*srcW*3, srcW, srcH)
	}

	src := image.NewRGBA(image.Rect(0, 0, srcW, srcH))
	idx := 0

	for y := 0; y < srcH; y++ {
		for x := 0; x < srcW; x++ {
			src.SetRGBA(x, y, color.RGBA{
				R: pixels[idx],
				G: pixels[idx+1],
				B: pixels[idx+2],
				A: 255,
			})
			idx += 3
		}
	}

	scaled := resize.Resize(uint(dstW), uint(dstH), src, resize.Lanczos3)

	out := make([]byte, dstH*dstW*3)
	idx = 0

	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			out[idx] = byte(r >> 8)
			out[idx+1] = byte(g >> 8)
			out[idx+2] = byte(b >> 8)
			idx += 3
		}
	}

	return out, nil
}

// ResizeGrayImage scales grayscale pixel data from srcH x srcW to
// dstH x dstW using Lanczos resampling.  Aspect ratio is not preserved
func ResizeGrayImage(pixels []byte, srcH, srcW, dstH, dstW int) ([]byte, error) {

	if len(pixels) != srcH*srcW {
		return nil, fmt.Errorf("pixel buffer is %d bytes, expected %d for %dx%d grayscale",
			len(pixels), srcH*srcW, srcW, srcH)
	}

	src := image.NewGray(image.Rect(0, 0, srcW, srcH))
	copy(src.Pix, pixels)

	scaled := resize.Resize(uint(dstW), uint(dstH), src, resize.Lanczos3)

	out := make([]byte, dstH*dstW)
	idx := 0

	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			gray := color.GrayModel.Convert(scaled.At(x, y)).(color.Gray)
			out[idx] = gray.Y
			idx++
		}
	}

	return out, nil
}
