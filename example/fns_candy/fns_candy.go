/*
Example code showing how to perform style transfer using the FNS-Candy
model.
*/
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/SheldonWu/onnxruntime"
	"github.com/SheldonWu/onnxruntime/postprocess"
	"github.com/SheldonWu/onnxruntime/preprocess"
	"gocv.io/x/gocv"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	modelFile := flag.String("m", "../data/candy.onnx", "ONNX style transfer model file")
	imgFile := flag.String("i", "../data/city.jpg", "Image file to stylize")
	saveFile := flag.String("o", "../data/city-candy-out.jpg", "Output JPG file")
	libPath := flag.String("lib", "", "ONNX Runtime shared library file")

	flag.Parse()

	if *libPath != "" {
		onnxruntime.SetLibraryPath(*libPath)
	}

	// create onnx runtime instance
	rt, err := onnxruntime.NewRuntime(*modelFile)

	if err != nil {
		log.Fatal("Error initializing ONNX runtime: ", err)
	}

	// optional querying of model file tensors for printing to stdout.  not
	// necessary for production inference code
	rt.Query(os.Stdout)

	// model input dimensions, candy wants a 720x720 RGB frame
	attr := rt.InputAttrs()[0]

	if attr.NDims != 4 || attr.Dims[1] != 3 {
		log.Fatalf("Model input dims are %v, expected a [1,3,H,W] image tensor",
			attr.Dims)
	}

	inH := int(attr.Dims[2])
	inW := int(attr.Dims[3])

	// load image
	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", *imgFile)
	}

	// convert colorspace and resize image to the input tensor size
	rgbImg := gocv.NewMat()
	gocv.CvtColor(img, &rgbImg, gocv.ColorBGRToRGB)

	resizer := preprocess.NewResizer(img.Cols(), img.Rows(), inW, inH)

	cropImg := gocv.NewMat()
	resizer.Resize(rgbImg, &cropImg)

	defer img.Close()
	defer rgbImg.Close()
	defer cropImg.Close()

	start := time.Now()

	// repack the interleaved pixels into the planar input tensor.  the
	// candy model takes raw 0-255 color intensities so no scaling is done
	data, err := cropImg.DataPtrUint8()

	if err != nil {
		log.Fatal("Error getting data pointer to Mat: ", err)
	}

	input, err := onnxruntime.ToPlanar(data, inH, inW)

	if err != nil {
		log.Fatal("Error converting image to planar layout: ", err)
	}

	endConvert := time.Now()

	// perform inference on image file
	outputs, err := rt.Inference([][]float32{input})

	if err != nil {
		log.Fatal("Runtime inferencing failed with error: ", err)
	}

	endInference := time.Now()

	// post process outputs into the stylized image
	styler := postprocess.NewStyleTransfer(postprocess.StyleTransferDefaultParams())

	styledImg := gocv.NewMat()
	defer styledImg.Close()

	err = styler.CreateImage(outputs, &styledImg)

	if err != nil {
		log.Fatal("Error creating stylized image: ", err)
	}

	endCreate := time.Now()

	log.Printf("Model run speed: convert=%s, inference=%s, create image=%s, total time=%s\n",
		endConvert.Sub(start).String(),
		endInference.Sub(endConvert).String(),
		endCreate.Sub(endInference).String(),
		endCreate.Sub(start).String(),
	)

	if ok := gocv.IMWrite(*saveFile, styledImg); !ok {
		log.Fatal("Failed to save the image to: ", *saveFile)
	}

	log.Printf("Saved stylized result to %s\n", *saveFile)

	// free outputs allocated by the runtime after post processing
	err = outputs.Free()

	if err != nil {
		log.Fatal("Error freeing Outputs: ", err)
	}

	// close runtime and release resources
	err = rt.Close()

	if err != nil {
		log.Fatal("Error closing ONNX runtime: ", err)
	}

	log.Println("done")
}
