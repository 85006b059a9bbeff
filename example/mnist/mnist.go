/*
Example code showing how to perform handwritten digit classification using
the MNIST model.
*/
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"

	"github.com/SheldonWu/onnxruntime"
	"github.com/SheldonWu/onnxruntime/postprocess"
	"github.com/SheldonWu/onnxruntime/preprocess"
	"github.com/SheldonWu/onnxruntime/render"
	"gocv.io/x/gocv"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	modelFile := flag.String("m", "../data/mnist.onnx", "ONNX model file")
	imgFile := flag.String("i", "../data/seven_28x28.png", "Image file of a handwritten digit to classify")
	labelFile := flag.String("l", "", "Text file containing class labels, one per line")
	libPath := flag.String("lib", "", "ONNX Runtime shared library file")
	saveFile := flag.String("o", "", "Output JPG file annotated with the predicted digit")
	fontFile := flag.String("f", "", "TTF font file to annotate with instead of the built in font")
	resizeInput := flag.Bool("r", false, "Resize the input image to the model dimensions when it does not match")

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

	// model input dimensions, mnist wants a 28x28 grayscale image
	attr := rt.InputAttrs()[0]

	if attr.NDims != 4 {
		log.Fatalf("Model input has %d dimensions, expected an image tensor", attr.NDims)
	}

	ia := rt.InputAttributes()
	inH := ia.Height
	inW := ia.Width

	// load image as grayscale pixels
	h, w, pixels, err := preprocess.ReadGrayImageFile(*imgFile)

	if err != nil {
		log.Fatal("Error reading image: ", err)
	}

	if h != inH || w != inW {

		if !*resizeInput {
			log.Fatalf("Image is %dx%d but the model wants %dx%d, resize the "+
				"input image or rerun with -r", w, h, inW, inH)
		}

		pixels, err = preprocess.ResizeGrayImage(pixels, h, w, inH, inW)

		if err != nil {
			log.Fatal("Error resizing image: ", err)
		}
	}

	// scale pixel values to 0-1 floats for the input tensor
	input := make([]float32, len(pixels))

	for i, p := range pixels {
		input[i] = float32(p) / 255.0
	}

	// perform inference on image file
	outputs, err := rt.Inference([][]float32{input})

	if err != nil {
		log.Fatal("Runtime inferencing failed with error: ", err)
	}

	// read in class labels, without a file the digits label themselves
	labels := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

	if *labelFile != "" {
		labels, err = onnxruntime.LoadLabels(*labelFile)

		if err != nil {
			log.Fatal("Error loading labels: ", err)
		}
	}

	// post process outputs into the predicted digit
	classifier := postprocess.NewClassifier(postprocess.ClassifierParams{
		Labels: labels,
	})

	result, err := classifier.Classify(outputs)

	if err != nil {
		log.Fatal("Error classifying outputs: ", err)
	}

	best := result.Label

	if best == "" {
		best = strconv.Itoa(result.Best)
	}

	log.Printf("Predicted digit: %s (%.1f%%)\n", best,
		result.Probabilities[result.Best]*100)

	log.Println("  --- Class Probabilities ---")

	for i, p := range result.Probabilities {

		label := strconv.Itoa(i)

		if i < len(labels) {
			label = labels[i]
		}

		marker := ""

		if i == result.Best {
			marker = "  <--"
		}

		log.Printf("  %5s: %8.6f%s\n", label, p, marker)
	}

	// free outputs allocated by the runtime after post processing
	err = outputs.Free()

	if err != nil {
		log.Fatal("Error freeing Outputs: ", err)
	}

	if *saveFile != "" {
		text := fmt.Sprintf("digit: %s (%.1f%%)", best,
			result.Probabilities[result.Best]*100)
		saveAnnotated(*imgFile, *saveFile, *fontFile, text)
	}

	// close runtime and release resources
	err = rt.Close()

	if err != nil {
		log.Fatal("Error closing ONNX runtime: ", err)
	}

	log.Println("done")
}

// saveAnnotated writes a copy of the input image upscaled and labelled with
// the classification result
func saveAnnotated(imgFile, saveFile, fontFile, text string) {

	img := gocv.IMRead(imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", imgFile)
	}

	defer img.Close()

	// upscale the small digit image so the label is readable, nearest
	// neighbour keeps the blocky pixel look
	big := gocv.NewMat()
	defer big.Close()

	gocv.Resize(img, &big, image.Pt(img.Cols()*8, img.Rows()*8), 0, 0,
		gocv.InterpolationNearestNeighbor)

	if fontFile != "" {

		fnt, err := render.LoadTTFFont(fontFile, 16)

		if err != nil {
			log.Fatal("Error loading font: ", err)
		}

		err = render.LabelTTF(&big, text, image.Pt(4, 20), render.White, fnt)

		if err != nil {
			log.Fatal("Error drawing label: ", err)
		}

	} else {
		render.Label(&big, text, image.Pt(0, 0), render.Blue, render.DefaultFont())
	}

	if ok := gocv.IMWrite(saveFile, big); !ok {
		log.Fatal("Failed to save the image to: ", saveFile)
	}

	log.Printf("Saved annotated result to %s\n", saveFile)
}
