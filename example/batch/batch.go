/*
Example code showing how to perform batched inference on a model with a
dynamic batch dimension.
*/
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SheldonWu/onnxruntime"
	"github.com/SheldonWu/onnxruntime/postprocess"
	"github.com/SheldonWu/onnxruntime/preprocess"
)

var (
	// model input tensor dimensions, these values will be set when the
	// runtime queries the modelFile being loaded
	height, width int
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	modelFile := flag.String("m", "../data/mnist.onnx", "ONNX model file with a dynamic batch dimension")
	imgDir := flag.String("d", "../data/digits/", "A directory of images to run inference on")
	poolSize := flag.Int("s", 2, "Size of runtime pool")
	batchSize := flag.Int("b", 8, "Number of images per inference batch")
	libPath := flag.String("lib", "", "ONNX Runtime shared library file")
	repeat := flag.Int("r", 1, "Repeat processing image directory the specified number of times, use this if you don't have enough images")
	quiet := flag.Bool("q", false, "Run in quiet mode, don't display individual inference results")

	flag.Parse()

	if *libPath != "" {
		onnxruntime.SetLibraryPath(*libPath)
	}

	// check dir exists
	info, err := os.Stat(*imgDir)

	if err != nil {
		log.Fatalf("No such image directory %s, error: %v\n", *imgDir, err)
	}

	if !info.IsDir() {
		log.Fatal("Image path is not a directory")
	}

	// create new pool
	pool, err := onnxruntime.NewPool(*poolSize, *modelFile)

	if err != nil {
		log.Fatalf("Error creating runtime pool: %v\n", err)
	}

	// get a runtime and query the input tensor dimensions of the model
	rt := pool.Get()

	// optional querying of model file tensors for printing to stdout.  not
	// necessary for production inference code
	rt.Query(os.Stdout)

	attr := rt.InputAttrs()[0]
	ia := rt.InputAttributes()

	if ia.Channel != 1 {
		log.Fatalf("Model input dims are %v, this example wants a grayscale "+
			"[N,1,H,W] model such as mnist", attr.Dims)
	}

	if attr.Dims[0] > 0 {
		// fixed batch models dictate their own batch size
		*batchSize = int(attr.Dims[0])
	}

	height = ia.Height
	width = ia.Width

	// create batch pool to be the same size as the runtime pool
	batchPool, err := onnxruntime.NewBatchPool(*poolSize, *batchSize, rt)

	if err != nil {
		log.Fatalf("Error creating batch pool: %v\n", err)
	}

	pool.Return(rt)

	// get list of all files in the directory
	entries, err := os.ReadDir(*imgDir)

	if err != nil {
		log.Fatalf("Error reading image directory: %v\n", err)
	}

	var files []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		files = append(files, filepath.Join(*imgDir, e.Name()))
	}

	log.Println("Running...")

	var wg sync.WaitGroup

	start := time.Now()

	// repeat processing image set the specified number of times
	for i := 0; i < *repeat; i++ {
		// process image files in groups of batchSize
		for offset := 0; offset < len(files); offset += *batchSize {

			end := offset + *batchSize

			if end > len(files) {
				end = len(files)
			}

			subset := files[offset:end]

			// pool.Get() blocks if no runtimes are available in the pool
			rt := pool.Get()
			batch := batchPool.Get()
			wg.Add(1)

			go func(rt *onnxruntime.Runtime, batch *onnxruntime.Batch, batchPaths []string) {
				defer wg.Done()
				processBatch(rt, batch, batchPaths, *quiet)
				batchPool.Return(batch)
				pool.Return(rt)
			}(rt, batch, subset)
		}
	}

	wg.Wait()

	// calculate average inference
	numFiles := *repeat * len(files)
	end := time.Since(start)
	avg := (end.Seconds() / float64(numFiles)) * 1000

	log.Printf("Processed %d images in %s, average inference per image is %.2fms\n",
		numFiles, end.String(), avg)

	batchPool.Close()
	pool.Close()
}

// processBatch classifies a group of image files in a single inference run
func processBatch(rt *onnxruntime.Runtime, batch *onnxruntime.Batch,
	paths []string, quiet bool) {

	// for each image path, load and preprocess, then add to batch
	for idx, file := range paths {

		h, w, pixels, err := preprocess.ReadGrayImageFile(file)

		if err != nil {
			log.Printf("Error reading %s: %v\n", file, err)
			continue
		}

		if h != height || w != width {
			pixels, err = preprocess.ResizeGrayImage(pixels, h, w, height, width)

			if err != nil {
				log.Printf("Error resizing %s: %v\n", file, err)
				continue
			}
		}

		// scale pixel values to 0-1 floats for the input tensor
		input := make([]float32, len(pixels))

		for i, p := range pixels {
			input[i] = float32(p) / 255.0
		}

		if err := batch.AddAt(idx, input); err != nil {
			log.Printf("Batch.AddAt error: %v\n", err)
		}
	}

	// run inference on the entire batch at once
	start := time.Now()
	outputs, err := rt.Inference([][]float32{batch.Input()})
	spent := time.Since(start)

	if err != nil {
		log.Printf("Inference error: %v\n", err)
		return
	}

	defer outputs.Free()

	// number of output elements per image, the leading output dimension
	// is the batch size
	n := int(outputs.Output[0].Dims[0])

	if n <= 0 {
		log.Printf("Output dims %v have no batch dimension\n", outputs.Output[0].Dims)
		return
	}

	perImg := outputs.Output[0].Size / n

	// unpack per image results
	for idx := 0; idx < len(paths); idx++ {

		if quiet {
			continue
		}

		raw, err := batch.GetOutputF32(idx, outputs.Output[0], perImg)

		if err != nil {
			log.Printf("GetOutputF32[%d] error: %v\n", idx, err)
			continue
		}

		// copy the raw scores before normalizing, the slice points into
		// engine owned memory shared by the whole batch
		scores := make([]float32, len(raw))
		copy(scores, raw)

		if err := postprocess.Softmax(scores); err != nil {
			log.Printf("Softmax[%d] error: %v\n", idx, err)
			continue
		}

		best, err := postprocess.Argmax(scores)

		if err != nil {
			log.Printf("Argmax[%d] error: %v\n", idx, err)
			continue
		}

		log.Printf("%dms - File[%s] is %3d: %8.6f\n", spent.Milliseconds(),
			paths[idx], best, scores[best])
	}
}
