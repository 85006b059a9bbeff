/*
Example code showing how to process a directory of images across a pool of
runtimes.
*/
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/SheldonWu/onnxruntime"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	modelFile := flag.String("m", "../data/mnist.onnx", "ONNX model file")
	imgDir := flag.String("d", "../data/digits/", "A directory of images to run inference on")
	poolSize := flag.Int("s", 2, "Size of runtime pool")
	libPath := flag.String("lib", "", "ONNX Runtime shared library file")
	repeat := flag.Int("r", 1, "Repeat processing image directory the specified number of times, use this if you don't have enough images")

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

	// model input dimensions are shared by every runtime in the pool
	rt := pool.Get()
	ia := rt.InputAttributes()

	if ia.Channel != 1 {
		log.Fatalf("Model input dims are %v, this example wants a grayscale "+
			"[1,1,H,W] model such as mnist", rt.InputAttrs()[0].Dims)
	}

	inH := ia.Height
	inW := ia.Width
	pool.Return(rt)

	// get list of all files in the directory
	files, err := os.ReadDir(*imgDir)

	if err != nil {
		log.Fatalf("Error reading image directory: %v\n", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		latencies []float64
	)

	start := time.Now()

	// repeat processing the specified number of times to increase the number
	// of images processed
	for i := 0; i < *repeat; i++ {
		// process each image
		for _, file := range files {
			// skip directories
			if file.IsDir() {
				continue
			}

			// pool.Get() blocks if no runtimes are available in the pool
			rt := pool.Get()
			wg.Add(1)

			go func(pool *onnxruntime.Pool, rt *onnxruntime.Runtime, file os.DirEntry) {
				defer wg.Done()

				ms, err := processFile(rt, filepath.Join(*imgDir, file.Name()), inH, inW)
				pool.Return(rt)

				if err != nil {
					log.Printf("Error processing %s: %v\n", file.Name(), err)
					return
				}

				mu.Lock()
				latencies = append(latencies, ms)
				mu.Unlock()
			}(pool, rt, file)
		}
	}

	wg.Wait()

	log.Printf("Completed %d images in %s\n", len(latencies),
		time.Since(start).String())

	summarize(latencies)

	pool.Close()
}

// processFile classifies a single image file and returns the inference
// latency in milliseconds
func processFile(rt *onnxruntime.Runtime, file string, inH, inW int) (float64, error) {

	// load image
	img := gocv.IMRead(file, gocv.IMReadGrayScale)

	if img.Empty() {
		return 0, fmt.Errorf("error reading image from: %s", file)
	}

	// resize image to the input tensor size
	cropImg := img.Clone()
	gocv.Resize(img, &cropImg, image.Pt(inW, inH), 0, 0, gocv.InterpolationArea)

	defer img.Close()
	defer cropImg.Close()

	pixels, err := cropImg.DataPtrUint8()

	if err != nil {
		return 0, fmt.Errorf("error getting data pointer to Mat: %w", err)
	}

	// scale pixel values to 0-1 floats for the input tensor
	input := make([]float32, len(pixels))

	for i, p := range pixels {
		input[i] = float32(p) / 255.0
	}

	start := time.Now()

	// perform inference on image file
	outputs, err := rt.Inference([][]float32{input})

	exe := time.Since(start)

	if err != nil {
		return 0, fmt.Errorf("runtime inferencing failed with error: %w", err)
	}

	for _, next := range onnxruntime.GetTop5(outputs.Output) {
		log.Printf("%dms - File[%s] is %3d: %8.6f\n", exe.Milliseconds(),
			file, next.LabelIndex, next.Probability)
		break
	}

	// free outputs allocated by the runtime after post processing
	err = outputs.Free()

	if err != nil {
		return 0, fmt.Errorf("error freeing Outputs: %w", err)
	}

	return float64(exe.Microseconds()) / 1000.0, nil
}

// summarize prints latency statistics over all processed images
func summarize(latencies []float64) {

	if len(latencies) == 0 {
		return
	}

	sort.Float64s(latencies)

	mean := stat.Mean(latencies, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, latencies, nil)

	stddev := 0.0

	if len(latencies) > 1 {
		stddev = stat.StdDev(latencies, nil)
	}

	log.Printf("Latency: mean=%.2fms, stddev=%.2fms, p95=%.2fms\n",
		mean, stddev, p95)
}
