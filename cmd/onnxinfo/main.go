/*
Onnxinfo prints the input and output tensor information of ONNX model
files.
*/
package main

import (
	"fmt"
	"os"

	"github.com/SheldonWu/onnxruntime"
	"github.com/spf13/cobra"
)

var libPath string

var rootCmd = &cobra.Command{
	Use:   "onnxinfo <model file> [model file...]",
	Short: "Print the input and output tensors of ONNX model files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.Flags().StringVar(&libPath, "lib", "",
		"ONNX Runtime shared library file")
}

func runInfo(cmd *cobra.Command, args []string) error {

	if libPath != "" {
		onnxruntime.SetLibraryPath(libPath)
	}

	for i, modelFile := range args {

		if i > 0 {
			fmt.Println()
		}

		rt, err := onnxruntime.NewRuntime(modelFile)

		if err != nil {
			return fmt.Errorf("loading %s: %w", modelFile, err)
		}

		rt.Query(os.Stdout)

		if err := rt.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", modelFile, err)
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
