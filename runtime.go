package onnxruntime

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// The ONNX Runtime environment is shared by every Runtime in the process.
// It is initialized when the first Runtime opens and destroyed when the
// last one closes.
var (
	envMu   sync.Mutex
	envRefs int
)

// SetLibraryPath sets the location of the ONNX Runtime shared library,
// eg: /usr/lib/libonnxruntime.so.  It must be called before the first
// Runtime is created.
func SetLibraryPath(path string) {
	ort.SetSharedLibraryPath(path)
}

// acquireEnvironment initializes the shared engine environment on first use
func acquireEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()

	if envRefs == 0 {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("error initializing onnxruntime environment: %w", err)
		}
	}

	envRefs++
	return nil
}

// releaseEnvironment destroys the shared engine environment once the last
// Runtime holding it has closed
func releaseEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()

	if envRefs == 0 {
		return nil
	}

	envRefs--

	if envRefs == 0 {
		if err := ort.DestroyEnvironment(); err != nil {
			return fmt.Errorf("error destroying onnxruntime environment: %w", err)
		}
	}

	return nil
}

// Options configure the inference session a Runtime runs the model on.
// The zero value leaves all settings at the engine defaults
type Options struct {
	// IntraOpThreads is the number of threads used to parallelize execution
	// within graph nodes.  Zero uses the engine default
	IntraOpThreads int
	// InterOpThreads is the number of threads used to execute independent
	// graph nodes in parallel.  Zero uses the engine default
	InterOpThreads int
	// DisableCPUMemArena turns off the CPU memory arena
	DisableCPUMemArena bool
	// DisableMemPattern turns off memory pattern optimization
	DisableMemPattern bool
}

// Runtime defines the ONNX run time instance used for running inference on
// a single loaded model
type Runtime struct {
	// modelFile is the path of the loaded model
	modelFile string
	// session is the inference session the model is loaded into
	session *ort.DynamicAdvancedSession
	// ioNum caches the IONumber of Model Input/Output tensors
	ioNum IONumber
	// inputAttrs caches the Input Tensor Attributes of the Model
	inputAttrs []TensorAttr
	// outputAttrs caches the Output Tensor Attributes of the Model
	outputAttrs []TensorAttr
	// inputNames and outputNames cache the tensor names in model order
	inputNames  []string
	outputNames []string
}

// NewRuntime returns an ONNX run time instance.  Provide the full path and
// filename of the ONNX model file to run.
func NewRuntime(modelFile string) (*Runtime, error) {
	return NewRuntimeWithOptions(modelFile, Options{})
}

// NewRuntimeWithOptions returns an ONNX run time instance with the given
// session options applied
func NewRuntimeWithOptions(modelFile string, opts Options) (*Runtime, error) {

	r := &Runtime{
		modelFile: modelFile,
	}

	err := r.init(modelFile, opts)

	if err != nil {
		return nil, err
	}

	return r, nil
}

// init loads the model into a new inference session, discovering and caching
// the model's input and output tensor attributes
func (r *Runtime) init(modelFile string, opts Options) error {

	// check file exists before passing to the engine
	info, err := os.Stat(modelFile)

	if err != nil {
		return fmt.Errorf("model file does not exist at %s, error: %w",
			modelFile, err)
	}

	if info.IsDir() {
		return fmt.Errorf("model file is a directory")
	}

	err = acquireEnvironment()

	if err != nil {
		return err
	}

	// discover input and output tensors, the model's own tensor names are
	// used for the session so nothing is hardcoded per model
	inputs, outputs, err := ort.GetInputOutputInfo(modelFile)

	if err != nil {
		releaseEnvironment()
		return fmt.Errorf("error reading model tensor info: %w", err)
	}

	if len(inputs) == 0 || len(outputs) == 0 {
		releaseEnvironment()
		return fmt.Errorf("model has %d inputs and %d outputs, expected at least 1 of each",
			len(inputs), len(outputs))
	}

	r.ioNum = IONumber{
		NumberInput:  len(inputs),
		NumberOutput: len(outputs),
	}

	r.inputAttrs = make([]TensorAttr, len(inputs))
	r.inputNames = make([]string, len(inputs))

	for i, in := range inputs {
		r.inputAttrs[i] = convertTensorInfo(i, in)
		r.inputNames[i] = in.Name
	}

	r.outputAttrs = make([]TensorAttr, len(outputs))
	r.outputNames = make([]string, len(outputs))

	for i, out := range outputs {
		r.outputAttrs[i] = convertTensorInfo(i, out)
		r.outputNames[i] = out.Name
	}

	sessOpts, err := newSessionOptions(opts)

	if err != nil {
		releaseEnvironment()
		return err
	}

	if sessOpts != nil {
		defer sessOpts.Destroy()
	}

	r.session, err = ort.NewDynamicAdvancedSession(modelFile, r.inputNames,
		r.outputNames, sessOpts)

	if err != nil {
		releaseEnvironment()
		return fmt.Errorf("error creating session: %w", err)
	}

	return nil
}

// newSessionOptions builds the engine session options.  A nil result means
// the engine defaults are used
func newSessionOptions(opts Options) (*ort.SessionOptions, error) {

	if opts == (Options{}) {
		return nil, nil
	}

	o, err := ort.NewSessionOptions()

	if err != nil {
		return nil, fmt.Errorf("error creating session options: %w", err)
	}

	if opts.IntraOpThreads > 0 {
		if err := o.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			o.Destroy()
			return nil, fmt.Errorf("error setting intra op threads: %w", err)
		}
	}

	if opts.InterOpThreads > 0 {
		if err := o.SetInterOpNumThreads(opts.InterOpThreads); err != nil {
			o.Destroy()
			return nil, fmt.Errorf("error setting inter op threads: %w", err)
		}
	}

	if opts.DisableCPUMemArena {
		if err := o.SetCpuMemArena(false); err != nil {
			o.Destroy()
			return nil, fmt.Errorf("error disabling cpu mem arena: %w", err)
		}
	}

	if opts.DisableMemPattern {
		if err := o.SetMemPattern(false); err != nil {
			o.Destroy()
			return nil, fmt.Errorf("error disabling mem pattern: %w", err)
		}
	}

	return o, nil
}

// Close destroys the inference session and releases the shared engine
// environment once no other Runtime is using it
func (r *Runtime) Close() error {

	if r.session != nil {
		err := r.session.Destroy()
		r.session = nil

		if err != nil {
			releaseEnvironment()
			return fmt.Errorf("error destroying session: %w", err)
		}
	}

	return releaseEnvironment()
}

// InputAttrs returns the loaded model's input tensor attributes
func (r *Runtime) InputAttrs() []TensorAttr {
	return r.inputAttrs
}

// OutputAttrs returns the loaded model's output tensor attributes
func (r *Runtime) OutputAttrs() []TensorAttr {
	return r.outputAttrs
}
