/*
onnxruntime provides a Go wrapper around the ONNX Runtime inference engine
for running image models such as the MNIST digit classifier and the
FNS-Candy style transfer network.  It aims to keep the amount of ceremony
needed to load a model and run a tensor through it as small as possible.

The wrapper loads the ONNX Runtime shared library through the
github.com/yalue/onnxruntime_go bindings, so the library must be installed
on the host and its location given with SetLibraryPath() before creating
the first Runtime.

Tensor layout helpers for converting between interleaved (HWC) image bytes
and the planar (CHW) float buffers the models consume live in this package,
with post processing for classification and style transfer models in the
postprocess subdirectory.

See example code and usage in the example subdirectory.
*/
package onnxruntime
