package onnxruntime

import "errors"

// ErrInvalidInput is returned when a caller passes data whose length or
// dimensions do not match what an operation requires.  Errors returned by
// this package wrap it so callers can test with errors.Is().
var ErrInvalidInput = errors.New("invalid input")
