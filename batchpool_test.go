package onnxruntime

import (
	"errors"
	"testing"
)

func TestNewBatchPool(t *testing.T) {

	rt := &Runtime{
		inputAttrs: []TensorAttr{
			{NDims: 4, Dims: []int64{-1, 1, 4, 4}, Fmt: TensorNCHW},
		},
	}

	pool, err := NewBatchPool(2, 3, rt)

	if err != nil {
		t.Fatalf("NewBatchPool failed: %v", err)
	}

	defer pool.Close()

	batch := pool.Get()

	if batch == nil {
		t.Fatal("Get returned nil batch")
	}

	// batches are sized from the input tensor, a 1x4x4 image is 16 elements
	if err := batch.Add(make([]float32, 16)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if got := len(batch.Input()); got != 3*16 {
		t.Errorf("batch buffer has %d elements; want %d", got, 3*16)
	}

	// batches come back cleared ready for reuse
	pool.Return(batch)

	batch = pool.Get()

	if batch.Len() != 0 {
		t.Errorf("returned batch has %d images; want 0", batch.Len())
	}
}

func TestNewBatchPoolRejectsNonImageInput(t *testing.T) {

	// a flattened classifier input such as [1,784] has no C,H,W dimensions
	// to size batches from
	rt := &Runtime{
		inputAttrs: []TensorAttr{
			{NDims: 2, Dims: []int64{1, 784}},
		},
	}

	pool, err := NewBatchPool(1, 8, rt)

	if err == nil {
		t.Fatal("expected error for a 2 dimensional input tensor")
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v; want ErrInvalidInput", err)
	}

	if pool != nil {
		t.Errorf("pool = %+v; want nil on error", pool)
	}
}

func TestBatchPoolClose(t *testing.T) {

	rt := &Runtime{
		inputAttrs: []TensorAttr{
			{NDims: 4, Dims: []int64{1, 3, 2, 2}, Fmt: TensorNCHW},
		},
	}

	pool, err := NewBatchPool(1, 2, rt)

	if err != nil {
		t.Fatalf("NewBatchPool failed: %v", err)
	}

	pool.Close()

	// close is safe to call more than once
	pool.Close()

	if batch := pool.Get(); batch != nil {
		t.Errorf("Get after Close = %+v; want nil", batch)
	}
}
