package onnxruntime

import (
	"fmt"
	"sync"
)

// BatchPool is a pool of batches
type BatchPool struct {
	// pool of batches
	batches chan *Batch
	// size of pool
	size  int
	close sync.Once
}

// NewBatchPool returns a pool of Batches sized to the runtime's input
// tensor.  Models with a dynamic batch dimension don't carry the batch
// size so it is given explicitly.  An error is returned when the model
// input is not a 4 dimensional image tensor, there are no C,H,W dimensions
// to size batches from
func NewBatchPool(size, batchSize int, rt *Runtime) (*BatchPool, error) {

	attrs := rt.InputAttrs()

	if len(attrs) == 0 || attrs[0].NDims != 4 {
		return nil, fmt.Errorf("%w: model input is not a 4 dimensional image tensor",
			ErrInvalidInput)
	}

	ia := rt.InputAttributes()

	p := &BatchPool{
		batches: make(chan *Batch, size),
		size:    size,
	}

	// create batch pool to be the same size as the runtime pool
	for i := 0; i < size; i++ {
		p.Return(NewBatch(batchSize, ia.Channel, ia.Height, ia.Width))
	}

	return p, nil
}

// Get a batch from the pool
func (p *BatchPool) Get() *Batch {
	return <-p.batches
}

// Return a batch to the pool
func (p *BatchPool) Return(batch *Batch) {

	batch.Clear()

	select {
	case p.batches <- batch:
	default:
		// pool is full or closed
	}
}

// Close the pool and discard the batches in it
func (p *BatchPool) Close() {
	p.close.Do(func() {
		// close channel
		close(p.batches)

		// drain remaining batches
		for range p.batches {
		}
	})
}
