package onnxruntime

import (
	"testing"
)

func TestBatchAddAndOverflow(t *testing.T) {

	batch := NewBatch(2, 1, 2, 3)

	// images with known data
	img1 := []float32{1, 2, 3, 4, 5, 6}
	img2 := []float32{10, 20, 30, 40, 50, 60}

	// Add two images
	if err := batch.Add(img1); err != nil {
		t.Fatalf("Add(img1) failed: %v", err)
	}

	if err := batch.Add(img2); err != nil {
		t.Fatalf("Add(img2) failed: %v", err)
	}

	if batch.Len() != 2 {
		t.Errorf("Len() = %d; want 2", batch.Len())
	}

	// underlying buffer should contain both
	allData := batch.Input()

	if len(allData) != 12 {
		t.Fatalf("len(Input()) = %d; want 12", len(allData))
	}

	// first 6 from img1, next 6 from img2
	for i := 0; i < 6; i++ {
		if allData[i] != img1[i] {
			t.Errorf("element %d = %f; want %f from img1", i, allData[i], img1[i])
		}
	}

	for i := 0; i < 6; i++ {
		if allData[6+i] != img2[i] {
			t.Errorf("element %d = %f; want %f from img2", 6+i, allData[6+i], img2[i])
		}
	}

	// third Add should overflow
	err := batch.Add(img1)

	if err == nil {
		t.Fatal("expected overflow error on third Add, got nil")
	}
}

func TestBatchAddAtAndClear(t *testing.T) {

	batch := NewBatch(3, 1, 2, 2)

	img := []float32{5, 6, 7, 8}

	// AddAt index 1
	if err := batch.AddAt(1, img); err != nil {
		t.Fatalf("AddAt failed: %v", err)
	}

	// imgCnt should still be zero
	if batch.imgCnt != 0 {
		t.Errorf("imgCnt = %d; want 0 after AddAt", batch.imgCnt)
	}

	if batch.Input()[4] != 5 {
		t.Errorf("element 4 = %f; want 5 from AddAt(1)", batch.Input()[4])
	}

	// Clear resets imgCnt
	if err := batch.Add(img); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	batch.Clear()

	if batch.imgCnt != 0 {
		t.Errorf("imgCnt = %d; want 0 after Clear", batch.imgCnt)
	}

	// Add at invalid index
	err := batch.AddAt(5, img)

	if err == nil {
		t.Error("expected error for AddAt out of range, got nil")
	}

	// image not matching the batch shape
	err = batch.Add([]float32{1, 2})

	if err == nil {
		t.Error("expected error for wrong image size, got nil")
	}
}

func TestGetOutputF32(t *testing.T) {

	batch := NewBatch(2, 1, 2, 2)

	dOut := Output{BufFloat: []float32{1, 2, 3, 4}, Size: 4}

	if _, err := batch.GetOutputF32(-1, dOut, 2); err == nil {
		t.Error("expected error for GetOutputF32 idx<0")
	}

	if _, err := batch.GetOutputF32(2, dOut, 2); err == nil {
		t.Error("expected error for GetOutputF32 idx>=size")
	}

	// valid slice
	slice, err := batch.GetOutputF32(1, dOut, 2)

	if err != nil {
		t.Errorf("GetOutputF32 failed: %v", err)
	}

	if len(slice) != 2 {
		t.Fatalf("len(slice) = %d; want 2", len(slice))
	}

	if slice[0] != 3 || slice[1] != 4 {
		t.Errorf("slice = %v; want [3 4]", slice)
	}

	// per image size larger than the output buffer
	if _, err := batch.GetOutputF32(1, dOut, 3); err == nil {
		t.Error("expected error for size beyond output buffer")
	}
}
