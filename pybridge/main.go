// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"math/rand"
	"sync"
	"unsafe"

	"github.com/StoyanTc/half-space-trees/hst"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	forests           = make(map[uint64]*hst.HalfSpaceForest)

	lastErrorMu sync.Mutex
	lastError   string
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeForest(f *hst.HalfSpaceForest) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	forests[handle] = f
	nextHandle++
	return handle
}

func fetchForest(handle uint64) (*hst.HalfSpaceForest, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	forest, ok := forests[handle]
	if !ok {
		return nil, errors.New("invalid forest handle")
	}
	return forest, nil
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

func buildBounds(ptr *C.double, dims int) (hst.Bounds, error) {
	flat, err := copyFloatSlice(ptr, 2*dims)
	if err != nil {
		return nil, err
	}
	bounds := make(hst.Bounds, dims)
	for ind := 0; ind < dims; ind++ {
		bounds[ind] = hst.Bound{Low: flat[2*ind], High: flat[2*ind+1]}
	}
	return bounds, nil
}

//export FreeForest
func FreeForest(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(forests, uint64(handle))
}

//export NewForest
func NewForest(
	boundsPtr *C.double,
	dims C.int,
	numTrees C.int,
	maxDepth C.int,
	seed C.longlong,
) C.ulonglong {
	setLastError(nil)

	bounds, err := buildBounds(boundsPtr, int(dims))
	if err != nil {
		setLastError(err)
		return 0
	}

	forest, err := hst.NewHalfSpaceForest(hst.ForestParams{
		NumTrees: int(numTrees),
		MaxDepth: int(maxDepth),
		Bounds:   bounds,
		Rand:     rand.New(rand.NewSource(int64(seed))),
	})
	if err != nil {
		setLastError(err)
		return 0
	}

	return C.ulonglong(storeForest(forest))
}

//export InsertForest
func InsertForest(handle C.ulonglong, xPtr *C.double, dims C.int) C.int {
	setLastError(nil)

	forest, err := fetchForest(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	x, err := copyFloatSlice(xPtr, int(dims))
	if err != nil {
		setLastError(err)
		return 2
	}

	if err := forest.Insert(x); err != nil {
		setLastError(err)
		return 3
	}
	return 0
}

//export DecayForest
func DecayForest(handle C.ulonglong, alpha C.double) C.int {
	setLastError(nil)

	forest, err := fetchForest(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	if err := forest.Decay(float64(alpha)); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export ScoreForest
func ScoreForest(handle C.ulonglong, xPtr *C.double, dims C.int, out *C.double) C.int {
	setLastError(nil)

	if out == nil {
		setLastError(errors.New("null output pointer"))
		return 1
	}

	forest, err := fetchForest(uint64(handle))
	if err != nil {
		setLastError(err)
		return 2
	}

	x, err := copyFloatSlice(xPtr, int(dims))
	if err != nil {
		setLastError(err)
		return 3
	}

	value, err := forest.Score(x)
	if err != nil {
		setLastError(err)
		return 4
	}

	*out = C.double(value)
	return 0
}

//export LastErrorMessage
func LastErrorMessage() *C.char {
	return C.CString(getLastError())
}

//export FreeCString
func FreeCString(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func main() {}
