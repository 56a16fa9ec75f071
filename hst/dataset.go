package hst

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//StreamMatrix is a recorded observation stream: one row per observation, one
//column per bounded dimension, in arrival order.
type StreamMatrix struct {
	Features    *mat.Dense
	Description *string
}

//SetDescription labels the stream for log messages.
func (sm *StreamMatrix) SetDescription(description string) {
	sm.Description = &description
}

//ReadStreamMatrix loads a recorded stream from a npy file.
func ReadStreamMatrix(fileName string) (sm StreamMatrix, err error) {
	log.Print("\ttry to load stream <", fileName, ">")
	sm.Features, err = ReadNpy(fileName)
	return
}

//ReadNpy reads the content of a npy file into a dense matrix.
func ReadNpy(fileName string) (*mat.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read npy header of %s", fileName)
	}

	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, errors.Wrapf(err, "read npy data of %s", fileName)
	}
	return denseMat, nil
}

//WriteNpy writes a dense matrix into a npy file.
func WriteNpy(fileName string, m *mat.Dense) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %s", fileName)
	}
	defer func() { HandleError(dst.Close()) }()

	return errors.Wrapf(npyio.Write(dst, m), "write npy data of %s", fileName)
}

//Replay feeds the rows of the stream into the forest in arrival order,
//calling Decay(alpha) every decayEvery rows, starting with the first one.
//decayEvery <= 0 disables decay and leaves alpha unexamined. The whole stream
//is validated before the first row is inserted. Returns the number of rows
//fed in.
func (sm StreamMatrix) Replay(forest *HalfSpaceForest, alpha float64, decayEvery int) (int, error) {
	h, w := sm.Features.Dims()
	if w != len(forest.Bounds) {
		return 0, &DimensionError{Want: len(forest.Bounds), Got: w}
	}
	if decayEvery > 0 {
		if err := checkAlpha(alpha); err != nil {
			return 0, err
		}
	}

	x := make([]float64, w)
	for p := 0; p < h; p++ {
		mat.Row(x, p, sm.Features)
		forest.insertRow(x)
		if decayEvery > 0 && p%decayEvery == 0 {
			forest.decayAll(alpha)
		}
	}
	return h, nil
}
