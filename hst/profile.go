package hst

import (
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//PathProfile records the mass seen along every traversal path of a batch: the
//result has shape (rows of m, trees, MaxDepth+1), and entry (p, t, d) is the
//mass of the node at depth d on the path of row p through tree t. Slicing the
//depth axis shows how quickly mass thins out toward the leaves, which is the
//raw material of every score.
func (f *HalfSpaceForest) PathProfile(m *mat.Dense) (*tensor.Dense, error) {
	h, w := m.Dims()
	if w != len(f.Bounds) {
		return nil, &DimensionError{Want: len(f.Bounds), Got: w}
	}

	depthLen := f.MaxDepth + 1
	profile := tensor.New(tensor.WithShape(h, len(f.Trees), depthLen), tensor.Of(tensor.Float64))

	x := make([]float64, w)
	path := make([]float64, depthLen)
	for p := 0; p < h; p++ {
		mat.Row(x, p, m)
		for treeInd, currentTree := range f.Trees {
			currentTree.pathMasses(x, path)
			for d := 0; d < depthLen; d++ {
				if err := profile.SetAt(path[d], p, treeInd, d); err != nil {
					return nil, err
				}
			}
		}
	}

	return profile, nil
}

//FlattenProfile reshapes a path profile into a matrix with one row per
//observation and tree-major columns, a form npy files can carry.
func FlattenProfile(profile *tensor.Dense) (*mat.Dense, error) {
	shape := profile.Shape()
	if len(shape) != 3 {
		return nil, &ConfigError{Reason: "path profile tensor must have rank 3"}
	}

	h, n, depthLen := shape[0], shape[1], shape[2]
	flat := mat.NewDense(h, n*depthLen, nil)
	for p := 0; p < h; p++ {
		for t := 0; t < n; t++ {
			for d := 0; d < depthLen; d++ {
				element, err := profile.At(p, t, d)
				if err != nil {
					return nil, err
				}
				flat.Set(p, t*depthLen+d, element.(float64))
			}
		}
	}
	return flat, nil
}
