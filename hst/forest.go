package hst

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//ForestParams collects the arguments required to construct a forest.
type ForestParams struct {
	NumTrees int
	MaxDepth int
	Bounds   Bounds
	Rand     Rand
}

//HalfSpaceForest is an ensemble of independently randomized half-space trees
//sharing one envelope and one maximum depth. Scores are averaged across the
//trees to damp the variance of any single random partition.
type HalfSpaceForest struct {
	Trees    []*HalfSpaceTree `json:"trees"`
	Bounds   Bounds           `json:"bounds"`
	MaxDepth int              `json:"max_depth"`
}

//NewHalfSpaceForest builds params.NumTrees trees over the same bounds, each
//consuming its own draws from params.Rand. Trees are built in index order so
//a seeded source reproduces every topology. On any error no forest is
//returned.
func NewHalfSpaceForest(params ForestParams) (*HalfSpaceForest, error) {
	if params.NumTrees <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("number of trees %d is not positive", params.NumTrees)}
	}

	trees := make([]*HalfSpaceTree, params.NumTrees)
	for ind := range trees {
		tree, err := NewHalfSpaceTree(params.MaxDepth, params.Bounds, params.Rand)
		if err != nil {
			return nil, err
		}
		trees[ind] = tree
	}

	return &HalfSpaceForest{
		Trees:    trees,
		Bounds:   params.Bounds,
		MaxDepth: params.MaxDepth,
	}, nil
}

//Insert forwards x to every tree. Validation happens once, before any tree is
//touched, so a rejected vector mutates nothing anywhere.
func (f *HalfSpaceForest) Insert(x []float64) error {
	if err := f.Bounds.checkVector(x); err != nil {
		return err
	}
	f.insertRow(x)
	return nil
}

//Decay forwards the decay factor to every tree, with the same
//validate-once-then-dispatch policy as Insert.
func (f *HalfSpaceForest) Decay(alpha float64) error {
	if err := checkAlpha(alpha); err != nil {
		return err
	}
	f.decayAll(alpha)
	return nil
}

//Score returns the arithmetic mean of the per-tree scores of x. On success
//nothing is mutated anywhere; the call is a pure read.
func (f *HalfSpaceForest) Score(x []float64) (float64, error) {
	if err := f.Bounds.checkVector(x); err != nil {
		return 0, err
	}
	return f.scoreRow(x), nil
}

//insertRow feeds one already validated observation into every tree.
func (f *HalfSpaceForest) insertRow(x []float64) {
	for _, tree := range f.Trees {
		tree.Root.insert(x)
	}
}

//decayAll applies one already validated decay factor to every tree.
func (f *HalfSpaceForest) decayAll(alpha float64) {
	for _, tree := range f.Trees {
		tree.Root.decay(alpha)
	}
}

//scoreRow averages the per-tree scores of one already validated observation.
func (f *HalfSpaceForest) scoreRow(x []float64) float64 {
	total := 0.0
	for _, tree := range f.Trees {
		total += leafScore(tree.Root.descend(x))
	}
	return total / float64(len(f.Trees))
}

//InsertBatch feeds every row of m into the forest in row order. The batch is
//validated as a whole before any row is inserted.
func (f *HalfSpaceForest) InsertBatch(m *mat.Dense) error {
	h, w := m.Dims()
	if w != len(f.Bounds) {
		return &DimensionError{Want: len(f.Bounds), Got: w}
	}

	x := make([]float64, w)
	for p := 0; p < h; p++ {
		mat.Row(x, p, m)
		f.insertRow(x)
	}
	return nil
}

//ScoreBatch scores every row of m and returns an h-by-1 matrix of forest
//scores. With threadsNum > 1 the rows are split across a task pool; scoring
//mutates nothing, so the workers share the trees safely.
func (f *HalfSpaceForest) ScoreBatch(m *mat.Dense, threadsNum int) (*mat.Dense, error) {
	h, w := m.Dims()
	if w != len(f.Bounds) {
		return nil, &DimensionError{Want: len(f.Bounds), Got: w}
	}

	scores := mat.NewDense(h, 1, nil)
	if threadsNum <= 1 {
		scoreRows(f, m, scores, 0, h)
		return scores, nil
	}

	taskPool := NewPool(threadsNum)
	chunk := (h + threadsNum - 1) / threadsNum
	for begin := 0; begin < h; begin += chunk {
		end := begin + chunk
		if end > h {
			end = h
		}
		taskPool.AddTask(&TaskScoreRows{forest: f, data: m, dst: scores, begin: begin, end: end})
	}
	taskPool.Close()
	taskPool.WaitAll()

	return scores, nil
}

//scoreRows scores rows [begin, end) of m into the matching rows of dst.
func scoreRows(f *HalfSpaceForest, m, dst *mat.Dense, begin, end int) {
	x := make([]float64, len(f.Bounds))
	for p := begin; p < end; p++ {
		mat.Row(x, p, m)
		dst.Set(p, 0, f.scoreRow(x))
	}
}
