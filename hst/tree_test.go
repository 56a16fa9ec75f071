package hst

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func unitBounds(dims int) Bounds {
	bounds := make(Bounds, dims)
	for ind := range bounds {
		bounds[ind] = Bound{Low: 0, High: 1}
	}
	return bounds
}

func collectNodes(root *Node) []*Node {
	nodes := []*Node{root}
	if root.Left != nil {
		nodes = append(nodes, collectNodes(root.Left)...)
	}
	if root.Right != nil {
		nodes = append(nodes, collectNodes(root.Right)...)
	}
	return nodes
}

func treeMass(t *HalfSpaceTree) float64 {
	total := 0.0
	for _, node := range collectNodes(t.Root) {
		total += node.Mass
	}
	return total
}

func checkSubspace(t *testing.T, node *Node, bounds Bounds) {
	if node.IsLeaf() {
		return
	}
	if node.Left == nil || node.Right == nil {
		t.Fatalf("internal node at depth %d misses a child", node.Depth)
	}
	b := bounds[node.SplitDim]
	if node.SplitVal < b.Low || node.SplitVal >= b.High {
		t.Fatalf("threshold %g at depth %d escapes its subspace range [%g, %g)", node.SplitVal, node.Depth, b.Low, b.High)
	}

	narrowed := make(Bounds, len(bounds))
	copy(narrowed, bounds)

	narrowed[node.SplitDim] = Bound{Low: b.Low, High: node.SplitVal}
	checkSubspace(t, node.Left, narrowed)

	narrowed[node.SplitDim] = Bound{Low: node.SplitVal, High: b.High}
	checkSubspace(t, node.Right, narrowed)
}

func TestTreeTopology(t *testing.T) {
	maxDepth := 5
	bounds := unitBounds(3)
	tree, err := NewHalfSpaceTree(maxDepth, bounds, rand.New(rand.NewSource(17)))
	if err != nil {
		t.Fatal(err)
	}

	leaves := 0
	for _, node := range collectNodes(tree.Root) {
		if node.Depth > maxDepth {
			t.Fatalf("node beyond max depth: %d", node.Depth)
		}
		if node.Mass != 0 {
			t.Fatalf("fresh node carries mass %g", node.Mass)
		}
		if node.IsLeaf() {
			if node.Depth != maxDepth {
				t.Fatalf("leaf at depth %d, want %d", node.Depth, maxDepth)
			}
			leaves++
		}
	}
	if want := 1 << maxDepth; leaves != want {
		t.Fatalf("expected %d leaves, got %d", want, leaves)
	}

	checkSubspace(t, tree.Root, bounds)
}

func sameTopology(a, b *Node) bool {
	if a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.Depth != b.Depth {
		return false
	}
	if a.IsLeaf() {
		return true
	}
	if a.SplitDim != b.SplitDim || a.SplitVal != b.SplitVal {
		return false
	}
	return sameTopology(a.Left, b.Left) && sameTopology(a.Right, b.Right)
}

func TestTreeDeterminism(t *testing.T) {
	bounds := unitBounds(4)
	first, err := NewHalfSpaceTree(6, bounds, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewHalfSpaceTree(6, bounds, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}
	if !sameTopology(first.Root, second.Root) {
		t.Fatal("same seed produced different topologies")
	}
}

func TestTreeConstructionErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NewHalfSpaceTree(3, nil, rng); err == nil {
		t.Error("empty bounds accepted")
	}
	if _, err := NewHalfSpaceTree(3, Bounds{{Low: 1, High: 1}}, rng); err == nil {
		t.Error("degenerate range accepted")
	}
	if _, err := NewHalfSpaceTree(3, Bounds{{Low: 2, High: 1}}, rng); err == nil {
		t.Error("inverted range accepted")
	}
	if _, err := NewHalfSpaceTree(-1, unitBounds(2), rng); err == nil {
		t.Error("negative max depth accepted")
	}
	if _, err := NewHalfSpaceTree(3, unitBounds(2), nil); err == nil {
		t.Error("nil random source accepted")
	}

	_, err := NewHalfSpaceTree(3, nil, rng)
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("expected a ConfigError, got %v", err)
	}
}

func TestInsertMassPath(t *testing.T) {
	maxDepth := 3
	tree, err := NewHalfSpaceTree(maxDepth, unitBounds(2), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}

	if err := tree.Insert([]float64{0.3, 0.7}); err != nil {
		t.Fatal(err)
	}

	// One unit of mass lands on exactly one node per depth level.
	perDepth := make([]float64, maxDepth+1)
	for _, node := range collectNodes(tree.Root) {
		perDepth[node.Depth] += node.Mass
	}
	for depth, mass := range perDepth {
		if mass != 1 {
			t.Errorf("depth %d accumulated mass %g, want 1", depth, mass)
		}
	}
	if tree.Root.Mass != 1 {
		t.Errorf("root mass %g, want 1", tree.Root.Mass)
	}
}

func TestInsertDimensionMismatch(t *testing.T) {
	tree, err := NewHalfSpaceTree(4, unitBounds(3), rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Insert([]float64{0.5, 0.5, 0.5}); err != nil {
		t.Fatal(err)
	}
	before := treeMass(tree)

	err = tree.Insert([]float64{0.5, 0.5})
	var dimErr *DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected a DimensionError, got %v", err)
	}
	if dimErr.Want != 3 || dimErr.Got != 2 {
		t.Errorf("unexpected mismatch report: want %d, got %d", dimErr.Want, dimErr.Got)
	}
	if after := treeMass(tree); after != before {
		t.Errorf("rejected insert changed total mass from %g to %g", before, after)
	}

	if _, err := tree.Score([]float64{0.5}); err == nil {
		t.Error("score accepted a mismatched vector")
	}
}

func TestDecayRange(t *testing.T) {
	tree, err := NewHalfSpaceTree(3, unitBounds(2), rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Insert([]float64{0.1, 0.9}); err != nil {
		t.Fatal(err)
	}
	before := treeMass(tree)

	for _, alpha := range []float64{0, -0.5, 1.0001} {
		err := tree.Decay(alpha)
		var alphaErr *AlphaError
		if !errors.As(err, &alphaErr) {
			t.Errorf("alpha %g: expected an AlphaError, got %v", alpha, err)
		}
	}
	if after := treeMass(tree); after != before {
		t.Errorf("rejected decay changed total mass from %g to %g", before, after)
	}

	if err := tree.Decay(1); err != nil {
		t.Fatal(err)
	}
	if after := treeMass(tree); after != before {
		t.Errorf("decay with alpha 1 changed total mass from %g to %g", before, after)
	}
}

func TestDecayComposition(t *testing.T) {
	build := func() *HalfSpaceTree {
		tree, err := NewHalfSpaceTree(5, unitBounds(3), rand.New(rand.NewSource(23)))
		if err != nil {
			t.Fatal(err)
		}
		feed := rand.New(rand.NewSource(77))
		for i := 0; i < 200; i++ {
			x := []float64{feed.Float64(), feed.Float64(), feed.Float64()}
			if err := tree.Insert(x); err != nil {
				t.Fatal(err)
			}
		}
		return tree
	}

	twoStep := build()
	if err := twoStep.Decay(0.9); err != nil {
		t.Fatal(err)
	}
	if err := twoStep.Decay(0.8); err != nil {
		t.Fatal(err)
	}

	oneStep := build()
	if err := oneStep.Decay(0.9 * 0.8); err != nil {
		t.Fatal(err)
	}

	twoStepNodes := collectNodes(twoStep.Root)
	oneStepNodes := collectNodes(oneStep.Root)
	if len(twoStepNodes) != len(oneStepNodes) {
		t.Fatal("trees differ in size")
	}
	for ind := range twoStepNodes {
		a, b := twoStepNodes[ind].Mass, oneStepNodes[ind].Mass
		if a < 0 || b < 0 {
			t.Fatalf("negative mass after decay: %g, %g", a, b)
		}
		if math.Abs(a-b) > 1e-9 {
			t.Fatalf("decay(0.9)+decay(0.8) diverged from decay(0.72): %g vs %g", a, b)
		}
	}
}

func TestMaxDepthZero(t *testing.T) {
	tree, err := NewHalfSpaceTree(0, unitBounds(2), rand.New(rand.NewSource(31)))
	if err != nil {
		t.Fatal(err)
	}
	if !tree.Root.IsLeaf() {
		t.Fatal("max depth 0 did not produce a single leaf")
	}

	for i := 0; i < 3; i++ {
		if err := tree.Insert([]float64{0.2, 0.8}); err != nil {
			t.Fatal(err)
		}
	}

	// Every vector shares the root leaf, so the score depends on the
	// accumulated root mass alone.
	near, err := tree.Score([]float64{0.2, 0.8})
	if err != nil {
		t.Fatal(err)
	}
	far, err := tree.Score([]float64{0.99, 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if near != far {
		t.Errorf("single-leaf tree scored %g and %g for different vectors", near, far)
	}
	if want := 0 - math.Log(1+3.0); near != want {
		t.Errorf("score %g, want %g", near, want)
	}
}
