package hst

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

func TestPathProfile(t *testing.T) {
	forest := buildForest(t, 45)
	train := randomStream(100, 46)
	if _, err := train.Replay(forest, 0.99, 25); err != nil {
		t.Fatal(err)
	}

	queries := randomStream(6, 47)
	profile, err := forest.PathProfile(queries.Features)
	if err != nil {
		t.Fatal(err)
	}

	shape := profile.Shape()
	if shape[0] != 6 || shape[1] != len(forest.Trees) || shape[2] != forest.MaxDepth+1 {
		t.Fatalf("unexpected profile shape %v", shape)
	}

	for p := 0; p < 6; p++ {
		for treeInd, currentTree := range forest.Trees {
			// Depth 0 of every path is the tree root.
			element, err := profile.At(p, treeInd, 0)
			if err != nil {
				t.Fatal(err)
			}
			if got := element.(float64); got != currentTree.Root.Mass {
				t.Fatalf("row %d, tree %d: profile root mass %g, want %g", p, treeInd, got, currentTree.Root.Mass)
			}

			// Mass along a path never grows: each node holds at least the
			// mass of any node below it.
			previous := currentTree.Root.Mass
			for d := 1; d <= forest.MaxDepth; d++ {
				element, err := profile.At(p, treeInd, d)
				if err != nil {
					t.Fatal(err)
				}
				current := element.(float64)
				if current > previous {
					t.Fatalf("row %d, tree %d: mass grew from %g to %g at depth %d", p, treeInd, previous, current, d)
				}
				previous = current
			}
		}
	}
}

func TestFlattenProfile(t *testing.T) {
	forest := buildForest(t, 51)
	queries := randomStream(4, 52)
	profile, err := forest.PathProfile(queries.Features)
	if err != nil {
		t.Fatal(err)
	}

	flat, err := FlattenProfile(profile)
	if err != nil {
		t.Fatal(err)
	}

	h, w := flat.Dims()
	depthLen := forest.MaxDepth + 1
	if h != 4 || w != len(forest.Trees)*depthLen {
		t.Fatalf("unexpected flattened dims %d x %d", h, w)
	}
	for p := 0; p < h; p++ {
		for treeInd := 0; treeInd < len(forest.Trees); treeInd++ {
			for d := 0; d < depthLen; d++ {
				element, err := profile.At(p, treeInd, d)
				if err != nil {
					t.Fatal(err)
				}
				if got := flat.At(p, treeInd*depthLen+d); got != element.(float64) {
					t.Fatalf("entry (%d, %d, %d) flattened to %g, want %g", p, treeInd, d, got, element.(float64))
				}
			}
		}
	}
}

func TestFlattenProfileRejectsWrongRank(t *testing.T) {
	flatTensor := tensor.New(tensor.WithShape(3, 4), tensor.Of(tensor.Float64))
	if _, err := FlattenProfile(flatTensor); err == nil {
		t.Error("rank-2 tensor accepted")
	}
}

func TestPathProfileDimensionMismatch(t *testing.T) {
	forest := buildForest(t, 53)
	narrow := mat.NewDense(3, 2, nil)

	_, err := forest.PathProfile(narrow)
	var dimErr *DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected a DimensionError, got %v", err)
	}
}
