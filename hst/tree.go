package hst

import (
	"fmt"
	"math"
)

//HalfSpaceTree is one randomized axis-aligned partition of the feature-space
//envelope, built once to a fixed maximum depth. A tree with MaxDepth 0 is a
//single leaf. After construction only node masses mutate, through Insert and
//Decay; the caller serializes overlapping writers on the same tree.
type HalfSpaceTree struct {
	Root     *Node  `json:"root"`
	MaxDepth int    `json:"max_depth"`
	Bounds   Bounds `json:"bounds"`
}

//NewHalfSpaceTree draws a full random partition tree of depth maxDepth over
//the given envelope, consuming one dimension draw and one threshold draw per
//internal node in a fixed recursion order, so a seeded source reproduces the
//topology exactly.
func NewHalfSpaceTree(maxDepth int, bounds Bounds, rng Rand) (*HalfSpaceTree, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("negative max depth %d", maxDepth)}
	}
	if rng == nil {
		return nil, &ConfigError{Reason: "nil random source"}
	}

	return &HalfSpaceTree{
		Root:     randomizedNode(0, maxDepth, bounds, rng),
		MaxDepth: maxDepth,
		Bounds:   bounds,
	}, nil
}

//Insert routes x to its leaf, adding unit mass to every node on the way,
//endpoints included.
func (t *HalfSpaceTree) Insert(x []float64) error {
	if err := t.Bounds.checkVector(x); err != nil {
		return err
	}
	t.Root.insert(x)
	return nil
}

//Decay multiplies the mass of every node by alpha in (0, 1]. Calling it every
//tick weights a contribution from k ticks ago by alpha^k, an effective
//forgetting window of about 1/(1-alpha) ticks.
func (t *HalfSpaceTree) Decay(alpha float64) error {
	if err := checkAlpha(alpha); err != nil {
		return err
	}
	t.Root.decay(alpha)
	return nil
}

//Score traverses to the leaf covering x without mutating anything and returns
//depth_reached - ln(1 + leaf mass). Points landing deep in rarely visited
//regions score high; heavily visited regions score low. The score is relative
//to the tree's accumulated history and has no fixed range.
func (t *HalfSpaceTree) Score(x []float64) (float64, error) {
	if err := t.Bounds.checkVector(x); err != nil {
		return 0, err
	}
	leaf := t.Root.descend(x)
	return leafScore(leaf), nil
}

//leafScore derives the anomaly contribution of a traversal that ended at leaf.
func leafScore(leaf *Node) float64 {
	return float64(leaf.Depth) - math.Log(1+leaf.Mass)
}

//pathMasses writes the mass seen at every depth of the traversal path of x
//into out, which must have length MaxDepth+1. The tree is full, so every
//path has exactly that many nodes.
func (t *HalfSpaceTree) pathMasses(x []float64, out []float64) {
	node := t.Root
	for d := 0; ; d++ {
		out[d] = node.Mass
		if node.IsLeaf() {
			return
		}
		if x[node.SplitDim] < node.SplitVal {
			node = node.Left
		} else {
			node = node.Right
		}
	}
}
