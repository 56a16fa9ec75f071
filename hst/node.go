package hst

//Node is one node of a half-space tree. Internal nodes carry a split and own
//exactly two children; leaves own none. Every node, internal or leaf,
//accumulates a decayable mass. Topology never changes after construction;
//only Mass mutates.
type Node struct {
	SplitDim int     `json:"split_dim"`
	SplitVal float64 `json:"split_val"`
	Left     *Node   `json:"left,omitempty"`
	Right    *Node   `json:"right,omitempty"`
	Depth    int     `json:"depth"`
	Mass     float64 `json:"mass"`
}

//IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

//randomizedNode recursively builds a full binary subtree down to maxDepth.
//The split dimension is drawn uniformly over all dimensions and the threshold
//uniformly inside the node's current range for that dimension. Each child
//inherits the halved range along the split dimension only, so every leaf
//covers a disjoint axis-aligned hyper-rectangle of the envelope.
func randomizedNode(depth, maxDepth int, bounds Bounds, rng Rand) *Node {
	if depth >= maxDepth {
		return &Node{Depth: depth}
	}

	splitDim := rng.Intn(len(bounds))
	lo, hi := bounds[splitDim].Low, bounds[splitDim].High
	splitVal := lo + (hi-lo)*rng.Float64()

	narrowed := make(Bounds, len(bounds))
	copy(narrowed, bounds)

	narrowed[splitDim] = Bound{Low: lo, High: splitVal}
	left := randomizedNode(depth+1, maxDepth, narrowed, rng)

	narrowed[splitDim] = Bound{Low: splitVal, High: hi}
	right := randomizedNode(depth+1, maxDepth, narrowed, rng)

	return &Node{
		SplitDim: splitDim,
		SplitVal: splitVal,
		Left:     left,
		Right:    right,
		Depth:    depth,
	}
}

//insert adds unit mass to every node on the root-to-leaf path of x.
func (n *Node) insert(x []float64) {
	n.Mass++
	if n.IsLeaf() {
		return
	}
	if x[n.SplitDim] < n.SplitVal {
		n.Left.insert(x)
	} else {
		n.Right.insert(x)
	}
}

//decay scales the mass of every node of the subtree by alpha.
func (n *Node) decay(alpha float64) {
	n.Mass *= alpha
	if n.Left != nil {
		n.Left.decay(alpha)
	}
	if n.Right != nil {
		n.Right.decay(alpha)
	}
}

//descend walks to the leaf covering x without touching any mass.
func (n *Node) descend(x []float64) *Node {
	node := n
	for !node.IsLeaf() {
		if x[node.SplitDim] < node.SplitVal {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}
