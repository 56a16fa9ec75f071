package hst

import (
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//GraphDescription returns the label of a node for tree rendering as a graph.
func (n *Node) GraphDescription() string {
	var sb strings.Builder
	if n.IsLeaf() {
		sb.WriteString(fmt.Sprintln("leaf, depth", n.Depth))
		sb.WriteString(fmt.Sprintf("mass: %6.3f", n.Mass))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintln("depth", n.Depth))
	sb.WriteString(fmt.Sprintf("mass: %6.3f\n", n.Mass))
	sb.WriteString(fmt.Sprintf("x_%d < %6.5f", n.SplitDim, n.SplitVal))
	return sb.String()
}

func recurrentDraw(g *cgraph.Graph, node *Node, nodeId string, parentNode *cgraph.Node) {
	currentNode, err := g.CreateNode(nodeId)
	HandleError(err)

	if parentNode != nil {
		g.CreateEdge("", parentNode, currentNode)
	}

	currentNode.Set("label", node.GraphDescription())
	if node.IsLeaf() {
		currentNode.Set("shape", "box")
		return
	}
	recurrentDraw(g, node.Left, nodeId+"l", currentNode)
	recurrentDraw(g, node.Right, nodeId+"r", currentNode)
}

//DrawGraph renders one tree as a graphviz graph: internal nodes carry their
//split and mass, leaves are boxes with their mass.
func (t *HalfSpaceTree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	HandleError(err)

	recurrentDraw(graph, t.Root, "n", nil)

	return graphViz, graph
}

//RenderTrees dumps every tree of the forest as a figure into
//picturesDirectory.
func (f *HalfSpaceForest) RenderTrees(dumpPrefix, figureType, picturesDirectory string) {
	graphvizType := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]

	for graphInd, currentTree := range f.Trees {
		filename := fmt.Sprintf("%s_%05d.%s", dumpPrefix, graphInd, figureType)
		graphViz, graph := currentTree.DrawGraph()
		HandleError(graphViz.RenderFilename(graph, graphvizType, path.Join(picturesDirectory, filename)))
	}
}
