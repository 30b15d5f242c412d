package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/terrastream/internal/logger"
)

// Graph is the live scene. Tile nodes are attached under its root.
type Graph struct {
	root *Node
	log  *zap.Logger
}

// NewGraph creates an empty scene.
func NewGraph() *Graph {
	return &Graph{root: NewNode("root", KindGroup), log: logger.Named("scene")}
}

// Root returns the root node.
func (g *Graph) Root() *Node {
	return g.root
}

// Attach adds n under the root. It returns false when n already has a parent
// or has been released.
func (g *Graph) Attach(n *Node) bool {
	if n == nil || n.parent != nil || n.released {
		return false
	}
	g.root.AddChild(n)
	return true
}

// Detach removes n from the root. It returns false when n is not attached.
func (g *Graph) Detach(n *Node) bool {
	if n == nil || n.parent != g.root {
		return false
	}
	children := g.root.Children
	for i, c := range children {
		if c == n {
			g.root.Children = append(children[:i], children[i+1:]...)
			n.parent = nil
			return true
		}
	}
	g.log.Warn("node claims root parent but is missing", zap.String("node", n.Name))
	n.parent = nil
	return false
}

// Attached reports whether n is directly under the root.
func (g *Graph) Attached(n *Node) bool {
	return n != nil && n.parent == g.root
}

// Len returns the number of attached nodes.
func (g *Graph) Len() int {
	return len(g.root.Children)
}

// Clear detaches every node without releasing it.
func (g *Graph) Clear() {
	for _, c := range g.root.Children {
		c.parent = nil
	}
	g.root.Children = nil
}
