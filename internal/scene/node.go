// Package scene holds the node tree that generated tiles are attached to.
// A Graph is owned by one goroutine; nothing in this package is safe for
// concurrent use.
package scene

import (
	"github.com/Faultbox/terrastream/internal/mesh"
	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// Kind identifies what a node renders.
type Kind uint8

const (
	KindGroup Kind = iota
	KindTerrain
	KindWater
	KindFoliage
	KindMarker
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindTerrain:
		return "terrain"
	case KindWater:
		return "water"
	case KindFoliage:
		return "foliage"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Node is one element of the scene tree. Position is relative to the parent.
type Node struct {
	Name     string
	Kind     Kind
	Position tmath.Vec3
	Rotation float32 // Around Y, radians
	Mesh     *mesh.Mesh
	Material string // Material or model handle
	Children []*Node

	parent   *Node
	released bool
}

// NewNode creates a node.
func NewNode(name string, kind Kind) *Node {
	return &Node{Name: name, Kind: kind}
}

// AddChild appends child and sets its parent.
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Walk visits n and all descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes of the given kind in the subtree.
func (n *Node) Count(kind Kind) int {
	count := 0
	n.Walk(func(c *Node) {
		if c.Kind == kind {
			count++
		}
	})
	return count
}

// Release drops the meshes of the subtree. Releasing twice is a no-op.
func (n *Node) Release() {
	if n.released {
		return
	}
	n.Walk(func(c *Node) {
		c.Mesh = nil
		c.released = true
	})
	n.Children = nil
}

// Released reports whether Release has been called.
func (n *Node) Released() bool {
	return n.released
}
