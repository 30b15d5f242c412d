package scene

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/terrastream/internal/mesh"
)

func TestAttachDetach(t *testing.T) {
	g := NewGraph()
	a := NewNode("a", KindTerrain)
	b := NewNode("b", KindTerrain)

	require.True(t, g.Attach(a))
	require.False(t, g.Attach(a), "double attach")
	require.True(t, g.Attach(b))
	require.Equal(t, 2, g.Len())
	require.True(t, g.Attached(a))
	require.Equal(t, g.Root(), a.Parent())

	require.True(t, g.Detach(a))
	require.False(t, g.Detach(a), "double detach")
	require.False(t, g.Attached(a))
	require.Nil(t, a.Parent())
	require.Equal(t, 1, g.Len())
	require.Same(t, b, g.Root().Children[0])

	require.False(t, g.Attach(nil))
	require.False(t, g.Detach(nil))
}

func TestAttachReleased(t *testing.T) {
	g := NewGraph()
	n := NewNode("tile", KindTerrain)
	n.Release()
	require.False(t, g.Attach(n))
}

func TestRelease(t *testing.T) {
	n := NewNode("tile", KindTerrain)
	n.Mesh = &mesh.Mesh{}
	child := NewNode("water", KindWater)
	child.Mesh = &mesh.Mesh{}
	n.AddChild(child)

	n.Release()
	require.True(t, n.Released())
	require.True(t, child.Released())
	require.Nil(t, n.Mesh)
	require.Nil(t, child.Mesh)
	require.Empty(t, n.Children)

	n.Release()
	require.True(t, n.Released())
}

func TestCount(t *testing.T) {
	n := NewNode("tile", KindTerrain)
	for range 3 {
		n.AddChild(NewNode("tree", KindFoliage))
	}
	n.AddChild(NewNode("water", KindWater))

	require.Equal(t, 3, n.Count(KindFoliage))
	require.Equal(t, 1, n.Count(KindWater))
	require.Equal(t, 1, n.Count(KindTerrain))
	require.Zero(t, n.Count(KindMarker))
}

func TestClear(t *testing.T) {
	g := NewGraph()
	a := NewNode("a", KindTerrain)
	g.Attach(a)
	g.Clear()
	require.Zero(t, g.Len())
	require.Nil(t, a.Parent())
	require.True(t, g.Attach(a))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "water", KindWater.String())
	require.Equal(t, "unknown", Kind(99).String())
}
