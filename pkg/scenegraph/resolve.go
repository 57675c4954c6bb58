package scenegraph

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/meshbake/pkg/math"
)

// Scene graph errors.
var (
	ErrDanglingChild   = errors.New("child references a missing node")
	ErrMultipleParents = errors.New("node has more than one parent")
	ErrCycle           = errors.New("node hierarchy contains a cycle")
)

const noParent = -1

// Transforms holds the resolved world matrix of every node, indexed by node id.
type Transforms struct {
	world  []math.Mat4
	parent []int
	depth  []int
	roots  []int
}

// Len returns the number of resolved nodes.
func (t *Transforms) Len() int {
	return len(t.world)
}

// World returns the world matrix of a node.
func (t *Transforms) World(node int) (math.Mat4, bool) {
	if node < 0 || node >= len(t.world) {
		return math.Identity(), false
	}
	return t.world[node], true
}

// Parent returns the node's parent, or false for a root.
func (t *Transforms) Parent(node int) (int, bool) {
	if node < 0 || node >= len(t.parent) || t.parent[node] == noParent {
		return noParent, false
	}
	return t.parent[node], true
}

// Depth returns the number of ancestors above a node (0 for roots).
func (t *Transforms) Depth(node int) int {
	if node < 0 || node >= len(t.depth) {
		return 0
	}
	return t.depth[node]
}

// MaxDepth returns the deepest node's depth.
func (t *Transforms) MaxDepth() int {
	maxDepth := 0
	for _, d := range t.depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// Roots returns the nodes that are no other node's child, in storage order.
func (t *Transforms) Roots() []int {
	return append([]int(nil), t.roots...)
}

// Resolve computes every node's world transform as parent * local,
// starting from the roots of the hierarchy.
func Resolve(nodes []*gltf.Node) (*Transforms, error) {
	n := len(nodes)
	t := &Transforms{
		world:  make([]math.Mat4, n),
		parent: make([]int, n),
		depth:  make([]int, n),
	}
	for i := range t.parent {
		t.parent[i] = noParent
	}

	for i, node := range nodes {
		if node == nil {
			continue
		}
		for _, child := range node.Children {
			if child < 0 || child >= n {
				return nil, fmt.Errorf("node %d: child %d: %w", i, child, ErrDanglingChild)
			}
			if child == i {
				return nil, fmt.Errorf("node %d lists itself as a child: %w", i, ErrCycle)
			}
			if t.parent[child] != noParent {
				return nil, fmt.Errorf("node %d: children of %d and %d: %w", child, t.parent[child], i, ErrMultipleParents)
			}
			t.parent[child] = i
		}
	}

	visited := make([]bool, n)
	stack := make([]int, 0, n)
	for i := range nodes {
		if t.parent[i] != noParent {
			continue
		}
		t.roots = append(t.roots, i)
		t.world[i], _ = LocalMatrix(nodes[i])
		visited[i] = true
		stack = append(stack, i)

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if nodes[cur] == nil {
				continue
			}
			for _, child := range nodes[cur].Children {
				if visited[child] {
					return nil, fmt.Errorf("node %d reached twice: %w", child, ErrCycle)
				}
				visited[child] = true
				t.world[child] = combine(t.world[cur], nodes[child])
				t.depth[child] = t.depth[cur] + 1
				stack = append(stack, child)
			}
		}
	}

	for i, ok := range visited {
		if !ok {
			return nil, fmt.Errorf("node %d is unreachable from any root: %w", i, ErrCycle)
		}
	}

	return t, nil
}

// combine applies the parent's world matrix after the child's local one.
// A child without a transform inherits the parent's matrix unchanged.
func combine(parentWorld math.Mat4, child *gltf.Node) math.Mat4 {
	local, ok := LocalMatrix(child)
	if !ok || local.IsIdentity() {
		return parentWorld
	}
	return parentWorld.Mul(local)
}
