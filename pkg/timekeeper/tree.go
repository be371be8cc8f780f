package timekeeper

import (
	"context"
	"fmt"
	"strings"
)

// PathSeparator joins node names into tree paths
const PathSeparator = "/"

// Tree is a caller-owned set of nodes under one root, indexed by path
// ("main/bar/baz"). It replaces package-level timer variables: build it
// once at startup and hand it down explicitly or through a context.
type Tree struct {
	root  *Node
	nodes map[string]*Node
}

// NewTree creates a tree with a root node called name
func NewTree(name string, opts ...Option) *Tree {
	root := NewRoot(name, opts...)
	return &Tree{
		root:  root,
		nodes: map[string]*Node{name: root},
	}
}

// Root returns the root node
func (t *Tree) Root() *Node { return t.root }

// Add creates the node at path, creating missing intermediate nodes on the
// way. The first path element must be the root's name. Adding an existing
// path returns the existing node.
func (t *Tree) Add(path string) (*Node, error) {
	parts := strings.Split(path, PathSeparator)
	if parts[0] != t.root.Name() {
		return nil, fmt.Errorf("path %q is not under root %q", path, t.root.Name())
	}
	cur := t.root
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			return nil, fmt.Errorf("path %q has an empty element", path)
		}
		key := strings.Join(parts[:i+1], PathSeparator)
		next, ok := t.nodes[key]
		if !ok {
			next = NewNode(parts[i], cur)
			t.nodes[key] = next
		}
		cur = next
	}
	return cur, nil
}

// MustAdd is Add that panics on a malformed path. Meant for static layouts
// built at startup.
func (t *Tree) MustAdd(path string) *Node {
	n, err := t.Add(path)
	if err != nil {
		panic(err)
	}
	return n
}

// Node returns the node at path
func (t *Tree) Node(path string) (*Node, bool) {
	n, ok := t.nodes[path]
	return n, ok
}

// Lookup is Node that panics when path is unknown
func (t *Tree) Lookup(path string) *Node {
	n, ok := t.nodes[path]
	if !ok {
		panic(fmt.Sprintf("timekeeper: no node at %q", path))
	}
	return n
}

// Paths lists every node path, parents before children, siblings in
// attach order
func (t *Tree) Paths() []string {
	var paths []string
	var prefix []string
	t.root.Walk(func(n *Node, depth int) bool {
		prefix = append(prefix[:depth], n.Name())
		paths = append(paths, strings.Join(prefix, PathSeparator))
		return true
	})
	return paths
}

// Snapshot copies the whole tree
func (t *Tree) Snapshot() Result {
	return NewResult(t.root)
}

// Reset clears every stopwatch in the tree
func (t *Tree) Reset() {
	t.root.Reset()
}

type treeKey struct{}

// NewContext returns a copy of ctx carrying t
func NewContext(ctx context.Context, t *Tree) context.Context {
	return context.WithValue(ctx, treeKey{}, t)
}

// FromContext returns the tree carried by ctx, if any
func FromContext(ctx context.Context) (*Tree, bool) {
	t, ok := ctx.Value(treeKey{}).(*Tree)
	return t, ok
}

// TimeContext starts a scope over the node at path in the context's tree
// and returns its Stop. Without a tree, or for an unknown path, it returns
// a no-op so instrumented code runs unchanged.
func TimeContext(ctx context.Context, path string) func() {
	t, ok := FromContext(ctx)
	if !ok {
		return func() {}
	}
	n, ok := t.Node(path)
	if !ok {
		return func() {}
	}
	return Time(n)
}
