package timekeeper

// Node is a named stopwatch with an ordered list of child nodes.
//
// A node whose own stopwatch was never resumed is a group: it only
// aggregates its children. Group status is derived from the count on every
// call and never stored.
//
// Children are attached once, at construction, and never detached. The
// caller keeps the tree; Go's collector keeps every node reachable from its
// parent alive, so there is no ownership ordering to respect.
type Node struct {
	name     string
	watch    StopWatch
	children []*Node
}

// Option configures a root node
type Option func(*Node)

// WithSource makes the node, and every node created under it, sample src
func WithSource(src Source) Option {
	return func(n *Node) {
		n.watch.clock = NewClock(src)
	}
}

// NewRoot creates a node without a parent
func NewRoot(name string, opts ...Option) *Node {
	n := &Node{name: name}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewNode creates a node and appends it to parent's children.
// Sibling order is construction order.
func NewNode(name string, parent *Node) *Node {
	n := &Node{
		name:  name,
		watch: StopWatch{clock: NewClock(parent.watch.clock.source)},
	}
	parent.children = append(parent.children, n)
	return n
}

// Name returns the node's label. Names need not be unique.
func (n *Node) Name() string { return n.name }

// Watch returns the node's own stopwatch
func (n *Node) Watch() *StopWatch { return &n.watch }

// Resume resumes the node's own stopwatch
func (n *Node) Resume() { n.watch.Resume() }

// Stop stops the node's own stopwatch
func (n *Node) Stop() { n.watch.Stop() }

// Reset clears the node's own stopwatch and those of all descendants.
// If any of them is running it panics before clearing anything.
func (n *Node) Reset() {
	var running *Node
	n.Walk(func(node *Node, _ int) bool {
		if running == nil && node.Running() {
			running = node
		}
		return running == nil
	})
	if running != nil {
		running.watch.Reset()
	}
	n.reset()
}

func (n *Node) reset() {
	n.watch.Reset()
	for _, ch := range n.children {
		ch.reset()
	}
}

// Count is the number of times the node's own stopwatch was resumed
func (n *Node) Count() int { return n.watch.Count() }

// Running reports whether the node's own stopwatch is running
func (n *Node) Running() bool { return n.watch.Running() }

// IsGroup reports whether the own stopwatch was never resumed
func (n *Node) IsGroup() bool { return n.Count() == 0 }

// Elapsed is the own accumulated time for a leaf, or the sum of the
// children's Elapsed for a group. It walks the live subtree on every call.
func (n *Node) Elapsed() Duration {
	if n.IsGroup() {
		var total Duration
		for _, ch := range n.children {
			total = total.Add(ch.Elapsed())
		}
		return total
	}
	return n.watch.Elapsed()
}

// Unaccounted is the part of a leaf's own time not covered by any child.
// It is zero for groups.
func (n *Node) Unaccounted() Duration {
	group := n.IsGroup()
	if group {
		return unaccounted(true, Duration{}, nil)
	}
	durations := make([]Duration, len(n.children))
	for i, ch := range n.children {
		durations[i] = ch.Elapsed()
	}
	return unaccounted(false, n.watch.Elapsed(), durations)
}

// Len returns the number of direct children
func (n *Node) Len() int { return len(n.children) }

// Children returns the direct children in attach order. The slice is a
// copy; modifying it does not affect the tree.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the first direct child with the given name
func (n *Node) Child(name string) (*Node, bool) {
	for _, ch := range n.children {
		if ch.name == name {
			return ch, true
		}
	}
	return nil, false
}

// Walk visits n and its descendants depth first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, ch := range n.children {
		ch.walk(fn, depth+1)
	}
}
