package timekeeper

// Result is a frozen copy of a Node subtree. Set once, never change:
// AddChild exists only for assembling results.
type Result struct {
	Name     string
	Duration Duration // Node.Elapsed at copy time: the aggregate for groups
	Count    int
	Children []Result
}

// NewResult deep-copies n and its descendants. The copy is only
// consistent if nothing resumes or stops a node in the subtree meanwhile.
func NewResult(n *Node) Result {
	r := Result{
		Name:     n.Name(),
		Duration: n.Elapsed(),
		Count:    n.Count(),
	}
	if len(n.children) > 0 {
		r.Children = make([]Result, 0, len(n.children))
		for _, ch := range n.children {
			r.Children = append(r.Children, NewResult(ch))
		}
	}
	return r
}

// Snapshot is NewResult as a method
func (n *Node) Snapshot() Result {
	return NewResult(n)
}

// IsGroup reports whether the source node's own stopwatch was never resumed
func (r *Result) IsGroup() bool { return r.Count == 0 }

// AddChild appends c to r's children
func (r *Result) AddChild(c Result) {
	r.Children = append(r.Children, c)
}

// Unaccounted mirrors Node.Unaccounted over the frozen fields
func (r *Result) Unaccounted() Duration {
	durations := make([]Duration, len(r.Children))
	for i := range r.Children {
		durations[i] = r.Children[i].Duration
	}
	return unaccounted(r.IsGroup(), r.Duration, durations)
}

// Find follows a path of child names from r. An empty path returns r.
func (r *Result) Find(path ...string) (*Result, bool) {
	cur := r
	for _, name := range path {
		next := -1
		for i := range cur.Children {
			if cur.Children[i].Name == name {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		cur = &cur.Children[next]
	}
	return cur, true
}

// Walk visits r and its descendants depth first, parents before children
func (r *Result) Walk(fn func(res *Result, depth int)) {
	r.walk(fn, 0)
}

func (r *Result) walk(fn func(*Result, int), depth int) {
	fn(r, depth)
	for i := range r.Children {
		r.Children[i].walk(fn, depth+1)
	}
}

// Group builds a synthetic group named name over children. Its count is
// zero and its duration is the sum of the children's, as for a live group.
func Group(name string, children ...Result) Result {
	g := Result{Name: name}
	for _, c := range children {
		g.AddChild(c)
		g.Duration = g.Duration.Add(c.Duration)
	}
	return g
}

// Merge combines results taken from identically shaped trees, typically
// one tree per goroutine. Durations and counts add up. Children are matched
// by name and by occurrence among same-named siblings, so the second "step"
// of one result merges with the second "step" of another; matched children
// keep first-seen order. The name of the first result wins.
func Merge(results ...Result) Result {
	if len(results) == 0 {
		return Result{}
	}
	type key struct {
		name string
		nth  int
	}
	out := Result{Name: results[0].Name}
	var order []key
	byKey := make(map[key][]Result)
	for _, r := range results {
		out.Duration = out.Duration.Add(r.Duration)
		out.Count += r.Count
		nth := make(map[string]int, len(r.Children))
		for _, c := range r.Children {
			k := key{name: c.Name, nth: nth[c.Name]}
			nth[c.Name]++
			if _, seen := byKey[k]; !seen {
				order = append(order, k)
			}
			byKey[k] = append(byKey[k], c)
		}
	}
	for _, k := range order {
		out.AddChild(Merge(byKey[k]...))
	}
	return out
}
