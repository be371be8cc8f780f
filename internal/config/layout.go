package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/psantana5/timekeeper/pkg/timekeeper"
	"gopkg.in/yaml.v3"
)

// Layout describes a timer tree in YAML:
//
//	name: main
//	children:
//	  - name: foo
//	  - name: bar
//	    children:
//	      - name: baz
type Layout struct {
	Name     string   `yaml:"name"`
	Children []Layout `yaml:"children,omitempty"`
}

// DefaultLayout is the tree timed by the demo workload
func DefaultLayout() Layout {
	return Layout{
		Name: "main",
		Children: []Layout{
			{Name: "foo"},
			{Name: "bar", Children: []Layout{{Name: "baz"}}},
			{Name: "fib"},
		},
	}
}

// LoadLayout reads and validates a layout file
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout %s: %w", path, err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes and validates YAML layout data
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate rejects empty names, names containing the path separator and
// duplicate sibling names, since each node must be addressable by path
func (l Layout) Validate() error {
	return l.validate("")
}

func (l Layout) validate(parent string) error {
	if l.Name == "" {
		return fmt.Errorf("layout node under %q has no name", parent)
	}
	if strings.Contains(l.Name, timekeeper.PathSeparator) {
		return fmt.Errorf("layout node name %q must not contain %q", l.Name, timekeeper.PathSeparator)
	}
	path := l.Name
	if parent != "" {
		path = parent + timekeeper.PathSeparator + l.Name
	}
	seen := make(map[string]bool, len(l.Children))
	for _, ch := range l.Children {
		if seen[ch.Name] {
			return fmt.Errorf("duplicate timer %q under %q", ch.Name, path)
		}
		seen[ch.Name] = true
		if err := ch.validate(path); err != nil {
			return err
		}
	}
	return nil
}

// Build creates a tree with one node per layout entry, siblings in file
// order
func (l Layout) Build(opts ...timekeeper.Option) (*timekeeper.Tree, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	tree := timekeeper.NewTree(l.Name, opts...)
	var add func(prefix string, children []Layout) error
	add = func(prefix string, children []Layout) error {
		for _, ch := range children {
			path := prefix + timekeeper.PathSeparator + ch.Name
			if _, err := tree.Add(path); err != nil {
				return err
			}
			if err := add(path, ch.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := add(l.Name, l.Children); err != nil {
		return nil, err
	}
	return tree, nil
}

// Marshal encodes the layout as YAML
func (l Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}
