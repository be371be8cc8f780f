package timekeeper

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnsupported is returned by every decoder of Duration and Result.
// Snapshots are write-only; reading one back would have to invent the
// live tree it came from.
var ErrUnsupported = fmt.Errorf("timekeeper: deserialization not implemented: %w", errors.ErrUnsupported)

type durationDoc struct {
	SystemUS int64 `json:"system_us" yaml:"system_us"`
	UserUS   int64 `json:"user_us" yaml:"user_us"`
	WallUS   int64 `json:"wall_us" yaml:"wall_us"`
}

func (d Duration) doc() durationDoc {
	wall, user, system := d.Microseconds()
	return durationDoc{SystemUS: system, UserUS: user, WallUS: wall}
}

type resultDoc struct {
	Count    int                  `json:"count" yaml:"count"`
	Duration durationDoc          `json:"duration" yaml:"duration"`
	Children map[string]resultDoc `json:"children,omitempty" yaml:"children,omitempty"`
}

// Children with the same name collapse to the last one, as in any
// name-keyed mapping.
func (r Result) doc() resultDoc {
	d := resultDoc{Count: r.Count, Duration: r.Duration.doc()}
	if len(r.Children) > 0 {
		d.Children = make(map[string]resultDoc, len(r.Children))
		for _, c := range r.Children {
			d.Children[c.Name] = c.doc()
		}
	}
	return d
}

// MarshalJSON encodes d as integer microseconds
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.doc())
}

// UnmarshalJSON always fails with ErrUnsupported
func (d *Duration) UnmarshalJSON([]byte) error {
	return ErrUnsupported
}

// MarshalYAML encodes d as integer microseconds
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.doc(), nil
}

// UnmarshalYAML always fails with ErrUnsupported
func (d *Duration) UnmarshalYAML(*yaml.Node) error {
	return ErrUnsupported
}

// MarshalJSON encodes count, duration and, if any, children keyed by name
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.doc())
}

// UnmarshalJSON always fails with ErrUnsupported
func (r *Result) UnmarshalJSON([]byte) error {
	return ErrUnsupported
}

// MarshalYAML encodes the same shape as MarshalJSON
func (r Result) MarshalYAML() (interface{}, error) {
	return r.doc(), nil
}

// UnmarshalYAML always fails with ErrUnsupported
func (r *Result) UnmarshalYAML(*yaml.Node) error {
	return ErrUnsupported
}
