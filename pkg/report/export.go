package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/psantana5/timekeeper/pkg/logging"
	"github.com/psantana5/timekeeper/pkg/timekeeper"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding
type Format string

const (
	FormatTable      Format = "table"
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatPrometheus Format = "prometheus"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatPrometheus:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, yaml or prometheus)", s)
	}
}

// WriteJSON writes r as indented JSON keyed by its root name, so the root
// name survives the name-keyed children encoding
func WriteJSON(w io.Writer, r timekeeper.Result) error {
	output, err := json.MarshalIndent(map[string]timekeeper.Result{r.Name: r}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// WriteYAML writes r as YAML keyed by its root name
func WriteYAML(w io.Writer, r timekeeper.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]timekeeper.Result{r.Name: r}); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// Write renders r in the requested format
func Write(w io.Writer, format Format, r timekeeper.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatPrometheus:
		return WritePrometheus(w, DefaultNamespace, r)
	case FormatTable, "":
		return WriteTable(w, r, DefaultTableOptions())
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// LogSummary emits one INFO line per timer: what ops grep for when a run
// was slow
func LogSummary(logger *logging.Logger, r timekeeper.Result) {
	for _, p := range Paths(r) {
		res := p.Result
		fields := logging.Fields{
			"path":  p.Path,
			"count": res.Count,
			"group": res.IsGroup(),
		}
		wall, user, system := res.Duration.Microseconds()
		fields["wall_us"] = wall
		fields["user_us"] = user
		fields["system_us"] = system
		if !res.IsGroup() && len(res.Children) > 0 {
			fields["unaccounted_wall_us"] = res.Unaccounted().Wall.Microseconds()
		}
		logger.Info("timer", fields)
	}
}
