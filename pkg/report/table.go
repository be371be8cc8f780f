package report

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/psantana5/timekeeper/pkg/timekeeper"
)

// Glyphs draw the tree in the name column
type Glyphs struct {
	Branch     string
	Vertical   string
	LastBranch string
}

var (
	// UnicodeGlyphs are box-drawing characters
	UnicodeGlyphs = Glyphs{Branch: "├ ", Vertical: "│ ", LastBranch: "╰ "}
	// ASCIIGlyphs are for consoles without box-drawing support
	ASCIIGlyphs = Glyphs{Branch: "+ ", Vertical: "| ", LastBranch: "\\ "}
)

// TableOptions control WriteTable
type TableOptions struct {
	Glyphs Glyphs
	// Unit durations are printed in; defaults to time.Millisecond
	Unit time.Duration
}

// DefaultTableOptions picks ASCII glyphs on Windows, as its default console
// font lacks the box-drawing set
func DefaultTableOptions() TableOptions {
	opts := TableOptions{Glyphs: UnicodeGlyphs, Unit: time.Millisecond}
	if runtime.GOOS == "windows" {
		opts.Glyphs = ASCIIGlyphs
	}
	return opts
}

// WriteTable renders r as a tree-indented table with Wall, User, System and
// count columns. Groups get empty duration cells. Every node with children
// is closed by an "(unaccounted)" row for leaves or an "(end group)" row
// for groups.
func WriteTable(w io.Writer, r timekeeper.Result, opts TableOptions) error {
	if opts.Glyphs == (Glyphs{}) {
		opts.Glyphs = UnicodeGlyphs
	}
	if opts.Unit <= 0 {
		opts.Unit = time.Millisecond
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{
					PerColumn: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight},
				},
			},
		}),
	)
	table.Header("", "Wall", "User", "System", "count")

	for _, row := range Rows(r, opts) {
		if err := table.Append(row[:]); err != nil {
			return fmt.Errorf("failed to append row %q: %w", row[0], err)
		}
	}
	return table.Render()
}

// Row is one line of the rendered table
type Row [5]string

// Rows flattens r into table rows, depth first
func Rows(r timekeeper.Result, opts TableOptions) []Row {
	if opts.Unit <= 0 {
		opts.Unit = time.Millisecond
	}
	var rows []Row
	addRows(&rows, &r, 0, opts)
	return rows
}

func addRows(rows *[]Row, r *timekeeper.Result, depth int, opts TableOptions) {
	g := opts.Glyphs
	tree := strings.Repeat(g.Vertical, max(depth-1, 0))
	name := tree
	if depth > 0 {
		name += g.Branch
	}
	name += r.Name

	if r.IsGroup() {
		*rows = append(*rows, Row{name, "", "", "", ""})
	} else {
		wall, user, system := formatDuration(r.Duration, opts.Unit)
		*rows = append(*rows, Row{name, wall, user, system, fmt.Sprintf("%d", r.Count)})
	}

	for i := range r.Children {
		addRows(rows, &r.Children[i], depth+1, opts)
	}

	if len(r.Children) == 0 {
		return
	}
	total := tree
	if depth > 0 {
		total += g.Vertical
	}
	total += g.LastBranch
	if r.IsGroup() {
		*rows = append(*rows, Row{total + "(end group)", "", "", "", ""})
		return
	}
	wall, user, system := formatDuration(r.Unaccounted(), opts.Unit)
	*rows = append(*rows, Row{total + "(unaccounted)", wall, user, system, ""})
}

func formatDuration(d timekeeper.Duration, unit time.Duration) (wall, user, system string) {
	return formatUnit(d.Wall, unit), formatUnit(d.User, unit), formatUnit(d.System, unit)
}

func formatUnit(d, unit time.Duration) string {
	var suffix string
	switch unit {
	case time.Nanosecond:
		suffix = "ns"
	case time.Microsecond:
		suffix = "us"
	case time.Millisecond:
		suffix = "ms"
	case time.Second:
		suffix = "s"
	default:
		suffix = "x" + unit.String()
	}
	return fmt.Sprintf("%d %s", int64(d/unit), suffix)
}
