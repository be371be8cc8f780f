package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/psantana5/timekeeper/pkg/logging"
	"github.com/psantana5/timekeeper/pkg/timekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func ms(wall, user, system int) timekeeper.Duration {
	return timekeeper.Duration{
		Wall:   time.Duration(wall) * time.Millisecond,
		User:   time.Duration(user) * time.Millisecond,
		System: time.Duration(system) * time.Millisecond,
	}
}

// main{foo, bar{baz}} with main timed, as in the demo workload
func sampleResult() timekeeper.Result {
	return timekeeper.Result{
		Name:     "main",
		Duration: ms(100, 60, 10),
		Count:    1,
		Children: []timekeeper.Result{
			{Name: "foo", Duration: ms(20, 10, 2), Count: 2},
			{Name: "bar", Duration: ms(50, 30, 5), Count: 1, Children: []timekeeper.Result{
				{Name: "baz", Duration: ms(40, 25, 4), Count: 1},
			}},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleResult(), TableOptions{Glyphs: UnicodeGlyphs})

	want := []Row{
		{"main", "100 ms", "60 ms", "10 ms", "1"},
		{"├ foo", "20 ms", "10 ms", "2 ms", "2"},
		{"├ bar", "50 ms", "30 ms", "5 ms", "1"},
		{"│ ├ baz", "40 ms", "25 ms", "4 ms", "1"},
		{"│ ╰ (unaccounted)", "10 ms", "5 ms", "1 ms", ""},
		{"╰ (unaccounted)", "30 ms", "20 ms", "3 ms", ""},
	}
	assert.Equal(t, want, rows)
}

func TestRowsGroup(t *testing.T) {
	group := timekeeper.Group("all", sampleResult())
	rows := Rows(group, TableOptions{Glyphs: ASCIIGlyphs, Unit: time.Microsecond})

	require.NotEmpty(t, rows)
	assert.Equal(t, Row{"all", "", "", "", ""}, rows[0])
	assert.Equal(t, Row{"+ main", "100000 us", "60000 us", "10000 us", "1"}, rows[1])
	assert.Equal(t, Row{"\\ (end group)", "", "", "", ""}, rows[len(rows)-1])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleResult(), DefaultTableOptions()))

	out := buf.String()
	for _, s := range []string{"main", "foo", "baz", "(unaccounted)", "100 ms"} {
		assert.Contains(t, out, s)
	}
}

func TestPathsDeduplicatesSiblings(t *testing.T) {
	r := timekeeper.Result{Name: "root", Children: []timekeeper.Result{
		{Name: "step", Count: 1},
		{Name: "step", Count: 1},
		{Name: "other", Count: 1},
	}}

	var paths []string
	for _, p := range Paths(r) {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"root", "root/step", "root/step#2", "root/other"}, paths)

	tests := []struct {
		name string
		r    timekeeper.Result
		want []string
	}{
		{
			name: "suffix-like sibling name",
			r: timekeeper.Result{Name: "root", Children: []timekeeper.Result{
				{Name: "step", Count: 1},
				{Name: "step", Count: 1},
				{Name: "step#2", Count: 1},
			}},
			want: []string{"root", "root/step", "root/step#2", "root/step%232"},
		},
		{
			name: "separator in name",
			r: timekeeper.Result{Name: "root", Children: []timekeeper.Result{
				{Name: "a/b", Count: 1},
				{Name: "a", Count: 1, Children: []timekeeper.Result{{Name: "b", Count: 1}}},
			}},
			want: []string{"root", "root/a%2Fb", "root/a", "root/a/b"},
		},
		{
			name: "escaped-looking name",
			r: timekeeper.Result{Name: "root", Children: []timekeeper.Result{
				{Name: "a%2Fb", Count: 1},
				{Name: "a/b", Count: 1},
			}},
			want: []string{"root", "root/a%252Fb", "root/a%2Fb"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range Paths(tt.r) {
				got = append(got, p.Path)
			}
			assert.Equal(t, tt.want, got)

			var buf bytes.Buffer
			require.NoError(t, WritePrometheus(&buf, "", tt.r))
		})
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector("", sampleResult)

	// 5 metrics for each of 4 nodes, plus unaccounted for main and bar
	assert.Equal(t, 22, testutil.CollectAndCount(c))
	assert.Equal(t, 4, testutil.CollectAndCount(c, "timekeeper_wall_seconds"))
	assert.Equal(t, 2, testutil.CollectAndCount(c, "timekeeper_unaccounted_wall_seconds"))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	_, err := reg.Gather()
	require.NoError(t, err)
}

func TestWritePrometheus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrometheus(&buf, "app", sampleResult()))

	out := buf.String()
	assert.Contains(t, out, `app_wall_seconds{path="main/bar/baz"} 0.04`)
	assert.Contains(t, out, `app_resumes_total{path="main/foo"} 2`)
	assert.Contains(t, out, `app_unaccounted_wall_seconds{path="main"} 0.03`)
	assert.Contains(t, out, "# TYPE app_resumes_total counter")
}

func TestWriteJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	main := decoded["main"]
	require.NotNil(t, main)
	assert.Equal(t, float64(1), main["count"])
	duration := main["duration"].(map[string]interface{})
	assert.Equal(t, float64(100000), duration["wall_us"])

	buf.Reset()
	require.NoError(t, WriteYAML(&buf, sampleResult()))
	var y map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Contains(t, y, "main")
}

func TestWriteFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"table", "(unaccounted)"},
		{"JSON", `"wall_us"`},
		{"yaml", "wall_us:"},
		{"prometheus", "timekeeper_wall_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := ParseFormat(tt.format)
			require.NoError(t, err)
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, f, sampleResult()))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestLogSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.INFO, false)
	logger.SetOutput(&buf)

	LogSummary(logger, sampleResult())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "path=main")
	assert.Contains(t, lines[0], "unaccounted_wall_us=30000")
	assert.Contains(t, lines[3], "path=main/bar/baz")
	assert.NotContains(t, lines[3], "unaccounted")
}
