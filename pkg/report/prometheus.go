package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/psantana5/timekeeper/pkg/timekeeper"
)

// DefaultNamespace prefixes every exported metric name
const DefaultNamespace = "timekeeper"

// Collector exposes a timer tree as Prometheus metrics. Every scrape calls
// source for a fresh snapshot, so source is where access to a live tree
// must be serialized.
type Collector struct {
	source func() timekeeper.Result

	wall        *prometheus.Desc
	user        *prometheus.Desc
	system      *prometheus.Desc
	unaccounted *prometheus.Desc
	resumes     *prometheus.Desc
	group       *prometheus.Desc
}

// NewCollector creates a collector. An empty namespace means
// DefaultNamespace.
func NewCollector(namespace string, source func() timekeeper.Result) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	labels := []string{"path"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		source:      source,
		wall:        desc("wall_seconds", "Accumulated wall-clock time per timer (sum of children for groups)"),
		user:        desc("user_seconds", "Accumulated user CPU time per timer (sum of children for groups)"),
		system:      desc("system_seconds", "Accumulated system CPU time per timer (sum of children for groups)"),
		unaccounted: desc("unaccounted_wall_seconds", "Wall-clock time of a timer not covered by its children"),
		resumes:     desc("resumes_total", "Number of times a timer was resumed"),
		group:       desc("group", "Whether the timer is a pure aggregation group (1) or a leaf (0)"),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.wall
	ch <- c.user
	ch <- c.system
	ch <- c.unaccounted
	ch <- c.resumes
	ch <- c.group
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	res := c.source()
	for _, p := range Paths(res) {
		r := p.Result
		ch <- prometheus.MustNewConstMetric(c.wall, prometheus.GaugeValue, r.Duration.Wall.Seconds(), p.Path)
		ch <- prometheus.MustNewConstMetric(c.user, prometheus.GaugeValue, r.Duration.User.Seconds(), p.Path)
		ch <- prometheus.MustNewConstMetric(c.system, prometheus.GaugeValue, r.Duration.System.Seconds(), p.Path)
		ch <- prometheus.MustNewConstMetric(c.resumes, prometheus.CounterValue, float64(r.Count), p.Path)

		group := 0.0
		if r.IsGroup() {
			group = 1
		}
		ch <- prometheus.MustNewConstMetric(c.group, prometheus.GaugeValue, group, p.Path)

		if !r.IsGroup() && len(r.Children) > 0 {
			ch <- prometheus.MustNewConstMetric(c.unaccounted, prometheus.GaugeValue, r.Unaccounted().Wall.Seconds(), p.Path)
		}
	}
}

// PathResult pairs a snapshot node with its slash-joined path
type PathResult struct {
	Path   string
	Result *timekeeper.Result
}

// pathEscaper keeps "/" and "#" out of path elements so joined paths
// cannot collide with nested or suffixed ones
var pathEscaper = strings.NewReplacer("%", "%25", "/", "%2F", "#", "%23")

// Paths lists every node of r with a unique path. Node names are escaped
// ("%", "/" and "#" become %25, %2F and %23) and sibling names that repeat
// get a "#n" suffix from the second occurrence on.
func Paths(r timekeeper.Result) []PathResult {
	var out []PathResult
	var visit func(path string, res *timekeeper.Result)
	visit = func(path string, res *timekeeper.Result) {
		out = append(out, PathResult{Path: path, Result: res})
		seen := make(map[string]int, len(res.Children))
		for i := range res.Children {
			ch := &res.Children[i]
			name := pathEscaper.Replace(ch.Name)
			seen[name]++
			if n := seen[name]; n > 1 {
				name = fmt.Sprintf("%s#%d", name, n)
			}
			visit(path+timekeeper.PathSeparator+name, ch)
		}
	}
	visit(pathEscaper.Replace(r.Name), &r)
	return out
}

// WritePrometheus writes r in the Prometheus text exposition format
func WritePrometheus(w io.Writer, namespace string, r timekeeper.Result) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(namespace, func() timekeeper.Result { return r })); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
