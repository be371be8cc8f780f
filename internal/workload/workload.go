package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/psantana5/timekeeper/internal/config"
	"github.com/psantana5/timekeeper/pkg/timekeeper"
	"golang.org/x/sync/errgroup"
)

// Options shape the synthetic work done inside each timed region
type Options struct {
	Iterations int
	Spin       time.Duration // CPU burned per leaf call
	Sleep      time.Duration // idle time in foo, so wall and CPU diverge
	FibN       int           // argument of the recursive, self-timed fib
}

// DefaultOptions keeps a demo run well under a second
func DefaultOptions() Options {
	return Options{
		Iterations: 3,
		Spin:       2 * time.Millisecond,
		Sleep:      3 * time.Millisecond,
		FibN:       15,
	}
}

// Run executes the demo against the tree in ctx:
//
//	main
//	├ foo
//	├ bar
//	│ ╰ baz
//	╰ fib (recursive)
//
// Regions missing from the tree run untimed. Cancellation is checked
// between iterations.
func Run(ctx context.Context, opts Options) error {
	tree, ok := timekeeper.FromContext(ctx)
	if !ok {
		return fmt.Errorf("no timer tree in context")
	}
	root := tree.Root().Name()
	p := func(rel string) string { return root + timekeeper.PathSeparator + rel }

	for i := 0; i < opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		work(ctx, opts, root, p)
	}
	return nil
}

func work(ctx context.Context, opts Options, root string, p func(string) string) {
	defer timekeeper.TimeContext(ctx, root)()
	foo(ctx, opts, p)
	bar(ctx, opts, p)
	foo(ctx, opts, p)
	fib(ctx, opts.FibN, p("fib"))
}

func foo(ctx context.Context, opts Options, p func(string) string) {
	defer timekeeper.TimeContext(ctx, p("foo"))()
	spin(opts.Spin)
	time.Sleep(opts.Sleep)
}

func bar(ctx context.Context, opts Options, p func(string) string) {
	defer timekeeper.TimeContext(ctx, p("bar"))()
	spin(opts.Spin)
	baz(ctx, opts, p)
}

func baz(ctx context.Context, opts Options, p func(string) string) {
	defer timekeeper.TimeContext(ctx, p("bar/baz"))()
	spin(opts.Spin)
}

// fib times itself on every call; only the outermost call opens an interval
func fib(ctx context.Context, n int, path string) int {
	defer timekeeper.TimeContext(ctx, path)()
	if n < 2 {
		return n
	}
	return fib(ctx, n-1, path) + fib(ctx, n-2, path)
}

func spin(d time.Duration) {
	deadline := time.Now().Add(d)
	x := 0
	for time.Now().Before(deadline) {
		x++
	}
	_ = x
}

// Parallel runs the demo on n goroutines. Each goroutine gets its own tree
// built from layout, because a timer must not be resumed from two
// goroutines at once; the per-goroutine snapshots are merged.
func Parallel(ctx context.Context, layout config.Layout, n int, opts Options, treeOpts ...timekeeper.Option) (timekeeper.Result, error) {
	if n < 1 {
		n = 1
	}
	results := make([]timekeeper.Result, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			tree, err := layout.Build(treeOpts...)
			if err != nil {
				return err
			}
			if err := Run(timekeeper.NewContext(gctx, tree), opts); err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			results[i] = tree.Snapshot()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return timekeeper.Result{}, err
	}
	return timekeeper.Merge(results...), nil
}
