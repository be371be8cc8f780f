package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/psantana5/timekeeper/internal/config"
	"github.com/psantana5/timekeeper/internal/workload"
	"github.com/psantana5/timekeeper/pkg/logging"
	"github.com/psantana5/timekeeper/pkg/report"
	"github.com/psantana5/timekeeper/pkg/timekeeper"
	"github.com/spf13/cobra"
)

var demoOpts = workload.DefaultOptions()

var demoParallel int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the instrumented demo workload and print its timings",
	Long: `Runs main{foo, bar{baz}, fib} for a number of iterations and prints the
resulting timer tree.

With --parallel N the workload runs on N goroutines, each with its own
timer tree, and the snapshots are merged before printing.

Example:
  timekeeper demo
  timekeeper demo --iterations 10 --output json
  timekeeper demo --parallel 4 --layout layout.yaml`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVar(&demoOpts.Iterations, "iterations", demoOpts.Iterations, "number of times main runs")
	demoCmd.Flags().DurationVar(&demoOpts.Spin, "spin", demoOpts.Spin, "CPU time burned per leaf call")
	demoCmd.Flags().DurationVar(&demoOpts.Sleep, "sleep", demoOpts.Sleep, "idle time per foo call")
	demoCmd.Flags().IntVar(&demoOpts.FibN, "fib", demoOpts.FibN, "argument of the recursive fib region")
	demoCmd.Flags().IntVar(&demoParallel, "parallel", 1, "number of goroutines, one timer tree each")
}

func runDemo(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	layout, err := loadLayout()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	res, err := demo(cmd.Context(), logger, layout, demoParallel, demoOpts)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), format, res)
}

func demo(ctx context.Context, logger *logging.Logger, layout config.Layout, parallel int, opts workload.Options) (timekeeper.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	logger.Info("Demo started", logging.Fields{
		"root":       layout.Name,
		"iterations": opts.Iterations,
		"parallel":   parallel,
	})

	var res timekeeper.Result
	if parallel > 1 {
		merged, err := workload.Parallel(ctx, layout, parallel, opts)
		if err != nil {
			return timekeeper.Result{}, fmt.Errorf("parallel demo failed: %w", err)
		}
		res = merged
	} else {
		tree, err := layout.Build()
		if err != nil {
			return timekeeper.Result{}, err
		}
		if err := workload.Run(timekeeper.NewContext(ctx, tree), opts); err != nil {
			return timekeeper.Result{}, fmt.Errorf("demo failed: %w", err)
		}
		res = tree.Snapshot()
	}

	if logger.Level() <= logging.DEBUG {
		report.LogSummary(logger.WithField("phase", "summary"), res)
	}
	logger.Info("Demo finished", logging.Fields{"elapsed": time.Since(start).String()})
	return res, nil
}

func printResult(w io.Writer, format report.Format, res timekeeper.Result) error {
	return report.Write(w, format, res)
}
