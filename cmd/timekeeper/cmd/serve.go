package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/psantana5/timekeeper/internal/workload"
	"github.com/psantana5/timekeeper/pkg/logging"
	"github.com/psantana5/timekeeper/pkg/report"
	"github.com/psantana5/timekeeper/pkg/timekeeper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo workload continuously and export timings over HTTP",
	Long: `Runs the demo workload in a loop and serves the live timer tree:

  GET  /metrics   Prometheus exposition
  GET  /snapshot  JSON snapshot
  POST /reset     clear all timers
  GET  /health

Example:
  timekeeper serve --listen :9100 --interval 500ms`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":9100", "HTTP listen address")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", time.Second, "pause between workload iterations")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

// liveTree serializes the workload and every reader of its timer tree.
// Timers have no locking of their own.
type liveTree struct {
	mu   sync.Mutex
	tree *timekeeper.Tree
}

func (l *liveTree) snapshot() timekeeper.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Snapshot()
}

func (l *liveTree) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree.Reset()
}

// iterate runs one workload iteration while holding the lock
func (l *liveTree) iterate(ctx context.Context, opts workload.Options) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	opts.Iterations = 1
	return workload.Run(timekeeper.NewContext(ctx, l.tree), opts)
}

func newRouter(live *liveTree, logger *logging.Logger) (*mux.Router, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(report.NewCollector(report.DefaultNamespace, live.snapshot)); err != nil {
		return nil, fmt.Errorf("failed to register collector: %w", err)
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w, live.snapshot()); err != nil {
			logger.Error("Failed to write snapshot", logging.Fields{"error": err.Error()})
		}
	}).Methods("GET")
	router.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		live.reset()
		logger.Info("Timers reset", logging.Fields{"remote": r.RemoteAddr})
		w.WriteHeader(http.StatusNoContent)
	}).Methods("POST")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")
	return router, nil
}

// runWorkload iterates the workload every interval until ctx is done or an
// iteration fails
func runWorkload(ctx context.Context, live *liveTree, logger *logging.Logger, interval time.Duration, opts workload.Options) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := live.iterate(ctx, opts); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Workload iteration failed", logging.Fields{"error": err.Error()})
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	layout, err := loadLayout()
	if err != nil {
		return err
	}
	tree, err := layout.Build()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	live := &liveTree{tree: tree}
	router, err := newRouter(live, logger)
	if err != nil {
		return err
	}

	addr := viper.GetString("listen")
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", logging.Fields{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runWorkload(ctx, live, logger, serveInterval, demoOpts)
	}()
	// Join the workload on every return path
	defer func() {
		cancel()
		wg.Wait()
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Metrics server listening", logging.Fields{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	cancel()
	wg.Wait()
	logger.Info("Workload stopped")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
