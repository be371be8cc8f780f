package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/psantana5/timekeeper/internal/config"
	"github.com/psantana5/timekeeper/pkg/logging"
	"github.com/psantana5/timekeeper/pkg/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "timekeeper",
	Short: "Hierarchical wall/user/system timers",
	Long: `timekeeper runs instrumented workloads and reports wall-clock, user-CPU
and system-CPU time per named region as a tree.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.timekeeper/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, yaml or prometheus")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON lines")
	rootCmd.PersistentFlags().String("log-file", "", "also append logs to this file")
	rootCmd.PersistentFlags().String("layout", "", "YAML timer layout (default: built-in main/foo/bar/baz/fib)")

	for _, name := range []string{"output", "log-level", "log-json", "log-file", "layout"} {
		viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".timekeeper"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TIMEKEEPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

// newLogger builds the command logger from configuration. Every command
// run gets a fresh run_id so log lines of one run can be grepped together.
func newLogger() (*logging.Logger, error) {
	level := logging.ParseLevel(viper.GetString("log_level"))
	jsonFormat := viper.GetBool("log_json")

	var logger *logging.Logger
	if path := viper.GetString("log_file"); path != "" {
		l, err := logging.NewFileLogger(path, level, jsonFormat)
		if err != nil {
			return nil, err
		}
		logger = l
	} else {
		logger = logging.NewLogger(level, jsonFormat)
	}
	return logger.WithField("run_id", uuid.New().String()), nil
}

// outputFormat returns the validated --output value
func outputFormat() (report.Format, error) {
	return report.ParseFormat(viper.GetString("output"))
}

// loadLayout returns the --layout file, or the built-in layout
func loadLayout() (config.Layout, error) {
	path := viper.GetString("layout")
	if path == "" {
		return config.DefaultLayout(), nil
	}
	return config.LoadLayout(path)
}
