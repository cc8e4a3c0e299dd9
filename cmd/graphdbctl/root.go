package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/log"
)

type invocationIDKey struct{}

func withInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey{}, id)
}

func invocationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(invocationIDKey{}).(string)
	return id
}

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "graphdbctl",
	Short: "graphdbctl - operate an embedded graph storage environment",
	Long: `graphdbctl opens an on-disk graph storage environment and runs a single
schema or data operation per invocation: create classes and properties,
declare secondary indexes, add vertices and edges, and run find/traverse
queries against them.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("graphdbctl version %s (%s)\n", Version, Commit))

	rootCmd.PersistentFlags().String("dir", "./graphdb-data", "environment directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "output logs in JSON format")
	rootCmd.PersistentFlags().String("metrics-addr", "", "if set, serve Prometheus metrics on this address while the command runs")
	rootCmd.PersistentFlags().String("config", "", "YAML file supplying defaults for the flags above")

	cobra.OnInitialize(func() {
		if err := applyFileConfig(rootCmd, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		initLogging()
	})

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(classCmd)
	rootCmd.AddCommand(propertyCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(vertexCmd)
	rootCmd.AddCommand(edgeCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(traverseCmd)
}

// applyFileConfig loads --config, if set, and fills in any of --dir,
// --log-level, --log-json, --metrics-addr the caller did not pass explicitly.
func applyFileConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil
	}
	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if cfg.Dir != "" && !flags.Changed("dir") {
		_ = flags.Set("dir", cfg.Dir)
	}
	if cfg.LogLevel != "" && !flags.Changed("log-level") {
		_ = flags.Set("log-level", cfg.LogLevel)
	}
	if cfg.LogJSON && !flags.Changed("log-json") {
		_ = flags.Set("log-json", "true")
	}
	if cfg.MetricsAddr != "" && !flags.Changed("metrics-addr") {
		_ = flags.Set("metrics-addr", cfg.MetricsAddr)
	}
	return nil
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
