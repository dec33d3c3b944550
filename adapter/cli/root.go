package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	jsonOutput bool
	logger     *slog.Logger
)

type runStartedKey struct{}

var rootCmd = &cobra.Command{
	Use:   "schedly",
	Short: "Schedly - group meeting time recommendations",
	Long: `Schedly finds the meeting windows that suit the most members of a group.

It keeps each member's busy intervals, scores every candidate window of a
working day by how many members are free, and caches the result until a
member's schedule changes.`,
	SilenceUsage:      true,
	PersistentPreRun:  beginRun,
	PersistentPostRun: endRun,
}

// beginRun gives every invocation its own correlation ID, which ends up on
// log records and on the events the command writes.
func beginRun(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = observability.WithCorrelationID(ctx, "")
	ctx = context.WithValue(ctx, runStartedKey{}, time.Now())
	cmd.SetContext(ctx)
	runLogger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
}

func endRun(cmd *cobra.Command, _ []string) {
	started, ok := cmd.Context().Value(runStartedKey{}).(time.Time)
	if !ok {
		return
	}
	runLogger().DebugContext(cmd.Context(), "command end",
		"command", cmd.CommandPath(),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

func runLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}

// JSONOutput reports whether --json was given.
func JSONOutput() bool {
	return jsonOutput
}

// SetJSONOutput overrides --json, mostly for tests.
func SetJSONOutput(enabled bool) {
	jsonOutput = enabled
}
