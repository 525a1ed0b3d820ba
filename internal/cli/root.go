// Package cli implements the blk-extract CLI commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/blk-extract/internal/extract"
	"github.com/rcliao/blk-extract/internal/output"
	"github.com/rcliao/blk-extract/internal/store"
)

const crashlogFile = "blk-extract-crashlog.log"

var (
	dbPath   string
	logLevel string
	logPath  string
	crashlog bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "blk-extract",
	Short: "War Thunder datamining extraction tools",
	Long:  "Extracts weapon presets and ammunition types from unpacked .blk/.blkx files and builds a per-unit database.",

	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $BLK_EXTRACT_DB or ~/.blk-extract/units.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "warn", "Log level: trace, debug, info, warn, error")
	RootCmd.PersistentFlags().StringVar(&logPath, "log_path", "", "Also write logs to this file")
	RootCmd.PersistentFlags().BoolVar(&crashlog, "crashlog", false, "Log at maximum level and write a logfile to aid in debugging")
}

// logLevels are the accepted --log_level values.
var logLevels = map[string]zerolog.Level{
	"trace": zerolog.TraceLevel,
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

func parseLogLevel(s string) (zerolog.Level, error) {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return zerolog.NoLevel, fmt.Errorf("incorrect log level %q, expected one of trace, debug, info, warn, error", s)
	}
	return level, nil
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return err
	}
	path := logPath
	if crashlog {
		level = zerolog.TraceLevel
		if path == "" {
			path = crashlogFile
		}
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("BLK_EXTRACT_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".blk-extract", "units.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// addScanFlags registers the flags shared by the extraction commands.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input_dir", "i", "", "Folder with .blk/.blkx files inside (required)")
	cmd.Flags().Int("workers", runtime.NumCPU(), "Files processed in parallel")
	cmd.MarkFlagRequired("input_dir")
}

// scanInput runs the directory scan configured by the command's flags.
func scanInput(cmd *cobra.Command) (string, *extract.Summary) {
	inputDir, _ := cmd.Flags().GetString("input_dir")
	workers, _ := cmd.Flags().GetInt("workers")

	sum, err := extract.Scan(cmd.Context(), inputDir, extract.Options{Workers: workers})
	if err != nil {
		exitErr("scan", err)
	}
	log.Info().
		Int("files", len(sum.Results)).
		Int("skipped", len(sum.Skipped)).
		Int("failed", sum.Failed).
		Msg("scan complete")
	return inputDir, sum
}

func writeOutput(path string, v any) {
	if err := output.WriteJSON(path, v); err != nil {
		exitErr("write output", err)
	}
}
