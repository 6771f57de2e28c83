package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixelate/internal/pixelate"
)

var (
	version = "dev"
	commit  string
	date    string

	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pixelate",
	Short: "Pixelate images by block averaging",
	Long: `pixelate replaces every square block of an image with the block's
average color, writing the result after each block so the output can be
watched while it is produced.

Blocks are rendered either in a single row-major pass (mode S) or across
block-aligned column partitions in parallel (mode M). Both modes produce
the same image.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is specified, show help
		return cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		pixelate.SetLogger(newLogger(cmd.ErrOrStderr(), verbose))
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Log every block and flush")

	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newServeCmd())
}

// newLogger returns a text logger on w. Debug output is enabled by --verbose
// or PIXELATE_LOG_LEVEL=debug; otherwise only warnings and errors are shown so
// the progress line stays readable.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("PIXELATE_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
