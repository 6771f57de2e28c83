package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ironsheep/pixelate/internal/config"
	"github.com/ironsheep/pixelate/internal/display"
	"github.com/ironsheep/pixelate/internal/imaging"
	"github.com/ironsheep/pixelate/internal/pixelate"
	"github.com/ironsheep/pixelate/internal/printer"
)

type renderOptions struct {
	output     string
	workers    int
	configPath string
	quality    int
	redisAddr  string
	channel    string
	timeout    time.Duration
	noProgress bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file> <square-size> <S|M>",
		Short: "Pixelate an image",
		Long: `Pixelate an image by replacing every square block with its average color.

The output file is rewritten after every block. Its format follows the
extension: .jpg/.jpeg, .png or .bmp.

Modes:
  S - sequential: blocks are rendered row by row, left to right
  M - partitioned: the width is split into block-aligned column ranges,
      one per worker, rendered in parallel

Values from --config are applied first; positional arguments and flags
override them.

Examples:
  # Pixelate with 12px blocks, one pass
  pixelate render photo.jpg 12 S

  # Use 8 workers and write a PNG
  pixelate render photo.jpg 12 M --workers 8 --output mosaic.png

  # Publish refresh events for an external viewer
  pixelate render photo.jpg 20 M --redis localhost:6379`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", config.DefaultOutput, "Output file (.jpg, .png or .bmp)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Worker count for mode M (0 = one per CPU)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a pixelate.yml file")
	cmd.Flags().IntVarP(&opts.quality, "quality", "q", imaging.DefaultJPEGQuality, "JPEG quality (1-100)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Publish refresh events to this Redis server")
	cmd.Flags().StringVar(&opts.channel, "channel", display.DefaultChannel, "Redis channel for refresh events")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the render after this long (0 = no limit)")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress line")

	return cmd
}

// resolveConfig merges the config file, positional arguments and flags that
// were set explicitly, then validates the result.
func resolveConfig(cmd *cobra.Command, args []string, opts *renderOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, printer.Error(
				"failed to load configuration",
				err.Error(),
				[]string{fmt.Sprintf("Check that %s exists and is valid YAML", opts.configPath)},
			)
		}
		cfg = loaded
	}

	size, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, printer.Error(
			"invalid square size",
			fmt.Sprintf("%q is not an integer", args[1]),
			[]string{"Pass the block side in pixels, e.g. 'pixelate render photo.jpg 12 S'"},
		)
	}
	cfg.SquareSize = size
	cfg.Mode = args[2]

	flags := cmd.Flags()
	if flags.Changed("output") || opts.configPath == "" {
		cfg.Output = opts.output
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("quality") {
		cfg.JPEGQuality = opts.quality
	}
	if flags.Changed("redis") {
		cfg.Notify.RedisAddr = opts.redisAddr
	}
	if flags.Changed("channel") {
		cfg.Notify.Channel = opts.channel
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if opts.noProgress {
		off := false
		cfg.Progress = &off
	}

	if err := cfg.Validate(); err != nil {
		return nil, printer.Error(
			"invalid parameters",
			err.Error(),
			[]string{
				"Usage: pixelate render <file> <square-size> <S|M>",
				"Square size must be a positive integer; mode is S or M",
			},
		)
	}
	return cfg, nil
}

func runRender(cmd *cobra.Command, args []string, opts *renderOptions) error {
	start := time.Now()
	file := args[0]

	if _, err := os.Stat(file); err != nil {
		return printer.Error(
			"input file not found",
			err.Error(),
			[]string{"Check the file name and path"},
		)
	}
	printer.Success("File Name: %s\n", file)

	cfg, err := resolveConfig(cmd, args, opts)
	if err != nil {
		return err
	}
	mode, _ := cfg.ParsedMode()
	printer.Success("Square Size: %d\n", cfg.SquareSize)
	printer.Success("Mode: %s\n", mode)

	store := &imaging.FileStore{Quality: cfg.JPEGQuality}
	if _, err := store.EncoderFor(cfg.Output); err != nil {
		return printer.Error(
			"unsupported output format",
			err.Error(),
			[]string{"Use an output name ending in .jpg, .png or .bmp"},
		)
	}

	cache := imaging.NewImageCache()
	source, result, err := imaging.LoadBuffers(cache, file)
	if err != nil {
		return printer.Error(
			"failed to load image",
			err.Error(),
			[]string{"Supported inputs: PNG, JPEG, GIF, BMP, TIFF, WebP"},
		)
	}
	printer.Info("Image: %dx%d, %d blocks\n", source.Width(), source.Height(),
		pixelate.TotalBlocks(source.Width(), source.Height(), cfg.SquareSize))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var displays display.Multi
	var term *display.Terminal
	if cfg.ShowProgress() {
		term = display.NewTerminal(pixelate.TotalBlocks(source.Width(), source.Height(), cfg.SquareSize))
		term.Output = cmd.ErrOrStderr()
		displays = append(displays, term)
	}
	if cfg.Notify.RedisAddr != "" {
		notifier, err := display.NewRedisNotifier(&redis.Options{Addr: cfg.Notify.RedisAddr}, cfg.Notify.Channel)
		if err != nil {
			return printer.Error("invalid Redis configuration", err.Error(), nil)
		}
		defer notifier.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := notifier.Ping(pingCtx); err != nil {
			printer.Warning("Redis at %s is not reachable, refresh events will be dropped: %v\n", cfg.Notify.RedisAddr, err)
		} else {
			printer.Success("Refresh events: %s on %s\n", cfg.Notify.Channel, cfg.Notify.RedisAddr)
		}
		cancel()
		displays = append(displays, notifier)
	}

	job := pixelate.NewRenderJob(cfg.SquareSize, mode, cfg.Output)
	job.Workers = cfg.Workers

	// Viewers get the unmodified image before the first block lands
	if err := store.Save(ctx, result, cfg.Output); err != nil {
		return printer.Error(
			"failed to write output",
			err.Error(),
			[]string{"Check that the output directory exists and is writable"},
		)
	}

	out := pixelate.NewOutputSync(job, result, store, displays)
	stats, err := pixelate.Run(ctx, job, source, out)
	if term != nil {
		term.Finish()
	}
	if err != nil {
		return renderError(err, cfg)
	}

	printer.Success("Wrote %s: %d blocks, %d pixels, %d flushes\n", cfg.Output, stats.Blocks, stats.Pixels, out.Flushes())
	printer.Info("Total execution time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// renderError turns a render failure into a user-facing error.
func renderError(err error, cfg *config.Config) error {
	var suggestions []string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return printer.Error(
			"render timed out",
			fmt.Sprintf("The render did not finish within %s. Blocks already written remain in %s.", cfg.Timeout, cfg.Output),
			[]string{"Increase --timeout or use a larger square size"},
		)
	case errors.Is(err, context.Canceled):
		return printer.Error(
			"render interrupted",
			fmt.Sprintf("Blocks already written remain in %s.", cfg.Output),
			nil,
		)
	case errors.Is(err, pixelate.ErrStorageFailure):
		suggestions = []string{
			"Check free disk space and permissions for " + cfg.Output,
			"Blocks written before the failure remain in the output",
		}
	}

	explanation := err.Error()
	var perr *pixelate.PartitionError
	if errors.As(err, &perr) {
		explanation = fmt.Sprintf("%d partition(s) failed, %d completed. First failure in partition %d [%d,%d): %v",
			perr.Failed, perr.Completed, perr.Partition, perr.Range.XStart, perr.Range.XEnd, perr.Err)
	}
	return printer.Error("render failed", explanation, suggestions)
}
