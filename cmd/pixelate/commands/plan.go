package commands

import (
	"fmt"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixelate/internal/pixelate"
	"github.com/ironsheep/pixelate/internal/printer"
)

func newPlanCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "plan <width> <square-size>",
		Short: "Show the column partitions of a partitioned render",
		Long: `Show how mode M splits an image of the given width into block-aligned
column ranges, one per worker. Ranges can be empty when there are more
workers than block columns; empty ranges get no worker.

Examples:
  pixelate plan 1920 16
  pixelate plan 10 4 --workers 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := strconv.Atoi(args[0])
			if err != nil {
				return printer.Error("invalid width", fmt.Sprintf("%q is not an integer", args[0]), nil)
			}
			size, err := strconv.Atoi(args[1])
			if err != nil {
				return printer.Error("invalid square size", fmt.Sprintf("%q is not an integer", args[1]), nil)
			}
			if workers <= 0 {
				workers = runtime.NumCPU()
			}

			parts, err := pixelate.Partitions(width, size, workers)
			if err != nil {
				return printer.Error(
					"cannot partition",
					err.Error(),
					[]string{"Width and square size must be positive, workers at least 1"},
				)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PARTITION\tX_START\tX_END\tWIDTH\tBLOCK COLUMNS")
			for i, p := range parts {
				cols := "-"
				if !p.Empty() {
					cols = fmt.Sprintf("%d-%d", p.XStart/size, (p.XEnd-1)/size)
				}
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\n", i, p.XStart, p.XEnd, p.Width(), cols)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker count (0 = one per CPU)")
	return cmd
}
