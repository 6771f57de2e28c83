package commands

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixelate/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP (Model Context Protocol) server. Requests are read from
stdin and responses written to stdout, one JSON-RPC message per line.
Configure it in your MCP client rather than running it by hand.

Environment variables:
  PIXELATE_LOG_LEVEL=debug    Enable debug logging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout is for MCP protocol
			log.SetOutput(os.Stderr)
			log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

			if os.Getenv("PIXELATE_LOG_LEVEL") == "debug" {
				log.Printf("pixelate MCP server %s (built %s, commit %s)", version, date, commit)
			}

			srv := server.New()
			srv.SetVersion(version)
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
