package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	statusJSON bool
	statusAll  bool
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"ls"},
	Short:   "Show what every agent is doing",
	Long: `Request a fresh snapshot from the daemon and print sessions grouped by
project. Inactive sessions are hidden unless --all is given.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the raw snapshot as JSON")
	statusCmd.Flags().BoolVarP(&statusAll, "all", "a", false, "Include inactive sessions")
}

func runStatus(cmd *cobra.Command, args []string) error {
	conn, client, err := connectDaemon()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	state, err := client.GetState(ctx)
	if err != nil {
		return rpcError("failed to get state", err)
	}

	if statusJSON {
		return writeJSON(os.Stdout, state)
	}

	opts := defaultOutputOptions(os.Stdout)
	opts.All = statusAll
	writeStateTable(os.Stdout, state, opts)
	return nil
}
