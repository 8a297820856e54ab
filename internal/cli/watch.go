package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentroom/agentroom/internal/tui"
)

var watchAll bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow agent activity live",
	Long:  `Open a live view fed by the daemon's push stream. Press q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := EnsureDaemon(); err != nil {
			return err
		}
		return tui.Run(tui.Options{ShowAll: watchAll})
	},
}

func init() {
	watchCmd.Flags().BoolVarP(&watchAll, "all", "a", false, "Include inactive sessions")
}
