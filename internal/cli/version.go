package cli

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentroom/agentroom/internal/buildinfo"
	"github.com/agentroom/agentroom/internal/config"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show CLI and daemon version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("  %s %s\n", styleBrand.Render("agentroom"), styleVersion.Render(buildinfo.Version))

		fields := [][2]string{
			{"Commit ", buildinfo.CommitHash},
			{"Built  ", buildinfo.BuildDate},
			{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
			{"Go     ", runtime.Version()},
			{"Daemon ", daemonVersion()},
		}
		for _, f := range fields {
			fmt.Printf("    %s  %s\n", styleLabel.Render(f[0]), styleValue.Render(f[1]))
		}
	},
}

// daemonVersion asks a running daemon for its version.
func daemonVersion() string {
	running, _, err := config.IsDaemonRunning()
	if err != nil || !running {
		return "not running"
	}
	conn, client, err := connectDaemon()
	if err != nil {
		return "unreachable"
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := client.GetStatus(ctx)
	if err != nil {
		return "unreachable"
	}
	return st.Version
}
