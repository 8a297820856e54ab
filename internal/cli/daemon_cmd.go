package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentroom/agentroom/internal/config"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the agentroom daemon",
	Long:  `Manage the agentroomd process that reads session files and serves snapshots.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running && info != nil {
		fmt.Printf("Daemon is already running (PID %d, port %d).\n", info.PID, info.Port)
		return nil
	}

	// Clean up stale daemon info if it exists
	if info != nil {
		_ = config.RemoveDaemonInfo()
	}

	fmt.Print("Starting daemon...")
	if startErr := startDaemon(); startErr != nil {
		fmt.Println()
		return startErr
	}

	_, fresh, err := config.IsDaemonRunning()
	if err != nil || fresh == nil {
		fmt.Println(" started.")
		return nil
	}

	fmt.Printf(" started (PID %d, port %d).\n", fresh.PID, fresh.Port)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return err
	}

	if !running || info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)

	fmt.Println(styleSuccess.Render("Daemon is running."))
	fmt.Printf("  %s  %s\n", styleLabel.Render("Host:       "), info.Host)
	fmt.Printf("  %s  %d\n", styleLabel.Render("Port:       "), info.Port)
	fmt.Printf("  %s  %d\n", styleLabel.Render("PID:        "), info.PID)
	fmt.Printf("  %s  %s\n", styleLabel.Render("Uptime:     "), uptime)
	fmt.Printf("  %s  %s\n", styleLabel.Render("Agents root:"), info.AgentsRoot)

	// Live counters are best effort: the daemon may still be starting.
	conn, client, err := connectDaemon()
	if err != nil {
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
	defer cancel()
	st, err := client.GetStatus(ctx)
	if err != nil {
		fmt.Printf("\n%s %v\n", styleWarning.Render("Could not query daemon:"), err)
		return nil
	}

	fmt.Println()
	fmt.Printf("  %s  %d (%d active)\n", styleLabel.Render("Sessions:   "), st.Sessions, st.ActiveSessions)
	fmt.Printf("  %s  %d\n", styleLabel.Render("Files:      "), st.Files)
	fmt.Printf("  %s  %d\n", styleLabel.Render("Observers:  "), st.Observers)
	fmt.Printf("  %s  %d\n", styleLabel.Render("Lines read: "), st.LinesFolded)
	if st.ParseErrors > 0 || st.ReadErrors > 0 {
		fmt.Printf("  %s  %s\n", styleLabel.Render("Errors:     "),
			styleError.Render(fmt.Sprintf("%d parse, %d read", st.ParseErrors, st.ReadErrors)))
	}
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running || info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	if err := requestShutdown(cmd.Context()); err != nil {
		// Fall back to a signal when the RPC is unreachable.
		process, err := os.FindProcess(info.PID)
		if err != nil {
			return fmt.Errorf("failed to find daemon process: %w", err)
		}
		if err := process.Signal(syscall.SIGTERM); err != nil {
			return fmt.Errorf("failed to send stop signal: %w", err)
		}
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		if !config.ProcessAlive(info.PID) {
			_ = config.RemoveDaemonInfo()
			fmt.Println("Daemon stopped.")
			return nil
		}
	}

	return fmt.Errorf("daemon did not stop within timeout")
}

func requestShutdown(ctx context.Context) error {
	conn, client, err := connectDaemon()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return client.Shutdown(ctx)
}
