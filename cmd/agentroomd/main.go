// Package main is the entry point for the agentroomd daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/agentroom/agentroom/internal/buildinfo"
	"github.com/agentroom/agentroom/internal/config"
	"github.com/agentroom/agentroom/internal/daemon/server"
	"github.com/agentroom/agentroom/internal/daemon/tracker"
	"github.com/agentroom/agentroom/internal/daemon/watcher"
	"github.com/agentroom/agentroom/internal/models"
	"github.com/agentroom/agentroom/internal/telemetry"
)

func main() {
	// Parse flags
	port := flag.Int("port", -1, "Port to listen on (0 for dynamic allocation, default from settings)")
	host := flag.String("host", "", "Address to listen on (default from settings)")
	root := flag.String("root", "", "Agents root directory (default from settings)")
	settingsPath := flag.String("settings", "", "Path to settings.yaml (default ~/.agentroom/settings.yaml)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("agentroomd %s (%s)\n", buildinfo.Version, buildinfo.CommitHash)
		return
	}

	log.SetPrefix("[agentroomd] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure global directory exists
	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	settings, err := loadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *port >= 0 {
		settings.Listen.Port = *port
	}
	if *host != "" {
		settings.Listen.Host = *host
	}
	if *root != "" {
		expanded, err := config.ExpandHome(*root)
		if err != nil {
			log.Fatalf("Invalid agents root: %v", err)
		}
		settings.AgentsRoot = expanded
	}

	// Check if daemon is already running
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	if err := run(settings); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Println("Daemon stopped")
}

func loadSettings(path string) (*models.Settings, error) {
	if path == "" {
		return config.LoadSettings()
	}
	return config.LoadSettingsFrom(path)
}

// run wires the watcher, tracker and server together and blocks until a
// signal or a Shutdown RPC arrives.
func run(settings *models.Settings) error {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Cannot resolve home directory, project names keep the full path: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr := tracker.New(tracker.Options{
		Root:        settings.AgentsRoot,
		SessionsDir: settings.SessionsDir,
		Extension:   settings.Extension,
		Home:        home,
		StaleAfter:  settings.StaleAfter,
		EvictAfter:  settings.EvictAfter,
	})

	w, err := watcher.New(watcher.Options{
		Root:        settings.AgentsRoot,
		SessionsDir: settings.SessionsDir,
		Extension:   settings.Extension,
		Debounce:    settings.Debounce,
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	log.Printf("Watching %d session directories under %s", len(w.Dirs()), settings.AgentsRoot)

	runDone := make(chan error, 1)
	go func() {
		runDone <- tr.Run(ctx)
	}()
	go tr.Follow(ctx, w.Events())

	srv, err := server.New(server.Options{
		Host:       settings.Listen.Host,
		Port:       settings.Listen.Port,
		AgentsRoot: settings.AgentsRoot,
		Tracker:    tr,
		Shutdown:   cancel,
	})
	if err != nil {
		cancel()
		<-runDone
		return fmt.Errorf("failed to create server: %w", err)
	}

	daemonInfo := models.NewDaemonInfo(settings.Listen.Host, srv.Port(), os.Getpid(), settings.AgentsRoot)
	if err := config.SaveDaemonInfo(daemonInfo); err != nil {
		srv.Stop()
		cancel()
		<-runDone
		return fmt.Errorf("failed to write daemon info: %w", err)
	}
	defer func() {
		if err := config.RemoveDaemonInfo(); err != nil {
			log.Printf("Failed to remove daemon info: %v", err)
		}
	}()

	log.Printf("Daemon started on %s (PID %d)", srv.Addr(), os.Getpid())

	reporter := telemetry.New(settings.Telemetry)
	defer reporter.Close()
	reporter.Capture(telemetry.EventDaemonStarted, counts(tr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case <-ctx.Done():
		log.Println("Shutdown requested, shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	reporter.Capture(telemetry.EventDaemonStopped, counts(tr))

	// Stopping the tracker closes the hub, which ends every observer stream
	// before the server drains connections.
	cancel()
	<-runDone
	srv.Stop()
	return nil
}

func counts(tr *tracker.Tracker) telemetry.Counts {
	st := tr.Stats()
	return telemetry.Counts{
		Files:       st.Files,
		Sessions:    st.Sessions,
		ParseErrors: st.ParseErrors,
		ReadErrors:  st.ReadErrors,
	}
}
