// Package telemetry sends opt-in daemon lifecycle events to PostHog.
package telemetry

import (
	"log"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/agentroom/agentroom/internal/buildinfo"
	"github.com/agentroom/agentroom/internal/models"
)

// Event names.
const (
	EventDaemonStarted = "daemon_started"
	EventDaemonStopped = "daemon_stopped"
)

// Counts are the engine figures attached to lifecycle events.
type Counts struct {
	Files       int
	Sessions    int
	ParseErrors uint64
	ReadErrors  uint64
}

// Reporter captures events. A nil or disabled Reporter does nothing, so
// callers never need to check whether telemetry is on.
type Reporter struct {
	client     posthog.Client
	distinctID string
}

// New returns a Reporter for cfg, or nil when telemetry is disabled or
// cannot be initialised.
func New(cfg models.TelemetryConfig) *Reporter {
	if !cfg.Enabled || cfg.PostHogKey == "" {
		return nil
	}

	client, err := posthog.NewWithConfig(cfg.PostHogKey, posthog.Config{Endpoint: cfg.Endpoint})
	if err != nil {
		log.Printf("[telemetry] disabled: %v", err)
		return nil
	}
	return &Reporter{client: client, distinctID: DistinctID()}
}

// DistinctID derives a stable anonymous id from the host name.
func DistinctID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("agentroom:"+host)).String()
}

// Capture enqueues one event with the given counts.
func (r *Reporter) Capture(event string, c Counts) {
	if r == nil {
		return
	}
	props := posthog.NewProperties().
		Set("version", buildinfo.Version).
		Set("os", runtime.GOOS).
		Set("arch", runtime.GOARCH).
		Set("files", c.Files).
		Set("sessions", c.Sessions).
		Set("parse_errors", c.ParseErrors).
		Set("read_errors", c.ReadErrors)

	if err := r.client.Enqueue(posthog.Capture{
		DistinctId: r.distinctID,
		Event:      event,
		Properties: props,
	}); err != nil {
		log.Printf("[telemetry] failed to enqueue %s: %v", event, err)
	}
}

// Close flushes pending events.
func (r *Reporter) Close() {
	if r == nil {
		return
	}
	if err := r.client.Close(); err != nil {
		log.Printf("[telemetry] close: %v", err)
	}
}
