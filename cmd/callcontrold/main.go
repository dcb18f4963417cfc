// Command callcontrold runs the telephony control plane: it ingests
// LiveKit webhooks, serves the control HTTP API, and exposes Prometheus
// metrics, grounded on
// original_source/control_plane/webhook_server.py and
// original_source/control_plane/__main__.py.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxbridge/callcontrol/pkg/config"
	"github.com/voxbridge/callcontrol/pkg/controlapi"
	"github.com/voxbridge/callcontrol/pkg/events"
	"github.com/voxbridge/callcontrol/pkg/httpclient"
	"github.com/voxbridge/callcontrol/pkg/roomclient"
	"github.com/voxbridge/callcontrol/pkg/session"
	"github.com/voxbridge/callcontrol/pkg/telemetry"
	"github.com/voxbridge/callcontrol/pkg/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if cfg.NoColor {
		color.NoColor = true
	} else if cfg.ForceColor {
		color.NoColor = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.New(ctx, telemetry.Config{ServiceName: "callcontrold"})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer provider.Shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(provider.Meter)
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	store := events.NewStore(cfg.MaxEvents)
	sink := events.NewMultiSink(events.NewJSONSink(os.Stdout), events.NewHumanSink(os.Stderr))
	baseEmitter := events.NewEmitter(events.ComponentControlPlane, sink, store)
	emitter := telemetry.NewInstrumentedEmitter(baseEmitter, metrics)

	registry := session.NewRegistry()
	providerHTTP := httpclient.New(httpclient.DefaultConfig())
	rooms := roomclient.NewLiveKitClient(cfg.LiveKitURL, cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, providerHTTP.HTTPClient())
	receiver := webhook.NewLiveKitReceiver(cfg.LiveKitAPIKey, cfg.WebhookSecret)
	webhookHandler := webhook.NewHandler(receiver, registry, emitter)

	server := controlapi.NewServer(registry, store, emitter, rooms,
		controlapi.WithWebhookHandler(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			if err := webhookHandler.Handle(body, auth); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", server)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
