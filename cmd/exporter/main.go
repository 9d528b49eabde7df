// Command exporter polls a game server's status API and exposes the
// game state as Prometheus gauges.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/and161185/gamestate-exporter/internal/buildinfo"
	"github.com/and161185/gamestate-exporter/internal/client"
	"github.com/and161185/gamestate-exporter/internal/config"
	"github.com/and161185/gamestate-exporter/internal/gauges"
	"github.com/and161185/gamestate-exporter/internal/poller"
	"github.com/and161185/gamestate-exporter/internal/server"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewExporterConfig()
	if err != nil {
		return err
	}
	logger := cfg.Logger
	defer func() { _ = logger.Sync() }()

	buildinfo.New(buildVersion, buildDate, buildCommit).Log(logger)

	store, err := gauges.NewStore()
	if err != nil {
		return fmt.Errorf("create gauges: %w", err)
	}

	cl, err := client.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfig, err)
	}

	logger.Infow("exporter config",
		"endpoint", cl.Endpoint(),
		"update_interval", cfg.PollInterval,
		"request_timeout", cfg.RequestTimeout,
		"listen", cfg.Listen,
		"token_set", cfg.Token != "",
		"allow_insecure", cfg.AllowInsecure,
		"ca_file", cfg.CAFile,
	)
	if cfg.AllowInsecure {
		logger.Warn("TLS certificate verification is disabled")
	}

	p := poller.New(cl, store, time.Duration(cfg.PollInterval)*time.Second, logger.With("endpoint", cl.Endpoint()))
	task := p.Start(ctx)

	srvErr := server.NewServer(store, cfg).Run(ctx)

	// the server only returns on shutdown or a listen error; stop polling in both cases
	if err := task.Stop(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorw("poller stopped with error", "error", err)
	}

	st := p.Stats()
	logger.Infow("exporter stopped",
		"successful_polls", st.Successes,
		"failed_polls", st.Failures,
		"last_success", st.LastSuccess,
		"last_state", store.Snapshot(),
	)
	return srvErr
}
