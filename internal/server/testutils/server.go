package testutils

import (
	"github.com/and161185/gamestate-exporter/internal/config"
	"github.com/and161185/gamestate-exporter/internal/gauges"
	"github.com/and161185/gamestate-exporter/internal/server"
	"go.uber.org/zap"
)

// NewTestServer returns a server backed by a fresh gauge store.
func NewTestServer() (*server.Server, *gauges.Store) {
	store := gauges.MustNewStore()
	return server.NewServer(store, &config.ExporterConfig{
		Listen:       "127.0.0.1:0",
		PollInterval: 1,
		Logger:       zap.NewNop().Sugar(),
	}), store
}
