// Package gauges holds the exported game-state gauges and renders them in
// the Prometheus text exposition format.
package gauges

import (
	"bytes"
	"fmt"

	"github.com/and161185/gamestate-exporter/model"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric names. They never change at runtime.
const (
	NumConnectedPlayers = "num_connected_players"
	TechTier            = "tech_tier"
	TotalGameDuration   = "total_game_duration"
	AverageTickRate     = "average_tick_rate"
)

// Store is shared by the poller, which writes it, and the HTTP handlers,
// which read it. Each gauge is atomic on its own; an Update is not atomic
// as a group, so a scrape running concurrently may see values of two polls.
type Store struct {
	numConnectedPlayers prometheus.Gauge
	techTier            prometheus.Gauge
	totalGameDuration   prometheus.Gauge
	averageTickRate     prometheus.Gauge

	registry *prometheus.Registry
	format   expfmt.Format
}

// NewStore creates the four gauges and registers them in a private registry.
func NewStore() (*Store, error) {
	s := &Store{
		numConnectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: NumConnectedPlayers,
			Help: "Number of connected players",
		}),
		techTier: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: TechTier,
			Help: "Current tech tier",
		}),
		totalGameDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: TotalGameDuration,
			Help: "Total game duration",
		}),
		averageTickRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: AverageTickRate,
			Help: "Average tick rate",
		}),
		registry: prometheus.NewRegistry(),
		format:   expfmt.NewFormat(expfmt.TypeTextPlain),
	}

	for _, g := range []prometheus.Gauge{s.numConnectedPlayers, s.techTier, s.totalGameDuration, s.averageTickRate} {
		if err := s.registry.Register(g); err != nil {
			return nil, fmt.Errorf("register gauge: %w", err)
		}
	}
	return s, nil
}

// MustNewStore is like NewStore but panics on error.
func MustNewStore() *Store {
	s, err := NewStore()
	if err != nil {
		panic(err)
	}
	return s
}

// Update overwrites every gauge with the values of one poll.
func (s *Store) Update(state *model.GameState) {
	if state == nil {
		return
	}
	s.numConnectedPlayers.Set(float64(state.NumConnectedPlayers))
	s.techTier.Set(float64(state.TechTier))
	s.totalGameDuration.Set(float64(state.TotalGameDuration))
	s.averageTickRate.Set(state.AverageTickRate)
}

// Serialize renders the current gauge values in the text exposition format.
func (s *Store) Serialize() ([]byte, error) {
	families, err := s.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, s.format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}

// ContentType is the media type of the Serialize output.
func (s *Store) ContentType() string {
	return string(s.format)
}

// Registry exposes the gauges for read-only gathering.
func (s *Store) Registry() prometheus.Gatherer {
	return s.registry
}

// Snapshot reads the current gauge values back into a GameState.
func (s *Store) Snapshot() model.GameState {
	return model.GameState{
		NumConnectedPlayers: uint64(gaugeValue(s.numConnectedPlayers)),
		TechTier:            uint64(gaugeValue(s.techTier)),
		TotalGameDuration:   uint64(gaugeValue(s.totalGameDuration)),
		AverageTickRate:     gaugeValue(s.averageTickRate),
	}
}

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
