// Package poller runs the periodic fetch-and-update loop.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/and161185/gamestate-exporter/internal/client"
	"github.com/and161185/gamestate-exporter/model"
	"go.uber.org/zap"
)

// Fetcher returns the current game state.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.GameState, error)
}

// Updater receives the state of every successful poll.
type Updater interface {
	Update(state *model.GameState)
}

// Stats summarizes the polls done so far.
type Stats struct {
	Successes   uint64
	Failures    uint64
	LastSuccess time.Time
}

// Poller calls the fetcher once per interval and pushes successful results
// into the store. Failed polls are logged and leave the store untouched.
type Poller struct {
	fetcher  Fetcher
	store    Updater
	interval time.Duration
	logger   *zap.SugaredLogger

	mu    sync.Mutex
	stats Stats
}

// New creates a poller. A nil logger disables logging.
func New(fetcher Fetcher, store Updater, interval time.Duration, logger *zap.SugaredLogger) *Poller {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Poller{
		fetcher:  fetcher,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run polls immediately and then on every tick until ctx is cancelled.
//
// Ticks are handled one at a time. When a poll overruns the interval the
// next one starts late, and time.Ticker drops the ticks missed meanwhile
// instead of firing them in a burst.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	p.poll(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	// a hung request must not hold the loop longer than one interval
	fetchCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	start := time.Now()
	state, err := p.fetcher.Fetch(fetchCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.record(false)

		kind := "unknown"
		var fe *client.FetchError
		if errors.As(err, &fe) {
			kind = string(fe.Kind)
		}
		p.logger.Errorw("failed to fetch game state",
			"kind", kind,
			"error", err,
			"duration", time.Since(start),
		)
		return
	}

	p.store.Update(state)
	p.record(true)
	p.logger.Debugw("game state updated",
		"players", state.NumConnectedPlayers,
		"tech_tier", state.TechTier,
		"game_duration", state.TotalGameDuration,
		"tick_rate", state.AverageTickRate,
		"duration", time.Since(start),
	)
}

func (p *Poller) record(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ok {
		p.stats.Successes++
		p.stats.LastSuccess = time.Now()
	} else {
		p.stats.Failures++
	}
}

// Stats returns a copy of the poll counters.
func (p *Poller) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
