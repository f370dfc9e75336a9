// Package miner owns the worker pool and its orderly teardown. One Miner
// runs one search: it starts P workers plus the aggregator, hands out the
// shared channels, and guarantees that Run only returns after every
// worker has drained and the aggregator has flushed its final state.
package miner

import (
	"context"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/kaiyos/ethvanity/internal/logger"
	"github.com/kaiyos/ethvanity/pkg/matcher"
	"github.com/kaiyos/ethvanity/pkg/source"
	"github.com/kaiyos/ethvanity/pkg/stats"
	"github.com/kaiyos/ethvanity/pkg/types"
	"github.com/kaiyos/ethvanity/pkg/worker"
)

// Config describes one mining run.
type Config struct {
	Patterns []types.Pattern
	Mode     types.Mode

	// RawKeys switches EOA mode from mnemonic candidates to raw private
	// keys. Ignored in contract mode, which always uses raw keys.
	RawKeys bool

	// MnemonicWords is 12 or 24; zero defaults to 12.
	MnemonicWords int

	// MaxDerivations is the number of address indices checked per
	// mnemonic; zero defaults to 10.
	MaxDerivations int

	// MaxNonce is the number of deployment nonces checked per deployer in
	// contract mode; zero defaults to 5.
	MaxNonce uint64

	// Workers is the pool size; zero defaults to DefaultWorkers().
	Workers int

	// ReportInterval is the progress cadence; zero defaults to 5s.
	ReportInterval time.Duration

	// NewSource overrides the per-worker candidate source, mainly so tests
	// can inject seeded finite sources. Nil picks the source matching the
	// run mode.
	NewSource func() (source.Source, error)
}

// DefaultWorkers reserves one core for the aggregator and the sink.
func DefaultWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

func (c Config) withDefaults() Config {
	if c.MnemonicWords == 0 {
		c.MnemonicWords = 12
	}
	if c.MaxDerivations == 0 {
		c.MaxDerivations = 10
	}
	if c.MaxNonce == 0 {
		c.MaxNonce = 5
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers()
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = 5 * time.Second
	}
	return c
}

// Miner coordinates one run of the pool.
type Miner struct {
	cfg      Config
	match    *matcher.Matcher
	log      *logger.Logger
	progress io.Writer
	sink     stats.Sink

	stop chan struct{}
	once sync.Once
}

// New validates the pattern set and prepares a run. progress receives the
// overwritten status line; sink receives matches.
func New(cfg Config, log *logger.Logger, progress io.Writer, sink stats.Sink) (*Miner, error) {
	cfg = cfg.withDefaults()
	m, err := matcher.New(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return &Miner{
		cfg:      cfg,
		match:    m,
		log:      log,
		progress: progress,
		sink:     sink,
		stop:     make(chan struct{}),
	}, nil
}

// Run mines until ctx is cancelled, Stop is called, or every source is
// exhausted. It returns the final statistics after the full drain: all
// workers joined, channels closed, aggregator flushed. Guess counts from
// completed batches are never lost.
func (m *Miner) Run(ctx context.Context) (stats.Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-m.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Multi-producer, single-consumer. The guess channel holds one pending
	// batch count per worker plus slack; the match channel is small
	// because matches are rare and forwarded immediately.
	matches := make(chan types.MatchResult, 16)
	guesses := make(chan int64, 4*m.cfg.Workers)

	agg := stats.NewAggregator(m.cfg.Patterns, m.cfg.ReportInterval, m.progress, m.sink)
	aggDone := make(chan stats.Snapshot, 1)
	go func() {
		aggDone <- agg.Run(matches, guesses)
	}()

	var wg sync.WaitGroup
	wcfg := worker.Config{
		Mode:           m.cfg.Mode,
		MaxDerivations: m.cfg.MaxDerivations,
		MaxNonce:       m.cfg.MaxNonce,
	}
	for i := 0; i < m.cfg.Workers; i++ {
		src, err := m.newSource()
		if err != nil {
			cancel()
			wg.Wait()
			close(matches)
			close(guesses)
			<-aggDone
			return stats.Snapshot{}, err
		}
		w := worker.New(i, wcfg, src, m.match, m.log, matches, guesses)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}

	wg.Wait()
	close(matches)
	close(guesses)
	return <-aggDone, nil
}

// Stop requests shutdown. Idempotent and safe from any goroutine,
// including signal handlers; workers drain their in-flight batch before
// exiting.
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.stop) })
}

func (m *Miner) newSource() (source.Source, error) {
	if m.cfg.NewSource != nil {
		return m.cfg.NewSource()
	}
	if m.cfg.Mode == types.ModeContract || m.cfg.RawKeys {
		return source.NewKeySource(), nil
	}
	return source.NewMnemonicSource(m.cfg.MnemonicWords)
}
