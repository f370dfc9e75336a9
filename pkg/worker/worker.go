// Package worker implements the per-goroutine search loop: pull key
// material, derive the batch of addresses it yields, match, emit.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/kaiyos/ethvanity/internal/ethaddr"
	"github.com/kaiyos/ethvanity/internal/logger"
	"github.com/kaiyos/ethvanity/pkg/matcher"
	"github.com/kaiyos/ethvanity/pkg/source"
	"github.com/kaiyos/ethvanity/pkg/types"
)

// Config holds the immutable per-worker search settings.
type Config struct {
	Mode types.Mode

	// MaxDerivations is the number of address indices checked per mnemonic
	// (0..MaxDerivations-1). Only used for mnemonic EOA batches.
	MaxDerivations int

	// MaxNonce is the number of deployment nonces checked per deployer key
	// (0..MaxNonce-1). Only used in contract mode.
	MaxNonce uint64
}

// Worker drives one search loop. Cancellation is observed at batch
// boundaries only: an in-flight batch is finished and its guess count
// flushed before Run returns. That bounds shutdown latency to one batch
// and keeps the hot loop free of per-derivation checks.
type Worker struct {
	id      int
	cfg     Config
	src     source.Source
	match   *matcher.Matcher
	log     *logger.Logger
	matches chan<- types.MatchResult
	guesses chan<- int64
}

// New wires a worker to its private source and the shared output
// channels. The worker is the only writer of the key material it
// generates until a match hands it off.
func New(id int, cfg Config, src source.Source, m *matcher.Matcher, log *logger.Logger, matches chan<- types.MatchResult, guesses chan<- int64) *Worker {
	return &Worker{
		id:      id,
		cfg:     cfg,
		src:     src,
		match:   m,
		log:     log,
		matches: matches,
		guesses: guesses,
	}
}

// Run loops until ctx is cancelled or the source runs dry. It never
// closes the output channels; the pool does that after all workers join.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		km, err := w.src.Next()
		if err != nil {
			if !errors.Is(err, types.ErrExhausted) {
				w.log.Printf("worker %d: candidate source failed: %v", w.id, err)
			}
			return
		}

		if n := w.runBatch(km); n > 0 {
			w.guesses <- n
		}
	}
}

func (w *Worker) runBatch(km types.KeyMaterial) int64 {
	switch {
	case w.cfg.Mode == types.ModeContract:
		return w.contractBatch(km)
	case km.Kind == types.KindMnemonic:
		return w.mnemonicBatch(km)
	default:
		return w.keyBatch(km)
	}
}

// keyBatch checks the single address a raw private key yields.
func (w *Worker) keyBatch(km types.KeyMaterial) int64 {
	addr, err := ethaddr.FromPrivateKey(km.PrivateKey)
	if err != nil {
		w.log.Printf("worker %d: skipping candidate: %v", w.id, err)
		return 0
	}
	if p, ok := w.match.Match(addr); ok {
		w.emit(types.Candidate{Address: addr, Key: km, Index: -1, Nonce: -1}, p)
	}
	return 1
}

// mnemonicBatch checks the first MaxDerivations addresses of one
// mnemonic. The batch is not cut short on a match: the remaining indices
// of an already-stretched seed are nearly free to check.
func (w *Worker) mnemonicBatch(km types.KeyMaterial) int64 {
	d, err := ethaddr.NewAccountDeriver(km.Mnemonic)
	if err != nil {
		w.log.Printf("worker %d: skipping candidate: %v", w.id, err)
		return 0
	}
	var n int64
	for i := 0; i < w.cfg.MaxDerivations; i++ {
		addr, _, err := d.Derive(uint32(i))
		if err != nil {
			w.log.Printf("worker %d: skipping index %d: %v", w.id, i, err)
			continue
		}
		n++
		if p, ok := w.match.Match(addr); ok {
			w.emit(types.Candidate{Address: addr, Key: km, Index: i, Nonce: -1}, p)
		}
	}
	return n
}

// contractBatch derives one deployer EOA and checks the contract
// addresses it would create at nonces 0..MaxNonce-1.
func (w *Worker) contractBatch(km types.KeyMaterial) int64 {
	deployer, err := ethaddr.FromPrivateKey(km.PrivateKey)
	if err != nil {
		w.log.Printf("worker %d: skipping candidate: %v", w.id, err)
		return 0
	}
	var n int64
	for nonce := uint64(0); nonce < w.cfg.MaxNonce; nonce++ {
		addr := ethaddr.ContractAddress(deployer, nonce)
		n++
		if p, ok := w.match.Match(addr); ok {
			w.emit(types.Candidate{
				Address:  addr,
				Key:      km,
				Index:    -1,
				Nonce:    int64(nonce),
				Deployer: deployer,
			}, p)
		}
	}
	return n
}

// emit blocks on channel back-pressure rather than dropping: a match must
// never be lost, and the aggregator stays alive until after the pool
// joins.
func (w *Worker) emit(c types.Candidate, p types.Pattern) {
	w.matches <- types.MatchResult{Candidate: c, Pattern: p, FoundAt: time.Now()}
}
