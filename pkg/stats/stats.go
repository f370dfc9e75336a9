// Package stats aggregates guess counts and match events from the worker
// pool into throughput figures and a probabilistic ETA.
package stats

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/kaiyos/ethvanity/pkg/types"
)

// Probability returns the per-guess chance that a uniformly random address
// satisfies p. For checksum patterns each required character is modeled
// independently: a letter must land on the right nibble value and the
// right case (1/36), a digit only on the right nibble (1/16). Without
// checksum matching every character is 1/16.
func Probability(p types.Pattern) float64 {
	chars := p.Prefix + p.Suffix
	if !p.CaseSensitive {
		return math.Pow(1.0/16, float64(len(chars)))
	}
	prob := 1.0
	for i := 0; i < len(chars); i++ {
		if chars[i] >= '0' && chars[i] <= '9' {
			prob *= 1.0 / 16
		} else {
			prob *= 1.0 / 36
		}
	}
	return prob
}

// Combined sums the individual pattern probabilities. This treats the
// patterns as mutually exclusive, which overstates nothing by much for
// display purposes and keeps the ETA conservative.
func Combined(patterns []types.Pattern) float64 {
	var sum float64
	for _, p := range patterns {
		sum += Probability(p)
	}
	return sum
}

// ETA50 returns the estimated seconds until the cumulative match
// probability reaches 50%, given a per-guess probability and a guess rate.
// ok is false when no estimate can be made yet.
func ETA50(prob, guessesPerSecond float64) (float64, bool) {
	if prob <= 0 || guessesPerSecond <= 0 {
		return 0, false
	}
	if prob >= 1 {
		return 0, true
	}
	guesses := math.Log(0.5) / math.Log(1-prob)
	return guesses / guessesPerSecond, true
}

// FormatSeconds renders a duration in human-scaled units.
func FormatSeconds(s float64) string {
	switch {
	case s < 60:
		return fmt.Sprintf("%.2f seconds", s)
	case s < 3600:
		return fmt.Sprintf("%.2f minutes", s/60)
	case s < 86400:
		return fmt.Sprintf("%.2f hours", s/3600)
	default:
		return fmt.Sprintf("%.2f days", s/86400)
	}
}

// FormatCount renders n with thousands separators.
func FormatCount(n uint64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// Snapshot is an immutable view of the run statistics, handed to sinks
// alongside each match and returned when the aggregator drains.
type Snapshot struct {
	TotalGuesses uint64
	Elapsed      time.Duration
	Rate         float64 // guesses per second over the whole run
}

// Sink receives every match the engine finds, in arrival order. The
// aggregator owns the MatchResult until this call; afterwards the sink
// does.
type Sink interface {
	HandleMatch(res types.MatchResult, snap Snapshot)
}

// runStats is the aggregator's private progress state. total is
// monotonic; the epoch fields are reset whenever a match is forwarded, so
// the displayed ETA tracks time to the next match rather than the first.
type runStats struct {
	total        uint64
	start        time.Time
	epochStart   time.Time
	epochGuesses uint64
}

func (rs *runStats) snapshot(now time.Time) Snapshot {
	elapsed := now.Sub(rs.start)
	var rate float64
	if s := elapsed.Seconds(); s > 0 {
		rate = float64(rs.total) / s
	}
	return Snapshot{TotalGuesses: rs.total, Elapsed: elapsed, Rate: rate}
}

// Aggregator is the single consumer of the guess-count and match
// channels. It runs alongside the worker pool and is torn down by closing
// both channels after the workers have joined.
type Aggregator struct {
	interval time.Duration
	prob     float64
	progress io.Writer
	sink     Sink
}

// NewAggregator configures an aggregator for a pattern set. The progress
// line is written to progress every interval; matches go to sink as they
// arrive.
func NewAggregator(patterns []types.Pattern, interval time.Duration, progress io.Writer, sink Sink) *Aggregator {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Aggregator{
		interval: interval,
		prob:     Combined(patterns),
		progress: progress,
		sink:     sink,
	}
}

// Run consumes until both channels are closed, then performs a final
// drain and returns the closing snapshot. Every guess count sent on
// guesses before close is reflected in the result exactly once.
func (a *Aggregator) Run(matches <-chan types.MatchResult, guesses <-chan int64) Snapshot {
	now := time.Now()
	rs := runStats{start: now, epochStart: now}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for matches != nil || guesses != nil {
		select {
		case n, ok := <-guesses:
			if !ok {
				guesses = nil
				continue
			}
			rs.total += uint64(n)
			rs.epochGuesses += uint64(n)
		case res, ok := <-matches:
			if !ok {
				matches = nil
				continue
			}
			a.forward(&rs, res)
		case <-ticker.C:
			a.report(&rs)
		}
	}
	a.finish(&rs)
	return rs.snapshot(time.Now())
}

// forward hands a match to the sink immediately and resets the ETA epoch.
func (a *Aggregator) forward(rs *runStats, res types.MatchResult) {
	if a.sink != nil {
		a.sink.HandleMatch(res, rs.snapshot(time.Now()))
	}
	rs.epochStart = time.Now()
	rs.epochGuesses = 0
}

// report writes one overwritten progress line. It never divides by zero:
// a tick before any time or guesses have accumulated is skipped.
func (a *Aggregator) report(rs *runStats) {
	now := time.Now()
	elapsed := now.Sub(rs.start).Seconds()
	epoch := now.Sub(rs.epochStart).Seconds()
	if elapsed <= 0 || epoch <= 0 {
		return
	}
	rate := float64(rs.total) / elapsed
	epochRate := float64(rs.epochGuesses) / epoch

	eta := "estimating..."
	if v, ok := ETA50(a.prob, epochRate); ok {
		eta = FormatSeconds(v)
	}
	fmt.Fprintf(a.progress, "\rElapsed: %s | Guesses: %s | Guesses/s: %.2f | ETA to 50%%: %s",
		FormatSeconds(elapsed), FormatCount(rs.total), rate, eta)
}

// finish terminates the progress line so the shell prompt does not land
// mid-line after shutdown.
func (a *Aggregator) finish(rs *runStats) {
	if rs.total == 0 {
		return
	}
	a.report(rs)
	fmt.Fprintln(a.progress)
}
