package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kaiyos/ethvanity/internal/ethaddr"
	logpkg "github.com/kaiyos/ethvanity/internal/logger"
	"github.com/kaiyos/ethvanity/pkg/stats"
	"github.com/kaiyos/ethvanity/pkg/types"
)

// consoleSink prints each match and optionally appends it to a results
// file. The aggregator calls HandleMatch from a single goroutine, so no
// locking is needed.
type consoleSink struct {
	log *logpkg.Logger
	out *os.File
}

func newConsoleSink(log *logpkg.Logger, outputFile string) (*consoleSink, error) {
	s := &consoleSink{log: log}
	if outputFile != "" {
		f, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening output file: %w", err)
		}
		s.out = f
	}
	return s, nil
}

func (s *consoleSink) HandleMatch(res types.MatchResult, snap stats.Snapshot) {
	block := renderMatch(res, snap)
	// leading newline breaks out of the \r-overwritten progress line
	fmt.Println()
	s.log.Print(block)
	if s.out != nil {
		fmt.Fprint(s.out, block)
	}
}

func (s *consoleSink) Close() error {
	if s.out == nil {
		return nil
	}
	return s.out.Close()
}

// renderMatch formats one match the way the search variants always have:
// address first, then whatever reconstructs the signing key.
func renderMatch(res types.MatchResult, snap stats.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Match found after %s guesses and %s!\n",
		stats.FormatCount(snap.TotalGuesses), stats.FormatSeconds(snap.Elapsed.Seconds()))

	c := res.Candidate
	switch {
	case c.Nonce >= 0:
		fmt.Fprintf(&b, "Private Key: 0x%x\n", c.Key.PrivateKey)
		fmt.Fprintf(&b, "EOA Address: %s\n", ethaddr.Checksum(c.Deployer))
		fmt.Fprintf(&b, "Nonce: %d\n", c.Nonce)
		fmt.Fprintf(&b, "Contract Address: %s\n", ethaddr.Checksum(c.Address))
	case c.Key.Kind == types.KindMnemonic:
		fmt.Fprintf(&b, "EOA Address: %s\n", ethaddr.Checksum(c.Address))
		fmt.Fprintf(&b, "Derivation Path: %s\n", ethaddr.DerivationPath(uint32(c.Index)))
		fmt.Fprintf(&b, "Mnemonic:\n")
		words := strings.Fields(c.Key.Mnemonic)
		// grouped three per line for transcription
		for i := 0; i < len(words); i += 3 {
			end := i + 3
			if end > len(words) {
				end = len(words)
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(words[i:end], " "))
		}
	default:
		fmt.Fprintf(&b, "EOA Address: %s\n", ethaddr.Checksum(c.Address))
		fmt.Fprintf(&b, "Private Key: 0x%x\n", c.Key.PrivateKey)
	}
	fmt.Fprintf(&b, "Pattern: %s\n", res.Pattern)
	fmt.Fprintf(&b, "---\n")
	return b.String()
}
