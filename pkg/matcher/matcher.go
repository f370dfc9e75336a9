// Package matcher implements vanity pattern matching over Ethereum
// addresses. A Matcher is compiled once from a pattern set and is then
// safe for concurrent use by any number of workers.
package matcher

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaiyos/ethvanity/internal/ethaddr"
	"github.com/kaiyos/ethvanity/pkg/types"
)

type compiled struct {
	pattern types.Pattern
	// comparison forms: lower-cased for case-insensitive patterns, the
	// literal text for checksum patterns
	prefix string
	suffix string
}

// Matcher checks addresses against a fixed set of patterns, first match
// wins. Each candidate address is rendered at most once per case style
// regardless of how many patterns are configured.
type Matcher struct {
	patterns     []compiled
	needChecksum bool
}

// New validates and compiles a pattern set.
func New(patterns []types.Pattern) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, types.ErrEmptyPattern
	}
	m := &Matcher{patterns: make([]compiled, 0, len(patterns))}
	for _, p := range patterns {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		c := compiled{pattern: p, prefix: p.Prefix, suffix: p.Suffix}
		if p.CaseSensitive {
			m.needChecksum = true
		} else {
			c.prefix = strings.ToLower(c.prefix)
			c.suffix = strings.ToLower(c.suffix)
		}
		m.patterns = append(m.patterns, c)
	}
	return m, nil
}

// Patterns returns the pattern set in match order.
func (m *Matcher) Patterns() []types.Pattern {
	out := make([]types.Pattern, len(m.patterns))
	for i, c := range m.patterns {
		out[i] = c.pattern
	}
	return out
}

// Match reports the first pattern addr satisfies. It allocates nothing:
// both renderings live in stack buffers, and the checksum hash is only
// computed when some pattern is case-sensitive.
func (m *Matcher) Match(addr common.Address) (types.Pattern, bool) {
	var lower, check [40]byte
	ethaddr.HexLower(lower[:], addr)
	if m.needChecksum {
		ethaddr.AppendChecksum(check[:], addr)
	}
	for _, c := range m.patterns {
		buf := lower[:]
		if c.pattern.CaseSensitive {
			buf = check[:]
		}
		if hasAffixes(buf, c.prefix, c.suffix) {
			return c.pattern, true
		}
	}
	return types.Pattern{}, false
}

// hasAffixes compares byte-wise to avoid string conversions in the hot
// loop. Pattern lengths are bounded by validation, addr is always 40.
func hasAffixes(addr []byte, prefix, suffix string) bool {
	for i := 0; i < len(prefix); i++ {
		if addr[i] != prefix[i] {
			return false
		}
	}
	off := len(addr) - len(suffix)
	for i := 0; i < len(suffix); i++ {
		if addr[off+i] != suffix[i] {
			return false
		}
	}
	return true
}
