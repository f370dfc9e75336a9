package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Errors
var (
	// ErrDerivation marks key material that does not yield a valid
	// address. Workers log and skip the candidate rather than abort.
	ErrDerivation = errors.New("invalid key material")

	// ErrExhausted is returned by a finite candidate source when it has
	// nothing left to yield. Workers treat it as a clean stop.
	ErrExhausted = errors.New("candidate source exhausted")

	ErrEmptyPattern   = errors.New("pattern must have a prefix or a suffix")
	ErrPatternTooLong = errors.New("pattern longer than 40 hex characters")
	ErrPatternNotHex  = errors.New("pattern contains non-hex characters")
)

// Mode selects what kind of address the engine searches for.
type Mode int

const (
	// ModeEOA mines account addresses.
	ModeEOA Mode = iota
	// ModeContract mines CREATE contract addresses over a range of
	// deployment nonces for each generated deployer key.
	ModeContract
)

func (m Mode) String() string {
	if m == ModeContract {
		return "contract"
	}
	return "eoa"
}

// KeyKind tags the variant carried by a KeyMaterial.
type KeyKind int

const (
	KindRawKey KeyKind = iota
	KindMnemonic
)

// KeyMaterial is the secret a candidate address was derived from. It is
// owned by the worker that generated it until it is attached to a
// MatchResult, at which point ownership passes to the result sink.
type KeyMaterial struct {
	Kind       KeyKind
	PrivateKey []byte // 32 bytes, KindRawKey
	Mnemonic   string // KindMnemonic
}

// Pattern describes a vanity target: a hex prefix and/or suffix the
// address must carry. CaseSensitive patterns are matched against the
// EIP-55 checksum rendering; otherwise both sides are lower-cased.
type Pattern struct {
	Prefix        string
	Suffix        string
	CaseSensitive bool
}

// Validate checks the pattern against the address alphabet: hex characters
// only, at most 40 of them combined.
func (p Pattern) Validate() error {
	if len(p.Prefix)+len(p.Suffix) == 0 {
		return ErrEmptyPattern
	}
	if len(p.Prefix)+len(p.Suffix) > 40 {
		return ErrPatternTooLong
	}
	for _, s := range []string{p.Prefix, p.Suffix} {
		for i := 0; i < len(s); i++ {
			if !isHexChar(s[i]) {
				return fmt.Errorf("%w: %q", ErrPatternNotHex, s)
			}
		}
	}
	return nil
}

func (p Pattern) String() string {
	s := "0x" + p.Prefix + "..." + p.Suffix
	if p.CaseSensitive {
		s += " (checksum)"
	}
	return s
}

func isHexChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// Candidate ties one derived address back to everything needed to
// reconstruct its signing key.
type Candidate struct {
	Address common.Address
	Key     KeyMaterial

	// Index is the BIP44 address index for mnemonic-derived candidates,
	// -1 otherwise.
	Index int

	// Nonce is the deployment nonce for contract-mode candidates, -1
	// otherwise. Deployer is only set alongside a non-negative Nonce.
	Nonce    int64
	Deployer common.Address
}

// MatchResult is created once per successful pattern match and never
// mutated afterwards.
type MatchResult struct {
	Candidate Candidate
	Pattern   Pattern
	FoundAt   time.Time
}
