package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kaiyos/ethvanity/pkg/types"
)

// Errors
var (
	ErrNoPattern      = errors.New("must specify at least one --pattern, --prefix, or --suffix")
	ErrBadMode        = errors.New(`mode must be "eoa" or "contract"`)
	ErrBadInterval    = errors.New("report interval must be positive")
	ErrBadWords       = errors.New("mnemonic length must be 12 or 24 words")
	ErrBadDerivations = errors.New("max derivations must be positive")
	ErrBadNonce       = errors.New("max nonce must be positive")
)

// Config holds the mine command configuration as bound from flags. The
// parsed, validated form is produced once at startup and handed to the
// engine; nothing here is mutated after that.
type Config struct {
	Patterns       []string // raw PREFIX[:SUFFIX] specs, repeatable
	Prefix         string
	Suffix         string
	Checksum       bool // match against the EIP-55 rendering
	Mode           string
	RawKeys        bool
	Words          int
	MaxDerivations int
	MaxNonce       uint64
	Workers        int
	ReportInterval int // seconds
	LogFile        string
	OutputFile     string
}

// NewConfig returns the defaults the original tool shipped with.
func NewConfig() *Config {
	return &Config{
		Mode:           "eoa",
		Words:          12,
		MaxDerivations: 10,
		MaxNonce:       5,
		ReportInterval: 5,
	}
}

// Validate checks everything that does not need parsing.
func (c *Config) Validate() error {
	if len(c.Patterns) == 0 && c.Prefix == "" && c.Suffix == "" {
		return ErrNoPattern
	}
	if c.Mode != "eoa" && c.Mode != "contract" {
		return fmt.Errorf("%w: got %q", ErrBadMode, c.Mode)
	}
	if c.ReportInterval <= 0 {
		return ErrBadInterval
	}
	if c.Words != 12 && c.Words != 24 {
		return fmt.Errorf("%w: got %d", ErrBadWords, c.Words)
	}
	if c.MaxDerivations <= 0 {
		return ErrBadDerivations
	}
	if c.Mode == "contract" && c.MaxNonce == 0 {
		return ErrBadNonce
	}
	return nil
}

// ParseMode maps the mode flag onto the engine's mode tag.
func (c *Config) ParseMode() (types.Mode, error) {
	switch c.Mode {
	case "eoa":
		return types.ModeEOA, nil
	case "contract":
		return types.ModeContract, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrBadMode, c.Mode)
	}
}

// ParsePatterns assembles and validates the pattern set: the
// --prefix/--suffix pair first, then each --pattern spec in order.
func (c *Config) ParsePatterns() ([]types.Pattern, error) {
	var out []types.Pattern
	if c.Prefix != "" || c.Suffix != "" {
		out = append(out, types.Pattern{
			Prefix:        strip0x(c.Prefix),
			Suffix:        c.Suffix,
			CaseSensitive: c.Checksum,
		})
	}
	for _, spec := range c.Patterns {
		prefix, suffix, _ := strings.Cut(spec, ":")
		out = append(out, types.Pattern{
			Prefix:        strip0x(prefix),
			Suffix:        suffix,
			CaseSensitive: c.Checksum,
		})
	}
	if len(out) == 0 {
		return nil, ErrNoPattern
	}
	for _, p := range out {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func strip0x(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}
