package matcher

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaiyos/ethvanity/pkg/types"
)

// EIP-55 vector: checksum rendering is 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed.
var vectorAddr = common.HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern types.Pattern
		want    bool
	}{
		{
			name:    "insensitive prefix",
			pattern: types.Pattern{Prefix: "5aae"},
			want:    true,
		},
		{
			name:    "insensitive prefix uppercase pattern",
			pattern: types.Pattern{Prefix: "5AAE"},
			want:    true,
		},
		{
			name:    "insensitive suffix",
			pattern: types.Pattern{Suffix: "BEAED"},
			want:    true,
		},
		{
			name:    "insensitive prefix and suffix",
			pattern: types.Pattern{Prefix: "5aae", Suffix: "aed"},
			want:    true,
		},
		{
			name:    "insensitive no match",
			pattern: types.Pattern{Prefix: "dead"},
			want:    false,
		},
		{
			name:    "checksum prefix right case",
			pattern: types.Pattern{Prefix: "5aAeb6", CaseSensitive: true},
			want:    true,
		},
		{
			name:    "checksum prefix wrong case",
			pattern: types.Pattern{Prefix: "5AAEB6", CaseSensitive: true},
			want:    false,
		},
		{
			name:    "checksum suffix right case",
			pattern: types.Pattern{Suffix: "BeAed", CaseSensitive: true},
			want:    true,
		},
		{
			name:    "checksum suffix wrong case",
			pattern: types.Pattern{Suffix: "beaed", CaseSensitive: true},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New([]types.Pattern{tt.pattern})
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if _, got := m.Match(vectorAddr); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchFirstWins(t *testing.T) {
	first := types.Pattern{Prefix: "5a"}
	second := types.Pattern{Suffix: "aed"}
	m, err := New([]types.Pattern{first, second})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	p, ok := m.Match(vectorAddr)
	if !ok {
		t.Fatal("Match() = false, want true")
	}
	if p != first {
		t.Errorf("Match() returned %v, want first pattern %v", p, first)
	}
}

// Case-insensitive matching must not depend on the case the pattern was
// written in.
func TestMatchCaseFoldSymmetry(t *testing.T) {
	addrs := []common.Address{
		vectorAddr,
		common.HexToAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"),
		common.HexToAddress("0xd1220a0cf47c7b9be7a2e6ba89f429762e7b9adb"),
	}
	specs := []struct{ lower, upper types.Pattern }{
		{types.Pattern{Prefix: "fb69"}, types.Pattern{Prefix: "FB69"}},
		{types.Pattern{Suffix: "d359"}, types.Pattern{Suffix: "D359"}},
		{types.Pattern{Prefix: "d122", Suffix: "9adb"}, types.Pattern{Prefix: "D122", Suffix: "9ADB"}},
	}

	for _, spec := range specs {
		lo, err := New([]types.Pattern{spec.lower})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		up, err := New([]types.Pattern{spec.upper})
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		for _, addr := range addrs {
			_, a := lo.Match(addr)
			_, b := up.Match(addr)
			if a != b {
				t.Errorf("pattern %v vs %v disagree on %s", spec.lower, spec.upper, addr)
			}
		}
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		patterns []types.Pattern
		wantErr  error
	}{
		{
			name:     "empty set",
			patterns: nil,
			wantErr:  types.ErrEmptyPattern,
		},
		{
			name:     "empty pattern",
			patterns: []types.Pattern{{}},
			wantErr:  types.ErrEmptyPattern,
		},
		{
			name:     "non-hex",
			patterns: []types.Pattern{{Prefix: "xyz"}},
			wantErr:  types.ErrPatternNotHex,
		},
		{
			name: "too long",
			patterns: []types.Pattern{{
				Prefix: "00000000000000000000000000000000000000000", // 41 chars
			}},
			wantErr: types.ErrPatternTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.patterns)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
