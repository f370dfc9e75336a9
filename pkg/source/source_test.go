package source

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip39"

	"github.com/kaiyos/ethvanity/pkg/types"
)

func TestKeySource(t *testing.T) {
	s := NewKeySource()
	a, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if a.Kind != types.KindRawKey {
		t.Errorf("Kind = %v, want KindRawKey", a.Kind)
	}
	if len(a.PrivateKey) != 32 {
		t.Fatalf("key length = %d, want 32", len(a.PrivateKey))
	}
	b, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if bytes.Equal(a.PrivateKey, b.PrivateKey) {
		t.Error("two draws produced the same key")
	}
}

func TestSeededKeySourceExhausts(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	s := NewSeededKeySource(bytes.NewReader(seed))

	first, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if !bytes.Equal(first.PrivateKey, seed[:32]) {
		t.Error("first key does not match seeded bytes")
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if _, err := s.Next(); !errors.Is(err, types.ErrExhausted) {
		t.Errorf("third Next() error = %v, want ErrExhausted", err)
	}
}

func TestMnemonicSource(t *testing.T) {
	tests := []struct {
		words int
	}{
		{words: 12},
		{words: 24},
	}

	for _, tt := range tests {
		s, err := NewMnemonicSource(tt.words)
		if err != nil {
			t.Fatalf("NewMnemonicSource(%d) error: %v", tt.words, err)
		}
		km, err := s.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if km.Kind != types.KindMnemonic {
			t.Errorf("Kind = %v, want KindMnemonic", km.Kind)
		}
		if got := len(strings.Fields(km.Mnemonic)); got != tt.words {
			t.Errorf("mnemonic has %d words, want %d", got, tt.words)
		}
		if !bip39.IsMnemonicValid(km.Mnemonic) {
			t.Errorf("generated mnemonic fails checksum: %q", km.Mnemonic)
		}
	}
}

func TestMnemonicSourceWordCount(t *testing.T) {
	for _, words := range []int{0, 6, 15, 18, 21, 25} {
		if _, err := NewMnemonicSource(words); !errors.Is(err, ErrWordCount) {
			t.Errorf("NewMnemonicSource(%d) error = %v, want ErrWordCount", words, err)
		}
	}
}

// The BIP39 vector for all-zero entropy.
func TestSeededMnemonicSource(t *testing.T) {
	s, err := NewSeededMnemonicSource(bytes.NewReader(make([]byte, 16)), 12)
	if err != nil {
		t.Fatalf("NewSeededMnemonicSource() error: %v", err)
	}
	km, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	want := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	if km.Mnemonic != want {
		t.Errorf("Next() = %q, want %q", km.Mnemonic, want)
	}
	if _, err := s.Next(); !errors.Is(err, types.ErrExhausted) {
		t.Errorf("second Next() error = %v, want ErrExhausted", err)
	}
}
