// Package source generates the random key material the mining engine
// burns through. Every worker owns its own Source instance; there is no
// shared mutable generator state between workers.
package source

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/tyler-smith/go-bip39"

	"github.com/kaiyos/ethvanity/pkg/types"
)

// ErrWordCount rejects mnemonic lengths other than 12 or 24 words.
var ErrWordCount = errors.New("mnemonic length must be 12 or 24 words")

// Source yields the key material for one candidate batch at a time. The
// stream is unbounded for production sources; finite sources signal the
// end with types.ErrExhausted.
type Source interface {
	Next() (types.KeyMaterial, error)
}

// KeySource draws random 32-byte private keys. Entropy comes from a
// CSPRNG: a biased generator would skew the search and leak key material.
type KeySource struct {
	rand io.Reader
}

// NewKeySource returns a KeySource backed by crypto/rand.
func NewKeySource() *KeySource {
	return &KeySource{rand: rand.Reader}
}

// NewSeededKeySource reads key bytes from r instead of the CSPRNG, for
// deterministic tests. A finite r yields len/32 keys and then exhausts.
func NewSeededKeySource(r io.Reader) *KeySource {
	return &KeySource{rand: r}
}

func (s *KeySource) Next() (types.KeyMaterial, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(s.rand, key); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return types.KeyMaterial{}, types.ErrExhausted
		}
		return types.KeyMaterial{}, fmt.Errorf("reading key entropy: %w", err)
	}
	return types.KeyMaterial{Kind: types.KindRawKey, PrivateKey: key}, nil
}

// MnemonicSource draws random BIP39 mnemonics of a fixed word count.
type MnemonicSource struct {
	rand        io.Reader
	entropyBits int
}

// NewMnemonicSource returns a MnemonicSource producing phrases of 12 or
// 24 words, backed by crypto/rand.
func NewMnemonicSource(words int) (*MnemonicSource, error) {
	return newMnemonicSource(rand.Reader, words)
}

// NewSeededMnemonicSource reads entropy from r, for deterministic tests.
func NewSeededMnemonicSource(r io.Reader, words int) (*MnemonicSource, error) {
	return newMnemonicSource(r, words)
}

func newMnemonicSource(r io.Reader, words int) (*MnemonicSource, error) {
	var bits int
	switch words {
	case 12:
		bits = 128
	case 24:
		bits = 256
	default:
		return nil, fmt.Errorf("%w: got %d", ErrWordCount, words)
	}
	return &MnemonicSource{rand: r, entropyBits: bits}, nil
}

func (s *MnemonicSource) Next() (types.KeyMaterial, error) {
	entropy := make([]byte, s.entropyBits/8)
	if _, err := io.ReadFull(s.rand, entropy); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return types.KeyMaterial{}, types.ErrExhausted
		}
		return types.KeyMaterial{}, fmt.Errorf("reading mnemonic entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return types.KeyMaterial{}, fmt.Errorf("%w: %v", types.ErrDerivation, err)
	}
	return types.KeyMaterial{Kind: types.KindMnemonic, Mnemonic: mnemonic}, nil
}
