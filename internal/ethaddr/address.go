// Package ethaddr holds the pure address derivations the mining engine is
// built on: private key to EOA address, mnemonic to BIP44 key tree, and
// deployer+nonce to CREATE contract address, plus EIP-55 rendering.
package ethaddr

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/kaiyos/ethvanity/pkg/types"
)

// FromPrivateKey returns the account address controlled by a 32-byte
// secp256k1 private key.
func FromPrivateKey(pk []byte) (common.Address, error) {
	key, err := crypto.ToECDSA(pk)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", types.ErrDerivation, err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// ContractAddress returns the address of the contract that deployer would
// create at the given account nonce (CREATE, not CREATE2).
func ContractAddress(deployer common.Address, nonce uint64) common.Address {
	return crypto.CreateAddress(deployer, nonce)
}

// HexLower writes the 40 lowercase hex characters of addr into dst,
// without a 0x prefix. dst must be at least 40 bytes.
func HexLower(dst []byte, addr common.Address) {
	hex.Encode(dst, addr[:])
}

// Checksum returns the EIP-55 mixed-case rendering of addr, 0x-prefixed.
// Only call off the hot path (result output, one-shot commands).
func Checksum(addr common.Address) string {
	var buf [40]byte
	AppendChecksum(buf[:], addr)
	return "0x" + string(buf[:])
}

// AppendChecksum writes the 40 checksum-cased hex characters of addr into
// dst, without a 0x prefix. dst must be at least 40 bytes. The caller
// provides the buffer so repeated matching does not allocate.
func AppendChecksum(dst []byte, addr common.Address) {
	hex.Encode(dst, addr[:]) // lowercase
	h := sha3.NewLegacyKeccak256()
	h.Write(dst[:40])
	var sum [32]byte
	hash := h.Sum(sum[:0])
	for i := 0; i < 40; i++ {
		c := dst[i]
		if c < 'a' {
			continue // digit, no case to flip
		}
		// each nibble of the hash decides case of the corresponding hex char
		if (hash[i/2]>>uint(4*(1-i%2)))&0xf >= 8 {
			dst[i] = c - ('a' - 'A')
		}
	}
}
