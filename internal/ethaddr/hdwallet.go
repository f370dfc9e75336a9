package ethaddr

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/kaiyos/ethvanity/pkg/types"
)

// AccountDeriver walks the Ethereum BIP44 chain m/44'/60'/0'/0 for one
// mnemonic. The expensive part of mnemonic derivation is the PBKDF2 seed
// stretch plus the hardened tree steps; the deriver pays those once in the
// constructor so each address index costs a single child derivation.
//
// hdkeychain is used for the BIP32 tree; the chaincfg params only supply
// extended-key version bytes and have no effect on the derived keys.
type AccountDeriver struct {
	change *hdkeychain.ExtendedKey
}

// NewAccountDeriver builds the m/44'/60'/0'/0 chain key for a mnemonic,
// using an empty BIP39 passphrase.
func NewAccountDeriver(mnemonic string) (*AccountDeriver, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: bad mnemonic checksum", types.ErrDerivation)
	}
	seed := bip39.NewSeed(mnemonic, "")

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDerivation, err)
	}
	for _, step := range []uint32{
		hdkeychain.HardenedKeyStart + 44, // purpose
		hdkeychain.HardenedKeyStart + 60, // coin type: ether
		hdkeychain.HardenedKeyStart + 0,  // account
		0,                                // external chain
	} {
		if key, err = key.Derive(step); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrDerivation, err)
		}
	}
	return &AccountDeriver{change: key}, nil
}

// Derive returns the address at m/44'/60'/0'/0/index together with its
// raw 32-byte private key.
func (d *AccountDeriver) Derive(index uint32) (common.Address, []byte, error) {
	child, err := d.change.Derive(index)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("%w: index %d: %v", types.ErrDerivation, index, err)
	}
	priv, err := child.ECPrivKey()
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("%w: index %d: %v", types.ErrDerivation, index, err)
	}
	return crypto.PubkeyToAddress(priv.ToECDSA().PublicKey), priv.Serialize(), nil
}

// DerivationPath renders the BIP44 path for an address index.
func DerivationPath(index uint32) string {
	return fmt.Sprintf("m/44'/60'/0'/0/%d", index)
}
