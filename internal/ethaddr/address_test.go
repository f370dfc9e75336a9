package ethaddr

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"

	"github.com/kaiyos/ethvanity/pkg/types"
)

func mustKey(t *testing.T, hexKey string) []byte {
	t.Helper()
	b, err := hex.DecodeString(hexKey)
	if err != nil {
		t.Fatalf("bad key fixture: %v", err)
	}
	return b
}

func TestFromPrivateKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "key one",
			key:  "0000000000000000000000000000000000000000000000000000000000000001",
			want: "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		},
		{
			name: "key two",
			key:  "0000000000000000000000000000000000000000000000000000000000000002",
			want: "0x2B5AD5c4795c026514f8317c7a215E218DbBD70e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := FromPrivateKey(mustKey(t, tt.key))
			if err != nil {
				t.Fatalf("FromPrivateKey() error: %v", err)
			}
			if got := Checksum(addr); got != tt.want {
				t.Errorf("FromPrivateKey() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromPrivateKeyInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{name: "zero scalar", key: make([]byte, 32)},
		{name: "short key", key: []byte{0x01, 0x02}},
		{name: "nil key", key: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPrivateKey(tt.key)
			if err == nil {
				t.Fatal("FromPrivateKey() succeeded on invalid key")
			}
			if !errors.Is(err, types.ErrDerivation) {
				t.Errorf("error %v does not wrap ErrDerivation", err)
			}
		})
	}
}

// Vectors from the EIP-55 specification.
func TestChecksum(t *testing.T) {
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}

	for _, want := range vectors {
		addr := common.HexToAddress(strings.ToLower(want))
		if got := Checksum(addr); got != want {
			t.Errorf("Checksum(%s) = %s, want %s", strings.ToLower(want), got, want)
		}
	}
}

func TestAppendChecksumMatchesChecksum(t *testing.T) {
	addr := common.HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	var buf [40]byte
	AppendChecksum(buf[:], addr)
	if got, want := string(buf[:]), Checksum(addr)[2:]; got != want {
		t.Errorf("AppendChecksum wrote %s, want %s", got, want)
	}
}

// Reference vectors for CREATE address derivation.
func TestContractAddress(t *testing.T) {
	deployer := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	tests := []struct {
		nonce uint64
		want  string
	}{
		{nonce: 0, want: "0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"},
		{nonce: 1, want: "0x343c43a37d37dff08ae8c4a11544c718abb4fcf8"},
		{nonce: 2, want: "0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91"},
		{nonce: 3, want: "0xfffd933a0bc612844eaf0c6fe3e5b8e9b6c1d19c"},
	}

	for _, tt := range tests {
		got := ContractAddress(deployer, tt.nonce)
		if got != common.HexToAddress(tt.want) {
			t.Errorf("ContractAddress(nonce=%d) = %s, want %s", tt.nonce, got, tt.want)
		}
	}
}

// The nonce is RLP-encoded as a minimal big-endian integer; 0, 127 and
// 128 sit on the encoding boundaries. Cross-check the derivation against
// an explicit RLP encoding.
func TestContractAddressRLPBoundaries(t *testing.T) {
	deployer := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")

	for _, nonce := range []uint64{0, 1, 127, 128, 256} {
		enc, err := rlp.EncodeToBytes([]interface{}{deployer, nonce})
		if err != nil {
			t.Fatalf("rlp encode: %v", err)
		}
		h := sha3.NewLegacyKeccak256()
		h.Write(enc)
		want := common.BytesToAddress(h.Sum(nil)[12:])

		if got := ContractAddress(deployer, nonce); got != want {
			t.Errorf("ContractAddress(nonce=%d) = %s, want %s", nonce, got, want)
		}
	}
}
