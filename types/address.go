package types

import (
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// HashLength is the byte length of account and contract hashes.
const HashLength = 32

const (
	accountPrefix         = "account-hash-"
	contractPackagePrefix = "contract-package-"
	contractHashPrefix    = "hash-"
)

// Hash is a 32 byte account or contract hash.
type Hash [HashLength]byte

// HashFromHex decodes a bare hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	bz, err := hex.DecodeString(s)
	if err != nil {
		return h, errorsmod.Wrapf(ErrInvalidAddress, "decode hash %q: %s", s, err)
	}
	if len(bz) != HashLength {
		return h, errorsmod.Wrapf(ErrInvalidAddress, "hash %q has %d bytes, expected %d", s, len(bz), HashLength)
	}
	copy(h[:], bz)
	return h, nil
}

func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

func (h Hash) IsZero() bool { return h == Hash{} }

// ContractHash identifies a deployed contract, such as an NFT collection or a fungible token.
type ContractHash Hash

// ParseContractHash accepts "hash-<hex>" or bare hex.
func ParseContractHash(s string) (ContractHash, error) {
	h, err := HashFromHex(strings.TrimPrefix(s, contractHashPrefix))
	return ContractHash(h), err
}

func (c ContractHash) String() string { return contractHashPrefix + Hash(c).Hex() }

func (c ContractHash) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ContractHash) UnmarshalText(text []byte) error {
	parsed, err := ParseContractHash(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type addressKind uint8

const (
	accountAddress addressKind = iota
	contractAddress
)

// Address is either an account identity or a contract (package) identity.
// Two addresses are equal only when both the variant and the hash match.
type Address struct {
	kind addressKind
	hash Hash
}

func AccountAddress(h Hash) Address { return Address{kind: accountAddress, hash: h} }

func ContractAddress(h Hash) Address { return Address{kind: contractAddress, hash: h} }

func (a Address) IsAccount() bool { return a.kind == accountAddress }

func (a Address) IsContract() bool { return a.kind == contractAddress }

func (a Address) Hash() Hash { return a.hash }

func (a Address) Equal(o Address) bool { return a == o }

func (a Address) String() string {
	if a.kind == contractAddress {
		return contractPackagePrefix + a.hash.Hex()
	}
	return accountPrefix + a.hash.Hex()
}

// ParseAddress parses "account-hash-<hex>" or "contract-package-<hex>".
func ParseAddress(s string) (Address, error) {
	switch {
	case strings.HasPrefix(s, accountPrefix):
		h, err := HashFromHex(strings.TrimPrefix(s, accountPrefix))
		return AccountAddress(h), err
	case strings.HasPrefix(s, contractPackagePrefix):
		h, err := HashFromHex(strings.TrimPrefix(s, contractPackagePrefix))
		return ContractAddress(h), err
	default:
		return Address{}, errorsmod.Wrapf(ErrInvalidAddress, "unknown address format %q", s)
	}
}

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
