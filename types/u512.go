package types

import (
	"encoding/json"
	"math/big"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// U512BitLen is the width of native currency amounts.
const U512BitLen = 512

// U512 is an unsigned integer bounded to 512 bits, the width of native purse balances.
// The zero value is 0.
type U512 struct {
	i *big.Int
}

func NewU512(n uint64) U512 { return U512{new(big.Int).SetUint64(n)} }

func ZeroU512() U512 { return U512{new(big.Int)} }

// U512FromUint widens a 256-bit amount.
func U512FromUint(u sdkmath.Uint) U512 { return U512{u.BigInt()} }

// NewU512FromBigInt rejects negative values and values wider than 512 bits.
func NewU512FromBigInt(i *big.Int) (U512, error) {
	if i == nil {
		return ZeroU512(), nil
	}
	if i.Sign() < 0 {
		return U512{}, errorsmod.Wrapf(ErrOverflow, "negative amount %s", i)
	}
	if i.BitLen() > U512BitLen {
		return U512{}, errorsmod.Wrapf(ErrOverflow, "amount exceeds %d bits", U512BitLen)
	}
	return U512{new(big.Int).Set(i)}, nil
}

func ParseU512(s string) (U512, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return U512{}, errorsmod.Wrapf(ErrOverflow, "invalid amount %q", s)
	}
	return NewU512FromBigInt(i)
}

func (u U512) int() *big.Int {
	if u.i == nil {
		return new(big.Int)
	}
	return u.i
}

// BigInt returns a copy of the underlying value.
func (u U512) BigInt() *big.Int { return new(big.Int).Set(u.int()) }

func (u U512) IsZero() bool { return u.int().Sign() == 0 }

func (u U512) Equal(o U512) bool { return u.int().Cmp(o.int()) == 0 }

func (u U512) LT(o U512) bool { return u.int().Cmp(o.int()) < 0 }

func (u U512) GTE(o U512) bool { return !u.LT(o) }

func (u U512) Add(o U512) (U512, error) {
	return NewU512FromBigInt(new(big.Int).Add(u.int(), o.int()))
}

func (u U512) Sub(o U512) (U512, error) {
	return NewU512FromBigInt(new(big.Int).Sub(u.int(), o.int()))
}

// ToUint narrows the amount to 256 bits, failing with ErrOverflow when it does not fit.
func (u U512) ToUint() (sdkmath.Uint, error) {
	if err := sdkmath.UintOverflow(u.int()); err != nil {
		return sdkmath.Uint{}, errorsmod.Wrap(ErrOverflow, err.Error())
	}
	return sdkmath.NewUintFromBigInt(u.int()), nil
}

func (u U512) String() string { return u.int().String() }

func (u U512) MarshalJSON() ([]byte, error) { return json.Marshal(u.String()) }

func (u *U512) UnmarshalJSON(bz []byte) error {
	var s string
	if err := json.Unmarshal(bz, &s); err != nil {
		return err
	}
	parsed, err := ParseU512(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (u U512) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *U512) UnmarshalText(text []byte) error {
	parsed, err := ParseU512(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
