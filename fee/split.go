// Package fee splits a traded amount between the seller and the fee wallet.
package fee

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

// Denominator is the fixed basis-point denominator of the fee rate.
const Denominator = 10000

// Rate is a fee rate in basis points over Denominator.
type Rate uint8

// Percent returns the rate as a percentage, 250 -> 2.5.
func (r Rate) Percent() decimal.Decimal {
	return decimal.New(int64(r), 0).Mul(decimal.New(100, 0)).Div(decimal.New(Denominator, 0))
}

func (r Rate) String() string { return r.Percent().String() + "%" }

// Split returns the recipient share and the fee share of a 256-bit amount:
//
//	toRecipient = amount * (Denominator - rate) / Denominator
//	toFee       = amount * rate / Denominator
//
// Both divisions floor independently, so the shares may sum to one unit less than
// amount. The remainder stays in escrow.
func Split(amount sdkmath.Uint, rate Rate) (toRecipient, toFee sdkmath.Uint, err error) {
	r, f, err := split(amount.BigInt(), rate, sdkmath.MaxBitLen)
	if err != nil {
		return sdkmath.Uint{}, sdkmath.Uint{}, err
	}
	return sdkmath.NewUintFromBigInt(r), sdkmath.NewUintFromBigInt(f), nil
}

// SplitU512 is Split for native currency amounts.
func SplitU512(amount types.U512, rate Rate) (toRecipient, toFee types.U512, err error) {
	r, f, err := split(amount.BigInt(), rate, types.U512BitLen)
	if err != nil {
		return types.U512{}, types.U512{}, err
	}
	if toRecipient, err = types.NewU512FromBigInt(r); err != nil {
		return types.U512{}, types.U512{}, err
	}
	if toFee, err = types.NewU512FromBigInt(f); err != nil {
		return types.U512{}, types.U512{}, err
	}
	return toRecipient, toFee, nil
}

// split computes both shares; the intermediate products must fit in bits.
func split(amount *big.Int, rate Rate, bits int) (*big.Int, *big.Int, error) {
	denom := big.NewInt(Denominator)

	recipientProduct := new(big.Int).Mul(amount, big.NewInt(Denominator-int64(rate)))
	if recipientProduct.BitLen() > bits {
		return nil, nil, errorsmod.Wrapf(types.ErrOverflow, "%s * %d exceeds %d bits", amount, Denominator-int64(rate), bits)
	}
	feeProduct := new(big.Int).Mul(amount, big.NewInt(int64(rate)))
	if feeProduct.BitLen() > bits {
		return nil, nil, errorsmod.Wrapf(types.ErrOverflow, "%s * %d exceeds %d bits", amount, rate, bits)
	}

	return recipientProduct.Quo(recipientProduct, denom), feeProduct.Quo(feeProduct, denom), nil
}
