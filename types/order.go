package types

import (
	sdkmath "cosmossdk.io/math"
)

// Time is a ledger block time in milliseconds.
type Time = uint64

const nativeAsset = "native"

// PayAsset is what an order is settled in: the native currency or a fungible token contract.
type PayAsset struct {
	token    ContractHash
	fungible bool
}

func NativeAsset() PayAsset { return PayAsset{} }

func FungibleAsset(token ContractHash) PayAsset { return PayAsset{token: token, fungible: true} }

func (p PayAsset) IsNative() bool { return !p.fungible }

// Token returns the token contract of a fungible asset.
func (p PayAsset) Token() (ContractHash, bool) { return p.token, p.fungible }

func (p PayAsset) String() string {
	if !p.fungible {
		return nativeAsset
	}
	return p.token.String()
}

func (p PayAsset) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText accepts "native" (or empty) and a formatted contract hash.
func (p *PayAsset) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" || s == nativeAsset {
		*p = NativeAsset()
		return nil
	}
	token, err := ParseContractHash(s)
	if err != nil {
		return err
	}
	*p = FungibleAsset(token)
	return nil
}

// SellOrder is an active listing. Its existence means the token is held in escrow by the marketplace.
type SellOrder struct {
	Creator    Address      `json:"creator"`
	Collection ContractHash `json:"collection"`
	TokenID    sdkmath.Uint `json:"token_id"`
	PayAsset   PayAsset     `json:"pay_asset"`
	Price      sdkmath.Uint `json:"price"`
	StartTime  Time         `json:"start_time"`
}

// BuyOrder is a standing bid. Its funds are held in escrow from placement until cancel or acceptance.
type BuyOrder struct {
	PayAsset            PayAsset     `json:"pay_asset"`
	Price               sdkmath.Uint `json:"price"`
	StartTime           Time         `json:"start_time"`
	AdditionalRecipient *Address     `json:"additional_recipient,omitempty"`
}

// Recipient is where the token goes when the bid is accepted.
func (b BuyOrder) Recipient(bidder Address) Address {
	if b.AdditionalRecipient != nil {
		return *b.AdditionalRecipient
	}
	return bidder
}

// Bids holds the standing bids on one token, keyed by bidder.
type Bids map[Address]BuyOrder

func (b Bids) Get(bidder Address) (BuyOrder, bool) {
	order, ok := b[bidder]
	return order, ok
}
