package types

import (
	sdkmath "cosmossdk.io/math"
)

// Event is emitted after a marketplace operation commits.
type Event interface {
	EventName() string
}

type SellOrderCreated struct {
	Creator    Address      `json:"creator"`
	Collection ContractHash `json:"collection"`
	TokenID    sdkmath.Uint `json:"token_id"`
	PayAsset   PayAsset     `json:"pay_asset"`
	Price      sdkmath.Uint `json:"price"`
}

type SellOrderCanceled struct {
	Creator    Address      `json:"creator"`
	Collection ContractHash `json:"collection"`
	TokenID    sdkmath.Uint `json:"token_id"`
}

type SellOrderBought struct {
	Creator             Address      `json:"creator"`
	Collection          ContractHash `json:"collection"`
	TokenID             sdkmath.Uint `json:"token_id"`
	Buyer               Address      `json:"buyer"`
	AdditionalRecipient *Address     `json:"additional_recipient,omitempty"`
}

type BuyOrderCreated struct {
	Creator             Address      `json:"creator"`
	Collection          ContractHash `json:"collection"`
	TokenID             sdkmath.Uint `json:"token_id"`
	PayAsset            PayAsset     `json:"pay_asset"`
	Price               sdkmath.Uint `json:"price"`
	AdditionalRecipient *Address     `json:"additional_recipient,omitempty"`
	StartTime           Time         `json:"start_time"`
}

type BuyOrderCanceled struct {
	Creator    Address      `json:"creator"`
	Collection ContractHash `json:"collection"`
	TokenID    sdkmath.Uint `json:"token_id"`
	StartTime  Time         `json:"start_time"`
}

type BuyOrderAccepted struct {
	Creator    Address      `json:"creator"`
	Collection ContractHash `json:"collection"`
	TokenID    sdkmath.Uint `json:"token_id"`
	StartTime  Time         `json:"start_time"`
}

func (SellOrderCreated) EventName() string  { return "sell_order_created" }
func (SellOrderCanceled) EventName() string { return "sell_order_canceled" }
func (SellOrderBought) EventName() string   { return "sell_order_bought" }
func (BuyOrderCreated) EventName() string   { return "buy_order_created" }
func (BuyOrderCanceled) EventName() string  { return "buy_order_canceled" }
func (BuyOrderAccepted) EventName() string  { return "buy_order_accepted" }
