package store

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

// view holds the read side shared by OrderStore and Tx.
type view struct {
	get func(key []byte) ([]byte, error)
}

func (v view) load(key []byte, out any) (bool, error) {
	bz, err := v.get(key)
	if err != nil {
		return false, fmt.Errorf("failed to read key %x: %w", key, err)
	}
	if bz == nil {
		return false, nil
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return false, fmt.Errorf("failed to decode value at %x: %w", key, err)
	}
	return true, nil
}

// SellOrder returns the active sell order for the token, or ErrNotExistOrder.
func (v view) SellOrder(collection types.ContractHash, tokenID sdkmath.Uint) (types.SellOrder, error) {
	var order types.SellOrder
	found, err := v.load(sellOrderKey(collection, tokenID), &order)
	if err != nil {
		return types.SellOrder{}, err
	}
	if !found {
		return types.SellOrder{}, errorsmod.Wrapf(types.ErrNotExistOrder, "no sell order for %s #%s", collection, tokenID)
	}
	return order, nil
}

// Bids returns every standing bid on the token. A token without bids yields an empty map.
func (v view) Bids(collection types.ContractHash, tokenID sdkmath.Uint) (types.Bids, error) {
	bids := make(types.Bids)
	if _, err := v.load(bidsKey(collection, tokenID), &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// Bid returns the bid placed by bidder on the token, or ErrNotExistOrder.
func (v view) Bid(collection types.ContractHash, tokenID sdkmath.Uint, bidder types.Address) (types.BuyOrder, error) {
	bids, err := v.Bids(collection, tokenID)
	if err != nil {
		return types.BuyOrder{}, err
	}
	bid, ok := bids.Get(bidder)
	if !ok {
		return types.BuyOrder{}, errorsmod.Wrapf(types.ErrNotExistOrder, "no bid from %s on %s #%s", bidder, collection, tokenID)
	}
	return bid, nil
}

func (tx *Tx) store(key []byte, value any) error {
	bz, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %x: %w", key, err)
	}
	tx.set(key, bz)
	return nil
}

// PutSellOrder creates or replaces the sell order stored under the order's token.
func (tx *Tx) PutSellOrder(order types.SellOrder) error {
	return tx.store(sellOrderKey(order.Collection, order.TokenID), order)
}

func (tx *Tx) RemoveSellOrder(collection types.ContractHash, tokenID sdkmath.Uint) {
	tx.delete(sellOrderKey(collection, tokenID))
}

// PutBids replaces the whole bid map of a token. An empty map removes the entry.
func (tx *Tx) PutBids(collection types.ContractHash, tokenID sdkmath.Uint, bids types.Bids) error {
	key := bidsKey(collection, tokenID)
	if len(bids) == 0 {
		tx.delete(key)
		return nil
	}
	return tx.store(key, bids)
}
