package marketplace

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/fee"
	"github.com/casperpad/kunft-marketplace-contract/store"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

// CreateBuyOrderNative places a native bid backed by a deposit of amount made into the
// escrow purse beforehand.
func (m *Marketplace) CreateBuyOrderNative(
	ctx context.Context,
	caller types.Address,
	collection types.ContractHash,
	tokenID sdkmath.Uint,
	recipient *types.Address,
	amount types.U512,
) error {
	return m.execute(ctx, "create_buy_order_cspr", func(tx *store.Tx, emit emitFunc) error {
		if err := m.escrow.depositCheck(ctx, tx, amount); err != nil {
			return err
		}
		bids, err := openBids(tx, caller, collection, tokenID)
		if err != nil {
			return err
		}
		price, err := amount.ToUint()
		if err != nil {
			return err
		}
		return m.placeBid(ctx, tx, emit, bids, caller, collection, tokenID, types.NativeAsset(), price, recipient)
	})
}

// CreateBuyOrder places a fungible bid. The funds are pulled into the marketplace's token
// balance when the bid is placed.
func (m *Marketplace) CreateBuyOrder(
	ctx context.Context,
	caller types.Address,
	collection types.ContractHash,
	tokenID sdkmath.Uint,
	recipient *types.Address,
	token types.ContractHash,
	amount sdkmath.Uint,
) error {
	return m.execute(ctx, "create_buy_order", func(tx *store.Tx, emit emitFunc) error {
		bids, err := openBids(tx, caller, collection, tokenID)
		if err != nil {
			return err
		}

		allowance, err := m.tokens.Allowance(ctx, token, caller, m.self)
		if err != nil {
			return errorsmod.Wrapf(err, "failed to get allowance on %s", token)
		}
		if allowance.LT(amount) {
			return errorsmod.Wrapf(types.ErrInsufficientAllowance, "allowance %s is below %s", allowance, amount)
		}
		if err := m.pullTokens(ctx, token, caller, m.self, amount); err != nil {
			return err
		}

		return m.placeBid(ctx, tx, emit, bids, caller, collection, tokenID, types.FungibleAsset(token), amount, recipient)
	})
}

// openBids loads the bids on a token, failing when caller already has one.
func openBids(tx *store.Tx, caller types.Address, collection types.ContractHash, tokenID sdkmath.Uint) (types.Bids, error) {
	bids, err := tx.Bids(collection, tokenID)
	if err != nil {
		return nil, err
	}
	if _, ok := bids.Get(caller); ok {
		return nil, errorsmod.Wrapf(types.ErrAlreadyExistOrder, "%s already bid on %s #%s", caller, collection, tokenID)
	}
	return bids, nil
}

func (m *Marketplace) placeBid(
	ctx context.Context,
	tx *store.Tx,
	emit emitFunc,
	bids types.Bids,
	caller types.Address,
	collection types.ContractHash,
	tokenID sdkmath.Uint,
	payAsset types.PayAsset,
	price sdkmath.Uint,
	recipient *types.Address,
) error {
	if _, ok, err := m.nfts.OwnerOf(ctx, collection, tokenID); err != nil {
		return errorsmod.Wrapf(err, "failed to get owner of %s #%s", collection, tokenID)
	} else if !ok {
		return errorsmod.Wrapf(types.ErrNotExistToken, "%s #%s", collection, tokenID)
	}

	bid := types.BuyOrder{
		PayAsset:            payAsset,
		Price:               price,
		StartTime:           m.host.BlockTime(),
		AdditionalRecipient: recipient,
	}
	bids[caller] = bid
	if err := tx.PutBids(collection, tokenID, bids); err != nil {
		return err
	}

	m.logger.Info("Buy order created.",
		zap.Stringer("collection", collection),
		zap.Stringer("token_id", tokenID),
		zap.Stringer("bidder", caller),
		zap.Stringer("pay_asset", payAsset),
		zap.Stringer("price", price))
	emit(types.BuyOrderCreated{
		Creator:             caller,
		Collection:          collection,
		TokenID:             tokenID,
		PayAsset:            payAsset,
		Price:               price,
		AdditionalRecipient: recipient,
		StartTime:           bid.StartTime,
	})
	return nil
}

// CancelBuyOrder withdraws the caller's bid and refunds it in the asset it was placed in.
func (m *Marketplace) CancelBuyOrder(ctx context.Context, caller types.Address, collection types.ContractHash, tokenID sdkmath.Uint) error {
	return m.execute(ctx, "cancel_buy_order", func(tx *store.Tx, emit emitFunc) error {
		bids, err := tx.Bids(collection, tokenID)
		if err != nil {
			return err
		}
		bid, ok := bids.Get(caller)
		if !ok {
			return errorsmod.Wrapf(types.ErrNotExistOrder, "no bid from %s on %s #%s", caller, collection, tokenID)
		}

		if token, fungible := bid.PayAsset.Token(); fungible {
			err = m.payTokens(ctx, token, caller, bid.Price)
		} else {
			err = m.escrow.payOut(ctx, tx, caller, types.U512FromUint(bid.Price))
		}
		if err != nil {
			return err
		}

		delete(bids, caller)
		if err := tx.PutBids(collection, tokenID, bids); err != nil {
			return err
		}

		m.logger.Info("Buy order canceled.",
			zap.Stringer("collection", collection),
			zap.Stringer("token_id", tokenID),
			zap.Stringer("bidder", caller),
			zap.Stringer("refund", bid.Price))
		emit(types.BuyOrderCanceled{Creator: caller, Collection: collection, TokenID: tokenID, StartTime: bid.StartTime})
		return nil
	})
}

// AcceptBuyOrder sells the caller's token to bidder. The escrowed bid pays the caller net of
// the fee and the token goes to the bid's recipient, which defaults to the bidder.
// The proceeds always go to the caller; a recipient override only redirects the token.
func (m *Marketplace) AcceptBuyOrder(
	ctx context.Context,
	caller types.Address,
	collection types.ContractHash,
	tokenID sdkmath.Uint,
	bidder types.Address,
) error {
	return m.execute(ctx, "accept_buy_order", func(tx *store.Tx, emit emitFunc) error {
		owner, ok, err := m.nfts.OwnerOf(ctx, collection, tokenID)
		if err != nil {
			return errorsmod.Wrapf(err, "failed to get owner of %s #%s", collection, tokenID)
		}
		if !ok {
			return errorsmod.Wrapf(types.ErrNotExistToken, "%s #%s", collection, tokenID)
		}
		if !owner.Equal(caller) {
			return errorsmod.Wrapf(types.ErrNotTokenOwner, "%s does not own %s #%s", caller, collection, tokenID)
		}
		spender, ok, err := m.nfts.GetApproved(ctx, collection, caller, tokenID)
		if err != nil {
			return errorsmod.Wrapf(err, "failed to get approval of %s #%s", collection, tokenID)
		}
		if !ok || !spender.Equal(m.self) {
			return errorsmod.Wrapf(types.ErrRequireApprove, "marketplace is not approved for %s #%s", collection, tokenID)
		}

		bids, err := tx.Bids(collection, tokenID)
		if err != nil {
			return err
		}
		bid, ok := bids.Get(bidder)
		if !ok {
			return errorsmod.Wrapf(types.ErrNotExistOrder, "no bid from %s on %s #%s", bidder, collection, tokenID)
		}

		cfg, err := feeParams(tx)
		if err != nil {
			return err
		}
		if err := m.settleBid(ctx, tx, cfg, bid, caller); err != nil {
			return err
		}

		recipient := bid.Recipient(bidder)
		if err := m.nfts.TransferFrom(ctx, collection, caller, recipient, []sdkmath.Uint{tokenID}); err != nil {
			return errorsmod.Wrapf(err, "failed to deliver %s #%s", collection, tokenID)
		}

		delete(bids, bidder)
		if err := tx.PutBids(collection, tokenID, bids); err != nil {
			return err
		}

		m.logger.Info("Buy order accepted.",
			zap.Stringer("collection", collection),
			zap.Stringer("token_id", tokenID),
			zap.Stringer("seller", caller),
			zap.Stringer("bidder", bidder),
			zap.Stringer("recipient", recipient),
			zap.Stringer("price", bid.Price))
		emit(types.BuyOrderAccepted{Creator: bidder, Collection: collection, TokenID: tokenID, StartTime: bid.StartTime})
		return nil
	})
}

// settleBid pays an escrowed bid to seller and the fee wallet.
func (m *Marketplace) settleBid(ctx context.Context, tx *store.Tx, cfg feeConfig, bid types.BuyOrder, seller types.Address) error {
	token, fungible := bid.PayAsset.Token()
	if fungible {
		toSeller, toFee, err := fee.Split(bid.Price, cfg.rate)
		if err != nil {
			return err
		}
		if err := m.payTokens(ctx, token, seller, toSeller); err != nil {
			return err
		}
		return m.payTokens(ctx, token, cfg.wallet, toFee)
	}

	toSeller, toFee, err := fee.SplitU512(types.U512FromUint(bid.Price), cfg.rate)
	if err != nil {
		return err
	}
	if err := m.escrow.payOut(ctx, tx, seller, toSeller); err != nil {
		return err
	}
	return m.escrow.payOut(ctx, tx, cfg.wallet, toFee)
}
