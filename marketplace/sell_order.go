package marketplace

import (
	"context"
	"errors"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/fee"
	"github.com/casperpad/kunft-marketplace-contract/store"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

// CreateSellOrder lists a token. The marketplace must be the approved spender of the token;
// the token moves into escrow and the order is recorded. An existing record for the token
// fails with ErrAlreadyExistOrder while it is active and with ErrFinishedOrder once its
// token has left escrow.
func (m *Marketplace) CreateSellOrder(
	ctx context.Context,
	caller types.Address,
	startTime types.Time,
	collection types.ContractHash,
	tokenID sdkmath.Uint,
	payAsset types.PayAsset,
	price sdkmath.Uint,
) error {
	return m.execute(ctx, "create_sell_order", func(tx *store.Tx, emit emitFunc) error {
		existing, err := tx.SellOrder(collection, tokenID)
		switch {
		case err == nil:
			// a record whose token left escrow is reported as finished, never replaced
			if err := m.assertOrderIsActive(ctx, existing); err != nil {
				return err
			}
			return errorsmod.Wrapf(types.ErrAlreadyExistOrder, "%s #%s is already listed", collection, tokenID)
		case !errors.Is(err, types.ErrNotExistOrder):
			return err
		}

		spender, ok, err := m.nfts.GetApproved(ctx, collection, caller, tokenID)
		if err != nil {
			return errorsmod.Wrapf(err, "failed to get approval of %s #%s", collection, tokenID)
		}
		if !ok || !spender.Equal(m.self) {
			return errorsmod.Wrapf(types.ErrRequireApprove, "marketplace is not approved for %s #%s", collection, tokenID)
		}

		if err := m.nfts.TransferFrom(ctx, collection, caller, m.self, []sdkmath.Uint{tokenID}); err != nil {
			return errorsmod.Wrapf(err, "failed to escrow %s #%s", collection, tokenID)
		}

		if err := tx.PutSellOrder(types.SellOrder{
			Creator:    caller,
			Collection: collection,
			TokenID:    tokenID,
			PayAsset:   payAsset,
			Price:      price,
			StartTime:  startTime,
		}); err != nil {
			return err
		}

		m.logger.Info("Sell order created.",
			zap.Stringer("collection", collection),
			zap.Stringer("token_id", tokenID),
			zap.Stringer("creator", caller),
			zap.Stringer("pay_asset", payAsset),
			zap.Stringer("price", price))
		emit(types.SellOrderCreated{
			Creator:    caller,
			Collection: collection,
			TokenID:    tokenID,
			PayAsset:   payAsset,
			Price:      price,
		})
		return nil
	})
}

// CancelSellOrder delists a token and returns it to its creator.
func (m *Marketplace) CancelSellOrder(ctx context.Context, caller types.Address, collection types.ContractHash, tokenID sdkmath.Uint) error {
	return m.execute(ctx, "cancel_sell_order", func(tx *store.Tx, emit emitFunc) error {
		order, err := tx.SellOrder(collection, tokenID)
		if err != nil {
			return err
		}
		if !order.Creator.Equal(caller) {
			return errorsmod.Wrapf(types.ErrNotOrderCreator, "%s did not list %s #%s", caller, collection, tokenID)
		}
		if err := m.assertOrderIsActive(ctx, order); err != nil {
			return err
		}

		if err := m.nfts.Transfer(ctx, collection, caller, []sdkmath.Uint{tokenID}); err != nil {
			return errorsmod.Wrapf(err, "failed to return %s #%s", collection, tokenID)
		}
		tx.RemoveSellOrder(collection, tokenID)

		m.logger.Info("Sell order canceled.",
			zap.Stringer("collection", collection),
			zap.Stringer("token_id", tokenID),
			zap.Stringer("creator", caller))
		emit(types.SellOrderCanceled{Creator: caller, Collection: collection, TokenID: tokenID})
		return nil
	})
}

// BuySellOrderNative fills a native listing with a deposit of amount made into the escrow
// purse beforehand. Paying more than the price is accepted and the excess is not refunded.
func (m *Marketplace) BuySellOrderNative(
	ctx context.Context,
	caller types.Address,
	collection types.ContractHash,
	tokenID sdkmath.Uint,
	amount types.U512,
	recipient *types.Address,
) error {
	return m.execute(ctx, "buy_sell_order_cspr", func(tx *store.Tx, emit emitFunc) error {
		if err := m.escrow.depositCheck(ctx, tx, amount); err != nil {
			return err
		}
		order, err := m.activeSellOrder(ctx, tx, collection, tokenID)
		if err != nil {
			return err
		}
		if !order.PayAsset.IsNative() {
			return errorsmod.Wrapf(types.ErrInvalidPayToken, "%s #%s is priced in %s", collection, tokenID, order.PayAsset)
		}
		paid, err := amount.ToUint()
		if err != nil {
			return err
		}
		if paid.LT(order.Price) {
			return errorsmod.Wrapf(types.ErrInsufficientBalance, "paid %s, price is %s", paid, order.Price)
		}

		buyer := deliverTo(caller, recipient)
		if err := m.nfts.Transfer(ctx, collection, buyer, []sdkmath.Uint{tokenID}); err != nil {
			return errorsmod.Wrapf(err, "failed to deliver %s #%s", collection, tokenID)
		}

		cfg, err := feeParams(tx)
		if err != nil {
			return err
		}
		toSeller, toFee, err := fee.SplitU512(amount, cfg.rate)
		if err != nil {
			return err
		}
		if err := m.escrow.payOut(ctx, tx, order.Creator, toSeller); err != nil {
			return err
		}
		if err := m.escrow.payOut(ctx, tx, cfg.wallet, toFee); err != nil {
			return err
		}
		tx.RemoveSellOrder(collection, tokenID)

		m.logger.Info("Sell order bought.",
			zap.Stringer("collection", collection),
			zap.Stringer("token_id", tokenID),
			zap.Stringer("buyer", caller),
			zap.Stringer("recipient", buyer),
			zap.Stringer("amount", amount),
			zap.Stringer("to_seller", toSeller),
			zap.Stringer("to_fee", toFee))
		emit(types.SellOrderBought{
			Creator:             order.Creator,
			Collection:          collection,
			TokenID:             tokenID,
			Buyer:               caller,
			AdditionalRecipient: recipient,
		})
		return nil
	})
}

// BuySellOrder fills a fungible listing. The buyer's allowance to the marketplace must cover
// amount; the payment goes straight from buyer to seller and fee wallet.
func (m *Marketplace) BuySellOrder(
	ctx context.Context,
	caller types.Address,
	collection types.ContractHash,
	tokenID sdkmath.Uint,
	amount sdkmath.Uint,
	recipient *types.Address,
) error {
	return m.execute(ctx, "buy_sell_order", func(tx *store.Tx, emit emitFunc) error {
		order, err := m.activeSellOrder(ctx, tx, collection, tokenID)
		if err != nil {
			return err
		}
		token, fungible := order.PayAsset.Token()
		if !fungible {
			return errorsmod.Wrapf(types.ErrInvalidPayToken, "%s #%s is priced in native currency", collection, tokenID)
		}

		allowance, err := m.tokens.Allowance(ctx, token, caller, m.self)
		if err != nil {
			return errorsmod.Wrapf(err, "failed to get allowance on %s", token)
		}
		if allowance.LT(amount) {
			return errorsmod.Wrapf(types.ErrInsufficientBalance, "allowance %s is below %s", allowance, amount)
		}
		if amount.LT(order.Price) {
			return errorsmod.Wrapf(types.ErrInsufficientBalance, "paid %s, price is %s", amount, order.Price)
		}

		cfg, err := feeParams(tx)
		if err != nil {
			return err
		}
		toSeller, toFee, err := fee.Split(amount, cfg.rate)
		if err != nil {
			return err
		}
		if err := m.pullTokens(ctx, token, caller, order.Creator, toSeller); err != nil {
			return err
		}
		if err := m.pullTokens(ctx, token, caller, cfg.wallet, toFee); err != nil {
			return err
		}

		buyer := deliverTo(caller, recipient)
		if err := m.nfts.Transfer(ctx, collection, buyer, []sdkmath.Uint{tokenID}); err != nil {
			return errorsmod.Wrapf(err, "failed to deliver %s #%s", collection, tokenID)
		}
		tx.RemoveSellOrder(collection, tokenID)

		m.logger.Info("Sell order bought.",
			zap.Stringer("collection", collection),
			zap.Stringer("token_id", tokenID),
			zap.Stringer("buyer", caller),
			zap.Stringer("recipient", buyer),
			zap.Stringer("token", token),
			zap.Stringer("amount", amount),
			zap.Stringer("to_seller", toSeller),
			zap.Stringer("to_fee", toFee))
		emit(types.SellOrderBought{
			Creator:             order.Creator,
			Collection:          collection,
			TokenID:             tokenID,
			Buyer:               caller,
			AdditionalRecipient: recipient,
		})
		return nil
	})
}

func (m *Marketplace) activeSellOrder(ctx context.Context, tx *store.Tx, collection types.ContractHash, tokenID sdkmath.Uint) (types.SellOrder, error) {
	order, err := tx.SellOrder(collection, tokenID)
	if err != nil {
		return types.SellOrder{}, err
	}
	return order, m.assertOrderIsActive(ctx, order)
}

// assertOrderIsActive checks that the marketplace still holds the listed token. A record
// whose token has left escrow belongs to an order that already settled.
func (m *Marketplace) assertOrderIsActive(ctx context.Context, order types.SellOrder) error {
	owner, ok, err := m.nfts.OwnerOf(ctx, order.Collection, order.TokenID)
	if err != nil {
		return errorsmod.Wrapf(err, "failed to get owner of %s #%s", order.Collection, order.TokenID)
	}
	if !ok {
		return errorsmod.Wrapf(types.ErrNotExistToken, "%s #%s", order.Collection, order.TokenID)
	}
	if !owner.Equal(m.self) {
		return errorsmod.Wrapf(types.ErrFinishedOrder, "%s #%s is no longer in escrow", order.Collection, order.TokenID)
	}
	return nil
}

func (m *Marketplace) pullTokens(ctx context.Context, token types.ContractHash, from, to types.Address, amount sdkmath.Uint) error {
	if amount.IsZero() {
		return nil
	}
	if err := m.tokens.TransferFrom(ctx, token, from, to, amount); err != nil {
		return errorsmod.Wrapf(err, "failed to transfer %s of %s from %s to %s", amount, token, from, to)
	}
	return nil
}

func (m *Marketplace) payTokens(ctx context.Context, token types.ContractHash, to types.Address, amount sdkmath.Uint) error {
	if amount.IsZero() {
		return nil
	}
	if err := m.tokens.Transfer(ctx, token, to, amount); err != nil {
		return errorsmod.Wrapf(err, "failed to pay %s of %s to %s", amount, token, to)
	}
	return nil
}

func deliverTo(caller types.Address, recipient *types.Address) types.Address {
	if recipient != nil {
		return *recipient
	}
	return caller
}
