package marketplace

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"github.com/casperpad/kunft-marketplace-contract/store"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

// escrowLedger owns the deposit purse. The cached balance in the store is the amount the
// marketplace has accounted for; anything above it is an unclaimed deposit.
type escrowLedger struct {
	host   Host
	purses PurseProvider
}

func (e escrowLedger) liveBalance(ctx context.Context, tx *store.Tx) (types.URef, types.U512, error) {
	purse, err := tx.Purse()
	if err != nil {
		return types.URef{}, types.U512{}, err
	}
	balance, err := e.host.PurseBalance(ctx, purse)
	if err != nil {
		return types.URef{}, types.U512{}, errorsmod.Wrap(err, "failed to read escrow purse balance")
	}
	return purse, balance, nil
}

// depositCheck authenticates a native deposit: the purse must hold exactly the cached balance
// plus claimed. The cache then moves to the live balance.
func (e escrowLedger) depositCheck(ctx context.Context, tx *store.Tx, claimed types.U512) error {
	_, live, err := e.liveBalance(ctx, tx)
	if err != nil {
		return err
	}
	cached, err := tx.PurseBalance()
	if err != nil {
		return err
	}
	expected, err := cached.Add(claimed)
	if err != nil || !expected.Equal(live) {
		return errorsmod.Wrapf(types.ErrPermissionDenied,
			"deposit of %s not found in escrow: accounted %s, purse holds %s", claimed, cached, live)
	}
	return tx.SetPurseBalance(live)
}

// payOut moves amount from escrow to target. A contract target is paid into the purse it
// exposes through get_purse.
func (e escrowLedger) payOut(ctx context.Context, tx *store.Tx, target types.Address, amount types.U512) error {
	if amount.IsZero() {
		return nil
	}
	purse, err := tx.Purse()
	if err != nil {
		return err
	}

	if target.IsAccount() {
		err = e.host.TransferFromPurseToAccount(ctx, purse, target.Hash(), amount)
	} else {
		var targetPurse types.URef
		targetPurse, err = e.purses.GetPurse(ctx, target)
		if err != nil {
			return errorsmod.Wrapf(err, "failed to get purse of %s", target)
		}
		err = e.host.TransferFromPurseToPurse(ctx, purse, targetPurse, amount)
	}
	if err != nil {
		return errorsmod.Wrapf(err, "failed to pay %s to %s", amount, target)
	}

	return e.refresh(ctx, tx)
}

func (e escrowLedger) refresh(ctx context.Context, tx *store.Tx) error {
	_, live, err := e.liveBalance(ctx, tx)
	if err != nil {
		return err
	}
	return tx.SetPurseBalance(live)
}
