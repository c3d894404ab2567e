package store

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

func (v view) param(name string, out any) error {
	found, err := v.load(paramKey(name), out)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(types.ErrInvalidContext, "named value %q is not set", name)
	}
	return nil
}

// Initialized reports whether the constructor has run.
func (v view) Initialized() (bool, error) {
	var wallet types.Address
	return v.load(paramKey(types.FeeWalletKey), &wallet)
}

func (v view) Fee() (uint8, error) {
	var fee uint8
	err := v.param(types.FeeKey, &fee)
	return fee, err
}

func (v view) FeeWallet() (types.Address, error) {
	var wallet types.Address
	err := v.param(types.FeeWalletKey, &wallet)
	return wallet, err
}

func (v view) Purse() (types.URef, error) {
	var purse types.URef
	err := v.param(types.PurseKey, &purse)
	return purse, err
}

// PurseBalance is the cached balance of the deposit purse.
func (v view) PurseBalance() (types.U512, error) {
	var balance types.U512
	err := v.param(types.PurseBalanceKey, &balance)
	return balance, err
}

func (tx *Tx) SetFee(fee uint8) error {
	return tx.store(paramKey(types.FeeKey), fee)
}

func (tx *Tx) SetFeeWallet(wallet types.Address) error {
	return tx.store(paramKey(types.FeeWalletKey), wallet)
}

func (tx *Tx) SetPurse(purse types.URef) error {
	return tx.store(paramKey(types.PurseKey), purse)
}

func (tx *Tx) SetPurseBalance(balance types.U512) error {
	return tx.store(paramKey(types.PurseBalanceKey), balance)
}
