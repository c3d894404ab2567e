package handlers

import (
	"net/http"

	"github.com/casperpad/kunft-marketplace-contract/fee"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

type EscrowHandler struct {
	store paramStore
}

type paramStore interface {
	Fee() (uint8, error)
	FeeWallet() (types.Address, error)
	Purse() (types.URef, error)
	PurseBalance() (types.U512, error)
}

func NewEscrowHandler(store paramStore) EscrowHandler {
	return EscrowHandler{store: store}
}

type escrowResponse struct {
	DepositPurse types.URef `json:"deposit_purse"`
	Balance      types.U512 `json:"balance"`
}

type feeResponse struct {
	Fee       uint8         `json:"fee"`
	Percent   string        `json:"percent"`
	FeeWallet types.Address `json:"fee_wallet"`
}

// GetEscrow returns the deposit handle, never the withdraw rights, and the accounted balance.
func (h EscrowHandler) GetEscrow(w http.ResponseWriter, _ *http.Request) {
	purse, err := h.store.Purse()
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := h.store.PurseBalance()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, escrowResponse{
		DepositPurse: purse.WithAccess(types.AccessAdd),
		Balance:      balance,
	})
}

func (h EscrowHandler) GetFee(w http.ResponseWriter, _ *http.Request) {
	rate, err := h.store.Fee()
	if err != nil {
		writeError(w, err)
		return
	}
	wallet, err := h.store.FeeWallet()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, feeResponse{
		Fee:       rate,
		Percent:   fee.Rate(rate).Percent().String(),
		FeeWallet: wallet,
	})
}
