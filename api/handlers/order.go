package handlers

import (
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

type OrderHandler struct {
	store orderStore
}

type orderStore interface {
	SellOrder(collection types.ContractHash, tokenID sdkmath.Uint) (types.SellOrder, error)
	Bids(collection types.ContractHash, tokenID sdkmath.Uint) (types.Bids, error)
	Bid(collection types.ContractHash, tokenID sdkmath.Uint, bidder types.Address) (types.BuyOrder, error)
}

func NewOrderHandler(store orderStore) OrderHandler {
	return OrderHandler{store: store}
}

func (h OrderHandler) GetSellOrder(w http.ResponseWriter, r *http.Request) {
	collection, tokenID, err := tokenVars(r)
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := h.store.SellOrder(collection, tokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, order)
}

func (h OrderHandler) GetBids(w http.ResponseWriter, r *http.Request) {
	collection, tokenID, err := tokenVars(r)
	if err != nil {
		writeError(w, err)
		return
	}

	bids, err := h.store.Bids(collection, tokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, bids)
}

func (h OrderHandler) GetBid(w http.ResponseWriter, r *http.Request) {
	collection, tokenID, err := tokenVars(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bidder, err := types.ParseAddress(mux.Vars(r)["bidder"])
	if err != nil {
		writeError(w, err)
		return
	}

	bid, err := h.store.Bid(collection, tokenID, bidder)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, bid)
}
