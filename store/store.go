package store

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

// OrderStore persists sell orders, bids and the marketplace's named values.
// Reads on the store see committed state only; writes go through a Tx.
type OrderStore struct {
	view
	db dbm.DB
}

func NewOrderStore(db dbm.DB) *OrderStore {
	return &OrderStore{
		view: view{get: db.Get},
		db:   db,
	}
}

// Begin starts a write transaction. Nothing reaches the database until Commit.
func (s *OrderStore) Begin() *Tx {
	tx := &Tx{
		db:     s.db,
		writes: make(map[string]write),
	}
	tx.view = view{get: tx.get}
	return tx
}

// Open opens the named database with a tm-db backend such as "goleveldb" or "memdb".
func Open(backend, dir, name string) (*OrderStore, error) {
	db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database %s in %s: %w", backend, name, dir, err)
	}
	return NewOrderStore(db), nil
}

func (s *OrderStore) Close() error {
	return s.db.Close()
}

const (
	prefixParam = int64(1)
	prefixSell  = int64(2)
	prefixBids  = int64(3)
)

func paramKey(name string) []byte {
	key, err := orderedcode.Append(nil, prefixParam, name)
	if err != nil {
		panic(err)
	}
	return key
}

func sellOrderKey(collection types.ContractHash, tokenID sdkmath.Uint) []byte {
	key, err := orderedcode.Append(nil, prefixSell, string(collection[:]), tokenKey(tokenID))
	if err != nil {
		panic(err)
	}
	return key
}

func bidsKey(collection types.ContractHash, tokenID sdkmath.Uint) []byte {
	key, err := orderedcode.Append(nil, prefixBids, string(collection[:]), tokenKey(tokenID))
	if err != nil {
		panic(err)
	}
	return key
}

// tokenKey encodes a token id as 32 big-endian bytes so keys sort numerically.
func tokenKey(tokenID sdkmath.Uint) string {
	var buf [32]byte
	tokenID.BigInt().FillBytes(buf[:])
	return string(buf[:])
}
