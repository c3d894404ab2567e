package marketplace

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

// NFTRegistry is the non-fungible collection contract as seen from the marketplace:
// every call is made with the marketplace as the immediate caller.
type NFTRegistry interface {
	// OwnerOf returns false when the token does not exist.
	OwnerOf(ctx context.Context, collection types.ContractHash, tokenID sdkmath.Uint) (types.Address, bool, error)
	// GetApproved returns the spender approved by owner for the token, false when none is.
	GetApproved(ctx context.Context, collection types.ContractHash, owner types.Address, tokenID sdkmath.Uint) (types.Address, bool, error)
	Approve(ctx context.Context, collection types.ContractHash, spender types.Address, tokenIDs []sdkmath.Uint) error
	Transfer(ctx context.Context, collection types.ContractHash, recipient types.Address, tokenIDs []sdkmath.Uint) error
	TransferFrom(ctx context.Context, collection types.ContractHash, sender, recipient types.Address, tokenIDs []sdkmath.Uint) error
}

// TokenRegistry is the fungible token contract as seen from the marketplace.
type TokenRegistry interface {
	Allowance(ctx context.Context, token types.ContractHash, owner, spender types.Address) (sdkmath.Uint, error)
	Transfer(ctx context.Context, token types.ContractHash, recipient types.Address, amount sdkmath.Uint) error
	TransferFrom(ctx context.Context, token types.ContractHash, owner, recipient types.Address, amount sdkmath.Uint) error
}

// Host is the ledger execution environment: block time and native purses.
type Host interface {
	BlockTime() types.Time
	CreatePurse(ctx context.Context) (types.URef, error)
	PurseBalance(ctx context.Context, purse types.URef) (types.U512, error)
	TransferFromPurseToAccount(ctx context.Context, source types.URef, account types.Hash, amount types.U512) error
	TransferFromPurseToPurse(ctx context.Context, source, target types.URef, amount types.U512) error
}

// PurseProvider calls a contract's get_purse entry point.
type PurseProvider interface {
	GetPurse(ctx context.Context, contract types.Address) (types.URef, error)
}

// EventSink receives the events of committed operations.
type EventSink interface {
	Emit(ctx context.Context, event types.Event)
}

// Capabilities bundles the external contracts and the host the marketplace calls out to.
type Capabilities struct {
	Host   Host
	NFTs   NFTRegistry
	Tokens TokenRegistry
	Purses PurseProvider
}
