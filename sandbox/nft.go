package sandbox

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

type collection struct {
	owners    map[string]types.Address
	approvals map[string]types.Address
}

func (c *collection) clone() *collection {
	cp := &collection{
		owners:    make(map[string]types.Address, len(c.owners)),
		approvals: make(map[string]types.Address, len(c.approvals)),
	}
	for k, v := range c.owners {
		cp.owners[k] = v
	}
	for k, v := range c.approvals {
		cp.approvals[k] = v
	}
	return cp
}

// NFTTransfer describes a token that changed hands.
type NFTTransfer struct {
	Collection types.ContractHash
	TokenID    sdkmath.Uint
	From       types.Address
	To         types.Address
}

// NFTTransferHook runs after every NFT transfer, inside the transfer call. An error fails the
// transfer.
type NFTTransferHook func(ctx context.Context, transfer NFTTransfer) error

func (c *Chain) OnNFTTransfer(hook NFTTransferHook) {
	c.nftHooks = append(c.nftHooks, hook)
}

func (c *Chain) DeployCollection() types.ContractHash {
	hash := types.ContractHash(newHash())
	c.collections[hash] = &collection{
		owners:    make(map[string]types.Address),
		approvals: make(map[string]types.Address),
	}
	return hash
}

func (c *Chain) collection(hash types.ContractHash) (*collection, error) {
	col, ok := c.collections[hash]
	if !ok {
		return nil, errorsmod.Wrapf(ErrUnknownContract, "collection %s", hash)
	}
	return col, nil
}

func (c *Chain) Mint(hash types.ContractHash, owner types.Address, tokenID sdkmath.Uint) error {
	col, err := c.collection(hash)
	if err != nil {
		return err
	}
	if _, ok := col.owners[tokenID.String()]; ok {
		return errorsmod.Wrapf(ErrTokenExists, "%s #%s", hash, tokenID)
	}
	col.owners[tokenID.String()] = owner
	return nil
}

// NFTs returns the collections as seen by caller.
func (c *Chain) NFTs(caller types.Address) NFTView {
	return NFTView{chain: c, caller: caller}
}

// NFTView makes collection calls as a fixed caller.
type NFTView struct {
	chain  *Chain
	caller types.Address
}

func (v NFTView) OwnerOf(_ context.Context, hash types.ContractHash, tokenID sdkmath.Uint) (types.Address, bool, error) {
	col, err := v.chain.collection(hash)
	if err != nil {
		return types.Address{}, false, err
	}
	owner, ok := col.owners[tokenID.String()]
	return owner, ok, nil
}

func (v NFTView) GetApproved(_ context.Context, hash types.ContractHash, owner types.Address, tokenID sdkmath.Uint) (types.Address, bool, error) {
	col, err := v.chain.collection(hash)
	if err != nil {
		return types.Address{}, false, err
	}
	if current, ok := col.owners[tokenID.String()]; !ok || !current.Equal(owner) {
		return types.Address{}, false, nil
	}
	spender, ok := col.approvals[tokenID.String()]
	return spender, ok, nil
}

func (v NFTView) Approve(_ context.Context, hash types.ContractHash, spender types.Address, tokenIDs []sdkmath.Uint) error {
	col, err := v.chain.collection(hash)
	if err != nil {
		return err
	}
	for _, id := range tokenIDs {
		if err := col.assertOwner(v.caller, hash, id); err != nil {
			return err
		}
	}
	for _, id := range tokenIDs {
		col.approvals[id.String()] = spender
	}
	return nil
}

func (v NFTView) Transfer(ctx context.Context, hash types.ContractHash, recipient types.Address, tokenIDs []sdkmath.Uint) error {
	return v.TransferFrom(ctx, hash, v.caller, recipient, tokenIDs)
}

// TransferFrom moves tokens owned by sender. The caller must be the sender or the approved spender.
func (v NFTView) TransferFrom(ctx context.Context, hash types.ContractHash, sender, recipient types.Address, tokenIDs []sdkmath.Uint) error {
	col, err := v.chain.collection(hash)
	if err != nil {
		return err
	}
	for _, id := range tokenIDs {
		if err := col.assertOwner(sender, hash, id); err != nil {
			return err
		}
		if v.caller.Equal(sender) {
			continue
		}
		if spender, ok := col.approvals[id.String()]; !ok || !spender.Equal(v.caller) {
			return errorsmod.Wrapf(ErrNotApproved, "%s for %s #%s", v.caller, hash, id)
		}
	}

	for _, id := range tokenIDs {
		col.owners[id.String()] = recipient
		delete(col.approvals, id.String())
		v.chain.logger.Debug("NFT transfer.",
			zap.Stringer("collection", hash),
			zap.Stringer("token_id", id),
			zap.Stringer("from", sender),
			zap.Stringer("to", recipient))
	}

	for _, id := range tokenIDs {
		for _, hook := range v.chain.nftHooks {
			if err := hook(ctx, NFTTransfer{Collection: hash, TokenID: id, From: sender, To: recipient}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (col *collection) assertOwner(addr types.Address, hash types.ContractHash, id sdkmath.Uint) error {
	owner, ok := col.owners[id.String()]
	if !ok {
		return errorsmod.Wrapf(ErrTokenNotMinted, "%s #%s", hash, id)
	}
	if !owner.Equal(addr) {
		return errorsmod.Wrapf(ErrNotOwner, "%s does not own %s #%s", addr, hash, id)
	}
	return nil
}
