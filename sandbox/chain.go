// Package sandbox is an in-memory ledger for driving the marketplace outside a node: native
// purses, CEP-47 style NFT collections and CEP-18 style tokens. It is not safe for concurrent use.
package sandbox

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

type state struct {
	time           types.Time
	purses         map[types.Hash]types.U512
	mainPurses     map[types.Address]types.URef
	contractPurses map[types.Address]types.URef
	collections    map[types.ContractHash]*collection
	tokens         map[types.ContractHash]*token
}

func (s *state) clone() *state {
	c := &state{
		time:           s.time,
		purses:         make(map[types.Hash]types.U512, len(s.purses)),
		mainPurses:     make(map[types.Address]types.URef, len(s.mainPurses)),
		contractPurses: make(map[types.Address]types.URef, len(s.contractPurses)),
		collections:    make(map[types.ContractHash]*collection, len(s.collections)),
		tokens:         make(map[types.ContractHash]*token, len(s.tokens)),
	}
	for k, v := range s.purses {
		c.purses[k] = v
	}
	for k, v := range s.mainPurses {
		c.mainPurses[k] = v
	}
	for k, v := range s.contractPurses {
		c.contractPurses[k] = v
	}
	for k, v := range s.collections {
		c.collections[k] = v.clone()
	}
	for k, v := range s.tokens {
		c.tokens[k] = v.clone()
	}
	return c
}

// Chain holds every account, purse and contract of the sandbox.
type Chain struct {
	logger *zap.Logger
	*state

	nftHooks []NFTTransferHook
}

func NewChain(logger *zap.Logger) *Chain {
	return &Chain{
		logger: logger.With(zap.String("module", "sandbox")),
		state: &state{
			purses:         make(map[types.Hash]types.U512),
			mainPurses:     make(map[types.Address]types.URef),
			contractPurses: make(map[types.Address]types.URef),
			collections:    make(map[types.ContractHash]*collection),
			tokens:         make(map[types.ContractHash]*token),
		},
	}
}

// Atomic runs fn and rolls every balance and ownership change back when it fails, the way the
// ledger reverts a failed deploy.
func (c *Chain) Atomic(fn func() error) error {
	snapshot := c.state.clone()
	if err := fn(); err != nil {
		c.state = snapshot
		return err
	}
	return nil
}

func newHash() types.Hash {
	var h types.Hash
	a, b := uuid.New(), uuid.New()
	copy(h[:16], a[:])
	copy(h[16:], b[:])
	return h
}

func (c *Chain) BlockTime() types.Time { return c.time }

func (c *Chain) SetBlockTime(t types.Time) { c.time = t }

// NewAccount creates an account whose main purse holds balance.
func (c *Chain) NewAccount(balance types.U512) types.Address {
	addr := types.AccountAddress(newHash())
	c.mainPurses[addr] = c.newPurse(balance)
	return addr
}

// AddAccount gives a known account hash a main purse. It is a no-op for existing accounts.
func (c *Chain) AddAccount(addr types.Address, balance types.U512) error {
	if !addr.IsAccount() {
		return errorsmod.Wrapf(types.ErrInvalidAddress, "%s is not an account", addr)
	}
	if _, ok := c.mainPurses[addr]; !ok {
		c.mainPurses[addr] = c.newPurse(balance)
	}
	return nil
}

// NewContract creates a contract identity. With a purse it can receive native payouts
// through GetPurse.
func (c *Chain) NewContract(withPurse bool) types.Address {
	addr := types.ContractAddress(newHash())
	if withPurse {
		c.contractPurses[addr] = c.newPurse(types.ZeroU512())
	}
	return addr
}

func (c *Chain) newPurse(balance types.U512) types.URef {
	purse := types.URef{Addr: newHash(), Access: types.AccessReadAddWrite}
	c.purses[purse.Addr] = balance
	return purse
}

// MainPurse returns the full-rights main purse of an account.
func (c *Chain) MainPurse(account types.Address) (types.URef, error) {
	purse, ok := c.mainPurses[account]
	if !ok {
		return types.URef{}, errorsmod.Wrapf(ErrUnknownAccount, "%s", account)
	}
	return purse, nil
}

// Balance is the native balance of an account's main purse or a contract's purse.
func (c *Chain) Balance(addr types.Address) types.U512 {
	purse, ok := c.mainPurses[addr]
	if !ok {
		purse, ok = c.contractPurses[addr]
	}
	if !ok {
		return types.ZeroU512()
	}
	return c.purses[purse.Addr]
}

func (c *Chain) CreatePurse(context.Context) (types.URef, error) {
	return c.newPurse(types.ZeroU512()), nil
}

func (c *Chain) PurseBalance(_ context.Context, purse types.URef) (types.U512, error) {
	if !purse.Can(types.AccessRead) {
		return types.U512{}, errorsmod.Wrapf(ErrAccessDenied, "read %s", purse)
	}
	balance, ok := c.purses[purse.Addr]
	if !ok {
		return types.U512{}, errorsmod.Wrapf(ErrUnknownPurse, "%s", purse)
	}
	return balance, nil
}

func (c *Chain) TransferFromPurseToAccount(ctx context.Context, source types.URef, account types.Hash, amount types.U512) error {
	target, ok := c.mainPurses[types.AccountAddress(account)]
	if !ok {
		return errorsmod.Wrapf(ErrUnknownAccount, "account-hash-%s", account.Hex())
	}
	return c.TransferFromPurseToPurse(ctx, source, target, amount)
}

// TransferFromPurseToPurse needs write rights on source and add rights on target.
func (c *Chain) TransferFromPurseToPurse(_ context.Context, source, target types.URef, amount types.U512) error {
	if !source.Can(types.AccessWrite) {
		return errorsmod.Wrapf(ErrAccessDenied, "withdraw from %s", source)
	}
	if !target.Can(types.AccessAdd) {
		return errorsmod.Wrapf(ErrAccessDenied, "deposit into %s", target)
	}
	from, ok := c.purses[source.Addr]
	if !ok {
		return errorsmod.Wrapf(ErrUnknownPurse, "%s", source)
	}
	to, ok := c.purses[target.Addr]
	if !ok {
		return errorsmod.Wrapf(ErrUnknownPurse, "%s", target)
	}
	if from.LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientFunds, "%s holds %s, need %s", source, from, amount)
	}
	if source.Addr == target.Addr {
		return nil
	}

	from, err := from.Sub(amount)
	if err != nil {
		return err
	}
	to, err = to.Add(amount)
	if err != nil {
		return err
	}
	c.purses[source.Addr] = from
	c.purses[target.Addr] = to

	c.logger.Debug("Native transfer.",
		zap.Stringer("from", source),
		zap.Stringer("to", target),
		zap.Stringer("amount", amount))
	return nil
}

// Deposit sends amount from an account's main purse into purse. It is the session a buyer
// runs before a native purchase or bid.
func (c *Chain) Deposit(ctx context.Context, from types.Address, purse types.URef, amount types.U512) error {
	source, err := c.MainPurse(from)
	if err != nil {
		return err
	}
	return c.TransferFromPurseToPurse(ctx, source, purse, amount)
}

// GetPurse answers a contract's get_purse entry point.
func (c *Chain) GetPurse(_ context.Context, contract types.Address) (types.URef, error) {
	purse, ok := c.contractPurses[contract]
	if !ok {
		return types.URef{}, errorsmod.Wrapf(ErrUnknownContract, "%s exposes no purse", contract)
	}
	return purse.WithAccess(types.AccessAdd), nil
}
