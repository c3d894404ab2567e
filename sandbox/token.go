package sandbox

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

type allowanceKey struct {
	owner   types.Address
	spender types.Address
}

type token struct {
	balances   map[types.Address]sdkmath.Uint
	allowances map[allowanceKey]sdkmath.Uint
}

func (t *token) clone() *token {
	cp := &token{
		balances:   make(map[types.Address]sdkmath.Uint, len(t.balances)),
		allowances: make(map[allowanceKey]sdkmath.Uint, len(t.allowances)),
	}
	for k, v := range t.balances {
		cp.balances[k] = v
	}
	for k, v := range t.allowances {
		cp.allowances[k] = v
	}
	return cp
}

func (t *token) balance(owner types.Address) sdkmath.Uint {
	if b, ok := t.balances[owner]; ok {
		return b
	}
	return sdkmath.ZeroUint()
}

func (t *token) allowance(owner, spender types.Address) sdkmath.Uint {
	if a, ok := t.allowances[allowanceKey{owner, spender}]; ok {
		return a
	}
	return sdkmath.ZeroUint()
}

func (t *token) move(from, to types.Address, amount sdkmath.Uint) error {
	balance := t.balance(from)
	if balance.LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientFunds, "%s holds %s, need %s", from, balance, amount)
	}
	t.balances[from] = balance.Sub(amount)
	t.balances[to] = t.balance(to).Add(amount)
	return nil
}

func (c *Chain) DeployToken() types.ContractHash {
	hash := types.ContractHash(newHash())
	c.tokens[hash] = &token{
		balances:   make(map[types.Address]sdkmath.Uint),
		allowances: make(map[allowanceKey]sdkmath.Uint),
	}
	return hash
}

func (c *Chain) token(hash types.ContractHash) (*token, error) {
	t, ok := c.tokens[hash]
	if !ok {
		return nil, errorsmod.Wrapf(ErrUnknownContract, "token %s", hash)
	}
	return t, nil
}

func (c *Chain) MintTokens(hash types.ContractHash, to types.Address, amount sdkmath.Uint) error {
	t, err := c.token(hash)
	if err != nil {
		return err
	}
	t.balances[to] = t.balance(to).Add(amount)
	return nil
}

// TokenBalance returns zero for unknown tokens and holders.
func (c *Chain) TokenBalance(hash types.ContractHash, owner types.Address) sdkmath.Uint {
	t, err := c.token(hash)
	if err != nil {
		return sdkmath.ZeroUint()
	}
	return t.balance(owner)
}

// Tokens returns the token contracts as seen by caller.
func (c *Chain) Tokens(caller types.Address) TokenView {
	return TokenView{chain: c, caller: caller}
}

// TokenView makes token calls as a fixed caller.
type TokenView struct {
	chain  *Chain
	caller types.Address
}

func (v TokenView) Allowance(_ context.Context, hash types.ContractHash, owner, spender types.Address) (sdkmath.Uint, error) {
	t, err := v.chain.token(hash)
	if err != nil {
		return sdkmath.Uint{}, err
	}
	return t.allowance(owner, spender), nil
}

// Approve sets the caller's allowance for spender, replacing any previous one.
func (v TokenView) Approve(_ context.Context, hash types.ContractHash, spender types.Address, amount sdkmath.Uint) error {
	t, err := v.chain.token(hash)
	if err != nil {
		return err
	}
	t.allowances[allowanceKey{v.caller, spender}] = amount
	return nil
}

func (v TokenView) Transfer(_ context.Context, hash types.ContractHash, recipient types.Address, amount sdkmath.Uint) error {
	t, err := v.chain.token(hash)
	if err != nil {
		return err
	}
	if err := t.move(v.caller, recipient, amount); err != nil {
		return err
	}
	v.chain.logTokenTransfer(hash, v.caller, recipient, amount)
	return nil
}

// TransferFrom spends the caller's allowance from owner.
func (v TokenView) TransferFrom(_ context.Context, hash types.ContractHash, owner, recipient types.Address, amount sdkmath.Uint) error {
	t, err := v.chain.token(hash)
	if err != nil {
		return err
	}
	allowance := t.allowance(owner, v.caller)
	if allowance.LT(amount) {
		return errorsmod.Wrapf(ErrNotApproved, "%s may spend %s of %s, need %s", v.caller, allowance, owner, amount)
	}
	if err := t.move(owner, recipient, amount); err != nil {
		return err
	}
	t.allowances[allowanceKey{owner, v.caller}] = allowance.Sub(amount)
	v.chain.logTokenTransfer(hash, owner, recipient, amount)
	return nil
}

func (c *Chain) logTokenTransfer(hash types.ContractHash, from, to types.Address, amount sdkmath.Uint) {
	c.logger.Debug("Token transfer.",
		zap.Stringer("token", hash),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Stringer("amount", amount))
}
