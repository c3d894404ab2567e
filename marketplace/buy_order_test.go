package marketplace_test

import (
	"testing"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

func TestMarketplace_CreateBuyOrder(t *testing.T) {
	e := newTestEnv(t)
	owner, bidder := e.account(), e.account()
	e.mint(owner, 1)
	e.fundTokens(bidder, 100_000_000_000, 90_000_000_000)
	e.chain.SetBlockTime(42)

	bid := func(amount uint64) error {
		return e.chain.Atomic(func() error {
			return e.mp.CreateBuyOrder(e.ctx, bidder, e.collection, sdkmath.NewUint(1), nil, e.token, sdkmath.NewUint(amount))
		})
	}

	require.ErrorIs(t, bid(90_000_000_001), types.ErrInsufficientAllowance)
	require.NoError(t, bid(90_000_000_000))
	assert.Equal(t, "10000000000", e.tokens(bidder))
	assert.Equal(t, "90000000000", e.tokens(e.self))

	order, err := e.mp.Bid(e.collection, sdkmath.NewUint(1), bidder)
	require.NoError(t, err)
	assert.Equal(t, types.FungibleAsset(e.token), order.PayAsset)
	assert.Equal(t, types.Time(42), order.StartTime)

	require.NoError(t, e.chain.Tokens(bidder).Approve(e.ctx, e.token, e.self, sdkmath.NewUint(1)))
	require.ErrorIs(t, bid(1), types.ErrAlreadyExistOrder)

	t.Run("unknown token", func(t *testing.T) {
		err := e.chain.Atomic(func() error {
			return e.mp.CreateBuyOrder(e.ctx, bidder, e.collection, sdkmath.NewUint(2), nil, e.token, sdkmath.NewUint(1))
		})
		require.ErrorIs(t, err, types.ErrNotExistToken)
		assert.Equal(t, "10000000000", e.tokens(bidder))
	})
}

func TestMarketplace_CreateBuyOrderNative(t *testing.T) {
	e := newTestEnv(t)
	owner, bidder, other := e.account(), e.account(), e.account()
	e.mint(owner, 1)

	require.ErrorIs(t, e.deposit(bidder, 0, func() error {
		return e.mp.CreateBuyOrderNative(e.ctx, bidder, e.collection, sdkmath.NewUint(1), nil, types.NewU512(500))
	}), types.ErrPermissionDenied)

	require.NoError(t, e.bidNative(bidder, 1, 500, nil))
	require.NoError(t, e.bidNative(other, 1, 700, &owner))
	assert.Equal(t, "1200", e.escrowed())

	require.ErrorIs(t, e.bidNative(bidder, 1, 600, nil), types.ErrAlreadyExistOrder)
	assert.Equal(t, "1200", e.escrowed())

	bids, err := e.mp.Bids(e.collection, sdkmath.NewUint(1))
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, "500", bids[bidder].Price.String())
	assert.True(t, bids[bidder].PayAsset.IsNative())
	require.NotNil(t, bids[other].AdditionalRecipient)
	assert.Equal(t, owner, *bids[other].AdditionalRecipient)
}

func TestMarketplace_CancelBuyOrder(t *testing.T) {
	e := newTestEnv(t)
	owner, nativeBidder, tokenBidder := e.account(), e.account(), e.account()
	e.mint(owner, 1)
	e.fundTokens(tokenBidder, 1_000, 1_000)

	require.NoError(t, e.bidNative(nativeBidder, 1, 5_000, nil))
	require.NoError(t, e.mp.CreateBuyOrder(e.ctx, tokenBidder, e.collection, sdkmath.NewUint(1), nil, e.token, sdkmath.NewUint(1_000)))

	err := e.mp.CancelBuyOrder(e.ctx, owner, e.collection, sdkmath.NewUint(1))
	require.ErrorIs(t, err, types.ErrNotExistOrder)

	require.NoError(t, e.mp.CancelBuyOrder(e.ctx, nativeBidder, e.collection, sdkmath.NewUint(1)))
	assert.Equal(t, types.NewU512(sampleBalance).String(), e.chain.Balance(nativeBidder).String())
	assert.Equal(t, "0", e.escrowed())

	require.NoError(t, e.mp.CancelBuyOrder(e.ctx, tokenBidder, e.collection, sdkmath.NewUint(1)))
	assert.Equal(t, "1000", e.tokens(tokenBidder))
	assert.Equal(t, "0", e.tokens(e.self))

	bids, err := e.mp.Bids(e.collection, sdkmath.NewUint(1))
	require.NoError(t, err)
	assert.Empty(t, bids)

	err = e.mp.CancelBuyOrder(e.ctx, nativeBidder, e.collection, sdkmath.NewUint(1))
	require.ErrorIs(t, err, types.ErrNotExistOrder)
}

func TestMarketplace_AcceptBuyOrder(t *testing.T) {
	e := newTestEnv(t)
	owner, bidder, other := e.account(), e.account(), e.account()
	e.mint(owner, 1)
	require.NoError(t, e.bidNative(bidder, 1, 10_000, nil))

	accept := func(caller, bidder types.Address) error {
		return e.chain.Atomic(func() error {
			return e.mp.AcceptBuyOrder(e.ctx, caller, e.collection, sdkmath.NewUint(1), bidder)
		})
	}

	require.ErrorIs(t, accept(other, bidder), types.ErrNotTokenOwner)
	require.ErrorIs(t, accept(owner, bidder), types.ErrRequireApprove)

	require.NoError(t, e.chain.NFTs(owner).Approve(e.ctx, e.collection, e.self, ids(1)))
	require.ErrorIs(t, accept(owner, other), types.ErrNotExistOrder)

	require.NoError(t, accept(owner, bidder))
	assert.Equal(t, bidder, e.ownerOf(1))
	gain, err := e.chain.Balance(owner).Sub(types.NewU512(sampleBalance))
	require.NoError(t, err)
	assert.Equal(t, "9750", gain.String())
	assert.Equal(t, "250", e.chain.Balance(e.feeWallet).String())
	assert.Equal(t, "0", e.escrowed())

	_, err = e.mp.Bid(e.collection, sdkmath.NewUint(1), bidder)
	require.ErrorIs(t, err, types.ErrNotExistOrder)
	assert.Equal(t, []string{"buy_order_created", "buy_order_accepted"}, e.sink.names())
}

func TestMarketplace_AcceptBuyOrder_override(t *testing.T) {
	e := newTestEnv(t)
	owner, bidder, vault := e.account(), e.account(), e.account()
	e.mint(owner, 1)
	e.fundTokens(bidder, 40_000, 40_000)
	require.NoError(t, e.mp.CreateBuyOrder(e.ctx, bidder, e.collection, sdkmath.NewUint(1), &vault, e.token, sdkmath.NewUint(40_000)))
	require.NoError(t, e.chain.NFTs(owner).Approve(e.ctx, e.collection, e.self, ids(1)))

	require.NoError(t, e.mp.AcceptBuyOrder(e.ctx, owner, e.collection, sdkmath.NewUint(1), bidder))

	assert.Equal(t, vault, e.ownerOf(1))
	assert.Equal(t, "39000", e.tokens(owner))
	assert.Equal(t, "1000", e.tokens(e.feeWallet))
	assert.Equal(t, "0", e.tokens(vault))
	assert.Equal(t, "0", e.tokens(e.self))
}

// TestMarketplace_invariants drives random native and fungible operation sequences and checks
// after every step that listings match custody, that the purse covers every native bid, that
// the marketplace's token balance covers every fungible bid and that token supply is conserved.
func TestMarketplace_invariants(t *testing.T) {
	const (
		tokens = 3
		supply = 100_000
	)

	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEnv(rt)
		traders := []types.Address{e.account(), e.account(), e.account()}
		for i, trader := range traders {
			e.mint(trader, uint64(i))
			e.fundTokens(trader, supply, supply*uint64(len(traders)))
		}
		total := types.NewU512(sampleBalance * uint64(len(traders)))
		totalTokens := sdkmath.NewUint(supply * uint64(len(traders)))

		steps := rapid.IntRange(1, 40).Draw(rt, "steps").(int)
		for i := 0; i < steps; i++ {
			trader := rapid.SampledFrom(traders).Draw(rt, "trader").(types.Address)
			other := rapid.SampledFrom(traders).Draw(rt, "other").(types.Address)
			id := rapid.Uint64Range(0, tokens-1).Draw(rt, "token").(uint64)
			amount := rapid.Uint64Range(0, 20_000).Draw(rt, "amount").(uint64)

			var err error
			switch op := rapid.IntRange(0, 8).Draw(rt, "op").(int); op {
			case 0:
				err = e.list(trader, id, types.NativeAsset(), amount)
			case 1:
				err = e.mp.CancelSellOrder(e.ctx, trader, e.collection, sdkmath.NewUint(id))
			case 2:
				err = e.buyNative(trader, id, amount, amount, nil)
			case 3:
				err = e.bidNative(trader, id, amount, nil)
			case 4:
				err = e.chain.Atomic(func() error {
					return e.mp.CancelBuyOrder(e.ctx, trader, e.collection, sdkmath.NewUint(id))
				})
			case 5:
				err = e.chain.Atomic(func() error {
					if err := e.chain.NFTs(trader).Approve(e.ctx, e.collection, e.self, ids(id)); err != nil {
						return err
					}
					return e.mp.AcceptBuyOrder(e.ctx, trader, e.collection, sdkmath.NewUint(id), other)
				})
			case 6:
				err = e.list(trader, id, types.FungibleAsset(e.token), amount)
			case 7:
				err = e.chain.Atomic(func() error {
					return e.mp.BuySellOrder(e.ctx, trader, e.collection, sdkmath.NewUint(id), sdkmath.NewUint(amount), nil)
				})
			case 8:
				err = e.chain.Atomic(func() error {
					return e.mp.CreateBuyOrder(e.ctx, trader, e.collection, sdkmath.NewUint(id), nil, e.token, sdkmath.NewUint(amount))
				})
			}
			if err != nil {
				require.False(rt, errorsmod.IsOf(err, errorsmod.ErrPanic), "step %d: %v", i, err)
			}

			nativeBids := types.ZeroU512()
			fungibleBids := sdkmath.ZeroUint()
			for id := uint64(0); id < tokens; id++ {
				_, err := e.mp.SellOrder(e.collection, sdkmath.NewUint(id))
				listed := err == nil
				require.Equal(rt, listed, e.ownerOf(id).Equal(e.self), "token %d", id)

				bids, err := e.mp.Bids(e.collection, sdkmath.NewUint(id))
				require.NoError(rt, err)
				for _, bid := range bids {
					if bid.PayAsset.IsNative() {
						nativeBids, err = nativeBids.Add(types.U512FromUint(bid.Price))
						require.NoError(rt, err)
					} else {
						fungibleBids = fungibleBids.Add(bid.Price)
					}
				}
			}

			live := total
			for _, addr := range append(traders, e.feeWallet) {
				live, err = live.Sub(e.chain.Balance(addr))
				require.NoError(rt, err)
			}
			cached, err := e.mp.PurseBalance()
			require.NoError(rt, err)
			require.True(rt, cached.Equal(live), "cached %s, purse %s", cached, live)
			require.True(rt, cached.GTE(nativeBids), "escrow %s below bids %s", cached, nativeBids)

			held := e.chain.TokenBalance(e.token, e.self)
			require.True(rt, held.GTE(fungibleBids), "escrowed tokens %s below bids %s", held, fungibleBids)
			circulating := held
			for _, addr := range append(traders, e.feeWallet) {
				circulating = circulating.Add(e.chain.TokenBalance(e.token, addr))
			}
			require.Equal(rt, totalTokens.String(), circulating.String(), "token supply")
		}
	})
}
