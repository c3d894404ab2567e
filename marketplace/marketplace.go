package marketplace

import (
	"context"
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/fee"
	"github.com/casperpad/kunft-marketplace-contract/store"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

// Marketplace escrows NFTs and funds, matches sell orders and bids, and pays out proceeds
// net of the protocol fee.
//
// Operations are not safe for concurrent use: the ledger serializes calls, and the only
// nesting allowed is a callback from an external contract, which the reentrancy guard rejects.
type Marketplace struct {
	logger *zap.Logger
	store  *store.OrderStore
	self   types.Address

	nfts   NFTRegistry
	tokens TokenRegistry
	escrow escrowLedger
	host   Host
	events EventSink

	guard reentrancyGuard
}

type Option func(*Marketplace)

// WithEventSink replaces the default logging sink.
func WithEventSink(sink EventSink) Option {
	return func(m *Marketplace) {
		m.events = sink
	}
}

// NewMarketplace wires a marketplace whose own contract identity is self.
func NewMarketplace(
	logger *zap.Logger,
	orderStore *store.OrderStore,
	self types.Address,
	caps Capabilities,
	opts ...Option,
) (*Marketplace, error) {
	if caps.Host == nil || caps.NFTs == nil || caps.Tokens == nil || caps.Purses == nil {
		return nil, errors.New("marketplace requires host, nft, token and purse capabilities")
	}
	if !self.IsContract() {
		return nil, errorsmod.Wrapf(types.ErrInvalidAddress, "marketplace identity %s is not a contract", self)
	}

	m := &Marketplace{
		logger: logger.With(zap.String("module", "marketplace")),
		store:  orderStore,
		self:   self,
		nfts:   caps.NFTs,
		tokens: caps.Tokens,
		host:   caps.Host,
		escrow: escrowLedger{host: caps.Host, purses: caps.Purses},
	}
	m.events = NewLogSink(logger)

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Address is the marketplace's own contract identity, the spender sellers approve.
func (m *Marketplace) Address() types.Address {
	return m.self
}

type emitFunc func(types.Event)

// execute runs op under the reentrancy guard inside a store transaction. Writes are committed
// and events emitted only when op succeeds.
func (m *Marketplace) execute(ctx context.Context, name string, op func(tx *store.Tx, emit emitFunc) error) (err error) {
	if err := m.guard.enter(); err != nil {
		return errorsmod.Wrapf(err, "%s", name)
	}
	defer m.guard.exit()
	defer errorsmod.Recover(&err)

	tx := m.store.Begin()
	var events []types.Event
	if err := op(tx, func(e types.Event) { events = append(events, e) }); err != nil {
		m.logger.Debug("Operation reverted.", zap.String("op", name), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}

	for _, e := range events {
		m.events.Emit(ctx, e)
	}
	return nil
}

// Init stores the fee configuration and creates the deposit purse. It can run once.
func (m *Marketplace) Init(ctx context.Context, rate fee.Rate, feeWallet types.Address) error {
	return m.execute(ctx, "init", func(tx *store.Tx, _ emitFunc) error {
		initialized, err := tx.Initialized()
		if err != nil {
			return err
		}
		if initialized {
			return errorsmod.Wrap(types.ErrPermissionDenied, "marketplace is already initialized")
		}

		purse, err := m.host.CreatePurse(ctx)
		if err != nil {
			return fmt.Errorf("failed to create deposit purse: %w", err)
		}
		if err := tx.SetFee(uint8(rate)); err != nil {
			return err
		}
		if err := tx.SetFeeWallet(feeWallet); err != nil {
			return err
		}
		if err := tx.SetPurse(purse); err != nil {
			return err
		}
		if err := tx.SetPurseBalance(types.ZeroU512()); err != nil {
			return err
		}

		m.logger.Info("Marketplace initialized.",
			zap.Stringer("fee", rate),
			zap.Stringer("fee_wallet", feeWallet),
			zap.Stringer("purse", purse))
		return nil
	})
}

// DepositPurse returns an add-only handle to the escrow purse. Native buyers and bidders
// transfer into it before calling the native entry points.
func (m *Marketplace) DepositPurse() (types.URef, error) {
	purse, err := m.store.Purse()
	if err != nil {
		return types.URef{}, err
	}
	return purse.WithAccess(types.AccessAdd), nil
}

// PurseBalance is the escrow balance the marketplace has accounted for.
func (m *Marketplace) PurseBalance() (types.U512, error) {
	return m.store.PurseBalance()
}

func (m *Marketplace) Fee() (fee.Rate, error) {
	rate, err := m.store.Fee()
	return fee.Rate(rate), err
}

func (m *Marketplace) FeeWallet() (types.Address, error) {
	return m.store.FeeWallet()
}

func (m *Marketplace) SellOrder(collection types.ContractHash, tokenID sdkmath.Uint) (types.SellOrder, error) {
	return m.store.SellOrder(collection, tokenID)
}

func (m *Marketplace) Bids(collection types.ContractHash, tokenID sdkmath.Uint) (types.Bids, error) {
	return m.store.Bids(collection, tokenID)
}

func (m *Marketplace) Bid(collection types.ContractHash, tokenID sdkmath.Uint, bidder types.Address) (types.BuyOrder, error) {
	return m.store.Bid(collection, tokenID, bidder)
}

type feeConfig struct {
	rate   fee.Rate
	wallet types.Address
}

func feeParams(tx *store.Tx) (feeConfig, error) {
	rate, err := tx.Fee()
	if err != nil {
		return feeConfig{}, err
	}
	wallet, err := tx.FeeWallet()
	if err != nil {
		return feeConfig{}, err
	}
	return feeConfig{rate: fee.Rate(rate), wallet: wallet}, nil
}
