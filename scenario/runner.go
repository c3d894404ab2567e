package scenario

import (
	"context"
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/fee"
	"github.com/casperpad/kunft-marketplace-contract/marketplace"
	"github.com/casperpad/kunft-marketplace-contract/sandbox"
	"github.com/casperpad/kunft-marketplace-contract/store"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

const (
	marketplaceName = "marketplace"
	feeWalletName   = "fee_wallet"
)

// Config holds the marketplace settings a scenario does not override.
type Config struct {
	Fee       fee.Rate
	FeeWallet types.Address
	Self      types.Address
}

type Runner struct {
	logger *zap.Logger
	store  *store.OrderStore
	config Config
}

func NewRunner(logger *zap.Logger, orderStore *store.OrderStore, config Config) *Runner {
	return &Runner{
		logger: logger.With(zap.String("module", "scenario")),
		store:  orderStore,
		config: config,
	}
}

// StepResult is the outcome of one step. Code is zero for a step that succeeded.
type StepResult struct {
	Index     int
	Op        string
	Codespace string
	Code      uint32
	Log       string
}

// Report is the ledger state after a run, keyed by the names the scenario uses.
type Report struct {
	RunID    uuid.UUID
	Steps    []StepResult
	Balances map[string]types.U512
	Tokens   map[string]map[string]sdkmath.Uint
	Owners   map[string]map[uint64]string
	Escrow   types.U512
}

type run struct {
	ctx    context.Context
	logger *zap.Logger
	chain  *sandbox.Chain
	market *marketplace.Marketplace

	addresses   map[string]types.Address
	collections map[string]types.ContractHash
	tokens      map[string]types.ContractHash
	minted      map[string][]uint64
}

// Run replays sc against a fresh sandbox. Every step is atomic: a failed step leaves no trace.
// A step that fails without expecting to, or that expected a failure and succeeded, ends the run.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	initialized, err := r.store.Initialized()
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, errors.New("store already holds a marketplace: use a fresh database for each run")
	}

	runID := uuid.New()
	logger := r.logger.With(zap.String("run_id", runID.String()))
	chain := sandbox.NewChain(logger)

	self := r.config.Self
	market, err := marketplace.NewMarketplace(logger, r.store, self, marketplace.Capabilities{
		Host:   chain,
		NFTs:   chain.NFTs(self),
		Tokens: chain.Tokens(self),
		Purses: chain,
	})
	if err != nil {
		return nil, err
	}

	ru := &run{
		ctx:         ctx,
		logger:      logger,
		chain:       chain,
		market:      market,
		addresses:   map[string]types.Address{marketplaceName: self},
		collections: make(map[string]types.ContractHash),
		tokens:      make(map[string]types.ContractHash),
		minted:      make(map[string][]uint64),
	}
	if err := ru.setup(r.config, sc); err != nil {
		return nil, err
	}

	report := &Report{RunID: runID}
	for i, step := range sc.Steps {
		err := chain.Atomic(func() error { return ru.step(step) })
		result := StepResult{Index: i, Op: step.Op}
		if err != nil {
			result.Codespace, result.Code, result.Log = errorsmod.ABCIInfo(err, false)
		}
		report.Steps = append(report.Steps, result)

		if err := checkExpectation(step, err); err != nil {
			return report, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		logger.Debug("Step done.", zap.Int("step", i), zap.String("op", step.Op), zap.Uint32("code", result.Code))
	}

	return ru.fill(report, sc)
}

func checkExpectation(step Step, err error) error {
	if step.ExpectError == "" {
		return err
	}
	want := errorKinds[step.ExpectError]
	if err == nil {
		return fmt.Errorf("expected %s, step succeeded", step.ExpectError)
	}
	if !errors.Is(err, want) {
		return fmt.Errorf("expected %s: %w", step.ExpectError, err)
	}
	return nil
}

func (ru *run) setup(config Config, sc *Scenario) error {
	for name, balance := range sc.Accounts {
		amount, err := types.ParseU512(balance)
		if err != nil {
			return fmt.Errorf("account %s: %w", name, err)
		}
		ru.addresses[name] = ru.chain.NewAccount(amount)
	}
	for _, name := range sc.Contracts {
		ru.addresses[name] = ru.chain.NewContract(true)
	}
	for _, name := range sc.Collections {
		ru.collections[name] = ru.chain.DeployCollection()
	}
	for _, name := range sc.Tokens {
		ru.tokens[name] = ru.chain.DeployToken()
	}

	rate := config.Fee
	if sc.Fee != nil {
		rate = fee.Rate(*sc.Fee)
	}
	wallet := config.FeeWallet
	if sc.FeeWallet != "" {
		var err error
		if wallet, err = ru.address(sc.FeeWallet); err != nil {
			return err
		}
	} else if wallet.IsAccount() {
		if err := ru.chain.AddAccount(wallet, types.ZeroU512()); err != nil {
			return err
		}
	}
	ru.addresses[feeWalletName] = wallet

	return ru.market.Init(ru.ctx, rate, wallet)
}

func (ru *run) address(name string) (types.Address, error) {
	if addr, ok := ru.addresses[name]; ok {
		return addr, nil
	}
	return types.ParseAddress(name)
}

func (ru *run) optionalAddress(name string) (*types.Address, error) {
	if name == "" {
		return nil, nil
	}
	addr, err := ru.address(name)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (ru *run) collection(name string) (types.ContractHash, error) {
	if hash, ok := ru.collections[name]; ok {
		return hash, nil
	}
	return types.ContractHash{}, fmt.Errorf("unknown collection %q", name)
}

func (ru *run) token(name string) (types.ContractHash, error) {
	if hash, ok := ru.tokens[name]; ok {
		return hash, nil
	}
	return types.ContractHash{}, fmt.Errorf("unknown token %q", name)
}

func (ru *run) payAsset(name string) (types.PayAsset, error) {
	if name == "" {
		return types.NativeAsset(), nil
	}
	token, err := ru.token(name)
	if err != nil {
		return types.PayAsset{}, err
	}
	return types.FungibleAsset(token), nil
}

// spender defaults to the marketplace.
func (ru *run) spender(name string) (types.Address, error) {
	if name == "" {
		return ru.addresses[marketplaceName], nil
	}
	return ru.address(name)
}

func (ru *run) fill(report *Report, sc *Scenario) (*Report, error) {
	report.Balances = make(map[string]types.U512)
	for name, addr := range ru.addresses {
		report.Balances[name] = ru.chain.Balance(addr)
	}

	report.Tokens = make(map[string]map[string]sdkmath.Uint)
	for tokenName, hash := range ru.tokens {
		holders := make(map[string]sdkmath.Uint)
		for name, addr := range ru.addresses {
			if balance := ru.chain.TokenBalance(hash, addr); !balance.IsZero() {
				holders[name] = balance
			}
		}
		report.Tokens[tokenName] = holders
	}

	report.Owners = make(map[string]map[uint64]string)
	nfts := ru.chain.NFTs(ru.addresses[marketplaceName])
	for collectionName, hash := range ru.collections {
		owners := make(map[uint64]string)
		for _, id := range ru.minted[collectionName] {
			owner, ok, err := nfts.OwnerOf(ru.ctx, hash, sdkmath.NewUint(id))
			if err != nil {
				return report, err
			}
			if ok {
				owners[id] = ru.name(owner)
			}
		}
		report.Owners[collectionName] = owners
	}

	escrow, err := ru.market.PurseBalance()
	if err != nil {
		return report, err
	}
	report.Escrow = escrow
	return report, nil
}

func (ru *run) name(addr types.Address) string {
	for name, a := range ru.addresses {
		if a.Equal(addr) && name != feeWalletName {
			return name
		}
	}
	if ru.addresses[feeWalletName].Equal(addr) {
		return feeWalletName
	}
	return addr.String()
}
