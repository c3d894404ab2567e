// Package scenario replays a YAML script of ledger calls against the marketplace running on
// the sandbox ledger.
package scenario

import (
	"fmt"
	"os"

	errorsmod "cosmossdk.io/errors"
	"gopkg.in/yaml.v3"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

// Scenario is the file format. Accounts map a name to its starting native balance in motes.
type Scenario struct {
	Fee         *uint8            `yaml:"fee"`
	FeeWallet   string            `yaml:"fee_wallet"`
	Accounts    map[string]string `yaml:"accounts"`
	Contracts   []string          `yaml:"contracts"`
	Collections []string          `yaml:"collections"`
	Tokens      []string          `yaml:"tokens"`
	Steps       []Step            `yaml:"steps"`
}

// Step is one call. Which fields apply depends on Op.
type Step struct {
	Op          string `yaml:"op"`
	Caller      string `yaml:"caller"`
	Collection  string `yaml:"collection"`
	TokenID     uint64 `yaml:"token_id"`
	PayToken    string `yaml:"pay_token"`
	Amount      string `yaml:"amount"`
	Deposit     string `yaml:"deposit"`
	Price       string `yaml:"price"`
	Recipient   string `yaml:"recipient"`
	Bidder      string `yaml:"bidder"`
	To          string `yaml:"to"`
	Time        uint64 `yaml:"time"`
	ExpectError string `yaml:"expect_error"`
}

const (
	OpSetTime         = "set_time"
	OpMint            = "mint"
	OpApprove         = "approve"
	OpMintTokens      = "mint_tokens"
	OpApproveTokens   = "approve_tokens"
	OpCreateSellOrder = "create_sell_order"
	OpCancelSellOrder = "cancel_sell_order"
	OpBuySellOrder    = "buy_sell_order"
	OpCreateBuyOrder  = "create_buy_order"
	OpCancelBuyOrder  = "cancel_buy_order"
	OpAcceptBuyOrder  = "accept_buy_order"
)

var errorKinds = map[string]*errorsmod.Error{
	"PermissionDenied":      types.ErrPermissionDenied,
	"RequireApprove":        types.ErrRequireApprove,
	"FinishedOrder":         types.ErrFinishedOrder,
	"NotOrderCreator":       types.ErrNotOrderCreator,
	"InsufficientAllowance": types.ErrInsufficientAllowance,
	"InsufficientBalance":   types.ErrInsufficientBalance,
	"InvalidPayToken":       types.ErrInvalidPayToken,
	"Overflow":              types.ErrOverflow,
	"InvalidContext":        types.ErrInvalidContext,
	"AlreadyExistOrder":     types.ErrAlreadyExistOrder,
	"NotExistOrder":         types.ErrNotExistOrder,
	"NotExistToken":         types.ErrNotExistToken,
	"NotTokenOwner":         types.ErrNotTokenOwner,
}

func Load(path string) (*Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(bz)
}

func Parse(bz []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(bz, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	for i, step := range sc.Steps {
		if step.ExpectError == "" {
			continue
		}
		if _, ok := errorKinds[step.ExpectError]; !ok {
			return nil, fmt.Errorf("step %d: unknown error kind %q", i, step.ExpectError)
		}
	}
	return &sc, nil
}
