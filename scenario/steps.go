package scenario

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

// stepArgs are the step fields resolved against the run's names.
type stepArgs struct {
	caller     types.Address
	collection types.ContractHash
	tokenID    sdkmath.Uint
	recipient  *types.Address
}

func (ru *run) resolve(step Step) (stepArgs, error) {
	var (
		args stepArgs
		err  error
	)
	args.tokenID = sdkmath.NewUint(step.TokenID)
	if step.Caller != "" {
		if args.caller, err = ru.address(step.Caller); err != nil {
			return args, err
		}
	}
	if step.Collection != "" {
		if args.collection, err = ru.collection(step.Collection); err != nil {
			return args, err
		}
	}
	if args.recipient, err = ru.optionalAddress(step.Recipient); err != nil {
		return args, err
	}
	return args, nil
}

func (ru *run) step(step Step) error {
	args, err := ru.resolve(step)
	if err != nil {
		return err
	}

	switch step.Op {
	case OpSetTime:
		ru.chain.SetBlockTime(step.Time)
		return nil
	case OpMint:
		return ru.mint(step, args)
	case OpApprove:
		spender, err := ru.spender(step.To)
		if err != nil {
			return err
		}
		return ru.chain.NFTs(args.caller).Approve(ru.ctx, args.collection, spender, []sdkmath.Uint{args.tokenID})
	case OpMintTokens:
		return ru.mintTokens(step)
	case OpApproveTokens:
		return ru.approveTokens(step, args)
	case OpCreateSellOrder:
		return ru.createSellOrder(step, args)
	case OpCancelSellOrder:
		return ru.market.CancelSellOrder(ru.ctx, args.caller, args.collection, args.tokenID)
	case OpBuySellOrder:
		return ru.buySellOrder(step, args)
	case OpCreateBuyOrder:
		return ru.createBuyOrder(step, args)
	case OpCancelBuyOrder:
		return ru.market.CancelBuyOrder(ru.ctx, args.caller, args.collection, args.tokenID)
	case OpAcceptBuyOrder:
		bidder, err := ru.address(step.Bidder)
		if err != nil {
			return err
		}
		return ru.market.AcceptBuyOrder(ru.ctx, args.caller, args.collection, args.tokenID, bidder)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func (ru *run) mint(step Step, args stepArgs) error {
	to, err := ru.address(step.To)
	if err != nil {
		return err
	}
	if err := ru.chain.Mint(args.collection, to, args.tokenID); err != nil {
		return err
	}
	ru.minted[step.Collection] = append(ru.minted[step.Collection], step.TokenID)
	return nil
}

func (ru *run) mintTokens(step Step) error {
	token, err := ru.token(step.PayToken)
	if err != nil {
		return err
	}
	to, err := ru.address(step.To)
	if err != nil {
		return err
	}
	amount, err := sdkmath.ParseUint(step.Amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return ru.chain.MintTokens(token, to, amount)
}

func (ru *run) approveTokens(step Step, args stepArgs) error {
	token, err := ru.token(step.PayToken)
	if err != nil {
		return err
	}
	spender, err := ru.spender(step.To)
	if err != nil {
		return err
	}
	amount, err := sdkmath.ParseUint(step.Amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return ru.chain.Tokens(args.caller).Approve(ru.ctx, token, spender, amount)
}

func (ru *run) createSellOrder(step Step, args stepArgs) error {
	payAsset, err := ru.payAsset(step.PayToken)
	if err != nil {
		return err
	}
	price, err := sdkmath.ParseUint(step.Price)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	startTime := step.Time
	if startTime == 0 {
		startTime = ru.chain.BlockTime()
	}
	return ru.market.CreateSellOrder(ru.ctx, args.caller, startTime, args.collection, args.tokenID, payAsset, price)
}

// depositNative runs the pre-purchase session: the caller moves the deposit, which defaults
// to the claimed amount, into the marketplace's deposit purse.
func (ru *run) depositNative(step Step, caller types.Address) (types.U512, error) {
	amount, err := types.ParseU512(step.Amount)
	if err != nil {
		return types.U512{}, fmt.Errorf("amount: %w", err)
	}
	deposit := amount
	if step.Deposit != "" {
		if deposit, err = types.ParseU512(step.Deposit); err != nil {
			return types.U512{}, fmt.Errorf("deposit: %w", err)
		}
	}
	if deposit.IsZero() {
		return amount, nil
	}
	purse, err := ru.market.DepositPurse()
	if err != nil {
		return types.U512{}, err
	}
	return amount, ru.chain.Deposit(ru.ctx, caller, purse, deposit)
}

func (ru *run) buySellOrder(step Step, args stepArgs) error {
	if step.PayToken == "" {
		amount, err := ru.depositNative(step, args.caller)
		if err != nil {
			return err
		}
		return ru.market.BuySellOrderNative(ru.ctx, args.caller, args.collection, args.tokenID, amount, args.recipient)
	}

	amount, err := sdkmath.ParseUint(step.Amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return ru.market.BuySellOrder(ru.ctx, args.caller, args.collection, args.tokenID, amount, args.recipient)
}

func (ru *run) createBuyOrder(step Step, args stepArgs) error {
	if step.PayToken == "" {
		amount, err := ru.depositNative(step, args.caller)
		if err != nil {
			return err
		}
		return ru.market.CreateBuyOrderNative(ru.ctx, args.caller, args.collection, args.tokenID, args.recipient, amount)
	}

	token, err := ru.token(step.PayToken)
	if err != nil {
		return err
	}
	amount, err := sdkmath.ParseUint(step.Amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	return ru.market.CreateBuyOrder(ru.ctx, args.caller, args.collection, args.tokenID, args.recipient, token, amount)
}
