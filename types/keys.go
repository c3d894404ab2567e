package types

const (
	// ModuleName defines the module name
	ModuleName = "marketplace"

	// FeeKey holds the fee rate in basis points.
	FeeKey = "fee"
	// FeeWalletKey holds the fee recipient.
	FeeWalletKey = "fee_wallet"
	// PurseKey holds the custodial deposit purse.
	PurseKey = "deposit_purse"
	// PurseBalanceKey holds the cached balance of the deposit purse.
	PurseBalanceKey = "purse_balance"
	// SellOrdersKey names the sell order dictionary.
	SellOrdersKey = "orders"
	// BidsKey names the bid dictionary.
	BidsKey = "bids"
)
