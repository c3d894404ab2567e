package sandbox

// DONTCOVER

import (
	errorsmod "cosmossdk.io/errors"
	"google.golang.org/grpc/codes"
)

const codespace = "sandbox"

var (
	ErrUnknownPurse      = errorsmod.RegisterWithGRPCCode(codespace, 2, codes.NotFound, "unknown purse")
	ErrUnknownAccount    = errorsmod.RegisterWithGRPCCode(codespace, 3, codes.NotFound, "unknown account")
	ErrUnknownContract   = errorsmod.RegisterWithGRPCCode(codespace, 4, codes.NotFound, "unknown contract")
	ErrAccessDenied      = errorsmod.RegisterWithGRPCCode(codespace, 5, codes.PermissionDenied, "purse access denied")
	ErrInsufficientFunds = errorsmod.RegisterWithGRPCCode(codespace, 6, codes.FailedPrecondition, "insufficient funds")
	ErrNotOwner          = errorsmod.RegisterWithGRPCCode(codespace, 7, codes.PermissionDenied, "caller does not own token")
	ErrNotApproved       = errorsmod.RegisterWithGRPCCode(codespace, 8, codes.PermissionDenied, "caller is not approved")
	ErrTokenExists       = errorsmod.RegisterWithGRPCCode(codespace, 9, codes.AlreadyExists, "token already minted")
	ErrTokenNotMinted    = errorsmod.RegisterWithGRPCCode(codespace, 10, codes.NotFound, "token not minted")
)
