package types

// DONTCOVER

import (
	errorsmod "cosmossdk.io/errors"
	"google.golang.org/grpc/codes"
)

// x/marketplace module sentinel errors
var (
	ErrPermissionDenied      = errorsmod.RegisterWithGRPCCode(ModuleName, 2, codes.PermissionDenied, "permission denied")
	ErrRequireApprove        = errorsmod.RegisterWithGRPCCode(ModuleName, 3, codes.FailedPrecondition, "token is not approved to the marketplace")
	ErrFinishedOrder         = errorsmod.RegisterWithGRPCCode(ModuleName, 4, codes.FailedPrecondition, "order is already finished")
	ErrNotOrderCreator       = errorsmod.RegisterWithGRPCCode(ModuleName, 5, codes.PermissionDenied, "caller is not the order creator")
	ErrInsufficientAllowance = errorsmod.RegisterWithGRPCCode(ModuleName, 6, codes.FailedPrecondition, "insufficient allowance")
	ErrInsufficientBalance   = errorsmod.RegisterWithGRPCCode(ModuleName, 7, codes.FailedPrecondition, "insufficient balance")
	ErrInvalidPayToken       = errorsmod.RegisterWithGRPCCode(ModuleName, 8, codes.InvalidArgument, "invalid pay token")
	ErrOverflow              = errorsmod.RegisterWithGRPCCode(ModuleName, 9, codes.OutOfRange, "arithmetic overflow")
	ErrInvalidContext        = errorsmod.RegisterWithGRPCCode(ModuleName, 10, codes.Aborted, "invalid context")
	ErrAlreadyExistOrder     = errorsmod.RegisterWithGRPCCode(ModuleName, 11, codes.AlreadyExists, "order already exists")
	ErrNotExistOrder         = errorsmod.RegisterWithGRPCCode(ModuleName, 12, codes.NotFound, "order does not exist")
	ErrNotExistToken         = errorsmod.RegisterWithGRPCCode(ModuleName, 13, codes.NotFound, "token does not exist")
	ErrNotTokenOwner         = errorsmod.RegisterWithGRPCCode(ModuleName, 14, codes.PermissionDenied, "caller is not the token owner")

	ErrInvalidAddress = errorsmod.RegisterWithGRPCCode(ModuleName, 15, codes.InvalidArgument, "invalid address")
)
