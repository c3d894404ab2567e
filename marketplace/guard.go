package marketplace

import (
	"sync/atomic"

	errorsmod "cosmossdk.io/errors"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

// reentrancyGuard is a single Idle/Locked flag shared by every guarded entry point.
type reentrancyGuard struct {
	locked atomic.Bool
}

func (g *reentrancyGuard) enter() error {
	if !g.locked.CompareAndSwap(false, true) {
		return errorsmod.Wrap(types.ErrInvalidContext, "reentrant call")
	}
	return nil
}

func (g *reentrancyGuard) exit() {
	g.locked.Store(false)
}
