package types

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// AccessRights are the rights a purse handle carries.
type AccessRights uint8

const (
	AccessNone  AccessRights = 0
	AccessRead  AccessRights = 1
	AccessWrite AccessRights = 2
	AccessAdd   AccessRights = 4

	AccessReadAddWrite = AccessRead | AccessWrite | AccessAdd
)

// URef is a handle to a purse together with the rights its holder has over it.
type URef struct {
	Addr   Hash
	Access AccessRights
}

// WithAccess returns a handle to the same purse restricted to the given rights.
func (u URef) WithAccess(rights AccessRights) URef {
	return URef{Addr: u.Addr, Access: u.Access & rights}
}

func (u URef) Can(rights AccessRights) bool { return u.Access&rights == rights }

func (u URef) String() string {
	return fmt.Sprintf("uref-%s-%03o", u.Addr.Hex(), u.Access)
}

// ParseURef parses the "uref-<hex>-<octal rights>" form.
func ParseURef(s string) (URef, error) {
	parts := strings.Split(strings.TrimPrefix(s, "uref-"), "-")
	if len(parts) != 2 {
		return URef{}, errorsmod.Wrapf(ErrInvalidAddress, "invalid uref %q", s)
	}
	bz, err := hex.DecodeString(parts[0])
	if err != nil || len(bz) != HashLength {
		return URef{}, errorsmod.Wrapf(ErrInvalidAddress, "invalid uref address %q", parts[0])
	}
	rights, err := strconv.ParseUint(parts[1], 8, 8)
	if err != nil {
		return URef{}, errorsmod.Wrapf(ErrInvalidAddress, "invalid uref rights %q", parts[1])
	}
	var u URef
	copy(u.Addr[:], bz)
	u.Access = AccessRights(rights)
	return u, nil
}

func (u URef) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *URef) UnmarshalText(text []byte) error {
	parsed, err := ParseURef(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
