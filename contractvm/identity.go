// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcutil/bech32"
)

// Identity is a validated 20 byte account id. Strings become Identities only
// through AddressCodec.ValidateIdentity.
type Identity ids.ShortID

var emptyIdentity Identity

func (id Identity) IsEmpty() bool { return id == emptyIdentity }

// String is the CB58 form, for logs. Use AddressCodec.Humanize for addresses
// that leave the contract.
func (id Identity) String() string { return ids.ShortID(id).String() }

func (id Identity) Bytes() []byte {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b
}

func identityKey(id Identity) []byte { return id.Bytes() }

// AddressCodec converts between bech32 addresses and Identities for one
// human readable part.
type AddressCodec struct {
	hrp string
}

func NewAddressCodec(hrp string) (AddressCodec, error) {
	if hrp == "" || hrp != strings.ToLower(hrp) {
		return AddressCodec{}, fmt.Errorf("%w: bad hrp %q", ErrInvalidAddress, hrp)
	}
	return AddressCodec{hrp: hrp}, nil
}

func (c AddressCodec) HRP() string { return c.hrp }

// ValidateIdentity accepts only canonical (lowercase) bech32 addresses with
// this codec's hrp and a 20 byte payload.
func (c AddressCodec) ValidateIdentity(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	if raw != strings.ToLower(raw) {
		return Identity{}, fmt.Errorf("%w: %q is not normalized", ErrInvalidAddress, raw)
	}
	hrp, data, err := bech32.Decode(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, raw, err)
	}
	if hrp != c.hrp {
		return Identity{}, fmt.Errorf("%w: %q has hrp %q, expected %q", ErrInvalidAddress, raw, hrp, c.hrp)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, raw, err)
	}
	id, err := ids.ToShortID(payload)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, raw, err)
	}
	return Identity(id), nil
}

func (c AddressCodec) Humanize(id Identity) (string, error) {
	data, err := bech32.ConvertBits(id[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(c.hrp, data)
}
