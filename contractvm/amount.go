// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// amountBits bounds every Amount to the Uint128 range.
const amountBits = 128

// Amount is an unsigned token quantity in [0, 2^128).
type Amount uint256.Int

var MaxAmount = func() Amount {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), amountBits)
	m.Sub(m, uint256.NewInt(1))
	return Amount(*m)
}()

func NewAmount(v uint64) Amount {
	return Amount(*uint256.NewInt(v))
}

// ParseAmount reads a base-10 amount.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty amount", ErrInvalidMessage)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidMessage, s, err)
	}
	if v.BitLen() > amountBits {
		return Amount{}, fmt.Errorf("%w: amount %q exceeds 128 bits", ErrArithmeticOverflow, s)
	}
	return Amount(*v), nil
}

func (a Amount) u() *uint256.Int {
	v := uint256.Int(a)
	return &v
}

func (a Amount) IsZero() bool        { return a.u().IsZero() }
func (a Amount) Cmp(b Amount) int    { return a.u().Cmp(b.u()) }
func (a Amount) Lt(b Amount) bool    { return a.u().Lt(b.u()) }
func (a Amount) String() string      { return a.u().Dec() }
func (a Amount) Equal(b Amount) bool { return a.u().Eq(b.u()) }

// CheckedAdd fails with ErrArithmeticOverflow if the sum leaves the Uint128
// range.
func (a Amount) CheckedAdd(b Amount) (Amount, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a.u(), b.u())
	if overflow || sum.BitLen() > amountBits {
		return Amount{}, fmt.Errorf("%w: %s + %s", ErrArithmeticOverflow, a, b)
	}
	return Amount(*sum), nil
}

// CheckedSub fails with ErrArithmeticOverflow if b > a.
func (a Amount) CheckedSub(b Amount) (Amount, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a.u(), b.u())
	if underflow {
		return Amount{}, fmt.Errorf("%w: %s - %s", ErrArithmeticOverflow, a, b)
	}
	return Amount(*diff), nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: amount must be a decimal string", ErrInvalidMessage)
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
