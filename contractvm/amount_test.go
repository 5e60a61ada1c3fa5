// (c) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractvm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxAmountDecimal = "340282366920938463463374607431768211455"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
		err  error
	}{
		{"0", NewAmount(0), nil},
		{"100", NewAmount(100), nil},
		{maxAmountDecimal, MaxAmount, nil},
		{"340282366920938463463374607431768211456", Amount{}, ErrArithmeticOverflow},
		{"", Amount{}, ErrInvalidMessage},
		{"-1", Amount{}, ErrInvalidMessage},
		{"1e3", Amount{}, ErrInvalidMessage},
		{"ten", Amount{}, ErrInvalidMessage},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			got, err := ParseAmount(test.in)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestCheckedArithmetic(t *testing.T) {
	assert := assert.New(t)

	sum, err := NewAmount(2).CheckedAdd(NewAmount(3))
	require.NoError(t, err)
	assert.Equal(NewAmount(5), sum)

	_, err = MaxAmount.CheckedAdd(NewAmount(1))
	assert.ErrorIs(err, ErrArithmeticOverflow)

	sum, err = MaxAmount.CheckedAdd(NewAmount(0))
	require.NoError(t, err)
	assert.Equal(MaxAmount, sum)

	diff, err := NewAmount(5).CheckedSub(NewAmount(5))
	require.NoError(t, err)
	assert.True(diff.IsZero())

	_, err = NewAmount(5).CheckedSub(NewAmount(6))
	assert.ErrorIs(err, ErrArithmeticOverflow)

	assert.True(NewAmount(1).Lt(NewAmount(2)))
	assert.Equal(1, MaxAmount.Cmp(NewAmount(0)))
	assert.Equal(maxAmountDecimal, MaxAmount.String())
}

func TestAmountJSON(t *testing.T) {
	assert := assert.New(t)

	b, err := json.Marshal(MaxAmount)
	require.NoError(t, err)
	assert.Equal(`"`+maxAmountDecimal+`"`, string(b))

	var a Amount
	assert.ErrorIs(json.Unmarshal([]byte(`100`), &a), ErrInvalidMessage)
	assert.ErrorIs(json.Unmarshal([]byte(`"340282366920938463463374607431768211456"`), &a), ErrArithmeticOverflow)
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &a))
	assert.Equal(NewAmount(42), a)
}
