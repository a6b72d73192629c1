package treasury

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holaplex/marketplace-tx/pkg/types"
)

func TestComputeSumsToBalance(t *testing.T) {
	cases := []struct {
		name    string
		balance uint64
		bps     uint16
	}{
		{"even split", 10_000_000_000, 200},
		{"indivisible balance", 999_999_999, 250},
		{"tiny balance", 1, 9999},
		{"full fee", 123_456_789, 10000},
		{"no fee", 123_456_789, 0},
		{"large balance", 1 << 62, 137},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split, err := Compute(tc.balance, tc.bps)
			require.NoError(t, err)
			assert.Equal(t, tc.balance, split.Destination+split.PlatformFee,
				"portions must sum exactly to the balance")
		})
	}
}

func TestComputeFeeShare(t *testing.T) {
	split, err := Compute(10_000, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), split.PlatformFee)
	assert.Equal(t, uint64(9_800), split.Destination)
}

func TestComputeZeroFee(t *testing.T) {
	split, err := Compute(555, 0)
	require.NoError(t, err)
	assert.Zero(t, split.PlatformFee)
	assert.Equal(t, uint64(555), split.Destination)
}

func TestComputeRejectsEmptyBalance(t *testing.T) {
	_, err := Compute(0, 200)
	assert.True(t, errors.Is(err, types.ErrEmptyTreasury))
}

func TestComputeRejectsExcessiveBps(t *testing.T) {
	_, err := Compute(100, 10001)
	require.Error(t, err)
	var vErr types.ValidationError
	assert.True(t, errors.As(err, &vErr))
}
