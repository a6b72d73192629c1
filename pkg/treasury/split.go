// Package treasury computes withdrawal splits for auction house treasuries.
package treasury

import (
	"github.com/holaplex/marketplace-tx/pkg/types"
)

// Split divides a treasury balance into the destination portion and the
// platform-fee portion. The two always sum to exactly the input balance:
// the fee is floored, the remainder goes to the destination.
type Split struct {
	// Destination is the amount paid to the house's withdrawal destination.
	Destination uint64
	// PlatformFee is the amount paid to the platform fee destination.
	PlatformFee uint64
}

// Compute splits balance by feeBasisPoints (platform share). Basis points
// above 10000 are rejected, as are zero balances.
func Compute(balance uint64, feeBasisPoints uint16) (Split, error) {
	if balance == 0 {
		return Split{}, types.ErrEmptyTreasury
	}
	if feeBasisPoints > 10000 {
		return Split{}, types.NewValidationError("feeBasisPoints", "must be <= 10000")
	}
	fee := balance / 10000 * uint64(feeBasisPoints)
	// Avoid overflow for large balances by splitting the multiplication;
	// pick up the remainder portion separately.
	fee += balance % 10000 * uint64(feeBasisPoints) / 10000
	return Split{
		Destination: balance - fee,
		PlatformFee: fee,
	}, nil
}
