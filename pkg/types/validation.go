package types

import (
	"github.com/gagliardetto/solana-go"
)

// ValidatePrice validates a sale or offer price in base units.
func ValidatePrice(price uint64) error {
	if price == 0 {
		return ErrZeroPrice
	}
	return nil
}

// ValidateTokenSize validates the token size of an order. Every NFT trade
// in this domain moves exactly one token.
func ValidateTokenSize(size uint64) error {
	if size != 1 {
		return NewValidationError("tokenSize", "must be exactly 1 for non-fungible tokens")
	}
	return nil
}

// ValidatePublicKey validates a public key is not zero.
func ValidatePublicKey(name string, key solana.PublicKey) error {
	if key.IsZero() {
		return NewValidationError(name, "cannot be zero")
	}
	return nil
}

// ValidatePublicKeys validates multiple public keys.
func ValidatePublicKeys(keys map[string]solana.PublicKey) error {
	for name, key := range keys {
		if err := ValidatePublicKey(name, key); err != nil {
			return err
		}
	}
	return nil
}
