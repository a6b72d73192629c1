// Package auctionhouse binds the Metaplex Auction House program: PDA
// derivations, instruction builders, and account state decoding.
//
// Instruction account orders and argument encodings follow the program IDL
// byte-for-byte; they are a fixed external contract. Builders perform pure
// construction only: account existence and business invariants are checked
// by the on-chain program at execution time.
package auctionhouse

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/holaplex/marketplace-tx/pkg/constants"
)

// ProgramKey is the Auction House program ID.
var ProgramKey = constants.AuctionHouseProgramID

// anchorDiscriminator returns the 8-byte Anchor instruction discriminator,
// sha256("global:<name>")[0:8].
func anchorDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("global:" + name))
	return h[:8]
}

// accountDiscriminator returns the 8-byte Anchor account discriminator,
// sha256("account:<name>")[0:8].
func accountDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte("account:" + name))
	return h[:8]
}

func u64LE(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func meta(pk solana.PublicKey, writable, signer bool) *solana.AccountMeta {
	return solana.NewAccountMeta(pk, writable, signer)
}
