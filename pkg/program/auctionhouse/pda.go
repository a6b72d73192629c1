package auctionhouse

import (
	"github.com/gagliardetto/solana-go"

	"github.com/holaplex/marketplace-tx/pkg/constants"
)

// Every derivation here is a deterministic, pure function of its inputs.
// Callers must derive with the exact parameter set used when the standing
// order was created; a price or size mismatch yields a different address
// and the instruction fails at the protocol level, not client-side.

// FindAssociatedTokenAccount derives the ATA for (owner, mint).
func FindAssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		owner[:],
		constants.TokenProgramID[:],
		mint[:],
	}, constants.AssociatedTokenProgramID)
}

// FindMetadataAccount derives the Token Metadata account for a mint.
func FindMetadataAccount(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedMetadata),
		constants.TokenMetadataProgramID[:],
		mint[:],
	}, constants.TokenMetadataProgramID)
}

// FindAuctionHouse derives the auction house address for (creator, treasuryMint).
func FindAuctionHouse(creator, treasuryMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedAuctionHouse),
		creator[:],
		treasuryMint[:],
	}, ProgramKey)
}

// FindAuctionHouseFeeAccount derives the house's fee payer account.
func FindAuctionHouseFeeAccount(auctionHouse solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedAuctionHouse),
		auctionHouse[:],
		[]byte(constants.SeedFeePayer),
	}, ProgramKey)
}

// FindAuctionHouseTreasury derives the house's treasury account.
func FindAuctionHouseTreasury(auctionHouse solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedAuctionHouse),
		auctionHouse[:],
		[]byte(constants.SeedTreasury),
	}, ProgramKey)
}

// FindEscrowPaymentAccount derives the escrow holding a buyer's funds
// between offer placement and sale execution or cancellation.
func FindEscrowPaymentAccount(auctionHouse, wallet solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedAuctionHouse),
		auctionHouse[:],
		wallet[:],
	}, ProgramKey)
}

// FindTradeState derives a seller/owner-priced trade state. Price 0 yields
// the free trade state used once a sale clears in no-sign-off flows.
func FindTradeState(wallet, auctionHouse, tokenAccount, treasuryMint, tokenMint solana.PublicKey, price, size uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedAuctionHouse),
		wallet[:],
		auctionHouse[:],
		tokenAccount[:],
		treasuryMint[:],
		tokenMint[:],
		u64LE(price),
		u64LE(size),
	}, ProgramKey)
}

// FindPublicBidTradeState derives the trade state of an open public offer,
// where no specific token account is pinned.
func FindPublicBidTradeState(buyer, auctionHouse, treasuryMint, tokenMint solana.PublicKey, price, size uint64) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedAuctionHouse),
		buyer[:],
		auctionHouse[:],
		treasuryMint[:],
		tokenMint[:],
		u64LE(price),
		u64LE(size),
	}, ProgramKey)
}

// FindProgramAsSigner derives the fixed authority the program signs with
// during sale execution.
func FindProgramAsSigner() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedAuctionHouse),
		[]byte(constants.SeedSigner),
	}, ProgramKey)
}

// FindListingReceipt derives the receipt account for a seller trade state.
func FindListingReceipt(tradeState solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedListingReceipt),
		tradeState[:],
	}, ProgramKey)
}

// FindBidReceipt derives the receipt account for a buyer trade state.
func FindBidReceipt(tradeState solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedBidReceipt),
		tradeState[:],
	}, ProgramKey)
}

// FindPurchaseReceipt derives the receipt account for a matched sale.
func FindPurchaseReceipt(sellerTradeState, buyerTradeState solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedPurchaseReceipt),
		sellerTradeState[:],
		buyerTradeState[:],
	}, ProgramKey)
}
