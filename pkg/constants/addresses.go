package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	// SPL Programs
	SystemProgramID          = solana.SystemProgramID
	TokenProgramID           = solana.TokenProgramID
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	SysvarRentProgramID      = solana.SysVarRentPubkey
	SysvarInstructionsID     = solana.SysVarInstructionsPubkey

	// Metaplex Auction House Program
	AuctionHouseProgramID = solana.MustPublicKeyFromBase58("hausS13jsjafwWwGqZTUQRmWyvyxn9EQpqMwV1PBBmk")

	// Metaplex Token Metadata Program
	TokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// Mainnet well-known accounts
var (
	// Native SOL mint, used as the treasury mint for SOL-denominated houses
	NativeMint = solana.WrappedSol
)

// PDA seeds
const (
	SeedAuctionHouse    = "auction_house"
	SeedFeePayer        = "fee_payer"
	SeedTreasury        = "treasury"
	SeedSigner          = "signer"
	SeedListingReceipt  = "listing_receipt"
	SeedBidReceipt      = "bid_receipt"
	SeedPurchaseReceipt = "purchase_receipt"
	SeedMetadata        = "metadata"
)
