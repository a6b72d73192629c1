package marketplace_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	sdkconfig "github.com/holaplex/marketplace-tx/pkg/config"
	"github.com/holaplex/marketplace-tx/pkg/marketplace"
	"github.com/holaplex/marketplace-tx/pkg/program/auctionhouse"
	sdkrpc "github.com/holaplex/marketplace-tx/pkg/rpc"
	"github.com/holaplex/marketplace-tx/pkg/txbuilder"
	"github.com/holaplex/marketplace-tx/pkg/wallet"
)

// Integration configuration - set via environment variables
// MARKETPLACE_TEST_RPC_URL: RPC endpoint (default: devnet)
// MARKETPLACE_TEST_PRIVATE_KEY: base58 private key owning the test NFT
// MARKETPLACE_TEST_AUCTION_HOUSE: auction house address
// MARKETPLACE_TEST_MINT: mint of an NFT the key owns

func getIntegrationConfig(t *testing.T) (rpcURL, privateKey, house, mint string) {
	rpcURL = os.Getenv("MARKETPLACE_TEST_RPC_URL")
	if rpcURL == "" {
		rpcURL = solanarpc.DevNet_RPC
	}

	privateKey = os.Getenv("MARKETPLACE_TEST_PRIVATE_KEY")
	if privateKey == "" {
		t.Skip("MARKETPLACE_TEST_PRIVATE_KEY not set, skipping integration test")
	}
	house = os.Getenv("MARKETPLACE_TEST_AUCTION_HOUSE")
	if house == "" {
		t.Skip("MARKETPLACE_TEST_AUCTION_HOUSE not set, skipping integration test")
	}
	mint = os.Getenv("MARKETPLACE_TEST_MINT")
	if mint == "" {
		t.Skip("MARKETPLACE_TEST_MINT not set, skipping integration test")
	}
	return rpcURL, privateKey, house, mint
}

// TestListThenCancel lists an owned NFT and immediately cancels the listing,
// exercising the full pipeline against a live cluster.
func TestListThenCancel(t *testing.T) {
	rpcURL, privateKeyStr, houseStr, mintStr := getIntegrationConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := sdkconfig.DefaultRPCConfig()
	cfg.RPCURL = rpcURL
	cfg.Timeout = 30 * time.Second
	rpcClient := sdkrpc.NewClient(cfg)

	signer, err := wallet.NewLocalFromBase58(privateKeyStr)
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}

	houseAddr := solana.MustPublicKeyFromBase58(houseStr)
	mint := solana.MustPublicKeyFromBase58(mintStr)

	// Pull the house configuration on-chain rather than through the read API
	// so the test has no indexer dependency.
	accounts, err := rpcClient.GetMultipleAccounts(ctx, houseAddr)
	if err != nil {
		t.Fatalf("fetch auction house: %v", err)
	}
	raw, ok := accounts[houseAddr.String()]
	if !ok {
		t.Fatalf("auction house %s not found", houseAddr)
	}
	var houseState auctionhouse.AuctionHouse
	if err := houseState.Unmarshal(raw.Data.GetBinary()); err != nil {
		t.Fatalf("decode auction house: %v", err)
	}

	ah := marketplace.AuctionHouse{
		Address:                       houseAddr,
		Authority:                     houseState.Authority,
		TreasuryMint:                  houseState.TreasuryMint,
		AuctionHouseFeeAccount:        houseState.AuctionHouseFeeAccount,
		AuctionHouseTreasury:          houseState.AuctionHouseTreasury,
		TreasuryWithdrawalDestination: houseState.TreasuryWithdrawalDestination,
		SellerFeeBasisPoints:          houseState.SellerFeeBasisPoints,
		RequiresSignOff:               houseState.RequiresSignOff,
		CanChangeSalePrice:            houseState.CanChangeSalePrice,
	}

	ata, _, err := auctionhouse.FindAssociatedTokenAccount(signer.PublicKey(), mint)
	if err != nil {
		t.Fatalf("derive ata: %v", err)
	}
	metadata, _, err := auctionhouse.FindMetadataAccount(mint)
	if err != nil {
		t.Fatalf("derive metadata: %v", err)
	}
	nft := &marketplace.Nft{
		MintAddress:     mint,
		MetadataAddress: metadata,
		Owner: marketplace.NftOwner{
			Address:                       signer.PublicKey(),
			AssociatedTokenAccountAddress: ata,
		},
	}

	adapter := wallet.NewAdapter()
	adapter.Connect(signer)
	builder := txbuilder.NewBuilder(rpcClient, solanarpc.CommitmentConfirmed)
	pipeline := marketplace.NewPipeline(adapter, rpcClient, builder, nil, zerolog.Nop())

	price := uint64(1_000_000) // 0.001 SOL

	t.Logf("Test configuration:")
	t.Logf("  House: %s", houseAddr)
	t.Logf("  Mint: %s", mint)
	t.Logf("  Seller: %s", signer.PublicKey())

	t.Log("=== Step 1: List ===")
	listRes, err := pipeline.Sell(ctx, marketplace.SellParams{
		AuctionHouse: ah,
		Nft:          nft,
		Amount:       price,
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	t.Logf("  Listing tx: %s", listRes.Signature)

	tradeState, _, err := auctionhouse.FindTradeState(
		signer.PublicKey(), houseAddr, ata, ah.TreasuryMint, mint, price, 1)
	if err != nil {
		t.Fatalf("derive trade state: %v", err)
	}

	t.Log("=== Step 2: Cancel ===")
	cancelRes, err := pipeline.CancelListing(ctx, marketplace.CancelListingParams{
		AuctionHouse: ah,
		Nft:          nft,
		Listing: &marketplace.Listing{
			TradeState:   tradeState,
			AuctionHouse: houseAddr,
			Seller:       signer.PublicKey(),
			Price:        price,
			TokenSize:    1,
			CreatedAt:    time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("cancel listing: %v", err)
	}
	t.Logf("  Cancel tx: %s", cancelRes.Signature)

	t.Log("Test completed successfully")
}
