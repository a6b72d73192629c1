package readapi

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListing(t *testing.T) {
	tradeState := solana.NewWallet().PublicKey()
	canceled := "2026-02-01T10:30:00Z"
	w := wireListing{
		TradeState:   tradeState.String(),
		AuctionHouse: solana.NewWallet().PublicKey().String(),
		Seller:       solana.NewWallet().PublicKey().String(),
		Price:        "1500000000",
		TokenSize:    1,
		CreatedAt:    "2026-01-15T08:00:00Z",
		CanceledAt:   &canceled,
	}

	listing, err := decodeListing(w)
	require.NoError(t, err)
	assert.Equal(t, tradeState, listing.TradeState)
	assert.Equal(t, uint64(1_500_000_000), listing.Price)
	require.NotNil(t, listing.CanceledAt)
	assert.False(t, listing.Live())
}

func TestDecodeListingRejectsBadPrice(t *testing.T) {
	w := wireListing{
		TradeState:   solana.NewWallet().PublicKey().String(),
		AuctionHouse: solana.NewWallet().PublicKey().String(),
		Seller:       solana.NewWallet().PublicKey().String(),
		Price:        "1.5",
		TokenSize:    1,
		CreatedAt:    "2026-01-15T08:00:00Z",
	}

	_, err := decodeListing(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestDecodeOfferLiveWithoutTerminalTimestamps(t *testing.T) {
	w := wireOffer{
		TradeState:   solana.NewWallet().PublicKey().String(),
		AuctionHouse: solana.NewWallet().PublicKey().String(),
		Buyer:        solana.NewWallet().PublicKey().String(),
		Price:        "42",
		TokenSize:    1,
		CreatedAt:    "2026-01-15T08:00:00Z",
	}

	offer, err := decodeOffer(w)
	require.NoError(t, err)
	assert.True(t, offer.Live())
	assert.Nil(t, offer.AcceptedAt)
}

func TestDecodeAuctionHouseRejectsBadAddress(t *testing.T) {
	w := wireAuctionHouse{
		Address:      "not-base58!",
		Authority:    solana.NewWallet().PublicKey().String(),
		TreasuryMint: solana.WrappedSol.String(),
	}

	_, err := decodeAuctionHouse(w)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
}
