package auctionhouse

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingReceiptDecode(t *testing.T) {
	canceledAt := int64(1700000001)
	src := ListingReceipt{
		TradeState:     solana.NewWallet().PublicKey(),
		Bookkeeper:     testWallet,
		AuctionHouse:   testHouse,
		Seller:         testWallet,
		Metadata:       solana.NewWallet().PublicKey(),
		Price:          2_000_000_000,
		TokenSize:      1,
		Bump:           253,
		TradeStateBump: 255,
		CreatedAt:      1700000000,
		CanceledAt:     &canceledAt,
	}
	body, err := bin.MarshalBorsh(&src)
	require.NoError(t, err)
	data := append(accountDiscriminator("ListingReceipt"), body...)

	var out ListingReceipt
	require.NoError(t, out.Unmarshal(data))
	assert.Equal(t, src.TradeState, out.TradeState)
	assert.Equal(t, src.Price, out.Price)
	assert.Nil(t, out.PurchaseReceipt)
	require.NotNil(t, out.CanceledAt)
	assert.Equal(t, canceledAt, *out.CanceledAt)
}

func TestUnmarshalRejectsWrongDiscriminator(t *testing.T) {
	src := BidReceipt{
		TradeState:   solana.NewWallet().PublicKey(),
		Bookkeeper:   testWallet,
		AuctionHouse: testHouse,
		Buyer:        testWallet,
		Metadata:     solana.NewWallet().PublicKey(),
		Price:        5,
		TokenSize:    1,
	}
	body, err := bin.MarshalBorsh(&src)
	require.NoError(t, err)
	data := append(accountDiscriminator("ListingReceipt"), body...)

	var out BidReceipt
	err = out.Unmarshal(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discriminator")
}

func TestUnmarshalRejectsShortData(t *testing.T) {
	var out AuctionHouse
	assert.Error(t, out.Unmarshal([]byte{1, 2, 3}))
}
