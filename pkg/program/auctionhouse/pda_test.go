package auctionhouse

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testWallet       = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	testHouse        = solana.MustPublicKeyFromBase58("GWsW1tJwGwSEMHp3ZZTB9UYH2VhbWmGruRsWVQAAnsNm")
	testTokenAccount = solana.MustPublicKeyFromBase58("7dHbWXmci3dT8UFYWYZweBLXgycu7Y3iL6trKn1Y7ARj")
	testTreasuryMint = solana.WrappedSol
	testTokenMint    = solana.MustPublicKeyFromBase58("2b1kV6DkPAnxd5ixfnxCpjxmKwqjjaYmCZfHsFu24GXo")
)

func TestTradeStateDeterministic(t *testing.T) {
	first, firstBump, err := FindTradeState(testWallet, testHouse, testTokenAccount, testTreasuryMint, testTokenMint, 1_000_000_000, 1)
	require.NoError(t, err)

	second, secondBump, err := FindTradeState(testWallet, testHouse, testTokenAccount, testTreasuryMint, testTokenMint, 1_000_000_000, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstBump, secondBump)
}

func TestTradeStateVariesByPrice(t *testing.T) {
	priced, _, err := FindTradeState(testWallet, testHouse, testTokenAccount, testTreasuryMint, testTokenMint, 1_000_000_000, 1)
	require.NoError(t, err)

	free, _, err := FindTradeState(testWallet, testHouse, testTokenAccount, testTreasuryMint, testTokenMint, 0, 1)
	require.NoError(t, err)

	assert.NotEqual(t, priced, free, "price is part of the derivation")
}

func TestPublicBidTradeStateOmitsTokenAccount(t *testing.T) {
	pinned, _, err := FindTradeState(testWallet, testHouse, testTokenAccount, testTreasuryMint, testTokenMint, 5_000_000, 1)
	require.NoError(t, err)

	public, _, err := FindPublicBidTradeState(testWallet, testHouse, testTreasuryMint, testTokenMint, 5_000_000, 1)
	require.NoError(t, err)

	assert.NotEqual(t, pinned, public)
}

func TestReceiptDerivations(t *testing.T) {
	tradeState, _, err := FindTradeState(testWallet, testHouse, testTokenAccount, testTreasuryMint, testTokenMint, 42, 1)
	require.NoError(t, err)

	listing, _, err := FindListingReceipt(tradeState)
	require.NoError(t, err)
	bid, _, err := FindBidReceipt(tradeState)
	require.NoError(t, err)
	purchase, _, err := FindPurchaseReceipt(tradeState, tradeState)
	require.NoError(t, err)

	assert.NotEqual(t, listing, bid, "seed prefixes separate the receipt kinds")
	assert.NotEqual(t, listing, purchase)

	again, _, err := FindListingReceipt(tradeState)
	require.NoError(t, err)
	assert.Equal(t, listing, again)
}

func TestEscrowPaymentAccountPerBuyer(t *testing.T) {
	a, _, err := FindEscrowPaymentAccount(testHouse, testWallet)
	require.NoError(t, err)

	other := solana.NewWallet().PublicKey()
	b, _, err := FindEscrowPaymentAccount(testHouse, other)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestProgramAsSignerFixed(t *testing.T) {
	first, firstBump, err := FindProgramAsSigner()
	require.NoError(t, err)
	second, secondBump, err := FindProgramAsSigner()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstBump, secondBump)
}
