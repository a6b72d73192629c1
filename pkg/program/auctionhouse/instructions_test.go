package auctionhouse

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sellAccountsFixture() SellAccounts {
	return SellAccounts{
		Wallet:                 testWallet,
		TokenAccount:           testTokenAccount,
		Metadata:               solana.NewWallet().PublicKey(),
		Authority:              solana.NewWallet().PublicKey(),
		AuctionHouse:           testHouse,
		AuctionHouseFeeAccount: solana.NewWallet().PublicKey(),
		SellerTradeState:       solana.NewWallet().PublicKey(),
		FreeSellerTradeState:   solana.NewWallet().PublicKey(),
		TokenProgram:           solana.TokenProgramID,
		SystemProgram:          solana.SystemProgramID,
		ProgramAsSigner:        solana.NewWallet().PublicKey(),
		Rent:                   solana.SysVarRentPubkey,
	}
}

func TestBuildSellLayout(t *testing.T) {
	ix, err := BuildSell(sellAccountsFixture(), SellArgs{
		TradeStateBump:      250,
		FreeTradeStateBump:  251,
		ProgramAsSignerBump: 252,
		BuyerPrice:          1_500_000_000,
		TokenSize:           1,
	})
	require.NoError(t, err)

	assert.Equal(t, ProgramKey, ix.ProgramID())
	accounts := ix.Accounts()
	require.Len(t, accounts, 12)
	assert.True(t, accounts[0].IsSigner, "wallet signs the sell")
	assert.True(t, accounts[0].IsWritable)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+3+8+8)

	want := sha256.Sum256([]byte("global:sell"))
	assert.Equal(t, want[:8], data[:8])
	assert.Equal(t, uint8(250), data[8])
	assert.Equal(t, uint64(1_500_000_000), binary.LittleEndian.Uint64(data[11:19]))
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(data[19:27]))
}

func TestBuildSellRequiresTradeState(t *testing.T) {
	accounts := sellAccountsFixture()
	accounts.SellerTradeState = solana.PublicKey{}

	_, err := BuildSell(accounts, SellArgs{BuyerPrice: 1, TokenSize: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sellerTradeState")
}

func TestBuildPublicBuyLayout(t *testing.T) {
	ix, err := BuildPublicBuy(PublicBuyAccounts{
		Wallet:                 testWallet,
		PaymentAccount:         testWallet,
		TransferAuthority:      testWallet,
		TreasuryMint:           testTreasuryMint,
		TokenAccount:           testTokenAccount,
		Metadata:               solana.NewWallet().PublicKey(),
		EscrowPaymentAccount:   solana.NewWallet().PublicKey(),
		Authority:              solana.NewWallet().PublicKey(),
		AuctionHouse:           testHouse,
		AuctionHouseFeeAccount: solana.NewWallet().PublicKey(),
		BuyerTradeState:        solana.NewWallet().PublicKey(),
		TokenProgram:           solana.TokenProgramID,
		SystemProgram:          solana.SystemProgramID,
		Rent:                   solana.SysVarRentPubkey,
	}, PublicBuyArgs{
		TradeStateBump:    255,
		EscrowPaymentBump: 254,
		BuyerPrice:        7,
		TokenSize:         1,
	})
	require.NoError(t, err)

	require.Len(t, ix.Accounts(), 14)
	assert.True(t, ix.Accounts()[0].IsSigner, "buyer wallet signs")

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+2+8+8)

	want := sha256.Sum256([]byte("global:public_buy"))
	assert.Equal(t, want[:8], data[:8])
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(data[10:18]))
}

func TestBuildSellRejectsEmptyOrder(t *testing.T) {
	_, err := BuildSell(sellAccountsFixture(), SellArgs{BuyerPrice: 0, TokenSize: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buyerPrice")

	_, err = BuildSell(sellAccountsFixture(), SellArgs{BuyerPrice: 1, TokenSize: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokenSize")
}

func TestOrderBuildersRejectZeroPriceAndSize(t *testing.T) {
	cases := []struct {
		name  string
		build func(price, size uint64) error
	}{
		{"public_buy", func(price, size uint64) error {
			_, err := BuildPublicBuy(PublicBuyAccounts{
				Wallet:               testWallet,
				TreasuryMint:         testTreasuryMint,
				TokenAccount:         testTokenAccount,
				Metadata:             solana.NewWallet().PublicKey(),
				EscrowPaymentAccount: solana.NewWallet().PublicKey(),
				AuctionHouse:         testHouse,
				BuyerTradeState:      solana.NewWallet().PublicKey(),
			}, PublicBuyArgs{BuyerPrice: price, TokenSize: size})
			return err
		}},
		{"execute_sale", func(price, size uint64) error {
			_, err := BuildExecuteSale(ExecuteSaleAccounts{
				Buyer:            solana.NewWallet().PublicKey(),
				Seller:           testWallet,
				TokenAccount:     testTokenAccount,
				TokenMint:        testTokenMint,
				AuctionHouse:     testHouse,
				BuyerTradeState:  solana.NewWallet().PublicKey(),
				SellerTradeState: solana.NewWallet().PublicKey(),
				FreeTradeState:   solana.NewWallet().PublicKey(),
			}, ExecuteSaleArgs{BuyerPrice: price, TokenSize: size})
			return err
		}},
		{"cancel", func(price, size uint64) error {
			_, err := BuildCancel(CancelAccounts{
				Wallet:       testWallet,
				TokenAccount: testTokenAccount,
				TokenMint:    testTokenMint,
				AuctionHouse: testHouse,
				TradeState:   solana.NewWallet().PublicKey(),
			}, CancelArgs{BuyerPrice: price, TokenSize: size})
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// A zero price or size derives a trade state no standing order
			// matches, so the builder refuses to emit the instruction.
			err := tc.build(0, 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "buyerPrice")

			err = tc.build(1, 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "tokenSize")

			assert.NoError(t, tc.build(1, 1))
		})
	}
}

func TestBuildExecuteSaleBuyerAndSellerDoNotSign(t *testing.T) {
	ix, err := BuildExecuteSale(ExecuteSaleAccounts{
		Buyer:                       solana.NewWallet().PublicKey(),
		Seller:                      testWallet,
		TokenAccount:                testTokenAccount,
		TokenMint:                   testTokenMint,
		Metadata:                    solana.NewWallet().PublicKey(),
		TreasuryMint:                testTreasuryMint,
		EscrowPaymentAccount:        solana.NewWallet().PublicKey(),
		SellerPaymentReceiptAccount: testWallet,
		BuyerReceiptTokenAccount:    solana.NewWallet().PublicKey(),
		Authority:                   solana.NewWallet().PublicKey(),
		AuctionHouse:                testHouse,
		AuctionHouseFeeAccount:      solana.NewWallet().PublicKey(),
		AuctionHouseTreasury:        solana.NewWallet().PublicKey(),
		BuyerTradeState:             solana.NewWallet().PublicKey(),
		SellerTradeState:            solana.NewWallet().PublicKey(),
		FreeTradeState:              solana.NewWallet().PublicKey(),
		TokenProgram:                solana.TokenProgramID,
		SystemProgram:               solana.SystemProgramID,
		AssociatedTokenProgram:      solana.SPLAssociatedTokenAccountProgramID,
		ProgramAsSigner:             solana.NewWallet().PublicKey(),
		Rent:                        solana.SysVarRentPubkey,
	}, ExecuteSaleArgs{BuyerPrice: 1, TokenSize: 1})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 21)
	// Sale execution is driven by the standing trade states; neither party
	// signs this instruction directly.
	assert.False(t, accounts[0].IsSigner)
	assert.False(t, accounts[1].IsSigner)
	assert.True(t, accounts[0].IsWritable)
	assert.True(t, accounts[1].IsWritable)
}

func TestBuildCancelEncodesStandingOrder(t *testing.T) {
	ix, err := BuildCancel(CancelAccounts{
		Wallet:                 testWallet,
		TokenAccount:           testTokenAccount,
		TokenMint:              testTokenMint,
		Authority:              solana.NewWallet().PublicKey(),
		AuctionHouse:           testHouse,
		AuctionHouseFeeAccount: solana.NewWallet().PublicKey(),
		TradeState:             solana.NewWallet().PublicKey(),
		TokenProgram:           solana.TokenProgramID,
	}, CancelArgs{BuyerPrice: 9_999, TokenSize: 1})
	require.NoError(t, err)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+8+8)
	assert.Equal(t, uint64(9_999), binary.LittleEndian.Uint64(data[8:16]))
}

func TestBuildWithdrawFromTreasuryAuthoritySigns(t *testing.T) {
	ix, err := BuildWithdrawFromTreasury(WithdrawFromTreasuryAccounts{
		TreasuryMint:                  testTreasuryMint,
		Authority:                     testWallet,
		TreasuryWithdrawalDestination: solana.NewWallet().PublicKey(),
		AuctionHouseTreasury:          solana.NewWallet().PublicKey(),
		AuctionHouse:                  testHouse,
		TokenProgram:                  solana.TokenProgramID,
		SystemProgram:                 solana.SystemProgramID,
	}, WithdrawFromTreasuryArgs{Amount: 12345})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 7)
	assert.True(t, accounts[1].IsSigner, "only the house authority can withdraw")
	assert.False(t, accounts[1].IsWritable)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), binary.LittleEndian.Uint64(data[8:16]))
}

func TestBuildDepositLayout(t *testing.T) {
	ix, err := BuildDeposit(DepositAccounts{
		Wallet:                 testWallet,
		PaymentAccount:         testWallet,
		TransferAuthority:      testWallet,
		EscrowPaymentAccount:   solana.NewWallet().PublicKey(),
		TreasuryMint:           testTreasuryMint,
		Authority:              solana.NewWallet().PublicKey(),
		AuctionHouse:           testHouse,
		AuctionHouseFeeAccount: solana.NewWallet().PublicKey(),
		TokenProgram:           solana.TokenProgramID,
		SystemProgram:          solana.SystemProgramID,
		Rent:                   solana.SysVarRentPubkey,
	}, DepositArgs{EscrowPaymentBump: 253, Amount: 5_000_000})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 11)
	assert.True(t, accounts[0].IsSigner, "depositing wallet signs")

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+1+8)

	want := sha256.Sum256([]byte("global:deposit"))
	assert.Equal(t, want[:8], data[:8])
	assert.Equal(t, uint8(253), data[8])
	assert.Equal(t, uint64(5_000_000), binary.LittleEndian.Uint64(data[9:17]))
}

func TestBuildWithdrawLayout(t *testing.T) {
	ix, err := BuildWithdraw(WithdrawAccounts{
		Wallet:                 testWallet,
		ReceiptAccount:         testWallet,
		EscrowPaymentAccount:   solana.NewWallet().PublicKey(),
		TreasuryMint:           testTreasuryMint,
		Authority:              solana.NewWallet().PublicKey(),
		AuctionHouse:           testHouse,
		AuctionHouseFeeAccount: solana.NewWallet().PublicKey(),
		TokenProgram:           solana.TokenProgramID,
		SystemProgram:          solana.SystemProgramID,
		AssociatedTokenProgram: solana.SPLAssociatedTokenAccountProgramID,
		Rent:                   solana.SysVarRentPubkey,
	}, WithdrawArgs{EscrowPaymentBump: 252, Amount: 42})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 11)
	assert.True(t, accounts[0].IsSigner, "withdrawing wallet signs")
	assert.True(t, accounts[2].IsWritable, "escrow account is debited")

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+1+8)

	want := sha256.Sum256([]byte("global:withdraw"))
	assert.Equal(t, want[:8], data[:8])
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[9:17]))
}

func TestEscrowBuildersRejectZeroAmount(t *testing.T) {
	_, err := BuildDeposit(DepositAccounts{
		Wallet:               testWallet,
		EscrowPaymentAccount: solana.NewWallet().PublicKey(),
		TreasuryMint:         testTreasuryMint,
		AuctionHouse:         testHouse,
	}, DepositArgs{Amount: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")

	_, err = BuildWithdraw(WithdrawAccounts{
		Wallet:               testWallet,
		EscrowPaymentAccount: solana.NewWallet().PublicKey(),
		TreasuryMint:         testTreasuryMint,
		AuctionHouse:         testHouse,
	}, WithdrawArgs{Amount: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")

	_, err = BuildWithdrawFromTreasury(WithdrawFromTreasuryAccounts{
		TreasuryMint:                  testTreasuryMint,
		Authority:                     testWallet,
		TreasuryWithdrawalDestination: solana.NewWallet().PublicKey(),
		AuctionHouseTreasury:          solana.NewWallet().PublicKey(),
		AuctionHouse:                  testHouse,
	}, WithdrawFromTreasuryArgs{Amount: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestReceiptBuildersShareLayout(t *testing.T) {
	accounts := ReceiptAccounts{
		Receipt:       solana.NewWallet().PublicKey(),
		Bookkeeper:    testWallet,
		SystemProgram: solana.SystemProgramID,
		Rent:          solana.SysVarRentPubkey,
		Instruction:   solana.SysVarInstructionsPubkey,
	}

	listing, err := BuildPrintListingReceipt(accounts, 255)
	require.NoError(t, err)
	bid, err := BuildPrintBidReceipt(accounts, 255)
	require.NoError(t, err)

	listingData, err := listing.Data()
	require.NoError(t, err)
	bidData, err := bid.Data()
	require.NoError(t, err)

	assert.NotEqual(t, listingData[:8], bidData[:8], "discriminators differ per receipt kind")
	assert.Equal(t, listingData[8:], bidData[8:])
	assert.True(t, listing.Accounts()[1].IsSigner, "bookkeeper signs the receipt print")
}
