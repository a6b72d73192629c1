package marketplace

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/holaplex/marketplace-tx/pkg/constants"
	"github.com/holaplex/marketplace-tx/pkg/program/auctionhouse"
	"github.com/holaplex/marketplace-tx/pkg/types"
)

// SellParams describe a new listing. Amount is in the smallest unit of the
// house's treasury mint (lamports for SOL houses).
type SellParams struct {
	AuctionHouse AuctionHouse
	Nft          *Nft
	Amount       uint64
}

// Sell lists an NFT for sale: a sell instruction opening the seller trade
// state at the asking price, followed by the listing receipt print. The
// receipt always rides in the same transaction as the trade state it
// references.
func (p *Pipeline) Sell(ctx context.Context, params SellParams, opts ...Option) (Result, error) {
	const op = "sell"
	o := newOptions(false, opts...)

	signer, err := p.signer(op)
	if err != nil {
		return Result{}, err
	}
	if err := validateHouse(op, params.AuctionHouse); err != nil {
		return Result{}, err
	}
	if params.Nft == nil {
		return Result{}, types.NewPreconditionError(op, types.ErrNilNft)
	}
	if err := types.ValidatePrice(params.Amount); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	seller := signer.PublicKey()
	if !params.Nft.Owner.Address.Equals(seller) {
		return Result{}, types.NewPreconditionError(op, types.ErrNotOwner)
	}

	mint := params.Nft.MintAddress
	if err := p.acquire(mint); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(mint)

	instructions, err := sellInstructions(params.AuctionHouse, params.Nft, seller, params.Amount)
	if err != nil {
		return Result{}, err
	}

	return p.submit(ctx, op, signer, mint, o, instructions...)
}

// sellInstructions assembles the listing sequence: sell, then
// print_listing_receipt against the freshly derived trade state.
func sellInstructions(ah AuctionHouse, nft *Nft, seller solana.PublicKey, amount uint64) ([]solana.Instruction, error) {
	mint := nft.MintAddress
	tokenAccount := nft.Owner.AssociatedTokenAccountAddress

	metadata, _, err := auctionhouse.FindMetadataAccount(mint)
	if err != nil {
		return nil, err
	}
	tradeState, tradeStateBump, err := auctionhouse.FindTradeState(
		seller, ah.Address, tokenAccount, ah.TreasuryMint, mint, amount, 1)
	if err != nil {
		return nil, err
	}
	freeTradeState, freeTradeStateBump, err := auctionhouse.FindTradeState(
		seller, ah.Address, tokenAccount, ah.TreasuryMint, mint, 0, 1)
	if err != nil {
		return nil, err
	}
	programAsSigner, programAsSignerBump, err := auctionhouse.FindProgramAsSigner()
	if err != nil {
		return nil, err
	}
	receipt, receiptBump, err := auctionhouse.FindListingReceipt(tradeState)
	if err != nil {
		return nil, err
	}

	sellIx, err := auctionhouse.BuildSell(auctionhouse.SellAccounts{
		Wallet:                 seller,
		TokenAccount:           tokenAccount,
		Metadata:               metadata,
		Authority:              ah.Authority,
		AuctionHouse:           ah.Address,
		AuctionHouseFeeAccount: ah.AuctionHouseFeeAccount,
		SellerTradeState:       tradeState,
		FreeSellerTradeState:   freeTradeState,
		TokenProgram:           constants.TokenProgramID,
		SystemProgram:          constants.SystemProgramID,
		ProgramAsSigner:        programAsSigner,
		Rent:                   constants.SysvarRentProgramID,
	}, auctionhouse.SellArgs{
		TradeStateBump:      tradeStateBump,
		FreeTradeStateBump:  freeTradeStateBump,
		ProgramAsSignerBump: programAsSignerBump,
		BuyerPrice:          amount,
		TokenSize:           1,
	})
	if err != nil {
		return nil, err
	}

	receiptIx, err := auctionhouse.BuildPrintListingReceipt(auctionhouse.ReceiptAccounts{
		Receipt:       receipt,
		Bookkeeper:    seller,
		SystemProgram: constants.SystemProgramID,
		Rent:          constants.SysvarRentProgramID,
		Instruction:   constants.SysvarInstructionsID,
	}, receiptBump)
	if err != nil {
		return nil, err
	}

	return []solana.Instruction{sellIx, receiptIx}, nil
}

// CancelListingParams identify a standing listing to revoke.
type CancelListingParams struct {
	AuctionHouse AuctionHouse
	Nft          *Nft
	Listing      *Listing
}

// CancelListing revokes a standing listing: a cancel instruction closing the
// seller trade state, then the receipt cancellation marking the read model
// terminal. Only the seller who created the listing may cancel it.
func (p *Pipeline) CancelListing(ctx context.Context, params CancelListingParams, opts ...Option) (Result, error) {
	const op = "cancel_listing"
	o := newOptions(false, opts...)

	signer, err := p.signer(op)
	if err != nil {
		return Result{}, err
	}
	if err := validateHouse(op, params.AuctionHouse); err != nil {
		return Result{}, err
	}
	if params.Nft == nil {
		return Result{}, types.NewPreconditionError(op, types.ErrNilNft)
	}
	if params.Listing == nil {
		return Result{}, types.NewPreconditionError(op, types.ErrNilListing)
	}
	if !params.Listing.Live() {
		return Result{}, types.NewPreconditionError(op, types.ErrListingCanceled)
	}
	if err := types.ValidateTokenSize(params.Listing.TokenSize); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	if !params.Listing.Seller.Equals(signer.PublicKey()) {
		return Result{}, types.NewPreconditionError(op, types.ErrUnauthorized)
	}

	target := params.Listing.TradeState
	if err := p.acquire(target); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(target)

	ah := params.AuctionHouse
	mint := params.Nft.MintAddress

	receipt, _, err := auctionhouse.FindListingReceipt(params.Listing.TradeState)
	if err != nil {
		return Result{}, err
	}

	cancelIx, err := auctionhouse.BuildCancel(auctionhouse.CancelAccounts{
		Wallet:                 signer.PublicKey(),
		TokenAccount:           params.Nft.Owner.AssociatedTokenAccountAddress,
		TokenMint:              mint,
		Authority:              ah.Authority,
		AuctionHouse:           ah.Address,
		AuctionHouseFeeAccount: ah.AuctionHouseFeeAccount,
		TradeState:             params.Listing.TradeState,
		TokenProgram:           constants.TokenProgramID,
	}, auctionhouse.CancelArgs{
		BuyerPrice: params.Listing.Price,
		TokenSize:  params.Listing.TokenSize,
	})
	if err != nil {
		return Result{}, err
	}

	receiptIx, err := auctionhouse.BuildCancelListingReceipt(auctionhouse.CancelReceiptAccounts{
		Receipt:       receipt,
		SystemProgram: constants.SystemProgramID,
		Instruction:   constants.SysvarInstructionsID,
	})
	if err != nil {
		return Result{}, err
	}

	return p.submit(ctx, op, signer, mint, o, cancelIx, receiptIx)
}
