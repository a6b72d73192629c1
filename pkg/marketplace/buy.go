package marketplace

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/holaplex/marketplace-tx/pkg/constants"
	"github.com/holaplex/marketplace-tx/pkg/program/auctionhouse"
	"github.com/holaplex/marketplace-tx/pkg/types"
)

// BuyParams identify the listing being purchased. The price paid is the
// listing's standing price; there is no client-side haggling.
type BuyParams struct {
	AuctionHouse AuctionHouse
	Nft          *Nft
	Listing      *Listing
}

// Buy purchases a listed NFT in one atomic transaction: the buyer's funds
// are escrowed and a public bid opened, the bid receipt printed, the sale
// executed against the standing seller trade state, and the purchase receipt
// printed. All four land together or not at all.
func (p *Pipeline) Buy(ctx context.Context, params BuyParams, opts ...Option) (Result, error) {
	const op = "buy"
	o := newOptions(true, opts...)

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
	if err := types.ValidatePrice(params.Listing.Price); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	if err := types.ValidateTokenSize(params.Listing.TokenSize); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	buyer := signer.PublicKey()
	if params.Listing.Seller.Equals(buyer) {
		return Result{}, types.NewPreconditionError(op, types.ErrSelfPurchase)
	}

	target := params.Listing.TradeState
	if err := p.acquire(target); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(target)

	instructions, err := buyInstructions(params.AuctionHouse, params.Nft, params.Listing, buyer)
	if err != nil {
		return Result{}, err
	}

	return p.submit(ctx, op, signer, params.Nft.MintAddress, o, instructions...)
}

// buyInstructions assembles the purchase sequence for a standing listing:
// public_buy, print_bid_receipt, execute_sale, print_purchase_receipt, in
// that order. The on-chain program checks receipts against the instructions
// sysvar, so reordering breaks the transaction.
func buyInstructions(ah AuctionHouse, nft *Nft, listing *Listing, buyer solana.PublicKey) ([]solana.Instruction, error) {
	mint := nft.MintAddress
	seller := listing.Seller
	price := listing.Price
	size := listing.TokenSize
	tokenAccount := nft.Owner.AssociatedTokenAccountAddress

	metadata, _, err := auctionhouse.FindMetadataAccount(mint)
	if err != nil {
		return nil, err
	}
	escrow, escrowBump, err := auctionhouse.FindEscrowPaymentAccount(ah.Address, buyer)
	if err != nil {
		return nil, err
	}
	buyerTradeState, buyerTradeStateBump, err := auctionhouse.FindPublicBidTradeState(
		buyer, ah.Address, ah.TreasuryMint, mint, price, size)
	if err != nil {
		return nil, err
	}
	freeTradeState, freeTradeStateBump, err := auctionhouse.FindTradeState(
		seller, ah.Address, tokenAccount, ah.TreasuryMint, mint, 0, size)
	if err != nil {
		return nil, err
	}
	programAsSigner, programAsSignerBump, err := auctionhouse.FindProgramAsSigner()
	if err != nil {
		return nil, err
	}
	buyerReceiptTokenAccount, _, err := auctionhouse.FindAssociatedTokenAccount(buyer, mint)
	if err != nil {
		return nil, err
	}
	bidReceipt, bidReceiptBump, err := auctionhouse.FindBidReceipt(buyerTradeState)
	if err != nil {
		return nil, err
	}
	listingReceipt, _, err := auctionhouse.FindListingReceipt(listing.TradeState)
	if err != nil {
		return nil, err
	}
	purchaseReceipt, purchaseReceiptBump, err := auctionhouse.FindPurchaseReceipt(
		listing.TradeState, buyerTradeState)
	if err != nil {
		return nil, err
	}

	buyIx, err := auctionhouse.BuildPublicBuy(auctionhouse.PublicBuyAccounts{
		Wallet:                 buyer,
		PaymentAccount:         buyer,
		TransferAuthority:      buyer,
		TreasuryMint:           ah.TreasuryMint,
		TokenAccount:           tokenAccount,
		Metadata:               metadata,
		EscrowPaymentAccount:   escrow,
		Authority:              ah.Authority,
		AuctionHouse:           ah.Address,
		AuctionHouseFeeAccount: ah.AuctionHouseFeeAccount,
		BuyerTradeState:        buyerTradeState,
		TokenProgram:           constants.TokenProgramID,
		SystemProgram:          constants.SystemProgramID,
		Rent:                   constants.SysvarRentProgramID,
	}, auctionhouse.PublicBuyArgs{
		TradeStateBump:    buyerTradeStateBump,
		EscrowPaymentBump: escrowBump,
		BuyerPrice:        price,
		TokenSize:         size,
	})
	if err != nil {
		return nil, err
	}

	bidReceiptIx, err := auctionhouse.BuildPrintBidReceipt(auctionhouse.ReceiptAccounts{
		Receipt:       bidReceipt,
		Bookkeeper:    buyer,
		SystemProgram: constants.SystemProgramID,
		Rent:          constants.SysvarRentProgramID,
		Instruction:   constants.SysvarInstructionsID,
	}, bidReceiptBump)
	if err != nil {
		return nil, err
	}

	saleIx, err := auctionhouse.BuildExecuteSale(auctionhouse.ExecuteSaleAccounts{
		Buyer:                       buyer,
		Seller:                      seller,
		TokenAccount:                tokenAccount,
		TokenMint:                   mint,
		Metadata:                    metadata,
		TreasuryMint:                ah.TreasuryMint,
		EscrowPaymentAccount:        escrow,
		SellerPaymentReceiptAccount: seller,
		BuyerReceiptTokenAccount:    buyerReceiptTokenAccount,
		Authority:                   ah.Authority,
		AuctionHouse:                ah.Address,
		AuctionHouseFeeAccount:      ah.AuctionHouseFeeAccount,
		AuctionHouseTreasury:        ah.AuctionHouseTreasury,
		BuyerTradeState:             buyerTradeState,
		SellerTradeState:            listing.TradeState,
		FreeTradeState:              freeTradeState,
		TokenProgram:                constants.TokenProgramID,
		SystemProgram:               constants.SystemProgramID,
		AssociatedTokenProgram:      constants.AssociatedTokenProgramID,
		ProgramAsSigner:             programAsSigner,
		Rent:                        constants.SysvarRentProgramID,
	}, auctionhouse.ExecuteSaleArgs{
		EscrowPaymentBump:   escrowBump,
		FreeTradeStateBump:  freeTradeStateBump,
		ProgramAsSignerBump: programAsSignerBump,
		BuyerPrice:          price,
		TokenSize:           size,
	})
	if err != nil {
		return nil, err
	}

	purchaseReceiptIx, err := auctionhouse.BuildPrintPurchaseReceipt(auctionhouse.PurchaseReceiptAccounts{
		PurchaseReceipt: purchaseReceipt,
		ListingReceipt:  listingReceipt,
		BidReceipt:      bidReceipt,
		Bookkeeper:      buyer,
		SystemProgram:   constants.SystemProgramID,
		Rent:            constants.SysvarRentProgramID,
		Instruction:     constants.SysvarInstructionsID,
	}, purchaseReceiptBump)
	if err != nil {
		return nil, err
	}

	return []solana.Instruction{buyIx, bidReceiptIx, saleIx, purchaseReceiptIx}, nil
}
