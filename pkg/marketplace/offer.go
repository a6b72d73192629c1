package marketplace

import (
	"context"

	"github.com/holaplex/marketplace-tx/pkg/constants"
	"github.com/holaplex/marketplace-tx/pkg/program/auctionhouse"
	"github.com/holaplex/marketplace-tx/pkg/types"
)

// MakeOfferParams describe a new public offer on an NFT, listed or not.
type MakeOfferParams struct {
	AuctionHouse AuctionHouse
	Nft          *Nft
	Amount       uint64
}

// MakeOffer places a public bid: the buyer's funds move into escrow and a
// public bid trade state opens at the offered price, with the bid receipt
// printed alongside. The offer stands until canceled or accepted.
func (p *Pipeline) MakeOffer(ctx context.Context, params MakeOfferParams, opts ...Option) (Result, error) {
	const op = "make_offer"
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
	if err := types.ValidatePrice(params.Amount); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	buyer := signer.PublicKey()
	if params.Nft.Owner.Address.Equals(buyer) {
		return Result{}, types.NewPreconditionError(op, types.ErrSelfPurchase)
	}

	mint := params.Nft.MintAddress
	if err := p.acquire(mint); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(mint)

	ah := params.AuctionHouse
	tokenAccount := params.Nft.Owner.AssociatedTokenAccountAddress

	metadata, _, err := auctionhouse.FindMetadataAccount(mint)
	if err != nil {
		return Result{}, err
	}
	escrow, escrowBump, err := auctionhouse.FindEscrowPaymentAccount(ah.Address, buyer)
	if err != nil {
		return Result{}, err
	}
	tradeState, tradeStateBump, err := auctionhouse.FindPublicBidTradeState(
		buyer, ah.Address, ah.TreasuryMint, mint, params.Amount, 1)
	if err != nil {
		return Result{}, err
	}
	receipt, receiptBump, err := auctionhouse.FindBidReceipt(tradeState)
	if err != nil {
		return Result{}, err
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
		BuyerTradeState:        tradeState,
		TokenProgram:           constants.TokenProgramID,
		SystemProgram:          constants.SystemProgramID,
		Rent:                   constants.SysvarRentProgramID,
	}, auctionhouse.PublicBuyArgs{
		TradeStateBump:    tradeStateBump,
		EscrowPaymentBump: escrowBump,
		BuyerPrice:        params.Amount,
		TokenSize:         1,
	})
	if err != nil {
		return Result{}, err
	}

	receiptIx, err := auctionhouse.BuildPrintBidReceipt(auctionhouse.ReceiptAccounts{
		Receipt:       receipt,
		Bookkeeper:    buyer,
		SystemProgram: constants.SystemProgramID,
		Rent:          constants.SysvarRentProgramID,
		Instruction:   constants.SysvarInstructionsID,
	}, receiptBump)
	if err != nil {
		return Result{}, err
	}

	return p.submit(ctx, op, signer, mint, o, buyIx, receiptIx)
}

// CancelOfferParams identify a standing offer to revoke.
type CancelOfferParams struct {
	AuctionHouse AuctionHouse
	Nft          *Nft
	Offer        *Offer
}

// CancelOffer revokes a standing offer, closing the bid trade state and
// canceling its receipt. Escrowed funds return to the buyer's control.
// Only the buyer who placed the offer may cancel it.
func (p *Pipeline) CancelOffer(ctx context.Context, params CancelOfferParams, opts ...Option) (Result, error) {
	const op = "cancel_offer"
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
	if params.Offer == nil {
		return Result{}, types.NewPreconditionError(op, types.ErrNilOffer)
	}
	if !params.Offer.Live() {
		return Result{}, types.NewPreconditionError(op, types.ErrOfferTerminal)
	}
	if err := types.ValidateTokenSize(params.Offer.TokenSize); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	if !params.Offer.Buyer.Equals(signer.PublicKey()) {
		return Result{}, types.NewPreconditionError(op, types.ErrUnauthorized)
	}

	target := params.Offer.TradeState
	if err := p.acquire(target); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(target)

	ah := params.AuctionHouse
	mint := params.Nft.MintAddress

	receipt, _, err := auctionhouse.FindBidReceipt(params.Offer.TradeState)
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
		TradeState:             params.Offer.TradeState,
		TokenProgram:           constants.TokenProgramID,
	}, auctionhouse.CancelArgs{
		BuyerPrice: params.Offer.Price,
		TokenSize:  params.Offer.TokenSize,
	})
	if err != nil {
		return Result{}, err
	}

	receiptIx, err := auctionhouse.BuildCancelBidReceipt(auctionhouse.CancelReceiptAccounts{
		Receipt:       receipt,
		SystemProgram: constants.SystemProgramID,
		Instruction:   constants.SysvarInstructionsID,
	})
	if err != nil {
		return Result{}, err
	}

	return p.submit(ctx, op, signer, mint, o, cancelIx, receiptIx)
}

// AcceptOfferParams identify a standing offer the owner accepts.
type AcceptOfferParams struct {
	AuctionHouse AuctionHouse
	Nft          *Nft
	Offer        *Offer
}

// AcceptOffer sells the NFT to a standing public offer. The offer's bid
// trade state and escrowed funds already exist, so a single execute_sale
// matches it against the seller trade state derived at the offer's price.
func (p *Pipeline) AcceptOffer(ctx context.Context, params AcceptOfferParams, opts ...Option) (Result, error) {
	const op = "accept_offer"
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
	if params.Offer == nil {
		return Result{}, types.NewPreconditionError(op, types.ErrNilOffer)
	}
	if !params.Offer.Live() {
		return Result{}, types.NewPreconditionError(op, types.ErrOfferTerminal)
	}
	if err := types.ValidateTokenSize(params.Offer.TokenSize); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	seller := signer.PublicKey()
	if !params.Nft.Owner.Address.Equals(seller) {
		return Result{}, types.NewPreconditionError(op, types.ErrNotOwner)
	}

	target := params.Offer.TradeState
	if err := p.acquire(target); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(target)

	ah := params.AuctionHouse
	mint := params.Nft.MintAddress
	buyer := params.Offer.Buyer
	price := params.Offer.Price
	size := params.Offer.TokenSize
	tokenAccount := params.Nft.Owner.AssociatedTokenAccountAddress

	metadata, _, err := auctionhouse.FindMetadataAccount(mint)
	if err != nil {
		return Result{}, err
	}
	escrow, escrowBump, err := auctionhouse.FindEscrowPaymentAccount(ah.Address, buyer)
	if err != nil {
		return Result{}, err
	}
	sellerTradeState, _, err := auctionhouse.FindTradeState(
		seller, ah.Address, tokenAccount, ah.TreasuryMint, mint, price, size)
	if err != nil {
		return Result{}, err
	}
	freeTradeState, freeTradeStateBump, err := auctionhouse.FindTradeState(
		seller, ah.Address, tokenAccount, ah.TreasuryMint, mint, 0, size)
	if err != nil {
		return Result{}, err
	}
	programAsSigner, programAsSignerBump, err := auctionhouse.FindProgramAsSigner()
	if err != nil {
		return Result{}, err
	}
	buyerReceiptTokenAccount, _, err := auctionhouse.FindAssociatedTokenAccount(buyer, mint)
	if err != nil {
		return Result{}, err
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
		BuyerTradeState:             params.Offer.TradeState,
		SellerTradeState:            sellerTradeState,
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
		return Result{}, err
	}

	return p.submit(ctx, op, signer, mint, o, saleIx)
}
