package marketplace

import (
	"context"

	"github.com/holaplex/marketplace-tx/pkg/constants"
	"github.com/holaplex/marketplace-tx/pkg/program/auctionhouse"
	"github.com/holaplex/marketplace-tx/pkg/types"
)

// EscrowParams describe a transfer between the signer's wallet and their
// escrow payment account. Amount is in the smallest unit of the house's
// treasury mint.
type EscrowParams struct {
	AuctionHouse AuctionHouse
	Amount       uint64
}

// DepositEscrow tops up the signer's escrow payment account ahead of a bid.
// A public bid normally escrows funds on its own, so this is only needed to
// pre-fund escrow separately from the bid itself.
func (p *Pipeline) DepositEscrow(ctx context.Context, params EscrowParams, opts ...Option) (Result, error) {
	const op = "deposit_escrow"
	o := newOptions(true, opts...)

	signer, err := p.signer(op)
	if err != nil {
		return Result{}, err
	}
	if err := validateHouse(op, params.AuctionHouse); err != nil {
		return Result{}, err
	}
	if err := types.ValidatePrice(params.Amount); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}

	ah := params.AuctionHouse
	wallet := signer.PublicKey()

	escrow, escrowBump, err := auctionhouse.FindEscrowPaymentAccount(ah.Address, wallet)
	if err != nil {
		return Result{}, err
	}
	if err := p.acquire(escrow); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(escrow)

	ix, err := auctionhouse.BuildDeposit(auctionhouse.DepositAccounts{
		Wallet:                 wallet,
		PaymentAccount:         wallet,
		TransferAuthority:      wallet,
		EscrowPaymentAccount:   escrow,
		TreasuryMint:           ah.TreasuryMint,
		Authority:              ah.Authority,
		AuctionHouse:           ah.Address,
		AuctionHouseFeeAccount: ah.AuctionHouseFeeAccount,
		TokenProgram:           constants.TokenProgramID,
		SystemProgram:          constants.SystemProgramID,
		Rent:                   constants.SysvarRentProgramID,
	}, auctionhouse.DepositArgs{
		EscrowPaymentBump: escrowBump,
		Amount:            params.Amount,
	})
	if err != nil {
		return Result{}, err
	}

	return p.submit(ctx, op, signer, ah.Address, o, ix)
}

// WithdrawEscrow returns escrowed funds to the signer's wallet, for example
// after an offer is outbid and the buyer wants the deposit back without
// canceling the bid trade state.
func (p *Pipeline) WithdrawEscrow(ctx context.Context, params EscrowParams, opts ...Option) (Result, error) {
	const op = "withdraw_escrow"
	o := newOptions(true, opts...)

	signer, err := p.signer(op)
	if err != nil {
		return Result{}, err
	}
	if err := validateHouse(op, params.AuctionHouse); err != nil {
		return Result{}, err
	}
	if err := types.ValidatePrice(params.Amount); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}

	ah := params.AuctionHouse
	wallet := signer.PublicKey()

	escrow, escrowBump, err := auctionhouse.FindEscrowPaymentAccount(ah.Address, wallet)
	if err != nil {
		return Result{}, err
	}
	if err := p.acquire(escrow); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(escrow)

	ix, err := auctionhouse.BuildWithdraw(auctionhouse.WithdrawAccounts{
		Wallet:                 wallet,
		ReceiptAccount:         wallet,
		EscrowPaymentAccount:   escrow,
		TreasuryMint:           ah.TreasuryMint,
		Authority:              ah.Authority,
		AuctionHouse:           ah.Address,
		AuctionHouseFeeAccount: ah.AuctionHouseFeeAccount,
		TokenProgram:           constants.TokenProgramID,
		SystemProgram:          constants.SystemProgramID,
		AssociatedTokenProgram: constants.AssociatedTokenProgramID,
		Rent:                   constants.SysvarRentProgramID,
	}, auctionhouse.WithdrawArgs{
		EscrowPaymentBump: escrowBump,
		Amount:            params.Amount,
	})
	if err != nil {
		return Result{}, err
	}

	return p.submit(ctx, op, signer, ah.Address, o, ix)
}
