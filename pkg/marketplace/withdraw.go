package marketplace

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/holaplex/marketplace-tx/pkg/constants"
	"github.com/holaplex/marketplace-tx/pkg/program/auctionhouse"
	"github.com/holaplex/marketplace-tx/pkg/treasury"
	"github.com/holaplex/marketplace-tx/pkg/types"
)

// WithdrawTreasuryParams configure a full treasury drain. The platform fee
// share goes to PlatformFeeDestination; the rest to the house's registered
// withdrawal destination.
type WithdrawTreasuryParams struct {
	AuctionHouse           AuctionHouse
	PlatformFeeDestination solana.PublicKey
	PlatformFeeBasisPoints uint16
}

// WithdrawTreasury drains the auction house treasury in one atomic
// transaction: the balance is read at the operation's commitment, split
// between destination and platform fee, and both portions withdrawn with
// separate withdraw_from_treasury instructions whose amounts sum exactly to
// the observed balance. Only the house authority may sign.
func (p *Pipeline) WithdrawTreasury(ctx context.Context, params WithdrawTreasuryParams, opts ...Option) (Result, error) {
	const op = "withdraw_treasury"
	o := newOptions(true, opts...)

	signer, err := p.signer(op)
	if err != nil {
		return Result{}, err
	}
	if err := validateHouse(op, params.AuctionHouse); err != nil {
		return Result{}, err
	}
	ah := params.AuctionHouse
	authority := signer.PublicKey()
	if !ah.Authority.Equals(authority) {
		return Result{}, types.NewPreconditionError(op, types.ErrUnauthorized)
	}
	if params.PlatformFeeBasisPoints > 0 && params.PlatformFeeDestination.IsZero() {
		return Result{}, types.NewPreconditionError(op,
			types.NewValidationError("platformFeeDestination", "required when a platform fee is taken"))
	}

	if err := p.acquire(ah.AuctionHouseTreasury); err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}
	defer p.release(ah.AuctionHouseTreasury)

	balance, err := p.rpc.GetBalance(ctx, ah.AuctionHouseTreasury)
	if err != nil {
		return Result{}, fmt.Errorf("get treasury balance: %w", err)
	}

	split, err := treasury.Compute(balance, params.PlatformFeeBasisPoints)
	if err != nil {
		return Result{}, types.NewPreconditionError(op, err)
	}

	instructions := make([]solana.Instruction, 0, 2)
	if split.Destination > 0 {
		ix, err := auctionhouse.BuildWithdrawFromTreasury(auctionhouse.WithdrawFromTreasuryAccounts{
			TreasuryMint:                  ah.TreasuryMint,
			Authority:                     authority,
			TreasuryWithdrawalDestination: ah.TreasuryWithdrawalDestination,
			AuctionHouseTreasury:          ah.AuctionHouseTreasury,
			AuctionHouse:                  ah.Address,
			TokenProgram:                  constants.TokenProgramID,
			SystemProgram:                 constants.SystemProgramID,
		}, auctionhouse.WithdrawFromTreasuryArgs{Amount: split.Destination})
		if err != nil {
			return Result{}, err
		}
		instructions = append(instructions, ix)
	}
	if split.PlatformFee > 0 {
		ix, err := auctionhouse.BuildWithdrawFromTreasury(auctionhouse.WithdrawFromTreasuryAccounts{
			TreasuryMint:                  ah.TreasuryMint,
			Authority:                     authority,
			TreasuryWithdrawalDestination: params.PlatformFeeDestination,
			AuctionHouseTreasury:          ah.AuctionHouseTreasury,
			AuctionHouse:                  ah.Address,
			TokenProgram:                  constants.TokenProgramID,
			SystemProgram:                 constants.SystemProgramID,
		}, auctionhouse.WithdrawFromTreasuryArgs{Amount: split.PlatformFee})
		if err != nil {
			return Result{}, err
		}
		instructions = append(instructions, ix)
	}

	p.log.Info().
		Str("treasury", ah.AuctionHouseTreasury.String()).
		Uint64("balance", balance).
		Uint64("destination", split.Destination).
		Uint64("platformFee", split.PlatformFee).
		Msg("withdrawing treasury")

	return p.submit(ctx, op, signer, ah.Address, o, instructions...)
}
