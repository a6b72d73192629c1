// Package marketplace contains the operation orchestrators of the
// transaction pipeline. Each orchestrator runs a fixed sequence: validate
// preconditions, derive addresses, build instructions in the order the
// on-chain program expects, sign and submit through the gateway, and
// trigger a read-side refetch once confirmation is observed.
package marketplace

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/rs/zerolog"

	"github.com/holaplex/marketplace-tx/pkg/jito"
	"github.com/holaplex/marketplace-tx/pkg/rpc"
	"github.com/holaplex/marketplace-tx/pkg/txbuilder"
	"github.com/holaplex/marketplace-tx/pkg/types"
	"github.com/holaplex/marketplace-tx/pkg/wallet"
)

// Refetcher is invoked exactly once after an operation reaches the
// Confirmed state, so the read side can reflect the new on-chain state.
// It decouples the pipeline from any particular view layer.
type Refetcher interface {
	Refetch(ctx context.Context, mints ...solana.PublicKey) error
}

// RefetchFunc adapts a function to the Refetcher interface.
type RefetchFunc func(ctx context.Context, mints ...solana.PublicKey) error

// Refetch calls f.
func (f RefetchFunc) Refetch(ctx context.Context, mints ...solana.PublicKey) error {
	return f(ctx, mints...)
}

// Pipeline holds the capabilities every orchestrator needs: wallet, RPC,
// the signing/submission gateway, and the refetch hook. Passing them
// explicitly (rather than reading ambient globals) keeps each operation
// testable against mock capabilities.
type Pipeline struct {
	wallet   *wallet.Adapter
	rpc      *rpc.Client
	builder  *txbuilder.Builder
	refetch  Refetcher
	log      zerolog.Logger
	mu       sync.Mutex
	inflight map[solana.PublicKey]struct{}
}

// NewPipeline wires the pipeline's capabilities together.
func NewPipeline(w *wallet.Adapter, client *rpc.Client, builder *txbuilder.Builder, refetch Refetcher, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		wallet:   w,
		rpc:      client,
		builder:  builder,
		refetch:  refetch,
		log:      log,
		inflight: make(map[solana.PublicKey]struct{}),
	}
}

// Wallet exposes the connected wallet adapter.
func (p *Pipeline) Wallet() *wallet.Adapter {
	return p.wallet
}

// acquire marks target as having an operation in flight. A second
// submission racing the first could derive now-stale trade states or hit a
// since-canceled order, so it is refused outright rather than queued.
func (p *Pipeline) acquire(target solana.PublicKey) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[target]; busy {
		return types.ErrOperationInFlight
	}
	p.inflight[target] = struct{}{}
	return nil
}

func (p *Pipeline) release(target solana.PublicKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, target)
}

// validateHouse rejects a read model with missing addresses before any
// derivation runs. A zero key here would otherwise derive PDAs for the
// zero address and fail on-chain with an opaque seeds violation.
func validateHouse(op string, ah AuctionHouse) error {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"auctionHouse":           ah.Address,
		"authority":              ah.Authority,
		"treasuryMint":           ah.TreasuryMint,
		"auctionHouseFeeAccount": ah.AuctionHouseFeeAccount,
	}); err != nil {
		return types.NewPreconditionError(op, err)
	}
	return nil
}

// signer returns the connected signer or a precondition error. This check
// happens before any derivation or network call.
func (p *Pipeline) signer(op string) (wallet.Signer, error) {
	if p.wallet == nil || !p.wallet.Connected() {
		return nil, types.NewPreconditionError(op, types.ErrNilWallet)
	}
	s := p.wallet.Signer()
	if s == nil {
		return nil, types.NewPreconditionError(op, types.ErrNilSigner)
	}
	return s, nil
}

// refetchAfterConfirm triggers the read-side refetch exactly once per
// confirmed operation. A refetch failure is logged, not surfaced: the
// on-chain state transition has already happened.
func (p *Pipeline) refetchAfterConfirm(ctx context.Context, mint solana.PublicKey) {
	if p.refetch == nil {
		return
	}
	if err := p.refetch.Refetch(ctx, mint); err != nil {
		p.log.Warn().Err(err).Str("mint", mint.String()).Msg("refetch after confirm failed")
	}
}

// Result reports a confirmed operation.
type Result struct {
	Signature solana.Signature
}

// submissionBuilder picks the gateway for one submission. Jito is used only
// when the caller attached a tip; the Block Engine drops tipless bundles, so
// everything else goes through standard RPC.
func (p *Pipeline) submissionBuilder(o options) *txbuilder.Builder {
	if p.builder.HasJito() && o.jitoTip == 0 {
		return p.builder.WithoutJito()
	}
	return p.builder
}

// submit runs the tail of every orchestrator: optionally attach a Jito tip,
// push the fixed instruction sequence through the gateway as one atomic
// transaction, and refetch the read side once confirmation is observed.
func (p *Pipeline) submit(ctx context.Context, op string, feePayer wallet.Signer, mint solana.PublicKey, o options, instructions ...solana.Instruction) (Result, error) {
	if o.jitoTip > 0 && p.builder.HasJito() {
		tip := system.NewTransferInstruction(o.jitoTip, feePayer.PublicKey(), jito.GetRandomTipAccountLocal()).Build()
		instructions = append(instructions, tip)
	}

	log := p.log.With().Str("op", op).Str("mint", mint.String()).Logger()
	log.Debug().Int("instructions", len(instructions)).Msg("submitting")

	sig, err := p.submissionBuilder(o).BuildSignSendAndConfirm(ctx, feePayer, nil, o.confirmation, instructions...)
	if err != nil {
		log.Debug().Err(err).Msg("submission failed")
		return Result{Signature: sig}, err
	}

	log.Info().Str("signature", sig.String()).Msg("confirmed")
	p.refetchAfterConfirm(ctx, mint)
	return Result{Signature: sig}, nil
}
