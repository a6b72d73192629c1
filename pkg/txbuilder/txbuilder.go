package txbuilder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/holaplex/marketplace-tx/pkg/jito"
	wraprpc "github.com/holaplex/marketplace-tx/pkg/rpc"
	"github.com/holaplex/marketplace-tx/pkg/types"
	"github.com/holaplex/marketplace-tx/pkg/wallet"
)

// ConfirmationLevel represents transaction confirmation depth.
type ConfirmationLevel string

const (
	ConfirmationProcessed ConfirmationLevel = "processed"
	ConfirmationConfirmed ConfirmationLevel = "confirmed"
	ConfirmationFinalized ConfirmationLevel = "finalized"
)

// Builder ties together RPC, fee payer, and signing. One submission moves
// through Built -> Signed -> Submitted -> Confirmed; every failure is
// terminal for that attempt and typed by the stage it occurred in.
type Builder struct {
	client        *wraprpc.Client
	commitment    solanarpc.CommitmentType
	skipPreflight bool
	jitoClient    *jito.Client
}

// NewBuilder constructs a builder with the provided client and commitment.
func NewBuilder(client *wraprpc.Client, commitment solanarpc.CommitmentType) *Builder {
	if commitment == "" {
		commitment = solanarpc.CommitmentConfirmed
	}
	return &Builder{client: client, commitment: commitment}
}

// WithSkipPreflight configures whether to skip preflight.
func (b *Builder) WithSkipPreflight(skip bool) *Builder {
	b.skipPreflight = skip
	return b
}

// WithJito configures a Jito client for bundle submission of value-bearing
// sales. Pass nil to disable Jito and use standard RPC.
func (b *Builder) WithJito(jitoClient *jito.Client) *Builder {
	b.jitoClient = jitoClient
	return b
}

// HasJito returns true if a Jito client is configured.
func (b *Builder) HasJito() bool {
	return b.jitoClient != nil
}

// WithoutJito returns a copy of the builder that submits through standard
// RPC. The Block Engine drops bundles that carry no tip, so a submission
// without one must not go through Jito even when a client is configured.
func (b *Builder) WithoutJito() *Builder {
	rpcOnly := *b
	rpcOnly.jitoClient = nil
	return &rpcOnly
}

// BuildTransaction assembles instructions into one atomic transaction,
// attaching the fee payer and a fresh blockhash. The blockhash is fetched
// here, as late as possible before signing, because its validity window is
// short.
func (b *Builder) BuildTransaction(ctx context.Context, feePayer solana.PublicKey, instructions ...solana.Instruction) (*solana.Transaction, error) {
	if b.client == nil {
		return nil, types.ErrNilRPC
	}
	if len(instructions) == 0 {
		return nil, types.ErrNoInstructions
	}

	latest, err := b.client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}

	builder := solana.NewTransactionBuilder().
		SetRecentBlockHash(latest.Value.Blockhash).
		SetFeePayer(feePayer)

	for _, ix := range instructions {
		builder.AddInstruction(ix)
	}

	tx, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	return tx, nil
}

// SignTransaction signs using the provided signers in account-key order.
// A signer error (a dismissed wallet prompt included) surfaces as
// types.SigningRejectedError; nothing has been broadcast at that point, so
// aborting here is always side-effect free.
func SignTransaction(ctx context.Context, tx *solana.Transaction, signers ...wallet.Signer) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}
	required := int(tx.Message.Header.NumRequiredSignatures)
	if required == 0 {
		return nil
	}
	if len(tx.Message.AccountKeys) < required {
		return fmt.Errorf("not enough account keys for required signatures")
	}

	signerMap := make(map[string]wallet.Signer, len(signers))
	for _, s := range signers {
		signerMap[s.PublicKey().String()] = s
	}

	messageBytes, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	tx.Signatures = make([]solana.Signature, required)
	for i := 0; i < required; i++ {
		pk := tx.Message.AccountKeys[i]
		signer, ok := signerMap[pk.String()]
		if !ok {
			return fmt.Errorf("missing signer for %s", pk.String())
		}
		sig, err := signer.SignMessage(ctx, messageBytes)
		if err != nil {
			return types.SigningRejectedError{Reason: err.Error(), Err: err}
		}
		tx.Signatures[i] = sig
	}
	return nil
}

// Send broadcasts a signed transaction. If a Jito client is configured,
// uses the Jito Block Engine; otherwise standard RPC.
func (b *Builder) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if b.jitoClient != nil {
		return b.SendViaJito(ctx, tx)
	}
	return b.SendViaRPC(ctx, tx)
}

// SendViaRPC broadcasts via standard RPC. A rejection here (expired
// blockhash, failed simulation against stale derived addresses) requires
// restarting the whole pipeline; the submission itself is never retried.
func (b *Builder) SendViaRPC(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if b.client == nil {
		return solana.Signature{}, types.ErrNilRPC
	}
	opts := solanarpc.TransactionOpts{
		SkipPreflight:       b.skipPreflight,
		PreflightCommitment: b.commitment,
	}
	sig, err := b.client.SendTransaction(ctx, tx, opts)
	if err != nil {
		return solana.Signature{}, types.BroadcastError{Err: err}
	}
	return sig, nil
}

// SendViaJito broadcasts via the Jito Block Engine.
func (b *Builder) SendViaJito(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if b.jitoClient == nil {
		return solana.Signature{}, fmt.Errorf("jito client is not configured")
	}
	sig, err := b.jitoClient.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, types.BroadcastError{Err: err}
	}
	return sig, nil
}

// SendAndConfirm broadcasts a signed transaction and waits for confirmation.
// Confirmation always goes through standard RPC even when Jito sent the
// transaction.
func (b *Builder) SendAndConfirm(ctx context.Context, tx *solana.Transaction, level ConfirmationLevel) (solana.Signature, error) {
	sig, err := b.Send(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}
	if err = b.WaitForConfirmation(ctx, sig, level); err != nil {
		return sig, err
	}
	return sig, nil
}

// BuildSignSend builds, signs, and broadcasts a transaction.
func (b *Builder) BuildSignSend(ctx context.Context, feePayer wallet.Signer, signers []wallet.Signer, instructions ...solana.Instruction) (solana.Signature, error) {
	if feePayer == nil {
		return solana.Signature{}, types.ErrNilSigner
	}
	tx, err := b.BuildTransaction(ctx, feePayer.PublicKey(), instructions...)
	if err != nil {
		return solana.Signature{}, err
	}
	allSigners := append([]wallet.Signer{feePayer}, signers...)
	if err := SignTransaction(ctx, tx, allSigners...); err != nil {
		return solana.Signature{}, err
	}
	return b.Send(ctx, tx)
}

// BuildSignSendAndConfirm runs the full gateway sequence: assemble with a
// fresh blockhash, sign, broadcast, and await the requested confirmation
// level.
func (b *Builder) BuildSignSendAndConfirm(ctx context.Context, feePayer wallet.Signer, signers []wallet.Signer, level ConfirmationLevel, instructions ...solana.Instruction) (solana.Signature, error) {
	if feePayer == nil {
		return solana.Signature{}, types.ErrNilSigner
	}
	tx, err := b.BuildTransaction(ctx, feePayer.PublicKey(), instructions...)
	if err != nil {
		return solana.Signature{}, err
	}
	allSigners := append([]wallet.Signer{feePayer}, signers...)
	if err = SignTransaction(ctx, tx, allSigners...); err != nil {
		return solana.Signature{}, err
	}
	return b.SendAndConfirm(ctx, tx, level)
}

// WaitForConfirmation polls transaction status until the requested level is
// reached. A context deadline here is an ambiguous outcome, typed as
// ConfirmationTimeoutError so callers can point users at an explorer
// instead of claiming definite failure.
func (b *Builder) WaitForConfirmation(ctx context.Context, sig solana.Signature, level ConfirmationLevel) error {
	if b.client == nil {
		return types.ErrNilRPC
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return types.ConfirmationTimeoutError{Signature: sig, Err: ctx.Err()}
		case <-ticker.C:
			resp, err := b.client.Raw().GetSignatureStatuses(ctx, true, sig)
			if err != nil {
				continue // retry on transient errors
			}
			if resp == nil || len(resp.Value) == 0 || resp.Value[0] == nil {
				continue // not yet visible
			}
			status := resp.Value[0]
			if status.Err != nil {
				return statusError(status.Err)
			}
			switch level {
			case ConfirmationProcessed:
				return nil // any status means processed
			case ConfirmationConfirmed:
				if status.ConfirmationStatus == solanarpc.ConfirmationStatusConfirmed ||
					status.ConfirmationStatus == solanarpc.ConfirmationStatusFinalized {
					return nil
				}
			case ConfirmationFinalized:
				if status.ConfirmationStatus == solanarpc.ConfirmationStatusFinalized {
					return nil
				}
			default:
				return nil
			}
		}
	}
}

// statusError converts an on-chain status error into the program error
// taxonomy where the custom code can be recovered.
func statusError(errVal interface{}) error {
	if parsed := types.ParseSimulationError(errVal, nil); parsed != nil {
		var progErr *types.ProgramError
		if errors.As(parsed, &progErr) {
			return parsed
		}
	}
	return fmt.Errorf("%w: %v", types.ErrConfirmationFailed, errVal)
}

// ToCommitment maps a confirmation level to an RPC commitment type.
func ToCommitment(level ConfirmationLevel) solanarpc.CommitmentType {
	switch level {
	case ConfirmationProcessed:
		return solanarpc.CommitmentProcessed
	case ConfirmationConfirmed:
		return solanarpc.CommitmentConfirmed
	case ConfirmationFinalized:
		return solanarpc.CommitmentFinalized
	default:
		return solanarpc.CommitmentConfirmed
	}
}
