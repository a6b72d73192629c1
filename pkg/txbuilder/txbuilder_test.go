package txbuilder_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holaplex/marketplace-tx/pkg/jito"
	"github.com/holaplex/marketplace-tx/pkg/txbuilder"
	"github.com/holaplex/marketplace-tx/pkg/types"
	"github.com/holaplex/marketplace-tx/pkg/wallet"
)

func testTransaction(t *testing.T, payer solana.PublicKey) *solana.Transaction {
	t.Helper()
	ix := system.NewTransferInstruction(1, payer, solana.NewWallet().PublicKey()).Build()
	tx, err := solana.NewTransactionBuilder().
		SetRecentBlockHash(solana.Hash(solana.NewWallet().PublicKey())).
		SetFeePayer(payer).
		AddInstruction(ix).
		Build()
	require.NoError(t, err)
	return tx
}

func TestSignTransactionLocal(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	signer := wallet.NewLocalFromPrivateKey(key)
	tx := testTransaction(t, signer.PublicKey())

	require.NoError(t, txbuilder.SignTransaction(context.Background(), tx, signer))
	require.Len(t, tx.Signatures, 1)
	assert.NotEqual(t, solana.Signature{}, tx.Signatures[0])
}

func TestSignTransactionRejectionKeepsReason(t *testing.T) {
	pub := solana.NewWallet().PublicKey()
	remote := wallet.NewRemote(pub, func(ctx context.Context, message []byte) ([]byte, error) {
		return nil, fmt.Errorf("user declined the request")
	})
	tx := testTransaction(t, pub)

	err := txbuilder.SignTransaction(context.Background(), tx, remote)

	var rejected types.SigningRejectedError
	require.True(t, errors.As(err, &rejected))
	// The wallet's reason travels verbatim so the caller can show it.
	assert.Contains(t, rejected.Reason, "user declined the request")
}

func TestSignTransactionMissingSigner(t *testing.T) {
	tx := testTransaction(t, solana.NewWallet().PublicKey())
	other := wallet.NewLocalFromPrivateKey(solana.NewWallet().PrivateKey)

	err := txbuilder.SignTransaction(context.Background(), tx, other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing signer")
}

func TestBuildTransactionRequiresInstructions(t *testing.T) {
	b := txbuilder.NewBuilder(nil, solanarpc.CommitmentConfirmed)
	_, err := b.BuildTransaction(context.Background(), solana.NewWallet().PublicKey())
	assert.Error(t, err)
}

func TestWithoutJitoDisablesBundleSubmission(t *testing.T) {
	b := txbuilder.NewBuilder(nil, solanarpc.CommitmentConfirmed).
		WithJito(jito.NewClient("", ""))
	require.True(t, b.HasJito())

	rpcOnly := b.WithoutJito()
	assert.False(t, rpcOnly.HasJito())
	// The original keeps its Jito client for submissions that do tip.
	assert.True(t, b.HasJito())
}

func TestToCommitment(t *testing.T) {
	assert.Equal(t, solanarpc.CommitmentProcessed, txbuilder.ToCommitment(txbuilder.ConfirmationProcessed))
	assert.Equal(t, solanarpc.CommitmentConfirmed, txbuilder.ToCommitment(txbuilder.ConfirmationConfirmed))
	assert.Equal(t, solanarpc.CommitmentFinalized, txbuilder.ToCommitment(txbuilder.ConfirmationFinalized))
	assert.Equal(t, solanarpc.CommitmentConfirmed, txbuilder.ToCommitment(txbuilder.ConfirmationLevel("bogus")))
}
