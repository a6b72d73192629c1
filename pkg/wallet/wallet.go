package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Signer performs detached signatures for transaction messages.
type Signer interface {
	PublicKey() solana.PublicKey
	SignMessage(ctx context.Context, message []byte) (solana.Signature, error)
}

// Local wraps a local private key.
type Local struct {
	key solana.PrivateKey
}

// NewLocalFromKeygen loads a solana-keygen JSON file.
func NewLocalFromKeygen(path string) (Local, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return Local{}, fmt.Errorf("load keypair: %w", err)
	}
	return Local{key: key}, nil
}

// NewLocalFromBase58 constructs a local signer from base58-encoded key.
func NewLocalFromBase58(privateKey string) (Local, error) {
	key, err := solana.PrivateKeyFromBase58(privateKey)
	if err != nil {
		return Local{}, fmt.Errorf("decode base58 key: %w", err)
	}
	return Local{key: key}, nil
}

// NewLocalFromPrivateKey constructs a local signer from existing private key.
func NewLocalFromPrivateKey(key solana.PrivateKey) Local {
	return Local{key: key}
}

// PublicKey returns the associated public key.
func (l Local) PublicKey() solana.PublicKey {
	return l.key.PublicKey()
}

// SignMessage signs the provided message bytes.
func (l Local) SignMessage(ctx context.Context, message []byte) (solana.Signature, error) {
	select {
	case <-ctx.Done():
		return solana.Signature{}, ctx.Err()
	default:
		sig, err := l.key.Sign(message)
		if err != nil {
			return solana.Signature{}, fmt.Errorf("sign message: %w", err)
		}
		return sig, nil
	}
}

// Remote signs by delegating to an external signing capability, typically a
// browser wallet extension bridged over RPC. The callback returning an error
// is how a dismissed signing prompt reaches the pipeline.
type Remote struct {
	pub      solana.PublicKey
	SignFunc func(ctx context.Context, message []byte) ([]byte, error)
}

// NewRemote constructs a remote signer.
func NewRemote(pub solana.PublicKey, fn func(ctx context.Context, message []byte) ([]byte, error)) Remote {
	return Remote{
		pub:      pub,
		SignFunc: fn,
	}
}

// PublicKey returns the attached public key.
func (r Remote) PublicKey() solana.PublicKey {
	return r.pub
}

// SignMessage obtains a signature from the remote capability.
func (r Remote) SignMessage(ctx context.Context, message []byte) (solana.Signature, error) {
	if r.SignFunc == nil {
		return solana.Signature{}, fmt.Errorf("sign func not set")
	}
	raw, err := r.SignFunc(ctx, message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("remote sign: %w", err)
	}
	if len(raw) != solana.SignatureLength {
		return solana.Signature{}, fmt.Errorf("invalid signature length: got %d", len(raw))
	}
	var sig solana.Signature
	copy(sig[:], raw)
	return sig, nil
}

// Adapter tracks the currently connected wallet, mirroring a browser
// wallet-adapter: at most one Signer is connected at a time.
type Adapter struct {
	mu     sync.RWMutex
	signer Signer
}

// NewAdapter returns a disconnected adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Connect attaches a signer.
func (a *Adapter) Connect(s Signer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signer = s
}

// Disconnect detaches the current signer.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signer = nil
}

// Connected reports whether a signer is attached.
func (a *Adapter) Connected() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.signer != nil
}

// Signer returns the connected signer, or nil.
func (a *Adapter) Signer() Signer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.signer
}

// PublicKey returns the connected wallet's public key, or the zero key.
func (a *Adapter) PublicKey() solana.PublicKey {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.signer == nil {
		return solana.PublicKey{}
	}
	return a.signer.PublicKey()
}
