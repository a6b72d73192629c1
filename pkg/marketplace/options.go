package marketplace

import (
	"github.com/holaplex/marketplace-tx/pkg/txbuilder"
)

// options carries per-operation overrides.
type options struct {
	confirmation txbuilder.ConfirmationLevel
	valueBearing bool
	jitoTip      uint64
}

// Option configures a single operation call.
type Option func(*options)

func newOptions(valueBearing bool, opts ...Option) options {
	o := options{
		confirmation: txbuilder.ConfirmationConfirmed,
		valueBearing: valueBearing,
	}
	for _, opt := range opts {
		opt(&o)
	}
	// Operations that move funds or transfer ownership never report success
	// below the confirmed level, whatever the caller asked for.
	if o.valueBearing && o.confirmation == txbuilder.ConfirmationProcessed {
		o.confirmation = txbuilder.ConfirmationConfirmed
	}
	return o
}

// WithConfirmationLevel overrides the confirmation level to wait for.
// Value-bearing operations clamp this to at least confirmed.
func WithConfirmationLevel(level txbuilder.ConfirmationLevel) Option {
	return func(o *options) {
		o.confirmation = level
	}
}

// WithJitoTip attaches a tip transfer of the given lamports to the
// transaction when the gateway submits through the Jito Block Engine.
// Ignored when no Jito client is configured.
func WithJitoTip(lamports uint64) Option {
	return func(o *options) {
		o.jitoTip = lamports
	}
}
