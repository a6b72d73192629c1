package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimulationErrorCustomCode(t *testing.T) {
	errVal := map[string]interface{}{
		"InstructionError": []interface{}{
			float64(2),
			map[string]interface{}{"Custom": float64(6002)},
		},
	}
	logs := []string{
		"Program hausS13jsjafwWwGqZTUQRmWyvyxn9EQpqMwV1PBBmk invoke [1]",
		"Program log: AnchorError caused by account: seller_trade_state. Error Code: UninitializedAccount.",
	}

	err := ParseSimulationError(errVal, logs)

	var progErr *ProgramError
	require.True(t, errors.As(err, &progErr))
	assert.Equal(t, 6002, progErr.Code)
	assert.Contains(t, progErr.Message, "seller_trade_state")
}

func TestParseSimulationErrorAnchorSystemCode(t *testing.T) {
	errVal := map[string]interface{}{
		"InstructionError": []interface{}{
			float64(0),
			map[string]interface{}{"Custom": float64(3012)},
		},
	}

	err := ParseSimulationError(errVal, nil)

	var progErr *ProgramError
	require.True(t, errors.As(err, &progErr))
	assert.Contains(t, progErr.Message, "not initialized")
}

func TestParseSimulationErrorUnstructured(t *testing.T) {
	err := ParseSimulationError("BlockhashNotFound", nil)

	var simErr *SimulationError
	assert.True(t, errors.As(err, &simErr))
}

func TestConfirmationTimeoutCarriesSignature(t *testing.T) {
	var sig solana.Signature
	sig[0] = 0x42

	err := ConfirmationTimeoutError{Signature: sig, Err: fmt.Errorf("deadline exceeded")}

	assert.Contains(t, err.Error(), sig.String(),
		"the ambiguous outcome must point at the signature to check")
}

func TestIsRetryableFromScratch(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"signing rejected", SigningRejectedError{Reason: "dismissed"}, false},
		{"precondition", NewPreconditionError("buy", ErrListingCanceled), false},
		{"broadcast", BroadcastError{Err: fmt.Errorf("blockhash expired")}, true},
		{"confirmation timeout", ConfirmationTimeoutError{Err: fmt.Errorf("timeout")}, false},
		{"wrapped broadcast", fmt.Errorf("op: %w", BroadcastError{Err: fmt.Errorf("x")}), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableFromScratch(tc.err))
		})
	}
}

func TestPreconditionErrorUnwraps(t *testing.T) {
	err := NewPreconditionError("cancel_listing", ErrListingCanceled)
	assert.True(t, errors.Is(err, ErrListingCanceled))
	assert.Contains(t, err.Error(), "cancel_listing")
}
