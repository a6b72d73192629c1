package types

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/holaplex/marketplace-tx/pkg/program/auctionhouse"
)

// Common SDK errors
var (
	// Precondition errors, detected before any network call
	ErrNilRPC             = errors.New("rpc client is nil")
	ErrNilWallet          = errors.New("wallet is not connected")
	ErrNilSigner          = errors.New("wallet cannot sign")
	ErrNilListing         = errors.New("listing not found")
	ErrNilOffer           = errors.New("offer not found")
	ErrNilNft             = errors.New("nft not found")
	ErrListingCanceled    = errors.New("listing has been canceled")
	ErrOfferTerminal      = errors.New("offer has been canceled or accepted")
	ErrOperationInFlight  = errors.New("an operation for this address is already in flight")
	ErrNoAuctionHouse     = errors.New("no auction house matches the payment token")
	ErrZeroPrice          = errors.New("price must be greater than 0")
	ErrInvalidPublicKey   = errors.New("invalid public key")
	ErrNoInstructions     = errors.New("requires at least one instruction")
	ErrEmptyTreasury      = errors.New("treasury balance is zero")
	ErrUnauthorized       = errors.New("wallet is not the auction house authority")
	ErrNotOwner           = errors.New("wallet does not own this nft")
	ErrSelfPurchase       = errors.New("cannot buy your own listing")
	ErrConfirmationFailed = errors.New("transaction failed on chain")
)

// PreconditionError marks a failure detected before derivation or submission.
// It is non-retryable without user action (e.g. connecting a wallet).
type PreconditionError struct {
	Op  string
	Err error
}

func (e PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition failed: %v", e.Op, e.Err)
}

func (e PreconditionError) Unwrap() error { return e.Err }

// NewPreconditionError wraps err with the failed operation name.
func NewPreconditionError(op string, err error) PreconditionError {
	return PreconditionError{Op: op, Err: err}
}

// SigningRejectedError is returned when the wallet declines to sign.
// The pipeline aborts before any broadcast; the wallet's reason is kept verbatim.
type SigningRejectedError struct {
	Reason string
	Err    error
}

func (e SigningRejectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("signing rejected: %s", e.Reason)
	}
	return fmt.Sprintf("signing rejected: %v", e.Err)
}

func (e SigningRejectedError) Unwrap() error { return e.Err }

// BroadcastError is returned when the RPC rejects a signed transaction.
// The whole pipeline must be restarted to obtain a fresh blockhash and
// re-validated addresses.
type BroadcastError struct {
	Err error
}

func (e BroadcastError) Error() string {
	return fmt.Sprintf("broadcast failed: %v", e.Err)
}

func (e BroadcastError) Unwrap() error { return e.Err }

// ConfirmationTimeoutError marks an ambiguous outcome: the transaction was
// broadcast but confirmation was not observed within the window. It may still
// land; the signature lets callers check an explorer.
type ConfirmationTimeoutError struct {
	Signature solana.Signature
	Err       error
}

func (e ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("confirmation timeout for %s: %v", e.Signature, e.Err)
}

func (e ConfirmationTimeoutError) Unwrap() error { return e.Err }

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ProgramError represents on-chain program execution errors.
type ProgramError struct {
	Program string
	Code    int
	Message string
	Logs    []string
}

func (e ProgramError) Error() string {
	return fmt.Sprintf("program %s error [%d]: %s", e.Program, e.Code, e.Message)
}

// SimulationError contains simulation failure details.
type SimulationError struct {
	Err  interface{}
	Logs []string
}

func (e SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v", e.Err)
}

// ParseAuctionHouseError converts an auction house error code to a friendly error.
func ParseAuctionHouseError(code int) error {
	if err, ok := auctionhouse.ErrorFromCode(uint32(code)); ok {
		msg := err.Msg
		if msg == "" {
			msg = err.Name
		}
		return &ProgramError{
			Program: "auction_house",
			Code:    code,
			Message: msg,
		}
	}
	return fmt.Errorf("auction_house error code %d", code)
}

// ParseSimulationError extracts error details from a simulation result.
func ParseSimulationError(errVal interface{}, logs []string) error {
	if errVal == nil {
		return nil
	}

	// Try to extract instruction error
	if errMap, ok := errVal.(map[string]interface{}); ok {
		if instErr, exists := errMap["InstructionError"]; exists {
			if errSlice, ok := instErr.([]interface{}); ok && len(errSlice) >= 2 {
				if customErr, ok := errSlice[1].(map[string]interface{}); ok {
					if code, exists := customErr["Custom"]; exists {
						if codeNum, ok := code.(float64); ok {
							codeInt := int(codeNum)
							account := extractAccountFromLogs(logs)
							msg := parseErrorCode(codeInt, account)
							return &ProgramError{
								Program: "auction_house",
								Code:    codeInt,
								Message: msg,
								Logs:    logs,
							}
						}
					}
				}
			}
		}
	}

	return &SimulationError{Err: errVal, Logs: logs}
}

// extractAccountFromLogs extracts the account name from Anchor error logs.
func extractAccountFromLogs(logs []string) string {
	for _, log := range logs {
		// Look for "AnchorError caused by account: xxx"
		if idx := indexOf(log, "caused by account: "); idx >= 0 {
			rest := log[idx+len("caused by account: "):]
			if end := indexOf(rest, "."); end >= 0 {
				return rest[:end]
			}
			return rest
		}
	}
	return ""
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// parseErrorCode converts error code to human-readable message.
func parseErrorCode(code int, account string) string {
	// Anchor system errors (0-3000 range)
	switch code {
	case 3012:
		if account != "" {
			return fmt.Sprintf("account '%s' not initialized (the trade state may be stale or already consumed)", account)
		}
		return "account not initialized"
	case 2006:
		return "seeds constraint violated (derivation parameters do not match the standing order)"
	case 3008:
		return "program ID was not as expected (wrong program)"
	}

	if err, ok := auctionhouse.ErrorFromCode(uint32(code)); ok {
		msg := err.Msg
		if msg == "" {
			msg = toReadableError(err.Name)
		}
		if account != "" {
			return fmt.Sprintf("%s (account: %s)", msg, account)
		}
		return msg
	}

	return fmt.Sprintf("error code %d", code)
}

// toReadableError converts CamelCase error name to readable format.
func toReadableError(name string) string {
	if name == "" {
		return "unknown error"
	}
	var result []byte
	for i, c := range name {
		if i > 0 && c >= 'A' && c <= 'Z' {
			result = append(result, ' ')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// IsRetryableFromScratch reports whether the caller may usefully restart the
// whole pipeline (fresh blockhash, re-derived addresses). Signing rejections
// and precondition failures require user action first.
func IsRetryableFromScratch(err error) bool {
	if err == nil {
		return false
	}
	var signErr SigningRejectedError
	if errors.As(err, &signErr) {
		return false
	}
	var preErr PreconditionError
	if errors.As(err, &preErr) {
		return false
	}
	var bErr BroadcastError
	if errors.As(err, &bErr) {
		return true
	}
	var tErr ConfirmationTimeoutError
	if errors.As(err, &tErr) {
		return false // outcome ambiguous, check explorer before retrying
	}
	return true
}
