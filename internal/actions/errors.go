package actions

import (
	"errors"
	"fmt"

	"supplychain/internal/contract"
	"supplychain/internal/wallet"
)

var (
	ErrNotLoaded       = errors.New("contract not loaded")
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnsupported     = errors.New("operation not supported by this contract")
	ErrProductNotFound = errors.New("product not found")
)

// Error kinds used in metrics and responses
const (
	KindEnvironment = "environment"
	KindValidation  = "validation"
	KindRemote      = "remote"
	KindNotFound    = "not_found"
	KindInternal    = "internal"
)

// ValidationError rejects user input before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RemoteError reports a contract operation the provider or the contract
// rejected. Reason is the human-readable revert reason when one was found.
type RemoteError struct {
	Op     string
	Reason string
	Err    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Reason)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remote(op string, err error) error {
	return &RemoteError{Op: op, Reason: contract.RevertReason(err), Err: err}
}

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	var validationErr *ValidationError
	var remoteErr *RemoteError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr), errors.Is(err, ErrUnknownAction):
		return KindValidation
	case errors.Is(err, ErrProductNotFound):
		return KindNotFound
	case errors.As(err, &remoteErr):
		return KindRemote
	case errors.Is(err, ErrNotLoaded),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, wallet.ErrNoProvider),
		errors.Is(err, wallet.ErrAccessDenied),
		errors.Is(err, wallet.ErrNoAccounts),
		errors.Is(err, contract.ErrNotDeployed):
		return KindEnvironment
	default:
		return KindInternal
	}
}
