package treasury

import "errors"

var (
	// ErrUnauthorized indicates the caller is not the pool authority.
	ErrUnauthorized = errors.New("treasury: only authority can perform this action")

	// ErrTooManyRecipients indicates a distribution batch above the cap.
	ErrTooManyRecipients = errors.New("treasury: too many recipients")

	// ErrRecipientMismatch indicates amounts and recipients differ in length.
	ErrRecipientMismatch = errors.New("treasury: recipients and amounts length mismatch")

	// ErrTreasuryRecipient indicates a batch entry that pays the treasury itself.
	ErrTreasuryRecipient = errors.New("treasury: treasury cannot be a recipient")

	// ErrZeroAmount indicates a deposit of zero tokens.
	ErrZeroAmount = errors.New("treasury: cannot deposit zero tokens")

	// ErrOverflow indicates a counter or batch sum exceeded its maximum value.
	ErrOverflow = errors.New("treasury: arithmetic overflow")

	// ErrTransferFailed indicates the token ledger rejected a transfer.
	ErrTransferFailed = errors.New("treasury: transfer failed")

	// ErrAlreadyExists indicates a pool already exists for the token mint.
	ErrAlreadyExists = errors.New("treasury: pool already exists")

	// ErrPoolNotFound indicates no pool exists for the token mint.
	ErrPoolNotFound = errors.New("treasury: pool not found")

	// ErrNoPendingAuthority indicates AcceptAuthority without a matching proposal.
	ErrNoPendingAuthority = errors.New("treasury: no pending authority")

	// ErrInvalidAuthority indicates the zero identity was given as an authority.
	ErrInvalidAuthority = errors.New("treasury: invalid authority")
)

// Kind classifies an engine error for callers that decide whether to retry.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthorization
	KindValidation
	KindArithmetic
	KindTransfer
	KindState
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindAuthorization: "authorization",
	KindValidation:    "validation",
	KindArithmetic:    "arithmetic",
	KindTransfer:      "transfer",
	KindState:         "state",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindOf returns the kind of err, or KindUnknown when err is nil or foreign.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnauthorized):
		return KindAuthorization
	case errors.Is(err, ErrTooManyRecipients),
		errors.Is(err, ErrRecipientMismatch),
		errors.Is(err, ErrTreasuryRecipient),
		errors.Is(err, ErrZeroAmount),
		errors.Is(err, ErrInvalidAuthority):
		return KindValidation
	case errors.Is(err, ErrOverflow):
		return KindArithmetic
	case errors.Is(err, ErrTransferFailed):
		return KindTransfer
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrPoolNotFound),
		errors.Is(err, ErrNoPendingAuthority):
		return KindState
	default:
		return KindUnknown
	}
}

// Retryable reports whether the same call may succeed later. Only transfer
// failures qualify: the call was rolled back and the cause (for example an
// underfunded treasury) can change.
func Retryable(err error) bool {
	return KindOf(err) == KindTransfer
}
