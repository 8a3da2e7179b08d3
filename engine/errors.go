package engine

import "errors"

// Every error aborts the whole instruction; no partial state change is ever
// committed. Callers match with errors.Is.
var (
	// ErrAlreadyInitialized is returned when the target record already exists.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrInvalidFee is returned when the configured fee exceeds 10000 bps.
	ErrInvalidFee = errors.New("invalid fee")

	// ErrPolicyViolation is returned when the pool does not match the configured pool.
	ErrPolicyViolation = errors.New("policy violation")

	// ErrZeroLiquidity is returned when the AMM credited no liquidity.
	ErrZeroLiquidity = errors.New("zero liquidity")

	// ErrLiquidityTooSmall is returned when the schedule invariant cannot be satisfied.
	ErrLiquidityTooSmall = errors.New("liquidity too small")

	// ErrDuplicateVestingID is returned when a vesting identity is reused.
	ErrDuplicateVestingID = errors.New("duplicate vesting id")

	// ErrUnauthorized is returned when the caller is not the lock owner.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNothingVested is returned when no liquidity is eligible at the current point.
	ErrNothingVested = errors.New("nothing vested")

	// ErrExternalInvariantViolation is returned when the AMM reports a value
	// inconsistent with the engine's bookkeeping.
	ErrExternalInvariantViolation = errors.New("external invariant violation")

	// ErrExternalProgramError wraps an opaque failure forwarded verbatim from the AMM.
	ErrExternalProgramError = errors.New("external program error")

	// ErrInsufficientFunds is returned when the AMM reports the owner cannot cover the deposit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLockNotFound is returned when no LockAccount exists at the given address.
	ErrLockNotFound = errors.New("lock account not found")
)

// external classifies an AMM failure: the typed kinds of the instruction
// surface pass through untouched, anything else is forwarded as an opaque
// external program error.
func external(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrDuplicateVestingID),
		errors.Is(err, ErrNothingVested),
		errors.Is(err, ErrExternalProgramError):
		return err
	default:
		return errors.Join(ErrExternalProgramError, err)
	}
}
