// Package mysaveconst holds constants shared between the MySave contract and
// its off-chain users.
package mysaveconst

const (
	// ErrZeroAmount is thrown when a deposit or a token withdrawal is
	// requested for a non-positive amount.
	ErrZeroAmount = "zero amount"
	// ErrNoSavings is thrown when a withdrawal is requested by a user with
	// zero balance of the requested asset.
	ErrNoSavings = "no savings"
	// ErrInsufficientSavings is thrown when a token withdrawal exceeds the
	// user balance.
	ErrInsufficientSavings = "insufficient savings"
	// ErrTransferFailed is thrown when GAS or SignorToken refuses to move
	// assets on behalf of the contract.
	ErrTransferFailed = "external transfer failed"
	// ErrUnsupportedAsset is logged before aborting a payment from any
	// contract other than GAS or the configured token.
	ErrUnsupportedAsset = "unsupported asset"

	// SavingSuccessfulEvent is emitted on every successful deposit.
	SavingSuccessfulEvent = "SavingSuccessful"
	// WithdrawSuccessfulEvent is emitted on every successful withdrawal.
	WithdrawSuccessfulEvent = "WithdrawSuccessful"
)
