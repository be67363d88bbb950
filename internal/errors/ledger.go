package errors

const (
	CodeNotFound             = "NOT_FOUND"
	CodeForbidden            = "FORBIDDEN"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeDepositLimitExceeded = "DEPOSIT_LIMIT_EXCEEDED"
	CodeIntegrity            = "INTEGRITY_ERROR"
	CodeTransferFailed       = "TRANSFER_FAILED"
)

var (
	// ErrNotFound covers a missing job, an already paid job and a caller who
	// is not the contract's client alike.
	ErrNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "not found",
	}
	ErrForbidden = &DomainError{
		Code:    CodeForbidden,
		Message: "deposits are only allowed into your own balance",
	}
	ErrInvalidAmount = &DomainError{
		Code:    CodeInvalidAmount,
		Message: "amount must be a positive integer",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    CodeInsufficientFunds,
		Message: "insufficient funds to pay for this job",
	}
	ErrDepositLimitExceeded = &DomainError{
		Code:    CodeDepositLimitExceeded,
		Message: "deposit exceeds 25% of outstanding jobs to pay",
	}
	ErrIntegrity = &DomainError{
		Code:    CodeIntegrity,
		Message: "ledger integrity violation",
	}
	ErrTransferFailed = &DomainError{
		Code:    CodeTransferFailed,
		Message: "the transfer could not be completed, please try again",
	}
)
