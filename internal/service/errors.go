package service

import "errors"

// Sentinels are grouped by how the API boundary reports them: conflicts are
// "already processed, re-read and retry", validation failures reject the
// input before any store write, authorization failures are ownership/role
// problems. Gateway failures come through as *gateway.Error.

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

var (
	ErrJobNotAcceptingBids = errors.New("job is not accepting bids")
	ErrJobAlreadyClosed    = errors.New("job already closed")
	ErrBidNotPending       = errors.New("bid is not pending")
	ErrInvalidJobStatus    = errors.New("job status transition not allowed")
	ErrInvalidProjectState = errors.New("project status transition not allowed")
	ErrProjectCancelled    = errors.New("project is cancelled")
	ErrInvoiceNotPayable   = errors.New("invoice is not payable")
	ErrInvoiceAlreadyPaid  = errors.New("invoice already paid")
	ErrInvoiceNotOpen      = errors.New("invoice is not open")
	ErrPaymentNotPending   = errors.New("payment is not pending")
	ErrPaymentSettled      = errors.New("payment already settled")
)

var (
	ErrEmptyTitle         = errors.New("title must not be empty")
	ErrNonPositiveAmount  = errors.New("amount must be positive")
	ErrInvalidBudgetType  = errors.New("budget type must be FIXED or HOURLY")
	ErrInvalidDate        = errors.New("date is not a valid RFC3339 timestamp")
	ErrUnsupportedGateway = errors.New("no gateway adapter for this payment method")
	ErrMissingTransaction = errors.New("transaction id missing")
	ErrCallbackUnverified = errors.New("callback signature verification failed")
)

var (
	ErrNotJobOwner           = errors.New("caller is not the job's client")
	ErrBidOnOwnJob           = errors.New("client cannot bid on own job")
	ErrNotBidAuthor          = errors.New("caller is not the bid's author")
	ErrNotProjectParticipant = errors.New("caller is not a participant of the project")
	ErrNotProjectClient      = errors.New("only the project's client may do this")
	ErrNotProjectFreelancer  = errors.New("only the project's freelancer may do this")
)

var conflictErrs = []error{
	ErrJobNotAcceptingBids, ErrJobAlreadyClosed, ErrBidNotPending,
	ErrInvalidJobStatus, ErrInvalidProjectState, ErrProjectCancelled,
	ErrInvoiceNotPayable, ErrInvoiceAlreadyPaid, ErrInvoiceNotOpen,
	ErrPaymentNotPending, ErrPaymentSettled,
}

var validationErrs = []error{
	ErrEmptyTitle, ErrNonPositiveAmount, ErrInvalidBudgetType,
	ErrInvalidDate, ErrUnsupportedGateway, ErrMissingTransaction,
	ErrCallbackUnverified,
}

var authorizationErrs = []error{
	ErrNotJobOwner, ErrBidOnOwnJob, ErrNotBidAuthor,
	ErrNotProjectParticipant, ErrNotProjectClient, ErrNotProjectFreelancer,
}

var notFoundErrs = []error{
	ErrJobNotFound, ErrBidNotFound, ErrProjectNotFound,
	ErrInvoiceNotFound, ErrPaymentNotFound,
}

func IsConflict(err error) bool      { return matchesAny(err, conflictErrs) }
func IsValidation(err error) bool    { return matchesAny(err, validationErrs) }
func IsAuthorization(err error) bool { return matchesAny(err, authorizationErrs) }
func IsNotFound(err error) bool      { return matchesAny(err, notFoundErrs) }

func matchesAny(err error, group []error) bool {
	for _, target := range group {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
