package entity

// Status enums for the five ledger entities. Every status change in the
// service layer goes through CanTransition; callers never invent transitions.

type JobStatus string

const (
	JobOpen      JobStatus = "OPEN"
	JobHiring    JobStatus = "HIRING"
	JobActive    JobStatus = "ACTIVE"
	JobClosed    JobStatus = "CLOSED"
	JobCancelled JobStatus = "CANCELLED"
)

type BidStatus string

const (
	BidPending   BidStatus = "PENDING"
	BidAccepted  BidStatus = "ACCEPTED"
	BidRejected  BidStatus = "REJECTED"
	BidWithdrawn BidStatus = "WITHDRAWN"
)

type ProjectStatus string

const (
	ProjectActive         ProjectStatus = "ACTIVE"
	ProjectPendingPayment ProjectStatus = "PENDING_PAYMENT"
	ProjectCompleted      ProjectStatus = "COMPLETED"
	ProjectCancelled      ProjectStatus = "CANCELLED"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	MethodKhalti PaymentMethod = "KHALTI"
	MethodESewa  PaymentMethod = "ESEWA"
	MethodBank   PaymentMethod = "BANK"
	MethodCard   PaymentMethod = "CARD"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobOpen:   {JobHiring, JobClosed, JobCancelled},
	JobHiring: {JobOpen, JobClosed, JobCancelled},
	JobActive: {JobClosed, JobCancelled},
}

var bidTransitions = map[BidStatus][]BidStatus{
	BidPending: {BidAccepted, BidRejected, BidWithdrawn},
}

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectActive:         {ProjectPendingPayment, ProjectCancelled},
	ProjectPendingPayment: {ProjectCompleted, ProjectActive, ProjectCancelled},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoicePending: {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue: {InvoicePaid, InvoiceCancelled},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentInitiated, PaymentSuccess, PaymentFailed},
	PaymentInitiated: {PaymentSuccess, PaymentFailed},
	PaymentSuccess:   {PaymentRefunded},
}

func (s JobStatus) CanTransition(to JobStatus) bool {
	return contains(jobTransitions[s], to)
}

func (s BidStatus) CanTransition(to BidStatus) bool {
	return contains(bidTransitions[s], to)
}

func (s ProjectStatus) CanTransition(to ProjectStatus) bool {
	return contains(projectTransitions[s], to)
}

func (s InvoiceStatus) CanTransition(to InvoiceStatus) bool {
	return contains(invoiceTransitions[s], to)
}

func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	return contains(paymentTransitions[s], to)
}

// Terminal reports whether no further transition is possible from s.
func (s BidStatus) Terminal() bool {
	return len(bidTransitions[s]) == 0
}

func (s PaymentStatus) Terminal() bool {
	return len(paymentTransitions[s]) == 0
}

func contains[T comparable](xs []T, x T) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}

	return false
}
