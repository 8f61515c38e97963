package repo

import (
	"context"
	"time"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/repo/pgdb"
	"sajilokaam-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type Job interface {
	CreateJob(ctx context.Context, input *entity.CreateJobInput) (uuid.UUID, error)
	GetJobById(ctx context.Context, id string) (*entity.Job, error)
	ListJobs(ctx context.Context, filter *entity.JobFilter, pg *entity.PaginationInput) ([]entity.Job, error)
	// UpdateJobStatus fails with repoerrs.ErrConflict when the stored status
	// differs from expected.
	UpdateJobStatus(ctx context.Context, id string, expected, next entity.JobStatus) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetJobBids(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetUserBids(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	UpdateBidStatus(ctx context.Context, id string, expected, next entity.BidStatus) error
}

type Project interface {
	// AcceptBid applies the whole acceptance transaction in one commit: the
	// winning bid becomes ACCEPTED, sibling PENDING bids REJECTED, the job
	// CLOSED, and the project row created. Any guard failing rolls the rest
	// back and surfaces repoerrs.ErrConflict.
	AcceptBid(ctx context.Context, input *entity.AcceptBidInput) (uuid.UUID, error)
	GetProjectById(ctx context.Context, id string) (*entity.Project, error)
	ListProjects(ctx context.Context, filter *entity.ProjectFilter, pg *entity.PaginationInput) ([]entity.Project, error)
	UpdateProjectStatus(ctx context.Context, id string, expected, next entity.ProjectStatus) error
}

type Invoice interface {
	CreateInvoice(ctx context.Context, input *entity.CreateInvoiceInput) (uuid.UUID, error)
	GetInvoiceById(ctx context.Context, id string) (*entity.Invoice, error)
	GetProjectInvoices(ctx context.Context, projectId string, pg *entity.PaginationInput) ([]entity.Invoice, error)
	// LatestInvoiceNumber returns the highest invoice number with the given
	// prefix, or repoerrs.ErrNotFound when none exists yet.
	LatestInvoiceNumber(ctx context.Context, prefix string) (string, error)
	UpdateInvoiceStatus(ctx context.Context, id string, expected, next entity.InvoiceStatus) error
	// MarkInvoicesOverdue flips PENDING invoices whose due date has passed.
	MarkInvoicesOverdue(ctx context.Context, now time.Time) (int64, error)
}

type Payment interface {
	CreatePayment(ctx context.Context, input *entity.CreatePaymentInput) (uuid.UUID, error)
	GetPaymentById(ctx context.Context, id string) (*entity.Payment, error)
	GetPaymentByTransactionId(ctx context.Context, transactionId string) (*entity.Payment, error)
	GetInvoicePayments(ctx context.Context, invoiceId string) ([]entity.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, expected, next entity.PaymentStatus) error
	// MarkInitiated stores the gateway transaction id together with the
	// PENDING -> INITIATED flip so a crash cannot leave one without the other.
	MarkInitiated(ctx context.Context, id string, transactionId string) error
	// SettlePayment flips the payment to SUCCESS and its invoice to PAID in a
	// single commit, both guarded by the expected prior statuses.
	SettlePayment(ctx context.Context, paymentId, invoiceId uuid.UUID, paidAt time.Time) error
}

type Repositories struct {
	Diagnostics
	Job
	Bid
	Project
	Invoice
	Payment
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Job:         pgdb.NewJobRepo(p),
		Bid:         pgdb.NewBidRepo(p),
		Project:     pgdb.NewProjectRepo(p),
		Invoice:     pgdb.NewInvoiceRepo(p),
		Payment:     pgdb.NewPaymentRepo(p),
	}
}
