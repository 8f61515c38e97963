package service

import (
	"context"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/gateway"
	"sajilokaam-api/internal/repo"

	"go.uber.org/zap"
)

type Diagnostics interface {
	Ping() error
}

type Job interface {
	CreateJob(ctx context.Context, input *entity.CreateJobInput) (*entity.JobOutputModel, error)
	GetJobById(ctx context.Context, jobId string) (*entity.JobOutputModel, error)
	ListJobs(ctx context.Context, filter *entity.JobFilter, pg *entity.PaginationInput) ([]entity.JobOutputModel, error)
	UpdateJobStatus(ctx context.Context, jobId, callerId string, newStatus entity.JobStatus) (*entity.JobOutputModel, error)
}

type Bid interface {
	SubmitBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetJobBids(ctx context.Context, jobId, callerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	GetUserBids(ctx context.Context, callerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	WithdrawBid(ctx context.Context, bidId, callerId string) (*entity.BidOutputModel, error)
	// AcceptBid converts the bid into a project: the bid becomes ACCEPTED,
	// sibling PENDING bids REJECTED, the job CLOSED and the project created,
	// all in one atomic commit.
	AcceptBid(ctx context.Context, bidId, callerId, projectTitle, projectDescription string) (*entity.ProjectOutputModel, error)
}

type Project interface {
	GetProjectById(ctx context.Context, projectId, callerId string) (*entity.ProjectOutputModel, error)
	ListProjects(ctx context.Context, callerId string, pg *entity.PaginationInput) ([]entity.ProjectOutputModel, error)
	UpdateProjectStatus(ctx context.Context, projectId, callerId string, newStatus entity.ProjectStatus) (*entity.ProjectOutputModel, error)
}

type Invoice interface {
	IssueInvoice(ctx context.Context, projectId, callerId string, amount float64, dueDate string) (*entity.InvoiceOutputModel, error)
	GetInvoiceById(ctx context.Context, invoiceId, callerId string) (*entity.InvoiceOutputModel, error)
	GetProjectInvoices(ctx context.Context, projectId, callerId string, pg *entity.PaginationInput) ([]entity.InvoiceOutputModel, error)
	CancelInvoice(ctx context.Context, invoiceId, callerId string) (*entity.InvoiceOutputModel, error)
	MarkOverdue(ctx context.Context) (int64, error)
}

type Payment interface {
	CreatePayment(ctx context.Context, invoiceId, callerId string, method entity.PaymentMethod) (*entity.PaymentOutputModel, error)
	InitiatePayment(ctx context.Context, paymentId, callerId, returnUrl, cancelUrl string) (*InitiationOutput, error)
	// Verify reconciles a payment attempt against the provider's record.
	// It never errors for "not yet verified"; callers poll on verified=false.
	Verify(ctx context.Context, transactionId string) (*VerificationOutput, error)
	HandleESewaCallback(ctx context.Context, fields map[string]string) (*VerificationOutput, error)
}

type Services struct {
	Diagnostics Diagnostics
	Job         Job
	Bid         Bid
	Project     Project
	Invoice     Invoice
	Payment     Payment
}

type Deps struct {
	Repos    *repo.Repositories
	Gateways *gateway.Registry
	Events   EventSink
	Log      *zap.Logger
}

func NewServices(deps Deps) *Services {
	if deps.Events == nil {
		deps.Events = noopSink{}
	}

	return &Services{
		Diagnostics: NewDiagnosticsService(deps.Repos),
		Job:         NewJobService(deps.Repos),
		Bid:         NewBidService(deps.Repos, deps.Events, deps.Log),
		Project:     NewProjectService(deps.Repos),
		Invoice:     NewInvoiceService(deps.Repos, deps.Events),
		Payment:     NewPaymentService(deps.Repos, deps.Gateways, deps.Events, deps.Log),
	}
}
