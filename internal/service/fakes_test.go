package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/gateway"
	"sajilokaam-api/internal/repo"
	"sajilokaam-api/internal/repo/repoerrs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore is an in-memory stand-in for the pgdb repositories. One mutex
// guards every map so the multi-write operations (AcceptBid, SettlePayment)
// behave like the single database commit they replace.
type memStore struct {
	mu       sync.Mutex
	jobs     map[string]*entity.Job
	bids     map[string]*entity.Bid
	projects map[string]*entity.Project
	invoices map[string]*entity.Invoice
	payments map[string]*entity.Payment
}

func newMemStore() *memStore {
	return &memStore{
		jobs:     make(map[string]*entity.Job),
		bids:     make(map[string]*entity.Bid),
		projects: make(map[string]*entity.Project),
		invoices: make(map[string]*entity.Invoice),
		payments: make(map[string]*entity.Payment),
	}
}

func (s *memStore) repositories() *repo.Repositories {
	return &repo.Repositories{
		Diagnostics: s,
		Job:         s,
		Bid:         s,
		Project:     s,
		Invoice:     s,
		Payment:     s,
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *memStore) Ping() error { return nil }

func (s *memStore) CreateJob(_ context.Context, input *entity.CreateJobInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.jobs[id.String()] = &entity.Job{
		Id:          id,
		ClientId:    uuid.MustParse(input.ClientId),
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		BudgetType:  entity.BudgetType(input.BudgetType),
		Deadline:    input.Deadline,
		Status:      input.Status,
		CreatedAt:   nowStamp(),
	}

	return id, nil
}

func (s *memStore) GetJobById(_ context.Context, id string) (*entity.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, repoerrs.ErrNotFound
	}
	copied := *job

	return &copied, nil
}

func (s *memStore) ListJobs(_ context.Context, filter *entity.JobFilter, _ *entity.PaginationInput) ([]entity.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]entity.Job, 0)
	for _, job := range s.jobs {
		if filter != nil && filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter != nil && filter.ClientId != "" && job.ClientId.String() != filter.ClientId {
			continue
		}
		jobs = append(jobs, *job)
	}

	return jobs, nil
}

func (s *memStore) UpdateJobStatus(_ context.Context, id string, expected, next entity.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.Status != expected {
		return repoerrs.ErrConflict
	}
	job.Status = next

	return nil
}

func (s *memStore) CreateBid(_ context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.bids[id.String()] = &entity.Bid{
		Id:                      id,
		JobId:                   uuid.MustParse(input.JobId),
		FreelancerId:            uuid.MustParse(input.FreelancerId),
		Amount:                  input.Amount,
		Proposal:                input.Proposal,
		EstimatedCompletionDate: input.EstimatedCompletionDate,
		Status:                  input.Status,
		CreatedAt:               nowStamp(),
	}

	return id, nil
}

func (s *memStore) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bid, ok := s.bids[id]
	if !ok {
		return nil, repoerrs.ErrNotFound
	}
	copied := *bid

	return &copied, nil
}

func (s *memStore) GetJobBids(_ context.Context, jobId string, _ *entity.PaginationInput) ([]entity.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bids := make([]entity.Bid, 0)
	for _, bid := range s.bids {
		if bid.JobId.String() == jobId {
			bids = append(bids, *bid)
		}
	}

	return bids, nil
}

func (s *memStore) GetUserBids(_ context.Context, freelancerId string, _ *entity.PaginationInput) ([]entity.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bids := make([]entity.Bid, 0)
	for _, bid := range s.bids {
		if bid.FreelancerId.String() == freelancerId {
			bids = append(bids, *bid)
		}
	}

	return bids, nil
}

func (s *memStore) UpdateBidStatus(_ context.Context, id string, expected, next entity.BidStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bid, ok := s.bids[id]
	if !ok || bid.Status != expected {
		return repoerrs.ErrConflict
	}
	bid.Status = next

	return nil
}

// AcceptBid mirrors the pgdb transaction: every guard is re-checked under
// the lock and either all four writes happen or none do.
func (s *memStore) AcceptBid(_ context.Context, input *entity.AcceptBidInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[input.JobId.String()]
	if !ok || (job.Status != entity.JobOpen && job.Status != entity.JobHiring) {
		return uuid.Nil, repoerrs.ErrConflict
	}
	bid, ok := s.bids[input.BidId.String()]
	if !ok || bid.Status != entity.BidPending {
		return uuid.Nil, repoerrs.ErrConflict
	}

	bid.Status = entity.BidAccepted
	job.Status = entity.JobClosed
	for _, sibling := range s.bids {
		if sibling.JobId == input.JobId && sibling.Id != input.BidId && sibling.Status == entity.BidPending {
			sibling.Status = entity.BidRejected
		}
	}

	id := uuid.New()
	s.projects[id.String()] = &entity.Project{
		Id:           id,
		JobId:        input.JobId,
		ClientId:     input.ClientId,
		FreelancerId: input.FreelancerId,
		Title:        input.ProjectTitle,
		Description:  input.ProjectDescription,
		Budget:       input.Budget,
		Status:       entity.ProjectActive,
		CreatedAt:    nowStamp(),
	}

	return id, nil
}

func (s *memStore) GetProjectById(_ context.Context, id string) (*entity.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, repoerrs.ErrNotFound
	}
	copied := *project

	return &copied, nil
}

func (s *memStore) ListProjects(_ context.Context, filter *entity.ProjectFilter, _ *entity.PaginationInput) ([]entity.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := make([]entity.Project, 0)
	for _, project := range s.projects {
		if filter != nil && filter.ParticipantId != "" &&
			project.ClientId.String() != filter.ParticipantId &&
			project.FreelancerId.String() != filter.ParticipantId {
			continue
		}
		if filter != nil && filter.Status != "" && project.Status != filter.Status {
			continue
		}
		projects = append(projects, *project)
	}

	return projects, nil
}

func (s *memStore) UpdateProjectStatus(_ context.Context, id string, expected, next entity.ProjectStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok || project.Status != expected {
		return repoerrs.ErrConflict
	}
	project.Status = next

	return nil
}

func (s *memStore) CreateInvoice(_ context.Context, input *entity.CreateInvoiceInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, invoice := range s.invoices {
		if invoice.InvoiceNumber == input.InvoiceNumber {
			return uuid.Nil, repoerrs.ErrConflict
		}
	}

	id := uuid.New()
	s.invoices[id.String()] = &entity.Invoice{
		Id:            id,
		ProjectId:     uuid.MustParse(input.ProjectId),
		InvoiceNumber: input.InvoiceNumber,
		TotalAmount:   input.TotalAmount,
		Status:        input.Status,
		DueDate:       input.DueDate,
		CreatedAt:     nowStamp(),
	}

	return id, nil
}

func (s *memStore) GetInvoiceById(_ context.Context, id string) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, ok := s.invoices[id]
	if !ok {
		return nil, repoerrs.ErrNotFound
	}
	copied := *invoice

	return &copied, nil
}

func (s *memStore) GetProjectInvoices(_ context.Context, projectId string, _ *entity.PaginationInput) ([]entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoices := make([]entity.Invoice, 0)
	for _, invoice := range s.invoices {
		if invoice.ProjectId.String() == projectId {
			invoices = append(invoices, *invoice)
		}
	}

	return invoices, nil
}

func (s *memStore) LatestInvoiceNumber(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := ""
	for _, invoice := range s.invoices {
		if strings.HasPrefix(invoice.InvoiceNumber, prefix) && invoice.InvoiceNumber > latest {
			latest = invoice.InvoiceNumber
		}
	}
	if latest == "" {
		return "", repoerrs.ErrNotFound
	}

	return latest, nil
}

func (s *memStore) UpdateInvoiceStatus(_ context.Context, id string, expected, next entity.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, ok := s.invoices[id]
	if !ok || invoice.Status != expected {
		return repoerrs.ErrConflict
	}
	invoice.Status = next

	return nil
}

func (s *memStore) MarkInvoicesOverdue(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flipped int64
	for _, invoice := range s.invoices {
		if invoice.Status != entity.InvoicePending {
			continue
		}
		due, err := time.Parse(time.RFC3339, invoice.DueDate)
		if err != nil {
			continue
		}
		if due.Before(now) {
			invoice.Status = entity.InvoiceOverdue
			flipped++
		}
	}

	return flipped, nil
}

func (s *memStore) CreatePayment(_ context.Context, input *entity.CreatePaymentInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.payments[id.String()] = &entity.Payment{
		Id:        id,
		InvoiceId: uuid.MustParse(input.InvoiceId),
		Amount:    input.Amount,
		Method:    input.Method,
		Status:    input.Status,
		CreatedAt: nowStamp(),
	}

	return id, nil
}

func (s *memStore) GetPaymentById(_ context.Context, id string) (*entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, repoerrs.ErrNotFound
	}
	copied := *payment

	return &copied, nil
}

func (s *memStore) GetPaymentByTransactionId(_ context.Context, transactionId string) (*entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, payment := range s.payments {
		if payment.GatewayTransactionId != "" && payment.GatewayTransactionId == transactionId {
			copied := *payment

			return &copied, nil
		}
	}

	return nil, repoerrs.ErrNotFound
}

func (s *memStore) GetInvoicePayments(_ context.Context, invoiceId string) ([]entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := make([]entity.Payment, 0)
	for _, payment := range s.payments {
		if payment.InvoiceId.String() == invoiceId {
			payments = append(payments, *payment)
		}
	}

	return payments, nil
}

func (s *memStore) UpdatePaymentStatus(_ context.Context, id string, expected, next entity.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok || payment.Status != expected {
		return repoerrs.ErrConflict
	}
	payment.Status = next

	return nil
}

func (s *memStore) MarkInitiated(_ context.Context, id string, transactionId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok || payment.Status != entity.PaymentPending {
		return repoerrs.ErrConflict
	}
	payment.Status = entity.PaymentInitiated
	payment.GatewayTransactionId = transactionId

	return nil
}

// SettlePayment mirrors the pgdb settle transaction: both flips guarded,
// both applied or neither.
func (s *memStore) SettlePayment(_ context.Context, paymentId, invoiceId uuid.UUID, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[paymentId.String()]
	if !ok || (payment.Status != entity.PaymentInitiated && payment.Status != entity.PaymentPending) {
		return repoerrs.ErrConflict
	}
	invoice, ok := s.invoices[invoiceId.String()]
	if !ok || (invoice.Status != entity.InvoicePending && invoice.Status != entity.InvoiceOverdue) {
		return repoerrs.ErrConflict
	}

	payment.Status = entity.PaymentSuccess
	invoice.Status = entity.InvoicePaid
	invoice.PaidAt = paidAt.UTC().Format(time.RFC3339)

	return nil
}

// fakeGateway is a scriptable provider adapter.
type fakeGateway struct {
	mu            sync.Mutex
	method        entity.PaymentMethod
	initiateErr   error
	verifyErr     error
	verified      bool
	callbackOK    bool
	initiateCalls int
	verifyCalls   int
}

func (g *fakeGateway) Method() entity.PaymentMethod { return g.method }

func (g *fakeGateway) Initiate(_ context.Context, req *gateway.InitiateRequest) (*gateway.InitiateResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.initiateCalls++
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}

	return &gateway.InitiateResult{
		TransactionID: req.TransactionID,
		Redirect:      &gateway.RedirectCheckout{PaymentURL: "https://pay.example/" + req.TransactionID},
	}, nil
}

func (g *fakeGateway) Verify(_ context.Context, _ string, _ float64) (*gateway.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.verifyCalls++
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}

	return &gateway.VerifyResult{Verified: g.verified, GatewayRef: "ref-1"}, nil
}

func (g *fakeGateway) VerifyCallback(map[string]string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.callbackOK
}

// recordingSink captures emitted domain events.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) byName(name string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Event, 0)
	for _, e := range s.events {
		if e.Name == name {
			matched = append(matched, e)
		}
	}

	return matched
}

type testEnv struct {
	store    *memStore
	khalti   *fakeGateway
	esewa    *fakeGateway
	sink     *recordingSink
	services *Services
}

func newTestEnv() *testEnv {
	store := newMemStore()
	khalti := &fakeGateway{method: entity.MethodKhalti, verified: true, callbackOK: true}
	esewa := &fakeGateway{method: entity.MethodESewa, verified: true, callbackOK: true}
	sink := &recordingSink{}

	services := NewServices(Deps{
		Repos:    store.repositories(),
		Gateways: gateway.NewRegistry(khalti, esewa),
		Events:   sink,
		Log:      zap.NewNop(),
	})

	return &testEnv{
		store:    store,
		khalti:   khalti,
		esewa:    esewa,
		sink:     sink,
		services: services,
	}
}

// seed helpers

func seedJob(store *memStore, clientId uuid.UUID, status entity.JobStatus) *entity.Job {
	id := uuid.New()
	job := &entity.Job{
		Id:         id,
		ClientId:   clientId,
		Title:      "Build a storefront",
		Budget:     50000,
		BudgetType: entity.BudgetFixed,
		Deadline:   time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
		Status:     status,
		CreatedAt:  nowStamp(),
	}
	store.mu.Lock()
	store.jobs[id.String()] = job
	store.mu.Unlock()

	return job
}

func seedBid(store *memStore, jobId, freelancerId uuid.UUID, status entity.BidStatus) *entity.Bid {
	id := uuid.New()
	bid := &entity.Bid{
		Id:                      id,
		JobId:                   jobId,
		FreelancerId:            freelancerId,
		Amount:                  42000,
		Proposal:                "I can deliver this",
		EstimatedCompletionDate: time.Now().Add(20 * 24 * time.Hour).Format(time.RFC3339),
		Status:                  status,
		CreatedAt:               nowStamp(),
	}
	store.mu.Lock()
	store.bids[id.String()] = bid
	store.mu.Unlock()

	return bid
}

func seedProject(store *memStore, clientId, freelancerId uuid.UUID, status entity.ProjectStatus) *entity.Project {
	id := uuid.New()
	project := &entity.Project{
		Id:           id,
		JobId:        uuid.New(),
		ClientId:     clientId,
		FreelancerId: freelancerId,
		Title:        "Storefront build",
		Budget:       42000,
		Status:       status,
		CreatedAt:    nowStamp(),
	}
	store.mu.Lock()
	store.projects[id.String()] = project
	store.mu.Unlock()

	return project
}

func seedInvoice(store *memStore, projectId uuid.UUID, number string, status entity.InvoiceStatus, dueDate time.Time) *entity.Invoice {
	id := uuid.New()
	invoice := &entity.Invoice{
		Id:            id,
		ProjectId:     projectId,
		InvoiceNumber: number,
		TotalAmount:   42000,
		Status:        status,
		DueDate:       dueDate.UTC().Format(time.RFC3339),
		CreatedAt:     nowStamp(),
	}
	store.mu.Lock()
	store.invoices[id.String()] = invoice
	store.mu.Unlock()

	return invoice
}

func seedPayment(store *memStore, invoiceId uuid.UUID, method entity.PaymentMethod, status entity.PaymentStatus, transactionId string) *entity.Payment {
	id := uuid.New()
	payment := &entity.Payment{
		Id:                   id,
		InvoiceId:            invoiceId,
		Amount:               42000,
		Method:               method,
		Status:               status,
		GatewayTransactionId: transactionId,
		CreatedAt:            nowStamp(),
	}
	store.mu.Lock()
	store.payments[id.String()] = payment
	store.mu.Unlock()

	return payment
}
