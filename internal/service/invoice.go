package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/repo"
	"sajilokaam-api/internal/repo/repoerrs"

	"github.com/google/uuid"
)

type InvoiceService struct {
	invoiceRepo repo.Invoice
	projectRepo repo.Project
	events      EventSink
	now         func() time.Time
}

func NewInvoiceService(repos *repo.Repositories, events EventSink) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: repos.Invoice,
		projectRepo: repos.Project,
		events:      events,
		now:         time.Now,
	}
}

func (s *InvoiceService) IssueInvoice(ctx context.Context, projectId, callerId string, amount float64, dueDate string) (*entity.InvoiceOutputModel, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if _, err := time.Parse(time.RFC3339, dueDate); err != nil {
		return nil, ErrInvalidDate
	}

	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if !isParticipant(project, callerId) {
		return nil, ErrNotProjectParticipant
	}

	if project.Status == entity.ProjectCancelled {
		return nil, ErrProjectCancelled
	}

	number, err := s.nextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	input := &entity.CreateInvoiceInput{
		ProjectId:     projectId,
		InvoiceNumber: number,
		TotalAmount:   amount,
		DueDate:       dueDate,
		Status:        entity.InvoicePending,
	}

	id, err := s.invoiceRepo.CreateInvoice(ctx, input)
	if errors.Is(err, repoerrs.ErrConflict) {
		// two issuers raced to the same sequence number; fall back to a
		// uuid-derived suffix, which cannot collide
		input.InvoiceNumber = s.monthPrefix() + "-" + strings.ToUpper(uuid.NewString()[:8])
		id, err = s.invoiceRepo.CreateInvoice(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetInvoiceById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, Event{
		Name:     EventInvoiceIssued,
		EntityId: id.String(),
		Fields: map[string]string{
			"project_id":     projectId,
			"invoice_number": invoice.InvoiceNumber,
		},
	})

	return mapInvoice(invoice), nil
}

func (s *InvoiceService) monthPrefix() string {
	return "INV-" + s.now().Format("200601")
}

// nextInvoiceNumber continues the month's sequence: INV-yyyyMM-0001,
// INV-yyyyMM-0002, ...
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context) (string, error) {
	prefix := s.monthPrefix()

	latest, err := s.invoiceRepo.LatestInvoiceNumber(ctx, prefix)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return fmt.Sprintf("%s-%04d", prefix, 1), nil
		}

		return "", err
	}

	next := 1
	if suffix, ok := strings.CutPrefix(latest, prefix+"-"); ok {
		if n, err := strconv.Atoi(suffix); err == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s-%04d", prefix, next), nil
}

func (s *InvoiceService) GetInvoiceById(ctx context.Context, invoiceId, callerId string) (*entity.InvoiceOutputModel, error) {
	invoice, project, err := s.loadInvoiceWithProject(ctx, invoiceId)
	if err != nil {
		return nil, err
	}

	if !isParticipant(project, callerId) {
		return nil, ErrNotProjectParticipant
	}

	return mapInvoice(invoice), nil
}

func (s *InvoiceService) GetProjectInvoices(ctx context.Context, projectId, callerId string, pg *entity.PaginationInput) ([]entity.InvoiceOutputModel, error) {
	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if !isParticipant(project, callerId) {
		return nil, ErrNotProjectParticipant
	}

	invoices, err := s.invoiceRepo.GetProjectInvoices(ctx, projectId, pg)
	if err != nil {
		return nil, err
	}

	return mapInvoices(invoices), nil
}

// CancelInvoice is the administrative escape hatch; only the paying side may
// use it, and only while the invoice is still open.
func (s *InvoiceService) CancelInvoice(ctx context.Context, invoiceId, callerId string) (*entity.InvoiceOutputModel, error) {
	invoice, project, err := s.loadInvoiceWithProject(ctx, invoiceId)
	if err != nil {
		return nil, err
	}

	if project.ClientId.String() != callerId {
		return nil, ErrNotProjectClient
	}

	if !invoice.Status.CanTransition(entity.InvoiceCancelled) {
		return nil, ErrInvoiceNotOpen
	}

	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceId, invoice.Status, entity.InvoiceCancelled); err != nil {
		if errors.Is(err, repoerrs.ErrConflict) {
			return nil, ErrInvoiceNotOpen
		}

		return nil, err
	}

	invoice, err = s.invoiceRepo.GetInvoiceById(ctx, invoiceId)
	if err != nil {
		return nil, err
	}

	return mapInvoice(invoice), nil
}

func (s *InvoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	return s.invoiceRepo.MarkInvoicesOverdue(ctx, s.now())
}

func (s *InvoiceService) loadInvoiceWithProject(ctx context.Context, invoiceId string) (*entity.Invoice, *entity.Project, error) {
	invoice, err := s.invoiceRepo.GetInvoiceById(ctx, invoiceId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, nil, ErrInvoiceNotFound
		}

		return nil, nil, err
	}

	project, err := s.projectRepo.GetProjectById(ctx, invoice.ProjectId.String())
	if err != nil {
		return nil, nil, err
	}

	return invoice, project, nil
}
