package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/gateway"
	"sajilokaam-api/internal/repo"
	"sajilokaam-api/internal/repo/repoerrs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InitiationOutput struct {
	PaymentId     string                    `json:"paymentId"`
	TransactionId string                    `json:"transactionId"`
	Redirect      *gateway.RedirectCheckout `json:"redirect,omitempty"`
	Form          *gateway.FormCheckout     `json:"form,omitempty"`
}

type VerificationOutput struct {
	Verified  bool   `json:"verified"`
	InvoiceId string `json:"invoiceId"`
}

type PaymentService struct {
	paymentRepo repo.Payment
	invoiceRepo repo.Invoice
	projectRepo repo.Project
	gateways    *gateway.Registry
	events      EventSink
	log         *zap.Logger
	now         func() time.Time
}

// newTransactionRef builds the merchant-side transaction id handed to the
// gateway: a TXN- prefix over an uppercased uuid.
func newTransactionRef() string {
	return "TXN-" + strings.ToUpper(uuid.NewString())
}

func NewPaymentService(repos *repo.Repositories, gateways *gateway.Registry, events EventSink, log *zap.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo: repos.Payment,
		invoiceRepo: repos.Invoice,
		projectRepo: repos.Project,
		gateways:    gateways,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

// CreatePayment records a settlement attempt against an invoice. Retries
// after failures are just new payment rows; once any attempt reached
// SUCCESS the invoice is settled and no further attempts are accepted.
func (s *PaymentService) CreatePayment(ctx context.Context, invoiceId, callerId string, method entity.PaymentMethod) (*entity.PaymentOutputModel, error) {
	if _, ok := s.gateways.Get(method); !ok {
		return nil, ErrUnsupportedGateway
	}

	invoice, err := s.invoiceRepo.GetInvoiceById(ctx, invoiceId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}

		return nil, err
	}

	project, err := s.projectRepo.GetProjectById(ctx, invoice.ProjectId.String())
	if err != nil {
		return nil, err
	}

	if project.ClientId.String() != callerId {
		return nil, ErrNotProjectClient
	}

	if invoice.Status == entity.InvoicePaid {
		return nil, ErrInvoiceAlreadyPaid
	}
	if invoice.Status != entity.InvoicePending && invoice.Status != entity.InvoiceOverdue {
		return nil, ErrInvoiceNotPayable
	}

	attempts, err := s.paymentRepo.GetInvoicePayments(ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	for _, attempt := range attempts {
		if attempt.Status == entity.PaymentSuccess {
			return nil, ErrInvoiceAlreadyPaid
		}
	}

	id, err := s.paymentRepo.CreatePayment(ctx, &entity.CreatePaymentInput{
		InvoiceId: invoiceId,
		Amount:    invoice.TotalAmount,
		Method:    method,
		Status:    entity.PaymentPending,
	})
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetPaymentById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapPayment(payment), nil
}

// InitiatePayment hands the attempt to its gateway. The PENDING -> INITIATED
// flip happens only after the gateway call succeeded; a gateway failure of
// any kind (timeout included) leaves the payment PENDING and retryable.
func (s *PaymentService) InitiatePayment(ctx context.Context, paymentId, callerId, returnUrl, cancelUrl string) (*InitiationOutput, error) {
	payment, err := s.paymentRepo.GetPaymentById(ctx, paymentId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}

		return nil, err
	}

	invoice, err := s.invoiceRepo.GetInvoiceById(ctx, payment.InvoiceId.String())
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetProjectById(ctx, invoice.ProjectId.String())
	if err != nil {
		return nil, err
	}

	if project.ClientId.String() != callerId {
		return nil, ErrNotProjectClient
	}

	if payment.Status != entity.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	gw, ok := s.gateways.Get(payment.Method)
	if !ok {
		return nil, ErrUnsupportedGateway
	}

	result, err := gw.Initiate(ctx, &gateway.InitiateRequest{
		TransactionID: newTransactionRef(),
		Amount:        payment.Amount,
		ProductName:   "Invoice " + invoice.InvoiceNumber,
		ReturnURL:     returnUrl,
		CancelURL:     cancelUrl,
	})
	if err != nil {
		s.log.Warn("payment initiation failed",
			zap.String("payment_id", paymentId),
			zap.Error(err))

		return nil, err
	}

	if err := s.paymentRepo.MarkInitiated(ctx, paymentId, result.TransactionID); err != nil {
		if errors.Is(err, repoerrs.ErrConflict) {
			return nil, ErrPaymentNotPending
		}

		return nil, err
	}

	return &InitiationOutput{
		PaymentId:     paymentId,
		TransactionId: result.TransactionID,
		Redirect:      result.Redirect,
		Form:          result.Form,
	}, nil
}

// Verify reconciles the attempt against the provider's own record. The
// provider is authoritative: a client claiming success is never believed
// without this lookup. Replays of an already settled transaction observe
// SUCCESS and return verified without touching anything.
func (s *PaymentService) Verify(ctx context.Context, transactionId string) (*VerificationOutput, error) {
	if transactionId == "" {
		return nil, ErrMissingTransaction
	}

	payment, err := s.paymentRepo.GetPaymentByTransactionId(ctx, transactionId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}

		return nil, err
	}

	invoiceId := payment.InvoiceId.String()

	if payment.Status == entity.PaymentSuccess {
		return &VerificationOutput{Verified: true, InvoiceId: invoiceId}, nil
	}

	gw, ok := s.gateways.Get(payment.Method)
	if !ok {
		return nil, ErrUnsupportedGateway
	}

	result, err := gw.Verify(ctx, transactionId, payment.Amount)
	if err != nil {
		// the outcome is unknown, so nothing moves; the caller polls again
		s.log.Warn("payment verification unavailable",
			zap.String("transaction_id", transactionId),
			zap.Error(err))

		return &VerificationOutput{Verified: false, InvoiceId: invoiceId}, nil
	}

	if !result.Verified {
		if err := s.failPayment(ctx, payment); err != nil {
			return nil, err
		}

		return &VerificationOutput{Verified: false, InvoiceId: invoiceId}, nil
	}

	err = s.paymentRepo.SettlePayment(ctx, payment.Id, payment.InvoiceId, s.now())
	if err != nil {
		if errors.Is(err, repoerrs.ErrConflict) {
			// a concurrent reconciliation got there first; settled is settled
			current, err := s.paymentRepo.GetPaymentById(ctx, payment.Id.String())
			if err != nil {
				return nil, err
			}
			if current.Status == entity.PaymentSuccess {
				return &VerificationOutput{Verified: true, InvoiceId: invoiceId}, nil
			}

			return nil, ErrPaymentSettled
		}

		return nil, err
	}

	s.log.Info("payment settled",
		zap.String("payment_id", payment.Id.String()),
		zap.String("invoice_id", invoiceId),
		zap.String("transaction_id", transactionId))

	s.events.Publish(ctx, Event{
		Name:     EventPaymentSucceeded,
		EntityId: payment.Id.String(),
		Fields: map[string]string{
			"invoice_id":     invoiceId,
			"transaction_id": transactionId,
		},
	})

	return &VerificationOutput{Verified: true, InvoiceId: invoiceId}, nil
}

// HandleESewaCallback validates the callback signature against the shared
// secret and then still re-checks the transaction with the provider; the
// signed fields gate the request, they do not settle the payment.
func (s *PaymentService) HandleESewaCallback(ctx context.Context, fields map[string]string) (*VerificationOutput, error) {
	transactionId := fields["transaction_uuid"]
	if transactionId == "" {
		return nil, ErrMissingTransaction
	}

	gw, ok := s.gateways.Get(entity.MethodESewa)
	if !ok {
		return nil, ErrUnsupportedGateway
	}

	verifier, ok := gw.(gateway.CallbackVerifier)
	if !ok || !verifier.VerifyCallback(fields) {
		s.log.Warn("esewa callback rejected", zap.String("transaction_uuid", transactionId))

		return nil, ErrCallbackUnverified
	}

	return s.Verify(ctx, transactionId)
}

// failPayment marks a definitively unsuccessful attempt FAILED; the invoice
// stays open for a fresh attempt. Losing the guarded update to a concurrent
// reconciliation is fine either way.
func (s *PaymentService) failPayment(ctx context.Context, payment *entity.Payment) error {
	err := s.paymentRepo.UpdatePaymentStatus(ctx, payment.Id.String(), payment.Status, entity.PaymentFailed)
	if err != nil && !errors.Is(err, repoerrs.ErrConflict) {
		return err
	}

	return nil
}
