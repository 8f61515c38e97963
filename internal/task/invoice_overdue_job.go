package task

import (
	"context"
	"time"

	"sajilokaam-api/internal/service"

	"go.uber.org/zap"
)

// InvoiceOverdueJob flips PENDING invoices past their due date to OVERDUE.
// Overdue invoices remain payable; the flag exists for reporting and
// reminders.
type InvoiceOverdueJob struct {
	invoices service.Invoice
	log      *zap.Logger
}

func NewInvoiceOverdueJob(invoices service.Invoice, log *zap.Logger) *InvoiceOverdueJob {
	return &InvoiceOverdueJob{invoices: invoices, log: log}
}

func (j *InvoiceOverdueJob) Name() string {
	return "invoice-overdue-scan"
}

func (j *InvoiceOverdueJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	marked, err := j.invoices.MarkOverdue(ctx)
	if err != nil {
		j.log.Error("overdue scan failed", zap.Error(err))

		return
	}

	if marked > 0 {
		j.log.Info("invoices marked overdue", zap.Int64("count", marked))
	}
}
