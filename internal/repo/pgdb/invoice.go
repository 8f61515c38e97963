package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/repo/repoerrs"
	"sajilokaam-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type InvoiceRepo struct {
	*postgres.Postgres
}

func NewInvoiceRepo(pgdb *postgres.Postgres) *InvoiceRepo {
	return &InvoiceRepo{pgdb}
}

const invoiceColumns = "id, project_id, invoice_number, total_amount, status, due_date, paid_at, created_at"

func (r *InvoiceRepo) CreateInvoice(ctx context.Context, input *entity.CreateInvoiceInput) (uuid.UUID, error) {
	projectId, err := uuid.Parse(input.ProjectId)
	if err != nil {
		return uuid.Nil, err
	}

	createInvoiceReq, args, _ := r.SqlBuilder.
		Insert("invoice").
		Columns("project_id", "invoice_number", "total_amount", "status", "due_date").
		Values(projectId, input.InvoiceNumber, input.TotalAmount, input.Status, input.DueDate).
		Suffix("RETURNING id").
		ToSql()

	var invoiceId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createInvoiceReq, args...).Scan(&invoiceId); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, repoerrs.ErrConflict
		}

		return uuid.Nil, err
	}

	return invoiceId, nil
}

func (r *InvoiceRepo) GetInvoiceById(ctx context.Context, id string) (*entity.Invoice, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getInvoiceReq, args, _ := r.SqlBuilder.
		Select(invoiceColumns).
		From("invoice").
		Where("id = ?", uuidForm).
		ToSql()

	invoice, err := r.scanInvoice(r.Database.QueryRowContext(ctx, getInvoiceReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repoerrs.ErrNotFound
		}

		return nil, err
	}

	return invoice, nil
}

func (r *InvoiceRepo) scanInvoice(row *sql.Row) (*entity.Invoice, error) {
	var invoice entity.Invoice
	var createdAt, dueDate time.Time
	var paidAt sql.NullTime
	err := row.Scan(&invoice.Id, &invoice.ProjectId, &invoice.InvoiceNumber,
		&invoice.TotalAmount, &invoice.Status, &dueDate, &paidAt, &createdAt)
	if err != nil {
		return nil, err
	}
	invoice.DueDate = dueDate.Format(time.RFC3339)
	invoice.CreatedAt = createdAt.Format(time.RFC3339)
	if paidAt.Valid {
		invoice.PaidAt = paidAt.Time.Format(time.RFC3339)
	}

	return &invoice, nil
}

func (r *InvoiceRepo) GetProjectInvoices(ctx context.Context, projectId string, pg *entity.PaginationInput) ([]entity.Invoice, error) {
	uuidForm, err := uuid.Parse(projectId)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getInvoicesSql, args, _ := r.SqlBuilder.
		Select(invoiceColumns).
		From("invoice").
		Where("project_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getInvoicesSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := make([]entity.Invoice, 0)
	for rows.Next() {
		var invoice entity.Invoice
		var createdAt, dueDate time.Time
		var paidAt sql.NullTime
		if err := rows.Scan(&invoice.Id, &invoice.ProjectId, &invoice.InvoiceNumber,
			&invoice.TotalAmount, &invoice.Status, &dueDate, &paidAt, &createdAt); err != nil {
			return invoices, err
		}
		invoice.DueDate = dueDate.Format(time.RFC3339)
		invoice.CreatedAt = createdAt.Format(time.RFC3339)
		if paidAt.Valid {
			invoice.PaidAt = paidAt.Time.Format(time.RFC3339)
		}
		invoices = append(invoices, invoice)
	}
	if err = rows.Err(); err != nil {
		return invoices, err
	}

	return invoices, nil
}

func (r *InvoiceRepo) LatestInvoiceNumber(ctx context.Context, prefix string) (string, error) {
	latestNumberSql, args, _ := r.SqlBuilder.
		Select("invoice_number").
		From("invoice").
		Where("invoice_number LIKE ?", prefix+"%").
		OrderBy("invoice_number DESC").
		Limit(1).
		ToSql()

	var number string
	err := r.Database.QueryRowContext(ctx, latestNumberSql, args...).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repoerrs.ErrNotFound
		}

		return "", err
	}

	return number, nil
}

func (r *InvoiceRepo) UpdateInvoiceStatus(ctx context.Context, id string, expected, next entity.InvoiceStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repoerrs.ErrNotFound
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("invoice").
		Set("status", next).
		Where("id = ?", uuidForm).
		Where("status = ?", expected).
		ToSql()

	result, err := r.Database.ExecContext(ctx, updateStatusSql, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repoerrs.ErrConflict
	}

	return nil
}

func (r *InvoiceRepo) MarkInvoicesOverdue(ctx context.Context, now time.Time) (int64, error) {
	markOverdueSql, args, _ := r.SqlBuilder.
		Update("invoice").
		Set("status", entity.InvoiceOverdue).
		Where("status = ?", entity.InvoicePending).
		Where("due_date < ?", now).
		ToSql()

	result, err := r.Database.ExecContext(ctx, markOverdueSql, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
