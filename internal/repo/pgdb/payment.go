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
)

type PaymentRepo struct {
	*postgres.Postgres
}

func NewPaymentRepo(pgdb *postgres.Postgres) *PaymentRepo {
	return &PaymentRepo{pgdb}
}

const paymentColumns = "id, invoice_id, amount, payment_method, status, gateway_transaction_id, created_at"

func (r *PaymentRepo) CreatePayment(ctx context.Context, input *entity.CreatePaymentInput) (uuid.UUID, error) {
	invoiceId, err := uuid.Parse(input.InvoiceId)
	if err != nil {
		return uuid.Nil, err
	}

	createPaymentReq, args, _ := r.SqlBuilder.
		Insert("payment").
		Columns("invoice_id", "amount", "payment_method", "status").
		Values(invoiceId, input.Amount, input.Method, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var paymentId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createPaymentReq, args...).Scan(&paymentId); err != nil {
		return uuid.Nil, err
	}

	return paymentId, nil
}

func (r *PaymentRepo) GetPaymentById(ctx context.Context, id string) (*entity.Payment, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getPaymentReq, args, _ := r.SqlBuilder.
		Select(paymentColumns).
		From("payment").
		Where("id = ?", uuidForm).
		ToSql()

	return r.queryPayment(ctx, getPaymentReq, args)
}

func (r *PaymentRepo) GetPaymentByTransactionId(ctx context.Context, transactionId string) (*entity.Payment, error) {
	getPaymentReq, args, _ := r.SqlBuilder.
		Select(paymentColumns).
		From("payment").
		Where("gateway_transaction_id = ?", transactionId).
		ToSql()

	return r.queryPayment(ctx, getPaymentReq, args)
}

func (r *PaymentRepo) queryPayment(ctx context.Context, query string, args []interface{}) (*entity.Payment, error) {
	var payment entity.Payment
	var createdAt time.Time
	var gatewayTxnId sql.NullString
	row := r.Database.QueryRowContext(ctx, query, args...)
	err := row.Scan(&payment.Id, &payment.InvoiceId, &payment.Amount,
		&payment.Method, &payment.Status, &gatewayTxnId, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repoerrs.ErrNotFound
		}

		return nil, err
	}
	payment.GatewayTransactionId = gatewayTxnId.String
	payment.CreatedAt = createdAt.Format(time.RFC3339)

	return &payment, nil
}

func (r *PaymentRepo) GetInvoicePayments(ctx context.Context, invoiceId string) ([]entity.Payment, error) {
	uuidForm, err := uuid.Parse(invoiceId)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getPaymentsSql, args, _ := r.SqlBuilder.
		Select(paymentColumns).
		From("payment").
		Where("invoice_id = ?", uuidForm).
		OrderBy("created_at ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getPaymentsSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]entity.Payment, 0)
	for rows.Next() {
		var payment entity.Payment
		var createdAt time.Time
		var gatewayTxnId sql.NullString
		if err := rows.Scan(&payment.Id, &payment.InvoiceId, &payment.Amount,
			&payment.Method, &payment.Status, &gatewayTxnId, &createdAt); err != nil {
			return payments, err
		}
		payment.GatewayTransactionId = gatewayTxnId.String
		payment.CreatedAt = createdAt.Format(time.RFC3339)
		payments = append(payments, payment)
	}
	if err = rows.Err(); err != nil {
		return payments, err
	}

	return payments, nil
}

func (r *PaymentRepo) UpdatePaymentStatus(ctx context.Context, id string, expected, next entity.PaymentStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repoerrs.ErrNotFound
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("payment").
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

func (r *PaymentRepo) MarkInitiated(ctx context.Context, id string, transactionId string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repoerrs.ErrNotFound
	}

	markInitiatedSql, args, _ := r.SqlBuilder.
		Update("payment").
		Set("status", entity.PaymentInitiated).
		Set("gateway_transaction_id", transactionId).
		Where("id = ?", uuidForm).
		Where("status = ?", entity.PaymentPending).
		ToSql()

	result, err := r.Database.ExecContext(ctx, markInitiatedSql, args...)
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

// SettlePayment is the reconciliation commit: payment SUCCESS and invoice
// PAID land together or not at all.
func (r *PaymentRepo) SettlePayment(ctx context.Context, paymentId, invoiceId uuid.UUID, paidAt time.Time) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	settlePaymentSql, args, _ := r.SqlBuilder.
		Update("payment").
		Set("status", entity.PaymentSuccess).
		Where("id = ?", paymentId).
		Where("status = ? OR status = ?", entity.PaymentInitiated, entity.PaymentPending).
		RunWith(tx).
		ToSql()

	result, err := tx.ExecContext(ctx, settlePaymentSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repoerrs.ErrConflict
	}

	payInvoiceSql, args, _ := r.SqlBuilder.
		Update("invoice").
		Set("status", entity.InvoicePaid).
		Set("paid_at", paidAt).
		Where("id = ?", invoiceId).
		Where("status = ? OR status = ?", entity.InvoicePending, entity.InvoiceOverdue).
		RunWith(tx).
		ToSql()

	result, err = tx.ExecContext(ctx, payInvoiceSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repoerrs.ErrConflict
	}

	return tx.Commit()
}
