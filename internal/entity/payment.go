package entity

import (
	"github.com/google/uuid"
)

// One payment row per settlement attempt; an invoice may accumulate several,
// at most one of them SUCCESS.
type Payment struct {
	Id                   uuid.UUID     `json:"id" db:"id"`
	InvoiceId            uuid.UUID     `json:"invoiceId" db:"invoice_id"`
	Amount               float64       `json:"amount" db:"amount"`
	Method               PaymentMethod `json:"paymentMethod" db:"payment_method"`
	Status               PaymentStatus `json:"status" db:"status"`
	GatewayTransactionId string        `json:"gatewayTransactionId" db:"gateway_transaction_id"`
	CreatedAt            string        `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreatePaymentInput struct {
	InvoiceId string
	Amount    float64
	Method    PaymentMethod
	Status    PaymentStatus // should be set: PaymentPending
}

// controller model
type PaymentOutputModel struct {
	Id                   string  `json:"id"`
	InvoiceId            string  `json:"invoiceId"`
	Amount               float64 `json:"amount"`
	PaymentMethod        string  `json:"paymentMethod"`
	Status               string  `json:"status"`
	GatewayTransactionId string  `json:"gatewayTransactionId,omitempty"`
	CreatedAt            string  `json:"createdAt"`
}
