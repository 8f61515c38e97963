package entity

import (
	"github.com/google/uuid"
)

type Invoice struct {
	Id            uuid.UUID     `json:"id" db:"id"`
	ProjectId     uuid.UUID     `json:"projectId" db:"project_id"`
	InvoiceNumber string        `json:"invoiceNumber" db:"invoice_number"`
	TotalAmount   float64       `json:"totalAmount" db:"total_amount"`
	Status        InvoiceStatus `json:"status" db:"status"`
	DueDate       string        `json:"dueDate" db:"due_date"`
	PaidAt        string        `json:"paidAt" db:"paid_at"`
	CreatedAt     string        `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateInvoiceInput struct {
	ProjectId     string
	InvoiceNumber string // generated by the service
	TotalAmount   float64
	DueDate       string
	Status        InvoiceStatus // should be set: InvoicePending
}

// controller model
type InvoiceOutputModel struct {
	Id            string  `json:"id"`
	ProjectId     string  `json:"projectId"`
	InvoiceNumber string  `json:"invoiceNumber"`
	TotalAmount   float64 `json:"totalAmount"`
	Status        string  `json:"status"`
	DueDate       string  `json:"dueDate"`
	PaidAt        string  `json:"paidAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}
