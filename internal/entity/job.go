package entity

import (
	"github.com/google/uuid"
)

type BudgetType string

const (
	BudgetFixed  BudgetType = "FIXED"
	BudgetHourly BudgetType = "HOURLY"
)

// db model
type Job struct {
	Id          uuid.UUID  `json:"id" db:"id"`
	ClientId    uuid.UUID  `json:"clientId" db:"client_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Budget      float64    `json:"budget" db:"budget"`
	BudgetType  BudgetType `json:"budgetType" db:"budget_type"`
	Deadline    string     `json:"deadline" db:"deadline"`
	Status      JobStatus  `json:"status" db:"status"`
	CreatedAt   string     `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateJobInput struct {
	ClientId    string
	Title       string
	Description string
	Budget      float64
	BudgetType  string
	Deadline    string
	Status      JobStatus // should be set: JobOpen
}

// controller model
type JobOutputModel struct {
	Id          string  `json:"id"`
	ClientId    string  `json:"clientId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	BudgetType  string  `json:"budgetType"`
	Deadline    string  `json:"deadline"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

type JobFilter struct {
	Status   JobStatus
	ClientId string
}
