package entity

import (
	"github.com/google/uuid"
)

type Bid struct {
	Id                      uuid.UUID `json:"id" db:"id"`
	JobId                   uuid.UUID `json:"jobId" db:"job_id"`
	FreelancerId            uuid.UUID `json:"freelancerId" db:"freelancer_id"`
	Amount                  float64   `json:"amount" db:"amount"`
	Proposal                string    `json:"proposal" db:"proposal"`
	EstimatedCompletionDate string    `json:"estimatedCompletionDate" db:"estimated_completion_date"`
	Status                  BidStatus `json:"status" db:"status"`
	CreatedAt               string    `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateBidInput struct {
	JobId                   string
	FreelancerId            string
	Amount                  float64
	Proposal                string
	EstimatedCompletionDate string
	Status                  BidStatus // should be set: BidPending
}

// carries every write of the acceptance transaction so the repo can apply
// them in a single commit
type AcceptBidInput struct {
	BidId              uuid.UUID
	JobId              uuid.UUID
	ClientId           uuid.UUID
	FreelancerId       uuid.UUID
	ProjectTitle       string
	ProjectDescription string
	Budget             float64
}

// controller model
type BidOutputModel struct {
	Id                      string  `json:"id"`
	JobId                   string  `json:"jobId"`
	FreelancerId            string  `json:"freelancerId"`
	Amount                  float64 `json:"amount"`
	Proposal                string  `json:"proposal"`
	EstimatedCompletionDate string  `json:"estimatedCompletionDate"`
	Status                  string  `json:"status"`
	CreatedAt               string  `json:"createdAt"`
}
