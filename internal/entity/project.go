package entity

import (
	"github.com/google/uuid"
)

// Created exclusively by the bid acceptance transaction; there is no
// standalone create path.
type Project struct {
	Id           uuid.UUID     `json:"id" db:"id"`
	JobId        uuid.UUID     `json:"jobId" db:"job_id"`
	ClientId     uuid.UUID     `json:"clientId" db:"client_id"`
	FreelancerId uuid.UUID     `json:"freelancerId" db:"freelancer_id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description" db:"description"`
	Budget       float64       `json:"budget" db:"budget"`
	Status       ProjectStatus `json:"status" db:"status"`
	CreatedAt    string        `json:"createdAt" db:"created_at"`
}

// controller model
type ProjectOutputModel struct {
	Id           string  `json:"id"`
	JobId        string  `json:"jobId"`
	ClientId     string  `json:"clientId"`
	FreelancerId string  `json:"freelancerId"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Budget       float64 `json:"budget"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
}

type ProjectFilter struct {
	ParticipantId string
	Status        ProjectStatus
}
