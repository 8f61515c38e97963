package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/repo"
	"sajilokaam-api/internal/repo/repoerrs"
)

type JobService struct {
	jobRepo repo.Job
}

func NewJobService(repos *repo.Repositories) *JobService {
	return &JobService{jobRepo: repos.Job}
}

func (s *JobService) CreateJob(ctx context.Context, input *entity.CreateJobInput) (*entity.JobOutputModel, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if input.Budget <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if input.BudgetType != string(entity.BudgetFixed) && input.BudgetType != string(entity.BudgetHourly) {
		return nil, ErrInvalidBudgetType
	}
	if _, err := time.Parse(time.RFC3339, input.Deadline); err != nil {
		return nil, ErrInvalidDate
	}

	input.Status = entity.JobOpen

	id, err := s.jobRepo.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetJobById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapJob(job), nil
}

func (s *JobService) GetJobById(ctx context.Context, jobId string) (*entity.JobOutputModel, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	return mapJob(job), nil
}

func (s *JobService) ListJobs(ctx context.Context, filter *entity.JobFilter, pg *entity.PaginationInput) ([]entity.JobOutputModel, error) {
	jobs, err := s.jobRepo.ListJobs(ctx, filter, pg)
	if err != nil {
		return nil, err
	}

	return mapJobs(jobs), nil
}

// UpdateJobStatus moves a job through the owner-facing part of its state
// machine (OPEN <-> HIRING, cancellation). CLOSED is reserved for the bid
// acceptance transaction and rejected here.
func (s *JobService) UpdateJobStatus(ctx context.Context, jobId, callerId string, newStatus entity.JobStatus) (*entity.JobOutputModel, error) {
	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	if job.ClientId.String() != callerId {
		return nil, ErrNotJobOwner
	}

	if newStatus == entity.JobClosed || !job.Status.CanTransition(newStatus) {
		return nil, ErrInvalidJobStatus
	}

	if err := s.jobRepo.UpdateJobStatus(ctx, jobId, job.Status, newStatus); err != nil {
		if errors.Is(err, repoerrs.ErrConflict) {
			return nil, ErrInvalidJobStatus
		}

		return nil, err
	}

	job, err = s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		return nil, err
	}

	return mapJob(job), nil
}
