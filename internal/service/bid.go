package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/repo"
	"sajilokaam-api/internal/repo/repoerrs"

	"go.uber.org/zap"
)

type BidService struct {
	bidRepo     repo.Bid
	jobRepo     repo.Job
	projectRepo repo.Project
	events      EventSink
	log         *zap.Logger
}

func NewBidService(repos *repo.Repositories, events EventSink, log *zap.Logger) *BidService {
	return &BidService{
		bidRepo:     repos.Bid,
		jobRepo:     repos.Job,
		projectRepo: repos.Project,
		events:      events,
		log:         log,
	}
}

func (s *BidService) SubmitBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	if input.Amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if _, err := time.Parse(time.RFC3339, input.EstimatedCompletionDate); err != nil {
		return nil, ErrInvalidDate
	}

	job, err := s.jobRepo.GetJobById(ctx, input.JobId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	if job.Status != entity.JobOpen && job.Status != entity.JobHiring {
		return nil, ErrJobNotAcceptingBids
	}

	if job.ClientId.String() == input.FreelancerId {
		return nil, ErrBidOnOwnJob
	}

	input.Status = entity.BidPending

	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

// Bids on a job are visible only to the job's client.
func (s *BidService) GetJobBids(ctx context.Context, jobId, callerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
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

	bids, err := s.bidRepo.GetJobBids(ctx, jobId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) GetUserBids(ctx context.Context, callerId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	bids, err := s.bidRepo.GetUserBids(ctx, callerId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) WithdrawBid(ctx context.Context, bidId, callerId string) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	if bid.FreelancerId.String() != callerId {
		return nil, ErrNotBidAuthor
	}

	if bid.Status != entity.BidPending {
		return nil, ErrBidNotPending
	}

	if err := s.bidRepo.UpdateBidStatus(ctx, bidId, entity.BidPending, entity.BidWithdrawn); err != nil {
		if errors.Is(err, repoerrs.ErrConflict) {
			return nil, ErrBidNotPending
		}

		return nil, err
	}

	bid, err = s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

// AcceptBid is the one place a project comes into existence. The repo applies
// all four writes in a single commit; when a concurrent acceptance already
// closed the job, that commit fails with a conflict and nothing here is
// partially applied.
func (s *BidService) AcceptBid(ctx context.Context, bidId, callerId, projectTitle, projectDescription string) (*entity.ProjectOutputModel, error) {
	if strings.TrimSpace(projectTitle) == "" {
		return nil, ErrEmptyTitle
	}

	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	job, err := s.jobRepo.GetJobById(ctx, bid.JobId.String())
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	if job.ClientId.String() != callerId {
		return nil, ErrNotJobOwner
	}

	if bid.Status != entity.BidPending {
		return nil, ErrBidNotPending
	}

	if job.Status != entity.JobOpen && job.Status != entity.JobHiring {
		return nil, ErrJobAlreadyClosed
	}

	projectId, err := s.projectRepo.AcceptBid(ctx, &entity.AcceptBidInput{
		BidId:              bid.Id,
		JobId:              job.Id,
		ClientId:           job.ClientId,
		FreelancerId:       bid.FreelancerId,
		ProjectTitle:       projectTitle,
		ProjectDescription: projectDescription,
		Budget:             bid.Amount,
	})
	if err != nil {
		if errors.Is(err, repoerrs.ErrConflict) {
			return nil, ErrJobAlreadyClosed
		}

		return nil, err
	}

	project, err := s.projectRepo.GetProjectById(ctx, projectId.String())
	if err != nil {
		return nil, err
	}

	s.log.Info("bid accepted",
		zap.String("bid_id", bidId),
		zap.String("job_id", job.Id.String()),
		zap.String("project_id", projectId.String()))

	s.events.Publish(ctx, Event{
		Name:     EventProjectCreated,
		EntityId: projectId.String(),
		Fields: map[string]string{
			"job_id":        job.Id.String(),
			"client_id":     job.ClientId.String(),
			"freelancer_id": bid.FreelancerId.String(),
		},
	})

	return mapProject(project), nil
}
