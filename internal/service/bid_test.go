package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sajilokaam-api/internal/entity"

	"github.com/google/uuid"
)

func TestSubmitBid(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a bid on an open job", func(t *testing.T) {
		env := newTestEnv()
		client := uuid.New()
		freelancer := uuid.New()
		job := seedJob(env.store, client, entity.JobOpen)

		bid, err := env.services.Bid.SubmitBid(ctx, &entity.CreateBidInput{
			JobId:                   job.Id.String(),
			FreelancerId:            freelancer.String(),
			Amount:                  42000,
			Proposal:                "I can deliver this",
			EstimatedCompletionDate: job.Deadline,
		})
		if err != nil {
			t.Fatalf("SubmitBid failed: %v", err)
		}
		if bid.Status != string(entity.BidPending) {
			t.Errorf("expected PENDING bid, got %s", bid.Status)
		}
	})

	t.Run("accepts a bid while the job is hiring", func(t *testing.T) {
		env := newTestEnv()
		job := seedJob(env.store, uuid.New(), entity.JobHiring)

		_, err := env.services.Bid.SubmitBid(ctx, &entity.CreateBidInput{
			JobId:                   job.Id.String(),
			FreelancerId:            uuid.New().String(),
			Amount:                  1000,
			EstimatedCompletionDate: job.Deadline,
		})
		if err != nil {
			t.Fatalf("SubmitBid failed: %v", err)
		}
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		env := newTestEnv()
		job := seedJob(env.store, uuid.New(), entity.JobOpen)

		_, err := env.services.Bid.SubmitBid(ctx, &entity.CreateBidInput{
			JobId:                   job.Id.String(),
			FreelancerId:            uuid.New().String(),
			Amount:                  0,
			EstimatedCompletionDate: job.Deadline,
		})
		if !errors.Is(err, ErrNonPositiveAmount) {
			t.Errorf("expected ErrNonPositiveAmount, got %v", err)
		}
	})

	t.Run("rejects a bid on a closed job", func(t *testing.T) {
		env := newTestEnv()
		job := seedJob(env.store, uuid.New(), entity.JobClosed)

		_, err := env.services.Bid.SubmitBid(ctx, &entity.CreateBidInput{
			JobId:                   job.Id.String(),
			FreelancerId:            uuid.New().String(),
			Amount:                  1000,
			EstimatedCompletionDate: job.Deadline,
		})
		if !errors.Is(err, ErrJobNotAcceptingBids) {
			t.Errorf("expected ErrJobNotAcceptingBids, got %v", err)
		}
	})

	t.Run("rejects the client bidding on their own job", func(t *testing.T) {
		env := newTestEnv()
		client := uuid.New()
		job := seedJob(env.store, client, entity.JobOpen)

		_, err := env.services.Bid.SubmitBid(ctx, &entity.CreateBidInput{
			JobId:                   job.Id.String(),
			FreelancerId:            client.String(),
			Amount:                  1000,
			EstimatedCompletionDate: job.Deadline,
		})
		if !errors.Is(err, ErrBidOnOwnJob) {
			t.Errorf("expected ErrBidOnOwnJob, got %v", err)
		}
	})
}

func TestGetJobBids(t *testing.T) {
	ctx := context.Background()

	t.Run("only the job's client sees the bids", func(t *testing.T) {
		env := newTestEnv()
		client := uuid.New()
		job := seedJob(env.store, client, entity.JobOpen)
		seedBid(env.store, job.Id, uuid.New(), entity.BidPending)

		bids, err := env.services.Bid.GetJobBids(ctx, job.Id.String(), client.String(), entity.NewPaginationInput(10, 0))
		if err != nil {
			t.Fatalf("GetJobBids failed: %v", err)
		}
		if len(bids) != 1 {
			t.Errorf("expected 1 bid, got %d", len(bids))
		}

		_, err = env.services.Bid.GetJobBids(ctx, job.Id.String(), uuid.New().String(), entity.NewPaginationInput(10, 0))
		if !errors.Is(err, ErrNotJobOwner) {
			t.Errorf("expected ErrNotJobOwner, got %v", err)
		}
	})
}

func TestWithdrawBid(t *testing.T) {
	ctx := context.Background()

	t.Run("author withdraws a pending bid", func(t *testing.T) {
		env := newTestEnv()
		freelancer := uuid.New()
		job := seedJob(env.store, uuid.New(), entity.JobOpen)
		bid := seedBid(env.store, job.Id, freelancer, entity.BidPending)

		out, err := env.services.Bid.WithdrawBid(ctx, bid.Id.String(), freelancer.String())
		if err != nil {
			t.Fatalf("WithdrawBid failed: %v", err)
		}
		if out.Status != string(entity.BidWithdrawn) {
			t.Errorf("expected WITHDRAWN, got %s", out.Status)
		}
	})

	t.Run("only the author may withdraw", func(t *testing.T) {
		env := newTestEnv()
		job := seedJob(env.store, uuid.New(), entity.JobOpen)
		bid := seedBid(env.store, job.Id, uuid.New(), entity.BidPending)

		_, err := env.services.Bid.WithdrawBid(ctx, bid.Id.String(), uuid.New().String())
		if !errors.Is(err, ErrNotBidAuthor) {
			t.Errorf("expected ErrNotBidAuthor, got %v", err)
		}
	})

	t.Run("a settled bid cannot be withdrawn", func(t *testing.T) {
		env := newTestEnv()
		freelancer := uuid.New()
		job := seedJob(env.store, uuid.New(), entity.JobOpen)
		bid := seedBid(env.store, job.Id, freelancer, entity.BidRejected)

		_, err := env.services.Bid.WithdrawBid(ctx, bid.Id.String(), freelancer.String())
		if !errors.Is(err, ErrBidNotPending) {
			t.Errorf("expected ErrBidNotPending, got %v", err)
		}
	})
}

func TestAcceptBid(t *testing.T) {
	ctx := context.Background()

	t.Run("acceptance settles the whole job in one step", func(t *testing.T) {
		env := newTestEnv()
		client := uuid.New()
		winner := uuid.New()
		job := seedJob(env.store, client, entity.JobOpen)
		winning := seedBid(env.store, job.Id, winner, entity.BidPending)
		losing := seedBid(env.store, job.Id, uuid.New(), entity.BidPending)
		withdrawn := seedBid(env.store, job.Id, uuid.New(), entity.BidWithdrawn)

		project, err := env.services.Bid.AcceptBid(ctx, winning.Id.String(), client.String(), "Storefront build", "phase one")
		if err != nil {
			t.Fatalf("AcceptBid failed: %v", err)
		}

		if project.ClientId != client.String() || project.FreelancerId != winner.String() {
			t.Errorf("project parties wrong: client=%s freelancer=%s", project.ClientId, project.FreelancerId)
		}
		if project.Budget != winning.Amount {
			t.Errorf("project budget %v, want bid amount %v", project.Budget, winning.Amount)
		}
		if project.Status != string(entity.ProjectActive) {
			t.Errorf("expected ACTIVE project, got %s", project.Status)
		}

		env.store.mu.Lock()
		defer env.store.mu.Unlock()
		if got := env.store.bids[winning.Id.String()].Status; got != entity.BidAccepted {
			t.Errorf("winning bid status %s, want ACCEPTED", got)
		}
		if got := env.store.bids[losing.Id.String()].Status; got != entity.BidRejected {
			t.Errorf("losing bid status %s, want REJECTED", got)
		}
		if got := env.store.bids[withdrawn.Id.String()].Status; got != entity.BidWithdrawn {
			t.Errorf("withdrawn bid status %s, want WITHDRAWN untouched", got)
		}
		if got := env.store.jobs[job.Id.String()].Status; got != entity.JobClosed {
			t.Errorf("job status %s, want CLOSED", got)
		}

		if events := env.sink.byName(EventProjectCreated); len(events) != 1 {
			t.Errorf("expected 1 ProjectCreated event, got %d", len(events))
		}
	})

	t.Run("only the job's client may accept", func(t *testing.T) {
		env := newTestEnv()
		job := seedJob(env.store, uuid.New(), entity.JobOpen)
		bid := seedBid(env.store, job.Id, uuid.New(), entity.BidPending)

		_, err := env.services.Bid.AcceptBid(ctx, bid.Id.String(), uuid.New().String(), "title", "")
		if !errors.Is(err, ErrNotJobOwner) {
			t.Errorf("expected ErrNotJobOwner, got %v", err)
		}
	})

	t.Run("a withdrawn bid cannot be accepted", func(t *testing.T) {
		env := newTestEnv()
		client := uuid.New()
		job := seedJob(env.store, client, entity.JobOpen)
		bid := seedBid(env.store, job.Id, uuid.New(), entity.BidWithdrawn)

		_, err := env.services.Bid.AcceptBid(ctx, bid.Id.String(), client.String(), "title", "")
		if !errors.Is(err, ErrBidNotPending) {
			t.Errorf("expected ErrBidNotPending, got %v", err)
		}
	})

	t.Run("accepting on a closed job fails and changes nothing", func(t *testing.T) {
		env := newTestEnv()
		client := uuid.New()
		job := seedJob(env.store, client, entity.JobClosed)
		bid := seedBid(env.store, job.Id, uuid.New(), entity.BidPending)

		_, err := env.services.Bid.AcceptBid(ctx, bid.Id.String(), client.String(), "title", "")
		if !errors.Is(err, ErrJobAlreadyClosed) {
			t.Errorf("expected ErrJobAlreadyClosed, got %v", err)
		}

		env.store.mu.Lock()
		defer env.store.mu.Unlock()
		if got := env.store.bids[bid.Id.String()].Status; got != entity.BidPending {
			t.Errorf("bid status %s, want PENDING untouched", got)
		}
		if len(env.store.projects) != 0 {
			t.Errorf("expected no project, got %d", len(env.store.projects))
		}
	})

	t.Run("concurrent acceptances produce exactly one project", func(t *testing.T) {
		env := newTestEnv()
		client := uuid.New()
		job := seedJob(env.store, client, entity.JobOpen)

		const contenders = 16
		bids := make([]*entity.Bid, contenders)
		for i := range bids {
			bids[i] = seedBid(env.store, job.Id, uuid.New(), entity.BidPending)
		}

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins, conflicts := 0, 0
		for _, bid := range bids {
			wg.Add(1)
			go func(bidId string) {
				defer wg.Done()
				_, err := env.services.Bid.AcceptBid(ctx, bidId, client.String(), "Storefront build", "")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case errors.Is(err, ErrJobAlreadyClosed), errors.Is(err, ErrBidNotPending):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(bid.Id.String())
		}
		wg.Wait()

		if wins != 1 {
			t.Fatalf("expected exactly 1 winner, got %d (conflicts=%d)", wins, conflicts)
		}

		env.store.mu.Lock()
		defer env.store.mu.Unlock()
		if len(env.store.projects) != 1 {
			t.Errorf("expected 1 project, got %d", len(env.store.projects))
		}
		accepted := 0
		for _, bid := range env.store.bids {
			switch bid.Status {
			case entity.BidAccepted:
				accepted++
			case entity.BidRejected:
			default:
				t.Errorf("bid %s left in status %s", bid.Id, bid.Status)
			}
		}
		if accepted != 1 {
			t.Errorf("expected 1 accepted bid, got %d", accepted)
		}
		if got := env.store.jobs[job.Id.String()].Status; got != entity.JobClosed {
			t.Errorf("job status %s, want CLOSED", got)
		}
	})
}
