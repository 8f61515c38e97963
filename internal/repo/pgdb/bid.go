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

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

const bidColumns = "id, job_id, freelancer_id, amount, proposal, estimated_completion_date, status, created_at"

func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	jobId, err := uuid.Parse(input.JobId)
	if err != nil {
		return uuid.Nil, err
	}

	freelancerId, err := uuid.Parse(input.FreelancerId)
	if err != nil {
		return uuid.Nil, err
	}

	createBidReq, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("job_id", "freelancer_id", "amount", "proposal", "estimated_completion_date", "status").
		Values(jobId, freelancerId, input.Amount, input.Proposal, input.EstimatedCompletionDate, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createBidReq, args...).Scan(&bidId); err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getBidReq, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("id = ?", uuidForm).
		ToSql()

	var bid entity.Bid
	var createdAt, completion time.Time
	row := r.Database.QueryRowContext(ctx, getBidReq, args...)
	err = row.Scan(&bid.Id, &bid.JobId, &bid.FreelancerId, &bid.Amount,
		&bid.Proposal, &completion, &bid.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repoerrs.ErrNotFound
		}

		return nil, err
	}
	bid.EstimatedCompletionDate = completion.Format(time.RFC3339)
	bid.CreatedAt = createdAt.Format(time.RFC3339)

	return &bid, nil
}

func (r *BidRepo) GetJobBids(ctx context.Context, jobId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(jobId)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getJobBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("job_id = ?", uuidForm).
		OrderBy("created_at ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getJobBidsSql, args)
}

func (r *BidRepo) GetUserBids(ctx context.Context, freelancerId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(freelancerId)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getUserBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("freelancer_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getUserBidsSql, args)
}

func (r *BidRepo) queryBids(ctx context.Context, query string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		var bid entity.Bid
		var createdAt, completion time.Time
		if err := rows.Scan(&bid.Id, &bid.JobId, &bid.FreelancerId, &bid.Amount,
			&bid.Proposal, &completion, &bid.Status, &createdAt); err != nil {
			return bids, err
		}
		bid.EstimatedCompletionDate = completion.Format(time.RFC3339)
		bid.CreatedAt = createdAt.Format(time.RFC3339)
		bids = append(bids, bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

func (r *BidRepo) UpdateBidStatus(ctx context.Context, id string, expected, next entity.BidStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repoerrs.ErrNotFound
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("bid").
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
