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

type JobRepo struct {
	*postgres.Postgres
}

func NewJobRepo(pgdb *postgres.Postgres) *JobRepo {
	return &JobRepo{pgdb}
}

const jobColumns = "id, client_id, title, description, budget, budget_type, deadline, status, created_at"

func (r *JobRepo) CreateJob(ctx context.Context, input *entity.CreateJobInput) (uuid.UUID, error) {
	clientId, err := uuid.Parse(input.ClientId)
	if err != nil {
		return uuid.Nil, err
	}

	createJobReq, args, _ := r.SqlBuilder.
		Insert("job").
		Columns("client_id", "title", "description", "budget", "budget_type", "deadline", "status").
		Values(clientId, input.Title, input.Description, input.Budget, input.BudgetType, input.Deadline, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var jobId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createJobReq, args...).Scan(&jobId); err != nil {
		return uuid.Nil, err
	}

	return jobId, nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id string) (*entity.Job, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getJobReq, args, _ := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("id = ?", uuidForm).
		ToSql()

	var job entity.Job
	var createdAt, deadline time.Time
	row := r.Database.QueryRowContext(ctx, getJobReq, args...)
	err = row.Scan(&job.Id, &job.ClientId, &job.Title, &job.Description,
		&job.Budget, &job.BudgetType, &deadline, &job.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repoerrs.ErrNotFound
		}

		return nil, err
	}
	job.Deadline = deadline.Format(time.RFC3339)
	job.CreatedAt = createdAt.Format(time.RFC3339)

	return &job, nil
}

func (r *JobRepo) ListJobs(ctx context.Context, filter *entity.JobFilter, pg *entity.PaginationInput) ([]entity.Job, error) {
	builder := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit))

	if filter != nil {
		if filter.Status != "" {
			builder = builder.Where("status = ?", filter.Status)
		}
		if filter.ClientId != "" {
			clientId, err := uuid.Parse(filter.ClientId)
			if err != nil {
				return nil, repoerrs.ErrNotFound
			}
			builder = builder.Where("client_id = ?", clientId)
		}
	}

	listJobsReq, args, _ := builder.ToSql()

	rows, err := r.Database.QueryContext(ctx, listJobsReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]entity.Job, 0)
	for rows.Next() {
		var job entity.Job
		var createdAt, deadline time.Time
		if err := rows.Scan(&job.Id, &job.ClientId, &job.Title, &job.Description,
			&job.Budget, &job.BudgetType, &deadline, &job.Status, &createdAt); err != nil {
			return jobs, err
		}
		job.Deadline = deadline.Format(time.RFC3339)
		job.CreatedAt = createdAt.Format(time.RFC3339)
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return jobs, err
	}

	return jobs, nil
}

func (r *JobRepo) UpdateJobStatus(ctx context.Context, id string, expected, next entity.JobStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repoerrs.ErrNotFound
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("job").
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
