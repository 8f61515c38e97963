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
	"github.com/lib/pq"
)

// conflictOnDeadlock turns a deadlock abort into the same ErrConflict a
// guarded update produces, so racing callers see one failure mode.
func conflictOnDeadlock(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "deadlock_detected" {
		return repoerrs.ErrConflict
	}

	return err
}

type ProjectRepo struct {
	*postgres.Postgres
}

func NewProjectRepo(pgdb *postgres.Postgres) *ProjectRepo {
	return &ProjectRepo{pgdb}
}

const projectColumns = "id, job_id, client_id, freelancer_id, title, description, budget, status, created_at"

// AcceptBid runs the whole acceptance as one transaction. The job update is
// guarded on OPEN/HIRING and the bid update on PENDING; either guard matching
// zero rows means somebody else won the race, so everything rolls back and
// the caller gets ErrConflict.
//
// The job row is locked first. Every concurrent acceptance for the same job
// contends on that one row, so the bid and sibling updates only ever run
// while holding it; locking the bid first instead would let two acceptances
// of different bids lock bid rows the other one needs.
func (r *ProjectRepo) AcceptBid(ctx context.Context, input *entity.AcceptBidInput) (uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	closeJobSql, args, _ := r.SqlBuilder.
		Update("job").
		Set("status", entity.JobClosed).
		Where("id = ?", input.JobId).
		Where("status = ? OR status = ?", entity.JobOpen, entity.JobHiring).
		RunWith(tx).
		ToSql()

	result, err := tx.ExecContext(ctx, closeJobSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, conflictOnDeadlock(err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, repoerrs.ErrConflict
	}

	acceptBidSql, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", entity.BidAccepted).
		Where("id = ?", input.BidId).
		Where("status = ?", entity.BidPending).
		RunWith(tx).
		ToSql()

	result, err = tx.ExecContext(ctx, acceptBidSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, conflictOnDeadlock(err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, repoerrs.ErrConflict
	}

	rejectSiblingsSql, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", entity.BidRejected).
		Where("job_id = ?", input.JobId).
		Where("id <> ?", input.BidId).
		Where("status = ?", entity.BidPending).
		RunWith(tx).
		ToSql()

	if _, err = tx.ExecContext(ctx, rejectSiblingsSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, conflictOnDeadlock(err)
	}

	createProjectSql, args, _ := r.SqlBuilder.
		Insert("project").
		Columns("job_id", "client_id", "freelancer_id", "title", "description", "budget", "status").
		Values(input.JobId, input.ClientId, input.FreelancerId,
			input.ProjectTitle, input.ProjectDescription, input.Budget, entity.ProjectActive).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var projectId uuid.UUID
	if err = tx.QueryRowContext(ctx, createProjectSql, args...).Scan(&projectId); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, conflictOnDeadlock(err)
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return projectId, nil
}

func (r *ProjectRepo) GetProjectById(ctx context.Context, id string) (*entity.Project, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repoerrs.ErrNotFound
	}

	getProjectReq, args, _ := r.SqlBuilder.
		Select(projectColumns).
		From("project").
		Where("id = ?", uuidForm).
		ToSql()

	var project entity.Project
	var createdAt time.Time
	row := r.Database.QueryRowContext(ctx, getProjectReq, args...)
	err = row.Scan(&project.Id, &project.JobId, &project.ClientId, &project.FreelancerId,
		&project.Title, &project.Description, &project.Budget, &project.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repoerrs.ErrNotFound
		}

		return nil, err
	}
	project.CreatedAt = createdAt.Format(time.RFC3339)

	return &project, nil
}

func (r *ProjectRepo) ListProjects(ctx context.Context, filter *entity.ProjectFilter, pg *entity.PaginationInput) ([]entity.Project, error) {
	builder := r.SqlBuilder.
		Select(projectColumns).
		From("project").
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit))

	if filter != nil {
		if filter.ParticipantId != "" {
			participantId, err := uuid.Parse(filter.ParticipantId)
			if err != nil {
				return nil, repoerrs.ErrNotFound
			}
			builder = builder.Where("client_id = ? OR freelancer_id = ?", participantId, participantId)
		}
		if filter.Status != "" {
			builder = builder.Where("status = ?", filter.Status)
		}
	}

	listProjectsReq, args, _ := builder.ToSql()

	rows, err := r.Database.QueryContext(ctx, listProjectsReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]entity.Project, 0)
	for rows.Next() {
		var project entity.Project
		var createdAt time.Time
		if err := rows.Scan(&project.Id, &project.JobId, &project.ClientId, &project.FreelancerId,
			&project.Title, &project.Description, &project.Budget, &project.Status, &createdAt); err != nil {
			return projects, err
		}
		project.CreatedAt = createdAt.Format(time.RFC3339)
		projects = append(projects, project)
	}
	if err = rows.Err(); err != nil {
		return projects, err
	}

	return projects, nil
}

func (r *ProjectRepo) UpdateProjectStatus(ctx context.Context, id string, expected, next entity.ProjectStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repoerrs.ErrNotFound
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("project").
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
