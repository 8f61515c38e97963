package service

import (
	"context"
	"errors"

	"sajilokaam-api/internal/entity"
	"sajilokaam-api/internal/repo"
	"sajilokaam-api/internal/repo/repoerrs"
)

type ProjectService struct {
	projectRepo repo.Project
}

func NewProjectService(repos *repo.Repositories) *ProjectService {
	return &ProjectService{projectRepo: repos.Project}
}

func (s *ProjectService) GetProjectById(ctx context.Context, projectId, callerId string) (*entity.ProjectOutputModel, error) {
	project, err := s.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}

	if !isParticipant(project, callerId) {
		return nil, ErrNotProjectParticipant
	}

	return mapProject(project), nil
}

func (s *ProjectService) ListProjects(ctx context.Context, callerId string, pg *entity.PaginationInput) ([]entity.ProjectOutputModel, error) {
	projects, err := s.projectRepo.ListProjects(ctx, &entity.ProjectFilter{ParticipantId: callerId}, pg)
	if err != nil {
		return nil, err
	}

	return mapProjects(projects), nil
}

// UpdateProjectStatus is role-scoped: the freelancer moves work forward
// (ACTIVE -> PENDING_PAYMENT), the client settles or reopens
// (PENDING_PAYMENT -> COMPLETED | ACTIVE) and may cancel.
func (s *ProjectService) UpdateProjectStatus(ctx context.Context, projectId, callerId string, newStatus entity.ProjectStatus) (*entity.ProjectOutputModel, error) {
	project, err := s.loadProject(ctx, projectId)
	if err != nil {
		return nil, err
	}

	if !isParticipant(project, callerId) {
		return nil, ErrNotProjectParticipant
	}

	if !project.Status.CanTransition(newStatus) {
		return nil, ErrInvalidProjectState
	}

	isClient := project.ClientId.String() == callerId
	switch newStatus {
	case entity.ProjectPendingPayment:
		if isClient {
			return nil, ErrNotProjectFreelancer
		}
	case entity.ProjectCompleted, entity.ProjectActive, entity.ProjectCancelled:
		if !isClient {
			return nil, ErrNotProjectClient
		}
	}

	if err := s.projectRepo.UpdateProjectStatus(ctx, projectId, project.Status, newStatus); err != nil {
		if errors.Is(err, repoerrs.ErrConflict) {
			return nil, ErrInvalidProjectState
		}

		return nil, err
	}

	project, err = s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		return nil, err
	}

	return mapProject(project), nil
}

func (s *ProjectService) loadProject(ctx context.Context, projectId string) (*entity.Project, error) {
	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		if errors.Is(err, repoerrs.ErrNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	return project, nil
}

func isParticipant(project *entity.Project, callerId string) bool {
	return project.ClientId.String() == callerId || project.FreelancerId.String() == callerId
}
