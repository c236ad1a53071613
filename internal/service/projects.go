package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
)

type ProjectService struct {
	Repo *repo.GormRepo
}

type ProjectInput struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	ManagerID uint
}

func (s *ProjectService) validate(ctx context.Context, in ProjectInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: projectName required", ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: endDate before startDate", ErrValidation)
	}
	if _, err := s.Repo.GetUserByID(ctx, in.ManagerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: manager %d not found", ErrValidation, in.ManagerID)
		}
		return err
	}
	return nil
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	p := &models.Project{
		Name:      strings.TrimSpace(in.Name),
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		ManagerID: in.ManagerID,
	}
	if err := s.Repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.Repo.ListProjects(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	p, err := s.Repo.GetProject(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ByManager is ErrNotFound for an unknown manager and an empty list for a
// manager without projects.
func (s *ProjectService) ByManager(ctx context.Context, managerID uint) ([]models.Project, error) {
	if _, err := s.Repo.GetUserByID(ctx, managerID); err != nil {
		return nil, notFound(err)
	}
	return s.Repo.ListProjectsByManager(ctx, managerID)
}

func (s *ProjectService) Update(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	p, err := s.Repo.GetProject(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.ManagerID = in.ManagerID
	if err := s.Repo.SaveProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return inUse(s.Repo.DeleteProject(ctx, id))
}
