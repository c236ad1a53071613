package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
)

type QualityService struct {
	Repo *repo.GormRepo
}

type QualityInput struct {
	ProjectID      uint
	BugCount       int
	ResolvedCount  int
	QualityScore   float64
	CalculatedDate *time.Time
}

func (s *QualityService) validate(ctx context.Context, in QualityInput) error {
	if in.BugCount < 0 || in.ResolvedCount < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrValidation)
	}
	if in.ResolvedCount > in.BugCount {
		return fmt.Errorf("%w: resolvedCount exceeds bugCount", ErrValidation)
	}
	if _, err := s.Repo.GetProject(ctx, in.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: project %d not found", ErrValidation, in.ProjectID)
		}
		return err
	}
	return nil
}

func (s *QualityService) Create(ctx context.Context, in QualityInput) (*models.Quality, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	q := &models.Quality{
		ProjectID:      in.ProjectID,
		BugCount:       in.BugCount,
		ResolvedCount:  in.ResolvedCount,
		QualityScore:   in.QualityScore,
		CalculatedDate: in.CalculatedDate,
	}
	if err := s.Repo.CreateQuality(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QualityService) List(ctx context.Context) ([]models.Quality, error) {
	return s.Repo.ListQualities(ctx)
}

func (s *QualityService) Get(ctx context.Context, id uint) (*models.Quality, error) {
	q, err := s.Repo.GetQuality(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// ByProject returns an empty list for an unknown project.
func (s *QualityService) ByProject(ctx context.Context, projectID uint) ([]models.Quality, error) {
	return s.Repo.ListQualitiesByProject(ctx, projectID)
}

func (s *QualityService) Update(ctx context.Context, id uint, in QualityInput) (*models.Quality, error) {
	q, err := s.Repo.GetQuality(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	q.ProjectID = in.ProjectID
	q.BugCount = in.BugCount
	q.ResolvedCount = in.ResolvedCount
	q.QualityScore = in.QualityScore
	q.CalculatedDate = in.CalculatedDate
	if err := s.Repo.SaveQuality(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QualityService) Delete(ctx context.Context, id uint) error {
	return inUse(s.Repo.DeleteQuality(ctx, id))
}
