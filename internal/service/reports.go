package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
)

// ReportService keeps report metadata only. Report files are produced and
// stored elsewhere and referenced by URL.
type ReportService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

type ReportInput struct {
	Type        string
	Parameters  string
	GeneratedBy string
	ReportURL   string
	Format      string
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func validateReport(in ReportInput) error {
	if strings.TrimSpace(in.Type) == "" {
		return fmt.Errorf("%w: type required", ErrValidation)
	}
	return nil
}

// Create stamps GeneratedDate with the current time.
func (s *ReportService) Create(ctx context.Context, in ReportInput) (*models.Report, error) {
	if err := validateReport(in); err != nil {
		return nil, err
	}
	rep := &models.Report{
		Type:          strings.TrimSpace(in.Type),
		Parameters:    in.Parameters,
		GeneratedDate: s.now(),
		GeneratedBy:   in.GeneratedBy,
		ReportURL:     in.ReportURL,
		Format:        in.Format,
	}
	if err := s.Repo.CreateReport(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	return s.Repo.ListReports(ctx)
}

func (s *ReportService) Get(ctx context.Context, id uint) (*models.Report, error) {
	rep, err := s.Repo.GetReport(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return rep, nil
}

func (s *ReportService) ByType(ctx context.Context, typ string) ([]models.Report, error) {
	return s.Repo.ListReportsByType(ctx, strings.TrimSpace(typ))
}

func (s *ReportService) ByCreator(ctx context.Context, generatedBy string) ([]models.Report, error) {
	return s.Repo.ListReportsByCreator(ctx, generatedBy)
}

// Update leaves GeneratedDate untouched.
func (s *ReportService) Update(ctx context.Context, id uint, in ReportInput) (*models.Report, error) {
	rep, err := s.Repo.GetReport(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := validateReport(in); err != nil {
		return nil, err
	}

	rep.Type = strings.TrimSpace(in.Type)
	rep.Parameters = in.Parameters
	rep.GeneratedBy = in.GeneratedBy
	rep.ReportURL = in.ReportURL
	rep.Format = in.Format
	if err := s.Repo.SaveReport(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *ReportService) Delete(ctx context.Context, id uint) error {
	return inUse(s.Repo.DeleteReport(ctx, id))
}
