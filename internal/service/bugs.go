package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/mykafka"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
	"github.com/Skotchmaster/bug_tracker/internal/search"
)

var ErrSearchDisabled = errors.New("search is not configured") // 503

type BugIndexer interface {
	IndexBug(ctx context.Context, b *models.Bug) error
	DeleteBug(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []search.BugDocument, error)
}

type BugService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	// Index is nil when Elasticsearch is not configured.
	Index BugIndexer
	Now   func() time.Time
}

type BugInput struct {
	Title       string
	Description string
	Priority    string
	ProjectID   uint
}

func (s *BugService) today() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *BugService) validate(ctx context.Context, in BugInput) (models.Priority, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", fmt.Errorf("%w: title required", ErrValidation)
	}

	priority := models.PriorityMedium
	if strings.TrimSpace(in.Priority) != "" {
		p, ok := models.ParsePriority(in.Priority)
		if !ok {
			return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
		}
		priority = p
	}

	if _, err := s.Repo.GetProject(ctx, in.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: project %d not found", ErrValidation, in.ProjectID)
		}
		return "", err
	}
	return priority, nil
}

func (s *BugService) reindex(ctx context.Context, b *models.Bug) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBug(ctx, b); err != nil {
		logging.FromContext(ctx).Warn("bug_index_failed", "bug_id", b.ID, "error", err)
	}
}

func (s *BugService) Create(ctx context.Context, in BugInput) (*models.Bug, error) {
	priority, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	b := &models.Bug{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Priority:    priority,
		ProjectID:   in.ProjectID,
		CreatedDate: s.today(),
	}
	if err := s.Repo.CreateBug(ctx, b); err != nil {
		return nil, err
	}

	s.reindex(ctx, b)
	publish(ctx, s.Events, mykafka.TopicBugEvents, fmt.Sprint(b.ID), map[string]any{
		"type":       "bug_created",
		"bug_id":     b.ID,
		"project_id": b.ProjectID,
		"priority":   b.Priority,
	})
	return b, nil
}

func (s *BugService) List(ctx context.Context, offset, limit int, sortBy string, desc bool) (int64, []models.Bug, error) {
	return s.Repo.ListBugs(ctx, offset, limit, sortBy, desc)
}

func (s *BugService) Get(ctx context.Context, id uint) (*models.Bug, error) {
	b, err := s.Repo.GetBug(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (s *BugService) ByProject(ctx context.Context, projectID uint) ([]models.Bug, error) {
	return s.Repo.ListBugsByProject(ctx, projectID)
}

func (s *BugService) ByPriority(ctx context.Context, priority string) ([]models.Bug, error) {
	p, ok := models.ParsePriority(priority)
	if !ok {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}
	return s.Repo.ListBugsByPriority(ctx, p)
}

func (s *BugService) Update(ctx context.Context, id uint, in BugInput) (*models.Bug, error) {
	b, err := s.Repo.GetBug(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	priority, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	b.Title = strings.TrimSpace(in.Title)
	b.Description = in.Description
	b.Priority = priority
	b.ProjectID = in.ProjectID
	if err := s.Repo.SaveBug(ctx, b); err != nil {
		return nil, err
	}

	s.reindex(ctx, b)
	publish(ctx, s.Events, mykafka.TopicBugEvents, fmt.Sprint(b.ID), map[string]any{
		"type":     "bug_updated",
		"bug_id":   b.ID,
		"priority": b.Priority,
	})
	return b, nil
}

func (s *BugService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteBug(ctx, id); err != nil {
		return inUse(err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteBug(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("bug_unindex_failed", "bug_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicBugEvents, fmt.Sprint(id), map[string]any{
		"type":   "bug_deleted",
		"bug_id": id,
	})
	return nil
}

func (s *BugService) Search(ctx context.Context, query string, from, size int) (int64, []search.BugDocument, error) {
	if s.Index == nil {
		return 0, nil, ErrSearchDisabled
	}
	if strings.TrimSpace(query) == "" {
		return 0, nil, fmt.Errorf("%w: q required", ErrValidation)
	}
	return s.Index.Search(ctx, query, from, size)
}
