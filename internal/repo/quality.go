package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/models"
)

func (r *GormRepo) CreateQuality(ctx context.Context, q *models.Quality) error {
	return translate(r.DB.WithContext(ctx).Omit("Project").Create(q).Error)
}

func (r *GormRepo) GetQuality(ctx context.Context, id uint) (*models.Quality, error) {
	var q models.Quality
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *GormRepo) ListQualities(ctx context.Context) ([]models.Quality, error) {
	var items []models.Quality
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListQualitiesByProject returns the newest snapshot first.
func (r *GormRepo) ListQualitiesByProject(ctx context.Context, projectID uint) ([]models.Quality, error) {
	var items []models.Quality
	if err := r.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("calculated_date DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveQuality(ctx context.Context, q *models.Quality) error {
	return translate(r.DB.WithContext(ctx).Omit("Project").Save(q).Error)
}

func (r *GormRepo) DeleteQuality(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Quality{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
