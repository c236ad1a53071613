package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/models"
)

func (r *GormRepo) CreateProject(ctx context.Context, p *models.Project) error {
	return translate(r.DB.WithContext(ctx).Omit("Manager").Create(p).Error)
}

func (r *GormRepo) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListProjects(ctx context.Context) ([]models.Project, error) {
	var items []models.Project
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProjectsByManager(ctx context.Context, managerID uint) ([]models.Project, error) {
	var items []models.Project
	if err := r.DB.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveProject(ctx context.Context, p *models.Project) error {
	return translate(r.DB.WithContext(ctx).Omit("Manager").Save(p).Error)
}

func (r *GormRepo) DeleteProject(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
