package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/models"
)

func (r *GormRepo) CreateReport(ctx context.Context, rep *models.Report) error {
	return translate(r.DB.WithContext(ctx).Create(rep).Error)
}

func (r *GormRepo) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	var rep models.Report
	if err := r.DB.WithContext(ctx).First(&rep, id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *GormRepo) ListReports(ctx context.Context) ([]models.Report, error) {
	return r.findReports(ctx, "")
}

func (r *GormRepo) ListReportsByType(ctx context.Context, typ string) ([]models.Report, error) {
	return r.findReports(ctx, "type = ?", typ)
}

func (r *GormRepo) ListReportsByCreator(ctx context.Context, generatedBy string) ([]models.Report, error) {
	return r.findReports(ctx, "generated_by = ?", generatedBy)
}

func (r *GormRepo) findReports(ctx context.Context, where string, args ...any) ([]models.Report, error) {
	q := r.DB.WithContext(ctx)
	if where != "" {
		q = q.Where(where, args...)
	}
	var items []models.Report
	if err := q.Order("generated_date DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveReport(ctx context.Context, rep *models.Report) error {
	return translate(r.DB.WithContext(ctx).Save(rep).Error)
}

func (r *GormRepo) DeleteReport(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Report{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
