package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bug_tracker/internal/models"
)

// BugSortColumns whitelists the sortBy values accepted by ListBugs.
var BugSortColumns = map[string]string{
	"bugId":       "id",
	"title":       "title",
	"priority":    "priority",
	"createdDate": "created_date",
	"projectId":   "project_id",
}

func (r *GormRepo) CreateBug(ctx context.Context, b *models.Bug) error {
	return translate(r.DB.WithContext(ctx).Omit("Project").Create(b).Error)
}

func (r *GormRepo) GetBug(ctx context.Context, id uint) (*models.Bug, error) {
	var b models.Bug
	if err := r.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBugs returns one page of bugs ordered by sortBy; unknown columns fall back to id.
func (r *GormRepo) ListBugs(ctx context.Context, offset, limit int, sortBy string, desc bool) (int64, []models.Bug, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Bug{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	col, ok := BugSortColumns[sortBy]
	if !ok {
		col = "id"
	}

	var items []models.Bug
	if err := r.DB.WithContext(ctx).
		Model(&models.Bug{}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}).
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) ListBugsByProject(ctx context.Context, projectID uint) ([]models.Bug, error) {
	var items []models.Bug
	if err := r.DB.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListBugsByPriority(ctx context.Context, p models.Priority) ([]models.Bug, error) {
	var items []models.Bug
	if err := r.DB.WithContext(ctx).
		Where("priority = ?", p).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveBug(ctx context.Context, b *models.Bug) error {
	return translate(r.DB.WithContext(ctx).Omit("Project").Save(b).Error)
}

func (r *GormRepo) DeleteBug(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Bug{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
