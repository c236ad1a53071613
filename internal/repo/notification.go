package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/models"
)

func (r *GormRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return translate(r.DB.WithContext(ctx).Omit("User").Create(n).Error)
}

func (r *GormRepo) GetNotification(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.DB.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *GormRepo) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var items []models.Notification
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListNotificationsByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	var items []models.Notification
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveNotification(ctx context.Context, n *models.Notification) error {
	return translate(r.DB.WithContext(ctx).Omit("User").Save(n).Error)
}

func (r *GormRepo) DeleteNotification(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
