package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
)

type NotificationService struct {
	Repo *repo.GormRepo
}

type NotificationInput struct {
	UserID  uint
	Type    string
	Message string
	IsRead  bool
}

func (s *NotificationService) validate(ctx context.Context, in NotificationInput) error {
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: type and message required", ErrValidation)
	}
	if _, err := s.Repo.GetUserByID(ctx, in.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d not found", ErrValidation, in.UserID)
		}
		return err
	}
	return nil
}

func (s *NotificationService) Create(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	n := &models.Notification{UserID: in.UserID, Type: in.Type, Message: in.Message, IsRead: in.IsRead}
	if err := s.Repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	return s.Repo.ListNotifications(ctx)
}

func (s *NotificationService) Get(ctx context.Context, id uint) (*models.Notification, error) {
	n, err := s.Repo.GetNotification(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

// ByUser returns an empty list for an unknown user.
func (s *NotificationService) ByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.Repo.ListNotificationsByUser(ctx, userID)
}

func (s *NotificationService) Update(ctx context.Context, id uint, in NotificationInput) (*models.Notification, error) {
	n, err := s.Repo.GetNotification(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}

	n.UserID = in.UserID
	n.Type = in.Type
	n.Message = in.Message
	n.IsRead = in.IsRead
	if err := s.Repo.SaveNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return inUse(s.Repo.DeleteNotification(ctx, id))
}
