package usecase

import (
	"context"

	"go-hiring-backend/internal/domain"
	"go-hiring-backend/pkg/apperror"
	"go-hiring-backend/pkg/logger"
)

type notificationDispatcher struct {
	repo domain.NotificationRepository
}

// NewNotificationDispatcher creates the fire-and-forget notification sink.
// Dispatch failures are logged and swallowed; the state transition that
// triggered the notification already succeeded and must not be rolled back.
func NewNotificationDispatcher(repo domain.NotificationRepository) domain.Notifier {
	return &notificationDispatcher{repo: repo}
}

func (d *notificationDispatcher) Notify(ctx context.Context, accountID, kind, title, message string, relatedID int64, relatedKind string, email *string) {
	n := &domain.Notification{
		AccountID:   accountID,
		Kind:        kind,
		Title:       title,
		Message:     message,
		RelatedID:   &relatedID,
		RelatedKind: &relatedKind,
		Email:       email,
	}
	if err := d.repo.Create(ctx, n); err != nil {
		logger.Log.Error("notification dispatch failed",
			"account_id", accountID, "kind", kind, "error", err)
	}
}

type notificationUsecase struct {
	repo domain.NotificationRepository
}

// NewNotificationUsecase creates the read API over dispatched notifications
func NewNotificationUsecase(repo domain.NotificationRepository) domain.NotificationUsecase {
	return &notificationUsecase{repo: repo}
}

func (u *notificationUsecase) ListMine(ctx context.Context, accountID string, limit, offset int) ([]domain.Notification, error) {
	if accountID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	notifications, err := u.repo.ListForAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return notifications, nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, accountID string, id int64) error {
	if accountID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if err := u.repo.MarkRead(ctx, accountID, id); err != nil {
		if err == domain.ErrNotFound {
			return apperror.NotFound("Notification not found")
		}
		return apperror.Internal(err)
	}
	return nil
}
