package domain

import (
	"context"
	"time"
)

// Notification kinds emitted by the interview engine.
const (
	NotificationKindInterviewProposed  = "interview_proposed"
	NotificationKindInterviewScheduled = "interview_scheduled"
	NotificationKindInterviewUpdated   = "interview_updated"
	NotificationKindInterviewCancelled = "interview_cancelled"
)

type Notification struct {
	ID          int64      `json:"id"`
	AccountID   string     `json:"account_id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	RelatedID   *int64     `json:"related_id,omitempty"`
	RelatedKind *string    `json:"related_kind,omitempty"`
	Email       *string    `json:"email,omitempty"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListForAccount(ctx context.Context, accountID string, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, accountID string, id int64) error
}

// Notifier is the fire-and-forget side channel informed of every interview
// state transition. It never drives state and its failures never propagate
// to the caller.
type Notifier interface {
	Notify(ctx context.Context, accountID, kind, title, message string, relatedID int64, relatedKind string, email *string)
}

// NotificationUsecase is the slim read API over dispatched notifications.
type NotificationUsecase interface {
	ListMine(ctx context.Context, accountID string, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, accountID string, id int64) error
}
