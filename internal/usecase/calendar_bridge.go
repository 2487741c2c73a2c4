package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-hiring-backend/internal/domain"
	"go-hiring-backend/pkg/apperror"
	"go-hiring-backend/pkg/calendly"
	"go-hiring-backend/pkg/logger"
)

type calendarBridgeUsecase struct {
	interviewRepo   domain.InterviewRepository
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	notifier        domain.Notifier
	replay          domain.WebhookReplayCache // nil when Redis is not configured
}

// NewCalendarBridgeUsecase creates the webhook reconciliation usecase.
// replay may be nil; the bridge then relies on the state machine alone for
// idempotency.
func NewCalendarBridgeUsecase(
	interviewRepo domain.InterviewRepository,
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	notifier domain.Notifier,
	replay domain.WebhookReplayCache,
) domain.CalendarBridgeUsecase {
	return &calendarBridgeUsecase{
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		notifier:        notifier,
		replay:          replay,
	}
}

// HandleEvent reconciles one provider event against the interview it
// correlates to. The provider gives no ordering guarantee, so every branch
// tolerates out-of-order and repeated delivery.
func (u *calendarBridgeUsecase) HandleEvent(ctx context.Context, eventType, eventURI, inviteeURI string) error {
	if eventURI == "" {
		return apperror.BadRequest("Event URI is required")
	}

	if u.replay != nil {
		seen, err := u.replay.MarkSeen(ctx, fmt.Sprintf("%s:%s:%s", eventType, eventURI, inviteeURI))
		if err != nil {
			// Fail open: the state machine absorbs the replay
			logger.Log.Warn("webhook replay cache unavailable", "error", err)
		} else if seen {
			logger.Log.Info("webhook event replayed, skipping", "event", eventType, "event_uri", eventURI)
			return nil
		}
	}

	iv, err := u.interviewRepo.GetByCalendlyEventURI(ctx, eventURI)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Not ours; the caller acknowledges anyway
			return domain.ErrNotFound
		}
		return apperror.Internal(err)
	}

	switch eventType {
	case calendly.EventInviteeCreated:
		return u.handleInviteeCreated(ctx, iv, inviteeURI)
	case calendly.EventInviteeCanceled:
		return u.handleInviteeCanceled(ctx, iv)
	case calendly.EventInviteeUpdated:
		return u.handleInviteeUpdated(ctx, iv)
	default:
		logger.Log.Warn("unhandled calendly event type", "event", eventType, "interview_id", iv.ID)
		return nil
	}
}

// handleInviteeCreated confirms the externally created event is live and
// back-fills the invitee identifier for later correlation.
func (u *calendarBridgeUsecase) handleInviteeCreated(ctx context.Context, iv *domain.Interview, inviteeURI string) error {
	if inviteeURI == "" {
		logger.Log.Warn("invitee.created without invitee_uri", "interview_id", iv.ID)
		return nil
	}
	if iv.CalendlyInviteeURI != nil && *iv.CalendlyInviteeURI == inviteeURI {
		return nil
	}
	if err := u.interviewRepo.SetCalendlyInviteeURI(ctx, iv.ID, inviteeURI); err != nil {
		return apperror.Internal(err)
	}
	logger.Log.Info("calendly invitee confirmed", "interview_id", iv.ID, "invitee_uri", inviteeURI)
	return nil
}

// handleInviteeCanceled mirrors the provider-side cancellation locally.
// Cancelling an already-cancelled interview is a harmless no-op.
func (u *calendarBridgeUsecase) handleInviteeCanceled(ctx context.Context, iv *domain.Interview) error {
	if iv.Status == domain.InterviewStatusCancelled {
		return nil
	}

	allowedFrom := []string{
		domain.InterviewStatusPendingSelection,
		domain.InterviewStatusScheduled,
		domain.InterviewStatusInProgress,
	}
	if err := u.interviewRepo.UpdateStatusFrom(ctx, iv.ID, allowedFrom, domain.InterviewStatusCancelled, "calendly"); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Already terminal by the time the event arrived
			return nil
		}
		return apperror.Internal(err)
	}

	if err := u.applicationRepo.ClearInterviewSchedule(ctx, iv.ApplicationID); err != nil {
		logger.Log.Error("application read-model clear failed", "application_id", iv.ApplicationID, "error", err)
	}

	u.notifier.Notify(ctx, iv.CandidateUserID, domain.NotificationKindInterviewCancelled,
		"Interview cancelled",
		fmt.Sprintf("The interview for %s was cancelled through the scheduling provider.", u.bridgeJobTitle(ctx, iv.JobID)),
		iv.ID, "interview", nil)
	return nil
}

// handleInviteeUpdated only informs the candidate. The provider-side change
// is not mirrored onto local fields; the parties reconcile details on the
// provider's page.
func (u *calendarBridgeUsecase) handleInviteeUpdated(ctx context.Context, iv *domain.Interview) error {
	logger.Log.Info("calendly invitee updated", "interview_id", iv.ID)
	u.notifier.Notify(ctx, iv.CandidateUserID, domain.NotificationKindInterviewUpdated,
		"Interview details changed",
		fmt.Sprintf("The details of your interview for %s changed. Check the scheduling page for the latest.", u.bridgeJobTitle(ctx, iv.JobID)),
		iv.ID, "interview", nil)
	return nil
}

func (u *calendarBridgeUsecase) bridgeJobTitle(ctx context.Context, jobID int64) string {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil || job.Title == "" {
		return "this position"
	}
	return job.Title
}
