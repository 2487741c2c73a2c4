package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hiring-backend/internal/domain"
	"go-hiring-backend/internal/usecase"
	"go-hiring-backend/pkg/calendly"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	eventURI   = "https://api.calendly.com/scheduled_events/ev-1"
	inviteeURI = "https://api.calendly.com/scheduled_events/ev-1/invitees/inv-1"
)

type bridgeFixture struct {
	interviews   *MockInterviewRepo
	applications *MockApplicationRepo
	jobs         *MockJobRepo
	notifier     *MockNotifier
	replay       *MockReplayCache
	uc           domain.CalendarBridgeUsecase
}

func newBridgeFixture(withReplay bool) *bridgeFixture {
	f := &bridgeFixture{
		interviews:   new(MockInterviewRepo),
		applications: new(MockApplicationRepo),
		jobs:         new(MockJobRepo),
		notifier:     new(MockNotifier),
	}
	var replay domain.WebhookReplayCache
	if withReplay {
		f.replay = new(MockReplayCache)
		replay = f.replay
	}
	f.uc = usecase.NewCalendarBridgeUsecase(f.interviews, f.applications, f.jobs, f.notifier, replay)
	return f
}

func calendlyInterview(status string) *domain.Interview {
	scheduledAt := time.Now().Add(24 * time.Hour)
	uri := eventURI
	return &domain.Interview{
		ID:               101,
		ApplicationID:    7,
		JobID:            3,
		CompanyUserID:    employerID,
		CandidateUserID:  candidateID,
		Status:           status,
		ScheduledAt:      &scheduledAt,
		DurationMinutes:  30,
		Provider:         domain.InterviewProviderCalendly,
		CalendlyEventURI: &uri,
	}
}

func TestHandleEventInviteeCanceled(t *testing.T) {
	ctx := context.Background()

	t.Run("mirrors the cancellation and clears the read-model", func(t *testing.T) {
		f := newBridgeFixture(false)
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(calendlyInterview(domain.InterviewStatusScheduled), nil)
		f.interviews.On("UpdateStatusFrom", ctx, int64(101),
			[]string{domain.InterviewStatusPendingSelection, domain.InterviewStatusScheduled, domain.InterviewStatusInProgress},
			domain.InterviewStatusCancelled, "calendly").Return(nil)
		f.applications.On("ClearInterviewSchedule", ctx, int64(7)).Return(nil)
		f.jobs.On("GetByID", ctx, int64(3)).Return(&domain.Job{ID: 3, Title: "Backend Engineer"}, nil)
		f.notifier.On("Notify", ctx, candidateID, domain.NotificationKindInterviewCancelled,
			mock.Anything, mock.Anything, int64(101), "interview", (*string)(nil)).Return()

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCanceled, eventURI, inviteeURI)
		assert.NoError(t, err)
		f.interviews.AssertExpectations(t)
		f.applications.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("a replayed cancellation is a no-op", func(t *testing.T) {
		f := newBridgeFixture(false)
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(calendlyInterview(domain.InterviewStatusCancelled), nil)

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCanceled, eventURI, inviteeURI)
		assert.NoError(t, err)
		f.interviews.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing the conditional write is absorbed", func(t *testing.T) {
		// Between the read and the write the interview went terminal; the
		// event is still acknowledged
		f := newBridgeFixture(false)
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(calendlyInterview(domain.InterviewStatusCompleted), nil)
		f.interviews.On("UpdateStatusFrom", ctx, int64(101), mock.Anything, domain.InterviewStatusCancelled, "calendly").Return(domain.ErrConflict)

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCanceled, eventURI, inviteeURI)
		assert.NoError(t, err)
		f.applications.AssertNotCalled(t, "ClearInterviewSchedule", mock.Anything, mock.Anything)
	})
}

func TestHandleEventInviteeCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("backfills the invitee identifier", func(t *testing.T) {
		f := newBridgeFixture(false)
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(calendlyInterview(domain.InterviewStatusScheduled), nil)
		f.interviews.On("SetCalendlyInviteeURI", ctx, int64(101), inviteeURI).Return(nil)

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCreated, eventURI, inviteeURI)
		assert.NoError(t, err)
		f.interviews.AssertExpectations(t)
	})

	t.Run("redelivery with the same invitee writes nothing", func(t *testing.T) {
		f := newBridgeFixture(false)
		iv := calendlyInterview(domain.InterviewStatusScheduled)
		known := inviteeURI
		iv.CalendlyInviteeURI = &known
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(iv, nil)

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCreated, eventURI, inviteeURI)
		assert.NoError(t, err)
		f.interviews.AssertNotCalled(t, "SetCalendlyInviteeURI", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleEventInviteeUpdated(t *testing.T) {
	// The provider-side change is not mirrored locally; the candidate is only
	// told to check the scheduling page
	ctx := context.Background()
	f := newBridgeFixture(false)
	f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(calendlyInterview(domain.InterviewStatusScheduled), nil)
	f.jobs.On("GetByID", ctx, int64(3)).Return(&domain.Job{ID: 3, Title: "Backend Engineer"}, nil)
	f.notifier.On("Notify", ctx, candidateID, domain.NotificationKindInterviewUpdated,
		mock.Anything, mock.Anything, int64(101), "interview", (*string)(nil)).Return()

	err := f.uc.HandleEvent(ctx, calendly.EventInviteeUpdated, eventURI, inviteeURI)
	assert.NoError(t, err)
	f.interviews.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.interviews.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertExpectations(t)
}

func TestHandleEventCorrelation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown event URI surfaces not found", func(t *testing.T) {
		f := newBridgeFixture(false)
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(nil, domain.ErrNotFound)

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCanceled, eventURI, inviteeURI)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty event URI is rejected", func(t *testing.T) {
		f := newBridgeFixture(false)
		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCanceled, "", inviteeURI)
		assertAppErrCode(t, err, 400)
	})

	t.Run("unhandled event types are acknowledged", func(t *testing.T) {
		f := newBridgeFixture(false)
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(calendlyInterview(domain.InterviewStatusScheduled), nil)
		err := f.uc.HandleEvent(ctx, "routing_form_submission.created", eventURI, inviteeURI)
		assert.NoError(t, err)
	})
}

func TestHandleEventReplayCache(t *testing.T) {
	ctx := context.Background()

	t.Run("a seen event skips the repository entirely", func(t *testing.T) {
		f := newBridgeFixture(true)
		f.replay.On("MarkSeen", ctx, mock.AnythingOfType("string")).Return(true, nil)

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCanceled, eventURI, inviteeURI)
		assert.NoError(t, err)
		f.interviews.AssertNotCalled(t, "GetByCalendlyEventURI", mock.Anything, mock.Anything)
	})

	t.Run("a cache failure fails open", func(t *testing.T) {
		f := newBridgeFixture(true)
		f.replay.On("MarkSeen", ctx, mock.AnythingOfType("string")).Return(false, errors.New("redis down"))
		f.interviews.On("GetByCalendlyEventURI", ctx, eventURI).Return(calendlyInterview(domain.InterviewStatusScheduled), nil)
		f.interviews.On("SetCalendlyInviteeURI", ctx, int64(101), inviteeURI).Return(nil)

		err := f.uc.HandleEvent(ctx, calendly.EventInviteeCreated, eventURI, inviteeURI)
		assert.NoError(t, err)
		f.interviews.AssertExpectations(t)
	})
}
