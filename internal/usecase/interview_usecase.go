package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-hiring-backend/internal/domain"
	"go-hiring-backend/pkg/apperror"
	"go-hiring-backend/pkg/logger"
	"go-hiring-backend/pkg/room"
	"go-hiring-backend/pkg/timezone"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// fallbackTimezone is used when a candidate never recorded a preference.
const fallbackTimezone = "UTC"

type interviewUsecase struct {
	interviewRepo   domain.InterviewRepository
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	notifier        domain.Notifier
	validate        *validator.Validate
	frontendURL     string
}

// NewInterviewUsecase creates a new interview usecase
func NewInterviewUsecase(
	interviewRepo domain.InterviewRepository,
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	notifier domain.Notifier,
	validate *validator.Validate,
	frontendURL string,
) domain.InterviewUsecase {
	return &interviewUsecase{
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		notifier:        notifier,
		validate:        validate,
		frontendURL:     frontendURL,
	}
}

// ProposeSlots opens the negotiation path: the hiring party offers 1-5
// candidate time slots and the interview starts in pending_selection with no
// fixed time.
func (u *interviewUsecase) ProposeSlots(ctx context.Context, companyUserID string, in domain.ProposeSlotsInput) (*domain.NegotiationSummary, error) {
	// 1. Structural validation (count 1-5, zone known)
	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	// 2. Per-slot rules: fixed duration enumeration, strictly future instants
	now := time.Now()
	for _, s := range in.Slots {
		if !domain.AllowedSlotDurations[s.DurationMinutes] {
			return nil, apperror.BadRequest("Slot duration must be 15, 30, 45 or 60 minutes")
		}
		if !s.StartAt.After(now) {
			return nil, apperror.BadRequest("Slot times must be in the future")
		}
	}
	if in.SelectionDeadline != nil && !in.SelectionDeadline.After(now) {
		return nil, apperror.BadRequest("Selection deadline must be in the future")
	}

	// 3. Ownership and booking guards
	app, err := u.authorizeCompany(ctx, companyUserID, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if err := u.guardNoActiveInterview(ctx, app.ID); err != nil {
		return nil, err
	}
	if err := u.guardCandidateNotMidInterview(ctx, app.CandidateUserID, now); err != nil {
		return nil, err
	}

	// 4. Build the aggregate; each slot gets its own identifier so the
	// candidate can select one out of the set
	slots := make([]domain.TimeSlot, 0, len(in.Slots))
	for _, s := range in.Slots {
		slots = append(slots, domain.TimeSlot{
			ID:              uuid.NewString(),
			StartAt:         s.StartAt,
			DurationMinutes: s.DurationMinutes,
			Timezone:        in.Timezone,
		})
	}

	slug := room.GenerateSlug()
	iv := &domain.Interview{
		ApplicationID:      app.ID,
		JobID:              app.JobID,
		CompanyID:          app.CompanyID,
		CandidateID:        app.CandidateID,
		CompanyUserID:      companyUserID,
		CandidateUserID:    app.CandidateUserID,
		DurationMinutes:    slots[0].DurationMinutes, // placeholder until a selection narrows it
		Status:             domain.InterviewStatusPendingSelection,
		SuggestedTimeSlots: slots,
		CompanyTimezone:    in.Timezone,
		SelectionDeadline:  in.SelectionDeadline,
		RoomSlug:           slug,
		RoomURL:            room.BuildURL(u.frontendURL, slug),
		Provider:           domain.InterviewProviderRoom,
		CreatedBy:          companyUserID,
		UpdatedBy:          companyUserID,
	}
	if err := u.interviewRepo.Create(ctx, iv); err != nil {
		return nil, apperror.Internal(err)
	}

	// 5. Read-model sync: the application shows as interviewed, but no join
	// link is distributed before a time exists
	u.syncApplication(ctx, app.ID, iv.ID, nil, "", iv.RoomSlug)

	// 6. Best-effort notification, deadline rendered in the candidate's frame
	// of reference is impossible here (no zone recorded yet), so the title
	// carries the slot count only
	jobTitle := u.jobTitle(ctx, app.JobID)
	u.notifier.Notify(ctx, app.CandidateUserID, domain.NotificationKindInterviewProposed,
		"Interview times proposed",
		fmt.Sprintf("You have %d proposed time slots for %s. Pick the one that works for you.", len(slots), jobTitle),
		iv.ID, "interview", nil)

	return &domain.NegotiationSummary{
		InterviewID:       iv.ID,
		Status:            iv.Status,
		Slots:             iv.SuggestedTimeSlots,
		SelectionDeadline: iv.SelectionDeadline,
		RoomSlug:          iv.RoomSlug,
	}, nil
}

// SelectSlot commits the candidate to one proposed slot. The write is
// conditional on the interview still being pending_selection, so concurrent
// selections cannot both succeed.
func (u *interviewUsecase) SelectSlot(ctx context.Context, candidateUserID string, interviewID int64, slotID, candidateTZ string) (*domain.Interview, error) {
	if candidateTZ == "" {
		// No recorded preference; assume UTC for display
		candidateTZ = fallbackTimezone
	} else if err := timezone.Validate(candidateTZ); err != nil {
		return nil, apperror.BadRequest("Unknown timezone identifier")
	}

	iv, err := u.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Interview not found")
		}
		return nil, apperror.Internal(err)
	}
	if iv.CandidateUserID != candidateUserID {
		return nil, apperror.Forbidden("This interview does not belong to you")
	}
	if iv.Status != domain.InterviewStatusPendingSelection {
		return nil, apperror.Conflict("Interview is no longer pending selection")
	}

	slot := iv.SlotByID(slotID)
	if slot == nil {
		return nil, apperror.BadRequest("Selected slot is not among the proposed slots")
	}
	now := time.Now()
	if !slot.StartAt.After(now) {
		return nil, apperror.BadRequest("Selected slot is already in the past")
	}

	selected := domain.SelectedSlot{TimeSlot: *slot, SelectedAt: now}
	if err := u.interviewRepo.SelectSlot(ctx, iv.ID, selected, candidateTZ, candidateUserID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the race against a concurrent selection or cancellation
			return nil, apperror.Conflict("Interview is no longer pending selection")
		}
		return nil, apperror.Internal(err)
	}

	iv.SelectedTimeSlot = &selected
	iv.ScheduledAt = &selected.StartAt
	iv.DurationMinutes = selected.DurationMinutes
	iv.Status = domain.InterviewStatusScheduled
	iv.GraduateTimezone = candidateTZ
	iv.UpdatedBy = candidateUserID

	u.syncApplication(ctx, iv.ApplicationID, iv.ID, iv.ScheduledAt, iv.RoomURL, iv.RoomSlug)

	// Each party is told the time in their own zone
	jobTitle := u.jobTitle(ctx, iv.JobID)
	u.notifier.Notify(ctx, iv.CandidateUserID, domain.NotificationKindInterviewScheduled,
		"Interview confirmed",
		fmt.Sprintf("Your interview for %s is confirmed for %s.", jobTitle, u.formatFor(selected.StartAt, candidateTZ)),
		iv.ID, "interview", nil)
	u.notifier.Notify(ctx, iv.CompanyUserID, domain.NotificationKindInterviewScheduled,
		"Interview time selected",
		fmt.Sprintf("The candidate picked %s for the %s interview.", u.formatFor(selected.StartAt, iv.CompanyTimezone), jobTitle),
		iv.ID, "interview", nil)

	return iv, nil
}

// ScheduleDirect is the legacy single-time path: create the interview already
// scheduled, or move the time of an existing scheduled one. A reschedule
// reuses the room slug so previously shared links stay valid.
func (u *interviewUsecase) ScheduleDirect(ctx context.Context, companyUserID string, in domain.ScheduleDirectInput) (*domain.Interview, error) {
	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	app, err := u.authorizeCompany(ctx, companyUserID, in.ApplicationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := u.guardCandidateNotMidInterview(ctx, app.CandidateUserID, now); err != nil {
		return nil, err
	}

	existing, err := u.interviewRepo.GetActiveByApplicationID(ctx, app.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	if existing != nil {
		if existing.Status != domain.InterviewStatusScheduled {
			return nil, apperror.Conflict("An interview for this application is already underway")
		}
		if err := u.interviewRepo.Reschedule(ctx, existing.ID, in.ScheduledAt, in.DurationMinutes, companyUserID); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, apperror.Conflict("Interview can no longer be rescheduled")
			}
			return nil, apperror.Internal(err)
		}
		existing.ScheduledAt = &in.ScheduledAt
		existing.DurationMinutes = in.DurationMinutes
		existing.UpdatedBy = companyUserID

		u.syncApplication(ctx, app.ID, existing.ID, existing.ScheduledAt, existing.RoomURL, existing.RoomSlug)
		u.notifier.Notify(ctx, app.CandidateUserID, domain.NotificationKindInterviewUpdated,
			"Interview rescheduled",
			fmt.Sprintf("Your interview for %s was moved to %s.", u.jobTitle(ctx, app.JobID), u.formatFor(in.ScheduledAt, existing.GraduateTimezone)),
			existing.ID, "interview", nil)
		return existing, nil
	}

	slug := room.GenerateSlug()
	iv := &domain.Interview{
		ApplicationID:   app.ID,
		JobID:           app.JobID,
		CompanyID:       app.CompanyID,
		CandidateID:     app.CandidateID,
		CompanyUserID:   companyUserID,
		CandidateUserID: app.CandidateUserID,
		ScheduledAt:     &in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Status:          domain.InterviewStatusScheduled,
		CompanyTimezone: in.Timezone,
		RoomSlug:        slug,
		RoomURL:         room.BuildURL(u.frontendURL, slug),
		Provider:        domain.InterviewProviderRoom,
		CreatedBy:       companyUserID,
		UpdatedBy:       companyUserID,
	}
	if err := u.interviewRepo.Create(ctx, iv); err != nil {
		return nil, apperror.Internal(err)
	}

	u.syncApplication(ctx, app.ID, iv.ID, iv.ScheduledAt, iv.RoomURL, iv.RoomSlug)
	u.notifier.Notify(ctx, app.CandidateUserID, domain.NotificationKindInterviewScheduled,
		"Interview scheduled",
		fmt.Sprintf("Your interview for %s is set for %s.", u.jobTitle(ctx, app.JobID), u.formatFor(in.ScheduledAt, fallbackTimezone)),
		iv.ID, "interview", nil)

	return iv, nil
}

// GetBySlug is the public-link read, restricted to the two named parties.
// Reading also lazily completes the interview when its scheduled end passed.
func (u *interviewUsecase) GetBySlug(ctx context.Context, accountID, slug string) (*domain.InterviewDetail, error) {
	iv, err := u.interviewRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Interview not found")
		}
		return nil, apperror.Internal(err)
	}
	// A slug is unguessable but still public; non-parties learn nothing
	if !iv.IsParty(accountID) {
		return nil, apperror.NotFound("Interview not found")
	}

	iv = u.sweepOnRead(ctx, iv)

	detail := &domain.InterviewDetail{Interview: iv}
	if iv.ScheduledAt != nil {
		display, err := timezone.DualDisplay(*iv.ScheduledAt, iv.DurationMinutes,
			zoneOrUTC(iv.CompanyTimezone), zoneOrUTC(iv.GraduateTimezone))
		if err == nil {
			detail.Display = display
		} else {
			logger.Log.Warn("dual timezone display failed", "interview_id", iv.ID, "error", err)
		}
	}
	return detail, nil
}

// GetForApplication returns the application's current (non-terminal) interview.
func (u *interviewUsecase) GetForApplication(ctx context.Context, accountID string, applicationID int64) (*domain.Interview, error) {
	app, err := u.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	if app.CompanyUserID != accountID && app.CandidateUserID != accountID {
		return nil, apperror.NotFound("Application not found")
	}

	iv, err := u.interviewRepo.GetActiveByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("No interview for this application")
		}
		return nil, apperror.Internal(err)
	}
	return u.sweepOnRead(ctx, iv), nil
}

// ListForOwner lists an owner's interviews, running the lazy lifecycle sweep
// first so elapsed interviews read as completed.
func (u *interviewUsecase) ListForOwner(ctx context.Context, accountID, role string, f domain.InterviewFilter) ([]domain.Interview, error) {
	if accountID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	now := time.Now()
	switch role {
	case "employer", "admin":
		if _, err := u.interviewRepo.CompleteElapsedForCompany(ctx, accountID, now); err != nil {
			return nil, apperror.Internal(err)
		}
		interviews, err := u.interviewRepo.ListForCompany(ctx, accountID, f)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return interviews, nil
	case "candidate":
		if _, err := u.interviewRepo.CompleteElapsedForCandidate(ctx, accountID, now); err != nil {
			return nil, apperror.Internal(err)
		}
		interviews, err := u.interviewRepo.ListForCandidate(ctx, accountID, f)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return interviews, nil
	default:
		return nil, apperror.Forbidden("Unknown role")
	}
}

// UpdateStatus applies a manual status edit by either party or an admin.
func (u *interviewUsecase) UpdateStatus(ctx context.Context, accountID, role string, interviewID int64, status string) error {
	switch status {
	case domain.InterviewStatusInProgress, domain.InterviewStatusCompleted, domain.InterviewStatusCancelled:
	default:
		return apperror.BadRequest("Status must be: in_progress, completed, or cancelled")
	}

	iv, err := u.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Interview not found")
		}
		return apperror.Internal(err)
	}
	if !iv.IsParty(accountID) && role != "admin" {
		return apperror.NotFound("Interview not found")
	}
	if !domain.CanTransition(iv.Status, status) {
		return apperror.Conflict(fmt.Sprintf("Cannot move a %s interview to %s", iv.Status, status))
	}

	// Condition on the status we just read so a concurrent edit loses cleanly
	if err := u.interviewRepo.UpdateStatusFrom(ctx, iv.ID, []string{iv.Status}, status, accountID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return apperror.Conflict("Interview status changed concurrently")
		}
		return apperror.Internal(err)
	}

	if status == domain.InterviewStatusCancelled {
		if err := u.applicationRepo.ClearInterviewSchedule(ctx, iv.ApplicationID); err != nil {
			logger.Log.Error("application read-model clear failed", "application_id", iv.ApplicationID, "error", err)
		}
		// Tell the other party
		other := iv.CandidateUserID
		if accountID == iv.CandidateUserID {
			other = iv.CompanyUserID
		}
		u.notifier.Notify(ctx, other, domain.NotificationKindInterviewCancelled,
			"Interview cancelled",
			fmt.Sprintf("The interview for %s was cancelled.", u.jobTitle(ctx, iv.JobID)),
			iv.ID, "interview", nil)
	}
	return nil
}

// MarkStarted records the observed start of the interview.
func (u *interviewUsecase) MarkStarted(ctx context.Context, accountID string, interviewID int64) error {
	iv, err := u.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Interview not found")
		}
		return apperror.Internal(err)
	}
	if !iv.IsParty(accountID) {
		return apperror.NotFound("Interview not found")
	}
	if iv.Status != domain.InterviewStatusScheduled {
		return apperror.Conflict("Only a scheduled interview can be started")
	}
	if err := u.interviewRepo.MarkStarted(ctx, iv.ID, time.Now(), accountID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return apperror.Conflict("Interview status changed concurrently")
		}
		return apperror.Internal(err)
	}
	return nil
}

// UpdateNotes lets either party annotate a non-terminal interview.
func (u *interviewUsecase) UpdateNotes(ctx context.Context, accountID string, interviewID int64, notes string) error {
	iv, err := u.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Interview not found")
		}
		return apperror.Internal(err)
	}
	if !iv.IsParty(accountID) {
		return apperror.NotFound("Interview not found")
	}
	if iv.IsTerminal() {
		return apperror.Conflict("Interview is already closed")
	}
	if err := u.interviewRepo.UpdateNotes(ctx, iv.ID, notes, accountID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return apperror.Conflict("Interview is already closed")
		}
		return apperror.Internal(err)
	}
	return nil
}

// authorizeCompany checks the application exists and belongs to the caller.
func (u *interviewUsecase) authorizeCompany(ctx context.Context, companyUserID string, applicationID int64) (*domain.Application, error) {
	app, err := u.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found")
		}
		return nil, apperror.Internal(err)
	}
	if app.CompanyUserID != companyUserID {
		return nil, apperror.Forbidden("This application does not belong to your company")
	}
	return app, nil
}

func (u *interviewUsecase) guardNoActiveInterview(ctx context.Context, applicationID int64) error {
	existing, err := u.interviewRepo.GetActiveByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return apperror.Internal(err)
	}
	if existing != nil {
		return apperror.Conflict("An interview already exists for this application")
	}
	return nil
}

// guardCandidateNotMidInterview rejects booking a candidate whose current
// interview has started but not yet completed. The sweep runs first so an
// elapsed interview that was never read does not block the candidate forever.
func (u *interviewUsecase) guardCandidateNotMidInterview(ctx context.Context, candidateUserID string, now time.Time) error {
	if _, err := u.interviewRepo.CompleteElapsedForCandidate(ctx, candidateUserID, now); err != nil {
		logger.Log.Warn("pre-booking completion sweep failed", "candidate_user_id", candidateUserID, "error", err)
	}
	ongoing, err := u.interviewRepo.HasOngoingForCandidate(ctx, candidateUserID, now)
	if err != nil {
		return apperror.Internal(err)
	}
	if ongoing {
		return apperror.Conflict("Candidate is currently in another interview")
	}
	return nil
}

// sweepOnRead lazily completes the record when its scheduled end has passed.
func (u *interviewUsecase) sweepOnRead(ctx context.Context, iv *domain.Interview) *domain.Interview {
	if iv.Status != domain.InterviewStatusScheduled && iv.Status != domain.InterviewStatusInProgress {
		return iv
	}
	end, ok := iv.EndsAt()
	if !ok || time.Now().Before(end) {
		return iv
	}
	if _, err := u.interviewRepo.CompleteElapsedForCompany(ctx, iv.CompanyUserID, time.Now()); err != nil {
		logger.Log.Warn("lazy completion sweep failed", "interview_id", iv.ID, "error", err)
		return iv
	}
	if fresh, err := u.interviewRepo.GetByID(ctx, iv.ID); err == nil {
		return fresh
	}
	return iv
}

func (u *interviewUsecase) syncApplication(ctx context.Context, applicationID, interviewID int64, scheduledAt *time.Time, link, slug string) {
	if err := u.applicationRepo.SetInterviewSchedule(ctx, applicationID, interviewID, scheduledAt, link, slug); err != nil {
		logger.Log.Error("application read-model sync failed", "application_id", applicationID, "error", err)
	}
}

func (u *interviewUsecase) jobTitle(ctx context.Context, jobID int64) string {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil || job.Title == "" {
		return "this position"
	}
	return job.Title
}

// formatFor renders an instant in the recipient's zone, falling back to UTC
// when no zone was ever recorded.
func (u *interviewUsecase) formatFor(t time.Time, zone string) string {
	formatted, err := timezone.FormatInZone(t, zoneOrUTC(zone), timezone.DateTimeZone)
	if err != nil {
		return t.UTC().Format("Jan 2, 2006 at 3:04 PM UTC")
	}
	return formatted
}

func zoneOrUTC(zone string) string {
	if zone == "" {
		return fallbackTimezone
	}
	return zone
}
