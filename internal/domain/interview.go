package domain

import (
	"context"
	"time"
)

// Interview status state machine.
// pending_selection → scheduled → in_progress → completed
// pending_selection/scheduled/in_progress → cancelled
// completed and cancelled are terminal.
const (
	InterviewStatusPendingSelection = "pending_selection"
	InterviewStatusScheduled        = "scheduled"
	InterviewStatusInProgress       = "in_progress"
	InterviewStatusCompleted        = "completed"
	InterviewStatusCancelled        = "cancelled"
)

// Interview providers. A room interview is held in the in-house video room;
// a calendly interview's lifecycle is driven by provider webhooks.
const (
	InterviewProviderRoom     = "room"
	InterviewProviderCalendly = "calendly"
)

// Negotiation limits
const (
	MaxSuggestedSlots = 5
	// Direct scheduling accepts any duration in this range
	MinDurationMinutes = 15
	MaxDurationMinutes = 240
)

// AllowedSlotDurations is the fixed duration enumeration for proposed slots.
var AllowedSlotDurations = map[int]bool{15: true, 30: true, 45: true, 60: true}

// TimeSlot is one proposed point-in-time + duration pair. StartAt is an
// absolute instant; Timezone is the proposer's zone, carried for display only.
type TimeSlot struct {
	ID              string    `json:"id"`
	StartAt         time.Time `json:"start_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Timezone        string    `json:"timezone"`
}

// SelectedSlot is the slot the candidate committed to.
type SelectedSlot struct {
	TimeSlot
	SelectedAt time.Time `json:"selected_at"`
}

// Interview is the aggregate root of the negotiation and lifecycle engine.
// Suggested slots and the selection are embedded documents owned by the
// interview; they have no lifecycle of their own.
type Interview struct {
	ID int64 `json:"id"`

	// One non-cancelled interview per application at any time
	ApplicationID   int64  `json:"application_id"`
	JobID           int64  `json:"job_id"`
	CompanyID       int64  `json:"company_id"`
	CandidateID     *int64 `json:"candidate_id,omitempty"`
	CompanyUserID   string `json:"company_user_id"`
	CandidateUserID string `json:"candidate_user_id"`

	// Absent only while status is pending_selection
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`

	// Negotiation history; retained after selection, never cleared
	SuggestedTimeSlots []TimeSlot    `json:"suggested_time_slots,omitempty"`
	SelectedTimeSlot   *SelectedSlot `json:"selected_time_slot,omitempty"`
	CompanyTimezone    string        `json:"company_timezone,omitempty"`
	GraduateTimezone   string        `json:"graduate_timezone,omitempty"`
	SelectionDeadline  *time.Time    `json:"selection_deadline,omitempty"`

	// RoomSlug is the public lookup key and immutable once assigned
	RoomSlug string `json:"room_slug"`
	RoomURL  string `json:"room_url"`
	Provider string `json:"provider"`

	// Correlation with the external provider; set only for calendly interviews
	CalendlyEventURI     *string `json:"calendly_event_uri,omitempty"`
	CalendlyEventTypeURI *string `json:"calendly_event_type_uri,omitempty"`
	CalendlyInviteeURI   *string `json:"calendly_invitee_uri,omitempty"`

	// Audit. StartedAt/EndedAt are observed, not scheduled, times.
	CreatedBy string     `json:"created_by"`
	UpdatedBy string     `json:"updated_by"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

var interviewTransitions = map[string][]string{
	InterviewStatusPendingSelection: {InterviewStatusScheduled, InterviewStatusCancelled},
	InterviewStatusScheduled:        {InterviewStatusScheduled, InterviewStatusInProgress, InterviewStatusCompleted, InterviewStatusCancelled},
	InterviewStatusInProgress:       {InterviewStatusCompleted, InterviewStatusCancelled},
}

// CanTransition reports whether the state machine permits from → to.
// No transition leaves completed or cancelled.
func CanTransition(from, to string) bool {
	for _, allowed := range interviewTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the interview reached a final state.
func (i *Interview) IsTerminal() bool {
	return i.Status == InterviewStatusCompleted || i.Status == InterviewStatusCancelled
}

// SlotByID finds a proposed slot by its identifier.
func (i *Interview) SlotByID(slotID string) *TimeSlot {
	for idx := range i.SuggestedTimeSlots {
		if i.SuggestedTimeSlots[idx].ID == slotID {
			return &i.SuggestedTimeSlots[idx]
		}
	}
	return nil
}

// EndsAt returns scheduled end of the interview; ok is false while no time is fixed.
func (i *Interview) EndsAt() (time.Time, bool) {
	if i.ScheduledAt == nil {
		return time.Time{}, false
	}
	return i.ScheduledAt.Add(time.Duration(i.DurationMinutes) * time.Minute), true
}

// IsParty reports whether the account is one of the two named parties.
func (i *Interview) IsParty(accountID string) bool {
	return accountID != "" && (accountID == i.CompanyUserID || accountID == i.CandidateUserID)
}

// SlotProposal is one candidate slot in a proposal request.
type SlotProposal struct {
	StartAt         time.Time `json:"start_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required"`
}

// ProposeSlotsInput carries a multi-slot proposal (negotiation path).
type ProposeSlotsInput struct {
	ApplicationID     int64          `json:"application_id" validate:"required"`
	Slots             []SlotProposal `json:"slots" validate:"required,min=1,max=5,dive"`
	Timezone          string         `json:"timezone" validate:"required,iana_tz"`
	SelectionDeadline *time.Time     `json:"selection_deadline,omitempty"`
}

// ScheduleDirectInput carries a single fixed time (legacy/simple path).
type ScheduleDirectInput struct {
	ApplicationID   int64     `json:"application_id" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required,future"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=15,max=240"`
	Timezone        string    `json:"timezone" validate:"omitempty,iana_tz"`
}

// NegotiationSummary is what a proposal returns to the hiring party. The room
// URL is withheld until a time is actually fixed so a joinable link is never
// distributed before a time exists.
type NegotiationSummary struct {
	InterviewID       int64      `json:"interview_id"`
	Status            string     `json:"status"`
	Slots             []TimeSlot `json:"slots"`
	SelectionDeadline *time.Time `json:"selection_deadline,omitempty"`
	RoomSlug          string     `json:"room_slug"`
}

// InterviewDetail is the by-slug read: the record plus the selected time
// rendered once in each party's zone.
type InterviewDetail struct {
	Interview *Interview  `json:"interview"`
	Display   interface{} `json:"display,omitempty"`
}

// InterviewFilter narrows owner-scoped listings.
type InterviewFilter struct {
	Status    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// InterviewRepository defines data access for interviews. Mutations that
// depend on a prior state are conditional single-row updates; they return
// ErrConflict when the row was not in the expected state.
type InterviewRepository interface {
	Create(ctx context.Context, iv *Interview) error
	GetByID(ctx context.Context, id int64) (*Interview, error)
	GetBySlug(ctx context.Context, slug string) (*Interview, error)
	GetActiveByApplicationID(ctx context.Context, applicationID int64) (*Interview, error)
	GetByCalendlyEventURI(ctx context.Context, eventURI string) (*Interview, error)
	ListForCompany(ctx context.Context, companyUserID string, f InterviewFilter) ([]Interview, error)
	ListForCandidate(ctx context.Context, candidateUserID string, f InterviewFilter) ([]Interview, error)

	// HasOngoingForCandidate reports an interview that is scheduled or
	// in_progress and whose start already passed (candidate is mid-interview).
	HasOngoingForCandidate(ctx context.Context, candidateUserID string, now time.Time) (bool, error)

	// SelectSlot commits the chosen slot iff status is still pending_selection.
	SelectSlot(ctx context.Context, id int64, slot SelectedSlot, graduateTZ, updatedBy string) error
	// Reschedule moves the fixed time iff status is still scheduled.
	Reschedule(ctx context.Context, id int64, scheduledAt time.Time, durationMinutes int, updatedBy string) error
	// UpdateStatusFrom applies from → to iff the current status is in allowedFrom.
	UpdateStatusFrom(ctx context.Context, id int64, allowedFrom []string, to, updatedBy string) error
	MarkStarted(ctx context.Context, id int64, startedAt time.Time, updatedBy string) error
	UpdateNotes(ctx context.Context, id int64, notes, updatedBy string) error
	SetCalendlyInviteeURI(ctx context.Context, id int64, inviteeURI string) error

	// CompleteElapsed is the lazy lifecycle sweep: flips scheduled/in_progress
	// rows whose scheduled end already passed to completed. Idempotent.
	CompleteElapsedForCompany(ctx context.Context, companyUserID string, now time.Time) (int64, error)
	CompleteElapsedForCandidate(ctx context.Context, candidateUserID string, now time.Time) (int64, error)
}

// InterviewUsecase defines the negotiation protocol and lifecycle operations.
type InterviewUsecase interface {
	// Hiring-party operations
	ProposeSlots(ctx context.Context, companyUserID string, in ProposeSlotsInput) (*NegotiationSummary, error)
	ScheduleDirect(ctx context.Context, companyUserID string, in ScheduleDirectInput) (*Interview, error)

	// Candidate operations
	SelectSlot(ctx context.Context, candidateUserID string, interviewID int64, slotID, candidateTZ string) (*Interview, error)

	// Either party
	GetBySlug(ctx context.Context, accountID, slug string) (*InterviewDetail, error)
	GetForApplication(ctx context.Context, accountID string, applicationID int64) (*Interview, error)
	ListForOwner(ctx context.Context, accountID, role string, f InterviewFilter) ([]Interview, error)
	UpdateStatus(ctx context.Context, accountID, role string, interviewID int64, status string) error
	MarkStarted(ctx context.Context, accountID string, interviewID int64) error
	UpdateNotes(ctx context.Context, accountID string, interviewID int64, notes string) error
}

// CalendarBridgeUsecase reconciles provider webhook events against calendly
// interviews. Returns ErrNotFound when the event URI matches no local record;
// the delivery layer still acknowledges such events.
type CalendarBridgeUsecase interface {
	HandleEvent(ctx context.Context, eventType, eventURI, inviteeURI string) error
}

// WebhookReplayCache short-circuits provider retries of already-processed
// events. Implementations must fail open: when the cache is unreachable the
// event is reported unseen and the idempotent state machine absorbs the replay.
type WebhookReplayCache interface {
	MarkSeen(ctx context.Context, eventKey string) (bool, error)
}
