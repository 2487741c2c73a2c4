package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-hiring-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type interviewRepo struct {
	db *pgxpool.Pool
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{db: db}
}

const interviewColumns = `
	id, application_id, job_id, company_id, candidate_id, company_user_id, candidate_user_id,
	scheduled_at, duration_minutes, status,
	suggested_time_slots, selected_time_slot, company_timezone, graduate_timezone, selection_deadline,
	room_slug, room_url, provider,
	calendly_event_uri, calendly_event_type_uri, calendly_invitee_uri,
	created_by, updated_by, started_at, ended_at, notes, created_at, updated_at`

// Create inserts a new interview. Slots and the selection are stored as jsonb
// documents owned by the row.
func (r *interviewRepo) Create(ctx context.Context, iv *domain.Interview) error {
	query := `
		INSERT INTO interviews (
			application_id, job_id, company_id, candidate_id, company_user_id, candidate_user_id,
			scheduled_at, duration_minutes, status,
			suggested_time_slots, selected_time_slot, company_timezone, graduate_timezone, selection_deadline,
			room_slug, room_url, provider,
			calendly_event_uri, calendly_event_type_uri, calendly_invitee_uri,
			created_by, updated_by, notes, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
		RETURNING id`

	now := time.Now()
	iv.CreatedAt = now
	iv.UpdatedAt = now

	slotsJSON, err := json.Marshal(iv.SuggestedTimeSlots)
	if err != nil {
		return err
	}
	var selectedJSON []byte
	if iv.SelectedTimeSlot != nil {
		if selectedJSON, err = json.Marshal(iv.SelectedTimeSlot); err != nil {
			return err
		}
	}

	return r.db.QueryRow(ctx, query,
		iv.ApplicationID, iv.JobID, iv.CompanyID, iv.CandidateID, iv.CompanyUserID, iv.CandidateUserID,
		iv.ScheduledAt, iv.DurationMinutes, iv.Status,
		slotsJSON, selectedJSON, iv.CompanyTimezone, iv.GraduateTimezone, iv.SelectionDeadline,
		iv.RoomSlug, iv.RoomURL, iv.Provider,
		iv.CalendlyEventURI, iv.CalendlyEventTypeURI, iv.CalendlyInviteeURI,
		iv.CreatedBy, iv.UpdatedBy, iv.Notes, iv.CreatedAt, iv.UpdatedAt,
	).Scan(&iv.ID)
}

func (r *interviewRepo) GetByID(ctx context.Context, id int64) (*domain.Interview, error) {
	return r.getOne(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id)
}

func (r *interviewRepo) GetBySlug(ctx context.Context, slug string) (*domain.Interview, error) {
	return r.getOne(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE room_slug = $1`, slug)
}

// GetActiveByApplicationID returns the one non-terminal interview of an
// application, if any. A terminal interview frees the uniqueness slot for a
// fresh record.
func (r *interviewRepo) GetActiveByApplicationID(ctx context.Context, applicationID int64) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + `
		FROM interviews
		WHERE application_id = $1 AND status NOT IN ('cancelled', 'completed')
		ORDER BY created_at DESC
		LIMIT 1`
	return r.getOne(ctx, query, applicationID)
}

func (r *interviewRepo) GetByCalendlyEventURI(ctx context.Context, eventURI string) (*domain.Interview, error) {
	return r.getOne(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE calendly_event_uri = $1`, eventURI)
}

func (r *interviewRepo) ListForCompany(ctx context.Context, companyUserID string, f domain.InterviewFilter) ([]domain.Interview, error) {
	return r.list(ctx, "company_user_id", companyUserID, f)
}

func (r *interviewRepo) ListForCandidate(ctx context.Context, candidateUserID string, f domain.InterviewFilter) ([]domain.Interview, error) {
	return r.list(ctx, "candidate_user_id", candidateUserID, f)
}

// HasOngoingForCandidate reports whether the candidate is inside an interview
// window right now. The upper bound matters: an elapsed interview that was
// never swept must not keep blocking new bookings.
func (r *interviewRepo) HasOngoingForCandidate(ctx context.Context, candidateUserID string, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM interviews
			WHERE candidate_user_id = $1
			  AND status IN ('scheduled', 'in_progress')
			  AND scheduled_at <= $2
			  AND scheduled_at + make_interval(mins => duration_minutes) > $2
		)`
	var exists bool
	err := r.db.QueryRow(ctx, query, candidateUserID, now).Scan(&exists)
	return exists, err
}

// SelectSlot is the contended write of the negotiation protocol. The update is
// conditioned on the row still being pending_selection, so of two concurrent
// selections at most one matches; the loser gets ErrConflict.
func (r *interviewRepo) SelectSlot(ctx context.Context, id int64, slot domain.SelectedSlot, graduateTZ, updatedBy string) error {
	query := `
		UPDATE interviews
		SET selected_time_slot = $2,
		    scheduled_at = $3,
		    duration_minutes = $4,
		    status = 'scheduled',
		    graduate_timezone = $5,
		    updated_by = $6,
		    updated_at = $7
		WHERE id = $1 AND status = 'pending_selection'`

	selectedJSON, err := json.Marshal(slot)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(ctx, query, id, selectedJSON, slot.StartAt, slot.DurationMinutes, graduateTZ, updatedBy, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *interviewRepo) Reschedule(ctx context.Context, id int64, scheduledAt time.Time, durationMinutes int, updatedBy string) error {
	query := `
		UPDATE interviews
		SET scheduled_at = $2, duration_minutes = $3, updated_by = $4, updated_at = $5
		WHERE id = $1 AND status = 'scheduled'`

	result, err := r.db.Exec(ctx, query, id, scheduledAt, durationMinutes, updatedBy, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *interviewRepo) UpdateStatusFrom(ctx context.Context, id int64, allowedFrom []string, to, updatedBy string) error {
	query := `
		UPDATE interviews
		SET status = $2,
		    updated_by = $3,
		    updated_at = $4,
		    ended_at = CASE WHEN $2 IN ('completed', 'cancelled') AND ended_at IS NULL THEN $4 ELSE ended_at END
		WHERE id = $1 AND status = ANY($5)`

	result, err := r.db.Exec(ctx, query, id, to, updatedBy, time.Now(), allowedFrom)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *interviewRepo) MarkStarted(ctx context.Context, id int64, startedAt time.Time, updatedBy string) error {
	query := `
		UPDATE interviews
		SET status = 'in_progress', started_at = $2, updated_by = $3, updated_at = $4
		WHERE id = $1 AND status = 'scheduled'`

	result, err := r.db.Exec(ctx, query, id, startedAt, updatedBy, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *interviewRepo) UpdateNotes(ctx context.Context, id int64, notes, updatedBy string) error {
	query := `
		UPDATE interviews
		SET notes = $2, updated_by = $3, updated_at = $4
		WHERE id = $1 AND status NOT IN ('completed', 'cancelled')`
	result, err := r.db.Exec(ctx, query, id, notes, updatedBy, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// The caller already read the row, so a miss means it went terminal
		return domain.ErrConflict
	}
	return nil
}

func (r *interviewRepo) SetCalendlyInviteeURI(ctx context.Context, id int64, inviteeURI string) error {
	query := `UPDATE interviews SET calendly_invitee_uri = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, inviteeURI, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompleteElapsedForCompany flips every scheduled/in_progress interview of the
// owner whose scheduled end already passed to completed. The status filter
// makes re-running a no-op, so concurrent sweeps from parallel reads are safe.
func (r *interviewRepo) CompleteElapsedForCompany(ctx context.Context, companyUserID string, now time.Time) (int64, error) {
	return r.completeElapsed(ctx, "company_user_id", companyUserID, now)
}

func (r *interviewRepo) CompleteElapsedForCandidate(ctx context.Context, candidateUserID string, now time.Time) (int64, error) {
	return r.completeElapsed(ctx, "candidate_user_id", candidateUserID, now)
}

func (r *interviewRepo) completeElapsed(ctx context.Context, ownerColumn, ownerID string, now time.Time) (int64, error) {
	query := `
		UPDATE interviews
		SET status = 'completed', ended_at = $2, updated_by = 'system', updated_at = $2
		WHERE ` + ownerColumn + ` = $1
		  AND status IN ('scheduled', 'in_progress')
		  AND scheduled_at + make_interval(mins => duration_minutes) <= $2`

	result, err := r.db.Exec(ctx, query, ownerID, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *interviewRepo) getOne(ctx context.Context, query string, arg interface{}) (*domain.Interview, error) {
	row := r.db.QueryRow(ctx, query, arg)
	iv, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return iv, nil
}

func (r *interviewRepo) list(ctx context.Context, ownerColumn, ownerID string, f domain.InterviewFilter) ([]domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews
		WHERE ` + ownerColumn + ` = $1
		  AND ($2::text IS NULL OR status = $2)
		  AND ($3::timestamptz IS NULL OR scheduled_at >= $3)
		  AND ($4::timestamptz IS NULL OR scheduled_at <= $4)
		ORDER BY COALESCE(scheduled_at, created_at) DESC`

	var status *string
	if f.Status != "" {
		status = &f.Status
	}
	args := []interface{}{ownerID, status, f.From, f.To}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += ` LIMIT $5 OFFSET $6`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interviews []domain.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, *iv)
	}
	return interviews, rows.Err()
}

func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var iv domain.Interview
	var slotsJSON, selectedJSON []byte

	err := row.Scan(
		&iv.ID, &iv.ApplicationID, &iv.JobID, &iv.CompanyID, &iv.CandidateID, &iv.CompanyUserID, &iv.CandidateUserID,
		&iv.ScheduledAt, &iv.DurationMinutes, &iv.Status,
		&slotsJSON, &selectedJSON, &iv.CompanyTimezone, &iv.GraduateTimezone, &iv.SelectionDeadline,
		&iv.RoomSlug, &iv.RoomURL, &iv.Provider,
		&iv.CalendlyEventURI, &iv.CalendlyEventTypeURI, &iv.CalendlyInviteeURI,
		&iv.CreatedBy, &iv.UpdatedBy, &iv.StartedAt, &iv.EndedAt, &iv.Notes, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(slotsJSON) > 0 {
		if err := json.Unmarshal(slotsJSON, &iv.SuggestedTimeSlots); err != nil {
			return nil, err
		}
	}
	if len(selectedJSON) > 0 {
		if err := json.Unmarshal(selectedJSON, &iv.SelectedTimeSlot); err != nil {
			return nil, err
		}
	}
	return &iv, nil
}
