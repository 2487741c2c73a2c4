package postgres

import (
	"context"
	"errors"
	"time"

	"go-hiring-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// GetByID retrieves an application with the job/company ownership fields the
// interview guards need and the names used in notification copy.
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `
		SELECT
			a.id, a.job_id, a.candidate_user_id, a.candidate_id, a.status,
			a.interview_id, a.interview_scheduled_at, a.interview_link, a.interview_room_slug,
			a.created_at, a.updated_at,
			j.company_id, j.company_user_id, j.title as job_title,
			COALESCE(cp.full_name, u.email) as candidate_name
		FROM applications a
		JOIN jobs j ON a.job_id = j.id
		LEFT JOIN candidate_profiles cp ON a.candidate_id = cp.id
		LEFT JOIN users u ON a.candidate_user_id = u.id
		WHERE a.id = $1`

	var app domain.Application
	err := r.db.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.JobID, &app.CandidateUserID, &app.CandidateID, &app.Status,
		&app.InterviewID, &app.InterviewScheduledAt, &app.InterviewLink, &app.InterviewRoomSlug,
		&app.CreatedAt, &app.UpdatedAt,
		&app.CompanyID, &app.CompanyUserID, &app.JobTitle,
		&app.CandidateName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// SetInterviewSchedule stamps the interview read-model fields and marks the
// application interviewed. The interview row stays the source of truth.
func (r *applicationRepo) SetInterviewSchedule(ctx context.Context, id, interviewID int64, scheduledAt *time.Time, link, roomSlug string) error {
	query := `
		UPDATE applications
		SET status = $2,
		    interview_id = $3,
		    interview_scheduled_at = $4,
		    interview_link = $5,
		    interview_room_slug = $6,
		    updated_at = $7
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, domain.ApplicationStatusInterviewed, interviewID, scheduledAt, link, roomSlug, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearInterviewSchedule blanks the interview link fields after a cancellation.
func (r *applicationRepo) ClearInterviewSchedule(ctx context.Context, id int64) error {
	query := `
		UPDATE applications
		SET interview_scheduled_at = NULL,
		    interview_link = NULL,
		    interview_room_slug = NULL,
		    updated_at = $2
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
