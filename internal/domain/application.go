package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusApplied     = "applied"
	ApplicationStatusReviewed    = "reviewed"
	ApplicationStatusInterviewed = "interviewed"
	ApplicationStatusAccepted    = "accepted"
	ApplicationStatusRejected    = "rejected"
)

// Application is the owning record an interview hangs off. The interview
// fields here are a read-model convenience kept in sync by the interview
// engine; the Interview record is the source of truth and these fields are
// never read back for scheduling decisions.
type Application struct {
	ID              int64  `json:"id"`
	JobID           int64  `json:"job_id"`
	CandidateUserID string `json:"candidate_user_id"`
	CandidateID     *int64 `json:"candidate_id,omitempty"`
	Status          string `json:"status"`

	// Interview read-model (denormalized from the Interview aggregate)
	InterviewID          *int64     `json:"interview_id,omitempty"`
	InterviewScheduledAt *time.Time `json:"interview_scheduled_at,omitempty"`
	InterviewLink        *string    `json:"interview_link,omitempty"`
	InterviewRoomSlug    *string    `json:"interview_room_slug,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data for guards and notification copy
	CompanyID     int64   `json:"company_id"`
	CompanyUserID string  `json:"company_user_id"`
	JobTitle      *string `json:"job_title,omitempty"`
	CandidateName *string `json:"candidate_name,omitempty"`
}

// ApplicationRepository defines the collaborator surface the interview engine
// needs: ownership lookup plus read-model writers.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id int64) (*Application, error)
	// SetInterviewSchedule stamps the interview read-model fields and marks
	// the application interviewed.
	SetInterviewSchedule(ctx context.Context, id, interviewID int64, scheduledAt *time.Time, link, roomSlug string) error
	// ClearInterviewSchedule blanks the interview link fields after a
	// cancellation. The application status is left for the employer to move.
	ClearInterviewSchedule(ctx context.Context, id int64) error
}
