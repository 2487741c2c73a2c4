package domain

import (
	"context"
	"time"
)

// Job is the posting an application targets. Posting CRUD lives elsewhere;
// the interview engine only reads the fields its guards and notification
// copy need.
type Job struct {
	ID            int64     `json:"id"`
	CompanyID     int64     `json:"company_id"`
	CompanyUserID string    `json:"company_user_id"`
	Title         string    `json:"title"`
	CompanyStatus string    `json:"company_status"`
	CreatedAt     time.Time `json:"created_at"`
}

type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*Job, error)
}
