package domain_test

import (
	"testing"
	"time"

	"go-hiring-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		assert.True(t, domain.CanTransition(domain.InterviewStatusPendingSelection, domain.InterviewStatusScheduled))
		assert.True(t, domain.CanTransition(domain.InterviewStatusPendingSelection, domain.InterviewStatusCancelled))
		assert.True(t, domain.CanTransition(domain.InterviewStatusScheduled, domain.InterviewStatusScheduled)) // reschedule
		assert.True(t, domain.CanTransition(domain.InterviewStatusScheduled, domain.InterviewStatusInProgress))
		assert.True(t, domain.CanTransition(domain.InterviewStatusScheduled, domain.InterviewStatusCompleted))
		assert.True(t, domain.CanTransition(domain.InterviewStatusInProgress, domain.InterviewStatusCompleted))
		assert.True(t, domain.CanTransition(domain.InterviewStatusInProgress, domain.InterviewStatusCancelled))
	})

	t.Run("no exit from terminal states", func(t *testing.T) {
		for _, to := range []string{
			domain.InterviewStatusPendingSelection,
			domain.InterviewStatusScheduled,
			domain.InterviewStatusInProgress,
			domain.InterviewStatusCompleted,
			domain.InterviewStatusCancelled,
		} {
			assert.False(t, domain.CanTransition(domain.InterviewStatusCompleted, to))
			assert.False(t, domain.CanTransition(domain.InterviewStatusCancelled, to))
		}
	})

	t.Run("no skipping selection", func(t *testing.T) {
		assert.False(t, domain.CanTransition(domain.InterviewStatusPendingSelection, domain.InterviewStatusInProgress))
		assert.False(t, domain.CanTransition(domain.InterviewStatusPendingSelection, domain.InterviewStatusCompleted))
	})
}

func TestEndsAt(t *testing.T) {
	iv := &domain.Interview{Status: domain.InterviewStatusPendingSelection}
	_, ok := iv.EndsAt()
	assert.False(t, ok)

	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	iv.ScheduledAt = &start
	iv.DurationMinutes = 45
	end, ok := iv.EndsAt()
	assert.True(t, ok)
	assert.Equal(t, start.Add(45*time.Minute), end)
}

func TestSlotByID(t *testing.T) {
	iv := &domain.Interview{
		SuggestedTimeSlots: []domain.TimeSlot{
			{ID: "a", DurationMinutes: 30},
			{ID: "b", DurationMinutes: 45},
		},
	}
	slot := iv.SlotByID("b")
	assert.NotNil(t, slot)
	assert.Equal(t, 45, slot.DurationMinutes)
	assert.Nil(t, iv.SlotByID("missing"))
}

func TestIsParty(t *testing.T) {
	iv := &domain.Interview{CompanyUserID: "emp1", CandidateUserID: "cand1"}
	assert.True(t, iv.IsParty("emp1"))
	assert.True(t, iv.IsParty("cand1"))
	assert.False(t, iv.IsParty("other"))
	assert.False(t, iv.IsParty(""))
}
