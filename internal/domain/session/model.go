package session

import (
	"time"

	"academy-manager/backend/internal/dateutil"
	"academy-manager/backend/internal/domain/template"
)

// Collection is the Firestore collection holding dated sessions.
const Collection = "sessions"

// Status represents the lifecycle state of a dated session.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Session is one concrete, dated occurrence of a class template.
type Session struct {
	ID          string    `firestore:"id" json:"id"`
	TemplateID  string    `firestore:"templateId" json:"templateId"`
	ClassName   string    `firestore:"className" json:"className"`
	Date        time.Time `firestore:"date" json:"date"` // UTC midnight
	StartTime   string    `firestore:"startTime" json:"startTime"` // "HH:MM"
	EndTime     string    `firestore:"endTime" json:"endTime"`     // "HH:MM"
	MaxCapacity int       `firestore:"maxCapacity" json:"maxCapacity"`
	Status      Status    `firestore:"status" json:"status"`
	Instructor  string    `firestore:"instructor,omitempty" json:"instructor,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Bookable reports whether seats may still be reserved for the session.
func (s Session) Bookable() bool {
	return s.Status == StatusScheduled
}

// DocID is the deterministic document ID for a (template, date) pair. The
// storage layer rejects a second create for the same ID, which is what makes
// generation idempotent.
func DocID(templateID string, date time.Time) string {
	return templateID + "_" + dateutil.DayKey(date)
}

// FromTemplate builds the session that should exist for a template on a
// given calendar date.
func FromTemplate(t template.ClassTemplate, date time.Time, now time.Time) Session {
	return Session{
		ID:          DocID(t.ID, date),
		TemplateID:  t.ID,
		ClassName:   t.Name,
		Date:        date,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		MaxCapacity: t.MaxCapacity,
		Status:      StatusScheduled,
		Instructor:  t.Instructor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MaxListLimit bounds a single listing page. A full generation window at
// the default cap fits inside one page.
const MaxListLimit = 500

// ListFilter narrows a session listing.
type ListFilter struct {
	TemplateID string
	From       *time.Time
	To         *time.Time
	Status     Status
	Page       int
	Limit      int
}

// WithUtilization decorates a session with live seat accounting for
// presentation.
type WithUtilization struct {
	Session
	BookedCount    int `json:"bookedCount"`
	AvailableSpots int `json:"availableSpots"`
	Utilization    int `json:"utilization"` // percent, rounded
}

// GenerateResult is the outcome of one generation pass: every session inside
// the window (pre-existing and newly created) plus how many were new.
type GenerateResult struct {
	Sessions []Session `json:"sessions"`
	Created  int       `json:"created"`
}
