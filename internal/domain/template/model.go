package template

import "time"

// Collection is the Firestore collection holding class templates. Templates
// are owned by the class-management side of the system; this engine only
// reads them.
const Collection = "classTemplates"

// ClassTemplate is a recurring weekly class definition.
type ClassTemplate struct {
	ID             string    `firestore:"id" json:"id"`
	Name           string    `firestore:"name" json:"name"`
	Instructor     string    `firestore:"instructor,omitempty" json:"instructor,omitempty"`
	MaxCapacity    int       `firestore:"maxCapacity" json:"maxCapacity"`
	DurationMinute int       `firestore:"durationMinute,omitempty" json:"durationMinute,omitempty"`
	IsRecurring    bool      `firestore:"isRecurring" json:"isRecurring"`
	DayOfWeek      *int      `firestore:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"` // 0=Sunday .. 6=Saturday, nil=unset
	StartTime      string    `firestore:"startTime" json:"startTime"` // "HH:MM"
	EndTime        string    `firestore:"endTime" json:"endTime"`     // "HH:MM"
	IsActive       bool      `firestore:"isActive" json:"isActive"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// HasWeekday reports whether the template names a valid recurrence weekday.
func (t ClassTemplate) HasWeekday() bool {
	return t.DayOfWeek != nil && *t.DayOfWeek >= 0 && *t.DayOfWeek <= 6
}
