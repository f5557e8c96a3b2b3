package core

import (
	"time"
)

// StudentRegisteredEventType is the event type identifier.
const StudentRegisteredEventType = "StudentRegistered"

// StudentRegistered represents when a student was registered with the library.
type StudentRegistered struct {
	EventType    string
	StudentKey   string
	StudentEmail EmailString
	StudentName  string
	OccurredAt   OccurredAt
}

// BuildStudentRegistered creates a new StudentRegistered event.
func BuildStudentRegistered(student Student, occurredAt time.Time) StudentRegistered {
	return StudentRegistered{
		EventType:    StudentRegisteredEventType,
		StudentKey:   student.Key(),
		StudentEmail: student.Email,
		StudentName:  student.Name,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e StudentRegistered) IsEventType() string {
	return StudentRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e StudentRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
