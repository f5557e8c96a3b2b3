package core

import (
	"time"
)

// StudentRemovedEventType is the event type identifier.
const StudentRemovedEventType = "StudentRemoved"

// StudentRemoved represents when a student was removed from the library.
type StudentRemoved struct {
	EventType    string
	StudentKey   string
	StudentEmail EmailString
	StudentName  string
	OccurredAt   OccurredAt
}

// BuildStudentRemoved creates a new StudentRemoved event.
func BuildStudentRemoved(student Student, occurredAt time.Time) StudentRemoved {
	return StudentRemoved{
		EventType:    StudentRemovedEventType,
		StudentKey:   student.Key(),
		StudentEmail: student.Email,
		StudentName:  student.Name,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e StudentRemoved) IsEventType() string {
	return StudentRemovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e StudentRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
