package models

import "time"

// SprintStatus represents the lifecycle state of a sprint
type SprintStatus string

const (
	SprintDraft     SprintStatus = "draft"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

// IsValid checks if the status value is valid
func (s SprintStatus) IsValid() bool {
	switch s {
	case SprintDraft, SprintActive, SprintCompleted:
		return true
	}
	return false
}

// LegalEvents returns the events a sprint in this status accepts.
// The lifecycle is linear and terminal at completed.
func (s SprintStatus) LegalEvents() []string {
	switch s {
	case SprintDraft:
		return []string{EventStartSprint, EventAssignStory}
	case SprintActive:
		return []string{EventCompleteSprint, EventAssignStory}
	}
	return nil
}

// Sprint is a time-boxed grouping of stories with a goal
type Sprint struct {
	ID     string       `json:"id"`
	Goal   string       `json:"goal"`
	Days   int          `json:"days"`
	Status SprintStatus `json:"status"`
	// Stories lists member story ids in planning order.
	Stories []string   `json:"stories"`
	Started *time.Time `json:"started,omitempty"`
	Ended   *time.Time `json:"ended,omitempty"`
	// Velocity counts stories completed while the sprint was active.
	Velocity int       `json:"velocity"`
	Created  time.Time `json:"created"`
}

// Accepts reports whether the event is legal in the sprint's current status.
func (s *Sprint) Accepts(event string) bool {
	for _, e := range s.Status.LegalEvents() {
		if e == event {
			return true
		}
	}
	return false
}

// Contains reports whether the story id is a member of this sprint.
func (s *Sprint) Contains(storyID string) bool {
	for _, id := range s.Stories {
		if id == storyID {
			return true
		}
	}
	return false
}
