package models

import "time"

// StoryStatus represents the lifecycle state of a story
type StoryStatus string

const (
	StoryBacklog    StoryStatus = "backlog"
	StorySelected   StoryStatus = "selected"
	StoryInProgress StoryStatus = "in-progress"
	StoryDone       StoryStatus = "done"
)

// IsValid checks if the status value is valid
func (s StoryStatus) IsValid() bool {
	switch s {
	case StoryBacklog, StorySelected, StoryInProgress, StoryDone:
		return true
	}
	return false
}

// LegalEvents returns the events a story in this status accepts.
// The lifecycle is linear: backlog/selected -> in-progress -> done.
func (s StoryStatus) LegalEvents() []string {
	switch s {
	case StoryBacklog, StorySelected:
		return []string{EventStartTask}
	case StoryInProgress:
		return []string{EventCompleteTask}
	}
	return nil
}

// Story is a trackable unit of requirement-derived work
type Story struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      StoryStatus `json:"status"`
	Created     time.Time   `json:"created"`
	// Sprint holds the id of the owning sprint, resolved by lookup.
	Sprint string `json:"sprint,omitempty"`
}

// Accepts reports whether the event is legal in the story's current status.
func (s *Story) Accepts(event string) bool {
	for _, e := range s.Status.LegalEvents() {
		if e == event {
			return true
		}
	}
	return false
}
