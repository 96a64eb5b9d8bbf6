package models

import (
	"fmt"
	"strings"
)

// Lifecycle events accepted by stories and sprints
const (
	EventStartTask      = "start-task"
	EventCompleteTask   = "complete-task"
	EventStartSprint    = "start-sprint"
	EventCompleteSprint = "complete-sprint"
	EventAssignStory    = "assign-story"
)

// NotFoundError reports an unknown story or sprint id
type NotFoundError struct {
	Kind string // "story" or "sprint"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidTransitionError reports an illegal lifecycle state change
type InvalidTransitionError struct {
	Kind   string
	ID     string
	Status string
	Event  string
	Legal  []string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s %s is %s: %s is not allowed", e.Kind, e.ID, e.Status, e.Event)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if len(e.Legal) > 0 {
		msg += fmt.Sprintf(" (legal: %s)", strings.Join(e.Legal, ", "))
	} else if e.Reason == "" {
		msg += " (no transitions remain)"
	}
	return msg
}
