package models

import (
	"fmt"
	"time"

	"devcoach/internal/config"
)

// Project is the root aggregate persisted per project
type Project struct {
	Meta    Meta     `json:"meta"`
	Backlog []Story  `json:"backlog"`
	Sprints []Sprint `json:"sprints"`
	// CurrentSprint holds the id of the single active sprint, if any.
	CurrentSprint string `json:"current_sprint,omitempty"`
}

// Meta describes the project and its optional LLM override
type Meta struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Created     time.Time     `json:"created"`
	TechStack   []string      `json:"tech_stack"`
	Tags        []string      `json:"tags"`
	LLM         *config.Layer `json:"llm,omitempty"`
}

// Validate checks the aggregate's internal consistency
func (p *Project) Validate() error {
	if p.Meta.Name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	active := 0
	for i := range p.Sprints {
		s := &p.Sprints[i]
		if !s.Status.IsValid() {
			return fmt.Errorf("sprint %s has invalid status %q", s.ID, s.Status)
		}
		if s.Status == SprintActive {
			active++
		}
	}
	if active > 1 {
		return fmt.Errorf("%d sprints are active, at most one is allowed", active)
	}
	if p.CurrentSprint != "" {
		sprint := p.Sprint(p.CurrentSprint)
		if sprint == nil {
			return fmt.Errorf("current sprint %s does not exist", p.CurrentSprint)
		}
		if sprint.Status != SprintActive {
			return fmt.Errorf("current sprint %s is %s, expected %s", sprint.ID, sprint.Status, SprintActive)
		}
	}

	for i := range p.Backlog {
		if !p.Backlog[i].Status.IsValid() {
			return fmt.Errorf("story %s has invalid status %q", p.Backlog[i].ID, p.Backlog[i].Status)
		}
	}

	return nil
}

// Story returns the story with the given id, or nil.
func (p *Project) Story(id string) *Story {
	for i := range p.Backlog {
		if p.Backlog[i].ID == id {
			return &p.Backlog[i]
		}
	}
	return nil
}

// Sprint returns the sprint with the given id, or nil.
func (p *Project) Sprint(id string) *Sprint {
	for i := range p.Sprints {
		if p.Sprints[i].ID == id {
			return &p.Sprints[i]
		}
	}
	return nil
}

// ActiveSprint returns the single active sprint, or nil.
func (p *Project) ActiveSprint() *Sprint {
	for i := range p.Sprints {
		if p.Sprints[i].Status == SprintActive {
			return &p.Sprints[i]
		}
	}
	return nil
}
