package repositories

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"devcoach/internal/models"
)

// ProjectRepository mediates all work-item reads and mutations on a loaded
// project aggregate. It enforces id assignment, referential integrity and
// lifecycle transition legality; persistence stays with the caller.
type ProjectRepository struct {
	project *models.Project
}

// New creates a repository over a loaded project aggregate.
func New(project *models.Project) *ProjectRepository {
	return &ProjectRepository{project: project}
}

// Project returns the underlying aggregate.
func (r *ProjectRepository) Project() *models.Project {
	return r.project
}

// AddStory appends a new backlog story with the next sequential id.
func (r *ProjectRepository) AddStory(title, description string) *models.Story {
	story := models.Story{
		ID:          r.nextID("US", storyIDs(r.project)),
		Title:       title,
		Description: description,
		Status:      models.StoryBacklog,
		Created:     time.Now().UTC(),
	}
	r.project.Backlog = append(r.project.Backlog, story)
	return r.project.Story(story.ID)
}

// FindStory looks up a story by id.
func (r *ProjectRepository) FindStory(id string) (*models.Story, error) {
	if story := r.project.Story(id); story != nil {
		return story, nil
	}
	return nil, &models.NotFoundError{Kind: "story", ID: id}
}

// FindSprint looks up a sprint by id.
func (r *ProjectRepository) FindSprint(id string) (*models.Sprint, error) {
	if sprint := r.project.Sprint(id); sprint != nil {
		return sprint, nil
	}
	return nil, &models.NotFoundError{Kind: "sprint", ID: id}
}

// ListBacklog returns all stories not yet done, ordered by id.
func (r *ProjectRepository) ListBacklog() []*models.Story {
	var items []*models.Story
	for i := range r.project.Backlog {
		if r.project.Backlog[i].Status != models.StoryDone {
			items = append(items, &r.project.Backlog[i])
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// PlanSprint creates a draft sprint with no stories bound. Stories join a
// sprint only through AssignStory.
func (r *ProjectRepository) PlanSprint(goal string, days int) *models.Sprint {
	sprint := models.Sprint{
		ID:      r.nextID("S", sprintIDs(r.project)),
		Goal:    goal,
		Days:    days,
		Status:  models.SprintDraft,
		Created: time.Now().UTC(),
	}
	r.project.Sprints = append(r.project.Sprints, sprint)
	return r.project.Sprint(sprint.ID)
}

// AssignStory binds a story to a sprint. The sprint must still accept
// members (draft or active) and the story must not be done. Assigning a
// backlog story to a draft sprint marks it selected.
func (r *ProjectRepository) AssignStory(storyID, sprintID string) error {
	story, err := r.FindStory(storyID)
	if err != nil {
		return err
	}
	sprint, err := r.FindSprint(sprintID)
	if err != nil {
		return err
	}

	if !sprint.Accepts(models.EventAssignStory) {
		return &models.InvalidTransitionError{
			Kind:   "sprint",
			ID:     sprint.ID,
			Status: string(sprint.Status),
			Event:  models.EventAssignStory,
			Legal:  sprint.Status.LegalEvents(),
		}
	}
	if story.Status == models.StoryDone {
		return &models.InvalidTransitionError{
			Kind:   "story",
			ID:     story.ID,
			Status: string(story.Status),
			Event:  models.EventAssignStory,
			Legal:  story.Status.LegalEvents(),
		}
	}
	if story.Sprint != "" && story.Sprint != sprint.ID {
		return &models.InvalidTransitionError{
			Kind:   "story",
			ID:     story.ID,
			Status: string(story.Status),
			Event:  models.EventAssignStory,
			Reason: fmt.Sprintf("already assigned to sprint %s", story.Sprint),
		}
	}

	story.Sprint = sprint.ID
	if !sprint.Contains(story.ID) {
		sprint.Stories = append(sprint.Stories, story.ID)
	}
	if story.Status == models.StoryBacklog && sprint.Status == models.SprintDraft {
		story.Status = models.StorySelected
	}
	return nil
}

// StartSprint transitions a draft sprint to active. At most one sprint may
// be active at a time.
func (r *ProjectRepository) StartSprint(id string) (*models.Sprint, error) {
	sprint, err := r.FindSprint(id)
	if err != nil {
		return nil, err
	}

	if sprint.Status != models.SprintDraft {
		return nil, &models.InvalidTransitionError{
			Kind:   "sprint",
			ID:     sprint.ID,
			Status: string(sprint.Status),
			Event:  models.EventStartSprint,
			Legal:  sprint.Status.LegalEvents(),
		}
	}
	if active := r.project.ActiveSprint(); active != nil {
		return nil, &models.InvalidTransitionError{
			Kind:   "sprint",
			ID:     sprint.ID,
			Status: string(sprint.Status),
			Event:  models.EventStartSprint,
			Reason: fmt.Sprintf("sprint %s is already active", active.ID),
		}
	}

	now := time.Now().UTC()
	sprint.Status = models.SprintActive
	sprint.Started = &now
	r.project.CurrentSprint = sprint.ID
	return sprint, nil
}

// CompleteSprint transitions an active sprint to completed, freezing its
// velocity and clearing the current sprint reference.
func (r *ProjectRepository) CompleteSprint(id string) (*models.Sprint, error) {
	sprint, err := r.FindSprint(id)
	if err != nil {
		return nil, err
	}

	if sprint.Status != models.SprintActive {
		return nil, &models.InvalidTransitionError{
			Kind:   "sprint",
			ID:     sprint.ID,
			Status: string(sprint.Status),
			Event:  models.EventCompleteSprint,
			Legal:  sprint.Status.LegalEvents(),
		}
	}

	now := time.Now().UTC()
	sprint.Status = models.SprintCompleted
	sprint.Ended = &now
	if r.project.CurrentSprint == sprint.ID {
		r.project.CurrentSprint = ""
	}
	return sprint, nil
}

// StartTask transitions a backlog or selected story to in-progress.
func (r *ProjectRepository) StartTask(id string) (*models.Story, error) {
	story, err := r.FindStory(id)
	if err != nil {
		return nil, err
	}

	if !story.Accepts(models.EventStartTask) {
		return nil, &models.InvalidTransitionError{
			Kind:   "story",
			ID:     story.ID,
			Status: string(story.Status),
			Event:  models.EventStartTask,
			Legal:  story.Status.LegalEvents(),
		}
	}

	story.Status = models.StoryInProgress
	return story, nil
}

// CompleteTask transitions an in-progress story to done. If the story
// belongs to the currently active sprint, that sprint's velocity counter
// goes up by one.
func (r *ProjectRepository) CompleteTask(id string) (*models.Story, error) {
	story, err := r.FindStory(id)
	if err != nil {
		return nil, err
	}

	if !story.Accepts(models.EventCompleteTask) {
		return nil, &models.InvalidTransitionError{
			Kind:   "story",
			ID:     story.ID,
			Status: string(story.Status),
			Event:  models.EventCompleteTask,
			Legal:  story.Status.LegalEvents(),
		}
	}

	story.Status = models.StoryDone
	if story.Sprint != "" {
		if sprint := r.project.Sprint(story.Sprint); sprint != nil && sprint.Status == models.SprintActive {
			sprint.Velocity++
		}
	}
	return story, nil
}

// nextID derives the next sequential id from the max existing numeric
// suffix, not the collection size, so ids stay unique forever.
func (r *ProjectRepository) nextID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		suffix, ok := strings.CutPrefix(id, prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, max+1)
}

func storyIDs(p *models.Project) []string {
	ids := make([]string, len(p.Backlog))
	for i := range p.Backlog {
		ids[i] = p.Backlog[i].ID
	}
	return ids
}

func sprintIDs(p *models.Project) []string {
	ids := make([]string, len(p.Sprints))
	for i := range p.Sprints {
		ids[i] = p.Sprints[i].ID
	}
	return ids
}
