package services

import (
	"fmt"

	"devcoach/internal/helpers"
	"devcoach/internal/models"
	"devcoach/internal/repositories"
)

// PlanSprint creates a draft sprint with no stories bound.
func (w *Workflow) PlanSprint(goal string, days int) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	sprint := repositories.New(project).PlanSprint(goal, days)

	if err := w.save(project); err != nil {
		return err
	}

	helpers.PrintSuccess("Planned sprint %s: %s (%d days)", sprint.ID, sprint.Goal, sprint.Days)
	helpers.PrintHint("devcoach assign-story <story-id> %s   # Add stories to the sprint", sprint.ID)
	helpers.PrintHint("devcoach start-sprint %s              # Activate when ready", sprint.ID)
	return nil
}

// AssignStory binds a story to a sprint.
func (w *Workflow) AssignStory(storyID, sprintID string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	if err := repositories.New(project).AssignStory(storyID, sprintID); err != nil {
		return err
	}

	if err := w.save(project); err != nil {
		return err
	}

	helpers.PrintSuccess("Assigned %s to sprint %s", storyID, sprintID)
	return nil
}

// StartSprint activates a draft sprint.
func (w *Workflow) StartSprint(id string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	sprint, err := repositories.New(project).StartSprint(id)
	if err != nil {
		return err
	}

	if err := w.save(project); err != nil {
		return err
	}

	helpers.PrintSuccess("Started sprint %s: %s", sprint.ID, sprint.Goal)
	helpers.PrintDetail("%d stories in sprint", len(sprint.Stories))
	helpers.PrintHint("devcoach start-task <story-id>       # Begin work")
	return nil
}

// CompleteSprint completes the active sprint, freezing its velocity.
func (w *Workflow) CompleteSprint(id string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	sprint, err := repositories.New(project).CompleteSprint(id)
	if err != nil {
		return err
	}

	if err := w.save(project); err != nil {
		return err
	}

	helpers.PrintSuccess("Completed sprint %s: %s", sprint.ID, sprint.Goal)
	helpers.PrintDetail("Velocity: %d stories done while active", sprint.Velocity)
	return nil
}

// ShowSprint prints the current active sprint and its backlog.
func (w *Workflow) ShowSprint() error {
	project, err := w.load()
	if err != nil {
		return err
	}

	sprint := project.ActiveSprint()
	if sprint == nil {
		helpers.PrintInfo("No active sprint")
		helpers.PrintHint("devcoach plan-sprint --goal \"Sprint objective\"")
		return nil
	}

	helpers.PrintTitle("Current Sprint: %s", sprint.ID)
	helpers.PrintDetail("Goal:     %s", sprint.Goal)
	helpers.PrintDetail("Duration: %d days", sprint.Days)
	if sprint.Started != nil {
		helpers.PrintDetail("Started:  %s", sprint.Started.Format("2006-01-02"))
	}
	helpers.PrintDetail("Velocity: %d", sprint.Velocity)

	if len(sprint.Stories) == 0 {
		helpers.PrintHint("devcoach assign-story <story-id> %s   # Add stories", sprint.ID)
		return nil
	}

	fmt.Println()
	helpers.PrintInfo("Sprint backlog (%d stories):", len(sprint.Stories))
	counts := map[models.StoryStatus]int{}
	for _, storyID := range sprint.Stories {
		story := project.Story(storyID)
		if story == nil {
			helpers.PrintWarning("%s referenced by sprint but missing from backlog", storyID)
			continue
		}
		counts[story.Status]++
		printStory(story)
	}
	fmt.Println()
	helpers.PrintDetail("Selected: %d  In progress: %d  Done: %d",
		counts[models.StorySelected], counts[models.StoryInProgress], counts[models.StoryDone])
	return nil
}
