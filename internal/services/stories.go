package services

import (
	"fmt"
	"strings"

	"devcoach/internal/helpers"
	"devcoach/internal/models"
	"devcoach/internal/ollama"
	"devcoach/internal/repositories"
	"devcoach/internal/templates"
)

// AddStory appends a new backlog story and persists the state.
func (w *Workflow) AddStory(title, description string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	repo := repositories.New(project)
	story := repo.AddStory(title, description)

	if err := w.save(project); err != nil {
		return err
	}

	helpers.PrintSuccess("Added story %s: %s", story.ID, story.Title)
	helpers.PrintHint("devcoach list-backlog               # View updated backlog")
	helpers.PrintHint("devcoach plan-sprint --goal \"...\"   # Plan a sprint")
	return nil
}

// AddRequirement sends a natural-language requirement through the
// requirements-analyst template and prints the model's analysis. Turning
// that free-form text into backlog entries is left to the operator.
func (w *Workflow) AddRequirement(requirement string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	resolved, err := w.resolveLLM(project.Meta.LLM)
	if err != nil {
		return err
	}

	template, err := templates.Load(w.Dir, templates.RequirementsAnalyst)
	if err != nil {
		return err
	}
	prompt := templates.Render(template, map[string]string{
		"project_name":        project.Meta.Name,
		"project_description": project.Meta.Description,
		"tech_stack":          strings.Join(project.Meta.TechStack, ", "),
		"tags":                strings.Join(project.Meta.Tags, ", "),
		"requirement":         requirement,
	})

	helpers.PrintInfo("Analyzing requirement with %s...", resolved.Model)
	response, err := ollama.New(resolved).Generate(prompt)
	if err != nil {
		return err
	}

	fmt.Println()
	helpers.PrintTitle("Requirement analysis")
	fmt.Println(response)
	fmt.Println()
	helpers.PrintHint("devcoach add-story --title \"...\" --description \"...\"   # Track the proposed stories")
	return nil
}

// ListBacklog prints all stories not yet done, ordered by id.
func (w *Workflow) ListBacklog() error {
	project, err := w.load()
	if err != nil {
		return err
	}

	items := repositories.New(project).ListBacklog()
	if len(items) == 0 {
		helpers.PrintInfo("Backlog is empty")
		helpers.PrintHint("devcoach add-story --title \"...\" --description \"...\"")
		return nil
	}

	helpers.PrintTitle("Backlog (%d items)", len(items))
	for _, story := range items {
		printStory(story)
	}
	return nil
}

// ListStories prints every story grouped by status.
func (w *Workflow) ListStories() error {
	project, err := w.load()
	if err != nil {
		return err
	}

	if len(project.Backlog) == 0 {
		helpers.PrintInfo("No stories found")
		helpers.PrintHint("devcoach add-story --title \"...\" --description \"...\"")
		return nil
	}

	helpers.PrintTitle("Stories (%d total)", len(project.Backlog))
	order := []models.StoryStatus{models.StoryInProgress, models.StorySelected, models.StoryBacklog, models.StoryDone}
	for _, status := range order {
		var group []*models.Story
		for i := range project.Backlog {
			if project.Backlog[i].Status == status {
				group = append(group, &project.Backlog[i])
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Println()
		helpers.PrintInfo("%s (%d):", status, len(group))
		for _, story := range group {
			printStory(story)
		}
	}
	return nil
}

func printStory(story *models.Story) {
	helpers.PrintDetail("%s [%s] %s", story.ID, story.Status, story.Title)
	if story.Description != "" {
		helpers.PrintDetail("    %s", story.Description)
	}
	if story.Sprint != "" {
		helpers.PrintDetail("    sprint: %s", story.Sprint)
	}
}
