package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"devcoach/internal/helpers"
	"devcoach/internal/ollama"
	"devcoach/internal/repositories"
	"devcoach/internal/store"
	"devcoach/internal/templates"
)

// StartTask moves a story to in-progress.
func (w *Workflow) StartTask(id string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	story, err := repositories.New(project).StartTask(id)
	if err != nil {
		return err
	}

	if err := w.save(project); err != nil {
		return err
	}

	helpers.PrintSuccess("Started task %s: %s", story.ID, story.Title)
	helpers.PrintHint("devcoach assist-task %s     # Get LLM assistance", story.ID)
	helpers.PrintHint("devcoach complete-task %s   # Mark done when finished", story.ID)
	return nil
}

// CompleteTask moves an in-progress story to done and credits the active
// sprint's velocity when the story belongs to it.
func (w *Workflow) CompleteTask(id string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	repo := repositories.New(project)
	story, err := repo.CompleteTask(id)
	if err != nil {
		return err
	}

	if err := w.save(project); err != nil {
		return err
	}

	helpers.PrintSuccess("Completed task %s: %s", story.ID, story.Title)
	if story.Sprint != "" {
		if sprint := project.Sprint(story.Sprint); sprint != nil {
			helpers.PrintDetail("Sprint %s velocity: %d", sprint.ID, sprint.Velocity)
		}
	}
	return nil
}

// AssistTask asks the LLM for implementation guidance on a story. The
// project state is not mutated.
func (w *Workflow) AssistTask(id string) error {
	project, err := w.load()
	if err != nil {
		return err
	}

	story, err := repositories.New(project).FindStory(id)
	if err != nil {
		return err
	}

	resolved, err := w.resolveLLM(project.Meta.LLM)
	if err != nil {
		return err
	}

	template, err := templates.Load(w.Dir, templates.TaskAssistant)
	if err != nil {
		return err
	}
	prompt := templates.Render(template, map[string]string{
		"project_name":        project.Meta.Name,
		"project_description": project.Meta.Description,
		"tech_stack":          strings.Join(project.Meta.TechStack, ", "),
		"tags":                strings.Join(project.Meta.Tags, ", "),
		"task_id":             story.ID,
		"task_title":          story.Title,
		"task_description":    story.Description,
	})

	helpers.PrintInfo("Asking %s for help with %s...", resolved.Model, story.ID)
	response, err := ollama.New(resolved).Generate(prompt)
	if err != nil {
		return err
	}

	fmt.Println()
	helpers.PrintTitle("Assistance for %s: %s", story.ID, story.Title)
	fmt.Println(response)
	fmt.Println()
	helpers.PrintHint("devcoach complete-task %s   # Mark done when finished", story.ID)
	return nil
}

// LLMCycle sends a free-form prompt to the LLM. An argument naming a
// readable file is read as the prompt body. Works without an initialized
// project by falling back to the global/default config.
func (w *Workflow) LLMCycle(prompt string) error {
	project, err := w.load()
	switch {
	case err == nil:
		// project layer participates in resolution below
	case errors.Is(err, store.ErrNotInitialized):
		helpers.PrintWarning("No devcoach project found, using global/default LLM configuration")
		project = nil
	default:
		return err
	}

	resolved, err := w.resolveLLM(layerOf(project))
	if err != nil {
		return err
	}

	text := prompt
	if data, err := os.ReadFile(prompt); err == nil {
		helpers.PrintInfo("Reading prompt from file: %s", prompt)
		text = string(data)
	}

	helpers.PrintInfo("Sending prompt to %s...", resolved.Model)
	response, err := ollama.New(resolved).Chat(text)
	if err != nil {
		return err
	}

	fmt.Println()
	helpers.PrintTitle("LLM response")
	fmt.Println(response)
	return nil
}
