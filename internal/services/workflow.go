package services

import (
	"errors"
	"fmt"
	"path/filepath"

	"devcoach/internal/config"
	"devcoach/internal/helpers"
	"devcoach/internal/models"
	"devcoach/internal/ollama"
	"devcoach/internal/scaffold"
	"devcoach/internal/store"
)

// Workflow orchestrates every CLI command: it loads the persisted project
// state, resolves config when a command talks to the LLM, mutates through
// the repository, and persists once per invocation.
type Workflow struct {
	// Dir is the project directory holding the state document.
	Dir string
	// GlobalConfig is the user-scoped config document path.
	GlobalConfig string
}

// New creates a workflow rooted at the given project directory.
func New(dir string) *Workflow {
	return &Workflow{
		Dir:          dir,
		GlobalConfig: config.GlobalPath(),
	}
}

func (w *Workflow) statePath() string {
	return filepath.Join(w.Dir, store.StateFile)
}

func (w *Workflow) load() (*models.Project, error) {
	project, err := store.Load(w.statePath())
	if errors.Is(err, store.ErrNotInitialized) {
		return nil, fmt.Errorf("%w: run 'devcoach init' first", err)
	}
	return project, err
}

func (w *Workflow) save(project *models.Project) error {
	return store.Save(w.statePath(), project)
}

// layerOf extracts the project's LLM override layer, tolerating a nil
// project for commands that can run before init.
func layerOf(project *models.Project) *config.Layer {
	if project == nil {
		return nil
	}
	return project.Meta.LLM
}

// resolveLLM produces a fresh resolved config for the invocation. The
// project layer may be nil when no project exists yet.
func (w *Workflow) resolveLLM(projectLayer *config.Layer) (config.Resolved, error) {
	global, err := config.LoadGlobal(w.GlobalConfig)
	if err != nil {
		return config.Resolved{}, err
	}
	return config.Resolve(projectLayer, global.LLM), nil
}

// Init scaffolds a valid-but-empty project state in the directory.
// Running it twice is a no-op with a hint.
func (w *Workflow) Init(name, description string) error {
	if store.Exists(w.statePath()) {
		helpers.PrintWarning("Project already initialized (%s exists)", store.StateFile)
		helpers.PrintHint("devcoach status            # View project status")
		helpers.PrintHint("devcoach add-story ...     # Add work items")
		return nil
	}

	if name == "" {
		abs, err := filepath.Abs(w.Dir)
		if err != nil {
			return fmt.Errorf("failed to resolve project directory: %w", err)
		}
		name = filepath.Base(abs)
	}
	if description == "" {
		description = fmt.Sprintf("AI-assisted development project for %s", name)
	}

	helpers.PrintTitle("Initializing devcoach project: %s", name)

	project := scaffold.NewProject(w.Dir, name, description)
	if err := w.save(project); err != nil {
		return err
	}
	helpers.PrintSuccess("Created %s", store.StateFile)

	if err := scaffold.WritePrompts(w.Dir); err != nil {
		return err
	}
	helpers.PrintSuccess("Created prompt templates in %s", filepath.Join(w.Dir, ".devcoach/prompts"))

	helpers.PrintHint("devcoach add-requirement \"...\"   # Analyze your first requirement")
	helpers.PrintHint("devcoach add-story --title ...    # Add a story directly")
	return nil
}

// Status reports project metadata, the resolved LLM config with per-field
// provenance, connectivity, and backlog/sprint summaries.
func (w *Workflow) Status() error {
	project, err := w.load()
	if err != nil {
		return err
	}

	helpers.PrintTitle("Project Status: %s", project.Meta.Name)
	helpers.PrintDetail("Description: %s", project.Meta.Description)
	helpers.PrintDetail("Tech stack:  %v", project.Meta.TechStack)
	helpers.PrintDetail("Created:     %s", project.Meta.Created.Format("2006-01-02 15:04 UTC"))
	fmt.Println()

	resolved, err := w.resolveLLM(project.Meta.LLM)
	if err != nil {
		return err
	}

	helpers.PrintInfo("LLM configuration (resolved):")
	for _, field := range config.Fields {
		helpers.PrintDetail("%-11s %-24s (source: %s)", string(field)+":", resolved.Value(field), resolved.Origin[field])
	}
	helpers.PrintDetail("%-11s %s", "base URL:", resolved.BaseURL())

	client := ollama.New(resolved)
	if names, err := client.Ping(); err != nil {
		helpers.PrintError("Ollama not reachable at %s: %v", resolved.BaseURL(), err)
	} else {
		helpers.PrintSuccess("Connected to %s (%d models available)", resolved.BaseURL(), len(names))
	}
	fmt.Println()

	printBacklogSummary(project)
	printSprintSummary(project)
	return nil
}

func printBacklogSummary(project *models.Project) {
	helpers.PrintInfo("Backlog summary:")
	if len(project.Backlog) == 0 {
		helpers.PrintDetail("No items in backlog")
		helpers.PrintHint("devcoach add-story --title \"...\" --description \"...\"")
		return
	}

	counts := map[models.StoryStatus]int{}
	for i := range project.Backlog {
		counts[project.Backlog[i].Status]++
	}
	helpers.PrintDetail("Total: %d", len(project.Backlog))
	helpers.PrintDetail("Backlog: %d  Selected: %d  In progress: %d  Done: %d",
		counts[models.StoryBacklog], counts[models.StorySelected],
		counts[models.StoryInProgress], counts[models.StoryDone])
	if done := counts[models.StoryDone]; done > 0 {
		helpers.PrintDetail("Completion: %d%%", done*100/len(project.Backlog))
	}
}

func printSprintSummary(project *models.Project) {
	fmt.Println()
	helpers.PrintInfo("Sprints:")
	if len(project.Sprints) == 0 {
		helpers.PrintDetail("No sprints created")
		helpers.PrintHint("devcoach plan-sprint --goal \"Sprint objective\"")
		return
	}

	helpers.PrintDetail("Total: %d", len(project.Sprints))
	if active := project.ActiveSprint(); active != nil {
		helpers.PrintDetail("Current: %s - %s (velocity %d)", active.ID, active.Goal, active.Velocity)
	} else {
		helpers.PrintDetail("No active sprint")
	}
}
