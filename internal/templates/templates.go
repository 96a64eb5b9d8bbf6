package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is the per-project prompt override directory.
const Dir = ".devcoach/prompts"

// Template names
const (
	RequirementsAnalyst = "requirements-analyst"
	TaskAssistant       = "task-assistant"
)

var defaults = map[string]string{
	RequirementsAnalyst: requirementsAnalystDefault,
	TaskAssistant:       taskAssistantDefault,
}

// Load returns the prompt template with the given name. A per-project
// override at .devcoach/prompts/<name>.md wins; otherwise the built-in
// default is used. Only an unknown name is an error.
func Load(projectDir, name string) (string, error) {
	def, ok := defaults[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}

	path := filepath.Join(projectDir, Dir, name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return def, nil
	}
	return string(data), nil
}

// Render substitutes {{key}} placeholders in a template.
func Render(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

// Defaults returns the built-in templates keyed by name, for scaffolding
// the per-project override directory.
func Defaults() map[string]string {
	out := make(map[string]string, len(defaults))
	for name, body := range defaults {
		out[name] = body
	}
	return out
}

const requirementsAnalystDefault = `You are a skilled requirements analyst for software projects.

PROJECT: {{project_name}}
DESCRIPTION: {{project_description}}
TECH STACK: {{tech_stack}}
TAGS: {{tags}}

TASK: Analyze the following natural language requirement and propose
structured, implementable user stories for this project.

REQUIREMENT: "{{requirement}}"

For each proposed story include:
- A short descriptive title
- A story in the form "As a [user] I want [goal] so that [benefit]"
- Testable acceptance criteria
- An effort estimate of 1-8 story points

Keep stories focused and implementable. Aim for 2-5 user stories.
`

const taskAssistantDefault = `You are an experienced software developer helping with a project task.

PROJECT: {{project_name}}
DESCRIPTION: {{project_description}}
TECH STACK: {{tech_stack}}
TAGS: {{tags}}

TASK {{task_id}}: {{task_title}}
STORY: {{task_description}}

Provide concrete implementation guidance for this task: suggested approach,
key design decisions, code sketches where useful, and the order of steps.
Stay within the project's tech stack.
`
