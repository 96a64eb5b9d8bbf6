package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"devcoach/internal/models"
	"devcoach/internal/templates"
)

// NewProject builds a valid-but-empty project aggregate for the directory,
// detecting the tech stack from marker files and deriving initial tags.
func NewProject(dir, name, description string) *models.Project {
	techStack := DetectTechStack(dir)
	return &models.Project{
		Meta: models.Meta{
			Name:        name,
			Description: description,
			Created:     time.Now().UTC(),
			TechStack:   techStack,
			Tags:        InitialTags(name, techStack),
		},
	}
}

// DetectTechStack inspects the directory for common project marker files.
func DetectTechStack(dir string) []string {
	markers := []struct {
		files []string
		tech  string
	}{
		{[]string{"go.mod"}, "go"},
		{[]string{"Cargo.toml"}, "rust"},
		{[]string{"package.json"}, "nodejs"},
		{[]string{"requirements.txt", "setup.py", "pyproject.toml"}, "python"},
		{[]string{"pom.xml", "build.gradle"}, "java"},
		{[]string{"Dockerfile"}, "docker"},
		{[]string{".git"}, "git"},
	}

	var stack []string
	for _, m := range markers {
		for _, f := range m.files {
			if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
				stack = append(stack, m.tech)
				break
			}
		}
	}

	if len(stack) == 0 {
		stack = []string{"general"}
	}
	return stack
}

// InitialTags derives starter tags from the project name and tech stack.
func InitialTags(name string, techStack []string) []string {
	var tags []string

	nameLower := strings.ToLower(name)
	switch {
	case strings.Contains(nameLower, "api"), strings.Contains(nameLower, "server"):
		tags = append(tags, "backend")
	case strings.Contains(nameLower, "web"), strings.Contains(nameLower, "ui"):
		tags = append(tags, "frontend")
	case strings.Contains(nameLower, "cli"), strings.Contains(nameLower, "tool"):
		tags = append(tags, "cli")
	case strings.Contains(nameLower, "lib"):
		tags = append(tags, "library")
	}

	for _, tech := range techStack {
		switch tech {
		case "go", "rust":
			tags = append(tags, "systems")
		case "nodejs":
			tags = append(tags, "javascript")
		case "docker":
			tags = append(tags, "containers")
		}
	}

	if len(tags) == 0 {
		tags = []string{"development"}
	}
	return tags
}

// WritePrompts creates the per-project prompt directory seeded with the
// built-in templates, so operators have something concrete to edit.
func WritePrompts(dir string) error {
	promptDir := filepath.Join(dir, templates.Dir)
	if err := os.MkdirAll(promptDir, 0755); err != nil {
		return fmt.Errorf("failed to create prompt directory: %w", err)
	}

	for name, body := range templates.Defaults() {
		path := filepath.Join(promptDir, name+".md")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return fmt.Errorf("failed to write prompt %s: %w", name, err)
		}
	}
	return nil
}
