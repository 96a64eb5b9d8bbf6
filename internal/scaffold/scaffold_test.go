package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcoach/internal/templates"
)

func TestDetectTechStackFromMarkers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0644))

	stack := DetectTechStack(dir)

	assert.Contains(t, stack, "go")
	assert.Contains(t, stack, "docker")
	assert.NotContains(t, stack, "rust")
}

func TestDetectTechStackEmptyDirIsGeneral(t *testing.T) {
	assert.Equal(t, []string{"general"}, DetectTechStack(t.TempDir()))
}

func TestInitialTags(t *testing.T) {
	tags := InitialTags("payments-api", []string{"go", "docker"})

	assert.Contains(t, tags, "backend")
	assert.Contains(t, tags, "systems")
	assert.Contains(t, tags, "containers")
}

func TestInitialTagsDefault(t *testing.T) {
	assert.Equal(t, []string{"development"}, InitialTags("thing", []string{"general"}))
}

func TestNewProjectIsValidAndEmpty(t *testing.T) {
	project := NewProject(t.TempDir(), "demo", "a demo")

	require.NoError(t, project.Validate())
	assert.Equal(t, "demo", project.Meta.Name)
	assert.Empty(t, project.Backlog)
	assert.Empty(t, project.Sprints)
	assert.Empty(t, project.CurrentSprint)
	assert.NotEmpty(t, project.Meta.TechStack)
	assert.False(t, project.Meta.Created.IsZero())
}

func TestWritePromptsSeedsDefaults(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WritePrompts(dir))

	for name := range templates.Defaults() {
		path := filepath.Join(dir, templates.Dir, name+".md")
		data, err := os.ReadFile(path)
		require.NoError(t, err, "prompt %s", name)
		assert.NotEmpty(t, data)
	}
}

func TestWritePromptsKeepsExistingOverrides(t *testing.T) {
	dir := t.TempDir()
	promptDir := filepath.Join(dir, templates.Dir)
	require.NoError(t, os.MkdirAll(promptDir, 0755))
	custom := []byte("my custom prompt\n")
	path := filepath.Join(promptDir, templates.TaskAssistant+".md")
	require.NoError(t, os.WriteFile(path, custom, 0644))

	require.NoError(t, WritePrompts(dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}
