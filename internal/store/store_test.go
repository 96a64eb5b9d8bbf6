package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcoach/internal/models"
)

func testProject() *models.Project {
	return &models.Project{
		Meta: models.Meta{
			Name:        "demo",
			Description: "demo project",
			Created:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			TechStack:   []string{"go"},
			Tags:        []string{"cli"},
		},
		Backlog: []models.Story{
			{ID: "US-001", Title: "A", Status: models.StoryBacklog, Created: time.Now().UTC()},
		},
		Sprints: []models.Sprint{
			{ID: "S-001", Goal: "G", Days: 7, Status: models.SprintDraft, Created: time.Now().UTC()},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFile)

	require.NoError(t, Save(path, testProject()))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Meta.Name)
	require.Len(t, loaded.Backlog, 1)
	assert.Equal(t, "US-001", loaded.Backlog[0].ID)
	assert.Equal(t, models.StoryBacklog, loaded.Backlog[0].Status)
	require.Len(t, loaded.Sprints, 1)
	assert.Equal(t, models.SprintDraft, loaded.Sprints[0].Status)
	assert.Empty(t, loaded.CurrentSprint)
}

func TestLoadMissingIsNotInitialized(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), StateFile))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInitialized))
}

func TestLoadMalformedIsPersistenceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)

	var persistErr *PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, "load", persistErr.Op)
	assert.False(t, errors.Is(err, ErrNotInitialized))
}

func TestLoadRejectsInvalidAggregate(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFile)
	// Two active sprints violate the single-active invariant.
	content := `{
  "meta": {"name": "demo"},
  "backlog": [],
  "sprints": [
    {"id": "S-001", "status": "active"},
    {"id": "S-002", "status": "active"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)

	var persistErr *PersistenceError
	require.True(t, errors.As(err, &persistErr))
}

func TestSaveIsAllOrNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFile)
	require.NoError(t, Save(path, testProject()))

	// A save that fails validation must leave the previous document intact.
	broken := testProject()
	broken.Meta.Name = ""
	require.Error(t, Save(path, broken))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Meta.Name)
}

func TestSaveLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, StateFile)

	require.NoError(t, Save(path, testProject()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StateFile, entries[0].Name())
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, StateFile)

	assert.False(t, Exists(path))
	require.NoError(t, Save(path, testProject()))
	assert.True(t, Exists(path))
}
