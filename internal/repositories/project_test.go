package repositories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcoach/internal/models"
)

func newTestRepo() *ProjectRepository {
	return New(&models.Project{
		Meta: models.Meta{Name: "test-project"},
	})
}

func TestAddStoryAssignsSequentialIDs(t *testing.T) {
	repo := newTestRepo()

	first := repo.AddStory("A", "desc")
	second := repo.AddStory("B", "desc")

	assert.Equal(t, "US-001", first.ID)
	assert.Equal(t, "US-002", second.ID)
	assert.Equal(t, models.StoryBacklog, first.Status)
}

func TestNextIDDerivedFromMaxNotCount(t *testing.T) {
	// A sparse backlog (as if earlier items were removed by hand-editing
	// the document) must not lead to id reuse.
	repo := New(&models.Project{
		Meta:    models.Meta{Name: "test-project"},
		Backlog: []models.Story{{ID: "US-007", Title: "x", Status: models.StoryDone}},
	})

	story := repo.AddStory("next", "desc")

	assert.Equal(t, "US-008", story.ID)
}

func TestFindStoryNotFound(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.FindStory("US-999")

	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "US-999", notFound.ID)
	assert.Equal(t, "story", notFound.Kind)
}

func TestListBacklogFiltersDoneAndOrdersByID(t *testing.T) {
	repo := New(&models.Project{
		Meta: models.Meta{Name: "test-project"},
		Backlog: []models.Story{
			{ID: "US-003", Status: models.StoryInProgress},
			{ID: "US-001", Status: models.StoryDone},
			{ID: "US-002", Status: models.StoryBacklog},
		},
	})

	items := repo.ListBacklog()

	require.Len(t, items, 2)
	assert.Equal(t, "US-002", items[0].ID)
	assert.Equal(t, "US-003", items[1].ID)
}

func TestPlanSprintCreatesEmptyDraft(t *testing.T) {
	repo := newTestRepo()
	repo.AddStory("A", "desc")

	sprint := repo.PlanSprint("ship it", 7)

	assert.Equal(t, "S-001", sprint.ID)
	assert.Equal(t, models.SprintDraft, sprint.Status)
	assert.Equal(t, 7, sprint.Days)
	// Binding is explicit: planning never pulls in backlog stories.
	assert.Empty(t, sprint.Stories)
}

func TestAssignStoryToDraftSelectsStory(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	sprint := repo.PlanSprint("goal", 7)

	require.NoError(t, repo.AssignStory(story.ID, sprint.ID))

	assert.Equal(t, models.StorySelected, story.Status)
	assert.Equal(t, sprint.ID, story.Sprint)
	assert.Equal(t, []string{story.ID}, sprint.Stories)
}

func TestAssignStoryToCompletedSprintFails(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	sprint := repo.PlanSprint("goal", 7)
	_, err := repo.StartSprint(sprint.ID)
	require.NoError(t, err)
	_, err = repo.CompleteSprint(sprint.ID)
	require.NoError(t, err)

	err = repo.AssignStory(story.ID, sprint.ID)

	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "sprint", invalid.Kind)
	assert.Equal(t, models.StoryBacklog, story.Status)
}

func TestAssignStoryAlreadyBoundElsewhereFails(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	first := repo.PlanSprint("one", 7)
	second := repo.PlanSprint("two", 7)
	require.NoError(t, repo.AssignStory(story.ID, first.ID))

	err := repo.AssignStory(story.ID, second.ID)

	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, first.ID)
}

func TestStartSprintActivatesAndSetsCurrent(t *testing.T) {
	repo := newTestRepo()
	sprint := repo.PlanSprint("goal", 7)

	started, err := repo.StartSprint(sprint.ID)

	require.NoError(t, err)
	assert.Equal(t, models.SprintActive, started.Status)
	require.NotNil(t, started.Started)
	assert.Equal(t, sprint.ID, repo.Project().CurrentSprint)
}

func TestStartSprintNotFoundLeavesRepositoryUnchanged(t *testing.T) {
	repo := newTestRepo()
	repo.PlanSprint("goal", 7)

	_, err := repo.StartSprint("S-999")

	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "S-999", notFound.ID)
	assert.Empty(t, repo.Project().CurrentSprint)
	assert.Equal(t, models.SprintDraft, repo.Project().Sprints[0].Status)
}

func TestStartSecondSprintWhileOneActiveFails(t *testing.T) {
	repo := newTestRepo()
	first := repo.PlanSprint("one", 7)
	second := repo.PlanSprint("two", 7)
	_, err := repo.StartSprint(first.ID)
	require.NoError(t, err)

	_, err = repo.StartSprint(second.ID)

	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, first.ID)

	// The previously active sprint is untouched.
	assert.Equal(t, models.SprintActive, repo.Project().Sprint(first.ID).Status)
	assert.Equal(t, models.SprintDraft, repo.Project().Sprint(second.ID).Status)
	assert.Equal(t, first.ID, repo.Project().CurrentSprint)
}

func TestStartSprintTwiceFails(t *testing.T) {
	repo := newTestRepo()
	sprint := repo.PlanSprint("goal", 7)
	_, err := repo.StartSprint(sprint.ID)
	require.NoError(t, err)
	_, err = repo.CompleteSprint(sprint.ID)
	require.NoError(t, err)

	_, err = repo.StartSprint(sprint.ID)

	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, string(models.SprintCompleted), invalid.Status)
}

func TestCompleteSprintFreezesVelocityAndClearsCurrent(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	sprint := repo.PlanSprint("goal", 7)
	require.NoError(t, repo.AssignStory(story.ID, sprint.ID))
	_, err := repo.StartSprint(sprint.ID)
	require.NoError(t, err)
	_, err = repo.StartTask(story.ID)
	require.NoError(t, err)
	_, err = repo.CompleteTask(story.ID)
	require.NoError(t, err)

	completed, err := repo.CompleteSprint(sprint.ID)

	require.NoError(t, err)
	assert.Equal(t, models.SprintCompleted, completed.Status)
	assert.Equal(t, 1, completed.Velocity)
	require.NotNil(t, completed.Ended)
	assert.Empty(t, repo.Project().CurrentSprint)
}

func TestStartTaskFromBacklogAndSelected(t *testing.T) {
	repo := newTestRepo()
	fromBacklog := repo.AddStory("A", "desc")
	fromSelected := repo.AddStory("B", "desc")
	sprint := repo.PlanSprint("goal", 7)
	require.NoError(t, repo.AssignStory(fromSelected.ID, sprint.ID))
	require.Equal(t, models.StorySelected, fromSelected.Status)

	for _, story := range []*models.Story{fromBacklog, fromSelected} {
		started, err := repo.StartTask(story.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StoryInProgress, started.Status)
	}
}

func TestStartTaskWhenInProgressFails(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	_, err := repo.StartTask(story.ID)
	require.NoError(t, err)

	_, err = repo.StartTask(story.ID)

	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, models.EventStartTask, invalid.Event)
	assert.Equal(t, []string{models.EventCompleteTask}, invalid.Legal)
}

func TestDoneStoryAcceptsNoEvents(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	_, err := repo.StartTask(story.ID)
	require.NoError(t, err)
	_, err = repo.CompleteTask(story.ID)
	require.NoError(t, err)

	_, err = repo.StartTask(story.ID)
	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Empty(t, invalid.Legal)

	_, err = repo.CompleteTask(story.ID)
	require.True(t, errors.As(err, &invalid))
}

func TestCompleteTaskOutsideInProgressLeavesVelocityAlone(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	sprint := repo.PlanSprint("goal", 7)
	require.NoError(t, repo.AssignStory(story.ID, sprint.ID))
	_, err := repo.StartSprint(sprint.ID)
	require.NoError(t, err)

	// Story is selected, not in progress.
	_, err = repo.CompleteTask(story.ID)

	var invalid *models.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 0, sprint.Velocity)
	assert.Equal(t, models.StorySelected, story.Status)
}

func TestCompleteTaskInActiveSprintIncrementsVelocity(t *testing.T) {
	repo := newTestRepo()
	story := repo.AddStory("A", "desc")
	sprint := repo.PlanSprint("goal", 7)
	require.NoError(t, repo.AssignStory(story.ID, sprint.ID))
	_, err := repo.StartSprint(sprint.ID)
	require.NoError(t, err)
	_, err = repo.StartTask(story.ID)
	require.NoError(t, err)

	done, err := repo.CompleteTask(story.ID)

	require.NoError(t, err)
	assert.Equal(t, models.StoryDone, done.Status)
	assert.Equal(t, 1, sprint.Velocity)
}

func TestCompleteTaskOutsideActiveSprintDoesNotCount(t *testing.T) {
	repo := newTestRepo()
	unbound := repo.AddStory("A", "desc")
	sprint := repo.PlanSprint("goal", 7)
	_, err := repo.StartSprint(sprint.ID)
	require.NoError(t, err)
	_, err = repo.StartTask(unbound.ID)
	require.NoError(t, err)

	_, err = repo.CompleteTask(unbound.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, sprint.Velocity)
}

// Full lifecycle: empty project through a completed story in an active
// sprint, checking each intermediate state.
func TestFullSprintScenario(t *testing.T) {
	repo := newTestRepo()

	story := repo.AddStory("A", "desc")
	require.Equal(t, "US-001", story.ID)
	require.Equal(t, models.StoryBacklog, story.Status)

	sprint := repo.PlanSprint("G", 7)
	require.Equal(t, "S-001", sprint.ID)
	require.Equal(t, models.SprintDraft, sprint.Status)

	require.NoError(t, repo.AssignStory("US-001", "S-001"))

	started, err := repo.StartSprint("S-001")
	require.NoError(t, err)
	require.Equal(t, models.SprintActive, started.Status)
	require.Equal(t, "S-001", repo.Project().CurrentSprint)

	inProgress, err := repo.StartTask("US-001")
	require.NoError(t, err)
	require.Equal(t, models.StoryInProgress, inProgress.Status)

	done, err := repo.CompleteTask("US-001")
	require.NoError(t, err)
	require.Equal(t, models.StoryDone, done.Status)
	require.Equal(t, 1, sprint.Velocity)
}
