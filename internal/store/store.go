package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"devcoach/internal/models"
)

// StateFile is the project state document name, relative to the project root.
const StateFile = "devcoach.json"

// ErrNotInitialized marks an absent state document. Commands translate it
// into an "init first" hint instead of a persistence failure.
var ErrNotInitialized = errors.New("no devcoach project found (devcoach.json missing)")

// PersistenceError reports an unreadable or unwritable state document for
// reasons other than absence.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s project state at %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Exists reports whether a state document is present at the path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Load reads and validates the project state document.
func Load(path string) (*models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	var project models.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	if err := project.Validate(); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	return &project, nil
}

// Save writes the project state document all-or-nothing: the document is
// marshalled and written to a temp file in the same directory, then renamed
// over the target. A failed command never leaves a half-written document.
func Save(path string, project *models.Project) error {
	if err := project.Validate(); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".devcoach-*.json")
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	return nil
}
