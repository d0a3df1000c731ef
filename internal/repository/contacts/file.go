package contacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	domain "github.com/oshokin/alert-relay/internal/domain/alert"
)

// Directory resolves a team identifier to its ordered member list.
type Directory interface {
	// Resolve returns the team members for the identifier, preserving order.
	// The second result is false when the identifier is unknown or empty.
	Resolve(teamID string) (domain.Team, bool)
}

// FileDirectory is an immutable Directory loaded from a JSON file once at
// startup. The file maps team identifiers to lists of {"phone": ...} objects.
type FileDirectory struct {
	// teams is the loaded mapping. Never mutated after construction.
	teams map[string]domain.Team
}

// NewFileDirectory reads and parses the contact file at the provided path.
// A missing or malformed file is a startup failure: the service must not run
// without a contact directory.
func NewFileDirectory(path string) (*FileDirectory, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read contacts file: %w", err)
	}

	return ParseDirectory(contents)
}

// ParseDirectory builds a FileDirectory from raw JSON contents.
func ParseDirectory(contents []byte) (*FileDirectory, error) {
	teams := make(map[string]domain.Team)
	if err := json.Unmarshal(contents, &teams); err != nil {
		return nil, fmt.Errorf("decode contacts file: %w", err)
	}

	return &FileDirectory{teams: teams}, nil
}

// Resolve returns the ordered member list for the team identifier.
func (d *FileDirectory) Resolve(teamID string) (domain.Team, bool) {
	if teamID == "" {
		return nil, false
	}

	team, ok := d.teams[teamID]
	if !ok {
		return nil, false
	}

	// Cloned so callers cannot mutate the directory.
	return team.Clone(), true
}
