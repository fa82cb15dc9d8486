package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const mirrorFileName = "sessionsState.json"

// FileMirror persists snapshots as a JSON file in a directory.
type FileMirror struct {
	dir string
}

// NewFileMirror creates a mirror rooted at dir.
func NewFileMirror(dir string) *FileMirror {
	return &FileMirror{dir: dir}
}

func (m *FileMirror) path() string {
	return filepath.Join(m.dir, mirrorFileName)
}

// Load reads the persisted snapshot. A missing or corrupt file yields an
// empty snapshot so a damaged mirror never blocks startup.
func (m *FileMirror) Load() (Snapshot, error) {
	data, err := os.ReadFile(m.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, nil
	}
	return snap, nil
}

// Save writes the snapshot, creating the directory if needed.
func (m *FileMirror) Save(snap Snapshot) error {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(m.path(), data, 0o600)
}
