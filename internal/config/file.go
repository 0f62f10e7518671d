package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrExists is returned by WriteFile when the target exists and the mode
// does not allow touching it.
var ErrExists = errors.New("config already exists")

// WriteMode selects what WriteFile does with an existing file.
type WriteMode int

const (
	// WriteNew refuses to touch an existing file.
	WriteNew WriteMode = iota
	// WriteOverwrite replaces the file with fresh defaults.
	WriteOverwrite
	// WriteUpdate merges missing defaults into the file.
	WriteUpdate
)

// WriteResult reports what WriteFile did.
type WriteResult struct {
	Path      string
	Backup    string
	Unchanged bool
}

// WriteFile renders defaults to path. Existing files are backed up before
// they are replaced or updated.
func WriteFile(path string, mode WriteMode) (WriteResult, error) {
	res := WriteResult{Path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return res, err
	}
	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return res, err
	}

	content := RenderDefaultTOML()
	switch {
	case exists && mode == WriteNew:
		return res, fmt.Errorf("%w at %s", ErrExists, path)
	case exists && mode == WriteUpdate:
		updated, changed := UpdateTOML(string(existing))
		if !changed {
			res.Unchanged = true
			return res, nil
		}
		content = updated
	}

	if exists {
		if res.Backup, err = backup(path, existing); err != nil {
			return res, err
		}
	}
	return res, os.WriteFile(path, []byte(content), 0o600)
}

func backup(path string, data []byte) (string, error) {
	target := path + ".bak"
	if _, err := os.Stat(target); err == nil {
		target = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	return target, os.WriteFile(target, data, 0o600)
}
