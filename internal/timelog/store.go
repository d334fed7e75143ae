package timelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gorewood/tracker/internal/output"
)

// filePerm is the mode of a newly created log file.
const filePerm = 0o644

// Store reads and writes one log file.
type Store struct {
	path string
}

// NewStore returns a store for the log file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the log file. A missing file yields an empty log. Contents
// that do not decode are an error wrapping ErrMalformedLog; the log is
// never silently truncated.
func (s *Store) Load() (*Log, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewLog(), nil
		}
		return nil, output.NewSystemErrorWithCause("failed to read log file: "+s.path, err)
	}

	log, err := Decode(data)
	if err != nil {
		return nil, output.NewSystemErrorWithCause(
			fmt.Sprintf("log file %s is malformed: %v", s.path, err), err)
	}
	return log, nil
}

// Save replaces the log file with the whole log. The new contents are
// written next to the file and renamed over it, so a crash leaves either
// the old file or the new one. A symlinked journal is written through the
// link, and an existing file keeps its permissions.
func (s *Store) Save(log *Log) error {
	data, err := Encode(log)
	if err != nil {
		return output.NewSystemErrorWithCause("failed to serialize log", err)
	}
	target, perm := s.path, os.FileMode(filePerm)
	if resolved, err := filepath.EvalSymlinks(s.path); err == nil {
		target = resolved
	}
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}
	if err := atomicWrite(target, data, perm); err != nil {
		return output.NewSystemErrorWithCause("failed to save log file: "+s.path, err)
	}
	return nil
}

// atomicWrite writes data to a temp file in the target directory and
// renames it over path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tracker-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads the log file at path. See Store.Load.
func Load(path string) (*Log, error) {
	return NewStore(path).Load()
}

// Save writes log to path. See Store.Save.
func Save(path string, log *Log) error {
	return NewStore(path).Save(log)
}

// Encode serializes a log to its file form: a JSON array of
// [label, timestamp] pairs followed by a newline.
func Encode(log *Log) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(log); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses the file form. Every failure wraps ErrMalformedLog.
func Decode(data []byte) (*Log, error) {
	log := NewLog()
	if err := json.Unmarshal(data, log); err != nil {
		if errors.Is(err, ErrMalformedLog) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	return log, nil
}
