package beatmapcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Entry is one cached beatmap file.
type Entry struct {
	Data      []byte
	FetchedAt time.Time
	Size      int
}

// FileStore keeps one file per beatmap id, named <id>.osu, and uses the
// file modification time as the fetch time.
//
// Contract:
// - Concurrency: safe for concurrent use. Writers for the same id must be
// serialized by the caller; readers never observe a partial file.
// - Errors: a failed Save leaves the previous file untouched.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// the first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file path for id.
func (s *FileStore) Path(id int) string {
	return filepath.Join(s.dir, strconv.Itoa(id)+".osu")
}

// Load reads the file for id. A missing file returns ok=false with no error.
func (s *FileStore) Load(id int) (Entry, bool, error) {
	path := s.Path(id)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("beatmapcache: stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("beatmapcache: read %s: %w", path, err)
	}

	return Entry{Data: data, FetchedAt: info.ModTime(), Size: len(data)}, true, nil
}

// Save writes data for id through a temporary file in the same directory
// and renames it into place. fetchedAt becomes the file's modification time.
func (s *FileStore) Save(id int, data []byte, fetchedAt time.Time) (err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("beatmapcache: create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, strconv.Itoa(id)+".osu.*.tmp")
	if err != nil {
		return fmt.Errorf("beatmapcache: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("beatmapcache: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("beatmapcache: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("beatmapcache: close temp file: %w", err)
	}
	if err := os.Chtimes(tmpPath, fetchedAt, fetchedAt); err != nil {
		return fmt.Errorf("beatmapcache: set fetch time: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(id)); err != nil {
		return fmt.Errorf("beatmapcache: replace cache file: %w", err)
	}

	success = true
	return nil
}

// Remove deletes the file for id. Removing a missing file is not an error.
func (s *FileStore) Remove(id int) error {
	err := os.Remove(s.Path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("beatmapcache: remove: %w", err)
	}
	return nil
}
