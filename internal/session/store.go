// File: internal/session/store.go
package session

import (
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/xkilldash9x/consolepilot/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store persists exactly one SessionRecord at a configured path. It assumes a
// single interactive operator or process at a time; concurrent processes
// sharing one session file are not supported.
type Store struct {
	fs   afero.Fs
	path string
	log  *zap.Logger
}

// NewStore creates a session store writing to path on the given filesystem.
func NewStore(fs afero.Fs, path string, logger *zap.Logger) *Store {
	return &Store{
		fs:   fs,
		path: path,
		log:  logger.Named("session"),
	}
}

// Path returns the configured session file location.
func (s *Store) Path() string {
	return s.path
}

// Save wraps the given authentication state with the current timestamp and
// schema version and replaces the persisted record wholesale. It never
// returns an error: failures are logged and reported as false so a broken
// disk cannot take down a scrape that already has a live session.
func (s *Store) Save(state schemas.AuthState) bool {
	record := schemas.SessionRecord{
		StorageState: state,
		SavedAt:      time.Now().UTC().Format(time.RFC3339),
		Version:      schemas.SessionSchemaVersion,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		s.log.Error("Failed to encode session record", zap.Error(err))
		return false
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("Failed to create session directory", zap.String("dir", dir), zap.Error(err))
			return false
		}
	}

	// Write-then-rename so a crash mid-write cannot leave a truncated record
	// at the configured path.
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		s.log.Error("Failed to write session file", zap.String("path", tmp), zap.Error(err))
		return false
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.log.Error("Failed to move session file into place", zap.String("path", s.path), zap.Error(err))
		return false
	}

	s.log.Info("Session saved", zap.String("path", s.path), zap.Int("cookies", len(state.Cookies)))
	return true
}

// Load reads and decodes the persisted record. A missing or unparsable file
// is "absent" (nil), never an error: a corrupt record must never crash the
// caller, it just forces a fresh login.
func (s *Store) Load() *schemas.SessionRecord {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("No session file", zap.String("path", s.path))
		} else {
			s.log.Warn("Failed to read session file", zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}

	var record schemas.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.log.Warn("Session file is not valid JSON, treating as absent",
			zap.String("path", s.path), zap.Error(err))
		return nil
	}

	s.log.Debug("Session loaded", zap.String("path", s.path), zap.String("saved_at", record.SavedAt))
	return &record
}

// Delete removes the persisted record. Deleting a non-existent record is not
// an error.
func (s *Store) Delete() bool {
	if err := s.fs.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return true
		}
		s.log.Error("Failed to delete session file", zap.String("path", s.path), zap.Error(err))
		return false
	}
	s.log.Info("Session file deleted", zap.String("path", s.path))
	return true
}
