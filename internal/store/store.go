package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"meditrack/internal/model"
)

var (
	ErrCorrupt      = errors.New("data file is corrupt")
	ErrUserNotFound = errors.New("user not found")
)

// Document is the whole persisted file.
type Document struct {
	Users map[string]model.UserRecord `json:"users"`
}

// Store keeps every user in a single JSON file. Writes are
// read-modify-write without locking; the last writer wins.
type Store struct {
	path  string
	clock clockwork.Clock
	log   *zap.Logger
}

func New(path string, clock clockwork.Clock, log *zap.Logger) *Store {
	return &Store{
		path:  path,
		clock: clock,
		log:   log.With(zap.String("component", "store"), zap.String("path", path)),
	}
}

func (s *Store) Path() string { return s.path }

// Load reads the document. A missing or empty file is an empty document.
// A file that does not parse yields an empty document and ErrCorrupt.
func (s *Store) Load() (Document, error) {
	doc := Document{Users: map[string]model.UserRecord{}}

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Debug("no data file yet")
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		s.log.Debug("data file is empty")
		return doc, nil
	}

	var raw Document
	if err := json.Unmarshal(b, &raw); err != nil {
		s.log.Warn("data file does not parse", zap.Error(err))
		return doc, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if raw.Users != nil {
		doc.Users = raw.Users
	}
	return doc, nil
}

// read is Load for the read-only helpers: a corrupt file reads as empty.
func (s *Store) read() (Document, error) {
	doc, err := s.Load()
	if errors.Is(err, ErrCorrupt) {
		return doc, nil
	}
	return doc, err
}

func (s *Store) UserExists(username string) (bool, error) {
	doc, err := s.read()
	if err != nil {
		return false, err
	}
	_, ok := doc.Users[username]
	return ok, nil
}

func (s *Store) LoadUser(username string) (*model.User, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	rec, ok := doc.Users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	u, err := model.UserFromRecord(rec)
	if err != nil {
		s.log.Warn("user record does not decode", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return u, nil
}

// SaveUser replaces or inserts u's record. A corrupt document is moved
// aside before the new one is written, never overwritten in place.
func (s *Store) SaveUser(u *model.User) error {
	doc, err := s.Load()
	if errors.Is(err, ErrCorrupt) {
		if err := s.quarantine(); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	doc.Users[u.Username] = u.ToRecord()
	return s.write(doc)
}

func (s *Store) quarantine() error {
	dst := fmt.Sprintf("%s.corrupt-%s", s.path, s.clock.Now().UTC().Format("20060102T150405"))
	if err := os.Rename(s.path, dst); err != nil {
		return fmt.Errorf("move corrupt data file aside: %w", err)
	}
	s.log.Warn("corrupt data file moved aside", zap.String("moved_to", dst))
	return nil
}

// write replaces the file atomically: temp file in the same directory,
// fsync, rename.
func (s *Store) write(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".meditrack-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}

	success = true
	s.log.Debug("document saved", zap.Int("users", len(doc.Users)))
	return nil
}
