package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"
	"github.com/rfaisal/noteminder/internal/models"
	"github.com/rfaisal/noteminder/internal/shared"
)

const (
	backupPrefix = "notes_auto_"
	backupSuffix = ".json"

	// backupTimestampFormat sorts lexicographically in chronological order,
	// which is what backup selection and pruning rely on.
	backupTimestampFormat = "20060102_150405.000000000"
)

// Config holds the settings for opening a [Store].
type Config struct {
	Dir             string           // data directory, default "data"
	Filename        string           // primary document name, default "notes.json"
	BackupRetention int              // snapshots to keep, 0 keeps all, default 10 via shared.DefaultConfig
	Logger          *log.Logger      // defaults to a stderr logger
	Now             func() time.Time // clock, defaults to time.Now
}

// Store owns the on-disk representation of all users' categories and notes.
type Store struct {
	mu        sync.Mutex
	path      string
	lockPath  string
	backupDir string
	retention int
	logger    *log.Logger
	now       func() time.Time
}

// Open prepares the data directory and returns a ready store. A missing
// primary document is created empty.
func Open(config Config) (*Store, error) {
	if config.Dir == "" {
		config.Dir = "data"
	}
	if config.Filename == "" {
		config.Filename = "notes.json"
	}
	if config.Logger == nil {
		config.Logger = shared.NewLogger(nil)
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	path := filepath.Join(config.Dir, config.Filename)
	s := &Store{
		path:      path,
		lockPath:  path + ".lock",
		backupDir: filepath.Join(config.Dir, "backups"),
		retention: config.BackupRetention,
		logger:    config.Logger,
		now:       config.Now,
	}

	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.update(func(doc *models.Document) (bool, error) {
			return true, nil
		}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// update runs one read-modify-write-rename sequence under both the process
// mutex and the inter-process file lock. fn reports whether anything changed;
// unchanged documents are not rewritten.
func (s *Store) update(fn func(doc *models.Document) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lk, err := acquireFileLock(s.lockPath)
	if err != nil {
		return fmt.Errorf("failed to lock store: %w", err)
	}
	defer lk.release()

	doc := s.load()
	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}

	return s.persist(doc)
}

// view hands fn a freshly loaded document for read-only access. The document
// is a throwaway copy, so fn may materialize defaults without persisting
// them.
func (s *Store) view(fn func(doc *models.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.load())
}

// load reads the primary document, falling back to the newest usable backup
// snapshot and finally to an empty document. Recovery is logged, never
// propagated.
func (s *Store) load() *models.Document {
	data, err := os.ReadFile(s.path)
	if err == nil {
		if doc, uerr := decodeDocument(data); uerr == nil {
			return doc
		} else {
			err = uerr
		}
	}
	if os.IsNotExist(err) {
		return models.NewDocument()
	}

	s.logger.Warn("primary notes document unreadable, trying backups", "path", s.path, "err", err)

	for _, backup := range s.backups(newestFirst) {
		data, rerr := os.ReadFile(backup)
		if rerr != nil {
			s.logger.Warn("failed to read backup snapshot", "backup", filepath.Base(backup), "err", rerr)
			continue
		}
		doc, uerr := decodeDocument(data)
		if uerr != nil {
			s.logger.Warn("backup snapshot malformed", "backup", filepath.Base(backup), "err", uerr)
			continue
		}
		s.logger.Info("recovered notes document from backup", "backup", filepath.Base(backup))
		return doc
	}

	s.logger.Error("no usable backup found, starting from an empty document")
	return models.NewDocument()
}

// persist writes the document atomically and records a backup snapshot.
// A failed write is returned loudly so callers never see success on an
// unsaved change; a failed backup is only logged.
func (s *Store) persist(doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notes document: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write notes document: %w", err)
	}

	s.snapshot(data)
	return nil
}

// snapshot copies the just-written document into the backup directory and
// prunes old snapshots past the retention limit.
func (s *Store) snapshot(data []byte) {
	ts := s.now().UTC().Format(backupTimestampFormat)
	name := backupPrefix + ts + backupSuffix

	if err := os.WriteFile(filepath.Join(s.backupDir, name), data, 0o644); err != nil {
		s.logger.Warn("failed to write backup snapshot", "backup", name, "err", err)
		return
	}

	if s.retention > 0 {
		s.prune()
	}
}

func (s *Store) prune() {
	backups := s.backups(oldestFirst)
	for len(backups) > s.retention {
		victim := backups[0]
		backups = backups[1:]
		if err := os.Remove(victim); err != nil {
			s.logger.Warn("failed to prune backup snapshot", "backup", filepath.Base(victim), "err", err)
		}
	}
}

type backupOrder bool

const (
	oldestFirst backupOrder = false
	newestFirst backupOrder = true
)

// backups lists snapshot paths sorted by their embedded timestamp.
func (s *Store) backups(order backupOrder) []string {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if order == newestFirst {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.backupDir, n)
	}
	return paths
}

func decodeDocument(data []byte) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Users == nil {
		doc.Users = map[string]*models.UserData{}
	}
	return &doc, nil
}

// userData returns the user's record inside doc, seeding a new one when the
// user has never been seen. The second return reports whether seeding
// happened.
func userData(doc *models.Document, userID string) (*models.UserData, bool) {
	if u, ok := doc.Users[userID]; ok {
		if u.NextNoteID == 0 {
			u.NextNoteID = 1
		}
		return u, false
	}
	u := models.NewUserData()
	doc.Users[userID] = u
	return u, true
}
