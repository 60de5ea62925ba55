// Package sessions exposes a directory of session log files as normalized,
// read-only Session views.
package sessions

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/mnemosyne/pkg/claudelog"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
)

// loadConcurrency bounds the parallel parse during Warm
const loadConcurrency = 8

// Store serves sessions from a flat directory of *.jsonl files. Parsed
// sessions are cached per file keyed by size and mtime, so every call
// reflects the current file contents without reparsing unchanged files.
type Store struct {
	dir   string
	mu    sync.Mutex
	cache map[string]*cachedSession // key: file name
}

type cachedSession struct {
	size    int64
	modTime time.Time
	session *model.Session
}

var _ interfaces.SessionSource = &Store{}

// New creates a session store over the given directory
func New(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]*cachedSession),
	}
}

// Warm parses every session file in the directory up front, bounded
// parallel. Per-file failures are logged and skipped; they resurface as
// not-found on access, never as a failed warm-up.
func (s *Store) Warm(ctx context.Context) (int, error) {
	names, err := s.fileNames()
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, name := range names {
		g.Go(func() error {
			if _, err := s.load(gctx, name); err != nil {
				logging.From(gctx).Warn("failed to load session file",
					"file", name,
					"error", err.Error(),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache), nil
}

// List returns all sessions currently present in the directory, in file
// name order. Unreadable files degrade only themselves.
func (s *Store) List(ctx context.Context) ([]*model.Session, error) {
	names, err := s.fileNames()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Session, 0, len(names))
	for _, name := range names {
		session, err := s.load(ctx, name)
		if err != nil {
			logging.From(ctx).Warn("skipping unreadable session file",
				"file", name,
				"error", err.Error(),
			)
			continue
		}
		result = append(result, session)
	}
	return result, nil
}

// Get returns the session with the given ID or types.ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	listed, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, session := range listed {
		if session.ID == id {
			return session, nil
		}
	}
	return nil, goerr.Wrap(types.ErrSessionNotFound, "no such session", goerr.V("session_id", id))
}

func (s *Store) fileNames() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, goerr.Wrap(err, "read sessions directory", goerr.V("dir", s.dir))
	}

	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".jsonl") {
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}

// load returns the parsed session for one file, reusing the cache when the
// file's size and mtime are unchanged.
func (s *Store) load(ctx context.Context, name string) (*model.Session, error) {
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return nil, goerr.Wrap(err, "stat session file", goerr.V("path", path))
	}

	s.mu.Lock()
	cached, ok := s.cache[name]
	s.mu.Unlock()
	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.session, nil
	}

	entries, err := claudelog.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	session := buildSession(name, entries)

	s.mu.Lock()
	s.cache[name] = &cachedSession{
		size:    info.Size(),
		modTime: info.ModTime(),
		session: session,
	}
	s.mu.Unlock()

	return session, nil
}

func buildSession(fileName string, entries []claudelog.Entry) *model.Session {
	numericID, uuid := parseFileName(fileName)

	session := &model.Session{
		FileName:     fileName,
		NumericID:    numericID,
		UUID:         uuid,
		Interactions: claudelog.BuildInteractions(entries),
	}

	for i := range entries {
		entry := &entries[i]
		if session.ID == "" && entry.SessionID != "" {
			session.ID = types.SessionID(entry.SessionID)
		}
		if session.Summary == "" && entry.Kind == claudelog.EntryKindSummary {
			session.Summary = entry.SummaryText
		}
		if !entry.Timestamp.IsZero() {
			if session.StartTime == nil || entry.Timestamp.Before(*session.StartTime) {
				ts := entry.Timestamp
				session.StartTime = &ts
			}
		}
	}

	if session.ID == "" {
		session.ID = types.SessionID(strings.TrimSuffix(fileName, ".jsonl"))
	}

	return session
}

// parseFileName derives the numeric ID and uuid label from the
// "{numeric_id}_{uuid}.jsonl" naming convention. Both come from the file
// name only, never from file contents.
func parseFileName(fileName string) (*int64, string) {
	stem := strings.TrimSuffix(fileName, ".jsonl")
	head, tail, found := strings.Cut(stem, "_")

	if head == "" || strings.TrimLeft(head, "0123456789") != "" {
		return nil, ""
	}
	n, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return nil, ""
	}
	if !found {
		return &n, ""
	}
	return &n, tail
}
