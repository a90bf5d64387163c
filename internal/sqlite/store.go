package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ledgerbook/ledgerbook/internal/paths"
	"github.com/ledgerbook/ledgerbook/pkg/types"
)

// Store owns the single active database handle. All ledger reads and writes
// go through it; Switch is the only way the active database changes.
type Store struct {
	mu         sync.RWMutex
	dataDir    string
	db         *sql.DB
	activeFile string
	logger     *zap.Logger

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore creates a Store over the given data directory. No database is open
// until the first Switch.
func NewStore(dataDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dataDir: dataDir,
		logger:  logger,
		subs:    make(map[int]func()),
	}
}

// CurrentFileID returns the file identifier of the active database, or the
// empty string when no database is open.
func (s *Store) CurrentFileID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeFile
}

// Switch makes fileID the active database: the old handle is fully closed
// first (a close failure is logged and ignored), the new file is opened, the
// schema is ensured, and subscribers are notified. Switching to the already-
// active file is a no-op that still fires the notification.
func (s *Store) Switch(fileID string) error {
	s.mu.Lock()

	if fileID == s.activeFile && s.db != nil {
		s.mu.Unlock()
		s.notify()
		return nil
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("closing previous database", zap.String("file", s.activeFile), zap.Error(err))
		}
		s.db = nil
		s.activeFile = ""
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", paths.DatabasePath(s.dataDir, fileID))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("opening %s: %w", fileID, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		s.mu.Unlock()
		return fmt.Errorf("opening %s: %w", fileID, err)
	}

	EnsureSchema(db, s.logger)

	s.db = db
	s.activeFile = fileID
	s.mu.Unlock()

	s.logger.Info("switched active database", zap.String("file", fileID))
	s.notify()
	return nil
}

// Close releases the active handle. Idempotent; closing an already-closed
// store succeeds.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.activeFile = ""
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Subscribe registers a change-notification callback and returns its
// unsubscribe function. Notifications carry no payload; they are an
// invitation to re-read state.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// notify fires every subscriber outside the handle lock, so callbacks may
// re-read store state.
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// handle returns the open *sql.DB or ErrStoreClosed. Callers must hold no
// store locks; the returned handle is safe for concurrent use and is only
// invalidated by Switch or Close.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, types.ErrStoreClosed
	}
	return s.db, nil
}
