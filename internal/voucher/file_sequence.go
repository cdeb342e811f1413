package voucher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

type sequenceState struct {
	Counters map[string]int `json:"counters"`
}

const lockRetryDelay = 10 * time.Millisecond

// FileSequencer persists counters to a JSON state file so numbering survives
// restarts. Every increment holds an advisory lock on <path>.lock and re-reads
// the file, so several processes can share one state file.
type FileSequencer struct {
	path  string
	lock  *flock.Flock
	mu    sync.Mutex
	state sequenceState
}

// OpenFileSequencer loads the state file at path, or starts empty if it does
// not exist yet.
func OpenFileSequencer(path string) (*FileSequencer, error) {
	s := &FileSequencer{
		path: path,
		lock: flock.New(path + ".lock"),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Next increments the ledger counter and writes the state file before
// returning. On a write failure the counter is left unchanged.
func (s *FileSequencer) Next(ctx context.Context, ledger string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return 0, fmt.Errorf("creating state dir: %w", err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return 0, fmt.Errorf("locking sequence state: %w", err)
	}
	if !locked {
		return 0, fmt.Errorf("locking sequence state: %s is held", s.lock.Path())
	}
	defer s.lock.Unlock()

	if err := s.load(); err != nil {
		return 0, err
	}

	prev := s.state.Counters[ledger]
	s.state.Counters[ledger] = prev + 1
	if err := s.save(); err != nil {
		s.state.Counters[ledger] = prev
		return 0, err
	}
	return prev + 1, nil
}

// Current returns the last number handed out for ledger (0 if none). It
// reflects the state file as of the last Open or Next.
func (s *FileSequencer) Current(ledger string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Counters[ledger]
}

// load replaces the in-memory counters with the state file contents. A
// missing file means no numbers have been handed out yet.
func (s *FileSequencer) load() error {
	state := sequenceState{Counters: make(map[string]int)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.state = state
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading sequence state: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parsing sequence state %s: %w", s.path, err)
	}
	if state.Counters == nil {
		state.Counters = make(map[string]int)
	}
	s.state = state
	return nil
}

// Path returns the state file location.
func (s *FileSequencer) Path() string {
	return s.path
}

// save writes via a temp file and rename so a crash never leaves a
// truncated state file.
func (s *FileSequencer) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling sequence state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sequences-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing sequence state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing sequence state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing sequence state: %w", err)
	}
	return nil
}
