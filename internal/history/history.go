// Package history keeps completed replies in the vault and, when a Qdrant
// index is configured, indexes them for similarity lookup.
package history

import (
	"context"
	"errors"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VarunSharma3520/Reply/internal/logger"
	"github.com/VarunSharma3520/Reply/internal/vector"
)

const fileName = "replies.json"

// ErrNotIndexed is returned by Save when the record was written but could not
// be added to the index.
var ErrNotIndexed = errors.New("reply saved but not indexed")

// Record is a single stored reply.
type Record struct {
	ID    string    `json:"id"`
	Input string    `json:"input"`
	Style string    `json:"style"`
	Reply string    `json:"reply"`
	Time  time.Time `json:"time"`
}

// File is the on-disk layout of replies.json.
type File struct {
	Replies []Record `json:"replies"`
}

// Indexer receives every stored record.
type Indexer interface {
	Index(ctx context.Context, e vector.Entry) error
}

// Store appends replies to <vault>/replies.json.
type Store struct {
	path    string
	indexer Indexer
	logger  *logger.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewStore creates a store in vaultPath. indexer may be nil.
func NewStore(vaultPath string, indexer Indexer, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		path:    filepath.Join(vaultPath, fileName),
		indexer: indexer,
		logger:  log,
		now:     time.Now,
	}
}

// Path returns the location of the history file.
func (s *Store) Path() string { return s.path }

func (s *Store) read() (File, error) {
	var f File
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("failed to read history file: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse history file: %w", err)
	}
	return f, nil
}

// Save stores a reply and indexes it. A failed index is reported but the
// record stays on disk.
func (s *Store) Save(ctx context.Context, input, styleLabel, reply string) (Record, error) {
	if input == "" || reply == "" {
		return Record{}, fmt.Errorf("input and reply are required")
	}

	rec := Record{
		ID:    uuid.New().String(),
		Input: input,
		Style: styleLabel,
		Reply: reply,
		Time:  s.now().UTC(),
	}

	s.mu.Lock()
	err := s.appendLocked(rec)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("failed to save reply", err, map[string]interface{}{"path": s.path})
		return Record{}, err
	}
	s.logger.Info("saved reply", map[string]interface{}{"id": rec.ID, "style": rec.Style})

	if s.indexer != nil {
		if err := s.indexer.Index(ctx, vector.Entry{
			ID:     rec.ID,
			Input:  rec.Input,
			Style:  rec.Style,
			Reply:  rec.Reply,
			Stored: rec.Time,
		}); err != nil {
			s.logger.Error("failed to index reply", err, map[string]interface{}{"id": rec.ID})
			return rec, fmt.Errorf("%w: %w", ErrNotIndexed, err)
		}
	}
	return rec, nil
}

func (s *Store) appendLocked(rec Record) error {
	f, err := s.read()
	if err != nil {
		return err
	}
	f.Replies = append(f.Replies, rec)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}

// List returns the newest limit records, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Record, error) {
	s.mu.Lock()
	f, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	n := len(f.Replies)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, f.Replies[i])
	}
	return out, nil
}

// Reindex pushes every stored record to the indexer and returns how many succeeded.
func (s *Store) Reindex(ctx context.Context) (int, error) {
	if s.indexer == nil {
		return 0, fmt.Errorf("no index configured")
	}

	s.mu.Lock()
	f, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}

	ok := 0
	for _, rec := range f.Replies {
		if err := ctx.Err(); err != nil {
			return ok, err
		}
		if err := s.indexer.Index(ctx, vector.Entry{
			ID:     rec.ID,
			Input:  rec.Input,
			Style:  rec.Style,
			Reply:  rec.Reply,
			Stored: rec.Time,
		}); err != nil {
			s.logger.Error("failed to index reply", err, map[string]interface{}{"id": rec.ID})
			continue
		}
		ok++
	}
	return ok, nil
}
