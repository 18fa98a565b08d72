package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Message is a minimal persisted view of a chat turn.
// Only text is stored; tool blocks are transient.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// ThreadStore persists conversation threads as JSON files under one
// directory, keyed by thread id.
type ThreadStore struct {
	dir string
}

func NewThreadStore(dir string) (*ThreadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("memory: create threads dir: %w", err)
	}
	return &ThreadStore{dir: dir}, nil
}

// Load returns the persisted messages for id, or (nil, nil) when the
// thread has no history yet.
func (s *ThreadStore) Load(id string) ([]Message, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *ThreadStore) Save(id string, msgs []Message) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}

// path rejects ids that would escape the threads directory.
func (s *ThreadStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return "", fmt.Errorf("memory: invalid thread id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}
