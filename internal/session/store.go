// Package session provides the session-scoped key-value storage backing
// the favorites set.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store reads and writes string values by key for one session.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process Store, used for ephemeral sessions and tests.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	// SetErr, when non-nil, is returned by every Set.
	SetErr error
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

// ResolveID picks the session id: an explicit id wins, then the terminal's
// own session id, then the parent shell's pid. A fresh uuid is used only
// when none of those exist.
func ResolveID(explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	for _, name := range []string{"TERM_SESSION_ID", "WT_SESSION", "TMUX_PANE"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return strings.ToLower(name) + ":" + v
		}
	}
	if ppid := os.Getppid(); ppid > 1 {
		return fmt.Sprintf("shell:%d", ppid)
	}
	return NewID()
}

// NewID returns a random session id.
func NewID() string {
	return uuid.NewString()
}
