// Package migration evolves an existing project's configuration across
// generator versions. Each migration is a small, reversible edit to
// pipegen.hcl; applied migrations are tracked in
// config/migrations/state.json so reruns are cheap no-ops.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pipegen/pipegen/internal/ctxlog"
)

// Migration is one versioned configuration change. IDs are zero-padded,
// ordered, and never reused.
type Migration interface {
	ID() string
	Name() string
	Up(ctx context.Context, root string) error
	Down(ctx context.Context, root string) error
}

// StatusEntry reports whether one migration has been applied.
type StatusEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

const stateFile = "state.json"

type state struct {
	Applied   []string `json:"applied"`
	UpdatedAt string   `json:"updated_at"`
}

func (s *state) has(id string) bool {
	for _, applied := range s.Applied {
		if applied == id {
			return true
		}
	}
	return false
}

// Runner applies and reverts migrations against one project root.
type Runner struct {
	root       string
	migrations []Migration
}

// NewRunner builds a runner over the built-in migration set.
func NewRunner(root string) *Runner {
	return &Runner{root: root, migrations: builtins()}
}

func (r *Runner) statePath() string {
	return filepath.Join(r.root, "config", "migrations", stateFile)
}

func (r *Runner) loadState() (*state, error) {
	data, err := os.ReadFile(r.statePath())
	if os.IsNotExist(err) {
		return &state{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read migration state: %w", err)
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode migration state: %w", err)
	}
	return &s, nil
}

func (r *Runner) saveState(s *state) error {
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.statePath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create migration state dir: %w", err)
	}
	if err := os.WriteFile(r.statePath(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write migration state: %w", err)
	}
	return nil
}

// Status lists every known migration and whether it has been applied.
func (r *Runner) Status(_ context.Context) ([]StatusEntry, error) {
	s, err := r.loadState()
	if err != nil {
		return nil, err
	}

	entries := make([]StatusEntry, 0, len(r.migrations))
	for _, m := range r.migrations {
		entries = append(entries, StatusEntry{ID: m.ID(), Name: m.Name(), Applied: s.has(m.ID())})
	}
	return entries, nil
}

// Up applies every pending migration in order and returns the IDs it
// applied. State is saved after each step so a mid-run failure leaves the
// completed steps recorded.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	s, err := r.loadState()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range r.migrations {
		if s.has(m.ID()) {
			continue
		}
		logger.Info("Applying migration.", "id", m.ID(), "name", m.Name())
		if err := m.Up(ctx, r.root); err != nil {
			return applied, fmt.Errorf("migration %s (%s): %w", m.ID(), m.Name(), err)
		}
		s.Applied = append(s.Applied, m.ID())
		if err := r.saveState(s); err != nil {
			return applied, err
		}
		applied = append(applied, m.ID())
	}
	return applied, nil
}

// Down reverts the most recently applied migration and returns its ID. It
// returns an empty ID when nothing is applied.
func (r *Runner) Down(ctx context.Context) (string, error) {
	logger := ctxlog.FromContext(ctx)

	s, err := r.loadState()
	if err != nil {
		return "", err
	}
	if len(s.Applied) == 0 {
		return "", nil
	}

	lastID := s.Applied[len(s.Applied)-1]
	var last Migration
	for _, m := range r.migrations {
		if m.ID() == lastID {
			last = m
			break
		}
	}
	if last == nil {
		return "", fmt.Errorf("state references unknown migration %s", lastID)
	}

	logger.Info("Reverting migration.", "id", last.ID(), "name", last.Name())
	if err := last.Down(ctx, r.root); err != nil {
		return "", fmt.Errorf("revert %s (%s): %w", last.ID(), last.Name(), err)
	}
	s.Applied = s.Applied[:len(s.Applied)-1]
	if err := r.saveState(s); err != nil {
		return "", err
	}
	return lastID, nil
}
