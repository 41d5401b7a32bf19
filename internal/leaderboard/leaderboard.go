// Package leaderboard ranks the students of a class by points.
package leaderboard

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrNotRanked is returned when a student has no entry on the board.
var ErrNotRanked = errors.New("leaderboard: student not ranked")

// Entry is one student's position on the board.
type Entry struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	Level     int    `json:"level"`
	Streak    int    `json:"streak"`

	// Rank is 1-based and filled in by reads.
	Rank int `json:"-"`
}

// Board stores and ranks entries. Higher points rank first; ties are broken
// by student id, descending.
type Board interface {
	// Update inserts or replaces entries.
	Update(ctx context.Context, entries ...Entry) error

	// Remove drops a student from the board.
	Remove(ctx context.Context, studentID string) error

	// Top returns the n best entries. n <= 0 returns all of them.
	Top(ctx context.Context, n int) ([]Entry, error)

	// Rank returns the student's entry with its rank, or ErrNotRanked.
	Rank(ctx context.Context, studentID string) (Entry, error)
}

// Memory is an in-process Board.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory returns an empty in-process board.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Update(_ context.Context, entries ...Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		e.Rank = 0
		m.entries[e.StudentID] = e
	}
	return nil
}

func (m *Memory) Remove(_ context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, studentID)
	return nil
}

func (m *Memory) Top(_ context.Context, n int) ([]Entry, error) {
	ranked := m.ranked()
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (m *Memory) Rank(_ context.Context, studentID string) (Entry, error) {
	for _, e := range m.ranked() {
		if e.StudentID == studentID {
			return e, nil
		}
	}
	return Entry{}, ErrNotRanked
}

func (m *Memory) ranked() []Entry {
	m.mu.RLock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(b.StudentID, a.StudentID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
