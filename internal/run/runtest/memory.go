// Package runtest provides an in-memory run.Repository for tests.
package runtest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/javiermolinar/runcal/internal/dateutil"
	"github.com/javiermolinar/runcal/internal/run"
)

// Memory is a run.Repository backed by a map. Set the Err fields to make
// the matching operation fail.
type Memory struct {
	mu     sync.Mutex
	runs   map[int64]*run.Run
	nextID int64

	ListErr   error
	GetErr    error
	UpdateErr error

	// Updates records every successful UpdateRun call in order.
	Updates []Call
	// Lists counts ListRuns and ListRunsInRange calls.
	Lists int
}

// Call is one recorded UpdateRun invocation.
type Call struct {
	ID     int64
	Update run.Update
}

// NewMemory returns a repository seeded with copies of runs. Runs without
// an ID get one assigned.
func NewMemory(runs ...*run.Run) *Memory {
	m := &Memory{runs: make(map[int64]*run.Run), nextID: 1}
	for _, r := range runs {
		c := r.Clone()
		if c.ID == 0 {
			c.ID = m.nextID
		}
		m.runs[c.ID] = c
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return m
}

func (m *Memory) CreateRun(_ context.Context, r *run.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	m.runs[r.ID] = r.Clone()
	return nil
}

func (m *Memory) GetRun(_ context.Context, id int64) (*run.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	r, ok := m.runs[id]
	if !ok {
		return nil, run.ErrRunNotFound
	}
	return r.Clone(), nil
}

func (m *Memory) ListRuns(_ context.Context) ([]*run.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.sorted(func(*run.Run) bool { return true }), nil
}

func (m *Memory) ListRunsInRange(_ context.Context, start, end time.Time) ([]*run.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	first := dateutil.LocalDay(start)
	last := dateutil.LocalDay(end)
	return m.sorted(func(r *run.Run) bool {
		return !dateutil.LocalDay(r.StartDate).After(last) && !dateutil.LocalDay(r.EndDate).Before(first)
	}), nil
}

func (m *Memory) UpdateRun(_ context.Context, id int64, u run.Update) (*run.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	r, ok := m.runs[id]
	if !ok {
		return nil, run.ErrRunNotFound
	}
	updated := u.Apply(r)
	if !updated.Valid() {
		return nil, run.ErrEndBeforeStart
	}
	updated.UpdatedAt = time.Now()
	m.runs[id] = updated
	m.Updates = append(m.Updates, Call{ID: id, Update: u})
	return updated.Clone(), nil
}

func (m *Memory) DeleteRun(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return run.ErrRunNotFound
	}
	delete(m.runs, id)
	return nil
}

func (m *Memory) Close() error { return nil }

// Snapshot returns a copy of the stored run, or nil.
func (m *Memory) Snapshot(id int64) *run.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[id].Clone()
}

func (m *Memory) sorted(keep func(*run.Run) bool) []*run.Run {
	var result []*run.Run
	for _, r := range m.runs {
		if keep(r) {
			result = append(result, r.Clone())
		}
	}
	slices.SortFunc(result, func(a, b *run.Run) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}
