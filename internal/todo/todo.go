// Package todo implements the per-user task list: a short ordered list of
// titled tasks whose status moves between not-started, in-progress and
// completed.
//
// State lives in memory for the process lifetime. Each operation holds the
// user's lock for its whole duration, so a bulk replace and a single update
// for the same user never interleave.
package todo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/textutil"
	"github.com/soon2moon/mindtools/internal/userlock"
)

// timeNow is the clock used for task timestamps; tests replace it.
var timeNow = time.Now

const (
	// MaxTitleLength is the rune limit applied to every task title.
	MaxTitleLength = 100

	// DefaultTitle replaces a missing or blank title.
	DefaultTitle = "Untitled task"
)

// Status is the lifecycle state of a task.
type Status string

const (
	NotStarted Status = "not-started"
	InProgress Status = "in-progress"
	Completed  Status = "completed"
)

// ParseStatus reports whether s names one of the three valid statuses.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case NotStarted, InProgress, Completed:
		return Status(s), true
	}
	return NotStarted, false
}

// Task is one stored task.
type Task struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one caller-supplied entry of a bulk replace. ID <= 0 means the
// caller did not supply one. Status is free text; unknown values are coerced
// to not-started.
type Item struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Counts summarizes a list by status.
type Counts struct {
	Total      int
	Completed  int
	InProgress int
	Pending    int
}

// Count tallies tasks by status.
func Count(tasks []Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case Completed:
			c.Completed++
		case InProgress:
			c.InProgress++
		default:
			c.Pending++
		}
	}
	return c
}

// Config holds the list limits.
type Config struct {
	MaxTodos             int
	AutoCleanupCompleted bool
}

// Store holds every user's task list.
type Store struct {
	cfg   Config
	locks *userlock.Locker

	mu    sync.Mutex
	lists map[string][]Task
}

// NewStore creates an empty Store. A MaxTodos below 1 is treated as 1.
func NewStore(cfg Config) *Store {
	if cfg.MaxTodos < 1 {
		cfg.MaxTodos = 1
	}
	return &Store{
		cfg:   cfg,
		locks: userlock.New(),
		lists: make(map[string][]Task),
	}
}

// MaxTodos returns the configured list limit.
func (s *Store) MaxTodos() int {
	return s.cfg.MaxTodos
}

// ─── Bulk replace ───────────────────────────────────────────────────────────

// ReplaceResult is the outcome of ReplaceAll.
type ReplaceResult struct {
	Tasks []Task
	// Evicted is how many completed tasks auto-cleanup dropped.
	Evicted int
	// Warnings are non-fatal notices. They are set even when ReplaceAll
	// returns an error.
	Warnings []string
}

// ReplaceAll overwrites the user's list with items. Items whose id matches
// a stored task keep its created_at, and keep its updated_at unless the
// status changed. Items with no id, or repeating an id seen earlier in the
// batch, are new tasks with fresh ids.
//
// When the result exceeds the limit, completed tasks are evicted if
// auto-cleanup is on; otherwise, or if eviction is not enough, a
// limit_exceeded error is returned and the stored list is left untouched.
func (s *Store) ReplaceAll(userID string, items []Item) (ReplaceResult, error) {
	if userID == "" {
		return ReplaceResult{}, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	var res ReplaceResult
	inProgress := 0
	for _, it := range items {
		if it.Status == string(InProgress) {
			inProgress++
		}
	}
	if inProgress > 1 {
		res.Warnings = append(res.Warnings, formatInProgressWarning(inProgress))
	}

	existing := make(map[int]Task)
	for _, t := range s.get(userID) {
		existing[t.ID] = t
	}

	nextID := 1
	for _, it := range items {
		if it.ID >= nextID {
			nextID = it.ID + 1
		}
	}

	now := timeNow()
	seen := make(map[int]bool, len(items))
	tasks := make([]Task, 0, len(items))
	for _, it := range items {
		status, _ := ParseStatus(it.Status)
		t := Task{
			ID:        it.ID,
			Title:     normalizeTitle(it.Title),
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if t.ID <= 0 || seen[t.ID] {
			t.ID = nextID
			nextID++
		} else if prev, ok := existing[t.ID]; ok {
			t.CreatedAt = prev.CreatedAt
			if prev.Status == status {
				t.UpdatedAt = prev.UpdatedAt
			}
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}

	if len(tasks) > s.cfg.MaxTodos {
		if !s.cfg.AutoCleanupCompleted {
			return res, limitExceeded(s.cfg.MaxTodos)
		}
		kept := evictCompleted(tasks, s.cfg.MaxTodos)
		if len(kept) > s.cfg.MaxTodos {
			return res, limitExceeded(s.cfg.MaxTodos)
		}
		res.Evicted = len(tasks) - len(kept)
		tasks = kept
	}

	s.set(userID, tasks)
	res.Tasks = cloneTasks(tasks)
	return res, nil
}

// evictCompleted keeps every active task in input order, followed by the
// most recently updated completed tasks that still fit under max.
func evictCompleted(tasks []Task, max int) []Task {
	var active, completed []Task
	for _, t := range tasks {
		if t.Status == Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}

	slots := max - len(active)
	if slots <= 0 {
		return active
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].UpdatedAt.After(completed[j].UpdatedAt)
	})
	if len(completed) > slots {
		completed = completed[:slots]
	}
	return append(active, completed...)
}

// ─── Single-item operations ─────────────────────────────────────────────────

// FetchAll returns the user's list in stored order. An empty slice means the
// user has no tasks.
func (s *Store) FetchAll(userID string) ([]Task, error) {
	if userID == "" {
		return nil, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	return cloneTasks(s.get(userID)), nil
}

// AddResult is the outcome of AddOne.
type AddResult struct {
	Task  Task
	Tasks []Task
}

// AddOne appends a not-started task with the next free id.
func (s *Store) AddOne(userID, title string) (AddResult, error) {
	if userID == "" {
		return AddResult{}, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	tasks := s.get(userID)
	if len(tasks) >= s.cfg.MaxTodos {
		return AddResult{}, host.Errorf(host.KindLimitExceeded,
			"Cannot add more tasks. Maximum of %d reached.", s.cfg.MaxTodos)
	}

	id := 1
	for _, t := range tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	now := timeNow()
	task := Task{
		ID:        id,
		Title:     normalizeTitle(title),
		Status:    NotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tasks = append(cloneTasks(tasks), task)
	s.set(userID, tasks)
	return AddResult{Task: task, Tasks: cloneTasks(tasks)}, nil
}

// UpdateResult is the outcome of UpdateOne.
type UpdateResult struct {
	Task      Task
	OldStatus Status
	Tasks     []Task
	// InProgress is the number of in-progress tasks after the update.
	InProgress int
}

// Transition describes the status change, "old → new" or "unchanged".
func (r UpdateResult) Transition() string {
	if r.OldStatus == r.Task.Status {
		return "unchanged"
	}
	return string(r.OldStatus) + " → " + string(r.Task.Status)
}

// UpdateOne sets the status of task id and, when title is non-nil and not
// blank, its title. updated_at is always refreshed. An invalid status is a
// validation error; an unknown id is not_found. Neither mutates the list.
func (s *Store) UpdateOne(userID string, id int, status string, title *string) (UpdateResult, error) {
	if userID == "" {
		return UpdateResult{}, host.ErrMissingIdentity
	}
	st, ok := ParseStatus(status)
	if !ok {
		return UpdateResult{}, host.Errorf(host.KindValidation,
			"Invalid status '%s'. Use: not-started, in-progress, or completed", status)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	tasks := cloneTasks(s.get(userID))
	idx := -1
	for i, t := range tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return UpdateResult{}, host.Errorf(host.KindNotFound, "Todo with ID %d not found.", id)
	}

	res := UpdateResult{OldStatus: tasks[idx].Status}
	tasks[idx].Status = st
	tasks[idx].UpdatedAt = timeNow()
	if title != nil && strings.TrimSpace(*title) != "" {
		tasks[idx].Title = textutil.Truncate(*title, MaxTitleLength)
	}
	s.set(userID, tasks)

	res.Task = tasks[idx]
	res.Tasks = cloneTasks(tasks)
	res.InProgress = Count(tasks).InProgress
	return res, nil
}

// ClearCompleted removes completed tasks and returns how many were removed
// and how many remain.
func (s *Store) ClearCompleted(userID string) (removed, remaining int, err error) {
	if userID == "" {
		return 0, 0, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	var kept []Task
	for _, t := range s.get(userID) {
		if t.Status == Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.set(userID, kept)
	return removed, len(kept), nil
}

// ResetAll removes every task and returns how many there were.
func (s *Store) ResetAll(userID string) (int, error) {
	if userID == "" {
		return 0, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	n := len(s.get(userID))
	s.set(userID, nil)
	return n, nil
}

// ─── Internals ──────────────────────────────────────────────────────────────

// get returns the stored list, creating an empty one on first access.
func (s *Store) get(userID string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, ok := s.lists[userID]
	if !ok {
		tasks = []Task{}
		s.lists[userID] = tasks
	}
	return tasks
}

func (s *Store) set(userID string, tasks []Task) {
	if tasks == nil {
		tasks = []Task{}
	}
	s.mu.Lock()
	s.lists[userID] = tasks
	s.mu.Unlock()
}

func normalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return textutil.Truncate(title, MaxTitleLength)
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

func limitExceeded(max int) error {
	return host.Errorf(host.KindLimitExceeded, "Todo list exceeds maximum of %d items.", max)
}

func formatInProgressWarning(n int) string {
	return fmt.Sprintf("Warning: %d tasks marked as in-progress. Recommend only 1 at a time.", n)
}
