package reasoning

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/memory"
	"github.com/soon2moon/mindtools/internal/textutil"
)

// MemoryStore is the long-term memory bank the reasoning tools write to.
// *memory.Store satisfies it.
type MemoryStore interface {
	FetchAllForUser(ctx context.Context, userID string) ([]memory.Record, error)
	Insert(ctx context.Context, userID, content string) (*memory.Record, error)
	UpdateByID(ctx context.Context, id, content string) (*memory.Record, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

const (
	// MaxSearchCount is the hard ceiling on search results.
	MaxSearchCount = 20
	// MinContentLength is the minimum trimmed length of stored content.
	MinContentLength = 3
	// MaxContentLength is the rune limit applied to added memories.
	MaxContentLength = 1000

	commitValueLength = 100
	commitStampLayout = "2006-01-02T15:04"
	defaultTask       = "Reasoning task"
)

var (
	errMemoryUnavailable = host.Errorf(host.KindFeatureDisabled, "Memory system not available.")
	errMemoryDisabled    = host.Errorf(host.KindFeatureDisabled, "Memory operations are disabled.")
)

// requireMemory checks the backend exists and, when gated, that memory
// operations are enabled.
func (s *Store) requireMemory(gated bool) error {
	if s.memory == nil {
		return errMemoryUnavailable
	}
	if gated && !s.cfg.EnableMemoryOps {
		return errMemoryDisabled
	}
	return nil
}

// ─── Search ─────────────────────────────────────────────────────────────────

// SearchResult is the outcome of SearchMemories.
type SearchResult struct {
	Query    string
	Memories []memory.Record
	// Fallback is set when nothing matched and Memories holds the most
	// recent records instead.
	Fallback bool
	// Total is the number of memories the user has.
	Total int
}

// ClampCount bounds a requested result count to [1, min(20, max)].
func (s *Store) ClampCount(count int) int {
	limit := s.cfg.MaxMemoriesPerSearch
	if limit > MaxSearchCount {
		limit = MaxSearchCount
	}
	if count < 1 {
		count = 1
	}
	if count > limit {
		count = limit
	}
	return count
}

// SearchMemories ranks the user's memories by how many whitespace-separated
// query tokens occur in them, case-insensitively. Ties keep storage order.
// With no match it falls back to the newest memories.
func (s *Store) SearchMemories(ctx context.Context, userID, query string, count int) (SearchResult, error) {
	if userID == "" {
		return SearchResult{}, host.ErrMissingIdentity
	}
	if err := s.requireMemory(true); err != nil {
		return SearchResult{}, err
	}
	count = s.ClampCount(count)

	all, err := s.memory.FetchAllForUser(ctx, userID)
	if err != nil {
		return SearchResult{}, host.Wrap(err, "Memory search failed")
	}
	res := SearchResult{Query: query, Total: len(all)}
	if len(all) == 0 {
		return res, nil
	}

	terms := strings.Fields(strings.ToLower(query))
	type scored struct {
		score int
		rec   memory.Record
	}
	var hits []scored
	for _, rec := range all {
		content := strings.ToLower(rec.Content)
		score := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{score: score, rec: rec})
		}
	}

	if len(hits) == 0 {
		recent := append([]memory.Record(nil), all...)
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].CreatedAt.After(recent[j].CreatedAt)
		})
		if len(recent) > count {
			recent = recent[:count]
		}
		res.Memories = recent
		res.Fallback = true
		return res, nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > count {
		hits = hits[:count]
	}
	for _, h := range hits {
		res.Memories = append(res.Memories, h.rec)
	}
	return res, nil
}

// ─── CRUD ───────────────────────────────────────────────────────────────────

// AddMemory stores content, prefixed with "[CATEGORY] " when category is set.
func (s *Store) AddMemory(ctx context.Context, userID, content, category string) (*memory.Record, error) {
	if userID == "" {
		return nil, host.ErrMissingIdentity
	}
	if err := s.requireMemory(true); err != nil {
		return nil, err
	}
	if textutil.Len(strings.TrimSpace(content)) < MinContentLength {
		return nil, host.Errorf(host.KindValidation, "Memory content too short. Provide meaningful information.")
	}

	content = textutil.Truncate(content, MaxContentLength)
	if category != "" {
		content = fmt.Sprintf("[%s] %s", strings.ToUpper(category), content)
	}

	rec, err := s.memory.Insert(ctx, userID, content)
	if err != nil {
		return nil, host.Wrap(err, "Memory storage failed")
	}
	if rec == nil {
		return nil, host.Errorf(host.KindBackendFailure, "Failed to store memory.")
	}
	return rec, nil
}

// UpdateMemory replaces the content of memory id.
func (s *Store) UpdateMemory(ctx context.Context, userID, id, content string) (*memory.Record, error) {
	if userID == "" {
		return nil, host.ErrMissingIdentity
	}
	if err := s.requireMemory(true); err != nil {
		return nil, err
	}
	if textutil.Len(strings.TrimSpace(content)) < MinContentLength {
		return nil, host.Errorf(host.KindValidation, "Memory content too short.")
	}

	rec, err := s.memory.UpdateByID(ctx, id, content)
	if err != nil {
		return nil, host.Wrap(err, "Memory update failed")
	}
	if rec == nil {
		return nil, host.Errorf(host.KindNotFound, "Memory with ID '%s' not found.", id)
	}
	return rec, nil
}

// DeleteMemory removes memory id.
func (s *Store) DeleteMemory(ctx context.Context, userID, id string) error {
	if userID == "" {
		return host.ErrMissingIdentity
	}
	if err := s.requireMemory(true); err != nil {
		return err
	}

	ok, err := s.memory.DeleteByID(ctx, id)
	if err != nil {
		return host.Wrap(err, "Memory deletion failed")
	}
	if !ok {
		return host.Errorf(host.KindNotFound, "Memory with ID '%s' not found or already deleted.", id)
	}
	return nil
}

// RecallAll returns every memory of the user, oldest first. It needs the
// backend but is not gated by EnableMemoryOps.
func (s *Store) RecallAll(ctx context.Context, userID string) ([]memory.Record, error) {
	if userID == "" {
		return nil, host.ErrMissingIdentity
	}
	if err := s.requireMemory(false); err != nil {
		return nil, err
	}

	all, err := s.memory.FetchAllForUser(ctx, userID)
	if err != nil {
		return nil, host.Wrap(err, "Memory recall failed")
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

// ─── Commit ─────────────────────────────────────────────────────────────────

// CommitResult is the outcome of Commit.
type CommitResult struct {
	Summary string
	Saved   []string
	Record  *memory.Record
	// NothingToSave is set when the selection was empty; no memory is written.
	NothingToSave bool
}

// Commit writes the selected entities to memory as one composite record.
// With names, only those that are declared are saved; without, every
// entity with a non-null value is. It needs the backend but is not gated by
// EnableMemoryOps.
func (s *Store) Commit(ctx context.Context, userID, summary string, names []string) (CommitResult, error) {
	if userID == "" {
		return CommitResult{}, host.ErrMissingIdentity
	}
	if err := s.requireMemory(false); err != nil {
		return CommitResult{}, err
	}

	content, saved, err := s.commitContent(userID, summary, names)
	if err != nil {
		return CommitResult{}, err
	}
	res := CommitResult{Summary: summary, Saved: saved}
	if len(saved) == 0 {
		res.NothingToSave = true
		return res, nil
	}

	rec, err := s.memory.Insert(ctx, userID, content)
	if err != nil {
		return CommitResult{}, host.Wrap(err, "Failed to commit context")
	}
	if rec == nil {
		return CommitResult{}, host.Errorf(host.KindBackendFailure, "Failed to save context to memory.")
	}
	res.Record = rec
	return res, nil
}

// commitContent snapshots the selection under the user's lock so the
// backend call happens without holding it.
func (s *Store) commitContent(userID, summary string, names []string) (string, []string, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	c := s.getOrCreate(userID)
	if len(c.Entities) == 0 {
		return "", nil, host.Errorf(host.KindValidation, "No reasoning context to save. Declare entities first.")
	}

	var selected []NamedEntity
	if len(names) > 0 {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			e, ok := c.Entities[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			selected = append(selected, NamedEntity{Name: name, Entity: *e})
		}
	} else {
		for _, ne := range c.ordered() {
			if ne.Value != nil {
				selected = append(selected, ne)
			}
		}
	}
	if len(selected) == 0 {
		return "", nil, nil
	}

	task := c.TaskDescription
	if task == "" {
		task = defaultTask
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[CONTEXT:%s] %s\n", timeNow().Format(commitStampLayout), summary)
	fmt.Fprintf(&b, "Task: %s\n", task)
	b.WriteString("Entities:\n")
	saved := make([]string, 0, len(selected))
	for _, ne := range selected {
		fmt.Fprintf(&b, "  - %s (%s): %s\n", ne.Name, ne.Type, FormatValueShort(ne.Value, commitValueLength))
		saved = append(saved, ne.Name)
	}
	return b.String(), saved, nil
}
