// Package reasoning tracks a per-user reasoning context: named entities
// declared up front, validated before use, and updated as work proceeds.
// Selected entities can be committed to the long-term memory bank, which
// this package also fronts for search and CRUD.
package reasoning

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/soon2moon/mindtools/internal/host"
	"github.com/soon2moon/mindtools/internal/textutil"
	"github.com/soon2moon/mindtools/internal/userlock"
)

var timeNow = time.Now

var entityNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// DefaultEntityType is used when a declaration has no type.
const DefaultEntityType = "object"

// maxHintNames caps the names listed when an update targets an unknown entity.
const maxHintNames = 10

// Entity is one declared slot. Type is a free-form tag and is never checked
// against Value.
type Entity struct {
	Type              string    `json:"type"`
	Value             any       `json:"value"`
	Description       string    `json:"description"`
	DeclaredAt        time.Time `json:"declared_at"`
	LastModified      time.Time `json:"last_modified"`
	ModificationCount int       `json:"modification_count"`
}

// HistoryEvent records one declare or update.
type HistoryEvent struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`

	// declare
	EntitiesDeclared int `json:"entities_declared,omitempty"`
	Errors           int `json:"errors,omitempty"`

	// update
	Entity   string `json:"entity,omitempty"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`
}

// Context is one user's reasoning state.
type Context struct {
	Entities    map[string]*Entity
	EntityTypes map[string]string
	// Order lists entity names by first declaration.
	Order   []string
	History []HistoryEvent

	TaskDescription string
	DeclarationTime time.Time
	LastValidated   time.Time
	CreatedAt       time.Time
}

func newContext(now time.Time) *Context {
	return &Context{
		Entities:    make(map[string]*Entity),
		EntityTypes: make(map[string]string),
		CreatedAt:   now,
	}
}

// Declaration is one caller-supplied entity.
type Declaration struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Value       any    `json:"value"`
	Description string `json:"description"`
}

// NamedEntity pairs an entity with its name for ordered output.
type NamedEntity struct {
	Name string
	Entity
}

// Config holds the memory-related limits.
type Config struct {
	EnableMemoryOps      bool
	MaxMemoriesPerSearch int
}

// Store holds every user's reasoning context and fronts the memory bank.
type Store struct {
	cfg    Config
	memory MemoryStore
	locks  *userlock.Locker

	mu       sync.Mutex
	contexts map[string]*Context
}

// NewStore creates a Store. mem may be nil, in which case memory operations
// report the memory system as unavailable.
func NewStore(cfg Config, mem MemoryStore) *Store {
	if cfg.MaxMemoriesPerSearch < 1 {
		cfg.MaxMemoriesPerSearch = 1
	}
	return &Store{
		cfg:      cfg,
		memory:   mem,
		locks:    userlock.New(),
		contexts: make(map[string]*Context),
	}
}

// MemoryAvailable reports whether a memory backend is configured.
func (s *Store) MemoryAvailable() bool {
	return s.memory != nil
}

// ─── Declare ────────────────────────────────────────────────────────────────

// DeclareResult is the outcome of Declare.
type DeclareResult struct {
	TaskDescription string
	Declared        []NamedEntity
	Errors          []string
}

// Declare inserts or fully resets each valid declaration. Invalid names are
// collected into Errors and skipped; they never fail the call.
func (s *Store) Declare(userID string, decls []Declaration, taskDescription string) (DeclareResult, error) {
	if userID == "" {
		return DeclareResult{}, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	ctx := s.getOrCreate(userID)
	now := timeNow()
	ctx.TaskDescription = taskDescription
	ctx.DeclarationTime = now

	res := DeclareResult{TaskDescription: taskDescription}
	for _, d := range decls {
		if d.Name == "" {
			res.Errors = append(res.Errors, "Entity missing 'name' field")
			continue
		}
		if !entityNameRe.MatchString(d.Name) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("Invalid entity name '%s': use alphanumeric and underscores only", d.Name))
			continue
		}

		typ := d.Type
		if typ == "" {
			typ = DefaultEntityType
		}
		e := &Entity{
			Type:         typ,
			Value:        d.Value,
			Description:  d.Description,
			DeclaredAt:   now,
			LastModified: now,
		}
		if _, exists := ctx.Entities[d.Name]; !exists {
			ctx.Order = append(ctx.Order, d.Name)
		}
		ctx.Entities[d.Name] = e
		ctx.EntityTypes[d.Name] = typ
		res.Declared = append(res.Declared, NamedEntity{Name: d.Name, Entity: *e})
	}

	ctx.History = append(ctx.History, HistoryEvent{
		Action:           "declare",
		Timestamp:        now,
		EntitiesDeclared: len(res.Declared),
		Errors:           len(res.Errors),
	})
	return res, nil
}

// ─── Validate ───────────────────────────────────────────────────────────────

// Outcome classifies a validation.
type Outcome int

const (
	// OutcomeEmpty means nothing has been declared yet.
	OutcomeEmpty Outcome = iota
	// OutcomePassed means every requested name is declared.
	OutcomePassed
	// OutcomeFailed means at least one requested name is undefined.
	OutcomeFailed
	// OutcomeSnapshot is the full dump returned when no names are given.
	OutcomeSnapshot
)

// ValidateResult is the outcome of Validate.
type ValidateResult struct {
	Outcome   Outcome
	Valid     []NamedEntity
	Undefined []string

	// Snapshot fields, set for OutcomeSnapshot.
	TaskDescription string
	DeclarationTime time.Time
	LastValidated   time.Time
	Entities        []NamedEntity
}

// Validate checks names against the declared entities, or returns a full
// snapshot when names is empty. last_validated is recorded only when the
// context has entities.
func (s *Store) Validate(userID string, names []string) (ValidateResult, error) {
	if userID == "" {
		return ValidateResult{}, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	ctx := s.getOrCreate(userID)
	if len(ctx.Entities) == 0 {
		return ValidateResult{Outcome: OutcomeEmpty}, nil
	}
	now := timeNow()
	ctx.LastValidated = now

	if len(names) == 0 {
		return ValidateResult{
			Outcome:         OutcomeSnapshot,
			TaskDescription: ctx.TaskDescription,
			DeclarationTime: ctx.DeclarationTime,
			LastValidated:   now,
			Entities:        ctx.ordered(),
		}, nil
	}

	res := ValidateResult{Outcome: OutcomePassed}
	for _, name := range names {
		if e, ok := ctx.Entities[name]; ok {
			res.Valid = append(res.Valid, NamedEntity{Name: name, Entity: *e})
		} else {
			res.Undefined = append(res.Undefined, name)
		}
	}
	if len(res.Undefined) > 0 {
		res.Outcome = OutcomeFailed
	}
	return res, nil
}

// ─── Update / Clear ─────────────────────────────────────────────────────────

// UpdateResult is the outcome of UpdateEntity.
type UpdateResult struct {
	Name              string
	Type              string
	OldValue          any
	NewValue          any
	ModificationCount int
}

// UpdateEntity overwrites the value of a declared entity. An undeclared name
// is not_found and never creates the entity.
func (s *Store) UpdateEntity(userID, name string, value any) (UpdateResult, error) {
	if userID == "" {
		return UpdateResult{}, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	ctx := s.getOrCreate(userID)
	e, ok := ctx.Entities[name]
	if !ok {
		available := "None"
		if names := ctx.names(maxHintNames); len(names) > 0 {
			available = strings.Join(names, ", ")
		}
		return UpdateResult{}, host.Errorf(host.KindNotFound,
			"Entity '%s' is not declared. Available entities: %s", name, available)
	}

	now := timeNow()
	old := e.Value
	e.Value = value
	e.LastModified = now
	e.ModificationCount++

	ctx.History = append(ctx.History, HistoryEvent{
		Action:    "update",
		Timestamp: now,
		Entity:    name,
		OldValue:  old,
		NewValue:  value,
	})

	return UpdateResult{
		Name:              name,
		Type:              e.Type,
		OldValue:          old,
		NewValue:          value,
		ModificationCount: e.ModificationCount,
	}, nil
}

// ClearContext deletes the user's whole context and returns how many
// entities it held.
func (s *Store) ClearContext(userID string) (int, error) {
	if userID == "" {
		return 0, host.ErrMissingIdentity
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, ok := s.contexts[userID]
	if !ok {
		return 0, nil
	}
	delete(s.contexts, userID)
	return len(ctx.Entities), nil
}

// History returns a copy of the user's history events.
func (s *Store) History(userID string) []HistoryEvent {
	unlock := s.locks.Lock(userID)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, ok := s.contexts[userID]
	if !ok {
		return nil
	}
	return append([]HistoryEvent(nil), ctx.History...)
}

// ─── Internals ──────────────────────────────────────────────────────────────

// getOrCreate returns the user's context, creating it on first access. The
// caller must hold the user's lock.
func (s *Store) getOrCreate(userID string) *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, ok := s.contexts[userID]
	if !ok {
		ctx = newContext(timeNow())
		s.contexts[userID] = ctx
	}
	return ctx
}

func (c *Context) ordered() []NamedEntity {
	out := make([]NamedEntity, 0, len(c.Order))
	for _, name := range c.Order {
		if e, ok := c.Entities[name]; ok {
			out = append(out, NamedEntity{Name: name, Entity: *e})
		}
	}
	return out
}

func (c *Context) names(limit int) []string {
	if len(c.Order) < limit {
		limit = len(c.Order)
	}
	return append([]string(nil), c.Order[:limit]...)
}

// FormatValue renders an entity value as compact JSON, "null" for nil.
func FormatValue(v any) string {
	if v == nil {
		return "null"
	}
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// FormatValueShort is FormatValue cut to max runes with an ellipsis.
func FormatValueShort(v any, max int) string {
	return textutil.Ellipsize(FormatValue(v), max)
}
