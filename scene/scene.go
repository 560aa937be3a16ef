// Package scene is an in-memory collision world for kinematic characters.
//
// A Scene holds static or kinematic colliders (spheres, boxes, capsules and
// infinite planes) and answers capsule sweeps, raycasts, overlap and
// penetration queries against them. Bounded colliders go through a broad phase
// rebuilt lazily after edits; planes are tested on every query.
//
// Queries are safe for concurrent use with each other and with edits.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/akmonengine/kinematic/actor"
	"github.com/google/uuid"
)

// boundsMargin pads broad phase bounds so that touching shapes are still reported
const boundsMargin = 1e-4

var ErrUnknownCollider = errors.New("scene: unknown collider")

type Scene struct {
	mu         sync.RWMutex
	colliders  []*actor.Collider
	index      map[uuid.UUID]int
	unbounded  []int
	broadPhase BroadPhase
	entries    []Entry
	dirty      bool
	logger     *slog.Logger
}

type Option func(*Scene)

// WithBroadPhase replaces the default R-tree broad phase
func WithBroadPhase(broadPhase BroadPhase) Option {
	return func(s *Scene) {
		s.broadPhase = broadPhase
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scene) {
		s.logger = logger
	}
}

func New(options ...Option) *Scene {
	s := &Scene{
		index:      make(map[uuid.UUID]int),
		broadPhase: NewRTree(),
		logger:     slog.Default(),
	}
	for _, option := range options {
		option(s)
	}

	return s
}

// Add inserts a collider and returns its ID. Adding an ID twice replaces the
// previous collider.
func (s *Scene) Add(collider *actor.Collider) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if collider.ID == uuid.Nil {
		collider.ID = uuid.New()
	}
	collider.SetTransform(collider.Transform)

	if i, exists := s.index[collider.ID]; exists {
		s.colliders[i] = collider
	} else {
		s.index[collider.ID] = len(s.colliders)
		s.colliders = append(s.colliders, collider)
	}
	s.dirty = true

	return collider.ID
}

// Remove deletes a collider, reporting whether it was present
func (s *Scene) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[id]
	if !exists {
		return false
	}

	last := len(s.colliders) - 1
	s.colliders[i] = s.colliders[last]
	s.index[s.colliders[i].ID] = i
	s.colliders[last] = nil
	s.colliders = s.colliders[:last]
	delete(s.index, id)
	s.dirty = true

	return true
}

// SetTransform moves a collider. Moving the collider of an agent between
// ticks is how the agent shows up in other agents' queries.
func (s *Scene) SetTransform(id uuid.UUID, transform actor.Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[id]
	if !exists {
		return fmt.Errorf("set transform %s: %w", id, ErrUnknownCollider)
	}

	s.colliders[i].SetTransform(transform)
	s.dirty = true

	return nil
}

// Collider returns a copy of a collider's placement and shape
func (s *Scene) Collider(id uuid.UUID) (actor.Collider, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, exists := s.index[id]
	if !exists {
		return actor.Collider{}, false
	}
	return *s.colliders[i], true
}

func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.colliders)
}

// rlock takes the read lock on an up to date broad phase
func (s *Scene) rlock() {
	for {
		s.mu.RLock()
		if !s.dirty {
			return
		}
		s.mu.RUnlock()

		s.mu.Lock()
		if s.dirty {
			s.rebuild()
		}
		s.mu.Unlock()
	}
}

// rebuild must be called with the write lock held
func (s *Scene) rebuild() {
	s.entries = s.entries[:0]
	s.unbounded = s.unbounded[:0]

	for i, collider := range s.colliders {
		if !collider.IsBounded() {
			s.unbounded = append(s.unbounded, i)
			continue
		}
		s.entries = append(s.entries, Entry{Index: i, AABB: collider.Shape.GetAABB().Expand(boundsMargin)})
	}

	s.broadPhase.Rebuild(s.entries)
	s.dirty = false
}

// candidates lists colliders possibly touching box, under the read lock
func (s *Scene) candidates(box actor.AABB, results []int) []int {
	results = s.broadPhase.Query(box, results)
	return append(results, s.unbounded...)
}
