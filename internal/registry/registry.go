// Package registry holds the per-session fragment store. One registry is
// owned by exactly one verification session; mutation follows a
// single-writer discipline (orchestrator and classifier stages), readers
// only observe committed snapshots.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rkarpau/veritext/internal/model"
)

type sideState struct {
	fragments []model.Fragment
	content   model.Content
}

type runState struct {
	input  sideState
	output sideState
	scored bool
}

// Registry stores fragments and concatenated content per run and side.
type Registry struct {
	mu      sync.RWMutex
	runs    map[int]*runState
	current int
	nextID  int
}

// New creates an empty registry. The first run starts at 1 once BeginRun
// is called.
func New() *Registry {
	return &Registry{runs: make(map[int]*runState)}
}

// BeginRun opens a new run, makes it current, and returns its number.
func (r *Registry) BeginRun() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current++
	r.runs[r.current] = &runState{}
	return r.current
}

// CurrentRun returns the current run number (0 before the first BeginRun).
func (r *Registry) CurrentRun() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// NextID issues a fragment id unique across both sides of the whole
// session. Ids are generated lazily, only for fragments that need one.
func (r *Registry) NextID(typ model.FragmentType) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return fmt.Sprintf("%s-%d", typ, r.nextID)
}

// AppendFragments adds fragments to the current run, assigning ids to any
// fragment that has none.
func (r *Registry) AppendFragments(side model.Side, frags []model.Fragment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.sideLocked(side)
	if st == nil {
		return
	}
	for _, f := range frags {
		if f.ID == "" {
			r.nextID++
			f.ID = fmt.Sprintf("%s-%d", f.Type, r.nextID)
		}
		st.fragments = append(st.fragments, f)
	}
}

// AppendContent adds a raw content blob (and its lowercased variant) to the
// current run's side.
func (r *Registry) AppendContent(side model.Side, raw string) {
	if raw == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.sideLocked(side)
	if st == nil {
		return
	}
	st.content.Raw = append(st.content.Raw, raw)
	st.content.Lower = append(st.content.Lower, strings.ToLower(raw))
}

// ReplaceFragments atomically replaces the current run's fragment list for
// one side. Used after deduplication and after classification mutate
// fragment statuses.
func (r *Registry) ReplaceFragments(side model.Side, frags []model.Fragment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.sideLocked(side)
	if st == nil {
		return
	}
	st.fragments = append([]model.Fragment(nil), frags...)
}

// Fragments returns a snapshot copy of the current run's fragments.
func (r *Registry) Fragments(side model.Side) []model.Fragment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.sideLocked(side)
	if st == nil {
		return nil
	}
	return append([]model.Fragment(nil), st.fragments...)
}

// Content returns a snapshot of the current run's concatenated content.
func (r *Registry) Content(side model.Side) model.Content {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.sideLocked(side)
	if st == nil {
		return model.Content{}
	}
	return model.Content{
		Raw:   append([]string(nil), st.content.Raw...),
		Lower: append([]string(nil), st.content.Lower...),
	}
}

// MarkScored freezes the current run.
func (r *Registry) MarkScored() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[r.current]; ok {
		run.scored = true
	}
}

// Dedupe drops fragments of the same type whose representation sets
// intersect, keeping the first-seen fragment. It runs once per run and
// side, before classification.
func (r *Registry) Dedupe(side model.Side) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.sideLocked(side)
	if st == nil {
		return
	}
	st.fragments = dedupe(st.fragments)
}

func dedupe(frags []model.Fragment) []model.Fragment {
	var kept []model.Fragment
	for _, f := range frags {
		dup := false
		for _, k := range kept {
			if k.Type == f.Type && representationsIntersect(k.Representations, f.Representations) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, f)
		}
	}
	return kept
}

func representationsIntersect(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, r := range a {
		set[r] = true
	}
	for _, r := range b {
		if set[r] {
			return true
		}
	}
	return false
}

// sideLocked returns the current run's side state. Callers hold the lock.
func (r *Registry) sideLocked(side model.Side) *sideState {
	run, ok := r.runs[r.current]
	if !ok {
		return nil
	}
	if side == model.SideInput {
		return &run.input
	}
	return &run.output
}
