// Package cases holds the in-memory list of test cases shown in the view.
// Nothing here is persisted; the list lives as long as the process.
package cases

import (
	"fmt"

	"github.com/Makepad-fr/casegen/internal/model"
)

const idFormat = "TC-%03d"

// Defaults for a manually added case.
const (
	NewTitle    = "New Test Case"
	NewStep     = "Step 1..."
	NewExpected = "Expected result..."
)

// List is an ordered set of test cases addressed by ID.
// Not safe for concurrent use; the owner serializes access.
type List struct {
	items []model.TestCase
}

// New returns a list holding copies of cs.
func New(cs []model.TestCase) *List {
	l := &List{}
	l.Replace(cs)
	return l
}

// Replace drops the current content and takes a copy of cs.
func (l *List) Replace(cs []model.TestCase) {
	l.items = make([]model.TestCase, 0, len(cs))
	for _, tc := range cs {
		l.items = append(l.items, tc.Clone())
	}
}

func (l *List) Clear() { l.items = nil }

func (l *List) Len() int { return len(l.items) }

// Items returns a snapshot in display order.
func (l *List) Items() []model.TestCase {
	out := make([]model.TestCase, 0, len(l.items))
	for _, tc := range l.items {
		out = append(out, tc.Clone())
	}
	return out
}

// At returns the case at position i.
func (l *List) At(i int) (model.TestCase, bool) {
	if i < 0 || i >= len(l.items) {
		return model.TestCase{}, false
	}
	return l.items[i].Clone(), true
}

// Get returns the first case with the given ID.
func (l *List) Get(id string) (model.TestCase, bool) {
	i := l.index(id)
	if i < 0 {
		return model.TestCase{}, false
	}
	return l.items[i].Clone(), true
}

func (l *List) index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Delete removes the case with the given ID and reports whether one was found.
func (l *List) Delete(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// Insert puts tc at position i, clamped to the list bounds.
func (l *List) Insert(i int, tc model.TestCase) {
	if i < 0 {
		i = 0
	}
	if i > len(l.items) {
		i = len(l.items)
	}
	l.items = append(l.items, model.TestCase{})
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = tc.Clone()
}

// Update applies fn to the case with the given ID. The ID itself cannot be changed.
func (l *List) Update(id string, fn func(*model.TestCase)) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	tc := l.items[i].Clone()
	fn(&tc)
	tc.ID = id
	l.items[i] = tc
	return true
}

func (l *List) SetTitle(id, title string) bool {
	return l.Update(id, func(tc *model.TestCase) { tc.Title = title })
}

func (l *List) SetSteps(id string, steps []string) bool {
	return l.Update(id, func(tc *model.TestCase) { tc.Steps = append(model.Steps(nil), steps...) })
}

func (l *List) SetExpectedResult(id, expected string) bool {
	return l.Update(id, func(tc *model.TestCase) { tc.ExpectedResult = expected })
}

func (l *List) ToggleType(id string) bool {
	return l.Update(id, func(tc *model.TestCase) { tc.Type = tc.Type.Toggle() })
}

// Add appends a placeholder case and returns it.
// The ID counts from Len()+1 and skips forward past IDs already in the list.
func (l *List) Add() model.TestCase {
	tc := model.TestCase{
		ID:             l.nextID(),
		Title:          NewTitle,
		Type:           model.Positive,
		Steps:          model.Steps{NewStep},
		ExpectedResult: NewExpected,
	}
	l.items = append(l.items, tc)
	return tc.Clone()
}

func (l *List) nextID() string {
	for n := len(l.items) + 1; ; n++ {
		id := fmt.Sprintf(idFormat, n)
		if l.index(id) < 0 {
			return id
		}
	}
}

// Stats counts cases per type. Unknown types are counted in neither.
func (l *List) Stats() (positive, negative int) {
	for _, tc := range l.items {
		switch tc.Type {
		case model.Positive:
			positive++
		case model.Negative:
			negative++
		}
	}
	return
}
