// Package swipe walks a template's items one card at a time, collecting an
// accept or reject decision for each, and hands the accepted ids to the
// list engine.
package swipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/listly/internal/model"
)

// State is the sequencer's position in the walk.
type State int

const (
	// StatePresenting shows the card at Index and waits for a decision.
	StatePresenting State = iota
	// StateCompleting has a decision for every card; Complete may be called.
	StateCompleting
	// StateDone created the list.
	StateDone
	// StateEmpty means the template had no items. Nothing is presented.
	StateEmpty
	// StateNoSelection means every card was rejected. Nothing is written.
	StateNoSelection
	// StateExited means the user cancelled and the selection was discarded.
	StateExited
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateCompleting:
		return "completing"
	case StateDone:
		return "done"
	case StateEmpty:
		return "empty"
	case StateNoSelection:
		return "no-selection"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateEmpty, StateNoSelection, StateExited:
		return true
	}
	return false
}

// Decision is the committed outcome for one card.
type Decision int

const (
	Reject Decision = iota
	Accept
)

func (d Decision) String() string {
	if d == Accept {
		return "accept"
	}
	return "reject"
}

// ErrWrongState is returned when an operation is not valid in the current state.
var ErrWrongState = errors.New("operation not allowed in current state")

// ListCreator is the part of the list engine the sequencer needs.
type ListCreator interface {
	CreateListFromTemplate(ctx context.Context, templateID, title string, selectedItemIDs []string) (*model.UserList, error)
}

// Sequencer is the single-threaded selection state machine. It is not safe
// for concurrent use.
type Sequencer struct {
	templateID string
	items      []model.TemplateItem
	index      int
	decisions  []Decision
	selected   []string
	state      State
	list       *model.UserList
}

// New starts a walk over items, which should already be in display order.
// With no items the sequencer is immediately in StateEmpty.
func New(templateID string, items []model.TemplateItem) *Sequencer {
	s := &Sequencer{
		templateID: templateID,
		items:      items,
		decisions:  make([]Decision, 0, len(items)),
	}
	if len(items) == 0 {
		s.state = StateEmpty
	}
	return s
}

// State returns the current state.
func (s *Sequencer) State() State { return s.state }

// Index is the zero-based position of the presented card.
func (s *Sequencer) Index() int { return s.index }

// Len is the number of cards in the walk.
func (s *Sequencer) Len() int { return len(s.items) }

// TemplateID is the template being walked.
func (s *Sequencer) TemplateID() string { return s.templateID }

// Current returns the presented card, or false outside StatePresenting.
func (s *Sequencer) Current() (model.TemplateItem, bool) {
	if s.state != StatePresenting {
		return model.TemplateItem{}, false
	}
	return s.items[s.index], true
}

// Progress reports the 1-based card position and the total.
func (s *Sequencer) Progress() (pos, total int) {
	total = len(s.items)
	switch s.state {
	case StatePresenting:
		return s.index + 1, total
	case StateEmpty, StateExited:
		return len(s.decisions), total
	default:
		return total, total
	}
}

// Decide records the decision for the presented card and advances. After
// the last card the sequencer moves to StateCompleting.
func (s *Sequencer) Decide(d Decision) error {
	if s.state != StatePresenting {
		return fmt.Errorf("deciding in state %s: %w", s.state, ErrWrongState)
	}
	item := s.items[s.index]
	s.decisions = append(s.decisions, d)
	if d == Accept {
		s.selected = append(s.selected, item.ID)
	}
	if s.index+1 < len(s.items) {
		s.index++
		return nil
	}
	s.state = StateCompleting
	return nil
}

// Accept is Decide(Accept).
func (s *Sequencer) Accept() error { return s.Decide(Accept) }

// Reject is Decide(Reject).
func (s *Sequencer) Reject() error { return s.Decide(Reject) }

// Decisions returns the decisions recorded so far, in card order.
func (s *Sequencer) Decisions() []Decision {
	out := make([]Decision, len(s.decisions))
	copy(out, s.decisions)
	return out
}

// Selected returns the accepted item ids in the order they were accepted.
func (s *Sequencer) Selected() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// Cancel abandons the walk and discards the selection. Cancelling a
// finished walk is an error.
func (s *Sequencer) Cancel() error {
	if s.state == StateDone || s.state == StateExited {
		return fmt.Errorf("cancelling in state %s: %w", s.state, ErrWrongState)
	}
	s.selected = nil
	s.state = StateExited
	return nil
}

// Complete creates the list from the accepted items. With nothing accepted
// it moves to StateNoSelection and returns model.ErrInvalidSelection
// without calling creator. If creator fails the sequencer stays in
// StateCompleting so the caller may retry or cancel.
func (s *Sequencer) Complete(ctx context.Context, creator ListCreator, title string) (*model.UserList, error) {
	if s.state != StateCompleting {
		return nil, fmt.Errorf("completing in state %s: %w", s.state, ErrWrongState)
	}
	if len(s.selected) == 0 {
		s.state = StateNoSelection
		return nil, model.ErrInvalidSelection
	}

	list, err := creator.CreateListFromTemplate(ctx, s.templateID, title, s.Selected())
	if err != nil {
		return nil, err
	}
	s.list = list
	s.state = StateDone
	return list, nil
}

// List returns the created list once the walk is done.
func (s *Sequencer) List() (*model.UserList, bool) {
	return s.list, s.state == StateDone
}
