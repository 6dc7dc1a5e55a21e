package swipe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/model"
)

type fakeCreator struct {
	calls    int
	gotID    string
	gotTitle string
	gotIDs   []string
	err      error
}

func (f *fakeCreator) CreateListFromTemplate(
	_ context.Context,
	templateID, title string,
	ids []string,
) (*model.UserList, error) {
	f.calls++
	f.gotID = templateID
	f.gotTitle = title
	f.gotIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	return &model.UserList{ID: "list-1", Title: title, TemplateID: &templateID}, nil
}

func items(texts ...string) []model.TemplateItem {
	out := make([]model.TemplateItem, len(texts))
	for i, text := range texts {
		out[i] = model.TemplateItem{ID: "item-" + text, TemplateID: "tpl", Text: text, SortOrder: i}
	}
	return out
}

func TestSequencer_AcceptRejectAccept(t *testing.T) {
	s := New("tpl", items("a", "b", "c"))
	require.Equal(t, StatePresenting, s.State())

	presented := 0
	for _, d := range []Decision{Accept, Reject, Accept} {
		cur, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, presented, cur.SortOrder)
		presented++
		require.NoError(t, s.Decide(d))
	}

	assert.Equal(t, StateCompleting, s.State())
	assert.Equal(t, 3, presented)
	_, ok := s.Current()
	assert.False(t, ok, "no fourth card")
	assert.Equal(t, []string{"item-a", "item-c"}, s.Selected())
	assert.Equal(t, []Decision{Accept, Reject, Accept}, s.Decisions())

	err := s.Accept()
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Len(t, s.Decisions(), 3)
}

func TestSequencer_EmptyTemplate(t *testing.T) {
	creator := &fakeCreator{}
	s := New("tpl", nil)

	assert.Equal(t, StateEmpty, s.State())
	assert.True(t, s.State().Terminal())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Accept(), ErrWrongState)

	_, err := s.Complete(context.Background(), creator, "x")
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Zero(t, creator.calls)
	assert.Empty(t, s.Decisions())
}

func TestSequencer_AllRejectedIsInvalidSelection(t *testing.T) {
	creator := &fakeCreator{}
	s := New("tpl", items("a", "b"))
	require.NoError(t, s.Reject())
	require.NoError(t, s.Reject())

	list, err := s.Complete(context.Background(), creator, "Trip")
	assert.Nil(t, list)
	assert.ErrorIs(t, err, model.ErrInvalidSelection)
	assert.Equal(t, StateNoSelection, s.State())
	assert.Zero(t, creator.calls)
}

func TestSequencer_CompletePreservesSelectionOrder(t *testing.T) {
	creator := &fakeCreator{}
	s := New("tpl", items("a", "b", "c"))
	require.NoError(t, s.Accept())
	require.NoError(t, s.Accept())
	require.NoError(t, s.Accept())

	list, err := s.Complete(context.Background(), creator, "Trip")
	require.NoError(t, err)
	assert.Equal(t, "list-1", list.ID)
	assert.Equal(t, StateDone, s.State())
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, "tpl", creator.gotID)
	assert.Equal(t, "Trip", creator.gotTitle)
	assert.Equal(t, []string{"item-a", "item-b", "item-c"}, creator.gotIDs)

	got, ok := s.List()
	assert.True(t, ok)
	assert.Equal(t, list, got)

	_, err = s.Complete(context.Background(), creator, "Trip")
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Equal(t, 1, creator.calls)
}

func TestSequencer_CreatorFailureKeepsCompleting(t *testing.T) {
	boom := errors.New("disk full")
	creator := &fakeCreator{err: boom}
	s := New("tpl", items("a"))
	require.NoError(t, s.Accept())

	_, err := s.Complete(context.Background(), creator, "Trip")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateCompleting, s.State())

	creator.err = nil
	_, err = s.Complete(context.Background(), creator, "Trip")
	require.NoError(t, err)
	assert.Equal(t, StateDone, s.State())
}

func TestSequencer_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *Sequencer)
		wantErr bool
	}{
		{name: "while presenting", prepare: func(s *Sequencer) { _ = s.Accept() }},
		{name: "while completing", prepare: func(s *Sequencer) {
			_ = s.Accept()
			_ = s.Accept()
		}},
		{name: "after exit", prepare: func(s *Sequencer) { _ = s.Cancel() }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("tpl", items("a", "b"))
			tt.prepare(s)
			err := s.Cancel()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrWrongState)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StateExited, s.State())
			assert.Empty(t, s.Selected())

			_, err = s.Complete(context.Background(), &fakeCreator{}, "x")
			assert.ErrorIs(t, err, ErrWrongState)
		})
	}
}

func TestSequencer_Progress(t *testing.T) {
	s := New("tpl", items("a", "b", "c"))
	pos, total := s.Progress()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 3, total)

	require.NoError(t, s.Reject())
	pos, _ = s.Progress()
	assert.Equal(t, 2, pos)

	require.NoError(t, s.Reject())
	require.NoError(t, s.Reject())
	pos, total = s.Progress()
	assert.Equal(t, 3, pos)
	assert.Equal(t, 3, total)
}
