package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/listly/internal/model"
)

// ErrorMsg reports a failed operation to the root model, which logs it and
// shows it in the status bar.
type ErrorMsg struct {
	Op    string
	Err   error
	Attrs []any
}

func (e ErrorMsg) Error() string { return e.Op + ": " + e.Err.Error() }

// Fail returns a command producing an ErrorMsg. Attrs are slog key/value
// pairs identifying the entities involved.
func Fail(op string, err error, attrs ...any) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Op: op, Err: err, Attrs: attrs}
	}
}

// OpenListMsg asks the root model to show a list.
type OpenListMsg struct{ ListID string }

// OpenTemplateMsg asks the root model to show the template editor.
type OpenTemplateMsg struct{ TemplateID string }

// StartSwipeMsg asks the root model to start building a list from a template.
type StartSwipeMsg struct{ TemplateID string }

// BackMsg asks the root model to return to the home screen and reload it.
type BackMsg struct{}

// Back is a command producing BackMsg.
func Back() tea.Msg { return BackMsg{} }

// Describe turns an error into a short message for the status bar.
func Describe(err error) string {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, model.ErrNotFound):
		return "That item no longer exists."
	case errors.Is(err, model.ErrInvalidSelection):
		return "No items were selected."
	case errors.Is(err, model.ErrStorage):
		return "Could not save changes. See the log for details."
	default:
		return err.Error()
	}
}

// Step moves a cursor by delta within n entries, wrapping at both ends.
func Step(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((cursor+delta)%n + n) % n
}

// Clamp keeps cursor inside [0, n).
func Clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
