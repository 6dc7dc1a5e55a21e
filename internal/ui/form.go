package ui

import (
	"fmt"
	"strings"
)

// FormWidth sizes a huh form for a content area of the given width.
func FormWidth(width int) int {
	w := width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// FormHeight sizes a huh form for a content area of the given height.
func FormHeight(height int) int {
	h := height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// Required is a huh validator rejecting blank input.
func Required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
