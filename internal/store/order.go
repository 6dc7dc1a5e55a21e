package store

import "github.com/nhle/listly/internal/model"

// MergeOrder returns current rearranged so that the ids named in requested
// come first, in that order, followed by the remaining ids in their
// existing order. Duplicates in requested are ignored; an id that is not in
// current yields an error wrapping model.ErrNotFound.
func MergeOrder(current, requested []string) ([]string, error) {
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}

	placed := make(map[string]bool, len(requested))
	out := make([]string, 0, len(current))
	for _, id := range requested {
		if !known[id] {
			return nil, model.NotFoundf("item %s", id)
		}
		if placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, id)
	}
	for _, id := range current {
		if !placed[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
