package theme

import (
	"fmt"

	"codeberg.org/snonux/themegrid/internal/batch"
)

// ReadWordList reads a "query = label = target" word list into elements.
// Elements without a target are kept; init --translate fills them in.
func ReadWordList(path string) ([]Element, error) {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word list %s has no entries", path)
	}

	elements := make([]Element, 0, len(entries))
	for _, e := range entries {
		elements = append(elements, Element{
			Query:  e.Query,
			Label:  e.Label,
			Target: e.Target,
		})
	}
	return elements, nil
}

// MissingTargets returns the elements that still need a target label
func (t *Theme) MissingTargets() []*Element {
	var missing []*Element
	for i := range t.Elements {
		if t.Elements[i].Target == "" {
			missing = append(missing, &t.Elements[i])
		}
	}
	return missing
}
