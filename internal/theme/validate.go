package theme

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Validate checks the theme for everything fetch and render rely on
func (t *Theme) Validate() error {
	var errs []error

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, errors.New("name cannot be empty"))
	}
	if len(t.Elements) == 0 {
		errs = append(errs, errors.New("theme needs at least one element"))
	}
	if t.Columns < 1 || t.Columns > MaxColumns {
		errs = append(errs, fmt.Errorf("columns must be between 1 and %d, got %d", MaxColumns, t.Columns))
	}
	if t.ImagesPerElement < 0 || t.MaxWorkers < 0 {
		errs = append(errs, errors.New("images_per_element and max_workers cannot be negative"))
	}

	var table *unicode.RangeTable
	if t.Script != "" {
		var ok bool
		table, ok = unicode.Scripts[t.Script]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown script %q", t.Script))
		}
	}

	seen := make(map[string]bool)
	for i, e := range t.Elements {
		if strings.TrimSpace(e.Label) == "" {
			errs = append(errs, fmt.Errorf("element %d: label cannot be empty", i+1))
			continue
		}
		if seen[e.Label] {
			errs = append(errs, fmt.Errorf("element %d: duplicate label %q", i+1, e.Label))
		}
		seen[e.Label] = true

		if e.Target != "" && table != nil {
			if err := ValidateScript(e.Target, table); err != nil {
				errs = append(errs, fmt.Errorf("element %q: %w", e.Label, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid theme %s: %w", t.Name, errors.Join(errs...))
	}
	return nil
}

// ValidateScript checks that text contains at least one rune of the script
func ValidateScript(text string, script *unicode.RangeTable) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	for _, r := range text {
		if unicode.Is(script, r) {
			return nil
		}
	}

	return fmt.Errorf("%q contains no characters of the expected script", text)
}
