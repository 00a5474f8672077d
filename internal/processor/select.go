package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/themegrid/internal/gui"
	"codeberg.org/snonux/themegrid/internal/image"
	"codeberg.org/snonux/themegrid/internal/selection"
	"codeberg.org/snonux/themegrid/internal/theme"
)

// Select lets the user choose the image of each element, either through
// --pick assignments, the picker window or the terminal picker
func (p *Processor) Select(ctx context.Context, name string) error {
	t, paths, err := p.loadTheme(name)
	if err != nil {
		return err
	}
	unlock, err := p.lock(paths)
	if err != nil {
		return err
	}
	defer unlock()

	m, err := p.readManifest(paths)
	if err != nil {
		return err
	}
	sel, err := loadSelection(t, m, paths)
	if err != nil {
		return err
	}

	switch {
	case len(p.flags.Picks) > 0:
		if err := applyPicks(t, m, sel, p.flags.Picks); err != nil {
			return err
		}
		fmt.Printf("Applied %d picks\n", len(p.flags.Picks))

	case p.flags.GUI:
		saved := p.runGUI(&gui.Config{
			Manifest:      m,
			Selection:     sel,
			PhotosDir:     paths.Photos,
			SelectionPath: paths.Selection,
		})
		if !saved {
			fmt.Println("Picker closed without saving")
		}
		return nil

	default:
		pk, err := p.newPicker()
		if err != nil {
			return err
		}
		res, err := pk.Pick(m, sel)
		if err != nil {
			return err
		}
		Summary{
			Stage:     "Select",
			Total:     res.Changed + res.Kept + res.Skipped,
			Processed: res.Changed,
			Skipped:   res.Skipped,
		}.Print()
	}

	if err := sel.Write(paths.Selection, paths.Photos); err != nil {
		return err
	}
	fmt.Printf("Selection written: %s\n", paths.Selection)
	return ctx.Err()
}

// loadSelection reads selection.json, or derives it from the manifest when
// there is none yet
func loadSelection(t *theme.Theme, m *image.Manifest, paths theme.Paths) (*selection.Selection, error) {
	sel, err := selection.Read(paths.Selection)
	if err == nil {
		return sel, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	sel, _ = selection.FromManifest(t, m)
	return sel, nil
}

// applyPicks applies label=file assignments. The file may be a candidate of
// the manifest or any other image in the photos directory.
func applyPicks(t *theme.Theme, m *image.Manifest, sel *selection.Selection, picks []string) error {
	for _, pick := range picks {
		label, file, ok := strings.Cut(pick, "=")
		label, file = strings.TrimSpace(label), strings.TrimSpace(file)
		if !ok || label == "" || file == "" {
			return fmt.Errorf("invalid pick %q, expected label=file", pick)
		}

		if _, err := sel.Restore(t, label); err != nil {
			return err
		}
		if elem := m.Element(label); elem != nil {
			if c := elem.Candidate(file); c != nil {
				if err := sel.SetCandidate(label, *c); err != nil {
					return err
				}
				continue
			}
		}
		if err := sel.Set(label, file); err != nil {
			return err
		}
	}
	return nil
}
