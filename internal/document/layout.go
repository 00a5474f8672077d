package document

import (
	"codeberg.org/snonux/themegrid/internal/selection"
)

// Cell is one filled grid cell
type Cell struct {
	Target string
	Label  string
	Image  string // relative to the photos directory
}

// Layout arranges the selection row-major into rows of columns cells.
// The last row is padded with nil cells.
func Layout(sel *selection.Selection, lang string) [][]*Cell {
	columns := sel.Columns
	if columns < 1 {
		columns = 1
	}

	var rows [][]*Cell
	for i, e := range sel.Elements {
		if i%columns == 0 {
			rows = append(rows, make([]*Cell, columns))
		}
		rows[len(rows)-1][i%columns] = &Cell{
			Target: e.Target,
			Label:  e.LabelFor(lang),
			Image:  e.Image,
		}
	}
	return rows
}
