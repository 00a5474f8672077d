package theme

import (
	"path/filepath"

	"codeberg.org/snonux/themegrid/internal"
)

const configFile = "config.json"

// Paths lists every file of a theme directory
type Paths struct {
	Dir        string
	Config     string
	Photos     string
	Candidates string
	Report     string
	Selection  string
	Ledger     string
	Lock       string
	Archive    string
}

// NewPaths returns the layout of root/name
func NewPaths(root, name string) Paths {
	dir := filepath.Join(root, name)
	return Paths{
		Dir:        dir,
		Config:     filepath.Join(dir, configFile),
		Photos:     filepath.Join(dir, "photos"),
		Candidates: filepath.Join(dir, "candidates.json"),
		Report:     filepath.Join(dir, "scoring_report.json"),
		Selection:  filepath.Join(dir, "selection.json"),
		Ledger:     filepath.Join(dir, "ledger.db"),
		Lock:       filepath.Join(dir, ".lock"),
		Archive:    filepath.Join(dir, "archive"),
	}
}

// Document returns the path of the rendered document for title
func (p Paths) Document(title, ext string) string {
	return filepath.Join(p.Dir, internal.SanitizeFilename(title)+ext)
}
