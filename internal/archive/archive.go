package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNothingToArchive is returned when a theme has no generated artifacts
var ErrNothingToArchive = errors.New("nothing to archive")

// Artifacts are the generated files and directories of a theme, relative to its directory
var Artifacts = []string{"photos", "candidates.json", "scoring_report.json", "selection.json"}

// ArchiveTheme moves the generated artifacts of themeDir into
// themeDir/archive/<timestamp>/ and leaves an empty photos directory behind.
// It returns the archive path.
func ArchiveTheme(themeDir string) (string, error) {
	if _, err := os.Stat(themeDir); os.IsNotExist(err) {
		return "", fmt.Errorf("theme directory does not exist: %s", themeDir)
	}

	var present []string
	for _, name := range Artifacts {
		if _, err := os.Stat(filepath.Join(themeDir, name)); err == nil {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNothingToArchive, themeDir)
	}

	archiveDir := filepath.Join(themeDir, "archive")
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, timestamp)

	// Two archives within the same second
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, timestamp)
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, name := range present {
		if err := os.Rename(filepath.Join(themeDir, name), filepath.Join(archivePath, name)); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", name, err)
		}
	}

	if err := os.MkdirAll(filepath.Join(themeDir, "photos"), 0755); err != nil {
		return "", fmt.Errorf("failed to recreate photos directory: %w", err)
	}

	fmt.Printf("Theme artifacts archived to: %s\n", archivePath)
	return archivePath, nil
}

// List returns the archive directories of themeDir, oldest first
func List(themeDir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(themeDir, "archive"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
