package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/themegrid/internal/testutil"
)

func TestArchiveTheme(t *testing.T) {
	root := testutil.CreateTestDirectory(t, "meteo")
	themeDir := filepath.Join(root, "meteo")

	testutil.CreateTestFile(t, filepath.Join(themeDir, "config.json"), []byte("{}"))
	testutil.CreateTestFile(t, filepath.Join(themeDir, "candidates.json"), []byte("{}"))
	testutil.CreateTestFile(t, filepath.Join(themeDir, "selection.json"), []byte("{}"))
	testutil.CreateTestPhotos(t, filepath.Join(themeDir, "photos"), "soleil_unsplash_1.jpg")

	archivePath, err := ArchiveTheme(themeDir)
	if err != nil {
		t.Fatalf("ArchiveTheme failed: %v", err)
	}

	// Config stays, artifacts move
	testutil.AssertFileExists(t, filepath.Join(themeDir, "config.json"))
	testutil.AssertFileNotExists(t, filepath.Join(themeDir, "candidates.json"))
	testutil.AssertFileNotExists(t, filepath.Join(themeDir, "selection.json"))
	testutil.AssertFileNotExists(t, filepath.Join(themeDir, "photos", "soleil_unsplash_1.jpg"))

	testutil.AssertFileExists(t, filepath.Join(archivePath, "candidates.json"))
	testutil.AssertFileExists(t, filepath.Join(archivePath, "selection.json"))
	testutil.AssertFileExists(t, filepath.Join(archivePath, "photos", "soleil_unsplash_1.jpg"))
	testutil.AssertFileNotExists(t, filepath.Join(archivePath, "scoring_report.json"))

	entries, err := os.ReadDir(filepath.Join(themeDir, "photos"))
	if err != nil {
		t.Fatalf("Expected an empty photos directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty photos directory, got %d entries", len(entries))
	}

	names, err := List(themeDir)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || filepath.Join(themeDir, "archive", names[0]) != archivePath {
		t.Errorf("Expected [%s], got %v", filepath.Base(archivePath), names)
	}
}

func TestArchiveThemeTwice(t *testing.T) {
	root := testutil.CreateTestDirectory(t, "meteo")
	themeDir := filepath.Join(root, "meteo")

	testutil.CreateTestFile(t, filepath.Join(themeDir, "candidates.json"), []byte("{}"))
	first, err := ArchiveTheme(themeDir)
	if err != nil {
		t.Fatalf("First archive failed: %v", err)
	}

	testutil.CreateTestFile(t, filepath.Join(themeDir, "candidates.json"), []byte("{}"))
	second, err := ArchiveTheme(themeDir)
	if err != nil {
		t.Fatalf("Second archive failed: %v", err)
	}

	if first == second {
		t.Errorf("Expected distinct archive paths, got %s twice", first)
	}
}

func TestArchiveThemeNothing(t *testing.T) {
	themeDir := filepath.Join(t.TempDir(), "empty")
	os.MkdirAll(themeDir, 0755)

	_, err := ArchiveTheme(themeDir)
	if !errors.Is(err, ErrNothingToArchive) {
		t.Errorf("Expected ErrNothingToArchive, got %v", err)
	}
}

func TestArchiveThemeMissingDir(t *testing.T) {
	if _, err := ArchiveTheme(filepath.Join(t.TempDir(), "ghost")); err == nil {
		t.Error("Expected error for a missing theme directory")
	}
}
