package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// WordEntry is one line of a word list
type WordEntry struct {
	Query  string
	Label  string
	Target string
	// NeedsTranslation is set when the target label is missing
	NeedsTranslation bool
	Line             int
}

// ReadBatchFile reads a word list and returns its entries
// Supports formats:
// - "eye = oeil = око" (search query, display label, target label)
// - "eye = oeil" (target label translated later)
// - "oeil" (label doubles as query, target translated later)
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]WordEntry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	defer file.Close()

	var entries []WordEntry
	scanner := bufio.NewScanner(file)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, lineNo, err)
		}
		entry.Line = lineNo
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	return entries, nil
}

func parseLine(line string) (WordEntry, error) {
	parts := strings.Split(line, "=")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		return WordEntry{Query: parts[0], Label: parts[0], NeedsTranslation: true}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return WordEntry{}, fmt.Errorf("expected 'query = label', got %q", line)
		}
		return WordEntry{Query: parts[0], Label: parts[1], NeedsTranslation: true}, nil
	case 3:
		if parts[1] == "" {
			return WordEntry{}, fmt.Errorf("missing label in %q", line)
		}
		query := parts[0]
		if query == "" {
			query = parts[1]
		}
		return WordEntry{Query: query, Label: parts[1], Target: parts[2], NeedsTranslation: parts[2] == ""}, nil
	default:
		return WordEntry{}, fmt.Errorf("too many '=' in %q", line)
	}
}
