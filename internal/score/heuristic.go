package score

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/themegrid/internal/image"
)

const (
	maxHeuristicPoints = 10
	smallFileBytes     = 5 * 1024 * 1024
)

var sourcePriority = map[string]int{
	"unsplash":  4,
	"pexels":    3,
	"wikipedia": 2,
	"wikimedia": 1,
	"pixabay":   1,
}

// HeuristicScorer rates images offline from resolution, aspect ratio,
// source and file size
type HeuristicScorer struct{}

// NewHeuristicScorer creates the offline scorer
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Name returns "heuristic"
func (h *HeuristicScorer) Name() string {
	return Heuristic
}

// Score ignores query; the source is read from the <label>_<source>_<n> file name
func (h *HeuristicScorer) Score(ctx context.Context, path, query string) (float64, error) {
	width, height, err := image.Dimensions(path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return float64(Points(width, height, SourceFromFilename(path), info.Size())) / maxHeuristicPoints, nil
}

// Points returns the raw heuristic score, 0 to 10
func Points(width, height int, source string, size int64) int {
	points := 0
	if width >= 800 {
		points += 2
	}

	if width > 0 && height > 0 {
		aspect := float64(min(width, height)) / float64(max(width, height))
		switch {
		case aspect > 0.8:
			points += 3
		case aspect > 0.6:
			points++
		}
	}

	points += sourcePriority[source]

	if size < smallFileBytes {
		points++
	}
	return points
}

// SourceFromFilename returns the source part of a <label>_<source>_<n>.jpg name
func SourceFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}
