package image

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/themegrid/internal"
)

// Request asks for count images illustrating one element
type Request struct {
	Label string
	Query string
	Count int
}

// Ledger remembers content fetched by earlier runs
type Ledger interface {
	Lookup(sha256 string) (path string, ok bool, err error)
	Record(sha256, url, source, label, path string, bytes int64) error
}

// FetcherOptions configures a fetch run
type FetcherOptions struct {
	PhotosDir string
	Workers   int
	MaxBytes  int64
	Prefix    string // prepended to queries by wikipedia and wikimedia
	Normalize NormalizeOptions
}

// PlannedSearch is one (element, source) search of a run
type PlannedSearch struct {
	Label  string
	Query  string
	Source string
	Count  int
}

// Fetcher fans searches and downloads out over the configured sources
type Fetcher struct {
	searchers  []ImageSearcher
	downloader *Downloader
	ledger     Ledger
	opts       FetcherOptions

	mu       sync.Mutex
	claimed  map[string]string // sha256 -> path, theme wide
	reserved map[string]bool   // file names this run writes
}

// NewFetcher creates a fetcher; ledger may be nil
func NewFetcher(searchers []ImageSearcher, ledger Ledger, opts FetcherOptions) *Fetcher {
	if opts.Workers <= 0 {
		opts.Workers = 20
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Normalize.Quality == 0 {
		opts.Normalize = DefaultNormalizeOptions()
	}

	return &Fetcher{
		searchers: searchers,
		downloader: NewDownloader(&DownloadOptions{
			OutputDir:         opts.PhotosDir,
			OverwriteExisting: true,
			CreateDir:         true,
			FileNamePattern:   "{label}_{source}_{index}",
			MaxSizeBytes:      opts.MaxBytes,
		}),
		ledger:   ledger,
		opts:     opts,
		claimed:  make(map[string]string),
		reserved: make(map[string]bool),
	}
}

// Plan splits each request over the sources without touching the network
func (f *Fetcher) Plan(reqs []Request) []PlannedSearch {
	var plan []PlannedSearch
	for _, req := range reqs {
		counts := SplitCounts(req.Count, len(f.searchers))
		for i, s := range f.searchers {
			if counts[i] == 0 {
				continue
			}
			plan = append(plan, PlannedSearch{
				Label:  req.Label,
				Query:  req.Query,
				Source: s.Name(),
				Count:  counts[i],
			})
		}
	}
	return plan
}

type searchSlot struct {
	results []SearchResult
	err     error
}

type downloadJob struct {
	element  int
	index    int
	searcher ImageSearcher
	result   SearchResult
}

type downloadSlot struct {
	candidate *Candidate
	err       error
}

// Fetch runs the search and download phases and returns the manifest.
// A failing source or candidate is recorded and skipped. When an element
// ends with no candidate the manifest is still returned, together with an
// error wrapping ErrNoCandidates.
func (f *Fetcher) Fetch(ctx context.Context, theme string, reqs []Request) (*Manifest, error) {
	if err := os.MkdirAll(f.opts.PhotosDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}

	manifest := &Manifest{
		Theme:       theme,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Elements:    make([]ElementResult, len(reqs)),
	}
	for i, req := range reqs {
		manifest.Elements[i] = ElementResult{Label: req.Label, Query: req.Query, Candidates: []Candidate{}}
	}

	searches, err := f.searchAll(ctx, reqs)
	if err != nil {
		return nil, err
	}

	// Failures and URL dedup per element, then number the jobs
	var jobs []downloadJob
	for e := range reqs {
		seen := make(map[string]bool)
		index := 0
		for s, searcher := range f.searchers {
			slot := searches[e][s]
			if slot.err != nil {
				manifest.Elements[e].Failures = append(manifest.Elements[e].Failures,
					fmt.Sprintf("%s: %v", searcher.Name(), slot.err))
				slog.Warn("Image search failed", "source", searcher.Name(), "label", reqs[e].Label, "error", slot.err)
				continue
			}
			for _, result := range slot.results {
				if result.URL == "" || seen[result.URL] {
					continue
				}
				seen[result.URL] = true
				index++
				jobs = append(jobs, downloadJob{element: e, index: index, searcher: searcher, result: result})
			}
		}
	}

	stems := fileStems(reqs)
	f.mu.Lock()
	for _, job := range jobs {
		f.reserved[f.downloader.FileName(stems[job.element], job.searcher.Name(), job.index)+".jpg"] = true
	}
	f.mu.Unlock()

	slots := make([]downloadSlot, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.opts.Workers)
	for i, job := range jobs {
		i, job := i, job
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return egCtx.Err()
			}
			c, err := f.fetchOne(egCtx, reqs[job.element].Label, stems[job.element], job)
			slots[i] = downloadSlot{candidate: c, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("download phase interrupted: %w", err)
	}

	for i, job := range jobs {
		el := &manifest.Elements[job.element]
		switch {
		case slots[i].err != nil:
			manifest.Skipped++
			el.Failures = append(el.Failures, fmt.Sprintf("%s #%d: %v", job.searcher.Name(), job.index, slots[i].err))
			slog.Warn("Skipping candidate", "label", el.Label, "source", job.searcher.Name(), "url", job.result.URL, "error", slots[i].err)
		case slots[i].candidate != nil:
			el.Candidates = append(el.Candidates, *slots[i].candidate)
		}
	}
	for e := range manifest.Elements {
		sort.Slice(manifest.Elements[e].Candidates, func(i, j int) bool {
			return manifest.Elements[e].Candidates[i].Index < manifest.Elements[e].Candidates[j].Index
		})
	}

	if empty := manifest.Empty(); len(empty) > 0 {
		return manifest, fmt.Errorf("%w for %s", ErrNoCandidates, strings.Join(empty, ", "))
	}
	return manifest, nil
}

// fileStems returns one file name stem per request. Labels that sanitize to
// the same name ("côte" and "côté") get the element ordinal appended, so no
// two elements share a file.
func fileStems(reqs []Request) []string {
	stems := make([]string, len(reqs))
	used := make(map[string]bool)
	for e, req := range reqs {
		base := internal.SanitizeFilename(req.Label)
		stem := base
		// Compared case-folded for case-insensitive filesystems
		for n := e + 1; used[strings.ToLower(stem)]; n++ {
			suffix := "_" + strconv.Itoa(n)
			runes := []rune(base)
			if limit := 60 - len(suffix); len(runes) > limit {
				runes = runes[:limit]
			}
			stem = string(runes) + suffix
		}
		used[strings.ToLower(stem)] = true
		stems[e] = stem
	}
	return stems
}

// searchAll queries every source for every element; slot [e][s] holds the outcome
func (f *Fetcher) searchAll(ctx context.Context, reqs []Request) ([][]searchSlot, error) {
	slots := make([][]searchSlot, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.opts.Workers)

	for e, req := range reqs {
		slots[e] = make([]searchSlot, len(f.searchers))
		counts := SplitCounts(req.Count, len(f.searchers))
		for s, searcher := range f.searchers {
			if counts[s] == 0 {
				continue
			}
			e, s, searcher, count, query := e, s, searcher, counts[s], req.Query
			eg.Go(func() error {
				opts := DefaultSearchOptions(query)
				opts.PerPage = count
				opts.Prefix = f.opts.Prefix

				results, err := searcher.Search(egCtx, opts)
				if len(results) > count {
					results = results[:count]
				}
				slots[e][s] = searchSlot{results: results, err: err}
				slog.Debug("Searched image source", "source", searcher.Name(), "query", query, "results", len(results))
				// Only cancellation stops the phase
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return err
				}
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("search phase interrupted: %w", err)
	}
	return slots, nil
}

// fetchOne downloads, filters, deduplicates and normalizes one search result.
// It returns (nil, nil) for a duplicate.
func (f *Fetcher) fetchOne(ctx context.Context, label, stem string, job downloadJob) (*Candidate, error) {
	name := f.downloader.FileName(stem, job.searcher.Name(), job.index)
	partPath := filepath.Join(f.opts.PhotosDir, name+".part")
	finalName := name + ".jpg"
	finalPath := filepath.Join(f.opts.PhotosDir, finalName)

	size, err := f.downloader.DownloadImage(ctx, job.searcher, &job.result, partPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(partPath)

	if _, err := Accept(partPath, f.opts.MaxBytes); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(partPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}
	sha := internal.ContentHash(data)

	reused, dup, err := f.claim(sha, finalName)
	if err != nil {
		return nil, err
	}
	if dup {
		slog.Debug("Skipping duplicate content", "label", label, "url", job.result.URL)
		return nil, nil
	}

	relPath := finalName
	var width, height int
	if reused != "" {
		relPath = reused
		width, height, err = Dimensions(filepath.Join(f.opts.PhotosDir, reused))
		if err != nil {
			return nil, err
		}
	} else {
		width, height, err = Normalize(partPath, finalPath, f.opts.Normalize)
		if err != nil {
			f.release(sha)
			return nil, err
		}
	}

	if f.ledger != nil && reused == "" {
		if err := f.ledger.Record(sha, job.result.URL, job.searcher.Name(), label, relPath, size); err != nil {
			slog.Warn("Failed to record fetch in ledger", "path", relPath, "error", err)
		}
	}

	return &Candidate{
		Path:        relPath,
		Source:      job.searcher.Name(),
		Index:       job.index,
		URL:         job.result.URL,
		Width:       width,
		Height:      height,
		Bytes:       size,
		Author:      job.result.Author,
		Attribution: job.searcher.GetAttribution(&job.result),
		SHA256:      sha,
	}, nil
}

// claim reserves sha for this run. It reports a duplicate when the content was
// already claimed, and returns the existing path when an earlier run left the
// same content on disk.
func (f *Fetcher) claim(sha, path string) (reused string, dup bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.claimed[sha]; ok {
		return "", true, nil
	}

	if f.ledger != nil {
		prev, ok, err := f.ledger.Lookup(sha)
		if err != nil {
			return "", false, fmt.Errorf("ledger lookup: %w", err)
		}
		if ok && prev != path {
			if _, err := os.Stat(filepath.Join(f.opts.PhotosDir, prev)); err == nil && !f.reserved[prev] {
				f.claimed[sha] = prev
				return prev, false, nil
			}
		}
	}

	f.claimed[sha] = path
	return "", false, nil
}

func (f *Fetcher) release(sha string) {
	f.mu.Lock()
	delete(f.claimed, sha)
	f.mu.Unlock()
}
