package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/themegrid/internal"
)

// DefaultMaxBytes is the largest payload accepted from a source
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// DownloadOptions configures image download behavior
type DownloadOptions struct {
	OutputDir         string // Directory to save images
	OverwriteExisting bool   // Whether to overwrite existing files
	CreateDir         bool   // Create output directory if it doesn't exist
	FileNamePattern   string // Pattern for file naming
	MaxSizeBytes      int64  // Maximum file size to download (0 = no limit)
}

// DefaultDownloadOptions returns sensible defaults for image downloads
func DefaultDownloadOptions() *DownloadOptions {
	return &DownloadOptions{
		OutputDir:         "./photos",
		OverwriteExisting: false,
		CreateDir:         true,
		FileNamePattern:   "{label}_{source}_{index}",
		MaxSizeBytes:      DefaultMaxBytes,
	}
}

// Downloader handles image downloads from search results
type Downloader struct {
	options *DownloadOptions
}

// NewDownloader creates a new image downloader
func NewDownloader(options *DownloadOptions) *Downloader {
	if options == nil {
		options = DefaultDownloadOptions()
	}
	return &Downloader{options: options}
}

// DownloadImage downloads a single image to outputPath and returns the bytes written.
// A payload above MaxSizeBytes is rejected and the partial file removed.
func (d *Downloader) DownloadImage(ctx context.Context, searcher ImageSearcher, result *SearchResult, outputPath string) (int64, error) {
	dir := filepath.Dir(outputPath)
	if d.options.CreateDir && dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if !d.options.OverwriteExisting {
		if _, err := os.Stat(outputPath); err == nil {
			return 0, fmt.Errorf("file already exists: %s", outputPath)
		}
	}

	if result.Bytes > 0 && d.options.MaxSizeBytes > 0 && result.Bytes > d.options.MaxSizeBytes {
		return 0, rejectf("reported size %d exceeds %d bytes", result.Bytes, d.options.MaxSizeBytes)
	}

	reader, err := searcher.Download(ctx, result.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to download image: %w", err)
	}
	defer reader.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	var written int64
	if d.options.MaxSizeBytes > 0 {
		written, err = io.CopyN(file, reader, d.options.MaxSizeBytes)
		if err != nil && err != io.EOF {
			file.Close()
			os.Remove(outputPath)
			return 0, fmt.Errorf("failed to write file: %w", err)
		}

		// Try to read one more byte to see if the payload is larger
		if written == d.options.MaxSizeBytes {
			if n, _ := reader.Read(make([]byte, 1)); n > 0 {
				file.Close()
				os.Remove(outputPath)
				return 0, rejectf("image exceeds maximum size of %d bytes", d.options.MaxSizeBytes)
			}
		}
	} else {
		written, err = io.Copy(file, reader)
		if err != nil {
			file.Close()
			os.Remove(outputPath)
			return 0, fmt.Errorf("failed to write file: %w", err)
		}
	}

	if err := file.Close(); err != nil {
		os.Remove(outputPath)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}

	return written, nil
}

// FileName creates a file name (without extension) from the pattern
func (d *Downloader) FileName(label, source string, index int) string {
	name := d.options.FileNamePattern
	name = strings.ReplaceAll(name, "{label}", internal.SanitizeFilename(label))
	name = strings.ReplaceAll(name, "{source}", source)
	name = strings.ReplaceAll(name, "{index}", fmt.Sprintf("%d", index))
	return name
}
