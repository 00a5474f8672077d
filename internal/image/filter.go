package image

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
)

// Sniff returns the file extension matching the magic bytes in head.
// Only JPEG and PNG are recognized; SVG, XML, GIF, WebP and anything else
// is rejected.
func Sniff(head []byte) (string, error) {
	switch {
	case bytes.HasPrefix(head, jpegMagic):
		return ".jpg", nil
	case bytes.HasPrefix(head, pngMagic):
		return ".png", nil
	}

	trimmed := bytes.TrimSpace(head)
	switch {
	case bytes.HasPrefix(trimmed, []byte("<svg")), bytes.HasPrefix(trimmed, []byte("<?xml")):
		return "", rejectf("svg/xml payload")
	case bytes.HasPrefix(head, []byte("GIF8")):
		return "", rejectf("gif payload")
	case len(head) >= 12 && bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP")):
		return "", rejectf("webp payload")
	case bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")), bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html")):
		return "", rejectf("html payload")
	}
	return "", rejectf("unknown image format")
}

// Accept checks the file at path against the type and size filter and
// returns its real extension
func Accept(path string, maxBytes int64) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return "", rejectf("empty payload")
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", rejectf("%d bytes exceeds %d", info.Size(), maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Sniff(head[:n])
}
