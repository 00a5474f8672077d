package image

import (
	"fmt"
	stdimage "image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// NormalizeOptions controls the re-encoding of accepted candidates
type NormalizeOptions struct {
	MaxEdge int // longest edge in pixels, 0 keeps the size
	Quality int // JPEG quality
}

// DefaultNormalizeOptions returns the settings used by fetch
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{MaxEdge: 1600, Quality: 90}
}

// Normalize re-encodes src as a baseline JPEG at dst. Transparent pixels are
// flattened onto white and the longest edge is capped at opts.MaxEdge.
// src and dst may be the same path. It returns the output dimensions.
func Normalize(src, dst string, opts NormalizeOptions) (width, height int, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open %s: %w", src, err)
	}
	img, _, err := stdimage.Decode(in)
	in.Close()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: decode %s: %v", ErrRejected, src, err)
	}

	out := flatten(img, opts.MaxEdge)

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	tmp := dst + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if err := jpeg.Encode(f, out, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, 0, fmt.Errorf("failed to encode %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, 0, fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return 0, 0, fmt.Errorf("failed to move %s: %w", dst, err)
	}

	b := out.Bounds()
	return b.Dx(), b.Dy(), nil
}

// flatten draws img on a white canvas, scaled down so its longest edge fits maxEdge
func flatten(img stdimage.Image, maxEdge int) *stdimage.RGBA {
	sb := img.Bounds()
	w, h := fitWithin(sb.Dx(), sb.Dy(), maxEdge)

	canvas := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), &stdimage.Uniform{C: color.White}, stdimage.Point{}, draw.Src)

	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(canvas, canvas.Bounds(), img, sb.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(canvas, canvas.Bounds(), img, sb, draw.Over, nil)
	}
	return canvas
}

// fitWithin scales w x h so the longest edge is at most maxEdge, keeping the aspect ratio
func fitWithin(w, h, maxEdge int) (int, int) {
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return w, h
	}
	if w >= h {
		return maxEdge, max(1, h*maxEdge/w)
	}
	return max(1, w*maxEdge/h), maxEdge
}

// Dimensions reads only the header of the image at path
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := stdimage.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header of %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
