// Package processing wraps image decode, transform and encode for the
// normalizer. Decoding goes through imaging's registered decoders with an
// explicit WebP fallback; writes encode into a temporary file that is then
// renamed over the original, so a failed save never corrupts an image.
package processing

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Processor handles image load, transform and save operations.
type Processor struct {
	quality int
}

// NewProcessor creates a processor that encodes lossy formats at the given
// quality (1-100). Out of range values are clamped.
func NewProcessor(quality int) *Processor {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return &Processor{quality: quality}
}

// LoadImage loads an image from a file path with WebP support.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err != nil {
			return nil, err
		}
	}
	if img, _, err := image.Decode(f); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// SaveImage writes img over the file at path. The encoded bytes go to a
// temporary file in the same directory which is renamed onto path, so
// readers see either the old image or the new one, never a partial write.
// The output format follows the file extension.
func (p *Processor) SaveImage(img image.Image, path string) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := p.encode(tmp, img, filepath.Ext(base)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", base, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", base, err)
	}
	return nil
}

// encode writes img to w in the format matching ext.
func (p *Processor) encode(w io.Writer, img image.Image, ext string) error {
	if strings.EqualFold(ext, ".webp") {
		opts := &webp.Options{Quality: float32(p.quality)}
		return webp.Encode(w, img, opts)
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(p.quality))
}
