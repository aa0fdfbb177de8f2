package processing

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"

	"github.com/goatfiles/wallpapers/pkg/geometry"
)

// Resize scales img to exactly the target shape using Lanczos resampling.
func (p *Processor) Resize(img image.Image, target geometry.Shape) image.Image {
	return imaging.Resize(img, target.Width, target.Height, imaging.Lanczos)
}

// CenterCrop cuts img down to the target shape around its center. When the
// pixels to remove split unevenly, the extra pixel comes off the bottom or
// right edge.
func (p *Processor) CenterCrop(img image.Image, target geometry.Shape) image.Image {
	return imaging.CropCenter(img, target.Width, target.Height)
}

// SmartCrop cuts img down to the target shape anchored on the region
// smartcrop scores highest instead of the geometric center. The returned
// image always has exactly the target shape.
func (p *Processor) SmartCrop(img image.Image, target geometry.Shape) (image.Image, error) {
	r := &resizer{resampler: imaging.Lanczos}
	analyzer := smartcrop.NewAnalyzer(r)

	best, err := analyzer.FindBestCrop(img, target.Width, target.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to find best crop: %w", err)
	}

	out := imaging.Crop(img, best)
	if geometry.ShapeOf(out) != target {
		return imaging.Resize(out, target.Width, target.Height, imaging.Lanczos), nil
	}
	return out, nil
}

// resizer implements the smartcrop.Resizer interface on top of imaging.
type resizer struct {
	resampler imaging.ResampleFilter
}

// Resize satisfies smartcrop.Resizer.
func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
