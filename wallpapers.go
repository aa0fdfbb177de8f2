// Package wallpapers normalizes the aspect ratio of a directory of images
// in place.
//
// A run loads every image in the directory, derives the set of valid shapes
// (all integer multiples of the target ratio, up to the largest multiple the
// images reach), and classifies each image against the target ratio. Images
// that already conform are left alone. Images within the configured margin
// of the ratio are resized to the nearest valid shape. Everything else is
// center cropped to the largest valid shape it contains. Resized and
// cropped images replace their originals on disk.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		"github.com/goatfiles/wallpapers"
//	)
//
//	func main() {
//		n, err := wallpapers.New()
//		if err != nil {
//			log.Fatal(err)
//		}
//		n.OnResult = func(r wallpapers.Result) {
//			fmt.Printf("%s: %s\n", r.Name, r.Outcome)
//		}
//
//		summary, err := n.Run(context.Background(), "/home/me/wallpapers")
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("%d resized, %d cropped, %d failed\n",
//			summary.Resized, summary.Cropped, summary.Failed)
//	}
//
// The target ratio, the margin and the remaining knobs live in Options; see
// NewWithOptions. The valid shape set is computed once per run from all the
// images together, so the files in a directory converge on a shared family
// of shapes rather than drifting individually.
package wallpapers

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goatfiles/wallpapers/internal/utils"
	"github.com/goatfiles/wallpapers/pkg/geometry"
	"github.com/goatfiles/wallpapers/pkg/processing"
)

// Version of the wallpapers library
const Version = "1.0.0"

// Options configures a Normalizer.
type Options struct {
	// Ratio is the target aspect ratio.
	Ratio geometry.Ratio
	// Margin is the tolerance, in ratio space, within which an image is
	// resized to the nearest valid shape instead of cropped.
	Margin float64
	// Quality used when re-encoding JPEG and WebP files (1-100). Zero
	// means the default of 95.
	Quality int
	// Workers bounds how many images are transformed concurrently. Zero
	// means one.
	Workers int
	// Smart anchors crops on the most interesting image region instead
	// of the geometric center.
	Smart bool
	// DryRun classifies and selects shapes without writing anything back.
	DryRun bool
}

// DefaultOptions returns the options used by New: a 16:9 target ratio with
// the standard margin, quality 95 and a single worker.
func DefaultOptions() Options {
	return Options{
		Ratio:   geometry.Ratio{W: 16, H: 9},
		Margin:  0.17778,
		Quality: 95,
		Workers: 1,
	}
}

// Result describes what happened to a single file.
type Result struct {
	// Name is the file name relative to the run directory.
	Name string
	// Shape is the image size before normalization.
	Shape geometry.Shape
	// Target is the selected valid shape. It stays zero for conforming
	// images and for failures that happen before selection.
	Target geometry.Shape
	// Outcome is the classification that drove the transform.
	Outcome geometry.Outcome
	// Written is the size in bytes of the rewritten file.
	Written int64
	// Err is set when this file failed. The rest of the run continues.
	Err error
}

// Summary aggregates a whole run.
type Summary struct {
	Total      int
	Conforming int
	Resized    int
	Cropped    int
	Failed     int
	Written    int64
}

// Normalizer runs aspect ratio normalization over image directories.
type Normalizer struct {
	opts      Options
	processor *processing.Processor

	// OnLoad, when set, is called after each image is loaded.
	OnLoad func(loaded, total int, name string)
	// OnResult, when set, is called once per file as its outcome becomes
	// known. Calls are serialized but arrive in completion order when
	// Workers is greater than one.
	OnResult func(Result)
}

// New creates a Normalizer with default options.
func New() (*Normalizer, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Normalizer with custom options.
func NewWithOptions(opts Options) (*Normalizer, error) {
	if err := opts.Ratio.Validate(); err != nil {
		return nil, err
	}
	if opts.Margin < 0 {
		return nil, fmt.Errorf("margin must not be negative")
	}
	if opts.Quality == 0 {
		opts.Quality = DefaultOptions().Quality
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Normalizer{
		opts:      opts,
		processor: processing.NewProcessor(opts.Quality),
	}, nil
}

// source is one loaded image awaiting normalization.
type source struct {
	name  string
	path  string
	img   image.Image
	shape geometry.Shape
}

// Run normalizes every image inside dir. A load failure or an empty valid
// shape set aborts the run before anything is written. Failures on
// individual files are recorded in their Result and in the summary while
// the rest of the run continues.
func (n *Normalizer) Run(ctx context.Context, dir string) (*Summary, error) {
	if !utils.DirExists(dir) {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	names, err := utils.ListImages(dir)
	if err != nil {
		return nil, err
	}

	sources, err := n.loadAll(dir, names)
	if err != nil {
		return nil, err
	}

	shapes := make([]geometry.Shape, len(sources))
	for i, src := range sources {
		shapes[i] = src.shape
	}
	valid := geometry.ValidShapes(shapes, n.opts.Ratio)
	if len(valid) == 0 && len(sources) > 0 {
		return nil, fmt.Errorf("ratio %s: %w", n.opts.Ratio, geometry.ErrNoValidShapes)
	}

	results := make([]Result, len(sources))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.opts.Workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = n.normalize(src, valid)
			if n.OnResult != nil {
				mu.Lock()
				n.OnResult(results[i])
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Outcome == geometry.Conforming:
			summary.Conforming++
		case r.Outcome == geometry.Resizable:
			summary.Resized++
		default:
			summary.Cropped++
		}
		summary.Written += r.Written
	}
	return summary, nil
}

// loadAll decodes every listed image up front, so decode errors surface
// before the first write and the valid shape set sees the whole batch.
func (n *Normalizer) loadAll(dir string, names []string) ([]source, error) {
	sources := make([]source, 0, len(names))
	for i, name := range names {
		path := filepath.Join(dir, name)
		img, err := n.processor.LoadImage(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		sources = append(sources, source{
			name:  name,
			path:  path,
			img:   img,
			shape: geometry.ShapeOf(img),
		})
		if n.OnLoad != nil {
			n.OnLoad(i+1, len(names), name)
		}
	}
	return sources, nil
}

// normalize classifies one image and applies the matching transform.
func (n *Normalizer) normalize(src source, valid []geometry.Shape) Result {
	res := Result{
		Name:    src.name,
		Shape:   src.shape,
		Outcome: geometry.Classify(src.shape, n.opts.Ratio, n.opts.Margin),
	}

	var out image.Image
	switch res.Outcome {
	case geometry.Conforming:
		return res
	case geometry.Resizable:
		res.Target = geometry.NearestShape(src.shape, valid)
		if !n.opts.DryRun {
			out = n.processor.Resize(src.img, res.Target)
		}
	case geometry.CropRequired:
		target, err := geometry.LargestContained(src.shape, valid)
		if err != nil {
			res.Err = err
			return res
		}
		res.Target = target
		if !n.opts.DryRun {
			out, err = n.crop(src.img, target)
			if err != nil {
				res.Err = err
				return res
			}
		}
	}

	if n.opts.DryRun {
		return res
	}
	if err := n.processor.SaveImage(out, src.path); err != nil {
		res.Err = err
		return res
	}
	if info, err := os.Stat(src.path); err == nil {
		res.Written = info.Size()
	}
	return res
}

// crop picks the crop anchor according to the options.
func (n *Normalizer) crop(img image.Image, target geometry.Shape) (image.Image, error) {
	if n.opts.Smart {
		return n.processor.SmartCrop(img, target)
	}
	return n.processor.CenterCrop(img, target), nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
