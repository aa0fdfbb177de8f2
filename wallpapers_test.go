package wallpapers

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goatfiles/wallpapers/pkg/geometry"
)

// createTestImage returns a uniformly colored image of the given size.
func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 90, G: 120, B: 180, A: 255})
		}
	}
	return img
}

func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(createTestImage(width, height), path))
	return path
}

func imageShape(t *testing.T, path string) geometry.Shape {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return geometry.ShapeOf(img)
}

func TestNewWithOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		n, err := New()
		require.NoError(t, err)
		assert.NotNil(t, n)
	})

	t.Run("invalid ratio", func(t *testing.T) {
		_, err := NewWithOptions(Options{Ratio: geometry.Ratio{W: 0, H: 9}})
		assert.Error(t, err)
	})

	t.Run("negative margin", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Margin = -1
		_, err := NewWithOptions(opts)
		assert.Error(t, err)
	})
}

func TestRunLeavesConformingImagesAlone(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "wall.png", 1920, 1080)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	n, err := New()
	require.NoError(t, err)
	summary, err := n.Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, &Summary{Total: 1, Conforming: 1}, summary)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "conforming images must not be rewritten")
}

func TestRunResizesWithinMargin(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "wide.png", 1900, 1080)

	opts := DefaultOptions()
	opts.Margin = 0.2
	n, err := NewWithOptions(opts)
	require.NoError(t, err)
	summary, err := n.Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resized)
	assert.Positive(t, summary.Written)
	assert.Equal(t, geometry.Shape{Height: 1071, Width: 1904}, imageShape(t, path))
}

func TestRunCropsOutsideMargin(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "square.png", 1000, 1000)

	opts := DefaultOptions()
	opts.Margin = 0.05
	n, err := NewWithOptions(opts)
	require.NoError(t, err)
	summary, err := n.Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Cropped)
	assert.Equal(t, geometry.Shape{Height: 558, Width: 992}, imageShape(t, path))
}

func TestRunSmartCrop(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "square.png", 1000, 1000)

	opts := DefaultOptions()
	opts.Smart = true
	n, err := NewWithOptions(opts)
	require.NoError(t, err)
	summary, err := n.Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Cropped)
	// The anchor moves but the selected shape is the same as a center crop.
	assert.Equal(t, geometry.Shape{Height: 558, Width: 992}, imageShape(t, path))
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	a := writeTestImage(t, dir, "a.png", 1900, 1080)
	b := writeTestImage(t, dir, "b.png", 1000, 1000)

	n, err := New()
	require.NoError(t, err)
	first, err := n.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Resized)
	assert.Equal(t, 1, first.Cropped)

	afterFirstA, err := os.ReadFile(a)
	require.NoError(t, err)
	afterFirstB, err := os.ReadFile(b)
	require.NoError(t, err)

	second, err := n.Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Total: 2, Conforming: 2}, second)

	afterSecondA, err := os.ReadFile(a)
	require.NoError(t, err)
	afterSecondB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, afterFirstA, afterSecondA, "second run must not rewrite a")
	assert.Equal(t, afterFirstB, afterSecondB, "second run must not rewrite b")
}

func TestRunContinuesAfterUncroppableImage(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "big.png", 1920, 1080)
	tiny := writeTestImage(t, dir, "tiny.png", 10, 10)
	before, err := os.ReadFile(tiny)
	require.NoError(t, err)

	var results []Result
	n, err := New()
	require.NoError(t, err)
	n.OnResult = func(r Result) { results = append(results, r) }

	summary, err := n.Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Conforming)
	assert.Equal(t, 1, summary.Failed)

	require.Len(t, results, 2)
	var failed Result
	for _, r := range results {
		if r.Name == "tiny.png" {
			failed = r
		}
	}
	assert.ErrorIs(t, failed.Err, geometry.ErrNoContainedShape)

	after, err := os.ReadFile(tiny)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed images must stay untouched")
}

func TestRunFailsFastOnUndecodableFile(t *testing.T) {
	dir := t.TempDir()
	good := writeTestImage(t, dir, "b.png", 1900, 1080)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("junk"), 0o644))

	n, err := New()
	require.NoError(t, err)
	_, err = n.Run(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.jpg")
	assert.Equal(t, geometry.Shape{Height: 1080, Width: 1900}, imageShape(t, good),
		"nothing may be written when loading fails")
}

func TestRunFailsFastOnNonImageFile(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "a.png", 1920, 1080)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	n, err := New()
	require.NoError(t, err)
	_, err = n.Run(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestRunFailsWhenNoValidShapeExists(t *testing.T) {
	dir := t.TempDir()
	path := writeTestImage(t, dir, "small.png", 12, 7)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	n, err := New()
	require.NoError(t, err)
	_, err = n.Run(context.Background(), dir)

	require.ErrorIs(t, err, geometry.ErrNoValidShapes)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunEmptyDirectory(t *testing.T) {
	n, err := New()
	require.NoError(t, err)

	summary, err := n.Run(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, &Summary{}, summary)
}

func TestRunMissingDirectory(t *testing.T) {
	n, err := New()
	require.NoError(t, err)

	_, err = n.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	a := writeTestImage(t, dir, "a.png", 1900, 1080)
	b := writeTestImage(t, dir, "b.png", 1000, 1000)
	beforeA, err := os.ReadFile(a)
	require.NoError(t, err)
	beforeB, err := os.ReadFile(b)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.DryRun = true
	n, err := NewWithOptions(opts)
	require.NoError(t, err)
	summary, err := n.Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resized)
	assert.Equal(t, 1, summary.Cropped)
	assert.Zero(t, summary.Written)

	afterA, err := os.ReadFile(a)
	require.NoError(t, err)
	afterB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, beforeA, afterA)
	assert.Equal(t, beforeB, afterB)
}

func TestRunWorkersMatchSequential(t *testing.T) {
	build := func(t *testing.T) string {
		dir := t.TempDir()
		writeTestImage(t, dir, "a.png", 1920, 1080)
		writeTestImage(t, dir, "b.png", 1900, 1080)
		writeTestImage(t, dir, "c.png", 1000, 1000)
		writeTestImage(t, dir, "d.png", 800, 600)
		return dir
	}

	sequential := build(t)
	concurrent := build(t)

	opts := DefaultOptions()
	n1, err := NewWithOptions(opts)
	require.NoError(t, err)
	s1, err := n1.Run(context.Background(), sequential)
	require.NoError(t, err)

	opts.Workers = 4
	n4, err := NewWithOptions(opts)
	require.NoError(t, err)
	s4, err := n4.Run(context.Background(), concurrent)
	require.NoError(t, err)

	assert.Equal(t, s1.Conforming, s4.Conforming)
	assert.Equal(t, s1.Resized, s4.Resized)
	assert.Equal(t, s1.Cropped, s4.Cropped)
	assert.Equal(t, s1.Failed, s4.Failed)

	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		assert.Equal(t,
			imageShape(t, filepath.Join(sequential, name)),
			imageShape(t, filepath.Join(concurrent, name)),
			name)
	}
}

func TestRunReportsLoadProgressAndResults(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, "a.png", 1920, 1080)
	writeTestImage(t, dir, "b.png", 1900, 1080)

	var loaded []string
	var results []string
	n, err := New()
	require.NoError(t, err)
	n.OnLoad = func(done, total int, name string) {
		assert.Equal(t, 2, total)
		assert.Equal(t, len(loaded)+1, done)
		loaded = append(loaded, name)
	}
	n.OnResult = func(r Result) { results = append(results, r.Name) }

	_, err = n.Run(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, loaded)
	// A single worker processes files in directory order.
	assert.Equal(t, []string{"a.png", "b.png"}, results)
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, Version, GetVersion())
	assert.NotEmpty(t, GetVersion())
}
