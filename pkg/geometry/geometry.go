// Package geometry implements the shape arithmetic behind aspect ratio
// normalization: target ratios, pixel shapes, the set of valid shapes a
// ratio generates over a batch of images, and the selection rules that map
// an image onto that set.
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Ratio is a target aspect ratio expressed as a pair of positive integers,
// width first. All ratio arithmetic goes through this type so the direction
// of every division is fixed in one place.
type Ratio struct {
	W int
	H int
}

// ParseRatio parses a ratio from its "W:H" form. "16x9" is accepted as an
// alternative spelling.
func ParseRatio(s string) (Ratio, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "x"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return Ratio{}, fmt.Errorf("invalid ratio %q: expected W:H", s)
	}

	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}

	r := Ratio{W: w, H: h}
	if err := r.Validate(); err != nil {
		return Ratio{}, err
	}
	return r, nil
}

// Validate checks that both components are positive.
func (r Ratio) Validate() error {
	if r.W < 1 || r.H < 1 {
		return fmt.Errorf("invalid ratio %s: both components must be positive", r)
	}
	return nil
}

// Float returns the ratio as a single width over height value.
func (r Ratio) Float() float64 {
	return float64(r.W) / float64(r.H)
}

// Shape returns the k-th multiple of the ratio as a pixel shape.
func (r Ratio) Shape(k int) Shape {
	return Shape{Height: k * r.H, Width: k * r.W}
}

// String returns the "W:H" form.
func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.W, r.H)
}
