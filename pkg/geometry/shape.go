package geometry

import (
	"fmt"
	"image"
	"math"
)

// Shape is an image size in pixels.
type Shape struct {
	Height int
	Width  int
}

// ShapeOf returns the shape of a decoded image.
func ShapeOf(img image.Image) Shape {
	b := img.Bounds()
	return Shape{Height: b.Dy(), Width: b.Dx()}
}

// Conforms reports whether the shape already matches the ratio under integer
// arithmetic: the width equals the truncated quotient height*W/H. A shape
// one pixel off a true multiple can still conform through the truncation.
func (s Shape) Conforms(r Ratio) bool {
	return s.Width == s.Height*r.W/r.H
}

// WithinMargin reports whether the shape's aspect ratio is within margin of
// the target. The comparison happens in ratio space, so margin is a
// tolerance on width over height values, not on pixels.
func (s Shape) WithinMargin(r Ratio, margin float64) bool {
	return math.Abs(float64(s.Width)/float64(s.Height)-r.Float()) <= margin
}

// Contains reports whether o fits inside s in both dimensions.
func (s Shape) Contains(o Shape) bool {
	return o.Height <= s.Height && o.Width <= s.Width
}

// String returns the "WxH" form.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
