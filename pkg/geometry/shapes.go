package geometry

import "errors"

var (
	// ErrNoValidShapes means no multiple of the ratio fits the batch, so
	// there is nothing to normalize against.
	ErrNoValidShapes = errors.New("no valid shape can be derived from the images")
	// ErrNoContainedShape means even the smallest valid shape exceeds the
	// image, so a crop cannot produce a valid result.
	ErrNoContainedShape = errors.New("no valid shape is contained in the image")
)

// ValidShapes enumerates every multiple of the ratio up to the largest
// multiplier any of the given shapes reaches in either dimension. The
// result is ordered by multiplier and therefore strictly increasing in both
// dimensions. An empty result means none of the images spans even one ratio
// unit.
func ValidShapes(shapes []Shape, r Ratio) []Shape {
	maxK := 0
	for _, s := range shapes {
		if k := s.Width / r.W; k > maxK {
			maxK = k
		}
		if k := s.Height / r.H; k > maxK {
			maxK = k
		}
	}
	if maxK < 1 {
		return nil
	}

	valid := make([]Shape, 0, maxK)
	for k := 1; k <= maxK; k++ {
		valid = append(valid, r.Shape(k))
	}
	return valid
}

// NearestShape returns the member of valid closest to s by squared
// Euclidean distance over (height, width). Ties go to the smaller shape.
// valid must not be empty.
func NearestShape(s Shape, valid []Shape) Shape {
	best := valid[0]
	bestDist := distance(s, best)
	for _, v := range valid[1:] {
		if d := distance(s, v); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

// LargestContained returns the largest member of valid that fits inside s
// in both dimensions. Because valid is increasing, the scan stops at the
// first member exceeding s. ErrNoContainedShape is returned when even the
// smallest member exceeds the image.
func LargestContained(s Shape, valid []Shape) (Shape, error) {
	if len(valid) == 0 {
		return Shape{}, ErrNoContainedShape
	}
	for i, v := range valid {
		if !s.Contains(v) {
			if i == 0 {
				return Shape{}, ErrNoContainedShape
			}
			return valid[i-1], nil
		}
	}
	return valid[len(valid)-1], nil
}

func distance(a, b Shape) int {
	dh := a.Height - b.Height
	dw := a.Width - b.Width
	return dh*dh + dw*dw
}
