package geometry

// Outcome is the classification of an image shape against a target ratio.
type Outcome int

const (
	// Conforming shapes already match the ratio and are left untouched.
	Conforming Outcome = iota
	// Resizable shapes are close enough to the ratio to be resized to a
	// valid shape without visible distortion.
	Resizable
	// CropRequired shapes are too far from the ratio and lose pixels
	// instead of being stretched.
	CropRequired
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Conforming:
		return "conforming"
	case Resizable:
		return "resizable"
	case CropRequired:
		return "crop required"
	}
	return "unknown"
}

// Classify places a shape into one of the three outcomes. Conformance wins
// over the margin test, so an exact match never degrades to a resize even
// with a large margin.
func Classify(s Shape, r Ratio, margin float64) Outcome {
	switch {
	case s.Conforms(r):
		return Conforming
	case s.WithinMargin(r, margin):
		return Resizable
	default:
		return CropRequired
	}
}
