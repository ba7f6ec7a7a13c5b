package region

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// DefaultMinSpan is the smallest width/height accepted for a click region.
const DefaultMinSpan = 5

// DefaultRandomModeSpan is the span above which the panel reports
// random-in-region clicking instead of fixed-point clicking.
const DefaultRandomModeSpan = 10

var ErrInvalid = errors.New("invalid region")

// Region is an axis-aligned rectangle in screen pixel coordinates.
// A normalized region satisfies X1 <= X2 and Y1 <= Y2.
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

type Point struct {
	X int
	Y int
}

// FromPoints returns the normalized rectangle spanned by two corners.
func FromPoints(a, b Point) Region {
	return Normalize(Region{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y})
}

func Normalize(r Region) Region {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

func (r Region) Width() int  { return r.X2 - r.X1 }
func (r Region) Height() int { return r.Y2 - r.Y1 }

// IsZero reports whether the region was never set.
func (r Region) IsZero() bool { return r == Region{} }

// Valid reports whether both spans are at least minSpan.
func (r Region) Valid(minSpan int) bool {
	n := Normalize(r)
	return n.Width() >= minSpan && n.Height() >= minSpan
}

// Randomizable reports whether both spans strictly exceed span.
func (r Region) Randomizable(span int) bool {
	n := Normalize(r)
	return n.Width() > span && n.Height() > span
}

func (r Region) Contains(p Point) bool {
	n := Normalize(r)
	return p.X >= n.X1 && p.X <= n.X2 && p.Y >= n.Y1 && p.Y <= n.Y2
}

func (r Region) Center() Point {
	n := Normalize(r)
	return Point{X: n.X1 + n.Width()/2, Y: n.Y1 + n.Height()/2}
}

// RandomPoint returns a uniformly distributed integer point inside the
// closed rectangle [X1,X2] x [Y1,Y2].
func (r Region) RandomPoint(rng *rand.Rand) Point {
	n := Normalize(r)
	return Point{
		X: n.X1 + rng.Intn(n.Width()+1),
		Y: n.Y1 + rng.Intn(n.Height()+1),
	}
}

// String formats the region as "x1,y1,x2,y2", the same form Parse accepts.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X1, r.Y1, r.X2, r.Y2)
}

// Describe is the human readable form shown in the control panel.
func (r Region) Describe() string {
	return fmt.Sprintf("(%d, %d) → (%d, %d)\nSize: %d×%d px", r.X1, r.Y1, r.X2, r.Y2, r.Width(), r.Height())
}

// Parse reads "x1,y1,x2,y2" and returns the normalized region.
func Parse(s string) (Region, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("%w: expected x1,y1,x2,y2, got %q", ErrInvalid, s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("%w: %q is not an integer", ErrInvalid, p)
		}
		v[i] = n
	}
	return Normalize(Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}), nil
}
