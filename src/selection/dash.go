package selection

import "region-clicker/src/region"

// Segment is one visible stroke of a dashed outline.
type Segment struct {
	From region.Point
	To   region.Point
}

// DashSegments splits the outline of r into dash/gap strokes walking
// clockwise from the top-left corner.
func DashSegments(r region.Region, dash, gap int) []Segment {
	if dash <= 0 {
		dash = 1
	}
	if gap < 0 {
		gap = 0
	}
	r = region.Normalize(r)
	corners := []region.Point{
		{X: r.X1, Y: r.Y1},
		{X: r.X2, Y: r.Y1},
		{X: r.X2, Y: r.Y2},
		{X: r.X1, Y: r.Y2},
	}
	var out []Segment
	for i := range corners {
		out = append(out, dashLine(corners[i], corners[(i+1)%len(corners)], dash, gap)...)
	}
	return out
}

// dashLine handles axis-aligned edges only.
func dashLine(a, b region.Point, dash, gap int) []Segment {
	dx := sign(b.X - a.X)
	dy := sign(b.Y - a.Y)
	length := abs(b.X-a.X) + abs(b.Y-a.Y)
	if length == 0 {
		return nil
	}
	var out []Segment
	for pos := 0; pos < length; pos += dash + gap {
		end := pos + dash
		if end > length {
			end = length
		}
		out = append(out, Segment{
			From: region.Point{X: a.X + dx*pos, Y: a.Y + dy*pos},
			To:   region.Point{X: a.X + dx*end, Y: a.Y + dy*end},
		})
	}
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
