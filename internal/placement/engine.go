package placement

import "math"

// Strategy selects the candidate-generation scheme used by Compute.
type Strategy string

const (
	StrategySpiral    Strategy = "spiral"
	StrategyProximity Strategy = "proximity"
	StrategyGrid      Strategy = "grid"
)

const (
	defaultGridSize = 30.0
	defaultGutter   = 60.0

	// Golden angle keeps spiral candidates from lining up radially.
	goldenAngle = 137.5 * math.Pi / 180

	maxSpiralCandidates = 100
	maxGridRows         = 64
)

// Options carries per-call placement input.
type Options struct {
	// Size of the element being placed. Non-positive dimensions clamp to
	// one grid cell.
	Size Size
	// Target anchors the proximity strategy. Nil means the canvas center.
	Target *Point
}

// Engine computes collision-free positions. The zero-configured engine
// from NewEngine(0, 0) uses the stock grid and gutter.
type Engine struct {
	gridSize float64
	gutter   float64
}

func NewEngine(gridSize, gutter float64) *Engine {
	if gridSize <= 0 {
		gridSize = defaultGridSize
	}
	if gutter <= 0 {
		gutter = defaultGutter
	}
	return &Engine{gridSize: gridSize, gutter: gutter}
}

// GridSize returns the snap grid in canvas units.
func (e *Engine) GridSize() float64 { return e.gridSize }

// Compute returns a position for a new element of opts.Size that does not
// overlap any rect in existing and lies inside bounds. It is total: when
// the bounded search finds no fully valid position it falls back to a
// deterministic spot beside the most recently placed element. existing is
// never mutated.
func (e *Engine) Compute(strategy Strategy, bounds Rect, existing []Rect, opts Options) Point {
	size := e.clampSize(opts.Size)
	switch strategy {
	case StrategyProximity:
		return e.proximity(bounds, existing, size, opts.Target)
	case StrategyGrid:
		return e.grid(bounds, existing, size)
	default:
		return e.spiral(bounds, existing, size)
	}
}

// spiral walks an outward golden-angle spiral from the canvas center.
func (e *Engine) spiral(bounds Rect, existing []Rect, size Size) Point {
	center := SnapPoint(Center(bounds), e.gridSize)
	if len(existing) == 0 {
		return center
	}

	step := e.gridSize * 2
	for k := 1; k <= maxSpiralCandidates; k++ {
		angle := goldenAngle * float64(k)
		radius := step * math.Sqrt(float64(k))
		p := SnapPoint(Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}, e.gridSize)
		if e.accepts(bounds, existing, p, size) {
			return p
		}
	}
	return e.besideLast(bounds, existing, size)
}

// proximity samples concentric rings around target, one grid step wider per
// ring, and falls back to spiral when every ring inside the canvas extent
// is exhausted.
func (e *Engine) proximity(bounds Rect, existing []Rect, size Size, target *Point) Point {
	anchor := Center(bounds)
	if target != nil {
		anchor = *target
	}

	start := SnapPoint(anchor, e.gridSize)
	if e.accepts(bounds, existing, start, size) {
		return start
	}

	maxExtent := math.Max(bounds.W, bounds.H)
	for radius := e.gridSize; radius <= maxExtent; radius += e.gridSize {
		// More samples on wider rings keeps angular spacing near one cell.
		samples := int(2 * math.Pi * radius / e.gridSize)
		if samples < 8 {
			samples = 8
		}
		for i := 0; i < samples; i++ {
			angle := 2 * math.Pi * float64(i) / float64(samples)
			p := SnapPoint(Point{
				X: anchor.X + radius*math.Cos(angle),
				Y: anchor.Y + radius*math.Sin(angle),
			}, e.gridSize)
			if e.accepts(bounds, existing, p, size) {
				return p
			}
		}
	}
	return e.spiral(bounds, existing, size)
}

// grid walks row-major cells sized by the element plus gutter.
func (e *Engine) grid(bounds Rect, existing []Rect, size Size) Point {
	cellW := size.W + e.gutter
	cellH := size.H + e.gutter
	cols := int((bounds.W - e.gutter) / cellW)
	if cols < 1 {
		cols = 1
	}

	for row := 0; row < maxGridRows; row++ {
		for col := 0; col < cols; col++ {
			p := SnapPoint(Point{
				X: bounds.X + e.gutter + float64(col)*cellW,
				Y: bounds.Y + e.gutter + float64(row)*cellH,
			}, e.gridSize)
			if e.accepts(bounds, existing, p, size) {
				return p
			}
		}
	}
	// Append a fresh row past the last attempted one.
	return SnapPoint(Point{
		X: bounds.X + e.gutter,
		Y: bounds.Y + e.gutter + float64(maxGridRows)*cellH,
	}, e.gridSize)
}

// besideLast is the shared exhaustion fallback: immediately to the right of
// the most recently placed element, pulled back inside bounds whenever the
// element fits there at all. The result may overlap, never leave the canvas.
func (e *Engine) besideLast(bounds Rect, existing []Rect, size Size) Point {
	if len(existing) == 0 {
		return SnapPoint(Center(bounds), e.gridSize)
	}
	last := existing[len(existing)-1]
	p := SnapPoint(Point{X: last.X + last.W + e.gutter, Y: last.Y}, e.gridSize)
	return Point{
		X: clampAxis(p.X, bounds.X, bounds.X+bounds.W-size.W, e.gridSize),
		Y: clampAxis(p.Y, bounds.Y, bounds.Y+bounds.H-size.H, e.gridSize),
	}
}

// clampAxis pulls v into [lo, hi], preferring a grid-aligned coordinate and
// falling back to the raw limit when no grid line lies inside the range.
// hi < lo means the box is larger than the canvas; pin to the origin.
func clampAxis(v, lo, hi, grid float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		if snapped := math.Ceil(lo/grid) * grid; snapped <= hi {
			return snapped
		}
		return lo
	}
	if v > hi {
		if snapped := math.Floor(hi/grid) * grid; snapped >= lo {
			return snapped
		}
		return hi
	}
	return v
}

func (e *Engine) accepts(bounds Rect, existing []Rect, p Point, size Size) bool {
	candidate := Rect{X: p.X, Y: p.Y, W: size.W, H: size.H}
	if !Contains(bounds, candidate) {
		return false
	}
	for _, occ := range existing {
		if Overlaps(candidate, occ) {
			return false
		}
	}
	return true
}

func (e *Engine) clampSize(s Size) Size {
	if s.W <= 0 {
		s.W = e.gridSize
	}
	if s.H <= 0 {
		s.H = e.gridSize
	}
	return s
}

// Arrange lays out a batch of element sizes row-major from start, wrapping
// when a row would exceed maxWidth. Returned positions are index-aligned
// with sizes.
func (e *Engine) Arrange(sizes []Size, start Point, maxWidth float64) []Point {
	if maxWidth <= 0 {
		maxWidth = 1800
	}
	x := Snap(start.X, e.gridSize)
	y := Snap(start.Y, e.gridSize)
	rowHeight := 0.0

	points := make([]Point, len(sizes))
	for i, s := range sizes {
		s = e.clampSize(s)
		points[i] = Point{X: x, Y: y}

		if s.H > rowHeight {
			rowHeight = s.H
		}
		x += Snap(s.W+e.gutter, e.gridSize)
		if x+s.W > maxWidth {
			x = Snap(start.X, e.gridSize)
			y += Snap(rowHeight+e.gutter, e.gridSize)
			rowHeight = 0
		}
	}
	return points
}
