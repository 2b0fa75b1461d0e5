// Package growth grows a branching structure of 3D line segments one
// generation at a time.
//
// A State starts as a single stem with one tip. Each call to
// GrowOneIteration replaces every tip below the depth cap with ChildCount
// shorter children whose bearings are randomly perturbed from the parent's.
// Segments are append-only; tips are rebuilt from scratch every iteration.
package growth

import (
	"cogentcore.org/core/math32"
	"golang.org/x/exp/rand"
)

// State owns every segment grown so far and the current frontier.
type State struct {
	segments  []Segment
	tips      []Tip
	iteration int
}

// NewState returns an empty state. Call Initialize before growing.
func NewState() *State {
	return &State{}
}

// NewRand returns a seeded PCG source suitable for GrowOneIteration.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(uint64(seed)))
}

// Initialize discards any previous growth and plants a vertical stem of
// initialLength at origin with a single tip at depth 1.
func (s *State) Initialize(origin math32.Vector3, initialLength, initialHue float32) {
	stem := Segment{
		Start: origin,
		End:   origin.Add(math32.Vec3(0, initialLength, 0)),
		Hue:   wrapHue(initialHue),
	}
	s.segments = []Segment{stem}
	s.tips = []Tip{{Segment: stem, Depth: 1}}
	s.iteration = 0
}

// Segments returns every segment in creation order. The slice is shared
// with the state and must not be modified.
func (s *State) Segments() []Segment {
	return s.segments
}

// Tips returns the current frontier. The slice is replaced, never mutated,
// by GrowOneIteration, so holding on to it is safe.
func (s *State) Tips() []Tip {
	return s.tips
}

// Iteration returns the number of GrowOneIteration calls since Initialize.
func (s *State) Iteration() int {
	return s.iteration
}

// DeepestTip returns the largest depth in the frontier, or 0 if it is empty.
func (s *State) DeepestTip() int {
	deepest := 0
	for _, tip := range s.tips {
		deepest = max(deepest, tip.Depth)
	}
	return deepest
}

// Stats summarizes the state as it stands, with nothing expanded, dropped
// or added.
func (s *State) Stats() IterationStats {
	return IterationStats{
		Iteration: s.iteration,
		Segments:  len(s.segments),
		Tips:      len(s.tips),
		MaxDepth:  s.DeepestTip(),
	}
}

// GrowOneIteration expands every tip shallower than cfg.MaxDepth into
// cfg.ChildCount children and replaces the frontier with them. Tips at the
// depth cap are dropped, so repeated calls eventually leave no tips and
// stop adding segments.
func (s *State) GrowOneIteration(cfg Config, rng Rand) IterationStats {
	stats := IterationStats{Iteration: s.iteration + 1}

	next := make([]Tip, 0, len(s.tips)*max(cfg.ChildCount, 0))
	for _, tip := range s.tips {
		if tip.Depth >= cfg.MaxDepth {
			stats.Dropped++
			continue
		}
		stats.Expanded++

		dir := tip.Direction()
		elevation := math32.Asin(math32.Clamp(dir.Y, -1, 1))
		azimuth := math32.Atan2(dir.Z, dir.X)
		length := tip.Length() * cfg.LengthFactor

		for i := 0; i < cfg.ChildCount; i++ {
			az := azimuth + spread(rng, cfg.MaxAngleSpread)
			el := elevation + spread(rng, cfg.MaxAngleSpread)
			child := Segment{
				Start: tip.End,
				End:   tip.End.Add(bearing(el, az).MulScalar(length)),
				Hue:   wrapHue(tip.Hue + cfg.HueStep + rng.Float32()*cfg.HueJitter),
			}
			s.segments = append(s.segments, child)
			next = append(next, Tip{Segment: child, Depth: tip.Depth + 1})
			stats.Added++
		}
	}

	s.tips = next
	s.iteration++

	now := s.Stats()
	stats.Segments, stats.Tips, stats.MaxDepth = now.Segments, now.Tips, now.MaxDepth
	return stats
}

// ShouldContinueGrowing reports whether another iteration is due: the
// structure must still fit inside cfg.MaxRadius and have tips left.
// Whichever bound trips first stops growth.
func ShouldContinueGrowing(s *State, boundingRadius float32, cfg Config) bool {
	return boundingRadius < cfg.MaxRadius && len(s.tips) > 0
}

// spread draws a uniform offset in [-width/2, width/2).
func spread(rng Rand, width float32) float32 {
	return (rng.Float32() - 0.5) * width
}

// bearing converts elevation/azimuth angles to a unit direction with y up.
func bearing(elevation, azimuth float32) math32.Vector3 {
	sinEl, cosEl := math32.Sincos(elevation)
	sinAz, cosAz := math32.Sincos(azimuth)
	return math32.Vec3(cosEl*cosAz, sinEl, cosEl*sinAz)
}

// wrapHue folds h into [0, 1).
func wrapHue(h float32) float32 {
	h = math32.Mod(h, 1)
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}
