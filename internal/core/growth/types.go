package growth

import (
	"cogentcore.org/core/math32"
)

// Segment is one rendered edge of the tree.
type Segment struct {
	Start, End math32.Vector3
	Hue        float32 // [0, 1)
}

// Length returns the distance between Start and End.
func (s Segment) Length() float32 {
	return s.End.Sub(s.Start).Length()
}

// Direction returns the unit vector pointing from Start to End.
func (s Segment) Direction() math32.Vector3 {
	return s.End.Sub(s.Start).Normal()
}

// Tip is a frontier segment that may still sprout children.
type Tip struct {
	Segment
	Depth int // generation count from the root, starting at 1
}

// IterationStats summarizes a single call to GrowOneIteration, or a freshly
// planted state.
type IterationStats struct {
	Iteration int // 1-based generation number after this call
	Expanded  int // tips that sprouted children
	Dropped   int // tips discarded at max depth
	Added     int // segments appended
	Segments  int // total segments after the call
	Tips      int // tips after the call
	MaxDepth  int // deepest tip depth after the call, 0 when no tips remain
}

// Rand is the random source used when perturbing child branches.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Float32() float32
}
