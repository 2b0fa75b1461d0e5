// Package report prints a per-generation summary of a headless growth run.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"cogentcore.org/core/math32"
	"github.com/muesli/termenv"

	"chosenoffset.com/glowtree/internal/core/geometry"
	"chosenoffset.com/glowtree/internal/core/growth"
	"chosenoffset.com/glowtree/internal/simulation"
)

// Row is one recorded generation.
type Row struct {
	Stats   growth.IterationStats
	Radius  float32
	Elapsed time.Duration
}

// Recorder collects iteration stats. It satisfies simulation.Observer.
type Recorder struct {
	profile termenv.Profile
	seed    int64
	rows    []Row
}

// NewRecorder returns a recorder that colours output for profile.
func NewRecorder(profile termenv.Profile) *Recorder {
	return &Recorder{profile: profile}
}

// ObserveIteration appends a row.
func (r *Recorder) ObserveIteration(stats growth.IterationStats, radius float32, elapsed time.Duration) {
	r.rows = append(r.rows, Row{Stats: stats, Radius: radius, Elapsed: elapsed})
}

// ObserveReset discards rows from the previous tree.
func (r *Recorder) ObserveReset(seed int64, _ growth.IterationStats, _ float32) {
	r.seed = seed
	r.rows = r.rows[:0]
}

// Rows returns the recorded generations in order.
func (r *Recorder) Rows() []Row {
	return r.rows
}

// Write prints the table followed by a one-line outcome. segments must be
// the grown tree so each generation's colour can be shown.
func (r *Recorder) Write(w io.Writer, segments []growth.Segment, stop simulation.StopReason) error {
	p := r.profile
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	header := "gen\tsegments\ttips\tadded\tdropped\tdepth\tradius\tstep\thue\t"
	if _, err := fmt.Fprintln(tw, p.String(header).Bold()); err != nil {
		return err
	}

	first := 1 // Segments of generation i start after the stem and earlier generations
	for _, row := range r.rows {
		s := row.Stats
		end := min(first+s.Added, len(segments))
		hue := meanHue(segments[min(first, end):end])
		first = end

		_, err := fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%s\t%s\t\n",
			s.Iteration, s.Segments, s.Tips, s.Added, s.Dropped, s.MaxDepth,
			row.Radius, row.Elapsed.Round(time.Microsecond), r.swatch(hue))
		if err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	outcome := "still growing"
	switch stop {
	case simulation.StopRadius:
		outcome = "reached the radius limit"
	case simulation.StopExhausted:
		outcome = "ran out of tips"
	}
	summary := fmt.Sprintf("seed %d: %d segments after %d generations, %s", r.seed, len(segments), len(r.rows), outcome)
	_, err := fmt.Fprintln(w, p.String(summary).Bold())
	return err
}

// swatch renders a small block in the generation's start colour.
func (r *Recorder) swatch(hue float32) string {
	c := geometry.HueColor(hue, 0.5)
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	return r.profile.String(fmt.Sprintf("%.3f", hue)).Foreground(r.profile.Color(hex)).String()
}

// meanHue averages hues on the colour circle so 0.95 and 0.05 meet at 0.
func meanHue(segments []growth.Segment) float32 {
	if len(segments) == 0 {
		return 0
	}
	var sx, sy float32
	for _, s := range segments {
		sin, cos := math32.Sincos(2 * math32.Pi * s.Hue)
		sx += cos
		sy += sin
	}
	h := math32.Atan2(sy, sx) / (2 * math32.Pi)
	if h < 0 {
		h++
	}
	if h >= 1 {
		h = 0
	}
	return h
}
