package bench

import (
	"fmt"
	"io"
	"time"
)

// Reporter writes report lines to w. Write errors are ignored: the report
// is informational and stdout failures must not abort a run.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter { return &Reporter{w: w} }

// Printf writes a formatted line.
func (r *Reporter) Printf(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Phase prints "Time to <what>: N.NN seconds".
func (r *Reporter) Phase(what string, d time.Duration) {
	r.Printf("Time to %s: %s seconds", what, Seconds(d))
}

// Total prints "Total time with <engine>: N.NN seconds" and a blank line.
func (r *Reporter) Total(engine string, d time.Duration) {
	r.Printf("Total time with %s: %s seconds\n", engine, Seconds(d))
}

// Titles prints the ranking header followed by one title per line.
func (r *Reporter) Titles(titles []string) {
	r.Printf("The Top %d by Rating are :\n", len(titles))
	for _, t := range titles {
		r.Printf("%s", t)
	}
}

// Seconds formats d as seconds with two decimals.
func Seconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
