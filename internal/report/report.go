// Package report writes the durable output formats a run or sweep
// produces: the geometry header and position time series (results.dat),
// the cumulative left/right population counts (totals.dat), a periodic
// mass-spread log (.chi) and a one-line sweep summary (.out).
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"dumbbellgas/internal/sim"
)

// ResultsWriter accumulates position snapshots into results.dat's format:
// a line of geometry column names and a line of their values, then one
// time value followed by an
// x row, a y row and a direction row per snapshot.
type ResultsWriter struct {
	w           *bufio.Writer
	c           io.Closer
	wroteHeader bool
}

// NewResultsWriter truncates (or creates) path for a fresh run.
func NewResultsWriter(path string) (*ResultsWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("report: creating %s: %w", path, err)
	}
	return &ResultsWriter{w: bufio.NewWriter(f), c: f}, nil
}

// WriteGeometryHeader writes the results.dat header: a line of column
// names, then a line of the geometry values.
func (r *ResultsWriter) WriteGeometryHeader(numParticles int, circleRadius, circleDistance, bridgeHeight, bridgeLength float64) {
	if r.wroteHeader {
		return
	}
	fmt.Fprintln(r.w, "num_particles\tcircle_radius\tcircle_distance\tbridge_height\tbridge_size")
	fmt.Fprintf(r.w, "%d %g %g %g %g\n", numParticles, circleRadius, circleDistance, bridgeHeight, bridgeLength)
	r.wroteHeader = true
}

// WriteSnapshot appends one interpolated position snapshot. It matches
// sim.SnapshotFunc's signature so it can be passed straight to
// Simulation.Update.
func (r *ResultsWriter) WriteSnapshot(t float64, particles []sim.Particle) {
	fmt.Fprintln(r.w, t)
	for i := range particles {
		if i > 0 {
			r.w.WriteByte(' ')
		}
		fmt.Fprintf(r.w, "%g", particles[i].Pos.X)
	}
	r.w.WriteByte('\n')
	for i := range particles {
		if i > 0 {
			r.w.WriteByte(' ')
		}
		fmt.Fprintf(r.w, "%g", particles[i].Pos.Y)
	}
	r.w.WriteByte('\n')
	for i := range particles {
		if i > 0 {
			r.w.WriteByte(' ')
		}
		fmt.Fprintf(r.w, "%g", particles[i].Dir)
	}
	r.w.WriteByte('\n')
}

// Close flushes and closes the underlying file.
func (r *ResultsWriter) Close() error {
	if err := r.w.Flush(); err != nil {
		return err
	}
	return r.c.Close()
}

// WriteTotals writes totals.dat: three tab-separated rows — measurement
// times, particles-left counts, particles-right counts.
func WriteTotals(path string, s *sim.Simulation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	for _, t := range s.MeasuringTimes {
		fmt.Fprintf(w, "%g\t", t)
	}
	w.WriteByte('\n')
	for _, left := range s.TotalLeft {
		fmt.Fprintf(w, "%d\t", left)
	}
	w.WriteByte('\n')
	for _, left := range s.TotalLeft {
		fmt.Fprintf(w, "%d\t", s.NumParticles-left)
	}
	w.WriteByte('\n')
	return w.Flush()
}

// ChiWriter appends periodic "collisions,time,in_left,|mass_spread|" rows
// to a run's <id>.chi file.
type ChiWriter struct {
	f *os.File
	w *bufio.Writer
}

// OpenChiWriter opens id+".chi" for append, creating it if necessary.
func OpenChiWriter(id string) (*ChiWriter, error) {
	f, err := os.OpenFile(id+".chi", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("report: opening %s.chi: %w", id, err)
	}
	return &ChiWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// WriteRow appends one sample row.
func (c *ChiWriter) WriteRow(numCollisions uint64, t float64, inLeft int, massSpread float64) error {
	_, err := fmt.Fprintf(c.w, "%d,%g,%d,%g\n", numCollisions, t, inLeft, math.Abs(massSpread))
	return err
}

// Close flushes and closes the underlying file.
func (c *ChiWriter) Close() error {
	if err := c.w.Flush(); err != nil {
		return err
	}
	return c.f.Close()
}

// AppendOutSummary appends one "simID,avgChi,current0,current1,current2,current3"
// row to fileID+".out", matching the original batch driver's summary format.
func AppendOutSummary(fileID, simID string, avgChi float64, currents [4]float64) error {
	f, err := os.OpenFile(fileID+".out", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("report: opening %s.out: %w", fileID, err)
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s,%g, %g, %g, %g, %g\n", simID, avgChi, currents[0], currents[1], currents[2], currents[3])
	return err
}
