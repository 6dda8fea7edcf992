package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/facette/natsort"
)

// outRows implements sort.Interface, ordering .out lines by their sim ID
// column using natural (numeric-aware) comparison so run IDs like
// "run2" sort before "run10".
type outRows [][]string

func (r outRows) Len() int           { return len(r) }
func (r outRows) Swap(i, j int)      { r[i], r[j] = r[j], r[i] }
func (r outRows) Less(i, j int) bool { return natsort.Compare(r[i][0], r[j][0]) }

// AggregateOut reads every path in outPaths (each a sweep leg's .out
// file, one summary row per line), naturally sorts the combined rows by
// sim ID, and writes them as a single CSV to destPath with the given
// header.
func AggregateOut(outPaths []string, destPath string, header []string) error {
	var rows outRows
	for _, path := range outPaths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("report: opening %s: %w", path, err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			fields := strings.Split(line, ",")
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			rows = append(rows, fields)
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return fmt.Errorf("report: reading %s: %w", path, err)
		}
	}

	sort.Sort(rows)

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", destPath, err)
	}
	defer out.Close()
	w := csv.NewWriter(out)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
