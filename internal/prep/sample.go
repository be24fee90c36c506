package prep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// Head returns the first n records ordered by timestamp. Timestamps compare
// as strings, which orders ISO-8601 values correctly.
func Head(records []Record, n int) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// WriteCSV writes records with the canonical header.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"user_id", "timestamp", "group", "landing_page", "converted"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		converted := 0
		if r.Converted {
			converted = 1
		}
		row := []string{r.UserID, r.Timestamp, r.Group, r.LandingPage, strconv.Itoa(converted)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSample writes the first n records by timestamp to path.
func WriteSample(path string, records []Record, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, Head(records, n)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
