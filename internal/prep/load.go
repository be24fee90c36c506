package prep

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Load reads experiment records from a .csv or .xlsx file.
func Load(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV parses records from CSV with a header row.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return parseRows(rows)
}

func readXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return parseRows(rows)
}

type columns struct {
	user, ts, group, page, converted int
}

func locateColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	lookup := func(names ...string) int {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		user:      lookup("user_id"),
		ts:        lookup("timestamp", "ts"),
		group:     lookup("group", "ab"),
		page:      lookup("landing_page"),
		converted: lookup("converted"),
	}

	var missing []string
	if cols.user < 0 {
		missing = append(missing, "user_id")
	}
	if cols.group < 0 {
		missing = append(missing, "group")
	}
	if cols.page < 0 {
		missing = append(missing, "landing_page")
	}
	if cols.converted < 0 {
		missing = append(missing, "converted")
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("input has no header row")
	}

	cols, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		converted, err := strconv.ParseBool(cell(row, cols.converted))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid converted value %q", n+2, cell(row, cols.converted))
		}

		records = append(records, Record{
			UserID:      cell(row, cols.user),
			Timestamp:   cell(row, cols.ts),
			Group:       cell(row, cols.group),
			LandingPage: cell(row, cols.page),
			Converted:   converted,
		})
	}

	return records, nil
}
