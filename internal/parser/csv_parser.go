package parser

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseMeasurementFile reads a B1500A export and returns its labeled data block.
// channels is the number of SMU columns the export was written with.
func ParseMeasurementFile(filepath string, channels int) (*MeasurementTable, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open measurement file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // setup rows vary in width
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}

	table, err := ParseMeasurementRecords(allRows, channels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	slog.Debug("Parsed measurement file",
		slog.String("file", filepath),
		slog.Any("labels", table.Labels),
		slog.Int("rows", table.NumRows))
	return table, nil
}

// ParseMeasurementRecords turns raw export rows into a MeasurementTable.
//
// Column 0 is the Category tag. The first DataName row supplies the channel
// labels (its non-empty cells after the tag). Columns that are empty in every
// DataValue row are dropped and the survivors are renamed positionally.
func ParseMeasurementRecords(records [][]string, channels int) (*MeasurementTable, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	width := channels + 2
	dataWidth := width - 1 // everything after the tag

	// Pass 1: find labels and collect value rows.
	var labels []string
	headerFound := false
	valueRows := make([][]string, 0, len(records))

	for rowIdx, row := range records {
		if len(row) == 0 {
			continue
		}
		category := strings.TrimSpace(row[0])
		if category != TagDataName && category != TagDataValue {
			continue
		}
		if len(row) > width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected at most %d for %d channels",
				ErrColumnCount, rowIdx+1, len(row), width, channels)
		}

		cells := make([]string, dataWidth)
		for i := 1; i < len(row); i++ {
			cells[i-1] = strings.TrimSpace(row[i])
		}

		if category == TagDataName {
			if headerFound {
				continue // only the first one counts
			}
			headerFound = true
			for _, c := range cells {
				if c != "" {
					labels = append(labels, c)
				}
			}
			continue
		}
		valueRows = append(valueRows, cells)
	}

	if !headerFound {
		return nil, ErrMissingHeader
	}
	if len(valueRows) == 0 {
		return nil, fmt.Errorf("%w: no %s rows", ErrMalformedFile, TagDataValue)
	}

	// Pass 2: drop all-empty columns, then rename.
	kept := make([]int, 0, dataWidth)
	for col := 0; col < dataWidth; col++ {
		for _, cells := range valueRows {
			if cells[col] != "" {
				kept = append(kept, col)
				break
			}
		}
	}
	if len(kept) != len(labels) {
		return nil, fmt.Errorf("%w: %d labels for %d populated data columns",
			ErrColumnCount, len(labels), len(kept))
	}

	table := NewMeasurementTable(labels)
	table.NumRows = len(valueRows)
	for i, col := range kept {
		label := labels[i]
		if len(table.columns[label]) > 0 {
			continue // duplicate label, first column wins
		}
		values := make([]string, len(valueRows))
		for r, cells := range valueRows {
			values[r] = cells[col]
		}
		table.columns[label] = values
	}
	return table, nil
}
