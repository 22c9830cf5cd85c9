package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/user/b1500a_analyzer_go/internal/analysis"
)

// SummaryFileName is the name of the per-batch metric table.
const SummaryFileName = "stats.csv"

// CSVWriter writes output tables into one folder.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a writer rooted at dir. The folder is created on first write.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Dir is the output folder.
func (w *CSVWriter) Dir() string {
	return w.dir
}

// WriteCSV writes headers and records to name inside the output folder and
// returns the full path.
func (w *CSVWriter) WriteCSV(name string, headers []string, records [][]string) (string, error) {
	fullPath := filepath.Join(w.dir, name)

	slog.Info("Writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return "", fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return fullPath, nil
}

// WriteSweep writes the sweep's per-file table under its original file name.
func (w *CSVWriter) WriteSweep(m *analysis.SweepModel) (string, error) {
	header, rows := m.Serialize()
	return w.WriteCSV(m.FileName, header, rows)
}

// WriteSummary writes stats.csv.
func (w *CSVWriter) WriteSummary(table analysis.SummaryTable) (string, error) {
	records := table.Records()
	return w.WriteCSV(SummaryFileName, records[0], records[1:])
}
