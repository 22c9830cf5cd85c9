package report

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/user/b1500a_analyzer_go/internal/analysis"
)

const (
	summarySheet      = "stats"
	maxSheetNameRunes = 31
)

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

// WriteWorkbook saves the summary and every sweep's table to one .xlsx file.
// The summary goes on the "stats" sheet, each sweep on its own sheet.
func WriteWorkbook(path string, summary analysis.SummaryTable, models []*analysis.SweepModel) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for r, record := range summary.Records() {
		row := make([]interface{}, len(record))
		for i, cell := range record {
			row[i] = cell
		}
		if r > 0 {
			// numeric cells stay numeric in the sheet
			row[1] = summary.Rows[r-1].Value
		}
		if err := setRow(f, summarySheet, r+1, row); err != nil {
			return err
		}
	}

	used := map[string]bool{summarySheet: true}
	for _, m := range models {
		name := uniqueSheetName(m.FileName, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
		header := m.Header()
		if err := setRow(f, name, 1, []interface{}{header[0], header[1]}); err != nil {
			return err
		}
		for i := range m.Volts {
			if err := setRow(f, name, i+2, []interface{}{m.Volts[i], m.Current[i]}); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	slog.Info("Wrote workbook", slog.String("path", path), slog.Int("sheets", len(used)))
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// uniqueSheetName turns a file name into a legal sheet name not yet in used.
// Sheet names compare case-insensitively, so used holds lower-cased names.
func uniqueSheetName(fileName string, used map[string]bool) string {
	base := fileName
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".csv") {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSpace(sheetNameReplacer.Replace(base))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "sweep"
	}
	base = truncateRunes(base, maxSheetNameRunes)

	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, maxSheetNameRunes-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
