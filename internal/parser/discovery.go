package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ListMeasurementFiles returns the .csv files directly inside dir, sorted by name.
func ListMeasurementFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
