package parser

import (
	"errors"
	"fmt"
)

// DefaultChannels is the number of source/measurement units on a stock B1500A.
const DefaultChannels = 3

// Row tags found in the Category column of an export.
const (
	TagDataName  = "DataName"
	TagDataValue = "DataValue"
)

var (
	// ErrMalformedFile is the root of every layout failure.
	ErrMalformedFile = errors.New("malformed measurement file")
	// ErrMissingHeader means no DataName row was found.
	ErrMissingHeader = fmt.Errorf("%w: no %s row", ErrMalformedFile, TagDataName)
	// ErrMissingColumn means a requested channel label is absent.
	ErrMissingColumn = fmt.Errorf("%w: missing column", ErrMalformedFile)
	// ErrColumnCount means a tagged row or the label set does not fit the configured channel count.
	ErrColumnCount = fmt.Errorf("%w: column count mismatch", ErrMalformedFile)
)

// MeasurementTable is the labeled DataValue block of one export.
// Cells are kept as trimmed text; numeric conversion belongs to the caller.
type MeasurementTable struct {
	Labels  []string // channel labels in column order
	NumRows int
	columns map[string][]string
}

// NewMeasurementTable builds an empty table for the given labels.
func NewMeasurementTable(labels []string) *MeasurementTable {
	t := &MeasurementTable{
		Labels:  make([]string, 0, len(labels)),
		columns: make(map[string][]string, len(labels)),
	}
	for _, l := range labels {
		if _, dup := t.columns[l]; dup {
			continue
		}
		t.Labels = append(t.Labels, l)
		t.columns[l] = make([]string, 0)
	}
	return t
}

// Column returns the cells of the named channel.
func (t *MeasurementTable) Column(name string) ([]string, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrMissingColumn, name, t.Labels)
	}
	return col, nil
}

// HasColumn reports whether the named channel exists.
func (t *MeasurementTable) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// FileMetadata is what can be recovered from an export's file name.
// A nil field means the name did not match at that position.
type FileMetadata struct {
	TestName   *string
	DeviceName *string
	RunNumber  *string
	Date       *string
	Time       *string
}

// Label is the legend text for a sweep: "Device-Run", or "" if either is unknown.
func (m FileMetadata) Label() string {
	if m.DeviceName == nil || m.RunNumber == nil {
		return ""
	}
	return *m.DeviceName + "-" + *m.RunNumber
}

// Value dereferences an optional metadata field, returning "" for nil.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}
