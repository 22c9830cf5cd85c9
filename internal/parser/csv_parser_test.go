package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ivExport = `SetupTitle,I/V Sweep
PrimitiveTest,I/V Sweep
TestParameter,Channel.Unit,SMU1:HR,SMU2:HR,SMU3:HR
TestParameter,Channel.IName,IS,ID,IG
AnalysisSetup,Analysis.Setup.Vector.Graph.Name,DrainI,,
DataName, DrainV, DrainI, GateV,
DataValue, 0, 0, 1,
DataValue, 1, 2, 1,
DataValue, 2, 4, 1,
DataValue, 3, 6, 1,
`

func writeExport(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseMeasurementFile(t *testing.T) {
	path := writeExport(t, "IV Sweep [00_01(1) ; 12_4_2022 8_45_32 AM].csv", ivExport)

	table, err := ParseMeasurementFile(path, DefaultChannels)
	require.NoError(t, err)

	assert.Equal(t, []string{"DrainV", "DrainI", "GateV"}, table.Labels)
	assert.Equal(t, 4, table.NumRows)

	v, err := table.Column("DrainV")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3"}, v)

	i, err := table.Column("DrainI")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "2", "4", "6"}, i)

	assert.True(t, table.HasColumn("GateV"))
	assert.False(t, table.HasColumn("SourceI"))
}

func TestParseMeasurementFileMissing(t *testing.T) {
	_, err := ParseMeasurementFile(filepath.Join(t.TempDir(), "nope.csv"), DefaultChannels)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedFile)
}

func TestParseMeasurementRecords(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		channels int
		wantErr  error
		labels   []string
	}{
		{
			name:     "no DataName row",
			body:     "SetupTitle,I/V Sweep\nDataValue,0,0,1,\nDataValue,1,2,1,\n",
			channels: 3,
			wantErr:  ErrMissingHeader,
		},
		{
			name:     "header but no values",
			body:     "DataName,DrainV,DrainI,,\n",
			channels: 3,
			wantErr:  ErrMalformedFile,
		},
		{
			name:     "value row wider than channel count",
			body:     "DataName,DrainV,DrainI,,\nDataValue,0,0,1,2,3,4\n",
			channels: 3,
			wantErr:  ErrColumnCount,
		},
		{
			name:     "label count differs from populated columns",
			body:     "DataName,DrainV,DrainI,,\nDataValue,0,0,1,\n",
			channels: 3,
			wantErr:  ErrColumnCount,
		},
		{
			name:     "only first DataName row is used",
			body:     "DataName,DrainV,DrainI,,\nDataName,A,B,C,D\nDataValue,0,1,,\n",
			channels: 3,
			labels:   []string{"DrainV", "DrainI"},
		},
		{
			name:     "all-empty column dropped and labels shift",
			body:     "DataName,GateV,,DrainI,\nDataValue,0,,1,\nDataValue,1,,2,\n",
			channels: 3,
			labels:   []string{"GateV", "DrainI"},
		},
		{
			name:     "setup rows may be wider than data rows",
			body:     "TestParameter,a,b,c,d,e,f,g\nDataName,V,I\nDataValue,1,2\n",
			channels: 1,
			labels:   []string{"V", "I"},
		},
		{
			name:     "five channels",
			body:     "DataName,V1,I1,V2,I2,V3,I3\nDataValue,1,2,3,4,5,6\n",
			channels: 5,
			labels:   []string{"V1", "I1", "V2", "I2", "V3", "I3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := splitRecords(tt.body)
			table, err := ParseMeasurementRecords(records, tt.channels)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.labels, table.Labels)
		})
	}
}

func TestParseMeasurementRecordsShiftedColumns(t *testing.T) {
	records := splitRecords("DataName,GateV,,DrainI,\nDataValue,0,,1,\nDataValue,1,,2,\n")
	table, err := ParseMeasurementRecords(records, 3)
	require.NoError(t, err)

	i, err := table.Column("DrainI")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, i)

	_, err = table.Column("SourceI")
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestParseMeasurementRecordsInvalidChannels(t *testing.T) {
	_, err := ParseMeasurementRecords(splitRecords("DataName,V,I\n"), 0)
	assert.Error(t, err)
}

func splitRecords(body string) [][]string {
	var out [][]string
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		out = append(out, strings.Split(line, ","))
	}
	return out
}
