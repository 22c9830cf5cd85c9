package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata(t *testing.T) {
	md := ExtractMetadata("Gate Sweep Ext [00_02(1) ; 12_4_2022 8_45_32 AM]")

	require.NotNil(t, md.TestName)
	require.NotNil(t, md.DeviceName)
	require.NotNil(t, md.RunNumber)
	require.NotNil(t, md.Date)
	require.NotNil(t, md.Time)

	assert.Equal(t, "Gate Sweep Ext", *md.TestName)
	assert.Equal(t, "00_02", *md.DeviceName)
	assert.Equal(t, "1", *md.RunNumber)
	assert.Equal(t, "12_4_2022", *md.Date)
	assert.Equal(t, "8_45_32 AM", *md.Time)
	assert.Equal(t, "00_02-1", md.Label())
}

func TestExtractMetadataWithExtension(t *testing.T) {
	md := ExtractMetadata("IV Sweep [A7(12) ; 1_30_2023 10_05_09 PM].csv")

	assert.Equal(t, "IV Sweep", Value(md.TestName))
	assert.Equal(t, "A7", Value(md.DeviceName))
	assert.Equal(t, "12", Value(md.RunNumber))
	assert.Equal(t, "1_30_2023", Value(md.Date))
	assert.Equal(t, "10_05_09 PM", Value(md.Time))
}

func TestExtractMetadataNonConforming(t *testing.T) {
	for _, name := range []string{
		"measurement.csv",
		"",
		"IV 00_02(1) ; 12_4_2022 8_45_32 AM.csv",
	} {
		md := ExtractMetadata(name)
		assert.Nil(t, md.TestName, name)
		assert.Nil(t, md.DeviceName, name)
		assert.Nil(t, md.RunNumber, name)
		assert.Nil(t, md.Date, name)
		assert.Nil(t, md.Time, name)
		assert.Equal(t, "", md.Label())
	}
}

func TestExtractMetadataPartial(t *testing.T) {
	// no run number and no time, the rest still comes through
	md := ExtractMetadata("Gate Sweep [dev(x) ; 12_4_2022 later]")

	assert.Equal(t, "Gate Sweep", Value(md.TestName))
	assert.Equal(t, "dev", Value(md.DeviceName))
	assert.Nil(t, md.RunNumber)
	assert.Equal(t, "12_4_2022", Value(md.Date))
	assert.Nil(t, md.Time)
	assert.Equal(t, "", md.Label())
}

func TestListMeasurementFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	files, err := ListMeasurementFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.csv")}, files)

	_, err = ListMeasurementFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
