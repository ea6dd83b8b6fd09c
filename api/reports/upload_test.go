package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecordsSingleHeader(t *testing.T) {
	rows := [][]string{
		{"Property", "Reservation #", "Reservation name", "Status", "Revenue Total"},
		{"Baines", "WB1001", "Jane Doe", "Confirmed", "120"},
		{"Baines", "WB1002", "Sam Guest", "Provisional", "80"},
	}
	records, err := buildRecords(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "WB1001", records[0]["Reservation #"])
	assert.Equal(t, "120", records[0]["Revenue Total"])
	assert.Equal(t, "Provisional", records[1]["Status"])
}

func TestBuildRecordsSkipsPreambleAndMergesSplitHeader(t *testing.T) {
	// Native export shape: metadata preamble, the fixed-schema header, then
	// a continuation row naming the revenue-line columns (leading cells
	// blank), then data.
	rows := [][]string{
		{"Booking report"},
		{"Generated", "01 Jun 2024"},
		{},
		{"Property", "Reservation #", "Reservation name", "Revenue Total", "", ""},
		{"", "", "", "", "Bar: Gin", "Curio Shop"},
		{"Baines", "WB1001", "Jane Doe", "120", "20", "15"},
	}
	records, err := buildRecords(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "WB1001", records[0]["Reservation #"])
	assert.Equal(t, "20", records[0]["Bar: Gin"])
	assert.Equal(t, "15", records[0]["Curio Shop"])
}

func TestBuildRecordsSkipsBlankRowsAndUnnamedColumns(t *testing.T) {
	rows := [][]string{
		{"Property", "Reservation #", "Unnamed: 2", ""},
		{"Baines", "WB1001", "noise", "noise"},
		{"", "", "", ""},
		{"Baines", "WB1002", "", ""},
	}
	records, err := buildRecords(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotContains(t, records[0], "Unnamed: 2")
	assert.NotContains(t, records[0], "")
}

func TestBuildRecordsNoHeader(t *testing.T) {
	_, err := buildRecords([][]string{{"just", "data"}, {"more", "data"}})
	assert.Error(t, err)
}

func TestBuildRecordsShortDataRows(t *testing.T) {
	rows := [][]string{
		{"Property", "Reservation #", "Revenue Total"},
		{"Baines", "WB1001"},
	}
	records, err := buildRecords(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0]["Revenue Total"])
}

func TestGetFileExt(t *testing.T) {
	assert.Equal(t, ".csv", getFileExt("Booking Report.CSV"))
	assert.Equal(t, ".xlsx", getFileExt("data.xlsx"))
	assert.Equal(t, "", getFileExt("noextension"))
}
