package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEntries = []domain.PlaylistEntry{
	{IntervalNumber: 1, Title: "Run, Boy, Run", Artist: "Woodkid", BPM: 122.5, Energy: 0.81, DurationSec: 215, BPMDiff: 2.5},
	{IntervalNumber: 3, Title: "A Very Long Title That Keeps Going On", Artist: "Somebody", BPM: 100, Energy: 0.3, DurationSec: 190, BPMDiff: 0},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEntries))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Interval", "Title", "Artist", "BPM", "Energy", "Duration (sec)", "BPM Diff"}, rows[0])
	assert.Equal(t, []string{"1", "Run, Boy, Run", "Woodkid", "122.5", "0.81", "215", "2.5"}, rows[1])
	assert.Equal(t, "3", rows[2][0])
	assert.Equal(t, "100", rows[2][3])
}

func TestWriteCSV_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Interval,Title,Artist,BPM,Energy,Duration (sec),BPM Diff\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleEntries))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "Interval"))
	assert.Contains(t, lines[3], "122.5")
	assert.Contains(t, lines[4], "A Very Long Title That Keep ")
	assert.NotContains(t, lines[4], "Going")
}
