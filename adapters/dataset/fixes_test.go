package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circadia/domain/core"
)

const sampleFixCSV = `completion_time,latitude,longitude
2021-01-01 09:00:00,42.4440,-76.5019
2021-01-01 10:00:00,42.4534,-76.4735
`

// TestReadFixes verifies GPS fix parsing.
func TestReadFixes(t *testing.T) {
	path := writeTempCSV(t, sampleFixCSV)

	fixes, err := NewReader(DefaultConfig(path)).ReadFixes()
	require.NoError(t, err)
	require.Len(t, fixes, 2)

	assert.Equal(t, 42.4440, fixes[0].Lat)
	assert.Equal(t, -76.5019, fixes[0].Lon)
	assert.Equal(t, 9, fixes[0].Timestamp.Hour())
}

// TestReadFixesMissingCoordinates verifies the schema error.
func TestReadFixesMissingCoordinates(t *testing.T) {
	path := writeTempCSV(t, "completion_time,latitude\n2021-01-01 09:00:00,42.0\n")

	_, err := NewReader(DefaultConfig(path)).ReadFixes()
	assert.True(t, core.IsSchemaError(err), "expected schema error, got %v", err)
	assert.Contains(t, err.Error(), "longitude")
}

// TestReadFixesBadCoordinate verifies untypeable coordinates error
// with row context.
func TestReadFixesBadCoordinate(t *testing.T) {
	path := writeTempCSV(t, "completion_time,latitude,longitude\n2021-01-01 09:00:00,north,-76.5\n")

	_, err := NewReader(DefaultConfig(path)).ReadFixes()
	assert.True(t, core.IsSchemaError(err), "expected schema error, got %v", err)
	assert.Contains(t, err.Error(), "row 2")
}
