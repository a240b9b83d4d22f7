package fs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPointsWithHeader(t *testing.T) {
	input := "age,income,height\n1,50000,180\n2,60000,170\n"

	rows, names, err := ReadPoints(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "income", "height"}, names)
	require.Len(t, rows, 2)
	assert.Equal(t, []float32{1, 50000, 180}, rows[0])
	assert.Equal(t, []float32{2, 60000, 170}, rows[1])
}

func TestReadPointsWithoutHeader(t *testing.T) {
	input := "1,2\n3,4\n"

	rows, names, err := ReadPoints(strings.NewReader(input))
	require.NoError(t, err)

	assert.Empty(t, names)
	require.Len(t, rows, 2)
	assert.Equal(t, []float32{1, 2}, rows[0])
}

func TestReadPointsEmpty(t *testing.T) {
	_, _, err := ReadPoints(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	// A header with no data rows is empty too.
	_, _, err = ReadPoints(strings.NewReader("a,b\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadPointsMalformedNumber(t *testing.T) {
	_, _, err := ReadPoints(strings.NewReader("1,2\n3,oops\n"))

	var malformed *ErrMalformedNumber
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Row)
	assert.Equal(t, 1, malformed.Col)
	assert.Equal(t, "oops", malformed.Value)
}

func TestReadPointsNonFinite(t *testing.T) {
	_, _, err := ReadPoints(strings.NewReader("1,2\nNaN,4\n"))

	var malformed *ErrMalformedNumber
	assert.ErrorAs(t, err, &malformed)

	_, _, err = ReadPoints(strings.NewReader("1,2\n+Inf,4\n"))
	assert.ErrorAs(t, err, &malformed)
}

func TestReadPointsRaggedRow(t *testing.T) {
	_, _, err := ReadPoints(strings.NewReader("1,2\n3,4,5\n"))
	assert.ErrorIs(t, err, ErrRaggedRow)
}

func TestReadPointsFileMissing(t *testing.T) {
	_, _, err := ReadPointsFile("/nonexistent/points.csv")
	assert.ErrorIs(t, err, ErrIO)
}
