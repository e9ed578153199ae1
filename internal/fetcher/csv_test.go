package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	header, rows, err := ReadCSV(strings.NewReader("a,b,c\n1,2,3\n4,5,6\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "2", "3"}, rows[0])
	assert.Equal(t, []string{"4", "5", "6"}, rows[1])
}

func TestReadCSV_PipeDelimited(t *testing.T) {
	header, rows, err := ReadCSV(strings.NewReader("a|b|c\n1|2|3\n"), CSVOptions{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1", "2", "3"}, rows[0])
}

func TestReadCSV_VariableFields(t *testing.T) {
	_, rows, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n3,4,5,6\n"), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 4)
}

func TestReadCSV_Comment(t *testing.T) {
	_, rows, err := ReadCSV(strings.NewReader("a,b\n# skipped\n1,2\n"), CSVOptions{Comment: '#'})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1", "2"}, rows[0])
}

func TestReadCSV_StripsBOM(t *testing.T) {
	header, _, err := ReadCSV(strings.NewReader("\ufeffCustomer_PO,Qty\nPO-1,1\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Customer_PO", header[0])
}

func TestReadCSV_Empty(t *testing.T) {
	header, rows, err := ReadCSV(strings.NewReader(""), CSVOptions{})
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Nil(t, rows)
}

func TestReadCSV_BadQuotes(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("a,b\n\"unterminated,2\n"), CSVOptions{})
	require.Error(t, err)

	_, rows, err := ReadCSV(strings.NewReader("a,b\nx\"y,2\n"), CSVOptions{LazyQuotes: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
