package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
}

const utf8BOM = "\ufeff"

// ReadCSV reads a delimited file and returns the header row and the data
// rows. Rows may have differing field counts. Empty input yields a nil
// header and no error.
func ReadCSV(r io.Reader, opts CSVOptions) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	var header []string
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return header, rows, nil
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: read row")
		}
		if header == nil {
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], utf8BOM)
			}
			header = record
			continue
		}
		rows = append(rows, record)
	}
}
