package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// WriteResultsCSV writes match results as CSV with the Results sheet columns.
func WriteResultsCSV(w io.Writer, results []model.MatchResult) error {
	return writeCSV(w, resultTable(results))
}

// WriteQualityCSV writes quality groups as CSV with the Quality sheet columns.
func WriteQualityCSV(w io.Writer, groups []model.QualityGroup) error {
	return writeCSV(w, qualityTable(groups))
}

// WriteSummaryCSV writes the per-customer summary as CSV with the Summary sheet columns.
func WriteSummaryCSV(w io.Writer, summary []model.CustomerSummary) error {
	return writeCSV(w, summaryTable(summary))
}

func writeCSV(w io.Writer, t table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return eris.Wrapf(err, "report: write %s header", t.name)
	}
	record := make([]string, len(t.header))
	for _, values := range t.rows {
		for i, v := range values {
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "report: write %s row", t.name)
		}
	}
	cw.Flush()
	return eris.Wrapf(cw.Error(), "report: flush %s", t.name)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}
