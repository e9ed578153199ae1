package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/matching"
)

// WriteWorkbook saves out as an XLSX workbook at path with the sheets
// Results, Quality and Summary. Each sheet starts with a header row.
func WriteWorkbook(path string, out *matching.Output) error {
	if out == nil {
		out = &matching.Output{}
	}

	f := xlsx.NewFile()
	for _, t := range []table{
		resultTable(out.Results),
		qualityTable(out.Quality),
		summaryTable(out.Summary),
	} {
		if err := addSheet(f, t); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}

	zap.L().Info("report: workbook written",
		zap.String("path", path),
		zap.Int("results", len(out.Results)),
		zap.Int("quality_groups", len(out.Quality)),
		zap.Int("customers", len(out.Summary)),
	)
	return nil
}

func addSheet(f *xlsx.File, t table) error {
	sheet, err := f.AddSheet(t.name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", t.name)
	}

	hdr := sheet.AddRow()
	for _, h := range t.header {
		hdr.AddCell().SetString(h)
	}
	for _, values := range t.rows {
		row := sheet.AddRow()
		for _, v := range values {
			setCell(row.AddCell(), v)
		}
	}
	return nil
}

func setCell(cell *xlsx.Cell, v any) {
	switch val := v.(type) {
	case float64:
		cell.SetFloat(val)
	case int:
		cell.SetInt(val)
	case string:
		cell.SetString(val)
	default:
		cell.SetValue(val)
	}
}
