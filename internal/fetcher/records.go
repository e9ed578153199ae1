package fetcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// LoadOptions selects how an extract file is parsed.
type LoadOptions struct {
	CSV  CSVOptions
	XLSX XLSXOptions
}

// ReadTable reads the header and data rows of a .csv, .tsv or .xlsx file.
func ReadTable(path string, opts LoadOptions) ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return readDelimited(path, opts.CSV)
	case ".tsv":
		csvOpts := opts.CSV
		if csvOpts.Delimiter == 0 {
			csvOpts.Delimiter = '\t'
		}
		return readDelimited(path, csvOpts)
	case ".xlsx", ".xlsm":
		rows, err := ReadXLSX(path, opts.XLSX)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "fetcher: read %s", path)
		}
		if len(rows) == 0 {
			return nil, nil, nil
		}
		return rows[0], rows[1:], nil
	default:
		return nil, nil, eris.Errorf("fetcher: unsupported file type %q", filepath.Ext(path))
	}
}

func readDelimited(path string, opts CSVOptions) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	header, rows, err := ReadCSV(f, opts)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "fetcher: read %s", path)
	}
	return header, rows, nil
}

// LoadRecords reads a packed or shipped extract. Customer_PO and Qty are
// required columns.
func LoadRecords(path string, opts LoadOptions) ([]model.Record, error) {
	header, rows, err := ReadTable(path, opts)
	if err != nil {
		return nil, err
	}
	records, err := DecodeRecords(header, rows)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: load %s", path)
	}
	zap.L().Debug("fetcher: records loaded", zap.String("path", path), zap.Int("rows", len(records)))
	return records, nil
}

// LoadOrders reads an order extract. Customer_PO and Ordered_Qty are
// required columns.
func LoadOrders(path string, opts LoadOptions) ([]model.OrderRecord, error) {
	header, rows, err := ReadTable(path, opts)
	if err != nil {
		return nil, err
	}
	orders, err := DecodeOrders(header, rows)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: load %s", path)
	}
	zap.L().Debug("fetcher: orders loaded", zap.String("path", path), zap.Int("rows", len(orders)))
	return orders, nil
}

// DecodeRecords converts a header and rows into packed or shipped records.
func DecodeRecords(header []string, rows [][]string) ([]model.Record, error) {
	decoded, err := decodeTable(header, rows, ColCustomerPO, ColQty)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(decoded))
	var invalid int
	for _, r := range decoded {
		qty, ok := parseQty(r.Qty)
		if !ok {
			invalid++
		}
		out = append(out, model.Record{
			CanonicalCustomer: strings.TrimSpace(r.CanonicalCustomer),
			Customer:          strings.TrimSpace(r.Customer),
			CustomerPO:        strings.TrimSpace(r.CustomerPO),
			CustomerAltPO:     strings.TrimSpace(r.CustomerAltPO),
			Style:             strings.TrimSpace(r.Style),
			PatternID:         strings.TrimSpace(r.PatternID),
			Color:             strings.TrimSpace(r.Color),
			Size:              strings.TrimSpace(r.Size),
			Qty:               qty,
		})
	}
	warnInvalid(ColQty, invalid)
	return out, nil
}

// DecodeOrders converts a header and rows into order records.
func DecodeOrders(header []string, rows [][]string) ([]model.OrderRecord, error) {
	decoded, err := decodeTable(header, rows, ColCustomerPO, ColOrderedQty)
	if err != nil {
		return nil, err
	}
	out := make([]model.OrderRecord, 0, len(decoded))
	var invalid int
	for _, r := range decoded {
		qty, ok := parseQty(r.OrderedQty)
		if !ok {
			invalid++
		}
		out = append(out, model.OrderRecord{
			CanonicalCustomer: strings.TrimSpace(r.CanonicalCustomer),
			Customer:          strings.TrimSpace(r.Customer),
			CustomerPO:        strings.TrimSpace(r.CustomerPO),
			CustomerAltPO:     strings.TrimSpace(r.CustomerAltPO),
			Style:             strings.TrimSpace(r.Style),
			PatternID:         strings.TrimSpace(r.PatternID),
			Color:             strings.TrimSpace(r.Color),
			Size:              strings.TrimSpace(r.Size),
			OrderedQty:        qty,
		})
	}
	warnInvalid(ColOrderedQty, invalid)
	return out, nil
}

func warnInvalid(column string, n int) {
	if n == 0 {
		return
	}
	zap.L().Warn("fetcher: non-numeric quantities treated as 0",
		zap.String("column", column),
		zap.Int("rows", n),
	)
}
