package fetcher

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// Column names as they appear in the extracts.
const (
	ColCanonicalCustomer = "Canonical_Customer"
	ColCustomer          = "Customer"
	ColCustomerPO        = "Customer_PO"
	ColCustomerAltPO     = "Customer_Alt_PO"
	ColStyle             = "Style"
	ColPatternID         = "Pattern_ID"
	ColColor             = "Color"
	ColSize              = "Size"
	ColQty               = "Qty"
	ColOrderedQty        = "Ordered_Qty"
)

var knownColumns = []string{
	ColCanonicalCustomer, ColCustomer, ColCustomerPO, ColCustomerAltPO,
	ColStyle, ColPatternID, ColColor, ColSize, ColQty, ColOrderedQty,
}

var columnKeys = func() map[string]string {
	m := make(map[string]string, len(knownColumns))
	for _, c := range knownColumns {
		m[columnKey(c)] = c
	}
	return m
}()

// columnKey folds a header cell so "Customer PO", "customer_po" and
// "CUSTOMER-PO" compare equal.
func columnKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_", ".", "").Replace(s)
}

// row is the decoded form of one extract line. Quantities stay strings so a
// malformed value becomes 0 instead of failing the file.
type row struct {
	CanonicalCustomer string `csv:"Canonical_Customer"`
	Customer          string `csv:"Customer"`
	CustomerPO        string `csv:"Customer_PO"`
	CustomerAltPO     string `csv:"Customer_Alt_PO"`
	Style             string `csv:"Style"`
	PatternID         string `csv:"Pattern_ID"`
	Color             string `csv:"Color"`
	Size              string `csv:"Size"`
	Qty               string `csv:"Qty"`
	OrderedQty        string `csv:"Ordered_Qty"`
}

// canonicalHeader maps header cells onto the known column names. Unknown
// and duplicate columns get placeholder names so the decoder ignores them.
func canonicalHeader(header []string) ([]string, map[string]bool) {
	out := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		c, ok := columnKeys[columnKey(h)]
		if !ok || present[c] {
			out[i] = "_unused_" + strconv.Itoa(i)
			continue
		}
		out[i] = c
		present[c] = true
	}
	return out, present
}

// sliceReader feeds in-memory rows to csvutil, padding or truncating each to
// the header width and skipping blank lines.
type sliceReader struct {
	rows  [][]string
	width int
	pos   int
}

func (s *sliceReader) Read() ([]string, error) {
	for s.pos < len(s.rows) {
		r := s.rows[s.pos]
		s.pos++
		if blank(r) {
			continue
		}
		out := make([]string, s.width)
		copy(out, r)
		return out, nil
	}
	return nil, io.EOF
}

func blank(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// decodeTable decodes rows under header into row values, failing when any
// of the required columns is absent. A table with no header at all is an
// empty extract and decodes to no rows.
func decodeTable(header []string, rows [][]string, required ...string) ([]row, error) {
	if len(header) == 0 {
		return nil, nil
	}
	canon, present := canonicalHeader(header)
	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("fetcher: missing required column(s) %s", strings.Join(missing, ", "))
	}

	dec, err := csvutil.NewDecoder(&sliceReader{rows: rows, width: len(canon)}, canon...)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create decoder")
	}

	var out []row
	for {
		var r row
		if err := dec.Decode(&r); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "fetcher: decode row %d", len(out)+1)
		}
		out = append(out, r)
	}
	return out, nil
}

// parseQty parses a quantity cell. Blank or non-numeric values are 0 and
// reported as not ok; thousands separators are accepted.
func parseQty(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
