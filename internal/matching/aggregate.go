package matching

import (
	"sort"
	"strings"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

type aggKey struct {
	customer string
	po       string
	altPO    string
	style    string
	pattern  string
	color    string
	size     string
}

func recordKey(r model.Record) aggKey {
	return aggKey{
		customer: strings.TrimSpace(r.CustomerKey()),
		po:       strings.TrimSpace(r.CustomerPO),
		altPO:    strings.TrimSpace(r.CustomerAltPO),
		style:    strings.TrimSpace(r.Style),
		pattern:  strings.TrimSpace(r.PatternID),
		color:    strings.TrimSpace(r.Color),
		size:     strings.TrimSpace(r.Size),
	}
}

func (k aggKey) less(o aggKey) bool {
	a := [...]string{k.customer, k.po, k.altPO, k.style, k.pattern, k.color, k.size}
	b := [...]string{o.customer, o.po, o.altPO, o.style, o.pattern, o.color, o.size}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type aggRow struct {
	rec     model.CombinedRecord
	packed  bool
	shipped bool
}

// Aggregate sums packed and shipped quantities per (customer, PO, alt PO,
// style, pattern, color, size) and outer-joins the two sides. Each row is
// labelled PACKED, SHIPPED or BOTH; a missing side contributes 0.
// Rows are returned sorted by the grouping key.
func Aggregate(packed, shipped []model.Record) []model.CombinedRecord {
	groups := make(map[aggKey]*aggRow)

	add := func(r model.Record, isPacked bool) {
		k := recordKey(r)
		row, ok := groups[k]
		if !ok {
			row = &aggRow{rec: model.CombinedRecord{
				CanonicalCustomer: k.customer,
				CustomerPO:        k.po,
				CustomerAltPO:     k.altPO,
				Style:             k.style,
				PatternID:         k.pattern,
				Color:             k.color,
				Size:              k.size,
			}}
			groups[k] = row
		}
		if row.rec.Customer == "" {
			row.rec.Customer = strings.TrimSpace(r.Customer)
		}
		if isPacked {
			row.packed = true
			row.rec.PackedQty += r.Qty
		} else {
			row.shipped = true
			row.rec.ShippedQty += r.Qty
		}
	}

	for _, r := range packed {
		add(r, true)
	}
	for _, r := range shipped {
		add(r, false)
	}

	keys := make([]aggKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]model.CombinedRecord, 0, len(keys))
	for _, k := range keys {
		row := groups[k]
		switch {
		case row.packed && row.shipped:
			row.rec.SourceType = model.SourceTypeBoth
		case row.packed:
			row.rec.SourceType = model.SourceTypePacked
		default:
			row.rec.SourceType = model.SourceTypeShipped
		}
		out = append(out, row.rec)
	}
	return out
}
