package matching

import (
	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// collapseOrders sums ordered quantity per exact key, keeping the
// first-seen attributes, so a join on the key never fans out.
func collapseOrders(orders []model.OrderRecord) map[string]model.OrderRecord {
	upper := newUpper()
	out := make(map[string]model.OrderRecord, len(orders))
	for _, o := range orders {
		k := joinKey(upper, o.CustomerKey(), o.CustomerPO, o.Style, o.Color, o.Size)
		if existing, ok := out[k]; ok {
			existing.OrderedQty += o.OrderedQty
			out[k] = existing
			continue
		}
		out[k] = o
	}
	return out
}

func newResult(c model.CombinedRecord) model.MatchResult {
	return model.MatchResult{
		CombinedRecord: c,
		MatchType:      model.MatchTypeNoMatch,
	}
}

func applyOrder(r *model.MatchResult, o model.OrderRecord, t model.MatchType, score float64, field model.MatchedField) {
	r.MatchType = t
	r.MatchScore = score
	r.MatchedField = field
	r.BestMatchCustomer = o.CustomerKey()
	r.BestMatchPO = o.CustomerPO
	r.BestMatchAltPO = o.CustomerAltPO
	r.BestMatchStyle = o.Style
	r.BestMatchColor = o.Color
	r.BestMatchSize = o.Size
	r.OrderedQty = o.OrderedQty
}

// ExactMatch left-joins combined rows to orders on ExactKey. Hits are EXACT
// with score 100; every other row is NO_MATCH with score 0. The result keeps
// the order of combined.
func ExactMatch(combined []model.CombinedRecord, orders []model.OrderRecord) []model.MatchResult {
	index := collapseOrders(orders)
	upper := newUpper()

	out := make([]model.MatchResult, 0, len(combined))
	for _, c := range combined {
		r := newResult(c)
		k := joinKey(upper, c.CustomerKey(), c.CustomerPO, c.Style, c.Color, c.Size)
		if o, ok := index[k]; ok && k != "" {
			applyOrder(&r, o, model.MatchTypeExact, 100, model.MatchedFieldNone)
		}
		out = append(out, r)
	}
	return out
}
