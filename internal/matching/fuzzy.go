package matching

import (
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// DefaultThreshold is the minimum token-sort-ratio a fuzzy match must reach.
const DefaultThreshold = 75.0

// candidate is the best order found for one PO field of a row.
type candidate struct {
	idx   int
	score float64
}

// FuzzyMatch matches rows that failed the exact join. Within each customer it
// scores the rows' PO against the orders' PO and the rows' alt PO against the
// orders' alt PO, keeps the best order per field, and takes the better field,
// preferring PO on equal scores. A row is FUZZY only when that score reaches
// threshold; otherwise it stays NO_MATCH and keeps the best score seen.
//
// Equal-scoring orders are broken by attribute affinity: same style, color and
// size first, then same style and color, then input order.
func FuzzyMatch(unmatched []model.MatchResult, orders []model.OrderRecord, threshold float64) []model.MatchResult {
	out := make([]model.MatchResult, len(unmatched))
	copy(out, unmatched)
	if len(out) == 0 {
		return out
	}

	upper := newUpper()

	candidates := make(map[string][]model.OrderRecord)
	for _, o := range orders {
		c := normalize(upper, o.CustomerKey())
		candidates[c] = append(candidates[c], o)
	}

	rowsByCustomer := make(map[string][]int)
	for i := range out {
		c := normalize(upper, out[i].CustomerKey())
		rowsByCustomer[c] = append(rowsByCustomer[c], i)
	}

	customers := make([]string, 0, len(rowsByCustomer))
	for c := range rowsByCustomer {
		customers = append(customers, c)
	}
	sort.Strings(customers)

	var accepted int
	for _, customer := range customers {
		idxs := rowsByCustomer[customer]
		cands := candidates[customer]

		for _, i := range idxs {
			resetMatch(&out[i])
		}
		if len(cands) == 0 {
			zap.L().Debug("matching: no candidate orders for customer",
				zap.String("customer", customer),
				zap.Int("rows", len(idxs)),
			)
			continue
		}

		rowPOs := make([]string, len(idxs))
		rowAltPOs := make([]string, len(idxs))
		for j, i := range idxs {
			rowPOs[j] = out[i].CustomerPO
			rowAltPOs[j] = out[i].CustomerAltPO
		}
		candPOs := make([]string, len(cands))
		candAltPOs := make([]string, len(cands))
		for j, o := range cands {
			candPOs[j] = o.CustomerPO
			candAltPOs[j] = o.CustomerAltPO
		}

		poScores := cdist(rowPOs, candPOs)
		altScores := cdist(rowAltPOs, candAltPOs)

		for _, i := range idxs {
			row := &out[i]
			po := bestCandidate(upper, row, cands, poScores.scorer(row.CustomerPO))
			alt := bestCandidate(upper, row, cands, altScores.scorer(row.CustomerAltPO))

			best, field := po, model.MatchedFieldPO
			if alt.score > po.score {
				best, field = alt, model.MatchedFieldAltPO
			}

			if best.idx < 0 {
				continue
			}
			if best.score >= threshold {
				applyOrder(row, cands[best.idx], model.MatchTypeFuzzy, best.score, field)
				accepted++
				continue
			}
			row.MatchScore = best.score
		}
	}

	zap.L().Debug("matching: fuzzy pass complete",
		zap.Int("rows", len(out)),
		zap.Int("accepted", accepted),
		zap.Float64("threshold", threshold),
	)
	return out
}

func resetMatch(r *model.MatchResult) {
	*r = newResult(r.CombinedRecord)
}

// bestCandidate returns the highest-scoring order for one field, or idx -1
// when nothing scores above zero.
func bestCandidate(upper cases.Caser, row *model.MatchResult, cands []model.OrderRecord, score func(int) float64) candidate {
	best := candidate{idx: -1}
	bestAffinity := -1
	for j := range cands {
		s := score(j)
		if s <= 0 {
			continue
		}
		if s > best.score {
			best = candidate{idx: j, score: s}
			bestAffinity = affinity(upper, row, cands[j])
			continue
		}
		if s == best.score {
			if a := affinity(upper, row, cands[j]); a > bestAffinity {
				best = candidate{idx: j, score: s}
				bestAffinity = a
			}
		}
	}
	return best
}

// affinity ranks how closely an order's attributes agree with a row's.
func affinity(upper cases.Caser, row *model.MatchResult, o model.OrderRecord) int {
	if normalize(upper, row.Style) != normalize(upper, o.Style) ||
		normalize(upper, row.Color) != normalize(upper, o.Color) {
		return 0
	}
	if normalize(upper, row.Size) != normalize(upper, o.Size) {
		return 1
	}
	return 2
}
