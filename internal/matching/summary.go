package matching

import (
	"sort"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// Summarize rolls results up per customer: totals, match counts, the
// exact-match rate and the share of rows flagged GOOD or ACCEPTABLE.
// Rates are percentages. Customers are sorted by name. Each matched order's
// quantity counts once per customer.
func Summarize(results []model.MatchResult) []model.CustomerSummary {
	byCustomer := make(map[string]*model.CustomerSummary)
	acceptable := make(map[string]int)
	seenOrders := make(map[string]struct{})
	upper := newUpper()

	for _, r := range results {
		c := r.CustomerKey()
		s, ok := byCustomer[c]
		if !ok {
			s = &model.CustomerSummary{CanonicalCustomer: c}
			byCustomer[c] = s
		}

		s.TotalRecords++
		s.TotalPackedQty += r.PackedQty
		s.TotalShippedQty += r.ShippedQty
		if r.MatchType.IsMatched() {
			ord := c + keySep + matchedOrderKey(upper, r)
			if _, seen := seenOrders[ord]; !seen {
				seenOrders[ord] = struct{}{}
				s.TotalOrderedQty += r.OrderedQty
			}
		}

		switch r.MatchType {
		case model.MatchTypeExact:
			s.ExactMatches++
		case model.MatchTypeFuzzy:
			s.FuzzyMatches++
		default:
			s.NoMatches++
		}
		if r.QualityFlag.IsAcceptable() {
			acceptable[c]++
		}
	}

	customers := make([]string, 0, len(byCustomer))
	for c := range byCustomer {
		customers = append(customers, c)
	}
	sort.Strings(customers)

	out := make([]model.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		s := byCustomer[c]
		s.ExactMatchRate = percent(s.ExactMatches, s.TotalRecords)
		s.QualityRate = percent(acceptable[c], s.TotalRecords)
		out = append(out, *s)
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
