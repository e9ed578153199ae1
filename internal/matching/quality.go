package matching

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// Classification thresholds. Variance is compared as an absolute percentage.
const (
	VarianceTolerancePct = 5.0
	AcceptableScore      = 90.0
	QuestionableScore    = 75.0
)

// Classify assigns the quality flag for a match type, score and variance
// percentage:
//
//	EXACT, |variance| <= 5%              -> GOOD
//	FUZZY, score >= 90, |variance| <= 5% -> ACCEPTABLE
//	FUZZY, score >= 75, |variance| <= 5% -> QUESTIONABLE
//	anything else                        -> POOR
func Classify(t model.MatchType, score, variancePct float64) model.QualityFlag {
	if math.IsNaN(variancePct) || math.Abs(variancePct) > VarianceTolerancePct {
		return model.QualityPoor
	}
	switch t {
	case model.MatchTypeExact:
		return model.QualityGood
	case model.MatchTypeFuzzy:
		if score >= AcceptableScore {
			return model.QualityAcceptable
		}
		if score >= QuestionableScore {
			return model.QualityQuestionable
		}
	}
	return model.QualityPoor
}

// VariancePct is variance as a percentage of the ordered quantity. With
// nothing ordered it is 0 when nothing was delivered, else -100.
func VariancePct(ordered, delivered float64) float64 {
	variance := ordered - delivered
	if ordered == 0 {
		if delivered == 0 {
			return 0
		}
		return -100
	}
	return variance / ordered * 100
}

type groupAcc struct {
	group   model.QualityGroup
	members []int
	orders  map[string]struct{}
}

// ComputeQualityFlags groups results by (effective PO, style, color), sums
// packed, shipped and ordered quantities, computes
// variance = ordered - (packed + shipped), and flags each group with the
// worst member match type and lowest member score. It returns the groups and
// a copy of results with each row's group variance and flag filled in.
// Several rows can hit the same order line, so each matched order's
// quantity counts once per group.
func ComputeQualityFlags(results []model.MatchResult) ([]model.QualityGroup, []model.MatchResult) {
	out := make([]model.MatchResult, len(results))
	copy(out, results)

	upper := newUpper()
	groups := make(map[string]*groupAcc)
	var order []string

	for i, r := range out {
		po := r.EffectivePO()
		k := joinKey(upper, po) + keySep + normalize(upper, r.Style) + keySep + normalize(upper, r.Color)

		acc, ok := groups[k]
		if !ok {
			acc = &groupAcc{group: model.QualityGroup{
				CanonicalCustomer: r.CustomerKey(),
				EffectivePO:       po,
				Style:             r.Style,
				Color:             r.Color,
				MatchType:         r.MatchType,
				MatchScore:        r.MatchScore,
			}, orders: make(map[string]struct{})}
			groups[k] = acc
			order = append(order, k)
		}

		g := &acc.group
		g.Rows++
		g.PackedQty += r.PackedQty
		g.ShippedQty += r.ShippedQty
		if r.MatchType.IsMatched() {
			ord := matchedOrderKey(upper, r)
			if _, seen := acc.orders[ord]; !seen {
				acc.orders[ord] = struct{}{}
				g.OrderedQty += r.OrderedQty
			}
		}
		if r.MatchType.Rank() < g.MatchType.Rank() {
			g.MatchType = r.MatchType
		}
		if r.MatchScore < g.MatchScore {
			g.MatchScore = r.MatchScore
		}
		acc.members = append(acc.members, i)
	}

	sort.Strings(order)

	flagged := make([]model.QualityGroup, 0, len(order))
	for _, k := range order {
		acc := groups[k]
		g := &acc.group
		delivered := g.PackedQty + g.ShippedQty
		g.QtyVariance = g.OrderedQty - delivered
		g.QtyVariancePct = VariancePct(g.OrderedQty, delivered)
		g.QualityFlag = Classify(g.MatchType, g.MatchScore, g.QtyVariancePct)

		for _, i := range acc.members {
			out[i].QtyVariance = g.QtyVariance
			out[i].QtyVariancePct = g.QtyVariancePct
			out[i].QualityFlag = g.QualityFlag
		}
		flagged = append(flagged, *g)
	}
	return flagged, out
}

// matchedOrderKey identifies the order line a result was joined to. Parts
// keep their position so an empty alt PO cannot shift the other fields.
func matchedOrderKey(upper cases.Caser, r model.MatchResult) string {
	parts := []string{
		r.BestMatchCustomer, r.BestMatchPO, r.BestMatchAltPO,
		r.BestMatchStyle, r.BestMatchColor, r.BestMatchSize,
	}
	for i, p := range parts {
		parts[i] = normalize(upper, p)
	}
	return strings.Join(parts, keySep)
}
