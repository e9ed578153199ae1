package model

// MatchType is the outcome of matching a combined row against orders.
type MatchType string

const (
	MatchTypeExact   MatchType = "EXACT"
	MatchTypeFuzzy   MatchType = "FUZZY"
	MatchTypeNoMatch MatchType = "NO_MATCH"
)

// Rank orders match types from worst (0) to best (2).
func (m MatchType) Rank() int {
	switch m {
	case MatchTypeExact:
		return 2
	case MatchTypeFuzzy:
		return 1
	default:
		return 0
	}
}

// IsMatched reports whether a row was paired with an order.
func (m MatchType) IsMatched() bool {
	return m == MatchTypeExact || m == MatchTypeFuzzy
}

// MatchedField records which PO field produced a fuzzy match.
type MatchedField string

const (
	MatchedFieldNone  MatchedField = ""
	MatchedFieldPO    MatchedField = "PO"
	MatchedFieldAltPO MatchedField = "ALT_PO"
)

// QualityFlag classifies a (PO, style, color) group.
type QualityFlag string

const (
	QualityGood         QualityFlag = "GOOD"
	QualityAcceptable   QualityFlag = "ACCEPTABLE"
	QualityQuestionable QualityFlag = "QUESTIONABLE"
	QualityPoor         QualityFlag = "POOR"
)

// IsAcceptable reports whether the flag counts toward the quality rate.
func (q QualityFlag) IsAcceptable() bool {
	return q == QualityGood || q == QualityAcceptable
}

// MatchResult is a combined row augmented with its match outcome.
// Quality columns are filled in from the row's quality group.
type MatchResult struct {
	CombinedRecord

	MatchType    MatchType    `json:"match_type"`
	MatchScore   float64      `json:"match_score"`
	MatchedField MatchedField `json:"matched_field,omitempty"`

	BestMatchCustomer string  `json:"best_match_customer,omitempty"`
	BestMatchPO       string  `json:"best_match_po,omitempty"`
	BestMatchAltPO    string  `json:"best_match_alt_po,omitempty"`
	BestMatchStyle    string  `json:"best_match_style,omitempty"`
	BestMatchColor    string  `json:"best_match_color,omitempty"`
	BestMatchSize     string  `json:"best_match_size,omitempty"`
	OrderedQty        float64 `json:"ordered_qty"`

	QtyVariance    float64     `json:"qty_variance"`
	QtyVariancePct float64     `json:"qty_variance_pct"`
	QualityFlag    QualityFlag `json:"quality_flag,omitempty"`
}

// EffectivePO is the matched order's PO when matched, else the row's own PO.
func (r MatchResult) EffectivePO() string {
	if r.MatchType.IsMatched() && r.BestMatchPO != "" {
		return r.BestMatchPO
	}
	return r.CustomerPO
}

// QualityGroup is the variance rollup for one (effective PO, style, color).
type QualityGroup struct {
	CanonicalCustomer string      `json:"canonical_customer"`
	EffectivePO       string      `json:"effective_po"`
	Style             string      `json:"style"`
	Color             string      `json:"color"`
	Rows              int         `json:"rows"`
	PackedQty         float64     `json:"packed_qty"`
	ShippedQty        float64     `json:"shipped_qty"`
	OrderedQty        float64     `json:"ordered_qty"`
	MatchType         MatchType   `json:"match_type"`
	MatchScore        float64     `json:"match_score"`
	QtyVariance       float64     `json:"qty_variance"`
	QtyVariancePct    float64     `json:"qty_variance_pct"`
	QualityFlag       QualityFlag `json:"quality_flag"`
}

// CustomerSummary is the per-customer rollup of a matching run.
type CustomerSummary struct {
	CanonicalCustomer string  `json:"canonical_customer"`
	TotalRecords      int     `json:"total_records"`
	TotalPackedQty    float64 `json:"total_packed_qty"`
	TotalShippedQty   float64 `json:"total_shipped_qty"`
	TotalOrderedQty   float64 `json:"total_ordered_qty"`
	ExactMatches      int     `json:"exact_matches"`
	FuzzyMatches      int     `json:"fuzzy_matches"`
	NoMatches         int     `json:"no_matches"`
	ExactMatchRate    float64 `json:"exact_match_rate"`
	QualityRate       float64 `json:"quality_rate"`
}
