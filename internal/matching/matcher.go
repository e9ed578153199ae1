package matching

import (
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// Options configures a Matcher.
type Options struct {
	// Threshold is the minimum fuzzy score accepted; 0 means DefaultThreshold.
	Threshold float64
}

// Output is the full result of one matching run.
type Output struct {
	Results []model.MatchResult     `json:"results"`
	Quality []model.QualityGroup    `json:"quality"`
	Summary []model.CustomerSummary `json:"summary"`
}

// Matcher runs the matching pipeline over in-memory inputs.
type Matcher struct {
	threshold float64
}

// New creates a Matcher.
func New(opts Options) *Matcher {
	t := opts.Threshold
	if t <= 0 {
		t = DefaultThreshold
	}
	return &Matcher{threshold: t}
}

// Threshold returns the fuzzy acceptance threshold in use.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Run aggregates packed and shipped lines, matches them exactly and then
// fuzzily against orders, flags quality and summarizes per customer.
func (m *Matcher) Run(packed, shipped []model.Record, orders []model.OrderRecord) *Output {
	log := zap.L().With(zap.String("component", "matching"))

	combined := Aggregate(packed, shipped)
	log.Debug("aggregated quantities",
		zap.Int("packed", len(packed)),
		zap.Int("shipped", len(shipped)),
		zap.Int("combined", len(combined)),
	)

	results := ExactMatch(combined, orders)

	var leftover []int
	for i, r := range results {
		if r.MatchType != model.MatchTypeExact {
			leftover = append(leftover, i)
		}
	}
	log.Debug("exact match complete",
		zap.Int("exact", len(results)-len(leftover)),
		zap.Int("unmatched", len(leftover)),
	)

	if len(leftover) > 0 {
		unmatched := make([]model.MatchResult, len(leftover))
		for j, i := range leftover {
			unmatched[j] = results[i]
		}
		fuzzy := FuzzyMatch(unmatched, orders, m.threshold)
		for j, i := range leftover {
			results[i] = fuzzy[j]
		}
	}

	quality, results := ComputeQualityFlags(results)
	summary := Summarize(results)

	out := &Output{Results: results, Quality: quality, Summary: summary}
	exact, fuzzy, none := out.Counts()
	log.Info("matching complete",
		zap.Int("results", len(results)),
		zap.Int("exact", exact),
		zap.Int("fuzzy", fuzzy),
		zap.Int("no_match", none),
		zap.Int("customers", len(summary)),
	)
	return out
}

// Counts returns the number of EXACT, FUZZY and NO_MATCH results.
func (o *Output) Counts() (exact, fuzzy, none int) {
	for _, r := range o.Results {
		switch r.MatchType {
		case model.MatchTypeExact:
			exact++
		case model.MatchTypeFuzzy:
			fuzzy++
		default:
			none++
		}
	}
	return exact, fuzzy, none
}

// Stats builds the run statistics recorded in run history.
func (o *Output) Stats(packedRows, shippedRows, orderRows int) model.RunStats {
	exact, fuzzy, none := o.Counts()
	acceptable := 0
	for _, r := range o.Results {
		if r.QualityFlag.IsAcceptable() {
			acceptable++
		}
	}
	return model.RunStats{
		PackedRows:     packedRows,
		ShippedRows:    shippedRows,
		OrderRows:      orderRows,
		ResultRows:     len(o.Results),
		ExactMatches:   exact,
		FuzzyMatches:   fuzzy,
		NoMatches:      none,
		Customers:      len(o.Summary),
		ExactMatchRate: percent(exact, len(o.Results)),
		QualityRate:    percent(acceptable, len(o.Results)),
	}
}

// MatchRecords runs the pipeline with the given fuzzy threshold and returns
// the flagged results and the per-customer summary.
func MatchRecords(packed, shipped []model.Record, orders []model.OrderRecord, threshold float64) ([]model.MatchResult, []model.CustomerSummary) {
	out := New(Options{Threshold: threshold}).Run(packed, shipped, orders)
	return out.Results, out.Summary
}
