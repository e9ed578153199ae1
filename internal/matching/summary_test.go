package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

func TestSummarize(t *testing.T) {
	results := []model.MatchResult{
		{CombinedRecord: model.CombinedRecord{CanonicalCustomer: "BETA", PackedQty: 3}, MatchType: model.MatchTypeNoMatch, QualityFlag: model.QualityPoor},
		{CombinedRecord: model.CombinedRecord{CanonicalCustomer: "ACME", PackedQty: 10}, MatchType: model.MatchTypeExact, BestMatchPO: "PO-1", OrderedQty: 10, QualityFlag: model.QualityGood},
		{CombinedRecord: model.CombinedRecord{CanonicalCustomer: "ACME", ShippedQty: 4}, MatchType: model.MatchTypeFuzzy, BestMatchPO: "PO-2", OrderedQty: 4, QualityFlag: model.QualityQuestionable},
		{CombinedRecord: model.CombinedRecord{CanonicalCustomer: "ACME", PackedQty: 1, ShippedQty: 1}, MatchType: model.MatchTypeFuzzy, BestMatchPO: "PO-3", OrderedQty: 2, QualityFlag: model.QualityAcceptable},
		{CombinedRecord: model.CombinedRecord{CanonicalCustomer: "ACME", PackedQty: 5}, MatchType: model.MatchTypeNoMatch, QualityFlag: model.QualityPoor},
	}

	out := Summarize(results)
	require.Len(t, out, 2)

	acme := out[0]
	assert.Equal(t, "ACME", acme.CanonicalCustomer)
	assert.Equal(t, 4, acme.TotalRecords)
	assert.Equal(t, 16.0, acme.TotalPackedQty)
	assert.Equal(t, 5.0, acme.TotalShippedQty)
	assert.Equal(t, 16.0, acme.TotalOrderedQty)
	assert.Equal(t, 1, acme.ExactMatches)
	assert.Equal(t, 2, acme.FuzzyMatches)
	assert.Equal(t, 1, acme.NoMatches)
	assert.Equal(t, 25.0, acme.ExactMatchRate)
	assert.Equal(t, 50.0, acme.QualityRate)

	beta := out[1]
	assert.Equal(t, "BETA", beta.CanonicalCustomer)
	assert.Equal(t, 1, beta.NoMatches)
	assert.Equal(t, 0.0, beta.ExactMatchRate)
	assert.Equal(t, 0.0, beta.QualityRate)
}

func TestSummarize_SharedOrderCountedOnce(t *testing.T) {
	hit := func(pattern string) model.MatchResult {
		return model.MatchResult{
			CombinedRecord: model.CombinedRecord{CanonicalCustomer: "ACME", PatternID: pattern, PackedQty: 5},
			MatchType:      model.MatchTypeExact,
			BestMatchPO:    "PO-1",
			BestMatchStyle: "A",
			BestMatchSize:  "M",
			OrderedQty:     10,
		}
	}

	out := Summarize([]model.MatchResult{hit(""), hit("P2")})
	require.Len(t, out, 1)
	assert.Equal(t, 10.0, out[0].TotalPackedQty)
	assert.Equal(t, 10.0, out[0].TotalOrderedQty)
}

func TestSummarize_FallsBackToRawCustomer(t *testing.T) {
	out := Summarize([]model.MatchResult{
		{CombinedRecord: model.CombinedRecord{Customer: "Raw Co"}, MatchType: model.MatchTypeNoMatch},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Raw Co", out[0].CanonicalCustomer)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
	assert.Equal(t, 0.0, percent(0, 0))
}
