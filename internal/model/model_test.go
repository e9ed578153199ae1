package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTypeRank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, MatchTypeExact.Rank())
	assert.Equal(t, 1, MatchTypeFuzzy.Rank())
	assert.Equal(t, 0, MatchTypeNoMatch.Rank())
	assert.Equal(t, 0, MatchType("").Rank())
}

func TestMatchTypeIsMatched(t *testing.T) {
	t.Parallel()

	assert.True(t, MatchTypeExact.IsMatched())
	assert.True(t, MatchTypeFuzzy.IsMatched())
	assert.False(t, MatchTypeNoMatch.IsMatched())
}

func TestQualityFlagIsAcceptable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flag QualityFlag
		want bool
	}{
		{QualityGood, true},
		{QualityAcceptable, true},
		{QualityQuestionable, false},
		{QualityPoor, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.flag), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.flag.IsAcceptable())
		})
	}
}

func TestCustomerKeyFallsBackToCustomer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GREYSON", Record{CanonicalCustomer: "GREYSON", Customer: "Greyson Clothiers"}.CustomerKey())
	assert.Equal(t, "Greyson Clothiers", Record{Customer: "Greyson Clothiers"}.CustomerKey())
	assert.Equal(t, "TRACKSMITH", OrderRecord{CanonicalCustomer: "TRACKSMITH"}.CustomerKey())
	assert.Equal(t, "Rhone", CombinedRecord{Customer: "Rhone"}.CustomerKey())
}

func TestEffectivePO(t *testing.T) {
	t.Parallel()

	matched := MatchResult{
		CombinedRecord: CombinedRecord{CustomerPO: "PO-1A"},
		MatchType:      MatchTypeFuzzy,
		BestMatchPO:    "PO-1",
	}
	assert.Equal(t, "PO-1", matched.EffectivePO())

	unmatched := MatchResult{
		CombinedRecord: CombinedRecord{CustomerPO: "PO-9"},
		MatchType:      MatchTypeNoMatch,
	}
	assert.Equal(t, "PO-9", unmatched.EffectivePO())
}

func TestRunStatusValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "running", string(RunStatusRunning))
	assert.Equal(t, "complete", string(RunStatusComplete))
	assert.Equal(t, "failed", string(RunStatusFailed))
}
