package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSortRatio_Identical(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("PO-1", "PO-1"))
}

func TestTokenSortRatio_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("po-1", "PO-1"))
}

func TestTokenSortRatio_IgnoresWordOrder(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("SPRING DROP 24", "24 spring  drop"))
}

func TestTokenSortRatio_Typo(t *testing.T) {
	// One deletion over 9 characters.
	assert.InDelta(t, 88.888, TokenSortRatio("PO-1A", "PO-1"), 0.01)
}

func TestTokenSortRatio_Dissimilar(t *testing.T) {
	// Only "-" is shared: indel distance 9 over 11 characters.
	assert.InDelta(t, 18.18, TokenSortRatio("ZZZ-999", "PO-1"), 0.01)
}

func TestTokenSortRatio_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TokenSortRatio("", "PO-1"))
	assert.Equal(t, 0.0, TokenSortRatio("PO-1", "   "))
	assert.Equal(t, 0.0, TokenSortRatio("", ""))
}

func TestTokenSortRatio_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"ABC", "XYZ"},
		{"PO 12345", "PO 12354"},
		{"A", "AAAAAAAA"},
		{"HELLO WORLD", "WORLD"},
	}
	for _, p := range pairs {
		s := TokenSortRatio(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, s, 100.0, "%q vs %q", p[0], p[1])
	}
}

func TestTokenSortRatio_Symmetric(t *testing.T) {
	assert.Equal(t, TokenSortRatio("PO-1A", "PO-1"), TokenSortRatio("PO-1", "PO-1A"))
}

func TestCdist_DedupesAndKeepsPositions(t *testing.T) {
	m := cdist([]string{"PO-1", "po-1", ""}, []string{"PO-1", "", "PO-1A", "PO-1"})

	require.Len(t, m.scores, 1, "distinct non-empty queries")
	require.Len(t, m.scores[0], 2, "distinct non-empty choices")

	s := m.scorer("PO-1")
	assert.Equal(t, 100.0, s(0))
	assert.Equal(t, 0.0, s(1))
	assert.InDelta(t, 88.888, s(2), 0.01)
	assert.Equal(t, 100.0, s(3))
	assert.Equal(t, 0.0, s(4))
	assert.Equal(t, 0.0, s(-1))

	assert.Equal(t, 0.0, m.scorer("")(0))
	assert.Equal(t, 0.0, m.scorer("UNKNOWN")(0))
}
