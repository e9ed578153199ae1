package matching

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/cases"
)

// Substitution costs as much as a delete plus an insert, so the
// normalized similarity is the indel ratio.
var indelParams = levenshtein.NewParams().SubCost(2)

// TokenSortRatio scores two strings 0-100 after uppercasing, splitting on
// whitespace and sorting the tokens. Word order does not affect the score.
// An empty side scores 0.
func TokenSortRatio(a, b string) float64 {
	upper := newUpper()
	return ratio(sortTokens(upper, a), sortTokens(upper, b))
}

func sortTokens(upper cases.Caser, s string) string {
	tokens := strings.Fields(upper.String(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	return levenshtein.Similarity(a, b, indelParams) * 100
}

// scoreMatrix holds ratios between the distinct values of a query column and
// a choice column, so each distinct pair is scored once.
type scoreMatrix struct {
	upper   cases.Caser
	rowOf   map[string]int
	colOf   []int
	choices int
	scores  [][]float64
}

// cdist scores every distinct query against every distinct choice.
// choices keeps its positions: scorer(q)(i) refers to choices[i].
func cdist(queries, choices []string) *scoreMatrix {
	upper := newUpper()
	m := &scoreMatrix{
		upper:   upper,
		rowOf:   make(map[string]int),
		colOf:   make([]int, len(choices)),
		choices: len(choices),
	}

	var rows []string
	for _, q := range queries {
		p := sortTokens(upper, q)
		if p == "" {
			continue
		}
		if _, ok := m.rowOf[p]; !ok {
			m.rowOf[p] = len(rows)
			rows = append(rows, p)
		}
	}

	colIdx := make(map[string]int)
	var cols []string
	for i, c := range choices {
		p := sortTokens(upper, c)
		if p == "" {
			m.colOf[i] = -1
			continue
		}
		idx, ok := colIdx[p]
		if !ok {
			idx = len(cols)
			colIdx[p] = idx
			cols = append(cols, p)
		}
		m.colOf[i] = idx
	}

	m.scores = make([][]float64, len(rows))
	for r, q := range rows {
		m.scores[r] = make([]float64, len(cols))
		for c, choice := range cols {
			m.scores[r][c] = ratio(q, choice)
		}
	}
	return m
}

// scorer returns a function giving the ratio between query and choices[i].
func (m *scoreMatrix) scorer(query string) func(int) float64 {
	r, ok := m.rowOf[sortTokens(m.upper, query)]
	return func(i int) float64 {
		if !ok || i < 0 || i >= m.choices || m.colOf[i] < 0 {
			return 0
		}
		return m.scores[r][m.colOf[i]]
	}
}
