// Package report writes matching output as spreadsheet workbooks and CSV files.
package report

import (
	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// Sheet names used in the workbook.
const (
	SheetResults = "Results"
	SheetQuality = "Quality"
	SheetSummary = "Summary"
)

// table is one sheet's worth of output: a header and typed cell values.
type table struct {
	name   string
	header []string
	rows   [][]any
}

var resultHeader = []string{
	"Canonical_Customer", "Customer", "Customer_PO", "Customer_Alt_PO",
	"Style", "Pattern_ID", "Color", "Size",
	"Packed_Qty", "Shipped_Qty", "Source_Type",
	"Match_Type", "Match_Score", "Matched_Field",
	"Best_Match_Customer", "Best_Match_PO", "Best_Match_Alt_PO",
	"Best_Match_Style", "Best_Match_Color", "Best_Match_Size",
	"Ordered_Qty", "Qty_Variance", "Qty_Variance_Pct", "Quality_Flag",
}

var qualityHeader = []string{
	"Canonical_Customer", "Effective_PO", "Style", "Color", "Rows",
	"Packed_Qty", "Shipped_Qty", "Ordered_Qty",
	"Match_Type", "Match_Score", "Qty_Variance", "Qty_Variance_Pct", "Quality_Flag",
}

var summaryHeader = []string{
	"Canonical_Customer", "Total_Records",
	"Total_Packed_Qty", "Total_Shipped_Qty", "Total_Ordered_Qty",
	"Exact_Matches", "Fuzzy_Matches", "No_Matches",
	"Exact_Match_Rate", "Quality_Rate",
}

func resultTable(results []model.MatchResult) table {
	t := table{name: SheetResults, header: resultHeader, rows: make([][]any, 0, len(results))}
	for _, r := range results {
		t.rows = append(t.rows, []any{
			r.CustomerKey(), r.Customer, r.CustomerPO, r.CustomerAltPO,
			r.Style, r.PatternID, r.Color, r.Size,
			r.PackedQty, r.ShippedQty, string(r.SourceType),
			string(r.MatchType), r.MatchScore, string(r.MatchedField),
			r.BestMatchCustomer, r.BestMatchPO, r.BestMatchAltPO,
			r.BestMatchStyle, r.BestMatchColor, r.BestMatchSize,
			r.OrderedQty, r.QtyVariance, r.QtyVariancePct, string(r.QualityFlag),
		})
	}
	return t
}

func qualityTable(groups []model.QualityGroup) table {
	t := table{name: SheetQuality, header: qualityHeader, rows: make([][]any, 0, len(groups))}
	for _, g := range groups {
		t.rows = append(t.rows, []any{
			g.CanonicalCustomer, g.EffectivePO, g.Style, g.Color, g.Rows,
			g.PackedQty, g.ShippedQty, g.OrderedQty,
			string(g.MatchType), g.MatchScore, g.QtyVariance, g.QtyVariancePct, string(g.QualityFlag),
		})
	}
	return t
}

func summaryTable(summary []model.CustomerSummary) table {
	t := table{name: SheetSummary, header: summaryHeader, rows: make([][]any, 0, len(summary))}
	for _, c := range summary {
		t.rows = append(t.rows, []any{
			c.CanonicalCustomer, c.TotalRecords,
			c.TotalPackedQty, c.TotalShippedQty, c.TotalOrderedQty,
			c.ExactMatches, c.FuzzyMatches, c.NoMatches,
			c.ExactMatchRate, c.QualityRate,
		})
	}
	return t
}
