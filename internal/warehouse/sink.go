package warehouse

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/db"
	"github.com/Active-Apparel-Group/data-orchestration/internal/matching"
)

var resultColumns = []string{
	"run_id", "canonical_customer", "customer", "customer_po", "customer_alt_po",
	"style", "pattern_id", "color", "size", "packed_qty", "shipped_qty", "source_type",
	"match_type", "match_score", "matched_field",
	"best_match_customer", "best_match_po", "best_match_alt_po",
	"best_match_style", "best_match_color", "best_match_size",
	"ordered_qty", "qty_variance", "qty_variance_pct", "quality_flag",
}

var qualityColumns = []string{
	"run_id", "canonical_customer", "effective_po", "style", "color", "row_count",
	"packed_qty", "shipped_qty", "ordered_qty", "match_type", "match_score",
	"qty_variance", "qty_variance_pct", "quality_flag",
}

var summaryUpsert = db.UpsertConfig{
	Table: "audit.customer_summary",
	Columns: []string{
		"run_id", "canonical_customer", "total_records",
		"total_packed_qty", "total_shipped_qty", "total_ordered_qty",
		"exact_matches", "fuzzy_matches", "no_matches",
		"exact_match_rate", "quality_rate",
	},
	ConflictKeys: []string{"run_id", "canonical_customer"},
}

// SaveResult counts the rows written by Sink.Save.
type SaveResult struct {
	Results   int64
	Quality   int64
	Customers int64
}

// Sink writes matching output into the audit schema.
type Sink struct {
	pool db.Pool
}

// NewSink creates a Sink.
func NewSink(pool db.Pool) *Sink {
	return &Sink{pool: pool}
}

// Save persists one run's output. Result and quality rows already stored
// for runID are replaced; summary rows are upserted on
// (run_id, canonical_customer).
func (s *Sink) Save(ctx context.Context, runID string, out *matching.Output) (*SaveResult, error) {
	if runID == "" {
		return nil, eris.New("warehouse: save: run id is required")
	}
	if out == nil {
		return nil, eris.New("warehouse: save: output is nil")
	}

	for _, table := range []string{"audit.match_results", "audit.quality_groups"} {
		if _, err := s.pool.Exec(ctx, "DELETE FROM "+table+" WHERE run_id = $1", runID); err != nil {
			return nil, eris.Wrapf(err, "warehouse: clear %s for run %s", table, runID)
		}
	}

	res := &SaveResult{}
	var err error

	res.Results, err = db.CopyFrom(ctx, s.pool, "audit.match_results", resultColumns, resultRows(runID, out))
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: save results")
	}

	res.Quality, err = db.CopyFrom(ctx, s.pool, "audit.quality_groups", qualityColumns, qualityRows(runID, out))
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: save quality groups")
	}

	res.Customers, err = db.BulkUpsert(ctx, s.pool, summaryUpsert, summaryRows(runID, out))
	if err != nil {
		return nil, eris.Wrap(err, "warehouse: save customer summary")
	}

	zap.L().Info("warehouse: run saved",
		zap.String("run_id", runID),
		zap.Int64("results", res.Results),
		zap.Int64("quality_groups", res.Quality),
		zap.Int64("customers", res.Customers),
	)
	return res, nil
}

func resultRows(runID string, out *matching.Output) [][]any {
	rows := make([][]any, 0, len(out.Results))
	for _, r := range out.Results {
		rows = append(rows, []any{
			runID, r.CustomerKey(), r.Customer, r.CustomerPO, r.CustomerAltPO,
			r.Style, r.PatternID, r.Color, r.Size, r.PackedQty, r.ShippedQty, string(r.SourceType),
			string(r.MatchType), r.MatchScore, string(r.MatchedField),
			r.BestMatchCustomer, r.BestMatchPO, r.BestMatchAltPO,
			r.BestMatchStyle, r.BestMatchColor, r.BestMatchSize,
			r.OrderedQty, r.QtyVariance, r.QtyVariancePct, string(r.QualityFlag),
		})
	}
	return rows
}

func qualityRows(runID string, out *matching.Output) [][]any {
	rows := make([][]any, 0, len(out.Quality))
	for _, g := range out.Quality {
		rows = append(rows, []any{
			runID, g.CanonicalCustomer, g.EffectivePO, g.Style, g.Color, g.Rows,
			g.PackedQty, g.ShippedQty, g.OrderedQty, string(g.MatchType), g.MatchScore,
			g.QtyVariance, g.QtyVariancePct, string(g.QualityFlag),
		})
	}
	return rows
}

func summaryRows(runID string, out *matching.Output) [][]any {
	rows := make([][]any, 0, len(out.Summary))
	for _, c := range out.Summary {
		rows = append(rows, []any{
			runID, c.CanonicalCustomer, c.TotalRecords,
			c.TotalPackedQty, c.TotalShippedQty, c.TotalOrderedQty,
			c.ExactMatches, c.FuzzyMatches, c.NoMatches,
			c.ExactMatchRate, c.QualityRate,
		})
	}
	return rows
}
