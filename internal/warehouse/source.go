package warehouse

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Active-Apparel-Group/data-orchestration/internal/db"
	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

// TableConfig names the staging tables holding each extract. Names may be
// schema-qualified.
type TableConfig struct {
	Packed  string
	Shipped string
	Orders  string
}

// Source loads extracts from staging tables.
type Source struct {
	pool   db.Pool
	tables TableConfig
}

// NewSource creates a Source over the given tables.
func NewSource(pool db.Pool, tables TableConfig) *Source {
	return &Source{pool: pool, tables: tables}
}

// Tables returns the configured staging tables.
func (s *Source) Tables() TableConfig {
	return s.tables
}

const recordColumns = `COALESCE(canonical_customer, ''), COALESCE(customer, ''),
		COALESCE(customer_po, ''), COALESCE(customer_alt_po, ''),
		COALESCE(style, ''), COALESCE(pattern_id, ''),
		COALESCE(color, ''), COALESCE(size, '')`

func selectSQL(table, qtyColumn string) string {
	return fmt.Sprintf("SELECT %s, COALESCE(%s, 0)::float8 FROM %s",
		recordColumns, qtyColumn, db.QuoteTable(table))
}

// Records reads packed or shipped lines from table.
func (s *Source) Records(ctx context.Context, table string) ([]model.Record, error) {
	rows, err := s.pool.Query(ctx, selectSQL(table, "qty"))
	if err != nil {
		return nil, eris.Wrapf(err, "warehouse: query %s", table)
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(
			&r.CanonicalCustomer, &r.Customer, &r.CustomerPO, &r.CustomerAltPO,
			&r.Style, &r.PatternID, &r.Color, &r.Size, &r.Qty,
		); err != nil {
			return nil, eris.Wrapf(err, "warehouse: scan %s", table)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "warehouse: iterate %s", table)
	}
	return out, nil
}

// Orders reads order lines from the orders table.
func (s *Source) Orders(ctx context.Context) ([]model.OrderRecord, error) {
	table := s.tables.Orders
	rows, err := s.pool.Query(ctx, selectSQL(table, "ordered_qty"))
	if err != nil {
		return nil, eris.Wrapf(err, "warehouse: query %s", table)
	}
	defer rows.Close()

	var out []model.OrderRecord
	for rows.Next() {
		var o model.OrderRecord
		if err := rows.Scan(
			&o.CanonicalCustomer, &o.Customer, &o.CustomerPO, &o.CustomerAltPO,
			&o.Style, &o.PatternID, &o.Color, &o.Size, &o.OrderedQty,
		); err != nil {
			return nil, eris.Wrapf(err, "warehouse: scan %s", table)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "warehouse: iterate %s", table)
	}
	return out, nil
}

// Inputs is everything one matching run reads.
type Inputs struct {
	Packed  []model.Record
	Shipped []model.Record
	Orders  []model.OrderRecord
}

// Load reads all three extracts concurrently. An empty table name skips
// that extract.
func (s *Source) Load(ctx context.Context) (*Inputs, error) {
	in := &Inputs{}
	g, gctx := errgroup.WithContext(ctx)

	if s.tables.Packed != "" {
		g.Go(func() error {
			var err error
			in.Packed, err = s.Records(gctx, s.tables.Packed)
			return err
		})
	}
	if s.tables.Shipped != "" {
		g.Go(func() error {
			var err error
			in.Shipped, err = s.Records(gctx, s.tables.Shipped)
			return err
		})
	}
	if s.tables.Orders != "" {
		g.Go(func() error {
			var err error
			in.Orders, err = s.Orders(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("warehouse: inputs loaded",
		zap.Int("packed", len(in.Packed)),
		zap.Int("shipped", len(in.Shipped)),
		zap.Int("orders", len(in.Orders)),
	)
	return in, nil
}
