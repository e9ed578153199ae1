package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Active-Apparel-Group/data-orchestration/internal/fetcher"
	"github.com/Active-Apparel-Group/data-orchestration/internal/warehouse"
)

// FileSources names the three extracts by local path or URL. An empty
// field skips that extract.
type FileSources struct {
	Packed  string
	Shipped string
	Orders  string
}

// String joins the non-empty sources for run history.
func (f FileSources) String() string {
	var parts []string
	for _, s := range []string{f.Packed, f.Shipped, f.Orders} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ",")
}

// LoadFiles reads the extracts concurrently. Remote sources are downloaded
// into a temporary directory that is removed before LoadFiles returns.
func LoadFiles(ctx context.Context, src FileSources, opts fetcher.LoadOptions, remote fetcher.RemoteOptions) (Inputs, error) {
	in := Inputs{Source: src.String()}

	tmp, err := os.MkdirTemp("", "audit-inputs-*")
	if err != nil {
		return in, eris.Wrap(err, "pipeline: create temp dir")
	}
	defer os.RemoveAll(tmp) //nolint:errcheck

	// Each remote source gets its own subdirectory so equal file names
	// from different hosts do not collide.
	localize := func(ctx context.Context, name, s string) (string, error) {
		dir := filepath.Join(tmp, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", eris.Wrap(err, "pipeline: create temp dir")
		}
		return fetcher.Localize(ctx, s, dir, remote)
	}

	g, gctx := errgroup.WithContext(ctx)
	if src.Packed != "" {
		g.Go(func() error {
			path, err := localize(gctx, "packed", src.Packed)
			if err != nil {
				return err
			}
			in.Packed, err = fetcher.LoadRecords(path, opts)
			return eris.Wrap(err, "pipeline: load packed")
		})
	}
	if src.Shipped != "" {
		g.Go(func() error {
			path, err := localize(gctx, "shipped", src.Shipped)
			if err != nil {
				return err
			}
			in.Shipped, err = fetcher.LoadRecords(path, opts)
			return eris.Wrap(err, "pipeline: load shipped")
		})
	}
	if src.Orders != "" {
		g.Go(func() error {
			path, err := localize(gctx, "orders", src.Orders)
			if err != nil {
				return err
			}
			in.Orders, err = fetcher.LoadOrders(path, opts)
			return eris.Wrap(err, "pipeline: load orders")
		})
	}
	if err := g.Wait(); err != nil {
		return Inputs{Source: in.Source}, err
	}

	zap.L().Debug("pipeline: inputs loaded",
		zap.String("source", in.Source),
		zap.Int("packed", len(in.Packed)),
		zap.Int("shipped", len(in.Shipped)),
		zap.Int("orders", len(in.Orders)),
	)
	return in, nil
}

// LoadWarehouse reads the extracts from Postgres staging tables.
func LoadWarehouse(ctx context.Context, src *warehouse.Source) (Inputs, error) {
	wi, err := src.Load(ctx)
	if err != nil {
		return Inputs{}, eris.Wrap(err, "pipeline: load warehouse")
	}
	tables := src.Tables()
	source := "postgres:" + FileSources{
		Packed:  tables.Packed,
		Shipped: tables.Shipped,
		Orders:  tables.Orders,
	}.String()
	return Inputs{
		Source:  source,
		Packed:  wi.Packed,
		Shipped: wi.Shipped,
		Orders:  wi.Orders,
	}, nil
}
