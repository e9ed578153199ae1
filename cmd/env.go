package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/Active-Apparel-Group/data-orchestration/internal/customer"
	"github.com/Active-Apparel-Group/data-orchestration/internal/db"
	"github.com/Active-Apparel-Group/data-orchestration/internal/fetcher"
	"github.com/Active-Apparel-Group/data-orchestration/internal/store"
	"github.com/Active-Apparel-Group/data-orchestration/internal/warehouse"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "audit.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadCustomers reads the canonical customer mapping. path overrides
// match.customers_file; an empty result means no mapping.
func loadCustomers(path string) (*customer.Lookup, error) {
	if path == "" {
		path = cfg.Match.CustomersFile
	}
	if path == "" {
		return nil, nil
	}
	return customer.Load(path)
}

func resolveThreshold(flag float64) float64 {
	if flag > 0 {
		return flag
	}
	return cfg.Match.FuzzyThreshold
}

func remoteOptions() fetcher.RemoteOptions {
	timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second
	opts := fetcher.RemoteOptions{
		HTTP: fetcher.HTTPOptions{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    timeout,
			MaxRetries: cfg.Fetch.MaxRetries,
			RateLimit:  rate.Limit(cfg.Fetch.RateLimit),
		},
		FTP: fetcher.FTPOptions{Timeout: timeout},
	}
	if cfg.Fetch.AuthToken != "" {
		opts.HTTP.Header = http.Header{"Authorization": []string{"Bearer " + cfg.Fetch.AuthToken}}
	}
	return opts
}

func warehouseTables() warehouse.TableConfig {
	return warehouse.TableConfig{
		Packed:  cfg.Warehouse.PackedTable,
		Shipped: cfg.Warehouse.ShippedTable,
		Orders:  cfg.Warehouse.OrdersTable,
	}
}

func connectWarehouse(ctx context.Context) (*pgxpool.Pool, error) {
	url := cfg.WarehouseURL()
	if url == "" {
		return nil, eris.New("warehouse database URL is required (AUDIT_WAREHOUSE_DATABASE_URL)")
	}
	pool, err := db.Connect(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "connect warehouse")
	}
	return pool, nil
}
