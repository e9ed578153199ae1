// Package pipeline runs one audit end to end: canonical customer lookup,
// matching, optional warehouse persistence and run history bookkeeping.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Active-Apparel-Group/data-orchestration/internal/customer"
	"github.com/Active-Apparel-Group/data-orchestration/internal/matching"
	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
	"github.com/Active-Apparel-Group/data-orchestration/internal/store"
	"github.com/Active-Apparel-Group/data-orchestration/internal/warehouse"
)

// Saver persists a run's output. *warehouse.Sink implements it.
type Saver interface {
	Save(ctx context.Context, runID string, out *matching.Output) (*warehouse.SaveResult, error)
}

// Inputs is what one audit reads.
type Inputs struct {
	// Source describes where the rows came from; it is recorded on the run.
	Source  string
	Packed  []model.Record
	Shipped []model.Record
	Orders  []model.OrderRecord
}

// Result is what one audit produced.
type Result struct {
	Run    *model.Run
	Output *matching.Output
	Saved  *warehouse.SaveResult
}

// Pipeline wires the matcher to run history and the warehouse sink.
type Pipeline struct {
	store     store.Store
	customers *customer.Lookup
	sink      Saver
	matcher   *matching.Matcher
}

// New creates a Pipeline. customers and sink may be nil: without a lookup,
// customer names are only normalized; without a sink nothing is persisted
// beyond run history.
func New(st store.Store, customers *customer.Lookup, sink Saver, threshold float64) *Pipeline {
	return &Pipeline{
		store:     st,
		customers: customers,
		sink:      sink,
		matcher:   matching.New(matching.Options{Threshold: threshold}),
	}
}

// Threshold returns the fuzzy threshold the pipeline matches with.
func (p *Pipeline) Threshold() float64 {
	return p.matcher.Threshold()
}

// Run audits in. The run is recorded as running before matching starts and
// marked complete or failed when it ends. Run mutates the CanonicalCustomer
// of rows that lack one.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("source", in.Source))

	run, err := p.store.CreateRun(ctx, in.Source, p.matcher.Threshold())
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	log = log.With(zap.String("run_id", run.ID))
	log.Info("pipeline: run started",
		zap.Int("packed", len(in.Packed)),
		zap.Int("shipped", len(in.Shipped)),
		zap.Int("orders", len(in.Orders)),
	)

	fail := func(cause error) error {
		if ferr := p.store.FailRun(ctx, run.ID, cause.Error()); ferr != nil {
			log.Warn("pipeline: failed to record failure", zap.Error(ferr))
		}
		run.Status = model.RunStatusFailed
		run.Error = cause.Error()
		return cause
	}

	if err := ctx.Err(); err != nil {
		return nil, fail(eris.Wrap(err, "pipeline: canceled"))
	}

	unknown := p.customers.ApplyRecords(in.Packed) +
		p.customers.ApplyRecords(in.Shipped) +
		p.customers.ApplyOrders(in.Orders)
	if unknown > 0 && p.customers != nil {
		log.Warn("pipeline: customers missing from mapping", zap.Int("rows", unknown))
	}

	out := p.matcher.Run(in.Packed, in.Shipped, in.Orders)
	res := &Result{Run: run, Output: out}

	if p.sink != nil {
		saved, err := p.sink.Save(ctx, run.ID, out)
		if err != nil {
			return nil, fail(eris.Wrap(err, "pipeline: save output"))
		}
		res.Saved = saved
	}

	stats := out.Stats(len(in.Packed), len(in.Shipped), len(in.Orders))
	if err := p.store.CompleteRun(ctx, run.ID, &stats); err != nil {
		log.Warn("pipeline: failed to record completion", zap.Error(err))
	}
	run.Status = model.RunStatusComplete
	run.Stats = &stats

	log.Info("pipeline: run complete",
		zap.Int("results", stats.ResultRows),
		zap.Int("exact", stats.ExactMatches),
		zap.Int("fuzzy", stats.FuzzyMatches),
		zap.Int("no_match", stats.NoMatches),
		zap.Float64("exact_match_rate", stats.ExactMatchRate),
		zap.Float64("quality_rate", stats.QualityRate),
	)
	return res, nil
}
