// Package app wires the pipeline stages together: fetch, normalize, merge,
// filter, resolve deadlines, and write the report.
package app

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"call4papers/internal/cache"
	"call4papers/internal/conference"
	"call4papers/internal/config"
	"call4papers/internal/deadline"
	"call4papers/internal/metrics"
	"call4papers/internal/queue"
	"call4papers/internal/report"
	"call4papers/internal/source"
)

// RankingSource is the contract the pipeline needs from a ranking dataset.
type RankingSource interface {
	Fetch(ctx context.Context, force bool) ([]conference.RawRow, error)
}

// Options parameterizes one run. Zero values mean "feature off".
type Options struct {
	Filter        conference.FilterSpec
	RefSource     conference.RefSource
	Output        string
	ForceDownload bool
	IgnoreWikiCFP bool
	IgnoreGGS     bool
	OnlyNextYear  bool
	InTime        bool
	SortByRating  bool
	ShowExtra     bool
	Progress      bool
}

// App holds the wired pipeline components.
type App struct {
	cfg      config.Config
	opts     Options
	store    cache.Store
	core     RankingSource
	ggs      RankingSource
	resolver *deadline.Resolver
}

// New builds the production wiring: sqlite (or Postgres) scrape cache,
// scrapers against the public portals, and a throttled deadline resolver.
func New(cfg config.Config, opts Options) (*App, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, eris.Wrap(err, "app: create cache dir")
	}
	if dir := filepath.Dir(cfg.CachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "app: create cache dir")
		}
	}

	var store cache.Store
	if cfg.CacheDatabaseURL != "" {
		pg, err := cache.OpenPostgres(cfg.CacheDatabaseURL)
		if err != nil {
			log.Printf("app: postgres cache unavailable, falling back to sqlite: %v", err)
		} else {
			log.Printf("app: using postgres scrape cache")
			store = pg
		}
	}
	if store == nil {
		sq, err := cache.OpenSQLite(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		store = sq
	}

	client := source.NewClient(cfg.HTTPTimeout)
	a := &App{
		cfg:   cfg,
		opts:  opts,
		store: store,
		core: &source.CoreSource{
			Client:  client,
			Cache:   store,
			BaseURL: cfg.CoreBaseURL,
			MaxAge:  cfg.CacheMaxAge,
		},
		ggs: &source.GGSSource{
			Client: client,
			Cache:  store,
			URL:    cfg.GGSURL,
			MaxAge: cfg.CacheMaxAge,
		},
	}

	wikicfp := &source.WikiCFP{
		Client:  client,
		BaseURL: cfg.WikiCFPBaseURL,
		Limiter: rate.NewLimiter(rate.Limit(cfg.LookupsPerSec), 1),
	}
	if opts.OnlyNextYear {
		wikicfp.YearMode = source.YearModeNextOnly
	}
	a.resolver = deadline.NewResolver(wikicfp.Lookup)
	a.resolver.OnlyNextYear = opts.OnlyNextYear
	a.resolver.InTime = opts.InTime
	return a, nil
}

// NewWithSources builds an app from explicit collaborators. Used by tests.
func NewWithSources(cfg config.Config, opts Options, core, ggs RankingSource, lookup deadline.LookupFunc) *App {
	a := &App{cfg: cfg, opts: opts, core: core, ggs: ggs}
	if lookup != nil {
		a.resolver = deadline.NewResolver(lookup)
		a.resolver.OnlyNextYear = opts.OnlyNextYear
		a.resolver.InTime = opts.InTime
	}
	return a
}

// Close releases the cache store.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Run executes the whole pipeline and writes the CSV report. Ranking
// sources failing entirely is fatal; individual deadline lookups are not.
func (a *App) Run(ctx context.Context) error {
	coreRows, err := a.core.Fetch(ctx, a.opts.ForceDownload)
	if err != nil {
		return eris.Wrap(err, "app: CORE source")
	}
	var ggsRows []conference.RawRow
	if !a.opts.IgnoreGGS && a.ggs != nil {
		ggsRows, err = a.ggs.Fetch(ctx, a.opts.ForceDownload)
		if err != nil {
			return eris.Wrap(err, "app: GGS source")
		}
	}

	coreRows = conference.Normalize(coreRows)
	ggsRows = conference.Normalize(ggsRows)
	merged := conference.Merge(coreRows, ggsRows, a.opts.RefSource)
	filtered := conference.Filter(merged, a.opts.Filter)
	log.Printf("app: %d records after merge, %d after filtering", len(merged), len(filtered))

	rows := a.resolveAll(ctx, filtered)
	if err := ctx.Err(); err != nil {
		return err
	}
	report.Sort(rows, a.opts.SortByRating)

	if a.opts.Output != "" {
		if err := a.writeReport(rows); err != nil {
			return err
		}
	}
	for name, value := range metrics.Snapshot() {
		if value > 0 {
			log.Printf("app: %s=%d", name, value)
		}
	}
	return nil
}

// resolveAll attaches deadlines to every record using a bounded worker
// pool. Each record's lookup is independent; results are reinserted at the
// record's original position and then flattened, one output row per
// resolved year, or a single bare row when nothing resolved.
func (a *App) resolveAll(ctx context.Context, records []conference.Record) []report.Row {
	if a.opts.IgnoreWikiCFP || a.resolver == nil {
		rows := make([]report.Row, 0, len(records))
		for _, rec := range records {
			rows = append(rows, report.NewRow(rec, nil))
		}
		return rows
	}

	results := make([][]deadline.Resolved, len(records))
	workers := a.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	pool := queue.New(workers*2, workers, a.cfg.JobTimeout)
	pool.Start(ctx)

	var bar *progressbar.ProgressBar
	if a.opts.Progress {
		bar = progressbar.Default(int64(len(records)), "resolving deadlines")
	}

	for i := range records {
		i := i
		rec := records[i]
		pool.Enqueue(ctx, queue.Job{
			ID: rec.Acronym,
			Work: func(jobCtx context.Context) error {
				res, err := a.resolver.Resolve(jobCtx, rec.Title, rec.Acronym)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			},
			OnFinish: func(err error) {
				if bar != nil {
					_ = bar.Add(1)
				}
				if err != nil {
					metrics.IncLookupFailed()
					log.Printf("app: deadline lookup for %s failed: %v", rec.Acronym, err)
				}
			},
		})
	}

	done := make(chan struct{})
	go func() {
		pool.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	pool.Stop()

	var rows []report.Row
	for i, rec := range records {
		if len(results[i]) == 0 {
			metrics.IncLookupEmpty()
			rows = append(rows, report.NewRow(rec, nil))
			continue
		}
		for _, res := range results[i] {
			res := res
			rows = append(rows, report.NewRow(rec, &res))
			metrics.IncResolved()
		}
	}
	return rows
}

func (a *App) writeReport(rows []report.Row) error {
	f, err := os.Create(a.opts.Output)
	if err != nil {
		return eris.Wrap(err, "app: create output")
	}
	defer f.Close()
	if err := report.WriteCSV(f, rows, a.opts.ShowExtra); err != nil {
		return err
	}
	abs, _ := filepath.Abs(a.opts.Output)
	log.Printf("app: report saved, %d rows (%s)", len(rows), abs)
	return nil
}
