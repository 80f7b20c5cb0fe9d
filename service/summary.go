package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/cache"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/models"
	"golang.org/x/sync/errgroup"
)

// SummaryStore is the read side the Engine aggregates over.
type SummaryStore interface {
	KindTotals(ctx context.Context, owner int64, r models.DateRange) (models.KindTotals, error)
	CategoryTotals(ctx context.Context, owner int64, r models.DateRange) ([]models.CategoryTotal, error)
	RecentTransactions(ctx context.Context, owner int64, limit int) ([]models.Transaction, error)
	GlobalTotals(ctx context.Context, r models.DateRange) (models.GlobalTotals, error)
}

type EngineConfig struct {
	CacheSize     int
	CacheTTL      time.Duration
	Location      *time.Location
	Now           func() time.Time
	GlobalEnabled bool
}

// Engine computes financial summaries and caches them per owner and range.
type Engine struct {
	store         SummaryStore
	cache         *cache.LRU[models.Summary]
	loc           *time.Location
	now           func() time.Time
	globalEnabled bool
	log           *logger.Logger

	mu       sync.Mutex
	inflight map[int64]*readers
}

// readers tracks the summary reads of one owner that are still running.
// gen moves on every write; a read only caches its result if gen did not
// move while it ran. Entries exist only while reads are in flight.
type readers struct {
	gen   uint64
	count int
}

func NewEngine(store SummaryStore, cfg EngineConfig, log *logger.Logger) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		store:         store,
		cache:         cache.NewLRU[models.Summary](cfg.CacheSize, cfg.CacheTTL),
		loc:           cfg.Location,
		now:           cfg.Now,
		globalEnabled: cfg.GlobalEnabled,
		log:           log.WithComponent(logger.ComponentSummary),
		inflight:      make(map[int64]*readers),
	}
}

// DefaultRange is the current calendar month in the engine's time zone.
func (e *Engine) DefaultRange() models.DateRange {
	return models.MonthRange(e.now().In(e.loc))
}

// Summary returns owner's summary over r, or over the current month when r
// is nil.
func (e *Engine) Summary(ctx context.Context, owner int64, r *models.DateRange) (models.Summary, error) {
	rng := e.DefaultRange()
	if r != nil {
		rng = *r
	}
	if err := rng.Validate(); err != nil {
		return models.Summary{}, err
	}

	key := summaryKey(owner, rng)
	if s, ok := e.cache.Get(key); ok {
		return cloneSummary(s), nil
	}
	gen := e.beginRead(owner)

	var (
		totals models.KindTotals
		cats   []models.CategoryTotal
		recent []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = e.store.KindTotals(gctx, owner, rng)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = e.store.CategoryTotals(gctx, owner, rng)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = e.store.RecentTransactions(gctx, owner, models.RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		e.endRead(owner, gen, "", models.Summary{})
		return models.Summary{}, fmt.Errorf("summary for %s: %w", rng, err)
	}

	s := Assemble(rng, totals, cats, recent)
	e.endRead(owner, gen, key, cloneSummary(s))
	e.log.DebugContext(ctx, "summary computed",
		logger.FieldOwnerID, owner, logger.FieldOperation, logger.OpSummary, "range", rng.String())
	return s, nil
}

// Assemble builds a Summary from the three aggregate reads.
func Assemble(r models.DateRange, totals models.KindTotals, cats []models.CategoryTotal, recent []models.Transaction) models.Summary {
	if cats == nil {
		cats = []models.CategoryTotal{}
	}
	if recent == nil {
		recent = []models.Transaction{}
	}
	if len(recent) > models.RecentLimit {
		recent = recent[:models.RecentLimit]
	}
	return models.Summary{
		Range:              r,
		TotalIncome:        totals.Income,
		TotalExpense:       totals.Expense,
		Balance:            totals.Balance(),
		RecentTransactions: recent,
		CategoryTotals:     cats,
	}
}

// Invalidate drops every cached summary of owner. Summaries computed while
// the write was in flight are not cached either.
func (e *Engine) Invalidate(owner int64) {
	e.mu.Lock()
	if r, ok := e.inflight[owner]; ok {
		r.gen++
	}
	e.mu.Unlock()
	e.cache.DeletePrefix(ownerPrefix(owner))
}

// GlobalTotals sums every owner's transactions over r. It is meant for
// operators and refuses to run unless enabled.
func (e *Engine) GlobalTotals(ctx context.Context, r models.DateRange) (models.GlobalTotals, error) {
	if !e.globalEnabled {
		return models.GlobalTotals{}, apperr.New(apperr.Unauthorized, "global reports are disabled")
	}
	if err := r.Validate(); err != nil {
		return models.GlobalTotals{}, err
	}
	return e.store.GlobalTotals(ctx, r)
}

func (e *Engine) beginRead(owner int64) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.inflight[owner]
	if !ok {
		r = &readers{}
		e.inflight[owner] = r
	}
	r.count++
	return r.gen
}

// endRead retires a read started at gen, caching s under key when key is
// set and no write happened meanwhile.
func (e *Engine) endRead(owner int64, gen uint64, key string, s models.Summary) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.inflight[owner]
	if key != "" && r.gen == gen {
		e.cache.Set(key, s)
	}
	if r.count--; r.count == 0 {
		delete(e.inflight, owner)
	}
}

// cloneSummary copies the slices so cached summaries are never shared with
// callers.
func cloneSummary(s models.Summary) models.Summary {
	s.RecentTransactions = slices.Clone(s.RecentTransactions)
	s.CategoryTotals = slices.Clone(s.CategoryTotals)
	return s
}

func ownerPrefix(owner int64) string {
	return fmt.Sprintf("owner:%d:", owner)
}

func summaryKey(owner int64, r models.DateRange) string {
	return ownerPrefix(owner) + r.String()
}
