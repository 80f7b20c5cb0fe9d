package service

import (
	"context"
	"iter"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/events"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/models"
)

// Ledger is the owner-scoped storage the gateway fronts.
type Ledger interface {
	CreateCategory(ctx context.Context, owner int64, in models.CategoryInput) (models.Category, error)
	ListCategories(ctx context.Context, owner int64, f models.CategoryFilter) iter.Seq2[models.Category, error]
	GetCategory(ctx context.Context, owner, id int64) (models.Category, error)
	UpdateCategory(ctx context.Context, owner, id int64, patch models.CategoryPatch) (models.Category, error)
	SoftDeleteCategory(ctx context.Context, owner, id int64) error
	HardDeleteCategory(ctx context.Context, owner, id int64) error

	CreateTransaction(ctx context.Context, owner int64, in models.TransactionInput) (models.Transaction, error)
	ListTransactions(ctx context.Context, owner int64, f models.TransactionFilter) iter.Seq2[models.Transaction, error]
	CountTransactions(ctx context.Context, owner int64, f models.TransactionFilter) (int64, error)
	GetTransaction(ctx context.Context, owner, id int64) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, owner, id int64, patch models.TransactionPatch) (models.Transaction, error)
	SoftDeleteTransaction(ctx context.Context, owner, id int64) error
}

// Gateway turns an authenticated identity into a Scope bound to that owner.
type Gateway struct {
	store  Ledger
	engine *Engine
	events events.Publisher
	log    *logger.Logger
}

func NewGateway(store Ledger, engine *Engine, pub events.Publisher, log *logger.Logger) *Gateway {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{store: store, engine: engine, events: pub, log: log.WithComponent(logger.ComponentGateway)}
}

// For returns the Scope of id's owner, or Unauthorized if id is unresolved.
func (g *Gateway) For(id models.Identity) (*Scope, error) {
	if !id.Resolved() {
		return nil, apperr.New(apperr.Unauthorized, "authentication required")
	}
	return &Scope{g: g, owner: id.UserID}, nil
}

// Scope performs every operation on behalf of one owner. Records of other
// owners are invisible through it and surface as NotFound.
type Scope struct {
	g     *Gateway
	owner int64
}

func (s *Scope) Owner() int64 {
	return s.owner
}

func (s *Scope) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	c, err := s.g.store.CreateCategory(ctx, s.owner, in)
	if err != nil {
		return models.Category{}, err
	}
	s.changed(ctx, events.CategoryCreated, c.ID)
	return c, nil
}

func (s *Scope) ListCategories(ctx context.Context, f models.CategoryFilter) iter.Seq2[models.Category, error] {
	return s.g.store.ListCategories(ctx, s.owner, f)
}

func (s *Scope) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	return s.g.store.GetCategory(ctx, s.owner, id)
}

func (s *Scope) UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (models.Category, error) {
	c, err := s.g.store.UpdateCategory(ctx, s.owner, id, patch)
	if err != nil {
		return models.Category{}, err
	}
	s.changed(ctx, events.CategoryUpdated, id)
	return c, nil
}

// DeleteCategory soft-deletes a category.
func (s *Scope) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.g.store.SoftDeleteCategory(ctx, s.owner, id); err != nil {
		return err
	}
	s.changed(ctx, events.CategoryDeleted, id)
	return nil
}

// PurgeCategory removes a soft-deleted, unreferenced category for good.
func (s *Scope) PurgeCategory(ctx context.Context, id int64) error {
	if err := s.g.store.HardDeleteCategory(ctx, s.owner, id); err != nil {
		return err
	}
	s.changed(ctx, events.CategoryPurged, id)
	return nil
}

func (s *Scope) CreateTransaction(ctx context.Context, in models.TransactionInput) (models.Transaction, error) {
	t, err := s.g.store.CreateTransaction(ctx, s.owner, in)
	if err != nil {
		return models.Transaction{}, err
	}
	s.changed(ctx, events.TransactionCreated, t.ID)
	return t, nil
}

func (s *Scope) ListTransactions(ctx context.Context, f models.TransactionFilter) iter.Seq2[models.Transaction, error] {
	return s.g.store.ListTransactions(ctx, s.owner, f)
}

func (s *Scope) CountTransactions(ctx context.Context, f models.TransactionFilter) (int64, error) {
	return s.g.store.CountTransactions(ctx, s.owner, f)
}

func (s *Scope) GetTransaction(ctx context.Context, id int64) (models.Transaction, error) {
	return s.g.store.GetTransaction(ctx, s.owner, id)
}

func (s *Scope) UpdateTransaction(ctx context.Context, id int64, patch models.TransactionPatch) (models.Transaction, error) {
	t, err := s.g.store.UpdateTransaction(ctx, s.owner, id, patch)
	if err != nil {
		return models.Transaction{}, err
	}
	s.changed(ctx, events.TransactionUpdated, id)
	return t, nil
}

// DeleteTransaction soft-deletes a transaction.
func (s *Scope) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.g.store.SoftDeleteTransaction(ctx, s.owner, id); err != nil {
		return err
	}
	s.changed(ctx, events.TransactionDeleted, id)
	return nil
}

// Summary aggregates the owner's ledger over r, defaulting to the current
// month when r is nil.
func (s *Scope) Summary(ctx context.Context, r *models.DateRange) (models.Summary, error) {
	return s.g.engine.Summary(ctx, s.owner, r)
}

// changed runs after every successful write. Publishing is best effort.
func (s *Scope) changed(ctx context.Context, t events.Type, entity int64) {
	s.g.engine.Invalidate(s.owner)
	if err := s.g.events.Publish(ctx, events.New(t, s.owner, entity)); err != nil {
		s.g.log.WarnContext(ctx, "event not published",
			logger.FieldEvent, t, logger.FieldOwnerID, s.owner, logger.FieldEntityID, entity, logger.FieldError, err)
	}
}
