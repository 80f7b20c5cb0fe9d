package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/models"
)

const transactionSelect = `
	SELECT t.id, t.owner_id, t.amount_cents, t.description, t.date, t.kind,
	       t.category_id, c.name, t.source, t.payment_method,
	       t.created_at, t.updated_at, t.deleted_at, t.is_deleted
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

var transactionOrder = map[models.Ordering]string{
	models.OrderDateDesc:    "t.date DESC, t.id DESC",
	models.OrderDateAsc:     "t.date ASC, t.id ASC",
	models.OrderAmountAsc:   "t.amount_cents ASC, t.id ASC",
	models.OrderAmountDesc:  "t.amount_cents DESC, t.id DESC",
	models.OrderCreatedAsc:  "t.created_at ASC, t.id ASC",
	models.OrderCreatedDesc: "t.created_at DESC, t.id DESC",
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.OwnerID, &t.Amount.Cents, &t.Description, &t.Date, &t.Kind,
		&t.CategoryID, &t.CategoryName, &t.Source, &t.PaymentMethod,
		timeValue{&t.CreatedAt}, timeValue{&t.UpdatedAt}, nullTimeValue{&t.DeletedAt}, &t.IsDeleted)
	return t, err
}

// CreateTransaction inserts a transaction for owner. The category is
// checked and share-locked in the same database transaction as the insert,
// so its kind cannot change before the row is committed.
func (s *Storage) CreateTransaction(ctx context.Context, owner int64, in models.TransactionInput) (models.Transaction, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return models.Transaction{}, err
	}

	var created models.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.lockCategoryFor(ctx, tx, owner, in.CategoryID, in.Kind); err != nil {
			return err
		}

		_, stamp := s.timestamp()
		var id int64
		err := tx.QueryRowContext(ctx, s.rebind(`
			INSERT INTO transactions (owner_id, amount_cents, description, date, kind, category_id,
			                          source, payment_method, created_at, updated_at, is_deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE)
			RETURNING id`),
			owner, in.Amount.Cents, in.Description, in.Date, string(in.Kind), in.CategoryID,
			in.Source, string(in.PaymentMethod), stamp, stamp,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		created, err = s.getTransaction(ctx, tx, owner, id, false)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}

	s.log.DebugContext(ctx, "transaction created",
		logger.FieldOwnerID, owner, logger.FieldEntityID, created.ID, logger.FieldOperation, logger.OpCreate)
	return created, nil
}

// lockCategoryFor checks that category is a live category of owner with the
// given kind and holds a share lock on it until the transaction ends.
func (s *Storage) lockCategoryFor(ctx context.Context, tx *sql.Tx, owner, category int64, kind models.Kind) error {
	var found int64
	err := tx.QueryRowContext(ctx, s.rebind(`
		SELECT id FROM categories
		WHERE id = ? AND owner_id = ? AND kind = ? AND is_deleted = FALSE`+s.lockRow("SHARE")),
		category, owner, string(kind),
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.InvalidCategory,
			"category %d is not a live %s category of this user", category, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to check category %d: %w", category, err)
	}
	return nil
}

// GetTransaction returns a transaction of owner, soft-deleted ones included.
func (s *Storage) GetTransaction(ctx context.Context, owner, id int64) (models.Transaction, error) {
	return s.getTransaction(ctx, s.DB, owner, id, false)
}

func (s *Storage) getTransaction(ctx context.Context, q querier, owner, id int64, liveOnly bool) (models.Transaction, error) {
	query := transactionSelect + ` WHERE t.id = ? AND t.owner_id = ?`
	if liveOnly {
		query += ` AND t.is_deleted = FALSE`
	}
	t, err := scanTransaction(q.QueryRowContext(ctx, s.rebind(query), id, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, apperr.New(apperr.NotFound, "transaction %d not found", id)
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return t, nil
}

// UpdateTransaction applies patch to a live transaction of owner. When the
// category or kind changes the new category is checked in the same
// database transaction as the write.
func (s *Storage) UpdateTransaction(ctx context.Context, owner, id int64, patch models.TransactionPatch) (models.Transaction, error) {
	var updated models.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getTransaction(ctx, tx, owner, id, true)
		if err != nil {
			return err
		}
		in := patch.Apply(current)
		if err := in.Validate(); err != nil {
			return err
		}

		if in.CategoryID != current.CategoryID || in.Kind != current.Kind {
			if err := s.lockCategoryFor(ctx, tx, owner, in.CategoryID, in.Kind); err != nil {
				return err
			}
		}

		_, stamp := s.timestamp()
		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE transactions
			SET amount_cents = ?, description = ?, date = ?, kind = ?, category_id = ?,
			    source = ?, payment_method = ?, updated_at = ?
			WHERE id = ? AND owner_id = ? AND is_deleted = FALSE`),
			in.Amount.Cents, in.Description, in.Date, string(in.Kind), in.CategoryID,
			in.Source, string(in.PaymentMethod), stamp, id, owner,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction %d: %w", id, err)
		}
		updated, err = s.getTransaction(ctx, tx, owner, id, true)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.log.DebugContext(ctx, "transaction updated",
		logger.FieldOwnerID, owner, logger.FieldEntityID, id, logger.FieldOperation, logger.OpUpdate)
	return updated, nil
}

// SoftDeleteTransaction marks a live transaction deleted. Deleting it again
// yields NotFound.
func (s *Storage) SoftDeleteTransaction(ctx context.Context, owner, id int64) error {
	_, stamp := s.timestamp()
	res, err := s.DB.ExecContext(ctx, s.rebind(`
		UPDATE transactions SET is_deleted = TRUE, deleted_at = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND is_deleted = FALSE`),
		stamp, stamp, id, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, "transaction %d not found", id)
	}
	s.log.DebugContext(ctx, "transaction deleted",
		logger.FieldOwnerID, owner, logger.FieldEntityID, id, logger.FieldOperation, logger.OpDelete)
	return nil
}

// transactionWhere builds the WHERE clause shared by listing and counting.
func (s *Storage) transactionWhere(owner int64, f models.TransactionFilter) (string, []any) {
	conds := []string{"t.owner_id = ?", "t.is_deleted = FALSE"}
	args := []any{owner}
	if f.Kind != "" {
		conds = append(conds, "t.kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.CategoryID > 0 {
		conds = append(conds, "t.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Range != nil {
		conds = append(conds, "t.date >= ?", "t.date <= ?")
		args = append(args, f.Range.Start, f.Range.End)
	}
	if f.PaymentMethod != "" {
		conds = append(conds, "t.payment_method = ?")
		args = append(args, string(f.PaymentMethod))
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		conds = append(conds, "("+s.lower("t.description")+` LIKE ? ESCAPE '\' OR `+s.lower("t.source")+` LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListTransactions streams the live transactions of owner matching f. The
// query runs each time the sequence is ranged over.
func (s *Storage) ListTransactions(ctx context.Context, owner int64, f models.TransactionFilter) iter.Seq2[models.Transaction, error] {
	return func(yield func(models.Transaction, error) bool) {
		if err := f.Validate(); err != nil {
			yield(models.Transaction{}, err)
			return
		}
		where, args := s.transactionWhere(owner, f)
		ordering := f.Ordering
		if ordering == "" {
			ordering = models.DefaultOrdering
		}
		query := transactionSelect + where + " ORDER BY " + transactionOrder[ordering]
		switch {
		case f.Limit > 0:
			query += " LIMIT ? OFFSET ?"
			args = append(args, f.Limit, f.Offset)
		case f.Offset > 0 && s.dialect == SQLite:
			query += " LIMIT -1 OFFSET ?"
			args = append(args, f.Offset)
		case f.Offset > 0:
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}

		rows, err := s.DB.QueryContext(ctx, s.rebind(query), args...)
		if err != nil {
			yield(models.Transaction{}, fmt.Errorf("failed to list transactions: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTransaction(rows)
			if err != nil {
				yield(models.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err))
				return
			}
			if !yield(t, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Transaction{}, fmt.Errorf("failed to list transactions: %w", err))
		}
	}
}

// CountTransactions counts the live transactions of owner matching f,
// ignoring paging.
func (s *Storage) CountTransactions(ctx context.Context, owner int64, f models.TransactionFilter) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	where, args := s.transactionWhere(owner, f)
	var n int64
	if err := s.DB.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM transactions t`+where), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}
