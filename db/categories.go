package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/models"
)

const categoryColumns = `id, owner_id, name, kind, created_at, updated_at, deleted_at, is_deleted`

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Kind,
		timeValue{&c.CreatedAt}, timeValue{&c.UpdatedAt}, nullTimeValue{&c.DeletedAt}, &c.IsDeleted)
	return c, err
}

// CreateCategory inserts a live category for owner. A live category with the
// same name and kind yields DuplicateCategory.
func (s *Storage) CreateCategory(ctx context.Context, owner int64, in models.CategoryInput) (models.Category, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return models.Category{}, err
	}
	now, stamp := s.timestamp()
	c := models.Category{OwnerID: owner, Name: in.Name, Kind: in.Kind, CreatedAt: now, UpdatedAt: now}

	err := s.DB.QueryRowContext(ctx, s.rebind(`
		INSERT INTO categories (owner_id, name, kind, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, FALSE)
		RETURNING id`),
		owner, in.Name, string(in.Kind), stamp, stamp,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Category{}, apperr.Wrap(apperr.DuplicateCategory, err,
				"category %q of kind %s already exists", in.Name, in.Kind)
		}
		return models.Category{}, fmt.Errorf("failed to create category: %w", err)
	}

	s.log.DebugContext(ctx, "category created",
		logger.FieldOwnerID, owner, logger.FieldEntityID, c.ID, logger.FieldOperation, logger.OpCreate)
	return c, nil
}

// GetCategory returns a live category of owner.
func (s *Storage) GetCategory(ctx context.Context, owner, id int64) (models.Category, error) {
	return s.getLiveCategory(ctx, s.DB, owner, id, "")
}

func (s *Storage) getLiveCategory(ctx context.Context, q querier, owner, id int64, lock string) (models.Category, error) {
	row := q.QueryRowContext(ctx, s.rebind(`
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = ? AND owner_id = ? AND is_deleted = FALSE`+lock),
		id, owner,
	)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, apperr.New(apperr.NotFound, "category %d not found", id)
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return c, nil
}

// ListCategories streams the live categories of owner ordered by name. The
// query runs each time the sequence is ranged over.
func (s *Storage) ListCategories(ctx context.Context, owner int64, f models.CategoryFilter) iter.Seq2[models.Category, error] {
	return func(yield func(models.Category, error) bool) {
		if err := f.Validate(); err != nil {
			yield(models.Category{}, err)
			return
		}
		query := `SELECT ` + categoryColumns + ` FROM categories WHERE owner_id = ? AND is_deleted = FALSE`
		args := []any{owner}
		if f.Kind != "" {
			query += ` AND kind = ?`
			args = append(args, string(f.Kind))
		}
		if f.Search != "" {
			query += ` AND ` + s.lower("name") + ` LIKE ? ESCAPE '\'`
			args = append(args, likePattern(f.Search))
		}
		query += ` ORDER BY name, id`

		rows, err := s.DB.QueryContext(ctx, s.rebind(query), args...)
		if err != nil {
			yield(models.Category{}, fmt.Errorf("failed to list categories: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCategory(rows)
			if err != nil {
				yield(models.Category{}, fmt.Errorf("failed to scan category: %w", err))
				return
			}
			if !yield(c, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Category{}, fmt.Errorf("failed to list categories: %w", err))
		}
	}
}

// UpdateCategory renames a live category or changes its kind. The kind
// cannot change while any transaction references the category.
func (s *Storage) UpdateCategory(ctx context.Context, owner, id int64, patch models.CategoryPatch) (models.Category, error) {
	var updated models.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getLiveCategory(ctx, tx, owner, id, s.lockRow("UPDATE"))
		if err != nil {
			return err
		}
		in := patch.Apply(current)
		if err := in.Validate(); err != nil {
			return err
		}

		if in.Kind != current.Kind {
			refs, err := s.countCategoryRefs(ctx, tx, id)
			if err != nil {
				return err
			}
			if refs > 0 {
				return apperr.New(apperr.ReferentialConflict,
					"category %d is used by %d transactions and cannot change kind", id, refs)
			}
		}

		now, stamp := s.timestamp()
		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE categories SET name = ?, kind = ?, updated_at = ?
			WHERE id = ? AND owner_id = ? AND is_deleted = FALSE`),
			in.Name, string(in.Kind), stamp, id, owner,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperr.Wrap(apperr.DuplicateCategory, err,
					"category %q of kind %s already exists", in.Name, in.Kind)
			}
			return fmt.Errorf("failed to update category %d: %w", id, err)
		}
		updated = current
		updated.Name, updated.Kind, updated.UpdatedAt = in.Name, in.Kind, now
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	s.log.DebugContext(ctx, "category updated",
		logger.FieldOwnerID, owner, logger.FieldEntityID, id, logger.FieldOperation, logger.OpUpdate)
	return updated, nil
}

// SoftDeleteCategory marks a live category deleted. Transactions that
// reference it are left untouched.
func (s *Storage) SoftDeleteCategory(ctx context.Context, owner, id int64) error {
	_, stamp := s.timestamp()
	res, err := s.DB.ExecContext(ctx, s.rebind(`
		UPDATE categories SET is_deleted = TRUE, deleted_at = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND is_deleted = FALSE`),
		stamp, stamp, id, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, "category %d not found", id)
	}
	s.log.DebugContext(ctx, "category deleted",
		logger.FieldOwnerID, owner, logger.FieldEntityID, id, logger.FieldOperation, logger.OpDelete)
	return nil
}

// HardDeleteCategory removes a soft-deleted category that no transaction
// references, deleted transactions included.
func (s *Storage) HardDeleteCategory(ctx context.Context, owner, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var deleted bool
		err := tx.QueryRowContext(ctx, s.rebind(`
			SELECT is_deleted FROM categories WHERE id = ? AND owner_id = ?`+s.lockRow("UPDATE")),
			id, owner,
		).Scan(&deleted)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.New(apperr.NotFound, "category %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get category %d: %w", id, err)
		}
		if !deleted {
			return apperr.New(apperr.Validation, "category %d must be deleted before it can be purged", id)
		}

		refs, err := s.countCategoryRefs(ctx, tx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperr.New(apperr.ReferentialConflict,
				"category %d is referenced by %d transactions", id, refs)
		}

		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM categories WHERE id = ? AND owner_id = ?`), id, owner); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Wrap(apperr.ReferentialConflict, err, "category %d is referenced by transactions", id)
			}
			return fmt.Errorf("failed to purge category %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.DebugContext(ctx, "category purged",
		logger.FieldOwnerID, owner, logger.FieldEntityID, id, logger.FieldOperation, logger.OpPurge)
	return nil
}

func (s *Storage) countCategoryRefs(ctx context.Context, q querier, id int64) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM transactions WHERE category_id = ?`), id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions of category %d: %w", id, err)
	}
	return n, nil
}
