package db

import (
	"context"
	"fmt"

	"github.com/charles-oliveira/web-2/models"
)

// KindTotals sums the live income and expense transactions of owner dated
// inside r. Empty data sums to zero.
func (s *Storage) KindTotals(ctx context.Context, owner int64, r models.DateRange) (models.KindTotals, error) {
	var totals models.KindTotals
	err := s.DB.QueryRowContext(ctx, s.rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE owner_id = ? AND is_deleted = FALSE AND date >= ? AND date <= ?`),
		owner, r.Start, r.End,
	).Scan(&totals.Income.Cents, &totals.Expense.Cents)
	if err != nil {
		return models.KindTotals{}, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return totals, nil
}

// CategoryTotals returns one row per live category of owner with the sum of
// its live transactions dated inside r, zero when none match.
func (s *Storage) CategoryTotals(ctx context.Context, owner int64, r models.DateRange) ([]models.CategoryTotal, error) {
	rows, err := s.DB.QueryContext(ctx, s.rebind(`
		SELECT c.id, c.name, c.kind, COALESCE(SUM(t.amount_cents), 0)
		FROM categories c
		LEFT JOIN transactions t
			ON t.category_id = c.id
			AND t.owner_id = c.owner_id
			AND t.is_deleted = FALSE
			AND t.date >= ? AND t.date <= ?
		WHERE c.owner_id = ? AND c.is_deleted = FALSE
		GROUP BY c.id, c.name, c.kind
		ORDER BY c.name, c.id`),
		r.Start, r.End, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum categories: %w", err)
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Kind, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to sum categories: %w", err)
	}
	return totals, nil
}

// RecentTransactions returns up to limit live transactions of owner, most
// recent date first, regardless of any summary range.
func (s *Storage) RecentTransactions(ctx context.Context, owner int64, limit int) ([]models.Transaction, error) {
	return Collect(s.ListTransactions(ctx, owner, models.TransactionFilter{
		Ordering: models.OrderDateDesc,
		Limit:    limit,
	}))
}

// GlobalTotals sums live transactions of every owner dated inside r.
func (s *Storage) GlobalTotals(ctx context.Context, r models.DateRange) (models.GlobalTotals, error) {
	g := models.GlobalTotals{Range: r}
	err := s.DB.QueryRowContext(ctx, s.rebind(`
		SELECT
			COUNT(DISTINCT owner_id),
			COALESCE(SUM(CASE WHEN kind = 'income' THEN amount_cents ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount_cents ELSE 0 END), 0)
		FROM transactions
		WHERE is_deleted = FALSE AND date >= ? AND date <= ?`),
		r.Start, r.End,
	).Scan(&g.Owners, &g.Totals.Income.Cents, &g.Totals.Expense.Cents)
	if err != nil {
		return models.GlobalTotals{}, fmt.Errorf("failed to sum all transactions: %w", err)
	}
	g.Balance = g.Totals.Balance()
	return g, nil
}
