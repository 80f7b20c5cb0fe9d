package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/models"
	"github.com/joho/godotenv"
)

const (
	alice int64 = 1
	bob   int64 = 2
)

// setupTestDB creates a migrated SQLite database in a temp dir.
func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	dsn := SQLiteDSN(filepath.Join(t.TempDir(), "ledger.db"))
	if err := RunMigrations(SQLite, dsn); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	store, err := NewStorage(SQLite, dsn, nil)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// setupPostgresDB connects to POSTGRES_TEST_URL, migrates it and empties
// every table. It skips the test when no database is configured.
func setupPostgresDB(t *testing.T) *Storage {
	t.Helper()
	_ = godotenv.Load("../.env")
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL is not set")
	}
	if err := RunMigrations(Postgres, connStr); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	store, err := NewStorage(Postgres, connStr, nil)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	_, err = store.DB.Exec("TRUNCATE TABLE transactions, categories, user_settings, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return store
}

// forEachStore runs fn against a fresh store of every dialect.
func forEachStore(t *testing.T, fn func(t *testing.T, store *Storage)) {
	t.Helper()
	for _, tc := range []struct {
		dialect Dialect
		setup   func(t *testing.T) *Storage
	}{
		{SQLite, setupTestDB},
		{Postgres, setupPostgresDB},
	} {
		t.Run(string(tc.dialect), func(t *testing.T) {
			fn(t, tc.setup(t))
		})
	}
}

func mustCategory(t *testing.T, store *Storage, owner int64, name string, kind models.Kind) models.Category {
	t.Helper()
	c, err := store.CreateCategory(context.Background(), owner, models.CategoryInput{Name: name, Kind: kind})
	if err != nil {
		t.Fatalf("Failed to create category %q: %v", name, err)
	}
	return c
}

func mustTransaction(t *testing.T, store *Storage, owner int64, in models.TransactionInput) models.Transaction {
	t.Helper()
	tx, err := store.CreateTransaction(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("Failed to create transaction %q: %v", in.Description, err)
	}
	return tx
}

func expense(categoryID int64, cents int64, date models.Date, desc string) models.TransactionInput {
	return models.TransactionInput{
		Amount:      models.NewMoney(cents),
		Description: desc,
		Date:        date,
		Kind:        models.Expense,
		CategoryID:  categoryID,
	}
}

func income(categoryID int64, cents int64, date models.Date, desc string) models.TransactionInput {
	return models.TransactionInput{
		Amount:      models.NewMoney(cents),
		Description: desc,
		Date:        date,
		Kind:        models.Income,
		CategoryID:  categoryID,
	}
}

func expectKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()
	if got := apperr.KindOf(err); got != want {
		t.Fatalf("Expected error kind %q, got %q (%v)", want, got, err)
	}
}

func TestCategories(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		category := mustCategory(t, store, alice, "  Food ", models.Expense)
		if category.ID == 0 {
			t.Error("Expected category ID to be set, got 0")
		}
		if category.Name != "Food" {
			t.Errorf("Expected name 'Food', got %q", category.Name)
		}

		fetched, err := store.GetCategory(ctx, alice, category.ID)
		if err != nil {
			t.Fatalf("Failed to get category: %v", err)
		}
		if fetched.ID != category.ID || fetched.Name != "Food" || fetched.Kind != models.Expense {
			t.Errorf("Expected category {ID: %d, Name: Food}, got %+v", category.ID, fetched)
		}

		// Same name with the other kind is a different category.
		mustCategory(t, store, alice, "Food", models.Income)
		_, err = store.CreateCategory(ctx, alice, models.CategoryInput{Name: "Food", Kind: models.Expense})
		expectKind(t, err, apperr.DuplicateCategory)

		name := "Groceries"
		updated, err := store.UpdateCategory(ctx, alice, category.ID, models.CategoryPatch{Name: &name})
		if err != nil {
			t.Fatalf("Failed to update category: %v", err)
		}
		if updated.Name != "Groceries" || updated.Kind != models.Expense {
			t.Errorf("Expected Groceries/expense, got %+v", updated)
		}
		if updated.UpdatedAt.Before(category.UpdatedAt) {
			t.Errorf("Expected updated_at to move forward, got %v before %v", updated.UpdatedAt, category.UpdatedAt)
		}

		_, err = store.CreateCategory(ctx, alice, models.CategoryInput{Name: "", Kind: models.Expense})
		expectKind(t, err, apperr.Validation)
		_, err = store.CreateCategory(ctx, alice, models.CategoryInput{Name: "Rent", Kind: "transfer"})
		expectKind(t, err, apperr.Validation)
	})
}

func TestListCategories(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		mustCategory(t, store, alice, "Travel", models.Expense)
		mustCategory(t, store, alice, "Salary", models.Income)
		mustCategory(t, store, alice, "Food", models.Expense)
		mustCategory(t, store, bob, "Bob's", models.Expense)

		all, err := Collect(store.ListCategories(ctx, alice, models.CategoryFilter{}))
		if err != nil {
			t.Fatalf("Failed to list categories: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("Expected 3 categories, got %d", len(all))
		}
		if all[0].Name != "Food" || all[1].Name != "Salary" || all[2].Name != "Travel" {
			t.Errorf("Expected name ordering Food, Salary, Travel, got %s, %s, %s", all[0].Name, all[1].Name, all[2].Name)
		}

		expenses, err := Collect(store.ListCategories(ctx, alice, models.CategoryFilter{Kind: models.Expense, Search: "TRA"}))
		if err != nil {
			t.Fatalf("Failed to list categories: %v", err)
		}
		if len(expenses) != 1 || expenses[0].Name != "Travel" {
			t.Errorf("Expected only Travel, got %+v", expenses)
		}

		// Each range over the sequence runs the query again.
		seq := store.ListCategories(ctx, alice, models.CategoryFilter{})
		first, _ := Collect(seq)
		mustCategory(t, store, alice, "Gifts", models.Expense)
		second, _ := Collect(seq)
		if len(second) != len(first)+1 {
			t.Errorf("Expected restarted listing to see %d categories, got %d", len(first)+1, len(second))
		}

		// Search folds accented capitals too.
		mustCategory(t, store, alice, "SAÚDE", models.Expense)
		mustCategory(t, store, alice, "Educação", models.Expense)
		for search, want := range map[string]string{
			"saúde":    "SAÚDE",
			"SAÚDE":    "SAÚDE",
			"educação": "Educação",
			"EDUCAÇÃO": "Educação",
		} {
			got, err := Collect(store.ListCategories(ctx, alice, models.CategoryFilter{Search: search}))
			if err != nil {
				t.Fatalf("Failed to list categories: %v", err)
			}
			if len(got) != 1 || got[0].Name != want {
				t.Errorf("Search %q: expected only %s, got %+v", search, want, got)
			}
		}
	})
}

func TestCategoryOwnership(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		category := mustCategory(t, store, alice, "Food", models.Expense)

		_, err := store.GetCategory(ctx, bob, category.ID)
		expectKind(t, err, apperr.NotFound)

		name := "Stolen"
		_, err = store.UpdateCategory(ctx, bob, category.ID, models.CategoryPatch{Name: &name})
		expectKind(t, err, apperr.NotFound)

		expectKind(t, store.SoftDeleteCategory(ctx, bob, category.ID), apperr.NotFound)

		bobs, err := Collect(store.ListCategories(ctx, bob, models.CategoryFilter{}))
		if err != nil {
			t.Fatalf("Failed to list categories: %v", err)
		}
		if len(bobs) != 0 {
			t.Errorf("Expected bob to see no categories, got %d", len(bobs))
		}

		// Bob may use the same name; uniqueness is per owner.
		mustCategory(t, store, bob, "Food", models.Expense)
	})
}

func TestSoftDeleteCategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		category := mustCategory(t, store, alice, "Food", models.Expense)
		if err := store.SoftDeleteCategory(ctx, alice, category.ID); err != nil {
			t.Fatalf("Failed to delete category: %v", err)
		}
		expectKind(t, store.SoftDeleteCategory(ctx, alice, category.ID), apperr.NotFound)

		_, err := store.GetCategory(ctx, alice, category.ID)
		expectKind(t, err, apperr.NotFound)

		// The name is free again once the old row is deleted.
		again := mustCategory(t, store, alice, "Food", models.Expense)
		if again.ID == category.ID {
			t.Errorf("Expected a new category id, got the deleted one")
		}
	})
}

func TestCategoryKindChangeBlockedByTransactions(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		category := mustCategory(t, store, alice, "Misc", models.Expense)
		mustTransaction(t, store, alice, expense(category.ID, 1000, models.NewDate(2024, 1, 10), "Coffee"))

		kind := models.Income
		_, err := store.UpdateCategory(ctx, alice, category.ID, models.CategoryPatch{Kind: &kind})
		expectKind(t, err, apperr.ReferentialConflict)

		empty := mustCategory(t, store, alice, "Empty", models.Expense)
		updated, err := store.UpdateCategory(ctx, alice, empty.ID, models.CategoryPatch{Kind: &kind})
		if err != nil {
			t.Fatalf("Failed to change kind of unused category: %v", err)
		}
		if updated.Kind != models.Income {
			t.Errorf("Expected kind income, got %s", updated.Kind)
		}
	})
}

func TestHardDeleteCategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		used := mustCategory(t, store, alice, "Used", models.Expense)
		tx := mustTransaction(t, store, alice, expense(used.ID, 500, models.NewDate(2024, 1, 2), "Bus"))
		unused := mustCategory(t, store, alice, "Unused", models.Expense)

		expectKind(t, store.HardDeleteCategory(ctx, alice, unused.ID), apperr.Validation)
		expectKind(t, store.HardDeleteCategory(ctx, alice, 9999), apperr.NotFound)

		if err := store.SoftDeleteCategory(ctx, alice, unused.ID); err != nil {
			t.Fatalf("Failed to delete category: %v", err)
		}
		expectKind(t, store.HardDeleteCategory(ctx, bob, unused.ID), apperr.NotFound)
		if err := store.HardDeleteCategory(ctx, alice, unused.ID); err != nil {
			t.Fatalf("Failed to purge category: %v", err)
		}
		expectKind(t, store.HardDeleteCategory(ctx, alice, unused.ID), apperr.NotFound)

		// Deleted transactions still hold on to their category.
		if err := store.SoftDeleteTransaction(ctx, alice, tx.ID); err != nil {
			t.Fatalf("Failed to delete transaction: %v", err)
		}
		if err := store.SoftDeleteCategory(ctx, alice, used.ID); err != nil {
			t.Fatalf("Failed to delete category: %v", err)
		}
		expectKind(t, store.HardDeleteCategory(ctx, alice, used.ID), apperr.ReferentialConflict)
	})
}

func TestConcurrentDuplicateCategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = store.CreateCategory(ctx, alice, models.CategoryInput{Name: "Food", Kind: models.Expense})
			}()
		}
		wg.Wait()

		created := 0
		for _, err := range errs {
			switch apperr.KindOf(err) {
			case "":
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				created++
			case apperr.DuplicateCategory:
			default:
				t.Fatalf("Unexpected error: %v", err)
			}
		}
		if created != 1 {
			t.Errorf("Expected exactly one category to be created, got %d", created)
		}

		all, _ := Collect(store.ListCategories(ctx, alice, models.CategoryFilter{}))
		if len(all) != 1 {
			t.Errorf("Expected 1 live category, got %d", len(all))
		}
	})
}

func TestCreateTransactionChecksCategory(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		food := mustCategory(t, store, alice, "Food", models.Expense)
		salary := mustCategory(t, store, alice, "Salary", models.Income)
		bobs := mustCategory(t, store, bob, "Food", models.Expense)
		gone := mustCategory(t, store, alice, "Gone", models.Expense)
		if err := store.SoftDeleteCategory(ctx, alice, gone.ID); err != nil {
			t.Fatalf("Failed to delete category: %v", err)
		}

		day := models.NewDate(2024, 1, 15)
		for name, in := range map[string]models.TransactionInput{
			"kind mismatch":    expense(salary.ID, 100, day, "Wrong kind"),
			"other owner":      expense(bobs.ID, 100, day, "Not mine"),
			"deleted category": expense(gone.ID, 100, day, "Deleted"),
			"missing category": expense(424242, 100, day, "Missing"),
		} {
			_, err := store.CreateTransaction(ctx, alice, in)
			if apperr.KindOf(err) != apperr.InvalidCategory {
				t.Errorf("%s: expected invalid_category, got %v", name, err)
			}
		}

		n, err := store.CountTransactions(ctx, alice, models.TransactionFilter{})
		if err != nil {
			t.Fatalf("Failed to count transactions: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no transactions after rejected writes, got %d", n)
		}

		created := mustTransaction(t, store, alice, expense(food.ID, 4590, day, "Lunch"))
		if created.CategoryName != "Food" {
			t.Errorf("Expected category_name Food, got %q", created.CategoryName)
		}
		if created.PaymentMethod != models.OtherPayment {
			t.Errorf("Expected default payment method other, got %q", created.PaymentMethod)
		}
		if created.Amount.String() != "45.90" || created.Date.String() != "2024-01-15" {
			t.Errorf("Expected 45.90 on 2024-01-15, got %s on %s", created.Amount, created.Date)
		}
	})
}

// A kind change racing a transaction create must never leave a transaction
// whose kind differs from its category.
func TestKindChangeRacesCreate(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()
		toIncome := models.Income

		for round := range 10 {
			category := mustCategory(t, store, alice, fmt.Sprintf("Flip %d", round), models.Expense)

			var wg sync.WaitGroup
			var updateErr, createErr error
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, updateErr = store.UpdateCategory(ctx, alice, category.ID, models.CategoryPatch{Kind: &toIncome})
			}()
			go func() {
				defer wg.Done()
				_, createErr = store.CreateTransaction(ctx, alice, expense(category.ID, 100, models.NewDate(2024, 1, 1), "Racer"))
			}()
			wg.Wait()

			switch {
			case updateErr == nil && createErr == nil:
				t.Fatalf("Round %d: both the kind change and the create succeeded", round)
			case updateErr == nil:
				expectKind(t, createErr, apperr.InvalidCategory)
			case createErr == nil:
				expectKind(t, updateErr, apperr.ReferentialConflict)
			default:
				t.Fatalf("Round %d: both failed: %v / %v", round, updateErr, createErr)
			}
		}

		var mismatched int
		err := store.DB.QueryRow(`
			SELECT COUNT(*) FROM transactions t
			JOIN categories c ON c.id = t.category_id
			WHERE t.kind <> c.kind`).Scan(&mismatched)
		if err != nil {
			t.Fatalf("Failed to count mismatched transactions: %v", err)
		}
		if mismatched != 0 {
			t.Errorf("Expected no transaction to disagree with its category, got %d", mismatched)
		}
	})
}

func TestTransactionSoftDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		food := mustCategory(t, store, alice, "Food", models.Expense)
		kept := mustTransaction(t, store, alice, expense(food.ID, 1000, models.NewDate(2024, 1, 5), "Kept"))
		dropped := mustTransaction(t, store, alice, expense(food.ID, 2000, models.NewDate(2024, 1, 6), "Dropped"))

		if err := store.SoftDeleteTransaction(ctx, alice, dropped.ID); err != nil {
			t.Fatalf("Failed to delete transaction: %v", err)
		}
		expectKind(t, store.SoftDeleteTransaction(ctx, alice, dropped.ID), apperr.NotFound)

		list, err := Collect(store.ListTransactions(ctx, alice, models.TransactionFilter{}))
		if err != nil {
			t.Fatalf("Failed to list transactions: %v", err)
		}
		if len(list) != 1 || list[0].ID != kept.ID {
			t.Errorf("Expected only the kept transaction, got %+v", list)
		}

		fetched, err := store.GetTransaction(ctx, alice, dropped.ID)
		if err != nil {
			t.Fatalf("Expected deleted transaction to be retrievable: %v", err)
		}
		if !fetched.IsDeleted || fetched.DeletedAt == nil {
			t.Errorf("Expected deleted_at to be set, got %+v", fetched)
		}

		_, err = store.GetTransaction(ctx, bob, kept.ID)
		expectKind(t, err, apperr.NotFound)

		desc := "Too late"
		_, err = store.UpdateTransaction(ctx, alice, dropped.ID, models.TransactionPatch{Description: &desc})
		expectKind(t, err, apperr.NotFound)

		totals, err := store.KindTotals(ctx, alice, models.DateRange{Start: models.NewDate(2024, 1, 1), End: models.NewDate(2024, 1, 31)})
		if err != nil {
			t.Fatalf("Failed to sum transactions: %v", err)
		}
		if totals.Expense.Cents != 1000 {
			t.Errorf("Expected expense total 10.00, got %s", totals.Expense)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		food := mustCategory(t, store, alice, "Food", models.Expense)
		salary := mustCategory(t, store, alice, "Salary", models.Income)
		tx := mustTransaction(t, store, alice, expense(food.ID, 1000, models.NewDate(2024, 1, 5), "Lunch"))

		// Moving to an income category without changing kind is rejected and
		// leaves the row as it was.
		_, err := store.UpdateTransaction(ctx, alice, tx.ID, models.TransactionPatch{CategoryID: &salary.ID})
		expectKind(t, err, apperr.InvalidCategory)
		unchanged, _ := store.GetTransaction(ctx, alice, tx.ID)
		if unchanged.CategoryID != food.ID {
			t.Errorf("Expected category to stay %d, got %d", food.ID, unchanged.CategoryID)
		}

		kind := models.Income
		source := "Refund"
		amount := models.NewMoney(1250)
		updated, err := store.UpdateTransaction(ctx, alice, tx.ID, models.TransactionPatch{
			Kind: &kind, CategoryID: &salary.ID, Source: &source, Amount: &amount,
		})
		if err != nil {
			t.Fatalf("Failed to update transaction: %v", err)
		}
		if updated.Kind != models.Income || updated.CategoryName != "Salary" || updated.Source != "Refund" {
			t.Errorf("Expected income in Salary from Refund, got %+v", updated)
		}
		if updated.PaymentMethod != "" {
			t.Errorf("Expected payment method to be cleared, got %q", updated.PaymentMethod)
		}
		if updated.Amount.Cents != 1250 {
			t.Errorf("Expected amount 12.50, got %s", updated.Amount)
		}

		bad := models.PaymentMethod("pix")
		_, err = store.UpdateTransaction(ctx, alice, tx.ID, models.TransactionPatch{PaymentMethod: &bad})
		expectKind(t, err, apperr.Validation)
	})
}

func TestListTransactionsFilters(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		food := mustCategory(t, store, alice, "Food", models.Expense)
		salary := mustCategory(t, store, alice, "Salary", models.Income)

		card := expense(food.ID, 3000, models.NewDate(2024, 1, 10), "Dinner 100%")
		card.PaymentMethod = models.CreditCard
		mustTransaction(t, store, alice, card)
		mustTransaction(t, store, alice, expense(food.ID, 1500, models.NewDate(2024, 1, 20), "Lunch"))
		pay := income(salary.ID, 500000, models.NewDate(2024, 1, 5), "January pay")
		pay.Source = "ACME Corp"
		mustTransaction(t, store, alice, pay)
		mustTransaction(t, store, alice, expense(food.ID, 900, models.NewDate(2024, 2, 1), "Snack"))

		list := func(f models.TransactionFilter) []models.Transaction {
			t.Helper()
			out, err := Collect(store.ListTransactions(ctx, alice, f))
			if err != nil {
				t.Fatalf("Failed to list transactions: %v", err)
			}
			return out
		}

		all := list(models.TransactionFilter{})
		if len(all) != 4 || all[0].Description != "Snack" || all[3].Description != "January pay" {
			t.Errorf("Expected newest first, got %+v", all)
		}

		january := &models.DateRange{Start: models.NewDate(2024, 1, 1), End: models.NewDate(2024, 1, 31)}
		if got := list(models.TransactionFilter{Range: january, Kind: models.Expense}); len(got) != 2 {
			t.Errorf("Expected 2 January expenses, got %d", len(got))
		}
		if got := list(models.TransactionFilter{PaymentMethod: models.CreditCard}); len(got) != 1 {
			t.Errorf("Expected 1 credit card expense, got %d", len(got))
		}
		if got := list(models.TransactionFilter{Search: "acme"}); len(got) != 1 || got[0].Kind != models.Income {
			t.Errorf("Expected search to match the income source, got %+v", got)
		}
		if got := list(models.TransactionFilter{Search: "100%"}); len(got) != 1 {
			t.Errorf("Expected literal %% search to match one row, got %d", len(got))
		}
		if got := list(models.TransactionFilter{CategoryID: salary.ID}); len(got) != 1 {
			t.Errorf("Expected 1 salary transaction, got %d", len(got))
		}

		byAmount := list(models.TransactionFilter{Ordering: models.OrderAmountDesc})
		if byAmount[0].Amount.Cents != 500000 || byAmount[3].Amount.Cents != 900 {
			t.Errorf("Expected amount descending, got %+v", byAmount)
		}

		page := list(models.TransactionFilter{Ordering: models.OrderDateAsc, Limit: 2, Offset: 1})
		if len(page) != 2 || page[0].Description != "Dinner 100%" {
			t.Errorf("Expected second page start at Dinner, got %+v", page)
		}
		total, err := store.CountTransactions(ctx, alice, models.TransactionFilter{Limit: 2, Offset: 1})
		if err != nil {
			t.Fatalf("Failed to count transactions: %v", err)
		}
		if total != 4 {
			t.Errorf("Expected total 4 regardless of paging, got %d", total)
		}

		_, err = Collect(store.ListTransactions(ctx, alice, models.TransactionFilter{Ordering: "name"}))
		expectKind(t, err, apperr.Validation)

		mustTransaction(t, store, alice, expense(food.ID, 2500, models.NewDate(2024, 1, 12), "Farmácia SÃO JOÃO"))
		for _, search := range []string{"são joão", "FARMÁCIA", "SÃO"} {
			if got := list(models.TransactionFilter{Search: search}); len(got) != 1 || got[0].Description != "Farmácia SÃO JOÃO" {
				t.Errorf("Search %q: expected the pharmacy expense, got %+v", search, got)
			}
		}
	})
}

func TestSummaryQueries(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		food := mustCategory(t, store, alice, "Food", models.Expense)
		salary := mustCategory(t, store, alice, "Salary", models.Income)
		mustCategory(t, store, alice, "Travel", models.Expense)
		mustCategory(t, store, bob, "Bob", models.Income)

		mustTransaction(t, store, alice, income(salary.ID, 100000, models.NewDate(2024, 1, 5), "Pay"))
		mustTransaction(t, store, alice, expense(food.ID, 2550, models.NewDate(2024, 1, 10), "Market"))
		mustTransaction(t, store, alice, expense(food.ID, 1000, models.NewDate(2024, 1, 31), "Dinner"))
		mustTransaction(t, store, alice, expense(food.ID, 7777, models.NewDate(2024, 2, 1), "Outside"))

		january := models.DateRange{Start: models.NewDate(2024, 1, 1), End: models.NewDate(2024, 1, 31)}

		totals, err := store.KindTotals(ctx, alice, january)
		if err != nil {
			t.Fatalf("Failed to sum transactions: %v", err)
		}
		if totals.Income.Cents != 100000 || totals.Expense.Cents != 3550 {
			t.Errorf("Expected 1000.00/35.50, got %s/%s", totals.Income, totals.Expense)
		}
		if totals.Balance().String() != "964.50" {
			t.Errorf("Expected balance 964.50, got %s", totals.Balance())
		}

		perCategory, err := store.CategoryTotals(ctx, alice, january)
		if err != nil {
			t.Fatalf("Failed to sum categories: %v", err)
		}
		want := map[string]int64{"Food": 3550, "Salary": 100000, "Travel": 0}
		if len(perCategory) != len(want) {
			t.Fatalf("Expected %d category totals, got %d", len(want), len(perCategory))
		}
		for _, ct := range perCategory {
			if ct.Total.Cents != want[ct.Name] {
				t.Errorf("Expected %s total %d, got %d", ct.Name, want[ct.Name], ct.Total.Cents)
			}
		}

		empty, err := store.KindTotals(ctx, bob, january)
		if err != nil {
			t.Fatalf("Failed to sum empty data: %v", err)
		}
		if !empty.Income.IsZero() || !empty.Expense.IsZero() {
			t.Errorf("Expected zero totals, got %+v", empty)
		}

		recent, err := store.RecentTransactions(ctx, alice, 2)
		if err != nil {
			t.Fatalf("Failed to get recent transactions: %v", err)
		}
		if len(recent) != 2 || recent[0].Description != "Outside" {
			t.Errorf("Expected recent list to ignore the range, got %+v", recent)
		}

		global, err := store.GlobalTotals(ctx, january)
		if err != nil {
			t.Fatalf("Failed to sum all owners: %v", err)
		}
		if global.Owners != 1 || global.Totals.Expense.Cents != 3550 {
			t.Errorf("Expected one owner with 35.50 expense, got %+v", global)
		}
	})
}

func TestProvisionUser(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		ctx := context.Background()

		user, settings, err := store.ProvisionUser(ctx, "maria")
		if err != nil {
			t.Fatalf("Failed to provision user: %v", err)
		}
		if user.ID == 0 || settings.UserID != user.ID {
			t.Errorf("Expected settings for user %d, got %+v", user.ID, settings)
		}
		if settings.Language != "pt-BR" || !settings.EmailNotifications {
			t.Errorf("Expected default settings, got %+v", settings)
		}

		var n int
		if err := store.DB.QueryRow(store.rebind(`SELECT COUNT(*) FROM user_settings WHERE user_id = ?`), user.ID).Scan(&n); err != nil {
			t.Fatalf("Failed to count settings: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected one settings row, got %d", n)
		}

		_, _, err = store.ProvisionUser(ctx, "maria")
		expectKind(t, err, apperr.Validation)

		fetched, err := store.GetUser(ctx, user.ID)
		if err != nil || fetched.Username != "maria" {
			t.Errorf("Expected to fetch maria, got %+v (%v)", fetched, err)
		}
		_, err = store.GetUser(ctx, 999)
		expectKind(t, err, apperr.NotFound)
	})
}

func TestTimestampsAdvance(t *testing.T) {
	forEachStore(t, func(t *testing.T, store *Storage) {
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return base }

		c := mustCategory(t, store, alice, "Clocked", models.Expense)
		store.now = func() time.Time { return base.Add(time.Hour) }
		if err := store.SoftDeleteCategory(context.Background(), alice, c.ID); err != nil {
			t.Fatalf("Failed to delete category: %v", err)
		}

		var deletedAt *time.Time
		var updatedAt time.Time
		err := store.DB.QueryRow(store.rebind(`SELECT deleted_at, updated_at FROM categories WHERE id = ?`), c.ID).
			Scan(nullTimeValue{&deletedAt}, timeValue{&updatedAt})
		if err != nil {
			t.Fatalf("Failed to read timestamps: %v", err)
		}
		if deletedAt == nil || !deletedAt.Equal(base.Add(time.Hour)) || !updatedAt.Equal(base.Add(time.Hour)) {
			t.Errorf("Expected deleted_at and updated_at at %v, got %v and %v", base.Add(time.Hour), deletedAt, updatedAt)
		}
	})
}

func TestRebind(t *testing.T) {
	pg := &Storage{dialect: Postgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("Expected $n placeholders, got %q", got)
	}
	lite := &Storage{dialect: SQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("Expected SQLite query unchanged, got %q", got)
	}
}
