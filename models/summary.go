package models

// CategoryTotal is the sum of one category's live transactions in a range.
type CategoryTotal struct {
	CategoryID int64
	Name       string
	Kind       Kind
	Total      Money
}

// KindTotals are the income and expense sums over a range.
type KindTotals struct {
	Income  Money
	Expense Money
}

func (k KindTotals) Balance() Money {
	return k.Income.Sub(k.Expense)
}

// Summary is the financial overview of one owner over a date range.
type Summary struct {
	Range              DateRange
	TotalIncome        Money
	TotalExpense       Money
	Balance            Money
	RecentTransactions []Transaction
	CategoryTotals     []CategoryTotal
}

// RecentLimit is how many transactions a summary lists.
const RecentLimit = 5

// GlobalTotals is the cross-owner report produced by the CLI.
type GlobalTotals struct {
	Range   DateRange
	Owners  int
	Totals  KindTotals
	Balance Money
}
