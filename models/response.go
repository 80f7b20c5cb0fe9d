package models

import "time"

type CategoryResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Food"`
	Kind      Kind      `json:"kind" example:"expense"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCategoryResponse(c Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      c.Kind,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type TransactionResponse struct {
	ID            int64         `json:"id" example:"1"`
	Amount        Money         `json:"amount" swaggertype:"string" example:"100.00"`
	Description   string        `json:"description" example:"Supermarket"`
	Date          Date          `json:"date" swaggertype:"string" example:"2024-01-20"`
	Kind          Kind          `json:"kind" example:"expense"`
	CategoryID    int64         `json:"category_id" example:"1"`
	CategoryName  string        `json:"category_name" example:"Food"`
	Source        string        `json:"source" example:""`
	PaymentMethod PaymentMethod `json:"payment_method" example:"debit_card"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DeletedAt     *time.Time    `json:"deleted_at"`
}

func NewTransactionResponse(t Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		Amount:        t.Amount,
		Description:   t.Description,
		Date:          t.Date,
		Kind:          t.Kind,
		CategoryID:    t.CategoryID,
		CategoryName:  t.CategoryName,
		Source:        t.Source,
		PaymentMethod: t.PaymentMethod,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		DeletedAt:     t.DeletedAt,
	}
}

func NewTransactionResponses(ts []Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

type GetTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total" example:"100"`
}

type CategoryTotalResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Food"`
	Kind  Kind   `json:"kind" example:"expense"`
	Total Money  `json:"total" swaggertype:"string" example:"250.00"`
}

type SummaryResponse struct {
	StartDate          Date                    `json:"start_date" swaggertype:"string" example:"2024-01-01"`
	EndDate            Date                    `json:"end_date" swaggertype:"string" example:"2024-01-31"`
	TotalIncome        Money                   `json:"total_income" swaggertype:"string" example:"1000.00"`
	TotalExpense       Money                   `json:"total_expense" swaggertype:"string" example:"250.00"`
	Balance            Money                   `json:"balance" swaggertype:"string" example:"750.00"`
	RecentTransactions []TransactionResponse   `json:"recent_transactions"`
	CategoryTotals     []CategoryTotalResponse `json:"category_totals"`
}

func NewSummaryResponse(s Summary) SummaryResponse {
	totals := make([]CategoryTotalResponse, 0, len(s.CategoryTotals))
	for _, ct := range s.CategoryTotals {
		totals = append(totals, CategoryTotalResponse{ID: ct.CategoryID, Name: ct.Name, Kind: ct.Kind, Total: ct.Total})
	}
	return SummaryResponse{
		StartDate:          s.Range.Start,
		EndDate:            s.Range.End,
		TotalIncome:        s.TotalIncome,
		TotalExpense:       s.TotalExpense,
		Balance:            s.Balance,
		RecentTransactions: NewTransactionResponses(s.RecentTransactions),
		CategoryTotals:     totals,
	}
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type ErrorResponse struct {
	Kind  string `json:"kind" example:"validation_error"`
	Error string `json:"error" example:"error"`
}
