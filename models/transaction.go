package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charles-oliveira/web-2/apperr"
)

const (
	MaxDescriptionLen = 200
	MaxSourceLen      = 100
)

type Transaction struct {
	ID            int64
	OwnerID       int64
	Amount        Money
	Description   string
	Date          Date
	Kind          Kind
	CategoryID    int64
	CategoryName  string
	Source        string
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

// TransactionInput holds every writable field of a transaction.
type TransactionInput struct {
	Amount        Money
	Description   string
	Date          Date
	Kind          Kind
	CategoryID    int64
	Source        string
	PaymentMethod PaymentMethod
}

// Normalize trims text fields and fills the default payment method of an
// expense.
func (in TransactionInput) Normalize() TransactionInput {
	in.Description = strings.TrimSpace(in.Description)
	in.Source = strings.TrimSpace(in.Source)
	in.Kind = Kind(strings.ToLower(strings.TrimSpace(string(in.Kind))))
	in.PaymentMethod = PaymentMethod(strings.ToLower(strings.TrimSpace(string(in.PaymentMethod))))
	if in.Kind == Expense && in.PaymentMethod == "" {
		in.PaymentMethod = OtherPayment
	}
	return in
}

func (in TransactionInput) Validate() error {
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if in.Description == "" {
		return apperr.New(apperr.Validation, "description is required")
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLen {
		return apperr.New(apperr.Validation, "description must be at most %d characters", MaxDescriptionLen)
	}
	if in.Date.IsZero() {
		return apperr.New(apperr.Validation, "date is required")
	}
	if !in.Kind.Valid() {
		return apperr.New(apperr.Validation, "invalid kind %q: must be income or expense", in.Kind)
	}
	if in.CategoryID <= 0 {
		return apperr.New(apperr.Validation, "category_id is required")
	}
	switch in.Kind {
	case Income:
		if in.PaymentMethod != "" {
			return apperr.New(apperr.Validation, "payment_method applies to expenses only")
		}
		if utf8.RuneCountInString(in.Source) > MaxSourceLen {
			return apperr.New(apperr.Validation, "source must be at most %d characters", MaxSourceLen)
		}
	case Expense:
		if in.Source != "" {
			return apperr.New(apperr.Validation, "source applies to income only")
		}
		if !in.PaymentMethod.Valid() {
			return apperr.New(apperr.Validation, "invalid payment method %q", in.PaymentMethod)
		}
	}
	return nil
}

// TransactionPatch is a partial update; nil fields are left unchanged.
type TransactionPatch struct {
	Amount        *Money
	Description   *string
	Date          *Date
	Kind          *Kind
	CategoryID    *int64
	Source        *string
	PaymentMethod *PaymentMethod
}

func (p TransactionPatch) Empty() bool {
	return p.Amount == nil && p.Description == nil && p.Date == nil && p.Kind == nil &&
		p.CategoryID == nil && p.Source == nil && p.PaymentMethod == nil
}

// Apply returns the input that results from patching t. Switching kind
// drops the field that only the old kind carries unless the patch sets it.
func (p TransactionPatch) Apply(t Transaction) TransactionInput {
	in := TransactionInput{
		Amount:        t.Amount,
		Description:   t.Description,
		Date:          t.Date,
		Kind:          t.Kind,
		CategoryID:    t.CategoryID,
		Source:        t.Source,
		PaymentMethod: t.PaymentMethod,
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
	if p.CategoryID != nil {
		in.CategoryID = *p.CategoryID
	}
	if p.Kind != nil && *p.Kind != t.Kind {
		in.Kind = *p.Kind
		in.Source = ""
		in.PaymentMethod = ""
	}
	if p.Source != nil {
		in.Source = *p.Source
	}
	if p.PaymentMethod != nil {
		in.PaymentMethod = *p.PaymentMethod
	}
	return in.Normalize()
}

// Ordering is a listing sort key; a leading '-' means descending.
type Ordering string

const (
	OrderDateDesc      Ordering = "-date"
	OrderDateAsc       Ordering = "date"
	OrderAmountAsc     Ordering = "amount"
	OrderAmountDesc    Ordering = "-amount"
	OrderCreatedAsc    Ordering = "created_at"
	OrderCreatedDesc   Ordering = "-created_at"
	DefaultOrdering             = OrderDateDesc
	MaxTransactionPage          = 500
)

func (o Ordering) Valid() bool {
	switch o {
	case OrderDateDesc, OrderDateAsc, OrderAmountAsc, OrderAmountDesc, OrderCreatedAsc, OrderCreatedDesc:
		return true
	}
	return false
}

// TransactionFilter narrows a transaction listing. Zero values match
// everything; a zero Limit means no limit.
type TransactionFilter struct {
	Kind          Kind
	CategoryID    int64
	Range         *DateRange
	PaymentMethod PaymentMethod
	Search        string
	Ordering      Ordering
	Limit         int
	Offset        int
}

func (f TransactionFilter) Validate() error {
	if f.Kind != "" && !f.Kind.Valid() {
		return apperr.New(apperr.Validation, "invalid kind %q: must be income or expense", f.Kind)
	}
	if f.PaymentMethod != "" && !f.PaymentMethod.Valid() {
		return apperr.New(apperr.Validation, "invalid payment method %q", f.PaymentMethod)
	}
	if f.Ordering != "" && !f.Ordering.Valid() {
		return apperr.New(apperr.Validation, "invalid ordering %q", f.Ordering)
	}
	if f.Range != nil {
		if err := f.Range.Validate(); err != nil {
			return err
		}
	}
	if f.Limit < 0 || f.Offset < 0 {
		return apperr.New(apperr.Validation, "limit and offset must not be negative")
	}
	if f.Limit > MaxTransactionPage {
		return apperr.New(apperr.Validation, "limit must be at most %d", MaxTransactionPage)
	}
	return nil
}
