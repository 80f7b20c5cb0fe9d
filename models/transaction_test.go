package models

import (
	"strings"
	"testing"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/stretchr/testify/assert"
)

func validExpense() TransactionInput {
	return TransactionInput{
		Amount:      NewMoney(2590),
		Description: "Lunch",
		Date:        NewDate(2024, 1, 20),
		Kind:        Expense,
		CategoryID:  1,
	}.Normalize()
}

func TestTransactionInputDefaults(t *testing.T) {
	in := validExpense()
	assert.Equal(t, OtherPayment, in.PaymentMethod)
	assert.NoError(t, in.Validate())
}

func TestTransactionInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TransactionInput)
	}{
		{"zero amount", func(in *TransactionInput) { in.Amount = Money{} }},
		{"missing description", func(in *TransactionInput) { in.Description = "" }},
		{"long description", func(in *TransactionInput) { in.Description = strings.Repeat("x", MaxDescriptionLen+1) }},
		{"missing date", func(in *TransactionInput) { in.Date = Date{} }},
		{"unknown kind", func(in *TransactionInput) { in.Kind = "transfer" }},
		{"missing category", func(in *TransactionInput) { in.CategoryID = 0 }},
		{"source on expense", func(in *TransactionInput) { in.Source = "Salary" }},
		{"unknown payment method", func(in *TransactionInput) { in.PaymentMethod = "pix" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validExpense()
			tt.mutate(&in)
			assert.Equal(t, apperr.Validation, apperr.KindOf(in.Validate()))
		})
	}
}

func TestIncomeRejectsPaymentMethod(t *testing.T) {
	in := TransactionInput{
		Amount:        NewMoney(100000),
		Description:   "Salary",
		Date:          NewDate(2024, 1, 5),
		Kind:          Income,
		CategoryID:    2,
		Source:        "ACME",
		PaymentMethod: Cash,
	}.Normalize()
	assert.Error(t, in.Validate())

	in.PaymentMethod = ""
	assert.NoError(t, in.Validate())
}

func TestTransactionPatchSwitchKind(t *testing.T) {
	current := Transaction{
		Amount:        NewMoney(500),
		Description:   "Bus",
		Date:          NewDate(2024, 1, 3),
		Kind:          Expense,
		CategoryID:    1,
		PaymentMethod: Cash,
	}
	income := Income
	cat := int64(9)
	in := TransactionPatch{Kind: &income, CategoryID: &cat}.Apply(current)

	assert.Equal(t, Income, in.Kind)
	assert.Equal(t, int64(9), in.CategoryID)
	assert.Empty(t, in.PaymentMethod)
	assert.Equal(t, "Bus", in.Description)
	assert.NoError(t, in.Validate())
}

func TestTransactionFilterValidate(t *testing.T) {
	assert.NoError(t, TransactionFilter{}.Validate())
	assert.Error(t, TransactionFilter{Ordering: "name"}.Validate())
	assert.Error(t, TransactionFilter{Limit: -1}.Validate())
	assert.Error(t, TransactionFilter{Range: &DateRange{Start: NewDate(2024, 2, 1), End: NewDate(2024, 1, 1)}}.Validate())
}
