package models

import (
	"strings"

	"github.com/charles-oliveira/web-2/apperr"
)

// Kind tells income from expense for both categories and transactions.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", apperr.New(apperr.Validation, "invalid kind %q: must be income or expense", s)
	}
	return k, nil
}

// PaymentMethod describes how an expense was paid.
type PaymentMethod string

const (
	Cash         PaymentMethod = "cash"
	CreditCard   PaymentMethod = "credit_card"
	DebitCard    PaymentMethod = "debit_card"
	BankTransfer PaymentMethod = "bank_transfer"
	OtherPayment PaymentMethod = "other"
)

var paymentMethods = []PaymentMethod{Cash, CreditCard, DebitCard, BankTransfer, OtherPayment}

func (p PaymentMethod) Valid() bool {
	for _, m := range paymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", apperr.New(apperr.Validation, "invalid payment method %q", s)
	}
	return p, nil
}
