package models

// Request payloads accepted by the HTTP API.

type CreateCategory struct {
	Name string `json:"name" example:"Food"`
	Kind Kind   `json:"kind" example:"expense"`
}

func (r CreateCategory) Input() CategoryInput {
	return CategoryInput{Name: r.Name, Kind: r.Kind}.Normalize()
}

type UpdateCategory struct {
	Name *string `json:"name" example:"Groceries"`
	Kind *Kind   `json:"kind" example:"expense"`
}

func (r UpdateCategory) Patch() CategoryPatch {
	return CategoryPatch{Name: r.Name, Kind: r.Kind}
}

type CreateTransaction struct {
	Amount        Money         `json:"amount" swaggertype:"string" example:"100.00"`
	Description   string        `json:"description" example:"Supermarket"`
	Date          Date          `json:"date" swaggertype:"string" example:"2024-01-20"`
	Kind          Kind          `json:"kind" example:"expense"`
	CategoryID    int64         `json:"category_id" example:"1"`
	Source        string        `json:"source" example:""`
	PaymentMethod PaymentMethod `json:"payment_method" example:"debit_card"`
}

func (r CreateTransaction) Input() TransactionInput {
	return TransactionInput{
		Amount:        r.Amount,
		Description:   r.Description,
		Date:          r.Date,
		Kind:          r.Kind,
		CategoryID:    r.CategoryID,
		Source:        r.Source,
		PaymentMethod: r.PaymentMethod,
	}.Normalize()
}

type UpdateTransaction struct {
	Amount        *Money         `json:"amount" swaggertype:"string" example:"120.50"`
	Description   *string        `json:"description" example:"Supermarket"`
	Date          *Date          `json:"date" swaggertype:"string" example:"2024-01-21"`
	Kind          *Kind          `json:"kind" example:"expense"`
	CategoryID    *int64         `json:"category_id" example:"1"`
	Source        *string        `json:"source"`
	PaymentMethod *PaymentMethod `json:"payment_method" example:"cash"`
}

func (r UpdateTransaction) Patch() TransactionPatch {
	return TransactionPatch{
		Amount:        r.Amount,
		Description:   r.Description,
		Date:          r.Date,
		Kind:          r.Kind,
		CategoryID:    r.CategoryID,
		Source:        r.Source,
		PaymentMethod: r.PaymentMethod,
	}
}
