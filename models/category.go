package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charles-oliveira/web-2/apperr"
)

const MaxCategoryNameLen = 100

type Category struct {
	ID        int64
	OwnerID   int64
	Name      string
	Kind      Kind
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// CategoryInput holds the fields of a new category.
type CategoryInput struct {
	Name string
	Kind Kind
}

// Normalize trims the name and lower-cases the kind.
func (in CategoryInput) Normalize() CategoryInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Kind = Kind(strings.ToLower(strings.TrimSpace(string(in.Kind))))
	return in
}

func (in CategoryInput) Validate() error {
	if err := validateCategoryName(in.Name); err != nil {
		return err
	}
	if !in.Kind.Valid() {
		return apperr.New(apperr.Validation, "invalid kind %q: must be income or expense", in.Kind)
	}
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return apperr.New(apperr.Validation, "name is required")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLen {
		return apperr.New(apperr.Validation, "name must be at most %d characters", MaxCategoryNameLen)
	}
	return nil
}

// CategoryPatch is a partial update; nil fields are left unchanged.
type CategoryPatch struct {
	Name *string
	Kind *Kind
}

func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.Kind == nil
}

// Apply returns the input that results from patching c.
func (p CategoryPatch) Apply(c Category) CategoryInput {
	in := CategoryInput{Name: c.Name, Kind: c.Kind}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Kind != nil {
		in.Kind = *p.Kind
	}
	return in.Normalize()
}

// CategoryFilter narrows a category listing. Zero values match everything.
type CategoryFilter struct {
	Kind   Kind
	Search string
}

func (f CategoryFilter) Validate() error {
	if f.Kind != "" && !f.Kind.Valid() {
		return apperr.New(apperr.Validation, "invalid kind %q: must be income or expense", f.Kind)
	}
	return nil
}
