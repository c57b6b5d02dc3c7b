package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Income  Classification = "income"
	Expense Classification = "expense"
)

// UncategorizedName and UncategorizedColor describe the synthetic bucket that
// collects transactions without a category.
const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#737373"
)

type (
	Classification string

	Family struct {
		ID       uuid.UUID
		Name     string
		Currency string // ISO 4217 code
	}

	Category struct {
		ID            uuid.UUID
		Name          string
		ParentID      *uuid.UUID
		Color         string
		Uncategorized bool
	}

	// CategoryTotal is the signed total of one category over a period.
	CategoryTotal struct {
		Category Category
		Total    decimal.Decimal
	}

	// PeriodTotal aggregates one classification (income or expense) over a period.
	PeriodTotal struct {
		Classification Classification
		Total          decimal.Decimal
		Currency       string
		CategoryTotals []CategoryTotal
	}
)

var (
	ErrEmptyCategoryName  = errors.New("empty category name")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidClassifier  = errors.New("invalid classification")
	ErrSelfParentCategory = errors.New("category cannot be its own parent")
)

// NewUncategorized returns the synthetic bucket for the given side. The ID is
// derived from the classification so the income and expense buckets never
// collide with each other or with a real category.
func NewUncategorized(c Classification) Category {
	return Category{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte("uncategorized:"+string(c))),
		Name:          UncategorizedName,
		Color:         UncategorizedColor,
		Uncategorized: true,
	}
}

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool {
	return c.ParentID == nil
}

// IsUncategorized reports whether c is the uncategorized bucket.
func (c Category) IsUncategorized() bool {
	return c.Uncategorized
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return ErrSelfParentCategory
	}
	return nil
}

func (c Classification) Validate() error {
	switch c {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidClassifier
	}
}

func (f Family) Validate() error {
	if len(strings.TrimSpace(f.Currency)) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}

// EmptyTotal returns a zero total for the classification, used when the
// income statement cannot be read.
func EmptyTotal(c Classification, currency string) PeriodTotal {
	return PeriodTotal{
		Classification: c,
		Total:          decimal.Zero,
		Currency:       currency,
	}
}
