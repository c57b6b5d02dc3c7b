package statements

import (
	"context"
	"errors"

	"sure/internal/core"
	"sure/internal/period"
)

// ErrSeedFormat is returned when a ledger seed cannot be interpreted.
var ErrSeedFormat = errors.New("invalid ledger seed")

// Ports for the income statement collaborator.
type (
	// IncomeStatement aggregates a family's transactions by category.
	IncomeStatement interface {
		// IncomeTotals returns income per category for the period.
		IncomeTotals(ctx context.Context, p period.Period) (core.PeriodTotal, error)
		// ExpenseTotals returns spending per category for the period.
		ExpenseTotals(ctx context.Context, p period.Period) (core.PeriodTotal, error)
	}

	FamilyReader interface {
		Family(ctx context.Context) (core.Family, error)
	}
)
