package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"sure/internal/core"
	"sure/internal/period"
	"sure/internal/statements"
)

// Transaction is one ledger entry. Amounts are positive; the classification
// says which side of the statement they land on.
type Transaction struct {
	Date           time.Time
	Amount         decimal.Decimal
	Classification core.Classification
	CategoryID     *uuid.UUID
}

// Store is an in-memory income statement for a single family. It is
// read-only once built, so it is safe for concurrent use.
type Store struct {
	family     core.Family
	categories []core.Category
	byID       map[uuid.UUID]core.Category
	txs        []Transaction
}

// DefaultFamily is used when no seed is available.
func DefaultFamily() core.Family {
	return core.Family{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte("family:default")),
		Name:     "Household",
		Currency: "USD",
	}
}

func New(f core.Family, cats []core.Category, txs []Transaction) (*Store, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("family: %w", err)
	}
	s := &Store{
		family: f,
		byID:   make(map[uuid.UUID]core.Category, len(cats)),
	}
	for _, c := range cats {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("category %s: %w", c.ID, err)
		}
		if _, dup := s.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %s", statements.ErrSeedFormat, c.ID)
		}
		s.byID[c.ID] = c
		s.categories = append(s.categories, c)
	}
	// Categories nest one level: a parent must itself be top-level.
	for _, c := range s.categories {
		if c.ParentID == nil {
			continue
		}
		parent, ok := s.byID[*c.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: category %q has unknown parent %s", statements.ErrSeedFormat, c.Name, c.ParentID)
		}
		if !parent.IsTopLevel() {
			return nil, fmt.Errorf("%w: category %q is nested under sub-category %q", statements.ErrSeedFormat, c.Name, parent.Name)
		}
	}
	for i, tx := range txs {
		if err := s.validate(tx); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	s.txs = append(s.txs, txs...)
	return s, nil
}

// NewFromFile loads a YAML seed. A missing file yields an empty ledger for
// DefaultFamily.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(DefaultFamily(), nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger seed: %w", err)
	}
	return Parse(data)
}

func (s *Store) Family(_ context.Context) (core.Family, error) {
	return s.family, nil
}

func (s *Store) IncomeTotals(ctx context.Context, p period.Period) (core.PeriodTotal, error) {
	return s.totals(ctx, core.Income, p)
}

func (s *Store) ExpenseTotals(ctx context.Context, p period.Period) (core.PeriodTotal, error) {
	return s.totals(ctx, core.Expense, p)
}

// totals sums the period's transactions per category. Sub-category amounts
// are also credited to their parent, so parents carry the full branch.
func (s *Store) totals(ctx context.Context, cls core.Classification, p period.Period) (core.PeriodTotal, error) {
	if err := ctx.Err(); err != nil {
		return core.PeriodTotal{}, err
	}

	out := core.EmptyTotal(cls, s.family.Currency)
	sums := make(map[uuid.UUID]decimal.Decimal)
	uncategorized := decimal.Zero
	hasUncategorized := false

	for _, tx := range s.txs {
		if tx.Classification != cls || !p.Contains(tx.Date) {
			continue
		}
		out.Total = out.Total.Add(tx.Amount)
		if tx.CategoryID == nil {
			uncategorized = uncategorized.Add(tx.Amount)
			hasUncategorized = true
			continue
		}
		c := s.byID[*tx.CategoryID]
		sums[c.ID] = sums[c.ID].Add(tx.Amount)
		if c.ParentID != nil {
			sums[*c.ParentID] = sums[*c.ParentID].Add(tx.Amount)
		}
	}

	for _, c := range s.categories {
		if sum, ok := sums[c.ID]; ok {
			out.CategoryTotals = append(out.CategoryTotals, core.CategoryTotal{Category: c, Total: sum})
		}
	}
	if hasUncategorized {
		out.CategoryTotals = append(out.CategoryTotals, core.CategoryTotal{
			Category: core.NewUncategorized(cls),
			Total:    uncategorized,
		})
	}
	return out, nil
}

func (s *Store) validate(tx Transaction) error {
	if err := tx.Classification.Validate(); err != nil {
		return err
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: missing date", statements.ErrSeedFormat)
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", statements.ErrSeedFormat)
	}
	if tx.CategoryID != nil {
		if _, ok := s.byID[*tx.CategoryID]; !ok {
			return fmt.Errorf("%w: unknown category %s", statements.ErrSeedFormat, tx.CategoryID)
		}
	}
	return nil
}

type seed struct {
	Family struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Currency string `yaml:"currency"`
	} `yaml:"family"`
	Categories []struct {
		ID     string `yaml:"id"`
		Name   string `yaml:"name"`
		Color  string `yaml:"color"`
		Parent string `yaml:"parent"`
	} `yaml:"categories"`
	Transactions []struct {
		Date           string `yaml:"date"`
		Amount         string `yaml:"amount"`
		Classification string `yaml:"classification"`
		Category       string `yaml:"category"`
	} `yaml:"transactions"`
}

// Parse builds a store from a YAML seed document.
func Parse(data []byte) (*Store, error) {
	var sd seed
	if err := yaml.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("%w: %v", statements.ErrSeedFormat, err)
	}

	fam := DefaultFamily()
	if sd.Family.ID != "" {
		id, err := uuid.Parse(sd.Family.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: family id: %v", statements.ErrSeedFormat, err)
		}
		fam.ID = id
	}
	if sd.Family.Name != "" {
		fam.Name = sd.Family.Name
	}
	if sd.Family.Currency != "" {
		fam.Currency = strings.ToUpper(sd.Family.Currency)
	}

	cats := make([]core.Category, 0, len(sd.Categories))
	for _, c := range sd.Categories {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: category %q id: %v", statements.ErrSeedFormat, c.Name, err)
		}
		cat := core.Category{ID: id, Name: strings.TrimSpace(c.Name), Color: strings.TrimSpace(c.Color)}
		if c.Parent != "" {
			parent, err := uuid.Parse(c.Parent)
			if err != nil {
				return nil, fmt.Errorf("%w: category %q parent: %v", statements.ErrSeedFormat, c.Name, err)
			}
			cat.ParentID = &parent
		}
		cats = append(cats, cat)
	}

	txs := make([]Transaction, 0, len(sd.Transactions))
	for i, t := range sd.Transactions {
		date, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d date: %v", statements.ErrSeedFormat, i, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(t.Amount))
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d amount: %v", statements.ErrSeedFormat, i, err)
		}
		tx := Transaction{
			Date:           date,
			Amount:         amount,
			Classification: core.Classification(strings.ToLower(strings.TrimSpace(t.Classification))),
		}
		if t.Category != "" {
			id, err := uuid.Parse(t.Category)
			if err != nil {
				return nil, fmt.Errorf("%w: transaction %d category: %v", statements.ErrSeedFormat, i, err)
			}
			tx.CategoryID = &id
		}
		txs = append(txs, tx)
	}

	return New(fam, cats, txs)
}
