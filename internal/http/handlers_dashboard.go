package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"sure/internal/cashflow"
	"sure/internal/core"
	applog "sure/internal/log"
	"sure/internal/period"
)

// defaultCurrency is used when the family cannot be read.
const defaultCurrency = "USD"

type dashboard struct {
	Period period.Period       `json:"cashflow_period"`
	Sankey cashflow.SankeyData `json:"cashflow_sankey_data"`
}

// loadDashboard resolves the period and builds the cash-flow graph. It never
// fails: a bad period key falls back to the last 30 days and collaborator
// errors degrade to empty totals.
func (s *Server) loadDashboard(ctx context.Context, key string) dashboard {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentCashFlow)

	p, err := period.Resolve(key)
	if err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentPeriod).
			WarnContext(ctx, "Invalid cash flow period, using default",
				applog.FieldOperation, applog.OpResolve,
				applog.FieldPeriodKey, key,
				applog.FieldError, err)
	}

	cctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	currency := defaultCurrency
	if s.families != nil {
		f, err := s.families.Family(cctx)
		if err != nil {
			logger.ErrorContext(ctx, "Family read error", applog.NewFields().
				WithOperation(applog.OpRead).
				WithError(err).
				ToSlice()...)
		} else if f.Currency != "" {
			currency = f.Currency
		}
	}

	income := core.EmptyTotal(core.Income, currency)
	expense := core.EmptyTotal(core.Expense, currency)
	if s.statement != nil {
		in, out, err := s.totals(cctx, p)
		if err != nil {
			applog.FromContext(ctx).WithComponent(applog.ComponentStatements).
				ErrorContext(ctx, "Income statement error", applog.NewFields().
					WithOperation(applog.OpRead).
					WithPeriod(p.Key, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly)).
					WithError(err).
					ToSlice()...)
		} else {
			income, expense = in, out
		}
	}

	data := cashflow.Build(income, expense, currency, s.sankeyOpts)
	logger.DebugContext(ctx, "Cash flow built", applog.NewFields().
		WithOperation(applog.OpBuild).
		WithPeriod(p.Key, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly)).
		WithSankey(len(data.Nodes), len(data.Links)).
		ToSlice()...)

	return dashboard{Period: p, Sankey: data}
}

// totals reads both sides of the statement concurrently. Either failure
// discards both, so the graph never shows one side alone.
func (s *Server) totals(ctx context.Context, p period.Period) (income, expense core.PeriodTotal, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.statement.IncomeTotals(gctx, p)
		if err != nil {
			return fmt.Errorf("income totals: %w", err)
		}
		income = t
		return nil
	})
	g.Go(func() error {
		t, err := s.statement.ExpenseTotals(gctx, p)
		if err != nil {
			return fmt.Errorf("expense totals: %w", err)
		}
		expense = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.PeriodTotal{}, core.PeriodTotal{}, err
	}
	return income, expense, nil
}

// handleDashboard renders the dashboard page
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowGET(w, r) {
		return
	}

	d := s.loadDashboard(r.Context(), r.URL.Query().Get("cashflow_period"))
	s.render(w, r, "dashboard.html", struct {
		Title   string
		Period  period.Period
		Periods []period.Period
		Sankey  cashflow.SankeyData
	}{
		Title:   "Dashboard",
		Period:  d.Period,
		Periods: period.All(),
		Sankey:  d.Sankey,
	})
}

// handleDashboardData returns the selected period and its sankey data as JSON
func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	if !allowGET(w, r) {
		return
	}
	writeJSON(w, r, http.StatusOK, s.loadDashboard(r.Context(), r.URL.Query().Get("cashflow_period")))
}
