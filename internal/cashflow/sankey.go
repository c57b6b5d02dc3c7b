// Package cashflow reshapes a period's income and expense category totals
// into the node/link structure drawn by the dashboard's sankey chart.
//
// Every top-level category is netted (income minus expense) into a single
// flow. Positive nets flow into the central "Cash Flow" node, negative nets
// flow out of it, and any income left over flows into "Surplus".
package cashflow

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sure/internal/core"
	"sure/internal/currency"
)

const (
	CashFlowName = "Cash Flow"
	SurplusName  = "Surplus"

	// SuccessColor is a CSS variable resolved by the client theme.
	SuccessColor = "var(--color-success)"
)

type (
	Node struct {
		Name       string  `json:"name"`
		Value      float64 `json:"value"`
		Percentage float64 `json:"percentage"`
		Color      string  `json:"color"`
	}

	// Link references nodes by their position in SankeyData.Nodes.
	Link struct {
		Source     int     `json:"source"`
		Target     int     `json:"target"`
		Value      float64 `json:"value"`
		Color      string  `json:"color"`
		Percentage float64 `json:"percentage"`
	}

	SankeyData struct {
		Nodes          []Node `json:"nodes"`
		Links          []Link `json:"links"`
		CurrencySymbol string `json:"currency_symbol"`
	}

	Options struct {
		Palette            Palette
		UncategorizedColor string
		CashFlowColor      string
	}
)

// DefaultOptions returns the stock palette and colors.
func DefaultOptions() Options {
	return Options{
		Palette:            DefaultPalette(),
		UncategorizedColor: core.UncategorizedColor,
		CashFlowColor:      SuccessColor,
	}
}

// Node groups, in display order.
type group int

const (
	groupCashFlow group = iota
	groupCategory
	groupUncategorized
	groupSurplus
)

var hundred = decimal.NewFromInt(100)

// flow is the netted amount of one category.
type flow struct {
	key      string
	category core.Category
	net      decimal.Decimal
}

type builder struct {
	opts   Options
	nodes  []Node
	groups []group
	links  []Link
	index  map[string]int
}

// Build produces the sankey data for one period. currencyCode is the
// family's ISO 4217 code; it is only used to look up the display symbol.
func Build(income, expense core.PeriodTotal, currencyCode string, opts Options) SankeyData {
	if opts.UncategorizedColor == "" {
		opts.UncategorizedColor = core.UncategorizedColor
	}
	if opts.CashFlowColor == "" {
		opts.CashFlowColor = SuccessColor
	}

	b := &builder{opts: opts, links: []Link{}, index: make(map[string]int)}

	cashFlowIdx := b.addNode("cash_flow", groupCashFlow, Node{
		Name:  CashFlowName,
		Value: toFloat(income.Total.Round(2)),
		Color: opts.CashFlowColor,
	})

	flows := netFlows(income.CategoryTotals, expense.CategoryTotals)

	totalIncome, totalExpense := decimal.Zero, decimal.Zero
	for _, f := range flows {
		switch f.net.Sign() {
		case 1:
			totalIncome = totalIncome.Add(f.net)
		case -1:
			totalExpense = totalExpense.Add(f.net.Abs())
		}
	}
	totalIncome = totalIncome.Round(2)
	totalExpense = totalExpense.Round(2)

	for _, f := range flows {
		val := f.net.Round(2)
		if val.IsZero() {
			continue
		}

		g := groupCategory
		if f.category.IsUncategorized() {
			g = groupUncategorized
		}

		if val.IsPositive() {
			pct := percentage(val, totalIncome)
			color := b.incomeColor(f.category)
			idx := b.addNode("income_"+f.key, g, Node{
				Name:       f.category.Name,
				Value:      toFloat(val),
				Percentage: toFloat(pct),
				Color:      color,
			})
			b.links = append(b.links, Link{
				Source:     idx,
				Target:     cashFlowIdx,
				Value:      toFloat(val),
				Color:      color,
				Percentage: toFloat(pct),
			})
			continue
		}

		abs := val.Abs()
		pct := percentage(abs, totalExpense)
		color := f.category.Color
		if color == "" {
			color = opts.UncategorizedColor
		}
		idx := b.addNode("expense_"+f.key, g, Node{
			Name:       f.category.Name,
			Value:      toFloat(abs),
			Percentage: toFloat(pct),
			Color:      color,
		})
		b.links = append(b.links, Link{
			Source:     cashFlowIdx,
			Target:     idx,
			Value:      toFloat(abs),
			Color:      color,
			Percentage: toFloat(pct),
		})
	}

	if leftover := totalIncome.Sub(totalExpense).Round(2); leftover.IsPositive() {
		pct := percentage(leftover, totalIncome)
		idx := b.addNode("surplus", groupSurplus, Node{
			Name:       SurplusName,
			Value:      toFloat(leftover),
			Percentage: toFloat(pct),
			Color:      opts.CashFlowColor,
		})
		b.links = append(b.links, Link{
			Source:     cashFlowIdx,
			Target:     idx,
			Value:      toFloat(leftover),
			Color:      opts.CashFlowColor,
			Percentage: toFloat(pct),
		})
	}

	b.sort()

	return SankeyData{
		Nodes:          b.nodes,
		Links:          b.links,
		CurrencySymbol: currency.Symbol(currencyCode),
	}
}

// netFlows combines income and expense totals per top-level category,
// preserving first-seen order. The uncategorized bucket is kept apart per
// side so uncategorized income never cancels uncategorized spending.
func netFlows(income, expense []core.CategoryTotal) []flow {
	var flows []flow
	byID := make(map[uuid.UUID]int)

	add := func(ct core.CategoryTotal, side core.Classification, sign decimal.Decimal) {
		if !ct.Category.IsTopLevel() {
			return
		}
		id := ct.Category.ID
		key := id.String()
		if ct.Category.IsUncategorized() {
			// Bucket identity is per side regardless of the ID it carries.
			id = core.NewUncategorized(side).ID
			key = "uncategorized_" + string(side)
		}
		amount := ct.Total.Mul(sign)
		if i, ok := byID[id]; ok {
			flows[i].net = flows[i].net.Add(amount)
			return
		}
		byID[id] = len(flows)
		flows = append(flows, flow{key: key, category: ct.Category, net: amount})
	}

	for _, ct := range income {
		add(ct, core.Income, decimal.NewFromInt(1))
	}
	for _, ct := range expense {
		add(ct, core.Expense, decimal.NewFromInt(-1))
	}
	return flows
}

func (b *builder) addNode(key string, g group, n Node) int {
	if idx, ok := b.index[key]; ok {
		return idx
	}
	b.nodes = append(b.nodes, n)
	b.groups = append(b.groups, g)
	b.index[key] = len(b.nodes) - 1
	return len(b.nodes) - 1
}

func (b *builder) incomeColor(c core.Category) string {
	if c.Color != "" {
		return c.Color
	}
	if color, ok := b.opts.Palette.Pick(c.ID); ok {
		return color
	}
	return b.opts.UncategorizedColor
}

// sort orders nodes by group, categories by descending value, then rewrites
// link endpoints to the new positions and pins Cash Flow at 100%.
func (b *builder) sort() {
	order := make([]int, len(b.nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, c := order[i], order[j]
		if b.groups[a] != b.groups[c] {
			return b.groups[a] < b.groups[c]
		}
		if b.groups[a] == groupCategory {
			return b.nodes[a].Value > b.nodes[c].Value
		}
		return false
	})

	remap := make([]int, len(b.nodes))
	nodes := make([]Node, len(b.nodes))
	groups := make([]group, len(b.nodes))
	for newIdx, oldIdx := range order {
		remap[oldIdx] = newIdx
		nodes[newIdx] = b.nodes[oldIdx]
		groups[newIdx] = b.groups[oldIdx]
	}
	for i := range b.links {
		b.links[i].Source = remap[b.links[i].Source]
		b.links[i].Target = remap[b.links[i].Target]
	}
	for i := range nodes {
		if groups[i] == groupCashFlow {
			nodes[i].Percentage = 100
		}
	}

	b.nodes = nodes
	b.groups = groups
}

func percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(1)
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
