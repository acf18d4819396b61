package pnl

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/model"
)

// MonthlyStatement pairs a month with its full P&L derivation.
type MonthlyStatement struct {
	Year      int                 `json:"year"`
	Month     time.Month          `json:"month"`
	Statement *model.PnLStatement `json:"statement"`
}

// BuildMonthly re-runs the full derivation for each calendar month that
// has entries, in chronological order.
func (e *Engine) BuildMonthly(entries []model.LedgerEntry) []MonthlyStatement {
	seen := make(map[fec.MonthKey]bool)
	var keys []fec.MonthKey
	for _, entry := range entries {
		k := fec.MonthKey{Year: entry.EntryDate.Year(), Month: entry.EntryDate.Month()}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Month < keys[j].Month
	})

	out := make([]MonthlyStatement, 0, len(keys))
	for _, k := range keys {
		start := time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		label := fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
		out = append(out, MonthlyStatement{
			Year:      k.Year,
			Month:     k.Month,
			Statement: e.Build(entries, label, start, end),
		})
	}
	return out
}

// BuildLastTwelveMonths derives the P&L over the rolling 365-day window
// ending at the given date.
func (e *Engine) BuildLastTwelveMonths(entries []model.LedgerEntry, end time.Time) *model.PnLStatement {
	start := end.AddDate(0, 0, -364)
	label := fmt.Sprintf("LTM %s", end.Format("2006-01-02"))
	return e.Build(entries, label, start, end)
}

// MonthlyRevenue returns net revenue per calendar month.
func (e *Engine) MonthlyRevenue(entries []model.LedgerEntry) map[fec.MonthKey]decimal.Decimal {
	monthly := make(map[fec.MonthKey]decimal.Decimal)
	for _, entry := range entries {
		mapping, ok := e.table.Classify(entry.AccountNum)
		if !ok || mapping.PnLSection != "chiffre_affaires" {
			continue
		}
		k := fec.MonthKey{Year: entry.EntryDate.Year(), Month: entry.EntryDate.Month()}
		monthly[k] = monthly[k].Add(entry.Credit).Sub(entry.Debit)
	}
	return monthly
}

// QuarterlyRevenue buckets revenue per quarter per year, keys "Q1".."Q4".
func (e *Engine) QuarterlyRevenue(entries []model.LedgerEntry) map[int]map[string]decimal.Decimal {
	quarterly := make(map[int]map[string]decimal.Decimal)
	for k, amount := range e.MonthlyRevenue(entries) {
		if quarterly[k.Year] == nil {
			quarterly[k.Year] = map[string]decimal.Decimal{}
		}
		q := fmt.Sprintf("Q%d", (int(k.Month)-1)/3+1)
		quarterly[k.Year][q] = quarterly[k.Year][q].Add(amount)
	}
	return quarterly
}

// SeasonalityIndex scores each calendar month against the average month
// across all years (100 = average). Degrades to a flat 100 profile when
// there is no revenue.
func (e *Engine) SeasonalityIndex(entries []model.LedgerEntry) map[time.Month]decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	index := make(map[time.Month]decimal.Decimal, 12)
	for m := time.January; m <= time.December; m++ {
		index[m] = hundred
	}

	monthly := e.MonthlyRevenue(entries)
	if len(monthly) == 0 {
		return index
	}

	years := make(map[int]bool)
	monthTotals := make(map[time.Month]decimal.Decimal, 12)
	total := decimal.Zero
	for k, amount := range monthly {
		years[k.Year] = true
		monthTotals[k.Month] = monthTotals[k.Month].Add(amount)
		total = total.Add(amount)
	}
	if total.Sign() == 0 {
		return index
	}

	yearCount := decimal.NewFromInt(int64(len(years)))
	avgMonthly := total.Div(decimal.NewFromInt(12)).Div(yearCount)
	if avgMonthly.Sign() == 0 {
		return index
	}
	for m := time.January; m <= time.December; m++ {
		monthAvg := monthTotals[m].Div(yearCount)
		index[m] = monthAvg.Div(avgMonthly).Mul(hundred)
	}
	return index
}
