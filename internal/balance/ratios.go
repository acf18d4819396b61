package balance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/model"
)

var (
	daysInYear = decimal.NewFromInt(365)
	twelve     = decimal.NewFromInt(12)
)

// TurnoverInputs are the annualized P&L figures the cycle ratios divide
// by. They are supplied by the caller, not rederived here.
type TurnoverInputs struct {
	ChiffreAffaires decimal.Decimal
	Achats          decimal.Decimal
	CoutDesVentes   decimal.Decimal
	VATRate         decimal.Decimal // multiplier, e.g. 1.20
}

// CycleRatios are the working-capital cycle times, in days.
type CycleRatios struct {
	DSO decimal.Decimal `json:"dso"`
	DPO decimal.Decimal `json:"dpo"`
	DIO decimal.Decimal `json:"dio"`
	CCC decimal.Decimal `json:"ccc"`
}

// Cycle computes DSO/DPO/DIO/CCC from a balance snapshot and annualized
// turnover. Receivables and payables carry VAT, so the divisors are
// grossed up; ratios degrade to zero on zero divisors.
func Cycle(bs *model.BalanceSheet, in TurnoverInputs) CycleRatios {
	var r CycleRatios
	r.DSO = daysRatio(bs.LineAmount("clients"), in.ChiffreAffaires.Mul(in.VATRate))
	r.DPO = daysRatio(bs.LineAmount("fournisseurs"), in.Achats.Mul(in.VATRate))
	r.DIO = daysRatio(bs.StocksTotal, in.CoutDesVentes)
	r.CCC = r.DSO.Add(r.DIO).Sub(r.DPO)
	return r
}

func daysRatio(position, annualized decimal.Decimal) decimal.Decimal {
	if annualized.Sign() <= 0 {
		return decimal.Zero
	}
	return position.Div(annualized).Mul(daysInYear)
}

// MonthlyCycle is the DSO/DPO pair reconstructed at one month-end.
type MonthlyCycle struct {
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	DSO   decimal.Decimal `json:"dso"`
	DPO   decimal.Decimal `json:"dpo"`
}

// MonthlyCycles re-runs the balance snapshot at each month-end in the
// entry range and divides by run-rate revenue and purchases annualized
// from the period elapsed so far.
func (e *Engine) MonthlyCycles(entries []model.LedgerEntry, vatRate decimal.Decimal) []MonthlyCycle {
	if len(entries) == 0 {
		return nil
	}

	months := monthEnds(entries)

	var out []MonthlyCycle
	cumRevenue := decimal.Zero
	cumPurchases := decimal.Zero
	elapsed := 0

	for _, monthEnd := range months {
		monthStart := time.Date(monthEnd.Year(), monthEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
		for _, entry := range entries {
			if entry.EntryDate.Before(monthStart) || entry.EntryDate.After(monthEnd) {
				continue
			}
			mapping, ok := e.table.Classify(entry.AccountNum)
			if !ok {
				continue
			}
			switch mapping.PnLSection {
			case "chiffre_affaires":
				cumRevenue = cumRevenue.Add(entry.Credit).Sub(entry.Debit)
			case "achats":
				cumPurchases = cumPurchases.Add(entry.Debit).Sub(entry.Credit)
			}
		}
		elapsed++

		elapsedMonths := decimal.NewFromInt(int64(elapsed))
		runRateRevenue := cumRevenue.Div(elapsedMonths).Mul(twelve)
		runRatePurchases := cumPurchases.Div(elapsedMonths).Mul(twelve)

		snapshot := e.Build(entries, monthEnd, fmt.Sprintf("%04d-%02d", monthEnd.Year(), int(monthEnd.Month())))
		out = append(out, MonthlyCycle{
			Year:  monthEnd.Year(),
			Month: monthEnd.Month(),
			DSO:   daysRatio(snapshot.LineAmount("clients"), runRateRevenue.Mul(vatRate)),
			DPO:   daysRatio(snapshot.LineAmount("fournisseurs"), runRatePurchases.Mul(vatRate)),
		})
	}
	return out
}

// monthEnds returns the last day of each month present in the entries,
// chronologically.
func monthEnds(entries []model.LedgerEntry) []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, e := range entries {
		end := time.Date(e.EntryDate.Year(), e.EntryDate.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
		if !seen[end] {
			seen[end] = true
			out = append(out, end)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
