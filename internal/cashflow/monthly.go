package cashflow

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/balance"
	"github.com/wincap-dev/wincap/internal/model"
)

// Monthly reconstructs the working-capital and cash trajectory inside a
// fiscal year from month-end balance snapshots. The first month's
// variation is measured against a zero baseline unless the entries carry
// an opening balance (journal AN), which the snapshots absorb naturally.
func Monthly(be *balance.Engine, entries []model.LedgerEntry) []model.MonthlyCashFlow {
	ends := snapshotDates(entries)
	if len(ends) == 0 {
		return nil
	}

	out := make([]model.MonthlyCashFlow, 0, len(ends))
	previousBFR := decimal.Zero
	for _, end := range ends {
		snapshot := be.Build(entries, end, fmt.Sprintf("%04d-%02d", end.Year(), int(end.Month())))
		variation := snapshot.BFRTotal.Sub(previousBFR)
		out = append(out, model.MonthlyCashFlow{
			Year:         end.Year(),
			Month:        int(end.Month()),
			BFRTotal:     snapshot.BFRTotal,
			VariationBFR: variation,
			Tresorerie:   snapshot.TresorerieNette(),
		})
		previousBFR = snapshot.BFRTotal
	}
	return out
}

func snapshotDates(entries []model.LedgerEntry) []time.Time {
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
