package balance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/model"
)

// DefaultAgingThresholds are the day boundaries of the standard buckets:
// 0-30, 31-60, 61-90, 91-120, >120.
var DefaultAgingThresholds = []int{0, 30, 60, 90, 120}

// AgedAccount is the bucketed open position of one auxiliary account.
type AgedAccount struct {
	AuxNum   string            `json:"auxNum"`
	AuxLabel string            `json:"auxLabel"`
	Buckets  []decimal.Decimal `json:"buckets"`
	Total    decimal.Decimal   `json:"total"`
}

// AgedBalanceReport buckets per-auxiliary open items by age at the as-of
// date.
type AgedBalanceReport struct {
	AsOfDate time.Time       `json:"asOfDate"`
	Labels   []string        `json:"labels"`
	Accounts []AgedAccount   `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}

// AgedBalance reports open (unlettered) items on the given account
// prefixes, grouped by auxiliary account and aged against asOf. A nil
// thresholds slice uses the default 0/30/60/90/120 buckets.
func AgedBalance(entries []model.LedgerEntry, asOf time.Time, prefixes []string, thresholds []int) AgedBalanceReport {
	if len(thresholds) == 0 {
		thresholds = DefaultAgingThresholds
	}
	labels := bucketLabels(thresholds)

	type acc struct {
		label   string
		buckets []decimal.Decimal
		total   decimal.Decimal
	}
	byAux := make(map[string]*acc)

	for _, entry := range fec.FilterUpTo(fec.FilterPrefix(entries, prefixes...), asOf) {
		if entry.Lettering != "" && (entry.LetteringDate.IsZero() || !entry.LetteringDate.After(asOf)) {
			// Settled at the as-of date. Items lettered after it were
			// still open then and must age.
			continue
		}
		key := entry.AuxNum
		if key == "" {
			key = entry.AccountNum
		}
		a, ok := byAux[key]
		if !ok {
			a = &acc{label: entry.AuxLabel, buckets: make([]decimal.Decimal, len(labels))}
			byAux[key] = a
		}
		if a.label == "" {
			a.label = entry.AuxLabel
		}

		age := int(asOf.Sub(entry.EntryDate).Hours() / 24)
		amount := entry.Amount()
		a.buckets[bucketIndex(age, thresholds)] = a.buckets[bucketIndex(age, thresholds)].Add(amount)
		a.total = a.total.Add(amount)
	}

	keys := make([]string, 0, len(byAux))
	for k := range byAux {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	report := AgedBalanceReport{AsOfDate: asOf, Labels: labels}
	for _, k := range keys {
		a := byAux[k]
		report.Accounts = append(report.Accounts, AgedAccount{
			AuxNum:   k,
			AuxLabel: a.label,
			Buckets:  a.buckets,
			Total:    a.total,
		})
		report.Total = report.Total.Add(a.total)
	}
	return report
}

func bucketLabels(thresholds []int) []string {
	labels := make([]string, 0, len(thresholds))
	for i := 0; i < len(thresholds)-1; i++ {
		labels = append(labels, fmt.Sprintf("%d-%d j", thresholds[i], thresholds[i+1]))
	}
	labels = append(labels, fmt.Sprintf(">%d j", thresholds[len(thresholds)-1]))
	return labels
}

// bucketIndex places an age (days, may be negative for post-dated items)
// into its bucket; negative ages fall into the first bucket.
func bucketIndex(age int, thresholds []int) int {
	for i := 1; i < len(thresholds); i++ {
		if age <= thresholds[i] {
			return i - 1
		}
	}
	return len(thresholds) - 1
}
