// Package detail builds account-level breakdowns beneath the statement
// engines: per-account summaries, top movers by class, category totals
// and journal extracts, for substantive review of a single fiscal year.
package detail

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/model"
	"github.com/wincap-dev/wincap/internal/pcg"
)

// Uncategorized marks accounts with no mapping in the chart.
const Uncategorized = "non_classe"

// DefaultExtractLimit caps a journal extract.
const DefaultExtractLimit = 100

// AccountLine is the aggregate movement of one account over a period.
// Balance is debit minus credit, unoriented.
type AccountLine struct {
	Account  string          `json:"account"`
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
}

// Summary aggregates every entry into one line per account, sorted by
// account number.
func Summary(table *pcg.Table, entries []model.LedgerEntry) []AccountLine {
	type agg struct {
		label         string
		debit, credit decimal.Decimal
	}
	byAccount := make(map[string]*agg)
	for _, e := range entries {
		a, ok := byAccount[e.AccountNum]
		if !ok {
			a = &agg{debit: decimal.Zero, credit: decimal.Zero}
			byAccount[e.AccountNum] = a
		}
		a.debit = a.debit.Add(e.Debit)
		a.credit = a.credit.Add(e.Credit)
		if a.label == "" {
			a.label = e.AccountLabel
		}
	}

	accounts := make([]string, 0, len(byAccount))
	for acc := range byAccount {
		accounts = append(accounts, acc)
	}
	sort.Strings(accounts)

	out := make([]AccountLine, 0, len(accounts))
	for _, acc := range accounts {
		a := byAccount[acc]
		out = append(out, AccountLine{
			Account:  acc,
			Label:    a.label,
			Category: categoryOf(table, acc),
			Debit:    a.debit,
			Credit:   a.credit,
			Balance:  a.debit.Sub(a.credit),
		})
	}
	return out
}

// TopAccount is one account ranked by the size of its net movement.
// Amount is oriented by account normality: a positive expense grows the
// charge, a positive revenue grows the product.
type TopAccount struct {
	Account  string          `json:"account"`
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// TopAccounts returns the n accounts under prefix with the largest
// absolute net movement. Ties break on account number.
func TopAccounts(table *pcg.Table, entries []model.LedgerEntry, prefix string, n int) []TopAccount {
	type agg struct {
		label string
		net   decimal.Decimal
	}
	byAccount := make(map[string]*agg)
	for _, e := range entries {
		if !strings.HasPrefix(e.AccountNum, prefix) {
			continue
		}
		a, ok := byAccount[e.AccountNum]
		if !ok {
			a = &agg{net: decimal.Zero}
			byAccount[e.AccountNum] = a
		}
		a.net = a.net.Add(e.Amount())
		if a.label == "" {
			a.label = e.AccountLabel
		}
	}

	out := make([]TopAccount, 0, len(byAccount))
	for acc, a := range byAccount {
		amount := a.net
		if !pcg.DebitPositive(acc) {
			amount = amount.Neg()
		}
		out = append(out, TopAccount{
			Account:  acc,
			Label:    a.label,
			Category: categoryOf(table, acc),
			Amount:   amount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		cmp := out[i].Amount.Abs().Cmp(out[j].Amount.Abs())
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].Account < out[j].Account
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoryTotal sums movements of every account sharing a category.
// Balance is oriented per account before summing, so mixed-normality
// categories net the way a reader expects.
type CategoryTotal struct {
	Category string          `json:"category"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
}

// CategoryBreakdown totals entries per classification category, sorted
// by category name. Unmapped accounts fall under Uncategorized.
func CategoryBreakdown(table *pcg.Table, entries []model.LedgerEntry) []CategoryTotal {
	type agg struct {
		debit, credit, balance decimal.Decimal
	}
	byCategory := make(map[string]*agg)
	for _, e := range entries {
		cat := categoryOf(table, e.AccountNum)
		a, ok := byCategory[cat]
		if !ok {
			a = &agg{debit: decimal.Zero, credit: decimal.Zero, balance: decimal.Zero}
			byCategory[cat] = a
		}
		a.debit = a.debit.Add(e.Debit)
		a.credit = a.credit.Add(e.Credit)
		net := e.Amount()
		if !pcg.DebitPositive(e.AccountNum) {
			net = net.Neg()
		}
		a.balance = a.balance.Add(net)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	out := make([]CategoryTotal, 0, len(categories))
	for _, cat := range categories {
		a := byCategory[cat]
		out = append(out, CategoryTotal{Category: cat, Debit: a.debit, Credit: a.credit, Balance: a.balance})
	}
	return out
}

// JournalLine is one ledger movement in an extract.
type JournalLine struct {
	Date     time.Time       `json:"date"`
	Journal  string          `json:"journal"`
	Account  string          `json:"account"`
	Label    string          `json:"label"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Category string          `json:"category"`
}

// JournalExtract returns up to limit movements under an account prefix,
// in chronological order. An empty prefix matches everything; limit <= 0
// falls back to DefaultExtractLimit.
func JournalExtract(table *pcg.Table, entries []model.LedgerEntry, prefix string, limit int) []JournalLine {
	if limit <= 0 {
		limit = DefaultExtractLimit
	}

	filtered := make([]model.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if prefix == "" || strings.HasPrefix(e.AccountNum, prefix) {
			filtered = append(filtered, e)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].EntryDate.Before(filtered[j].EntryDate)
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	out := make([]JournalLine, 0, len(filtered))
	for _, e := range filtered {
		out = append(out, JournalLine{
			Date:     e.EntryDate,
			Journal:  e.JournalCode,
			Account:  e.AccountNum,
			Label:    e.EntryLabel,
			Debit:    e.Debit,
			Credit:   e.Credit,
			Category: categoryOf(table, e.AccountNum),
		})
	}
	return out
}

func categoryOf(table *pcg.Table, account string) string {
	if c := table.Category(account); c != "" {
		return string(c)
	}
	return Uncategorized
}
