package fec

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/model"
)

// HasPrefix reports whether an account number starts with any of the
// given prefixes.
func HasPrefix(accountNum string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(accountNum, p) {
			return true
		}
	}
	return false
}

// SumDebitByPrefix totals debits over accounts matching any prefix.
func SumDebitByPrefix(entries []model.LedgerEntry, prefixes ...string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if HasPrefix(e.AccountNum, prefixes...) {
			total = total.Add(e.Debit)
		}
	}
	return total
}

// SumCreditByPrefix totals credits over accounts matching any prefix.
func SumCreditByPrefix(entries []model.LedgerEntry, prefixes ...string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if HasPrefix(e.AccountNum, prefixes...) {
			total = total.Add(e.Credit)
		}
	}
	return total
}

// NetByPrefix is debit minus credit over accounts matching any prefix.
func NetByPrefix(entries []model.LedgerEntry, prefixes ...string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if HasPrefix(e.AccountNum, prefixes...) {
			total = total.Add(e.Debit).Sub(e.Credit)
		}
	}
	return total
}

// BalanceByAccount returns the net balance (debit - credit) per account.
func BalanceByAccount(entries []model.LedgerEntry) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, e := range entries {
		balances[e.AccountNum] = balances[e.AccountNum].Add(e.Debit).Sub(e.Credit)
	}
	return balances
}

// BalanceByAux returns the net balance per auxiliary (sub-ledger) account.
// Entries without an auxiliary account are skipped.
func BalanceByAux(entries []model.LedgerEntry) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.AuxNum == "" {
			continue
		}
		balances[e.AuxNum] = balances[e.AuxNum].Add(e.Debit).Sub(e.Credit)
	}
	return balances
}

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// BalanceByMonth returns the net movement per calendar month.
func BalanceByMonth(entries []model.LedgerEntry) map[MonthKey]decimal.Decimal {
	balances := make(map[MonthKey]decimal.Decimal)
	for _, e := range entries {
		k := MonthKey{Year: e.EntryDate.Year(), Month: e.EntryDate.Month()}
		balances[k] = balances[k].Add(e.Debit).Sub(e.Credit)
	}
	return balances
}

// FilterPeriod keeps entries dated within [start, end] inclusive.
func FilterPeriod(entries []model.LedgerEntry, start, end time.Time) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range entries {
		if e.EntryDate.Before(start) || e.EntryDate.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUpTo keeps entries dated on or before the cut-off.
func FilterUpTo(entries []model.LedgerEntry, asOf time.Time) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range entries {
		if e.EntryDate.After(asOf) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterPrefix keeps entries whose account matches any prefix.
func FilterPrefix(entries []model.LedgerEntry, prefixes ...string) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range entries {
		if HasPrefix(e.AccountNum, prefixes...) {
			out = append(out, e)
		}
	}
	return out
}
