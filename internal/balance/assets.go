package balance

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/model"
)

// FixedAssetDetail pairs one gross asset account with its contra
// amortization account.
type FixedAssetDetail struct {
	Account       string          `json:"account"`
	Label         string          `json:"label"`
	ContraAccount string          `json:"contraAccount,omitempty"`
	Gross         decimal.Decimal `json:"gross"`
	Amortization  decimal.Decimal `json:"amortization"`
	Net           decimal.Decimal `json:"net"`
}

// FixedAssetsDetail lists every gross fixed-asset account at the cut-off
// with the contra account the declared pairing table locates for it. A
// contra account whose remainder matches no gross account is emitted on
// its own so nothing silently disappears.
func FixedAssetsDetail(entries []model.LedgerEntry, asOf time.Time) []FixedAssetDetail {
	snapshot := fec.FilterUpTo(entries, asOf)
	balances := fec.BalanceByAccount(snapshot)
	labels := accountLabels(snapshot)

	var details []FixedAssetDetail
	usedContras := make(map[string]bool)

	for _, pair := range amortPairs {
		for account, gross := range balances {
			prefix, ok := matchPrefix(account, pair.GrossPrefixes)
			if !ok {
				continue
			}
			remainder := account[len(prefix):]

			contraAccount, amort := findContra(balances, pair.ContraPrefixes, remainder)
			if contraAccount != "" {
				usedContras[contraAccount] = true
			}
			details = append(details, FixedAssetDetail{
				Account:       account,
				Label:         labels[account],
				ContraAccount: contraAccount,
				Gross:         gross,
				Amortization:  amort,
				Net:           gross.Sub(amort),
			})
		}
	}

	// Orphan contra accounts: amortization with no matching gross line.
	for _, pair := range amortPairs {
		for account, bal := range balances {
			if _, ok := matchPrefix(account, pair.ContraPrefixes); !ok || usedContras[account] {
				continue
			}
			usedContras[account] = true
			amort := bal.Neg()
			details = append(details, FixedAssetDetail{
				Account:      account,
				Label:        labels[account],
				Amortization: amort,
				Net:          amort.Neg(),
			})
		}
	}

	sort.Slice(details, func(i, j int) bool { return details[i].Account < details[j].Account })
	return details
}

func matchPrefix(account string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(account, p) {
			return p, true
		}
	}
	return "", false
}

// findContra locates the contra account whose remainder after its own
// prefix matches the gross account's remainder. Returns the account and
// its amortization (credit-normal).
func findContra(balances map[string]decimal.Decimal, contraPrefixes []string, remainder string) (string, decimal.Decimal) {
	for _, cp := range contraPrefixes {
		candidate := cp + remainder
		if bal, ok := balances[candidate]; ok {
			return candidate, bal.Neg()
		}
	}
	return "", decimal.Zero
}

func accountLabels(entries []model.LedgerEntry) map[string]string {
	labels := make(map[string]string)
	for _, e := range entries {
		if _, ok := labels[e.AccountNum]; !ok && e.AccountLabel != "" {
			labels[e.AccountNum] = e.AccountLabel
		}
	}
	return labels
}
