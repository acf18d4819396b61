package pcg

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is the semantic bucket an account prefix maps to.
type Category string

const (
	// P&L categories (classes 6/7).
	CategoryRevenue          Category = "chiffre_affaires"
	CategoryProductionStock  Category = "variation_en_cours"
	CategoryPurchases        Category = "achats"
	CategorySubcontracting   Category = "sous_traitance"
	CategoryExternalCharges  Category = "autres_achats"
	CategoryTaxes            Category = "impots_taxes"
	CategoryPersonnel        Category = "personnel"
	CategoryOtherCharges     Category = "autres_charges"
	CategoryDepreciation     Category = "dotations"
	CategoryFinancialIncome  Category = "produits_financiers"
	CategoryFinancialExpense Category = "charges_financieres"
	CategoryExceptIncome     Category = "produits_exceptionnels"
	CategoryExceptExpense    Category = "charges_exceptionnelles"
	CategoryProfitSharing    Category = "participation"
	CategoryIncomeTax        Category = "impot_societes"

	// Balance sheet categories (classes 1-5).
	CategoryIntangibles      Category = "immo_incorporelles"
	CategoryTangibles        Category = "immo_corporelles"
	CategoryFinancialAssets  Category = "immo_financieres"
	CategoryInventory        Category = "stocks"
	CategoryAdvancesPaid     Category = "avances_versees"
	CategoryReceivables      Category = "clients"
	CategoryOtherReceivables Category = "autres_creances"
	CategoryPrepaidExpenses  Category = "charges_constatees_avance"
	CategorySecurities       Category = "vmp"
	CategoryCash             Category = "disponibilites"
	CategoryEquity           Category = "capitaux_propres"
	CategoryProvisions       Category = "provisions_risques"
	CategoryFinancialDebt    Category = "dettes_financieres"
	CategoryPayables         Category = "fournisseurs"
	CategoryTaxSocialDebt    Category = "dettes_fiscales_sociales"
	CategoryOtherPayables    Category = "autres_dettes"
	CategoryDeferredIncome   Category = "produits_constates_avance"
	CategoryBankOverdraft    Category = "tresorerie_passif"
)

// Mapping binds an account-number prefix to its classification. Target
// sections are optional: pure intermediate accounts carry none.
type Mapping struct {
	Prefix         string   `yaml:"prefix"`
	Category       Category `yaml:"category"`
	Label          string   `yaml:"label"`
	PnLSection     string   `yaml:"pnl_section,omitempty"`
	BalanceSection string   `yaml:"balance_section,omitempty"`
}

// Table resolves account numbers to mappings, longest prefix first. It is
// built once and read-only afterwards.
type Table struct {
	mappings []Mapping
	byPrefix map[string]Mapping
}

// NewTable builds a Table from a slice of mappings.
func NewTable(mappings []Mapping) *Table {
	byPrefix := make(map[string]Mapping, len(mappings))
	for _, m := range mappings {
		byPrefix[m.Prefix] = m
	}
	return &Table{mappings: mappings, byPrefix: byPrefix}
}

// Load reads a YAML mapping file and returns a Table merged over the
// default chart (file entries win on equal prefix).
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading account mapping: %w", err)
	}

	var overrides []Mapping
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing account mapping: %w", err)
	}

	merged := make(map[string]Mapping)
	for _, m := range DefaultMappings() {
		merged[m.Prefix] = m
	}
	for _, m := range overrides {
		if m.Prefix == "" {
			return nil, fmt.Errorf("account mapping with empty prefix (category %q)", m.Category)
		}
		merged[m.Prefix] = m
	}

	all := make([]Mapping, 0, len(merged))
	for _, m := range merged {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Prefix < all[j].Prefix })
	return NewTable(all), nil
}

// Classify returns the mapping for an account number. When several prefixes
// match, the longest one wins.
func (t *Table) Classify(accountNum string) (Mapping, bool) {
	account := strings.TrimSpace(accountNum)
	var best Mapping
	bestLen := 0
	for _, m := range t.mappings {
		if len(m.Prefix) > bestLen && strings.HasPrefix(account, m.Prefix) {
			best = m
			bestLen = len(m.Prefix)
		}
	}
	return best, bestLen > 0
}

// Category returns the category for an account number, or empty.
func (t *Table) Category(accountNum string) Category {
	m, ok := t.Classify(accountNum)
	if !ok {
		return ""
	}
	return m.Category
}

// All returns every mapping in prefix order.
func (t *Table) All() []Mapping {
	return t.mappings
}

// DebitPositive reports whether a debit increases the account's value.
// Assets and expenses (classes 2-6) are debit-normal; equity, liabilities
// and income (classes 1, 7) are credit-normal.
func DebitPositive(accountNum string) bool {
	account := strings.TrimSpace(accountNum)
	if account == "" {
		return true
	}
	switch account[0] {
	case '2', '3', '4', '5', '6':
		return true
	default:
		return false
	}
}
