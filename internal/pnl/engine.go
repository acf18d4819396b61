// Package pnl derives restated P&L statements from classified ledger
// entries. Line structure, netting carve-outs and the subtotal chain
// follow the French PCG presentation used in diligence databooks.
package pnl

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/model"
	"github.com/wincap-dev/wincap/internal/pcg"
)

// lineDef describes one row of the fixed P&L layout. Direct lines are
// summed from the sections the classification table assigns; derived
// lines are computed by the subtotal chain in Build.
type lineDef struct {
	Code         string
	Label        string
	CreditNormal bool // credits minus debits (revenue-like) when true
	Derived      bool
	Subtotal     bool
	Total        bool
	Indent       bool
}

// lineDefs is the fixed presentation order. Netting carve-outs live in the
// classification table, not here: 611 classifies to sous_traitance ahead
// of the 61 prefix, 75 and 78 classify to the expense line they offset and
// are measured on its debit-normal side.
var lineDefs = []lineDef{
	{Code: "chiffre_affaires", Label: "Chiffre d'affaires", CreditNormal: true},
	{Code: "variation_en_cours", Label: "Production stockée et immobilisée", CreditNormal: true, Indent: true},
	{Code: "production", Label: "Production", Derived: true, Subtotal: true},
	{Code: "achats", Label: "Achats consommés"},
	{Code: "sous_traitance", Label: "Sous-traitance directe"},
	{Code: "marge_couts_directs", Label: "Marge sur coûts directs", Derived: true, Subtotal: true},
	{Code: "autres_achats", Label: "Autres achats et charges externes"},
	{Code: "impots_taxes", Label: "Impôts et taxes"},
	{Code: "personnel", Label: "Charges de personnel"},
	{Code: "autres_charges", Label: "Autres charges de gestion"},
	{Code: "ebitda", Label: "EBITDA", Derived: true, Subtotal: true},
	{Code: "dotations", Label: "Dotations nettes aux amortissements et provisions"},
	{Code: "resultat_exploitation", Label: "Résultat d'exploitation", Derived: true, Subtotal: true},
	{Code: "produits_financiers", Label: "Produits financiers", Indent: true},
	{Code: "charges_financieres", Label: "Charges financières", Indent: true},
	{Code: "resultat_financier", Label: "Résultat financier", Derived: true, Subtotal: true},
	{Code: "resultat_courant", Label: "Résultat courant avant impôts", Derived: true, Subtotal: true},
	{Code: "produits_exceptionnels", Label: "Produits exceptionnels", Indent: true},
	{Code: "charges_exceptionnelles", Label: "Charges exceptionnelles", Indent: true},
	{Code: "resultat_exceptionnel", Label: "Résultat exceptionnel", Derived: true, Subtotal: true},
	{Code: "participation", Label: "Participation des salariés"},
	{Code: "impot_societes", Label: "Impôt sur les sociétés"},
	{Code: "resultat_net", Label: "Résultat net", Derived: true, Total: true},
}

// Engine derives P&L statements. It is stateless between calls.
type Engine struct {
	table    *pcg.Table
	currency string
}

// NewEngine creates a P&L engine over a classification table.
func NewEngine(table *pcg.Table, currency string) *Engine {
	return &Engine{table: table, currency: currency}
}

// Build derives the P&L for entries dated within [start, end].
func (e *Engine) Build(entries []model.LedgerEntry, fiscalYear string, start, end time.Time) *model.PnLStatement {
	period := fec.FilterPeriod(entries, start, end)
	direct := e.sumSections(period)

	production := direct["chiffre_affaires"].Add(direct["variation_en_cours"])
	margeCoutsDirects := production.Sub(direct["achats"]).Sub(direct["sous_traitance"])
	ebitda := margeCoutsDirects.
		Sub(direct["autres_achats"]).
		Sub(direct["impots_taxes"]).
		Sub(direct["personnel"]).
		Sub(direct["autres_charges"])
	resultatExploitation := ebitda.Sub(direct["dotations"])
	resultatFinancier := direct["produits_financiers"].Sub(direct["charges_financieres"])
	resultatCourant := resultatExploitation.Add(resultatFinancier)
	resultatExceptionnel := direct["produits_exceptionnels"].Sub(direct["charges_exceptionnelles"])
	resultatNet := resultatCourant.Add(resultatExceptionnel).
		Sub(direct["participation"]).
		Sub(direct["impot_societes"])

	derived := map[string]decimal.Decimal{
		"production":            production,
		"marge_couts_directs":   margeCoutsDirects,
		"ebitda":                ebitda,
		"resultat_exploitation": resultatExploitation,
		"resultat_financier":    resultatFinancier,
		"resultat_courant":      resultatCourant,
		"resultat_exceptionnel": resultatExceptionnel,
		"resultat_net":          resultatNet,
	}

	lines := make([]model.PnLLine, 0, len(lineDefs))
	for _, def := range lineDefs {
		amount := direct[def.Code]
		if def.Derived {
			amount = derived[def.Code]
		}
		line := model.PnLLine{
			Code:       def.Code,
			Label:      def.Label,
			Section:    def.Code,
			Amount:     amount,
			IsSubtotal: def.Subtotal,
			IsTotal:    def.Total,
			Indent:     def.Indent,
		}
		if def.Subtotal || def.Total {
			line.MarginPct = marginPct(amount, production)
		}
		lines = append(lines, line)
	}

	return &model.PnLStatement{
		FiscalYear:           fiscalYear,
		StartDate:            start,
		EndDate:              end,
		Currency:             e.currency,
		Lines:                lines,
		ChiffreAffaires:      direct["chiffre_affaires"],
		Production:           production,
		MargeCoutsDirects:    margeCoutsDirects,
		EBITDA:               ebitda,
		EBITDAMargin:         marginPct(ebitda, production),
		ResultatExploitation: resultatExploitation,
		ResultatNet:          resultatNet,
	}
}

// sumSections accumulates period entries into direct P&L sections, each
// measured on its line's normal side.
func (e *Engine) sumSections(entries []model.LedgerEntry) map[string]decimal.Decimal {
	creditNormal := make(map[string]bool, len(lineDefs))
	for _, def := range lineDefs {
		if !def.Derived {
			creditNormal[def.Code] = def.CreditNormal
		}
	}

	totals := make(map[string]decimal.Decimal, len(lineDefs))
	for _, entry := range entries {
		mapping, ok := e.table.Classify(entry.AccountNum)
		if !ok || mapping.PnLSection == "" {
			continue
		}
		section := mapping.PnLSection
		isCredit, known := creditNormal[section]
		if !known {
			continue
		}
		if isCredit {
			totals[section] = totals[section].Add(entry.Credit).Sub(entry.Debit)
		} else {
			totals[section] = totals[section].Add(entry.Debit).Sub(entry.Credit)
		}
	}
	return totals
}

// marginPct is amount over production, as a percentage. Ratios degrade to
// zero for zero or negative production instead of failing.
func marginPct(amount, production decimal.Decimal) decimal.Decimal {
	if production.Sign() <= 0 {
		return decimal.Zero
	}
	return amount.Div(production).Mul(decimal.NewFromInt(100))
}
