// Package balance derives point-in-time balance sheets and working-capital
// metrics from classified ledger entries.
package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/model"
	"github.com/wincap-dev/wincap/internal/pcg"
)

const (
	sideActif  = "actif"
	sidePassif = "passif"
)

// sectionDef describes one balance sheet row. Direct rows accumulate the
// classification sections assigned by the pcg table; exclusions (419 out
// of clients, 4091 out of fournisseurs débiteurs, 519 out of banques) are
// encoded there as longer prefixes.
type sectionDef struct {
	Code         string
	Label        string
	Side         string
	CreditNormal bool
	Derived      bool
	Subtotal     bool
	Total        bool
	Indent       bool
}

var sectionDefs = []sectionDef{
	{Code: "immo_incorporelles", Label: "Immobilisations incorporelles", Side: sideActif},
	{Code: "immo_corporelles", Label: "Immobilisations corporelles", Side: sideActif},
	{Code: "immo_financieres", Label: "Immobilisations financières", Side: sideActif},
	{Code: "actif_immobilise", Label: "Actif immobilisé", Side: sideActif, Derived: true, Subtotal: true},
	{Code: "stock_matieres", Label: "Matières premières et approvisionnements", Side: sideActif, Indent: true},
	{Code: "stock_en_cours", Label: "En-cours de production", Side: sideActif, Indent: true},
	{Code: "stock_produits", Label: "Produits finis", Side: sideActif, Indent: true},
	{Code: "stock_marchandises", Label: "Marchandises", Side: sideActif, Indent: true},
	{Code: "stocks_total", Label: "Stocks", Side: sideActif, Derived: true, Subtotal: true},
	{Code: "avances_versees", Label: "Avances et acomptes versés", Side: sideActif},
	{Code: "clients", Label: "Clients et comptes rattachés", Side: sideActif},
	{Code: "autres_creances", Label: "Autres créances", Side: sideActif},
	{Code: "charges_constatees_avance", Label: "Charges constatées d'avance", Side: sideActif},
	{Code: "actif_circulant_exploitation", Label: "Actif circulant d'exploitation", Side: sideActif, Derived: true, Subtotal: true},
	{Code: "vmp", Label: "Valeurs mobilières de placement", Side: sideActif, Indent: true},
	{Code: "disponibilites", Label: "Disponibilités", Side: sideActif, Indent: true},
	{Code: "tresorerie_actif", Label: "Trésorerie active", Side: sideActif, Derived: true, Subtotal: true},
	{Code: "total_actif", Label: "Total actif", Side: sideActif, Derived: true, Total: true},

	{Code: "capital", Label: "Capital social", Side: sidePassif, CreditNormal: true, Indent: true},
	{Code: "reserves", Label: "Réserves", Side: sidePassif, CreditNormal: true, Indent: true},
	{Code: "report_a_nouveau", Label: "Report à nouveau", Side: sidePassif, CreditNormal: true, Indent: true},
	{Code: "resultat_exercice", Label: "Résultat de l'exercice", Side: sidePassif, CreditNormal: true, Indent: true},
	{Code: "capitaux_propres", Label: "Capitaux propres", Side: sidePassif, Derived: true, Subtotal: true},
	{Code: "provisions_risques", Label: "Provisions pour risques et charges", Side: sidePassif, CreditNormal: true},
	{Code: "emprunts_obligataires", Label: "Emprunts obligataires", Side: sidePassif, CreditNormal: true, Indent: true},
	{Code: "emprunts_etablissements", Label: "Emprunts et dettes auprès des établissements de crédit", Side: sidePassif, CreditNormal: true, Indent: true},
	{Code: "comptes_courants_associes", Label: "Comptes courants d'associés", Side: sidePassif, CreditNormal: true, Indent: true},
	{Code: "dettes_financieres", Label: "Dettes financières", Side: sidePassif, Derived: true, Subtotal: true},
	{Code: "fournisseurs", Label: "Fournisseurs et comptes rattachés", Side: sidePassif, CreditNormal: true},
	{Code: "dettes_fiscales_sociales", Label: "Dettes fiscales et sociales", Side: sidePassif, CreditNormal: true},
	{Code: "autres_dettes", Label: "Autres dettes", Side: sidePassif, CreditNormal: true},
	{Code: "produits_constates_avance", Label: "Produits constatés d'avance", Side: sidePassif, CreditNormal: true},
	{Code: "passif_circulant_exploitation", Label: "Passif circulant d'exploitation", Side: sidePassif, Derived: true, Subtotal: true},
	{Code: "tresorerie_passif", Label: "Concours bancaires courants", Side: sidePassif, CreditNormal: true},
	{Code: "total_passif", Label: "Total passif", Side: sidePassif, Derived: true, Total: true},
}

// amortPair declares the gross/contra pairing for a fixed-asset section.
// The pairing is explicit rather than derived from the 2x -> 28x naming
// convention, so off-convention charts stay correct.
type amortPair struct {
	Section        string
	GrossPrefixes  []string
	ContraPrefixes []string
}

var amortPairs = []amortPair{
	{Section: "immo_incorporelles", GrossPrefixes: []string{"20"}, ContraPrefixes: []string{"280", "290"}},
	{Section: "immo_corporelles", GrossPrefixes: []string{"21", "22", "23"}, ContraPrefixes: []string{"281", "282", "291"}},
	{Section: "immo_financieres", GrossPrefixes: []string{"26", "27"}, ContraPrefixes: []string{"296", "297"}},
}

// Engine derives balance sheets. Stateless between calls.
type Engine struct {
	table    *pcg.Table
	currency string
}

// NewEngine creates a balance sheet engine over a classification table.
func NewEngine(table *pcg.Table, currency string) *Engine {
	return &Engine{table: table, currency: currency}
}

// Build derives the balance sheet from entries dated on or before asOf.
// This is a pure snapshot: the caller chooses the cut-off.
func (e *Engine) Build(entries []model.LedgerEntry, asOf time.Time, fiscalYear string) *model.BalanceSheet {
	snapshot := fec.FilterUpTo(entries, asOf)
	direct := e.sumSections(snapshot)
	amort := amortizationBySection(snapshot)

	// Net fixed-asset sections of their contra accounts.
	for _, pair := range amortPairs {
		direct[pair.Section] = direct[pair.Section].Sub(amort[pair.Section])
	}

	agg := aggregates(direct)

	lines := make([]model.BalanceSheetLine, 0, len(sectionDefs))
	for _, def := range sectionDefs {
		amount := direct[def.Code]
		if def.Derived {
			amount = agg[def.Code]
		}
		line := model.BalanceSheetLine{
			Code:       def.Code,
			Label:      def.Label,
			Side:       def.Side,
			Amount:     amount,
			IsSubtotal: def.Subtotal,
			IsTotal:    def.Total,
			Indent:     def.Indent,
		}
		if a, ok := amort[def.Code]; ok && !def.Derived {
			line.Gross = amount.Add(a)
			line.Amortization = a
		}
		lines = append(lines, line)
	}

	return &model.BalanceSheet{
		AsOfDate:   asOf,
		FiscalYear: fiscalYear,
		Currency:   e.currency,
		Lines:      lines,

		StocksTotal:                agg["stocks_total"],
		ActifImmobilise:            agg["actif_immobilise"],
		ActifCirculantExploitation: agg["actif_circulant_exploitation"],
		TresorerieActif:            agg["tresorerie_actif"],
		TotalActif:                 agg["total_actif"],

		CapitauxPropres:             agg["capitaux_propres"],
		ProvisionsRisques:           direct["provisions_risques"],
		DettesFinancieresTotal:      agg["dettes_financieres"],
		PassifCirculantExploitation: agg["passif_circulant_exploitation"],
		TresoreriePassif:            direct["tresorerie_passif"],
		TotalPassif:                 agg["total_passif"],

		BFROperationnel:    agg["bfr_operationnel"],
		BFRNonOperationnel: agg["bfr_non_operationnel"],
		BFRTotal:           agg["bfr_total"],
		EndettementNet:     agg["endettement_net"],
	}
}

func (e *Engine) sumSections(entries []model.LedgerEntry) map[string]decimal.Decimal {
	creditNormal := make(map[string]bool, len(sectionDefs))
	for _, def := range sectionDefs {
		if !def.Derived {
			creditNormal[def.Code] = def.CreditNormal
		}
	}

	totals := make(map[string]decimal.Decimal, len(sectionDefs))
	for _, entry := range entries {
		mapping, ok := e.table.Classify(entry.AccountNum)
		if !ok || mapping.BalanceSection == "" {
			continue
		}
		section := mapping.BalanceSection
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

// amortizationBySection sums the contra-account balances (credit-normal)
// for each declared pairing.
func amortizationBySection(entries []model.LedgerEntry) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(amortPairs))
	for _, pair := range amortPairs {
		out[pair.Section] = fec.NetByPrefix(entries, pair.ContraPrefixes...).Neg()
	}
	return out
}

// aggregates computes derived sections in dependency order.
func aggregates(direct map[string]decimal.Decimal) map[string]decimal.Decimal {
	agg := make(map[string]decimal.Decimal)

	agg["stocks_total"] = direct["stock_matieres"].
		Add(direct["stock_en_cours"]).
		Add(direct["stock_produits"]).
		Add(direct["stock_marchandises"])

	agg["actif_immobilise"] = direct["immo_incorporelles"].
		Add(direct["immo_corporelles"]).
		Add(direct["immo_financieres"])

	agg["actif_circulant_exploitation"] = agg["stocks_total"].
		Add(direct["clients"]).
		Add(direct["avances_versees"]).
		Add(direct["autres_creances"]).
		Add(direct["charges_constatees_avance"])

	agg["tresorerie_actif"] = direct["vmp"].Add(direct["disponibilites"])

	agg["total_actif"] = agg["actif_immobilise"].
		Add(agg["actif_circulant_exploitation"]).
		Add(agg["tresorerie_actif"])

	agg["capitaux_propres"] = direct["capital"].
		Add(direct["reserves"]).
		Add(direct["report_a_nouveau"]).
		Add(direct["resultat_exercice"])

	agg["dettes_financieres"] = direct["emprunts_obligataires"].
		Add(direct["emprunts_etablissements"]).
		Add(direct["comptes_courants_associes"])

	agg["passif_circulant_exploitation"] = direct["fournisseurs"].
		Add(direct["dettes_fiscales_sociales"]).
		Add(direct["autres_dettes"]).
		Add(direct["produits_constates_avance"])

	agg["total_passif"] = agg["capitaux_propres"].
		Add(direct["provisions_risques"]).
		Add(agg["dettes_financieres"]).
		Add(agg["passif_circulant_exploitation"]).
		Add(direct["tresorerie_passif"])

	agg["bfr_operationnel"] = agg["stocks_total"].
		Add(direct["clients"]).
		Add(direct["avances_versees"]).
		Sub(direct["fournisseurs"])

	agg["bfr_non_operationnel"] = direct["autres_creances"].
		Add(direct["charges_constatees_avance"]).
		Sub(direct["dettes_fiscales_sociales"]).
		Sub(direct["autres_dettes"]).
		Sub(direct["produits_constates_avance"])

	agg["bfr_total"] = agg["bfr_operationnel"].Add(agg["bfr_non_operationnel"])

	agg["endettement_net"] = agg["dettes_financieres"].
		Add(direct["tresorerie_passif"]).
		Sub(agg["tresorerie_actif"])

	return agg
}
