// Package cashflow reconstructs indirect-method cash flow statements from
// one P&L period and its opening and closing balance sheets.
package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/model"
)

// Build reconciles the cash movement between two chronologically ordered
// balance sheets against one P&L period. The opening sheet must predate
// the closing sheet; sequencing is the caller's responsibility.
//
// The statement starts from EBITDA, nets working-capital variation,
// estimated CAPEX/disposals and estimated tax, and closes with financing
// flows. A residual "autres variations" financing line absorbs whatever
// the estimators cannot attribute, so variationTresorerie always ties to
// the literal net-cash delta between the two sheets.
func Build(pnl *model.PnLStatement, opening, closing *model.BalanceSheet) *model.CashFlowStatement {
	ebitda := pnl.EBITDA

	deltaBFROp := closing.BFROperationnel.Sub(opening.BFROperationnel)
	deltaBFRNonOp := closing.BFRNonOperationnel.Sub(opening.BFRNonOperationnel)
	variationBFR := deltaBFROp.Add(deltaBFRNonOp)
	fluxExploitation := ebitda.Sub(variationBFR)

	capex := estimateCapex(opening, closing)
	disposals := estimateDisposalProceeds(pnl)
	fluxInvestissement := capex.Neg().Add(disposals)

	impot := estimateTaxOutflow(pnl)
	fcf := fluxExploitation.Add(fluxInvestissement).Sub(impot)

	dividendes := estimateDividends(opening, closing)
	emprunts := closing.LineAmount("emprunts_obligataires").Add(closing.LineAmount("emprunts_etablissements")).
		Sub(opening.LineAmount("emprunts_obligataires")).Sub(opening.LineAmount("emprunts_etablissements"))
	comptesCourants := closing.LineAmount("comptes_courants_associes").
		Sub(opening.LineAmount("comptes_courants_associes"))

	tresorerieOuverture := opening.TresorerieNette()
	tresorerieCloture := closing.TresorerieNette()
	variationTresorerie := tresorerieCloture.Sub(tresorerieOuverture)

	// Financing is the balancing section: the classified items plus a
	// residual line, so the statement always ties to the cash delta.
	fluxFinancement := variationTresorerie.Sub(fluxExploitation).Sub(fluxInvestissement).Add(impot)
	autresVariations := fluxFinancement.Add(dividendes).Sub(emprunts).Sub(comptesCourants)

	lines := []model.CashFlowLine{
		{Code: "ebitda", Label: "EBITDA", Amount: ebitda},
		{Code: "variation_bfr_operationnel", Label: "Variation du BFR opérationnel", Amount: deltaBFROp.Neg()},
		{Code: "variation_bfr_non_operationnel", Label: "Variation du BFR non opérationnel", Amount: deltaBFRNonOp.Neg()},
		{Code: "flux_exploitation", Label: "Flux de trésorerie d'exploitation", Amount: fluxExploitation, IsSubtotal: true},
		{Code: "capex", Label: "Investissements (CAPEX)", Amount: capex.Neg()},
		{Code: "cessions", Label: "Produits de cessions d'actifs", Amount: disposals},
		{Code: "flux_investissement", Label: "Flux de trésorerie d'investissement", Amount: fluxInvestissement, IsSubtotal: true},
		{Code: "impot_decaisse", Label: "Impôt sur les sociétés décaissé", Amount: impot.Neg()},
		{Code: "fcf_apres_impot", Label: "Free cash flow après impôt", Amount: fcf, IsSubtotal: true},
		{Code: "dividendes", Label: "Dividendes versés", Amount: dividendes.Neg()},
		{Code: "nouveaux_emprunts", Label: "Variation des emprunts", Amount: emprunts},
		{Code: "comptes_courants", Label: "Variation des comptes courants d'associés", Amount: comptesCourants},
		{Code: "autres_variations", Label: "Autres variations de financement", Amount: autresVariations},
		{Code: "flux_financement", Label: "Flux de trésorerie de financement", Amount: fluxFinancement, IsSubtotal: true},
		{Code: "variation_tresorerie", Label: "Variation de trésorerie", Amount: variationTresorerie, IsSubtotal: true},
	}

	return &model.CashFlowStatement{
		FiscalYear:          pnl.FiscalYear,
		Currency:            pnl.Currency,
		Lines:               lines,
		EBITDA:              ebitda,
		VariationBFR:        variationBFR,
		FluxExploitation:    fluxExploitation,
		FluxInvestissement:  fluxInvestissement,
		ImpotDecaisse:       impot,
		FCFApresImpot:       fcf,
		FluxFinancement:     fluxFinancement,
		VariationTresorerie: variationTresorerie,
		TresorerieOuverture: tresorerieOuverture,
		TresorerieCloture:   tresorerieCloture,
	}
}

// fixedAssetSections carry a gross/amortization split on their lines.
var fixedAssetSections = []string{"immo_incorporelles", "immo_corporelles", "immo_financieres"}

// estimateCapex approximates investments as the increase in gross fixed
// assets between the two sheets. Ledger-sourced capex (a dedicated
// account class) can replace this estimator without touching Build.
func estimateCapex(opening, closing *model.BalanceSheet) decimal.Decimal {
	delta := decimal.Zero
	for _, code := range fixedAssetSections {
		openLine, _ := opening.Line(code)
		closeLine, _ := closing.Line(code)
		delta = delta.Add(closeLine.Gross).Sub(openLine.Gross)
	}
	return delta
}

// estimateDisposalProceeds approximates asset sale proceeds as the
// exceptional income of the period.
func estimateDisposalProceeds(pnl *model.PnLStatement) decimal.Decimal {
	return pnl.LineAmount("produits_exceptionnels")
}

// estimateTaxOutflow approximates the corporate tax cash-out as the
// period's tax charge.
func estimateTaxOutflow(pnl *model.PnLStatement) decimal.Decimal {
	return pnl.LineAmount("impot_societes")
}

// estimateDividends infers the payout as the opening retained result not
// found back in reserves or carried forward. A negative inference means a
// capital movement, reported as zero here and absorbed by the residual
// financing line.
func estimateDividends(opening, closing *model.BalanceSheet) decimal.Decimal {
	retained := closing.LineAmount("reserves").Add(closing.LineAmount("report_a_nouveau")).
		Sub(opening.LineAmount("reserves")).Sub(opening.LineAmount("report_a_nouveau"))
	dividends := opening.LineAmount("resultat_exercice").Sub(retained)
	if dividends.Sign() < 0 {
		return decimal.Zero
	}
	return dividends
}

// CashConversionRate is FCF after tax over EBITDA, as a percentage.
// Degrades to zero when EBITDA is not positive.
func CashConversionRate(cf *model.CashFlowStatement) decimal.Decimal {
	if cf.EBITDA.Sign() <= 0 {
		return decimal.Zero
	}
	return cf.FCFApresImpot.Div(cf.EBITDA).Mul(decimal.NewFromInt(100))
}
