package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/model"
)

// DebtAdjustmentItem reclassifies an amount into or out of the net-debt
// calculation. Positive cash adjustments reduce available cash (trapped
// or restricted cash); positive debt adjustments add debt-like items
// (earn-outs, litigation provisions, overdue tax).
type DebtAdjustmentItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// QoDReport bridges the accounting net debt of a balance sheet to an
// adjusted, transaction-ready figure.
type QoDReport struct {
	FiscalYear string `json:"fiscalYear"`

	TresorerieBrute         decimal.Decimal `json:"tresorerieBrute"`
	DettesBrutes            decimal.Decimal `json:"dettesBrutes"`
	EndettementNetComptable decimal.Decimal `json:"endettementNetComptable"`

	CashAdjustments []DebtAdjustmentItem `json:"cashAdjustments"`
	DebtAdjustments []DebtAdjustmentItem `json:"debtAdjustments"`

	TresorerieAjustee    decimal.Decimal `json:"tresorerieAjustee"`
	DettesAjustees       decimal.Decimal `json:"dettesAjustees"`
	EndettementNetAjuste decimal.Decimal `json:"endettementNetAjuste"`
}

// QualityOfDebt restates a balance sheet's net debt with caller-supplied
// cash and debt adjustments.
func QualityOfDebt(bs *model.BalanceSheet, cashAdj, debtAdj []DebtAdjustmentItem) QoDReport {
	cash := bs.TresorerieNette()
	debt := bs.DettesFinancieresTotal

	adjustedCash := cash
	for _, item := range cashAdj {
		adjustedCash = adjustedCash.Sub(item.Amount)
	}
	adjustedDebt := debt
	for _, item := range debtAdj {
		adjustedDebt = adjustedDebt.Add(item.Amount)
	}

	return QoDReport{
		FiscalYear:              bs.FiscalYear,
		TresorerieBrute:         cash,
		DettesBrutes:            debt,
		EndettementNetComptable: debt.Sub(cash),
		CashAdjustments:         cashAdj,
		DebtAdjustments:         debtAdj,
		TresorerieAjustee:       adjustedCash,
		DettesAjustees:          adjustedDebt,
		EndettementNetAjuste:    adjustedDebt.Sub(adjustedCash),
	}
}
