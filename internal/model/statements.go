package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PnLLine is one row of the P&L presentation.
type PnLLine struct {
	Code       string          `json:"code"`
	Label      string          `json:"label"`
	Section    string          `json:"section"`
	Amount     decimal.Decimal `json:"amount"`
	MarginPct  decimal.Decimal `json:"marginPct,omitempty"`
	IsSubtotal bool            `json:"isSubtotal,omitempty"`
	IsTotal    bool            `json:"isTotal,omitempty"`
	Indent     bool            `json:"indent,omitempty"`
}

// PnLStatement is the derived P&L for one period. Subtotal amounts are
// always recomputed from their components, never set independently.
type PnLStatement struct {
	FiscalYear string    `json:"fiscalYear"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Currency   string    `json:"currency"`
	Lines      []PnLLine `json:"lines"`

	ChiffreAffaires      decimal.Decimal `json:"chiffreAffaires"`
	Production           decimal.Decimal `json:"production"`
	MargeCoutsDirects    decimal.Decimal `json:"margeCoutsDirects"`
	EBITDA               decimal.Decimal `json:"ebitda"`
	EBITDAMargin         decimal.Decimal `json:"ebitdaMargin"`
	ResultatExploitation decimal.Decimal `json:"resultatExploitation"`
	ResultatNet          decimal.Decimal `json:"resultatNet"`
}

// Line returns the line with the given code, if present.
func (p *PnLStatement) Line(code string) (PnLLine, bool) {
	for _, l := range p.Lines {
		if l.Code == code {
			return l, true
		}
	}
	return PnLLine{}, false
}

// LineAmount returns the amount of the line with the given code, or zero.
func (p *PnLStatement) LineAmount(code string) decimal.Decimal {
	l, ok := p.Line(code)
	if !ok {
		return decimal.Zero
	}
	return l.Amount
}

// BalanceSheetLine is one row of the balance sheet presentation. Gross and
// Amortization are populated only for fixed-asset lines.
type BalanceSheetLine struct {
	Code         string          `json:"code"`
	Label        string          `json:"label"`
	Side         string          `json:"side"` // "actif" | "passif"
	Amount       decimal.Decimal `json:"amount"`
	Gross        decimal.Decimal `json:"gross,omitempty"`
	Amortization decimal.Decimal `json:"amortization,omitempty"`
	IsSubtotal   bool            `json:"isSubtotal,omitempty"`
	IsTotal      bool            `json:"isTotal,omitempty"`
	Indent       bool            `json:"indent,omitempty"`
}

// BalanceSheet is a point-in-time snapshot derived from entries dated on or
// before AsOfDate.
type BalanceSheet struct {
	AsOfDate   time.Time          `json:"asOfDate"`
	FiscalYear string             `json:"fiscalYear"`
	Currency   string             `json:"currency"`
	Lines      []BalanceSheetLine `json:"lines"`

	StocksTotal                decimal.Decimal `json:"stocksTotal"`
	ActifImmobilise            decimal.Decimal `json:"actifImmobilise"`
	ActifCirculantExploitation decimal.Decimal `json:"actifCirculantExploitation"`
	TresorerieActif            decimal.Decimal `json:"tresorerieActif"`
	TotalActif                 decimal.Decimal `json:"totalActif"`

	CapitauxPropres             decimal.Decimal `json:"capitauxPropres"`
	ProvisionsRisques           decimal.Decimal `json:"provisionsRisques"`
	DettesFinancieresTotal      decimal.Decimal `json:"dettesFinancieresTotal"`
	PassifCirculantExploitation decimal.Decimal `json:"passifCirculantExploitation"`
	TresoreriePassif            decimal.Decimal `json:"tresoreriePassif"`
	TotalPassif                 decimal.Decimal `json:"totalPassif"`

	BFROperationnel    decimal.Decimal `json:"bfrOperationnel"`
	BFRNonOperationnel decimal.Decimal `json:"bfrNonOperationnel"`
	BFRTotal           decimal.Decimal `json:"bfrTotal"`
	EndettementNet     decimal.Decimal `json:"endettementNet"`
}

// Line returns the line with the given code, if present.
func (b *BalanceSheet) Line(code string) (BalanceSheetLine, bool) {
	for _, l := range b.Lines {
		if l.Code == code {
			return l, true
		}
	}
	return BalanceSheetLine{}, false
}

// LineAmount returns the amount of the line with the given code, or zero.
func (b *BalanceSheet) LineAmount(code string) decimal.Decimal {
	l, ok := b.Line(code)
	if !ok {
		return decimal.Zero
	}
	return l.Amount
}

// TresorerieNette is cash net of short-term bank facilities.
func (b *BalanceSheet) TresorerieNette() decimal.Decimal {
	return b.TresorerieActif.Sub(b.TresoreriePassif)
}

// CashFlowLine is one row of the cash flow presentation.
type CashFlowLine struct {
	Code       string          `json:"code"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	IsSubtotal bool            `json:"isSubtotal,omitempty"`
}

// CashFlowStatement reconciles one P&L period against its opening and
// closing balance sheets (indirect method).
type CashFlowStatement struct {
	FiscalYear string         `json:"fiscalYear"`
	Currency   string         `json:"currency"`
	Lines      []CashFlowLine `json:"lines"`

	EBITDA              decimal.Decimal `json:"ebitda"`
	VariationBFR        decimal.Decimal `json:"variationBFR"`
	FluxExploitation    decimal.Decimal `json:"fluxExploitation"`
	FluxInvestissement  decimal.Decimal `json:"fluxInvestissement"`
	ImpotDecaisse       decimal.Decimal `json:"impotDecaisse"`
	FCFApresImpot       decimal.Decimal `json:"fcfApresImpot"`
	FluxFinancement     decimal.Decimal `json:"fluxFinancement"`
	VariationTresorerie decimal.Decimal `json:"variationTresorerie"`
	TresorerieOuverture decimal.Decimal `json:"tresorerieOuverture"`
	TresorerieCloture   decimal.Decimal `json:"tresorerieCloture"`
}

// MonthlyCashFlow is one month of the reconstructed cash cycle.
type MonthlyCashFlow struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	BFRTotal     decimal.Decimal `json:"bfrTotal"`
	VariationBFR decimal.Decimal `json:"variationBFR"`
	Tresorerie   decimal.Decimal `json:"tresorerie"`
}
