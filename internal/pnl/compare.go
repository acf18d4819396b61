package pnl

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/model"
)

// SectionVariation is the year-over-year movement of one P&L line.
type SectionVariation struct {
	Code     string          `json:"code"`
	Label    string          `json:"label"`
	Previous decimal.Decimal `json:"previous"`
	Current  decimal.Decimal `json:"current"`
	Delta    decimal.Decimal `json:"delta"`
	DeltaPct decimal.Decimal `json:"deltaPct"`
}

// Compare produces per-line absolute and percentage variation between two
// statements, in presentation order.
func Compare(prev, curr *model.PnLStatement) []SectionVariation {
	out := make([]SectionVariation, 0, len(lineDefs))
	for _, def := range lineDefs {
		prevAmount := prev.LineAmount(def.Code)
		currAmount := curr.LineAmount(def.Code)
		out = append(out, SectionVariation{
			Code:     def.Code,
			Label:    def.Label,
			Previous: prevAmount,
			Current:  currAmount,
			Delta:    currAmount.Sub(prevAmount),
			DeltaPct: pctChange(prevAmount, currAmount),
		})
	}
	return out
}

func pctChange(old, new decimal.Decimal) decimal.Decimal {
	if old.Sign() == 0 {
		return decimal.Zero
	}
	return new.Sub(old).Div(old.Abs()).Mul(decimal.NewFromInt(100))
}

// BridgeItem is one bar of the EBITDA waterfall.
type BridgeItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"` // "start" | "delta" | "end"
}

// ebitdaComponents are the direct lines feeding EBITDA, with the sign of
// their contribution.
var ebitdaComponents = []struct {
	Code     string
	Label    string
	Positive bool
}{
	{"chiffre_affaires", "Chiffre d'affaires", true},
	{"variation_en_cours", "Production stockée", true},
	{"achats", "Achats consommés", false},
	{"sous_traitance", "Sous-traitance", false},
	{"autres_achats", "Autres achats et charges externes", false},
	{"impots_taxes", "Impôts et taxes", false},
	{"personnel", "Charges de personnel", false},
	{"autres_charges", "Autres charges de gestion", false},
}

// roundingGuard suppresses bridge noise below a cent.
var roundingGuard = decimal.RequireFromString("0.01")

// EBITDABridge builds the waterfall from the prior period's EBITDA to the
// current one. Every component whose delta clears the rounding guard is
// emitted; there is deliberately no 1%-of-prior materiality filter here.
func EBITDABridge(prev, curr *model.PnLStatement) []BridgeItem {
	items := []BridgeItem{{
		Label:  fmt.Sprintf("EBITDA %s", prev.FiscalYear),
		Amount: prev.EBITDA,
		Kind:   "start",
	}}

	for _, comp := range ebitdaComponents {
		delta := curr.LineAmount(comp.Code).Sub(prev.LineAmount(comp.Code))
		if !comp.Positive {
			delta = delta.Neg()
		}
		if delta.Abs().LessThanOrEqual(roundingGuard) {
			continue
		}
		items = append(items, BridgeItem{Label: comp.Label, Amount: delta, Kind: "delta"})
	}

	items = append(items, BridgeItem{
		Label:  fmt.Sprintf("EBITDA %s", curr.FiscalYear),
		Amount: curr.EBITDA,
		Kind:   "end",
	})
	return items
}

// RevenueBridge builds the waterfall from the prior period's revenue to
// the current one.
func RevenueBridge(prev, curr *model.PnLStatement) []BridgeItem {
	return []BridgeItem{
		{Label: fmt.Sprintf("CA %s", prev.FiscalYear), Amount: prev.ChiffreAffaires, Kind: "start"},
		{Label: "Variation", Amount: curr.ChiffreAffaires.Sub(prev.ChiffreAffaires), Kind: "delta"},
		{Label: fmt.Sprintf("CA %s", curr.FiscalYear), Amount: curr.ChiffreAffaires, Kind: "end"},
	}
}

// VolumePriceBridge decomposes the EBITDA movement into a volume effect
// (the revenue change valued at the prior period's EBITDA margin on
// production) and a residual price/mix effect. With zero prior
// production the whole movement lands in price/mix.
func VolumePriceBridge(prev, curr *model.PnLStatement) []BridgeItem {
	volume := decimal.Zero
	if !prev.Production.IsZero() {
		margin := prev.EBITDA.Div(prev.Production)
		volume = curr.ChiffreAffaires.Sub(prev.ChiffreAffaires).Mul(margin)
	}
	priceMix := curr.EBITDA.Sub(prev.EBITDA).Sub(volume)

	return []BridgeItem{
		{Label: fmt.Sprintf("EBITDA %s", prev.FiscalYear), Amount: prev.EBITDA, Kind: "start"},
		{Label: "Effet volume", Amount: volume, Kind: "delta"},
		{Label: "Effet prix/mix", Amount: priceMix, Kind: "delta"},
		{Label: fmt.Sprintf("EBITDA %s", curr.FiscalYear), Amount: curr.EBITDA, Kind: "end"},
	}
}
