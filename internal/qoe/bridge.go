package qoe

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wincap-dev/wincap/internal/model"
)

// duplicateTolerance is the relative amount band within which two
// same-type, same-year adjustments are flagged as potential duplicates.
var duplicateTolerance = decimal.NewFromFloat(0.10)

// Analyze folds one year's adjustments into an adjusted-EBITDA view.
// Only validated adjustments move the total; proposals are carried for
// display but contribute nothing.
func Analyze(pnl *model.PnLStatement, adjustments []model.QoEAdjustment) model.QoEAnalysis {
	adjusted := pnl.EBITDA
	for _, adj := range adjustments {
		if adj.Validated {
			adjusted = adjusted.Add(adj.ImpactEBITDA)
		}
	}

	marge := decimal.Zero
	if pnl.Production.Sign() > 0 {
		marge = adjusted.Div(pnl.Production).Mul(decimal.NewFromInt(100))
	}

	return model.QoEAnalysis{
		FiscalYear:    pnl.FiscalYear,
		EBITDAReporte: pnl.EBITDA,
		Adjustments:   adjustments,
		EBITDAAjuste:  adjusted,
		MargeAjustee:  marge,
	}
}

// BuildBridge assembles per-year analyses into the cross-year bridge.
// The by-type summary covers validated adjustments only. Duplicate
// candidates are surfaced as collisions, never merged.
func BuildBridge(years []model.QoEAnalysis) model.QoEBridge {
	byType := make(map[model.AdjustmentType]decimal.Decimal)
	var collisions []model.QoECollision
	for _, year := range years {
		for _, adj := range year.Adjustments {
			if adj.Validated {
				byType[adj.Type] = byType[adj.Type].Add(adj.ImpactEBITDA)
			}
		}
		collisions = append(collisions, detectCollisions(year)...)
	}
	return model.QoEBridge{
		Years:      years,
		ByType:     byType,
		Collisions: collisions,
	}
}

func detectCollisions(year model.QoEAnalysis) []model.QoECollision {
	var out []model.QoECollision
	adjs := year.Adjustments
	for i := 0; i < len(adjs); i++ {
		for j := i + 1; j < len(adjs); j++ {
			if reason, ok := collide(adjs[i], adjs[j]); ok {
				out = append(out, model.QoECollision{
					FiscalYear: year.FiscalYear,
					First:      adjs[i],
					Second:     adjs[j],
					Reason:     reason,
				})
			}
		}
	}
	return out
}

func collide(a, b model.QoEAdjustment) (string, bool) {
	if a.Type == b.Type && amountsClose(a.ImpactEBITDA, b.ImpactEBITDA) {
		return fmt.Sprintf("même type %s avec des montants proches (%s / %s)",
			a.Type, a.ImpactEBITDA.StringFixed(2), b.ImpactEBITDA.StringFixed(2)), true
	}
	if sameAccounts(a.Accounts, b.Accounts) {
		return "comptes concernés identiques", true
	}
	return "", false
}

// amountsClose holds when both amounts are nonzero and within the
// relative tolerance of each other.
func amountsClose(a, b decimal.Decimal) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	larger := decimal.Max(a.Abs(), b.Abs())
	return a.Sub(b).Abs().LessThanOrEqual(larger.Mul(duplicateTolerance))
}

func sameAccounts(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	// Account lists are emitted sorted by the detection rules.
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
