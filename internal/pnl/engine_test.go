package pnl

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincap-dev/wincap/internal/model"
	"github.com/wincap-dev/wincap/internal/pcg"
)

var (
	fy2023Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	fy2023End   = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
)

func newTestEngine() *Engine {
	return NewEngine(pcg.NewTable(pcg.DefaultMappings()), "EUR")
}

func charge(account string, amount int64, day time.Time) model.LedgerEntry {
	return model.LedgerEntry{AccountNum: account, Debit: decimal.NewFromInt(amount), EntryDate: day}
}

func income(account string, amount int64, day time.Time) model.LedgerEntry {
	return model.LedgerEntry{AccountNum: account, Credit: decimal.NewFromInt(amount), EntryDate: day}
}

func midYear(month time.Month) time.Time {
	return time.Date(2023, month, 15, 0, 0, 0, 0, time.UTC)
}

func TestBuild_SubtotalChain(t *testing.T) {
	entries := []model.LedgerEntry{
		income("707000", 10000, midYear(time.March)),
		income("713000", 500, midYear(time.December)), // production stockée
		charge("607000", 3000, midYear(time.April)),
		charge("611000", 1000, midYear(time.May)), // sous-traitance carve-out
		charge("615000", 800, midYear(time.May)),
		charge("635000", 200, midYear(time.June)),
		charge("641000", 2500, midYear(time.June)),
		charge("651000", 300, midYear(time.July)),
		charge("681000", 400, midYear(time.August)),
		charge("661000", 150, midYear(time.September)),
		income("768000", 50, midYear(time.September)),
		charge("671000", 120, midYear(time.October)),
		income("771000", 70, midYear(time.October)),
		charge("691000", 60, midYear(time.November)),
		charge("695000", 500, midYear(time.December)),
	}

	st := newTestEngine().Build(entries, "2023", fy2023Start, fy2023End)

	assert.True(t, st.ChiffreAffaires.Equal(decimal.NewFromInt(10000)))
	assert.True(t, st.Production.Equal(decimal.NewFromInt(10500)))
	// 10500 - 3000 achats - 1000 sous-traitance
	assert.True(t, st.MargeCoutsDirects.Equal(decimal.NewFromInt(6500)))
	// 6500 - 800 autres achats - 200 impôts - 2500 personnel - 300 autres charges
	assert.True(t, st.EBITDA.Equal(decimal.NewFromInt(2700)))
	// 2700 - 400 dotations
	assert.True(t, st.ResultatExploitation.Equal(decimal.NewFromInt(2300)))
	// 2300 + (50-150) financier + (70-120) exceptionnel - 60 participation - 500 IS
	assert.True(t, st.ResultatNet.Equal(decimal.NewFromInt(1590)))

	// Each subtotal line equals its struct counterpart.
	assert.True(t, st.LineAmount("ebitda").Equal(st.EBITDA))
	assert.True(t, st.LineAmount("resultat_net").Equal(st.ResultatNet))
	assert.True(t, st.LineAmount("resultat_financier").Equal(decimal.NewFromInt(-100)))
	assert.True(t, st.LineAmount("resultat_exceptionnel").Equal(decimal.NewFromInt(-50)))
}

func TestBuild_NettingOffsets(t *testing.T) {
	// 75x income offsets 65x charges on the same line; 78x write-backs
	// offset 68x dotations.
	entries := []model.LedgerEntry{
		income("707000", 1000, midYear(time.March)),
		charge("651000", 400, midYear(time.April)),
		income("758000", 150, midYear(time.May)),
		charge("681000", 600, midYear(time.June)),
		income("781000", 200, midYear(time.July)),
	}

	st := newTestEngine().Build(entries, "2023", fy2023Start, fy2023End)

	assert.True(t, st.LineAmount("autres_charges").Equal(decimal.NewFromInt(250)), "65 net of 75")
	assert.True(t, st.LineAmount("dotations").Equal(decimal.NewFromInt(400)), "68 net of 78")
	assert.True(t, st.EBITDA.Equal(decimal.NewFromInt(750)))
	assert.True(t, st.ResultatExploitation.Equal(decimal.NewFromInt(350)))
}

func TestBuild_PeriodFilter(t *testing.T) {
	entries := []model.LedgerEntry{
		income("707000", 100, time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)),
		income("707000", 200, midYear(time.June)),
		income("707000", 400, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	st := newTestEngine().Build(entries, "2023", fy2023Start, fy2023End)
	assert.True(t, st.ChiffreAffaires.Equal(decimal.NewFromInt(200)))
}

func TestBuild_MarginsDegradeOnZeroProduction(t *testing.T) {
	entries := []model.LedgerEntry{
		charge("641000", 500, midYear(time.June)),
	}
	st := newTestEngine().Build(entries, "2023", fy2023Start, fy2023End)

	assert.True(t, st.EBITDA.Equal(decimal.NewFromInt(-500)))
	assert.True(t, st.EBITDAMargin.IsZero(), "no division by zero production")
	line, ok := st.Line("ebitda")
	require.True(t, ok)
	assert.True(t, line.MarginPct.IsZero())
}

func TestBuild_EBITDAMargin(t *testing.T) {
	entries := []model.LedgerEntry{
		income("707000", 1000, midYear(time.March)),
		charge("641000", 600, midYear(time.June)),
	}
	st := newTestEngine().Build(entries, "2023", fy2023Start, fy2023End)
	assert.True(t, st.EBITDAMargin.Equal(decimal.NewFromInt(40)))
}

func TestBuild_EmptyEntries(t *testing.T) {
	st := newTestEngine().Build(nil, "2023", fy2023Start, fy2023End)
	assert.True(t, st.ResultatNet.IsZero())
	assert.Len(t, st.Lines, 23)
}

func TestBuild_CreditorRevenueRefund(t *testing.T) {
	// A revenue refund (debit on 70x) reduces chiffre d'affaires.
	entries := []model.LedgerEntry{
		income("707000", 1000, midYear(time.March)),
		charge("709000", 100, midYear(time.April)),
	}
	st := newTestEngine().Build(entries, "2023", fy2023Start, fy2023End)
	assert.True(t, st.ChiffreAffaires.Equal(decimal.NewFromInt(900)))
}
