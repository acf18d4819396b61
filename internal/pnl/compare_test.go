package pnl

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincap-dev/wincap/internal/model"
)

func buildYear(t *testing.T, year int, entries []model.LedgerEntry) *model.PnLStatement {
	t.Helper()
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	return newTestEngine().Build(entries, time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"), start, end)
}

func yearEntries(year int, revenue, personnel int64) []model.LedgerEntry {
	day := time.Date(year, 6, 15, 0, 0, 0, 0, time.UTC)
	return []model.LedgerEntry{
		{AccountNum: "707000", Credit: decimal.NewFromInt(revenue), EntryDate: day},
		{AccountNum: "641000", Debit: decimal.NewFromInt(personnel), EntryDate: day},
	}
}

func TestCompare(t *testing.T) {
	prev := buildYear(t, 2022, yearEntries(2022, 1000, 600))
	curr := buildYear(t, 2023, yearEntries(2023, 1500, 600))

	variations := Compare(prev, curr)
	require.Len(t, variations, len(lineDefs))

	byCode := make(map[string]SectionVariation)
	for _, v := range variations {
		byCode[v.Code] = v
	}

	ca := byCode["chiffre_affaires"]
	assert.True(t, ca.Delta.Equal(decimal.NewFromInt(500)))
	assert.True(t, ca.DeltaPct.Equal(decimal.NewFromInt(50)))

	perso := byCode["personnel"]
	assert.True(t, perso.Delta.IsZero())
	assert.True(t, perso.DeltaPct.IsZero())

	// Zero prior amount degrades the percentage to zero.
	achats := byCode["achats"]
	assert.True(t, achats.DeltaPct.IsZero())
}

func TestEBITDABridge(t *testing.T) {
	prev := buildYear(t, 2022, yearEntries(2022, 1000, 600))
	curr := buildYear(t, 2023, yearEntries(2023, 1500, 700))

	items := EBITDABridge(prev, curr)
	require.GreaterOrEqual(t, len(items), 4)

	start := items[0]
	assert.Equal(t, "start", start.Kind)
	assert.Equal(t, "EBITDA 2022", start.Label)
	assert.True(t, start.Amount.Equal(decimal.NewFromInt(400)))

	end := items[len(items)-1]
	assert.Equal(t, "end", end.Kind)
	assert.True(t, end.Amount.Equal(decimal.NewFromInt(800)))

	// start + deltas == end.
	sum := start.Amount
	for _, item := range items[1 : len(items)-1] {
		assert.Equal(t, "delta", item.Kind)
		sum = sum.Add(item.Amount)
	}
	assert.True(t, sum.Equal(end.Amount))
}

func TestEBITDABridge_SkipsUnchangedComponents(t *testing.T) {
	prev := buildYear(t, 2022, yearEntries(2022, 1000, 600))
	curr := buildYear(t, 2023, yearEntries(2023, 1200, 600))

	items := EBITDABridge(prev, curr)
	// start, revenue delta, end. Personnel is unchanged and dropped.
	require.Len(t, items, 3)
	assert.Equal(t, "Chiffre d'affaires", items[1].Label)
	assert.True(t, items[1].Amount.Equal(decimal.NewFromInt(200)))
}

func TestRevenueBridge(t *testing.T) {
	prev := buildYear(t, 2022, yearEntries(2022, 9000, 600))
	curr := buildYear(t, 2023, yearEntries(2023, 10000, 600))

	items := RevenueBridge(prev, curr)
	require.Len(t, items, 3)
	assert.Equal(t, "CA 2022", items[0].Label)
	assert.Equal(t, "start", items[0].Kind)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(9000)))
	assert.True(t, items[1].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "end", items[2].Kind)
	assert.True(t, items[2].Amount.Equal(decimal.NewFromInt(10000)))
}

func TestVolumePriceBridge(t *testing.T) {
	prev := &model.PnLStatement{
		FiscalYear:      "2022",
		ChiffreAffaires: decimal.NewFromInt(9000),
		Production:      decimal.NewFromInt(10000),
		EBITDA:          decimal.NewFromInt(2000),
	}
	curr := &model.PnLStatement{
		FiscalYear:      "2023",
		ChiffreAffaires: decimal.NewFromInt(10000),
		Production:      decimal.NewFromInt(11000),
		EBITDA:          decimal.NewFromInt(2600),
	}

	items := VolumePriceBridge(prev, curr)
	require.Len(t, items, 4)

	// 1000 more revenue at the prior 20% margin on production.
	volume := items[1]
	assert.Equal(t, "Effet volume", volume.Label)
	assert.True(t, volume.Amount.Equal(decimal.NewFromInt(200)), "got %s", volume.Amount)

	priceMix := items[2]
	assert.Equal(t, "Effet prix/mix", priceMix.Label)
	assert.True(t, priceMix.Amount.Equal(decimal.NewFromInt(400)))

	// Bars tie out to the ends.
	total := items[0].Amount.Add(volume.Amount).Add(priceMix.Amount)
	assert.True(t, total.Equal(items[3].Amount))
}

func TestVolumePriceBridge_ZeroPriorProduction(t *testing.T) {
	prev := &model.PnLStatement{FiscalYear: "2022"}
	curr := &model.PnLStatement{
		FiscalYear:      "2023",
		ChiffreAffaires: decimal.NewFromInt(5000),
		EBITDA:          decimal.NewFromInt(800),
	}

	items := VolumePriceBridge(prev, curr)
	require.Len(t, items, 4)
	assert.True(t, items[1].Amount.IsZero())
	assert.True(t, items[2].Amount.Equal(decimal.NewFromInt(800)), "whole movement is price/mix")
}
