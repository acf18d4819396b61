package cashflow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincap-dev/wincap/internal/balance"
	"github.com/wincap-dev/wincap/internal/model"
	"github.com/wincap-dev/wincap/internal/pcg"
)

func entry(account string, debit, credit int64, day time.Time) model.LedgerEntry {
	return model.LedgerEntry{
		AccountNum: account,
		Debit:      decimal.NewFromInt(debit),
		Credit:     decimal.NewFromInt(credit),
		EntryDate:  day,
	}
}

func TestMonthly(t *testing.T) {
	jan := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC)

	entries := []model.LedgerEntry{
		// January: sale on credit, cash injection.
		entry("411000", 1200, 0, jan),
		entry("707000", 0, 1200, jan),
		entry("512000", 5000, 0, jan),
		entry("101000", 0, 5000, jan),
		// February: the client pays, a supplier invoice lands.
		entry("512000", 1200, 0, feb),
		entry("411000", 0, 1200, feb),
		entry("607000", 800, 0, feb),
		entry("401000", 0, 800, feb),
	}

	be := balance.NewEngine(pcg.NewTable(pcg.DefaultMappings()), "EUR")
	months := Monthly(be, entries)
	require.Len(t, months, 2)

	assert.Equal(t, 2023, months[0].Year)
	assert.Equal(t, 1, months[0].Month)
	assert.True(t, months[0].BFRTotal.Equal(decimal.NewFromInt(1200)), "open receivable")
	assert.True(t, months[0].VariationBFR.Equal(decimal.NewFromInt(1200)))
	assert.True(t, months[0].Tresorerie.Equal(decimal.NewFromInt(5000)))

	assert.Equal(t, 2, months[1].Month)
	assert.True(t, months[1].BFRTotal.Equal(decimal.NewFromInt(-800)), "receivable collected, payable open")
	assert.True(t, months[1].VariationBFR.Equal(decimal.NewFromInt(-2000)))
	assert.True(t, months[1].Tresorerie.Equal(decimal.NewFromInt(6200)))
}

func TestMonthly_NoEntries(t *testing.T) {
	be := balance.NewEngine(pcg.NewTable(pcg.DefaultMappings()), "EUR")
	assert.Nil(t, Monthly(be, nil))
}

func TestQualityOfDebt(t *testing.T) {
	bs := &model.BalanceSheet{
		FiscalYear:             "2023",
		TresorerieActif:        decimal.NewFromInt(8000),
		TresoreriePassif:       decimal.NewFromInt(500),
		DettesFinancieresTotal: decimal.NewFromInt(12000),
	}

	report := QualityOfDebt(bs,
		[]DebtAdjustmentItem{{Label: "Trésorerie bloquée", Amount: decimal.NewFromInt(1000)}},
		[]DebtAdjustmentItem{
			{Label: "Earn-out", Amount: decimal.NewFromInt(2000)},
			{Label: "Dettes fiscales échues", Amount: decimal.NewFromInt(500)},
		})

	assert.Equal(t, "2023", report.FiscalYear)
	assert.True(t, report.TresorerieBrute.Equal(decimal.NewFromInt(7500)))
	assert.True(t, report.DettesBrutes.Equal(decimal.NewFromInt(12000)))
	assert.True(t, report.EndettementNetComptable.Equal(decimal.NewFromInt(4500)))

	assert.True(t, report.TresorerieAjustee.Equal(decimal.NewFromInt(6500)))
	assert.True(t, report.DettesAjustees.Equal(decimal.NewFromInt(14500)))
	assert.True(t, report.EndettementNetAjuste.Equal(decimal.NewFromInt(8000)))
}

func TestQualityOfDebt_NoAdjustments(t *testing.T) {
	bs := &model.BalanceSheet{
		TresorerieActif:        decimal.NewFromInt(3000),
		DettesFinancieresTotal: decimal.NewFromInt(3000),
	}

	report := QualityOfDebt(bs, nil, nil)
	assert.True(t, report.EndettementNetComptable.IsZero())
	assert.True(t, report.EndettementNetAjuste.IsZero())
}
