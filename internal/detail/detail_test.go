package detail

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincap-dev/wincap/internal/model"
	"github.com/wincap-dev/wincap/internal/pcg"
)

func testTable() *pcg.Table {
	return pcg.NewTable(pcg.DefaultMappings())
}

func line(account, label string, debit, credit int64, day time.Time) model.LedgerEntry {
	return model.LedgerEntry{
		JournalCode:  "OD",
		AccountNum:   account,
		AccountLabel: label,
		EntryLabel:   label,
		Debit:        decimal.NewFromInt(debit),
		Credit:       decimal.NewFromInt(credit),
		EntryDate:    day,
	}
}

var testDay = time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)

func TestSummary(t *testing.T) {
	entries := []model.LedgerEntry{
		line("601000", "Achats matières", 4000, 0, testDay),
		line("601000", "Achats matières", 1000, 500, testDay),
		line("707000", "Ventes", 0, 9000, testDay),
		line("999000", "Inconnu", 100, 0, testDay),
	}

	lines := Summary(testTable(), entries)
	require.Len(t, lines, 3)

	achats := lines[0]
	assert.Equal(t, "601000", achats.Account)
	assert.Equal(t, "Achats matières", achats.Label)
	assert.Equal(t, "achats", achats.Category)
	assert.True(t, achats.Debit.Equal(decimal.NewFromInt(5000)))
	assert.True(t, achats.Credit.Equal(decimal.NewFromInt(500)))
	assert.True(t, achats.Balance.Equal(decimal.NewFromInt(4500)))

	ventes := lines[1]
	assert.Equal(t, "707000", ventes.Account)
	assert.True(t, ventes.Balance.Equal(decimal.NewFromInt(-9000)), "unoriented debit minus credit")

	assert.Equal(t, Uncategorized, lines[2].Category)
}

func TestTopAccounts_Expenses(t *testing.T) {
	entries := []model.LedgerEntry{
		line("601000", "Achats", 4000, 0, testDay),
		line("641000", "Salaires", 9000, 0, testDay),
		line("615000", "Entretien", 1500, 0, testDay),
		line("707000", "Ventes", 0, 20000, testDay), // wrong class, ignored
	}

	top := TopAccounts(testTable(), entries, "6", 2)
	require.Len(t, top, 2)
	assert.Equal(t, "641000", top[0].Account)
	assert.True(t, top[0].Amount.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, "601000", top[1].Account)
}

func TestTopAccounts_RevenueOrientation(t *testing.T) {
	entries := []model.LedgerEntry{
		line("706000", "Prestations", 0, 12000, testDay),
		line("707000", "Ventes", 500, 8000, testDay), // avoir on 500
	}

	top := TopAccounts(testTable(), entries, "7", 0)
	require.Len(t, top, 2)
	assert.Equal(t, "706000", top[0].Account)
	assert.True(t, top[0].Amount.Equal(decimal.NewFromInt(12000)), "credit-normal account reads positive")
	assert.True(t, top[1].Amount.Equal(decimal.NewFromInt(7500)))
}

func TestCategoryBreakdown(t *testing.T) {
	entries := []model.LedgerEntry{
		line("601000", "Achats", 4000, 0, testDay),
		line("602000", "Achats stockés", 1000, 0, testDay),
		line("707000", "Ventes", 0, 9000, testDay),
	}

	totals := CategoryBreakdown(testTable(), entries)
	require.Len(t, totals, 2)

	assert.Equal(t, "achats", totals[0].Category)
	assert.True(t, totals[0].Debit.Equal(decimal.NewFromInt(5000)))
	assert.True(t, totals[0].Balance.Equal(decimal.NewFromInt(5000)))

	assert.Equal(t, "chiffre_affaires", totals[1].Category)
	assert.True(t, totals[1].Credit.Equal(decimal.NewFromInt(9000)))
	assert.True(t, totals[1].Balance.Equal(decimal.NewFromInt(9000)), "credit-normal category reads positive")
}

func TestJournalExtract(t *testing.T) {
	feb := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	entries := []model.LedgerEntry{
		line("411000", "Facture B", 800, 0, feb),
		line("411000", "Facture A", 1200, 0, jan),
		line("512000", "Virement", 0, 1200, feb),
	}

	extract := JournalExtract(testTable(), entries, "411", 0)
	require.Len(t, extract, 2)
	assert.Equal(t, "Facture A", extract[0].Label)
	assert.Equal(t, "Facture B", extract[1].Label)
	assert.Equal(t, "clients", extract[0].Category)

	all := JournalExtract(testTable(), entries, "", 2)
	require.Len(t, all, 2, "limit caps the extract")
	assert.Equal(t, jan, all[0].Date)
}
