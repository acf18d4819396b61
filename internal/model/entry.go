package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a single journal line from a FEC export. Amounts are
// non-negative; a well-formed line carries a value on exactly one of
// Debit/Credit.
type LedgerEntry struct {
	JournalCode    string          `json:"journalCode"`
	JournalLabel   string          `json:"journalLib"`
	EntryNum       string          `json:"ecritureNum"`
	EntryDate      time.Time       `json:"ecritureDate"`
	AccountNum     string          `json:"compteNum"`
	AccountLabel   string          `json:"compteLib"`
	AuxNum         string          `json:"compAuxNum,omitempty"`
	AuxLabel       string          `json:"compAuxLib,omitempty"`
	PieceRef       string          `json:"pieceRef,omitempty"`
	PieceDate      time.Time       `json:"pieceDate,omitzero"`
	EntryLabel     string          `json:"ecritureLib"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Lettering      string          `json:"ecritureLet,omitempty"`
	LetteringDate  time.Time       `json:"dateLet,omitzero"`
	ValidationDate time.Time       `json:"validDate,omitzero"`
	CurrencyAmount decimal.Decimal `json:"montantDevise,omitempty"`
	CurrencyCode   string          `json:"idDevise,omitempty"`
}

// Amount is the net movement of the line (debit - credit).
func (e LedgerEntry) Amount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// AccountClass returns the first digit of the account number (PCG class).
func (e LedgerEntry) AccountClass() string {
	if e.AccountNum == "" {
		return ""
	}
	return e.AccountNum[:1]
}

// ParsedLedgerFile is the read-only result of parsing one FEC file.
// Downstream engines never mutate it.
type ParsedLedgerFile struct {
	Filename    string          `json:"filename"`
	FiscalYear  string          `json:"fiscalYear"` // "2024" or "2023/2024"
	SourceYear  int             `json:"sourceYear,omitempty"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Entries     []LedgerEntry   `json:"entries"`
	EntryCount  int             `json:"entryCount"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	IsBalanced  bool            `json:"isBalanced"`
}

// Imbalance is the absolute debit/credit difference.
func (f *ParsedLedgerFile) Imbalance() decimal.Decimal {
	return f.TotalDebit.Sub(f.TotalCredit).Abs()
}
