package fec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/wincap-dev/wincap/internal/model"
)

// Canonical FEC column names (18 fields, Arrêté du 29 juillet 2013).
const (
	colJournalCode  = "journalcode"
	colJournalLib   = "journallib"
	colEcritureNum  = "ecriturenum"
	colEcritureDate = "ecrituredate"
	colCompteNum    = "comptenum"
	colCompteLib    = "comptelib"
	colCompAuxNum   = "compauxnum"
	colCompAuxLib   = "compauxlib"
	colPieceRef     = "pieceref"
	colPieceDate    = "piecedate"
	colEcritureLib  = "ecriturelib"
	colDebit        = "debit"
	colCredit       = "credit"
	colEcritureLet  = "ecriturelet"
	colDateLet      = "datelet"
	colValidDate    = "validdate"
	colMontantDev   = "montantdevise"
	colIdevise      = "idevise"
)

// requiredColumns must all be present in the header for the file to parse.
var requiredColumns = []string{
	colJournalCode, colJournalLib, colEcritureNum, colEcritureDate,
	colCompteNum, colCompteLib, colEcritureLib, colDebit, colCredit,
}

// candidateDelimiters in detection order.
var candidateDelimiters = []rune{'|', ';', '\t', ','}

// minHeaderFields is the minimum field count a delimiter must produce on
// the header line to be accepted.
const minHeaderFields = 5

var dateLayouts = []string{
	"20060102",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
}

// parseDelimited parses the text path of a FEC export. A non-nil error is
// file-level (no usable delimiter or missing required columns).
func parseDelimited(text string) ([]model.LedgerEntry, []ParseError, []Warning, error) {
	headerLine := firstLine(text)
	delim, err := detectDelimiter(headerLine)
	if err != nil {
		return nil, nil, nil, err
	}

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, nil, nil, err
	}

	var entries []model.LedgerEntry
	var errs []ParseError
	var warnings []Warning

	for rowNum := 2; ; rowNum++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, ParseError{Row: rowNum, Field: "-", Message: err.Error()})
			continue
		}
		if blankRecord(record) {
			continue
		}

		entry, rowErrs, rowWarns := parseRow(record, cols, rowNum)
		errs = append(errs, rowErrs...)
		warnings = append(warnings, rowWarns...)
		if len(rowErrs) == 0 {
			entries = append(entries, entry)
		}
	}

	return entries, errs, warnings, nil
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return strings.TrimRight(text[:i], "\r")
	}
	return text
}

// detectDelimiter picks the candidate that splits the header into the most
// fields, requiring at least minHeaderFields.
func detectDelimiter(headerLine string) (rune, error) {
	best := rune(0)
	bestCount := 0
	for _, d := range candidateDelimiters {
		n := len(strings.Split(headerLine, string(d)))
		if n >= minHeaderFields && n > bestCount {
			best = d
			bestCount = n
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("no delimiter yields at least %d header fields", minHeaderFields)
	}
	return best, nil
}

// normalizeHeader case-folds, strips diacritics and drops everything
// outside [a-z0-9] so that "Ecriture_Date", "EcritureDate" and
// "écriture date" all collapse to the same key.
func normalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, h)
	if err != nil {
		stripped = h
	}
	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mapColumns resolves header names to field indices and checks the nine
// required columns.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := cols[key]; !seen {
			cols[key] = i
		}
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseRow converts one data record into a LedgerEntry. A missing account
// number or unparseable entry date is fatal for the row; zero-zero and
// both-sides amounts are warnings only.
func parseRow(record []string, cols map[string]int, rowNum int) (model.LedgerEntry, []ParseError, []Warning) {
	var errs []ParseError
	var warnings []Warning

	account := field(record, cols, colCompteNum)
	if account == "" {
		errs = append(errs, ParseError{Row: rowNum, Field: "CompteNum", Message: "missing account number"})
	}

	dateStr := field(record, cols, colEcritureDate)
	entryDate, err := parseDate(dateStr)
	if err != nil {
		errs = append(errs, ParseError{Row: rowNum, Field: "EcritureDate", Value: dateStr, Message: err.Error()})
	}

	debitStr := field(record, cols, colDebit)
	debit, err := parseAmount(debitStr)
	if err != nil {
		errs = append(errs, ParseError{Row: rowNum, Field: "Debit", Value: debitStr, Message: err.Error()})
	}

	creditStr := field(record, cols, colCredit)
	credit, err := parseAmount(creditStr)
	if err != nil {
		errs = append(errs, ParseError{Row: rowNum, Field: "Credit", Value: creditStr, Message: err.Error()})
	}

	if len(errs) > 0 {
		return model.LedgerEntry{}, errs, warnings
	}

	if debit.IsZero() && credit.IsZero() {
		warnings = append(warnings, Warning{Row: rowNum, Message: "entry with zero debit and zero credit"})
	}
	if !debit.IsZero() && !credit.IsZero() {
		warnings = append(warnings, Warning{Row: rowNum, Message: "entry with amounts on both debit and credit"})
	}

	entry := model.LedgerEntry{
		JournalCode:  field(record, cols, colJournalCode),
		JournalLabel: field(record, cols, colJournalLib),
		EntryNum:     field(record, cols, colEcritureNum),
		EntryDate:    entryDate,
		AccountNum:   account,
		AccountLabel: field(record, cols, colCompteLib),
		AuxNum:       field(record, cols, colCompAuxNum),
		AuxLabel:     field(record, cols, colCompAuxLib),
		PieceRef:     field(record, cols, colPieceRef),
		EntryLabel:   field(record, cols, colEcritureLib),
		Debit:        debit,
		Credit:       credit,
		Lettering:    field(record, cols, colEcritureLet),
		CurrencyCode: field(record, cols, colIdevise),
	}

	// Optional date fields: a bad value degrades to zero, not an error.
	if s := field(record, cols, colPieceDate); s != "" {
		if d, err := parseDate(s); err == nil {
			entry.PieceDate = d
		}
	}
	if s := field(record, cols, colDateLet); s != "" {
		if d, err := parseDate(s); err == nil {
			entry.LetteringDate = d
		}
	}
	if s := field(record, cols, colValidDate); s != "" {
		if d, err := parseDate(s); err == nil {
			entry.ValidationDate = d
		}
	}
	if s := field(record, cols, colMontantDev); s != "" {
		if amt, err := parseAmount(s); err == nil {
			entry.CurrencyAmount = amt
		}
	}

	return entry, nil, warnings
}

// parseDate tries YYYYMMDD, the DD/MM/YYYY separator family, then ISO.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount parses a locale-aware decimal: comma or dot separator,
// dot-as-thousands when both appear, spaces stripped.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	cleaned = strings.NewReplacer(" ", "", " ", "", " ", "").Replace(cleaned)

	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		// Both separators present: the last one is the decimal mark,
		// the other groups thousands (1.234,56 vs 1,234.56).
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}
