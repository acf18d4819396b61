package fec

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/wincap-dev/wincap/internal/model"
)

// ParseError is a fatal row- or file-level problem. The offending row is
// dropped from the entry sequence; parsing continues.
type ParseError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("row %d, field %s: %s (value %q)", e.Row, e.Field, e.Message, e.Value)
}

// Warning is a non-fatal data-quality observation attached to the result.
type Warning struct {
	Row     int    `json:"row,omitempty"`
	Message string `json:"message"`
}

// Result bundles the parsed file with its diagnostics. File is nil only on
// file-level failure.
type Result struct {
	File     *model.ParsedLedgerFile `json:"file,omitempty"`
	Errors   []ParseError            `json:"errors,omitempty"`
	Warnings []Warning               `json:"warnings,omitempty"`
}

// balanceTolerance is the absolute debit/credit difference under which a
// file counts as balanced.
var balanceTolerance = decimal.RequireFromString("0.01")

// fecYearPattern extracts the fiscal year from statutory FEC filenames,
// e.g. 844118190FEC20241231.txt.
var fecYearPattern = regexp.MustCompile(`FEC(\d{4})`)

// Parse turns raw FEC file content into a validated ParsedLedgerFile. It
// handles text (pipe/semicolon/tab/comma) and XML exports and the usual
// encoding zoo (UTF-8, Windows-1252, ISO-8859-1). A non-nil error means
// file-level failure: no decodable text, a missing required column, or
// zero valid rows.
func Parse(content []byte, filename string) (*Result, error) {
	text, err := decodeText(content)
	if err != nil {
		return &Result{}, fmt.Errorf("decoding %s: %w", filename, err)
	}

	var entries []model.LedgerEntry
	var errs []ParseError
	var warnings []Warning

	if looksLikeXML(text) {
		entries, errs, warnings = parseXML(text)
	} else {
		entries, errs, warnings, err = parseDelimited(text)
		if err != nil {
			return &Result{Errors: errs, Warnings: warnings}, fmt.Errorf("parsing %s: %w", filename, err)
		}
	}

	if len(entries) == 0 {
		return &Result{Errors: errs, Warnings: warnings},
			fmt.Errorf("parsing %s: no valid entries (%d rows rejected)", filename, len(errs))
	}

	file := summarize(entries, filename)
	if !file.IsBalanced {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("ledger is unbalanced: total debit %s vs total credit %s",
				file.TotalDebit.StringFixed(2), file.TotalCredit.StringFixed(2)),
		})
	}

	return &Result{File: file, Errors: errs, Warnings: warnings}, nil
}

// decodeText decodes raw bytes trying UTF-8 first, then Windows-1252,
// then ISO-8859-1. FEC files from older accounting packages are commonly
// exported in one of the latin encodings.
func decodeText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty file")
	}

	// UTF-8 BOM.
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(content) {
		return string(content), nil
	}

	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(content); err == nil {
		s := string(decoded)
		if !strings.ContainsRune(s, utf8.RuneError) {
			return s, nil
		}
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("no known encoding matched")
	}
	return string(decoded), nil
}

func looksLikeXML(text string) bool {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	return strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<")
}

// summarize computes the file-level metadata over the parsed entries.
func summarize(entries []model.LedgerEntry, filename string) *model.ParsedLedgerFile {
	minDate := entries[0].EntryDate
	maxDate := entries[0].EntryDate
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, e := range entries {
		if e.EntryDate.Before(minDate) {
			minDate = e.EntryDate
		}
		if e.EntryDate.After(maxDate) {
			maxDate = e.EntryDate
		}
		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}

	return &model.ParsedLedgerFile{
		Filename:    filename,
		FiscalYear:  fiscalYearLabel(minDate, maxDate),
		SourceYear:  sourceYear(filename),
		StartDate:   minDate,
		EndDate:     maxDate,
		Entries:     entries,
		EntryCount:  len(entries),
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		IsBalanced:  totalDebit.Sub(totalCredit).Abs().LessThanOrEqual(balanceTolerance),
	}
}

// fiscalYearLabel is a single year when the period stays within one
// calendar year, "start/end" otherwise.
func fiscalYearLabel(start, end time.Time) string {
	if start.Year() == end.Year() {
		return strconv.Itoa(start.Year())
	}
	return fmt.Sprintf("%d/%d", start.Year(), end.Year())
}

// sourceYear extracts the year embedded in statutory FEC filenames, or 0.
func sourceYear(filename string) int {
	m := fecYearPattern.FindStringSubmatch(filename)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}
