// Package qoe scans ledger entries for patterns that typically warrant
// an EBITDA normalization in due diligence, and aggregates validated
// adjustments into a multi-year bridge.
package qoe

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/model"
)

// Config carries the detection thresholds. Amounts are in ledger
// currency units.
type Config struct {
	NonRecurringMin    decimal.Decimal `yaml:"non_recurring_min"`
	RelatedPartyMin    decimal.Decimal `yaml:"related_party_min"`
	BadDebtMin         decimal.Decimal `yaml:"bad_debt_min"`
	OneTimeFeeMin      decimal.Decimal `yaml:"one_time_fee_min"`
	EnCoursMin         decimal.Decimal `yaml:"en_cours_min"`
	FAEMax             decimal.Decimal `yaml:"fae_max"`
	OwnerCompBenchmark decimal.Decimal `yaml:"owner_comp_benchmark"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		NonRecurringMin:    decimal.NewFromInt(1000),
		RelatedPartyMin:    decimal.NewFromInt(5000),
		BadDebtMin:         decimal.NewFromInt(5000),
		OneTimeFeeMin:      decimal.NewFromInt(10000),
		EnCoursMin:         decimal.NewFromInt(50000),
		FAEMax:             decimal.NewFromInt(1000),
		OwnerCompBenchmark: decimal.NewFromInt(120000),
	}
}

// Account prefixes scanned by the detection rules.
var (
	nonRecurringCharges = []string{"671", "672", "673", "675", "678"}
	nonRecurringIncome  = []string{"771", "772", "775", "778"}
	relatedPartyClass   = []string{"45"}
	ownerCompAccounts   = []string{"644", "646"}
	badDebtAccounts     = []string{"491", "654", "6714"}
	advisoryFeeAccounts = []string{"6226", "6227"}
	oneTimeFeeKeywords  = []string{
		"acquisition", "cession", "due diligence", "due-diligence",
		"audit", "restructur",
	}
)

// Engine runs the detection battery. Stateless apart from its
// configuration; safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Detect runs every rule against one fiscal year's entries and returns
// the suggestions in rule order. Suggestions never mutate ledger state;
// each starts unvalidated and only enters bridge totals once a reviewer
// confirms it.
func (e *Engine) Detect(entries []model.LedgerEntry, fiscalYear string) []model.QoEAdjustment {
	var out []model.QoEAdjustment
	out = append(out, e.detectNonRecurring(entries, fiscalYear)...)
	out = append(out, e.detectRelatedParty(entries, fiscalYear)...)
	out = append(out, e.detectOwnerCompensation(entries, fiscalYear)...)
	out = append(out, e.detectMethodChange(entries, fiscalYear)...)
	out = append(out, e.detectBadDebt(entries, fiscalYear)...)
	out = append(out, e.detectOneTimeFees(entries, fiscalYear)...)
	return out
}

// detectNonRecurring nets the curated exceptional sub-accounts. Adding
// back a charge raises EBITDA; removing one-off income lowers it.
func (e *Engine) detectNonRecurring(entries []model.LedgerEntry, fiscalYear string) []model.QoEAdjustment {
	charges := decimal.Zero
	for _, p := range nonRecurringCharges {
		charges = charges.Add(fec.NetByPrefix(entries, p))
	}
	income := decimal.Zero
	for _, p := range nonRecurringIncome {
		income = income.Add(fec.NetByPrefix(entries, p).Neg())
	}
	impact := charges.Sub(income)
	if impact.Abs().LessThanOrEqual(e.cfg.NonRecurringMin) {
		return nil
	}
	return []model.QoEAdjustment{newAdjustment(
		model.AdjustmentNonRecurring,
		"Éléments exceptionnels non récurrents",
		fmt.Sprintf("Charges exceptionnelles %s, produits exceptionnels %s sur les sous-comptes non récurrents.",
			charges.StringFixed(2), income.StringFixed(2)),
		fiscalYear, impact, model.ConfidenceHigh,
		touchedAccounts(entries, append(nonRecurringCharges, nonRecurringIncome...)),
	)}
}

// detectRelatedParty groups intercompany movements by counterparty.
// Impact stays at zero: whether the flow is at arm's length needs a
// human call.
func (e *Engine) detectRelatedParty(entries []model.LedgerEntry, fiscalYear string) []model.QoEAdjustment {
	type flow struct {
		net      decimal.Decimal
		accounts map[string]bool
	}
	byCounterparty := make(map[string]*flow)
	for _, entry := range entries {
		if !fec.HasPrefix(entry.AccountNum, relatedPartyClass...) {
			continue
		}
		key := entry.AuxNum
		if key == "" {
			key = entry.AccountNum
		}
		f := byCounterparty[key]
		if f == nil {
			f = &flow{net: decimal.Zero, accounts: make(map[string]bool)}
			byCounterparty[key] = f
		}
		f.net = f.net.Add(entry.Amount())
		f.accounts[entry.AccountNum] = true
	}

	keys := make([]string, 0, len(byCounterparty))
	for k := range byCounterparty {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []model.QoEAdjustment
	for _, key := range keys {
		f := byCounterparty[key]
		if f.net.Abs().LessThanOrEqual(e.cfg.RelatedPartyMin) {
			continue
		}
		out = append(out, newAdjustment(
			model.AdjustmentRelatedParty,
			fmt.Sprintf("Flux intragroupe — %s", key),
			fmt.Sprintf("Flux net de %s avec la contrepartie %s. Impact à évaluer manuellement.",
				f.net.StringFixed(2), key),
			fiscalYear, decimal.Zero, model.ConfidenceMedium,
			sortedKeys(f.accounts),
		))
	}
	return out
}

// detectOwnerCompensation flags only the upside over the benchmark.
func (e *Engine) detectOwnerCompensation(entries []model.LedgerEntry, fiscalYear string) []model.QoEAdjustment {
	total := decimal.Zero
	for _, p := range ownerCompAccounts {
		total = total.Add(fec.NetByPrefix(entries, p))
	}
	upside := total.Sub(e.cfg.OwnerCompBenchmark)
	if upside.Sign() <= 0 {
		return nil
	}
	return []model.QoEAdjustment{newAdjustment(
		model.AdjustmentOwnerComp,
		"Rémunération du dirigeant au-dessus du marché",
		fmt.Sprintf("Rémunération de l'exploitant de %s contre un référentiel de %s.",
			total.StringFixed(2), e.cfg.OwnerCompBenchmark.StringFixed(2)),
		fiscalYear, upside, model.ConfidenceMedium,
		touchedAccounts(entries, ownerCompAccounts),
	)}
}

// detectMethodChange fires when en-cours stock builds up while no
// advance invoicing is booked, the signature of a revenue-recognition
// mismatch. The opposite pattern (FAE without en-cours) is normal
// advance billing and is not flagged.
func (e *Engine) detectMethodChange(entries []model.LedgerEntry, fiscalYear string) []model.QoEAdjustment {
	enCours := fec.NetByPrefix(entries, "34")
	fae := fec.NetByPrefix(entries, "418")
	if enCours.LessThanOrEqual(e.cfg.EnCoursMin) || fae.Abs().GreaterThanOrEqual(e.cfg.FAEMax) {
		return nil
	}
	return []model.QoEAdjustment{newAdjustment(
		model.AdjustmentMethodChange,
		"Méthode de reconnaissance du revenu à vérifier",
		fmt.Sprintf("En-cours de production de %s sans facturation à établir (FAE %s). Investigation manuelle requise.",
			enCours.StringFixed(2), fae.StringFixed(2)),
		fiscalYear, decimal.Zero, model.ConfidenceLow,
		touchedAccounts(entries, []string{"34", "418"}),
	)}
}

// detectBadDebt sums write-offs and client-provision movements.
func (e *Engine) detectBadDebt(entries []model.LedgerEntry, fiscalYear string) []model.QoEAdjustment {
	writeOffs := fec.NetByPrefix(entries, "654").Add(fec.NetByPrefix(entries, "6714"))
	provisionIncrease := fec.NetByPrefix(entries, "491").Neg()
	total := writeOffs.Add(provisionIncrease)
	if total.Abs().LessThanOrEqual(e.cfg.BadDebtMin) {
		return nil
	}
	return []model.QoEAdjustment{newAdjustment(
		model.AdjustmentBadDebt,
		"Créances irrécouvrables et dépréciations clients",
		fmt.Sprintf("Pertes sur créances de %s et variation de dépréciation de %s.",
			writeOffs.StringFixed(2), provisionIncrease.StringFixed(2)),
		fiscalYear, total, model.ConfidenceMedium,
		touchedAccounts(entries, badDebtAccounts),
	)}
}

// detectOneTimeFees groups advisory fees by entry label and keeps the
// groups whose text matches a transaction-related keyword.
func (e *Engine) detectOneTimeFees(entries []model.LedgerEntry, fiscalYear string) []model.QoEAdjustment {
	type group struct {
		net      decimal.Decimal
		accounts map[string]bool
	}
	byLabel := make(map[string]*group)
	for _, entry := range entries {
		if !fec.HasPrefix(entry.AccountNum, advisoryFeeAccounts...) {
			continue
		}
		g := byLabel[entry.EntryLabel]
		if g == nil {
			g = &group{net: decimal.Zero, accounts: make(map[string]bool)}
			byLabel[entry.EntryLabel] = g
		}
		g.net = g.net.Add(entry.Amount())
		g.accounts[entry.AccountNum] = true
	}

	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	var out []model.QoEAdjustment
	for _, label := range labels {
		g := byLabel[label]
		if g.net.LessThanOrEqual(e.cfg.OneTimeFeeMin) {
			continue
		}
		if !matchesFeeKeyword(label) {
			continue
		}
		out = append(out, newAdjustment(
			model.AdjustmentNonRecurring,
			fmt.Sprintf("Honoraires exceptionnels — %s", label),
			fmt.Sprintf("Honoraires de %s sur le libellé \"%s\".", g.net.StringFixed(2), label),
			fiscalYear, g.net, model.ConfidenceMedium,
			sortedKeys(g.accounts),
		))
	}
	return out
}

func matchesFeeKeyword(label string) bool {
	folded := foldLabel(label)
	for _, kw := range oneTimeFeeKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// foldLabel lowercases and strips diacritics so keyword matching
// survives accent variations.
func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// adjustmentNamespace seeds name-based adjustment IDs. Detection must be
// reproducible: the same ledger always yields the same suggestions, byte
// for byte, so IDs are derived from the adjustment's identity rather
// than minted at random.
var adjustmentNamespace = uuid.MustParse("c3f1a9d4-5e72-4b08-9a6c-8f0d2b714e3c")

func newAdjustment(typ model.AdjustmentType, label, description, fiscalYear string, impact decimal.Decimal, conf model.Confidence, accounts []string) model.QoEAdjustment {
	seed := strings.Join(append([]string{string(typ), fiscalYear, label}, accounts...), "|")
	return model.QoEAdjustment{
		ID:           uuid.NewSHA1(adjustmentNamespace, []byte(seed)).String(),
		Type:         typ,
		Label:        label,
		Description:  description,
		FiscalYear:   fiscalYear,
		ImpactEBITDA: impact,
		Confidence:   conf,
		Source:       model.SourceAuto,
		Validated:    false,
		Accounts:     accounts,
	}
}

// touchedAccounts lists the distinct account numbers under the given
// prefixes that actually carry movements.
func touchedAccounts(entries []model.LedgerEntry, prefixes []string) []string {
	seen := make(map[string]bool)
	for _, entry := range entries {
		if fec.HasPrefix(entry.AccountNum, prefixes...) {
			seen[entry.AccountNum] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
