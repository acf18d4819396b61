package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wincap-dev/wincap/internal/balance"
	"github.com/wincap-dev/wincap/internal/cashflow"
	"github.com/wincap-dev/wincap/internal/config"
	"github.com/wincap-dev/wincap/internal/detail"
	"github.com/wincap-dev/wincap/internal/fec"
	"github.com/wincap-dev/wincap/internal/model"
	"github.com/wincap-dev/wincap/internal/pcg"
	"github.com/wincap-dev/wincap/internal/pnl"
	"github.com/wincap-dev/wincap/internal/qoe"
)

// analysisReport is the aggregate emitted by `wincap analyze`.
type analysisReport struct {
	Company       string                     `json:"company,omitempty"`
	Currency      string                     `json:"currency"`
	Files         []fileSummary              `json:"files"`
	PnL           []*model.PnLStatement      `json:"pnl"`
	BalanceSheets []*model.BalanceSheet      `json:"balanceSheets"`
	CashFlows     []*model.CashFlowStatement `json:"cashFlows,omitempty"`
	QoE           model.QoEBridge            `json:"qoe"`
	EBITDABridge  []pnl.BridgeItem           `json:"ebitdaBridge,omitempty"`
	RevenueBridge []pnl.BridgeItem           `json:"revenueBridge,omitempty"`
	VolumePrice   []pnl.BridgeItem           `json:"volumePriceBridge,omitempty"`
	Variations    []pnl.SectionVariation     `json:"variations,omitempty"`
	MonthlyCash   []model.MonthlyCashFlow    `json:"monthlyCash,omitempty"`

	// Latest-year detail views.
	Ratios           *balance.CycleRatios       `json:"ratios,omitempty"`
	MonthlyCycles    []balance.MonthlyCycle     `json:"monthlyCycles,omitempty"`
	AgedClients      *balance.AgedBalanceReport `json:"agedClients,omitempty"`
	AgedFournisseurs *balance.AgedBalanceReport `json:"agedFournisseurs,omitempty"`
	FixedAssets      []balance.FixedAssetDetail `json:"fixedAssets,omitempty"`
	NetDebt          *cashflow.QoDReport        `json:"netDebt,omitempty"`
	AccountDetail    []detail.AccountLine       `json:"accountDetail,omitempty"`
	TopExpenses      []detail.TopAccount        `json:"topExpenses,omitempty"`
	TopRevenues      []detail.TopAccount        `json:"topRevenues,omitempty"`
	CategoryTotals   []detail.CategoryTotal     `json:"categoryTotals,omitempty"`
	JournalExtract   []detail.JournalLine       `json:"journalExtract,omitempty"`
}

type fileSummary struct {
	Filename     string `json:"filename"`
	FiscalYear   string `json:"fiscalYear"`
	EntryCount   int    `json:"entryCount"`
	IsBalanced   bool   `json:"isBalanced"`
	ErrorCount   int    `json:"errorCount"`
	WarningCount int    `json:"warningCount"`
}

func newAnalyzeCommand() *cobra.Command {
	var configPath string
	var outPath string
	var journalPrefix string

	cmd := &cobra.Command{
		Use:   "analyze <fec-dir>",
		Short: "Derive P&L, balance sheet, cash flow and QoE from a directory of FEC files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runAnalyze(cmd, absDir, configPath, outPath, journalPrefix)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to wincap.yaml (defaults built in when omitted)")
	cmd.Flags().StringVar(&outPath, "out", "", "write the JSON report to a file instead of stdout")
	cmd.Flags().StringVar(&journalPrefix, "journal", "", "include a journal extract for accounts under this prefix")

	return cmd
}

func runAnalyze(cmd *cobra.Command, dir, configPath, outPath, journalPrefix string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	table, err := loadTable(dir)
	if err != nil {
		return err
	}

	results, fileErrs, err := fec.ParseDir(dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}
	for _, fe := range fileErrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", fe)
	}
	if len(results) == 0 {
		return fmt.Errorf("no parseable FEC files in %s", dir)
	}

	if threshold := cfg.Ledger.ImbalanceThreshold; threshold.Sign() > 0 {
		kept := results[:0]
		for _, res := range results {
			if imbalance := res.File.Imbalance(); imbalance.GreaterThan(threshold) {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s: imbalance %s exceeds threshold %s\n",
					res.File.Filename, imbalance.StringFixed(2), threshold.StringFixed(2))
				continue
			}
			kept = append(kept, res)
		}
		results = kept
		if len(results) == 0 {
			return fmt.Errorf("all FEC files in %s exceed the imbalance threshold", dir)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].File.EndDate.Before(results[j].File.EndDate)
	})

	report, err := buildReport(cfg, table, results, journalPrefix)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(""), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTable merges an engagement's mappings.yaml, when present, over
// the built-in classification table.
func loadTable(dir string) (*pcg.Table, error) {
	overrides := filepath.Join(dir, "mappings.yaml")
	if _, err := os.Stat(overrides); os.IsNotExist(err) {
		overrides = filepath.Join(filepath.Dir(dir), "mappings.yaml")
		if _, err := os.Stat(overrides); os.IsNotExist(err) {
			return pcg.NewTable(pcg.DefaultMappings()), nil
		}
	}
	table, err := pcg.Load(overrides)
	if err != nil {
		return nil, fmt.Errorf("loading account mappings: %w", err)
	}
	return table, nil
}

// topAccountsCount bounds the top-expense and top-revenue rankings.
const topAccountsCount = 10

func buildReport(cfg *config.Config, table *pcg.Table, results []*fec.Result, journalPrefix string) (*analysisReport, error) {
	currency := cfg.Engagement.Currency
	pnlEngine := pnl.NewEngine(table, currency)
	bsEngine := balance.NewEngine(table, currency)
	qoeEngine := qoe.NewEngine(cfg.QoE)

	report := &analysisReport{
		Company:  cfg.Engagement.CompanyName,
		Currency: currency,
	}

	var statements []*model.PnLStatement
	var sheets []*model.BalanceSheet
	var analyses []model.QoEAnalysis
	for _, res := range results {
		f := res.File
		report.Files = append(report.Files, fileSummary{
			Filename:     f.Filename,
			FiscalYear:   f.FiscalYear,
			EntryCount:   f.EntryCount,
			IsBalanced:   f.IsBalanced,
			ErrorCount:   len(res.Errors),
			WarningCount: len(res.Warnings),
		})

		statement := pnlEngine.Build(f.Entries, f.FiscalYear, f.StartDate, f.EndDate)
		sheet := bsEngine.Build(f.Entries, f.EndDate, f.FiscalYear)
		statements = append(statements, statement)
		sheets = append(sheets, sheet)

		suggestions := qoeEngine.Detect(f.Entries, f.FiscalYear)
		analyses = append(analyses, qoe.Analyze(statement, suggestions))
	}
	report.PnL = statements
	report.BalanceSheets = sheets
	report.QoE = qoe.BuildBridge(analyses)

	for i := 1; i < len(results); i++ {
		report.CashFlows = append(report.CashFlows,
			cashflow.Build(statements[i], sheets[i-1], sheets[i]))
	}

	if n := len(statements); n >= 2 {
		report.EBITDABridge = pnl.EBITDABridge(statements[n-2], statements[n-1])
		report.RevenueBridge = pnl.RevenueBridge(statements[n-2], statements[n-1])
		report.VolumePrice = pnl.VolumePriceBridge(statements[n-2], statements[n-1])
		report.Variations = pnl.Compare(statements[n-2], statements[n-1])
	}

	latest := results[len(results)-1].File
	lastStatement := statements[len(statements)-1]
	lastSheet := sheets[len(sheets)-1]

	report.MonthlyCash = cashflow.Monthly(bsEngine, latest.Entries)

	ratios := balance.Cycle(lastSheet, balance.TurnoverInputs{
		ChiffreAffaires: lastStatement.ChiffreAffaires,
		Achats:          lastStatement.LineAmount("achats"),
		CoutDesVentes:   lastStatement.LineAmount("achats").Add(lastStatement.LineAmount("sous_traitance")),
		VATRate:         cfg.Ratios.VATRate,
	})
	report.Ratios = &ratios
	report.MonthlyCycles = bsEngine.MonthlyCycles(latest.Entries, cfg.Ratios.VATRate)

	agedClients := balance.AgedBalance(latest.Entries, latest.EndDate, []string{"411"}, cfg.Ratios.AgingThresholds)
	agedFournisseurs := balance.AgedBalance(latest.Entries, latest.EndDate, []string{"401"}, cfg.Ratios.AgingThresholds)
	report.AgedClients = &agedClients
	report.AgedFournisseurs = &agedFournisseurs
	report.FixedAssets = balance.FixedAssetsDetail(latest.Entries, latest.EndDate)

	netDebt := cashflow.QualityOfDebt(lastSheet, nil, nil)
	report.NetDebt = &netDebt

	report.AccountDetail = detail.Summary(table, latest.Entries)
	report.TopExpenses = detail.TopAccounts(table, latest.Entries, "6", topAccountsCount)
	report.TopRevenues = detail.TopAccounts(table, latest.Entries, "7", topAccountsCount)
	report.CategoryTotals = detail.CategoryBreakdown(table, latest.Entries)
	if journalPrefix != "" {
		report.JournalExtract = detail.JournalExtract(table, latest.Entries, journalPrefix, detail.DefaultExtractLimit)
	}

	return report, nil
}
