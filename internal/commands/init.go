package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wincap-dev/wincap/internal/config"
)

func newInitCommand() *cobra.Command {
	var company string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new engagement directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, company)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "target company name (required)")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func runInit(dir, company string) error {
	dirs := []string{
		"fec",
		"logs",
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(company)
	if err := config.Save(filepath.Join(dir, "wincap.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Empty account-mapping override file; entries here win over the
	// built-in classification table.
	overrides := "# prefix/category overrides, e.g.:\n# - prefix: \"467\"\n#   category: autres_dettes\n[]\n"
	if err := os.WriteFile(filepath.Join(dir, "mappings.yaml"), []byte(overrides), 0o644); err != nil {
		return fmt.Errorf("writing mappings: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "fec", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized engagement for %s at %s\n", company, dir)
	return nil
}
