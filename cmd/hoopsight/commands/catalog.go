package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Stat catalog tools",
	Long: `Inspect the compiled stat catalog.

Subcommands:
  list  - list all registered stats
  show  - show one stat's full definition

Example:
  go run ./cmd/hoopsight catalog list
  go run ./cmd/hoopsight catalog show points
  go run ./cmd/hoopsight catalog show off_rtg_net`,
}

var (
	catalogListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all registered stats",
		RunE:  listStats,
	}

	catalogShowCmd = &cobra.Command{
		Use:   "show [stat]",
		Short: "Show one stat's full definition",
		Args:  cobra.ExactArgs(1),
		RunE:  showStat,
	}
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}

func listStats(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Printf("Catalog (%s source, %d stats):\n\n", rt.cfg.Catalog.Source, rt.catalog.Len())
	for _, name := range rt.catalog.Names() {
		def, _ := rt.catalog.Lookup(name)
		fmt.Printf("  %-22s %-8s %s\n", name, def.Category, def.Description)
	}
	return nil
}

func showStat(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	name := args[0]
	def, derived, ok := rt.catalog.Resolve(name)
	if !ok {
		return fmt.Errorf("unknown stat %q", name)
	}

	fmt.Printf("📊 %s\n", name)
	if derived {
		fmt.Printf("   Derived from: %s\n", def.Name)
	}
	fmt.Printf("   Category: %s\n", def.Category)
	if def.Description != "" {
		fmt.Printf("   %s\n", def.Description)
	}
	fmt.Printf("   Time periods: %s\n", restrictionList(def.TimePeriods))
	fmt.Printf("   Calc weights: %s\n", restrictionList(def.CalcWeights))
	fmt.Printf("   Perspectives: %s\n", restrictionList(def.Perspectives))
	fmt.Printf("   Side split: %t\n", def.SupportsSideSplit)
	fmt.Printf("   Net variant: %t\n", def.SupportsNet)
	fmt.Printf("   Requires aggregation: %t\n", def.RequiresAggregation)
	fmt.Printf("   DB field: %s\n", def.DBField)
	return nil
}

// restrictionList renders a restriction set, where empty means the stat
// accepts any syntactically valid value.
func restrictionList(values []string) string {
	if len(values) == 0 {
		return "(unrestricted)"
	}
	return strings.Join(values, ", ")
}
