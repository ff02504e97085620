package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"hoopsight/internal/featurespec"
)

// featuresCmd represents the features command
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Feature language tools",
	Long: `Work with the feature specification language.

Subcommands:
  validate    - validate feature names against the catalog
  enumerate   - enumerate the feature universe
  categorize  - resolve feature names to their semantic groups
  groups      - list registered semantic groups

Example:
  go run ./cmd/hoopsight features validate "points|season|avg|diff"
  go run ./cmd/hoopsight features enumerate
  go run ./cmd/hoopsight features enumerate shooting
  go run ./cmd/hoopsight features categorize "elo|none|raw|diff"
  go run ./cmd/hoopsight features groups`,
}

var (
	featuresValidateCmd = &cobra.Command{
		Use:   "validate [feature]...",
		Short: "Validate feature names",
		Args:  cobra.MinimumNArgs(1),
		RunE:  validateFeatures,
	}

	featuresEnumerateCmd = &cobra.Command{
		Use:   "enumerate [group]",
		Short: "Enumerate the feature universe",
		Args:  cobra.MaximumNArgs(1),
		RunE:  enumerateFeatures,
	}

	featuresCategorizeCmd = &cobra.Command{
		Use:   "categorize [feature]...",
		Short: "Resolve feature names to semantic groups",
		Args:  cobra.MinimumNArgs(1),
		RunE:  categorizeFeatures,
	}

	featuresGroupsCmd = &cobra.Command{
		Use:   "groups",
		Short: "List registered semantic groups",
		RunE:  listGroups,
	}
)

func init() {
	rootCmd.AddCommand(featuresCmd)
	featuresCmd.AddCommand(featuresValidateCmd)
	featuresCmd.AddCommand(featuresEnumerateCmd)
	featuresCmd.AddCommand(featuresCategorizeCmd)
	featuresCmd.AddCommand(featuresGroupsCmd)
}

func validateFeatures(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	validator := featurespec.NewValidator(rt.catalog)

	invalid := 0
	for _, name := range args {
		if err := validator.ValidateFeature(name); err != nil {
			fmt.Printf("❌ %s\n   %s\n", name, err)
			invalid++
			continue
		}
		fmt.Printf("✅ %s\n", name)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d features invalid", invalid, len(args))
	}
	fmt.Printf("\nAll %d features valid\n", len(args))
	return nil
}

func enumerateFeatures(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	// With a group argument, print every feature in that group.
	if len(args) == 1 {
		features, err := rt.enum.EnumerateGroup(args[0])
		if err != nil {
			return err
		}
		for _, name := range features {
			fmt.Println(name)
		}
		fmt.Printf("\n%d features in group %s\n", len(features), args[0])
		return nil
	}

	// Without one, print per-group counts and the universe total.
	universe := rt.enum.EnumerateAll()
	groups := make([]string, 0, len(universe))
	for name := range universe {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	total := 0
	fmt.Println("Feature universe:")
	for _, name := range groups {
		fmt.Printf("  %-22s %5d\n", name, len(universe[name]))
		total += len(universe[name])
	}
	fmt.Printf("\nTotal: %d features across %d groups\n", total, len(groups))
	return nil
}

func categorizeFeatures(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	for _, name := range args {
		fmt.Printf("%s -> %s\n", name, rt.registry.GroupFor(name))
	}
	return nil
}

func listGroups(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Println("Registered groups:")
	for _, g := range rt.registry.Groups() {
		mode := "cross-product"
		if g.Curated() {
			mode = "curated"
		}
		fmt.Printf("📊 %s\n", g.Name)
		fmt.Printf("   Layer: %d\n", g.Layer)
		fmt.Printf("   Mode: %s\n", mode)
		fmt.Printf("   Member stats: %d\n", len(g.MemberStats))
		if g.FilterSubstring != "" {
			fmt.Printf("   Claims names containing: %q\n", g.FilterSubstring)
		}
		if g.Description != "" {
			fmt.Printf("   %s\n", g.Description)
		}
		fmt.Println()
	}
	return nil
}
