package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hoopsight/internal/training"
)

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print a training manifest",
	Long: `Build a feature set and print its training manifest as JSON.

The manifest pins the exact feature list, its dataset identity hash, and
the per-group breakdown, so a trained model can be traced back to the
universe it was trained on.

Example:
  go run ./cmd/hoopsight manifest
  go run ./cmd/hoopsight manifest --groups scoring,shooting --name core_offense`,
	RunE: printManifest,
}

var (
	manifestName   string
	manifestGroups []string
)

func init() {
	rootCmd.AddCommand(manifestCmd)

	// Flags
	manifestCmd.Flags().StringVar(&manifestName, "name", "default", "feature set name")
	manifestCmd.Flags().StringSliceVar(&manifestGroups, "groups", nil, "restrict to these groups (default: full universe)")
}

func printManifest(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	set := training.DefaultFeatureSet(rt.enum)
	if len(manifestGroups) > 0 {
		set, err = training.GroupFeatureSet(rt.enum, manifestName, manifestGroups...)
		if err != nil {
			return fmt.Errorf("build feature set: %w", err)
		}
	} else if manifestName != "" {
		set.Name = manifestName
	}

	manifest, err := training.BuildManifest(set, rt.registry)
	if err != nil {
		return fmt.Errorf("build manifest: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
