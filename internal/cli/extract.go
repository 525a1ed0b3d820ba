package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/blk-extract/internal/extract"
)

func init() {
	presets := &cobra.Command{
		Use:     "extract_presets_from_blk",
		Aliases: []string{"extract-presets"},
		Short:   "Extract weapon presets from .blk files",
		Long:    "Write one {\"<file>\": \"<preset>\"} entry per weapon preset found in the input folder.",
		Args:    cobra.NoArgs,
		Run:     runExtractPresets,
	}
	addScanFlags(presets)
	presets.Flags().StringP("output_file", "o", "", "Target file that will be created to contain output JSON (required)")
	presets.MarkFlagRequired("output_file")
	RootCmd.AddCommand(presets)

	ammo := &cobra.Command{
		Use:     "extract_ammo_from_blk",
		Aliases: []string{"extract-ammo"},
		Short:   "Extract ammunition types from .blk files",
		Long:    "Write one {\"<file>\": [\"<ammo>\", ...]} entry per file whose modifications name ammunition.",
		Args:    cobra.NoArgs,
		Run:     runExtractAmmo,
	}
	addScanFlags(ammo)
	ammo.Flags().StringP("output_file", "o", "", "Target file that will be created to contain output JSON (required)")
	ammo.MarkFlagRequired("output_file")
	RootCmd.AddCommand(ammo)
}

func runExtractPresets(cmd *cobra.Command, args []string) {
	outFile, _ := cmd.Flags().GetString("output_file")

	_, sum := scanInput(cmd)
	writeOutput(outFile, extract.PresetReport(sum.Results))
	fmt.Printf("Preset extraction complete. Output written to %s\n", outFile)
}

func runExtractAmmo(cmd *cobra.Command, args []string) {
	outFile, _ := cmd.Flags().GetString("output_file")

	_, sum := scanInput(cmd)
	writeOutput(outFile, extract.AmmoReport(sum.Results))
	fmt.Printf("Ammo extraction complete. Output written to %s\n", outFile)
}
