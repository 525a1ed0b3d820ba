package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/blk-extract/internal/enrich"
	"github.com/rcliao/blk-extract/internal/extract"
)

func init() {
	cmd := &cobra.Command{
		Use:     "generate_db",
		Aliases: []string{"generate-db"},
		Short:   "Generate a tank database from .blk files",
		Long: "Merge presets and ammunition of every input file into one unit record per file. " +
			"Name, country, role and ammo_amount come from --enrich when given, otherwise they are placeholders.",
		Args: cobra.NoArgs,
		Run:  runGenerateDB,
	}

	addScanFlags(cmd)
	cmd.Flags().StringP("output_file", "o", "tank_db.json", "Target file that will be created to contain output JSON")
	cmd.Flags().String("enrich", "", "YAML table of unit name, country, role and ammo_amount")
	cmd.Flags().Bool("persist", false, "Also record the run in the SQLite database")

	RootCmd.AddCommand(cmd)
}

func runGenerateDB(cmd *cobra.Command, args []string) {
	outFile, _ := cmd.Flags().GetString("output_file")
	enrichPath, _ := cmd.Flags().GetString("enrich")
	persist, _ := cmd.Flags().GetBool("persist")

	var resolver enrich.Resolver = enrich.Placeholder{}
	if enrichPath != "" {
		tbl, err := enrich.LoadTable(enrichPath)
		if err != nil {
			exitErr("load enrichment", err)
		}
		resolver = tbl
	}

	inputDir, sum := scanInput(cmd)
	units := extract.BuildDatabase(sum.Results, resolver)
	writeOutput(outFile, units)

	if persist {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		abs, err := filepath.Abs(inputDir)
		if err != nil {
			abs = inputDir
		}
		run, err := s.SaveRun(cmd.Context(), abs, units)
		if err != nil {
			exitErr("persist", err)
		}
		log.Info().Str("run", run.ID).Int("units", run.Units).Msg("run recorded")
	}

	fmt.Printf("Tank DB complete. Output written to %s\n", outFile)
}
