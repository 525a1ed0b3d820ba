package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/blk-extract/internal/output"
	"github.com/rcliao/blk-extract/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units of a recorded run",
		Run:   runList,
	}

	cmd.Flags().String("run", "", "Run ID (default: latest)")
	cmd.Flags().String("ammo", "", "Only units carrying this ammunition type")
	cmd.Flags().String("country", "", "Filter by country")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 = all)")
	cmd.Flags().Bool("ids-only", false, "Only output unit IDs")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")
	ammo, _ := cmd.Flags().GetString("ammo")
	country, _ := cmd.Flags().GetString("country")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	units, err := s.ListUnits(cmd.Context(), store.ListParams{
		RunID:   runID,
		Ammo:    ammo,
		Country: country,
		Limit:   limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, u := range units {
			fmt.Println(u.ID)
		}
		return
	}

	b, _ := output.Marshal(units)
	fmt.Print(string(b))
}
