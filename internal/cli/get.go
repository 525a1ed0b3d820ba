package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/blk-extract/internal/output"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <unit-id>",
		Short: "Retrieve one unit of a recorded run",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().String("run", "", "Run ID (default: latest)")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	runID, _ := cmd.Flags().GetString("run")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	unit, err := s.GetUnit(cmd.Context(), runID, args[0])
	if err != nil {
		exitErr("get", err)
	}

	b, _ := output.Marshal(unit)
	fmt.Print(string(b))
}
