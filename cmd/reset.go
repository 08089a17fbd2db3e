package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/history"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all history, banked questions and staged sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to reset without --yes")
		}
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			if err := hist.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All mathdrill data deleted.")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deleting every stored key")
}
