package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/history"
)

var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Manage the custom question set played with `play --custom`",
}

var customAddCmd = &cobra.Command{
	Use:     "add <a> <op> <b>",
	Short:   "Append a question to the custom set",
	Example: `  mathdrill custom add 63 / 9`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseTriple(args)
		if err != nil {
			return err
		}
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			if err := hist.AddCustom(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", t)
			return nil
		})
	},
}

var customListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the custom set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			triples, err := hist.CustomSet(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(triples) == 0 {
				fmt.Fprintln(out, "The custom set is empty.")
				return nil
			}
			rows := make([][]string, 0, len(triples))
			for i, t := range triples {
				answer, _ := t.Operation.Apply(t.A, t.B)
				rows = append(rows, []string{strconv.Itoa(i + 1), t.String(), strconv.Itoa(answer)})
			}
			printTable(out, []string{"#", "Question", "Answer"}, rows)
			return nil
		})
	},
}

var customClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the custom set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			if err := hist.ClearCustom(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Custom set cleared.")
			return nil
		})
	},
}

func init() {
	customCmd.AddCommand(customAddCmd)
	customCmd.AddCommand(customListCmd)
	customCmd.AddCommand(customClearCmd)
}
