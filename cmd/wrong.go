package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

var wrongCmd = &cobra.Command{
	Use:   "wrong",
	Short: "Manage the bank of missed questions",
}

var wrongListCmd = &cobra.Command{
	Use:   "list",
	Short: "List banked questions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := bankFilterFromFlags(cmd)
		if err != nil {
			return err
		}
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			entries, err := hist.WrongBank(ctx, f)
			if err != nil {
				return err
			}
			printBank(cmd.OutOrStdout(), entries)
			return nil
		})
	},
}

var wrongAddCmd = &cobra.Command{
	Use:   "add <a> <op> <b>",
	Short: "Bank a question by hand",
	Example: `  mathdrill wrong add 42 - 17
  mathdrill wrong add 7 x 8`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseTriple(args)
		if err != nil {
			return err
		}
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			e, err := hist.AddWrong(ctx, t, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Banked %s %d (%s)\n", e.DisplayText, e.CorrectAnswer, e.ID)
			return nil
		})
	},
}

var wrongDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Remove banked questions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			n, err := hist.DeleteWrong(ctx, args...)
			if err != nil {
				return err
			}
			if n < len(args) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d ids were not in the bank\n", len(args)-n, len(args))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", n)
			return nil
		})
	},
}

var wrongPracticeCmd = &cobra.Command{
	Use:   "practice",
	Short: "Stage the bank as the next review round",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			triples, err := hist.PracticeTriples(ctx)
			if err != nil {
				return err
			}
			if len(triples) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "The bank is empty.")
				return nil
			}
			if err := hist.StageWrongSet(ctx, triples); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Staged %d questions. Run `mathdrill play --review` to practice them.\n", len(triples))
			return nil
		})
	},
}

func init() {
	f := wrongListCmd.Flags()
	f.String("type", "", "Only questions missed in this question type")
	f.String("op", "", "Only this operation (+, -, x, /)")
	f.String("sort", history.SortNewest, "Order: newest, oldest, time or operation")
	f.Bool("include-test", false, "Include questions missed in test mode")

	wrongCmd.AddCommand(wrongListCmd)
	wrongCmd.AddCommand(wrongAddCmd)
	wrongCmd.AddCommand(wrongDeleteCmd)
	wrongCmd.AddCommand(wrongPracticeCmd)
}

func bankFilterFromFlags(cmd *cobra.Command) (history.BankFilter, error) {
	var bf history.BankFilter
	f := cmd.Flags()
	if v, _ := f.GetString("type"); v != "" {
		qt, err := problemgen.ParseQuestionType(v)
		if err != nil {
			return bf, err
		}
		bf.QuestionType = qt
	}
	if v, _ := f.GetString("op"); v != "" {
		op, err := problemgen.ParseOperation(v)
		if err != nil {
			return bf, err
		}
		bf.Operation = op
	}
	bf.Sort, _ = f.GetString("sort")
	bf.IncludeTest, _ = f.GetBool("include-test")
	return bf, nil
}

func printBank(w io.Writer, entries []history.BankEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "The bank is empty.")
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		taken := ""
		if e.TimeTaken > 0 {
			taken = fmt.Sprintf("%.2fs", e.TimeTaken)
		}
		rows = append(rows, []string{
			e.ID,
			e.DisplayText,
			strconv.Itoa(e.CorrectAnswer),
			answerText(e.UserAnswer),
			taken,
			errorLabel(e.ErrorType),
			e.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	printTable(w,
		[]string{"ID", "Question", "Answer", "Given", "Time", "Error", "Date"},
		rows,
	)
}
