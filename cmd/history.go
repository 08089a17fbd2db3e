package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and edit past sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		typeVal, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")
		var qt problemgen.QuestionType
		if typeVal != "" {
			t, err := problemgen.ParseQuestionType(typeVal)
			if err != nil {
				return err
			}
			qt = t
		}
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			records, err := hist.Records(ctx)
			if err != nil {
				return err
			}
			printRecords(cmd.OutOrStdout(), filterRecords(records, qt, limit), time.Now())
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session with its wrong and slow answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			rec, err := hist.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			printRecord(cmd.OutOrStdout(), rec)
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one session and recompute personal bests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			if err := hist.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every session and the personal bests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to clear history without --yes")
		}
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			if err := hist.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		})
	},
}

var historyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a hand-timed session average",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		typeVal, _ := cmd.Flags().GetString("type")
		avg, _ := cmd.Flags().GetFloat64("avg")
		limit, _ := cmd.Flags().GetInt("time-limit")
		qt, err := problemgen.ParseQuestionType(typeVal)
		if err != nil {
			return err
		}
		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			rec, err := hist.AddManual(ctx, qt, avg, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s, %.2fs average\n", rec.ID, qt.DisplayName(), rec.AvgTime)
			return nil
		})
	},
}

var historyReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Aggregate wrong and slow answers across sessions",
	Long: `List every wrong answer and every correct answer that took 4 seconds or
more, slowest first. With --stage the distinct questions become the next
` + "`mathdrill play --review`" + ` round.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		opVal, _ := cmd.Flags().GetString("op")
		stage, _ := cmd.Flags().GetBool("stage")

		f := history.MistakeFilter{Since: history.SinceDays(time.Now(), days)}
		if opVal != "" {
			op, err := problemgen.ParseOperation(opVal)
			if err != nil {
				return err
			}
			f.Operation = op
		}

		return withHistory(cmd, func(ctx context.Context, hist *history.Store) error {
			records, err := hist.Records(ctx)
			if err != nil {
				return err
			}
			mistakes := history.AggregateMistakes(records, f)
			out := cmd.OutOrStdout()
			if len(mistakes) == 0 {
				fmt.Fprintln(out, "No wrong or slow answers in range.")
				return nil
			}
			printMistakes(out, mistakes)

			if !stage {
				return nil
			}
			triples := history.MistakeTriples(mistakes)
			if err := hist.StageWrongSet(ctx, triples); err != nil {
				return err
			}
			fmt.Fprintf(out, "Staged %d questions. Run `mathdrill play --review` to practice them.\n", len(triples))
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().String("type", "", "Only sessions of this question type")
	historyListCmd.Flags().Int("limit", 20, "Maximum sessions to list (0 means all)")

	historyClearCmd.Flags().Bool("yes", false, "Confirm deleting every session")

	historyAddCmd.Flags().String("type", string(problemgen.TypeBorrow), "Question type")
	historyAddCmd.Flags().Float64("avg", 0, "Average seconds per question")
	historyAddCmd.Flags().Int("time-limit", problemgen.DefaultConfig().TimeLimit, "Per-question time limit in seconds")
	_ = historyAddCmd.MarkFlagRequired("avg")

	historyReviewCmd.Flags().Int("days", 0, "Only sessions from the last N days (0 means all)")
	historyReviewCmd.Flags().String("op", "", "Only this operation (+, -, x, /)")
	historyReviewCmd.Flags().Bool("stage", false, "Stage the questions for the next review round")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyAddCmd)
	historyCmd.AddCommand(historyReviewCmd)
}

func filterRecords(records []history.Record, qt problemgen.QuestionType, limit int) []history.Record {
	out := make([]history.Record, 0, len(records))
	for _, r := range records {
		if qt != "" && r.Type != qt {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func printRecords(w io.Writer, records []history.Record, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No sessions yet. Run `mathdrill play` to start one.")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		flags := ""
		switch {
		case r.TestMode:
			flags = "test"
		case r.IsManual:
			flags = "manual"
		}
		rows = append(rows, []string{
			r.ID,
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			r.Type.DisplayName(),
			fmt.Sprintf("%d/%d", r.Correct, r.QuestionCount),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%.2fs", r.AverageSeconds()),
			strconv.Itoa(r.LongestCombo),
			flags,
		})
	}
	printTable(w,
		[]string{"ID", "When", "Type", "Score", "Accuracy", "Avg", "Combo", ""},
		rows,
	)
}

func printRecord(w io.Writer, r *history.Record) {
	lvl := r.Level()
	fmt.Fprintf(w, "Session %s\n", r.ID)
	fmt.Fprintf(w, "  %s, %s\n", r.Type.DisplayName(), r.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Score %d/%d (%d%%), %s\n", r.Correct, r.QuestionCount, r.Accuracy, lvl.Name)
	fmt.Fprintf(w, "  Average %.2fs, time limit %ds, longest combo %d\n", r.AverageSeconds(), r.TimeLimit, r.LongestCombo)
	if r.TestMode {
		fmt.Fprintln(w, "  Test mode: not counted for personal bests")
	}

	for _, et := range diagnosis.AllErrorTypes() {
		if n := r.ErrorBreakdown[et]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", diagnosis.Label(et), n)
		}
	}

	printLogs(w, "Wrong", r.WrongDetails)
	printLogs(w, "Slow (4s or more)", r.SlowCorrectDetails)
}

func printLogs(w io.Writer, title string, logs []session.QuestionLog) {
	if len(logs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.DisplayText,
			strconv.Itoa(l.CorrectAnswer),
			answerText(l.UserAnswer),
			fmt.Sprintf("%.2fs", l.DurationSec),
			errorLabel(l.ErrorType),
		})
	}
	printTable(w, []string{"Question", "Answer", "Given", "Time", "Error"}, rows)
}

func printMistakes(w io.Writer, mistakes []history.Mistake) {
	rows := make([][]string, 0, len(mistakes))
	for _, m := range mistakes {
		rows = append(rows, []string{
			m.DisplayText,
			strconv.Itoa(m.CorrectAnswer),
			answerText(m.UserAnswer),
			fmt.Sprintf("%.2fs", m.DurationSec),
			string(m.Kind),
			errorLabel(m.ErrorType),
			m.CreatedAt.Local().Format("01-02 15:04"),
		})
	}
	printTable(w,
		[]string{"Question", "Answer", "Given", "Time", "Kind", "Error", "When"},
		rows,
	)
}

func errorLabel(et diagnosis.ErrorType) string {
	if et == "" {
		return ""
	}
	return diagnosis.Label(et)
}
