package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print a generated batch with answers (no database)",
	Long: `Generate a batch for a question type and print it with the answers.

With --quiz the questions are asked one at a time on stdin instead, and
wrong answers are diagnosed. Nothing is saved. Useful for checking
generator output and for terminals where the TUI cannot run.

Question types: ` + typeList(),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("type", string(problemgen.TypeBorrow), "Question type")
	previewCmd.Flags().Int("count", 10, "Number of questions to generate")
	previewCmd.Flags().Uint64("seed", 0, "Random seed for a reproducible batch (0 means random)")
	previewCmd.Flags().Bool("quiz", false, "Ask each question on stdin instead of printing answers")
}

func typeList() string {
	types := problemgen.GeneratedTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func runPreview(cmd *cobra.Command, args []string) error {
	typeVal, _ := cmd.Flags().GetString("type")
	count, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetUint64("seed")
	quiz, _ := cmd.Flags().GetBool("quiz")

	qt, err := problemgen.ParseQuestionType(typeVal)
	if err != nil {
		return err
	}
	if qt == problemgen.TypeReview || qt == problemgen.TypeCustom {
		return fmt.Errorf("%s questions come from stored sets; preview one of: %s", qt, typeList())
	}

	cfg := settings.Drill
	cfg.QuestionCount = count
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []problemgen.Option{problemgen.WithLogger(cliLog)}
	if seed != 0 {
		opts = append(opts, problemgen.WithSeed(seed))
	}
	batch := problemgen.New(opts...).Batch(cfg, qt)

	out := cmd.OutOrStdout()
	if quiz {
		return runQuiz(out, cmd.InOrStdin(), batch, cfg.TimeLimit)
	}

	fmt.Fprintf(out, "%s: %d questions\n", qt.DisplayName(), len(batch))
	rows := make([][]string, 0, len(batch))
	for i, q := range batch {
		rows = append(rows, []string{strconv.Itoa(i + 1), q.DisplayText, strconv.Itoa(q.CorrectAnswer)})
	}
	printTable(out, []string{"#", "Question", "Answer"}, rows)
	return nil
}

// runQuiz asks each question on in and reports on out. An empty line skips
// the question; EOF ends the quiz early.
func runQuiz(out io.Writer, in io.Reader, batch []problemgen.Question, timeLimit int) error {
	diag := diagnosis.NewService(cliLog)
	scanner := bufio.NewScanner(in)

	var correct, asked int
	for i := range batch {
		q := &batch[i]
		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, len(batch))
		fmt.Fprintln(out, q.DisplayText)

		fmt.Fprint(out, "\nYour answer: ")
		start := time.Now()
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			fmt.Fprintln(out, "(skipped)")
			fmt.Fprintln(out)
			continue
		}
		answer, err := problemgen.ParseAnswer(input)
		if err != nil {
			fmt.Fprintf(out, "(%v, skipped)\n\n", err)
			continue
		}

		asked++
		if answer == q.CorrectAnswer {
			correct++
			fmt.Fprintln(out, "✓ Correct!")
			fmt.Fprintln(out)
			continue
		}

		fmt.Fprintf(out, "✗ Wrong. Answer: %d\n", q.CorrectAnswer)
		res := diag.Diagnose(q, &answer, time.Since(start).Milliseconds(), timeLimit)
		if res != nil && res.Type != diagnosis.ErrorCareless {
			fmt.Fprintf(out, "%s: %s\n", diagnosis.Label(res.Type), res.Suggestion)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, asked)
	return nil
}
