package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/diagnosis"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/screens/home"
	sessionscreen "github.com/abhisek/mathdrill/internal/screens/session"
)

var playCmd = &cobra.Command{
	Use:         "play",
	Short:       "Start a drill round",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := applyPlayFlags(cmd, settings)
		if err != nil {
			return err
		}
		return runTUI(cmd, s, true)
	},
}

func init() {
	addPlayFlags(playCmd.Flags())
}

func addPlayFlags(f *pflag.FlagSet) {
	f.String("type", "", "Question type, e.g. borrow or chain_all_four (listed by preview --help)")
	f.Int("range", 0, "Upper bound for add/sub operands")
	f.Int("count", 0, "Number of questions")
	f.Int("time-limit", 0, "Seconds per question")
	f.Float64("borrow-ratio", 0, "Share of borrow questions in mixed add/sub rounds (0-1)")
	f.Bool("test-mode", false, "Save the round marked as a test, left out of personal bests and mistake reviews")
	f.Bool("strict", false, "Time out each question when its own limit runs out")
	f.Bool("review", false, "Play the staged wrong-question set")
	f.Bool("custom", false, "Play the custom question set")
}

// applyPlayFlags overlays the play flags that were set on s and validates
// the result.
func applyPlayFlags(cmd *cobra.Command, s config.Settings) (config.Settings, error) {
	f := cmd.Flags()
	if f.Changed("type") {
		v, _ := f.GetString("type")
		qt, err := problemgen.ParseQuestionType(v)
		if err != nil {
			return s, err
		}
		s.QuestionType = qt
	}
	if f.Changed("range") {
		s.Drill.Range, _ = f.GetInt("range")
	}
	if f.Changed("count") {
		s.Drill.QuestionCount, _ = f.GetInt("count")
	}
	if f.Changed("time-limit") {
		s.Drill.TimeLimit, _ = f.GetInt("time-limit")
	}
	if f.Changed("borrow-ratio") {
		s.Drill.BorrowRatio, _ = f.GetFloat64("borrow-ratio")
	}
	if f.Changed("strict") {
		s.Strict, _ = f.GetBool("strict")
	}

	review, _ := f.GetBool("review")
	custom, _ := f.GetBool("custom")
	switch {
	case review && custom:
		return s, errors.New("--review and --custom are mutually exclusive")
	case review:
		s.QuestionType = problemgen.TypeReview
	case custom:
		s.QuestionType = problemgen.TypeCustom
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// runTUI opens the store and hands the terminal to the app. direct skips
// the home menu.
func runTUI(cmd *cobra.Command, s config.Settings, direct bool) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("mathdrill needs an interactive terminal; try `mathdrill preview` to print a batch instead")
	}

	ctx := cmd.Context()
	kv, hist, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer kv.Close()

	testMode, _ := cmd.Flags().GetBool("test-mode")
	cliLog.Info().
		Str("type", string(s.QuestionType)).
		Bool("direct", direct).
		Bool("testMode", testMode).
		Msg("starting tui")

	return app.Run(app.Options{
		Deps: home.Deps{
			Generator: problemgen.New(problemgen.WithLogger(cliLog)),
			History:   hist,
			Diagnosis: diagnosis.NewService(cliLog),
			Setup: sessionscreen.Setup{
				Config:       s.Drill,
				QuestionType: s.QuestionType,
				Strict:       s.Strict,
				TestMode:     testMode,
			},
			Log: cliLog,
		},
		Direct: direct,
	})
}
