package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

// execute runs the root command against a fresh SQLite file in dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MATHDRILL_STORE", "")
	t.Setenv("MATHDRILL_DB", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "missing.toml"),
		"--store", "sqlite",
		"--db", filepath.Join(dir, "mathdrill.db"),
		"--log-level", "error",
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseTriple(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    problemgen.Triple
		wantErr bool
	}{
		{"subtraction", []string{"42", "-", "17"}, problemgen.Triple{A: 42, B: 17, Operation: problemgen.OpSubtract}, false},
		{"ascii times", []string{"7", "x", "8"}, problemgen.Triple{A: 7, B: 8, Operation: problemgen.OpMultiply}, false},
		{"exact division", []string{"63", "/", "9"}, problemgen.Triple{A: 63, B: 9, Operation: problemgen.OpDivide}, false},
		{"inexact division", []string{"7", "/", "2"}, problemgen.Triple{}, true},
		{"divide by zero", []string{"7", "/", "0"}, problemgen.Triple{}, true},
		{"bad operand", []string{"seven", "+", "1"}, problemgen.Triple{}, true},
		{"bad operator", []string{"3", "?", "4"}, problemgen.Triple{}, true},
		{"too few", []string{"3", "+"}, problemgen.Triple{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTriple(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func playFlagsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "play"}
	addPlayFlags(c.Flags())
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestApplyPlayFlags(t *testing.T) {
	base := config.DefaultSettings()

	s, err := applyPlayFlags(playFlagsCmd(t, "--type", "chain-all-four", "--count", "5", "--time-limit", "8", "--strict"), base)
	require.NoError(t, err)
	assert.Equal(t, problemgen.TypeChainAllFour, s.QuestionType)
	assert.Equal(t, 5, s.Drill.QuestionCount)
	assert.Equal(t, 8, s.Drill.TimeLimit)
	assert.Equal(t, base.Drill.Range, s.Drill.Range)
	assert.True(t, s.Strict)

	s, err = applyPlayFlags(playFlagsCmd(t, "--review"), base)
	require.NoError(t, err)
	assert.Equal(t, problemgen.TypeReview, s.QuestionType)

	_, err = applyPlayFlags(playFlagsCmd(t, "--review", "--custom"), base)
	assert.Error(t, err)

	_, err = applyPlayFlags(playFlagsCmd(t, "--count", "0"), base)
	assert.Error(t, err)

	_, err = applyPlayFlags(playFlagsCmd(t, "--borrow-ratio", "1.5"), base)
	assert.Error(t, err)

	_, err = applyPlayFlags(playFlagsCmd(t, "--type", "algebra"), base)
	assert.ErrorIs(t, err, problemgen.ErrUnknownQuestionType)
}

func TestPlayFlags_Usage(t *testing.T) {
	f := playFlagsCmd(t).Flags()
	assert.Contains(t, f.Lookup("strict").Usage, "Time out each question")
	assert.NotContains(t, f.Lookup("strict").Usage, "paused")
	assert.Contains(t, f.Lookup("test-mode").Usage, "left out of personal bests")
	assert.NotContains(t, f.Lookup("test-mode").Usage, "without saving")
}

func TestRunQuiz(t *testing.T) {
	batch := []problemgen.Question{
		{ID: "q1", A: 41, B: 17, Result: 24, Operation: problemgen.OpSubtract, CorrectAnswer: 24, DisplayText: "41 - 17 =", HasBorrow: true},
		{ID: "q2", A: 52, B: 9, Result: 43, Operation: problemgen.OpSubtract, CorrectAnswer: 43, DisplayText: "52 - 9 =", HasBorrow: true},
		{ID: "q3", A: 6, B: 7, Result: 42, Operation: problemgen.OpMultiply, CorrectAnswer: 42, DisplayText: "6 × 7 ="},
	}

	var out bytes.Buffer
	err := runQuiz(&out, strings.NewReader("24\n40\n\n"), batch, 60)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "── Question 1/3 ──")
	assert.Contains(t, got, "✓ Correct!")
	assert.Contains(t, got, "✗ Wrong. Answer: 43")
	assert.Contains(t, got, "(skipped)")
	assert.Contains(t, got, "Summary: 1/2 correct")
}

func TestRunQuiz_InputClosed(t *testing.T) {
	batch := []problemgen.Question{
		{ID: "q1", A: 6, B: 7, Result: 42, Operation: problemgen.OpMultiply, CorrectAnswer: 42, DisplayText: "6 × 7 ="},
	}
	var out bytes.Buffer
	require.NoError(t, runQuiz(&out, strings.NewReader(""), batch, 5))
	assert.Contains(t, out.String(), "(input closed)")
	assert.Contains(t, out.String(), "Summary: 0/0 correct")
}

func TestFilterRecords(t *testing.T) {
	records := []history.Record{
		{ID: "a", Type: problemgen.TypeBorrow},
		{ID: "b", Type: problemgen.TypeCarry},
		{ID: "c", Type: problemgen.TypeBorrow},
		{ID: "d", Type: problemgen.TypeBorrow},
	}

	got := filterRecords(records, problemgen.TypeBorrow, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	assert.Len(t, filterRecords(records, "", 0), 4)
}

func TestPrintStats_Empty(t *testing.T) {
	var out bytes.Buffer
	printStats(&out, nil, nil, time.Now())
	assert.Contains(t, out.String(), "No sessions yet")
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "mathdrill (devel)\n", out)
}

func TestCommands_Preview(t *testing.T) {
	out, err := execute(t, t.TempDir(), "preview", "--type", "multiply", "--count", "3", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Multiplication: 3 questions")
	assert.Contains(t, out, "Answer")
}

func TestCommands_PreviewRejectsStoredSets(t *testing.T) {
	_, err := execute(t, t.TempDir(), "preview", "--type", "review")
	assert.Error(t, err)
}

func TestCommands_CustomSet(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "custom", "add", "7", "x", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 7 × 8")

	out, err = execute(t, dir, "custom", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "7 × 8")
	assert.Contains(t, out, "56")

	_, err = execute(t, dir, "custom", "clear")
	require.NoError(t, err)

	out, err = execute(t, dir, "custom", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The custom set is empty.")
}

func TestCommands_WrongBankPractice(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "wrong", "practice")
	require.NoError(t, err)
	assert.Contains(t, out, "The bank is empty.")

	out, err = execute(t, dir, "wrong", "add", "42", "-", "17")
	require.NoError(t, err)
	assert.Contains(t, out, "Banked 42 - 17 = 25")

	out, err = execute(t, dir, "wrong", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "42 - 17 =")

	out, err = execute(t, dir, "wrong", "practice")
	require.NoError(t, err)
	assert.Contains(t, out, "Staged 1 questions")
}

func TestCommands_HistoryManualAndStats(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "history", "add", "--type", "carry", "--avg", "2.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Carry Addition, 2.50s average")

	out, err = execute(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Carry Addition")
	assert.Contains(t, out, "manual")

	out, err = execute(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions: 1")
	assert.Contains(t, out, "2.50s")
	assert.Contains(t, out, "Last 7 days: 0 sessions saved")

	out, err = execute(t, dir, "history", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "No wrong or slow answers in range.")
}

func TestCommands_HistoryShowMissing(t *testing.T) {
	_, err := execute(t, t.TempDir(), "history", "show", "nope")
	assert.ErrorIs(t, err, history.ErrRecordNotFound)
}

func TestCommands_DestructiveNeedYes(t *testing.T) {
	_, err := execute(t, t.TempDir(), "history", "clear")
	assert.Error(t, err)
}
