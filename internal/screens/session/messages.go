package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/history"
	"github.com/abhisek/mathdrill/internal/problemgen"
)

// sessionInitMsg is sent when the round's questions are ready.
type sessionInitMsg struct {
	Config    problemgen.Config
	Questions []problemgen.Question
	Best      history.BestTimes
	HasBest   bool
	Err       error
}

// timerTickMsg is sent every second to update the countdowns.
type timerTickMsg time.Time

// sessionEndMsg is sent to trigger the session end flow.
type sessionEndMsg struct{}
