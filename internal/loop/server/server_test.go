package server_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/server"
)

func TestRegisterAndUnregister(t *testing.T) {
	s := server.NewServer(nil)

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, s.Players())

	s.UnregisterClient(a.ID)
	assert.Equal(t, 1, s.Players())
	_, open := <-a.EventsCh
	assert.False(t, open, "events channel is closed on unregister")

	assert.NotPanics(t, func() { s.UnregisterClient(a.ID) })
	assert.NotPanics(t, func() { s.UnregisterClient(999) })
	assert.Equal(t, 1, s.Players())
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "alice", want: "alice"},
		{name: "empty", in: "", want: "player"},
		{name: "blank", in: "   ", want: "player"},
		{name: "control characters", in: "ev\x1b[2Jil", want: "ev[2Jil"},
		{name: "too long", in: strings.Repeat("x", 40), want: strings.Repeat("x", config.MaxUsernameLength)},
		{name: "multibyte", in: strings.Repeat("é", 20), want: strings.Repeat("é", config.MaxUsernameLength)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.SanitizeUsername(tt.in))
		})
	}
}

func TestRecordScoreRanking(t *testing.T) {
	s := server.NewServer(nil)
	h := s.RegisterClient("alice")

	assert.Equal(t, 1, s.RecordScore(h.ID, loop.Summary{Score: 300, Wave: 2}))
	assert.Equal(t, 1, s.RecordScore(h.ID, loop.Summary{Score: 500, Wave: 3}))
	assert.Equal(t, 3, s.RecordScore(h.ID, loop.Summary{Score: 100, Wave: 1}))
	assert.Equal(t, 3, s.RecordScore(h.ID, loop.Summary{Score: 300, Wave: 1}), "ties rank after earlier entries")
	assert.Zero(t, s.RecordScore(h.ID, loop.Summary{Score: 0}), "empty games are not recorded")

	top := s.TopScores()
	scores := make([]int, len(top))
	for i, e := range top {
		scores[i] = e.Score
	}
	assert.Equal(t, []int{500, 300, 300, 100}, scores)
	assert.Equal(t, 2, top[1].Wave)
	assert.Equal(t, "alice", top[0].Username)

	top[0].Score = 1
	assert.Equal(t, 500, s.TopScores()[0].Score, "TopScores returns a copy")
}

func TestRecordScoreCapsLeaderboard(t *testing.T) {
	s := server.NewServer(nil)
	h := s.RegisterClient("alice")

	for i := 1; i <= config.LeaderboardSize; i++ {
		require.Positive(t, s.RecordScore(h.ID, loop.Summary{Score: i * 100}))
	}
	assert.Zero(t, s.RecordScore(h.ID, loop.Summary{Score: 50}), "below the last entry")
	assert.Equal(t, 1, s.RecordScore(h.ID, loop.Summary{Score: 10000}))

	top := s.TopScores()
	require.Len(t, top, config.LeaderboardSize)
	assert.Equal(t, 10000, top[0].Score)
	assert.Equal(t, 200, top[len(top)-1].Score)
}

func TestRecordScoreNotifiesOthers(t *testing.T) {
	s := server.NewServer(nil)
	alice := s.RegisterClient("alice")
	bob := s.RegisterClient("bob")

	s.RecordScore(alice.ID, loop.Summary{Score: 120})

	select {
	case ev := <-bob.EventsCh:
		assert.Equal(t, server.EventHighScore, ev.Type)
		assert.Equal(t, "alice", ev.Username)
		assert.Equal(t, 120, ev.Score)
		assert.Equal(t, 1, ev.Rank)
	default:
		t.Fatal("bob was not notified")
	}

	select {
	case ev := <-alice.EventsCh:
		t.Fatalf("scorer should not be notified, got %+v", ev)
	default:
	}
}

func TestShutdownWaitsForClients(t *testing.T) {
	s := server.NewServer(nil)
	h := s.RegisterClient("alice")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == server.EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Zero(t, s.Players())
}

func TestShutdownTimesOut(t *testing.T) {
	s := server.NewServer(nil)
	h := s.RegisterClient("stubborn")

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
	assert.Equal(t, 1, s.Players())

	ev := <-h.EventsCh
	assert.Equal(t, server.EventServerShutdown, ev.Type)
}

func TestShutdownNoticeSurvivesFullBuffer(t *testing.T) {
	s := server.NewServer(nil)
	h := s.RegisterClient("busy")
	for i := 0; i < cap(h.EventsCh); i++ {
		h.EventsCh <- server.ClientEvent{Type: server.EventHighScore, Score: i + 1}
	}

	s.Shutdown(10 * time.Millisecond)

	var events []server.ClientEvent
	for len(h.EventsCh) > 0 {
		events = append(events, <-h.EventsCh)
	}
	require.Len(t, events, cap(h.EventsCh))
	assert.Equal(t, server.EventServerShutdown, events[len(events)-1].Type)
	assert.Equal(t, 2, events[0].Score, "the oldest notice makes room")
}
