package server

import (
	"slices"

	"github.com/tomz197/invaders/internal/loop"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	Wave     int
}

// RecordScore adds a finished game to the leaderboard. It returns the 1-based
// rank, or 0 when the score did not place. Equal scores rank in the order they
// were recorded. Other connected clients are told about new entries.
func (s *Server) RecordScore(clientID int, summary loop.Summary) int {
	if summary.Score <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	username := "player"
	if handle, ok := s.clients.Get(clientID); ok {
		username = handle.Username
	}

	idx := slices.IndexFunc(s.scores, func(e TopScoreEntry) bool {
		return e.Score < summary.Score
	})
	if idx < 0 {
		idx = len(s.scores)
	}
	if idx >= s.maxScores {
		return 0
	}

	entry := TopScoreEntry{Username: username, Score: summary.Score, Wave: summary.Wave}
	s.scores = slices.Insert(s.scores, idx, entry)
	if len(s.scores) > s.maxScores {
		s.scores = s.scores[:s.maxScores]
	}
	rank := idx + 1
	s.log.Info("leaderboard entry", "user", username, "score", summary.Score, "rank", rank)

	event := ClientEvent{Type: EventHighScore, Username: username, Score: summary.Score, Rank: rank}
	s.clients.ForEach(func(id int, handle *ClientHandle) bool {
		if id == clientID {
			return true
		}
		select {
		case handle.EventsCh <- event:
		default:
		}
		return true
	})
	return rank
}

// TopScores returns a copy of the leaderboard, best first.
func (s *Server) TopScores() []TopScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.scores)
}
