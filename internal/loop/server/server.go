// Package server is the arcade registry shared by every SSH session. Each
// session runs its own engine; the server only tracks who is connected,
// keeps the leaderboard and relays notices between sessions.
package server

import (
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/kamstrup/intmap"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the arcade.
// Decouples the Client from the concrete Server implementation.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	RecordScore(clientID int, summary loop.Summary) int
	TopScores() []TopScoreEntry
	Players() int
}

// Server tracks connected clients and the leaderboard.
type Server struct {
	clients      *intmap.Map[int, *ClientHandle]
	nextClientID int
	scores       []TopScoreEntry
	maxScores    int
	log          *log.Logger
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string // Display name for this client
	Joined   time.Time
	EventsCh chan ClientEvent // Events sent to client (shutdown, etc.)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type     ClientEventType
	Username string // For high score events
	Score    int    // For high score events
	Rank     int    // For high score events, 1-based
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventHighScore ClientEventType = iota // Another player entered the leaderboard
	EventServerShutdown
)

// NewServer creates an empty arcade. A nil logger discards.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		clients:      intmap.New[int, *ClientHandle](16),
		nextClientID: 1,
		maxScores:    config.LeaderboardSize,
		log:          logger,
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	s.clients.ForEach(func(_ int, handle *ClientHandle) bool {
		notifyShutdown(handle)
		return true
	})
	s.mu.Unlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			s.log.Warn("shutdown timed out", "remaining", s.Players())
			return
		case <-ticker.C:
		}
	}
}

// notifyShutdown queues the shutdown notice, evicting the oldest pending
// events while the buffer is full. The caller holds the write lock, so no
// other sender can refill the buffer in between.
func notifyShutdown(handle *ClientHandle) {
	notice := ClientEvent{Type: EventServerShutdown}
	for {
		select {
		case handle.EventsCh <- notice:
			return
		default:
		}
		select {
		case <-handle.EventsCh:
		default:
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: SanitizeUsername(username),
		Joined:   time.Now(),
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients.Put(handle.ID, handle)
	s.log.Debug("client registered", "id", handle.ID, "user", handle.Username, "players", s.clients.Len())
	return handle
}

// UnregisterClient removes a client and closes its event channel.
// Unknown ids are ignored.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients.Get(clientID)
	if !ok {
		return
	}
	s.clients.Del(clientID)
	close(handle.EventsCh)
	s.log.Debug("client unregistered", "id", clientID, "players", s.clients.Len())
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clients.Len()
}

// SanitizeUsername strips control characters and clamps the name to
// MaxUsernameLength runes. Empty names become "player".
func SanitizeUsername(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "player"
	}
	if utf8.RuneCountInString(name) > config.MaxUsernameLength {
		name = string([]rune(name)[:config.MaxUsernameLength])
	}
	return name
}
