package crawler

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Session identifies one crawl run in the logs.
type Session struct {
	// ID is a random run identifier attached to every log line.
	ID string

	// StartedAt is when the session was created.
	StartedAt time.Time

	logger *slog.Logger
}

// NewSession starts a session that logs through logger.
// A nil logger falls back to slog.Default().
func NewSession(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		StartedAt: time.Now(),
		logger:    logger.With("run_id", id),
	}
	s.logger.Info("scraping started", "at", s.StartedAt.Format(time.RFC3339))
	return s
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}

// Close logs the end of the session and its total duration.
func (s *Session) Close() {
	s.logger.Info("scraping finished",
		"at", time.Now().Format(time.RFC3339),
		"duration", s.Elapsed().Round(time.Millisecond).String(),
	)
}
