package terminal

import (
	"context"
	"errors"
	"time"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/id"
)

var (
	// ErrSessionNotFound is returned for unknown session IDs
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed is returned when sending to a finished session
	ErrSessionClosed = errors.New("session is closed")
	// ErrTooManySessions is returned when the session limit is reached
	ErrTooManySessions = errors.New("too many sessions")
)

// Client is the remote end of a session
type Client interface {
	Output(data string) error
	Open(url string) error
	Links(row int, found []links.Link) error
}

// ContentSource provides the current content snapshot
type ContentSource interface {
	Current() *content.Content
}

// Store persists per-client state
type Store interface {
	Get(ctx context.Context, namespace, key string, out any) error
	Set(ctx context.Context, namespace, key string, value any) error
}

// Config holds session defaults and limits
type Config struct {
	Cols        int
	Rows        int
	Scrollback  int
	MaxSessions int
	CharDelay   time.Duration
	LineDelay   time.Duration
	GameTick    time.Duration
}

// CreateRequest describes a session to start
type CreateRequest struct {
	ClientID  id.ClientID
	Cols      int
	Rows      int
	SkipIntro bool
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	Mode      string    `json:"mode"`
	StartedAt time.Time `json:"started_at"`
	Active    bool      `json:"active"`
}
