package terminal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/arcade"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/shell"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/id"
)

const eventBuffer = 64

// Session is one live shell bound to a client
type Session struct {
	ID        id.SessionID
	ClientID  id.ClientID
	StartedAt time.Time

	screen *Screen
	events chan shell.Event
	mode   atomic.Value // string
	cancel context.CancelFunc
	done   chan struct{}
}

// Send queues an event for the session loop
func (s *Session) Send(ctx context.Context, ev shell.Event) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session and waits for its loop to exit
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

// Done is closed once the session loop has exited
func (s *Session) Done() <-chan struct{} { return s.done }

// Info returns the public view of the session
func (s *Session) Info() SessionInfo {
	cols, rows := s.screen.Size()
	mode, _ := s.mode.Load().(string)

	active := true
	select {
	case <-s.done:
		active = false
	default:
	}

	return SessionInfo{
		ID:        s.ID.String(),
		ClientID:  s.ClientID.String(),
		Cols:      cols,
		Rows:      rows,
		Mode:      mode,
		StartedAt: s.StartedAt,
		Active:    active,
	}
}

// snapshot caches what sessions share for one content version
type snapshot struct {
	content  *content.Content
	catalog  *vfs.Catalog
	registry *links.Registry
}

// Manager manages live shell sessions
type Manager struct {
	cfg     Config
	source  ContentSource
	store   Store
	metrics *monitoring.Metrics
	logger  *logging.Logger

	sessions sync.Map // map[id.SessionID]*Session
	count    atomic.Int64
	shared   atomic.Pointer[snapshot]
	wg       sync.WaitGroup
}

// NewManager creates a new session manager. store and metrics may be nil.
func NewManager(cfg Config, source ContentSource, store Store, metrics *monitoring.Metrics, logger *logging.Logger) *Manager {
	if cfg.Cols <= 0 {
		cfg.Cols = 80
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 24
	}
	if cfg.Scrollback <= 0 {
		cfg.Scrollback = 1000
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:     cfg,
		source:  source,
		store:   store,
		metrics: metrics,
		logger:  logger.Component("terminal"),
	}
}

// Create starts a session for client. The session runs until it is closed
// or the manager shuts down; ctx only bounds loading the client's state.
func (m *Manager) Create(ctx context.Context, req CreateRequest, client Client) (*Session, error) {
	// reserve first: Count never exceeds MaxSessions
	if limit := int64(m.cfg.MaxSessions); m.count.Add(1) > limit && limit > 0 {
		m.count.Add(-1)
		if m.metrics != nil {
			m.metrics.SessionRejected()
		}
		return nil, ErrTooManySessions
	}

	cols, rows := req.Cols, req.Rows
	if cols <= 0 || rows <= 0 {
		cols, rows = m.cfg.Cols, m.cfg.Rows
	}
	if req.ClientID == "" {
		req.ClientID = id.NewClientID()
	}

	sess := &Session{
		ID:        id.NewSessionID(),
		ClientID:  req.ClientID,
		StartedAt: time.Now(),
		events:    make(chan shell.Event, eventBuffer),
		done:      make(chan struct{}),
	}
	logger := m.logger.Session(sess.ID.String(), sess.ClientID.String())
	namespace := sess.ClientID.String()

	sess.screen = NewScreen(cols, rows, m.cfg.Scrollback, func(data string) {
		if err := client.Output(data); err != nil {
			logger.Debug("output dropped", zap.Error(err))
		}
	})

	var overlay *vfs.Overlay
	var scores *arcade.Scores
	if m.store != nil {
		overlay = vfs.LoadOverlay(ctx, m.store, namespace, logger)
		scores = arcade.LoadScores(ctx, m.store, namespace, logger)
	}

	shared := m.snapshot()
	engine := shell.New(sess.screen, shell.Options{
		Content:   shared.content,
		Catalog:   shared.catalog,
		Registry:  shared.registry,
		Overlay:   overlay,
		Scores:    scores,
		Client:    &remote{client: client, logger: logger},
		Logger:    logger,
		Hooks:     m.hooks(sess),
		CharDelay: m.cfg.CharDelay,
		LineDelay: m.cfg.LineDelay,
		GameTick:  m.cfg.GameTick,
		SkipIntro: req.SkipIntro,
	})

	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	m.sessions.Store(sess.ID, sess)
	if m.metrics != nil {
		m.metrics.SessionStarted()
	}
	logger.Info("session started", zap.Int("cols", cols), zap.Int("rows", rows), zap.String("content", shared.content.Version))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := engine.Run(runCtx, sess.events)
		m.remove(sess)
		close(sess.done)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("session ended with error", zap.Error(err))
			return
		}
		logger.Info("session ended", zap.Duration("duration", time.Since(sess.StartedAt)))
	}()

	return sess, nil
}

func (m *Manager) hooks(sess *Session) shell.Hooks {
	h := shell.Hooks{
		Mode: func(mode string) { sess.mode.Store(mode) },
	}
	if m.metrics != nil {
		h.Key = m.metrics.RecordKeystroke
		h.Command = m.metrics.RecordCommand
		h.Game = m.metrics.RecordGame
	}
	return h
}

// snapshot returns the shared catalog and link registry for the current
// content, rebuilding them when the content has been reloaded
func (m *Manager) snapshot() *snapshot {
	current := m.source.Current()
	if s := m.shared.Load(); s != nil && s.content == current {
		return s
	}
	s := &snapshot{
		content:  current,
		catalog:  vfs.NewCatalog(current),
		registry: links.NewRegistry(current.Hidden.Links),
	}
	m.shared.Store(s)
	return s
}

func (m *Manager) remove(sess *Session) {
	if _, loaded := m.sessions.LoadAndDelete(sess.ID); !loaded {
		return
	}
	m.count.Add(-1)
	if m.metrics != nil {
		m.metrics.SessionEnded()
	}
}

// Get retrieves a live session
func (m *Manager) Get(sessionID id.SessionID) (*Session, bool) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return value.(*Session), true
}

// Kill terminates a session
func (m *Manager) Kill(sessionID id.SessionID) error {
	sess, ok := m.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	sess.Close()
	return nil
}

// ListSessions returns all live sessions
func (m *Manager) ListSessions() []SessionInfo {
	sessions := []SessionInfo{}
	m.sessions.Range(func(_, value any) bool {
		sessions = append(sessions, value.(*Session).Info())
		return true
	})
	return sessions
}

// Count is the number of live sessions
func (m *Manager) Count() int { return int(m.count.Load()) }

// Shutdown closes every session and waits for their loops, or for ctx
func (m *Manager) Shutdown(ctx context.Context) error {
	m.sessions.Range(func(_, value any) bool {
		value.(*Session).cancel()
		return true
	})

	finished := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// remote adapts a Client to the session's fire-and-forget callbacks
type remote struct {
	client Client
	logger *logging.Logger
}

func (r *remote) Open(url string) {
	if err := r.client.Open(url); err != nil {
		r.logger.Debug("open dropped", zap.String("url", url), zap.Error(err))
	}
}

func (r *remote) Links(row int, found []links.Link) {
	if err := r.client.Links(row, found); err != nil {
		r.logger.Debug("links dropped", zap.Int("row", row), zap.Error(err))
	}
}
