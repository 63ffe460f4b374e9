package shell

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/arcade"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/command"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/history"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/intro"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// Default timings.
const (
	DefaultCharDelay = 20 * time.Millisecond
	DefaultLineDelay = 150 * time.Millisecond
	DefaultGameTick  = 50 * time.Millisecond
)

// Hooks observe session activity. Nil fields are skipped.
type Hooks struct {
	Key     func(mode string)
	Command func(name, outcome string)
	Game    func(event string)
	// Mode is called after the mode name changes.
	Mode func(mode string)
}

// Options configure a session. Content is required.
type Options struct {
	Content  *content.Content
	Catalog  *vfs.Catalog
	Registry *links.Registry
	Overlay  *vfs.Overlay
	Scores   *arcade.Scores
	Client   Client
	Logger   *logging.Logger
	Hooks    Hooks

	CharDelay time.Duration
	LineDelay time.Duration
	GameTick  time.Duration
	SkipIntro bool

	// Rand seeds the game; nil is random.
	Rand *rand.Rand
}

// Session is the whole state of one interactive shell. It is not safe for
// concurrent use: one goroutine, normally Run, owns it.
type Session struct {
	opts       Options
	term       Terminal
	content    *content.Content
	fs         *vfs.FS
	history    *history.History
	dispatcher *command.Dispatcher
	provider   *links.Provider
	logger     *logging.Logger

	mode     Mode
	intro    *intro.Animation
	lastMode string

	// edit-safety state, valid while ready
	ready       bool
	promptRow   int
	linesJumped int

	started bool
}

// New builds a session over term.
func New(term Terminal, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Catalog == nil {
		opts.Catalog = vfs.NewCatalog(opts.Content)
	}
	if opts.Registry == nil {
		opts.Registry = links.NewRegistry(opts.Content.Hidden.Links)
	}
	if opts.Scores == nil {
		opts.Scores = &arcade.Scores{}
	}
	if opts.CharDelay == 0 {
		opts.CharDelay = DefaultCharDelay
	}
	if opts.LineDelay == 0 {
		opts.LineDelay = DefaultLineDelay
	}
	if opts.GameTick == 0 {
		opts.GameTick = DefaultGameTick
	}

	fs := vfs.New(opts.Catalog, opts.Overlay)
	s := &Session{
		opts:       opts,
		term:       term,
		content:    opts.Content,
		fs:         fs,
		history:    history.New(),
		dispatcher: command.NewDispatcher(fs, opts.Content),
		logger:     opts.Logger,
		mode:       Normal{},
	}
	s.dispatcher.OnCommand = opts.Hooks.Command
	s.provider = links.NewProvider(opts.Registry, term, opts.Content.Prompt.User)
	return s
}

// Start registers the link provider and begins the intro, or writes the
// first prompt when the intro is skipped. Later calls do nothing.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true
	defer s.notifyMode()
	s.registerLinks()

	if s.opts.SkipIntro {
		s.prompt()
		return
	}
	cols, _ := s.term.Size()
	s.intro = intro.NewAnimation(intro.Banner(s.content.Intro, cols), s.opts.CharDelay, s.opts.LineDelay)
}

// Run starts the session and processes events until ctx is done or events
// is closed. Intro steps and game ticks are timed here, so every change to
// session state happens on the calling goroutine.
func (s *Session) Run(ctx context.Context, events <-chan Event) error {
	s.Start()
	defer s.Close()

	var (
		introTimer *time.Timer
		ticker     *time.Ticker
	)
	if s.intro != nil {
		introTimer = time.NewTimer(0)
		defer introTimer.Stop()
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		var introC, tickC <-chan time.Time
		if s.intro != nil {
			introC = introTimer.C
		}

		playing := s.playing() != nil
		switch {
		case playing && ticker == nil:
			ticker = time.NewTicker(s.opts.GameTick)
		case !playing && ticker != nil:
			ticker.Stop()
			ticker = nil
		}
		if ticker != nil {
			tickC = ticker.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ev)
		case <-introC:
			if delay, more := s.StepIntro(); more {
				introTimer.Reset(delay)
			}
		case <-tickC:
			s.Tick()
		}
	}
}

// Handle applies one event.
func (s *Session) Handle(ev Event) {
	defer s.notifyMode()
	switch e := ev.(type) {
	case KeyEvent:
		s.HandleKey(e.Key)
	case ResizeEvent:
		if e.Cols > 0 && e.Rows > 0 {
			s.term.Resize(e.Cols, e.Rows)
		}
	case LinksEvent:
		if s.opts.Client != nil {
			s.opts.Client.Links(e.Row, s.provider.LinksAt(e.Row))
		}
	case ActivateEvent:
		if l, ok := s.provider.At(e.Row, e.Col); ok {
			s.logger.Debug("link activated", zap.String("keyword", l.Entry.Keyword))
			l.Activate(s)
		}
	}
}

// StepIntro writes the next piece of the intro and returns the delay before
// the following one. more is false once the intro has finished.
func (s *Session) StepIntro() (delay time.Duration, more bool) {
	if s.intro == nil {
		return 0, false
	}
	defer s.notifyMode()
	if out, d, ok := s.intro.Step(); ok {
		s.term.Write(out)
		delay = d
	}
	if s.intro.Done() {
		s.finishIntro()
		return 0, false
	}
	return delay, true
}

// Tick advances a running game by one step.
func (s *Session) Tick() {
	if p := s.playing(); p != nil {
		s.term.Write(p.Game.Tick())
	}
}

// Close ends a running game so its score is recorded.
func (s *Session) Close() {
	if p := s.playing(); p != nil {
		s.term.Write(p.Game.Stop())
		s.mode = Normal{}
		s.observeGame("stopped", p.Game.Score())
		s.notifyMode()
	}
}

// Mode is the current input mode.
func (s *Session) Mode() Mode { return s.mode }

// ModeName is the current mode's name, or "intro" while the intro runs.
func (s *Session) ModeName() string {
	if s.intro != nil {
		return ModeIntro
	}
	return s.mode.Name()
}

// Ready reports whether a prompt is armed for editing.
func (s *Session) Ready() bool { return s.ready }

// Prompt is the prompt text for the working directory.
func (s *Session) Prompt() string {
	return s.content.Prompt.User + " " + s.fs.Pwd() + "$ "
}

// History is the session's command history.
func (s *Session) History() *history.History { return s.history }

// FS is the session's filesystem.
func (s *Session) FS() *vfs.FS { return s.fs }

// OpenURL implements links.Activator.
func (s *Session) OpenURL(url string) {
	if s.opts.Client != nil {
		s.opts.Client.Open(url)
	}
}

// WriteText implements links.Activator. The text is shown like command
// output, followed by a fresh prompt; it is ignored outside line editing.
func (s *Session) WriteText(text string) {
	if !s.editing() {
		return
	}
	s.term.Write(ansi.CRLF + ansi.Lines(text))
	s.prompt()
}

func (s *Session) notifyMode() {
	name := s.ModeName()
	if name == s.lastMode {
		return
	}
	s.lastMode = name
	if s.opts.Hooks.Mode != nil {
		s.opts.Hooks.Mode(name)
	}
}

func (s *Session) registerLinks() {
	if host, ok := s.term.(LinkHost); ok && host.RegisterLinkProvider(s.provider) {
		s.logger.Debug("link provider registered")
	}
}

func (s *Session) finishIntro() {
	s.intro = nil
	s.logger.Debug("intro finished")
	s.prompt()
}

// prompt writes a fresh prompt on the next line and arms it.
func (s *Session) prompt() {
	s.term.Write(ansi.CRLF + s.Prompt())
	s.arm()
}

// arm records the row the prompt sits on.
func (s *Session) arm() {
	_, row := s.term.Cursor()
	s.promptRow = row
	s.linesJumped = 0
	s.ready = true
}

func (s *Session) editing() bool {
	_, normal := s.mode.(Normal)
	return normal && s.ready && s.intro == nil
}

func (s *Session) playing() *Playing {
	p, _ := s.mode.(*Playing)
	return p
}

func (s *Session) observeGame(event string, score int) {
	s.logger.Info("game "+event, zap.Int("score", score))
	if s.opts.Hooks.Game != nil {
		s.opts.Hooks.Game(event)
	}
}
