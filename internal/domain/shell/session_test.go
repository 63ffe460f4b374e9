package shell

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
)

const sessionDoc = `
prompt:
  user: me@host
intro:
  greeting: hello there
  menu:
    - {icon: "*", heading: Projects, color: green, description: stuff}
commands:
  vocabulary: [ls, ls -l, cat, cd, pwd]
hidden:
  links:
    - {type: URL, key: GitHub, value: "https://github.com/me"}
    - {type: text, key: About, value: "all about me"}
filesystem:
  about:
    files:
      bio.txt: {content: "hi, I build things"}
  projects:
    files:
      one.md: {content: "first"}
  contact:
    files:
      socials.txt: {content: "GitHub\nelsewhere"}
`

const prompt = "me@host ~$ "

type fakeClient struct {
	opened []string
	links  map[int][]links.Link
}

func (c *fakeClient) Open(url string) { c.opened = append(c.opened, url) }

func (c *fakeClient) Links(row int, found []links.Link) {
	if c.links == nil {
		c.links = map[int][]links.Link{}
	}
	c.links[row] = found
}

func testContent(t *testing.T) *content.Content {
	t.Helper()
	c, err := content.Parse([]byte(sessionDoc), content.FormatYAML)
	require.NoError(t, err)
	return c
}

func newSession(t *testing.T, cols int, mutate ...func(*Options)) (*Session, *screen, *fakeClient) {
	t.Helper()
	client := &fakeClient{}
	opts := Options{
		Content:   testContent(t),
		Client:    client,
		SkipIntro: true,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	}
	for _, m := range mutate {
		m(&opts)
	}
	sc := newScreen(cols, 24)
	s := New(sc, opts)
	s.Start()
	return s, sc, client
}

func typeText(s *Session, text string) {
	for _, r := range text {
		s.HandleKey(Key{Key: string(r), Name: string(r)})
	}
}

func press(s *Session, name string) {
	s.HandleKey(Key{Name: name})
}

func ctrl(s *Session, letter string) {
	s.HandleKey(Key{Key: letter, Name: letter, Ctrl: true})
}

func run(s *Session, line string) {
	typeText(s, line)
	press(s, KeyEnter)
}

func TestStartWritesPrompt(t *testing.T) {
	s, sc, _ := newSession(t, 80)

	assert.True(t, s.Ready())
	assert.Equal(t, ModeNormal, s.ModeName())
	assert.Equal(t, prompt, s.Prompt())
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(1))
	assert.Equal(t, 1, s.promptRow)
	assert.Equal(t, 1, sc.register)

	s.Start()
	assert.Equal(t, 1, sc.register, "start runs once")
}

func TestEnterRunsCommand(t *testing.T) {
	s, sc, _ := newSession(t, 80)

	run(s, "pwd")
	assert.Equal(t, prompt+"pwd", sc.Line(1))
	assert.Equal(t, "~", sc.Line(2))
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(3))
	assert.Equal(t, 3, s.promptRow)
	assert.Equal(t, []string{"pwd"}, s.History().Entries())

	run(s, "cd projects")
	assert.Equal(t, "me@host ~/projects$", sc.Line(5))

	run(s, "CAT one.md")
	assert.Contains(t, sc.text(), "first")
	assert.Equal(t, 4, sc.register)
	assert.NotNil(t, sc.provider, "the first registration wins")
}

func TestClear(t *testing.T) {
	s, sc, _ := newSession(t, 80)

	run(s, "pwd")
	run(s, "cls")
	assert.Equal(t, "", sc.Line(0))
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(1))
	assert.NotContains(t, sc.text(), "pwd")
}

func TestPromptIsProtected(t *testing.T) {
	s, sc, _ := newSession(t, 80)
	row := s.promptRow

	press(s, KeyBackspace)
	press(s, KeyArrowLeft)
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(row))
	col, _ := sc.Cursor()
	assert.Equal(t, len(prompt), col)

	typeText(s, "ab")
	press(s, KeyArrowLeft)
	press(s, KeyArrowLeft)
	press(s, KeyArrowLeft)
	col, _ = sc.Cursor()
	assert.Equal(t, len(prompt), col)

	press(s, KeyArrowRight)
	press(s, KeyArrowRight)
	press(s, KeyBackspace)
	assert.Equal(t, prompt+"a", sc.Line(row))

	// nothing may be typed over earlier output
	sc.Write("\x1b[A")
	typeText(s, "x")
	press(s, KeyBackspace)
	assert.Equal(t, "", sc.Line(row-1))
}

func TestWrappedInput(t *testing.T) {
	s, sc, _ := newSession(t, 20)
	row := s.promptRow

	// 9 cells are left after the prompt; the 10th character wraps
	typeText(s, "cat about")
	assert.Equal(t, 0, s.linesJumped)
	typeText(s, "/")
	assert.Equal(t, 1, s.linesJumped)
	col, r := sc.Cursor()
	assert.Equal(t, 1, col)
	assert.Equal(t, row+1, r)

	press(s, KeyBackspace)
	col, _ = sc.Cursor()
	assert.Equal(t, 0, col)

	press(s, KeyBackspace)
	assert.Equal(t, 0, s.linesJumped)
	col, r = sc.Cursor()
	assert.Equal(t, row, r)
	assert.Equal(t, 18, col)
	assert.Equal(t, prompt+"cat abou", sc.Line(row))

	press(s, KeyArrowRight)
	press(s, KeyArrowRight)
	col, r = sc.Cursor()
	assert.Equal(t, 0, col)
	assert.Equal(t, row+1, r)
	press(s, KeyArrowLeft)
	col, r = sc.Cursor()
	assert.Equal(t, 19, col)
	assert.Equal(t, row, r)
}

func TestWrappedCommandRuns(t *testing.T) {
	s, sc, _ := newSession(t, 20)

	run(s, "cat about/bio.txt")
	assert.Contains(t, sc.text(), "hi, I build things")
	assert.Equal(t, []string{"cat about/bio.txt"}, s.History().Entries())
}

func TestHistoryBrowsing(t *testing.T) {
	s, sc, _ := newSession(t, 80)

	run(s, "ls")
	run(s, "pwd")
	row := s.promptRow

	press(s, KeyArrowUp)
	assert.Equal(t, prompt+"pwd", sc.Line(row))
	press(s, KeyArrowUp)
	assert.Equal(t, prompt+"ls", sc.Line(row))
	press(s, KeyArrowUp)
	assert.Equal(t, prompt+"ls", sc.Line(row))
	press(s, KeyArrowDown)
	assert.Equal(t, prompt+"pwd", sc.Line(row))
	press(s, KeyArrowDown)
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(row))

	press(s, KeyArrowUp)
	press(s, KeyEnter)
	assert.Equal(t, []string{"ls", "pwd", "pwd"}, s.History().Entries())
}

func TestTabCompletion(t *testing.T) {
	s, sc, _ := newSession(t, 80)
	row := s.promptRow

	typeText(s, "c")
	press(s, KeyTab)
	assert.Equal(t, "cat  cd", sc.Line(row+1))
	assert.Equal(t, prompt+"c", sc.Line(row+2))
	assert.Equal(t, row+2, s.promptRow)

	typeText(s, "d pro")
	press(s, KeyTab)
	assert.Equal(t, prompt+"cd projects", sc.Line(s.promptRow))

	press(s, KeyEnter)
	assert.Equal(t, "~/projects", s.FS().Pwd())
}

func TestTabListsEntries(t *testing.T) {
	s, sc, _ := newSession(t, 80)
	row := s.promptRow

	typeText(s, "cd ")
	press(s, KeyTab)
	assert.Equal(t, "about  projects  contact", sc.Line(row+1))
	assert.Equal(t, prompt+"cd", sc.Line(row+2))

	typeText(s, "a")
	assert.Equal(t, prompt+"cd a", sc.Line(row+2))
}

func TestTabIgnoresLeadingSpaces(t *testing.T) {
	s, sc, _ := newSession(t, 80)
	row := s.promptRow

	typeText(s, "  ca")
	press(s, KeyTab)
	assert.Equal(t, prompt+"  cat", sc.Line(row))
	assert.Equal(t, row, s.promptRow)
}

func TestCaptureRoundTrip(t *testing.T) {
	s, sc, _ := newSession(t, 80)

	run(s, "cat > notes.txt")
	require.IsType(t, &Capture{}, s.Mode())
	assert.False(t, s.Ready())

	typeText(s, "x")
	press(s, KeyEnter)
	typeText(s, "yy")
	press(s, KeyBackspace)
	press(s, KeyEnter)
	press(s, KeyArrowUp)
	ctrl(s, "d")

	assert.Equal(t, Normal{}, s.Mode())
	assert.True(t, s.Ready())
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(s.promptRow))

	body, err := s.FS().Read("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "x\r\ny", body)

	run(s, "cat >> notes.txt")
	typeText(s, "z")
	press(s, KeyEnter)
	ctrl(s, "d")

	raw, ok := s.FS().Raw("notes.txt")
	require.True(t, ok)
	assert.Equal(t, "x\ny\nz", raw)
}

func TestCaptureStartsOnNextRow(t *testing.T) {
	s, sc, _ := newSession(t, 80)
	row := s.promptRow

	run(s, "cat > notes.txt")
	col, cur := sc.Cursor()
	assert.Equal(t, 0, col)
	assert.Equal(t, row+1, cur)

	typeText(s, "first")
	assert.Equal(t, "first", sc.Line(row+1))
	press(s, KeyEnter)
	ctrl(s, "d")

	body, err := s.FS().Read("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", body)
}

func TestGameMode(t *testing.T) {
	var events []string
	s, sc, _ := newSession(t, 80, func(o *Options) {
		o.Hooks.Game = func(e string) { events = append(events, e) }
	})

	run(s, "sudo space-adventure")
	p, ok := s.Mode().(*Playing)
	require.True(t, ok)
	assert.Equal(t, ModeGame, s.ModeName())

	press(s, KeyArrowLeft)
	s.HandleKey(Key{Key: " ", Name: " "})
	press(s, KeyEnter)
	s.Tick()
	assert.Contains(t, sc.writes[len(sc.writes)-1], "SCORE: 0")
	assert.Equal(t, 0, p.Game.Score())

	ctrl(s, "d")
	assert.Equal(t, Normal{}, s.Mode())
	assert.True(t, s.Ready())
	assert.Equal(t, 1, s.promptRow)
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(1))
	assert.Equal(t, []string{"started", "finished"}, events)
	assert.Empty(t, s.History().Entries()[1:], "keys during the game are not commands")
}

func TestCtrlC(t *testing.T) {
	s, sc, _ := newSession(t, 80)
	row := s.promptRow

	typeText(s, "nope")
	ctrl(s, "c")
	assert.Equal(t, prompt+"nope^C", sc.Line(row))
	assert.Equal(t, row+1, s.promptRow)
	assert.Empty(t, s.History().Entries())
}

func TestIntro(t *testing.T) {
	s, sc, _ := newSession(t, 80, func(o *Options) { o.SkipIntro = false })

	assert.Equal(t, ModeIntro, s.ModeName())
	assert.False(t, s.Ready())

	typeText(s, "ls")
	assert.Empty(t, strings.TrimSpace(sc.text()))

	for i := 0; i < 5; i++ {
		_, more := s.StepIntro()
		require.True(t, more)
	}

	press(s, KeyEnter)
	assert.True(t, s.Ready())
	assert.Equal(t, ModeNormal, s.ModeName())
	assert.Contains(t, sc.text(), "hello there")
	assert.Contains(t, sc.text(), "Projects")
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(s.promptRow))
	assert.Empty(t, s.History().Entries())

	_, more := s.StepIntro()
	assert.False(t, more)
}

func TestIntroRunsToCompletion(t *testing.T) {
	s, sc, _ := newSession(t, 80, func(o *Options) { o.SkipIntro = false })

	steps := 0
	for {
		_, more := s.StepIntro()
		if !more {
			break
		}
		steps++
	}
	assert.Greater(t, steps, 10)
	assert.True(t, s.Ready())
	assert.Equal(t, strings.TrimSpace(prompt), sc.Line(s.promptRow))
}

func TestLinks(t *testing.T) {
	s, sc, client := newSession(t, 80)

	run(s, "cat contact/socials.txt")
	row := s.promptRow - 2
	require.Equal(t, "GitHub", sc.Line(row))

	s.Handle(LinksEvent{Row: row})
	require.Len(t, client.links[row], 1)
	assert.Equal(t, 0, client.links[row][0].Start)
	assert.Equal(t, 6, client.links[row][0].End)

	s.Handle(LinksEvent{Row: s.promptRow - 3})
	assert.Empty(t, client.links[s.promptRow-3], "prompt rows carry no links")

	s.Handle(ActivateEvent{Row: row, Col: 3})
	assert.Equal(t, []string{"https://github.com/me"}, client.opened)

	typeText(s, "About")
	s.Handle(ActivateEvent{Row: s.promptRow, Col: len(prompt) + 1})
	assert.NotContains(t, sc.text(), "all about me", "the input line is never a link")

	ctrl(s, "c")
	sc.Write("\r\nAbout")
	s.Handle(ActivateEvent{Row: s.promptRow + 1, Col: 2})
	assert.Contains(t, sc.text(), "all about me")
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	sc := newScreen(80, 24)
	s := New(sc, Options{
		Content:   testContent(t),
		CharDelay: time.Microsecond,
		LineDelay: time.Microsecond,
		GameTick:  time.Millisecond,
	})

	events := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), events) }()

	send := func(k Key) { events <- KeyEvent{Key: k} }
	send(Key{Name: KeyEnter})
	for _, r := range "pwd" {
		send(Key{Key: string(r), Name: string(r)})
	}
	send(Key{Name: KeyEnter})
	events <- ResizeEvent{Cols: 100, Rows: 30}
	close(events)

	require.NoError(t, <-done)
	assert.Equal(t, []string{"pwd"}, s.History().Entries())
	cols, rows := sc.Size()
	assert.Equal(t, 100, cols)
	assert.Equal(t, 30, rows)
}

func TestRunStopsGameOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	var events []string
	sc := newScreen(80, 24)
	s := New(sc, Options{
		Content:   testContent(t),
		SkipIntro: true,
		GameTick:  time.Millisecond,
		Hooks:     Hooks{Game: func(e string) { events = append(events, e) }},
	})

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, in) }()

	for _, r := range "sudo space-adventure" {
		in <- KeyEvent{Key: Key{Key: string(r), Name: string(r)}}
	}
	in <- KeyEvent{Key: Key{Name: KeyEnter}}
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []string{"started", "stopped"}, events)
	assert.Contains(t, strings.Join(sc.writes, ""), "SCORE")
}

func TestModeHook(t *testing.T) {
	var modes []string
	s, _, _ := newSession(t, 80, func(o *Options) {
		o.Hooks.Mode = func(m string) { modes = append(modes, m) }
	})

	for _, r := range "cat > f.txt" {
		s.Handle(KeyEvent{Key: Key{Key: string(r), Name: string(r)}})
	}
	s.Handle(KeyEvent{Key: Key{Name: KeyEnter}})
	s.Handle(KeyEvent{Key: Key{Key: "d", Name: "d", Ctrl: true}})

	assert.Equal(t, []string{ModeNormal, ModeCapture, ModeNormal}, modes)
}
