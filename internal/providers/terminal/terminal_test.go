package terminal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/shell"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/id"
)

type staticSource struct{ c *content.Content }

func (s staticSource) Current() *content.Content { return s.c }

type recorder struct {
	mu     sync.Mutex
	output strings.Builder
	opened []string
}

func (r *recorder) Output(data string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output.WriteString(data)
	return nil
}

func (r *recorder) Open(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return nil
}

func (r *recorder) Links(int, []links.Link) error { return nil }

func (r *recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output.String()
}

func TestScreenColored(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain", "x", false},
		{"standard", "\x1b[32mx", true},
		{"palette", "\x1b[38;5;200mx", true},
		{"truecolor", "\x1b[38;2;1;2;3mx", true},
		{"reset", "\x1b[31m\x1b[39mx", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(20, 4, 10, func(string) {})
			s.Write(tt.input)
			assert.Equal(t, tt.want, s.Colored(0, 0))
		})
	}
}

func TestScreen(t *testing.T) {
	var forwarded strings.Builder
	s := NewScreen(40, 10, 100, func(d string) { forwarded.WriteString(d) })

	s.Write("hello\r\n\x1b[31mred\x1b[0m plain")
	assert.Equal(t, "hello", s.Line(0))
	assert.Equal(t, "red plain", s.Line(1))
	col, row := s.Cursor()
	assert.Equal(t, 9, col)
	assert.Equal(t, 1, row)

	assert.True(t, s.Colored(0, 1))
	assert.False(t, s.Colored(5, 1))
	assert.Equal(t, "hello\r\n\x1b[31mred\x1b[0m plain", forwarded.String())

	s.Clear()
	assert.Equal(t, "", s.Line(0))

	s.Resize(60, 20)
	cols, rows := s.Size()
	assert.Equal(t, 60, cols)
	assert.Equal(t, 20, rows)
	assert.Equal(t, "", s.Line(-1))
}

func TestScreenRegistersOneProvider(t *testing.T) {
	s := NewScreen(40, 10, 0, nil)
	first := links.NewProvider(links.NewRegistry(nil), s, "")

	assert.True(t, s.RegisterLinkProvider(first))
	assert.False(t, s.RegisterLinkProvider(links.NewProvider(links.NewRegistry(nil), s, "")))
	assert.Same(t, first, s.LinkProvider())
}

func sendLine(t *testing.T, sess *Session, line string) {
	t.Helper()
	ctx := context.Background()
	for _, r := range line {
		require.NoError(t, sess.Send(ctx, shell.KeyEvent{Key: shell.Key{Key: string(r), Name: string(r)}}))
	}
	require.NoError(t, sess.Send(ctx, shell.KeyEvent{Key: shell.Key{Name: shell.KeyEnter}}))
}

func TestManagerLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := storage.New(storage.NewMemoryBackend())
	m := NewManager(Config{MaxSessions: 1}, staticSource{content.Default()}, store, nil, nil)

	client := &recorder{}
	sess, err := m.Create(context.Background(), CreateRequest{ClientID: "visitor", Cols: 100, Rows: 30, SkipIntro: true}, client)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	_, err = m.Create(context.Background(), CreateRequest{SkipIntro: true}, &recorder{})
	assert.ErrorIs(t, err, ErrTooManySessions)

	sendLine(t, sess, "echo hi > note.txt")
	sendLine(t, sess, "pwd")
	assert.Eventually(t, func() bool {
		return strings.Contains(client.String(), "\r\n~\r\n")
	}, 2*time.Second, 5*time.Millisecond)

	infos := m.ListSessions()
	require.Len(t, infos, 1)
	assert.Equal(t, "visitor", infos[0].ClientID)
	assert.Equal(t, 100, infos[0].Cols)
	assert.Equal(t, shell.ModeNormal, infos[0].Mode)
	assert.True(t, infos[0].Active)

	require.NoError(t, m.Kill(sess.ID))
	assert.Equal(t, 0, m.Count())
	assert.ErrorIs(t, m.Kill(sess.ID), ErrSessionNotFound)
	assert.ErrorIs(t, sess.Send(context.Background(), shell.LinksEvent{}), ErrSessionClosed)

	var files map[string]string
	require.NoError(t, store.Get(context.Background(), "visitor", vfs.OverlayKey, &files))
	assert.Equal(t, "hi", files["/note.txt"])
}

func TestManagerLimitHoldsUnderConcurrentCreate(t *testing.T) {
	defer goleak.VerifyNone(t)

	const limit, callers = 3, 20
	m := NewManager(Config{MaxSessions: limit}, staticSource{content.Default()}, nil, nil, nil)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)
	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := m.Create(context.Background(), CreateRequest{SkipIntro: true}, &recorder{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrTooManySessions)
				rejected++
				return
			}
			created++
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, limit, created)
	assert.Equal(t, callers-limit, rejected)
	assert.Equal(t, limit, m.Count())
	assert.Len(t, m.ListSessions(), limit)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
	assert.Equal(t, 0, m.Count())
}

func TestManagerRestoresClientState(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := storage.New(storage.NewMemoryBackend())
	require.NoError(t, store.Set(context.Background(), "returning", vfs.OverlayKey, map[string]string{"/saved.txt": "kept"}))

	m := NewManager(Config{}, staticSource{content.Default()}, store, nil, nil)
	client := &recorder{}
	_, err := m.Create(context.Background(), CreateRequest{ClientID: "returning", SkipIntro: true}, client)
	require.NoError(t, err)
	require.Len(t, m.ListSessions(), 1)

	sess, ok := m.Get(id.SessionID(m.ListSessions()[0].ID))
	require.True(t, ok)
	sendLine(t, sess, "cat saved.txt")
	assert.Eventually(t, func() bool {
		return strings.Contains(client.String(), "kept")
	}, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
	assert.Equal(t, 0, m.Count())
}

func TestManagerSharesSnapshot(t *testing.T) {
	src := staticSource{content.Default()}
	m := NewManager(Config{}, src, nil, nil, nil)

	a, b := m.snapshot(), m.snapshot()
	assert.Same(t, a, b)
	assert.Same(t, src.c, a.content)
}
