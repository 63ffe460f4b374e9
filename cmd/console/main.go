package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/shell"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/terminal"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/id"
)

var errQuit = errors.New("quit")

type options struct {
	content   string
	storage   string
	client    string
	logFile   string
	skipIntro bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "termfolio-console",
		Short:         "Run the portfolio shell in this terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.content, "content", os.Getenv("CONTENT_PATH"), "content file or directory (empty uses the built-in content)")
	flags.StringVar(&opts.storage, "storage", "", "where created files and scores are kept: a directory, or a .db file for SQLite (empty keeps nothing)")
	flags.StringVar(&opts.client, "client", "console", "client id scoping the stored state")
	flags.StringVar(&opts.logFile, "log", "", "write logs to this file")
	flags.BoolVar(&opts.skipIntro, "skip-intro", false, "start at the prompt")
	return cmd
}

// storageFor picks a storage driver from the --storage value.
func storageFor(path string) (driver, location string) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		return "memory", ""
	case ext == ".db" || ext == ".sqlite":
		return "sqlite", path
	default:
		return "file", path
	}
}

func run(ctx context.Context, opts options) error {
	stdin, stdout := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	if !term.IsTerminal(stdin) {
		return errors.New("stdin is not a terminal")
	}
	if !id.ValidClientID(opts.client) {
		return fmt.Errorf("invalid client id %q", opts.client)
	}

	logger := logging.NewNop()
	if opts.logFile != "" {
		lc := logging.DevelopmentConfig()
		lc.OutputPaths = []string{opts.logFile}
		l, err := logging.New(lc)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	source, err := content.NewSource(opts.content, logger.Component("content"))
	if err != nil {
		return err
	}
	store, err := storage.Open(storageFor(opts.storage))
	if err != nil {
		return err
	}
	defer store.Close()
	store.OnError = func(op string, err error) {
		logger.Warn("storage operation failed", zap.String("op", op), zap.Error(err))
	}

	cols, rows, err := term.GetSize(stdout)
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	defaults := config.Default().Terminal
	manager := terminal.NewManager(terminal.Config{
		Scrollback: defaults.Scrollback,
		CharDelay:  defaults.CharDelay,
		LineDelay:  defaults.LineDelay,
		GameTick:   defaults.GameTick,
	}, source, store, nil, logger)

	state, err := term.MakeRaw(stdin)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer func() { _ = term.Restore(stdin, state) }()

	sess, err := manager.Create(ctx, terminal.CreateRequest{
		ClientID:  id.ClientID(opts.client),
		Cols:      cols,
		Rows:      rows,
		SkipIntro: opts.skipIntro,
	}, &console{out: os.Stdout})
	if err != nil {
		return err
	}
	defer func() {
		sess.Close()
		_, _ = io.WriteString(os.Stdout, "\r\n")
	}()

	keys := make(chan shell.Key, 64)
	go pump(os.Stdin, keys)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return forward(ctx, sess, keys) })
	g.Go(func() error { return resize(ctx, sess, stdout) })
	g.Go(func() error {
		select {
		case <-sess.Done():
			return errQuit
		case <-ctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

// pump decodes stdin until it fails. It is never joined: a blocked read
// cannot be interrupted, and the process exits around it.
func pump(r io.Reader, keys chan<- shell.Key) {
	defer close(keys)
	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			var decoded []shell.Key
			decoded, pending = decodeKeys(append(pending, buf[:n]...))
			for _, k := range decoded {
				keys <- k
			}
		}
		if err != nil {
			return
		}
	}
}

// forward sends keystrokes to the session. Ctrl-C at the prompt quits.
func forward(ctx context.Context, sess *terminal.Session, keys <-chan shell.Key) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				return errQuit
			}
			if k.Ctrl && k.Name == "c" && quittable(sess.Info().Mode) {
				return errQuit
			}
			if err := sess.Send(ctx, shell.KeyEvent{Key: k}); err != nil {
				return errQuit
			}
		}
	}
}

func quittable(mode string) bool {
	return mode == shell.ModeNormal || mode == shell.ModeIntro || mode == ""
}

func resize(ctx context.Context, sess *terminal.Session, fd int) error {
	signals := make(chan os.Signal, 1)
	notifyResize(signals)
	defer signal.Stop(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-signals:
			cols, rows, err := term.GetSize(fd)
			if err != nil {
				continue
			}
			if err := sess.Send(ctx, shell.ResizeEvent{Cols: cols, Rows: rows}); err != nil {
				return nil
			}
		}
	}
}

// console is the local terminal seen as a session client
type console struct {
	out io.Writer
}

func (c *console) Output(data string) error {
	_, err := io.WriteString(c.out, data)
	return err
}

// Open prints the URL; there is no browser to hand it to.
func (c *console) Open(url string) error {
	_, err := fmt.Fprintf(c.out, "\r\n%s\r\n", url)
	return err
}

// Links is a no-op: a raw TTY has no pointer to hover links with.
func (c *console) Links(int, []links.Link) error { return nil }
