package command

import (
	"errors"
	"strings"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// Action is a side effect the caller must apply after a command runs.
type Action int

const (
	ActionNone Action = iota
	ActionClear
	ActionStartGame
	ActionCapture
)

// Outcome labels a command result for metrics.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnknown     = "unknown"
	OutcomeUnsupported = "unsupported"
)

const (
	gameCommand    = "sudo space-adventure"
	missingOperand = "cat: missing file operand"
	touchUsage     = "Usage: touch <filename>"
	echoUsage      = "Usage: echo <text> > <filename>"
)

// Capture describes a file-capture request from cat > or cat >>.
type Capture struct {
	File   string
	Append bool
	Lines  []string
}

// Result is what a command line produced.
type Result struct {
	Output  string
	Action  Action
	Capture Capture
}

// Dispatcher executes command lines against one session's filesystem.
type Dispatcher struct {
	fs      *vfs.FS
	content *content.Content

	// OnCommand observes every executed sub-command.
	OnCommand func(name, outcome string)
}

// NewDispatcher binds a filesystem and the content texts.
func NewDispatcher(fs *vfs.FS, c *content.Content) *Dispatcher {
	return &Dispatcher{fs: fs, content: c}
}

// Execute runs a raw line. "|" separates sub-commands that run one after
// another; only the last one's output is returned. Nothing is piped. The
// first stage that switches mode (game or capture) decides the action, and
// a clear requested by any stage is kept otherwise.
func (d *Dispatcher) Execute(raw string) Result {
	var (
		output  string
		mode    *Result
		cleared bool
	)

	for _, part := range strings.Split(raw, "|") {
		res := d.execute(strings.TrimSpace(part))
		switch res.Action {
		case ActionClear:
			cleared = true
		case ActionStartGame, ActionCapture:
			if mode == nil {
				mode = &res
			}
		}
		output = res.Output
	}

	switch {
	case mode != nil:
		return *mode
	case cleared:
		return Result{Output: output, Action: ActionClear}
	default:
		return Result{Output: output}
	}
}

func (d *Dispatcher) execute(line string) Result {
	lower := strings.ToLower(line)

	switch {
	case lower == "":
		return Result{}
	case lower == "cls" || lower == "clear":
		d.observe(lower, OutcomeOK)
		return Result{Action: ActionClear}
	case lower == gameCommand:
		d.observe("sudo", OutcomeOK)
		return Result{Action: ActionStartGame}
	case strings.HasPrefix(lower, "cat >>"):
		return d.capture(strings.TrimSpace(line[len("cat >>"):]), true)
	case strings.HasPrefix(lower, "cat >"):
		return d.capture(strings.TrimSpace(line[len("cat >"):]), false)
	}

	cmd := Parse(line)
	switch cmd.Name {
	case "ls":
		long := cmd.Flags["l"] || strings.Contains(line, "-l")
		return d.ok("ls", d.fs.List(long, cmd.Arg(0)))
	case "cd":
		if err := d.fs.ChangeDirectory(cmd.Arg(0)); err != nil {
			return d.fail("cd", err)
		}
		return d.ok("cd", "")
	case "cat":
		if cmd.Arg(0) == "" {
			d.observe("cat", OutcomeError)
			return Result{Output: missingOperand}
		}
		body, err := d.fs.Read(cmd.Arg(0))
		if err != nil {
			return d.fail("cat", err)
		}
		return d.ok("cat", body)
	case "touch":
		if cmd.Arg(0) == "" {
			d.observe("touch", OutcomeError)
			return Result{Output: touchUsage}
		}
		if err := d.fs.Create(cmd.Arg(0)); err != nil {
			return d.fail("touch", err)
		}
		return d.ok("touch", "")
	case "echo":
		return d.echo(line)
	case "pwd":
		return d.ok("pwd", d.fs.Pwd())
	case "help":
		return d.ok("help", ansi.Lines(d.content.Visible.Help))
	case "whoami":
		return d.ok("whoami", d.content.Prompt.User)
	case "tree":
		return d.ok("tree", d.fs.Tree())
	case "about":
		if d.content.Visible.About != "" {
			return d.ok("about", ansi.Lines(d.content.Visible.About))
		}
	}

	if d.unsupported(lower) {
		d.observe(cmd.Name, OutcomeUnsupported)
		return Result{Output: ansi.Lines(d.content.Visible.Unsupported)}
	}
	d.observe("unknown", OutcomeUnknown)
	return Result{Output: ansi.Lines(d.content.Visible.Unknown)}
}

func (d *Dispatcher) capture(file string, appendMode bool) Result {
	if file == "" {
		d.observe("cat", OutcomeError)
		return Result{Output: missingOperand}
	}

	c := Capture{File: file, Append: appendMode}
	if appendMode {
		if body, ok := d.fs.Raw(file); ok {
			c.Lines = strings.Split(body, "\n")
		}
	}
	d.observe("cat", OutcomeOK)
	return Result{Action: ActionCapture, Capture: c}
}

// echo prints its text, or writes it with > and appends it with >>.
func (d *Dispatcher) echo(line string) Result {
	rest := strings.TrimSpace(line[len("echo"):])

	marker, appendMode := ">", false
	if strings.Contains(rest, ">>") {
		marker, appendMode = ">>", true
	}
	i := strings.Index(rest, marker)
	if i < 0 {
		return d.ok("echo", unquote(rest))
	}

	text, file := unquote(strings.TrimSpace(rest[:i])), strings.TrimSpace(rest[i+len(marker):])
	if file == "" {
		d.observe("echo", OutcomeError)
		return Result{Output: echoUsage}
	}
	if strings.Contains(file, "/") {
		return d.fail("echo", &vfs.PathError{Op: "echo", Path: file, Err: vfs.ErrSeparator})
	}
	d.fs.Write(file, text, appendMode)
	return d.ok("echo", "")
}

func (d *Dispatcher) unsupported(normalized string) bool {
	for _, u := range d.content.Commands.Unsupported {
		u = strings.ToLower(strings.TrimSpace(u))
		if u == "" {
			continue
		}
		if normalized == u || strings.HasPrefix(normalized, u+" ") {
			return true
		}
	}
	return false
}

func (d *Dispatcher) ok(name, output string) Result {
	d.observe(name, OutcomeOK)
	return Result{Output: output}
}

func (d *Dispatcher) fail(name string, err error) Result {
	d.observe(name, OutcomeError)
	var pathErr *vfs.PathError
	if errors.As(err, &pathErr) {
		return Result{Output: pathErr.Error()}
	}
	return Result{Output: err.Error()}
}

func (d *Dispatcher) observe(name, outcome string) {
	if d.OnCommand != nil {
		d.OnCommand(name, outcome)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
