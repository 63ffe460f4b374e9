package command

import (
	"testing"

	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
filesystem:
  docs:
    description: Documents
    files:
      readme.md: {content: "hello\nworld"}
  projects:
    files:
      app.md: {content: "app"}
visible:
  help: "line1\nline2"
  unknown: UNKNOWN
  unsupported: UNSUPPORTED
  about: about me
commands:
  unsupported: [sudo game, sudo, mkdir, rm]
prompt:
  user: guest@test
`

func newDispatcher(t *testing.T) (*Dispatcher, *vfs.FS) {
	t.Helper()
	c, err := content.Parse([]byte(doc), content.FormatYAML)
	require.NoError(t, err)
	fs := vfs.New(vfs.NewCatalog(c), vfs.NewOverlay())
	return NewDispatcher(fs, c), fs
}

func TestParse(t *testing.T) {
	tests := []struct {
		line  string
		name  string
		args  []string
		flags map[string]bool
	}{
		{"", "", nil, map[string]bool{}},
		{"LS -l", "ls", nil, map[string]bool{"l": true}},
		{"  cat   Notes.TXT  ", "cat", []string{"Notes.TXT"}, map[string]bool{}},
		{"ls -a --long docs", "ls", []string{"docs"}, map[string]bool{"a": true, "long": true}},
		{"cp a b", "cp", []string{"a", "b"}, map[string]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd := Parse(tt.line)
			assert.Equal(t, tt.name, cmd.Name)
			assert.Equal(t, tt.args, cmd.Args)
			assert.Equal(t, tt.flags, cmd.Flags)
		})
	}
}

func TestExecuteBuiltins(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"ls", "ls", "docs/ - Documents\r\nprojects/"},
		{"ls case insensitive", "LS", "docs/ - Documents\r\nprojects/"},
		{"pwd", "pwd", "~"},
		{"help", "help", "line1\r\nline2"},
		{"whoami", "whoami", "guest@test"},
		{"about", "about", "about me"},
		{"cat missing operand", "cat", "cat: missing file operand"},
		{"cat dir", "cat docs", "cat: docs: Is a directory"},
		{"cat missing", "cat nope", "cat: nope: No such file or directory"},
		{"cat path", "cat docs/readme.md", "hello\r\nworld"},
		{"cd missing", "cd nope", "cd: no such file or directory: nope"},
		{"unsupported exact", "sudo", "UNSUPPORTED"},
		{"unsupported prefix", "mkdir stuff", "UNSUPPORTED"},
		{"unsupported phrase", "sudo game", "UNSUPPORTED"},
		{"unknown", "vim", "UNKNOWN"},
		{"prefix needs a space", "rmdir x", "UNKNOWN"},
		{"echo prints", `echo "hi there"`, "hi there"},
		{"touch usage", "touch", "Usage: touch <filename>"},
		{"echo usage", "echo hi >", "Usage: echo <text> > <filename>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newDispatcher(t)
			res := d.Execute(tt.line)
			assert.Equal(t, tt.want, res.Output)
			assert.Equal(t, ActionNone, res.Action)
		})
	}
}

func TestExecuteIsRepeatableForReadOnlyCommands(t *testing.T) {
	d, _ := newDispatcher(t)
	for _, line := range []string{"ls", "ls -l", "pwd", "cat docs/readme.md", "help", "vim", "tree"} {
		assert.Equal(t, d.Execute(line), d.Execute(line), line)
	}
}

func TestExecuteModeSwitches(t *testing.T) {
	d, _ := newDispatcher(t)

	assert.Equal(t, Result{Action: ActionClear}, d.Execute("cls"))
	assert.Equal(t, Result{Action: ActionClear}, d.Execute("CLEAR"))
	assert.Equal(t, Result{Action: ActionStartGame}, d.Execute("sudo space-adventure"))

	res := d.Execute("cat > notes.txt")
	assert.Equal(t, ActionCapture, res.Action)
	assert.Equal(t, Capture{File: "notes.txt"}, res.Capture)

	res = d.Execute("cat >")
	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, "cat: missing file operand", res.Output)
}

func TestCaptureAppendPreloadsExistingLines(t *testing.T) {
	d, fs := newDispatcher(t)
	fs.Write("f", "x\ny", false)

	res := d.Execute("cat >> f")
	require.Equal(t, ActionCapture, res.Action)
	assert.Equal(t, Capture{File: "f", Append: true, Lines: []string{"x", "y"}}, res.Capture)

	res = d.Execute("cat >> new.txt")
	assert.Equal(t, Capture{File: "new.txt", Append: true}, res.Capture)
}

func TestTouchAndEcho(t *testing.T) {
	d, _ := newDispatcher(t)

	assert.Equal(t, "", d.Execute("touch f").Output)
	assert.Equal(t, "touch: f: File already exists", d.Execute("touch f").Output)
	assert.Equal(t, "touch: cannot create file with path separators", d.Execute("touch a/b").Output)

	d.Execute("echo first > log.txt")
	d.Execute("echo second >> log.txt")
	assert.Equal(t, "first\r\nsecond", d.Execute("cat log.txt").Output)

	d.Execute("echo 'replaced' > log.txt")
	assert.Equal(t, "replaced", d.Execute("cat log.txt").Output)
}

func TestChaining(t *testing.T) {
	d, fs := newDispatcher(t)

	res := d.Execute("cd docs | pwd")
	assert.Equal(t, "~/docs", res.Output)
	assert.Equal(t, []string{"docs"}, fs.Cwd())

	res = d.Execute("pwd | cd ..")
	assert.Equal(t, "", res.Output, "only the last stage's output surfaces")

	res = d.Execute("cls | ls")
	assert.Equal(t, ActionClear, res.Action)
	assert.Equal(t, "docs/ - Documents\r\nprojects/", res.Output)

	res = d.Execute("sudo space-adventure | ls")
	assert.Equal(t, ActionStartGame, res.Action)
}

func TestOnCommand(t *testing.T) {
	d, _ := newDispatcher(t)

	seen := map[string]string{}
	d.OnCommand = func(name, outcome string) { seen[name] = outcome }

	d.Execute("ls | cat nope | sudo | vim")
	assert.Equal(t, map[string]string{
		"ls":      OutcomeOK,
		"cat":     OutcomeError,
		"sudo":    OutcomeUnsupported,
		"unknown": OutcomeUnknown,
	}, seen)
}
