package shell

import (
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termfolio/backend/internal/domain/arcade"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/autocomplete"
	"github.com/GriffinCanCode/termfolio/backend/internal/domain/command"
	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

// HandleKey routes one keystroke according to the current mode. It runs to
// completion before the next key is looked at.
func (s *Session) HandleKey(k Key) {
	if s.opts.Hooks.Key != nil {
		s.opts.Hooks.Key(s.ModeName())
	}

	if s.intro != nil {
		if k.is(KeyEnter) {
			s.term.Write(s.intro.Cancel())
			s.finishIntro()
		}
		return
	}

	switch m := s.mode.(type) {
	case *Playing:
		s.gameKey(m, k)
	case *Capture:
		s.captureKey(m, k)
	default:
		s.normalKey(k)
	}
}

func (s *Session) normalKey(k Key) {
	if !s.ready {
		return
	}

	switch {
	case k.ctrl("c"):
		s.term.Write("^C")
		s.prompt()
	case k.is(KeyEnter):
		s.enter()
	case k.is(KeyArrowUp):
		s.browse(-1)
	case k.is(KeyArrowDown):
		s.browse(1)
	case k.is(KeyBackspace):
		s.backspace()
	case k.is(KeyTab):
		s.complete()
	case k.is(KeyArrowLeft):
		s.left()
	case k.is(KeyArrowRight):
		s.right()
	case k.Printable():
		s.insert(k.Key)
	}
}

// promptLen is the visible width of the prompt.
func (s *Session) promptLen() int {
	return ansi.Width(s.Prompt())
}

// editable reports whether the cell at col, row belongs to the input.
// Rows above the prompt are history; on the prompt row only the columns
// after the prompt are input; wrapped rows below are input throughout.
func (s *Session) editable(col, row int) bool {
	switch {
	case row < s.promptRow:
		return false
	case row > s.promptRow:
		return true
	default:
		return col >= s.promptLen()
	}
}

func (s *Session) insert(text string) {
	col, row := s.term.Cursor()
	if !s.editable(col, row) {
		return
	}
	s.term.Write(text)
	if _, after := s.term.Cursor(); after > row {
		s.linesJumped += after - row
	}
}

func (s *Session) backspace() {
	col, row := s.term.Cursor()
	switch {
	case row < s.promptRow:
	case col == 0 && row > s.promptRow:
		// erase the last cell of the row above and stay there
		s.term.Write(ansi.EndOfRowAbove + " " + ansi.CursorLeft)
		s.linesJumped--
	case row == s.promptRow:
		if col > s.promptLen() {
			s.term.Write(ansi.Erase)
		}
	default:
		s.term.Write(ansi.Erase)
	}
}

func (s *Session) left() {
	col, row := s.term.Cursor()
	switch {
	case row < s.promptRow:
	case col == 0 && row > s.promptRow:
		s.term.Write(ansi.EndOfRowAbove)
	case row == s.promptRow && col <= s.promptLen():
	default:
		s.term.Write(ansi.CursorLeft)
	}
}

func (s *Session) right() {
	col, row := s.term.Cursor()
	if row < s.promptRow {
		return
	}
	if cols, _ := s.term.Size(); col == cols-1 {
		s.term.Write(ansi.StartOfRowBelow)
		return
	}
	s.term.Write(ansi.CursorRight)
}

// input joins the rows from the prompt row to the cursor row and strips the
// prompt.
func (s *Session) input() string {
	_, row := s.term.Cursor()
	var b strings.Builder
	for r := s.promptRow; r <= row; r++ {
		b.WriteString(s.term.Line(r))
	}
	line := b.String()
	if rest, ok := strings.CutPrefix(line, s.Prompt()); ok {
		line = rest
	} else {
		line = strings.TrimPrefix(line, strings.TrimRight(s.Prompt(), " "))
	}
	return strings.TrimSpace(line)
}

func (s *Session) enter() {
	line := s.input()
	s.history.Record(line)
	s.term.Write(ansi.CRLF)

	res := s.dispatcher.Execute(line)
	switch res.Action {
	case command.ActionStartGame:
		s.startGame()
		return
	case command.ActionCapture:
		s.mode = &Capture{File: res.Capture.File, Append: res.Capture.Append, Lines: res.Capture.Lines}
		s.ready = false
		s.logger.Debug("capture started", zap.String("file", res.Capture.File), zap.Bool("append", res.Capture.Append))
		return
	case command.ActionClear:
		s.term.Clear()
	}

	if res.Output != "" {
		s.term.Write(ansi.Lines(res.Output))
	}
	s.registerLinks()
	s.prompt()
}

func (s *Session) browse(direction int) {
	if _, row := s.term.Cursor(); row != s.promptRow {
		return
	}
	line, ok := s.history.Step(direction)
	if !ok {
		return
	}
	s.term.Write(ansi.ClearBelow + ansi.ClearLine + "\r" + s.Prompt() + line)
}

func (s *Session) complete() {
	col, row := s.term.Cursor()
	text := []rune(s.term.Line(row))
	if col < len(text) {
		text = text[:col]
	}

	typed := string(text) + strings.Repeat(" ", max(0, col-len(text)))
	typed, _ = strings.CutPrefix(typed, s.Prompt())
	input := strings.TrimLeft(typed, " ")

	res := autocomplete.Complete(input, s.content.Commands.Vocabulary, s.fs.Names)
	switch res.Kind {
	case autocomplete.Completed:
		s.term.Write(res.Suffix)
	case autocomplete.List:
		s.term.Write(ansi.CRLF + strings.Join(res.Candidates, "  ") + ansi.CRLF + s.Prompt() + typed)
		s.arm()
	}
}

func (s *Session) captureKey(m *Capture, k Key) {
	switch {
	case k.ctrl("d"):
		s.fs.Write(m.File, strings.Join(m.Lines, "\n"), false)
		s.logger.Debug("capture saved", zap.String("file", m.File), zap.Int("lines", len(m.Lines)))
		s.mode = Normal{}
		s.prompt()
	case k.is(KeyEnter):
		_, row := s.term.Cursor()
		m.Lines = append(m.Lines, strings.TrimSpace(s.term.Line(row)))
		s.term.Write(ansi.CRLF)
	case k.is(KeyBackspace):
		if col, _ := s.term.Cursor(); col > 0 {
			s.term.Write(ansi.Erase)
		}
	case k.Printable():
		s.term.Write(k.Key)
	}
}

func (s *Session) startGame() {
	cols, rows := s.term.Size()
	g := arcade.New(cols, rows, s.opts.Scores, s.opts.Rand)
	s.mode = &Playing{Game: g}
	s.ready = false
	s.term.Write(g.Start())
	s.observeGame("started", 0)
}

func (s *Session) gameKey(m *Playing, k Key) {
	if k.ctrl("d") {
		score := m.Game.Score()
		s.term.Write(m.Game.Stop())
		s.mode = Normal{}
		s.observeGame("finished", score)
		s.term.Write(ansi.ClearScreen + ansi.Home)
		s.prompt()
		return
	}
	m.Game.Input(k.Name)
}
