package shell

import (
	"strconv"
	"strings"

	"github.com/GriffinCanCode/termfolio/backend/internal/domain/links"
)

// screen is a small grid emulator with xterm's pending-wrap behaviour,
// enough to read back what a session wrote.
type screen struct {
	cols, rows int
	grid       [][]rune
	x, y       int
	pending    bool

	writes   []string
	provider *links.Provider
	register int
}

func newScreen(cols, rows int) *screen {
	s := &screen{cols: cols, rows: rows}
	s.grid = make([][]rune, rows)
	for i := range s.grid {
		s.grid[i] = s.blank()
	}
	return s
}

func (s *screen) blank() []rune {
	return []rune(strings.Repeat(" ", s.cols))
}

func (s *screen) Write(data string) {
	s.writes = append(s.writes, data)
	rs := []rune(data)
	for i := 0; i < len(rs); i++ {
		switch r := rs[i]; {
		case r == 0x1b && i+1 < len(rs) && rs[i+1] == '[':
			j := i + 2
			for j < len(rs) && !(rs[j] >= 'A' && rs[j] <= 'Z' || rs[j] >= 'a' && rs[j] <= 'z') {
				j++
			}
			if j == len(rs) {
				return
			}
			s.csi(string(rs[i+2:j]), rs[j])
			i = j
		case r == '\r':
			s.x, s.pending = 0, false
		case r == '\n':
			s.lf()
		case r == '\b':
			s.pending = false
			s.x = max(0, s.x-1)
		default:
			s.put(r)
		}
	}
}

func (s *screen) put(r rune) {
	if s.pending {
		s.x, s.pending = 0, false
		s.lf()
	}
	s.grid[s.y][s.x] = r
	if s.x == s.cols-1 {
		s.pending = true
		return
	}
	s.x++
}

func (s *screen) lf() {
	s.y++
	if s.y == s.rows {
		s.grid = append(s.grid[1:], s.blank())
		s.y = s.rows - 1
	}
}

func (s *screen) csi(params string, final rune) {
	n := func(i, def int) int {
		parts := strings.Split(params, ";")
		if i >= len(parts) {
			return def
		}
		v, err := strconv.Atoi(parts[i])
		if err != nil || v == 0 {
			return def
		}
		return v
	}

	s.pending = false
	switch final {
	case 'A':
		s.y = max(0, s.y-n(0, 1))
	case 'B':
		s.y = min(s.rows-1, s.y+n(0, 1))
	case 'C':
		s.x = min(s.cols-1, s.x+n(0, 1))
	case 'D':
		s.x = max(0, s.x-n(0, 1))
	case 'H':
		s.y = min(s.rows-1, n(0, 1)-1)
		s.x = min(s.cols-1, n(1, 1)-1)
	case 'J':
		from := s.y
		if params == "2" {
			from = 0
		} else {
			for x := s.x; x < s.cols; x++ {
				s.grid[s.y][x] = ' '
			}
			from = s.y + 1
		}
		for y := from; y < s.rows; y++ {
			s.grid[y] = s.blank()
		}
	case 'K':
		if params == "2" {
			s.grid[s.y] = s.blank()
		}
	}
}

func (s *screen) Cursor() (int, int) { return s.x, s.y }

func (s *screen) Line(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.grid[row]), " ")
}

func (s *screen) Colored(int, int) bool { return false }

func (s *screen) Size() (int, int) { return s.cols, s.rows }

func (s *screen) Resize(cols, rows int) {
	next := newScreen(cols, rows)
	for y := 0; y < min(rows, s.rows); y++ {
		copy(next.grid[y], s.grid[y])
	}
	s.cols, s.rows, s.grid = cols, rows, next.grid
	s.x, s.y = min(s.x, cols-1), min(s.y, rows-1)
}

func (s *screen) Clear() { s.Write("\x1b[2J\x1b[H") }

func (s *screen) RegisterLinkProvider(p *links.Provider) bool {
	s.register++
	if s.provider != nil {
		return false
	}
	s.provider = p
	return true
}

// text is the whole screen, one trimmed line per row.
func (s *screen) text() string {
	lines := make([]string, s.rows)
	for i := range lines {
		lines[i] = s.Line(i)
	}
	return strings.Join(lines, "\n")
}
