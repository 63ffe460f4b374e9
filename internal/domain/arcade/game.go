// Package arcade is a small space-invaders game played inside the terminal.
// The owner drives it with a fixed-interval ticker; every tick returns a
// complete frame.
package arcade

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/GriffinCanCode/termfolio/backend/internal/shared/ansi"
)

const (
	invaderRows    = 3
	invaderCols    = 6
	invaderGlyph   = "-(o)-"
	invaderSpacing = 3
	playerGlyph    = "/_^_\\"
	gameOverText   = "--- GAME OVER ---"

	startThreshold = 10
	// MinThreshold is the fastest invader cadence, in ticks per step.
	MinThreshold = 2
	points       = 10
)

const (
	scoreColor    = "\x1b[1;36m"
	invaderColor  = "\x1b[1;35m"
	playerColor   = "\x1b[1;32m"
	gameOverColor = "\x1b[1;31m"
)

var shotColors = []string{
	"\x1b[1;31m",
	"\x1b[1;33m",
	"\x1b[1;34m",
	"\x1b[1;35m",
	"\x1b[1;36m",
	"\x1b[1;37m",
}

// Input keys.
const (
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
	KeyFire  = " "
)

type invader struct{ x, y int }

type shot struct {
	x, y  int
	color string
}

// Game is the mutable state of one play.
type Game struct {
	width, height int

	player    int
	shots     []shot
	invaders  []invader
	direction int
	counter   int
	threshold int

	score    int
	over     bool
	recorded bool

	scores *Scores
	rng    *rand.Rand
}

// New sets up a play-field of cols by rows cells. A nil rng uses a random
// seed.
func New(cols, rows int, scores *Scores, rng *rand.Rand) *Game {
	if scores == nil {
		scores = &Scores{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &Game{
		width:     cols,
		height:    rows,
		player:    cols / 2,
		direction: 1,
		threshold: startThreshold,
		scores:    scores,
		rng:       rng,
	}
	g.spawn()
	return g
}

// Start clears the screen and hides the cursor.
func (g *Game) Start() string {
	return ansi.ClearScreen + ansi.Home + ansi.HideCursor
}

// Stop ends the play, recording the score if it has not been, and restores
// the cursor.
func (g *Game) Stop() string {
	g.record()
	return ansi.ShowCursor + ansi.ClearScreen + ansi.Home
}

// Input applies a key. Keys are ignored once the game is over.
func (g *Game) Input(key string) {
	if g.over {
		return
	}
	switch key {
	case KeyLeft:
		g.player = max(3, g.player-2)
	case KeyRight:
		g.player = min(g.width-3, g.player+2)
	case KeyFire:
		g.shots = append(g.shots, shot{
			x:     g.player,
			y:     g.height - 2,
			color: shotColors[g.rng.IntN(len(shotColors))],
		})
	}
}

// Tick advances one step and returns the frame to draw.
func (g *Game) Tick() string {
	if g.over {
		return g.drawGameOver()
	}
	g.update()
	return g.draw()
}

// Over reports whether an invader has reached the player's row.
func (g *Game) Over() bool { return g.over }

// Score is the current score.
func (g *Game) Score() int { return g.score }

// High is the best of the stored high score and the live score.
func (g *Game) High() int { return max(g.score, g.scores.Best()) }

// Invaders is the number of invaders left.
func (g *Game) Invaders() int { return len(g.invaders) }

// Threshold is the current number of ticks between invader steps.
func (g *Game) Threshold() int { return g.threshold }

func (g *Game) spawn() {
	g.invaders = g.invaders[:0]
	startX := max(1, (g.width-invaderCols*(len(invaderGlyph)+invaderSpacing))/2)
	for r := 0; r < invaderRows; r++ {
		for c := 0; c < invaderCols; c++ {
			g.invaders = append(g.invaders, invader{
				x: startX + c*(len(invaderGlyph)+invaderSpacing),
				y: r + 3,
			})
		}
	}
}

func (g *Game) update() {
	live := g.shots[:0]
	for _, s := range g.shots {
		s.y--
		if s.y >= 0 {
			live = append(live, s)
		}
	}
	g.shots = live

	g.counter++
	if g.counter >= g.threshold {
		g.counter = 0
		g.advance()
	}

	g.collide()

	if len(g.invaders) == 0 {
		g.spawn()
		g.threshold = max(MinThreshold, g.threshold-2)
	}

	for _, a := range g.invaders {
		if a.y >= g.height-2 {
			g.over = true
			g.record()
			return
		}
	}
}

func (g *Game) advance() {
	edge := false
	for _, a := range g.invaders {
		if (g.direction == 1 && a.x >= g.width-7) || (g.direction == -1 && a.x <= 2) {
			edge = true
			break
		}
	}

	for i := range g.invaders {
		if edge {
			g.invaders[i].y++
		} else {
			g.invaders[i].x += g.direction
		}
	}
	if edge {
		g.direction = -g.direction
		g.threshold = max(MinThreshold, g.threshold-1)
	}
}

// collide removes every hit invader and shot. A tick that scores submits
// the new score so a dropped session keeps its best.
func (g *Game) collide() {
	scored := false
	for i := len(g.shots) - 1; i >= 0; i-- {
		s := g.shots[i]
		for j := len(g.invaders) - 1; j >= 0; j-- {
			a := g.invaders[j]
			if s.y == a.y && s.x >= a.x && s.x < a.x+len(invaderGlyph) {
				g.invaders = append(g.invaders[:j], g.invaders[j+1:]...)
				g.shots = append(g.shots[:i], g.shots[i+1:]...)
				g.score += points
				scored = true
				break
			}
		}
	}
	if scored {
		g.scores.Submit(g.score)
	}
}

func (g *Game) record() {
	if g.recorded {
		return
	}
	g.recorded = true
	g.scores.Submit(g.score)
}

func (g *Game) draw() string {
	var b strings.Builder
	b.WriteString(ansi.ClearScreen)
	fmt.Fprintf(&b, "%s%sSCORE: %d   HIGH: %d%s", ansi.MoveTo(1, 1), scoreColor, g.score, g.High(), ansi.Reset)

	b.WriteString(invaderColor)
	for _, a := range g.invaders {
		b.WriteString(ansi.MoveTo(a.y, a.x) + invaderGlyph)
	}
	b.WriteString(ansi.Reset)

	for _, s := range g.shots {
		b.WriteString(s.color + ansi.MoveTo(s.y, s.x) + "!" + ansi.Reset)
	}

	b.WriteString(ansi.MoveTo(g.height-1, g.player-2) + playerColor + playerGlyph + ansi.Reset)
	return b.String()
}

func (g *Game) drawGameOver() string {
	cy := g.height / 2
	return ansi.ClearScreen +
		ansi.MoveTo(cy, (g.width-len(gameOverText))/2) + gameOverColor + gameOverText + ansi.Reset +
		ansi.MoveTo(cy+2, (g.width-15)/2) + fmt.Sprintf("Score: %d", g.score)
}
