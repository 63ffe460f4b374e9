package shell

import "github.com/GriffinCanCode/termfolio/backend/internal/domain/arcade"

// Mode is exactly one of Normal, Capture or Playing.
type Mode interface {
	Name() string
	mode()
}

// Normal is line editing at a prompt.
type Normal struct{}

// Capture collects typed lines for cat > and cat >>.
type Capture struct {
	File   string
	Append bool
	Lines  []string
}

// Playing hands keystrokes to a running game.
type Playing struct {
	Game *arcade.Game
}

// Mode names, also used as metric labels.
const (
	ModeIntro   = "intro"
	ModeNormal  = "normal"
	ModeCapture = "capture"
	ModeGame    = "game"
)

func (Normal) Name() string   { return ModeNormal }
func (*Capture) Name() string { return ModeCapture }
func (*Playing) Name() string { return ModeGame }

func (Normal) mode()   {}
func (*Capture) mode() {}
func (*Playing) mode() {}
