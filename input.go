package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds polled pointer and key state for the current frame.
type Input struct {
	// CursorX/Y are the cursor position in layout coordinates (pixels).
	CursorX float64
	CursorY float64
	// LeftHeld is true while the left mouse button is down.
	LeftHeld bool
	// LeftPressed is true on the frame the left button went down.
	LeftPressed bool
	// LeftReleased is true on the frame the left button came up.
	LeftReleased bool
	// RightPressed is true on the frame the right button went down.
	RightPressed bool

	// ToggleDebug is true on the frame the debug key (F1) was pressed.
	ToggleDebug bool
	// ToggleMute is true on the frame the mute key (M) was pressed.
	ToggleMute bool
	// TogglePanel is true on the frame the panel key (Tab) was pressed.
	TogglePanel bool
	// ResetScene is true on the frame the reset key (R) was pressed.
	ResetScene bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the mouse and hotkeys for this frame.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	mx, my := ebiten.CursorPosition()
	i.CursorX = float64(mx)
	i.CursorY = float64(my)

	i.LeftHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	i.LeftPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	i.LeftReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	i.RightPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	i.ToggleDebug = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.ToggleMute = inpututil.IsKeyJustPressed(ebiten.KeyM)
	i.TogglePanel = inpututil.IsKeyJustPressed(ebiten.KeyTab)
	i.ResetScene = inpututil.IsKeyJustPressed(ebiten.KeyR)
}
