// Package input tracks the per-frame state of the buttons a frame
// renderer can poll, along with the mouse position.
package input

import "fmt"

// ButtonState holds the sampled state of one button for the current and
// the previous frame.
type ButtonState struct {
	prev bool
	curr bool
}

// IsPressed is true while the button is held.
func (b ButtonState) IsPressed() bool { return b.curr }

// JustPressed is true only on the frame the button went down.
func (b ButtonState) JustPressed() bool { return !b.prev && b.curr }

// JustReleased is true only on the frame the button went up.
func (b ButtonState) JustReleased() bool { return b.prev && !b.curr }

func (b *ButtonState) update(curr bool) {
	b.prev = b.curr
	b.curr = curr
}

// Button identifies one of the tracked inputs.
type Button int

const (
	MouseLeft Button = iota
	MouseRight
	KeyLeft
	KeyRight
	KeyUp
	KeyDown

	buttonCount
)

var buttonNames = [buttonCount]string{
	MouseLeft:  "mouse_left",
	MouseRight: "mouse_right",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyUp:      "up",
	KeyDown:    "down",
}

func (b Button) String() string {
	if b < 0 || b >= buttonCount {
		return fmt.Sprintf("Button(%d)", int(b))
	}
	return buttonNames[b]
}

// ParseButton maps a button name as returned by String back to a Button.
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}

// Buttons lists every tracked button in declaration order.
func Buttons() []Button {
	out := make([]Button, 0, buttonCount)
	for b := Button(0); b < buttonCount; b++ {
		out = append(out, b)
	}
	return out
}

type Mouse struct {
	X, Y  int
	Left  ButtonState
	Right ButtonState
}

type Keyboard struct {
	Left  ButtonState
	Right ButtonState
	Up    ButtonState
	Down  ButtonState
}

// Sample is the raw "is it down right now" reading for every tracked
// button, taken once per frame.
type Sample struct {
	MouseLeft  bool
	MouseRight bool
	Left       bool
	Right      bool
	Up         bool
	Down       bool
}

// State is the input snapshot handed to the renderer each frame.
type State struct {
	Mouse    Mouse
	Keyboard Keyboard
}

// UpdateButtons shifts every button's current state into its previous
// state and stores the new sample. It must run exactly once per frame so
// edges are measured between frames.
func (s *State) UpdateButtons(raw Sample) {
	s.Mouse.Left.update(raw.MouseLeft)
	s.Mouse.Right.update(raw.MouseRight)
	s.Keyboard.Left.update(raw.Left)
	s.Keyboard.Right.update(raw.Right)
	s.Keyboard.Up.update(raw.Up)
	s.Keyboard.Down.update(raw.Down)
}

// SetMousePosition overwrites the mouse position. It may be called any
// number of times between frames; the last call wins.
func (s *State) SetMousePosition(x, y int) {
	s.Mouse.X = x
	s.Mouse.Y = y
}

// Button returns the state of b. Unknown buttons report as released.
func (s *State) Button(b Button) ButtonState {
	switch b {
	case MouseLeft:
		return s.Mouse.Left
	case MouseRight:
		return s.Mouse.Right
	case KeyLeft:
		return s.Keyboard.Left
	case KeyRight:
		return s.Keyboard.Right
	case KeyUp:
		return s.Keyboard.Up
	case KeyDown:
		return s.Keyboard.Down
	}
	return ButtonState{}
}

func (s *State) IsPressed(b Button) bool    { return s.Button(b).IsPressed() }
func (s *State) JustPressed(b Button) bool  { return s.Button(b).JustPressed() }
func (s *State) JustReleased(b Button) bool { return s.Button(b).JustReleased() }
