// Package event defines the input events the scene reacts to, independent of
// the windowing library that produced them.
package event

// Type identifies an event.
type Type int

const (
	TypeNone Type = iota
	TypeQuit
	TypeResize
	TypeKeyPress
	TypeDrag
	TypeScroll
	TypeClick
)

func (t Type) String() string {
	switch t {
	case TypeQuit:
		return "quit"
	case TypeResize:
		return "resize"
	case TypeKeyPress:
		return "key"
	case TypeDrag:
		return "drag"
	case TypeScroll:
		return "scroll"
	case TypeClick:
		return "click"
	default:
		return "none"
	}
}

// Key is a logical key symbol.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyC
	KeyF
	KeyF12
)

// Button is a bit set of mouse buttons.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonMiddle
	ButtonRight
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Event is one input notification. Screen coordinates are pixels with the
// origin at the bottom-left corner of the window and y growing upwards.
type Event struct {
	Type Type

	// Pointer position (drag, scroll, click).
	X, Y float64
	// Pointer motion for drag, wheel ticks for scroll.
	DX, DY float64

	Buttons Button
	Key     Key
	Mods    Modifier

	// New window size (resize).
	Width, Height int
}

// Drag builds a drag event.
func Drag(x, y, dx, dy float64, buttons Button, mods Modifier) Event {
	return Event{Type: TypeDrag, X: x, Y: y, DX: dx, DY: dy, Buttons: buttons, Mods: mods}
}

// Scroll builds a wheel event.
func Scroll(x, y, dx, dy float64) Event {
	return Event{Type: TypeScroll, X: x, Y: y, DX: dx, DY: dy}
}

// KeyPress builds a key event.
func KeyPress(key Key, mods Modifier) Event {
	return Event{Type: TypeKeyPress, Key: key, Mods: mods}
}

// Resize builds a window resize event.
func Resize(width, height int) Event {
	return Event{Type: TypeResize, Width: width, Height: height}
}

// Click builds a click event: a press and release without dragging.
func Click(x, y float64, button Button) Event {
	return Event{Type: TypeClick, X: x, Y: y, Buttons: button}
}
