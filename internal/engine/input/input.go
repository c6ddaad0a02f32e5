// Package input turns SDL2 events into window-independent event values.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tilescene/internal/engine/event"
)

// Input polls SDL once per frame. Screen coordinates are flipped so the
// origin is the bottom-left corner and y grows upwards.
type Input struct {
	events []event.Event
	height int

	// pressed tracks buttons held since the last press without motion,
	// so a release can be reported as a click.
	pressed event.Button
	dragged bool
}

// New creates an input poller for a window of the given height.
func New(height int) *Input {
	return &Input{
		events: make([]event.Event, 0, 16),
		height: height,
	}
}

// Update polls SDL events and converts them. Returns true if the
// window was asked to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, event.Event{Type: event.TypeQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.height = int(e.Data2)
				i.events = append(i.events, event.Resize(int(e.Data1), int(e.Data2)))
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			key := mapKey(e.Keysym.Sym)
			if key == event.KeyUnknown {
				continue
			}
			i.events = append(i.events, event.KeyPress(key, mapMods(uint16(e.Keysym.Mod))))

		case *sdl.MouseMotionEvent:
			buttons := mapButtonState(uint32(e.State))
			if buttons == 0 {
				continue
			}
			i.dragged = true
			i.events = append(i.events, event.Drag(
				float64(e.X), i.flipY(e.Y),
				float64(e.XRel), -float64(e.YRel),
				buttons, mapMods(uint16(sdl.GetModState())),
			))

		case *sdl.MouseButtonEvent:
			b := mapButton(e.Button)
			if e.Type == sdl.MOUSEBUTTONDOWN {
				if i.pressed == 0 {
					i.dragged = false
				}
				i.pressed |= b
				continue
			}
			if i.pressed&b != 0 && !i.dragged {
				i.events = append(i.events, event.Click(float64(e.X), i.flipY(e.Y), b))
			}
			i.pressed &^= b

		case *sdl.MouseWheelEvent:
			if e.Y == 0 {
				continue
			}
			dy := float64(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			mx, my, _ := sdl.GetMouseState()
			i.events = append(i.events, event.Scroll(float64(mx), i.flipY(my), float64(e.X), dy))
		}
	}

	return quit
}

// Events returns the events from the last Update in arrival order.
func (i *Input) Events() []event.Event {
	return i.events
}

func (i *Input) flipY(y int32) float64 {
	return float64(i.height - int(y))
}

func mapKey(k sdl.Keycode) event.Key {
	switch k {
	case sdl.K_UP:
		return event.KeyUp
	case sdl.K_DOWN:
		return event.KeyDown
	case sdl.K_LEFT:
		return event.KeyLeft
	case sdl.K_RIGHT:
		return event.KeyRight
	case sdl.K_RETURN, sdl.K_KP_ENTER:
		return event.KeyEnter
	case sdl.K_ESCAPE:
		return event.KeyEscape
	case sdl.K_c:
		return event.KeyC
	case sdl.K_f:
		return event.KeyF
	case sdl.K_F12:
		return event.KeyF12
	}
	return event.KeyUnknown
}

func mapMods(m uint16) event.Modifier {
	var mods event.Modifier
	if m&uint16(sdl.KMOD_SHIFT) != 0 {
		mods |= event.ModShift
	}
	if m&uint16(sdl.KMOD_CTRL) != 0 {
		mods |= event.ModCtrl
	}
	if m&uint16(sdl.KMOD_ALT) != 0 {
		mods |= event.ModAlt
	}
	return mods
}

func mapButton(b uint8) event.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return event.ButtonLeft
	case sdl.BUTTON_MIDDLE:
		return event.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return event.ButtonRight
	}
	return 0
}

func mapButtonState(state uint32) event.Button {
	var b event.Button
	if state&sdl.ButtonLMask() != 0 {
		b |= event.ButtonLeft
	}
	if state&sdl.ButtonMMask() != 0 {
		b |= event.ButtonMiddle
	}
	if state&sdl.ButtonRMask() != 0 {
		b |= event.ButtonRight
	}
	return b
}
