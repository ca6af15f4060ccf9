// Package input turns the SDL event stream into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType tags a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseWheel
)

// Event is one processed input event. Only the fields relevant to its
// type are set.
type Event struct {
	Type EventType
	Key  sdl.Scancode
	// New window size on resize events, in window coordinates.
	Width  int
	Height int
	// Cursor position in window coordinates.
	MouseX int
	MouseY int
	// Relative motion since the last motion event.
	RelX int
	RelY int
	// Bitmask of held buttons during motion (sdl.ButtonLMask etc).
	Buttons uint32
	Button  uint8
	// Click count for button events (2 = double click).
	Clicks uint8
	// Vertical wheel movement, positive away from the user.
	WheelY float32
}

// Input drains the SDL event queue once per frame.
type Input struct {
	events []Event
}

// New returns an empty input queue.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update polls all pending SDL events into the frame's event list and
// reports whether a quit was requested.
func (in *Input) Update() bool {
	in.events = in.events[:0]

	quit := false
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			in.events = append(in.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				in.events = append(in.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			// Key repeat is ignored so held toggle keys fire once.
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				in.events = append(in.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseMotionEvent:
			in.events = append(in.events, Event{
				Type:    EventMouseMove,
				MouseX:  int(e.X),
				MouseY:  int(e.Y),
				RelX:    int(e.XRel),
				RelY:    int(e.YRel),
				Buttons: e.State,
			})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				in.events = append(in.events, Event{
					Type:   EventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
					Clicks: e.Clicks,
				})
			}

		case *sdl.MouseWheelEvent:
			in.events = append(in.events, Event{Type: EventMouseWheel, WheelY: float32(e.PreciseY)})
		}
	}
	return quit
}

// Events returns the events drained by the last Update.
func (in *Input) Events() []Event {
	return in.events
}
