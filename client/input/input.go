package input

import (
	"fmt"

	pkginput "github.com/cbodonnell/stride/pkg/input"
	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// stickDeadZone ignores gamepad stick noise around the center.
const stickDeadZone = 0.15

// Keys is a set of resolved key bindings.
type Keys struct {
	Forward ebiten.Key
	Back    ebiten.Key
	Left    ebiten.Key
	Right   ebiten.Key
	Sprint  ebiten.Key
	Jump    ebiten.Key
	Crouch  ebiten.Key

	MouseScale float64
}

// ParseBindings resolves key names into ebiten keys.
func ParseBindings(b pkginput.Bindings) (Keys, error) {
	if b.MouseScale <= 0 {
		return Keys{}, fmt.Errorf("mouse scale must be positive, got %v", b.MouseScale)
	}
	keys := Keys{MouseScale: b.MouseScale}
	for _, binding := range []struct {
		action string
		name   string
		key    *ebiten.Key
	}{
		{"forward", b.Forward, &keys.Forward},
		{"back", b.Back, &keys.Back},
		{"left", b.Left, &keys.Left},
		{"right", b.Right, &keys.Right},
		{"sprint", b.Sprint, &keys.Sprint},
		{"jump", b.Jump, &keys.Jump},
		{"crouch", b.Crouch, &keys.Crouch},
	} {
		if err := binding.key.UnmarshalText([]byte(binding.name)); err != nil {
			return Keys{}, fmt.Errorf("failed to bind %s: %v", binding.action, err)
		}
	}
	return keys, nil
}

// Sampler reads keyboard, mouse and the first gamepad through ebiten. It must
// be sampled from the ebiten update goroutine.
type Sampler struct {
	keys Keys

	cursorX, cursorY int
	hasCursor        bool
}

func NewSampler(keys Keys) *Sampler {
	return &Sampler{keys: keys}
}

// Activate captures the cursor so mouse movement becomes look input.
func (s *Sampler) Activate() {
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	s.hasCursor = false
}

// Deactivate releases the cursor.
func (s *Sampler) Deactivate() {
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	s.hasCursor = false
}

func (s *Sampler) Sample() locomotion.Input {
	in := locomotion.Input{
		Forward: axis(ebiten.IsKeyPressed(s.keys.Forward), ebiten.IsKeyPressed(s.keys.Back)),
		Right:   axis(ebiten.IsKeyPressed(s.keys.Right), ebiten.IsKeyPressed(s.keys.Left)),
		Sprint:  ebiten.IsKeyPressed(s.keys.Sprint),
		Jump:    inpututil.IsKeyJustPressed(s.keys.Jump),
		Crouch:  inpututil.IsKeyJustPressed(s.keys.Crouch),
	}

	if in.Forward == 0 && in.Right == 0 {
		in.Forward, in.Right = gamepadAxes()
	}

	x, y := ebiten.CursorPosition()
	if s.hasCursor {
		in.LookX, in.LookY = lookDelta(x-s.cursorX, y-s.cursorY, s.keys.MouseScale)
	}
	s.cursorX, s.cursorY, s.hasCursor = x, y, true

	return in
}

// IsPositiveJustPressed returns a boolean value indicating whether the generic positive input is just pressed.
func IsPositiveJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter)
}

// IsNegativeJustPressed returns a boolean value indicating whether the generic negative input is just pressed.
func IsNegativeJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

func IsDebugJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyF3)
}

// lookDelta scales a cursor movement in pixels into look input. Cursor Y grows
// downward, look Y is positive upward.
func lookDelta(dx, dy int, scale float64) (float64, float64) {
	return float64(dx) * scale, -float64(dy) * scale
}

func axis(positive, negative bool) float64 {
	switch {
	case positive && !negative:
		return 1
	case negative && !positive:
		return -1
	}
	return 0
}

// gamepadAxes reads the left stick of the first standard-layout gamepad.
func gamepadAxes() (forward, right float64) {
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		right = deadZone(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal))
		// stick Y grows downward
		forward = -deadZone(ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical))
		return forward, right
	}
	return 0, 0
}

func deadZone(v float64) float64 {
	if v > -stickDeadZone && v < stickDeadZone {
		return 0
	}
	return v
}
