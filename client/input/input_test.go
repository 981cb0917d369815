package input

import (
	"testing"

	pkginput "github.com/cbodonnell/stride/pkg/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBindings(t *testing.T) {
	keys, err := ParseBindings(pkginput.DefaultBindings())
	require.NoError(t, err)
	assert.Equal(t, ebiten.KeyW, keys.Forward)
	assert.Equal(t, ebiten.KeyShiftLeft, keys.Sprint)
	assert.Equal(t, ebiten.KeySpace, keys.Jump)
	assert.Equal(t, ebiten.KeyC, keys.Crouch)
	assert.Equal(t, 0.1, keys.MouseScale)

	bindings := pkginput.DefaultBindings()
	bindings.Jump = "NotAKey"
	_, err = ParseBindings(bindings)
	assert.Error(t, err)

	bindings = pkginput.DefaultBindings()
	bindings.MouseScale = 0
	_, err = ParseBindings(bindings)
	assert.Error(t, err)
}

func TestLookDelta(t *testing.T) {
	tests := []struct {
		name         string
		dx, dy       int
		scale        float64
		wantX, wantY float64
	}{
		{name: "still", scale: 0.1},
		{name: "right and down", dx: 20, dy: 10, scale: 0.1, wantX: 2, wantY: -1},
		{name: "left and up", dx: -5, dy: -40, scale: 0.5, wantX: -2.5, wantY: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := lookDelta(tt.dx, tt.dy, tt.scale)
			assert.InDelta(t, tt.wantX, x, 1e-12)
			assert.InDelta(t, tt.wantY, y, 1e-12)
		})
	}
}

func TestAxis(t *testing.T) {
	assert.Equal(t, 1.0, axis(true, false))
	assert.Equal(t, -1.0, axis(false, true))
	assert.Equal(t, 0.0, axis(true, true))
	assert.Equal(t, 0.0, axis(false, false))
}

func TestDeadZone(t *testing.T) {
	assert.Equal(t, 0.0, deadZone(0.1))
	assert.Equal(t, 0.0, deadZone(-0.1))
	assert.Equal(t, 0.5, deadZone(0.5))
	assert.Equal(t, -0.9, deadZone(-0.9))
}
