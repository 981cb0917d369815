package kinematic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestFinalVelocity(t *testing.T) {
	assert.InDelta(t, -3.0, FinalVelocity(0, 0.1, -30), 1e-12)
	assert.InDelta(t, 5.0, FinalVelocity(8, 0.1, -30), 1e-12)
}

func TestDisplacement(t *testing.T) {
	assert.InDelta(t, 0.8-0.15, Displacement(8, 0.1, -30), 1e-12)
}

func TestLerp(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{name: "start", t: 0, want: 2},
		{name: "middle", t: 0.5, want: 1.25},
		{name: "end", t: 1, want: 0.5},
		{name: "clamped below", t: -1, want: 2},
		{name: "clamped above", t: 3, want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Lerp(2, 0.5, tt.t), 1e-12)
		})
	}
}

func TestLerpVec3(t *testing.T) {
	got := LerpVec3(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0.5, 2}, 0.5)
	assertVec3InDelta(t, mgl64.Vec3{0, 0.25, 1}, got, 1e-12)
}

func TestBasis(t *testing.T) {
	tests := []struct {
		name        string
		yaw         float64
		wantForward mgl64.Vec3
		wantRight   mgl64.Vec3
	}{
		{name: "identity", yaw: 0, wantForward: Forward, wantRight: Right},
		{name: "quarter turn right", yaw: 90, wantForward: mgl64.Vec3{1, 0, 0}, wantRight: mgl64.Vec3{0, 0, -1}},
		{name: "half turn", yaw: 180, wantForward: mgl64.Vec3{0, 0, -1}, wantRight: mgl64.Vec3{-1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forward, right := Basis(Yaw(tt.yaw))
			assertVec3InDelta(t, tt.wantForward, forward, 1e-9)
			assertVec3InDelta(t, tt.wantRight, right, 1e-9)
		})
	}
}

func TestHeading(t *testing.T) {
	assert.InDelta(t, 0.0, Heading(mgl64.QuatIdent()), 1e-9)
	assert.InDelta(t, 90.0, Heading(Yaw(90)), 1e-9)
	assert.InDelta(t, -45.0, Heading(Yaw(-45)), 1e-9)
}

func TestPitch_tiltsForwardDown(t *testing.T) {
	forward := Pitch(90).Rotate(Forward)
	assertVec3InDelta(t, mgl64.Vec3{0, -1, 0}, forward, 1e-9)
}

func assertVec3InDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v, want %v", i, got, want)
	}
}
