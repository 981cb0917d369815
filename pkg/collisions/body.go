package collisions

import (
	"fmt"
	"math"

	"github.com/cbodonnell/stride/pkg/kinematic"
	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

const (
	// skin is the contact tolerance used for resting and touching checks.
	skin = 1e-3
)

// BodyOptions configures a new Body.
type BodyOptions struct {
	// Position is the body origin. The collider is placed relative to it.
	Position mgl64.Vec3
	// Radius is the half-width of the collider footprint.
	Radius float64
	// CameraOffset is the camera position relative to the body origin.
	CameraOffset mgl64.Vec3
	Collider     locomotion.Collider
	// StandingCollider, if set, extends the headroom check to the space the
	// standing collider would occupy.
	StandingCollider locomotion.Collider
}

// Body is a character body moving through a Level. The collider is treated as
// an axis-aligned box; rotation does not change its footprint.
type Body struct {
	Position       mgl64.Vec3
	Rotation       mgl64.Quat
	CameraRotation mgl64.Quat

	radius       float64
	cameraOffset mgl64.Vec3
	collider     locomotion.Collider
	standing     locomotion.Collider
	grounded     bool

	level  *Level
	object *resolv.Object
}

func NewBody(level *Level, opts BodyOptions) (*Body, error) {
	if level == nil {
		return nil, fmt.Errorf("level is required")
	}
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("body radius must be positive, got %v", opts.Radius)
	}

	b := &Body{
		Position:       opts.Position,
		Rotation:       mgl64.QuatIdent(),
		CameraRotation: mgl64.QuatIdent(),
		radius:         opts.Radius,
		cameraOffset:   opts.CameraOffset,
		collider:       opts.Collider,
		standing:       opts.StandingCollider,
		level:          level,
	}
	bounds := b.Bounds()
	b.object = resolv.NewObject(bounds.Min.X(), bounds.Min.Z(), 2*opts.Radius, 2*opts.Radius, CollisionSpaceTagBody)
	level.Space.Add(b.object)
	b.grounded = b.supported()

	return b, nil
}

// Teleport places the body origin at position without resolving collisions.
func (b *Body) Teleport(position mgl64.Vec3) {
	b.Position = position
	b.syncObject()
	b.grounded = b.supported()
}

// Remove takes the body out of its level.
func (b *Body) Remove() {
	b.level.Space.Remove(b.object)
}

// Bounds returns the world-space box occupied by the collider.
func (b *Body) Bounds() Box {
	centerY := b.Position.Y() + b.collider.Center.Y()
	half := b.collider.Height / 2
	return Box{
		Min: mgl64.Vec3{b.Position.X() - b.radius + b.collider.Center.X(), centerY - half, b.Position.Z() - b.radius + b.collider.Center.Z()},
		Max: mgl64.Vec3{b.Position.X() + b.radius + b.collider.Center.X(), centerY + half, b.Position.Z() + b.radius + b.collider.Center.Z()},
	}
}

// Grounded reports whether the last move ended resting on a surface.
func (b *Body) Grounded() bool {
	return b.grounded
}

func (b *Body) Collider() locomotion.Collider {
	return b.collider
}

// CameraPosition returns the world-space camera position.
func (b *Body) CameraPosition() mgl64.Vec3 {
	return b.Position.Add(b.Rotation.Rotate(b.cameraOffset))
}

// LookDirection returns the world-space camera forward vector.
func (b *Body) LookDirection() mgl64.Vec3 {
	return b.Rotation.Mul(b.CameraRotation).Rotate(kinematic.Forward)
}

// Apply writes a controller output onto the body. While grounded, collider
// changes keep the bottom of the collider where it was.
func (b *Body) Apply(out locomotion.Output) {
	b.Rotation = out.BodyRotation
	b.CameraRotation = out.CameraRotation

	if out.Collider == b.collider {
		return
	}
	bottom := b.Bounds().Min.Y()
	b.collider = out.Collider
	if b.grounded {
		b.Position[1] += bottom - b.Bounds().Min.Y()
	}
	b.syncObject()
}

// Move displaces the body, resolving the vertical axis first and then each
// horizontal axis against the level. It returns the new grounded state.
func (b *Body) Move(displacement mgl64.Vec3) bool {
	landed := b.moveY(displacement.Y())
	b.moveX(displacement.X())
	b.moveZ(displacement.Z())
	b.syncObject()

	b.grounded = landed || b.supported()
	return b.grounded
}

// HeadroomBlocked casts upward from the camera and reports whether level
// geometry starts within distance above it. With a standing collider set, any
// geometry over the footprint below the standing top also blocks.
func (b *Body) HeadroomBlocked(distance float64) bool {
	origin := b.CameraPosition()
	bounds := b.Bounds()
	top := b.standingTop()
	for _, box := range b.candidates(bounds) {
		if box.containsXZ(origin.X(), origin.Z()) && box.Min.Y() >= origin.Y() && box.Min.Y() <= origin.Y()+distance {
			return true
		}
		if box.overlapsXZ(bounds) && box.Min.Y() >= bounds.Max.Y()-skin && box.Min.Y() < top-skin {
			return true
		}
	}
	return false
}

// standingTop returns where the top of the standing collider would be, using
// the same rule as Apply for a grounded body.
func (b *Body) standingTop() float64 {
	if b.standing.Height <= 0 {
		return math.Inf(-1)
	}
	if b.grounded {
		return b.Bounds().Min.Y() + b.standing.Height
	}
	return b.Position.Y() + b.standing.Center.Y() + b.standing.Height/2
}

func (b *Body) moveY(dy float64) bool {
	bounds := b.Bounds()
	allowed := dy
	candidates := b.candidates(sweep(bounds, mgl64.Vec3{0, dy, 0}))

	if dy <= 0 {
		if b.level.HasFloor && bounds.Min.Y()+dy < b.level.FloorY {
			allowed = math.Max(allowed, b.level.FloorY-bounds.Min.Y())
		}
		for _, box := range candidates {
			if !box.overlapsXZ(bounds) || box.Max.Y() > bounds.Min.Y()+skin {
				continue
			}
			if bounds.Min.Y()+dy < box.Max.Y() {
				allowed = math.Max(allowed, box.Max.Y()-bounds.Min.Y())
			}
		}
	} else {
		for _, box := range candidates {
			if !box.overlapsXZ(bounds) || box.Min.Y() < bounds.Max.Y()-skin {
				continue
			}
			if bounds.Max.Y()+dy > box.Min.Y() {
				allowed = math.Min(allowed, math.Max(0, box.Min.Y()-bounds.Max.Y()))
			}
		}
	}

	b.Position[1] += allowed
	return dy < 0 && allowed > dy
}

func (b *Body) moveX(dx float64) {
	if dx == 0 {
		return
	}
	bounds := b.Bounds()
	allowed := dx
	for _, box := range b.candidates(sweep(bounds, mgl64.Vec3{dx, 0, 0})) {
		if !box.overlapsY(bounds) || box.Min.Z() >= bounds.Max.Z() || box.Max.Z() <= bounds.Min.Z() {
			continue
		}
		if dx > 0 && box.Min.X() >= bounds.Max.X()-skin {
			allowed = math.Min(allowed, math.Max(0, box.Min.X()-bounds.Max.X()))
		} else if dx < 0 && box.Max.X() <= bounds.Min.X()+skin {
			allowed = math.Max(allowed, math.Min(0, box.Max.X()-bounds.Min.X()))
		}
	}
	b.Position[0] += allowed
	b.syncObject()
}

func (b *Body) moveZ(dz float64) {
	if dz == 0 {
		return
	}
	bounds := b.Bounds()
	allowed := dz
	for _, box := range b.candidates(sweep(bounds, mgl64.Vec3{0, 0, dz})) {
		if !box.overlapsY(bounds) || box.Min.X() >= bounds.Max.X() || box.Max.X() <= bounds.Min.X() {
			continue
		}
		if dz > 0 && box.Min.Z() >= bounds.Max.Z()-skin {
			allowed = math.Min(allowed, math.Max(0, box.Min.Z()-bounds.Max.Z()))
		} else if dz < 0 && box.Max.Z() <= bounds.Min.Z()+skin {
			allowed = math.Max(allowed, math.Min(0, box.Max.Z()-bounds.Min.Z()))
		}
	}
	b.Position[2] += allowed
	b.syncObject()
}

// supported reports whether the collider rests on the floor or a box top.
func (b *Body) supported() bool {
	bounds := b.Bounds()
	if b.level.HasFloor && math.Abs(bounds.Min.Y()-b.level.FloorY) <= skin {
		return true
	}
	for _, box := range b.candidates(bounds) {
		if box.overlapsXZ(bounds) && math.Abs(box.Max.Y()-bounds.Min.Y()) <= skin {
			return true
		}
	}
	return false
}

// candidates returns the level boxes sharing resolv cells with region. The
// query is padded by a cell on every side so boxes touching the region edge
// are never missed; callers do the exact overlap tests.
func (b *Body) candidates(region Box) []Box {
	defer b.syncObject()
	b.object.Position.X = region.Min.X() - cellSize
	b.object.Position.Y = region.Min.Z() - cellSize
	b.object.Size.X = region.Max.X() - region.Min.X() + 2*cellSize
	b.object.Size.Y = region.Max.Z() - region.Min.Z() + 2*cellSize
	b.object.Update()

	collision := b.object.Check(0, 0, CollisionSpaceTagLevel)
	if collision == nil {
		return nil
	}
	boxes := make([]Box, 0, len(collision.Objects))
	for _, obj := range collision.Objects {
		if box, ok := obj.Data.(Box); ok {
			boxes = append(boxes, box)
		}
	}
	return boxes
}

// syncObject moves the resolv footprint to match the collider.
func (b *Body) syncObject() {
	bounds := b.Bounds()
	b.object.Position.X = bounds.Min.X()
	b.object.Position.Y = bounds.Min.Z()
	b.object.Size.X = 2 * b.radius
	b.object.Size.Y = 2 * b.radius
	b.object.Update()
}

// sweep returns the box covering bounds before and after moving by d.
func sweep(bounds Box, d mgl64.Vec3) Box {
	moved := Box{Min: bounds.Min.Add(d), Max: bounds.Max.Add(d)}
	return Box{
		Min: mgl64.Vec3{math.Min(bounds.Min.X(), moved.Min.X()), math.Min(bounds.Min.Y(), moved.Min.Y()), math.Min(bounds.Min.Z(), moved.Min.Z())},
		Max: mgl64.Vec3{math.Max(bounds.Max.X(), moved.Max.X()), math.Max(bounds.Max.Y(), moved.Max.Y()), math.Max(bounds.Max.Z(), moved.Max.Z())},
	}
}
